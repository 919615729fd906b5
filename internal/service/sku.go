package service

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

// SKUGenerator 生成候选 SKU
type SKUGenerator func(brand, category string) string

// DefaultSKUGenerator 品牌前三位-分类前两位-四位随机数，例如 RUD-IN-4821
func DefaultSKUGenerator(brand, category string) string {
	return FormatSKU(brand, category, 1000+rand.IntN(9000))
}

// FormatSKU 按规则拼接 SKU
func FormatSKU(brand, category string, suffix int) string {
	return fmt.Sprintf("%s-%s-%04d", skuPrefix(brand, 3, "GEN"), skuPrefix(category, 2, "XX"), suffix)
}

// NormalizeSKU 人工录入的 SKU 统一去空格转大写
func NormalizeSKU(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func skuPrefix(value string, n int, fallback string) string {
	letters := make([]rune, 0, n)
	for _, r := range strings.ToUpper(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			letters = append(letters, r)
			if len(letters) == n {
				break
			}
		}
	}
	if len(letters) == 0 {
		return fallback
	}
	return string(letters)
}
