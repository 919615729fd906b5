package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyCode 店铺结算币种
const CurrencyCode = "KES"

var kesPrinter = message.NewPrinter(language.MustParse("en-KE"))

// Money 金额类型，数据库保留 2 位小数，JSON 输出为数字
type Money struct {
	decimal.Decimal
}

// NewMoney 从浮点数创建金额
func NewMoney(v float64) Money {
	return Money{Decimal: decimal.NewFromFloat(v).Round(2)}
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// ParseMoney 解析文本金额
func ParseMoney(raw string) (Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", raw, err)
	}
	return NewMoneyFromDecimal(d), nil
}

// Float64 返回近似浮点值，用于表格与校验
func (m Money) Float64() float64 {
	return m.Decimal.InexactFloat64()
}

// Formatted 按本地习惯格式化为 "KES 4,500"
func (m Money) Formatted() string {
	return kesPrinter.Sprintf("%s %v", CurrencyCode, number.Decimal(m.Decimal.Round(0).IntPart()))
}

// MarshalJSON 输出裸数字
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.Round(2).String()), nil
}

// UnmarshalJSON 兼容数字与字符串
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseMoney(s)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return err
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}

// Value 写库
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan 读库
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}
