package service

import (
	"strconv"
	"strings"

	"github.com/ruda-paints/internal/models"
)

// PaintInput 创建或更新商品的字段，nil 表示请求未携带
type PaintInput struct {
	Name               *string
	Category           *string
	Brand              *string
	Size               *string
	Description        *string
	SKU                *string
	Features           *[]string
	Price              *models.Money
	OriginalPrice      *models.Money
	ClearOriginalPrice bool
	StockQuantity      *int
	Available          *bool
	Featured           *bool
	NewArrival         *bool
	// ImagePath 已落盘的新图片路径，由上传服务返回
	ImagePath string
}

// ParsePaintForm 将 multipart/urlencoded 表单解析为 PaintInput，数字字段解析失败返回 ValidationError
func ParsePaintForm(form map[string][]string) (PaintInput, error) {
	var in PaintInput
	verr := &ValidationError{}

	in.Name = formString(form, "name")
	in.Category = formString(form, "category")
	in.Brand = formString(form, "brand")
	in.Size = formString(form, "size")
	in.Description = formString(form, "description")
	in.SKU = formString(form, "sku")

	if values, ok := form["features"]; ok {
		features := make([]string, 0)
		for _, v := range values {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					features = append(features, part)
				}
			}
		}
		in.Features = &features
	}

	if raw := formString(form, "price"); raw != nil {
		m, err := models.ParseMoney(*raw)
		if err != nil {
			verr.Add("price", "price must be a positive number")
		} else {
			in.Price = &m
		}
	}
	if raw := formString(form, "original_price", "originalPrice"); raw != nil {
		switch v := strings.ToLower(*raw); v {
		case "", "null":
			in.ClearOriginalPrice = true
		default:
			m, err := models.ParseMoney(v)
			if err != nil {
				verr.Add("original_price", "original_price must be a number")
			} else {
				in.OriginalPrice = &m
			}
		}
	}
	if raw := formString(form, "stock_quantity", "stockQuantity"); raw != nil && *raw != "" {
		n, err := strconv.Atoi(*raw)
		if err != nil {
			verr.Add("stock_quantity", "stock_quantity must be a whole number")
		} else {
			in.StockQuantity = &n
		}
	}

	// available 只有显式 false 才关闭，featured/new_arrival 只有显式 true 才开启
	if raw := formString(form, "available"); raw != nil {
		v := !isFalseWord(*raw)
		in.Available = &v
	}
	if raw := formString(form, "featured"); raw != nil {
		v := isTrueWord(*raw)
		in.Featured = &v
	}
	if raw := formString(form, "new_arrival", "newArrival"); raw != nil {
		v := isTrueWord(*raw)
		in.NewArrival = &v
	}

	return in, verr.OrNil()
}

// apply 把已提供字段写入模型，返回被修改的列
func (in PaintInput) apply(p *models.Paint) []string {
	cols := make([]string, 0, 16)
	setString := func(dst *string, src *string, col string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			cols = append(cols, col)
		}
	}
	setString(&p.Name, in.Name, "name")
	setString(&p.Category, in.Category, "category")
	setString(&p.Brand, in.Brand, "brand")
	setString(&p.Size, in.Size, "size")
	setString(&p.Description, in.Description, "description")
	if in.Features != nil {
		p.Features = models.StringArray(*in.Features)
		cols = append(cols, "features")
	}
	if in.Price != nil {
		p.Price = *in.Price
		cols = append(cols, "price")
	}
	if in.ClearOriginalPrice {
		p.OriginalPrice = nil
		cols = append(cols, "original_price")
	} else if in.OriginalPrice != nil {
		m := *in.OriginalPrice
		p.OriginalPrice = &m
		cols = append(cols, "original_price")
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
		cols = append(cols, "stock_quantity")
	}
	if in.Available != nil {
		p.Available = *in.Available
		cols = append(cols, "available")
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
		cols = append(cols, "featured")
	}
	if in.NewArrival != nil {
		p.NewArrival = *in.NewArrival
		cols = append(cols, "new_arrival")
	}
	if in.ImagePath != "" {
		p.Image = in.ImagePath
		cols = append(cols, "image")
	}
	return cols
}

func formString(form map[string][]string, keys ...string) *string {
	for _, key := range keys {
		if values, ok := form[key]; ok && len(values) > 0 {
			v := strings.TrimSpace(values[0])
			return &v
		}
	}
	return nil
}

func isTrueWord(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

func isFalseWord(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "false", "0", "off", "no":
		return true
	}
	return false
}
