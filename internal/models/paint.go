package models

import (
	"time"

	"github.com/ruda-paints/internal/constants"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxStockQuantity 单个商品库存上限
const MaxStockQuantity = 1000000

// Paint 油漆商品表
type Paint struct {
	ID             uint        `gorm:"primarykey" json:"id"`                                          // 主键
	Name           string      `gorm:"type:varchar(100);not null;index" json:"name"`                  // 名称
	Category       string      `gorm:"type:varchar(20);not null;index" json:"category"`               // 分类
	Brand          string      `gorm:"type:varchar(100);not null;default:'Ruda Paints'" json:"brand"` // 品牌
	Size           string      `gorm:"type:varchar(10);not null;default:'4L'" json:"size"`            // 容量规格
	Description    string      `gorm:"type:varchar(1000)" json:"description"`                         // 描述
	Features       StringArray `gorm:"type:json" json:"features"`                                     // 卖点标签
	Price          Money       `gorm:"type:decimal(20,2);not null;default:0;index" json:"price"`      // 售价
	OriginalPrice  *Money      `gorm:"type:decimal(20,2)" json:"original_price"`                      // 原价，存在且高于售价即为促销
	StockQuantity  int         `gorm:"not null;default:0" json:"stock_quantity"`                      // 库存数量
	Available      bool        `gorm:"not null;index" json:"available"`                               // 是否可售（零值需要落库，不设默认值）
	Featured       bool        `gorm:"not null;default:false;index" json:"featured"`                  // 是否推荐
	NewArrival     bool        `gorm:"not null;default:false" json:"new_arrival"`                     // 是否新品
	Rating         float64     `gorm:"not null;default:0" json:"rating"`                              // 平均评分
	ReviewCount    int         `gorm:"not null;default:0" json:"review_count"`                        // 评分次数
	SKU            *string     `gorm:"column:sku;type:varchar(32);uniqueIndex" json:"sku,omitempty"`  // 库存编码
	Image          string      `gorm:"type:varchar(500)" json:"image"`                                // 图片路径 /uploads/<filename>
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time   `json:"updated_at"`                                                    // 更新时间

	DiscountPercentage     int    `gorm:"-" json:"discount_percentage"`                // 折扣百分比（不落库）
	FormattedPrice         string `gorm:"-" json:"formatted_price"`                    // 格式化售价（不落库）
	FormattedOriginalPrice string `gorm:"-" json:"formatted_original_price,omitempty"` // 格式化原价（不落库）
	Status                 string `gorm:"-" json:"status"`                             // 展示状态（不落库）
}

// TableName 指定表名
func (Paint) TableName() string {
	return "paints"
}

// OnSale 原价存在且高于售价
func (p *Paint) OnSale() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price.Decimal)
}

// ComputeDiscount 四舍五入的折扣百分比，非促销返回 0
func (p *Paint) ComputeDiscount() int {
	if !p.OnSale() || p.OriginalPrice.IsZero() {
		return 0
	}
	orig := p.OriginalPrice.Decimal
	pct := orig.Sub(p.Price.Decimal).Mul(decimal.NewFromInt(100)).Div(orig)
	return int(pct.Round(0).IntPart())
}

// ComputeStatus 按 可售 > 促销 > 推荐 > 新品 的优先级给出状态
func (p *Paint) ComputeStatus() string {
	switch {
	case !p.Available:
		return constants.PaintStatusOutOfStock
	case p.OnSale():
		return constants.PaintStatusOnSale
	case p.Featured:
		return constants.PaintStatusFeatured
	case p.NewArrival:
		return constants.PaintStatusNew
	default:
		return constants.PaintStatusAvailable
	}
}

// FillDerived 刷新派生字段
func (p *Paint) FillDerived() {
	p.DiscountPercentage = p.ComputeDiscount()
	p.FormattedPrice = p.Price.Formatted()
	p.FormattedOriginalPrice = ""
	if p.OriginalPrice != nil {
		p.FormattedOriginalPrice = p.OriginalPrice.Formatted()
	}
	p.Status = p.ComputeStatus()
	if p.Features == nil {
		p.Features = StringArray{}
	}
}

// AfterFind 查询后计算派生字段
func (p *Paint) AfterFind(tx *gorm.DB) error {
	p.FillDerived()
	return nil
}

// AfterSave 写入后计算派生字段
func (p *Paint) AfterSave(tx *gorm.DB) error {
	p.FillDerived()
	return nil
}
