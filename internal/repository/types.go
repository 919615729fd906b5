package repository

import (
	"github.com/ruda-paints/internal/models"

	"github.com/Masterminds/squirrel"
)

// OrderSpec 单个排序字段，Column 必须来自白名单
type OrderSpec struct {
	Column string
	Desc   bool
}

// PaintQueryFilter 商品查询条件，谓词由查询构建器生成
type PaintQueryFilter struct {
	Where    squirrel.Sqlizer
	OrderBy  []OrderSpec
	Page     int
	PageSize int // 0 表示不分页
}

// PaintStats 商品统计
type PaintStats struct {
	TotalProducts     int64
	AvailableProducts int64
	FeaturedProducts  int64
	NewProducts       int64
	TotalValue        models.Money
	AveragePrice      models.Money
	MinPrice          models.Money
	MaxPrice          models.Money
	Categories        []CategoryStat
}

// CategoryStat 分类统计行
type CategoryStat struct {
	Category     string       `gorm:"column:category"`
	Count        int64        `gorm:"column:count"`
	AveragePrice models.Money `gorm:"column:average_price"`
}

// PriceListRow 价目表投影
type PriceListRow struct {
	Name        string
	Category    string
	Brand       string
	Size        string
	Price       models.Money
	Description string
}

// ContactListFilter 留言列表过滤条件
type ContactListFilter struct {
	Page      int
	PageSize  int
	Status    string
	Category  string
	Priority  string
	Search    string
	SortBy    string
	SortOrder string
}

// ContactStats 留言统计
type ContactStats struct {
	Total      int64
	ByStatus   map[string]int64
	ByCategory map[string]int64
	ByPriority map[string]int64
}

// NewsletterListFilter 订阅者列表过滤条件
type NewsletterListFilter struct {
	Page     int
	PageSize int
	Active   *bool
	Source   string
	Search   string
}

// NewsletterStats 订阅统计
type NewsletterStats struct {
	Total    int64
	Active   int64
	Inactive int64
	BySource map[string]int64
}
