package repository

import (
	"errors"
	"fmt"

	"github.com/ruda-paints/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaintRepository 油漆商品数据访问接口
type PaintRepository interface {
	Create(paint *models.Paint) error
	Update(paint *models.Paint, columns ...string) error
	GetByID(id uint) (*models.Paint, error)
	ExistsBySKU(sku string) (bool, error)
	Delete(id uint) (int64, error)
	DeleteByIDs(ids []uint) ([]models.Paint, error)
	Find(filter PaintQueryFilter) ([]models.Paint, int64, error)
	ListPriceListRows() ([]PriceListRow, error)
	AdjustStock(id uint, delta int) (int64, error)
	ApplyRating(id uint, rating float64) (int64, error)
	Statistics() (*PaintStats, error)
	ListImagePaths() ([]string, error)
	WithTx(tx *gorm.DB) PaintRepository
}

// GormPaintRepository GORM 实现
type GormPaintRepository struct {
	db *gorm.DB
}

// NewPaintRepository 创建商品仓库
func NewPaintRepository(db *gorm.DB) *GormPaintRepository {
	return &GormPaintRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaintRepository) WithTx(tx *gorm.DB) PaintRepository {
	if tx == nil {
		return r
	}
	return &GormPaintRepository{db: tx}
}

// Create 创建商品
func (r *GormPaintRepository) Create(paint *models.Paint) error {
	return r.db.Create(paint).Error
}

// Update 保存商品；指定列时只更新这些列，避免覆盖并发的库存变更
func (r *GormPaintRepository) Update(paint *models.Paint, columns ...string) error {
	if len(columns) == 0 {
		return r.db.Save(paint).Error
	}
	return r.db.Model(paint).Select(append(columns, "updated_at")).Updates(paint).Error
}

// GetByID 按主键查询，不存在返回 nil
func (r *GormPaintRepository) GetByID(id uint) (*models.Paint, error) {
	var paint models.Paint
	if err := r.db.First(&paint, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &paint, nil
}

// ExistsBySKU 判断 SKU 是否已被占用
func (r *GormPaintRepository) ExistsBySKU(sku string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Paint{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete 删除商品，返回实际删除行数
func (r *GormPaintRepository) Delete(id uint) (int64, error) {
	result := r.db.Delete(&models.Paint{}, id)
	return result.RowsAffected, result.Error
}

// DeleteByIDs 批量删除并返回被删除的记录（用于清理图片）
func (r *GormPaintRepository) DeleteByIDs(ids []uint) ([]models.Paint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var removed []models.Paint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id IN ?", ids).Find(&removed).Error; err != nil {
			return err
		}
		if len(removed) == 0 {
			return nil
		}
		found := make([]uint, 0, len(removed))
		for _, p := range removed {
			found = append(found, p.ID)
		}
		return tx.Where("id IN ?", found).Delete(&models.Paint{}).Error
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Find 按谓词查询，PageSize 为 0 时返回全部
func (r *GormPaintRepository) Find(filter PaintQueryFilter) ([]models.Paint, int64, error) {
	query := r.db.Model(&models.Paint{})
	if filter.Where != nil {
		where, args, err := filter.Where.ToSql()
		if err != nil {
			return nil, 0, err
		}
		if where != "" {
			query = query.Where(where, args...)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyOrder(query, filter.OrderBy)
	query = applyPagination(query, filter.Page, filter.PageSize)

	var paints []models.Paint
	if err := query.Find(&paints).Error; err != nil {
		return nil, 0, err
	}
	return paints, total, nil
}

// ListPriceListRows 可售商品投影，按分类、名称排序
func (r *GormPaintRepository) ListPriceListRows() ([]PriceListRow, error) {
	var rows []PriceListRow
	err := r.db.Model(&models.Paint{}).
		Select("name, category, brand, size, price, description").
		Where("available = ?", true).
		Order("category ASC").Order("name ASC").Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AdjustStock 原子调整库存：扣减不足或超出库存上限时不更新，归零下架，从零补货重新上架
func (r *GormPaintRepository) AdjustStock(id uint, delta int) (int64, error) {
	if delta == 0 {
		return 0, nil
	}
	if delta > models.MaxStockQuantity || delta < -models.MaxStockQuantity {
		return 0, fmt.Errorf("stock delta %d out of range", delta)
	}
	query := r.db.Model(&models.Paint{}).Where("id = ?", id)
	var updates map[string]interface{}
	if delta < 0 {
		n := -delta
		query = query.Where("stock_quantity >= ?", n)
		updates = map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", n),
			"available":      gorm.Expr("CASE WHEN stock_quantity - ? = 0 THEN ? ELSE available END", n, false),
		}
	} else {
		query = query.Where("stock_quantity <= ?", models.MaxStockQuantity-delta)
		updates = map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
			"available":      gorm.Expr("CASE WHEN stock_quantity = 0 THEN ? ELSE available END", true),
		}
	}
	result := query.Updates(updates)
	return result.RowsAffected, result.Error
}

// ApplyRating 原子更新滚动平均评分
func (r *GormPaintRepository) ApplyRating(id uint, rating float64) (int64, error) {
	result := r.db.Model(&models.Paint{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       gorm.Expr("(rating * review_count + ?) / (review_count + 1)", rating),
			"review_count": gorm.Expr("review_count + 1"),
		})
	return result.RowsAffected, result.Error
}

type paintAggregateRow struct {
	TotalProducts     int64
	AvailableProducts int64
	FeaturedProducts  int64
	NewProducts       int64
	TotalValue        decimal.NullDecimal
	AveragePrice      decimal.NullDecimal
	MinPrice          decimal.NullDecimal
	MaxPrice          decimal.NullDecimal
}

// Statistics 全表聚合统计
func (r *GormPaintRepository) Statistics() (*PaintStats, error) {
	var agg paintAggregateRow
	err := r.db.Model(&models.Paint{}).Select(
		"COUNT(*) AS total_products, " +
			"COALESCE(SUM(CASE WHEN available THEN 1 ELSE 0 END), 0) AS available_products, " +
			"COALESCE(SUM(CASE WHEN featured THEN 1 ELSE 0 END), 0) AS featured_products, " +
			"COALESCE(SUM(CASE WHEN new_arrival THEN 1 ELSE 0 END), 0) AS new_products, " +
			"SUM(price) AS total_value, AVG(price) AS average_price, " +
			"MIN(price) AS min_price, MAX(price) AS max_price",
	).Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	categories := make([]CategoryStat, 0)
	err = r.db.Model(&models.Paint{}).
		Select("category, COUNT(*) AS count, AVG(price) AS average_price").
		Group("category").
		Order("category ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}

	return &PaintStats{
		TotalProducts:     agg.TotalProducts,
		AvailableProducts: agg.AvailableProducts,
		FeaturedProducts:  agg.FeaturedProducts,
		NewProducts:       agg.NewProducts,
		TotalValue:        nullMoney(agg.TotalValue),
		AveragePrice:      nullMoney(agg.AveragePrice),
		MinPrice:          nullMoney(agg.MinPrice),
		MaxPrice:          nullMoney(agg.MaxPrice),
		Categories:        categories,
	}, nil
}

// ListImagePaths 所有被引用的图片路径
func (r *GormPaintRepository) ListImagePaths() ([]string, error) {
	var paths []string
	if err := r.db.Model(&models.Paint{}).Where("image <> ?", "").Pluck("image", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func applyOrder(query *gorm.DB, specs []OrderSpec) *gorm.DB {
	for _, spec := range specs {
		if spec.Column == "" {
			continue
		}
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: spec.Column}, Desc: spec.Desc})
	}
	return query
}

func nullMoney(v decimal.NullDecimal) models.Money {
	if !v.Valid {
		return models.Money{Decimal: decimal.Zero}
	}
	return models.NewMoneyFromDecimal(v.Decimal)
}
