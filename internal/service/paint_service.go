package service

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/repository"

	"github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// ImageStorage 商品图片存储，删除失败只记录日志
type ImageStorage interface {
	Remove(publicPath string) error
}

// PaintServiceOptions 目录服务参数
type PaintServiceOptions struct {
	MaxPrice    float64
	SKUAttempts int
	Paging      Paging
}

// PaintService 商品目录服务
type PaintService struct {
	repo   repository.PaintRepository
	images ImageStorage
	opts   PaintServiceOptions
	newSKU SKUGenerator
}

// NewPaintService 创建目录服务，图片存储根目录由调用方注入
func NewPaintService(repo repository.PaintRepository, images ImageStorage, opts PaintServiceOptions) *PaintService {
	if opts.MaxPrice <= 0 {
		opts.MaxPrice = 1000000
	}
	if opts.SKUAttempts <= 0 {
		opts.SKUAttempts = 5
	}
	if opts.Paging.DefaultLimit <= 0 {
		opts.Paging.DefaultLimit = 20
	}
	if opts.Paging.MaxLimit <= 0 {
		opts.Paging.MaxLimit = 100
	}
	return &PaintService{repo: repo, images: images, opts: opts, newSKU: DefaultSKUGenerator}
}

// SetSKUGenerator 替换 SKU 生成器
func (s *PaintService) SetSKUGenerator(gen SKUGenerator) {
	if gen != nil {
		s.newSKU = gen
	}
}

// Paging 返回分页参数，供查询构建器使用
func (s *PaintService) Paging() Paging {
	return s.opts.Paging
}

// PaintPage 列表结果
type PaintPage struct {
	Items []models.Paint
	Total int64
	Page  int
	Limit int
	Pages int
}

// List 执行查询构建器的结果，Limit 为 0 时返回全部
func (s *PaintService) List(q PaintQuery) (*PaintPage, error) {
	items, total, err := s.repo.Find(q.Filter())
	if err != nil {
		return nil, fmt.Errorf("list paints: %w", err)
	}
	if items == nil {
		items = []models.Paint{}
	}
	page := &PaintPage{Items: items, Total: total, Page: q.Page, Limit: q.Limit}
	if q.Limit > 0 {
		page.Pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return page, nil
}

// Featured 推荐商品
func (s *PaintService) Featured(limit int) ([]models.Paint, error) {
	return s.showcase(squirrel.Eq{"featured": true}, 8, limit)
}

// NewArrivals 新品
func (s *PaintService) NewArrivals(limit int) ([]models.Paint, error) {
	return s.showcase(squirrel.Eq{"new_arrival": true}, 8, limit)
}

// OnSale 促销商品
func (s *PaintService) OnSale(limit int) ([]models.Paint, error) {
	return s.showcase(squirrel.Expr("original_price IS NOT NULL AND original_price > price"), 12, limit)
}

func (s *PaintService) showcase(cond squirrel.Sqlizer, defaultLimit, limit int) ([]models.Paint, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > s.opts.Paging.MaxLimit {
		limit = s.opts.Paging.MaxLimit
	}
	page, err := s.List(PaintQuery{
		Where: squirrel.And{squirrel.Eq{"available": true}, cond},
		Sort:  []repository.OrderSpec{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}},
		Page:  1,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Get 查询单个商品，非法或不存在的 id 均视为 ErrNotFound
func (s *PaintService) Get(rawID string) (*models.Paint, error) {
	id, ok := parsePaintID(rawID)
	if !ok {
		return nil, ErrNotFound
	}
	return s.load(id)
}

// Create 创建商品；失败时删除本次上传的图片
func (s *PaintService) Create(in PaintInput) (*models.Paint, error) {
	paint := &models.Paint{Available: true, Features: models.StringArray{}}
	in.apply(paint)

	if err := s.validate(paint); err != nil {
		s.discardImage(in.ImagePath)
		return nil, err
	}

	if err := s.insertWithSKU(paint, in.SKU); err != nil {
		s.discardImage(in.ImagePath)
		return nil, err
	}
	logger.Infow("paint_created", "paint_id", paint.ID, "sku", derefString(paint.SKU))
	return paint, nil
}

func (s *PaintService) insertWithSKU(paint *models.Paint, supplied *string) error {
	if supplied != nil && NormalizeSKU(*supplied) != "" {
		sku := NormalizeSKU(*supplied)
		exists, err := s.repo.ExistsBySKU(sku)
		if err != nil {
			return fmt.Errorf("check sku: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: sku %s already exists", ErrConflict, sku)
		}
		paint.SKU = &sku
		if err := s.repo.Create(paint); err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: sku %s already exists", ErrConflict, sku)
			}
			return fmt.Errorf("create paint: %w", err)
		}
		return nil
	}

	// 随机后缀可能碰撞，有限次重试
	for attempt := 0; attempt < s.opts.SKUAttempts; attempt++ {
		sku := s.newSKU(paint.Brand, paint.Category)
		exists, err := s.repo.ExistsBySKU(sku)
		if err != nil {
			return fmt.Errorf("check sku: %w", err)
		}
		if exists {
			continue
		}
		paint.SKU = &sku
		err = s.repo.Create(paint)
		if err == nil {
			return nil
		}
		if !isDuplicateKey(err) {
			return fmt.Errorf("create paint: %w", err)
		}
		paint.ID = 0
	}
	return fmt.Errorf("%w: could not allocate a unique sku", ErrConflict)
}

// Update 局部更新；新图片只在保存成功后才删除旧图
func (s *PaintService) Update(rawID string, in PaintInput) (*models.Paint, error) {
	id, ok := parsePaintID(rawID)
	if !ok {
		s.discardImage(in.ImagePath)
		return nil, ErrNotFound
	}
	paint, err := s.load(id)
	if err != nil {
		s.discardImage(in.ImagePath)
		return nil, err
	}
	oldImage := paint.Image

	cols := in.apply(paint)
	if err := s.validate(paint); err != nil {
		s.discardImage(in.ImagePath)
		return nil, err
	}
	if in.SKU != nil {
		if sku := NormalizeSKU(*in.SKU); sku != "" && sku != derefString(paint.SKU) {
			exists, err := s.repo.ExistsBySKU(sku)
			if err != nil {
				s.discardImage(in.ImagePath)
				return nil, fmt.Errorf("check sku: %w", err)
			}
			if exists {
				s.discardImage(in.ImagePath)
				return nil, fmt.Errorf("%w: sku %s already exists", ErrConflict, sku)
			}
			paint.SKU = &sku
			cols = append(cols, "sku")
		}
	}
	if len(cols) > 0 {
		if err := s.repo.Update(paint, cols...); err != nil {
			s.discardImage(in.ImagePath)
			if isDuplicateKey(err) {
				return nil, fmt.Errorf("%w: sku already exists", ErrConflict)
			}
			return nil, fmt.Errorf("update paint: %w", err)
		}
	}
	if in.ImagePath != "" && oldImage != "" && oldImage != in.ImagePath {
		s.removeImage(oldImage)
	}
	logger.Infow("paint_updated", "paint_id", id, "fields", cols)
	return s.load(id)
}

// Delete 删除商品及其图片
func (s *PaintService) Delete(rawID string) error {
	id, ok := parsePaintID(rawID)
	if !ok {
		return ErrNotFound
	}
	paint, err := s.load(id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Delete(id)
	if err != nil {
		return fmt.Errorf("delete paint: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.removeImage(paint.Image)
	logger.Infow("paint_deleted", "paint_id", id)
	return nil
}

// BulkDelete 批量删除，返回实际删除数量；非法 id 忽略
func (s *PaintService) BulkDelete(rawIDs []string) (int, error) {
	if len(rawIDs) == 0 {
		return 0, NewValidationError("ids", "no paint ids provided")
	}
	ids := make([]uint, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, ok := parsePaintID(raw); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	removed, err := s.repo.DeleteByIDs(ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete paints: %w", err)
	}
	for _, p := range removed {
		s.removeImage(p.Image)
	}
	logger.Infow("paints_bulk_deleted", "requested", len(rawIDs), "deleted", len(removed))
	return len(removed), nil
}

// AdjustStock 增减库存，库存不足返回 ErrInsufficientStock，超出上限返回校验错误，均不修改记录
func (s *PaintService) AdjustStock(rawID string, delta int) (*models.Paint, error) {
	id, ok := parsePaintID(rawID)
	if !ok {
		return nil, ErrNotFound
	}
	if delta == 0 {
		return nil, NewValidationError("delta", "delta must not be zero")
	}
	if delta > models.MaxStockQuantity || delta < -models.MaxStockQuantity {
		return nil, NewValidationError("delta", fmt.Sprintf("delta must be between -%d and %d", models.MaxStockQuantity, models.MaxStockQuantity))
	}
	affected, err := s.repo.AdjustStock(id, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	if affected == 0 {
		if _, err := s.load(id); err != nil {
			return nil, err
		}
		if delta > 0 {
			return nil, NewValidationError("delta", fmt.Sprintf("stock cannot exceed %d", models.MaxStockQuantity))
		}
		return nil, ErrInsufficientStock
	}
	return s.load(id)
}

// ApplyRating 计入一次评分
func (s *PaintService) ApplyRating(rawID string, rating float64) (*models.Paint, error) {
	id, ok := parsePaintID(rawID)
	if !ok {
		return nil, ErrNotFound
	}
	if math.IsNaN(rating) || rating < 0 || rating > 5 {
		return nil, NewValidationError("rating", "rating must be between 0 and 5")
	}
	affected, err := s.repo.ApplyRating(id, rating)
	if err != nil {
		return nil, fmt.Errorf("apply rating: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.load(id)
}

// PaintStatistics 目录统计
type PaintStatistics struct {
	TotalProducts     int64               `json:"total_products"`
	AvailableProducts int64               `json:"available_products"`
	FeaturedProducts  int64               `json:"featured_products"`
	NewProducts       int64               `json:"new_products"`
	PriceStats        PriceStatistics     `json:"price_stats"`
	CategoryStats     []CategoryStatistic `json:"category_stats"`
}

// PriceStatistics 价格聚合
type PriceStatistics struct {
	TotalValue   models.Money `json:"total_value"`
	AveragePrice models.Money `json:"average_price"`
	MinPrice     models.Money `json:"min_price"`
	MaxPrice     models.Money `json:"max_price"`
}

// CategoryStatistic 分类聚合
type CategoryStatistic struct {
	Category     string       `json:"category"`
	Count        int64        `json:"count"`
	AveragePrice models.Money `json:"average_price"`
}

// Statistics 全目录统计
func (s *PaintService) Statistics() (*PaintStatistics, error) {
	stats, err := s.repo.Statistics()
	if err != nil {
		return nil, fmt.Errorf("paint statistics: %w", err)
	}
	out := &PaintStatistics{
		TotalProducts:     stats.TotalProducts,
		AvailableProducts: stats.AvailableProducts,
		FeaturedProducts:  stats.FeaturedProducts,
		NewProducts:       stats.NewProducts,
		PriceStats: PriceStatistics{
			TotalValue:   stats.TotalValue,
			AveragePrice: stats.AveragePrice,
			MinPrice:     stats.MinPrice,
			MaxPrice:     stats.MaxPrice,
		},
		CategoryStats: make([]CategoryStatistic, 0, len(stats.Categories)),
	}
	for _, c := range stats.Categories {
		out.CategoryStats = append(out.CategoryStats, CategoryStatistic{
			Category:     c.Category,
			Count:        c.Count,
			AveragePrice: c.AveragePrice,
		})
	}
	return out, nil
}

// ReferencedImages 被商品引用的图片路径集合
func (s *PaintService) ReferencedImages() (map[string]struct{}, error) {
	paths, err := s.repo.ListImagePaths()
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		out[p] = struct{}{}
	}
	return out, nil
}

type paintRules struct {
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Category      string   `json:"category" validate:"required,paint_category"`
	Brand         string   `json:"brand" validate:"required,max=100"`
	Size          string   `json:"size" validate:"required,paint_size"`
	Description   string   `json:"description" validate:"max=1000"`
	Features      []string `json:"features" validate:"max=30,dive,max=100"`
	Price         float64  `json:"price" validate:"gt=0"`
	OriginalPrice *float64 `json:"original_price" validate:"omitempty,gte=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0,lte=1000000"`
}

func (s *PaintService) validate(p *models.Paint) error {
	rules := paintRules{
		Name:          p.Name,
		Category:      p.Category,
		Brand:         p.Brand,
		Size:          p.Size,
		Description:   p.Description,
		Features:      p.Features,
		Price:         p.Price.Float64(),
		StockQuantity: p.StockQuantity,
	}
	if p.OriginalPrice != nil {
		v := p.OriginalPrice.Float64()
		rules.OriginalPrice = &v
	}
	verr := &ValidationError{}
	verr.Merge(validateStruct(rules))
	if rules.Price > s.opts.MaxPrice {
		verr.Add("price", fmt.Sprintf("price cannot exceed %s", strconv.FormatFloat(s.opts.MaxPrice, 'f', -1, 64)))
	}
	if rules.OriginalPrice != nil && *rules.OriginalPrice > s.opts.MaxPrice {
		verr.Add("original_price", fmt.Sprintf("original_price cannot exceed %s", strconv.FormatFloat(s.opts.MaxPrice, 'f', -1, 64)))
	}
	return verr.OrNil()
}

func (s *PaintService) load(id uint) (*models.Paint, error) {
	paint, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load paint %d: %w", id, err)
	}
	if paint == nil {
		return nil, ErrNotFound
	}
	return paint, nil
}

func (s *PaintService) removeImage(path string) {
	if path == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(path); err != nil {
		logger.Warnw("paint_image_remove_failed", "path", path, "error", err)
	}
}

func (s *PaintService) discardImage(path string) {
	if path == "" {
		return
	}
	s.removeImage(path)
}

func parsePaintID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
