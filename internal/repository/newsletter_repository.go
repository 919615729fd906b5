package repository

import (
	"errors"
	"strings"

	"github.com/ruda-paints/internal/models"

	"gorm.io/gorm"
)

// NewsletterRepository 订阅者数据访问接口
type NewsletterRepository interface {
	Create(sub *models.NewsletterSubscriber) error
	Update(sub *models.NewsletterSubscriber) error
	GetByEmail(email string) (*models.NewsletterSubscriber, error)
	GetByToken(token string) (*models.NewsletterSubscriber, error)
	GetByID(id uint) (*models.NewsletterSubscriber, error)
	List(filter NewsletterListFilter) ([]models.NewsletterSubscriber, int64, error)
	Stats() (*NewsletterStats, error)
}

// GormNewsletterRepository GORM 实现
type GormNewsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository 创建订阅仓库
func NewNewsletterRepository(db *gorm.DB) *GormNewsletterRepository {
	return &GormNewsletterRepository{db: db}
}

// Create 新增订阅者
func (r *GormNewsletterRepository) Create(sub *models.NewsletterSubscriber) error {
	return r.db.Create(sub).Error
}

// Update 保存订阅者
func (r *GormNewsletterRepository) Update(sub *models.NewsletterSubscriber) error {
	return r.db.Save(sub).Error
}

// GetByEmail 按邮箱查询，不存在返回 nil
func (r *GormNewsletterRepository) GetByEmail(email string) (*models.NewsletterSubscriber, error) {
	return r.first("email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetByToken 按退订令牌查询
func (r *GormNewsletterRepository) GetByToken(token string) (*models.NewsletterSubscriber, error) {
	return r.first("unsubscribe_token = ?", strings.TrimSpace(token))
}

// GetByID 按主键查询
func (r *GormNewsletterRepository) GetByID(id uint) (*models.NewsletterSubscriber, error) {
	return r.first("id = ?", id)
}

func (r *GormNewsletterRepository) first(cond string, arg interface{}) (*models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	if err := r.db.Where(cond, arg).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// List 订阅者分页列表，按订阅时间倒序
func (r *GormNewsletterRepository) List(filter NewsletterListFilter) ([]models.NewsletterSubscriber, int64, error) {
	query := r.db.Model(&models.NewsletterSubscriber{})
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if source := strings.TrimSpace(filter.Source); source != "" {
		query = query.Where("source = ?", source)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		cond, args := buildLikeCondition(r.db, []string{"email", "name"}, search)
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	subs := make([]models.NewsletterSubscriber, 0)
	if err := query.Order("subscribed_at DESC").Order("id DESC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// Stats 订阅统计
func (r *GormNewsletterRepository) Stats() (*NewsletterStats, error) {
	stats := &NewsletterStats{}
	if err := r.db.Model(&models.NewsletterSubscriber{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.NewsletterSubscriber{}).Where("active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active
	bySource, err := groupCount(r.db.Where("active = ?", true), &models.NewsletterSubscriber{}, "source")
	if err != nil {
		return nil, err
	}
	stats.BySource = bySource
	return stats, nil
}
