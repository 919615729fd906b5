package repository

import (
	"errors"
	"strings"

	"github.com/ruda-paints/internal/models"

	"gorm.io/gorm"
)

// ContactRepository 留言数据访问接口
type ContactRepository interface {
	Create(msg *models.ContactMessage) error
	GetByID(id uint) (*models.ContactMessage, error)
	List(filter ContactListFilter) ([]models.ContactMessage, int64, error)
	Update(msg *models.ContactMessage) error
	Delete(id uint) (int64, error)
	Stats() (*ContactStats, error)
}

// GormContactRepository GORM 实现
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建留言仓库
func NewContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

var contactSortColumns = map[string]string{
	"createdat":  "created_at",
	"created_at": "created_at",
	"updatedat":  "updated_at",
	"updated_at": "updated_at",
	"status":     "status",
	"priority":   "priority",
	"category":   "category",
	"name":       "name",
	"subject":    "subject",
}

// Create 保存留言
func (r *GormContactRepository) Create(msg *models.ContactMessage) error {
	return r.db.Create(msg).Error
}

// GetByID 按主键查询，不存在返回 nil
func (r *GormContactRepository) GetByID(id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// List 留言分页列表
func (r *GormContactRepository) List(filter ContactListFilter) ([]models.ContactMessage, int64, error) {
	query := r.db.Model(&models.ContactMessage{})
	if status := strings.TrimSpace(filter.Status); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if category := strings.TrimSpace(filter.Category); category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if priority := strings.TrimSpace(filter.Priority); priority != "" && priority != "all" {
		query = query.Where("priority = ?", priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		cond, args := buildLikeCondition(r.db, []string{"name", "email", "subject", "message"}, search)
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := contactSortColumns[strings.ToLower(strings.TrimSpace(filter.SortBy))]
	if !ok {
		column = "created_at"
	}
	desc := !strings.EqualFold(strings.TrimSpace(filter.SortOrder), "asc")
	query = applyOrder(query, []OrderSpec{{Column: column, Desc: desc}, {Column: "id", Desc: desc}})
	query = applyPagination(query, filter.Page, filter.PageSize)

	messages := make([]models.ContactMessage, 0)
	if err := query.Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// Update 保存留言
func (r *GormContactRepository) Update(msg *models.ContactMessage) error {
	return r.db.Save(msg).Error
}

// Delete 删除留言
func (r *GormContactRepository) Delete(id uint) (int64, error) {
	result := r.db.Delete(&models.ContactMessage{}, id)
	return result.RowsAffected, result.Error
}

type groupCountRow struct {
	GroupKey string
	Count    int64
}

// Stats 留言统计
func (r *GormContactRepository) Stats() (*ContactStats, error) {
	stats := &ContactStats{}
	if err := r.db.Model(&models.ContactMessage{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	var err error
	if stats.ByStatus, err = groupCount(r.db, &models.ContactMessage{}, "status"); err != nil {
		return nil, err
	}
	if stats.ByCategory, err = groupCount(r.db, &models.ContactMessage{}, "category"); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = groupCount(r.db, &models.ContactMessage{}, "priority"); err != nil {
		return nil, err
	}
	return stats, nil
}

// groupCount 按列分组计数，column 只接受内部常量
func groupCount(db *gorm.DB, model interface{}, column string) (map[string]int64, error) {
	var rows []groupCountRow
	err := db.Model(model).
		Select(column + " AS group_key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.GroupKey] = row.Count
	}
	return out, nil
}
