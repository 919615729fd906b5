package repository

import (
	"errors"
	"strings"

	"github.com/ruda-paints/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	GetByLogin(login string) (*models.Admin, error)
	GetByID(id uint) (*models.Admin, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	List() ([]models.Admin, error)
	Create(admin *models.Admin) error
	Update(admin *models.Admin) error
}

// GormAdminRepository GORM 实现
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓库
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByLogin 按用户名或邮箱查询，不存在返回 nil
func (r *GormAdminRepository) GetByLogin(login string) (*models.Admin, error) {
	login = strings.TrimSpace(login)
	var admin models.Admin
	err := r.db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByID 按主键查询
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// ExistsByUsernameOrEmail 用户名或邮箱是否已被占用
func (r *GormAdminRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	query := r.db.Model(&models.Admin{}).Where("username = ?", username)
	if email != "" {
		query = query.Or("email = ?", email)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 管理员列表
func (r *GormAdminRepository) List() ([]models.Admin, error) {
	admins := make([]models.Admin, 0)
	if err := r.db.Order("id ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// Create 创建管理员
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

// Update 保存管理员
func (r *GormAdminRepository) Update(admin *models.Admin) error {
	return r.db.Save(admin).Error
}
