package models

import (
	"time"
)

// Admin 管理员表
type Admin struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                     // 主键
	Username     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`    // 登录账号
	Email        string     `gorm:"type:varchar(255);index" json:"email"`                     // 邮箱
	Name         string     `gorm:"type:varchar(100)" json:"name"`                            // 显示名
	PasswordHash string     `gorm:"not null" json:"-"`                                        // 密码哈希
	Role         string     `gorm:"type:varchar(20);not null;default:'admin'" json:"role"`    // admin / super-admin
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`                   // 是否启用
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                              // 令牌版本，改密时递增
	LastLoginAt  *time.Time `json:"last_login_at"`                                            // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                               // 更新时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
