package models

import "time"

// ContactMessage 客户留言
type ContactMessage struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Email       string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone       string     `gorm:"type:varchar(20)" json:"phone"`
	Subject     string     `gorm:"type:varchar(200);not null" json:"subject"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Status      string     `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	Priority    string     `gorm:"type:varchar(20);not null;default:'normal';index" json:"priority"`
	Category    string     `gorm:"type:varchar(20);not null;default:'general';index" json:"category"`
	Source      string     `gorm:"type:varchar(20);not null;default:'website'" json:"source"`
	IPAddress   string     `gorm:"type:varchar(64)" json:"ip_address"`
	UserAgent   string     `gorm:"type:varchar(500)" json:"user_agent"`
	Response    string     `gorm:"type:text" json:"response"`
	RespondedAt *time.Time `json:"responded_at"`
	RespondedBy *uint      `gorm:"index" json:"responded_by"` // 回复的管理员
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (ContactMessage) TableName() string {
	return "contact_messages"
}
