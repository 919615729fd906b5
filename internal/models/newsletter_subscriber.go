package models

import "time"

// NewsletterSubscriber 邮件订阅者
type NewsletterSubscriber struct {
	ID               uint        `gorm:"primarykey" json:"id"`
	Email            string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name             string      `gorm:"type:varchar(100)" json:"name"`
	Active           bool        `gorm:"not null;default:true;index" json:"active"`
	Source           string      `gorm:"type:varchar(20);not null;default:'website'" json:"source"`
	Preferences      StringArray `gorm:"type:json" json:"preferences"`
	UnsubscribeToken string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	SubscribedAt     time.Time   `gorm:"index" json:"subscribed_at"`
	UnsubscribedAt   *time.Time  `json:"unsubscribed_at"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName 指定表名
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
