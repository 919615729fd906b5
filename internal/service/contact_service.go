package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruda-paints/internal/constants"
	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/repository"
)

// ContactService 客户留言
type ContactService struct {
	repo  repository.ContactRepository
	mails MailQueue
	now   func() time.Time
}

// NewContactService 创建留言服务
func NewContactService(repo repository.ContactRepository, mails MailQueue) *ContactService {
	return &ContactService{repo: repo, mails: mails, now: time.Now}
}

// ContactInput 前台提交的留言
type ContactInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=10,max=20"`
	Subject  string `json:"subject" validate:"required,min=5,max=200"`
	Message  string `json:"message" validate:"required,min=10,max=5000"`
	Category string `json:"category" validate:"omitempty,contact_category"`
	Priority string `json:"priority" validate:"omitempty,contact_priority"`
	Source   string `json:"source" validate:"omitempty,contact_source"`
}

// ClientMeta 请求来源信息
type ClientMeta struct {
	IP        string
	UserAgent string
}

// Submit 保存留言并通知店铺
func (s *ContactService) Submit(in ContactInput, meta ClientMeta) (*models.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	in.Source = strings.ToLower(strings.TrimSpace(in.Source))
	if err := validateStruct(in).OrNil(); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    constants.ContactStatusNew,
		Priority:  defaultString(in.Priority, constants.ContactPriorityNormal),
		Category:  defaultString(in.Category, "general"),
		Source:    defaultString(in.Source, "website"),
		IPAddress: truncate(meta.IP, 64),
		UserAgent: truncate(meta.UserAgent, 500),
	}
	if err := s.repo.Create(msg); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	if err := s.mails.EnqueueContactNotify(msg.ID); err != nil {
		logger.Warnw("contact_notify_enqueue_failed", "contact_id", msg.ID, "error", err)
	}
	logger.Infow("contact_submitted", "contact_id", msg.ID, "category", msg.Category)
	return msg, nil
}

// ContactPage 留言列表结果
type ContactPage struct {
	Items []models.ContactMessage
	Total int64
	Page  int
	Limit int
}

// List 后台留言列表
func (s *ContactService) List(filter repository.ContactListFilter) (*ContactPage, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return &ContactPage{Items: items, Total: total, Page: filter.Page, Limit: filter.PageSize}, nil
}

// Get 查看留言，未读留言自动标记为已读
func (s *ContactService) Get(id uint) (*models.ContactMessage, error) {
	msg, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if msg.Status == constants.ContactStatusNew {
		msg.Status = constants.ContactStatusRead
		if err := s.repo.Update(msg); err != nil {
			return nil, fmt.Errorf("mark contact read: %w", err)
		}
	}
	return msg, nil
}

// ContactUpdateInput 后台修改留言
type ContactUpdateInput struct {
	Status   string `json:"status" validate:"omitempty,contact_status"`
	Priority string `json:"priority" validate:"omitempty,contact_priority"`
	Category string `json:"category" validate:"omitempty,contact_category"`
}

// Update 修改状态、优先级或分类
func (s *ContactService) Update(id uint, in ContactUpdateInput) (*models.ContactMessage, error) {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Status == "" && in.Priority == "" && in.Category == "" {
		return nil, NewValidationError("status", "status is required")
	}
	if err := validateStruct(in).OrNil(); err != nil {
		return nil, err
	}
	msg, err := s.load(id)
	if err != nil {
		return nil, err
	}
	msg.Status = defaultString(in.Status, msg.Status)
	msg.Priority = defaultString(in.Priority, msg.Priority)
	msg.Category = defaultString(in.Category, msg.Category)
	if err := s.repo.Update(msg); err != nil {
		return nil, fmt.Errorf("update contact message: %w", err)
	}
	return msg, nil
}

type contactResponseRules struct {
	Response string `json:"response" validate:"required,min=10,max=5000"`
}

// Respond 回复留言并投递回复邮件
func (s *ContactService) Respond(id uint, response string, adminID uint) (*models.ContactMessage, error) {
	response = strings.TrimSpace(response)
	if err := validateStruct(contactResponseRules{Response: response}).OrNil(); err != nil {
		return nil, err
	}
	msg, err := s.load(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	msg.Response = response
	msg.Status = constants.ContactStatusReplied
	msg.RespondedAt = &now
	if adminID > 0 {
		msg.RespondedBy = &adminID
	}
	if err := s.repo.Update(msg); err != nil {
		return nil, fmt.Errorf("respond contact message: %w", err)
	}
	if err := s.mails.EnqueueContactReply(msg.ID); err != nil {
		logger.Warnw("contact_reply_enqueue_failed", "contact_id", msg.ID, "error", err)
	}
	logger.Infow("contact_responded", "contact_id", msg.ID, "admin_id", adminID)
	return msg, nil
}

// Delete 删除留言
func (s *ContactService) Delete(id uint) error {
	affected, err := s.repo.Delete(id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ContactStatistics 留言统计
type ContactStatistics struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByCategory map[string]int64 `json:"by_category"`
	ByPriority map[string]int64 `json:"by_priority"`
}

// Stats 留言统计，未出现的枚举值补 0
func (s *ContactService) Stats() (*ContactStatistics, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, fmt.Errorf("contact stats: %w", err)
	}
	return &ContactStatistics{
		Total:      stats.Total,
		ByStatus:   fillCounts(constants.ContactStatuses, stats.ByStatus),
		ByCategory: fillCounts(constants.ContactCategories, stats.ByCategory),
		ByPriority: fillCounts(constants.ContactPriorities, stats.ByPriority),
	}, nil
}

// Lookup 读取留言，不修改状态，供异步任务使用
func (s *ContactService) Lookup(id uint) (*models.ContactMessage, error) {
	return s.load(id)
}

func (s *ContactService) load(id uint) (*models.ContactMessage, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	msg, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load contact message %d: %w", id, err)
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return msg, nil
}

func fillCounts(keys []string, counts map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	for k, v := range counts {
		out[k] = v
	}
	return out
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
