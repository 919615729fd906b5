package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ruda-paints/internal/constants"
	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/repository"
)

// NewsletterService 邮件订阅
type NewsletterService struct {
	repo  repository.NewsletterRepository
	mails MailQueue
	now   func() time.Time
}

// NewNewsletterService 创建订阅服务
func NewNewsletterService(repo repository.NewsletterRepository, mails MailQueue) *NewsletterService {
	return &NewsletterService{repo: repo, mails: mails, now: time.Now}
}

// SubscribeInput 订阅请求
type SubscribeInput struct {
	Email       string   `json:"email" validate:"required,email,max=255"`
	Name        string   `json:"name" validate:"max=100"`
	Source      string   `json:"source" validate:"omitempty,newsletter_source"`
	Preferences []string `json:"preferences" validate:"max=10,dive,newsletter_pref"`
}

// SubscribeOutcome 订阅结果
type SubscribeOutcome string

const (
	SubscribeCreated     SubscribeOutcome = "created"
	SubscribeReactivated SubscribeOutcome = "reactivated"
)

// Subscribe 订阅；已激活的邮箱返回 ErrAlreadySubscribed，已退订的重新激活
func (s *NewsletterService) Subscribe(in SubscribeInput) (*models.NewsletterSubscriber, SubscribeOutcome, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Source = strings.ToLower(strings.TrimSpace(in.Source))
	if err := validateStruct(in).OrNil(); err != nil {
		return nil, "", err
	}
	prefs := in.Preferences
	if len(prefs) == 0 {
		prefs = append([]string(nil), constants.DefaultNewsletterPreferences...)
	}

	existing, err := s.repo.GetByEmail(in.Email)
	if err != nil {
		return nil, "", fmt.Errorf("lookup subscriber: %w", err)
	}
	now := s.now()

	if existing != nil {
		if existing.Active {
			return existing, "", ErrAlreadySubscribed
		}
		existing.Active = true
		existing.SubscribedAt = now
		existing.UnsubscribedAt = nil
		existing.Preferences = models.StringArray(prefs)
		if in.Name != "" {
			existing.Name = in.Name
		}
		if err := s.repo.Update(existing); err != nil {
			return nil, "", fmt.Errorf("reactivate subscriber: %w", err)
		}
		logger.Infow("newsletter_resubscribed", "subscriber_id", existing.ID)
		return existing, SubscribeReactivated, nil
	}

	token, err := newUnsubscribeToken()
	if err != nil {
		return nil, "", err
	}
	sub := &models.NewsletterSubscriber{
		Email:            in.Email,
		Name:             in.Name,
		Active:           true,
		Source:           defaultString(in.Source, "website"),
		Preferences:      models.StringArray(prefs),
		UnsubscribeToken: token,
		SubscribedAt:     now,
	}
	if err := s.repo.Create(sub); err != nil {
		if isDuplicateKey(err) {
			return nil, "", ErrAlreadySubscribed
		}
		return nil, "", fmt.Errorf("create subscriber: %w", err)
	}
	if err := s.mails.EnqueueNewsletterWelcome(sub.ID); err != nil {
		logger.Warnw("newsletter_welcome_enqueue_failed", "subscriber_id", sub.ID, "error", err)
	}
	logger.Infow("newsletter_subscribed", "subscriber_id", sub.ID, "source", sub.Source)
	return sub, SubscribeCreated, nil
}

// Unsubscribe 按邮箱或退订令牌退订，令牌随之轮换
func (s *NewsletterService) Unsubscribe(email, token string) (*models.NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	token = strings.TrimSpace(token)
	if email == "" && token == "" {
		return nil, NewValidationError("email", "email or token is required")
	}

	var (
		sub *models.NewsletterSubscriber
		err error
	)
	if token != "" {
		sub, err = s.repo.GetByToken(token)
	} else {
		sub, err = s.repo.GetByEmail(email)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	if !sub.Active {
		return sub, nil
	}

	rotated, err := newUnsubscribeToken()
	if err != nil {
		return nil, err
	}
	now := s.now()
	sub.Active = false
	sub.UnsubscribedAt = &now
	sub.UnsubscribeToken = rotated
	if err := s.repo.Update(sub); err != nil {
		return nil, fmt.Errorf("unsubscribe: %w", err)
	}
	logger.Infow("newsletter_unsubscribed", "subscriber_id", sub.ID)
	return sub, nil
}

// SubscriptionStatus 公开查询结果
type SubscriptionStatus struct {
	Subscribed   bool       `json:"subscribed"`
	SubscribedAt *time.Time `json:"subscribed_at,omitempty"`
	Preferences  []string   `json:"preferences,omitempty"`
}

// Check 查询邮箱是否处于订阅状态
func (s *NewsletterService) Check(email string) (*SubscriptionStatus, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !isEmail(email) {
		return nil, NewValidationError("email", "email must be a valid email address")
	}
	sub, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}
	if sub == nil || !sub.Active {
		return &SubscriptionStatus{Subscribed: false}, nil
	}
	at := sub.SubscribedAt
	return &SubscriptionStatus{Subscribed: true, SubscribedAt: &at, Preferences: sub.Preferences}, nil
}

// SubscriberPage 订阅者列表结果
type SubscriberPage struct {
	Items []models.NewsletterSubscriber
	Total int64
	Page  int
	Limit int
}

// List 后台订阅者列表
func (s *NewsletterService) List(filter repository.NewsletterListFilter) (*SubscriberPage, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return &SubscriberPage{Items: items, Total: total, Page: filter.Page, Limit: filter.PageSize}, nil
}

// NewsletterStatistics 订阅统计
type NewsletterStatistics struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	BySource map[string]int64 `json:"by_source"`
}

// Stats 订阅统计
func (s *NewsletterService) Stats() (*NewsletterStatistics, error) {
	stats, err := s.repo.Stats()
	if err != nil {
		return nil, fmt.Errorf("newsletter stats: %w", err)
	}
	return &NewsletterStatistics{
		Total:    stats.Total,
		Active:   stats.Active,
		Inactive: stats.Inactive,
		BySource: fillCounts(constants.NewsletterSources, stats.BySource),
	}, nil
}

// Lookup 按主键读取订阅者，供异步任务使用
func (s *NewsletterService) Lookup(id uint) (*models.NewsletterSubscriber, error) {
	sub, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	return sub, nil
}

type emailRule struct {
	Email string `validate:"required,email"`
}

func isEmail(v string) bool {
	return validate.Struct(emailRule{Email: v}) == nil
}

// newUnsubscribeToken 32 字节随机数的十六进制
func newUnsubscribeToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate unsubscribe token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
