package provider

import (
	"time"

	"github.com/ruda-paints/internal/authz"
	"github.com/ruda-paints/internal/cache"
	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/queue"
	"github.com/ruda-paints/internal/repository"
	"github.com/ruda-paints/internal/service"
	"github.com/ruda-paints/internal/worker"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client
	MailJobs    *worker.MailJobs

	// Repositories
	AdminRepo      repository.AdminRepository
	PaintRepo      repository.PaintRepository
	ContactRepo    repository.ContactRepository
	NewsletterRepo repository.NewsletterRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	CaptchaService    *service.CaptchaService
	EmailService      *service.EmailService
	UploadService     *service.UploadService
	PaintService      *service.PaintService
	PriceListService  *service.PriceListService
	ContactService    *service.ContactService
	NewsletterService *service.NewsletterService
	OrphanSweeper     *worker.OrphanSweeper
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	// 初始化缓存
	cache.Init(&cfg.Redis)

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queue.NewClient(&cfg.Queue),
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	if err := c.initServices(db); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.AdminRepo = repository.NewAdminRepository(db)
	c.PaintRepo = repository.NewPaintRepository(db)
	c.ContactRepo = repository.NewContactRepository(db)
	c.NewsletterRepo = repository.NewNewsletterRepository(db)
}

func (c *Container) initServices(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}
	c.AuthzService = authzService

	// 队列未启用时邮件任务在进程内异步执行
	var mails service.MailQueue = c.QueueClient
	var inline *worker.InlineMailQueue
	if !c.QueueClient.Enabled() {
		inline = worker.NewInlineMailQueue()
		mails = inline
	}

	cfg := c.Config
	c.AuthService = service.NewAuthService(cfg.JWT, cfg.Security.PasswordPolicy, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.EmailService = service.NewEmailService(cfg.Email, cfg.App)
	c.UploadService = service.NewUploadService(cfg.Upload)
	c.PaintService = service.NewPaintService(c.PaintRepo, c.UploadService, service.PaintServiceOptions{
		MaxPrice:    cfg.Catalog.MaxPrice,
		SKUAttempts: cfg.Catalog.SKUAttempts,
		Paging: service.Paging{
			DefaultLimit: cfg.Catalog.DefaultPageSize,
			MaxLimit:     cfg.Catalog.MaxPageSize,
		},
	})
	c.PriceListService = service.NewPriceListService(c.PaintRepo, cfg.PriceList.FilenameBase, cfg.PriceList.SheetName)
	c.ContactService = service.NewContactService(c.ContactRepo, mails)
	c.NewsletterService = service.NewNewsletterService(c.NewsletterRepo, mails)

	c.MailJobs = worker.NewMailJobs(c.ContactService, c.NewsletterService, c.EmailService)
	if inline != nil {
		inline.Bind(c.MailJobs)
	}

	grace := time.Duration(cfg.Upload.OrphanGraceMinutes) * time.Minute
	c.OrphanSweeper = worker.NewOrphanSweeper(c.UploadService, c.PaintService, grace)
	return nil
}

// Close 释放队列与缓存连接，服务全部停止后调用
func (c *Container) Close() {
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("queue_client_close_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("redis_close_failed", "error", err)
	}
}
