package queue

import (
	"fmt"
	"strings"

	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// MailQueue 邮件队列名称
	MailQueue = constants.QueueMail
)

// Client 队列客户端封装，未启用时所有投递均为空操作
type Client struct {
	client  *asynq.Client
	enabled bool
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return &Client{}
	}
	return &Client{client: asynq.NewClient(buildRedisOpt(cfg)), enabled: true}
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueContactNotify 推送新留言通知
func (c *Client) EnqueueContactNotify(contactID uint) error {
	return c.enqueue(NewContactNotifyTask(ContactPayload{ContactID: contactID}))
}

// EnqueueContactReply 推送留言回复邮件
func (c *Client) EnqueueContactReply(contactID uint) error {
	return c.enqueue(NewContactReplyTask(ContactPayload{ContactID: contactID}))
}

// EnqueueNewsletterWelcome 推送订阅欢迎邮件
func (c *Client) EnqueueNewsletterWelcome(subscriberID uint) error {
	return c.enqueue(NewNewsletterWelcomeTask(NewsletterPayload{SubscriberID: subscriberID}))
}

func (c *Client) enqueue(task *asynq.Task, err error) error {
	if !c.Enabled() {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, asynq.Queue(MailQueue))
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 10
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, MailQueue: 2}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
