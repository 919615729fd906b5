package queue

import (
	"encoding/json"

	"github.com/ruda-paints/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskContactNotify 新留言通知店铺
	TaskContactNotify = constants.TaskContactNotify
	// TaskContactReply 管理员回复邮件
	TaskContactReply = constants.TaskContactReply
	// TaskNewsletterWelcome 订阅欢迎邮件
	TaskNewsletterWelcome = constants.TaskNewsletterWelcome
)

// ContactPayload 留言相关任务载荷
type ContactPayload struct {
	ContactID uint `json:"contact_id"`
}

// NewsletterPayload 订阅相关任务载荷
type NewsletterPayload struct {
	SubscriberID uint `json:"subscriber_id"`
}

// NewContactNotifyTask 创建留言通知任务
func NewContactNotifyTask(payload ContactPayload) (*asynq.Task, error) {
	return newJSONTask(TaskContactNotify, payload)
}

// NewContactReplyTask 创建回复邮件任务
func NewContactReplyTask(payload ContactPayload) (*asynq.Task, error) {
	return newJSONTask(TaskContactReply, payload)
}

// NewNewsletterWelcomeTask 创建欢迎邮件任务
func NewNewsletterWelcomeTask(payload NewsletterPayload) (*asynq.Task, error) {
	return newJSONTask(TaskNewsletterWelcome, payload)
}

func newJSONTask(typename string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typename, body, asynq.MaxRetry(5)), nil
}
