package worker

import (
	"context"
	"encoding/json"

	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	jobs *MailJobs
}

// NewConsumer 创建消费者
func NewConsumer(jobs *MailJobs) *Consumer {
	return &Consumer{jobs: jobs}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskContactNotify, c.handleContactNotify)
	mux.HandleFunc(queue.TaskContactReply, c.handleContactReply)
	mux.HandleFunc(queue.TaskNewsletterWelcome, c.handleNewsletterWelcome)
}

func (c *Consumer) handleContactNotify(_ context.Context, task *asynq.Task) error {
	var payload queue.ContactPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_contact_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.ContactID == 0 {
		logger.Debugw("worker_contact_notify_skip_invalid_payload")
		return nil
	}
	return c.jobs.ContactNotify(payload.ContactID)
}

func (c *Consumer) handleContactReply(_ context.Context, task *asynq.Task) error {
	var payload queue.ContactPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_contact_reply_unmarshal_failed", "error", err)
		return err
	}
	if payload.ContactID == 0 {
		logger.Debugw("worker_contact_reply_skip_invalid_payload")
		return nil
	}
	return c.jobs.ContactReply(payload.ContactID)
}

func (c *Consumer) handleNewsletterWelcome(_ context.Context, task *asynq.Task) error {
	var payload queue.NewsletterPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_newsletter_welcome_unmarshal_failed", "error", err)
		return err
	}
	if payload.SubscriberID == 0 {
		logger.Debugw("worker_newsletter_welcome_skip_invalid_payload")
		return nil
	}
	return c.jobs.NewsletterWelcome(payload.SubscriberID)
}
