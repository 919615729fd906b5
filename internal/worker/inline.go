package worker

import (
	"sync"

	"github.com/ruda-paints/internal/logger"
)

// InlineMailQueue 队列未启用时在后台 goroutine 中直接执行邮件任务，失败只记日志
type InlineMailQueue struct {
	mu   sync.RWMutex
	jobs *MailJobs
	wg   sync.WaitGroup
}

// NewInlineMailQueue 创建同步投递队列，jobs 可稍后通过 Bind 注入
func NewInlineMailQueue() *InlineMailQueue {
	return &InlineMailQueue{}
}

// Bind 注入任务执行器
func (q *InlineMailQueue) Bind(jobs *MailJobs) {
	q.mu.Lock()
	q.jobs = jobs
	q.mu.Unlock()
}

// EnqueueContactNotify 投递新留言通知
func (q *InlineMailQueue) EnqueueContactNotify(contactID uint) error {
	q.dispatch("contact_notify", func(j *MailJobs) error { return j.ContactNotify(contactID) })
	return nil
}

// EnqueueContactReply 投递留言回复
func (q *InlineMailQueue) EnqueueContactReply(contactID uint) error {
	q.dispatch("contact_reply", func(j *MailJobs) error { return j.ContactReply(contactID) })
	return nil
}

// EnqueueNewsletterWelcome 投递订阅欢迎邮件
func (q *InlineMailQueue) EnqueueNewsletterWelcome(subscriberID uint) error {
	q.dispatch("newsletter_welcome", func(j *MailJobs) error { return j.NewsletterWelcome(subscriberID) })
	return nil
}

// Wait 等待已投递的任务执行完毕
func (q *InlineMailQueue) Wait() {
	q.wg.Wait()
}

func (q *InlineMailQueue) dispatch(job string, run func(*MailJobs) error) {
	q.mu.RLock()
	jobs := q.jobs
	q.mu.RUnlock()
	if jobs == nil {
		logger.Warnw("inline_mail_job_dropped", "job", job)
		return
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		if err := run(jobs); err != nil {
			logger.Warnw("inline_mail_job_failed", "job", job, "error", err)
		}
	}()
}
