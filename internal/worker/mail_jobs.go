package worker

import (
	"errors"

	"github.com/ruda-paints/internal/logger"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/service"
)

// ContactSource 按主键读取留言
type ContactSource interface {
	Lookup(id uint) (*models.ContactMessage, error)
}

// SubscriberSource 按主键读取订阅者
type SubscriberSource interface {
	Lookup(id uint) (*models.NewsletterSubscriber, error)
}

// Mailer 邮件发送
type Mailer interface {
	SendContactNotification(msg *models.ContactMessage) error
	SendContactReply(msg *models.ContactMessage) error
	SendNewsletterWelcome(sub *models.NewsletterSubscriber) error
}

// MailJobs 邮件任务的实际执行逻辑，队列消费者与同步投递共用
type MailJobs struct {
	contacts    ContactSource
	subscribers SubscriberSource
	mailer      Mailer
}

// NewMailJobs 创建邮件任务执行器
func NewMailJobs(contacts ContactSource, subscribers SubscriberSource, mailer Mailer) *MailJobs {
	return &MailJobs{contacts: contacts, subscribers: subscribers, mailer: mailer}
}

// ContactNotify 新留言通知店铺收件箱
func (j *MailJobs) ContactNotify(contactID uint) error {
	msg, err := j.contacts.Lookup(contactID)
	if err != nil {
		return skipMissing("worker_contact_notify", "contact_id", contactID, err)
	}
	return skipUndeliverable("worker_contact_notify", "contact_id", contactID, j.mailer.SendContactNotification(msg))
}

// ContactReply 将管理员回复发给留言人
func (j *MailJobs) ContactReply(contactID uint) error {
	msg, err := j.contacts.Lookup(contactID)
	if err != nil {
		return skipMissing("worker_contact_reply", "contact_id", contactID, err)
	}
	if msg.Response == "" {
		logger.Debugw("worker_contact_reply_skip_empty_response", "contact_id", contactID)
		return nil
	}
	return skipUndeliverable("worker_contact_reply", "contact_id", contactID, j.mailer.SendContactReply(msg))
}

// NewsletterWelcome 发送订阅欢迎邮件
func (j *MailJobs) NewsletterWelcome(subscriberID uint) error {
	sub, err := j.subscribers.Lookup(subscriberID)
	if err != nil {
		return skipMissing("worker_newsletter_welcome", "subscriber_id", subscriberID, err)
	}
	if !sub.Active {
		logger.Debugw("worker_newsletter_welcome_skip_inactive", "subscriber_id", subscriberID)
		return nil
	}
	return skipUndeliverable("worker_newsletter_welcome", "subscriber_id", subscriberID, j.mailer.SendNewsletterWelcome(sub))
}

// skipMissing 记录已被删除的数据直接视为成功，避免无意义重试
func skipMissing(event, idKey string, id uint, err error) error {
	if errors.Is(err, service.ErrNotFound) {
		logger.Debugw(event+"_skip_not_found", idKey, id)
		return nil
	}
	logger.Warnw(event+"_lookup_failed", idKey, id, "error", err)
	return err
}

// skipUndeliverable 邮件未启用或收件人无效时不再重试
func skipUndeliverable(event, idKey string, id uint, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrEmailServiceDisabled),
		errors.Is(err, service.ErrEmailServiceNotConfigured):
		logger.Debugw(event+"_skip_email_disabled", idKey, id)
		return nil
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrEmailRecipientRejected):
		logger.Warnw(event+"_skip_recipient_invalid", idKey, id, "error", err)
		return nil
	default:
		logger.Warnw(event+"_send_failed", idKey, id, "error", err)
		return err
	}
}
