package service

// MailQueue 异步邮件投递，由队列客户端实现
type MailQueue interface {
	EnqueueContactNotify(contactID uint) error
	EnqueueContactReply(contactID uint) error
	EnqueueNewsletterWelcome(subscriberID uint) error
}
