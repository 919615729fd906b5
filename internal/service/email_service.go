package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/i18n"
	"github.com/ruda-paints/internal/models"
)

// EmailService 邮件发送服务，只在异步任务中调用
type EmailService struct {
	cfg      config.EmailConfig
	appName  string
	siteURL  string
	inbox    string
	locale   string
	transmit func(cfg config.EmailConfig, to string, msg []byte) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg config.EmailConfig, app config.AppConfig) *EmailService {
	return &EmailService{
		cfg:      cfg,
		appName:  strings.TrimSpace(app.Name),
		siteURL:  strings.TrimRight(strings.TrimSpace(app.SiteURL), "/"),
		inbox:    strings.TrimSpace(app.InboxEmail),
		locale:   i18n.NormalizeLocale(app.DefaultLang),
		transmit: deliverSMTP,
	}
}

// Enabled 是否已开启 SMTP
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg.Enabled
}

// SendContactNotification 新留言通知到店铺收件箱
func (s *EmailService) SendContactNotification(msg *models.ContactMessage) error {
	if s.inbox == "" {
		return ErrEmailServiceNotConfigured
	}
	subject := i18n.Sprintf(s.locale, "email.contact_notify.subject", msg.Subject)
	body := i18n.Sprintf(s.locale, "email.contact_notify.body",
		msg.Name, msg.Email, msg.Phone, msg.Category, msg.Priority, msg.Subject, msg.Message)
	return s.sendTextEmail(s.inbox, subject, body)
}

// SendContactReply 管理员回复发送给留言人
func (s *EmailService) SendContactReply(msg *models.ContactMessage) error {
	subject := i18n.Sprintf(s.locale, "email.contact_reply.subject", msg.Subject)
	body := i18n.Sprintf(s.locale, "email.contact_reply.body", msg.Name, msg.Response, msg.Message, s.appName)
	return s.sendTextEmail(msg.Email, subject, body)
}

// SendNewsletterWelcome 订阅欢迎邮件，附退订链接
func (s *EmailService) SendNewsletterWelcome(sub *models.NewsletterSubscriber) error {
	name := strings.TrimSpace(sub.Name)
	if name == "" {
		name = i18n.T(s.locale, "email.newsletter_welcome.default_name")
	}
	link := fmt.Sprintf("%s/api/newsletter/unsubscribe?token=%s", s.siteURL, sub.UnsubscribeToken)
	subject := i18n.Sprintf(s.locale, "email.newsletter_welcome.subject", s.appName)
	body := i18n.Sprintf(s.locale, "email.newsletter_welcome.body", name, s.appName, link)
	return s.sendTextEmail(sub.Email, subject, body)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}
	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	return s.transmit(s.cfg, toEmail, []byte(buildEmailMessage(from, toEmail, subject, body)))
}

func deliverSMTP(cfg config.EmailConfig, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	switch {
	case cfg.UseSSL:
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, cfg.Host, cfg.From, []string{to}, msg))
	case cfg.UseTLS:
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, cfg.Host, cfg.From, []string{to}, msg))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, cfg.Host, cfg.From, []string{to}, msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
