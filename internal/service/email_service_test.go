package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/models"
)

type capturedMail struct {
	to  string
	msg string
}

func newEmailServiceForTest(enabled bool) (*EmailService, *[]capturedMail) {
	sent := &[]capturedMail{}
	svc := NewEmailService(
		config.EmailConfig{Enabled: enabled, Host: "smtp.example.com", Port: 587, From: "shop@ruda.co.ke", FromName: "Ruda Paints"},
		config.AppConfig{Name: "Ruda Paints", SiteURL: "https://ruda.co.ke/", InboxEmail: "inbox@ruda.co.ke", DefaultLang: "en"},
	)
	svc.transmit = func(_ config.EmailConfig, to string, msg []byte) error {
		*sent = append(*sent, capturedMail{to: to, msg: string(msg)})
		return nil
	}
	return svc, sent
}

func TestSendContactNotificationGoesToInbox(t *testing.T) {
	svc, sent := newEmailServiceForTest(true)
	err := svc.SendContactNotification(&models.ContactMessage{
		Name: "Achieng", Email: "achieng@example.com", Phone: "0712345678",
		Subject: "Colour matching", Message: "Can you match a sample?", Category: "support", Priority: "normal",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(*sent) != 1 || (*sent)[0].to != "inbox@ruda.co.ke" {
		t.Fatalf("unexpected recipients %+v", *sent)
	}
	if !strings.Contains((*sent)[0].msg, "Can you match a sample?") {
		t.Fatalf("body missing message: %s", (*sent)[0].msg)
	}
}

func TestSendNewsletterWelcomeIncludesUnsubscribeLink(t *testing.T) {
	svc, sent := newEmailServiceForTest(true)
	err := svc.SendNewsletterWelcome(&models.NewsletterSubscriber{Email: "fan@example.com", UnsubscribeToken: "abc123"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	msg := (*sent)[0].msg
	if !strings.Contains(msg, "https://ruda.co.ke/api/newsletter/unsubscribe?token=abc123") {
		t.Fatalf("missing unsubscribe link: %s", msg)
	}
	if !strings.Contains(msg, "Hi there") {
		t.Fatalf("missing default greeting: %s", msg)
	}
}

func TestSendEmailGuards(t *testing.T) {
	disabled, _ := newEmailServiceForTest(false)
	if err := disabled.SendContactReply(&models.ContactMessage{Email: "a@example.com"}); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
	enabled, sent := newEmailServiceForTest(true)
	if err := enabled.SendContactReply(&models.ContactMessage{Email: "not an address"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got %v", err)
	}
	if len(*sent) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestBuildEmailMessageEncodesSubject(t *testing.T) {
	msg := buildEmailMessage(buildFromAddress("shop@ruda.co.ke", "Ruda Paints"), "a@example.com", "Rangi mpya ✓", "body")
	if !strings.Contains(msg, "Subject: =?UTF-8?q?") {
		t.Fatalf("subject should be q-encoded: %s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nbody") {
		t.Fatalf("body should follow a blank line: %q", msg)
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 5.1.1 <x@example.com>: Recipient address rejected: User unknown")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("expected recipient rejected, got %v", got)
	}
	other := errors.New("connection reset")
	if got := normalizeEmailSendError(other); got != other {
		t.Fatalf("other errors should pass through, got %v", got)
	}
}
