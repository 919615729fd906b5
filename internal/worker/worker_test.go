package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ruda-paints/internal/config"
	"github.com/ruda-paints/internal/models"
	"github.com/ruda-paints/internal/queue"
	"github.com/ruda-paints/internal/service"
)

type stubContacts map[uint]*models.ContactMessage

func (s stubContacts) Lookup(id uint) (*models.ContactMessage, error) {
	if msg, ok := s[id]; ok {
		return msg, nil
	}
	return nil, service.ErrNotFound
}

type stubSubscribers map[uint]*models.NewsletterSubscriber

func (s stubSubscribers) Lookup(id uint) (*models.NewsletterSubscriber, error) {
	if sub, ok := s[id]; ok {
		return sub, nil
	}
	return nil, service.ErrNotFound
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendContactNotification(msg *models.ContactMessage) error {
	m.sent = append(m.sent, "notify:"+msg.Email)
	return m.err
}

func (m *recordingMailer) SendContactReply(msg *models.ContactMessage) error {
	m.sent = append(m.sent, "reply:"+msg.Email)
	return m.err
}

func (m *recordingMailer) SendNewsletterWelcome(sub *models.NewsletterSubscriber) error {
	m.sent = append(m.sent, "welcome:"+sub.Email)
	return m.err
}

func newTestJobs(mailer *recordingMailer) *MailJobs {
	contacts := stubContacts{
		1: {ID: 1, Email: "jane@example.com"},
		2: {ID: 2, Email: "otieno@example.com", Response: "Thanks, the 20L drum is back in stock."},
	}
	subscribers := stubSubscribers{
		7: {ID: 7, Email: "fan@example.com", Active: true},
		8: {ID: 8, Email: "gone@example.com", Active: false},
	}
	return NewMailJobs(contacts, subscribers, mailer)
}

func TestMailJobsDeliver(t *testing.T) {
	mailer := &recordingMailer{}
	jobs := newTestJobs(mailer)

	if err := jobs.ContactNotify(1); err != nil {
		t.Fatalf("contact notify: %v", err)
	}
	if err := jobs.ContactReply(2); err != nil {
		t.Fatalf("contact reply: %v", err)
	}
	if err := jobs.NewsletterWelcome(7); err != nil {
		t.Fatalf("newsletter welcome: %v", err)
	}
	want := []string{"notify:jane@example.com", "reply:otieno@example.com", "welcome:fan@example.com"}
	if len(mailer.sent) != len(want) {
		t.Fatalf("sent=%v want=%v", mailer.sent, want)
	}
	for i := range want {
		if mailer.sent[i] != want[i] {
			t.Fatalf("sent[%d]=%s want %s", i, mailer.sent[i], want[i])
		}
	}
}

func TestMailJobsSkipWithoutRetry(t *testing.T) {
	mailer := &recordingMailer{}
	jobs := newTestJobs(mailer)

	if err := jobs.ContactNotify(99); err != nil {
		t.Fatalf("missing contact should be skipped, got %v", err)
	}
	if err := jobs.ContactReply(1); err != nil {
		t.Fatalf("empty response should be skipped, got %v", err)
	}
	if err := jobs.NewsletterWelcome(8); err != nil {
		t.Fatalf("inactive subscriber should be skipped, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("nothing should be sent, got %v", mailer.sent)
	}

	mailer.err = service.ErrEmailServiceDisabled
	if err := jobs.ContactNotify(1); err != nil {
		t.Fatalf("disabled email should be skipped, got %v", err)
	}
	mailer.err = service.ErrEmailRecipientRejected
	if err := jobs.NewsletterWelcome(7); err != nil {
		t.Fatalf("rejected recipient should be skipped, got %v", err)
	}
}

func TestMailJobsPropagateTransientFailure(t *testing.T) {
	boom := errors.New("smtp timeout")
	jobs := newTestJobs(&recordingMailer{err: boom})
	if err := jobs.ContactNotify(1); !errors.Is(err, boom) {
		t.Fatalf("expected transient error for retry, got %v", err)
	}
}

func TestConsumerDecodesPayload(t *testing.T) {
	mailer := &recordingMailer{}
	consumer := NewConsumer(newTestJobs(mailer))

	task, err := queue.NewContactNotifyTask(queue.ContactPayload{ContactID: 1})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := consumer.handleContactNotify(context.Background(), task); err != nil {
		t.Fatalf("handle task: %v", err)
	}
	welcome, err := queue.NewNewsletterWelcomeTask(queue.NewsletterPayload{SubscriberID: 7})
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := consumer.handleNewsletterWelcome(context.Background(), welcome); err != nil {
		t.Fatalf("handle task: %v", err)
	}
	if len(mailer.sent) != 2 {
		t.Fatalf("expected two deliveries, got %v", mailer.sent)
	}
}

func TestInlineMailQueueRunsJobs(t *testing.T) {
	mailer := &recordingMailer{}
	q := NewInlineMailQueue()
	// 未绑定时任务被丢弃但不报错
	if err := q.EnqueueContactNotify(1); err != nil {
		t.Fatalf("enqueue before bind: %v", err)
	}
	q.Bind(newTestJobs(mailer))
	if err := q.EnqueueContactReply(2); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	q.Wait()
	if len(mailer.sent) != 1 || mailer.sent[0] != "reply:otieno@example.com" {
		t.Fatalf("unexpected deliveries: %v", mailer.sent)
	}
}

type staticRefs map[string]struct{}

func (r staticRefs) ReferencedImages() (map[string]struct{}, error) {
	return r, nil
}

func TestOrphanSweeperRemovesOnlyOldUnreferencedFiles(t *testing.T) {
	root := t.TempDir()
	store := service.NewUploadService(config.UploadConfig{Dir: root, URLPrefix: "/uploads"})

	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{"kept.png", "orphan.png", "fresh.png"} {
		full := filepath.Join(root, name)
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if name != "fresh.png" {
			if err := os.Chtimes(full, old, old); err != nil {
				t.Fatalf("chtimes %s: %v", name, err)
			}
		}
	}

	sweeper := NewOrphanSweeper(store, staticRefs{"/uploads/kept.png": {}}, 30*time.Minute)
	removed, err := sweeper.SweepOnce()
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected one removal, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "orphan.png")); !os.IsNotExist(err) {
		t.Fatalf("orphan file should be gone")
	}
	for _, name := range []string{"kept.png", "fresh.png"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Fatalf("%s should survive: %v", name, err)
		}
	}
}

func TestSweepServiceStopIsIdempotent(t *testing.T) {
	store := service.NewUploadService(config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/uploads"})
	svc := NewSweepService(NewOrphanSweeper(store, staticRefs{}, time.Minute), time.Hour)

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Stop(context.Background()); err != nil {
				t.Errorf("stop: %v", err)
			}
		}()
	}
	wg.Wait()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sweep service did not stop")
	}
}
