package service

import (
	"errors"
	"testing"

	"github.com/ruda-paints/internal/constants"
	"github.com/ruda-paints/internal/repository"
)

type recordingMailQueue struct {
	notify  []uint
	reply   []uint
	welcome []uint
}

func (q *recordingMailQueue) EnqueueContactNotify(id uint) error {
	q.notify = append(q.notify, id)
	return nil
}

func (q *recordingMailQueue) EnqueueContactReply(id uint) error {
	q.reply = append(q.reply, id)
	return nil
}

func (q *recordingMailQueue) EnqueueNewsletterWelcome(id uint) error {
	q.welcome = append(q.welcome, id)
	return nil
}

func newContactServiceForTest(t *testing.T) (*ContactService, *recordingMailQueue) {
	t.Helper()
	mails := &recordingMailQueue{}
	return NewContactService(repository.NewContactRepository(openServiceTestDB(t)), mails), mails
}

func validContact() ContactInput {
	return ContactInput{
		Name:    "Wanjiku Njoroge",
		Email:   "Wanjiku@Example.com",
		Phone:   "+254712345678",
		Subject: "Bulk order for a school",
		Message: "We need 40 litres of exterior paint for a school project.",
	}
}

func TestSubmitContactStoresDefaults(t *testing.T) {
	svc, mails := newContactServiceForTest(t)
	msg, err := svc.Submit(validContact(), ClientMeta{IP: "10.0.0.8", UserAgent: "test-agent"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if msg.Status != constants.ContactStatusNew || msg.Priority != "normal" || msg.Category != "general" || msg.Source != "website" {
		t.Fatalf("unexpected defaults %+v", msg)
	}
	if msg.Email != "wanjiku@example.com" || msg.IPAddress != "10.0.0.8" {
		t.Fatalf("unexpected normalized fields %+v", msg)
	}
	if len(mails.notify) != 1 || mails.notify[0] != msg.ID {
		t.Fatalf("notification should be queued, got %v", mails.notify)
	}
}

func TestSubmitContactValidation(t *testing.T) {
	svc, mails := newContactServiceForTest(t)
	in := validContact()
	in.Email = "not-an-email"
	in.Phone = "123"
	in.Category = "gossip"
	_, err := svc.Submit(in, ClientMeta{})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three field errors, got %v", err)
	}
	if len(mails.notify) != 0 {
		t.Fatalf("nothing should be queued on validation failure")
	}
}

func TestContactLifecycle(t *testing.T) {
	svc, mails := newContactServiceForTest(t)
	msg, _ := svc.Submit(validContact(), ClientMeta{})

	got, err := svc.Get(msg.ID)
	if err != nil || got.Status != constants.ContactStatusRead {
		t.Fatalf("viewing a new message should mark it read, got %+v %v", got, err)
	}

	if _, err := svc.Respond(msg.ID, "too short", 1); !errors.Is(err, ErrValidation) {
		t.Fatalf("short response should fail validation, got %v", err)
	}
	replied, err := svc.Respond(msg.ID, "Thanks, our sales team will call you today.", 7)
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if replied.Status != constants.ContactStatusReplied || replied.RespondedAt == nil || replied.RespondedBy == nil || *replied.RespondedBy != 7 {
		t.Fatalf("unexpected reply state %+v", replied)
	}
	if len(mails.reply) != 1 {
		t.Fatalf("reply email should be queued")
	}

	updated, err := svc.Update(msg.ID, ContactUpdateInput{Status: "closed", Priority: "high"})
	if err != nil || updated.Status != "closed" || updated.Priority != "high" {
		t.Fatalf("update failed %+v %v", updated, err)
	}
	if _, err := svc.Update(msg.ID, ContactUpdateInput{Status: "archived"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status should fail, got %v", err)
	}

	if err := svc.Delete(msg.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(msg.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestContactStatsFillsMissingKeys(t *testing.T) {
	svc, _ := newContactServiceForTest(t)
	in := validContact()
	in.Category = "sales"
	_, _ = svc.Submit(in, ClientMeta{})
	_, _ = svc.Submit(validContact(), ClientMeta{})

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 2 || stats.ByStatus["new"] != 2 || stats.ByStatus["spam"] != 0 {
		t.Fatalf("unexpected status stats %+v", stats.ByStatus)
	}
	if stats.ByCategory["sales"] != 1 || stats.ByCategory["general"] != 1 {
		t.Fatalf("unexpected category stats %+v", stats.ByCategory)
	}
	if _, ok := stats.ByPriority["urgent"]; !ok {
		t.Fatalf("all priorities should be present")
	}
}
