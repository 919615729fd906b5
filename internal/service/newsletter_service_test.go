package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ruda-paints/internal/repository"
)

func newNewsletterServiceForTest(t *testing.T) (*NewsletterService, *recordingMailQueue) {
	t.Helper()
	mails := &recordingMailQueue{}
	return NewNewsletterService(repository.NewNewsletterRepository(openServiceTestDB(t)), mails), mails
}

func TestSubscribeLifecycle(t *testing.T) {
	svc, mails := newNewsletterServiceForTest(t)

	sub, outcome, err := svc.Subscribe(SubscribeInput{Email: " Otieno@Example.com "})
	if err != nil || outcome != SubscribeCreated {
		t.Fatalf("subscribe failed: %v %s", err, outcome)
	}
	if len(sub.UnsubscribeToken) != 64 {
		t.Fatalf("token should be 32 bytes hex, got %q", sub.UnsubscribeToken)
	}
	if !reflect.DeepEqual([]string(sub.Preferences), []string{"promotions", "new-products"}) {
		t.Fatalf("unexpected default preferences %v", sub.Preferences)
	}
	if len(mails.welcome) != 1 {
		t.Fatalf("welcome email should be queued")
	}

	if _, _, err := svc.Subscribe(SubscribeInput{Email: "otieno@example.com"}); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("duplicate should be already subscribed, got %v", err)
	}

	oldToken := sub.UnsubscribeToken
	unsub, err := svc.Unsubscribe("", oldToken)
	if err != nil || unsub.Active || unsub.UnsubscribedAt == nil {
		t.Fatalf("unsubscribe failed %+v %v", unsub, err)
	}
	if unsub.UnsubscribeToken == oldToken {
		t.Fatalf("token should rotate on unsubscribe")
	}
	if _, err := svc.Unsubscribe("", oldToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old token should no longer resolve, got %v", err)
	}

	status, err := svc.Check("otieno@example.com")
	if err != nil || status.Subscribed {
		t.Fatalf("unexpected status %+v %v", status, err)
	}

	again, outcome, err := svc.Subscribe(SubscribeInput{Email: "otieno@example.com", Preferences: []string{"tips"}})
	if err != nil || outcome != SubscribeReactivated || !again.Active {
		t.Fatalf("resubscribe failed %+v %s %v", again, outcome, err)
	}
	if len(mails.welcome) != 1 {
		t.Fatalf("reactivation should not resend the welcome email")
	}
}

func TestSubscribeValidation(t *testing.T) {
	svc, _ := newNewsletterServiceForTest(t)
	_, _, err := svc.Subscribe(SubscribeInput{Email: "nope", Preferences: []string{"spam"}})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
	if _, err := svc.Unsubscribe("", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing email and token should fail, got %v", err)
	}
	if _, err := svc.Check("bad"); !errors.Is(err, ErrValidation) {
		t.Fatalf("invalid email check should fail, got %v", err)
	}
}

func TestNewsletterStats(t *testing.T) {
	svc, _ := newNewsletterServiceForTest(t)
	_, _, _ = svc.Subscribe(SubscribeInput{Email: "a@example.com", Source: "showroom"})
	_, _, _ = svc.Subscribe(SubscribeInput{Email: "b@example.com"})
	_, _, _ = svc.Subscribe(SubscribeInput{Email: "c@example.com"})
	_, _ = svc.Unsubscribe("c@example.com", "")

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 || stats.Active != 2 || stats.Inactive != 1 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.BySource["showroom"] != 1 || stats.BySource["website"] != 1 || stats.BySource["event"] != 0 {
		t.Fatalf("unexpected sources %+v", stats.BySource)
	}

	page, err := svc.List(repository.NewsletterListFilter{})
	if err != nil || page.Total != 3 || page.Limit != 20 {
		t.Fatalf("unexpected list %+v %v", page, err)
	}
}
