package queue

import (
	"encoding/json"
	"testing"

	"github.com/ruda-paints/internal/config"
)

func TestContactTaskPayload(t *testing.T) {
	task, err := NewContactReplyTask(ContactPayload{ContactID: 42})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TaskContactReply {
		t.Fatalf("unexpected type %s", task.Type())
	}
	var payload ContactPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.ContactID != 42 {
		t.Fatalf("unexpected contact id %d", payload.ContactID)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	c := NewClient(&config.QueueConfig{Enabled: false})
	if c.Enabled() {
		t.Fatalf("client must be disabled")
	}
	if err := c.EnqueueNewsletterWelcome(1); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380})
	if opt.Addr != "redis:6380" {
		t.Fatalf("unexpected addr %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[MailQueue] != 2 {
		t.Fatalf("unexpected server config %+v", cfg)
	}
}
