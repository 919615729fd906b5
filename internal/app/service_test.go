package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ruda-paints/internal/config"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	stopped  atomic.Bool
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return nil
	}
	return f.startErr
}

func (f *fakeService) Stop(ctx context.Context) error {
	f.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllWhenOneFails(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("listen failed")}
	steady := &fakeService{name: "steady", block: true}

	err := NewRunner(failing, steady).Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "listen failed" {
		t.Fatalf("runner should surface start error, got %v", err)
	}
	if !failing.stopped.Load() || !steady.stopped.Load() {
		t.Fatalf("every service must be stopped")
	}
}

func TestRunnerCancelledContextIsCleanExit(t *testing.T) {
	steady := &fakeService{name: "steady", block: true}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := NewRunner(steady).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancelled context should exit cleanly, got %v", err)
	}
	if !steady.stopped.Load() {
		t.Fatalf("service must be stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}

func TestBuildRunnerRejectsMissingInputs(t *testing.T) {
	if _, err := BuildRunner(nil, nil, ModeAPI); err == nil {
		t.Fatalf("nil config should fail")
	}
	if _, err := BuildRunner(&config.Config{}, nil, ModeAPI); err == nil {
		t.Fatalf("nil database should fail")
	}
}

func TestEnsureSQLiteDir(t *testing.T) {
	root := t.TempDir()
	dsn := filepath.Join(root, "nested", "ruda.db") + "?_pragma=busy_timeout(5000)"
	if err := ensureSQLiteDir(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}); err != nil {
		t.Fatalf("ensure dir failed: %v", err)
	}
	if info, err := os.Stat(filepath.Join(root, "nested")); err != nil || !info.IsDir() {
		t.Fatalf("sqlite dir should exist, err=%v", err)
	}
	if err := ensureSQLiteDir(config.DatabaseConfig{Driver: "postgres", DSN: "host=/nonexistent/dir"}); err != nil {
		t.Fatalf("postgres dsn must be ignored, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{"": ModeAll, "API": ModeAPI, " worker ": ModeWorker, "all": ModeAll}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) want %s got %s err=%v", raw, want, got, err)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll || opts.ShutdownTimeout != 10*time.Second || opts.Logger == nil {
		t.Fatalf("unexpected defaults %+v", opts)
	}
}
