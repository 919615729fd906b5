package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogFilePathDefaultsUnderWorkdir(t *testing.T) {
	tmp := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	got, err := logFilePath(Options{})
	if err != nil {
		t.Fatalf("logFilePath: %v", err)
	}
	realTmp, _ := filepath.EvalSymlinks(tmp)
	realDir, _ := filepath.EvalSymlinks(filepath.Dir(got))
	if realDir != filepath.Join(realTmp, defaultDir) {
		t.Fatalf("unexpected dir: %s", realDir)
	}
	if filepath.Base(got) != defaultFilename {
		t.Fatalf("unexpected filename: %s", filepath.Base(got))
	}
}

func TestReleaseModeWritesJSONFile(t *testing.T) {
	tmp := t.TempDir()
	log := New("release", Options{Dir: tmp, Filename: "catalog.log"})
	log.Info("paint_created")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmp, "catalog.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(content), `"event":"paint_created"`) {
		t.Fatalf("expected json event field, got %s", content)
	}
}

func TestDebugModeSkipsFile(t *testing.T) {
	tmp := t.TempDir()
	log := New("debug", Options{Dir: tmp, Filename: "debug.log"})
	log.Info("debug_only")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmp, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode must not create a log file")
	}
}

func TestZFallsBackBeforeInit(t *testing.T) {
	saved := L
	L = nil
	t.Cleanup(func() { L = saved })
	if Z() == nil {
		t.Fatalf("fallback logger must not be nil")
	}
}
