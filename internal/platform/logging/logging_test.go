package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"solve/internal/platform/logging"
)

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "solve.log")
	logger, err := logging.New("debug", path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("poll tick failed")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "poll tick failed") {
		t.Fatalf("log file missing entry: %s", b)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()
	if _, err := logging.New("chatty", ""); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
	if logging.OrNop(nil) == nil {
		t.Fatalf("OrNop must never return nil")
	}
}
