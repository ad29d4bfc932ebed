package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snooze.log")
	logger, closeFn, err := New(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("session started", "username", "ada")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "session started") || !strings.Contains(out, "username=ada") {
		t.Fatalf("log output missing record: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record written at info level: %q", out)
	}
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	logger, closeFn, err := New("  ", slog.LevelDebug)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("nowhere")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
