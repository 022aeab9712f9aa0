package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestNewStampsComponent(t *testing.T) {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	logger := New(slog.LevelInfo, ComponentBot)
	logger.Info("expense stored", FieldExpenseID, 7)

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read log output: %v", err)
	}

	if !strings.Contains(string(out), "component=bot") {
		t.Errorf("output missing component attribute: %q", out)
	}
	if !strings.Contains(string(out), "id=7") {
		t.Errorf("output missing id attribute: %q", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	logger := New(slog.LevelWarn, ComponentWorker)
	logger.Info("should be dropped")
	logger.Warn("should be kept")

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read log output: %v", err)
	}

	if strings.Contains(string(out), "should be dropped") {
		t.Errorf("info record emitted below level: %q", out)
	}
	if !strings.Contains(string(out), "should be kept") {
		t.Errorf("warn record missing: %q", out)
	}
}
