package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"squeeze/internal/config"
	"squeeze/internal/logging"
)

func TestConsoleLoggerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "compress")
	logger.Info("encode finished", "video_kbps", 8257, "output", "my clip.mp4", logging.Error(errors.New("none")))
	logger.Debug("hidden")

	line := buf.String()
	if !strings.Contains(line, " INFO compress: encode finished") {
		t.Fatalf("unexpected header: %q", line)
	}
	if !strings.Contains(line, "video_kbps=8257") {
		t.Fatalf("expected int attr: %q", line)
	}
	if !strings.Contains(line, `output="my clip.mp4"`) {
		t.Fatalf("expected quoted attr: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be lifted into header: %q", line)
	}
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug record emitted at info level: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
}

func TestConsoleLoggerGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("budget").Info("planned", "video_kbps", 707)
	if !strings.Contains(buf.String(), "budget.video_kbps=707") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}

func TestDebugLevelAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("probing")
	if !strings.Contains(buf.String(), "DEBUG probing [logger_test.go:") {
		t.Fatalf("expected debug record with source, got %q", buf.String())
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("skipped")
	logger.Warn("low disk", "free_bytes", int64(42))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %d: %q", len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if record["level"] != "warn" || record["msg"] != "low disk" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key: %v", record)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "squeeze.log")

	var buf bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file")

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello file") {
		t.Fatalf("expected record in log file, got %q", content)
	}
	if !strings.Contains(buf.String(), "hello file") {
		t.Fatalf("expected record on output, got %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("dropped")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should never be enabled")
	}
}
