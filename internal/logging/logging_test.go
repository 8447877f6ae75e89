package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/flexifit/internal/config"
)

// TestParseLevel covers every accepted name and a rejected one.
func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Error("expected error for unknown level")
	}
}

// TestJSONFormat verifies the json handler is selected and the level filters.
func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := build(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	log.Info("hidden")
	log.Warn("plan adapted", "user_id", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "plan adapted" || rec["user_id"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

// TestFileSink writes through the rotating file as well as stdout.
func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flexifit.log")
	var buf bytes.Buffer
	log, closer, err := build(config.LoggingConfig{File: path, MaxSizeMB: 1}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hello", "k", "v")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Errorf("file = %q", data)
	}
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("stdout = %q", buf.String())
	}
}
