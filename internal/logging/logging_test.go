package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info", "json").WithSource("grades.csv")
	l.Info("loaded", "records", 3)
	l.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["source"] != "grades.csv" || entry["msg"] != "loaded" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNewWithWriter_TextWithError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug", "text").WithError(errors.New("boom"))
	l.Debug("failed")

	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("expected error attribute, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
