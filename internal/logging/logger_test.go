package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("shown", slog.String("category", "general"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["category"] != "general" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != slog.Default() {
		t.Error("expected default logger from empty context")
	}
	l := Discard()
	ctx = WithLogger(ctx, l)
	if FromContext(ctx) != l {
		t.Error("logger not stored in context")
	}
	if RequestID(ctx) != "" {
		t.Error("unexpected request id")
	}
	if FromContextOr(context.Background(), l) != l {
		t.Error("expected fallback logger from empty context")
	}
	ctx = WithRequestID(ctx, "abc")
	if RequestID(ctx) != "abc" {
		t.Errorf("RequestID = %q", RequestID(ctx))
	}
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "newsdash.log")
	logger, closer, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be enabled when forced")
	}
}
