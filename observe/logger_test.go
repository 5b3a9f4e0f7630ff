package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "cache ready", Field{Key: "dir", Value: "/tmp/cache"})

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e["msg"] != "cache ready" || e["level"] != "info" || e["dir"] != "/tmp/cache" {
		t.Errorf("unexpected entry: %v", e)
	}
	if _, ok := e["timestamp"]; !ok {
		t.Error("entry missing timestamp")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug msg")
	logger.Info(ctx, "info msg")
	logger.Warn(ctx, "warn msg")
	logger.Error(ctx, "error msg")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (warn and error)", len(entries))
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "storing",
		Field{Key: "payload", Value: `{"password":"hunter2"}`},
		Field{Key: "token", Value: "ghp_abc"},
		Field{Key: "outcome", Value: "stored"},
	)

	entries := decodeLines(t, &buf)
	e := entries[0]
	if e["payload"] != "[REDACTED]" {
		t.Errorf("payload = %v, want [REDACTED]", e["payload"])
	}
	if e["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", e["token"])
	}
	if e["outcome"] != "stored" {
		t.Errorf("outcome = %v, want stored", e["outcome"])
	}
}

func TestLogger_WithOp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	opLogger := logger.WithOp(OpMeta{Op: "get", Store: "results", Key: "abc123"})
	opLogger.Info(context.Background(), "cache operation")

	entries := decodeLines(t, &buf)
	e := entries[0]
	if e["cache.op"] != "get" || e["cache.store"] != "results" || e["cache.key"] != "abc123" {
		t.Errorf("operation context missing: %v", e)
	}

	// The parent logger is not mutated.
	buf.Reset()
	logger.Info(context.Background(), "plain")
	if e := decodeLines(t, &buf)[0]; e["cache.op"] != nil {
		t.Error("WithOp leaked context into the parent logger")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
