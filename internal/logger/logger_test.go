package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "warn message") {
		t.Errorf("expected first line to be the warning, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "boom") {
		t.Errorf("expected error line to carry the error, got %q", lines[1])
	}
}

func TestLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("scraped facility", Fields{"facility": "Main Pool", "tables": 2})

	var e struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if e.Level != "INFO" {
		t.Errorf("expected level INFO, got %s", e.Level)
	}
	if e.Message != "scraped facility" {
		t.Errorf("unexpected message %q", e.Message)
	}
	if e.Fields["facility"] != "Main Pool" {
		t.Errorf("expected facility field, got %v", e.Fields)
	}
	if e.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"ERROR", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestCounters(t *testing.T) {
	c := NewCounters()
	c.Incr("records.valid")
	c.Incr("records.valid")
	c.Add("records.invalid", 3)

	if got := c.Get("records.valid"); got != 2 {
		t.Errorf("expected records.valid = 2, got %d", got)
	}

	snapshot := c.Snapshot()
	if snapshot["records.invalid"] != int64(3) {
		t.Errorf("expected records.invalid = 3 in snapshot, got %v", snapshot["records.invalid"])
	}

	// Snapshot is a copy, later increments must not affect it
	c.Incr("records.valid")
	if snapshot["records.valid"] != int64(2) {
		t.Errorf("snapshot changed after increment: %v", snapshot["records.valid"])
	}
}
