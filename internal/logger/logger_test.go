package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug msg", nil)
	l.Info("info msg", nil)
	l.Warn("warn msg", nil)
	l.Error("error msg", nil, errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Error("messages below minimum level should be discarded")
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Error("messages at or above minimum level should be logged")
	}
}

func TestLogEntryShape(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("week scraped", Fields{"year": 2025, "week": 32})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry.Level != "INFO" {
		t.Errorf("level = %q, expected INFO", entry.Level)
	}
	if entry.Message != "week scraped" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Timestamp == "" {
		t.Error("timestamp should be set")
	}
	if entry.Fields["week"] != float64(32) {
		t.Errorf("week field = %v", entry.Fields["week"])
	}
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("fetch failed", Fields{"week": 32}, errors.New("connection reset"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry.Error != "connection reset" {
		t.Errorf("error = %q, expected %q", entry.Error, "connection reset")
	}
}
