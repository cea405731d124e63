package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test"})
	l.core.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l, &buf
}

func TestLoggerFiltersByLevel(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)

	l.Debug("debug")
	l.Info("info")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Warn("careful %d", 3)
	if !strings.Contains(buf.String(), "[WARN] test: careful 3") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.WithComponent("history").WithField("depth", 2).Info("checkpoint")

	want := "2024-01-02T03:04:05.000 [INFO] test: checkpoint {component=history, depth=2}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	l, buf := newTestLogger(LevelError)
	child := l.WithComponent("clipboard")

	l.SetLevel(LevelDebug)
	child.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("child logger should follow the root level")
	}
}

func TestNopLogger(t *testing.T) {
	l := Nop()
	l.Error("dropped")
	l.WithField("k", "v").Error("dropped")

	var nilLogger *Logger
	nilLogger.Info("nil logger must not panic")
}
