package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.AddSync(&buf), InfoLevel, false)

	l.Debugw("hidden", "k", 1)
	l.Infow("shown", "k", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "INFO") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.AddSync(&buf), DebugLevel, true).Named("sponge").With("width", 3)

	l.Debugw("built", "rounds", 64)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["logger"] != "sponge" {
		t.Errorf("logger = %v, want sponge", entry["logger"])
	}
	if entry["width"] != float64(3) || entry["rounds"] != float64(64) {
		t.Errorf("missing fields: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"debug", DebugLevel, true},
		{"INFO", InfoLevel, true},
		{"", InfoLevel, true},
		{"Warning", WarnLevel, true},
		{"error", ErrorLevel, true},
		{"loud", InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNopAndDefault(t *testing.T) {
	Nop().Errorw("discarded")
	if DefaultLogger() != DefaultLogger() {
		t.Error("DefaultLogger() should return the same instance")
	}
}
