package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"  info  ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.value); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %q", buf.String())
	}

	logger.Info("visible", "key", "value")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("info record missing from output: %q", buf.String())
	}
}

func TestNewLogger_NilWriterFallsBack(t *testing.T) {
	logger := NewLogger(nil, LevelInfo)
	if logger == nil {
		t.Fatal("NewLogger(nil, ...) = nil")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("logger does not enable info records")
	}
}
