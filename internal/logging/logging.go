// Package logging builds the structured, colorized loggers used by the
// imglykit command line tools.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Level is a log level accepted by the CLI.
type Level slog.Level

const (
	// LevelDebug enables per-phase pipeline logging.
	LevelDebug Level = Level(slog.LevelDebug)
	// LevelInfo is the default level.
	LevelInfo Level = Level(slog.LevelInfo)
	// LevelWarn logs warnings and errors only.
	LevelWarn Level = Level(slog.LevelWarn)
	// LevelError logs errors only.
	LevelError Level = Level(slog.LevelError)
)

// ParseLevel converts a textual log level into a Level. Unknown values
// fall back to LevelInfo.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// NewLogger constructs a slog.Logger writing tinted output to w at the
// given level. A nil writer falls back to stderr.
func NewLogger(w io.Writer, level Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level: slog.Level(level),
	})

	return slog.New(handler)
}
