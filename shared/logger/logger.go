package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger

func init() {
	// Safe defaults for tests; binaries call Initialize/InitializeTo explicitly
	Initialize("info", false)
}

// Initialize sets up the global logger writing to stdout.
func Initialize(level string, useJSON bool) {
	InitializeTo(os.Stdout, level, useJSON)
}

// InitializeTo sets up the global logger on w. The client logs to stderr
// because stdout belongs to the console.
func InitializeTo(w io.Writer, level string, useJSON bool) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Discard silences logging, used by tests that exercise failure paths.
func Discard() {
	Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
