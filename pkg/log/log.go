// Package log configures the process-wide slog logger.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs and returns the default logger writing to w, stderr when w
// is nil. format is "text" or "json".
func Setup(w io.Writer, logLevel, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := New(w, logLevel, format)
	slog.SetDefault(logger)

	return logger
}

// New builds a logger writing to w.
func New(w io.Writer, logLevel, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(logLevel)}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithModule tags the default logger with a module name. Components that
// receive a logger add their own module tag, so pass them an untagged one.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
