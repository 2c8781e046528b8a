// Package logging configures the process-wide slog logger.
//
// Logs go to stderr as JSON by default, or as key=value text when the
// format is "text". LOG_LEVEL accepts debug, info, warn/warning and error
// (case-insensitive); anything else falls back to info. Debug level adds
// the source location to each record.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a level name into a slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w and tags every record with the service name
func New(w io.Writer, service, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("service", service)
}

// SetDefault installs a stderr logger as the slog default and returns it
func SetDefault(service, level, format string) *slog.Logger {
	logger := New(os.Stderr, service, level, format)
	slog.SetDefault(logger)
	return logger
}
