// Package logging builds the process-wide structured loggers. Both
// binaries log JSON to stdout and tag every line with the service name
// so API and worker output can be separated downstream.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

func NewJSONLogger(service, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFrom(level)}
	if opts.Level == slog.LevelDebug {
		opts.AddSource = true
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler).With(slog.String("service", service))
}

// levelFrom maps a config string to a slog level, defaulting to info
// on anything unrecognized.
func levelFrom(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
