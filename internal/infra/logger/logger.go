// Package logger builds the slog.Logger shared by all commands.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"strandctl/internal/infra/config"
)

// New creates a *slog.Logger from cfg and returns a closer that must be
// deferred so file outputs are flushed and closed on exit. Logs default to
// stderr so command output on stdout stays machine-readable. At debug level
// records carry source file and line.
func New(cfg config.LoggerConfig) (*slog.Logger, func() error, error) {
	w, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}

	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}
	return slog.New(newHandler(cfg.Format, w, opts)), closer, nil
}

func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel maps a config level string to slog.Level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// openOutput resolves the output target. "stdout", "stderr" (the default),
// and "discard" are special; anything else is an append-mode file path whose
// handle the returned closer owns.
func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(output) {
	case "stdout":
		return os.Stdout, noop, nil
	case "stderr", "":
		return os.Stderr, noop, nil
	case "discard":
		return io.Discard, noop, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}
