// Package logger builds the process slog logger from configuration.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nathoo/topdown/config"
)

// Setup configures the global slog logger writing to w.
func Setup(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Output picks the log destination. The full-screen UI owns the terminal,
// so it logs to cfg.LogFile or nowhere; line modes log to stderr. The
// returned close func is never nil.
func Output(cfg *config.Config, fullscreen bool) (io.Writer, func() error, error) {
	if !fullscreen {
		return os.Stderr, func() error { return nil }, nil
	}
	if cfg.LogFile == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
