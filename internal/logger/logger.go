// Package logger provides the structured slog logger for the application.
// All records are written as JSON to a size-rotated file under the data
// directory; warnings and errors are additionally mirrored to stderr so
// interactive runs surface problems without tailing the log file.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates the application logger writing to <logDir>/email-cli-app.log.
// The directory is created if it does not exist.
func New(logDir string, level slog.Level) (*slog.Logger, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "email-cli-app.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}

	fileHandler := slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{Level: level})
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})

	return slog.New(NewFanoutHandler(fileHandler, stderrHandler)), nil
}

// FanoutHandler multiplexes each record to every wrapped handler that is
// enabled for its level.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler wraps the given handlers into a single slog.Handler.
func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

// Enabled reports whether at least one wrapped handler accepts the level.
func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to every enabled handler. The first error is
// returned after all handlers ran.
func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, r.Level) {
			continue
		}
		if err := hh.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs returns a FanoutHandler whose wrapped handlers carry the attrs.
func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: next}
}

// WithGroup returns a FanoutHandler whose wrapped handlers carry the group.
func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		next[i] = hh.WithGroup(name)
	}
	return &FanoutHandler{handlers: next}
}
