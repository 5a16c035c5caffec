package shapeset

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with shapeset-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLabel adds a label field to the logger.
func (l *Logger) WithLabel(label string) *Logger {
	return &Logger{
		Logger: l.Logger.With("label", label),
	}
}

// WithBuildID adds a build_id field to the logger.
func (l *Logger) WithBuildID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("build_id", id),
	}
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// LogIngest logs an ingest operation.
func (l *Logger) LogIngest(ctx context.Context, label, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"label", label,
			"bytes", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "ingest completed",
			"label", label,
			"name", name,
			"bytes", size,
		)
	}
}

// LogBuild logs a dataset build.
func (l *Logger) LogBuild(ctx context.Context, rows, cols int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset build failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset built",
			"rows", rows,
			"cols", cols,
		)
	}
}

// LogSave logs a dataset save.
func (l *Logger) LogSave(ctx context.Context, buildID string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset save failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset saved",
			"build_id", buildID,
			"bytes", bytes,
		)
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, buildID string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset loaded",
			"build_id", buildID,
			"rows", rows,
		)
	}
}
