package ensemble

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with clustering-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithStrategy adds the strategy name to the logger.
func (l *Logger) WithStrategy(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", name),
	}
}

// WithRun adds a run id to the logger (useful for correlating passes).
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// LogRunStart logs the beginning of a clustering run.
func (l *Logger) LogRunStart(ctx context.Context, records int) {
	l.InfoContext(ctx, "clustering started",
		"records", records,
	)
}

// LogRun logs the outcome of a clustering run.
func (l *Logger) LogRun(ctx context.Context, iterations, clusters int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"iterations", iterations,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "clustering completed",
			"iterations", iterations,
			"clusters", clusters,
		)
	}
}

// LogPass logs a completed assignment pass.
func (l *Logger) LogPass(ctx context.Context, iteration, clusters, created int) {
	l.InfoContext(ctx, "pass completed",
		"iteration", iteration,
		"clusters", clusters,
		"created", created,
	)
}

// LogSeeding logs the K-Means++ seeding outcome. Fewer seeds than requested
// is logged as a warning.
func (l *Logger) LogSeeding(ctx context.Context, want, got, draws int) {
	if got < want {
		l.WarnContext(ctx, "seeding produced fewer clusters than requested",
			"k", want,
			"seeds", got,
			"draws", draws,
		)
	} else {
		l.DebugContext(ctx, "seeding completed",
			"k", want,
			"draws", draws,
		)
	}
}
