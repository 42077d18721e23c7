package tensorann

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/tensorann/index"
)

// Logger wraps slog.Logger with tensorann-specific context.
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

// WithID adds the index build ID.
func (l *Logger) WithID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index_id", id),
	}
}

// WithKind adds the index kind.
func (l *Logger) WithKind(kind Kind) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", kind.String()),
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, p index.Params, points, dimension int, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"params", p.String(),
			"points", points,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"params", p.String(),
			"points", points,
			"dimension", dimension,
			"took", took,
		)
	}
}

// LogQuery logs a query.
func (l *Logger) LogQuery(ctx context.Context, res index.Result, cached bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "query rejected",
			"error", err,
		)
		return
	}
	if res.Found {
		l.DebugContext(ctx, "query completed",
			"id", res.ID,
			"similarity", res.Similarity,
			"cached", cached,
		)
	} else {
		l.DebugContext(ctx, "no close point found",
			"cached", cached,
		)
	}
}
