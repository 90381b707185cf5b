package pokeyvq

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/pokeyvq/vq"
)

// Logger wraps slog.Logger with encoder-specific context.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithJob adds the job name.
func (l *Logger) WithJob(name string) *Logger {
	return &Logger{Logger: l.Logger.With("job", name)}
}

// WithClip adds a clip index.
func (l *Logger) WithClip(i int) *Logger {
	return &Logger{Logger: l.Logger.With("clip", i)}
}

// LogIteration logs one training iteration.
func (l *Logger) LogIteration(ctx context.Context, it vq.Iteration) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", it.Index,
		"cost", it.Cost,
		"distortion", it.Distortion,
		"vectors", it.Vectors,
		"used", it.Used,
		"respawned", it.Respawned,
		"elapsed", it.Elapsed,
	)
}

// LogTrain logs the end of a training run.
func (l *Logger) LogTrain(ctx context.Context, samples int, stats *Stats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "training failed",
			"samples", samples,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "training completed",
		"samples", samples,
		"iterations", stats.Iterations,
		"converged", stats.Converged,
		"cost", stats.Cost,
		"snr_db", stats.SNR,
		"used", stats.Used,
		"elapsed", stats.Elapsed,
	)
}

// LogExport logs an export.
func (l *Logger) LogExport(ctx context.Context, bytes int, clips int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"clips", clips,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "export completed",
		"bytes", bytes,
		"clips", clips,
	)
}

// LogPublish logs a published artifact set.
func (l *Logger) LogPublish(ctx context.Context, name string, version uint64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "publish failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "publish completed",
		"name", name,
		"version", version,
		"elapsed", elapsed,
	)
}
