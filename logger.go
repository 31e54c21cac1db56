package meshq

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with meshq-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithMesh adds the mesh identifier to the logger.
func (l *Logger) WithMesh(mesh string) *Logger {
	return &Logger{
		Logger: l.Logger.With("mesh", mesh),
	}
}

// WithStage adds a pipeline stage field to the logger.
func (l *Logger) WithStage(stage Stage) *Logger {
	return &Logger{
		Logger: l.Logger.With("stage", stage.String()),
	}
}

// WithBins adds a bin count field to the logger.
func (l *Logger) WithBins(bins int) *Logger {
	return &Logger{
		Logger: l.Logger.With("bins", bins),
	}
}

// LogStage logs a single stage transition at debug level.
func (l *Logger) LogStage(ctx context.Context, stage Stage, elapsed time.Duration, err error) {
	if err != nil {
		l.DebugContext(ctx, "stage failed",
			"stage", stage.String(),
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "stage completed",
		"stage", stage.String(),
		"elapsed", elapsed,
	)
}

// LogRun logs the outcome of one mesh.
func (l *Logger) LogRun(ctx context.Context, vertices, outputs int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mesh failed",
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "mesh completed",
			"vertices", vertices,
			"outputs", outputs,
			"elapsed", elapsed,
		)
	}
}

// LogBatch logs a batch run.
func (l *Logger) LogBatch(ctx context.Context, total, failed int, elapsed time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"total", total,
			"failed", failed,
			"success", total-failed,
			"elapsed", elapsed,
		)
	} else {
		l.InfoContext(ctx, "batch completed",
			"count", total,
			"elapsed", elapsed,
		)
	}
}

// LogVariant logs one rigid-motion variant of an adaptive comparison.
func (l *Logger) LogVariant(ctx context.Context, variant string, uniformMSE, adaptiveMSE float64, clipped uint64) {
	l.InfoContext(ctx, "variant evaluated",
		"variant", variant,
		"uniform_mse", uniformMSE,
		"adaptive_mse", adaptiveMSE,
		"clipped", clipped,
	)
}
