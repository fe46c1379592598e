package log

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const runIDKey contextKey = "run_id"

// NewRun tags ctx and logger with a fresh run id.
func NewRun(ctx context.Context, logger *slog.Logger) (context.Context, *slog.Logger, string) {
	runID := uuid.NewString()

	return context.WithValue(ctx, runIDKey, runID), logger.With("run_id", runID), runID
}

// RunID returns the run id stored in ctx, if any.
func RunID(ctx context.Context) string {
	runID, _ := ctx.Value(runIDKey).(string)

	return runID
}
