// Package schedule runs a job on a cron schedule until its context ends.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

var ErrEmptyExpression = errors.New("cron expression is required")

// Job is one scheduled run. Its error is logged; the schedule keeps going.
type Job func(ctx context.Context) error

type Scheduler struct {
	expr   string
	logger *slog.Logger
	runs   atomic.Int64
}

// New validates expr (standard five-field syntax or a descriptor such as
// @daily) and returns a scheduler for it.
func New(expr string, logger *slog.Logger) (*Scheduler, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}

	if _, err := cron.ParseStandard(expr); err != nil {
		return nil, fmt.Errorf("invalid cron expression '%s': %w", expr, err)
	}

	return &Scheduler{
		expr:   expr,
		logger: logger.With("module", "schedule", "cron", expr),
	}, nil
}

// Runs returns how many times the job has been started.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Run blocks until ctx is done, starting job on every tick. A run that is
// still going when the next tick fires makes that tick a no-op.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := c.AddFunc(s.expr, func() {
		run := s.runs.Add(1)
		logger := s.logger.With("run", run)
		logger.InfoContext(ctx, "Starting scheduled run")

		if err := job(ctx); err != nil {
			logger.ErrorContext(ctx, "Scheduled run failed", "error", err)

			return
		}

		logger.InfoContext(ctx, "Scheduled run finished")
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	c.Start()
	s.logger.InfoContext(ctx, "Scheduler started")

	<-ctx.Done()

	s.logger.Info("Stopping scheduler")
	<-c.Stop().Done()

	return nil
}
