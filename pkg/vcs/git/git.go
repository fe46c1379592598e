// Package git commits and pushes the workflows directory.
package git

import (
	"context"
	"fmt"
	"log/slog"
)

// Repository runs git in a working tree.
type Repository struct {
	dir    string
	runner CommandRunner
	logger *slog.Logger
}

// New returns a Repository for the working tree at dir. A nil runner uses os/exec.
func New(dir string, runner CommandRunner, logger *slog.Logger) *Repository {
	if runner == nil {
		runner = NewExecRunner()
	}

	return &Repository{
		dir:    dir,
		runner: runner,
		logger: logger.With("module", "git"),
	}
}

// Commit stages path and commits it with message. It reports false, and makes
// no commit, when path has no changes.
func (r *Repository) Commit(ctx context.Context, path, message string) (bool, error) {
	status, err := r.git(ctx, "status", "--porcelain", "--", path)
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %w", err)
	}

	if status == "" {
		r.logger.InfoContext(ctx, "No changes to commit", "path", path)

		return false, nil
	}

	if _, err := r.git(ctx, "add", "--", path); err != nil {
		return false, fmt.Errorf("failed to stage %s: %w", path, err)
	}

	if _, err := r.git(ctx, "commit", "-m", message, "--", path); err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}

	r.logger.InfoContext(ctx, "Committed changes", "path", path, "message", message)

	return true, nil
}

// Push pushes the current branch to its upstream.
func (r *Repository) Push(ctx context.Context) error {
	if _, err := r.git(ctx, "push"); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}

	return nil
}

func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.dir, "git", args...)
}
