package services

import (
	"context"
	"fmt"
	"time"
)

// VersionControl commits and publishes the workflows directory.
type VersionControl interface {
	// Commit stages path and commits it; false means there was nothing to commit.
	Commit(ctx context.Context, path, message string) (bool, error)
	Push(ctx context.Context) error
}

type BackupOptions struct {
	// Path is the directory committed, usually the workflows root.
	Path string

	// Push publishes the commit.
	Push bool
}

type BackupResult struct {
	Export    *ExportResult
	Message   string
	Committed bool
	Pushed    bool
}

// BackupMessage is the commit message for a backup taken at t.
func BackupMessage(t time.Time) string {
	return "backup: n8n workflows " + t.UTC().Format(time.DateOnly)
}

// Backup exports every workflow, then commits and optionally pushes the
// result. An export that did not fully succeed is not committed.
func (s *Syncer) Backup(ctx context.Context, vcs VersionControl, opts BackupOptions) (*BackupResult, error) {
	exported, err := s.Export(ctx)
	if err != nil {
		return &BackupResult{Export: exported}, fmt.Errorf("export failed: %w", err)
	}

	result := &BackupResult{Export: exported, Message: BackupMessage(s.now())}

	committed, err := vcs.Commit(ctx, opts.Path, result.Message)
	if err != nil {
		return result, err
	}

	result.Committed = committed

	if !committed {
		s.logger.InfoContext(ctx, "Backup is up to date")

		return result, nil
	}

	if !opts.Push {
		return result, nil
	}

	if err := vcs.Push(ctx); err != nil {
		return result, err
	}

	result.Pushed = true
	s.logger.InfoContext(ctx, "Backup pushed", "message", result.Message)

	return result, nil
}
