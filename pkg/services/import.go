package services

import (
	"context"
	"fmt"

	"github.com/dukex/n8nsync/pkg/events"
	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/otelhelper"
	"github.com/dukex/n8nsync/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
)

// ImportOptions tunes ImportAll.
type ImportOptions struct {
	// Filter keeps only records whose relative path contains it, or matches it
	// as a glob when it has glob metacharacters.
	Filter string

	// DryRun reconciles without calling create or update.
	DryRun bool

	// UpdateOnly never creates remote workflows.
	UpdateOnly bool
}

// ImportedWorkflow is one local file pushed to, or planned for, the remote store.
type ImportedWorkflow struct {
	ID     string
	Name   string
	Path   string
	Action ActionKind
}

// ImportResult summarizes an import run. Planned is filled instead of
// Created and Updated on a dry run.
type ImportResult struct {
	Created []ImportedWorkflow
	Updated []ImportedWorkflow
	Planned []ImportedWorkflow
	Skipped []SkippedWorkflow
	Failed  []*ItemError
}

// ImportAll reconciles every matching local file against the remote store.
// A failing file is recorded and the run moves on; ErrPartialImport is
// returned alongside the result when anything failed.
func (s *Syncer) ImportAll(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "sync.import",
		attribute.String(otelhelper.RunIDKey, runID(ctx)),
		attribute.Bool("n8nsync.import.dry_run", opts.DryRun),
	)
	defer span.End()

	records, err := s.repo.List(ctx, persistence.ListOptions{Filter: opts.Filter})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list local workflows: %w", err)
	}

	_, index, err := s.remoteIndex(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list remote workflows: %w", err)
	}

	s.logger.InfoContext(ctx, "Importing workflows", "local", len(records), "remote", index.Len(), "dry_run", opts.DryRun)

	result := &ImportResult{}
	reconcileOpts := ReconcileOptions{UpdateOnly: opts.UpdateOnly}

	for _, record := range records {
		path := record.RelativePath()

		snapshot, err := s.repo.Load(ctx, record)
		if err != nil {
			s.recordImportFailure(ctx, result, &ItemError{Path: path, Err: err})

			continue
		}

		action := Reconcile(snapshot, index, reconcileOpts)

		if action.Kind.IsSkip() {
			s.logger.InfoContext(ctx, "Skipped workflow", "path", path, "reason", action.Kind.String())
			result.Skipped = append(result.Skipped, SkippedWorkflow{Name: snapshot.Name, Path: path, Reason: action.Kind.String()})
			s.publish(ctx, path, events.WorkflowSkipped{
				BaseEvent: events.NewBaseEvent(events.WorkflowSkippedEvent, runID(ctx), "", snapshot.Name),
				Path:      path,
				Reason:    action.Kind.String(),
			})

			continue
		}

		if opts.DryRun {
			result.Planned = append(result.Planned, ImportedWorkflow{ID: action.RemoteID, Name: snapshot.Name, Path: path, Action: action.Kind})

			continue
		}

		imported, err := s.apply(ctx, snapshot, action)
		if err != nil {
			s.recordImportFailure(ctx, result, &ItemError{Path: path, Name: snapshot.Name, Err: err})

			continue
		}

		imported.Path = path

		if imported.Action == ActionCreate {
			result.Created = append(result.Created, imported)
		} else {
			result.Updated = append(result.Updated, imported)
		}

		s.logger.InfoContext(ctx, "Imported workflow", "path", path, "action", imported.Action.String(), "id", imported.ID)
		s.publishApplied(ctx, imported)
	}

	span.SetAttributes(
		attribute.Int("n8nsync.import.created", len(result.Created)),
		attribute.Int("n8nsync.import.updated", len(result.Updated)),
		attribute.Int("n8nsync.import.skipped", len(result.Skipped)),
		attribute.Int("n8nsync.import.failed", len(result.Failed)),
	)

	if len(result.Failed) > 0 {
		return result, batchError(ErrPartialImport, result.Failed)
	}

	return result, nil
}

func (s *Syncer) recordImportFailure(ctx context.Context, result *ImportResult, itemErr *ItemError) {
	s.logger.ErrorContext(ctx, "Failed to import workflow", "path", itemErr.Path, "error", itemErr.Err)
	result.Failed = append(result.Failed, itemErr)
	s.publish(ctx, itemErr.Path, events.WorkflowFailed{
		BaseEvent: events.NewBaseEvent(events.WorkflowFailedEvent, runID(ctx), "", itemErr.Name),
		Path:      itemErr.Path,
		Error:     itemErr.Err.Error(),
	})
}

// apply performs a create or update. The whole definition is overwritten.
func (s *Syncer) apply(ctx context.Context, snapshot *models.Snapshot, action Action) (ImportedWorkflow, error) {
	spec := snapshot.Spec(snapshot.Name)

	switch action.Kind {
	case ActionCreate:
		created, err := s.remote.CreateWorkflow(ctx, spec)
		if err != nil {
			return ImportedWorkflow{}, fmt.Errorf("failed to create workflow %q: %w", snapshot.Name, err)
		}

		return ImportedWorkflow{ID: created.ID, Name: snapshot.Name, Action: ActionCreate}, nil
	case ActionUpdate:
		if _, err := s.remote.UpdateWorkflow(ctx, action.RemoteID, spec); err != nil {
			return ImportedWorkflow{}, fmt.Errorf("failed to update workflow %q (%s): %w", snapshot.Name, action.RemoteID, err)
		}

		return ImportedWorkflow{ID: action.RemoteID, Name: snapshot.Name, Action: ActionUpdate}, nil
	default:
		return ImportedWorkflow{}, fmt.Errorf("unexpected action %s for %q", action.Kind, snapshot.Name)
	}
}

func (s *Syncer) publishApplied(ctx context.Context, imported ImportedWorkflow) {
	base := events.NewBaseEvent(events.WorkflowUpdatedEvent, runID(ctx), imported.ID, imported.Name)

	if imported.Action == ActionCreate {
		base.Type = events.WorkflowCreatedEvent
		s.publish(ctx, imported.ID, events.WorkflowCreated{BaseEvent: base, Path: imported.Path})

		return
	}

	s.publish(ctx, imported.ID, events.WorkflowUpdated{BaseEvent: base, Path: imported.Path})
}
