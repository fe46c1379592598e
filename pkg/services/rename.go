package services

import (
	"context"
	"fmt"

	"github.com/dukex/n8nsync/pkg/events"
	"github.com/dukex/n8nsync/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

type RenameResult struct {
	ID      string
	OldName string
	NewName string
}

// Rename changes a remote workflow's name in place, keeping its id. It never
// creates a workflow.
func (s *Syncer) Rename(ctx context.Context, oldName, newName string) (*RenameResult, error) {
	if oldName == "" || newName == "" {
		return nil, ErrNameRequired
	}

	if KeyOf(oldName) == KeyOf(newName) {
		return nil, ErrSameName
	}

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "sync.rename",
		attribute.String(otelhelper.RunIDKey, runID(ctx)),
		attribute.String(otelhelper.WorkflowNameKey, oldName),
	)
	defer span.End()

	_, index, err := s.remoteIndex(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list remote workflows: %w", err)
	}

	summary, ok := index.Lookup(oldName)
	if !ok {
		err := &NotFoundError{Op: "rename", Name: oldName, Candidates: index.Names()}
		otelhelper.SetError(span, err)

		return nil, err
	}

	if taken, exists := index.Lookup(newName); exists {
		s.logger.WarnContext(ctx, "Another remote workflow already uses the new name", "name", newName, "id", taken.ID)
	}

	span.SetAttributes(attribute.String(otelhelper.WorkflowIDKey, summary.ID))

	current, err := s.remote.GetWorkflow(ctx, summary.ID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to fetch workflow %q (%s): %w", oldName, summary.ID, err)
	}

	if _, err := s.remote.UpdateWorkflow(ctx, summary.ID, current.Spec(newName)); err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to rename workflow %q (%s): %w", oldName, summary.ID, err)
	}

	s.logger.InfoContext(ctx, "Renamed workflow", "id", summary.ID, "old_name", oldName, "new_name", newName)
	s.publish(ctx, summary.ID, events.WorkflowRenamed{
		BaseEvent:    events.NewBaseEvent(events.WorkflowRenamedEvent, runID(ctx), summary.ID, newName),
		PreviousName: oldName,
	})

	return &RenameResult{ID: summary.ID, OldName: oldName, NewName: newName}, nil
}
