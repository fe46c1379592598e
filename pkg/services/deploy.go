package services

import (
	"context"
	"fmt"

	"github.com/dukex/n8nsync/pkg/events"
	"github.com/dukex/n8nsync/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

type DeployOptions struct {
	// Activate turns the workflow on after a successful create or update,
	// unless it already reports active.
	Activate bool
}

// DeployResult describes a single deploy. Action is ActionSkipPlaceholder
// when the file has no nodes and nothing was sent.
type DeployResult struct {
	ImportedWorkflow

	Activated     bool
	AlreadyActive bool
}

// Deploy pushes exactly one local file. Any failure is returned as-is.
func (s *Syncer) Deploy(ctx context.Context, target string, opts DeployOptions) (*DeployResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "sync.deploy",
		attribute.String(otelhelper.RunIDKey, runID(ctx)),
		attribute.String(otelhelper.WorkflowPathKey, target),
	)
	defer span.End()

	record, err := s.repo.Find(ctx, target)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	path := record.RelativePath()

	snapshot, err := s.repo.Load(ctx, record)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	_, index, err := s.remoteIndex(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list remote workflows: %w", err)
	}

	action := Reconcile(snapshot, index, ReconcileOptions{})
	result := &DeployResult{ImportedWorkflow: ImportedWorkflow{Name: snapshot.Name, Path: path, Action: action.Kind}}

	if action.Kind == ActionSkipPlaceholder {
		s.logger.InfoContext(ctx, "Skipped placeholder workflow", "path", path)
		s.publish(ctx, path, events.WorkflowSkipped{
			BaseEvent: events.NewBaseEvent(events.WorkflowSkippedEvent, runID(ctx), "", snapshot.Name),
			Path:      path,
			Reason:    action.Kind.String(),
		})

		return result, nil
	}

	applied, err := s.apply(ctx, snapshot, action)
	if err != nil {
		otelhelper.SetError(span, err)
		s.publish(ctx, path, events.WorkflowFailed{
			BaseEvent: events.NewBaseEvent(events.WorkflowFailedEvent, runID(ctx), action.RemoteID, snapshot.Name),
			Path:      path,
			Error:     err.Error(),
		})

		return nil, err
	}

	applied.Path = path
	result.ImportedWorkflow = applied

	span.SetAttributes(
		attribute.String(otelhelper.WorkflowIDKey, applied.ID),
		attribute.String(otelhelper.ActionKey, applied.Action.String()),
	)
	s.logger.InfoContext(ctx, "Deployed workflow", "path", path, "action", applied.Action.String(), "id", applied.ID)
	s.publishApplied(ctx, applied)

	if !opts.Activate {
		return result, nil
	}

	if action.Kind == ActionUpdate && action.RemoteActive {
		result.AlreadyActive = true

		return result, nil
	}

	if err := s.remote.ActivateWorkflow(ctx, applied.ID); err != nil {
		otelhelper.SetError(span, err)

		return result, fmt.Errorf("failed to activate workflow %q (%s): %w", applied.Name, applied.ID, err)
	}

	result.Activated = true
	s.publish(ctx, applied.ID, events.WorkflowActivated{
		BaseEvent: events.NewBaseEvent(events.WorkflowActivatedEvent, runID(ctx), applied.ID, applied.Name),
	})

	return result, nil
}
