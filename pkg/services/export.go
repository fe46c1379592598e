package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/n8nsync/pkg/events"
	"github.com/dukex/n8nsync/pkg/layout"
	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/otelhelper"
	"github.com/dukex/n8nsync/pkg/sanitizer"
	"go.opentelemetry.io/otel/attribute"
)

const (
	reasonArchived      = "archived"
	reasonDuplicateName = "duplicate-name"
)

// ExportedWorkflow is one file written by Export.
type ExportedWorkflow struct {
	ID   string
	Name string
	Path string
}

// SkippedWorkflow is one workflow a flow deliberately left alone.
type SkippedWorkflow struct {
	ID     string
	Name   string
	Path   string
	Reason string
}

// ExportResult summarizes an export run.
type ExportResult struct {
	Exported []ExportedWorkflow
	Skipped  []SkippedWorkflow
	Failed   []*ItemError
}

// Export writes one sanitized snapshot per non-archived remote workflow.
// Workflows that fail to sanitize or fetch are skipped and reported through
// ErrExportIncomplete; a failed write aborts the run.
func (s *Syncer) Export(ctx context.Context) (*ExportResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "sync.export", attribute.String(otelhelper.RunIDKey, runID(ctx)))
	defer span.End()

	workflows, err := s.remote.ListWorkflows(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to list remote workflows: %w", err)
	}

	s.logger.InfoContext(ctx, "Found remote workflows", "count", len(workflows))

	result := &ExportResult{}
	claimed := make(map[string]string, len(workflows))

	// The first workflow listed under a name owns it, as in RemoteIndex.
	owners := make(map[MatchKey]string, len(workflows))

	for _, wf := range workflows {
		reason := ""

		switch ownerID, taken := owners[KeyOf(wf.Name)]; {
		case wf.IsArchived:
			reason = reasonArchived
		case taken:
			reason = reasonDuplicateName
			s.logger.WarnContext(ctx, "Duplicate remote workflow name, exporting the first one listed",
				"name", wf.Name, "ignored_id", wf.ID, "owner_id", ownerID)
		default:
			owners[KeyOf(wf.Name)] = wf.ID
		}

		if reason != "" {
			s.logger.InfoContext(ctx, "Skipped workflow", "name", wf.Name, "id", wf.ID, "reason", reason)
			result.Skipped = append(result.Skipped, SkippedWorkflow{ID: wf.ID, Name: wf.Name, Reason: reason})
			s.publish(ctx, wf.ID, events.WorkflowSkipped{
				BaseEvent: events.NewBaseEvent(events.WorkflowSkippedEvent, runID(ctx), wf.ID, wf.Name),
				Reason:    reason,
			})

			continue
		}

		exported, err := s.exportOne(ctx, wf, claimed)
		if err != nil {
			var itemErr *ItemError
			if errors.As(err, &itemErr) {
				s.logger.ErrorContext(ctx, "Failed to export workflow", "name", wf.Name, "id", wf.ID, "error", itemErr.Err)
				result.Failed = append(result.Failed, itemErr)
				s.publish(ctx, wf.ID, events.WorkflowFailed{
					BaseEvent: events.NewBaseEvent(events.WorkflowFailedEvent, runID(ctx), wf.ID, wf.Name),
					Error:     itemErr.Err.Error(),
				})

				continue
			}

			otelhelper.SetError(span, err)

			return result, err
		}

		result.Exported = append(result.Exported, exported)
		s.publish(ctx, wf.ID, events.WorkflowExported{
			BaseEvent: events.NewBaseEvent(events.WorkflowExportedEvent, runID(ctx), wf.ID, wf.Name),
			Path:      exported.Path,
		})
	}

	span.SetAttributes(
		attribute.Int("n8nsync.export.exported", len(result.Exported)),
		attribute.Int("n8nsync.export.skipped", len(result.Skipped)),
		attribute.Int("n8nsync.export.failed", len(result.Failed)),
	)

	if len(result.Failed) > 0 {
		return result, batchError(ErrExportIncomplete, result.Failed)
	}

	return result, nil
}

// exportOne returns an *ItemError for per-workflow failures and a plain error
// when the repository itself cannot be written.
func (s *Syncer) exportOne(ctx context.Context, wf *models.Workflow, claimed map[string]string) (ExportedWorkflow, error) {
	if wf.Nodes == nil && wf.ID != "" {
		full, err := s.remote.GetWorkflow(ctx, wf.ID)
		if err != nil {
			return ExportedWorkflow{}, &ItemError{Name: wf.Name, Err: fmt.Errorf("failed to fetch workflow: %w", err)}
		}

		wf = full
	}

	sanitized, err := sanitizer.Sanitize(wf)
	if err != nil {
		return ExportedWorkflow{}, &ItemError{Name: wf.Name, Err: err}
	}

	category := layout.Categorize(wf.Name)

	stem, err := s.exportStem(ctx, category, wf, claimed)
	if err != nil {
		return ExportedWorkflow{}, err
	}

	record, err := s.repo.Save(ctx, category, stem, sanitizer.Envelope(sanitized, s.now()))
	if err != nil {
		return ExportedWorkflow{}, err
	}

	claimed[record.RelativePath()] = wf.Name

	s.logger.InfoContext(ctx, "Exported workflow", "name", wf.Name, "path", record.RelativePath())

	return ExportedWorkflow{ID: wf.ID, Name: wf.Name, Path: record.RelativePath()}, nil
}

// exportStem picks the file stem for wf. The plain stem is used unless a
// workflow with a different name already claimed it in this run or the file
// on disk holds a different name, in which case the id is appended. A file
// holding the same name is the same workflow and is overwritten, whatever
// remote id it was exported from.
func (s *Syncer) exportStem(ctx context.Context, category models.Category, wf *models.Workflow, claimed map[string]string) (string, error) {
	stem := layout.Stem(wf.Name)
	if stem == "" {
		return layout.DisambiguatedStem("workflow", wf.ID), nil
	}

	relativePath := string(category) + "/" + stem + layout.Extension

	if owner, taken := claimed[relativePath]; taken && KeyOf(owner) != KeyOf(wf.Name) {
		return s.disambiguate(ctx, wf, relativePath, owner), nil
	}

	storedName, exists, err := s.repo.StoredName(ctx, category, stem)
	if err != nil {
		return "", err
	}

	if exists && storedName != "" && KeyOf(storedName) != KeyOf(wf.Name) {
		return s.disambiguate(ctx, wf, relativePath, storedName), nil
	}

	return stem, nil
}

func (s *Syncer) disambiguate(ctx context.Context, wf *models.Workflow, relativePath, owner string) string {
	stem := layout.DisambiguatedStem(wf.Name, wf.ID)

	s.logger.WarnContext(ctx, "Filename collision, appending remote id",
		"name", wf.Name, "id", wf.ID, "path", relativePath, "owner_name", owner, "stem", stem)

	return stem
}
