package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/n8nsync/pkg/eventbus"
	n8nlog "github.com/dukex/n8nsync/pkg/log"
	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/persistence"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RemoteStore is the part of the n8n API a sync run uses.
type RemoteStore interface {
	ListWorkflows(ctx context.Context) ([]*models.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (*models.Workflow, error)
	CreateWorkflow(ctx context.Context, spec models.WorkflowSpec) (*models.Workflow, error)
	UpdateWorkflow(ctx context.Context, id string, spec models.WorkflowSpec) (*models.Workflow, error)
	ActivateWorkflow(ctx context.Context, id string) error
}

// Syncer runs the export, import, deploy and rename flows. Every flow is
// sequential; nothing is retried.
type Syncer struct {
	remote    RemoteStore
	repo      persistence.WorkflowRepository
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Syncer)

// WithPublisher sets where sync events go. The default drops them.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(s *Syncer) {
		s.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Syncer) {
		s.tracer = tracer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithClock overrides the time stamped into exported snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

func NewSyncer(remote RemoteStore, repo persistence.WorkflowRepository, opts ...Option) *Syncer {
	s := &Syncer{
		remote:    remote,
		repo:      repo,
		publisher: eventbus.NoopEventBus{},
		tracer:    otel.Tracer("github.com/dukex/n8nsync/pkg/services"),
		logger:    slog.Default(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With("module", "syncer")

	return s
}

// remoteIndex lists the remote workflows and indexes them by name.
func (s *Syncer) remoteIndex(ctx context.Context) ([]*models.Workflow, RemoteIndex, error) {
	workflows, err := s.remote.ListWorkflows(ctx)
	if err != nil {
		return nil, RemoteIndex{}, err
	}

	index := NewRemoteIndex(workflows)
	for _, dup := range index.Duplicates() {
		s.logger.WarnContext(ctx, "Duplicate remote workflow name, using the first one listed",
			"name", dup.Name, "ignored_id", dup.ID)
	}

	return workflows, index, nil
}

func (s *Syncer) publish(ctx context.Context, key string, event eventbus.Event) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish sync event", "event_type", event.GetType(), "error", err)
	}
}

func runID(ctx context.Context) string {
	return n8nlog.RunID(ctx)
}
