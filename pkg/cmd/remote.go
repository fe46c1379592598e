package cmd

import (
	"log/slog"

	"github.com/dukex/n8nsync/pkg/config"
	"github.com/dukex/n8nsync/pkg/n8n"
	"go.opentelemetry.io/otel/trace"
)

// NewRemoteStore builds the n8n client from validated configuration.
func NewRemoteStore(cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) *n8n.Client {
	opts := []n8n.Option{
		n8n.WithTracer(tracer),
		n8n.WithLogger(logger),
	}

	if cfg.HTTPTimeout > 0 {
		opts = append(opts, n8n.WithTimeout(cfg.HTTPTimeout))
	}

	return n8n.NewClient(cfg.APIURL, cfg.APIKey, opts...)
}
