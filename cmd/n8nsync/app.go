package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dukex/n8nsync/pkg/cmd"
	"github.com/dukex/n8nsync/pkg/config"
	"github.com/dukex/n8nsync/pkg/eventbus"
	"github.com/dukex/n8nsync/pkg/log"
	"github.com/dukex/n8nsync/pkg/n8n"
	"github.com/dukex/n8nsync/pkg/otelhelper"
	"github.com/dukex/n8nsync/pkg/persistence/file"
	"github.com/dukex/n8nsync/pkg/services"
	cli "github.com/urfave/cli/v3"
)

const serviceName = "n8nsync"

// logOutput receives structured logs; stdout stays for command output.
var logOutput io.Writer = os.Stderr

// app is everything a command needs for one run.
type app struct {
	config *config.Config
	runID  string

	// base carries the run id only and is handed to components, which add
	// their own module tag. logger is base tagged for this command.
	base   *slog.Logger
	logger *slog.Logger

	repo   *file.WorkflowRepository
	remote *n8n.Client
	syncer *services.Syncer

	closers []func(context.Context) error
}

// loadConfig reads the .env file and environment, then applies explicit flags.
func loadConfig(command *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(command.String("env-file"))
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"api-url":       &cfg.APIURL,
		"api-key":       &cfg.APIKey,
		"workflows-dir": &cfg.WorkflowsDir,
		"event-bus":     &cfg.EventBus,
		"kafka-brokers": &cfg.KafkaBrokers,
		"log-level":     &cfg.LogLevel,
		"log-format":    &cfg.LogFormat,
	}

	for name, target := range overrides {
		if value := command.String(name); command.IsSet(name) && value != "" {
			*target = value
		}
	}

	if command.IsSet("http-timeout") {
		cfg.HTTPTimeout = command.Duration("http-timeout")
	}

	return cfg, nil
}

// newLocalApp sets up a run that only reads the workflows directory.
func newLocalApp(ctx context.Context, command *cli.Command) (context.Context, *app, error) {
	cfg, err := loadConfig(command)
	if err != nil {
		return ctx, nil, err
	}

	if err := cfg.ValidateLocal(); err != nil {
		return ctx, nil, err
	}

	return newApp(ctx, cfg)
}

// newRemoteApp sets up a run that talks to n8n. Configuration is validated
// before anything reaches the network.
func newRemoteApp(ctx context.Context, command *cli.Command) (context.Context, *app, error) {
	cfg, err := loadConfig(command)
	if err != nil {
		return ctx, nil, err
	}

	if err := cfg.ValidateRemote(); err != nil {
		return ctx, nil, err
	}

	ctx, a, err := newApp(ctx, cfg)
	if err != nil {
		return ctx, nil, err
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	a.closers = append(a.closers, shutdown)

	bus, err := cmd.NewEventBus(cfg.EventBus, cfg.KafkaBrokers, a.base)
	if err != nil {
		a.close(ctx)

		return ctx, nil, err
	}

	a.closers = append(a.closers, func(context.Context) error { return bus.Close() })

	a.remote = cmd.NewRemoteStore(cfg, tracer, a.base)
	a.syncer = services.NewSyncer(a.remote, a.repo,
		services.WithPublisher(bus),
		services.WithTracer(tracer),
		services.WithLogger(a.base),
	)

	return ctx, a, nil
}

func newApp(ctx context.Context, cfg *config.Config) (context.Context, *app, error) {
	ctx, base, runID := log.NewRun(ctx, log.Setup(logOutput, cfg.LogLevel, cfg.LogFormat))
	logger := base.With("module", serviceName)

	repo, err := cmd.NewRepository(cfg.WorkflowsDir)
	if err != nil {
		return ctx, nil, err
	}

	logger.Debug("Initialized n8nsync", "workflows_dir", repo.Root(), "event_bus", cfg.EventBus)

	return ctx, &app{config: cfg, runID: runID, base: base, logger: logger, repo: repo}, nil
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Error("Failed to shut down", "error", err)
		}
	}

	a.closers = nil
}

// subscriber opens a bus that consumes sync events.
func (a *app) subscriber() (eventbus.EventBus, error) {
	return cmd.NewSubscribingEventBus(a.config.EventBus, a.config.KafkaBrokers, a.base, serviceName+"-watch")
}
