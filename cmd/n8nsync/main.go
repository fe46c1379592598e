package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/n8nsync/pkg/config"
	cli "github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()

	if err := cmd.Run(ctx, os.Args); err != nil {
		printFailure(err)
		stop()
		os.Exit(1)
	}
}

func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:                  "n8nsync",
		Usage:                 "Keep n8n workflows in sync with a local, credential-free repository",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewExportCommand(),
			NewImportCommand(),
			NewDeployCommand(),
			NewRenameCommand(),
			NewBackupCommand(),
			NewValidateCommand(),
			NewWatchCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path of the .env file to read",
				Value: config.DefaultEnvFile,
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "n8n API base URL, e.g. https://n8n.example.com/api/v1",
				Sources: cli.EnvVars("N8N_API_URL"),
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "n8n API key",
				Sources: cli.EnvVars("N8N_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "workflows-dir",
				Usage:   "Directory holding <category>/<name>.json files",
				Value:   config.DefaultWorkflowsDir,
				Sources: cli.EnvVars("WORKFLOWS_DIR"),
			},
			&cli.DurationFlag{
				Name:    "http-timeout",
				Usage:   "Timeout for each n8n request (0 disables it)",
				Sources: cli.EnvVars("HTTP_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Where sync events are published (none, kafka)",
				Value:   config.DefaultEventBus,
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers for --event-bus kafka",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
	}
}

func printFailure(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %v\n", failMark(), err)
}
