package main

import (
	"context"

	"github.com/dukex/n8nsync/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func NewExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every n8n workflow, sanitized, into the workflows directory",
		Action: func(ctx context.Context, command *cli.Command) error {
			ctx, a, err := newRemoteApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			printf("📥 Exporting workflows from %s\n\n", cyan(a.config.APIURL))

			result, err := a.syncer.Export(ctx)
			printExport(result)

			return err
		},
	}
}

func printExport(result *services.ExportResult) {
	if result == nil {
		return
	}

	for _, wf := range result.Exported {
		printf("  %s %s\n", okMark(), wf.Path)
	}

	for _, wf := range result.Skipped {
		printf("  %s %s (%s)\n", skipMark(), wf.Name, wf.Reason)
	}

	for _, failed := range result.Failed {
		printf("  %s %s\n", failMark(), failed.Error())
	}

	printSummary(
		[2]any{"Exported", len(result.Exported)},
		[2]any{"Skipped", len(result.Skipped)},
		[2]any{"Failed", len(result.Failed)},
	)
}
