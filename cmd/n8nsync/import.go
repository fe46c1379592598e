package main

import (
	"context"

	"github.com/dukex/n8nsync/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func NewImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create or update n8n workflows from the workflows directory",
		ArgsUsage: "[filter]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print what would be created or updated without calling n8n",
			},
			&cli.BoolFlag{
				Name:  "update-only",
				Usage: "Only update workflows that already exist remotely",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			ctx, a, err := newRemoteApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			opts := services.ImportOptions{
				Filter:     command.Args().First(),
				DryRun:     command.Bool("dry-run"),
				UpdateOnly: command.Bool("update-only"),
			}

			if opts.DryRun {
				printf("🔍 Dry run against %s\n\n", cyan(a.config.APIURL))
			} else {
				printf("📤 Importing workflows into %s\n\n", cyan(a.config.APIURL))
			}

			result, err := a.syncer.ImportAll(ctx, opts)
			printImport(result)

			return err
		},
	}
}

func printImport(result *services.ImportResult) {
	if result == nil {
		return
	}

	for _, wf := range result.Planned {
		printf("  %s %-6s %s\n", cyan("→"), wf.Action, wf.Path)
	}

	for _, wf := range result.Created {
		printf("  %s created %s (%s)\n", okMark(), wf.Path, wf.ID)
	}

	for _, wf := range result.Updated {
		printf("  %s updated %s (%s)\n", okMark(), wf.Path, wf.ID)
	}

	for _, wf := range result.Skipped {
		printf("  %s %s (%s)\n", skipMark(), wf.Path, wf.Reason)
	}

	for _, failed := range result.Failed {
		printf("  %s %s\n", failMark(), failed.Error())
	}

	rows := [][2]any{
		{"Created", len(result.Created)},
		{"Updated", len(result.Updated)},
		{"Skipped", len(result.Skipped)},
		{"Failed", len(result.Failed)},
	}

	if len(result.Planned) > 0 {
		rows = append([][2]any{{"Planned", len(result.Planned)}}, rows...)
	}

	printSummary(rows...)
}
