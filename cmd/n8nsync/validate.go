package main

import (
	"context"

	"github.com/dukex/n8nsync/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check local workflow files without contacting n8n",
		ArgsUsage: "[filter]",
		Action: func(ctx context.Context, command *cli.Command) error {
			ctx, a, err := newLocalApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			printf("🔍 Validating %s\n\n", cyan(a.repo.Root()))

			result, err := services.ValidateFiles(ctx, a.repo, command.Args().First())
			if result != nil {
				printValidation(result)
			}

			return err
		},
	}
}

func printValidation(result *services.ValidateResult) {
	placeholders := 0

	for _, file := range result.Valid {
		switch {
		case file.Misplaced():
			printf("  %s %s (export writes it to %s)\n", warnMark(), file.Path, file.ExpectedPath)
		case file.Placeholder:
			placeholders++

			printf("  %s %s (placeholder)\n", skipMark(), file.Path)
		default:
			printf("  %s %s\n", okMark(), file.Path)
		}
	}

	for _, invalid := range result.Invalid {
		printf("  %s %s\n", failMark(), invalid.Error())
	}

	printSummary(
		[2]any{"Valid", len(result.Valid)},
		[2]any{"Empty", placeholders},
		[2]any{"Invalid", len(result.Invalid)},
	)
}
