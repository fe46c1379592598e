package main

import (
	"context"
	"errors"

	"github.com/dukex/n8nsync/pkg/services"
	cli "github.com/urfave/cli/v3"
)

var errTargetRequired = errors.New("deploy needs a target such as sales/order-sync")

func NewDeployCommand() *cli.Command {
	return &cli.Command{
		Name:      "deploy",
		Usage:     "Push a single workflow file to n8n",
		ArgsUsage: "<category/name | category/name.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "activate",
				Usage: "Activate the workflow after deploying it",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			target := command.Args().First()
			if target == "" {
				return errTargetRequired
			}

			ctx, a, err := newRemoteApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			result, err := a.syncer.Deploy(ctx, target, services.DeployOptions{Activate: command.Bool("activate")})
			if err != nil {
				printList("Available workflows:", services.CandidatesOf(err))

				return err
			}

			printDeploy(result, a.remote.EditorURL(result.ID))

			return nil
		},
	}
}

func printDeploy(result *services.DeployResult, editorURL string) {
	if result.Action == services.ActionSkipPlaceholder {
		printf("%s %s has no nodes, nothing to deploy\n", skipMark(), result.Path)

		return
	}

	printf("%s %s %s (%s)\n", okMark(), result.Action, bold(result.Name), result.ID)

	switch {
	case result.Activated:
		printf("%s activated\n", okMark())
	case result.AlreadyActive:
		printf("%s already active\n", skipMark())
	}

	printf("🔗 %s\n", editorURL)
}
