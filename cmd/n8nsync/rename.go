package main

import (
	"context"
	"errors"

	"github.com/dukex/n8nsync/pkg/services"
	cli "github.com/urfave/cli/v3"
)

var errRenameArgs = errors.New("rename needs the current and the new workflow name")

func NewRenameCommand() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a workflow in n8n, keeping its id",
		ArgsUsage: "<old name> <new name>",
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() != 2 {
				return errRenameArgs
			}

			oldName, newName := command.Args().Get(0), command.Args().Get(1)

			ctx, a, err := newRemoteApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			result, err := a.syncer.Rename(ctx, oldName, newName)
			if err != nil {
				printList("Remote workflows:", services.CandidatesOf(err))

				return err
			}

			printf("%s renamed %q to %q (%s)\n", okMark(), result.OldName, result.NewName, result.ID)
			printf("💡 Run %s to move the local file to its new name\n", cyan("n8nsync export"))

			return nil
		},
	}
}
