package main

import (
	"context"

	"github.com/dukex/n8nsync/pkg/schedule"
	"github.com/dukex/n8nsync/pkg/services"
	"github.com/dukex/n8nsync/pkg/vcs/git"
	cli "github.com/urfave/cli/v3"
)

func NewBackupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Export every workflow, then commit and push the workflows directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "schedule",
				Usage:   "Keep running and back up on this cron schedule, e.g. \"0 3 * * *\"",
				Sources: cli.EnvVars("BACKUP_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:  "no-push",
				Usage: "Commit without pushing",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			ctx, a, err := newRemoteApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			repo := git.New(".", nil, a.base)
			opts := services.BackupOptions{Path: a.config.WorkflowsDir, Push: !command.Bool("no-push")}

			expr := command.String("schedule")
			if expr == "" {
				return runBackup(ctx, a.syncer, repo, opts)
			}

			scheduler, err := schedule.New(expr, a.base)
			if err != nil {
				return err
			}

			printf("⏰ Backing up on %q, press Ctrl+C to stop\n", expr)

			return scheduler.Run(ctx, func(ctx context.Context) error {
				return runBackup(ctx, a.syncer, repo, opts)
			})
		},
	}
}

func runBackup(ctx context.Context, syncer *services.Syncer, repo services.VersionControl, opts services.BackupOptions) error {
	result, err := syncer.Backup(ctx, repo, opts)
	if result != nil {
		printExport(result.Export)
	}

	if err != nil {
		return err
	}

	switch {
	case !result.Committed:
		printf("\n%s no changes to back up\n", skipMark())
	case result.Pushed:
		printf("\n%s committed and pushed %q\n", okMark(), result.Message)
	default:
		printf("\n%s committed %q\n", okMark(), result.Message)
	}

	return nil
}
