package main

import (
	"context"
	"fmt"

	"github.com/dukex/n8nsync/pkg/events"
	cli "github.com/urfave/cli/v3"
)

func NewWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print sync events published by other n8nsync runs (needs --event-bus kafka)",
		Action: func(ctx context.Context, command *cli.Command) error {
			ctx, a, err := newLocalApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			bus, err := a.subscriber()
			if err != nil {
				return err
			}
			defer func() {
				if err := bus.Close(); err != nil {
					a.logger.Error("Failed to close event bus", "error", err)
				}
			}()

			for _, eventType := range events.Types() {
				if err := bus.Handle(eventType, printEvent); err != nil {
					return fmt.Errorf("failed to handle %s: %w", eventType, err)
				}
			}

			if err := bus.Subscribe(ctx); err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", events.Topic, err)
			}

			printf("👀 Watching %s, press Ctrl+C to stop\n", cyan(events.Topic))
			<-ctx.Done()

			return nil
		},
	}
}

func printEvent(_ context.Context, event any) error {
	printf("%s\n", describeEvent(event))

	return nil
}

func describeEvent(event any) string {
	switch e := event.(type) {
	case *events.WorkflowExported:
		return fmt.Sprintf("%s exported  %s -> %s", okMark(), e.WorkflowName, e.Path)
	case *events.WorkflowCreated:
		return fmt.Sprintf("%s created   %s (%s)", okMark(), e.WorkflowName, e.WorkflowID)
	case *events.WorkflowUpdated:
		return fmt.Sprintf("%s updated   %s (%s)", okMark(), e.WorkflowName, e.WorkflowID)
	case *events.WorkflowActivated:
		return fmt.Sprintf("%s activated %s (%s)", okMark(), e.WorkflowName, e.WorkflowID)
	case *events.WorkflowRenamed:
		return fmt.Sprintf("%s renamed   %q -> %q", okMark(), e.PreviousName, e.WorkflowName)
	case *events.WorkflowSkipped:
		return fmt.Sprintf("%s skipped   %s (%s)", skipMark(), e.WorkflowName, e.Reason)
	case *events.WorkflowFailed:
		return fmt.Sprintf("%s failed    %s: %s", failMark(), e.WorkflowName, e.Error)
	default:
		return fmt.Sprintf("%s %v", warnMark(), event)
	}
}
