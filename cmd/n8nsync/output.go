package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	stdout io.Writer = os.Stdout

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func okMark() string   { return green("✅") }
func failMark() string { return red("❌") }
func skipMark() string { return yellow("⏭️ ") }
func warnMark() string { return yellow("⚠️ ") }

func printf(format string, args ...any) {
	_, _ = fmt.Fprintf(stdout, format, args...)
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}

	printf("\n%s\n", title)

	for _, item := range items {
		printf("  %s\n", item)
	}
}

func printSummary(rows ...[2]any) {
	printf("\n%s\n", bold("📊 Summary:"))

	for _, row := range rows {
		printf("   %-9s %v\n", fmt.Sprintf("%s:", row[0]), row[1])
	}
}
