package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands. Tests swap it for a fake.
type CommandRunner interface {
	// Run executes name in workDir and returns the trimmed stdout.
	Run(ctx context.Context, workDir string, name string, args ...string) (string, error)
}

// ExecRunner is the CommandRunner backed by os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, workDir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}

		return "", &CommandError{
			Command: name,
			Args:    args,
			WorkDir: workDir,
			Output:  output,
			Err:     err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// CommandError describes a failed command.
type CommandError struct {
	Command string
	Args    []string
	WorkDir string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))

	if e.Output != "" {
		return cmdline + ": " + e.Output
	}

	if e.Err != nil {
		return cmdline + ": " + e.Err.Error()
	}

	return cmdline + ": command failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
