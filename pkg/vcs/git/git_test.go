package git

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	args string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]string
	fail    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, workDir, name string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, call{dir: workDir, args: name + " " + key})

	for prefix, err := range f.fail {
		if strings.HasPrefix(key, prefix) {
			return "", err
		}
	}

	for prefix, out := range f.outputs {
		if strings.HasPrefix(key, prefix) {
			return out, nil
		}
	}

	return "", nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRepository_Commit(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"status": " M workflows/sales/tner.json"}}
	repo := New("/repo", runner, discard())

	committed, err := repo.Commit(context.Background(), "workflows", "backup: n8n workflows 2026-10-15")
	require.NoError(t, err)
	assert.True(t, committed)

	assert.Equal(t, []call{
		{dir: "/repo", args: "git status --porcelain -- workflows"},
		{dir: "/repo", args: "git add -- workflows"},
		{dir: "/repo", args: "git commit -m backup: n8n workflows 2026-10-15 -- workflows"},
	}, runner.calls)
}

func TestRepository_CommitNoChanges(t *testing.T) {
	runner := &fakeRunner{}
	repo := New("/repo", runner, discard())

	committed, err := repo.Commit(context.Background(), "workflows", "msg")
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Len(t, runner.calls, 1)
}

func TestRepository_CommitFailure(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string]string{"status": "?? workflows/new.json"},
		fail:    map[string]error{"commit": errors.New("nothing added")},
	}
	repo := New("/repo", runner, discard())

	committed, err := repo.Commit(context.Background(), "workflows", "msg")
	require.Error(t, err)
	assert.False(t, committed)
	assert.Contains(t, err.Error(), "failed to commit")
}

func TestRepository_Push(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{"push": errors.New("rejected")}}
	repo := New("/repo", runner, discard())

	err := repo.Push(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")
}

func TestExecRunner_CommandError(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	_, err := NewExecRunner().Run(context.Background(), t.TempDir(), "git", "not-a-subcommand")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "git", cmdErr.Command)
	assert.Contains(t, cmdErr.Error(), "git not-a-subcommand")
}
