package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/dukex/n8nsync/pkg/mocks"
	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/persistence/file"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSyncer(t *testing.T, opts ...Option) (*Syncer, *mocks.MockRemoteStore, *file.WorkflowRepository) {
	t.Helper()

	remote := &mocks.MockRemoteStore{}
	repo := file.NewWorkflowRepository(t.TempDir())

	opts = append([]Option{WithLogger(discardLogger()), WithClock(func() time.Time { return fixedNow })}, opts...)

	return NewSyncer(remote, repo, opts...), remote, repo
}

func decodeNodes(t *testing.T, raw string) []models.Node {
	t.Helper()

	var nodes []models.Node
	require.NoError(t, json.Unmarshal([]byte(raw), &nodes))

	return nodes
}

const secretNodes = `[{
	"name": "Call API",
	"type": "n8n-nodes-base.httpRequest",
	"position": [100, 200],
	"parameters": {"url": "https://api.example.com", "headerValue": "Bearer abcdefghijklmnopqrstuvwxyz0123", "apiKey": "hunter2"},
	"credentials": {"httpHeaderAuth": {"id": "cred-77", "name": "Example Auth"}}
}]`

func remoteWorkflow(t *testing.T, id, name string) *models.Workflow {
	t.Helper()

	return &models.Workflow{
		ID:          id,
		Name:        name,
		Nodes:       decodeNodes(t, secretNodes),
		Connections: json.RawMessage(`{"Call API": {"main": [[]]}}`),
		Settings:    json.RawMessage(`{"executionOrder": "v1"}`),
		StaticData:  json.RawMessage(`{"lastId": 9}`),
	}
}

func localSnapshot(t *testing.T, name string) *models.Snapshot {
	t.Helper()

	return &models.Snapshot{
		Name:        name,
		Nodes:       decodeNodes(t, `[{"name": "Start", "type": "n8n-nodes-base.manualTrigger", "parameters": {}}]`),
		Connections: json.RawMessage(`{}`),
	}
}

func specNamed(name string) any {
	return mock.MatchedBy(func(spec models.WorkflowSpec) bool {
		return spec.Name == name
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
