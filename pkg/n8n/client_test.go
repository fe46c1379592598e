package n8n

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukex/n8nsync/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL+"/api/v1", "test-key")
}

func TestClient_ListWorkflows_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "paginated envelope",
			body: `{"data":[{"id":"1","name":"A","nodes":[]},{"id":"2","name":"B","nodes":[]}],"nextCursor":null}`,
			want: []string{"A", "B"},
		},
		{
			name: "bare array",
			body: `[{"id":"1","name":"A","nodes":[]}]`,
			want: []string{"A"},
		},
		{
			name: "empty",
			body: `{"data":[]}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/workflows", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("X-N8N-API-KEY"))
				_, _ = io.WriteString(w, tt.body)
			})

			workflows, err := client.ListWorkflows(context.Background())
			require.NoError(t, err)

			names := make([]string, 0, len(workflows))
			for _, wf := range workflows {
				names = append(names, wf.Name)
			}

			assert.Equal(t, tt.want, names)
		})
	}
}

func TestClient_ListWorkflows_NumericIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id":42,"name":"Xero Sync","active":true,"nodes":[]},{"id":"abc","name":"B","nodes":[]}]}`)
	})

	workflows, err := client.ListWorkflows(context.Background())
	require.NoError(t, err)
	require.Len(t, workflows, 2)

	assert.Equal(t, "42", workflows[0].ID)
	assert.Equal(t, models.RemoteSummary{ID: "42", Name: "Xero Sync", Active: true}, workflows[0].Summary())
	assert.Equal(t, "abc", workflows[1].ID)
}

func TestClient_CreateWorkflow_NumericID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"id":7,"name":"New","nodes":[]}`)
	})

	created, err := client.CreateWorkflow(context.Background(), models.WorkflowSpec{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "7", created.ID)
}

func TestClient_ListWorkflows_FollowsCursor(t *testing.T) {
	calls := 0

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++

		switch r.URL.Query().Get("cursor") {
		case "":
			_, _ = io.WriteString(w, `{"data":[{"id":"1","name":"A"}],"nextCursor":"page2"}`)
		case "page2":
			_, _ = io.WriteString(w, `{"data":[{"id":"2","name":"B"}],"nextCursor":"page2"}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	})

	workflows, err := client.ListWorkflows(context.Background())
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, "B", workflows[1].Name)
	assert.Equal(t, 2, calls)
}

func TestClient_ListWorkflows_UnexpectedShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"items":[]}`)
	})

	_, err := client.ListWorkflows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestClient_GetWorkflow_KeepsNodeFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/workflows/wf-1", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"id": "wf-1",
			"name": "Xero Sync",
			"active": true,
			"nodes": [{"name": "HTTP", "type": "n8n-nodes-base.httpRequest", "position": [250, 300],
				"parameters": {"url": "https://api.xero.com"},
				"credentials": {"xeroOAuth2Api": {"id": "42", "name": "Xero"}}}],
			"connections": {"HTTP": {}}
		}`)
	})

	wf, err := client.GetWorkflow(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Xero Sync", wf.Name)
	assert.True(t, wf.Active)
	require.Len(t, wf.Nodes, 1)
	assert.Equal(t, models.CredentialRef{ID: "42", Name: "Xero"}, wf.Nodes[0].Credentials["xeroOAuth2Api"])

	position, ok := wf.Nodes[0].Field("position")
	require.True(t, ok)
	assert.JSONEq(t, `[250, 300]`, string(position))
}

func TestClient_CreateAndUpdate_SendSpec(t *testing.T) {
	var seen []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"Shopify Cart"`, string(body["name"]))
		assert.JSONEq(t, `{}`, string(body["connections"]))
		assert.JSONEq(t, `{}`, string(body["settings"]))

		_, _ = io.WriteString(w, `{"id":"new-1","name":"Shopify Cart","active":false}`)
	})

	snapshot := &models.Snapshot{Name: "Shopify Cart", Nodes: []models.Node{{Type: "n8n-nodes-base.noOp"}}}

	created, err := client.CreateWorkflow(context.Background(), snapshot.Spec(snapshot.Name))
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.ID)

	_, err = client.UpdateWorkflow(context.Background(), "new-1", snapshot.Spec(snapshot.Name))
	require.NoError(t, err)

	assert.Equal(t, []string{"POST /api/v1/workflows", "PUT /api/v1/workflows/new-1"}, seen)
}

func TestClient_ActivateWorkflow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/workflows/wf-9/activate", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"wf-9","active":true}`)
	})

	require.NoError(t, client.ActivateWorkflow(context.Background(), "wf-9"))
}

func TestClient_HTTPErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMessage  string
		notFound     bool
		unauthorized bool
	}{
		{name: "not found with message", status: http.StatusNotFound, body: `{"message":"Not Found"}`, wantMessage: "Not Found", notFound: true},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"unauthorized"}`, wantMessage: "unauthorized", unauthorized: true},
		{name: "plain text body", status: http.StatusInternalServerError, body: "upstream exploded", wantMessage: "upstream exploded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GetWorkflow(context.Background(), "x")
			require.Error(t, err)

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, "GetWorkflow", httpErr.Op)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.Equal(t, tt.unauthorized, IsUnauthorized(err))
		})
	}
}

func TestClient_TransportErrorNamesOperation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "k", WithTimeout(time.Second))

	err := client.ActivateWorkflow(context.Background(), "wf-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ActivateWorkflow")
}

func TestClient_EditorURL(t *testing.T) {
	assert.Equal(t, "https://n8n.example.com/workflow/abc",
		NewClient("https://n8n.example.com/api/v1/", "k").EditorURL("abc"))
	assert.Equal(t, "http://localhost:5678/workflow/abc",
		NewClient("http://localhost:5678", "k").EditorURL("abc"))
}
