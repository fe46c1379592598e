// Package n8n is a typed client for the n8n public REST API workflow endpoints.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/otelhelper"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	apiKeyHeader = "X-N8N-API-KEY"

	// maxErrorBody bounds how much of a failed response ends up in an error.
	maxErrorBody = 512
)

// Client talks to one n8n instance. Calls are sequential and never retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every request. Zero keeps the transport default, which
// is no timeout at all.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithTracer sets the tracer used for per-request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for baseURL, e.g. https://n8n.example.com/api/v1.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
		tracer:     otel.Tracer("github.com/dukex/n8nsync/pkg/n8n"),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With("module", "n8n_client")

	return c
}

// EditorURL returns the browser URL of a workflow.
func (c *Client) EditorURL(id string) string {
	return strings.TrimSuffix(c.baseURL, "/api/v1") + "/workflow/" + id
}

// ListWorkflows returns every workflow, following cursor pagination. Both the
// paginated {data, nextCursor} shape and a bare array are accepted.
func (c *Client) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	workflows := make([]*models.Workflow, 0)
	seen := make(map[string]bool)
	cursor := ""

	for {
		path := "/workflows"
		if cursor != "" {
			path += "?cursor=" + url.QueryEscape(cursor)
		}

		body, err := c.do(ctx, "ListWorkflows", http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		items, next, err := parseListPage(body)
		if err != nil {
			return nil, err
		}

		var page []*models.Workflow
		if err := json.Unmarshal([]byte(items), &page); err != nil {
			return nil, fmt.Errorf("failed to decode workflow list: %w", err)
		}

		workflows = append(workflows, page...)

		if next == "" || seen[next] {
			break
		}

		seen[next] = true
		cursor = next
	}

	c.logger.DebugContext(ctx, "Listed workflows", "count", len(workflows))

	return workflows, nil
}

func parseListPage(body []byte) (string, string, error) {
	if !gjson.ValidBytes(body) {
		return "", "", fmt.Errorf("%w: list body is not JSON", ErrUnexpectedResponse)
	}

	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Raw, "", nil
	}

	data := root.Get("data")
	if !data.IsArray() {
		return "", "", fmt.Errorf("%w: list body has no data array", ErrUnexpectedResponse)
	}

	return data.Raw, root.Get("nextCursor").String(), nil
}

// GetWorkflow fetches one workflow with its full definition.
func (c *Client) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	body, err := c.do(ctx, "GetWorkflow", http.MethodGet, "/workflows/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	return decodeWorkflow(body)
}

// CreateWorkflow creates a workflow and returns it as stored.
func (c *Client) CreateWorkflow(ctx context.Context, spec models.WorkflowSpec) (*models.Workflow, error) {
	body, err := c.do(ctx, "CreateWorkflow", http.MethodPost, "/workflows", spec)
	if err != nil {
		return nil, err
	}

	return decodeWorkflow(body)
}

// UpdateWorkflow overwrites name, nodes, connections and settings of a workflow.
func (c *Client) UpdateWorkflow(ctx context.Context, id string, spec models.WorkflowSpec) (*models.Workflow, error) {
	body, err := c.do(ctx, "UpdateWorkflow", http.MethodPut, "/workflows/"+url.PathEscape(id), spec)
	if err != nil {
		return nil, err
	}

	return decodeWorkflow(body)
}

// ActivateWorkflow turns a workflow on.
func (c *Client) ActivateWorkflow(ctx context.Context, id string) error {
	_, err := c.do(ctx, "ActivateWorkflow", http.MethodPost, "/workflows/"+url.PathEscape(id)+"/activate", nil)

	return err
}

func decodeWorkflow(body []byte) (*models.Workflow, error) {
	var workflow models.Workflow
	if err := json.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	return &workflow, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "n8n."+op,
		attribute.String(otelhelper.HTTPMethodKey, method),
		attribute.String(otelhelper.HTTPPathKey, path),
	)
	defer span.End()

	var reqBody io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "Calling n8n", "op", op, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	span.SetAttributes(attribute.Int(otelhelper.HTTPStatusKey, resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
		otelhelper.SetError(span, httpErr)

		return nil, httpErr
	}

	return body, nil
}

func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() && msg.String() != "" {
		return msg.String()
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}

	return text
}
