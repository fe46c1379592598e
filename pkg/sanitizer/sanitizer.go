// Package sanitizer strips credential ids and secret-shaped strings from
// workflows before they leave n8n.
package sanitizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dukex/n8nsync/pkg/models"
)

// Redacted replaces credential ids and sensitive parameter values.
const Redacted = "REDACTED"

// ErrSanitizeFailed is returned when a node's parameters cannot be walked.
var ErrSanitizeFailed = errors.New("sanitization failed")

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// Applied in order to every string leaf.
var substitutions = []substitution{
	{pattern: regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`), replacement: "sk-REDACTED"},
	{pattern: regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]{20,}`), replacement: "Bearer REDACTED"},
	{pattern: regexp.MustCompile(`eyJ[a-zA-Z0-9_-]{10,}\.[a-zA-Z0-9_-]{10,}\.[a-zA-Z0-9_-]{10,}`), replacement: "JWT_REDACTED"},
}

var sensitiveKey = regexp.MustCompile(`^(api[Kk]ey|apikey|token|secret|password|authorization)$`)

// Sanitize returns a redacted copy of wf. The input is left untouched.
func Sanitize(wf *models.Workflow) (*models.Workflow, error) {
	out := *wf
	out.Connections = bytes.Clone(wf.Connections)
	out.Settings = bytes.Clone(wf.Settings)
	out.StaticData = nil

	if wf.Nodes != nil {
		out.Nodes = make([]models.Node, len(wf.Nodes))
	}

	for i, node := range wf.Nodes {
		sanitized, err := SanitizeNode(node)
		if err != nil {
			return nil, fmt.Errorf("%w: workflow %q node %d (%s): %v", ErrSanitizeFailed, wf.Name, i, nodeLabel(node), err)
		}

		out.Nodes[i] = sanitized
	}

	return &out, nil
}

// SanitizeNode returns a redacted copy of a single node.
func SanitizeNode(node models.Node) (models.Node, error) {
	clone := node.Clone()

	for key, ref := range clone.Credentials {
		clone.Credentials[key] = models.CredentialRef{ID: Redacted, Name: ref.Name}
	}

	if len(clone.Parameters) == 0 {
		return clone, nil
	}

	params, err := RedactJSON(clone.Parameters)
	if err != nil {
		return models.Node{}, err
	}

	clone.Parameters = params

	return clone, nil
}

// RedactJSON parses raw, redacts every string leaf and sensitive key, and
// re-encodes the result. Numbers keep their original text.
func RedactJSON(raw json.RawMessage) (json.RawMessage, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}

	if decoder.More() {
		return nil, errors.New("failed to parse parameters: trailing data")
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(redactValue(value)); err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}

	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// RedactString applies the secret substitutions to a single string.
func RedactString(s string) string {
	for _, sub := range substitutions {
		s = sub.pattern.ReplaceAllLiteralString(s, sub.replacement)
	}

	return s
}

func redactValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))

		for key, item := range v {
			if s, ok := item.(string); ok && s != "" && sensitiveKey.MatchString(key) {
				out[key] = Redacted

				continue
			}

			out[key] = redactValue(item)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = redactValue(item)
		}

		return out
	case string:
		return RedactString(v)
	default:
		return v
	}
}

// Envelope wraps a sanitized workflow in the on-disk snapshot format.
func Envelope(wf *models.Workflow, exportedAt time.Time) *models.Snapshot {
	return &models.Snapshot{
		Name:        wf.Name,
		Nodes:       wf.Nodes,
		Connections: wf.Connections,
		Settings:    wf.Settings,
		Meta: &models.Meta{
			ExportedAt: exportedAt.UTC(),
			N8nID:      wf.ID,
			Active:     wf.Active,
			Note:       models.RedactionNote,
		},
	}
}

func nodeLabel(node models.Node) string {
	if raw, ok := node.Field("name"); ok {
		var name string
		if json.Unmarshal(raw, &name) == nil && name != "" {
			return name
		}
	}

	return node.Type
}
