// Package models defines the workflow shapes exchanged with n8n and kept on disk.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RedactionNote is stamped into every exported snapshot.
const RedactionNote = "Credentials and secrets have been redacted. Re-configure in n8n after import."

// Workflow is a workflow as the n8n REST API returns it.
type Workflow struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Nodes       []Node          `json:"nodes"`
	Connections json.RawMessage `json:"connections,omitempty"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	Active      bool            `json:"active"`
	IsArchived  bool            `json:"isArchived,omitempty"`
	StaticData  json.RawMessage `json:"staticData,omitempty"`
}

// UnmarshalJSON accepts the id as a string or, as older n8n versions send
// it, a number.
func (w *Workflow) UnmarshalJSON(data []byte) error {
	type plain Workflow

	aux := &struct {
		ID RemoteID `json:"id"`
		*plain
	}{plain: (*plain)(w)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	w.ID = string(aux.ID)

	return nil
}

// RemoteID is an opaque workflow id decoded from a JSON string or number.
type RemoteID string

func (id *RemoteID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = RemoteID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid workflow id %s: %w", data, err)
	}

	*id = RemoteID(n.String())

	return nil
}

// Summary returns the fields reconciliation needs from a remote workflow.
func (w *Workflow) Summary() RemoteSummary {
	return RemoteSummary{
		ID:     w.ID,
		Name:   w.Name,
		Active: w.Active,
	}
}

// RemoteSummary identifies a workflow that exists in the remote store.
type RemoteSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (r *RemoteSummary) UnmarshalJSON(data []byte) error {
	type plain RemoteSummary

	aux := &struct {
		ID RemoteID `json:"id"`
		*plain
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	r.ID = string(aux.ID)

	return nil
}

// WorkflowSpec is the body sent when creating or updating a remote workflow.
// Updates always overwrite all four fields.
type WorkflowSpec struct {
	Name        string          `json:"name"`
	Nodes       []Node          `json:"nodes"`
	Connections json.RawMessage `json:"connections"`
	Settings    json.RawMessage `json:"settings"`
}

// Snapshot is the sanitized envelope written to the local repository.
type Snapshot struct {
	Name        string          `json:"name"                  validate:"required"`
	Nodes       []Node          `json:"nodes"`
	Connections json.RawMessage `json:"connections,omitempty"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	StaticData  json.RawMessage `json:"staticData"`
	Meta        *Meta           `json:"meta,omitempty"`
}

// Meta records where a snapshot came from. Nothing in import, deploy or
// reconciliation reads it back.
type Meta struct {
	ExportedAt time.Time `json:"exportedAt"`
	N8nID      string    `json:"n8nId"`
	Active     bool      `json:"active"`
	Note       string    `json:"note"`
}

// IsPlaceholder reports whether the snapshot is a scaffold with no nodes.
func (s *Snapshot) IsPlaceholder() bool {
	return len(s.Nodes) == 0
}

// Spec builds the create/update body for the snapshot under the given name.
func (s *Snapshot) Spec(name string) WorkflowSpec {
	return WorkflowSpec{
		Name:        name,
		Nodes:       s.Nodes,
		Connections: orEmptyObject(s.Connections),
		Settings:    orEmptyObject(s.Settings),
	}
}

// Spec builds an update body that carries the workflow's current definition
// under the given name.
func (w *Workflow) Spec(name string) WorkflowSpec {
	return WorkflowSpec{
		Name:        name,
		Nodes:       w.Nodes,
		Connections: orEmptyObject(w.Connections),
		Settings:    orEmptyObject(w.Settings),
	}
}

// n8n rejects create/update bodies without connections or settings.
func orEmptyObject(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage("{}")
	}

	return raw
}
