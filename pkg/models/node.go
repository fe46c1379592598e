package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	fieldType        = "type"
	fieldParameters  = "parameters"
	fieldCredentials = "credentials"
)

// Node is one step of a workflow. Only the fields the sanitizer touches are
// typed; everything else (id, name, position, typeVersion, ...) is carried
// through untouched.
type Node struct {
	Type        string
	Parameters  json.RawMessage
	Credentials map[string]CredentialRef

	fields map[string]json.RawMessage
}

// CredentialRef points into n8n's credential store.
type CredentialRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both the current {id, name} object and the legacy
// bare credential name.
func (c *CredentialRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = CredentialRef{Name: name}

		return nil
	}

	type plain CredentialRef

	var ref plain
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("invalid credential reference: %w", err)
	}

	*c = CredentialRef(ref)

	return nil
}

// Field returns a raw pass-through field by its JSON name.
func (n *Node) Field(name string) (json.RawMessage, bool) {
	raw, ok := n.fields[name]

	return raw, ok
}

// SetField sets a raw pass-through field.
func (n *Node) SetField(name string, raw json.RawMessage) {
	if n.fields == nil {
		n.fields = make(map[string]json.RawMessage)
	}

	n.fields[name] = raw
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	clone := Node{
		Type:       n.Type,
		Parameters: bytes.Clone(n.Parameters),
	}

	if n.Credentials != nil {
		clone.Credentials = make(map[string]CredentialRef, len(n.Credentials))
		for k, v := range n.Credentials {
			clone.Credentials[k] = v
		}
	}

	if n.fields != nil {
		clone.fields = make(map[string]json.RawMessage, len(n.fields))
		for k, v := range n.fields {
			clone.fields[k] = bytes.Clone(v)
		}
	}

	return clone
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = Node{}

	if t, ok := raw[fieldType]; ok {
		if err := json.Unmarshal(t, &n.Type); err != nil {
			return fmt.Errorf("invalid node type: %w", err)
		}

		delete(raw, fieldType)
	}

	if p, ok := raw[fieldParameters]; ok {
		n.Parameters = p
		delete(raw, fieldParameters)
	}

	if c, ok := raw[fieldCredentials]; ok {
		if string(c) != "null" {
			if err := json.Unmarshal(c, &n.Credentials); err != nil {
				return fmt.Errorf("invalid node credentials: %w", err)
			}
		}

		delete(raw, fieldCredentials)
	}

	if len(raw) > 0 {
		n.fields = raw
	}

	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(n.fields)+3)
	for k, v := range n.fields {
		out[k] = v
	}

	if n.Type != "" {
		t, err := json.Marshal(n.Type)
		if err != nil {
			return nil, err
		}

		out[fieldType] = t
	}

	if len(n.Parameters) > 0 {
		out[fieldParameters] = n.Parameters
	}

	if n.Credentials != nil {
		c, err := json.Marshal(n.Credentials)
		if err != nil {
			return nil, err
		}

		out[fieldCredentials] = c
	}

	return json.Marshal(out)
}
