package file

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// snapshotSchema describes the on-disk envelope. Node contents are opaque.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "n8nsync workflow snapshot",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "nodes": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string"},
          "parameters": {},
          "credentials": {
            "type": ["object", "null"],
            "additionalProperties": {"type": ["object", "string"]}
          }
        }
      }
    },
    "connections": {"type": ["object", "null"]},
    "settings": {"type": ["object", "null"]},
    "staticData": {},
    "meta": {
      "type": ["object", "null"],
      "properties": {
        "exportedAt": {"type": "string"},
        "n8nId": {"type": "string"},
        "active": {"type": "boolean"},
        "note": {"type": "string"}
      }
    }
  }
}`

var compiledSnapshotSchema = mustCompileSchema(snapshotSchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Errorf("failed to compile snapshot schema: %w", err))
	}

	return compiled
}

// validateDocument checks raw file content against the snapshot schema.
func validateDocument(data []byte) error {
	result, err := compiledSnapshotSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		messages = append(messages, resultErr.String())
	}

	return fmt.Errorf("schema violations: %s", strings.Join(messages, "; "))
}
