// Package validate checks an incoming compile-request payload against a
// JSON Schema before it is parsed into graphdef.Node values, turning a
// class of malformed-input failures into one readable error instead of
// a panic deep inside graph admission.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema describes the CLI compile-request document: a node
// list in the NodeDef shape graphdef.Node round-trips through, a
// device table, a per-node form assignment, and an optional per-node
// all-reduce strategy map ("nccl" or "ring"), which the CLI accepts but
// does not read.
const payloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes", "devices", "forms"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "op"],
        "properties": {
          "name":   {"type": "string", "minLength": 1},
          "op":     {"type": "string", "minLength": 1},
          "input":  {"type": "array", "items": {"type": "string"}},
          "device": {"type": "string"},
          "attr":   {"type": "object"}
        }
      }
    },
    "devices": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "forms": {
      "type": "object",
      "additionalProperties": {"type": "string", "minLength": 1}
    },
    "all_reduce": {
      "type": "object",
      "additionalProperties": {"type": "string", "enum": ["nccl", "ring"]}
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(payloadSchema)

// Payload validates raw against the compile-request schema. It returns
// nil if raw is well-formed JSON conforming to the schema, a *Error
// describing every field-level failure otherwise.
func Payload(raw []byte) error {
	if len(raw) == 0 {
		return ErrEmptyPayload
	}

	documentLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if result.Valid() {
		return nil
	}

	fields := make([]FieldError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fields = append(fields, FieldError{
			Field:       re.Field(),
			Type:        re.Type(),
			Description: re.Description(),
			Value:       re.Value(),
		})
	}
	return &Error{
		Msg:    fmt.Sprintf("validate: %d schema violation(s)", len(fields)),
		Fields: fields,
	}
}

// ParseNodes validates raw and, on success, decodes its "nodes" array
// into the caller's target slice of node definitions. The caller
// chooses the concrete type so this package stays independent of
// graphdef's JSON shape beyond the schema above.
func ParseNodes(raw []byte, into interface{}) error {
	if err := Payload(raw); err != nil {
		return err
	}
	var doc struct {
		Nodes json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := json.Unmarshal(doc.Nodes, into); err != nil {
		return fmt.Errorf("validate: decoding nodes: %w", err)
	}
	return nil
}
