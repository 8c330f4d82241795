package validate

import "errors"

// ErrEmptyPayload is returned by Payload when raw has zero length.
var ErrEmptyPayload = errors.New("validate: empty payload")

// Error wraps a gojsonschema validation failure with the individual
// result errors attached, so callers can render a field-level report
// instead of a single flattened message.
type Error struct {
	Msg    string
	Fields []FieldError
}

// FieldError is one JSON Schema validation failure.
type FieldError struct {
	Field       string
	Type        string
	Description string
	Value       interface{}
}

func (e *Error) Error() string { return e.Msg }
