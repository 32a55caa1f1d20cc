// Package schemas provides JSON Schema validation for model-produced payloads.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed defs/*.json
var defs embed.FS

// Known schema names.
const (
	ActionEnvelope    = "action_envelope"
	ReceiptExtraction = "receipt_extraction"
)

// ValidationError aggregates the field-level failures of one validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message))
	}
	return sb.String()
}

// compiled schemas, loaded once at init.
var compiled = map[string]*gojsonschema.Schema{}

func init() {
	for _, name := range []string{ActionEnvelope, ReceiptExtraction} {
		raw, err := defs.ReadFile("defs/" + name + ".json")
		if err != nil {
			panic(fmt.Sprintf("schemas: missing embedded schema %s: %v", name, err))
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("schemas: invalid embedded schema %s: %v", name, err))
		}
		compiled[name] = schema
	}
}

// Validate checks a JSON document against a named embedded schema.
// It returns nil when valid, *ValidationError when the document fails, and
// a plain error for unknown schema names or unreadable documents.
func Validate(name string, doc []byte) error {
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("unknown schema: %s", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	return ve
}
