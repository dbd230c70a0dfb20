package jsonschema

import (
	"fmt"
	"strings"
)

// ValidationFailure describes one failing instance during JSON Schema
// validation, in the shape §4.7 requires.
type ValidationFailure struct {
	Received string // kindName: null|boolean|number|string|array|object (a type mismatch on a whole number reports "integer")
	Expected string // description of the expected kind/constraint
	At       string // dot-joined path of the failing instance ("age", or "(root)" for the document); the schema location is not included
}

// SchemaValidationError is returned when a value fails validation
// against the compiled JSON Schema, carrying one ValidationFailure per
// failing instance.
type SchemaValidationError struct {
	Failures []ValidationFailure
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("at %s: received %s, expected %s", f.At, f.Received, f.Expected)
	}
	return "jsonschema: validation failed: " + strings.Join(parts, "; ")
}

// CompileError wraps a failure compiling a schema source document.
type CompileError struct {
	Cause error
}

func (e *CompileError) Error() string { return fmt.Sprintf("jsonschema: failed to compile schema: %v", e.Cause) }
func (e *CompileError) Unwrap() error { return e.Cause }

// EncodeError wraps a failure marshaling a value to its JSON tree.
type EncodeError struct {
	Cause error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("jsonschema: encode failed: %v", e.Cause) }
func (e *EncodeError) Unwrap() error { return e.Cause }

// DecodeError wraps a failure unmarshaling a framed payload into the
// caller's target type.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("jsonschema: decode failed: %v", e.Cause) }
func (e *DecodeError) Unwrap() error { return e.Cause }
