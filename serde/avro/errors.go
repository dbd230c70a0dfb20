package avro

import (
	"errors"
	"fmt"
)

// ErrSchemaNotFound is signaled when reference resolution produces an
// unexpectedly empty schema list.
var ErrSchemaNotFound = errors.New("avro: schema not found")

// CycleError reports a reference cycle detected while walking a
// schema's References graph.
type CycleError struct {
	Key string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("avro: reference cycle detected at %s", e.Key)
}

// EncodeError wraps a failure from the underlying Avro engine while
// serializing a value against the writer schema.
type EncodeError struct {
	Cause error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("avro: encode failed: %v", e.Cause) }
func (e *EncodeError) Unwrap() error { return e.Cause }

// DecodeError wraps a failure from the underlying Avro engine while
// decoding a payload against the writer schema, or while converting the
// decoded generic value into the caller's target type.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("avro: decode failed: %v", e.Cause) }
func (e *DecodeError) Unwrap() error { return e.Cause }

// ParseError wraps a failure from the underlying Avro engine while
// parsing a schema source string.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string { return fmt.Sprintf("avro: schema parse failed: %v", e.Cause) }
func (e *ParseError) Unwrap() error { return e.Cause }
