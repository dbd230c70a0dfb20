// Package jsonschema implements the JSON Schema format codec: compiling
// a subject's schema source and validating application values against it
// before framing, and decoding framed bytes back into a caller-supplied
// target type.
package jsonschema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
	"github.com/FaveroFerreira/schema-registry-converter/serde"
	"github.com/FaveroFerreira/schema-registry-converter/wireformat"
)

var (
	_ serde.Serializer[any]   = (*Codec[any])(nil)
	_ serde.Deserializer[any] = (*Codec[any])(nil)
)

// Codec is a generic JSON Schema Serializer/Deserializer backed by a
// schemaregistry.Client.
type Codec[T any] struct {
	client           schemaregistry.Client
	validateOnDecode bool
}

// Option customizes a Codec.
type Option func(*codecOptions)

type codecOptions struct {
	validateOnDecode bool
}

// WithValidateOnDecode enables validating the payload against the
// compiled schema before decoding it. The spec leaves this choice to the
// caller (§9 Open Questions); read-side validation is off by default.
func WithValidateOnDecode() Option {
	return func(o *codecOptions) { o.validateOnDecode = true }
}

// WithoutValidateOnDecode disables read-side validation, decoding the
// payload directly.
func WithoutValidateOnDecode() Option {
	return func(o *codecOptions) { o.validateOnDecode = false }
}

// NewCodec builds a Codec sharing client with any other codec.
func NewCodec[T any](client schemaregistry.Client, opts ...Option) *Codec[T] {
	o := codecOptions{validateOnDecode: false}
	for _, opt := range opts {
		opt(&o)
	}
	return &Codec[T]{client: client, validateOnDecode: o.validateOnDecode}
}

// Serialize fetches subject's latest schema, compiles it, validates
// value against it, and on success frames the compact JSON encoding of
// value with the schema's id.
func (c *Codec[T]) Serialize(ctx context.Context, subject string, value T) ([]byte, error) {
	sub, err := c.client.GetSubjectVersion(ctx, subject, schemaregistry.Latest())
	if err != nil {
		return nil, err
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(sub.Schema))
	if err != nil {
		return nil, &CompileError{Cause: err}
	}

	result, err := compiled.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return nil, &EncodeError{Cause: err}
	}
	if !result.Valid() {
		return nil, &SchemaValidationError{Failures: convertFailures(result.Errors())}
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, &EncodeError{Cause: err}
	}

	return wireformat.Insert(sub.ID, payload), nil
}

// Deserialize extracts the framing header, fetches the schema by id to
// confirm it exists (no read-side validation unless WithValidateOnDecode
// was set), and unmarshals the payload into T.
func (c *Codec[T]) Deserialize(ctx context.Context, data []byte) (T, error) {
	var zero T

	extracted, err := wireformat.Extract(data)
	if err != nil {
		return zero, err
	}

	schema, err := c.client.GetSchemaByID(ctx, extracted.SchemaID)
	if err != nil {
		return zero, err
	}

	if c.validateOnDecode {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema.Schema))
		if err != nil {
			return zero, &CompileError{Cause: err}
		}
		result, err := compiled.Validate(gojsonschema.NewBytesLoader(extracted.Payload))
		if err != nil {
			return zero, &DecodeError{Cause: err}
		}
		if !result.Valid() {
			return zero, &SchemaValidationError{Failures: convertFailures(result.Errors())}
		}
	}

	var target T
	if err := json.Unmarshal(extracted.Payload, &target); err != nil {
		return zero, &DecodeError{Cause: err}
	}
	return target, nil
}

// convertFailures maps gojsonschema's result errors into the
// {received, expected, at} shape §4.7 specifies.
func convertFailures(errs []gojsonschema.ResultError) []ValidationFailure {
	out := make([]ValidationFailure, 0, len(errs))
	for _, e := range errs {
		failure := ValidationFailure{
			At:       e.Field(),
			Expected: e.Description(),
		}
		if e.Type() == "invalid_type" {
			if given, ok := e.Details()["given"].(string); ok {
				failure.Received = given
			}
			if expected, ok := e.Details()["expected"].(string); ok {
				failure.Expected = expected
			}
		} else {
			switch e.Value().(type) {
			case nil:
				failure.Received = "null"
			case bool:
				failure.Received = "boolean"
			case json.Number, float64:
				failure.Received = "number"
			case string:
				failure.Received = "string"
			case []any:
				failure.Received = "array"
			case map[string]any:
				failure.Received = "object"
			}
		}
		out = append(out, failure)
	}
	return out
}
