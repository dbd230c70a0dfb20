// Package avro implements the Avro format codec: resolving a subject's
// schema (including transitive references) against the registry,
// encoding application values to Avro datum bytes, and decoding framed
// bytes back into a caller-supplied target type.
package avro

import (
	"context"
	"fmt"

	"github.com/hamba/avro/v2"
	"github.com/mitchellh/mapstructure"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
	"github.com/FaveroFerreira/schema-registry-converter/serde"
	"github.com/FaveroFerreira/schema-registry-converter/wireformat"
)

var (
	_ serde.Serializer[string]   = (*Codec[string])(nil)
	_ serde.Deserializer[string] = (*Codec[string])(nil)
)

// Codec is a generic Avro Serializer/Deserializer backed by a
// schemaregistry.Client. T is the application value type; on decode the
// generic Avro value is mapped onto T via mapstructure, so decoding does
// not rely on avro struct tags. Serialize encodes T with avro.Marshal,
// which matches T's fields to the schema's fields by their avro tags.
type Codec[T any] struct {
	client schemaregistry.Client
	cache  avro.SchemaCache
}

// NewCodec builds a Codec sharing client with any other codec — codec
// instances hold a reference to the registry client, never own it.
func NewCodec[T any](client schemaregistry.Client) *Codec[T] {
	return &Codec[T]{client: client}
}

// Serialize resolves subject at its latest version, parses the
// reference-resolved schema chain, encodes value against the writer
// schema, and frames the result with the root schema's id.
func (c *Codec[T]) Serialize(ctx context.Context, subject string, value T) ([]byte, error) {
	sub, err := c.client.GetSubjectVersion(ctx, subject, schemaregistry.Latest())
	if err != nil {
		return nil, err
	}
	root := sub.Schema()

	writer, err := c.parseWriterSchema(ctx, root, subject+"@latest")
	if err != nil {
		return nil, err
	}

	datum, err := avro.Marshal(writer, value)
	if err != nil {
		return nil, &EncodeError{Cause: err}
	}

	return wireformat.Insert(sub.ID, datum), nil
}

// Deserialize extracts the framing header, fetches the writer schema by
// the embedded id, decodes the Avro datum into a generic value, then
// maps that value onto T.
func (c *Codec[T]) Deserialize(ctx context.Context, data []byte) (T, error) {
	var zero T

	extracted, err := wireformat.Extract(data)
	if err != nil {
		return zero, err
	}

	root, err := c.client.GetSchemaByID(ctx, extracted.SchemaID)
	if err != nil {
		return zero, err
	}

	writer, err := c.parseWriterSchema(ctx, root, fmt.Sprintf("id:%d", extracted.SchemaID))
	if err != nil {
		return zero, err
	}

	var generic any
	if err := avro.Unmarshal(writer, extracted.Payload, &generic); err != nil {
		return zero, &DecodeError{Cause: err}
	}

	var target T
	if err := mapstructure.Decode(generic, &target); err != nil {
		return zero, &DecodeError{Cause: err}
	}

	return target, nil
}

// parseWriterSchema resolves root's reference chain and parses every
// schema in the chain into the Codec's shared namespace, returning the
// root (writer) schema as its parsed form.
func (c *Codec[T]) parseWriterSchema(ctx context.Context, root schemaregistry.Schema, rootKey string) (avro.Schema, error) {
	chain, err := resolveChain(ctx, c.client, root, rootKey)
	if err != nil {
		return nil, err
	}

	var writer avro.Schema
	for _, s := range chain {
		parsed, err := avro.ParseWithCache(s.Schema, "", &c.cache)
		if err != nil {
			return nil, &ParseError{Cause: err}
		}
		writer = parsed
	}

	return writer, nil
}
