// Package protobuf implements the Protobuf format codec: framing and
// unframing the Confluent message-index path alongside the usual
// magic-byte/schema-id header, and cross-checking it against the
// registry's compiled .proto descriptors.
package protobuf

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jhump/protoreflect/desc"
	"google.golang.org/protobuf/proto"

	"github.com/FaveroFerreira/schema-registry-converter/schemaregistry"
	"github.com/FaveroFerreira/schema-registry-converter/serde"
	"github.com/FaveroFerreira/schema-registry-converter/wireformat"
)

const defaultDescriptorCacheSize = 128

var (
	_ serde.Serializer[proto.Message]   = (*Codec[proto.Message])(nil)
	_ serde.Deserializer[proto.Message] = (*Codec[proto.Message])(nil)
)

// Codec is a generic Protobuf Serializer/Deserializer backed by a
// schemaregistry.Client. newMessage must return a fresh, empty instance
// of T: Go generics give no way to instantiate a zero value of a type
// parameter constrained only by an interface, so the caller supplies the
// constructor instead.
type Codec[T proto.Message] struct {
	client     schemaregistry.Client
	newMessage func() T

	// descriptors caches parsed file descriptors by schema id. Parsing
	// re-walks the full reference chain, and a schema id's source never
	// changes once registered, so the cache never needs invalidation —
	// only eviction once it's full.
	descriptors *lru.Cache[uint32, *desc.FileDescriptor]
}

// NewCodec builds a Codec sharing client with any other codec. newMessage
// must return a new, empty instance of T on every call.
func NewCodec[T proto.Message](client schemaregistry.Client, newMessage func() T) *Codec[T] {
	cache, _ := lru.New[uint32, *desc.FileDescriptor](defaultDescriptorCacheSize)
	return &Codec[T]{client: client, newMessage: newMessage, descriptors: cache}
}

// Serialize marshals value with the standard Protobuf wire encoding and
// frames it with subject's latest schema id plus value's message-index
// path, so a reader can pick out which message type within a multi-message
// .proto file the payload decodes as.
func (c *Codec[T]) Serialize(ctx context.Context, subject string, value T) ([]byte, error) {
	sub, err := c.client.GetSubjectVersion(ctx, subject, schemaregistry.Latest())
	if err != nil {
		return nil, err
	}

	path := messageIndexPath(value.ProtoReflect().Descriptor())
	payload, err := proto.Marshal(value)
	if err != nil {
		return nil, &EncodeError{Cause: err}
	}

	body := append(encodeMessageIndexPath(path), payload...)
	return wireformat.Insert(sub.ID, body), nil
}

// Deserialize extracts the schema id and message-index path, resolves the
// referenced message descriptor from the registry's compiled schema to
// confirm the path matches a message of the caller's type, and unmarshals
// the remaining bytes into a freshly constructed T.
func (c *Codec[T]) Deserialize(ctx context.Context, data []byte) (T, error) {
	var zero T

	extracted, err := wireformat.Extract(data)
	if err != nil {
		return zero, err
	}

	path, payload, err := decodeMessageIndexPath(extracted.Payload)
	if err != nil {
		return zero, err
	}

	file, err := c.fileDescriptor(ctx, extracted.SchemaID)
	if err != nil {
		return zero, err
	}

	descriptor, err := resolveMessageByIndexPath(file, path)
	if err != nil {
		return zero, err
	}

	msg := c.newMessage()
	gotName := string(msg.ProtoReflect().Descriptor().FullName())
	if gotName != descriptor.GetFullyQualifiedName() {
		return zero, &DecodeError{Cause: fmt.Errorf(
			"message index path resolves to %s, not %s", descriptor.GetFullyQualifiedName(), gotName)}
	}

	if err := proto.Unmarshal(payload, msg); err != nil {
		return zero, &DecodeError{Cause: err}
	}
	return msg, nil
}

func (c *Codec[T]) fileDescriptor(ctx context.Context, schemaID uint32) (*desc.FileDescriptor, error) {
	if file, ok := c.descriptors.Get(schemaID); ok {
		return file, nil
	}

	schema, err := c.client.GetSchemaByID(ctx, schemaID)
	if err != nil {
		return nil, err
	}

	file, err := parseFileDescriptor(ctx, c.client, schema, fmt.Sprintf("id:%d", schemaID))
	if err != nil {
		return nil, err
	}

	c.descriptors.Add(schemaID, file)
	return file, nil
}
