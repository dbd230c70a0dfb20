// Package serde defines the abstract contract every format codec
// (Avro, JSON Schema, Protobuf) implements: serializing an application
// value to framed registry bytes and decoding framed bytes back into an
// application value.
package serde

import "context"

// Serializer encodes a value of type T, resolving its schema against a
// subject and framing the result per the Confluent wire format.
type Serializer[T any] interface {
	Serialize(ctx context.Context, subject string, value T) ([]byte, error)
}

// Deserializer decodes framed bytes into a value of type T, fetching the
// writer schema by the id embedded in the frame.
type Deserializer[T any] interface {
	Deserialize(ctx context.Context, data []byte) (T, error)
}
