// Package wireformat implements the Confluent wire framing codec: the
// 5-byte header that prefixes every payload exchanged against a Schema
// Registry, identifying the schema id the payload was written against.
package wireformat

import (
	"encoding/binary"
	"errors"
)

const (
	magicByte  byte = 0x00
	headerSize      = 5
)

// Sentinel errors returned by Extract.
var (
	ErrEmptyData         = errors.New("wireformat: data is empty")
	ErrInvalidDataLength = errors.New("wireformat: data shorter than the 5-byte header")
	ErrInvalidMagicByte  = errors.New("wireformat: invalid magic byte")
)

// Extracted is the parsed view over a framed payload: the schema id the
// payload was encoded against, and the payload bytes that follow the
// header.
type Extracted struct {
	SchemaID uint32
	Payload  []byte
}

// Insert prepends the 5-byte Confluent header (magic byte + big-endian
// schema id) to payload, returning a new slice of length 5+len(payload).
func Insert(id uint32, payload []byte) []byte {
	out := make([]byte, headerSize+len(payload))
	out[0] = magicByte
	binary.BigEndian.PutUint32(out[1:headerSize], id)
	copy(out[headerSize:], payload)
	return out
}

// Extract parses the 5-byte header off data, returning the schema id and
// the remaining payload. data may be nil or empty, in which case
// ErrEmptyData is returned.
func Extract(data []byte) (Extracted, error) {
	if len(data) == 0 {
		return Extracted{}, ErrEmptyData
	}
	if len(data) < headerSize {
		return Extracted{}, ErrInvalidDataLength
	}
	if data[0] != magicByte {
		return Extracted{}, ErrInvalidMagicByte
	}

	id := binary.BigEndian.Uint32(data[1:headerSize])
	payload := data[headerSize:]

	return Extracted{SchemaID: id, Payload: payload}, nil
}
