package protobuf

import "encoding/binary"

// encodeMessageIndexPath writes the Confluent message-index array that
// follows the schema id in a Protobuf wire-format payload: it identifies
// which message definition, among possibly several top-level and nested
// messages in a .proto file, the payload's bytes decode as.
//
// The common case — a single top-level message — is special-cased to a
// single zero varint rather than a length-prefixed array of one: path
// []int{0} means "the first, and only, top-level message".
func encodeMessageIndexPath(path []int) []byte {
	if len(path) == 1 && path[0] == 0 {
		return []byte{0}
	}

	buf := make([]byte, binary.MaxVarintLen64*(len(path)+1))
	n := binary.PutVarint(buf, int64(len(path)))
	for _, idx := range path {
		n += binary.PutVarint(buf[n:], int64(idx))
	}
	return buf[:n]
}

// decodeMessageIndexPath reads a message-index array from the front of
// data and returns the path plus the remaining bytes (the message
// payload itself).
func decodeMessageIndexPath(data []byte) (path []int, rest []byte, err error) {
	count, n := binary.Varint(data)
	if n <= 0 || count < 0 {
		return nil, nil, ErrShortIndex
	}
	data = data[n:]

	if count == 0 {
		return []int{0}, data, nil
	}

	path = make([]int, 0, count)
	for i := int64(0); i < count; i++ {
		idx, n := binary.Varint(data)
		if n <= 0 {
			return nil, nil, ErrShortIndex
		}
		path = append(path, int(idx))
		data = data[n:]
	}
	return path, data, nil
}
