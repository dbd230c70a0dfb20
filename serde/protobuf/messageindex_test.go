package protobuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIndexPath_singleTopLevelMessage(t *testing.T) {
	encoded := encodeMessageIndexPath([]int{0})
	assert.Equal(t, []byte{0x00}, encoded)

	path, rest, err := decodeMessageIndexPath(encoded)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, path)
	assert.Empty(t, rest)
}

func TestMessageIndexPath_nestedPath(t *testing.T) {
	encoded := encodeMessageIndexPath([]int{3, 2})
	path, rest, err := decodeMessageIndexPath(encoded)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, path)
	assert.Empty(t, rest)
}

func TestMessageIndexPath_leavesTrailingPayloadUntouched(t *testing.T) {
	encoded := encodeMessageIndexPath([]int{1})
	payload := append(encoded, []byte("hello")...)

	path, rest, err := decodeMessageIndexPath(payload)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, path)
	assert.Equal(t, []byte("hello"), rest)
}

func TestMessageIndexPath_truncatedFails(t *testing.T) {
	_, _, err := decodeMessageIndexPath([]byte{})
	assert.ErrorIs(t, err, ErrShortIndex)
}
