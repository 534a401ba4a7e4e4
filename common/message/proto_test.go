package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestFields(t *testing.T) {
	var b []byte
	b = AppendInt(b, 1, -3)
	b = AppendInt(b, 2, 0)
	b = AppendInts(b, 3, []int{5, -1, 0})
	b = AppendInts(b, 4, nil)
	b = protowire.AppendTag(b, 5, protowire.Fixed32Type)
	b = protowire.AppendFixed32(b, 7)

	fields, err := Fields(b)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, protowire.Number(1), fields[0].Num)
	assert.Equal(t, -3, fields[0].Int())
	vs, err := fields[1].Ints()
	require.NoError(t, err)
	assert.Equal(t, []int{5, -1, 0}, vs)

	_, err = fields[0].Ints()
	assert.ErrorIs(t, err, ErrBadWire)
}

func TestFieldsTruncated(t *testing.T) {
	b := AppendInts(nil, 1, []int{1, 2, 3})
	_, err := Fields(b[:len(b)-1])
	assert.ErrorIs(t, err, ErrBadWire)
}
