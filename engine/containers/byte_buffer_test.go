package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBufferResizeGrowth(t *testing.T) {
	bb := NewByteBuffer(0)
	bb.Resize(1)
	assert.Equal(t, 1, bb.Size())
	assert.GreaterOrEqual(t, bb.Capacity(), 1)

	bb.Resize(10)
	assert.Equal(t, 10, bb.Size())
	for _, b := range bb.Bytes() {
		assert.Zero(t, b)
	}

	bb.Resize(4)
	assert.Equal(t, 4, bb.Size())
	assert.GreaterOrEqual(t, bb.Capacity(), 10)
}

func TestByteBufferAppendInsertErase(t *testing.T) {
	bb := NewByteBufferFrom([]byte{1, 2, 3})
	bb.Append([]byte{4, 5})
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())

	bb.Insert(1, []byte{9, 9})
	assert.Equal(t, []byte{1, 9, 9, 2, 3, 4, 5}, bb.Bytes())

	bb.Erase(1, 2)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())

	bb.Erase(3, 100)
	assert.Equal(t, []byte{1, 2, 3}, bb.Bytes())

	bb.AppendBuffer(NewByteBufferFrom([]byte{7}))
	assert.Equal(t, []byte{1, 2, 3, 7}, bb.Bytes())
}

func TestByteBufferCopyIsDeep(t *testing.T) {
	bb := NewByteBufferFrom([]byte{1, 2, 3})
	cp := bb.CreateCopy()
	require.True(t, bb.IsEqual(cp))

	cp.Bytes()[0] = 42
	assert.Equal(t, byte(1), bb.Bytes()[0])
	assert.False(t, bb.IsEqual(cp))

	other := NewByteBuffer(0)
	other.CopyFrom(bb)
	bb.Fill(0)
	assert.Equal(t, []byte{1, 2, 3}, other.Bytes())
}

func TestByteBufferTypedAccess(t *testing.T) {
	bb := NewByteBuffer(0)
	AppendAs(bb, float32(1), float32(2), float32(3))
	assert.Equal(t, 12, bb.Size())

	values := ViewAs[float32](bb, 0)
	assert.Equal(t, []float32{1, 2, 3}, values)

	sum := float32(0)
	IterateAs(bb, 4, func(i int, v *float32) {
		sum += *v
		*v *= 2
	})
	assert.Equal(t, float32(5), sum)
	assert.Equal(t, []float32{1, 4, 6}, ViewAs[float32](bb, 0))
}

func TestByteBufferString(t *testing.T) {
	bb := NewByteBufferFrom([]byte("maze"))
	s := bb.String()

	decoded := NewByteBuffer(0)
	require.NoError(t, decoded.SetString(s))
	assert.True(t, bb.IsEqual(decoded))
	assert.Error(t, decoded.SetString("%%%"))
}
