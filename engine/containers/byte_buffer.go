package containers

import (
	"bytes"
	"encoding/base64"
	"unsafe"
)

// ByteBuffer owns a resizable block of raw memory. Copies are always deep.
type ByteBuffer struct {
	data []byte
}

func NewByteBuffer(size int) *ByteBuffer {
	bb := &ByteBuffer{}
	bb.Resize(size)
	return bb
}

// NewByteBufferFrom copies data into a new buffer.
func NewByteBufferFrom(data []byte) *ByteBuffer {
	bb := &ByteBuffer{}
	bb.SetData(data)
	return bb
}

func (bb *ByteBuffer) Size() int {
	return len(bb.data)
}

func (bb *ByteBuffer) Capacity() int {
	return cap(bb.data)
}

// Bytes exposes the underlying memory. It is invalidated by any resize.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.data
}

// Reserve grows the capacity to at least capacity bytes, keeping the content.
func (bb *ByteBuffer) Reserve(capacity int) {
	if capacity <= cap(bb.data) {
		return
	}
	grown := make([]byte, len(bb.data), capacity)
	copy(grown, bb.data)
	bb.data = grown
}

// Resize changes the size. New bytes are zeroed; capacity grows by half plus one.
func (bb *ByteBuffer) Resize(size int) {
	if size < 0 {
		size = 0
	}
	if size > cap(bb.data) {
		c := cap(bb.data)
		bb.Reserve(max(size, c+c/2+1))
	}
	old := len(bb.data)
	bb.data = bb.data[:size]
	if size > old {
		clear(bb.data[old:])
	}
}

func (bb *ByteBuffer) Clear() {
	bb.data = bb.data[:0]
}

// SetData replaces the content with a copy of data.
func (bb *ByteBuffer) SetData(data []byte) {
	bb.Resize(len(data))
	copy(bb.data, data)
}

// CopyFrom replaces the content with a copy of other.
func (bb *ByteBuffer) CopyFrom(other *ByteBuffer) {
	if other == nil {
		bb.Clear()
		return
	}
	bb.SetData(other.data)
}

// Upload writes data at offset, growing the buffer when needed.
func (bb *ByteBuffer) Upload(offset int, data []byte) {
	if end := offset + len(data); end > len(bb.data) {
		bb.Resize(end)
	}
	copy(bb.data[offset:], data)
}

func (bb *ByteBuffer) Append(data []byte) {
	bb.Upload(len(bb.data), data)
}

func (bb *ByteBuffer) AppendBuffer(other *ByteBuffer) {
	if other == nil {
		return
	}
	bb.Append(other.data)
}

// Insert opens a gap at offset and copies data into it.
func (bb *ByteBuffer) Insert(offset int, data []byte) {
	old := len(bb.data)
	bb.Resize(old + len(data))
	copy(bb.data[offset+len(data):], bb.data[offset:old])
	copy(bb.data[offset:], data)
}

// Erase removes size bytes starting at offset.
func (bb *ByteBuffer) Erase(offset, size int) {
	if offset >= len(bb.data) || size <= 0 {
		return
	}
	end := min(offset+size, len(bb.data))
	n := copy(bb.data[offset:], bb.data[end:])
	bb.data = bb.data[:offset+n]
}

// Fill sets every byte to value.
func (bb *ByteBuffer) Fill(value byte) {
	for i := range bb.data {
		bb.data[i] = value
	}
}

func (bb *ByteBuffer) IsEqual(other *ByteBuffer) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(bb.data, other.data)
}

func (bb *ByteBuffer) CreateCopy() *ByteBuffer {
	return NewByteBufferFrom(bb.data)
}

// String returns the content encoded as base64.
func (bb *ByteBuffer) String() string {
	return base64.StdEncoding.EncodeToString(bb.data)
}

// SetString decodes a base64 string produced by String.
func (bb *ByteBuffer) SetString(s string) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	bb.SetData(data)
	return nil
}

// ViewAs reinterprets the buffer, starting at byteOffset, as a slice of T.
// The view aliases the buffer and is invalidated by any resize.
func ViewAs[T any](bb *ByteBuffer, byteOffset int) []T {
	var zero T
	stride := int(unsafe.Sizeof(zero))
	if stride == 0 || byteOffset >= len(bb.data) {
		return nil
	}
	count := (len(bb.data) - byteOffset) / stride
	if count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&bb.data[byteOffset])), count)
}

// IterateAs calls fn for every whole element of T stored from startOffset on.
func IterateAs[T any](bb *ByteBuffer, startOffset int, fn func(index int, value *T)) {
	values := ViewAs[T](bb, startOffset)
	for i := range values {
		fn(i, &values[i])
	}
}

// AppendAs appends the raw bytes of values.
func AppendAs[T any](bb *ByteBuffer, values ...T) {
	if len(values) == 0 {
		return
	}
	bb.Append(SliceBytes(values))
}

// SliceBytes returns the raw memory of a slice without copying.
func SliceBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*int(unsafe.Sizeof(zero)))
}

// CastSlice reinterprets the memory of a slice as another element type without copying.
func CastSlice[From, To any](values []From) []To {
	raw := SliceBytes(values)
	var zero To
	size := int(unsafe.Sizeof(zero))
	if len(raw) < size || size == 0 {
		return nil
	}
	return unsafe.Slice((*To)(unsafe.Pointer(&raw[0])), len(raw)/size)
}
