package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryWriteReadRoundTrip(t *testing.T) {
	m := NewMemory(64)

	ok := m.Write(WordFromU32(0xcafebabe), 8, 4)
	assert.True(t, ok)

	got, ok := m.Read(8, 4)
	assert.True(t, ok)
	assert.Equal(t, uint32(0xcafebabe), got.ToU32())
}

func TestMemoryNarrowWidths(t *testing.T) {
	m := NewMemory(16)

	m.Write(WordFromU32(0xff), 0, 1)
	got, ok := m.Read(0, 1)
	assert.True(t, ok)
	assert.Equal(t, uint32(0xff), got.ToU32())

	m.Write(WordFromU32(0x1234), 4, 2)
	got, ok = m.Read(4, 2)
	assert.True(t, ok)
	assert.Equal(t, uint32(0x1234), got.ToU32())
}

func TestMemoryFinalByteNeverAddressable(t *testing.T) {
	m := NewMemory(8)

	_, ok := m.Read(7, 1)
	assert.False(t, ok, "the last byte of the region must be unreachable")

	_, ok = m.Read(3, 4)
	assert.True(t, ok, "a width-4 read ending exactly one byte before the edge is fine")

	_, ok = m.Read(5, 4)
	assert.False(t, ok)
}

func TestMemoryOutOfBoundsWriteIsDropped(t *testing.T) {
	m := NewMemory(4)
	ok := m.Write(WordFromU32(1), 100, 4)
	assert.False(t, ok)
}

func TestMemoryReadStringRoundTrip(t *testing.T) {
	m := NewMemory(32)
	m.WriteBytes(0, []byte("hello"))

	s, ok := m.ReadString(0, 5)
	assert.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestMemoryReadStringLossyOnInvalidUTF8(t *testing.T) {
	m := NewMemory(32)
	m.WriteBytes(0, []byte{'h', 'i', 0xff, 0xfe})

	s, ok := m.ReadString(0, 4)
	assert.True(t, ok)
	assert.Contains(t, s, "hi")
}

func TestMemoryUnsupportedWidthFails(t *testing.T) {
	m := NewMemory(32)
	_, ok := m.Read(0, 3)
	assert.False(t, ok)
}
