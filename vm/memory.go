package vm

import (
	"fmt"
	"unicode/utf8"
)

// Memory is a single flat, growable byte region. There is no paging, no
// permissions, and no code/data segregation at runtime - callers address
// it with plain zero-based uint32 offsets.
type Memory struct {
	data []byte
}

// NewMemory allocates size zeroed bytes.
func NewMemory(size uint32) *Memory {
	m := &Memory{}
	m.Grow(size)
	return m
}

// Grow expands the region by delta bytes, preserving existing contents
// and zero-filling the new tail.
func (m *Memory) Grow(delta uint32) {
	m.data = append(m.data, make([]byte, delta)...)
}

// Size returns the current byte length of the region.
func (m *Memory) Size() uint32 {
	return uint32(len(m.data))
}

// inBounds enforces a strict bounds policy: the final byte of the
// region is never addressable, so ptr+width must be strictly less than
// the size, not merely less-or-equal.
func (m *Memory) inBounds(ptr uint32, width uint32) bool {
	return uint64(ptr)+uint64(width) < uint64(len(m.data))
}

// Read returns the width-byte value at ptr, widened into a Word. Narrow
// reads are placed in the low-order bytes of the result (big-endian view):
// width 1 gives (0,0,0,b), width 2 gives (0,0,b0,b1), width 4 reads the
// full word. Any other width, or an out-of-bounds ptr, fails.
func (m *Memory) Read(ptr uint32, width uint8) (Word, bool) {
	if !m.inBounds(ptr, uint32(width)) {
		return Word{}, false
	}

	switch width {
	case 1:
		return Word{0, 0, 0, m.data[ptr]}, true
	case 2:
		return Word{0, 0, m.data[ptr], m.data[ptr+1]}, true
	case 4:
		return Word{m.data[ptr], m.data[ptr+1], m.data[ptr+2], m.data[ptr+3]}, true
	default:
		return Word{}, false
	}
}

// Write narrows word to its low width bytes and writes them at ptr. A
// failing bounds check or an unsupported width silently drops the write.
func (m *Memory) Write(word Word, ptr uint32, width uint8) bool {
	if !m.inBounds(ptr, uint32(width)) {
		return false
	}

	b := word.ToBytes()
	switch width {
	case 1:
		m.data[ptr] = b[3]
	case 2:
		m.data[ptr], m.data[ptr+1] = b[2], b[3]
	case 4:
		copy(m.data[ptr:ptr+4], b[:])
	default:
		return false
	}
	return true
}

// ReadBytes returns a bounds-checked view of len bytes starting at ptr.
func (m *Memory) ReadBytes(ptr, length uint32) ([]byte, bool) {
	if !m.inBounds(ptr, length) {
		return nil, false
	}
	return m.data[ptr : ptr+length], true
}

// ReadString decodes len bytes at ptr as UTF-8, replacing invalid
// sequences per utf8.RuneError / string conversion's usual lossy rules.
func (m *Memory) ReadString(ptr, length uint32) (string, bool) {
	b, ok := m.ReadBytes(ptr, length)
	if !ok {
		return "", false
	}
	if utf8.Valid(b) {
		return string(b), true
	}
	return toValidUTF8(b), true
}

// toValidUTF8 rebuilds b rune-by-rune, substituting the Unicode
// replacement character for any invalid sequence - equivalent in effect
// to Rust's String::from_utf8_lossy.
func toValidUTF8(b []byte) string {
	var out []rune
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[size:]
	}
	return string(out)
}

// WriteBytes bulk-copies bytes starting at ptr. Same strict bounds check
// as Write; an out-of-bounds copy is silently dropped.
func (m *Memory) WriteBytes(ptr uint32, bytes []byte) bool {
	if !m.inBounds(ptr, uint32(len(bytes))) {
		return false
	}
	copy(m.data[ptr:], bytes)
	return true
}

// MemoryError describes an out-of-bounds access of Width bytes at Ptr.
// The interpreter does not return it: its fatal out-of-bounds paths
// report ErrSegmentationFault wrapped with the executing EIP.
type MemoryError struct {
	Ptr   uint32
	Width uint32
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("segmentation fault: access at 0x%x width %d out of bounds", e.Ptr, e.Width)
}
