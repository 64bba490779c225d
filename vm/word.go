package vm

import (
	"encoding/binary"
	"math"
)

// A Word is the untyped 4-byte unit of data shared by registers and memory.
// It carries no notion of signedness or floating-point-ness on its own;
// callers pick one of the To*/From* pairs to reinterpret it.
type Word [4]byte

// WordWidth is the size in bytes of a Word, and therefore of one register
// slot and one step of the instruction/data stream.
const WordWidth = 4

// WordFromU32 packs v using big-endian byte order.
func WordFromU32(v uint32) Word {
	var w Word
	binary.BigEndian.PutUint32(w[:], v)
	return w
}

// WordFromI32 packs v using big-endian byte order.
func WordFromI32(v int32) Word {
	return WordFromU32(uint32(v))
}

// WordFromF32 reinterprets v's IEEE-754 bit pattern as a Word. The byte
// layout is whatever binary.BigEndian.PutUint32 produces for the bits -
// it is not re-ordered to match the host's native float layout.
func WordFromF32(v float32) Word {
	return WordFromU32(math.Float32bits(v))
}

// WordFromBytes copies bytes verbatim into a Word.
func WordFromBytes(b [4]byte) Word {
	return Word(b)
}

// ToU32 unpacks the Word as big-endian.
func (w Word) ToU32() uint32 {
	return binary.BigEndian.Uint32(w[:])
}

// ToI32 unpacks the Word as big-endian.
func (w Word) ToI32() int32 {
	return int32(w.ToU32())
}

// ToF32 reinterprets the Word's bytes as an IEEE-754 binary32 value.
func (w Word) ToF32() float32 {
	return math.Float32frombits(w.ToU32())
}

// ToBytes returns the raw bytes backing the Word.
func (w Word) ToBytes() [4]byte {
	return [4]byte(w)
}

// numeric32 constrains the concrete views a Word's bits can be interpreted as.
type numeric32 interface {
	~uint32 | ~int32 | ~float32
}
