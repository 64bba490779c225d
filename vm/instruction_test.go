package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstructionWordRoundTrip(t *testing.T) {
	ins := NewInstruction(ADDI, ArgFromReg(EAX), ArgFromReg(EBX), ArgFromReg(ECX))
	word := ins.ToWord()
	got := InstructionFromWord(word)

	assert.Equal(t, ins, got)
}

func TestInstructionEncodesOpcodeInByteZero(t *testing.T) {
	ins := NewInstruction(EXIT, ArgFromReg(EAX))
	b := ins.ToWord().ToBytes()

	assert.Equal(t, byte(EXIT), b[0])
	assert.Equal(t, byte(EAX), b[1])
}

func TestNewInstructionZeroFillsTrailingArgs(t *testing.T) {
	ins := NewInstruction(RET)
	assert.Equal(t, Arg(0), ins.Args[0])
	assert.Equal(t, Arg(0), ins.Args[1])
	assert.Equal(t, Arg(0), ins.Args[2])
}

func TestArgAsWidth(t *testing.T) {
	a := ArgFromWidth(4)
	assert.Equal(t, uint8(4), a.Width())
}
