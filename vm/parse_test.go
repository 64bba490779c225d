package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileSkipsBlankLinesAndComments(t *testing.T) {
	src := "\n// a comment\n\nexit eax\n\n"
	lines, err := ParseFile(src)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, lineComment, lines[0].Kind)
	assert.Equal(t, lineInstruction, lines[1].Kind)
}

func TestParseLabelLine(t *testing.T) {
	lines, err := ParseFile("loop:\njmp eax\n")
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, lineLabel, lines[0].Kind)
	assert.Equal(t, Label("loop"), lines[0].Label)
}

func TestParseLabelRejectsEmptyOrQuoted(t *testing.T) {
	_, err := ParseFile(":\n")
	assert.Error(t, err)

	_, err = ParseFile("\"x\":\n")
	assert.Error(t, err)
}

func TestParseConstLiteralU32(t *testing.T) {
	lines, err := ParseFile("const 7u eax\n")
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, lineConstant, lines[0].Kind)
	assert.Equal(t, constantLiteral, lines[0].Constant.Kind)
	assert.Equal(t, uint32(7), lines[0].Constant.Literal.ToU32())
	assert.Equal(t, EAX, lines[0].ConstantDst)
}

func TestParseConstLiteralI32(t *testing.T) {
	lines, err := ParseFile("const -7i eax\n")
	require.NoError(t, err)
	assert.Equal(t, int32(-7), lines[0].Constant.Literal.ToI32())
}

func TestParseConstLiteralF32(t *testing.T) {
	lines, err := ParseFile("const 1.5f eax\n")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), lines[0].Constant.Literal.ToF32())
}

func TestParseConstString(t *testing.T) {
	lines, err := ParseFile(`const "hi" eax` + "\n")
	require.NoError(t, err)

	assert.Equal(t, constantString, lines[0].Constant.Kind)
	assert.Equal(t, "hi", lines[0].Constant.String)
}

func TestParseConstLabel(t *testing.T) {
	lines, err := ParseFile("const target eax\n")
	require.NoError(t, err)

	assert.Equal(t, constantLabel, lines[0].Constant.Kind)
	assert.Equal(t, Label("target"), lines[0].Constant.Label)
}

func TestParseRegisterAliasesAndRaw(t *testing.T) {
	reg, err := parseRegister("ebx")
	require.NoError(t, err)
	assert.Equal(t, EBX, reg)

	reg, err = parseRegister("%11")
	require.NoError(t, err)
	assert.Equal(t, Reg(11), reg)

	_, err = parseRegister("notaregister")
	assert.Error(t, err)
}

func TestParseInstructionLineArity(t *testing.T) {
	lines, err := ParseFile("addi eax ebx ecx\n")
	require.NoError(t, err)

	ins := lines[0].Instruction
	assert.Equal(t, ADDI, ins.Opcode)
	assert.Equal(t, ArgFromReg(EAX), ins.Args[0])
	assert.Equal(t, ArgFromReg(EBX), ins.Args[1])
	assert.Equal(t, ArgFromReg(ECX), ins.Args[2])
}

func TestParseInstructionLineMissingArgFails(t *testing.T) {
	_, err := ParseFile("addi eax ebx\n")
	assert.Error(t, err)
}

func TestParseUnknownMnemonicFails(t *testing.T) {
	_, err := ParseFile("frobnicate eax\n")
	assert.Error(t, err)
}

func TestParseLoadStoreWidthArg(t *testing.T) {
	lines, err := ParseFile("load eax ebx 4\n")
	require.NoError(t, err)

	ins := lines[0].Instruction
	assert.Equal(t, LOAD, ins.Opcode)
	assert.Equal(t, uint8(4), ins.Args[2].Width())
}
