package vm

// Program is an append-only byte vector of encoded 4-byte words: the
// instruction stream (including inlined CONST data words) followed by
// the assembler's string pool.
type Program struct {
	data []byte
}

// NewProgram returns an empty program image.
func NewProgram() *Program {
	return &Program{}
}

// PushWord appends one encoded word.
func (p *Program) PushWord(w Word) {
	b := w.ToBytes()
	p.data = append(p.data, b[:]...)
}

// PushInstruction appends an instruction's encoded word.
func (p *Program) PushInstruction(ins Instruction) {
	p.PushWord(ins.ToWord())
}

// Len returns the image size in bytes.
func (p *Program) Len() uint32 {
	return uint32(len(p.data))
}

// Bytes returns the raw encoded image.
func (p *Program) Bytes() []byte {
	return p.data
}
