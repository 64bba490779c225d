package vm

// Align rounds ptr up to the next multiple of a. The naive formula
// ((ptr-1)/a)*a+a underflows in unsigned arithmetic when ptr == 0, so
// that case is special-cased to yield a directly (spec.md §9).
func Align(ptr, a uint32) uint32 {
	if ptr == 0 {
		return a
	}
	return (ptr-1)/a*a + a
}

// AssembleLines lowers a parsed line sequence into a Program image via
// three passes: address assignment, code+inline-constant emission, and
// string-pool append.
//
// Label addresses are recorded as offsets relative to byte 0 of the
// emitted image, not as absolute memory addresses - the loader places
// the image at Abi.SystemMemory, so a guest that CONSTs a label into a
// register and jumps through it must add the load base itself. This
// module does not add that base silently; see SPEC_FULL.md's note on
// the label-base-address open question.
func AssembleLines(lines []Line) (*Program, error) {
	labels := make(map[Label]uint32)

	var insOffset uint32
	for _, line := range lines {
		switch line.Kind {
		case lineLabel:
			if _, exists := labels[line.Label]; exists {
				return nil, asmErrorf("duplicate label '%s'", line.Label)
			}
			labels[line.Label] = insOffset
		case lineConstant:
			insOffset += 8
		case lineInstruction:
			insOffset += 4
		}
	}

	var constOffset uint32
	program := NewProgram()

	for _, line := range lines {
		switch line.Kind {
		case lineConstant:
			ins := NewInstruction(CONST, ArgFromReg(line.ConstantDst))

			var data Word
			switch line.Constant.Kind {
			case constantLabel:
				offset, ok := labels[line.Constant.Label]
				if !ok {
					return nil, asmErrorf("undefined label '%s'", line.Constant.Label)
				}
				data = WordFromU32(offset)
			case constantString:
				data = WordFromU32(insOffset + constOffset)
				constOffset += Align(uint32(len(line.Constant.String)), 4) + 4
			default:
				data = line.Constant.Literal
			}

			program.PushInstruction(ins)
			program.PushWord(data)
		case lineInstruction:
			program.PushInstruction(line.Instruction)
		}
	}

	for _, line := range lines {
		if line.Kind != lineConstant || line.Constant.Kind != constantString {
			continue
		}

		s := line.Constant.String
		program.PushWord(WordFromU32(uint32(len(s))))

		padded := Align(uint32(len(s)), 4)
		body := make([]byte, padded)
		copy(body, s)

		for i := uint32(0); i < padded; i += 4 {
			program.PushWord(Word{body[i], body[i+1], body[i+2], body[i+3]})
		}
	}

	return program, nil
}
