package vm

import (
	"fmt"
	"math"
)

// step is the single fetch/decode/dispatch cycle described in spec.md
// §4.5. It is kept as one large switch - per the original design notes,
// a dense opcode switch and a precomputed handler table are equivalent
// representations, and the switch is simplest to keep correct here.
func (c *CPU[T]) step(state *T) (bool, error) {
	eip := c.registers.EIP().ToU32()

	if fn, ok := c.syscalls[eip]; ok {
		cpuState := &CpuState[T]{abi: &c.abi, Registers: c.registers, Memory: c.memory}
		fn(cpuState, state)

		c.registers.WriteEIP(c.registers.ERP())
		return true, nil
	}

	word, ok := c.memory.Read(eip, WordWidth)
	if !ok {
		return false, wrapAt(eip, ErrSegmentationFault)
	}
	ins := InstructionFromWord(word)

	if ins.Opcode != CONST {
		c.registers.WriteEIP(WordFromU32(eip + WordWidth))
	}

	switch ins.Opcode {
	case CONST:
		dst := ins.Args[0].Reg()

		data, ok := c.memory.Read(eip+WordWidth, WordWidth)
		if !ok {
			return false, wrapAt(eip, ErrSegmentationFault)
		}

		c.registers.Write(dst, data)
		c.registers.WriteEIP(WordFromU32(eip + 2*WordWidth))

	case MOV:
		src, dst := ins.Args[0].Reg(), ins.Args[1].Reg()
		c.registers.Write(dst, c.registers.Read(src))

	case PUSH:
		src := ins.Args[0].Reg()
		c.pushStack(c.registers.Read(src))

	case POP:
		dst := ins.Args[0].Reg()
		data, ok := c.popStack()
		if !ok {
			return false, wrapAt(eip, ErrSegmentationFault)
		}
		c.registers.Write(dst, data)

	case LOAD:
		src, dst, width := ins.Args[0].Reg(), ins.Args[1].Reg(), ins.Args[2].Width()
		ptr := c.registers.Read(src).ToU32()
		data, ok := c.memory.Read(ptr, width)
		if !ok {
			return false, wrapAt(eip, ErrSegmentationFault)
		}
		c.registers.Write(dst, data)

	case STORE:
		src, dst, width := ins.Args[0].Reg(), ins.Args[1].Reg(), ins.Args[2].Width()
		data := c.registers.Read(src)
		ptr := c.registers.Read(dst).ToU32()
		c.memory.Write(data, ptr, width)

	case JMP:
		trg := ins.Args[0].Reg()
		c.registers.WriteEIP(c.registers.Read(trg))

	case JMP_NZ:
		trg, src := ins.Args[0].Reg(), ins.Args[1].Reg()
		if c.registers.Read(src).ToU32() != 0 {
			c.registers.WriteEIP(c.registers.Read(trg))
		}

	case CALL:
		trg := ins.Args[0].Reg()
		target := c.registers.Read(trg)
		c.registers.WriteERP(c.registers.EIP())
		c.registers.WriteEIP(target)

	case RET:
		c.registers.WriteEIP(c.registers.ERP())

	case EXIT:
		src := ins.Args[0].Reg()
		code := c.registers.Read(src).ToU32()
		fmt.Printf("exited with (%d)\n", code)
		return false, nil

	case ADDI:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return l + r, nil })
	case SUBI:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return l - r, nil })
	case MULI:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return l * r, nil })
	case DIVI:
		if err := c.binaryIntOpErr(ins, func(l, r uint32) (uint32, error) {
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			return l / r, nil
		}); err != nil {
			return false, wrapAt(eip, err)
		}
	case MODI:
		if err := c.binaryIntOpErr(ins, func(l, r uint32) (uint32, error) {
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			return l % r, nil
		}); err != nil {
			return false, wrapAt(eip, err)
		}
	case GTI:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return boolU32(l > r), nil })
	case LTI:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return boolU32(l < r), nil })

	case SHIFT:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return l << (r & 31), nil })
	case AND:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return l & r, nil })
	case OR:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return l | r, nil })
	case XOR:
		c.binaryIntOp(ins, func(l, r uint32) (uint32, error) { return l ^ r, nil })
	case EQ:
		lhs, rhs, dst := ins.Args[0].Reg(), ins.Args[1].Reg(), ins.Args[2].Reg()
		c.registers.Write(dst, WordFromU32(boolU32(c.registers.Read(lhs) == c.registers.Read(rhs))))

	case ADDF:
		c.binaryFloatOp(ins, func(l, r float32) float32 { return l + r })
	case SUBF:
		c.binaryFloatOp(ins, func(l, r float32) float32 { return l - r })
	case MULF:
		c.binaryFloatOp(ins, func(l, r float32) float32 { return l * r })
	case DIVF:
		c.binaryFloatOp(ins, func(l, r float32) float32 { return l / r })
	case MODF:
		c.binaryFloatOp(ins, func(l, r float32) float32 { return float32(math.Mod(float64(l), float64(r))) })
	case FLOORF:
		src, dst := ins.Args[0].Reg(), ins.Args[1].Reg()
		v := c.registers.Read(src).ToF32()
		c.registers.Write(dst, WordFromF32(float32(math.Floor(float64(v)))))

	default:
		return false, wrapAt(eip, ErrUnknownOpcode)
	}

	return true, nil
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// binaryIntOp reads lhs/rhs as u32, applies op, and writes the u32
// result to dst. Used by the arithmetic/bitwise opcodes that can never
// themselves fail.
func (c *CPU[T]) binaryIntOp(ins Instruction, op func(l, r uint32) (uint32, error)) {
	_ = c.binaryIntOpErr(ins, op)
}

// binaryIntOpErr is binaryIntOp's fallible variant, used by DIVI/MODI.
func (c *CPU[T]) binaryIntOpErr(ins Instruction, op func(l, r uint32) (uint32, error)) error {
	lhs, rhs, dst := ins.Args[0].Reg(), ins.Args[1].Reg(), ins.Args[2].Reg()
	l := c.registers.Read(lhs).ToU32()
	r := c.registers.Read(rhs).ToU32()

	result, err := op(l, r)
	if err != nil {
		return err
	}

	c.registers.Write(dst, WordFromU32(result))
	return nil
}

func (c *CPU[T]) binaryFloatOp(ins Instruction, op func(l, r float32) float32) {
	lhs, rhs, dst := ins.Args[0].Reg(), ins.Args[1].Reg(), ins.Args[2].Reg()
	l := c.registers.Read(lhs).ToF32()
	r := c.registers.Read(rhs).ToF32()
	c.registers.Write(dst, WordFromF32(op(l, r)))
}
