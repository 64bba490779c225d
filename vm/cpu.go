package vm

// Abi is the configuration a CPU is constructed with: how many registers
// it has, how large its memory is, and where the loader places a
// program's code image.
type Abi struct {
	RegisterCount uint32
	SystemMemory  uint32
	MemorySize    uint32
}

// DefaultAbi matches the reference VM's defaults.
func DefaultAbi() Abi {
	return Abi{
		RegisterCount: 16,
		SystemMemory:  2 << 12,
		MemorySize:    2 << 16,
	}
}

// SyscallFunc is a host-registered handler invoked when EIP matches its
// registration address. It runs to completion synchronously with
// mutable access to registers and memory, and to whatever user state T
// the embedder threaded through.
type SyscallFunc[T any] func(*CpuState[T], *T)

// CpuState is the transient, scoped view a syscall handler receives. It
// is never retained past the call that created it - handlers borrow the
// CPU's registers and memory, they don't own a reference to the CPU.
type CpuState[T any] struct {
	abi       *Abi
	Registers *Registers
	Memory    *Memory
}

// Abi returns the CPU's configuration.
func (s *CpuState[T]) Abi() Abi {
	return *s.abi
}

// CPU is the register VM: the register file, flat memory, and the
// syscall registry that hands control to the host. T is whatever extra
// state the embedder wants threaded through syscalls (it plays the same
// role as the reference Rust's `Cpu<T>`).
type CPU[T any] struct {
	abi       Abi
	registers *Registers
	memory    *Memory
	syscalls  map[uint32]SyscallFunc[T]
}

// NewCPU constructs a CPU from the given Abi, allocating its register
// file and memory up front.
func NewCPU[T any](abi Abi) *CPU[T] {
	return &CPU[T]{
		abi:       abi,
		registers: NewRegisters(abi.RegisterCount),
		memory:    NewMemory(abi.MemorySize),
		syscalls:  make(map[uint32]SyscallFunc[T]),
	}
}

// Abi returns the CPU's configuration.
func (c *CPU[T]) Abi() Abi {
	return c.abi
}

// Registers exposes the register file for host-side inspection (tests,
// debugging harnesses).
func (c *CPU[T]) Registers() *Registers {
	return c.registers
}

// Memory exposes the flat memory region for host-side inspection.
func (c *CPU[T]) Memory() *Memory {
	return c.memory
}

// RegisterSyscall installs fn to run whenever EIP equals address. The
// syscall registry is populated before Run starts and is read-only
// during execution - there is no support for registering handlers mid-run.
func (c *CPU[T]) RegisterSyscall(address uint32, fn SyscallFunc[T]) {
	c.syscalls[address] = fn
}

// pushStack writes data at ESP and advances ESP by one word. The stack
// grows upward toward higher addresses.
func (c *CPU[T]) pushStack(data Word) {
	esp := c.registers.ESP().ToU32()
	c.memory.Write(data, esp, WordWidth)
	c.registers.WriteESP(WordFromU32(esp + WordWidth))
}

// popStack retracts ESP by one word and returns the word that was there.
// The bool reports whether the read was in bounds - a guest that pops
// more than it pushed drives ESP out of range, and that failure is
// fatal the same way an out-of-bounds LOAD is, not silently dropped.
func (c *CPU[T]) popStack() (Word, bool) {
	esp := c.registers.ESP().ToU32() - WordWidth
	c.registers.WriteESP(WordFromU32(esp))
	return c.memory.Read(esp, WordWidth)
}

// LoadProgram copies the program's encoded bytes into memory starting at
// Abi.SystemMemory, and initializes EIP/ESP/EBP to point at the loaded
// image. Other registers are left at their zero default.
func (c *CPU[T]) LoadProgram(program *Program) {
	c.memory.WriteBytes(c.abi.SystemMemory, program.Bytes())

	c.registers.WriteEIP(WordFromU32(c.abi.SystemMemory))
	c.registers.WriteESP(WordFromU32(c.abi.SystemMemory + program.Len()))
	c.registers.WriteEBP(WordFromU32(c.abi.SystemMemory))
}

// Run drives the fetch/decode/dispatch loop until an EXIT opcode halts
// it or a fatal error occurs. The returned error is nil on a clean EXIT.
func (c *CPU[T]) Run(state *T) error {
	for {
		running, err := c.step(state)
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
	}
}

// Step executes exactly one instruction (or one syscall trap) and
// reports whether the program is still running.
func (c *CPU[T]) Step(state *T) (bool, error) {
	return c.step(state)
}
