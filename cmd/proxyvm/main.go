// Command proxyvm is a thin host harness around package vm. Reading
// files and parsing command-line flags are declared out of scope for the VM's core (spec.md §1); this binary exists only
// to exercise the syscall-trap contract end to end, the way the
// original reference's src/bin/main.rs did for its three demo syscalls.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"regvm/vm"
)

// Demo syscall addresses, matching the reference binary.
const (
	syscallPrint uint32 = 0
	syscallRead  uint32 = 1
	syscallAsm   uint32 = 2

	// asmOffset is where the ASM syscall stashes a freshly assembled
	// program image, below SystemMemory.
	asmOffset uint32 = 128
)

// hostState is the per-run user state threaded through every syscall.
// The reference's equivalent is an empty struct; this one is too, but
// it exists as the extension point a real embedder would grow.
type hostState struct{}

func main() {
	root := &cobra.Command{
		Use:   "proxyvm",
		Short: "Assemble and run register-vm programs",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newAsmCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Assemble and execute a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "optional TOML file overriding the machine ABI")
	return cmd
}

func newAsmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asm <file>",
		Short: "Assemble a program and print its encoded image as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return asmFile(args[0])
		},
	}
	return cmd
}

func runFile(path, configPath string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lines, err := vm.ParseFile(string(source))
	if err != nil {
		return err
	}

	program, err := vm.AssembleLines(lines)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	cpu := vm.NewCPU[hostState](cfg.Abi())
	registerDemoSyscalls(cpu)
	cpu.LoadProgram(program)

	state := hostState{}
	return cpu.Run(&state)
}

func asmFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lines, err := vm.ParseFile(string(source))
	if err != nil {
		return err
	}

	program, err := vm.AssembleLines(lines)
	if err != nil {
		return err
	}

	for i, b := range program.Bytes() {
		if i > 0 && i%16 == 0 {
			fmt.Println()
		}
		fmt.Printf("%02x ", b)
	}
	fmt.Println()
	return nil
}

// registerDemoSyscalls wires the three syscalls the reference binary
// exposed: PRINT writes a memory string to stdout, READ loads a file
// into low memory, ASM assembles a source string found in memory into
// a fresh program image at asmOffset. None of these are part of the
// VM's core - they're the "external collaborators" spec.md §1 says to
// describe only via their syscall-contract touch point.
func registerDemoSyscalls(cpu *vm.CPU[hostState]) {
	cpu.RegisterSyscall(syscallPrint, func(s *vm.CpuState[hostState], _ *hostState) {
		ptr := s.Registers.Read(vm.EAX).ToU32()
		length := s.Registers.Read(vm.EBX).ToU32()

		text, ok := s.Memory.ReadString(ptr, length)
		if !ok {
			return
		}
		fmt.Println(text)
	})

	cpu.RegisterSyscall(syscallRead, func(s *vm.CpuState[hostState], _ *hostState) {
		pathPtr := s.Registers.Read(vm.EAX).ToU32()
		pathLen := s.Registers.Read(vm.EBX).ToU32()

		path, ok := s.Memory.ReadString(pathPtr, pathLen)
		if !ok {
			return
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			return
		}
		if uint32(len(contents)) >= s.Abi().SystemMemory {
			return
		}

		s.Memory.WriteBytes(0, contents)
		s.Registers.Write(vm.EAX, vm.WordFromU32(0))
		s.Registers.Write(vm.EBX, vm.WordFromU32(uint32(len(contents))))
	})

	cpu.RegisterSyscall(syscallAsm, func(s *vm.CpuState[hostState], _ *hostState) {
		srcPtr := s.Registers.Read(vm.EAX).ToU32()
		srcLen := s.Registers.Read(vm.EBX).ToU32()

		source, ok := s.Memory.ReadString(srcPtr, srcLen)
		if !ok {
			return
		}

		lines, err := vm.ParseFile(source)
		if err != nil {
			return
		}
		program, err := vm.AssembleLines(lines)
		if err != nil {
			return
		}
		if asmOffset+program.Len() >= s.Abi().SystemMemory {
			return
		}

		s.Memory.WriteBytes(asmOffset, program.Bytes())
		s.Registers.Write(vm.EAX, vm.WordFromU32(asmOffset))
		s.Registers.Write(vm.EBX, vm.WordFromU32(program.Len()))
	})
}
