// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
)

const (
	LOAD_OFFSET = 0 // Memory offset the program image is written to.
)

var _emulator_defines = map[string]string{
	"LOAD_OFFSET": fmt.Sprintf("%v", LOAD_OFFSET),
}

// Emulator drives the CPU core as an external collaborator: it owns
// the program listing, writes the assembled image into memory, and
// bounds execution with an optional instruction budget.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	StepLimit int // Maximum instructions per Run; 0 is unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset clears the CPU state and writes the program image into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = false

	emu.Cpu.Reset()

	image := emu.Program.Binary()
	if LOAD_OFFSET+len(image) > cpu.MEMORY_SIZE {
		err = ErrImageSize(len(image))
		return
	}
	copy(emu.Cpu.Memory[LOAD_OFFSET:], image)
	emu.Cpu.Pc = LOAD_OFFSET

	emu.Cpu.Verbose = emu.Verbose

	return
}

// Ticks returns the total instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the instruction word at the current program counter.
func (emu *Emulator) Code() cpu.Code {
	for addr, code := range emu.Program.Codes() {
		if emu.Cpu.Pc == addr {
			return code
		}
	}

	return cpu.Code(0)
}

// LineNo returns the source line number for the opcode at the current
// program counter.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.StepLimit != 0 && emu.Cpu.Ticks >= emu.StepLimit {
		err = ErrStepLimit
		return
	}

	return emu.Cpu.Tick()
}

// Run executes the loaded program until halt, a fault, or the
// instruction budget is exhausted.
func (emu *Emulator) Run() (err error) {
	for {
		done, err := emu.Tick()
		if done || err != nil {
			return err
		}
	}
}
