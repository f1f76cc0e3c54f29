package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

// Architectural sizes.
const (
	MEMORY_SIZE   = 4096 // Bytes of addressable memory.
	NUM_REGISTERS = 16   // 8-bit registers v0-vf.
	FLAG_REGISTER = 0xF  // vf, the carry/borrow output of the ALU.
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%v", MEMORY_SIZE),
	"NUM_REGISTERS": fmt.Sprintf("%v", NUM_REGISTERS),
	"FLAG_REGISTER": fmt.Sprintf("%v", FLAG_REGISTER),
	"STACK_LIMIT":   fmt.Sprintf("%v", STACK_LIMIT),
}

// Cpu is the simulation context for the Chip-8 execution engine.
//
// Memory is populated by the caller before Run; the engine itself
// never writes to it. A single Cpu must not be shared across
// goroutines during a Run.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [NUM_REGISTERS]uint8 // Register bank v0-vf.
	Memory   [MEMORY_SIZE]uint8   // Flat byte-addressable memory.
	Pc       uint16               // Current position in memory.
	Stack    Stack                // Call stack.

	// ShlCaptureMsb selects the bit of vX that shl copies into vf.
	// The legacy interpreters captured the least-significant bit;
	// the hardware reference captures the most-significant bit.
	// Cleared (legacy capture) on a fresh Cpu and by Reset.
	ShlCaptureMsb bool

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU with zeroed state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("   pc: %03x\n", cpu.Pc)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("   v%x: %02x\n", n, val)
	}
	value, ok := cpu.Stack.Peek()
	if ok {
		text += fmt.Sprintf("stack: %03x (depth %v)\n", value, cpu.Stack.Depth())
	} else {
		text += "stack: ---\n"
	}

	return
}

// Reset the CPU state.
// - Clears the registers, memory, and call stack.
// - Returns the program counter to zero.
// - Zeros the instruction counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Stack.Reset()
	cpu.Pc = 0
	cpu.ShlCaptureMsb = false
	cpu.Ticks = 0
}

// FetchCode reads the two-byte instruction word at the current
// position in memory, most-significant byte first. The program
// counter is not advanced.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	p := int(cpu.Pc)
	if p+1 >= MEMORY_SIZE {
		err = errors.Join(ErrOutOfBounds, ErrAddress(cpu.Pc))
		return
	}

	code = Code(uint16(cpu.Memory[p])<<8 | uint16(cpu.Memory[p+1]))

	return
}

// Tick executes a single instruction cycle.
func (cpu *Cpu) Tick() (done bool, err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Pc, code)
	}

	// Advance past the instruction word before execution, so that
	// call and return are free to overwrite the program counter.
	cpu.Pc += 2
	cpu.Ticks += 1

	return cpu.Execute(code)
}

// Run executes instructions until the halt word is fetched, returning
// nil, or until a fault, returning the fault. State after a fault is
// not defined; Reset before reusing the engine.
func (cpu *Cpu) Run() (err error) {
	for {
		done, err := cpu.Tick()
		if done || err != nil {
			return err
		}
	}
}

// Execute executes a single decoded instruction. The program counter
// is expected to already point past the instruction word. A true
// 'done' reports the halt word.
func (cpu *Cpu) Execute(code Code) (done bool, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	switch {
	case code == CODE_HALT:
		done = true
	case code == CODE_RETURN:
		value, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackUnderflow
			return
		}
		cpu.Pc = value
	case code.IsCall():
		if !cpu.Stack.Push(cpu.Pc) {
			err = ErrStackOverflow
			return
		}
		cpu.Pc = code.Addr()
	case code.IsAlu():
		err = cpu.executeAlu(code)
	default:
		err = ErrOpcodeDecode
	}

	return
}

// executeAlu dispatches one instruction of the register/arithmetic
// family on the minor opcode nibble.
func (cpu *Cpu) executeAlu(code Code) (err error) {
	x := code.X()
	y := code.Y()
	vx := cpu.Register[x]
	vy := cpu.Register[y]

	var out uint8
	var flag uint8

	switch code.Minor() {
	case ALU_OP_SET:
		cpu.Register[x] = vy
		return
	case ALU_OP_OR:
		cpu.Register[x] = vx | vy
		return
	case ALU_OP_AND:
		cpu.Register[x] = vx & vy
		return
	case ALU_OP_XOR:
		cpu.Register[x] = vx ^ vy
		return
	case ALU_OP_ADD:
		out, flag = addCarry(vx, vy)
	case ALU_OP_SUB:
		out, flag = subBorrow(vx, vy)
	case ALU_OP_SHR:
		out, flag = shiftRight(vx)
	case ALU_OP_RSUB:
		out, flag = rsubBorrow(vx, vy)
	case ALU_OP_SHL:
		out, flag = shiftLeft(vx, cpu.ShlCaptureMsb)
	default:
		err = ErrOpcodeDecode
		return
	}

	// The flag write is last, so an instruction targeting vf itself
	// leaves the flag in vf.
	cpu.Register[x] = out
	cpu.Register[FLAG_REGISTER] = flag

	return
}
