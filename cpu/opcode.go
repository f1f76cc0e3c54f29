package cpu

import (
	"fmt"
)

// Code represents a single 16-bit instruction word.
//
// Field layout:
//
//	bits 12-15  major opcode
//	bits  8-11  X register index
//	bits  4-7   Y register index
//	bits  0-3   minor opcode (ALU family)
//	bits  0-11  address operand (call)
type Code uint16

const (
	CODE_HALT   = Code(0x0000) // Terminates Run.
	CODE_RETURN = Code(0x00EE) // Return from subroutine.
)

// CodeAluOp is the minor opcode of the register/arithmetic family.
type CodeAluOp int

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_SET  = CodeAluOp(0x0) // set
	ALU_OP_OR   = CodeAluOp(0x1) // or
	ALU_OP_AND  = CodeAluOp(0x2) // and
	ALU_OP_XOR  = CodeAluOp(0x3) // xor
	ALU_OP_ADD  = CodeAluOp(0x4) // add
	ALU_OP_SUB  = CodeAluOp(0x5) // sub
	ALU_OP_SHR  = CodeAluOp(0x6) // shr
	ALU_OP_RSUB = CodeAluOp(0x7) // rsub
	ALU_OP_SHL  = CodeAluOp(0xE) // shl
)

// Valid returns true if the minor opcode has a handler.
func (op CodeAluOp) Valid() bool {
	switch op {
	case ALU_OP_SET, ALU_OP_OR, ALU_OP_AND, ALU_OP_XOR,
		ALU_OP_ADD, ALU_OP_SUB, ALU_OP_SHR, ALU_OP_RSUB, ALU_OP_SHL:
		return true
	}

	return false
}

// Single returns true if the operation takes only the X register.
func (op CodeAluOp) Single() bool {
	return op == ALU_OP_SHR || op == ALU_OP_SHL
}

// MakeCodeAlu creates a register/arithmetic instruction.
func MakeCodeAlu(op CodeAluOp, x, y int) Code {
	return Code(0x8000 | (uint16(x)&0xf)<<8 | (uint16(y)&0xf)<<4 | uint16(op)&0xf)
}

// MakeCodeCall creates a call-subroutine instruction.
func MakeCodeCall(addr uint16) Code {
	return Code(0x2000 | addr&0x0fff)
}

// MakeCodeReturn creates a return-from-subroutine instruction.
func MakeCodeReturn() Code {
	return CODE_RETURN
}

// MakeCodeHalt creates the halt instruction.
func MakeCodeHalt() Code {
	return CODE_HALT
}

// X returns the X register index from the instruction word.
func (code Code) X() int {
	return int((code >> 8) & 0xf)
}

// Y returns the Y register index from the instruction word.
func (code Code) Y() int {
	return int((code >> 4) & 0xf)
}

// Minor returns the minor opcode from the instruction word.
func (code Code) Minor() CodeAluOp {
	return CodeAluOp(code & 0xf)
}

// Addr returns the 12-bit address operand from the instruction word.
func (code Code) Addr() uint16 {
	return uint16(code & 0x0fff)
}

// IsCall returns true for the call-subroutine range.
func (code Code) IsCall() bool {
	return code&0xf000 == 0x2000
}

// IsAlu returns true for the register/arithmetic family range.
func (code Code) IsAlu() bool {
	return code&0xf000 == 0x8000
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	switch {
	case code == CODE_HALT:
		out = "halt"
	case code == CODE_RETURN:
		out = "ret"
	case code.IsCall():
		out = fmt.Sprintf("call 0x%03x", code.Addr())
	case code.IsAlu() && code.Minor().Valid():
		op := code.Minor()
		if op.Single() {
			out = fmt.Sprintf("%v v%x", op, code.X())
		} else {
			out = fmt.Sprintf("%v v%x v%x", op, code.X(), code.Y())
		}
	default:
		out = fmt.Sprintf(".word 0x%04x", uint16(code))
	}

	return
}

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []Code
	LinkLabel string
}
