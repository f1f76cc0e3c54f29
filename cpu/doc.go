// Package cpu implements the Chip-8 execution engine and assembler.
//
// The engine owns the architectural state: sixteen 8-bit registers
// (vf doubles as the carry/borrow flag), 4 KiB of byte-addressable
// memory, the program counter, and a sixteen-deep call stack. Run
// fetches big-endian two-byte instruction words and dispatches the
// register transfer, bitwise, arithmetic, shift, call, and return
// family; the zero word halts.
//
// The assembler provides a line-oriented assembly language for the
// same instruction subset, supporting labels, equates, and
// compile-time expression evaluation.
package cpu
