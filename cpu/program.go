package cpu

import (
	"iter"
)

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		first := uint16(op.Addr)
		limit := first + 2*uint16(len(op.Codes))
		if addr >= first && addr < limit {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr-first) / 2,
			}
			break
		}
	}

	return
}

// Binary returns the program as a raw memory image, instruction words
// packed most-significant byte first.
func (prog *Program) Binary() (image []byte) {
	for addr, code := range prog.Codes() {
		need := int(addr) + 2
		if len(image) < need {
			image = append(image, make([]byte, need-len(image))...)
		}
		image[addr] = uint8(code >> 8)
		image[addr+1] = uint8(code)
	}

	return
}

func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			addr := uint16(op.Addr)
			for n, code := range op.Codes {
				if !yield(addr+2*uint16(n), code) {
					return
				}
			}
		}
	}
}
