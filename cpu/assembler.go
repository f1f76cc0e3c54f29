// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the Chip-8 instruction subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of call labels to byte addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	v64, perr := strconv.ParseInt(word, 0, 32)
	if perr != nil || v64 < 0 || v64 > 0xffff {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)

	return
}

// getRegister returns the register index of a 'vN' operand.
func (asm *Assembler) getRegister(word string) (reg int, err error) {
	if len(word) != 2 || (word[0] != 'v' && word[0] != 'V') {
		err = ErrRegisterInvalid
		return
	}

	r64, perr := strconv.ParseUint(word[1:], 16, 4)
	if perr != nil {
		err = ErrRegisterInvalid
		return
	}

	reg = int(r64)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value16 uint16
		value16, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		if len(word) == 0 {
			continue
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddr gets the byte address following the last assembled opcode.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + 2*len(last.Codes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, _cpu_defines)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of call labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if len(op.Codes) < 1 {
			log.Fatalf("Unable to link label '%s' to line %d: %v", label, op.LineNo, op.Words)
		}
		linked := &op.Codes[len(op.Codes)-1]
		*linked |= Code(uint16(addr) & 0x0fff)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// aluMap maps register/arithmetic opcode names.
var aluMap = map[string]CodeAluOp{
	"set":  ALU_OP_SET,
	"or":   ALU_OP_OR,
	"and":  ALU_OP_AND,
	"xor":  ALU_OP_XOR,
	"add":  ALU_OP_ADD,
	"sub":  ALU_OP_SUB,
	"shr":  ALU_OP_SHR,
	"rsub": ALU_OP_RSUB,
	"shl":  ALU_OP_SHL,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	switch words[0] {
	case "halt":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCodeHalt())
	case "ret":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, MakeCodeReturn())
	case "call":
		if len(words) < 2 {
			err = ErrTargetMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		value, verr := asm.valueOf(words[1])
		if verr == nil {
			if int(value) >= MEMORY_SIZE {
				err = ErrTargetInvalid
				return
			}
			codes = append(codes, MakeCodeCall(value))
		} else {
			// Label target, linked after the full parse.
			codes = append(codes, MakeCodeCall(0))
			label = words[1]
		}
	case ".word":
		if len(words) != 2 {
			err = ErrWordSyntax
			return
		}
		var value uint16
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		codes = append(codes, Code(value))
	default:
		op, ok := aluMap[words[0]]
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		nargs := 2
		if op.Single() {
			nargs = 1
		}
		if len(words) < 1+nargs {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 1+nargs {
			err = ErrOpcodeExtraArgs
			return
		}
		var x, y int
		x, err = asm.getRegister(words[1])
		if err != nil {
			return
		}
		if nargs == 2 {
			y, err = asm.getRegister(words[2])
			if err != nil {
				return
			}
		}
		codes = append(codes, MakeCodeAlu(op, x, y))
	}

	return
}
