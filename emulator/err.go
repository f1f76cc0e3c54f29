package emulator

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrStepLimit indicates the instruction budget was exhausted before
// the program halted.
var ErrStepLimit = errors.New(f("step limit reached"))

// ErrImageSize indicates a program image too large for memory.
type ErrImageSize int

func (err ErrImageSize) Error() string {
	return f("program image of %d bytes does not fit memory", int(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
