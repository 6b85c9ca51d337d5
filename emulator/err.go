package emulator

import (
	"errors"

	"github.com/ezrec/simpleton/translate"
)

var f = translate.From

var (
	ErrStepLimit = errors.New(f("step limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	File   string
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if len(err.File) == 0 {
		return f("line %d %v", err.LineNo, err.Err)
	}
	return f("%v line %d %v", err.File, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
