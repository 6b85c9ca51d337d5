package io

import (
	"io"
)

// Tape provides console I/O over byte streams.
// It wraps an io.Reader for input and io.Writer for output, one byte per
// character. The Input reader must not block; use Terminal for an
// interactive stdin.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Console = (*Tape)(nil)

// Poll reads the next byte from the input stream.
// A nil Input, end of stream, or a short read report no pending input.
func (tc *Tape) Poll() (value uint16, ok bool) {
	if tc.Input == nil {
		return
	}

	var one [1]byte
	n, _ := tc.Input.Read(one[:])
	if n == 0 {
		return
	}

	value = uint16(one[0])
	ok = true
	return
}

// Print writes the low byte of value to the output stream.
func (tc *Tape) Print(value uint16) {
	if tc.Output == nil {
		return
	}

	tc.Output.Write([]byte{byte(value)})
}
