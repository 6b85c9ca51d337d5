package io

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// TERMINAL_BUFFER is the number of keystrokes buffered ahead of Poll.
const TERMINAL_BUFFER = 256

// Terminal reads stdin from a goroutine and queues the bytes for Poll, so
// the machine never waits on the host. When Input is a tty it is put in raw
// mode for the duration, disabling host echo and line buffering.
type Terminal struct {
	Input  *os.File
	Output io.Writer

	keys     chan byte
	stopped  sync.Once
	oldState *term.State
	fd       int
}

var _ Console = (*Terminal)(nil)

// NewTerminal creates a console over the given input file and output writer.
func NewTerminal(input *os.File, output io.Writer) *Terminal {
	return &Terminal{
		Input:  input,
		Output: output,
		keys:   make(chan byte, TERMINAL_BUFFER),
	}
}

// Start begins reading Input. Call Stop to restore the terminal.
func (tt *Terminal) Start() (err error) {
	tt.fd = int(tt.Input.Fd())

	if term.IsTerminal(tt.fd) {
		tt.oldState, err = term.MakeRaw(tt.fd)
		if err != nil {
			return
		}
	}

	go func() {
		defer close(tt.keys)
		buf := make([]byte, 1)
		for {
			n, err := tt.Input.Read(buf)
			if n > 0 {
				b := buf[0]
				// Raw mode sends CR for Enter.
				if b == '\r' {
					b = '\n'
				}
				// Backspace arrives as DEL on most terminals.
				if b == 0x7f {
					b = 0x08
				}
				tt.keys <- b
			}
			if err != nil {
				return
			}
		}
	}()

	return
}

// Stop restores the terminal state saved by Start.
func (tt *Terminal) Stop() {
	tt.stopped.Do(func() {
		if tt.oldState != nil {
			_ = term.Restore(tt.fd, tt.oldState)
			tt.oldState = nil
		}
	})
}

// Poll returns the next buffered keystroke without waiting.
func (tt *Terminal) Poll() (value uint16, ok bool) {
	select {
	case b, open := <-tt.keys:
		if open {
			value = uint16(b)
			ok = true
		}
	default:
	}
	return
}

// Print writes a character, expanding LF to CRLF while in raw mode.
func (tt *Terminal) Print(value uint16) {
	if tt.Output == nil {
		return
	}

	b := byte(value)
	if b == '\n' && tt.oldState != nil {
		tt.Output.Write([]byte{'\r', '\n'})
		return
	}
	tt.Output.Write([]byte{b})
}
