// Package io provides console port hosts and memory image storage for the
// Simpleton machine.
//
// A Console is the narrow capability the machine uses for its memory
// mapped port: a non-blocking poll for the next input character, and a
// print for output. Tape adapts an io.Reader/io.Writer pair, Queue keeps
// everything in memory, and Terminal drives a raw mode tty.
package io

// Console defines the interface for the machine's console port.
type Console interface {
	// Poll returns the next pending input character, if any.
	// Poll never blocks.
	Poll() (value uint16, ok bool)
	// Print emits a single character.
	Print(value uint16)
}
