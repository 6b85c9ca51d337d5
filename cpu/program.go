package cpu

import (
	"iter"
)

// Listing is the emitted extent of one source line.
type Listing struct {
	Addr   uint16   // First emitted address.
	Size   int      // Number of emitted words.
	File   string   // Source file name.
	LineNo int      // Source line number.
	Lexems []string // Source lexems.
}

// Program is the listing of an assembly.
type Program struct {
	Listing []Listing
}

// Debug locates an address in the listing.
type Debug struct {
	*Listing
	Index int // Word index within the listing.
}

// Debug returns the listing that emitted addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, list := range prog.Listing {
		if int(addr) >= int(list.Addr) && int(addr) < int(list.Addr)+list.Size {
			dbg = Debug{
				Listing: &prog.Listing[n],
				Index:   int(addr) - int(list.Addr),
			}
			break
		}
	}

	return
}

// Addrs iterates over every emitted address, in source order.
func (prog *Program) Addrs() iter.Seq[uint16] {
	return func(yield func(addr uint16) bool) {
		for _, list := range prog.Listing {
			for n := range list.Size {
				if !yield(list.Addr + uint16(n)) {
					return
				}
			}
		}
	}
}

// Words iterates over every emitted address and its contents in memory.
func (prog *Program) Words(memory []uint16) iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, word uint16) bool) {
		for addr := range prog.Addrs() {
			if !yield(addr, memory[addr]) {
				return
			}
		}
	}
}
