// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/simpleton/cpu"
	"github.com/ezrec/simpleton/internal"
	"github.com/ezrec/simpleton/io"
)

const (
	CODE_START = 0 // Program counter after reset.
)

var _emulator_defines = map[string]int{
	"CODE_START": CODE_START,
}

// Emulator state. Machine + assembler + console.
type Emulator struct {
	Verbose      bool           // If set, enables verbose logging.
	*cpu.Machine                // Reference to the machine simulation.
	Assembler    *cpu.Assembler // Assembler emitting into the machine.
	Program      *cpu.Program   // Reference to the currently loaded program listing.

	Tape io.Tape // Default console.

	StepLimit int // If non-zero, the maximum number of steps before an error.
}

// NewEmulator creates a new emulator, with the tape as its console.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(),
		Program: &cpu.Program{},
	}

	emu.Machine.Console = &emu.Tape
	emu.Assembler = cpu.NewAssembler(emu.Machine)
	for name, value := range emu.Defines() {
		emu.Assembler.Predefine(name, value)
	}

	return
}

// Defines returns an iterator over all of the predefined symbols.
func (emu *Emulator) Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// assembled installs a freshly assembled program.
func (emu *Emulator) assembled(prog *cpu.Program, err error) error {
	if err != nil {
		emu.Program = &cpu.Program{}
		return err
	}

	emu.Program = prog
	emu.Reset()

	return nil
}

// Assemble assembles a source file into memory.
func (emu *Emulator) Assemble(filename string) (err error) {
	emu.Machine.Reset()
	emu.Assembler.Verbose = emu.Verbose

	return emu.assembled(emu.Assembler.ParseFile(filename))
}

// AssembleSource assembles a source stream into memory.
func (emu *Emulator) AssembleSource(name string, input goio.Reader) (err error) {
	emu.Machine.Reset()
	emu.Assembler.Verbose = emu.Verbose

	return emu.assembled(emu.Assembler.Parse(name, input))
}

// LoadImage replaces memory with an image. The listing is replaced by a
// single entry covering the loaded words.
func (emu *Emulator) LoadImage(r goio.Reader) (err error) {
	var img io.Image
	_, err = img.ReadFrom(r)
	if err != nil {
		return
	}

	emu.Machine.Reset()
	emu.Machine.Load(0, img.Data)
	emu.Program = &cpu.Program{}
	if len(img.Data) > 0 {
		emu.Program.Listing = []cpu.Listing{{Addr: 0, Size: len(img.Data)}}
	}
	emu.Reset()

	return
}

// SaveImage writes memory from address zero up to the last assembled or
// loaded word.
func (emu *Emulator) SaveImage(w goio.Writer) (err error) {
	var img io.Image
	for addr, word := range emu.Program.Words(emu.Memory[:]) {
		if int(addr) >= len(img.Data) {
			img.Data = append(img.Data, make([]uint16, int(addr)+1-len(img.Data))...)
		}
		img.Data[addr] = word
	}

	_, err = img.WriteTo(w)

	return
}

// Reset the registers and statistics, keeping memory.
func (emu *Emulator) Reset() {
	clear(emu.Register[:])
	emu.Register[cpu.REG_PC] = CODE_START
	emu.Ticks = 0
}

// Location returns the source location of the current instruction.
func (emu *Emulator) Location() (file string, lineno int) {
	dbg := emu.Program.Debug(emu.PC())
	if dbg.Listing == nil {
		return
	}

	return dbg.File, dbg.LineNo
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	_, lineno := emu.Location()
	return lineno
}

// Tick performs a single instruction of the emulator. It is done when
// the next instruction is the halt word.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	if emu.Halted() {
		done = true
		return
	}

	if emu.StepLimit > 0 && emu.Ticks >= emu.StepLimit {
		file, lineno := emu.Location()
		err = &ErrRuntime{File: file, LineNo: lineno, Err: ErrStepLimit}
		return
	}

	emu.Step()

	if emu.Verbose {
		log.Printf("%v", emu.Machine)
	}

	return
}

// Run ticks the emulator until it halts.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}
