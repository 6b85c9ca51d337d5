package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/simpleton/io"
)

// Console is the host side of the console port.
type Console io.Console

var _machine_defines = map[string]int{
	"PORT_CONSOLE": PORT_CONSOLE,
	"STACK_TOP":    STACK_TOP,
	"FLAG_ZERO":    int(FLAG_ZERO.Mask()),
	"FLAG_CARRY":   int(FLAG_CARRY.Mask()),
	"FLAG_SIGN":    int(FLAG_SIGN.Mask()),
}

// Machine is the simulation context of the Simpleton processor.
type Machine struct {
	Verbose bool    // Set to enable verbose logging.
	Console Console // Console port host; nil reads as idle and drops output.

	Memory   [MEMORY_SIZE]uint16 // Word addressed memory.
	Register [REG_COUNT]uint16   // Register bank; sp, pc and psw are r5-r7.

	Ticks int // Instructions executed since reset.
}

// NewMachine creates a machine in the reset state.
func NewMachine() (m *Machine) {
	m = &Machine{}
	m.Reset()
	return
}

// Defines returns the machine constants that programs may refer to.
func (m *Machine) Defines() iter.Seq2[string, int] {
	return maps.All(_machine_defines)
}

// Reset clears memory, registers and statistics.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("machine: reset")
	}

	clear(m.Memory[:])
	clear(m.Register[:])
	m.Ticks = 0
}

// Load copies words into memory starting at addr, wrapping at the top of
// the address space.
func (m *Machine) Load(addr uint16, words []uint16) {
	for _, word := range words {
		m.Memory[addr] = word
		addr++
	}
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.Register[REG_PC]
}

// CurrentOp returns the instruction word at pc without executing it.
func (m *Machine) CurrentOp() uint16 {
	return m.Memory[m.Register[REG_PC]]
}

// Halted returns true if the next instruction is the all zero word, which
// hosts treat as the end of the program.
func (m *Machine) Halted() bool {
	return m.CurrentOp() == 0
}

// Flag returns the state of a psw flag.
func (m *Machine) Flag(flag CodeFlag) bool {
	return (m.Register[REG_PSW] & flag.Mask()) != 0
}

func (m *Machine) setFlag(flag CodeFlag, value bool) {
	if value {
		m.Register[REG_PSW] |= flag.Mask()
	} else {
		m.Register[REG_PSW] &^= flag.Mask()
	}
}

// String returns the register bank as a single line.
func (m *Machine) String() (text string) {
	for n, value := range m.Register {
		if n > 0 {
			text += " "
		}
		text += fmt.Sprintf("%v:%04X", CodeReg(n), value)
	}
	return
}

// getMem reads a word, polling the console for the port address.
func (m *Machine) getMem(addr uint16) uint16 {
	if addr < PORT_START {
		return m.Memory[addr]
	}

	if addr == PORT_CONSOLE && m.Console != nil {
		value, ok := m.Console.Poll()
		if ok {
			return value
		}
	}

	return 0
}

// setMem writes a word, printing it for the port address.
func (m *Machine) setMem(addr uint16, value uint16) {
	if addr < PORT_START {
		m.Memory[addr] = value
		return
	}

	if addr == PORT_CONSOLE && m.Console != nil {
		m.Console.Print(value)
	}
}

// fetch reads the word at pc and advances pc.
func (m *Machine) fetch() (word uint16) {
	word = m.getMem(m.Register[REG_PC])
	m.Register[REG_PC]++
	return
}

// read resolves a source operand.
func (m *Machine) read(op Operand) uint16 {
	reg := op.Reg()

	switch op.Mode() {
	case MODE_REGISTER:
		return m.Register[reg]
	case MODE_IMMEDIATE:
		return m.fetch()
	case MODE_ABSOLUTE:
		return m.getMem(m.fetch())
	case MODE_STACK:
		addr := m.Register[reg]
		m.Register[reg]++
		return m.getMem(addr)
	default:
		return m.getMem(m.Register[reg])
	}
}

// write stores a result to a destination operand.
func (m *Machine) write(op Operand, value uint16) {
	reg := op.Reg()

	switch op.Mode() {
	case MODE_REGISTER:
		m.Register[reg] = value
	case MODE_ABSOLUTE:
		m.setMem(m.fetch(), value)
	case MODE_STACK:
		m.Register[reg]--
		m.setMem(m.Register[reg], value)
	default:
		// [pc] stores to the word after the instruction without
		// consuming it.
		m.setMem(m.Register[reg], value)
	}
}

// applyTemp truncates an ALU result and derives the carry, zero and sign
// flags from it.
func (m *Machine) applyTemp(tmp uint32) (a uint16) {
	a = uint16(tmp & 0xffff)
	m.setFlag(FLAG_CARRY, (tmp&0x10000) != 0)
	m.setFlag(FLAG_ZERO, a == 0)
	m.setFlag(FLAG_SIGN, (a&0x8000) != 0)
	return
}

// condition tests a branch condition against psw.
// The sign and ordering conditions are reserved and never taken.
func (m *Machine) condition(cond CodeCond) bool {
	switch cond {
	case COND_ZERO:
		return m.Flag(FLAG_ZERO)
	case COND_NZERO:
		return !m.Flag(FLAG_ZERO)
	case COND_CARRY:
		return m.Flag(FLAG_CARRY)
	case COND_NCARRY:
		return !m.Flag(FLAG_CARRY)
	}
	return false
}

// Step executes a single instruction.
func (m *Machine) Step() {
	pc := m.Register[REG_PC]
	in := Decode(m.fetch())

	if m.Verbose {
		log.Printf("%04x: %v", pc, in)
	}

	var x uint16
	if in.Op.Inplace() {
		x = uint16(in.InplaceX())
	} else {
		x = m.read(in.X)
	}
	y := m.read(in.Y)

	carry := uint32(0)
	if m.Flag(FLAG_CARRY) {
		carry = 1
	}

	var a uint16
	switch in.Op {
	case OP_ADDIS, OP_ADDS:
		a = y + x
	case OP_ADD, OP_ADDI:
		a = m.applyTemp(uint32(y) + uint32(x))
	case OP_ADC:
		a = m.applyTemp(uint32(y) + uint32(x) + carry)
	case OP_SUB:
		a = m.applyTemp(uint32(y) - uint32(x))
	case OP_SBC:
		a = m.applyTemp(uint32(y) - uint32(x) - carry)
	case OP_AND:
		a = m.applyTemp(uint32(y & x))
	case OP_OR:
		a = m.applyTemp(uint32(y | x))
	case OP_XOR:
		a = m.applyTemp(uint32(y ^ x))
	case OP_CMP:
		// Only the flags change; R receives Y untouched.
		tmp := uint32(y) - uint32(x)
		m.setFlag(FLAG_CARRY, (tmp&0x10000) != 0)
		m.setFlag(FLAG_ZERO, (tmp&0xffff) == 0)
		a = y
	case OP_CADD:
		cond := CodeCond((x >> 13) & 0x7)
		offset := x & 0x1fff
		if offset&0x1000 != 0 {
			offset |= 0xe000
		}
		a = y
		if m.condition(cond) {
			a = y + offset
		}
	case OP_RRCI, OP_RRC:
		// Reserved: nothing is stored, but an absolute R still owns
		// its address word.
		if in.R.Mode() == MODE_ABSOLUTE {
			m.fetch()
		}
		m.Ticks++
		return
	}

	m.write(in.R, a)
	m.Ticks++
}
