package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/simpleton/io"
)

var (
	r0 = MakeOperand(REG_R0, false)
	r1 = MakeOperand(REG_R1, false)
	r2 = MakeOperand(REG_R2, false)
	r3 = MakeOperand(REG_R3, false)
	pc = MakeOperand(REG_PC, false)
)

// stepWith loads words at zero and executes a single instruction.
func stepWith(m *Machine, words ...uint16) {
	m.Load(0, words)
	m.Register[REG_PC] = 0
	m.Step()
}

func TestMachine(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.False(m.Verbose)
	assert.Nil(m.Console)
	assert.Equal(uint16(0), m.PC())
	assert.True(m.Halted())

	defines := map[string]int{}
	for name, value := range m.Defines() {
		defines[name] = value
	}
	assert.Equal(PORT_CONSOLE, defines["PORT_CONSOLE"])
	assert.Equal(STACK_TOP, defines["STACK_TOP"])
	assert.Equal(2, defines["FLAG_CARRY"])
}

func TestMachineMove(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Load(0, []uint16{
		Encode(OP_ADDIS, r0, IMMED, 0), 5,
		Encode(OP_ADDIS, r1, r0, 0),
		0,
	})

	assert.False(m.Halted())
	m.Step()
	m.Step()

	assert.Equal(uint16(5), m.Register[REG_R0])
	assert.Equal(uint16(5), m.Register[REG_R1])
	assert.Equal(uint16(3), m.PC())
	assert.Equal(uint16(0), m.CurrentOp())
	assert.True(m.Halted())
	assert.Equal(2, m.Ticks)
	assert.Equal(uint16(0), m.Register[REG_PSW])
}

func TestMachineReset(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	stepWith(m, Encode(OP_ADDIS, r0, IMMED, 0), 5)
	m.Reset()

	assert.Equal(uint16(0), m.Register[REG_R0])
	assert.Equal(uint16(0), m.Memory[0])
	assert.Equal(0, m.Ticks)
}

func TestMachineAlu(t *testing.T) {
	assert := assert.New(t)

	const (
		Z = 1 << FLAG_ZERO
		C = 1 << FLAG_CARRY
		S = 1 << FLAG_SIGN
	)

	table := [](struct {
		name  string
		op    CodeOp
		psw   uint16
		y, x  uint16
		value uint16
		flags uint16
	}){
		{"add", OP_ADD, 0, 2, 3, 5, 0},
		{"add carry", OP_ADD, 0, 0xffff, 1, 0, Z | C},
		{"add sign", OP_ADD, 0, 0x7fff, 1, 0x8000, S},
		{"adc", OP_ADC, C, 1, 1, 3, 0},
		{"adc clear", OP_ADC, 0, 1, 1, 2, 0},
		{"sub", OP_SUB, 0, 5, 2, 3, 0},
		{"sub zero", OP_SUB, 0, 5, 5, 0, Z},
		{"sub borrow", OP_SUB, 0, 1, 2, 0xffff, C | S},
		{"sbc", OP_SBC, C, 5, 2, 2, 0},
		{"and", OP_AND, 0, 0xff0f, 0x0ff0, 0x0f00, 0},
		{"and zero", OP_AND, C, 0xf0, 0x0f, 0, Z},
		{"or", OP_OR, 0, 0x8000, 0x0001, 0x8001, S},
		{"xor", OP_XOR, 0, 0x5555, 0x5555, 0, Z},
		{"adds", OP_ADDS, Z | C | S, 1, 2, 3, Z | C | S},
	}

	for _, entry := range table {
		m := NewMachine()
		m.Register[REG_PSW] = entry.psw
		m.Register[REG_R1] = entry.y
		m.Register[REG_R2] = entry.x
		stepWith(m, Encode(entry.op, r0, r1, r2))
		assert.Equal(entry.value, m.Register[REG_R0], entry.name)
		assert.Equal(entry.flags, m.Register[REG_PSW], entry.name)
	}
}

func TestMachineInplace(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[REG_PSW] = 1 << FLAG_SIGN
	m.Register[REG_R0] = 10
	stepWith(m, Encode(OP_ADDIS, r0, r0, 0xf))
	assert.Equal(uint16(9), m.Register[REG_R0])
	assert.Equal(uint16(1<<FLAG_SIGN), m.Register[REG_PSW])
	assert.Equal(uint16(1), m.PC())

	m.Register[REG_R0] = 0xffff
	stepWith(m, Encode(OP_ADDI, r0, r0, 1))
	assert.Equal(uint16(0), m.Register[REG_R0])
	assert.True(m.Flag(FLAG_ZERO))
	assert.True(m.Flag(FLAG_CARRY))
	assert.False(m.Flag(FLAG_SIGN))
}

func TestMachineCompare(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[REG_R0] = 5
	m.Register[REG_PSW] = 1 << FLAG_SIGN

	stepWith(m, Encode(OP_CMP, r0, r0, IMMED), 5)
	assert.Equal(uint16(5), m.Register[REG_R0])
	assert.True(m.Flag(FLAG_ZERO))
	assert.False(m.Flag(FLAG_CARRY))
	assert.True(m.Flag(FLAG_SIGN))

	// R receives Y, not the difference.
	stepWith(m, Encode(OP_CMP, r3, r0, IMMED), 7)
	assert.Equal(uint16(5), m.Register[REG_R3])
	assert.False(m.Flag(FLAG_ZERO))
	assert.True(m.Flag(FLAG_CARRY))
	assert.Equal(uint16(2), m.PC())
}

func TestMachineBranch(t *testing.T) {
	assert := assert.New(t)

	branch := func(cond CodeCond, offset int) uint16 {
		return (uint16(cond) << 13) | (uint16(offset) & 0x1fff)
	}

	table := [](struct {
		name string
		psw  uint16
		word uint16
		pc   uint16
	}){
		{"z taken", 1 << FLAG_ZERO, branch(COND_ZERO, 5), 7},
		{"z not taken", 0, branch(COND_ZERO, 5), 2},
		{"nz taken", 0, branch(COND_NZERO, 5), 7},
		{"nz not taken", 1 << FLAG_ZERO, branch(COND_NZERO, 5), 2},
		{"c taken", 1 << FLAG_CARRY, branch(COND_CARRY, -2), 0},
		{"c not taken", 0, branch(COND_CARRY, -2), 2},
		{"nc taken", 0, branch(COND_NCARRY, 4095), 4097},
		{"nc backwards", 0, branch(COND_NCARRY, -4096), 0xf002},
		{"reserved", 0xffff, branch(COND_SIGN, 5), 2},
		{"reserved gte", 0, branch(COND_GTE, 5), 2},
	}

	for _, entry := range table {
		m := NewMachine()
		m.Register[REG_PSW] = entry.psw
		stepWith(m, Encode(OP_CADD, pc, pc, IMMED), entry.word)
		assert.Equal(entry.pc, m.PC(), entry.name)
		assert.Equal(entry.psw, m.Register[REG_PSW], entry.name)
	}
}

func TestMachineModes(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	// [r1]
	m.Register[REG_R1] = 0x100
	m.Memory[0x100] = 42
	stepWith(m, Encode(OP_ADDIS, r0, MakeOperand(REG_R1, true), 0))
	assert.Equal(uint16(42), m.Register[REG_R0])

	// [sp] read pops
	m.Register[REG_SP] = 0x200
	m.Memory[0x200] = 9
	stepWith(m, Encode(OP_ADDIS, r0, IND_SP, 0))
	assert.Equal(uint16(9), m.Register[REG_R0])
	assert.Equal(uint16(0x201), m.Register[REG_SP])

	// [sp] write pushes
	m.Register[REG_SP] = 0x200
	m.Register[REG_R0] = 3
	stepWith(m, Encode(OP_ADDIS, IND_SP, r0, 0))
	assert.Equal(uint16(0x1ff), m.Register[REG_SP])
	assert.Equal(uint16(3), m.Memory[0x1ff])

	// [psw] read is absolute
	m.Memory[0x300] = 77
	stepWith(m, Encode(OP_ADDIS, r0, IND_IMMED, 0), 0x300)
	assert.Equal(uint16(77), m.Register[REG_R0])
	assert.Equal(uint16(2), m.PC())

	// [psw] write is absolute
	m.Register[REG_R1] = 0x1234
	stepWith(m, Encode(OP_ADDIS, IND_IMMED, r1, 0), 0x300)
	assert.Equal(uint16(0x1234), m.Memory[0x300])
	assert.Equal(uint16(2), m.PC())

	// [pc] write stores in place, without advancing
	m.Register[REG_R1] = 0xbeef
	stepWith(m, Encode(OP_ADDIS, IMMED, r1, 0), 0)
	assert.Equal(uint16(0xbeef), m.Memory[1])
	assert.Equal(uint16(1), m.PC())
}

func TestMachineFetchOrder(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	// X is fetched before Y.
	stepWith(m, Encode(OP_SUB, r0, IMMED, IMMED), 1, 10)
	assert.Equal(uint16(9), m.Register[REG_R0])
	assert.Equal(uint16(3), m.PC())

	// Then R.
	stepWith(m, Encode(OP_ADD, IND_IMMED, IMMED, IMMED), 0x300, 0x200, 0x100)
	assert.Equal(uint16(0x500), m.Memory[0x100])
	assert.Equal(uint16(4), m.PC())
}

func TestMachineConsole(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	// No console host reads as idle.
	m.Register[REG_R0] = 0xffff
	stepWith(m, Encode(OP_ADDIS, r0, IND_IMMED, 0), PORT_CONSOLE)
	assert.Equal(uint16(0), m.Register[REG_R0])

	queue := &io.Queue{}
	m.Console = queue

	stepWith(m, Encode(OP_ADDIS, r0, IND_IMMED, 0), PORT_CONSOLE)
	assert.Equal(uint16(0), m.Register[REG_R0])

	queue.PushString("A")
	stepWith(m, Encode(OP_ADDIS, r0, IND_IMMED, 0), PORT_CONSOLE)
	assert.Equal(uint16('A'), m.Register[REG_R0])
	assert.Equal(0, len(queue.Input))

	m.Register[REG_R1] = 'B'
	stepWith(m, Encode(OP_ADDIS, IND_IMMED, r1, 0), PORT_CONSOLE)
	assert.Equal("B", queue.String())
	assert.Equal(uint16(0), m.Memory[PORT_CONSOLE])
}

func TestMachineRotate(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[REG_R0] = 0x1234
	m.Register[REG_PSW] = 1 << FLAG_CARRY

	stepWith(m, Encode(OP_RRCI, r0, r0, 1))
	assert.Equal(uint16(0x1234), m.Register[REG_R0])
	assert.Equal(uint16(1<<FLAG_CARRY), m.Register[REG_PSW])
	assert.Equal(uint16(1), m.PC())

	m.Memory[0x300] = 0x5555
	stepWith(m, Encode(OP_RRC, IND_IMMED, r0, r1), 0x300)
	assert.Equal(uint16(0x5555), m.Memory[0x300])
	assert.Equal(uint16(2), m.PC())
	assert.Equal(2, m.Ticks)
}

func TestMachineString(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[REG_PC] = 0x10
	assert.Equal("r0:0000 r1:0000 r2:0000 r3:0000 r4:0000 sp:0000 pc:0010 psw:0000", m.String())
}

func FuzzMachineStep(f *testing.F) {
	f.Add(uint16(0), uint16(0), uint16(0))
	f.Add(uint16(0xffff), uint16(0x1234), uint16(0xffff))
	f.Add(Encode(OP_CADD, pc, pc, IMMED), uint16(0x1fff), uint16(0))

	f.Fuzz(func(t *testing.T, word uint16, a uint16, b uint16) {
		assert := assert.New(t)

		m := NewMachine()
		m.Console = &io.Queue{}
		for n := range REG_COUNT {
			m.Register[n] = a
		}
		m.Register[REG_PC] = 0
		m.Load(0, []uint16{word, a, b, a})

		m.Step()
		assert.Equal(1, m.Ticks)

		// The console port is never backed by memory.
		assert.Equal(uint16(0), m.Memory[PORT_CONSOLE])
	})
}
