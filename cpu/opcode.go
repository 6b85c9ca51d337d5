package cpu

import (
	"fmt"
)

// CodeOp is an opcode.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_ADDIS = CodeOp(0)  // addis
	OP_ADDI  = CodeOp(1)  // addi
	OP_ADDS  = CodeOp(2)  // adds
	OP_ADD   = CodeOp(3)  // add
	OP_ADC   = CodeOp(4)  // adc
	OP_SUB   = CodeOp(5)  // sub
	OP_SBC   = CodeOp(6)  // sbc
	OP_AND   = CodeOp(7)  // and
	OP_OR    = CodeOp(8)  // or
	OP_XOR   = CodeOp(9)  // xor
	OP_CMP   = CodeOp(10) // cmp
	OP_CADD  = CodeOp(11) // cadd
	OP_RRCI  = CodeOp(12) // rrci
	OP_RRC   = CodeOp(13) // rrc
)

// Inplace returns true if the X field of the opcode holds a signed 4-bit
// constant instead of an operand descriptor.
func (op CodeOp) Inplace() bool {
	return op == OP_ADDI || op == OP_ADDIS || op == OP_RRCI
}

// CodeReg is a register index.
type CodeReg int

//go:generate go tool stringer -linecomment -type=CodeReg
const (
	REG_R0  = CodeReg(0) // r0
	REG_R1  = CodeReg(1) // r1
	REG_R2  = CodeReg(2) // r2
	REG_R3  = CodeReg(3) // r3
	REG_R4  = CodeReg(4) // r4
	REG_SP  = CodeReg(5) // sp
	REG_PC  = CodeReg(6) // pc
	REG_PSW = CodeReg(7) // psw

	REG_COUNT = 8
)

// CodeFlag is a bit position in the psw register.
type CodeFlag int

const (
	FLAG_ZERO       = CodeFlag(0)
	FLAG_CARRY      = CodeFlag(1)
	FLAG_SIGN       = CodeFlag(2)
	FLAG_OVERFLOW   = CodeFlag(3)  // Reserved.
	FLAG_IRQ_ENABLE = CodeFlag(15) // Reserved.
)

// Mask returns the psw bit mask of the flag.
func (fl CodeFlag) Mask() uint16 {
	return 1 << fl
}

// CodeCond is a conditional branch condition, carried in the top 3 bits of
// a cadd X operand.
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_ZERO   = CodeCond(0) // z
	COND_NZERO  = CodeCond(1) // nz
	COND_CARRY  = CodeCond(2) // c
	COND_NCARRY = CodeCond(3) // nc
	COND_SIGN   = CodeCond(4) // s
	COND_NSIGN  = CodeCond(5) // ns
	COND_GT     = CodeCond(6) // gt
	COND_GTE    = CodeCond(7) // gte
)

// Operand is a 4-bit operand descriptor: a register index and an
// indirect flag in bit 3.
type Operand uint8

// Common descriptors.
const (
	IND_SP    = Operand(0x8 | REG_SP)  // [sp]: pop on read, push on write.
	IMMED     = Operand(0x8 | REG_PC)  // [pc]: the next word.
	IND_IMMED = Operand(0x8 | REG_PSW) // [psw]: memory at the next word.
)

// MakeOperand creates an operand descriptor.
func MakeOperand(reg CodeReg, indirect bool) Operand {
	op := Operand(reg & 0x7)
	if indirect {
		op |= 0x8
	}
	return op
}

// Reg returns the register index of the descriptor.
func (op Operand) Reg() CodeReg {
	return CodeReg(op & 0x7)
}

// Indirect returns true if the descriptor addresses memory.
func (op Operand) Indirect() bool {
	return (op & 0x8) != 0
}

func (op Operand) String() string {
	if op.Indirect() {
		return "[" + op.Reg().String() + "]"
	}
	return op.Reg().String()
}

// Instruction is the decoded view of one instruction word.
type Instruction struct {
	Op CodeOp
	R  Operand
	Y  Operand
	X  Operand
}

// Decode splits an instruction word into its fields.
//
//	bits 15..12  opcode
//	bits 11..8   r   (bit 11 indirect)
//	bits  7..4   y   (bit 7 indirect)
//	bits  3..0   x   (bit 3 indirect)
func Decode(word uint16) Instruction {
	return Instruction{
		Op: CodeOp((word >> 12) & 0xf),
		R:  Operand((word >> 8) & 0xf),
		Y:  Operand((word >> 4) & 0xf),
		X:  Operand((word >> 0) & 0xf),
	}
}

// Encode packs an instruction word.
func Encode(op CodeOp, r, y, x Operand) uint16 {
	return (uint16(op&0xf) << 12) | (uint16(r&0xf) << 8) | (uint16(y&0xf) << 4) | uint16(x&0xf)
}

// Word returns the encoded instruction.
func (in Instruction) Word() uint16 {
	return Encode(in.Op, in.R, in.Y, in.X)
}

// InplaceX returns the X field as a signed value in -8..7.
func (in Instruction) InplaceX() int16 {
	x := int16(in.X & 0xf)
	if x&0x8 != 0 {
		x -= 0x10
	}
	return x
}

// String returns a compact form of the instruction, for logging.
func (in Instruction) String() string {
	x := in.X.String()
	if in.Op.Inplace() {
		x = fmt.Sprintf("%d", in.InplaceX())
	}
	return fmt.Sprintf("%v %v %v %v", in.Op, in.R, in.Y, x)
}
