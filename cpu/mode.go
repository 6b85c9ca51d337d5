package cpu

// CodeMode is an addressing mode, derived from an operand descriptor.
type CodeMode int

//go:generate go tool stringer -linecomment -type=CodeMode
const (
	MODE_REGISTER  = CodeMode(0) // reg
	MODE_INDIRECT  = CodeMode(1) // ind
	MODE_STACK     = CodeMode(2) // stack
	MODE_IMMEDIATE = CodeMode(3) // imm
	MODE_ABSOLUTE  = CodeMode(4) // abs
)

// Mode returns the addressing mode of the descriptor.
//
//	r      register
//	[r]    memory at r
//	[sp]   pop on read, push on write
//	[pc]   the word after the instruction
//	[psw]  memory at the address in the word after the instruction
func (op Operand) Mode() CodeMode {
	if !op.Indirect() {
		return MODE_REGISTER
	}

	switch op.Reg() {
	case REG_SP:
		return MODE_STACK
	case REG_PC:
		return MODE_IMMEDIATE
	case REG_PSW:
		return MODE_ABSOLUTE
	}

	return MODE_INDIRECT
}

// Extra returns true if the mode consumes the next instruction stream word.
func (mode CodeMode) Extra() bool {
	return mode == MODE_IMMEDIATE || mode == MODE_ABSOLUTE
}
