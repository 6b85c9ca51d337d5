package cpu

import (
	"iter"
)

// CodeKind is the kind of an identifier.
type CodeKind int

const (
	KIND_REGISTER = CodeKind(0) // Register index.
	KIND_SYMBOL   = CodeKind(1) // Label or equate.
	KIND_COMMAND  = CodeKind(2) // Opcode mnemonic.
	KIND_BRANCH   = CodeKind(3) // Conditional branch mnemonic.
)

// Dialect selects the operand ordering of a line.
type Dialect int

const (
	DIALECT_CLASSIC = Dialect(0) // cmd r y x
	DIALECT_NEW     = Dialect(1) // r = y cmd x
)

// Visibility selects the dialects in which an identifier exists.
type Visibility int

const (
	VISIBLE_CLASSIC = Visibility(0)
	VISIBLE_NEW     = Visibility(1)
	VISIBLE_BOTH    = Visibility(2)
)

// In returns true if the identifier is visible in the dialect.
func (vis Visibility) In(dialect Dialect) bool {
	switch vis {
	case VISIBLE_CLASSIC:
		return dialect == DIALECT_CLASSIC
	case VISIBLE_NEW:
		return dialect == DIALECT_NEW
	}
	return true
}

// Identifier is a named register, symbol, command or branch.
type Identifier struct {
	Name    string
	Kind    CodeKind
	Visible Visibility
	Value   int // Register index, opcode, condition code or symbol value.
}

// builtinIdentifiers are installed at the start of every assembly.
var builtinIdentifiers = []Identifier{
	{"r0", KIND_REGISTER, VISIBLE_BOTH, int(REG_R0)},
	{"r1", KIND_REGISTER, VISIBLE_BOTH, int(REG_R1)},
	{"r2", KIND_REGISTER, VISIBLE_BOTH, int(REG_R2)},
	{"r3", KIND_REGISTER, VISIBLE_BOTH, int(REG_R3)},
	{"r4", KIND_REGISTER, VISIBLE_BOTH, int(REG_R4)},
	{"r5", KIND_REGISTER, VISIBLE_BOTH, int(REG_SP)},
	{"r6", KIND_REGISTER, VISIBLE_BOTH, int(REG_PC)},
	{"r7", KIND_REGISTER, VISIBLE_BOTH, int(REG_PSW)},
	{"sp", KIND_REGISTER, VISIBLE_BOTH, int(REG_SP)},
	{"pc", KIND_REGISTER, VISIBLE_BOTH, int(REG_PC)},
	{"psw", KIND_REGISTER, VISIBLE_BOTH, int(REG_PSW)},

	{"addis", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_ADDIS)},
	{"addi", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_ADDI)},
	{"adds", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_ADDS)},
	{"add", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_ADD)},
	{"adc", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_ADC)},
	{"sub", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_SUB)},
	{"sbc", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_SBC)},
	{"and", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_AND)},
	{"or", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_OR)},
	{"xor", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_XOR)},
	{"cmp", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_CMP)},
	{"cadd", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_CADD)},
	{"rrci", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_RRCI)},
	{"rrc", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_RRC)},
	{"move", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_ADDIS)},
	{"movet", KIND_COMMAND, VISIBLE_CLASSIC, int(OP_ADDI)},

	{"+s", KIND_COMMAND, VISIBLE_NEW, int(OP_ADDS)},
	{"+", KIND_COMMAND, VISIBLE_NEW, int(OP_ADD)},
	{"+c", KIND_COMMAND, VISIBLE_NEW, int(OP_ADC)},
	{"-", KIND_COMMAND, VISIBLE_NEW, int(OP_SUB)},
	{"-c", KIND_COMMAND, VISIBLE_NEW, int(OP_SBC)},
	{"?", KIND_COMMAND, VISIBLE_NEW, int(OP_CMP)},
	{"&", KIND_COMMAND, VISIBLE_NEW, int(OP_AND)},
	{"|", KIND_COMMAND, VISIBLE_NEW, int(OP_OR)},
	{"^", KIND_COMMAND, VISIBLE_NEW, int(OP_XOR)},
	{"+?", KIND_COMMAND, VISIBLE_NEW, int(OP_CADD)},
	{">>", KIND_COMMAND, VISIBLE_NEW, int(OP_RRC)},

	{"jz", KIND_BRANCH, VISIBLE_BOTH, int(COND_ZERO)},
	{"jnz", KIND_BRANCH, VISIBLE_BOTH, int(COND_NZERO)},
	{"jc", KIND_BRANCH, VISIBLE_BOTH, int(COND_CARRY)},
	{"jnc", KIND_BRANCH, VISIBLE_BOTH, int(COND_NCARRY)},
}

// Identifiers is the identifier table. A name may carry several entries
// with different visibility; lookups only see the ones visible in the
// requested dialect.
type Identifiers struct {
	entries map[string][]*Identifier
	order   []*Identifier
}

// Reset empties the table and installs the builtin identifiers.
func (ids *Identifiers) Reset() {
	ids.entries = make(map[string][]*Identifier, len(builtinIdentifiers))
	ids.order = ids.order[:0]
	for _, id := range builtinIdentifiers {
		ids.Add(id)
	}
}

// Add appends an identifier and returns the stored entry.
func (ids *Identifiers) Add(id Identifier) *Identifier {
	if ids.entries == nil {
		ids.entries = make(map[string][]*Identifier)
	}
	entry := &id
	ids.entries[id.Name] = append(ids.entries[id.Name], entry)
	ids.order = append(ids.order, entry)
	return entry
}

// Lookup returns the first identifier named name that is visible in
// dialect, or nil.
func (ids *Identifiers) Lookup(name string, dialect Dialect) *Identifier {
	for _, id := range ids.entries[name] {
		if id.Visible.In(dialect) {
			return id
		}
	}
	return nil
}

// All iterates over the identifiers in definition order.
func (ids *Identifiers) All() iter.Seq[*Identifier] {
	return func(yield func(*Identifier) bool) {
		for _, id := range ids.order {
			if !yield(id) {
				return
			}
		}
	}
}
