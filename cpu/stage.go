package cpu

// slot is the instruction field an operand lexem fills.
type slot int

const (
	SLOT_NONE = slot(0)
	SLOT_R    = slot(1)
	SLOT_Y    = slot(2)
	SLOT_X    = slot(3)

	SLOT_COUNT = 4
)

// STAGE_COUNT is the number of lexem positions of an instruction.
const STAGE_COUNT = 5

// ASSIGN_STAGE is the position of '=', '<=' or '<-' in the new dialect.
const ASSIGN_STAGE = 1

// stageSlots maps (dialect, stage) to the operand field at that position.
//
//	classic: cmd R Y X
//	new:     R = Y cmd X
var stageSlots = [...][STAGE_COUNT]slot{
	DIALECT_CLASSIC: {SLOT_NONE, SLOT_R, SLOT_Y, SLOT_X, SLOT_NONE},
	DIALECT_NEW:     {SLOT_R, SLOT_NONE, SLOT_Y, SLOT_NONE, SLOT_X},
}

// commandStages is the position of the command in each dialect.
var commandStages = [...]int{
	DIALECT_CLASSIC: 0,
	DIALECT_NEW:     3,
}

// stageSlot returns the operand field for a lexem at stage.
func stageSlot(dialect Dialect, stage int) slot {
	if stage < 0 || stage >= STAGE_COUNT {
		return SLOT_NONE
	}
	return stageSlots[dialect][stage]
}

// commandStage returns true if a command is expected at stage.
func commandStage(dialect Dialect, stage int) bool {
	return commandStages[dialect] == stage
}

// assign is the assignment operator of a new dialect line.
type assign int

const (
	ASSIGN_SET     = assign(0) // =
	ASSIGN_INPLACE = assign(1) // <=  inplace add
	ASSIGN_MOVE    = assign(2) // <-  move, '-' negates X
)

// field is an operand as parsed.
type field struct {
	set     bool
	operand Operand
	value   int    // Literal or symbol value, or trailing word contents.
	forward string // Unresolved name, if any.
}

// lineState is the parse state of one instruction line.
type lineState struct {
	dialect  Dialect
	indirect bool
	stage    int

	op      CodeOp
	hasOp   bool
	cond    CodeCond
	hasCond bool
	call    bool
	assign  assign
	invertX bool

	field [SLOT_COUNT]field
}

// setOp sets the line opcode.
func (ls *lineState) setOp(op CodeOp) {
	ls.op = op
	ls.hasOp = true
}

// immediate returns the descriptor for a value operand, honoring
// indirection.
func (ls *lineState) immediate() Operand {
	if ls.indirect {
		return IND_IMMED
	}
	return IMMED
}

// argument stores an operand into the field selected by the current stage.
func (ls *lineState) argument(kind string, lexem string, operand Operand, value int, forward string) (err error) {
	s := stageSlot(ls.dialect, ls.stage)
	switch s {
	case SLOT_R:
		if operand == IMMED {
			err = ErrResultImmediate
			return
		}
	case SLOT_X:
		if ls.hasOp && ls.op.Inplace() && ls.indirect {
			err = ErrInplaceIndirect
			return
		}
	case SLOT_NONE:
		err = ErrTokenPlace{Kind: kind, Lexem: lexem}
		return
	}

	ls.field[s] = field{
		set:     true,
		operand: operand,
		value:   value,
		forward: forward,
	}

	return
}
