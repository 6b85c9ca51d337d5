package cpu

import (
	"errors"

	"github.com/ezrec/simpleton/translate"
)

var f = translate.From

var (
	// Preprocessor errors
	ErrIncludeSyntax    = errors.New(f("#include requires one quoted file name"))
	ErrIncludeCycle     = errors.New(f("#include cycle"))
	ErrIncludeDepth     = errors.New(f("#include nested too deeply"))
	ErrDirectiveUnknown = errors.New(f("unknown preprocessor directive"))

	// Lexer errors
	ErrStringUnterminated = errors.New(f("unterminated string"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f("new symbol is required for equate"))
	ErrLabelDuplicate  = errors.New(f("identifier redefined"))
	ErrLabelLocal      = errors.New(f("local label before global label"))
	ErrModeInvalid     = errors.New(f("mode must be 'classic' or 'new'"))
	ErrValueMissing    = errors.New(f("constant expression expected"))
	ErrSymbolKind      = errors.New(f("identifier is not a symbol"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOpcodeMissing   = errors.New(f("command missing"))
	ErrOperatorInvalid = errors.New(f("operator cannot be used with this assignment"))
	ErrResultMissing   = errors.New(f("R operand missing"))
	ErrResultImmediate = errors.New(f("R operand cannot be immediate"))
	ErrYMissing        = errors.New(f("Y operand missing"))
	ErrInplaceIndirect = errors.New(f("inplace immediate cannot be indirect"))
	ErrInplaceRegister = errors.New(f("inplace immediate cannot be a register"))
	ErrInplaceForward  = errors.New(f("inplace immediate must be known before use"))
	ErrInplaceRange    = errors.New(f("inplace immediate out of range -8..7"))
	ErrNumberRange     = errors.New(f("number out of 16 bit range"))
)

// ErrLabelMissing is a forward reference that was never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrBranchRange is a conditional branch offset outside -4096..4095.
type ErrBranchRange int

func (eb ErrBranchRange) Error() string {
	return f("conditional jump offset is too big (%d)", int(eb))
}

// ErrTokenPlace is a token that is not valid at its position in the line.
type ErrTokenPlace struct {
	Kind  string
	Lexem string
}

func (err ErrTokenPlace) Error() string {
	return f("%v '%v' at wrong place", err.Kind, err.Lexem)
}

// ErrSyntax locates a parse or resolve error in its original source file.
type ErrSyntax struct {
	File   string
	LineNo int
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("parse error at file '%v' line %d: %v", err.File, err.LineNo, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrPreprocess locates an #include processing error.
type ErrPreprocess struct {
	File   string
	LineNo int
	Err    error
}

func (err ErrPreprocess) Error() string {
	file := err.File
	if len(file) == 0 {
		file = "<none>"
	}
	return f("preprocessor error at file '%v' line %d: %v", file, err.LineNo, err.Err)
}

func (err ErrPreprocess) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
