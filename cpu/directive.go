package cpu

import (
	"fmt"
)

// directives are the first-lexem keywords that do not assemble
// instructions.
var directives = map[string](func(asm *Assembler, label string, args []string) error){
	"org":  (*Assembler).directiveOrg,
	"=":    (*Assembler).directiveEquate,
	"mode": (*Assembler).directiveMode,
	"dw":   (*Assembler).directiveDw,
	"ds":   (*Assembler).directiveDs,
}

// constExpr evaluates a literal or a defined symbol. If forward is set,
// an unknown name is recorded as a forward reference to the word at addr.
func (asm *Assembler) constExpr(lexem string, forward bool, addr uint16) (value int, err error) {
	if isNumberLiteral(lexem) {
		return asm.parseNumber(lexem)
	}

	id := asm.ident.Lookup(lexem, DIALECT_CLASSIC)
	switch {
	case id != nil && id.Kind == KIND_SYMBOL:
		value = id.Value
	case id != nil:
		err = fmt.Errorf("%w '%v'", ErrSymbolKind, lexem)
	case forward:
		asm.forwards = append(asm.forwards, Forward{
			Name:  lexem,
			Addr:  addr,
			Line:  asm.lineIndex,
			Patch: PatchWord{},
		})
	default:
		err = ErrLabelMissing(lexem)
	}

	return
}

// oneArg returns the single argument of a directive.
func oneArg(args []string) (arg string, err error) {
	switch {
	case len(args) == 0:
		err = ErrValueMissing
	case len(args) > 1:
		err = ErrOpcodeExtraArgs
	default:
		arg = args[0]
	}
	return
}

// directiveOrg sets the emission address. A label on the same line takes
// the new address.
func (asm *Assembler) directiveOrg(label string, args []string) (err error) {
	arg, err := oneArg(args)
	if err != nil {
		return
	}

	value, err := asm.constExpr(arg, false, 0)
	if err != nil {
		return
	}

	asm.org = uint16(value)
	if len(label) > 0 {
		asm.ident.Lookup(label, asm.dialect).Value = int(asm.org)
	}

	return
}

// directiveEquate sets the value of the line's label.
func (asm *Assembler) directiveEquate(label string, args []string) (err error) {
	if len(label) == 0 {
		err = ErrEquateSyntax
		return
	}

	arg, err := oneArg(args)
	if err != nil {
		return
	}

	value, err := asm.constExpr(arg, false, 0)
	if err != nil {
		return
	}

	asm.ident.Lookup(label, asm.dialect).Value = value

	return
}

// directiveMode selects the dialect of the following lines.
func (asm *Assembler) directiveMode(label string, args []string) (err error) {
	arg, err := oneArg(args)
	if err != nil {
		return
	}

	switch arg {
	case "classic":
		asm.dialect = DIALECT_CLASSIC
	case "new":
		asm.dialect = DIALECT_NEW
	default:
		err = fmt.Errorf("%w: '%v'", ErrModeInvalid, arg)
	}

	return
}

// directiveDw emits words. A string emits one word per character.
func (asm *Assembler) directiveDw(label string, args []string) (err error) {
	for _, arg := range args {
		if arg[0] == '"' {
			for n := 1; n < len(arg)-1; n++ {
				asm.emit(uint16(arg[n]))
			}
			continue
		}

		var value int
		value, err = asm.constExpr(arg, true, asm.org)
		if err != nil {
			return
		}
		asm.emit(uint16(value))
	}

	return
}

// directiveDs reserves words, filled with zero or the optional fill value.
func (asm *Assembler) directiveDs(label string, args []string) (err error) {
	if len(args) == 0 {
		err = ErrValueMissing
		return
	}
	if len(args) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	size, err := asm.constExpr(args[0], false, 0)
	if err != nil {
		return
	}

	var fill int
	if len(args) == 2 {
		fill, err = asm.constExpr(args[1], false, 0)
		if err != nil {
			return
		}
	}

	for range int(uint16(size)) {
		asm.emit(uint16(fill))
	}

	return
}
