package cpu

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	VALUE_MIN = -0x8000
	VALUE_MAX = 0xffff
)

// isNumberLiteral returns true if the lexem is a numeric literal,
// character literal or $(...) expression. A sign only starts a literal
// when followed by a digit or '$', so that '-' and '-c' remain commands.
func isNumberLiteral(lexem string) bool {
	if len(lexem) == 0 {
		return false
	}

	c := lexem[0]
	switch {
	case c == '$' || c == '\'' || isDigit(c):
		return true
	case (c == '-' || c == '+') && len(lexem) > 1:
		return lexem[1] == '$' || isDigit(lexem[1])
	}

	return false
}

// charEscape maps the character after a backslash to its value.
var charEscape = map[string]int{
	"\\": '\\',
	"0":  0,
	"e":  033,
	"n":  '\n',
	"r":  '\r',
	"s":  ' ',
	"t":  '\t',
}

// parseChar parses a 'c' or '\c' character literal.
func parseChar(lexem string) (value int, err error) {
	str := lexem[1 : len(lexem)-1]
	if strings.HasPrefix(str, "\\") {
		var ok bool
		value, ok = charEscape[str[1:]]
		if !ok {
			err = ErrParseNumber(lexem)
		}
		return
	}

	if len(str) != 1 {
		err = ErrParseNumber(lexem)
		return
	}

	value = int(str[0])
	return
}

// parseNumber returns the value of a literal lexem.
func (asm *Assembler) parseNumber(lexem string) (value int, err error) {
	defer func() {
		if err == nil && (value < VALUE_MIN || value > VALUE_MAX) {
			err = fmt.Errorf("%w: '%v'", ErrNumberRange, lexem)
		}
	}()

	if strings.HasPrefix(lexem, "$(") && strings.HasSuffix(lexem, ")") {
		return asm.parenEval(lexem[2 : len(lexem)-1])
	}

	if len(lexem) >= 2 && lexem[0] == '\'' && lexem[len(lexem)-1] == '\'' {
		return parseChar(lexem)
	}

	text := lexem
	negative := false
	switch text[0] {
	case '-':
		negative = true
		text = text[1:]
	case '+':
		text = text[1:]
	}

	base := 10
	if strings.HasPrefix(text, "$") {
		base = 16
		text = text[1:]
	}

	v64, perr := strconv.ParseInt(text, base, 32)
	if perr != nil {
		err = ErrParseNumber(lexem)
		return
	}

	if negative {
		v64 = -v64
	}

	value = int(v64)
	return
}

// isIdentifier returns true if name can be a starlark variable.
func isIdentifier(name string) bool {
	if len(name) == 0 || isDigit(name[0]) {
		return false
	}
	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// parenEval does compile-time $(...) evaluations. Defined global symbols
// are visible, along with ORG and LINENO.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for id := range asm.ident.All() {
		if id.Kind != KIND_SYMBOL || !isIdentifier(id.Name) {
			continue
		}
		pred[id.Name] = starlark.MakeInt(id.Value)
	}
	pred["ORG"] = starlark.MakeInt(int(asm.org))
	pred["LINENO"] = starlark.MakeInt(asm.lineNo())

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}
