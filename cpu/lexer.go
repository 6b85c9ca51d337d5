package cpu

import (
	"strings"
	"unicode"
)

func isSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// nextLexem returns the lexem starting at or after pos, and the position
// just past it. An empty lexem means the end of the line.
func nextLexem(line string, pos int) (lexem string, next int, err error) {
	for pos < len(line) && isSpace(line[pos]) {
		pos++
	}
	if pos >= len(line) {
		next = pos
		return
	}

	start := pos
	switch {
	case line[pos] == '"' || line[pos] == '\'':
		quote := line[pos]
		pos++
		for pos < len(line) && line[pos] != quote {
			pos++
		}
		if pos >= len(line) {
			err = ErrStringUnterminated
			return
		}
		pos++
	case strings.HasPrefix(line[pos:], "$("):
		// Expressions may contain whitespace.
		depth := 0
		for pos < len(line) {
			c := line[pos]
			pos++
			if c == '(' {
				depth++
			} else if c == ')' {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if depth != 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}
		for pos < len(line) && !isSpace(line[pos]) {
			pos++
		}
	default:
		for pos < len(line) && !isSpace(line[pos]) {
			pos++
		}
	}

	lexem = line[start:pos]
	next = pos

	// A lone ';' comments out the rest of the line.
	if lexem == ";" {
		lexem = ""
		next = len(line)
	}

	return
}

// ExtractLexems splits a source line into lexems.
//
// Lexems are separated by whitespace, except that a quoted string or a
// $(...) expression is a single lexem with its delimiters. The first lexem is a label when the
// line starts in column zero.
func ExtractLexems(line string) (lexems []string, label bool, err error) {
	pos := 0
	for {
		var lexem string
		lexem, pos, err = nextLexem(line, pos)
		if err != nil {
			return
		}
		if len(lexem) == 0 {
			break
		}
		lexems = append(lexems, lexem)
	}

	label = len(lexems) > 0 && !isSpace(line[0])

	return
}

// isQuoted returns true for a double quoted string lexem.
func isQuoted(lexem string) bool {
	return len(lexem) >= 2 && lexem[0] == '"' && lexem[len(lexem)-1] == '"'
}
