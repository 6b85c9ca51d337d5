package cpu

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// SourceLine is one non-empty line of the flattened source.
type SourceLine struct {
	File   int      // Index of the originating file.
	LineNo int      // Line number within the originating file.
	Label  bool     // Set if Lexems[0] is a label.
	Lexems []string // Lexems of the line.
}

// fileName returns the name of an originating file.
func (asm *Assembler) fileName(file int) string {
	if file < 0 || file >= len(asm.files) {
		return ""
	}
	return asm.files[file]
}

// include preprocesses a file named by an #include directive.
func (asm *Assembler) include(fsys fs.FS, name string, from int, fromLine int) (err error) {
	switch {
	case asm.includes.Contains(name):
		err = fmt.Errorf("%w: '%v'", ErrIncludeCycle, name)
	case asm.includes.Full():
		err = fmt.Errorf("%w: '%v'", ErrIncludeDepth, name)
	}
	if err != nil {
		err = ErrPreprocess{File: asm.fileName(from), LineNo: fromLine, Err: err}
		return
	}

	inf, err := fsys.Open(name)
	if err != nil {
		err = ErrPreprocess{File: asm.fileName(from), LineNo: fromLine, Err: err}
		return
	}
	defer inf.Close()

	return asm.preprocess(fsys, name, inf)
}

// preprocess appends the lines of input to the flattened source,
// replacing each #include with the lines of the named file.
func (asm *Assembler) preprocess(fsys fs.FS, name string, input io.Reader) (err error) {
	asm.includes.Push(name)
	defer asm.includes.Pop()

	file := len(asm.files)
	asm.files = append(asm.files, name)

	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++

		lexems, label, lexErr := ExtractLexems(scanner.Text())
		if lexErr != nil {
			err = ErrSyntax{File: name, LineNo: lineno, Err: lexErr}
			return
		}

		if len(lexems) == 0 {
			continue
		}

		if !strings.HasPrefix(lexems[0], "#") {
			asm.lines = append(asm.lines, SourceLine{
				File:   file,
				LineNo: lineno,
				Label:  label,
				Lexems: lexems,
			})
			continue
		}

		if lexems[0] != "#include" {
			err = ErrPreprocess{File: name, LineNo: lineno,
				Err: fmt.Errorf("%w '%v'", ErrDirectiveUnknown, lexems[0])}
			return
		}

		if len(lexems) != 2 || !isQuoted(lexems[1]) {
			err = ErrPreprocess{File: name, LineNo: lineno, Err: ErrIncludeSyntax}
			return
		}

		target := lexems[1][1 : len(lexems[1])-1]
		target = path.Join(path.Dir(name), target)

		err = asm.include(fsys, target, file, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		err = ErrPreprocess{File: name, LineNo: lineno, Err: err}
	}

	return
}
