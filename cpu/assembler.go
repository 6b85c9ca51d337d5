// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Assembler is a two pass assembler for the Simpleton machine. The first
// pass emits directly into the machine memory, recording uses of names
// not yet defined. The second pass patches those uses.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	FS      fs.FS    // Filesystem for #include. Defaults to the root file's directory.
	Machine *Machine // Machine receiving the assembled words.

	predefine map[string]int // Predefines

	files     []string      // Names of the source files, by index.
	lines     []SourceLine  // Flattened source.
	lineIndex int           // Index of the line being parsed.
	includes  Stack[string] // Files being preprocessed.

	ident     Identifiers
	forwards  []Forward
	org       uint16
	dialect   Dialect
	lastLabel string
	listing   []Listing
}

// NewAssembler returns an assembler emitting into the machine memory.
func NewAssembler(m *Machine) (asm *Assembler) {
	asm = &Assembler{
		Machine: m,
	}

	return
}

// Predefine defines a symbol before every assembly.
func (asm *Assembler) Predefine(name string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Org returns the current emission address.
func (asm *Assembler) Org() uint16 {
	return asm.org
}

// Symbol returns the value of a defined symbol.
func (asm *Assembler) Symbol(name string) (value int, ok bool) {
	id := asm.ident.Lookup(name, DIALECT_CLASSIC)
	if id == nil || id.Kind != KIND_SYMBOL {
		return
	}

	value = id.Value
	ok = true
	return
}

// Symbols iterates over the defined symbols, in definition order.
// Predefined symbols come first, sorted by name.
func (asm *Assembler) Symbols() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for id := range asm.ident.All() {
			if id.Kind != KIND_SYMBOL {
				continue
			}
			if !yield(id.Name, id.Value) {
				return
			}
		}
	}
}

// lineNo returns the source line number of the line being parsed.
func (asm *Assembler) lineNo() int {
	if asm.lineIndex < 0 || asm.lineIndex >= len(asm.lines) {
		return 0
	}
	return asm.lines[asm.lineIndex].LineNo
}

// syntaxError locates err at a line of the flattened source.
func (asm *Assembler) syntaxError(index int, err error) error {
	var es ErrSyntax
	if errors.As(err, &es) {
		return err
	}

	if index < 0 || index >= len(asm.lines) {
		return ErrSyntax{Err: err}
	}

	line := &asm.lines[index]
	return ErrSyntax{
		File:   asm.fileName(line.File),
		LineNo: line.LineNo,
		Err:    err,
	}
}

// emit stores a word at the current address, and advances.
func (asm *Assembler) emit(word uint16) {
	asm.Machine.Memory[asm.org] = word
	asm.org++
}

// parseStart resets the assembler state for a new assembly.
func (asm *Assembler) parseStart() {
	asm.files = asm.files[:0]
	asm.lines = asm.lines[:0]
	asm.lineIndex = 0
	asm.forwards = asm.forwards[:0]
	asm.org = 0
	asm.dialect = DIALECT_CLASSIC
	asm.lastLabel = ""
	asm.listing = nil
	asm.includes = Stack[string]{Limit: INCLUDE_LIMIT}

	asm.ident.Reset()
	for _, name := range slices.Sorted(maps.Keys(asm.predefine)) {
		asm.ident.Add(Identifier{Name: name, Kind: KIND_SYMBOL, Visible: VISIBLE_BOTH, Value: asm.predefine[name]})
	}
}

// ParseFile assembles a file, and the files it includes.
func (asm *Assembler) ParseFile(filename string) (prog *Program, err error) {
	fsys := asm.FS
	name := filename
	if fsys == nil {
		fsys = os.DirFS(filepath.Dir(filename))
		name = filepath.Base(filename)
	}

	inf, err := fsys.Open(name)
	if err != nil {
		err = ErrPreprocess{Err: err}
		return
	}
	defer inf.Close()

	return asm.parse(fsys, name, inf)
}

// Parse assembles an input stream. Includes are relative to name.
func (asm *Assembler) Parse(name string, input io.Reader) (prog *Program, err error) {
	fsys := asm.FS
	if fsys == nil {
		fsys = os.DirFS(".")
	}

	return asm.parse(fsys, name, input)
}

func (asm *Assembler) parse(fsys fs.FS, name string, input io.Reader) (prog *Program, err error) {
	asm.parseStart()

	err = asm.preprocess(fsys, name, input)
	if err != nil {
		return
	}

	for n := range asm.lines {
		asm.lineIndex = n
		line := &asm.lines[n]

		if asm.Verbose {
			log.Printf("%v:%v: %v", asm.fileName(line.File), line.LineNo, strings.Join(line.Lexems, " "))
		}

		err = asm.parseLine(line)
		if err != nil {
			err = asm.syntaxError(n, err)
			return
		}
	}

	err = asm.parseEnd()
	if err != nil {
		return
	}

	prog = &Program{
		Listing: slices.Clone(asm.listing),
	}

	return
}

// localName expands a local label to its global form.
func (asm *Assembler) localName(name string) (string, error) {
	if len(asm.lastLabel) == 0 {
		return name, fmt.Errorf("%w: '%v'", ErrLabelLocal, name)
	}
	return asm.lastLabel + name, nil
}

// parseLine parses a single line of the flattened source.
func (asm *Assembler) parseLine(line *SourceLine) (err error) {
	lexems := slices.Clone(line.Lexems)

	var label string
	if line.Label {
		label = strings.TrimSuffix(lexems[0], ":")
		lexems = lexems[1:]
		equate := len(lexems) > 0 && lexems[0] == "="
		if !strings.HasPrefix(label, ".") && !equate {
			asm.lastLabel = label
		}
	}

	if strings.HasPrefix(label, ".") {
		label, err = asm.localName(label)
		if err != nil {
			return
		}
	}

	for n, lexem := range lexems {
		if len(lexem) > 1 && lexem[0] == '.' {
			lexems[n], err = asm.localName(lexem)
			if err != nil {
				return
			}
		}
	}

	if len(label) > 0 {
		if asm.ident.Lookup(label, asm.dialect) != nil {
			err = fmt.Errorf("%w: '%v'", ErrLabelDuplicate, label)
			return
		}
		asm.ident.Add(Identifier{Name: label, Kind: KIND_SYMBOL, Visible: VISIBLE_BOTH, Value: int(asm.org)})
	}

	if len(lexems) == 0 {
		return
	}

	start := asm.org
	directive, ok := directives[lexems[0]]
	if ok {
		err = directive(asm, label, lexems[1:])
	} else {
		err = asm.parseInstruction(lexems)
	}
	if err != nil {
		return
	}

	if asm.org != start {
		asm.listing = append(asm.listing, Listing{
			Addr:   start,
			Size:   int(asm.org - start),
			File:   asm.fileName(line.File),
			LineNo: line.LineNo,
			Lexems: line.Lexems,
		})
	}

	return
}

// parseInstruction parses and emits an instruction line.
func (asm *Assembler) parseInstruction(lexems []string) (err error) {
	ls := &lineState{dialect: asm.dialect}

	for _, lexem := range lexems {
		err = asm.parseLexem(ls, lexem)
		if err != nil {
			return
		}
	}

	if ls.stage == 0 {
		return
	}

	return asm.emitInstruction(ls)
}

// parseLexem advances the line state by one lexem.
func (asm *Assembler) parseLexem(ls *lineState, lexem string) (err error) {
	switch {
	case lexem == "[":
		ls.indirect = true
		return
	case lexem == "]":
		ls.indirect = false
		return
	case isNumberLiteral(lexem):
		var value int
		value, err = asm.parseNumber(lexem)
		if err != nil {
			return
		}
		err = ls.argument("literal", lexem, ls.immediate(), value, "")
	case lexem == "=" || lexem == "<=" || lexem == "<-":
		if ls.dialect != DIALECT_NEW || ls.stage != ASSIGN_STAGE {
			err = ErrTokenPlace{Kind: "keyword", Lexem: lexem}
			return
		}
		switch lexem {
		case "<=":
			ls.setOp(OP_ADDI)
			ls.assign = ASSIGN_INPLACE
		case "<-":
			ls.setOp(OP_ADDIS)
			ls.assign = ASSIGN_MOVE
		}
	case lexem == "ret":
		if ls.stage != 0 {
			err = ErrTokenPlace{Kind: "macro", Lexem: lexem}
			return
		}
		ls.setOp(OP_ADDIS)
		ls.field[SLOT_R] = field{set: true, operand: MakeOperand(REG_PC, false)}
		ls.field[SLOT_Y] = field{set: true, operand: IND_SP}
		ls.field[SLOT_X] = field{set: true, operand: IMMED}
		ls.dialect = DIALECT_CLASSIC
		ls.stage = STAGE_COUNT - 1
		return
	case lexem == "call":
		if ls.stage != 0 {
			err = ErrTokenPlace{Kind: "macro", Lexem: lexem}
			return
		}
		ls.setOp(OP_ADDIS)
		ls.call = true
		ls.field[SLOT_R] = field{set: true, operand: MakeOperand(REG_PC, false)}
		ls.dialect = DIALECT_CLASSIC
		ls.stage = 2
		return
	default:
		err = asm.parseIdentifier(ls, lexem)
	}
	if err != nil {
		return
	}

	ls.stage++

	return
}

// parseIdentifier handles a named lexem.
func (asm *Assembler) parseIdentifier(ls *lineState, lexem string) (err error) {
	id := asm.ident.Lookup(lexem, ls.dialect)
	if id == nil {
		return ls.argument("symbol", lexem, ls.immediate(), 0, lexem)
	}

	switch id.Kind {
	case KIND_SYMBOL:
		err = ls.argument("symbol", lexem, ls.immediate(), id.Value, "")
	case KIND_REGISTER:
		err = ls.argument("register", lexem, MakeOperand(CodeReg(id.Value), ls.indirect), 0, "")
	case KIND_COMMAND:
		err = ls.command(lexem, CodeOp(id.Value))
	case KIND_BRANCH:
		if ls.stage != 0 {
			err = ErrTokenPlace{Kind: "branch", Lexem: lexem}
			return
		}
		ls.setOp(OP_CADD)
		ls.cond = CodeCond(id.Value)
		ls.hasCond = true
		ls.field[SLOT_R] = field{set: true, operand: MakeOperand(REG_PC, false)}
		ls.field[SLOT_Y] = field{set: true, operand: MakeOperand(REG_PC, false)}
		ls.dialect = DIALECT_CLASSIC
		ls.stage = 2
	}

	return
}

// command sets the opcode of the line, rewritten by the new dialect
// assignment operator if needed.
func (ls *lineState) command(lexem string, op CodeOp) (err error) {
	if !commandStage(ls.dialect, ls.stage) {
		err = ErrTokenPlace{Kind: "command", Lexem: lexem}
		return
	}

	switch ls.assign {
	case ASSIGN_INPLACE:
		switch op {
		case OP_ADD:
			op = OP_ADDI
		case OP_RRC:
			op = OP_RRCI
		default:
			err = fmt.Errorf("%w: '<=' with '%v'", ErrOperatorInvalid, lexem)
			return
		}
	case ASSIGN_MOVE:
		switch op {
		case OP_ADD:
			op = OP_ADDIS
		case OP_SUB:
			op = OP_ADDIS
			ls.invertX = true
		default:
			err = fmt.Errorf("%w: '<-' with '%v'", ErrOperatorInvalid, lexem)
			return
		}
	}

	ls.setOp(op)

	return
}

// emitInstruction emits the words of a parsed instruction line.
func (asm *Assembler) emitInstruction(ls *lineState) (err error) {
	r, y, x := &ls.field[SLOT_R], &ls.field[SLOT_Y], &ls.field[SLOT_X]

	switch {
	case !ls.hasOp:
		err = ErrOpcodeMissing
	case !r.set:
		err = ErrResultMissing
	case !y.set:
		err = ErrYMissing
	}
	if err != nil {
		return
	}

	if !x.set {
		*x = field{set: true, operand: IMMED}
	}

	if ls.op.Inplace() {
		switch {
		case len(x.forward) > 0:
			err = fmt.Errorf("%w: '%v'", ErrInplaceForward, x.forward)
			return
		case x.operand != IMMED:
			err = ErrInplaceRegister
			return
		}

		value := x.value
		if ls.invertX {
			value = -value
		}
		if value < -8 || value > 7 {
			err = fmt.Errorf("%w: %d", ErrInplaceRange, value)
			return
		}

		x.operand = Operand(value & 0xf)
	}

	if ls.call {
		// Push the address following the jump.
		size := 1
		if y.operand.Mode().Extra() {
			size++
		}
		asm.emit(Encode(OP_ADDIS, IND_SP, MakeOperand(REG_PC, false), Operand(size)))
	}

	asm.emit(Encode(ls.op, r.operand, y.operand, x.operand))

	// Trailing words follow the machine fetch order.
	if !ls.op.Inplace() && x.operand.Mode().Extra() {
		if ls.hasCond {
			err = asm.emitBranch(ls.cond, x)
			if err != nil {
				return
			}
		} else {
			asm.emitField(x)
		}
	}
	if y.operand.Mode().Extra() {
		asm.emitField(y)
	}
	if r.operand.Mode().Extra() {
		asm.emitField(r)
	}

	return
}

// emitField emits the trailing word of an operand.
func (asm *Assembler) emitField(fl *field) {
	if len(fl.forward) > 0 {
		asm.forwards = append(asm.forwards, Forward{
			Name:  fl.forward,
			Addr:  asm.org,
			Line:  asm.lineIndex,
			Patch: PatchWord{},
		})
	}

	asm.emit(uint16(fl.value))
}

// emitBranch emits the condition and offset word of a branch.
func (asm *Assembler) emitBranch(cond CodeCond, fl *field) (err error) {
	word := uint16(cond) << 13

	if len(fl.forward) > 0 {
		asm.forwards = append(asm.forwards, Forward{
			Name:  fl.forward,
			Addr:  asm.org,
			Line:  asm.lineIndex,
			Patch: PatchBranch{},
		})
		asm.emit(word)
		return
	}

	offset, err := branchOffset(uint16(fl.value), asm.org)
	if err != nil {
		return
	}

	asm.emit(word | offset)

	return
}

// parseEnd resolves the forward references.
func (asm *Assembler) parseEnd() (err error) {
	for _, fwd := range asm.forwards {
		id := asm.ident.Lookup(fwd.Name, DIALECT_CLASSIC)
		if id == nil {
			return asm.syntaxError(fwd.Line, ErrLabelMissing(fwd.Name))
		}
		if id.Kind != KIND_SYMBOL {
			return asm.syntaxError(fwd.Line, fmt.Errorf("%w '%v'", ErrSymbolKind, fwd.Name))
		}

		mem := &asm.Machine.Memory[fwd.Addr]
		var word uint16
		word, err = fwd.Patch.Apply(*mem, fwd.Addr, uint16(id.Value))
		if err != nil {
			return asm.syntaxError(fwd.Line, err)
		}
		*mem = word
	}

	asm.forwards = asm.forwards[:0]

	if asm.Verbose {
		for name, value := range asm.Symbols() {
			log.Printf("%v = $%04x", name, uint16(value))
		}
	}

	return
}
