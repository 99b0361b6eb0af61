package bytecode

import (
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

// Module is the result of assembling a source file: one program per .decl
// directive, in source order.
type Module struct {
	Programs []*Program
	// Classes holds the classes created by .decl and .class directives.
	Classes map[string]*deepkit.Class
}

// Lookup returns the program declared with name.
func (m *Module) Lookup(name string) *Program {
	for _, p := range m.Programs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Class returns the class named name, which may be built in.
func (m *Module) Class(name string) *deepkit.Class {
	if c := deepkit.LookupBuiltinClass(name); c != nil {
		return c
	}
	return m.Classes[name]
}

// SyntaxError is an assembly error.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Assemble parses the text form of one or more programs:
//
//	# Box<T> = {value: T}
//	.decl Box
//	.literal "T"
//	.literal "value"
//	    template 0
//	    frame
//	    loads 1 0
//	    propertySignature 1
//	    objectLiteral
//
// A .decl directive starts a program; adding "class" binds a new class of
// the same name to it.  The .literal, .symbol, .class, and .program
// directives append an entry to the program's literal table in order, so
// the n-th directive is literal index n.  A line of the form "name:"
// defines a label usable as an address operand.  Programs named by
// .program may be declared later in the source.
func Assemble(src string) (*Module, error) {
	a := &assembler{
		module: &Module{Classes: make(map[string]*deepkit.Class)},
	}
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		a.line++
		if err := a.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := a.finishDecl(); err != nil {
		return nil, err
	}
	if err := a.link(); err != nil {
		return nil, err
	}
	return a.module, nil
}

// MustAssemble is like Assemble but panics on error.
func MustAssemble(src string) *Module {
	m, err := Assemble(src)
	if err != nil {
		panic(err)
	}
	return m
}

type fixup struct {
	line int
	pos  int
	name string
}

type programRef struct {
	line int
	prog *Program
	pos  int
	name string
}

type assembler struct {
	module *Module
	line   int
	// State of the current declaration.
	prog   *Program
	labels map[string]int
	fixups []fixup
	// Program references are linked once all declarations are known.
	refs []programRef
}

func (a *assembler) errorf(format string, args ...any) error {
	return &SyntaxError{Line: a.line, Msg: fmt.Sprintf(format, args...)}
}

func (a *assembler) parseLine(line string) error {
	line = stripComment(line)
	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, ".") {
		return a.parseDirective(line)
	}
	if a.prog == nil {
		return a.errorf("instruction outside of .decl")
	}
	if label, ok := strings.CutSuffix(line, ":"); ok && isIdent(label) {
		if _, ok := a.labels[label]; ok {
			return a.errorf("label %q redefined", label)
		}
		a.labels[label] = len(a.prog.Code)
		return nil
	}
	return a.parseInstruction(line)
}

func stripComment(line string) string {
	inQuote := byte(0)
	for k := 0; k < len(line); k++ {
		switch c := line[k]; {
		case inQuote != 0:
			if c == '\\' {
				k++
			} else if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
		case c == '#':
			return strings.TrimSpace(line[:k])
		}
	}
	return strings.TrimSpace(line)
}

func (a *assembler) parseDirective(line string) error {
	directive, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	if directive == ".decl" {
		return a.parseDecl(arg)
	}
	if a.prog == nil {
		return a.errorf("%s outside of .decl", directive)
	}
	switch directive {
	case ".literal":
		v, err := ParseLiteral(arg)
		if err != nil {
			return a.errorf("%s", err)
		}
		a.prog.Literals = append(a.prog.Literals, v)
	case ".symbol":
		s, err := unquote(arg)
		if err != nil {
			return a.errorf(".symbol: %s", err)
		}
		a.prog.Literals = append(a.prog.Literals, deepkit.NewSymbol(s))
	case ".class":
		if !isIdent(arg) {
			return a.errorf(".class: bad class name %q", arg)
		}
		a.prog.Literals = append(a.prog.Literals, a.class(arg))
	case ".program":
		if !isIdent(arg) {
			return a.errorf(".program: bad program name %q", arg)
		}
		a.refs = append(a.refs, programRef{line: a.line, prog: a.prog, pos: len(a.prog.Literals), name: arg})
		a.prog.Literals = append(a.prog.Literals, nil)
	default:
		return a.errorf("unknown directive %s", directive)
	}
	return nil
}

func (a *assembler) parseDecl(arg string) error {
	if err := a.finishDecl(); err != nil {
		return err
	}
	fields := strings.Fields(arg)
	if len(fields) == 0 || len(fields) > 2 || !isIdent(fields[0]) {
		return a.errorf(".decl: expected name [class]")
	}
	name := fields[0]
	if a.module.Lookup(name) != nil {
		return a.errorf(".decl: %s redeclared", name)
	}
	p := New(name, nil)
	if len(fields) == 2 {
		if fields[1] != "class" {
			return a.errorf(".decl: unexpected %q", fields[1])
		}
		p.Class = a.class(name)
	}
	a.module.Programs = append(a.module.Programs, p)
	a.prog = p
	a.labels = make(map[string]int)
	a.fixups = nil
	return nil
}

// class returns the class named name, creating it on first use so a class
// may be referenced before its declaration.
func (a *assembler) class(name string) *deepkit.Class {
	if c := a.module.Class(name); c != nil {
		return c
	}
	c := deepkit.NewClass(name)
	a.module.Classes[name] = c
	return c
}

func (a *assembler) parseInstruction(line string) error {
	fields := strings.Fields(line)
	op, ok := LookupOp(fields[0])
	if !ok {
		if s := suggestOp(fields[0]); s != "" {
			return a.errorf("unknown opcode %q (did you mean %q?)", fields[0], s)
		}
		return a.errorf("unknown opcode %q", fields[0])
	}
	operands := fields[1:]
	if len(operands) != op.Arity() {
		return a.errorf("%s: expected %d operands, got %d", op, op.Arity(), len(operands))
	}
	a.prog.Code = append(a.prog.Code, int(op))
	for _, s := range operands {
		n, err := a.parseOperand(op, s)
		if err != nil {
			return err
		}
		a.prog.Code = append(a.prog.Code, n)
	}
	return nil
}

func (a *assembler) parseOperand(op Op, s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if op == NumberBrand {
		if b, ok := deepkit.LookupBrand(s); ok {
			return int(b), nil
		}
		return 0, a.errorf("numberBrand: unknown brand %q", s)
	}
	if !isIdent(s) {
		return 0, a.errorf("%s: bad operand %q", op, s)
	}
	a.fixups = append(a.fixups, fixup{line: a.line, pos: len(a.prog.Code), name: s})
	return -1, nil
}

func (a *assembler) finishDecl() error {
	if a.prog == nil {
		return nil
	}
	for _, f := range a.fixups {
		addr, ok := a.labels[f.name]
		if !ok {
			return &SyntaxError{Line: f.line, Msg: fmt.Sprintf("undefined label %q", f.name)}
		}
		a.prog.Code[f.pos] = addr
	}
	a.prog = nil
	return nil
}

func (a *assembler) link() error {
	for _, ref := range a.refs {
		p := a.module.Lookup(ref.name)
		if p == nil {
			return &SyntaxError{Line: ref.line, Msg: fmt.Sprintf(".program: undeclared program %q", ref.name)}
		}
		ref.prog.Literals[ref.pos] = p
	}
	return nil
}

func suggestOp(name string) string {
	best, dist := "", 3
	for _, s := range opNames {
		if d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(s)); d < dist {
			best, dist = s, d
		}
	}
	return best
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for k, c := range s {
		switch {
		case c == '_' || c == '$':
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && k > 0:
		default:
			return false
		}
	}
	return true
}

func unquote(s string) (string, error) {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = `"` + strings.ReplaceAll(strings.ReplaceAll(s[1:len(s)-1], `\'`, `'`), `"`, `\"`) + `"`
	}
	return strconv.Unquote(s)
}

var errBadLiteral = errors.New("bad literal")

// ParseLiteral parses the text form of a literal table value: a quoted
// string, a number, true or false, a bigint with an n suffix, a regular
// expression /source/flags, or undefined (nil).
func ParseLiteral(s string) (any, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("%w: empty", errBadLiteral)
	case s == "undefined":
		return nil, nil
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case s[0] == '"' || s[0] == '\'':
		v, err := unquote(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errBadLiteral, s)
		}
		return v, nil
	case s[0] == '/':
		return parseRegexp(s)
	case strings.HasSuffix(s, "n"):
		i, ok := new(big.Int).SetString(strings.TrimSuffix(s, "n"), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errBadLiteral, s)
		}
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errBadLiteral, s)
	}
	return f, nil
}

func parseRegexp(s string) (*regexp.Regexp, error) {
	end := strings.LastIndexByte(s, '/')
	if end == 0 {
		return nil, fmt.Errorf("%w: unterminated regexp %s", errBadLiteral, s)
	}
	src, flags := s[1:end], s[end+1:]
	if flags != "" {
		for _, f := range flags {
			if !strings.ContainsRune("imsU", f) {
				return nil, fmt.Errorf("%w: regexp flag %q", errBadLiteral, f)
			}
		}
		src = "(?" + flags + ")" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errBadLiteral, err)
	}
	return re, nil
}
