package bytecode

import (
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

// Program is the emitted form of one reflectable declaration: a flat
// instruction stream plus the table of runtime values it references.
type Program struct {
	// ID is the declaration identity used to key resolution results.
	ID   ksuid.KSUID
	Name string
	// Class is the class declared by the program, if any.  It is the class
	// built by the class instruction.
	Class *deepkit.Class
	// Code holds each opcode followed by its operands.
	Code []int
	// Literals is indexed by operands that refer to runtime values:
	// literal constants, member names, *deepkit.Class, *deepkit.Symbol,
	// and *Program.
	Literals []any
}

// New returns a program with a fresh identity.
func New(name string, code []int, literals ...any) *Program {
	return &Program{
		ID:       ksuid.New(),
		Name:     name,
		Code:     code,
		Literals: literals,
	}
}

func (p *Program) String() string {
	return p.Name
}

var ErrMalformed = errors.New("malformed program")

// Error describes a structural defect of a program.
type Error struct {
	Program string
	Addr    int
	Msg     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: program %q at %d: %s", ErrMalformed, e.Program, e.Addr, e.Msg)
}

func (e *Error) Unwrap() error {
	return ErrMalformed
}

// Instruction is a decoded opcode and its operands.
type Instruction struct {
	Addr     int
	Op       Op
	Operands []int
}

// Decode splits code into instructions.  It fails on an unknown opcode or
// an instruction whose operands run past the end of code.
func Decode(code []int) ([]Instruction, error) {
	var insns []Instruction
	for pc := 0; pc < len(code); {
		op := Op(code[pc])
		if code[pc] < 0 || code[pc] >= int(numOps) {
			return nil, &Error{Addr: pc, Msg: fmt.Sprintf("unknown opcode %d", code[pc])}
		}
		n := op.Arity()
		if pc+n >= len(code) && n > 0 {
			return nil, &Error{Addr: pc, Msg: fmt.Sprintf("%s: truncated operands", op)}
		}
		insns = append(insns, Instruction{Addr: pc, Op: op, Operands: code[pc+1 : pc+1+n]})
		pc += 1 + n
	}
	return insns, nil
}

// Validate checks that every instruction is well formed, that every code
// address operand refers to an instruction boundary, and that literal
// table references are in range and of the kind the opcode requires.
func Validate(p *Program) error {
	insns, err := Decode(p.Code)
	if err != nil {
		err.(*Error).Program = p.Name
		return err
	}
	boundary := make(map[int]bool, len(insns))
	for _, insn := range insns {
		boundary[insn.Addr] = true
	}
	for _, insn := range insns {
		for _, k := range addressOperands(insn.Op) {
			a := insn.Operands[k]
			if a == len(p.Code) && (insn.Op == Jump || insn.Op == JumpCondition) {
				// Jumping to the end halts.
				continue
			}
			if !boundary[a] {
				return p.errorf(insn.Addr, "%s: bad target address %d", insn.Op, a)
			}
		}
		k := literalOperand(insn.Op)
		if k < 0 {
			continue
		}
		i := insn.Operands[k]
		if i < 0 || i >= len(p.Literals) {
			return p.errorf(insn.Addr, "%s: literal index %d out of range", insn.Op, i)
		}
		switch insn.Op {
		case ClassReference:
			if _, ok := p.Literals[i].(*deepkit.Class); !ok {
				return p.errorf(insn.Addr, "%s: literal %d is %T, not a class", insn.Op, i, p.Literals[i])
			}
		case Inline, InlineCall:
			if q, ok := p.Literals[i].(*Program); !ok || q == nil {
				return p.errorf(insn.Addr, "%s: literal %d is %T, not a program", insn.Op, i, p.Literals[i])
			}
		}
	}
	return nil
}

func (p *Program) errorf(addr int, format string, args ...any) error {
	return &Error{Program: p.Name, Addr: addr, Msg: fmt.Sprintf(format, args...)}
}
