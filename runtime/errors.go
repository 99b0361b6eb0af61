package runtime

import (
	"errors"
	"fmt"

	"github.com/wilcoxmd/deepkit-framework/bytecode"
)

var (
	ErrMalformedProgram       = bytecode.ErrMalformed
	ErrUnresolvedType         = errors.New("unresolved type")
	ErrRecursionLimitExceeded = errors.New("recursion limit exceeded")
)

// MalformedProgramError reports a program that violates the machine's
// validity rules.  It always indicates a defect in the program's producer.
type MalformedProgramError struct {
	Program string
	Addr    int
	Op      bytecode.Op
	Msg     string
}

func (e *MalformedProgramError) Error() string {
	return fmt.Sprintf("%s: %q at %d (%s): %s", ErrMalformedProgram, e.Program, e.Addr, e.Op, e.Msg)
}

func (e *MalformedProgramError) Unwrap() error {
	return ErrMalformedProgram
}

// UnresolvedTypeError reports a reference to a class or program that
// could not be found.
type UnresolvedTypeError struct {
	Name string
	Msg  string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrUnresolvedType, e.Name, e.Msg)
}

func (e *UnresolvedTypeError) Unwrap() error {
	return ErrUnresolvedType
}

type RecursionLimitError struct {
	Program string
	Limit   int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("%s: %q exceeds depth %d", ErrRecursionLimitExceeded, e.Program, e.Limit)
}

func (e *RecursionLimitError) Unwrap() error {
	return ErrRecursionLimitExceeded
}

func fromValidateError(p *bytecode.Program, err error) error {
	var verr *bytecode.Error
	if errors.As(err, &verr) {
		var op bytecode.Op
		if verr.Addr >= 0 && verr.Addr < len(p.Code) {
			op = bytecode.Op(p.Code[verr.Addr])
		}
		return &MalformedProgramError{Program: p.Name, Addr: verr.Addr, Op: op, Msg: verr.Msg}
	}
	return err
}
