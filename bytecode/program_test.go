package bytecode_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	deepkit "github.com/wilcoxmd/deepkit-framework"
	"github.com/wilcoxmd/deepkit-framework/bytecode"
)

func TestOpNames(t *testing.T) {
	for k, name := range bytecode.OpNames() {
		op, ok := bytecode.LookupOp(name)
		require.True(t, ok, name)
		assert.Equal(t, bytecode.Op(k), op)
		assert.Equal(t, name, op.String())
	}
	_, ok := bytecode.LookupOp("nope")
	assert.False(t, ok)
	assert.Equal(t, 2, bytecode.MappedType.Arity())
	assert.Equal(t, 1, bytecode.Literal.Arity())
	assert.Equal(t, 0, bytecode.Union.Arity())
}

func TestDecode(t *testing.T) {
	insns, err := bytecode.Decode([]int{int(bytecode.String), int(bytecode.Loads), 1, 2, int(bytecode.Array)})
	require.NoError(t, err)
	require.Len(t, insns, 3)
	assert.Equal(t, bytecode.Instruction{Addr: 1, Op: bytecode.Loads, Operands: []int{1, 2}}, insns[1])
	assert.Equal(t, 4, insns[2].Addr)

	_, err = bytecode.Decode([]int{int(bytecode.Loads), 1})
	assert.ErrorIs(t, err, bytecode.ErrMalformed)
	_, err = bytecode.Decode([]int{999})
	assert.ErrorIs(t, err, bytecode.ErrMalformed)
	_, err = bytecode.Decode([]int{256 + int(bytecode.String)})
	assert.ErrorIs(t, err, bytecode.ErrMalformed)
}

func TestValidate(t *testing.T) {
	class := deepkit.NewClass("C")
	cases := []struct {
		name     string
		code     []int
		literals []any
		err      string
	}{
		{
			name: "jump-to-operand",
			code: []int{int(bytecode.Jump), 1, int(bytecode.String)},
			err:  `malformed program: program "p" at 0: jump: bad target address 1`,
		},
		{
			name: "jump-out-of-range",
			code: []int{int(bytecode.Jump), 9},
			err:  `malformed program: program "p" at 0: jump: bad target address 9`,
		},
		{
			name: "call-to-end",
			code: []int{int(bytecode.Call), 3, 0},
			err:  `malformed program: program "p" at 0: call: bad target address 3`,
		},
		{
			name: "literal-range",
			code: []int{int(bytecode.Literal), 2},
			err:  `malformed program: program "p" at 0: literal: literal index 2 out of range`,
		},
		{
			name:     "class-reference-kind",
			code:     []int{int(bytecode.ClassReference), 0, 0},
			literals: []any{"C"},
			err:      `malformed program: program "p" at 0: classReference: literal 0 is string, not a class`,
		},
		{
			name:     "inline-kind",
			code:     []int{int(bytecode.Inline), 0},
			literals: []any{class},
			err:      `malformed program: program "p" at 0: inline: literal 0 is *deepkit.Class, not a program`,
		},
		{
			name: "truncated",
			code: []int{int(bytecode.String), int(bytecode.JumpCondition), 0},
			err:  `malformed program: program "p" at 1: jumpCondition: truncated operands`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := bytecode.Validate(bytecode.New("p", c.code, c.literals...))
			assert.EqualError(t, err, c.err)
			var verr *bytecode.Error
			assert.True(t, errors.As(err, &verr))
		})
	}

	ok := bytecode.New("p",
		[]int{
			int(bytecode.ClassReference), 0, 0,
			int(bytecode.JumpCondition), 6, 8,
			int(bytecode.Jump), 8,
		},
		class)
	assert.NoError(t, bytecode.Validate(ok))
}

func TestNewAssignsIdentity(t *testing.T) {
	a := bytecode.New("a", nil)
	b := bytecode.New("a", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "a", a.String())
}
