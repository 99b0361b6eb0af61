package deepkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

func TestIsExtendablePrimitives(t *testing.T) {
	assert.True(t, deepkit.IsExtendable(deepkit.NewLiteral("a"), deepkit.TypeString))
	assert.True(t, deepkit.IsExtendable(deepkit.NewLiteral(1), deepkit.TypeNumber))
	assert.False(t, deepkit.IsExtendable(deepkit.NewLiteral(1), deepkit.TypeString))
	assert.False(t, deepkit.IsExtendable(deepkit.TypeString, deepkit.NewLiteral("a")))
	assert.True(t, deepkit.IsExtendable(deepkit.TypeNever, deepkit.TypeString))
	assert.True(t, deepkit.IsExtendable(deepkit.TypeString, deepkit.TypeAny))
	assert.True(t, deepkit.IsExtendable(deepkit.TypeUndefined, deepkit.TypeVoid))
	assert.True(t, deepkit.IsExtendable(deepkit.NewNumber(deepkit.BrandInt8), deepkit.TypeNumber))
	assert.False(t, deepkit.IsExtendable(deepkit.TypeNumber, deepkit.NewNumber(deepkit.BrandInt8)))
}

func TestIsExtendableUnions(t *testing.T) {
	stringOrNumber := deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNumber)
	assert.True(t, deepkit.IsExtendable(deepkit.TypeString, stringOrNumber))
	assert.False(t, deepkit.IsExtendable(stringOrNumber, deepkit.TypeString))
	assert.True(t, deepkit.IsExtendable(deepkit.NewUnion(deepkit.NewLiteral("a"), deepkit.NewLiteral(1)), stringOrNumber))
}

func TestIsExtendableStructural(t *testing.T) {
	wide := objectLiteral(propSig("a", deepkit.TypeString), propSig("b", deepkit.TypeNumber))
	narrow := objectLiteral(propSig("a", deepkit.TypeString))
	assert.True(t, deepkit.IsExtendable(wide, narrow))
	assert.False(t, deepkit.IsExtendable(narrow, wide))

	optional := objectLiteral(
		propSig("a", deepkit.TypeString),
		&deepkit.TypePropertySignature{Name: "c", Optional: true, Type: deepkit.TypeBoolean},
	)
	assert.True(t, deepkit.IsExtendable(narrow, optional))

	class := &deepkit.TypeClass{Class: deepkit.NewClass("A"), Types: []deepkit.Type{
		&deepkit.TypeProperty{Name: "a", Type: deepkit.NewLiteral("x")},
	}}
	assert.True(t, deepkit.IsExtendable(class, narrow))
	assert.False(t, deepkit.IsExtendable(narrow, deepkit.NewBuiltin(deepkit.ClassDate)))

	assert.True(t, deepkit.IsExtendable(tuple(deepkit.TypeString, deepkit.TypeString), &deepkit.TypeArray{Type: deepkit.TypeString}))
	assert.False(t, deepkit.IsExtendable(tuple(deepkit.TypeString), tuple(deepkit.TypeString, deepkit.TypeNumber)))
}

func TestIsExtendableFunctions(t *testing.T) {
	fn := func(param, ret deepkit.Type) *deepkit.TypeFunction {
		return &deepkit.TypeFunction{
			Parameters: []*deepkit.TypeParameter{{Name: "x", Type: param}},
			Return:     ret,
		}
	}
	// Parameters are contravariant.
	assert.True(t, deepkit.IsExtendable(fn(deepkit.TypeString, deepkit.NewLiteral(1)), fn(deepkit.NewLiteral("a"), deepkit.TypeNumber)))
	assert.False(t, deepkit.IsExtendable(fn(deepkit.NewLiteral("a"), deepkit.TypeNumber), fn(deepkit.TypeString, deepkit.TypeNumber)))
	assert.True(t, deepkit.IsExtendable(fn(deepkit.TypeString, deepkit.TypeNumber), fn(deepkit.TypeString, deepkit.TypeVoid)))
}

func TestIsExtendableBindsInfer(t *testing.T) {
	var bound deepkit.Type
	infer := deepkit.NewTypeInfer(func(typ deepkit.Type) { bound = typ })
	ok := deepkit.IsExtendable(
		&deepkit.TypeArray{Type: deepkit.TypeBoolean},
		&deepkit.TypeArray{Type: infer},
	)
	assert.True(t, ok)
	assert.Same(t, deepkit.TypeBoolean, bound)

	bound = nil
	promise := &deepkit.TypePromise{Type: deepkit.TypeString}
	assert.False(t, deepkit.IsExtendable(promise, &deepkit.TypeArray{Type: infer}))
	assert.Nil(t, bound)
}
