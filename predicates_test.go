package deepkit_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

func TestWidenLiteral(t *testing.T) {
	assert.Same(t, deepkit.TypeNumber, deepkit.WidenLiteral(deepkit.NewLiteral(42)))
	assert.Same(t, deepkit.TypeString, deepkit.WidenLiteral(deepkit.NewLiteral("a")))
	assert.Same(t, deepkit.TypeBoolean, deepkit.WidenLiteral(deepkit.NewLiteral(true)))
	assert.Same(t, deepkit.TypeBigInt, deepkit.WidenLiteral(deepkit.NewLiteral(big.NewInt(1))))
	assert.Same(t, deepkit.TypeString, deepkit.WidenLiteral(deepkit.TypeString))
	array := &deepkit.TypeArray{Type: deepkit.NewLiteral(1)}
	assert.Same(t, array, deepkit.WidenLiteral(array))
}

func TestIsOptional(t *testing.T) {
	assert.True(t, deepkit.IsOptional(&deepkit.TypePropertySignature{Name: "a", Optional: true, Type: deepkit.TypeString}))
	assert.True(t, deepkit.IsOptional(&deepkit.TypeProperty{
		Name: "a",
		Type: deepkit.NewUnion(deepkit.TypeString, deepkit.TypeUndefined),
	}))
	assert.True(t, deepkit.IsOptional(deepkit.TypeUndefined))
	assert.True(t, deepkit.IsOptional(&deepkit.TypeIndexSignature{Index: deepkit.TypeString, Type: deepkit.TypeUndefined}))
	assert.False(t, deepkit.IsOptional(propSig("a", deepkit.TypeString)))
	assert.False(t, deepkit.IsOptional(deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNull)))
}

func TestIsNullable(t *testing.T) {
	assert.True(t, deepkit.IsNullable(deepkit.TypeNull))
	assert.True(t, deepkit.IsNullable(deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNull)))
	assert.False(t, deepkit.IsNullable(deepkit.TypeUndefined))
	assert.False(t, deepkit.IsNullable(deepkit.TypeString))
}

func TestIsMember(t *testing.T) {
	assert.True(t, deepkit.IsMember(propSig("a", deepkit.TypeString)))
	assert.True(t, deepkit.IsMember(&deepkit.TypeMethod{Name: "m"}))
	assert.False(t, deepkit.IsMember(&deepkit.TypeIndexSignature{Index: deepkit.TypeString, Type: deepkit.TypeAny}))
	assert.False(t, deepkit.IsMember(deepkit.TypeString))
}

func TestNewLiteral(t *testing.T) {
	assert.Equal(t, 3.0, deepkit.NewLiteral(int8(3)).Value)
	assert.Equal(t, 3.0, deepkit.NewLiteral(uint64(3)).Value)
	assert.Equal(t, "x", deepkit.NewLiteral("x").Value)
	assert.Panics(t, func() { deepkit.NewLiteral([]int{1}) })
	assert.False(t, deepkit.IsLiteralValue(nil))
	assert.False(t, deepkit.IsLiteralValue((*big.Int)(nil)))
}

func TestNumberBrand(t *testing.T) {
	b, ok := deepkit.LookupBrand("uint16")
	assert.True(t, ok)
	assert.Equal(t, deepkit.BrandUint16, b)
	assert.True(t, b.IsInteger())
	assert.False(t, b.IsFloat())
	_, ok = deepkit.LookupBrand("")
	assert.False(t, ok)
	assert.Same(t, deepkit.TypeNumber, deepkit.NewNumber(deepkit.BrandNone))
}

func TestBuiltinClasses(t *testing.T) {
	assert.Same(t, deepkit.ClassDate, deepkit.LookupBuiltinClass("Date"))
	assert.Nil(t, deepkit.LookupBuiltinClass("User"))
	assert.True(t, deepkit.IsBuiltinClass(deepkit.ClassMap))
	assert.False(t, deepkit.IsBuiltinClass(deepkit.NewClass("Date")))
	assert.Nil(t, deepkit.NewBuiltin(deepkit.ClassDate).Arguments)
	m := deepkit.NewMapType(deepkit.TypeString, deepkit.TypeNumber)
	assert.Len(t, m.Arguments, 2)
}

func TestEnumValues(t *testing.T) {
	enum := &deepkit.TypeEnum{Members: []deepkit.EnumEntry{
		{Name: "A", Value: 0.0},
		{Name: "B", Value: "b"},
	}}
	assert.Equal(t, []any{0.0, "b"}, enum.Values())
	v, ok := enum.Lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	_, ok = enum.Lookup("C")
	assert.False(t, ok)
}
