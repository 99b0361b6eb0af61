package deepkit_test

import (
	"math/big"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

func objectLiteral(members ...deepkit.Type) *deepkit.TypeObjectLiteral {
	return &deepkit.TypeObjectLiteral{Types: members}
}

func propSig(name any, typ deepkit.Type) *deepkit.TypePropertySignature {
	return &deepkit.TypePropertySignature{Name: name, Type: typ}
}

func tuple(types ...deepkit.Type) *deepkit.TypeTuple {
	t := &deepkit.TypeTuple{}
	for _, typ := range types {
		t.Types = append(t.Types, &deepkit.TypeTupleMember{Type: typ})
	}
	return t
}

func sampleTypes() []deepkit.Type {
	node := &deepkit.TypeClass{Class: deepkit.NewClass("Node")}
	node.Types = []deepkit.Type{
		&deepkit.TypeProperty{Name: "next", Optional: true, Type: node},
	}
	return []deepkit.Type{
		deepkit.TypeNever,
		deepkit.TypeAny,
		deepkit.TypeString,
		deepkit.TypeNumber,
		deepkit.NewNumber(deepkit.BrandInt32),
		deepkit.TypeBigInt,
		deepkit.TypeNull,
		deepkit.TypeUndefined,
		deepkit.NewLiteral(42),
		deepkit.NewLiteral("a"),
		deepkit.NewLiteral(big.NewInt(7)),
		deepkit.NewLiteral(regexp.MustCompile("^a+$")),
		&deepkit.TypeArray{Type: deepkit.TypeString},
		tuple(deepkit.TypeString, deepkit.TypeNumber),
		deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNumber),
		objectLiteral(propSig("a", deepkit.TypeString)),
		&deepkit.TypeFunction{
			Parameters: []*deepkit.TypeParameter{{Name: "x", Type: deepkit.TypeNumber}},
			Return:     deepkit.TypeVoid,
		},
		deepkit.NewSetType(deepkit.TypeString),
		node,
	}
}

func TestIsSameTypeReflexiveAndSymmetric(t *testing.T) {
	types := sampleTypes()
	for _, a := range types {
		assert.True(t, deepkit.IsSameType(a, a), "%s", a.Kind())
		for _, b := range types {
			assert.Equal(t, deepkit.IsSameType(a, b), deepkit.IsSameType(b, a), "%s vs %s", a.Kind(), b.Kind())
		}
	}
}

func TestIsSameTypeStructural(t *testing.T) {
	assert.True(t, deepkit.IsSameType(deepkit.NewLiteral(1), deepkit.NewLiteral(1.0)))
	assert.True(t, deepkit.IsSameType(deepkit.NewLiteral(big.NewInt(5)), deepkit.NewLiteral(big.NewInt(5))))
	assert.False(t, deepkit.IsSameType(deepkit.NewLiteral(1), deepkit.NewLiteral("1")))
	assert.False(t, deepkit.IsSameType(deepkit.TypeNumber, deepkit.NewNumber(deepkit.BrandInteger)))

	sym := deepkit.NewSymbol("s")
	assert.True(t, deepkit.IsSameType(deepkit.NewLiteral(sym), deepkit.NewLiteral(sym)))
	assert.False(t, deepkit.IsSameType(deepkit.NewLiteral(sym), deepkit.NewLiteral(deepkit.NewSymbol("s"))))

	// Unions ignore order; tuples do not.
	assert.True(t, deepkit.IsSameType(
		deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNumber),
		deepkit.NewUnion(deepkit.TypeNumber, deepkit.TypeString)))
	assert.False(t, deepkit.IsSameType(
		tuple(deepkit.TypeString, deepkit.TypeNumber),
		tuple(deepkit.TypeNumber, deepkit.TypeString)))

	assert.True(t, deepkit.IsSameType(
		objectLiteral(propSig("a", deepkit.TypeString)),
		objectLiteral(propSig("a", deepkit.TypeString))))
	assert.False(t, deepkit.IsSameType(
		objectLiteral(propSig("a", deepkit.TypeString)),
		objectLiteral(&deepkit.TypePropertySignature{Name: "a", Optional: true, Type: deepkit.TypeString})))
	assert.False(t, deepkit.IsSameType(
		objectLiteral(propSig("a", deepkit.TypeString), propSig("b", deepkit.TypeNumber)),
		objectLiteral(propSig("b", deepkit.TypeNumber), propSig("a", deepkit.TypeString))))
}

func TestIsSameTypeClassIdentity(t *testing.T) {
	a := &deepkit.TypeClass{Class: deepkit.NewClass("A"), Types: []deepkit.Type{}}
	b := &deepkit.TypeClass{Class: deepkit.NewClass("A"), Types: []deepkit.Type{}}
	assert.False(t, deepkit.IsSameType(a, b))
	assert.True(t, deepkit.IsSameType(a, &deepkit.TypeClass{Class: a.Class, Types: []deepkit.Type{}}))
	assert.False(t, deepkit.IsSameType(
		deepkit.NewSetType(deepkit.TypeString),
		deepkit.NewSetType(deepkit.TypeNumber)))
}

func TestIsSameTypeCycles(t *testing.T) {
	class := deepkit.NewClass("Node")
	newNode := func() *deepkit.TypeClass {
		node := &deepkit.TypeClass{Class: class}
		node.Types = []deepkit.Type{&deepkit.TypeProperty{Name: "next", Type: node}}
		return node
	}
	assert.True(t, deepkit.IsSameType(newNode(), newNode()))
}

func TestIsTypeIncluded(t *testing.T) {
	types := []deepkit.Type{deepkit.TypeString, deepkit.NewLiteral("a")}
	assert.True(t, deepkit.IsTypeIncluded(types, deepkit.NewLiteral("a")))
	assert.False(t, deepkit.IsTypeIncluded(types, deepkit.NewLiteral("b")))
}
