package deepkit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

func assertSameType(t *testing.T, expected, actual deepkit.Type) {
	t.Helper()
	assert.True(t, deepkit.IsSameType(expected, actual), "expected %#v, got %#v", expected, actual)
}

func TestIndexAccessArray(t *testing.T) {
	array := &deepkit.TypeArray{Type: deepkit.TypeBoolean}
	assertSameType(t, deepkit.TypeBoolean, deepkit.IndexAccess(array, deepkit.NewLiteral(0)))
	assertSameType(t, deepkit.TypeBoolean, deepkit.IndexAccess(array, deepkit.TypeNumber))
	assertSameType(t, deepkit.TypeNever, deepkit.IndexAccess(array, deepkit.NewLiteral("length")))
}

func TestIndexAccessTuple(t *testing.T) {
	pair := tuple(deepkit.TypeString, deepkit.TypeNumber)
	assertSameType(t, deepkit.TypeNumber, deepkit.IndexAccess(pair, deepkit.NewLiteral(1)))
	assertSameType(t, deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNumber), deepkit.IndexAccess(pair, deepkit.TypeNumber))
	assertSameType(t, deepkit.TypeNever, deepkit.IndexAccess(pair, deepkit.NewLiteral(2)))
	assertSameType(t, deepkit.TypeNever, deepkit.IndexAccess(pair, deepkit.NewLiteral(0.5)))

	rest := tuple(deepkit.TypeString, &deepkit.TypeRest{Type: deepkit.TypeBoolean})
	assertSameType(t, deepkit.TypeBoolean, deepkit.IndexAccess(rest, deepkit.NewLiteral(1)))
	assertSameType(t, deepkit.TypeBoolean, deepkit.IndexAccess(rest, deepkit.NewLiteral(9)))
	assertSameType(t, deepkit.NewUnion(deepkit.TypeString, deepkit.TypeBoolean), deepkit.IndexAccess(rest, deepkit.TypeNumber))
}

func TestIndexAccessObjectLiteral(t *testing.T) {
	obj := objectLiteral(propSig("a", deepkit.TypeString), propSig("b", deepkit.TypeNumber))
	assertSameType(t, deepkit.TypeString, deepkit.IndexAccess(obj, deepkit.NewLiteral("a")))
	assertSameType(t, deepkit.TypeNever, deepkit.IndexAccess(objectLiteral(propSig("a", deepkit.TypeString)), deepkit.NewLiteral("b")))
	assertSameType(t,
		deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNumber),
		deepkit.IndexAccess(obj, deepkit.NewUnion(deepkit.NewLiteral("a"), deepkit.NewLiteral("b"))))
	// Missing keys of a union index drop out.
	assertSameType(t, deepkit.TypeString,
		deepkit.IndexAccess(obj, deepkit.NewUnion(deepkit.NewLiteral("a"), deepkit.NewLiteral("z"))))
}

func TestIndexAccessIndexSignature(t *testing.T) {
	dict := objectLiteral(
		propSig("fixed", deepkit.TypeBoolean),
		&deepkit.TypeIndexSignature{Index: deepkit.TypeString, Type: deepkit.TypeNumber},
	)
	assertSameType(t, deepkit.TypeBoolean, deepkit.IndexAccess(dict, deepkit.NewLiteral("fixed")))
	assertSameType(t, deepkit.TypeNumber, deepkit.IndexAccess(dict, deepkit.NewLiteral("other")))
	assertSameType(t, deepkit.TypeNumber, deepkit.IndexAccess(dict, deepkit.NewLiteral(3)))
	assertSameType(t, deepkit.TypeNumber, deepkit.IndexAccess(dict, deepkit.TypeString))

	numeric := objectLiteral(&deepkit.TypeIndexSignature{Index: deepkit.TypeNumber, Type: deepkit.TypeString})
	assertSameType(t, deepkit.TypeNever, deepkit.IndexAccess(numeric, deepkit.NewLiteral("a")))
	assertSameType(t, deepkit.TypeString, deepkit.IndexAccess(numeric, deepkit.NewLiteral(0)))
}

func TestIndexAccessMethod(t *testing.T) {
	method := &deepkit.TypeMethod{Name: "run", Parameters: []*deepkit.TypeParameter{}, Return: deepkit.TypeVoid}
	class := &deepkit.TypeClass{Class: deepkit.NewClass("Job"), Types: []deepkit.Type{method}}
	assert.Same(t, method, deepkit.IndexAccess(class, deepkit.NewLiteral("run")))
}

func TestIndexAccessOther(t *testing.T) {
	assertSameType(t, deepkit.TypeNever, deepkit.IndexAccess(deepkit.TypeString, deepkit.NewLiteral(0)))
	assertSameType(t, deepkit.TypeAny, deepkit.IndexAccess(deepkit.TypeAny, deepkit.NewLiteral("x")))
}

func TestKeyof(t *testing.T) {
	obj := objectLiteral(propSig("a", deepkit.TypeString), propSig("b", deepkit.TypeNumber))
	assertSameType(t, deepkit.NewUnion(deepkit.NewLiteral("a"), deepkit.NewLiteral("b")), deepkit.Keyof(obj))

	class := &deepkit.TypeClass{Class: deepkit.NewClass("C"), Types: []deepkit.Type{
		&deepkit.TypeProperty{Name: "open", Type: deepkit.TypeString},
		&deepkit.TypeProperty{Name: "hidden", Visibility: deepkit.Private, Type: deepkit.TypeString},
		&deepkit.TypeMethod{Name: "constructor", Parameters: []*deepkit.TypeParameter{}, Return: deepkit.TypeAny},
	}}
	assertSameType(t, deepkit.NewLiteral("open"), deepkit.Keyof(class))

	dict := objectLiteral(&deepkit.TypeIndexSignature{Index: deepkit.TypeString, Type: deepkit.TypeAny})
	assertSameType(t, deepkit.TypeString, deepkit.Keyof(dict))

	assertSameType(t, deepkit.NewUnion(deepkit.TypeString, deepkit.TypeNumber, deepkit.TypeSymbol), deepkit.Keyof(deepkit.TypeAny))
	assertSameType(t, deepkit.TypeNumber, deepkit.Keyof(&deepkit.TypeArray{Type: deepkit.TypeString}))

	union := deepkit.NewUnion(obj, objectLiteral(propSig("b", deepkit.TypeString), propSig("c", deepkit.TypeString)))
	assertSameType(t, deepkit.NewLiteral("b"), deepkit.Keyof(union))
}

func TestFindMember(t *testing.T) {
	sym := deepkit.NewSymbol("id")
	a := propSig("a", deepkit.TypeString)
	s := propSig(sym, deepkit.TypeNumber)
	members := []deepkit.Type{a, s}
	assert.Same(t, a, deepkit.FindMember("a", members))
	assert.Same(t, s, deepkit.FindMember(sym, members))
	assert.Nil(t, deepkit.FindMember(deepkit.NewSymbol("id"), members))
	assert.Nil(t, deepkit.FindMember("b", members))
}
