package deepkit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

func key(typ deepkit.Type) string {
	return string(deepkit.AppendKey(nil, typ))
}

func TestAppendKeyMatchesIsSameType(t *testing.T) {
	types := sampleTypes()
	for _, a := range types {
		for _, b := range types {
			assert.Equal(t, deepkit.IsSameType(a, b), key(a) == key(b), "%s vs %s", a.Kind(), b.Kind())
		}
	}
}

func TestAppendKeyUnionOrder(t *testing.T) {
	a := deepkit.NewUnion(deepkit.TypeString, deepkit.NewLiteral(1), deepkit.TypeNull)
	b := deepkit.NewUnion(deepkit.TypeNull, deepkit.TypeString, deepkit.NewLiteral(1))
	assert.Equal(t, key(a), key(b))
	assert.NotEqual(t, key(tuple(deepkit.TypeString, deepkit.TypeNull)), key(tuple(deepkit.TypeNull, deepkit.TypeString)))
}

func TestAppendKeyDistinguishesNames(t *testing.T) {
	// Length prefixes keep adjacent names from running together.
	a := objectLiteral(propSig("ab", deepkit.TypeString), propSig("c", deepkit.TypeString))
	b := objectLiteral(propSig("a", deepkit.TypeString), propSig("bc", deepkit.TypeString))
	assert.NotEqual(t, key(a), key(b))
	assert.NotEqual(t, key(deepkit.NewLiteral("1")), key(deepkit.NewLiteral(1)))
}

func TestAppendKeyFloatLiterals(t *testing.T) {
	nan1, nan2 := deepkit.NewLiteral(math.NaN()), deepkit.NewLiteral(math.NaN())
	assert.True(t, deepkit.IsSameType(nan1, nan2))
	assert.Equal(t, key(nan1), key(nan2))
	assert.Same(t, nan1, deepkit.NewUnion(nan1, nan2))

	zero, negZero := deepkit.NewLiteral(0), deepkit.NewLiteral(math.Copysign(0, -1))
	assert.True(t, deepkit.IsSameType(zero, negZero))
	assert.Equal(t, key(zero), key(negZero))

	assert.False(t, deepkit.IsSameType(nan1, zero))
	assert.NotEqual(t, key(nan1), key(zero))
	assert.True(t, deepkit.SameName(math.NaN(), math.NaN()))
}
