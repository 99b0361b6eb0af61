package runtime_test

import (
	"context"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	deepkit "github.com/wilcoxmd/deepkit-framework"
	"github.com/wilcoxmd/deepkit-framework/runtime"
	"github.com/wilcoxmd/deepkit-framework/typefmt"
)

func TestInferScalars(t *testing.T) {
	lit, ok := runtime.Infer(42).(*deepkit.TypeLiteral)
	require.True(t, ok)
	assert.Equal(t, 42.0, lit.Value)

	assert.Equal(t, "'a'", typefmt.String(runtime.Infer("a")))
	assert.Equal(t, "true", typefmt.String(runtime.Infer(true)))
	assert.Equal(t, "3n", typefmt.String(runtime.Infer(big.NewInt(3))))
	assert.Same(t, deepkit.TypeNull, runtime.Infer(nil))
	assert.Same(t, deepkit.TypeNull, runtime.Infer((*int)(nil)))
	assert.Same(t, deepkit.TypeUndefined, runtime.Infer(runtime.Undefined))
	assert.Same(t, deepkit.TypeRegexp, runtime.Infer(regexp.MustCompile("x")))
	assert.Equal(t, "Date", typefmt.String(runtime.Infer(time.Now())))
	assert.Equal(t, "Uint8Array", typefmt.String(runtime.Infer([]byte("abc"))))

	sym := deepkit.NewSymbol("s")
	assert.Same(t, sym, runtime.Infer(sym).(*deepkit.TypeLiteral).Value)
}

func TestInferArrays(t *testing.T) {
	typ := runtime.Infer([]any{1, "a"})
	expected := &deepkit.TypeArray{Type: deepkit.NewUnion(deepkit.TypeNumber, deepkit.TypeString)}
	assert.True(t, deepkit.IsSameType(expected, typ), typefmt.String(typ))

	assert.Equal(t, "number[]", typefmt.String(runtime.Infer([]int{1, 2, 3})))
	assert.Equal(t, "any[]", typefmt.String(runtime.Infer([]string{})))
	assert.Equal(t, "(string | null)[]", typefmt.String(runtime.Infer([2]any{"x", nil})))
}

func TestInferObjects(t *testing.T) {
	typ := runtime.Infer(map[string]any{"a": 1})
	expected := &deepkit.TypeObjectLiteral{Types: []deepkit.Type{
		&deepkit.TypePropertySignature{Name: "a", Type: deepkit.TypeNumber},
	}}
	assert.True(t, deepkit.IsSameType(expected, typ), typefmt.String(typ))

	type embedded struct {
		Inner string `json:"inner"`
	}
	type Base struct {
		ID int
	}
	value := struct {
		Base
		embedded
		Name    string `json:"name,omitempty"`
		Skip    string `json:"-"`
		private int
		Tags    []string
		Greet   func(string) (string, error)
	}{Name: "n", Tags: []string{"t"}, Greet: func(s string) (string, error) { return s, nil }}
	expectedText := `{
  ID: number;
  name: string;
  Tags: string[];
  Greet(arg0: string): string;
}`
	assert.Equal(t, expectedText, typefmt.String(runtime.Infer(value)))
}

func TestInferMapsAndSets(t *testing.T) {
	assert.Equal(t, "Set<string>", typefmt.String(runtime.Infer(map[string]struct{}{"a": {}})))
	assert.Equal(t, "Map<number, boolean>", typefmt.String(runtime.Infer(map[int]bool{1: true, 2: false})))
	assert.Equal(t, "Map<any, any>", typefmt.String(runtime.Infer(map[int]bool{})))
	// Keys are sorted so inference is deterministic.
	assert.Equal(t, "{\n  a: number;\n  b: number;\n  c: number;\n}",
		typefmt.String(runtime.Infer(map[string]int{"c": 3, "a": 1, "b": 2})))
}

func TestInferFunctions(t *testing.T) {
	fn := func(n int8, rest ...float32) (uint16, bool, error) { return 0, false, nil }
	assert.Equal(t, "(arg0: number, arg1: ...number[]) => [number, boolean]", typefmt.String(runtime.Infer(fn)))

	typ := runtime.Infer(fn).(*deepkit.TypeFunction)
	assert.Equal(t, deepkit.BrandInt8, typ.Parameters[0].Type.(*deepkit.TypeOfNumber).Brand)
	rest := typ.Parameters[1].Type.(*deepkit.TypeRest)
	assert.Equal(t, deepkit.BrandFloat32, rest.Type.(*deepkit.TypeOfNumber).Brand)

	assert.Equal(t, "() => void", typefmt.String(runtime.Infer(func() {})))
	assert.Equal(t, "(arg0: {\n  [index: string]: number;\n}) => string[]",
		typefmt.String(runtime.Infer(func(map[string]int) []string { return nil })))
}

func TestInferRecursiveStructType(t *testing.T) {
	type node struct {
		Next func() *node
	}
	typ := runtime.Infer(node{})
	assert.Equal(t, "{\n  Next(): {\n    Next(): any;\n  };\n}", typefmt.String(typ))
}

func TestResolverInferWithoutClasses(t *testing.T) {
	r := newResolver(t)
	typ, err := r.Infer(context.Background(), []any{1, 2.5})
	require.NoError(t, err)
	assert.Equal(t, "number[]", typefmt.String(typ))
	assert.Equal(t, 0, r.Cache().Len())
}

type listNode struct {
	Name string
	Next *listNode
}

func TestInferCyclicValues(t *testing.T) {
	n := &listNode{Name: "a"}
	n.Next = n
	assert.Equal(t, "{\n  Name: string;\n  Next: any;\n}", typefmt.String(runtime.Infer(n)))

	a, b := &listNode{Name: "a"}, &listNode{Name: "b"}
	a.Next, b.Next = b, a
	expected := "{\n  Name: string;\n  Next: {\n    Name: string;\n    Next: any;\n  };\n}"
	assert.Equal(t, expected, typefmt.String(runtime.Infer(a)))

	m := map[string]any{"n": 1}
	m["self"] = m
	assert.Equal(t, "{\n  n: number;\n  self: any;\n}", typefmt.String(runtime.Infer(m)))

	s := []any{nil}
	s[0] = s
	assert.Equal(t, "any[]", typefmt.String(runtime.Infer(s)))

	typ, err := newResolver(t).Infer(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "{\n  Name: string;\n  Next: any;\n}", typefmt.String(typ))
}

func TestInferSharedValuesAreNotCycles(t *testing.T) {
	shared := &listNode{Name: "x"}
	typ := runtime.Infer([]*listNode{shared, shared})
	assert.Equal(t, "{\n  Name: string;\n  Next: null;\n}[]", typefmt.String(typ))
}

func TestInferDepthLimit(t *testing.T) {
	var v any = "x"
	for range 100 {
		v = []any{v}
	}
	_, err := newResolver(t).Infer(context.Background(), v)
	assert.ErrorIs(t, err, runtime.ErrRecursionLimitExceeded)
	var rerr *runtime.RecursionLimitError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, runtime.DefaultMaxDepth, rerr.Limit)
	assert.Same(t, deepkit.TypeAny, runtime.Infer(v))

	r := newResolver(t, runtime.WithConfig(runtime.Config{MaxDepth: 3}))
	typ, err := r.Infer(context.Background(), []any{[]any{"x"}})
	require.NoError(t, err)
	assert.Equal(t, "string[][]", typefmt.String(typ))
	_, err = r.Infer(context.Background(), []any{[]any{[]any{[]any{"x"}}}})
	assert.ErrorIs(t, err, runtime.ErrRecursionLimitExceeded)
}
