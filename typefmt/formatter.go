// Package typefmt renders deepkit types in a canonical, human-readable,
// TypeScript-like notation for diagnostics and tests.
package typefmt

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-set/v3"
	deepkit "github.com/wilcoxmd/deepkit-framework"
)

// String formats typ at nesting depth zero.
func String(typ deepkit.Type) string {
	return Format(typ, 0)
}

// Format formats typ as if it were nested depth levels deep: members of
// classes and object literals are indented two spaces per level and the
// closing brace lines up with the enclosing level.
func Format(typ deepkit.Type, depth int) string {
	f := formatter{active: set.New[*deepkit.TypeClass](4)}
	var b strings.Builder
	f.formatType(&b, typ, depth)
	return b.String()
}

type formatter struct {
	// active holds the classes being formatted so a class reached again
	// through its own members is printed by name only.
	active *set.Set[*deepkit.TypeClass]
}

func (f *formatter) formatType(b *strings.Builder, typ deepkit.Type, depth int) {
	switch t := typ.(type) {
	case nil:
		b.WriteString("<nil>")
	case *deepkit.TypeOfNever:
		b.WriteString("never")
	case *deepkit.TypeOfAny:
		b.WriteString("any")
	case *deepkit.TypeOfVoid:
		b.WriteString("void")
	case *deepkit.TypeOfUndefined:
		b.WriteString("undefined")
	case *deepkit.TypeOfNull:
		b.WriteString("null")
	case *deepkit.TypeOfString:
		b.WriteString("string")
	case *deepkit.TypeOfNumber:
		b.WriteString("number")
	case *deepkit.TypeOfBigInt:
		b.WriteString("bigint")
	case *deepkit.TypeOfBoolean:
		b.WriteString("boolean")
	case *deepkit.TypeOfSymbol:
		b.WriteString("symbol")
	case *deepkit.TypeOfRegexp:
		b.WriteString("RegExp")
	case *deepkit.TypeLiteral:
		b.WriteString(FormatLiteral(t.Value))
	case *deepkit.TypePromise:
		b.WriteString("Promise<")
		f.formatType(b, t.Type, depth)
		b.WriteByte('>')
	case *deepkit.TypeClass:
		f.formatClass(b, t, depth)
	case *deepkit.TypeObjectLiteral:
		f.formatMembers(b, t.Types, depth)
	case *deepkit.TypeUnion:
		f.formatJoin(b, t.Types, " | ", depth)
	case *deepkit.TypeIntersection:
		f.formatJoin(b, t.Types, " & ", depth)
	case *deepkit.TypeParameter:
		if t.Readonly {
			b.WriteString("readonly ")
		}
		if t.Visibility != deepkit.Public {
			b.WriteString(t.Visibility.String())
			b.WriteByte(' ')
		}
		b.WriteString(t.Name)
		if t.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		f.formatType(b, t.Type, depth)
	case *deepkit.TypeFunction:
		f.formatParams(b, t.Parameters, depth)
		b.WriteString(" => ")
		f.formatType(b, t.Return, depth)
	case *deepkit.TypeEnum:
		b.WriteString("enum {")
		for k, m := range t.Members {
			if k > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.Name)
			if m.Value != nil {
				b.WriteString(" = ")
				b.WriteString(FormatLiteral(m.Value))
			}
		}
		b.WriteByte('}')
	case *deepkit.TypeEnumMember:
		b.WriteString(t.Name)
	case *deepkit.TypeTemplate:
		b.WriteString(t.Name)
	case *deepkit.TypeInfer:
		b.WriteString("infer")
	case *deepkit.TypeArray:
		f.formatElem(b, t.Type, depth)
		b.WriteString("[]")
	case *deepkit.TypeRest:
		b.WriteString("...")
		f.formatElem(b, t.Type, depth)
		b.WriteString("[]")
	case *deepkit.TypeTupleMember:
		if t.Name != "" {
			b.WriteString(t.Name)
			if t.Optional {
				b.WriteByte('?')
			}
			b.WriteString(": ")
			f.formatType(b, t.Type, depth)
			return
		}
		f.formatType(b, t.Type, depth)
		if t.Optional {
			b.WriteByte('?')
		}
	case *deepkit.TypeTuple:
		b.WriteByte('[')
		for k, m := range t.Types {
			if k > 0 {
				b.WriteString(", ")
			}
			f.formatType(b, m, depth)
		}
		b.WriteByte(']')
	case *deepkit.TypeIndexSignature:
		b.WriteString("[index: ")
		f.formatType(b, t.Index, depth)
		b.WriteString("]: ")
		f.formatType(b, t.Type, depth)
	case *deepkit.TypePropertySignature:
		if t.Readonly {
			b.WriteString("readonly ")
		}
		b.WriteString(FormatName(t.Name))
		if t.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		f.formatType(b, t.Type, depth)
	case *deepkit.TypeProperty:
		if t.Readonly {
			b.WriteString("readonly ")
		}
		if t.Visibility != deepkit.Public {
			b.WriteString(t.Visibility.String())
			b.WriteByte(' ')
		}
		b.WriteString(FormatName(t.Name))
		if t.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": ")
		f.formatType(b, t.Type, depth)
	case *deepkit.TypeMethodSignature:
		b.WriteString(FormatName(t.Name))
		if t.Optional {
			b.WriteByte('?')
		}
		f.formatParams(b, t.Parameters, depth)
		b.WriteString(": ")
		f.formatType(b, t.Return, depth)
	case *deepkit.TypeMethod:
		if t.Abstract {
			b.WriteString("abstract ")
		}
		if t.Visibility != deepkit.Public {
			b.WriteString(t.Visibility.String())
			b.WriteByte(' ')
		}
		b.WriteString(FormatName(t.Name))
		if t.Optional {
			b.WriteByte('?')
		}
		f.formatParams(b, t.Parameters, depth)
		b.WriteString(": ")
		f.formatType(b, t.Return, depth)
	default:
		b.WriteString(typ.Kind().String())
	}
}

func (f *formatter) formatClass(b *strings.Builder, t *deepkit.TypeClass, depth int) {
	b.WriteString(t.Class.Name)
	if deepkit.IsBuiltinClass(t.Class) {
		if t.Arguments != nil {
			f.formatArgs(b, t.Arguments, depth)
		}
		return
	}
	if t.Arguments != nil {
		f.formatArgs(b, t.Arguments, depth)
	}
	if !f.active.Insert(t) {
		return
	}
	defer f.active.Remove(t)
	b.WriteByte(' ')
	f.formatMembers(b, t.Types, depth)
}

func (f *formatter) formatArgs(b *strings.Builder, args []deepkit.Type, depth int) {
	b.WriteByte('<')
	for k, arg := range args {
		if k > 0 {
			b.WriteString(", ")
		}
		f.formatType(b, arg, depth)
	}
	b.WriteByte('>')
}

func (f *formatter) formatMembers(b *strings.Builder, members []deepkit.Type, depth int) {
	if len(members) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	for _, m := range members {
		indent(b, depth+1)
		f.formatType(b, m, depth+1)
		b.WriteString(";\n")
	}
	indent(b, depth)
	b.WriteByte('}')
}

func (f *formatter) formatJoin(b *strings.Builder, types []deepkit.Type, sep string, depth int) {
	for k, t := range types {
		if k > 0 {
			b.WriteString(sep)
		}
		f.formatType(b, t, depth)
	}
}

func (f *formatter) formatParams(b *strings.Builder, params []*deepkit.TypeParameter, depth int) {
	b.WriteByte('(')
	for k, p := range params {
		if k > 0 {
			b.WriteString(", ")
		}
		f.formatType(b, p, depth)
	}
	b.WriteByte(')')
}

// formatElem formats the element type of an array, parenthesizing types
// whose notation would otherwise bind looser than the [] suffix.
func (f *formatter) formatElem(b *strings.Builder, typ deepkit.Type, depth int) {
	switch typ.Kind() {
	case deepkit.KindUnion, deepkit.KindIntersection, deepkit.KindFunction:
		b.WriteByte('(')
		f.formatType(b, typ, depth)
		b.WriteByte(')')
	default:
		f.formatType(b, typ, depth)
	}
}

func indent(b *strings.Builder, depth int) {
	for range depth {
		b.WriteString("  ")
	}
}

// FormatLiteral formats a literal value: numbers in their shortest decimal
// form, strings single-quoted, bigints with an n suffix.
func FormatLiteral(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
	case float64:
		return FormatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case *big.Int:
		return v.String() + "n"
	case *deepkit.Symbol:
		return v.String()
	case *regexp.Regexp:
		return "/" + v.String() + "/"
	case nil:
		return "undefined"
	}
	return fmt.Sprint(v)
}

func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatName formats a member name.
func FormatName(name any) string {
	switch name := name.(type) {
	case string:
		return name
	case float64:
		return FormatNumber(name)
	case *deepkit.Symbol:
		return "[" + name.String() + "]"
	}
	return fmt.Sprint(name)
}
