package deepkit

import (
	"math"
	"math/big"
	"reflect"
	"regexp"

	"github.com/hashicorp/go-set/v3"
)

// IsSameType checks if the structures of a and b are identical.
//
// Literals compare by value (bigints numerically, regular expressions by
// source, symbols by identity).  Unions and intersections compare as
// multisets; tuples, object literals, class members, and parameter lists
// compare in order.  Class types additionally require the same class
// identity.  A pair of class types already under comparison further up
// the recursion is taken to be equal so cyclic class graphs terminate.
func IsSameType(a, b Type) bool {
	var c comparer
	return c.same(a, b)
}

// IsTypeIncluded is true if a type structurally identical to typ is in types.
func IsTypeIncluded(types []Type, typ Type) bool {
	for _, t := range types {
		if IsSameType(t, typ) {
			return true
		}
	}
	return false
}

// SameLiteral compares two literal values.
func SameLiteral(a, b any) bool {
	switch a := a.(type) {
	case *big.Int:
		b, ok := b.(*big.Int)
		return ok && a.Cmp(b) == 0
	case *regexp.Regexp:
		b, ok := b.(*regexp.Regexp)
		return ok && a.String() == b.String()
	case float64:
		b, ok := b.(float64)
		return ok && sameFloat(a, b)
	case string, bool, *Symbol:
		return a == b
	}
	return false
}

// sameFloat is numeric equality except that NaN equals NaN.
func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// SameName compares member names.  Names are strings, float64s, or *Symbols.
func SameName(a, b any) bool {
	if a, ok := a.(float64); ok {
		b, ok := b.(float64)
		return ok && sameFloat(a, b)
	}
	return a == b
}

type typePair struct {
	a, b Type
}

type comparer struct {
	active *set.Set[typePair]
}

func (c *comparer) enter(a, b Type) bool {
	if c.active == nil {
		c.active = set.New[typePair](4)
	}
	return c.active.Insert(typePair{a, b})
}

func (c *comparer) leave(a, b Type) {
	c.active.Remove(typePair{a, b})
}

func (c *comparer) same(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *TypeOfNumber:
		return a.Brand == b.(*TypeOfNumber).Brand
	case *TypeLiteral:
		return SameLiteral(a.Value, b.(*TypeLiteral).Value)
	case *TypeTemplate:
		return a.Name == b.(*TypeTemplate).Name
	case *TypeClass:
		b := b.(*TypeClass)
		if a.Class != b.Class {
			return false
		}
		if !c.enter(a, b) {
			return true
		}
		defer c.leave(a, b)
		return c.sameList(a.Arguments, b.Arguments) && c.sameList(a.Types, b.Types)
	case *TypeObjectLiteral:
		return c.sameList(a.Types, b.(*TypeObjectLiteral).Types)
	case *TypeUnion:
		return c.sameSet(a.Types, b.(*TypeUnion).Types)
	case *TypeIntersection:
		return c.sameSet(a.Types, b.(*TypeIntersection).Types)
	case *TypeArray:
		return c.same(a.Type, b.(*TypeArray).Type)
	case *TypeRest:
		return c.same(a.Type, b.(*TypeRest).Type)
	case *TypePromise:
		return c.same(a.Type, b.(*TypePromise).Type)
	case *TypeTuple:
		b := b.(*TypeTuple)
		if len(a.Types) != len(b.Types) {
			return false
		}
		for k := range a.Types {
			if !c.same(a.Types[k], b.Types[k]) {
				return false
			}
		}
		return true
	case *TypeTupleMember:
		b := b.(*TypeTupleMember)
		return a.Name == b.Name && a.Optional == b.Optional && c.same(a.Type, b.Type)
	case *TypeFunction:
		b := b.(*TypeFunction)
		return SameName(a.Name, b.Name) && c.sameParams(a.Parameters, b.Parameters) && c.same(a.Return, b.Return)
	case *TypeMethod:
		b := b.(*TypeMethod)
		return SameName(a.Name, b.Name) && a.Visibility == b.Visibility &&
			a.Optional == b.Optional && a.Abstract == b.Abstract &&
			c.sameParams(a.Parameters, b.Parameters) && c.same(a.Return, b.Return)
	case *TypeMethodSignature:
		b := b.(*TypeMethodSignature)
		return SameName(a.Name, b.Name) && a.Optional == b.Optional &&
			c.sameParams(a.Parameters, b.Parameters) && c.same(a.Return, b.Return)
	case *TypeParameter:
		return c.sameParam(a, b.(*TypeParameter))
	case *TypeProperty:
		b := b.(*TypeProperty)
		return SameName(a.Name, b.Name) && a.Visibility == b.Visibility &&
			a.Optional == b.Optional && a.Readonly == b.Readonly &&
			a.Abstract == b.Abstract && c.same(a.Type, b.Type)
	case *TypePropertySignature:
		b := b.(*TypePropertySignature)
		return SameName(a.Name, b.Name) && a.Optional == b.Optional &&
			a.Readonly == b.Readonly && c.same(a.Type, b.Type)
	case *TypeIndexSignature:
		b := b.(*TypeIndexSignature)
		return c.same(a.Index, b.Index) && c.same(a.Type, b.Type)
	case *TypeEnum:
		b := b.(*TypeEnum)
		if len(a.Members) != len(b.Members) {
			return false
		}
		for k, m := range a.Members {
			if m.Name != b.Members[k].Name || m.Value != b.Members[k].Value {
				return false
			}
		}
		return true
	case *TypeEnumMember:
		b := b.(*TypeEnumMember)
		return a.Name == b.Name && a.HasDefault == b.HasDefault && reflect.DeepEqual(a.Default, b.Default)
	case *TypeInfer:
		// Distinct placeholders are never the same.
		return false
	}
	// Remaining kinds carry no payload.
	return true
}

func (c *comparer) sameList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !c.same(a[k], b[k]) {
			return false
		}
	}
	return true
}

func (c *comparer) sameSet(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for k, y := range b {
			if !used[k] && c.same(x, y) {
				used[k] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (c *comparer) sameParams(a, b []*TypeParameter) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !c.sameParam(a[k], b[k]) {
			return false
		}
	}
	return true
}

func (c *comparer) sameParam(a, b *TypeParameter) bool {
	return a.Name == b.Name && a.Visibility == b.Visibility &&
		a.Readonly == b.Readonly && a.Optional == b.Optional && c.same(a.Type, b.Type)
}
