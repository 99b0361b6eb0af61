package deepkit

import "github.com/hashicorp/go-set/v3"

// IsExtendable reports whether left is assignable to right, i.e., whether
// the conditional type "left extends right ? A : B" takes the A branch.
// It implements the structural subset of assignability needed by
// conditional types:
//
//   - any, unknown templates, and inference placeholders on the right
//     accept everything; never and any on the left extend everything.
//   - a literal extends its own value and its widened primitive.
//   - a union on the left must extend as a whole; a union on the right
//     needs one accepting member.
//   - arrays, tuples, promises, and callables are matched component-wise
//     (parameters contravariantly).
//   - object literals and classes are matched structurally by member name;
//     a built-in class on the right requires the same class.
//
// A TypeInfer encountered on the right is bound to the matched left type.
func IsExtendable(left, right Type) bool {
	var e extender
	return e.extends(left, right)
}

type extender struct {
	active *set.Set[typePair]
}

func (e *extender) extends(left, right Type) bool {
	if left == right {
		return true
	}
	switch r := right.(type) {
	case *TypeInfer:
		r.Set(left)
		return true
	case *TypeOfAny, *TypeTemplate:
		return true
	case *TypeUnion:
		if l, ok := left.(*TypeUnion); ok {
			return e.all(l.Types, right)
		}
		for _, t := range r.Types {
			if e.extends(left, t) {
				return true
			}
		}
		return false
	case *TypeIntersection:
		for _, t := range r.Types {
			if !e.extends(left, t) {
				return false
			}
		}
		return true
	}
	switch l := left.(type) {
	case *TypeOfNever, *TypeOfAny:
		return true
	case *TypeUnion:
		return e.all(l.Types, right)
	case *TypeIntersection:
		for _, t := range l.Types {
			if e.extends(t, right) {
				return true
			}
		}
		return false
	}
	switch r := right.(type) {
	case *TypeOfVoid:
		k := left.Kind()
		return k == KindVoid || k == KindUndefined
	case *TypeOfNumber:
		switch l := left.(type) {
		case *TypeOfNumber:
			return r.Brand == BrandNone || l.Brand == r.Brand
		case *TypeLiteral:
			_, ok := l.Value.(float64)
			return ok && r.Brand == BrandNone
		}
		return false
	case *TypeOfString, *TypeOfBoolean, *TypeOfBigInt, *TypeOfSymbol, *TypeOfRegexp:
		if lit, ok := left.(*TypeLiteral); ok {
			return LiteralKind(lit.Value) == right.Kind()
		}
		return left.Kind() == right.Kind()
	case *TypeLiteral:
		lit, ok := left.(*TypeLiteral)
		return ok && SameLiteral(lit.Value, r.Value)
	case *TypeArray:
		switch l := left.(type) {
		case *TypeArray:
			return e.extends(l.Type, r.Type)
		case *TypeTuple:
			for _, m := range l.Types {
				if !e.extends(unwrapRest(m.Type), r.Type) {
					return false
				}
			}
			return true
		}
		return false
	case *TypeTuple:
		l, ok := left.(*TypeTuple)
		return ok && e.tuple(l, r)
	case *TypeRest:
		return e.extends(unwrapRest(left), r.Type)
	case *TypePromise:
		l, ok := left.(*TypePromise)
		return ok && e.extends(l.Type, r.Type)
	case *TypeFunction:
		return e.callable(left, r.Parameters, r.Return)
	case *TypeMethodSignature:
		return e.callable(left, r.Parameters, r.Return)
	case *TypeMethod:
		return e.callable(left, r.Parameters, r.Return)
	case *TypeClass:
		l, ok := left.(*TypeClass)
		if ok && l.Class == r.Class {
			if len(l.Arguments) == len(r.Arguments) {
				for k := range l.Arguments {
					if !e.extends(l.Arguments[k], r.Arguments[k]) {
						return false
					}
				}
			}
			return true
		}
		if IsBuiltinClass(r.Class) {
			return false
		}
		return e.object(left, r)
	case *TypeObjectLiteral:
		return e.object(left, r)
	case *TypeEnum:
		switch l := left.(type) {
		case *TypeEnum:
			return IsSameType(l, r)
		case *TypeLiteral:
			for _, v := range r.Values() {
				if v != nil && SameLiteral(l.Value, v) {
					return true
				}
			}
		}
		return false
	}
	return IsSameType(left, right)
}

func (e *extender) all(types []Type, right Type) bool {
	for _, t := range types {
		if !e.extends(t, right) {
			return false
		}
	}
	return true
}

func (e *extender) tuple(l, r *TypeTuple) bool {
	for k, rm := range r.Types {
		if rest, ok := rm.Type.(*TypeRest); ok {
			for _, lm := range l.Types[min(k, len(l.Types)):] {
				if !e.extends(unwrapRest(lm.Type), rest.Type) {
					return false
				}
			}
			return true
		}
		if k >= len(l.Types) {
			if !rm.Optional {
				return false
			}
			continue
		}
		if !e.extends(l.Types[k].Type, rm.Type) {
			return false
		}
	}
	return len(l.Types) <= len(r.Types)
}

func (e *extender) callable(left Type, params []*TypeParameter, ret Type) bool {
	var lparams []*TypeParameter
	var lret Type
	switch l := left.(type) {
	case *TypeFunction:
		lparams, lret = l.Parameters, l.Return
	case *TypeMethod:
		lparams, lret = l.Parameters, l.Return
	case *TypeMethodSignature:
		lparams, lret = l.Parameters, l.Return
	default:
		return false
	}
	for k, lp := range lparams {
		if k >= len(params) {
			if !lp.Optional {
				return false
			}
			continue
		}
		if !e.extends(params[k].Type, lp.Type) {
			return false
		}
	}
	if ret.Kind() == KindVoid {
		return true
	}
	return e.extends(lret, ret)
}

func (e *extender) object(left, right Type) bool {
	lmembers, ok := Members(left)
	if !ok {
		return false
	}
	if e.active == nil {
		e.active = set.New[typePair](4)
	}
	pair := typePair{left, right}
	if !e.active.Insert(pair) {
		return true
	}
	defer e.active.Remove(pair)
	rmembers, _ := Members(right)
	for _, rm := range rmembers {
		if sig, ok := rm.(*TypeIndexSignature); ok {
			for _, lm := range lmembers {
				member, ok := lm.(Member)
				if !ok || !indexAdmits(sig.Index, member.MemberName()) {
					continue
				}
				if !e.extends(MemberType(lm), sig.Type) {
					return false
				}
			}
			continue
		}
		member, ok := rm.(Member)
		if !ok {
			continue
		}
		lm := FindMember(member.MemberName(), lmembers)
		if lm == nil {
			if !IsOptional(rm) {
				return false
			}
			continue
		}
		if !e.extends(MemberType(lm), MemberType(rm)) {
			return false
		}
	}
	return true
}

func indexAdmits(index Type, name any) bool {
	for _, t := range UnionTypes(index) {
		switch t.Kind() {
		case KindString:
			if _, ok := name.(string); ok {
				return true
			}
			if _, ok := name.(float64); ok {
				return true
			}
		case KindNumber:
			if _, ok := name.(float64); ok {
				return true
			}
		case KindSymbol:
			if _, ok := name.(*Symbol); ok {
				return true
			}
		}
	}
	return false
}
