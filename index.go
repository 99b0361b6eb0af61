package deepkit

// IndexAccess queries a container type and returns the result of
// container[index], e.g.,
//
//	{a: string}['a'] => string
//	{a: string, b: number}['a' | 'b'] => string | number
//	[string, number][0] => string
//	[string, number][number] => string | number
//	string[][number] => string
//
// Combinations that do not denote a valid access yield never.
func IndexAccess(container, index Type) Type {
	switch c := container.(type) {
	case *TypeArray:
		if isNumericIndex(index) {
			return c.Type
		}
	case *TypeTuple:
		switch idx := index.(type) {
		case *TypeLiteral:
			if n, ok := idx.Value.(float64); ok {
				return tupleElement(c, n)
			}
		case *TypeOfNumber:
			types := make([]Type, 0, len(c.Types))
			for _, m := range c.Types {
				types = append(types, unwrapRest(m.Type))
			}
			return NewUnion(types...)
		case *TypeUnion:
			return distributeIndex(container, idx)
		}
	case *TypeObjectLiteral, *TypeClass:
		switch idx := index.(type) {
		case *TypeLiteral:
			return resolveObjectIndexType(container, idx)
		case *TypeUnion:
			return distributeIndex(container, idx)
		case *TypeOfString, *TypeOfNumber, *TypeOfSymbol:
			members, _ := Members(container)
			if sig := findIndexSignature(idx.Kind(), members); sig != nil {
				return sig.Type
			}
		}
	case *TypeUnion:
		types := make([]Type, 0, len(c.Types))
		for _, t := range c.Types {
			types = append(types, IndexAccess(t, index))
		}
		return NewUnion(types...)
	case *TypeOfAny:
		return TypeAny
	}
	return TypeNever
}

func isNumericIndex(index Type) bool {
	switch index := index.(type) {
	case *TypeOfNumber:
		return true
	case *TypeLiteral:
		_, ok := index.Value.(float64)
		return ok
	}
	return false
}

func unwrapRest(typ Type) Type {
	if rest, ok := typ.(*TypeRest); ok {
		return rest.Type
	}
	return typ
}

func tupleElement(tuple *TypeTuple, n float64) Type {
	k := int(n)
	if float64(k) != n || k < 0 {
		return TypeNever
	}
	if k < len(tuple.Types) {
		return unwrapRest(tuple.Types[k].Type)
	}
	if len(tuple.Types) > 0 {
		// Positions past the end fall into a trailing rest element.
		if rest, ok := tuple.Types[len(tuple.Types)-1].Type.(*TypeRest); ok {
			return rest.Type
		}
	}
	return TypeNever
}

func distributeIndex(container Type, index *TypeUnion) Type {
	var types []Type
	for _, t := range index.Types {
		types = append(types, IndexAccess(container, t))
	}
	return NewUnion(types...)
}

func resolveObjectIndexType(container Type, index *TypeLiteral) Type {
	switch index.Value.(type) {
	case string, float64, *Symbol:
	default:
		return TypeNever
	}
	members, _ := Members(container)
	member := FindMember(index.Value, members)
	switch m := member.(type) {
	case *TypeProperty:
		return m.Type
	case *TypePropertySignature:
		return m.Type
	case *TypeIndexSignature:
		return m.Type
	case *TypeMethod, *TypeMethodSignature:
		return m
	}
	return TypeNever
}

// FindMember returns the member of members named name.  If no member has
// that name, it returns the first index signature whose index kind admits
// name: a string signature admits string and number names, a number
// signature number names, and a symbol signature symbol names.
func FindMember(name any, members []Type) Type {
	for _, m := range members {
		if member, ok := m.(Member); ok && SameName(member.MemberName(), name) {
			return m
		}
	}
	var kind Kind
	switch name.(type) {
	case string:
		kind = KindString
	case float64:
		kind = KindNumber
	case *Symbol:
		kind = KindSymbol
	default:
		return nil
	}
	if sig := findIndexSignature(kind, members); sig != nil {
		return sig
	}
	return nil
}

func findIndexSignature(kind Kind, members []Type) *TypeIndexSignature {
	for _, m := range members {
		sig, ok := m.(*TypeIndexSignature)
		if !ok {
			continue
		}
		for _, index := range UnionTypes(sig.Index) {
			k := index.Kind()
			if k == kind || (k == KindString && kind == KindNumber) {
				return sig
			}
		}
	}
	return nil
}

// Keyof returns the union of the literal names of the public members of a
// class or object literal together with the index types of its index
// signatures.  keyof any is string | number | symbol, keyof of an array or
// tuple is number, and keyof a union is the set of keys common to all of
// its members.
func Keyof(typ Type) Type {
	switch t := typ.(type) {
	case *TypeOfAny:
		return NewUnion(TypeString, TypeNumber, TypeSymbol)
	case *TypeArray, *TypeTuple:
		return TypeNumber
	case *TypeClass, *TypeObjectLiteral:
		members, _ := Members(t)
		var keys []Type
		for _, m := range members {
			switch m := m.(type) {
			case *TypeIndexSignature:
				keys = append(keys, m.Index)
			case *TypeProperty:
				if m.Visibility == Public {
					keys = append(keys, NewLiteral(m.Name))
				}
			case *TypeMethod:
				if m.Visibility == Public && m.Name != "constructor" {
					keys = append(keys, NewLiteral(m.Name))
				}
			case Member:
				keys = append(keys, NewLiteral(m.MemberName()))
			}
		}
		return NewUnion(keys...)
	case *TypeUnion:
		if len(t.Types) == 0 {
			return TypeNever
		}
		common := UnionTypes(Keyof(t.Types[0]))
		for _, other := range t.Types[1:] {
			keys := UnionTypes(Keyof(other))
			var next []Type
			for _, k := range common {
				if IsTypeIncluded(keys, k) {
					next = append(next, k)
				}
			}
			common = next
		}
		return NewUnion(common...)
	}
	return TypeNever
}
