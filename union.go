package deepkit

// UniqueTypes returns types with structural duplicates removed, keeping the
// first occurrence of each.
func UniqueTypes(types []Type) []Type {
	out := types[:0:0]
	for _, t := range types {
		if !IsTypeIncluded(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// NewUnion returns the union of types.  Nested unions are flattened, never
// is dropped, and duplicates are removed.  A union with no members is never
// and a union of one member is that member.
func NewUnion(types ...Type) Type {
	var flat []Type
	for _, t := range types {
		switch t := t.(type) {
		case *TypeUnion:
			for _, u := range t.Types {
				if u.Kind() != KindNever && !IsTypeIncluded(flat, u) {
					flat = append(flat, u)
				}
			}
		case *TypeOfNever:
		default:
			if !IsTypeIncluded(flat, t) {
				flat = append(flat, t)
			}
		}
	}
	switch len(flat) {
	case 0:
		return TypeNever
	case 1:
		return flat[0]
	}
	return &TypeUnion{Types: flat}
}

// NewIntersection returns the intersection of types.  Nested intersections
// are flattened and duplicates removed.  If any member is never, the result
// is never.
func NewIntersection(types ...Type) Type {
	var flat []Type
	for _, t := range types {
		switch t := t.(type) {
		case *TypeIntersection:
			for _, u := range t.Types {
				if !IsTypeIncluded(flat, u) {
					flat = append(flat, u)
				}
			}
		case *TypeOfNever:
			return TypeNever
		default:
			if !IsTypeIncluded(flat, t) {
				flat = append(flat, t)
			}
		}
	}
	switch len(flat) {
	case 0:
		return TypeNever
	case 1:
		return flat[0]
	}
	return &TypeIntersection{Types: flat}
}

// UnionTypes returns the members of a union or typ itself as a one element slice.
func UnionTypes(typ Type) []Type {
	if u, ok := typ.(*TypeUnion); ok {
		return u.Types
	}
	return []Type{typ}
}
