package deepkit

// WidenLiteral returns the primitive type of a literal, e.g., 'a' widens
// to string.  Other types are returned unchanged.
func WidenLiteral(typ Type) Type {
	if lit, ok := typ.(*TypeLiteral); ok {
		if prim := LookupPrimitive(LiteralKind(lit.Value)); prim != nil && prim != TypeNever {
			return prim
		}
	}
	return typ
}

// IsMember is true for properties, methods, and their signature forms.
func IsMember(typ Type) bool {
	switch typ.Kind() {
	case KindPropertySignature, KindProperty, KindMethodSignature, KindMethod:
		return true
	}
	return false
}

// IsOptional checks whether undefined is allowed as type.  A member marked
// optional is optional, as is undefined itself and any union containing
// undefined.  Properties, property signatures, index signatures, parameters,
// and tuple members are optional when their value type is.
func IsOptional(typ Type) bool {
	switch t := typ.(type) {
	case *TypeProperty:
		return t.Optional || IsOptional(t.Type)
	case *TypePropertySignature:
		return t.Optional || IsOptional(t.Type)
	case *TypeMethod:
		return t.Optional
	case *TypeMethodSignature:
		return t.Optional
	case *TypeIndexSignature:
		return IsOptional(t.Type)
	case *TypeParameter:
		return t.Optional || IsOptional(t.Type)
	case *TypeTupleMember:
		return t.Optional || IsOptional(t.Type)
	case *TypeOfUndefined:
		return true
	case *TypeUnion:
		for _, u := range t.Types {
			if u.Kind() == KindUndefined {
				return true
			}
		}
	}
	return false
}

// IsNullable checks whether null is allowed as type.
func IsNullable(typ Type) bool {
	switch t := typ.(type) {
	case *TypeOfNull:
		return true
	case *TypeUnion:
		for _, u := range t.Types {
			if u.Kind() == KindNull {
				return true
			}
		}
	}
	return false
}
