// Package deepkit implements the runtime type model: a closed set of
// structural type descriptions (primitives, literals, classes, object
// literals, unions, tuples, ...) together with the pure functions that
// compare, index, widen, and query them.
//
// Types are produced by the resolver in package runtime (or by value
// inference) and are immutable once published.  Consumers discriminate with
// a type switch on the concrete pointer types defined here or by comparing
// Kind().
package deepkit

// Type is implemented only by the variant types of this package.
type Type interface {
	Kind() Kind
	typeNode()
}

// Member is a Type that lives inside a class or object literal and has a name.
type Member interface {
	Type
	MemberName() any
}

type TypeLiteral struct {
	// Value is a string, float64, bool, *big.Int, *Symbol, or *regexp.Regexp.
	Value any
}

type TypeProperty struct {
	Visibility  Visibility
	Name        any
	Optional    bool
	Readonly    bool
	Abstract    bool
	Description string
	// Default holds the initializer value when the property has one.
	Default    any
	HasDefault bool
	Type       Type
}

type TypeMethod struct {
	Visibility Visibility
	Name       any
	Optional   bool
	Abstract   bool
	Parameters []*TypeParameter
	Return     Type
}

type TypeFunction struct {
	// Name is nil for anonymous functions.
	Name       any
	Parameters []*TypeParameter
	Return     Type
}

// TypeParameter is a function or method parameter.  A constructor parameter
// with an explicit visibility doubles as a property.
type TypeParameter struct {
	Name       string
	Type       Type
	Visibility Visibility
	Readonly   bool
	Optional   bool
}

type TypePromise struct {
	Type Type
}

type TypeClass struct {
	Class *Class
	// Arguments holds the generic arguments, e.g., string in Box<string>.
	// It is nil when the class was referenced without arguments.
	Arguments []Type
	// Types holds the properties and methods.
	Types []Type
}

type TypeTemplate struct {
	Name string
}

type EnumEntry struct {
	Name string
	// Value is a string, float64, or nil.
	Value any
}

type TypeEnum struct {
	Members []EnumEntry
}

// Values returns the enum values in declaration order.
func (t *TypeEnum) Values() []any {
	values := make([]any, 0, len(t.Members))
	for _, m := range t.Members {
		values = append(values, m.Value)
	}
	return values
}

// Lookup returns the value bound to name.
func (t *TypeEnum) Lookup(name string) (any, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

type TypeEnumMember struct {
	Name       string
	Default    any
	HasDefault bool
}

type TypeUnion struct {
	Types []Type
}

type TypeIntersection struct {
	Types []Type
}

type TypeArray struct {
	Type Type
}

type TypeTuple struct {
	Types []*TypeTupleMember
}

type TypeTupleMember struct {
	Type     Type
	Optional bool
	Name     string
}

type TypeRest struct {
	Type Type
}

// TypeObjectLiteral members are *TypeIndexSignature, *TypePropertySignature,
// or *TypeMethodSignature.
type TypeObjectLiteral struct {
	Types []Type
}

type TypeIndexSignature struct {
	Index Type
	Type  Type
}

type TypePropertySignature struct {
	Name        any
	Optional    bool
	Readonly    bool
	Description string
	Type        Type
}

type TypeMethodSignature struct {
	Name       any
	Optional   bool
	Parameters []*TypeParameter
	Return     Type
}

// TypeInfer is the placeholder of an inferred type variable in a conditional
// type.  A successful IsExtendable match against it calls Set with the
// matched type.
type TypeInfer struct {
	set func(Type)
}

func NewTypeInfer(set func(Type)) *TypeInfer {
	return &TypeInfer{set: set}
}

func (t *TypeInfer) Set(typ Type) {
	if t.set != nil {
		t.set(typ)
	}
}

// Release drops the binding callback.  Set is a no-op afterwards.
func (t *TypeInfer) Release() {
	t.set = nil
}

// Bindable reports whether Set still binds a type.
func (t *TypeInfer) Bindable() bool {
	return t.set != nil
}

func (*TypeLiteral) Kind() Kind           { return KindLiteral }
func (*TypeProperty) Kind() Kind          { return KindProperty }
func (*TypeMethod) Kind() Kind            { return KindMethod }
func (*TypeFunction) Kind() Kind          { return KindFunction }
func (*TypeParameter) Kind() Kind         { return KindParameter }
func (*TypePromise) Kind() Kind           { return KindPromise }
func (*TypeClass) Kind() Kind             { return KindClass }
func (*TypeTemplate) Kind() Kind          { return KindTemplate }
func (*TypeEnum) Kind() Kind              { return KindEnum }
func (*TypeEnumMember) Kind() Kind        { return KindEnumMember }
func (*TypeUnion) Kind() Kind             { return KindUnion }
func (*TypeIntersection) Kind() Kind      { return KindIntersection }
func (*TypeArray) Kind() Kind             { return KindArray }
func (*TypeTuple) Kind() Kind             { return KindTuple }
func (*TypeTupleMember) Kind() Kind       { return KindTupleMember }
func (*TypeRest) Kind() Kind              { return KindRest }
func (*TypeObjectLiteral) Kind() Kind     { return KindObjectLiteral }
func (*TypeIndexSignature) Kind() Kind    { return KindIndexSignature }
func (*TypePropertySignature) Kind() Kind { return KindPropertySignature }
func (*TypeMethodSignature) Kind() Kind   { return KindMethodSignature }
func (*TypeInfer) Kind() Kind             { return KindInfer }

func (*TypeLiteral) typeNode()           {}
func (*TypeProperty) typeNode()          {}
func (*TypeMethod) typeNode()            {}
func (*TypeFunction) typeNode()          {}
func (*TypeParameter) typeNode()         {}
func (*TypePromise) typeNode()           {}
func (*TypeClass) typeNode()             {}
func (*TypeTemplate) typeNode()          {}
func (*TypeEnum) typeNode()              {}
func (*TypeEnumMember) typeNode()        {}
func (*TypeUnion) typeNode()             {}
func (*TypeIntersection) typeNode()      {}
func (*TypeArray) typeNode()             {}
func (*TypeTuple) typeNode()             {}
func (*TypeTupleMember) typeNode()       {}
func (*TypeRest) typeNode()              {}
func (*TypeObjectLiteral) typeNode()     {}
func (*TypeIndexSignature) typeNode()    {}
func (*TypePropertySignature) typeNode() {}
func (*TypeMethodSignature) typeNode()   {}
func (*TypeInfer) typeNode()             {}

func (t *TypeProperty) MemberName() any          { return t.Name }
func (t *TypeMethod) MemberName() any            { return t.Name }
func (t *TypePropertySignature) MemberName() any { return t.Name }
func (t *TypeMethodSignature) MemberName() any   { return t.Name }

// Members returns the member list of a class or object literal and false
// for any other type.
func Members(typ Type) ([]Type, bool) {
	switch typ := typ.(type) {
	case *TypeClass:
		return typ.Types, true
	case *TypeObjectLiteral:
		return typ.Types, true
	}
	return nil, false
}

// MemberType returns the value type of a property-like member, the member
// itself for methods, and the value type of an index signature.
func MemberType(member Type) Type {
	switch m := member.(type) {
	case *TypeProperty:
		return m.Type
	case *TypePropertySignature:
		return m.Type
	case *TypeIndexSignature:
		return m.Type
	case *TypeParameter:
		return m.Type
	case *TypeTupleMember:
		return m.Type
	}
	return member
}
