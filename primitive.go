package deepkit

import (
	"fmt"
	"math/big"
	"reflect"
	"regexp"
)

type TypeOfNever struct{}

func (*TypeOfNever) Kind() Kind { return KindNever }
func (*TypeOfNever) typeNode()  {}

type TypeOfAny struct{}

func (*TypeOfAny) Kind() Kind { return KindAny }
func (*TypeOfAny) typeNode()  {}

type TypeOfVoid struct{}

func (*TypeOfVoid) Kind() Kind { return KindVoid }
func (*TypeOfVoid) typeNode()  {}

type TypeOfString struct{}

func (*TypeOfString) Kind() Kind { return KindString }
func (*TypeOfString) typeNode()  {}

type TypeOfNumber struct {
	Brand NumberBrand
}

func (*TypeOfNumber) Kind() Kind { return KindNumber }
func (*TypeOfNumber) typeNode()  {}

type TypeOfBoolean struct{}

func (*TypeOfBoolean) Kind() Kind { return KindBoolean }
func (*TypeOfBoolean) typeNode()  {}

type TypeOfSymbol struct{}

func (*TypeOfSymbol) Kind() Kind { return KindSymbol }
func (*TypeOfSymbol) typeNode()  {}

type TypeOfBigInt struct{}

func (*TypeOfBigInt) Kind() Kind { return KindBigInt }
func (*TypeOfBigInt) typeNode()  {}

type TypeOfNull struct{}

func (*TypeOfNull) Kind() Kind { return KindNull }
func (*TypeOfNull) typeNode()  {}

type TypeOfUndefined struct{}

func (*TypeOfUndefined) Kind() Kind { return KindUndefined }
func (*TypeOfUndefined) typeNode()  {}

type TypeOfRegexp struct{}

func (*TypeOfRegexp) Kind() Kind { return KindRegexp }
func (*TypeOfRegexp) typeNode()  {}

var (
	TypeNever     = &TypeOfNever{}
	TypeAny       = &TypeOfAny{}
	TypeVoid      = &TypeOfVoid{}
	TypeString    = &TypeOfString{}
	TypeNumber    = &TypeOfNumber{}
	TypeBoolean   = &TypeOfBoolean{}
	TypeSymbol    = &TypeOfSymbol{}
	TypeBigInt    = &TypeOfBigInt{}
	TypeNull      = &TypeOfNull{}
	TypeUndefined = &TypeOfUndefined{}
	TypeRegexp    = &TypeOfRegexp{}
)

// NewNumber returns a number type narrowed by brand.
func NewNumber(brand NumberBrand) *TypeOfNumber {
	if brand == BrandNone {
		return TypeNumber
	}
	return &TypeOfNumber{Brand: brand}
}

// LookupPrimitive returns the payload-free type of kind k or nil if k is
// not a primitive kind.
func LookupPrimitive(k Kind) Type {
	switch k {
	case KindNever:
		return TypeNever
	case KindAny:
		return TypeAny
	case KindVoid:
		return TypeVoid
	case KindString:
		return TypeString
	case KindNumber:
		return TypeNumber
	case KindBoolean:
		return TypeBoolean
	case KindSymbol:
		return TypeSymbol
	case KindBigInt:
		return TypeBigInt
	case KindNull:
		return TypeNull
	case KindUndefined:
		return TypeUndefined
	case KindRegexp:
		return TypeRegexp
	}
	return nil
}

// IsPrimitive is true for kinds that carry no payload other than a number brand.
func IsPrimitive(typ Type) bool {
	return LookupPrimitive(typ.Kind()) != nil
}

// Symbol is a unique symbol value.  Two symbols are the same only if they
// are the same pointer.
type Symbol struct {
	Description string
}

func NewSymbol(description string) *Symbol {
	return &Symbol{Description: description}
}

func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol(%s)", s.Description)
}

// NewLiteral returns the literal type of v.  Go integer and float kinds are
// converted to float64.  NewLiteral panics if v cannot be a literal.
func NewLiteral(v any) *TypeLiteral {
	lit, ok := normalizeLiteral(v)
	if !ok {
		panic(fmt.Sprintf("deepkit.NewLiteral: unsupported literal type %T", v))
	}
	return &TypeLiteral{Value: lit}
}

// IsLiteralValue reports whether v can be carried by a TypeLiteral.
func IsLiteralValue(v any) bool {
	_, ok := normalizeLiteral(v)
	return ok
}

func normalizeLiteral(v any) (any, bool) {
	switch v := v.(type) {
	case string, float64, bool, *big.Int, *Symbol, *regexp.Regexp:
		return v, v != nil
	case float32:
		return float64(v), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	}
	return nil, false
}

// LiteralKind returns the primitive kind a literal value widens to.
func LiteralKind(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case float64:
		return KindNumber
	case bool:
		return KindBoolean
	case *big.Int:
		return KindBigInt
	case *Symbol:
		return KindSymbol
	case *regexp.Regexp:
		return KindRegexp
	}
	return KindNever
}
