package deepkit

import "fmt"

// Kind discriminates the variants of Type.  The order matches the kind
// numbering used by emitted programs and must not be changed.
type Kind int

const (
	KindNever Kind = iota
	KindAny
	KindVoid
	KindString
	KindNumber
	KindBoolean
	KindSymbol
	KindBigInt
	KindNull
	KindUndefined

	KindLiteral
	KindProperty
	KindMethod
	KindFunction
	KindParameter

	KindPromise

	// KindClass covers Date, Set, Map, typed arrays and user classes.
	KindClass

	KindTemplate
	KindEnum
	KindUnion
	KindIntersection

	KindArray
	KindTuple
	KindTupleMember
	KindEnumMember

	KindRest
	KindRegexp

	KindObjectLiteral
	KindIndexSignature
	KindPropertySignature
	KindMethodSignature

	KindInfer
)

var kindNames = [...]string{
	KindNever:             "never",
	KindAny:               "any",
	KindVoid:              "void",
	KindString:            "string",
	KindNumber:            "number",
	KindBoolean:           "boolean",
	KindSymbol:            "symbol",
	KindBigInt:            "bigint",
	KindNull:              "null",
	KindUndefined:         "undefined",
	KindLiteral:           "literal",
	KindProperty:          "property",
	KindMethod:            "method",
	KindFunction:          "function",
	KindParameter:         "parameter",
	KindPromise:           "promise",
	KindClass:             "class",
	KindTemplate:          "template",
	KindEnum:              "enum",
	KindUnion:             "union",
	KindIntersection:      "intersection",
	KindArray:             "array",
	KindTuple:             "tuple",
	KindTupleMember:       "tupleMember",
	KindEnumMember:        "enumMember",
	KindRest:              "rest",
	KindRegexp:            "regexp",
	KindObjectLiteral:     "objectLiteral",
	KindIndexSignature:    "indexSignature",
	KindPropertySignature: "propertySignature",
	KindMethodSignature:   "methodSignature",
	KindInfer:             "infer",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// NumberBrand narrows the semantics of a number type (e.g., for database
// column mapping).  It never changes the representation.  Checks on brands
// are range checks so new brands must be appended in order.
type NumberBrand int

const (
	BrandNone NumberBrand = iota
	BrandInteger

	BrandInt8
	BrandInt16
	BrandInt32

	BrandUint8
	BrandUint16
	BrandUint32

	BrandFloat
	BrandFloat32
	BrandFloat64
)

var brandNames = [...]string{
	BrandNone:    "",
	BrandInteger: "integer",
	BrandInt8:    "int8",
	BrandInt16:   "int16",
	BrandInt32:   "int32",
	BrandUint8:   "uint8",
	BrandUint16:  "uint16",
	BrandUint32:  "uint32",
	BrandFloat:   "float",
	BrandFloat32: "float32",
	BrandFloat64: "float64",
}

func (b NumberBrand) String() string {
	if b >= 0 && int(b) < len(brandNames) {
		return brandNames[b]
	}
	return fmt.Sprintf("NumberBrand(%d)", int(b))
}

// IsInteger is true for the integer brand and all fixed-width integer brands.
func (b NumberBrand) IsInteger() bool {
	return b >= BrandInteger && b <= BrandUint32
}

func (b NumberBrand) IsFloat() bool {
	return b >= BrandFloat && b <= BrandFloat64
}

// LookupBrand returns the brand with the given name.
func LookupBrand(name string) (NumberBrand, bool) {
	for k, s := range brandNames {
		if s == name && k != int(BrandNone) {
			return NumberBrand(k), true
		}
	}
	return BrandNone, false
}
