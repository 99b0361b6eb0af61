package deepkit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"slices"
)

// AppendKey appends a binary encoding of typ to b such that two types have
// the same encoding if and only if IsSameType holds for them, with one
// exception: class types encode their identity and generic arguments but
// not their members, which are a function of the two.  Union and
// intersection members are encoded in sorted order.
func AppendKey(b []byte, typ Type) []byte {
	if typ == nil {
		return append(b, 0xff)
	}
	b = append(b, byte(typ.Kind()))
	switch t := typ.(type) {
	case *TypeOfNumber:
		b = binary.AppendUvarint(b, uint64(t.Brand))
	case *TypeLiteral:
		b = appendLiteral(b, t.Value)
	case *TypeTemplate:
		b = appendString(b, t.Name)
	case *TypeClass:
		b = appendString(b, t.Class.ID)
		if t.Arguments == nil {
			b = append(b, 0)
		} else {
			b = append(b, 1)
			b = appendList(b, t.Arguments)
		}
	case *TypeObjectLiteral:
		b = appendList(b, t.Types)
	case *TypeUnion:
		b = appendSorted(b, t.Types)
	case *TypeIntersection:
		b = appendSorted(b, t.Types)
	case *TypeArray:
		b = AppendKey(b, t.Type)
	case *TypeRest:
		b = AppendKey(b, t.Type)
	case *TypePromise:
		b = AppendKey(b, t.Type)
	case *TypeTuple:
		b = binary.AppendUvarint(b, uint64(len(t.Types)))
		for _, m := range t.Types {
			b = AppendKey(b, m)
		}
	case *TypeTupleMember:
		b = appendString(b, t.Name)
		b = appendBool(b, t.Optional)
		b = AppendKey(b, t.Type)
	case *TypeFunction:
		b = appendName(b, t.Name)
		b = appendParams(b, t.Parameters)
		b = AppendKey(b, t.Return)
	case *TypeMethod:
		b = appendName(b, t.Name)
		b = append(b, byte(t.Visibility))
		b = appendBool(b, t.Optional)
		b = appendBool(b, t.Abstract)
		b = appendParams(b, t.Parameters)
		b = AppendKey(b, t.Return)
	case *TypeMethodSignature:
		b = appendName(b, t.Name)
		b = appendBool(b, t.Optional)
		b = appendParams(b, t.Parameters)
		b = AppendKey(b, t.Return)
	case *TypeParameter:
		b = appendParam(b, t)
	case *TypeProperty:
		b = appendName(b, t.Name)
		b = append(b, byte(t.Visibility))
		b = appendBool(b, t.Optional)
		b = appendBool(b, t.Readonly)
		b = appendBool(b, t.Abstract)
		b = AppendKey(b, t.Type)
	case *TypePropertySignature:
		b = appendName(b, t.Name)
		b = appendBool(b, t.Optional)
		b = appendBool(b, t.Readonly)
		b = AppendKey(b, t.Type)
	case *TypeIndexSignature:
		b = AppendKey(b, t.Index)
		b = AppendKey(b, t.Type)
	case *TypeEnum:
		b = binary.AppendUvarint(b, uint64(len(t.Members)))
		for _, m := range t.Members {
			b = appendString(b, m.Name)
			b = appendLiteral(b, m.Value)
		}
	case *TypeEnumMember:
		b = appendString(b, t.Name)
		b = appendBool(b, t.HasDefault)
		b = appendString(b, fmt.Sprint(t.Default))
	case *TypeInfer:
		b = appendString(b, fmt.Sprintf("%p", t))
	}
	return b
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendLiteral(b []byte, v any) []byte {
	switch v := v.(type) {
	case nil:
		return append(b, 'n')
	case string:
		return appendString(append(b, 's'), v)
	case float64:
		return binary.LittleEndian.AppendUint64(append(b, 'f'), canonicalFloatBits(v))
	case bool:
		return appendBool(append(b, 'b'), v)
	case *big.Int:
		return appendString(append(b, 'i'), v.String())
	case *Symbol:
		return appendString(append(b, 'y'), fmt.Sprintf("%p", v))
	case *regexp.Regexp:
		return appendString(append(b, 'r'), v.String())
	}
	return appendString(append(b, '?'), fmt.Sprint(v))
}

// canonicalFloatBits maps every NaN to one encoding and -0 to 0, matching
// SameLiteral.
func canonicalFloatBits(v float64) uint64 {
	switch {
	case math.IsNaN(v):
		return math.Float64bits(math.NaN())
	case v == 0:
		return 0
	}
	return math.Float64bits(v)
}

func appendName(b []byte, name any) []byte {
	return appendLiteral(b, name)
}

func appendList(b []byte, types []Type) []byte {
	b = binary.AppendUvarint(b, uint64(len(types)))
	for _, t := range types {
		b = AppendKey(b, t)
	}
	return b
}

func appendSorted(b []byte, types []Type) []byte {
	keys := make([][]byte, 0, len(types))
	for _, t := range types {
		keys = append(keys, AppendKey(nil, t))
	}
	slices.SortFunc(keys, bytes.Compare)
	b = binary.AppendUvarint(b, uint64(len(keys)))
	for _, k := range keys {
		b = append(b, k...)
	}
	return b
}

func appendParams(b []byte, params []*TypeParameter) []byte {
	b = binary.AppendUvarint(b, uint64(len(params)))
	for _, p := range params {
		b = appendParam(b, p)
	}
	return b
}

func appendParam(b []byte, p *TypeParameter) []byte {
	b = appendString(b, p.Name)
	b = append(b, byte(p.Visibility))
	b = appendBool(b, p.Readonly)
	b = appendBool(b, p.Optional)
	return AppendKey(b, p.Type)
}
