package runtime

import (
	"context"
	"math/big"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	deepkit "github.com/wilcoxmd/deepkit-framework"
)

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// Undefined is inferred as the undefined type.  A nil value is inferred as
// null.
var Undefined = UndefinedValue{}

var (
	bigIntType  = reflect.TypeFor[*big.Int]()
	regexpType  = reflect.TypeFor[*regexp.Regexp]()
	symbolType  = reflect.TypeFor[*deepkit.Symbol]()
	timeType    = reflect.TypeFor[time.Time]()
	errorType   = reflect.TypeFor[error]()
	emptyStruct = reflect.TypeFor[struct{}]()
)

// Infer returns the structural type of the Go value v without consulting
// any registry.
//
//   - nil is null and Undefined is undefined.
//   - strings, booleans, and numbers are literals; *big.Int is a bigint
//     literal and *deepkit.Symbol a symbol literal.
//   - *regexp.Regexp is regexp and time.Time is Date.
//   - []byte is Uint8Array; other slices and arrays are arrays of the
//     union of their widened element types (any if empty).
//   - map[K]struct{} is Set<K>, maps with string keys and structs are
//     object literals, and other maps are Map<K, V>.
//   - functions are function types built from their Go signature.
//   - a pointer, map, or slice reached again through itself is any.
//
// Infer returns any for a value whose containers nest deeper than
// DefaultMaxDepth.  Resolver.Infer reports that case as an error.
func Infer(v any) deepkit.Type {
	s := &session{Resolver: &Resolver{config: DefaultConfig()}, ctx: context.Background()}
	typ, err := s.inferValue(reflect.ValueOf(v))
	if err != nil {
		return deepkit.TypeAny
	}
	return typ
}

// visit identifies a reference value on the current inference path.
type visit struct {
	ptr uintptr
	typ reflect.Type
}

// enter marks v as being inferred and returns a function that unmarks
// it.  It returns false if v is already on the path.
func (s *session) enter(v reflect.Value) (func(), bool, error) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() || (v.Kind() == reflect.Slice && v.Len() == 0) {
			return func() {}, true, nil
		}
		key := visit{v.Pointer(), v.Type()}
		if _, ok := s.visiting[key]; ok {
			return nil, false, nil
		}
		if s.visiting == nil {
			s.visiting = make(map[visit]struct{})
		}
		if v.Kind() == reflect.Pointer {
			s.visiting[key] = struct{}{}
			return func() { delete(s.visiting, key) }, true, nil
		}
		exit, err := s.nest(v)
		if err != nil {
			return nil, false, err
		}
		s.visiting[key] = struct{}{}
		return func() {
			delete(s.visiting, key)
			exit()
		}, true, nil
	case reflect.Array, reflect.Struct:
		exit, err := s.nest(v)
		return exit, err == nil, err
	}
	return func() {}, true, nil
}

func (s *session) nest(v reflect.Value) (func(), error) {
	if s.valueDepth >= s.config.MaxDepth {
		return nil, &RecursionLimitError{Program: v.Type().String(), Limit: s.config.MaxDepth}
	}
	s.valueDepth++
	return func() { s.valueDepth-- }, nil
}

// inferValue infers the type of v.  When the session has a registry,
// values of bound Go types resolve to their declared class type.
func (s *session) inferValue(v reflect.Value) (deepkit.Type, error) {
	if !v.IsValid() {
		return deepkit.TypeNull, nil
	}
	if typ, ok, err := s.inferRegistered(v.Type()); ok || err != nil {
		return typ, err
	}
	switch v.Type() {
	case reflect.TypeFor[UndefinedValue]():
		return deepkit.TypeUndefined, nil
	case bigIntType, symbolType:
		if v.IsNil() {
			return deepkit.TypeNull, nil
		}
		return deepkit.NewLiteral(v.Interface()), nil
	case regexpType:
		if v.IsNil() {
			return deepkit.TypeNull, nil
		}
		return deepkit.TypeRegexp, nil
	case timeType:
		return deepkit.NewBuiltin(deepkit.ClassDate), nil
	}
	exit, ok, err := s.enter(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return deepkit.TypeAny, nil
	}
	defer exit()
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return deepkit.NewLiteral(v.Interface()), nil
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return deepkit.TypeNull, nil
		}
		return s.inferValue(v.Elem())
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return deepkit.NewBuiltin(deepkit.ClassUint8Array), nil
		}
		if v.IsNil() {
			return deepkit.TypeNull, nil
		}
		return s.inferArray(v)
	case reflect.Array:
		return s.inferArray(v)
	case reflect.Map:
		if v.IsNil() {
			return deepkit.TypeNull, nil
		}
		return s.inferMap(v)
	case reflect.Struct:
		return s.inferStruct(v)
	case reflect.Func:
		return s.goType(v.Type(), nil)
	}
	return deepkit.TypeAny, nil
}

func (s *session) inferRegistered(t reflect.Type) (deepkit.Type, bool, error) {
	if s.registry == nil {
		return nil, false, nil
	}
	c, ok := s.registry.ClassOf(t)
	if !ok && t.Kind() == reflect.Pointer {
		c, ok = s.registry.ClassOf(t.Elem())
	}
	if !ok {
		return nil, false, nil
	}
	typ, err := s.resolveClass(c, nil)
	return typ, true, err
}

// widenedUnion infers each value, widens literals, and returns the
// deduplicated union or any if there are no values.
func (s *session) widenedUnion(n int, value func(int) reflect.Value) (deepkit.Type, error) {
	if n == 0 {
		return deepkit.TypeAny, nil
	}
	types := make([]deepkit.Type, 0, n)
	for k := range n {
		typ, err := s.inferValue(value(k))
		if err != nil {
			return nil, err
		}
		types = append(types, deepkit.WidenLiteral(typ))
	}
	return deepkit.NewUnion(types...), nil
}

func (s *session) inferArray(v reflect.Value) (deepkit.Type, error) {
	elem, err := s.widenedUnion(v.Len(), v.Index)
	if err != nil {
		return nil, err
	}
	return &deepkit.TypeArray{Type: elem}, nil
}

func (s *session) inferMap(v reflect.Value) (deepkit.Type, error) {
	keys := v.MapKeys()
	mt := v.Type()
	if mt.Key().Kind() == reflect.String && mt.Elem() != emptyStruct {
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		members := make([]deepkit.Type, 0, len(keys))
		for _, key := range keys {
			member, err := s.inferMember(key.String(), v.MapIndex(key))
			if err != nil {
				return nil, err
			}
			members = append(members, member)
		}
		return &deepkit.TypeObjectLiteral{Types: members}, nil
	}
	keyType, err := s.widenedUnion(len(keys), func(k int) reflect.Value { return keys[k] })
	if err != nil {
		return nil, err
	}
	if mt.Elem() == emptyStruct {
		return deepkit.NewSetType(keyType), nil
	}
	valType, err := s.widenedUnion(len(keys), func(k int) reflect.Value { return v.MapIndex(keys[k]) })
	if err != nil {
		return nil, err
	}
	return deepkit.NewMapType(keyType, valType), nil
}

// inferMember infers an object literal member: a method signature for a
// function and otherwise a property signature whose literal type is
// widened.
func (s *session) inferMember(name string, v reflect.Value) (deepkit.Type, error) {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() == reflect.Func {
		params, ret, err := s.goSignature(v.Type(), nil)
		if err != nil {
			return nil, err
		}
		return &deepkit.TypeMethodSignature{Name: name, Parameters: params, Return: ret}, nil
	}
	typ, err := s.inferValue(v)
	if err != nil {
		return nil, err
	}
	return &deepkit.TypePropertySignature{Name: name, Type: deepkit.WidenLiteral(typ)}, nil
}

func (s *session) inferStruct(v reflect.Value) (deepkit.Type, error) {
	members := []deepkit.Type{}
	for _, field := range reflect.VisibleFields(v.Type()) {
		name, ok := fieldName(field)
		if !ok {
			continue
		}
		fv, err := v.FieldByIndexErr(field.Index)
		if err != nil || !fv.CanInterface() {
			continue
		}
		member, err := s.inferMember(name, fv)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return &deepkit.TypeObjectLiteral{Types: members}, nil
}

// fieldName returns the member name of a struct field following the
// encoding/json conventions.  Embedded structs are flattened.
func fieldName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	if f.Anonymous {
		t := f.Type
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() == reflect.Struct {
			return "", false
		}
	}
	return f.Name, true
}

// goType returns the type describing all values of Go type t.  active
// holds the struct types being described to cut off recursion.
func (s *session) goType(t reflect.Type, active []reflect.Type) (deepkit.Type, error) {
	if typ, ok, err := s.inferRegistered(t); ok || err != nil {
		return typ, err
	}
	switch t {
	case bigIntType:
		return deepkit.TypeBigInt, nil
	case symbolType:
		return deepkit.TypeSymbol, nil
	case regexpType:
		return deepkit.TypeRegexp, nil
	case timeType:
		return deepkit.NewBuiltin(deepkit.ClassDate), nil
	}
	switch t.Kind() {
	case reflect.String:
		return deepkit.TypeString, nil
	case reflect.Bool:
		return deepkit.TypeBoolean, nil
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return deepkit.NewNumber(deepkit.BrandInteger), nil
	case reflect.Int8:
		return deepkit.NewNumber(deepkit.BrandInt8), nil
	case reflect.Int16:
		return deepkit.NewNumber(deepkit.BrandInt16), nil
	case reflect.Int32:
		return deepkit.NewNumber(deepkit.BrandInt32), nil
	case reflect.Uint8:
		return deepkit.NewNumber(deepkit.BrandUint8), nil
	case reflect.Uint16:
		return deepkit.NewNumber(deepkit.BrandUint16), nil
	case reflect.Uint32:
		return deepkit.NewNumber(deepkit.BrandUint32), nil
	case reflect.Float32:
		return deepkit.NewNumber(deepkit.BrandFloat32), nil
	case reflect.Float64:
		return deepkit.TypeNumber, nil
	case reflect.Pointer:
		return s.goType(t.Elem(), active)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return deepkit.NewBuiltin(deepkit.ClassUint8Array), nil
		}
		elem, err := s.goType(t.Elem(), active)
		if err != nil {
			return nil, err
		}
		return &deepkit.TypeArray{Type: elem}, nil
	case reflect.Map:
		key, err := s.goType(t.Key(), active)
		if err != nil {
			return nil, err
		}
		if t.Elem() == emptyStruct {
			return deepkit.NewSetType(key), nil
		}
		val, err := s.goType(t.Elem(), active)
		if err != nil {
			return nil, err
		}
		if t.Key().Kind() == reflect.String {
			return &deepkit.TypeObjectLiteral{Types: []deepkit.Type{
				&deepkit.TypeIndexSignature{Index: deepkit.TypeString, Type: val},
			}}, nil
		}
		return deepkit.NewMapType(key, val), nil
	case reflect.Struct:
		if slices.Contains(active, t) {
			return deepkit.TypeAny, nil
		}
		active = append(active, t)
		members := []deepkit.Type{}
		for _, field := range reflect.VisibleFields(t) {
			name, ok := fieldName(field)
			if !ok {
				continue
			}
			if field.Type.Kind() == reflect.Func {
				params, ret, err := s.goSignature(field.Type, active)
				if err != nil {
					return nil, err
				}
				members = append(members, &deepkit.TypeMethodSignature{Name: name, Parameters: params, Return: ret})
				continue
			}
			typ, err := s.goType(field.Type, active)
			if err != nil {
				return nil, err
			}
			members = append(members, &deepkit.TypePropertySignature{Name: name, Type: typ})
		}
		return &deepkit.TypeObjectLiteral{Types: members}, nil
	case reflect.Func:
		params, ret, err := s.goSignature(t, active)
		if err != nil {
			return nil, err
		}
		return &deepkit.TypeFunction{Parameters: params, Return: ret}, nil
	}
	return deepkit.TypeAny, nil
}

// goSignature describes a Go function type.  A trailing error result is
// dropped, no results is void, and several results are a tuple.
func (s *session) goSignature(t reflect.Type, active []reflect.Type) ([]*deepkit.TypeParameter, deepkit.Type, error) {
	params := make([]*deepkit.TypeParameter, 0, t.NumIn())
	for k := range t.NumIn() {
		in := t.In(k)
		param := &deepkit.TypeParameter{Name: "arg" + strconv.Itoa(k)}
		if t.IsVariadic() && k == t.NumIn()-1 {
			elem, err := s.goType(in.Elem(), active)
			if err != nil {
				return nil, nil, err
			}
			param.Type = &deepkit.TypeRest{Type: elem}
		} else {
			typ, err := s.goType(in, active)
			if err != nil {
				return nil, nil, err
			}
			param.Type = typ
		}
		params = append(params, param)
	}
	var outs []reflect.Type
	for k := range t.NumOut() {
		outs = append(outs, t.Out(k))
	}
	if n := len(outs); n > 0 && outs[n-1] == errorType {
		outs = outs[:n-1]
	}
	switch len(outs) {
	case 0:
		return params, deepkit.TypeVoid, nil
	case 1:
		ret, err := s.goType(outs[0], active)
		return params, ret, err
	}
	tuple := &deepkit.TypeTuple{}
	for _, out := range outs {
		typ, err := s.goType(out, active)
		if err != nil {
			return nil, nil, err
		}
		tuple.Types = append(tuple.Types, &deepkit.TypeTupleMember{Type: typ})
	}
	return params, tuple, nil
}
