package deepkit

import (
	"reflect"

	"github.com/segmentio/ksuid"
)

// Class is the identity of a class.  Class types compare equal only when
// they carry the same *Class.  GoType optionally ties the class to the Go
// type whose values it describes so value inference can find the class.
type Class struct {
	ID     string
	Name   string
	GoType reflect.Type
}

// NewClass returns a new class identity with a unique ID.
func NewClass(name string) *Class {
	return &Class{ID: ksuid.New().String(), Name: name}
}

// NewClassFor returns a new class identity bound to Go type t.
func NewClassFor(name string, t reflect.Type) *Class {
	c := NewClass(name)
	c.GoType = t
	return c
}

func (c *Class) String() string {
	return c.Name
}

func builtin(name string) *Class {
	return &Class{ID: "builtin:" + name, Name: name}
}

var (
	ClassDate              = builtin("Date")
	ClassSet               = builtin("Set")
	ClassMap               = builtin("Map")
	ClassInt8Array         = builtin("Int8Array")
	ClassUint8ClampedArray = builtin("Uint8ClampedArray")
	ClassUint8Array        = builtin("Uint8Array")
	ClassInt16Array        = builtin("Int16Array")
	ClassUint16Array       = builtin("Uint16Array")
	ClassInt32Array        = builtin("Int32Array")
	ClassUint32Array       = builtin("Uint32Array")
	ClassFloat32Array      = builtin("Float32Array")
	ClassFloat64Array      = builtin("Float64Array")
	ClassBigInt64Array     = builtin("BigInt64Array")
	ClassArrayBuffer       = builtin("ArrayBuffer")
)

var builtins = []*Class{
	ClassDate, ClassSet, ClassMap,
	ClassInt8Array, ClassUint8ClampedArray, ClassUint8Array,
	ClassInt16Array, ClassUint16Array, ClassInt32Array, ClassUint32Array,
	ClassFloat32Array, ClassFloat64Array, ClassBigInt64Array, ClassArrayBuffer,
}

// LookupBuiltinClass returns the built-in class with the given name.
func LookupBuiltinClass(name string) *Class {
	for _, c := range builtins {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IsBuiltinClass is true for Date, Set, Map, the typed arrays, and ArrayBuffer.
func IsBuiltinClass(c *Class) bool {
	for _, b := range builtins {
		if b == c {
			return true
		}
	}
	return false
}

// NewBuiltin returns the type of a built-in class without members.
func NewBuiltin(c *Class, args ...Type) *TypeClass {
	return &TypeClass{Class: c, Arguments: args, Types: []Type{}}
}

// NewSetType returns Set<elem>.
func NewSetType(elem Type) *TypeClass {
	return NewBuiltin(ClassSet, elem)
}

// NewMapType returns Map<key, val>.
func NewMapType(key, val Type) *TypeClass {
	return NewBuiltin(ClassMap, key, val)
}
