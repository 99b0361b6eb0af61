// Package bytecode defines the instruction set executed by the type
// resolver, the Program container that pairs an instruction stream with its
// table of captured runtime values, and a textual assembler and
// disassembler for programs.
package bytecode

import "fmt"

// Op is an instruction opcode.  There are never more than 93 opcodes so an
// opcode always fits in one printable character of a compact encoding.
type Op byte

const (
	Never Op = iota
	Any
	Void

	String
	Number
	// NumberBrand has 1 operand, the NumberBrand of the number type.
	NumberBrand
	Boolean
	BigInt

	Symbol
	Null
	Undefined

	// Literal has 1 operand, the literal table index of the value.
	Literal

	// Function pops all types of the current frame: the parameters
	// followed by the return type.  It has 1 operand, the literal table
	// index of the name.  Pushes a function type.
	Function
	// Method and MethodSignature are laid out like Function.
	Method
	MethodSignature

	// Parameter pops the parameter type and has 1 operand, the name index.
	Parameter

	// Property and PropertySignature pop the value type and have 1
	// operand, the name index.
	Property
	PropertySignature

	// Constructor pops the current frame like Method for a method named
	// constructor.
	Constructor

	// Class pops all members of the current frame and pushes the class
	// type of the program's class.
	Class

	// ClassReference has 2 operands: the literal table index of the
	// class and the number of generic arguments to pop.
	ClassReference

	// Optional marks the member on top of the stack optional.
	Optional
	Readonly

	// Member modifiers applied to the entry on top of the stack.
	Public
	Private
	Protected
	Abstract
	// DefaultValue and Description have 1 operand, a literal table index.
	DefaultValue
	Description
	Rest

	Regexp

	Enum
	// EnumMember has 1 operand, the name index.
	EnumMember

	Set
	Map

	// Array pops the element type and pushes an array type.
	Array
	Tuple
	TupleMember
	// NamedTupleMember has 1 operand, the name index.
	NamedTupleMember

	// Union pops all types of the current frame.
	Union
	Intersection

	IndexSignature
	ObjectLiteral
	// MappedType has 2 operands: the address of the mapping function
	// and the modifier bitmask.
	MappedType

	// Frame opens a new stack frame.
	Frame
	Return

	// Shorthands for built-in classes.
	Date
	Int8Array
	Uint8ClampedArray
	Uint8Array
	Int16Array
	Uint16Array
	Int32Array
	Uint32Array
	Float32Array
	Float64Array
	BigInt64Array
	ArrayBuffer
	Promise

	// Arg has 1 operand and pushes the n-th argument of the current call.
	Arg
	// Template has 1 operand, the name index.  It pushes the next
	// argument of the current call or a template type when there is none.
	Template
	// TemplateDefault is like Template but pops the default used when
	// there is no argument.
	TemplateDefault
	// Var reserves a variable slot in the current frame.
	Var
	// Loads has 2 operands: the frame offset (0 is the current frame) and
	// the slot index within that frame.  It pushes the referenced entry.
	Loads

	IndexAccess
	Keyof
	// Infer has 2 operands like Loads and pushes a placeholder that binds
	// the referenced slot when matched by Extends.
	Infer
	// Typeof has 1 operand, the literal table index of a runtime value
	// whose inferred type is pushed.
	Typeof

	// Condition pops the else type, the then type, and a boolean.
	Condition
	// JumpCondition has 2 operands, the addresses jumped to when the
	// popped boolean is true or false, respectively.
	JumpCondition
	// Jump has 1 operand, the target address.
	Jump
	// Call has 2 operands: the target address and the number of
	// arguments popped and passed to the callee.
	Call
	// Inline has 1 operand, the literal table index of another program
	// whose resolved type is pushed.
	Inline
	// InlineCall has 2 operands like Inline plus an argument count.
	InlineCall

	// Extends pops right and left and pushes whether left extends right.
	Extends

	numOps
)

// Modifier bits of MappedType.
const (
	ModifierOptional       = 1 << 0
	ModifierRemoveOptional = 1 << 1
	ModifierReadonly       = 1 << 2
	ModifierRemoveReadonly = 1 << 3
)

var opNames = [...]string{
	Never:             "never",
	Any:               "any",
	Void:              "void",
	String:            "string",
	Number:            "number",
	NumberBrand:       "numberBrand",
	Boolean:           "boolean",
	BigInt:            "bigint",
	Symbol:            "symbol",
	Null:              "null",
	Undefined:         "undefined",
	Literal:           "literal",
	Function:          "function",
	Method:            "method",
	MethodSignature:   "methodSignature",
	Parameter:         "parameter",
	Property:          "property",
	PropertySignature: "propertySignature",
	Constructor:       "constructor",
	Class:             "class",
	ClassReference:    "classReference",
	Optional:          "optional",
	Readonly:          "readonly",
	Public:            "public",
	Private:           "private",
	Protected:         "protected",
	Abstract:          "abstract",
	DefaultValue:      "defaultValue",
	Description:       "description",
	Rest:              "rest",
	Regexp:            "regexp",
	Enum:              "enum",
	EnumMember:        "enumMember",
	Set:               "set",
	Map:               "map",
	Array:             "array",
	Tuple:             "tuple",
	TupleMember:       "tupleMember",
	NamedTupleMember:  "namedTupleMember",
	Union:             "union",
	Intersection:      "intersection",
	IndexSignature:    "indexSignature",
	ObjectLiteral:     "objectLiteral",
	MappedType:        "mappedType",
	Frame:             "frame",
	Return:            "return",
	Date:              "date",
	Int8Array:         "int8Array",
	Uint8ClampedArray: "uint8ClampedArray",
	Uint8Array:        "uint8Array",
	Int16Array:        "int16Array",
	Uint16Array:       "uint16Array",
	Int32Array:        "int32Array",
	Uint32Array:       "uint32Array",
	Float32Array:      "float32Array",
	Float64Array:      "float64Array",
	BigInt64Array:     "bigInt64Array",
	ArrayBuffer:       "arrayBuffer",
	Promise:           "promise",
	Arg:               "arg",
	Template:          "template",
	TemplateDefault:   "templateDefault",
	Var:               "var",
	Loads:             "loads",
	IndexAccess:       "indexAccess",
	Keyof:             "keyof",
	Infer:             "infer",
	Typeof:            "typeof",
	Condition:         "condition",
	JumpCondition:     "jumpCondition",
	Jump:              "jump",
	Call:              "call",
	Inline:            "inline",
	InlineCall:        "inlineCall",
	Extends:           "extends",
}

func (o Op) String() string {
	if o < numOps {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Valid is true for defined opcodes.
func (o Op) Valid() bool {
	return o < numOps
}

// Arity returns the number of operands following the opcode.
func (o Op) Arity() int {
	switch o {
	case NumberBrand, Literal, Function, Method, MethodSignature, Parameter,
		Property, PropertySignature, DefaultValue, Description, EnumMember,
		NamedTupleMember, Arg, Template, TemplateDefault, Typeof, Jump, Inline:
		return 1
	case ClassReference, MappedType, Loads, Infer, JumpCondition, Call, InlineCall:
		return 2
	}
	return 0
}

// LookupOp returns the opcode with the given name.
func LookupOp(name string) (Op, bool) {
	for k, s := range opNames {
		if s == name {
			return Op(k), true
		}
	}
	return 0, false
}

// OpNames returns the names of all opcodes in opcode order.
func OpNames() []string {
	return append([]string(nil), opNames[:]...)
}

// addressOperands returns the indexes of the operands of o that are code
// addresses.
func addressOperands(o Op) []int {
	switch o {
	case Jump, Call, MappedType:
		return []int{0}
	case JumpCondition:
		return []int{0, 1}
	}
	return nil
}

// literalOperand returns the index of the operand of o that refers to the
// literal table or -1.
func literalOperand(o Op) int {
	switch o {
	case Literal, Function, Method, MethodSignature, Parameter, Property,
		PropertySignature, DefaultValue, Description, EnumMember,
		NamedTupleMember, Template, TemplateDefault, Typeof, ClassReference,
		Inline, InlineCall:
		return 0
	}
	return -1
}
