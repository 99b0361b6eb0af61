package runtime

import (
	"fmt"
	"reflect"

	deepkit "github.com/wilcoxmd/deepkit-framework"
	"github.com/wilcoxmd/deepkit-framework/bytecode"
	"go.uber.org/zap"
)

// Return addresses of frames that are not entered by the call instruction.
const (
	retBlock = -1 // opened by the frame instruction
	retHost  = -2 // entered from Go; returning from it ends run
)

type frame struct {
	start int
	ret   int
	// inputs are the arguments of a call or host frame, consumed in
	// order by template instructions.
	inputs   []deepkit.Type
	consumed int
}

// machine executes one program.  Its stack holds deepkit.Type values and
// the booleans pushed by extends.  The stack is partitioned into frames;
// composite instructions pop every value of the current frame.
type machine struct {
	*session
	prog   *bytecode.Program
	self   *deepkit.TypeClass
	stack  []any
	frames []frame
	calls  int
	pc     int
	// infers are the placeholders created by infer instructions.  Their
	// callbacks write into stack and are released when the program ends.
	infers []*deepkit.TypeInfer
	// addr and op identify the executing instruction for errors.
	addr int
	op   bytecode.Op
}

func newMachine(s *session, p *bytecode.Program, args []deepkit.Type, self *deepkit.TypeClass) *machine {
	m := &machine{
		session: s,
		prog:    p,
		self:    self,
		stack:   make([]any, 0, 32),
	}
	m.frames = append(m.frames, frame{ret: retHost, inputs: args})
	return m
}

func (m *machine) exec() (deepkit.Type, error) {
	defer func() {
		for _, t := range m.infers {
			t.Release()
		}
		m.infers = nil
	}()
	return m.run()
}

// run executes instructions until the innermost host frame returns.
func (m *machine) run() (deepkit.Type, error) {
	code := m.prog.Code
	for {
		if m.pc >= len(code) {
			return m.halt()
		}
		m.addr = m.pc
		m.op = bytecode.Op(code[m.pc])
		operands := code[m.pc+1 : m.pc+1+m.op.Arity()]
		m.pc += 1 + len(operands)
		m.steps++
		if m.steps > m.config.MaxSteps {
			return nil, m.errorf("step limit %d exceeded", m.config.MaxSteps)
		}
		if m.steps%1024 == 0 {
			if err := m.ctx.Err(); err != nil {
				return nil, err
			}
		}
		if m.config.Trace {
			m.logger.Debug("Exec",
				zap.String("program", m.prog.Name),
				zap.Int("addr", m.addr),
				zap.Stringer("op", m.op),
				zap.Ints("operands", operands),
				zap.Int("stack", len(m.stack)))
		}
		typ, done, err := m.step(operands)
		if err != nil {
			return nil, err
		}
		if done {
			return typ, nil
		}
		if len(m.stack) > m.config.MaxStack {
			return nil, m.errorf("stack overflow (limit %d)", m.config.MaxStack)
		}
	}
}

// halt ends execution at the end of the code, which must be reached in a
// host frame.  The result is the value on top of the stack.
func (m *machine) halt() (deepkit.Type, error) {
	m.addr, m.op = len(m.prog.Code), 0
	if f := m.frames[len(m.frames)-1]; f.ret != retHost {
		return nil, m.errorf("end of program in unterminated frame")
	}
	typ, err := m.popType()
	if err != nil {
		return nil, err
	}
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	m.stack = m.stack[:f.start]
	return typ, nil
}

func (m *machine) step(operands []int) (deepkit.Type, bool, error) {
	switch op := m.op; op {
	case bytecode.Never:
		m.push(deepkit.TypeNever)
	case bytecode.Any:
		m.push(deepkit.TypeAny)
	case bytecode.Void:
		m.push(deepkit.TypeVoid)
	case bytecode.String:
		m.push(deepkit.TypeString)
	case bytecode.Number:
		m.push(deepkit.TypeNumber)
	case bytecode.NumberBrand:
		brand := deepkit.NumberBrand(operands[0])
		if brand < deepkit.BrandNone || brand > deepkit.BrandFloat64 {
			return nil, false, m.errorf("unknown number brand %d", operands[0])
		}
		m.push(deepkit.NewNumber(brand))
	case bytecode.Boolean:
		m.push(deepkit.TypeBoolean)
	case bytecode.BigInt:
		m.push(deepkit.TypeBigInt)
	case bytecode.Symbol:
		m.push(deepkit.TypeSymbol)
	case bytecode.Null:
		m.push(deepkit.TypeNull)
	case bytecode.Undefined:
		m.push(deepkit.TypeUndefined)
	case bytecode.Regexp:
		m.push(deepkit.TypeRegexp)
	case bytecode.Literal:
		v := m.literal(operands[0])
		if v == nil {
			m.push(deepkit.TypeUndefined)
			break
		}
		if !deepkit.IsLiteralValue(v) {
			return nil, false, m.errorf("literal %d: %T is not a literal value", operands[0], v)
		}
		m.push(deepkit.NewLiteral(v))
	case bytecode.Function:
		params, ret, err := m.popSignature()
		if err != nil {
			return nil, false, err
		}
		m.push(&deepkit.TypeFunction{Name: m.literal(operands[0]), Parameters: params, Return: ret})
	case bytecode.Method, bytecode.Constructor:
		var name any = "constructor"
		if op == bytecode.Method {
			var err error
			if name, err = m.memberName(operands[0]); err != nil {
				return nil, false, err
			}
		}
		params, ret, err := m.popSignature()
		if err != nil {
			return nil, false, err
		}
		m.push(&deepkit.TypeMethod{Name: name, Parameters: params, Return: ret})
	case bytecode.MethodSignature:
		name, err := m.memberName(operands[0])
		if err != nil {
			return nil, false, err
		}
		params, ret, err := m.popSignature()
		if err != nil {
			return nil, false, err
		}
		m.push(&deepkit.TypeMethodSignature{Name: name, Parameters: params, Return: ret})
	case bytecode.Parameter:
		name, err := m.stringLiteral(operands[0])
		if err != nil {
			return nil, false, err
		}
		typ, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		m.push(&deepkit.TypeParameter{Name: name, Type: typ})
	case bytecode.Property, bytecode.PropertySignature:
		name, err := m.memberName(operands[0])
		if err != nil {
			return nil, false, err
		}
		typ, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		if op == bytecode.Property {
			m.push(&deepkit.TypeProperty{Name: name, Type: typ})
		} else {
			m.push(&deepkit.TypePropertySignature{Name: name, Type: typ})
		}
	case bytecode.Class:
		if err := m.class(); err != nil {
			return nil, false, err
		}
	case bytecode.ClassReference:
		args, err := m.popArgs(operands[1])
		if err != nil {
			return nil, false, err
		}
		typ, err := m.resolveClass(m.literal(operands[0]).(*deepkit.Class), args)
		if err != nil {
			return nil, false, err
		}
		m.push(typ)
	case bytecode.Optional, bytecode.Readonly, bytecode.Public, bytecode.Private,
		bytecode.Protected, bytecode.Abstract:
		if err := m.modify(nil); err != nil {
			return nil, false, err
		}
	case bytecode.DefaultValue, bytecode.Description:
		if err := m.modify(m.literal(operands[0])); err != nil {
			return nil, false, err
		}
	case bytecode.Rest, bytecode.Array, bytecode.Promise, bytecode.Set,
		bytecode.TupleMember:
		typ, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		switch op {
		case bytecode.Rest:
			m.push(&deepkit.TypeRest{Type: typ})
		case bytecode.Array:
			m.push(&deepkit.TypeArray{Type: typ})
		case bytecode.Promise:
			m.push(&deepkit.TypePromise{Type: typ})
		case bytecode.Set:
			m.push(deepkit.NewSetType(typ))
		case bytecode.TupleMember:
			m.push(&deepkit.TypeTupleMember{Type: typ})
		}
	case bytecode.NamedTupleMember:
		name, err := m.stringLiteral(operands[0])
		if err != nil {
			return nil, false, err
		}
		typ, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		m.push(&deepkit.TypeTupleMember{Type: typ, Name: name})
	case bytecode.Map, bytecode.IndexSignature, bytecode.IndexAccess:
		second, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		first, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		switch op {
		case bytecode.Map:
			m.push(deepkit.NewMapType(first, second))
		case bytecode.IndexSignature:
			m.push(&deepkit.TypeIndexSignature{Index: first, Type: second})
		case bytecode.IndexAccess:
			m.push(deepkit.IndexAccess(first, second))
		}
	case bytecode.Enum:
		if err := m.enum(); err != nil {
			return nil, false, err
		}
	case bytecode.EnumMember:
		name, err := m.stringLiteral(operands[0])
		if err != nil {
			return nil, false, err
		}
		m.push(&deepkit.TypeEnumMember{Name: name})
	case bytecode.Tuple:
		types, err := m.popFrame()
		if err != nil {
			return nil, false, err
		}
		m.push(newTuple(types))
	case bytecode.Union, bytecode.Intersection:
		types, err := m.popFrame()
		if err != nil {
			return nil, false, err
		}
		if op == bytecode.Union {
			m.push(deepkit.NewUnion(types...))
		} else {
			m.push(deepkit.NewIntersection(types...))
		}
	case bytecode.ObjectLiteral:
		if err := m.objectLiteral(); err != nil {
			return nil, false, err
		}
	case bytecode.MappedType:
		if err := m.mappedType(operands[0], operands[1]); err != nil {
			return nil, false, err
		}
	case bytecode.Frame:
		m.frames = append(m.frames, frame{start: len(m.stack), ret: retBlock})
	case bytecode.Return:
		return m.ret()
	case bytecode.Date, bytecode.Int8Array, bytecode.Uint8ClampedArray,
		bytecode.Uint8Array, bytecode.Int16Array, bytecode.Uint16Array,
		bytecode.Int32Array, bytecode.Uint32Array, bytecode.Float32Array,
		bytecode.Float64Array, bytecode.BigInt64Array, bytecode.ArrayBuffer:
		m.push(deepkit.NewBuiltin(builtinClasses[op]))
	case bytecode.Arg:
		f := m.callFrame()
		if n := operands[0]; n < 0 || n >= len(f.inputs) {
			return nil, false, m.errorf("argument %d out of range (%d arguments)", n, len(f.inputs))
		}
		m.push(f.inputs[operands[0]])
	case bytecode.Template, bytecode.TemplateDefault:
		name, err := m.stringLiteral(operands[0])
		if err != nil {
			return nil, false, err
		}
		var def deepkit.Type = &deepkit.TypeTemplate{Name: name}
		if op == bytecode.TemplateDefault {
			if def, err = m.popType(); err != nil {
				return nil, false, err
			}
		}
		f := m.callFrame()
		if f.consumed < len(f.inputs) {
			def = f.inputs[f.consumed]
			f.consumed++
		}
		m.push(def)
	case bytecode.Var:
		m.push(deepkit.TypeNever)
	case bytecode.Loads:
		idx, err := m.slot(operands[0], operands[1])
		if err != nil {
			return nil, false, err
		}
		m.push(m.stack[idx])
	case bytecode.Infer:
		idx, err := m.slot(operands[0], operands[1])
		if err != nil {
			return nil, false, err
		}
		placeholder := deepkit.NewTypeInfer(func(typ deepkit.Type) {
			if idx < len(m.stack) {
				m.stack[idx] = typ
			}
		})
		m.infers = append(m.infers, placeholder)
		m.push(placeholder)
	case bytecode.Keyof:
		typ, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		m.push(deepkit.Keyof(typ))
	case bytecode.Typeof:
		typ, err := m.inferValue(reflect.ValueOf(m.literal(operands[0])))
		if err != nil {
			return nil, false, err
		}
		m.push(typ)
	case bytecode.Condition:
		elseType, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		thenType, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		cond, err := m.popBool()
		if err != nil {
			return nil, false, err
		}
		if cond {
			m.push(thenType)
		} else {
			m.push(elseType)
		}
	case bytecode.JumpCondition:
		cond, err := m.popBool()
		if err != nil {
			return nil, false, err
		}
		if cond {
			m.pc = operands[0]
		} else {
			m.pc = operands[1]
		}
	case bytecode.Jump:
		m.pc = operands[0]
	case bytecode.Call:
		args, err := m.popArgs(operands[1])
		if err != nil {
			return nil, false, err
		}
		if err := m.enterCall(); err != nil {
			return nil, false, err
		}
		m.frames = append(m.frames, frame{start: len(m.stack), ret: m.pc, inputs: args})
		m.pc = operands[0]
	case bytecode.Inline, bytecode.InlineCall:
		var args []deepkit.Type
		if op == bytecode.InlineCall {
			var err error
			if args, err = m.popArgs(operands[1]); err != nil {
				return nil, false, err
			}
		}
		typ, err := m.resolve(m.literal(operands[0]).(*bytecode.Program), args)
		if err != nil {
			return nil, false, err
		}
		m.push(typ)
	case bytecode.Extends:
		right, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		left, err := m.popType()
		if err != nil {
			return nil, false, err
		}
		m.push(deepkit.IsExtendable(left, right))
	default:
		return nil, false, m.errorf("unknown opcode %d", int(op))
	}
	return nil, false, nil
}

var builtinClasses = map[bytecode.Op]*deepkit.Class{
	bytecode.Date:              deepkit.ClassDate,
	bytecode.Int8Array:         deepkit.ClassInt8Array,
	bytecode.Uint8ClampedArray: deepkit.ClassUint8ClampedArray,
	bytecode.Uint8Array:        deepkit.ClassUint8Array,
	bytecode.Int16Array:        deepkit.ClassInt16Array,
	bytecode.Uint16Array:       deepkit.ClassUint16Array,
	bytecode.Int32Array:        deepkit.ClassInt32Array,
	bytecode.Uint32Array:       deepkit.ClassUint32Array,
	bytecode.Float32Array:      deepkit.ClassFloat32Array,
	bytecode.Float64Array:      deepkit.ClassFloat64Array,
	bytecode.BigInt64Array:     deepkit.ClassBigInt64Array,
	bytecode.ArrayBuffer:       deepkit.ClassArrayBuffer,
}

func (m *machine) errorf(format string, args ...any) error {
	return &MalformedProgramError{
		Program: m.prog.Name,
		Addr:    m.addr,
		Op:      m.op,
		Msg:     fmt.Sprintf(format, args...),
	}
}

func (m *machine) push(v any) {
	m.stack = append(m.stack, v)
}

func (m *machine) pop() (any, error) {
	if len(m.stack) <= m.frames[len(m.frames)-1].start {
		return nil, m.errorf("stack underflow")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *machine) popType() (deepkit.Type, error) {
	v, err := m.pop()
	if err != nil {
		return nil, err
	}
	typ, ok := v.(deepkit.Type)
	if !ok {
		return nil, m.errorf("expected a type on the stack, found %T", v)
	}
	return typ, nil
}

func (m *machine) popBool() (bool, error) {
	v, err := m.pop()
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, m.errorf("expected a condition on the stack, found %T", v)
	}
	return b, nil
}

// popArgs pops n types and returns them in push order or nil if n is zero.
func (m *machine) popArgs(n int) ([]deepkit.Type, error) {
	if n < 0 {
		return nil, m.errorf("negative argument count %d", n)
	}
	if n == 0 {
		return nil, nil
	}
	args := make([]deepkit.Type, n)
	for k := n - 1; k >= 0; k-- {
		typ, err := m.popType()
		if err != nil {
			return nil, err
		}
		args[k] = typ
	}
	return args, nil
}

// popFrame pops every value of the current frame and, if the frame was
// opened by the frame instruction, the frame itself.
func (m *machine) popFrame() ([]deepkit.Type, error) {
	f := m.frames[len(m.frames)-1]
	values := m.stack[f.start:]
	types := make([]deepkit.Type, 0, len(values))
	for _, v := range values {
		typ, ok := v.(deepkit.Type)
		if !ok {
			return nil, m.errorf("expected a type in the frame, found %T", v)
		}
		types = append(types, typ)
	}
	m.stack = m.stack[:f.start]
	if f.ret == retBlock {
		m.frames = m.frames[:len(m.frames)-1]
	}
	return types, nil
}

// ret returns the value on top of the stack from the innermost call or
// host frame, discarding any block frames above it.
func (m *machine) ret() (deepkit.Type, bool, error) {
	typ, err := m.popType()
	if err != nil {
		return nil, false, err
	}
	for {
		f := m.frames[len(m.frames)-1]
		m.frames = m.frames[:len(m.frames)-1]
		m.stack = m.stack[:f.start]
		switch f.ret {
		case retBlock:
			continue
		case retHost:
			return typ, true, nil
		}
		m.calls--
		m.pc = f.ret
		m.push(typ)
		return nil, false, nil
	}
}

func (m *machine) enterCall() error {
	if m.calls >= m.config.MaxDepth {
		return &RecursionLimitError{Program: m.prog.Name, Limit: m.config.MaxDepth}
	}
	m.calls++
	return nil
}

// invoke runs the subroutine at addr with inputs and returns its result.
func (m *machine) invoke(addr int, inputs []deepkit.Type) (deepkit.Type, error) {
	if err := m.enterCall(); err != nil {
		return nil, err
	}
	pc, depth := m.pc, len(m.frames)
	m.frames = append(m.frames, frame{start: len(m.stack), ret: retHost, inputs: inputs})
	m.pc = addr
	typ, err := m.run()
	m.pc = pc
	m.calls--
	if err == nil && len(m.frames) != depth {
		err = m.errorf("subroutine at %d left %d open frames", addr, len(m.frames)-depth)
	}
	return typ, err
}

// callFrame returns the innermost frame that carries inputs.
func (m *machine) callFrame() *frame {
	for k := len(m.frames) - 1; k > 0; k-- {
		if m.frames[k].ret != retBlock {
			return &m.frames[k]
		}
	}
	return &m.frames[0]
}

// slot returns the stack index of entry i of the frame offset frames
// below the current one.
func (m *machine) slot(offset, i int) (int, error) {
	if offset < 0 || offset >= len(m.frames) {
		return 0, m.errorf("frame offset %d out of range", offset)
	}
	idx := m.frames[len(m.frames)-1-offset].start + i
	if i < 0 || idx >= len(m.stack) {
		return 0, m.errorf("slot %d of frame %d out of range", i, offset)
	}
	return idx, nil
}

func (m *machine) literal(i int) any {
	return m.prog.Literals[i]
}

func (m *machine) stringLiteral(i int) (string, error) {
	s, ok := m.literal(i).(string)
	if !ok {
		return "", m.errorf("literal %d: expected a name, found %T", i, m.literal(i))
	}
	return s, nil
}

// memberName returns literal i as a member name: a string, a number, or a
// symbol.
func (m *machine) memberName(i int) (any, error) {
	name, ok := memberName(m.literal(i))
	if !ok {
		return nil, m.errorf("literal %d: %T is not a member name", i, m.literal(i))
	}
	return name, nil
}

func memberName(v any) (any, bool) {
	switch v := v.(type) {
	case string, *deepkit.Symbol:
		return v, true
	case bool, nil:
		return nil, false
	}
	if !deepkit.IsLiteralValue(v) {
		return nil, false
	}
	name, ok := deepkit.NewLiteral(v).Value.(float64)
	return name, ok
}

// popSignature pops the current frame as parameters followed by a return
// type.  An empty frame is a signature without parameters returning any.
func (m *machine) popSignature() ([]*deepkit.TypeParameter, deepkit.Type, error) {
	types, err := m.popFrame()
	if err != nil {
		return nil, nil, err
	}
	if len(types) == 0 {
		return []*deepkit.TypeParameter{}, deepkit.TypeAny, nil
	}
	last := len(types) - 1
	params := make([]*deepkit.TypeParameter, 0, last)
	for _, typ := range types[:last] {
		p, ok := typ.(*deepkit.TypeParameter)
		if !ok {
			return nil, nil, m.errorf("expected a parameter, found %s", typ.Kind())
		}
		params = append(params, p)
	}
	return params, types[last], nil
}

func (m *machine) class() error {
	if m.prog.Class == nil {
		return m.errorf("program declares no class")
	}
	types, err := m.popFrame()
	if err != nil {
		return err
	}
	members := make([]deepkit.Type, 0, len(types))
	for _, typ := range types {
		switch typ.(type) {
		case *deepkit.TypeProperty, *deepkit.TypeMethod, *deepkit.TypeIndexSignature,
			*deepkit.TypePropertySignature, *deepkit.TypeMethodSignature:
			members = append(members, typ)
		default:
			return m.errorf("%s is not a class member", typ.Kind())
		}
	}
	class := m.self
	if class == nil || class.Types != nil {
		class = &deepkit.TypeClass{Class: m.prog.Class}
		if args := m.frames[0].inputs; len(args) > 0 {
			class.Arguments = args
		}
	}
	class.Types = members
	m.push(class)
	return nil
}

func (m *machine) objectLiteral() error {
	types, err := m.popFrame()
	if err != nil {
		return err
	}
	var members []deepkit.Type
	var add func(deepkit.Type) error
	add = func(typ deepkit.Type) error {
		switch t := typ.(type) {
		case *deepkit.TypeObjectLiteral:
			for _, member := range t.Types {
				if err := add(member); err != nil {
					return err
				}
			}
		case *deepkit.TypePropertySignature, *deepkit.TypeMethodSignature:
			name := t.(deepkit.Member).MemberName()
			for k, member := range members {
				if prev, ok := member.(deepkit.Member); ok && deepkit.SameName(prev.MemberName(), name) {
					members[k] = t
					return nil
				}
			}
			members = append(members, t)
		case *deepkit.TypeIndexSignature:
			members = append(members, t)
		default:
			return m.errorf("%s is not an object literal member", typ.Kind())
		}
		return nil
	}
	for _, typ := range types {
		if err := add(typ); err != nil {
			return err
		}
	}
	if members == nil {
		members = []deepkit.Type{}
	}
	m.push(&deepkit.TypeObjectLiteral{Types: members})
	return nil
}

func newTuple(types []deepkit.Type) *deepkit.TypeTuple {
	tuple := &deepkit.TypeTuple{Types: []*deepkit.TypeTupleMember{}}
	for _, typ := range types {
		member, ok := typ.(*deepkit.TypeTupleMember)
		if !ok {
			member = &deepkit.TypeTupleMember{Type: typ}
		}
		// A spread tuple contributes its members.
		if rest, ok := member.Type.(*deepkit.TypeRest); ok {
			if inner, ok := rest.Type.(*deepkit.TypeTuple); ok {
				tuple.Types = append(tuple.Types, inner.Types...)
				continue
			}
		}
		tuple.Types = append(tuple.Types, member)
	}
	return tuple
}

func (m *machine) enum() error {
	types, err := m.popFrame()
	if err != nil {
		return err
	}
	enum := &deepkit.TypeEnum{Members: []deepkit.EnumEntry{}}
	var next float64
	for _, typ := range types {
		member, ok := typ.(*deepkit.TypeEnumMember)
		if !ok {
			return m.errorf("%s is not an enum member", typ.Kind())
		}
		entry := deepkit.EnumEntry{Name: member.Name}
		if member.HasDefault {
			switch v := member.Default.(type) {
			case float64:
				entry.Value = v
				next = v + 1
			case string:
				entry.Value = v
			default:
				return m.errorf("enum member %s: %T initializer", member.Name, v)
			}
		} else {
			entry.Value = next
			next++
		}
		enum.Members = append(enum.Members, entry)
	}
	m.push(enum)
	return nil
}

// modify applies the modifier instruction being executed to a copy of the
// member on top of the stack.  Stack entries may be shared with published
// types so they are never changed in place.
func (m *machine) modify(arg any) error {
	if len(m.stack) <= m.frames[len(m.frames)-1].start {
		return m.errorf("stack underflow")
	}
	top := m.stack[len(m.stack)-1]
	var out deepkit.Type
	switch t := top.(type) {
	case *deepkit.TypeProperty:
		c := *t
		out = &c
		switch m.op {
		case bytecode.Optional:
			c.Optional = true
		case bytecode.Readonly:
			c.Readonly = true
		case bytecode.Public:
			c.Visibility = deepkit.Public
		case bytecode.Protected:
			c.Visibility = deepkit.Protected
		case bytecode.Private:
			c.Visibility = deepkit.Private
		case bytecode.Abstract:
			c.Abstract = true
		case bytecode.DefaultValue:
			c.Default, c.HasDefault = arg, true
		case bytecode.Description:
			s, ok := arg.(string)
			if !ok {
				return m.errorf("description must be a string, found %T", arg)
			}
			c.Description = s
		}
	case *deepkit.TypePropertySignature:
		c := *t
		out = &c
		switch m.op {
		case bytecode.Optional:
			c.Optional = true
		case bytecode.Readonly:
			c.Readonly = true
		case bytecode.Description:
			s, ok := arg.(string)
			if !ok {
				return m.errorf("description must be a string, found %T", arg)
			}
			c.Description = s
		default:
			out = nil
		}
	case *deepkit.TypeMethod:
		c := *t
		out = &c
		switch m.op {
		case bytecode.Optional:
			c.Optional = true
		case bytecode.Public:
			c.Visibility = deepkit.Public
		case bytecode.Protected:
			c.Visibility = deepkit.Protected
		case bytecode.Private:
			c.Visibility = deepkit.Private
		case bytecode.Abstract:
			c.Abstract = true
		default:
			out = nil
		}
	case *deepkit.TypeMethodSignature:
		if m.op == bytecode.Optional {
			c := *t
			c.Optional = true
			out = &c
		}
	case *deepkit.TypeParameter:
		c := *t
		out = &c
		switch m.op {
		case bytecode.Optional:
			c.Optional = true
		case bytecode.Readonly:
			c.Readonly = true
		case bytecode.Public:
			c.Visibility = deepkit.Public
		case bytecode.Protected:
			c.Visibility = deepkit.Protected
		case bytecode.Private:
			c.Visibility = deepkit.Private
		default:
			out = nil
		}
	case *deepkit.TypeTupleMember:
		if m.op == bytecode.Optional {
			c := *t
			c.Optional = true
			out = &c
		}
	case *deepkit.TypeEnumMember:
		if m.op == bytecode.DefaultValue {
			c := *t
			c.HasDefault = true
			c.Default = arg
			if deepkit.IsLiteralValue(arg) {
				c.Default = deepkit.NewLiteral(arg).Value
			}
			out = &c
		}
	}
	if out == nil {
		return m.errorf("cannot apply to %T", top)
	}
	m.stack[len(m.stack)-1] = out
	return nil
}

// mappedType maps each key of the source type through the subroutine at
// addr and collects the results in an object literal.  The source is
// either an object literal or class, whose member names are the keys and
// whose member modifiers carry over, or a key type: a literal, a union of
// keys, or string, number, or symbol for an index signature.
func (m *machine) mappedType(addr, modifier int) error {
	source, err := m.popType()
	if err != nil {
		return err
	}
	members := []deepkit.Type{}
	mapKey := func(key deepkit.Type, optional, readonly bool) error {
		value, err := m.invoke(addr, []deepkit.Type{key})
		if err != nil {
			return err
		}
		if value.Kind() == deepkit.KindNever {
			return nil
		}
		lit, ok := key.(*deepkit.TypeLiteral)
		if !ok {
			switch key.Kind() {
			case deepkit.KindString, deepkit.KindNumber, deepkit.KindSymbol:
				members = append(members, &deepkit.TypeIndexSignature{Index: key, Type: value})
				return nil
			}
			return m.errorf("%s cannot be a mapped key", key.Kind())
		}
		name, ok := memberName(lit.Value)
		if !ok {
			return m.errorf("%T literal cannot be a mapped key", lit.Value)
		}
		if modifier&bytecode.ModifierOptional != 0 {
			optional = true
		}
		if modifier&bytecode.ModifierRemoveOptional != 0 {
			optional = false
		}
		if modifier&bytecode.ModifierReadonly != 0 {
			readonly = true
		}
		if modifier&bytecode.ModifierRemoveReadonly != 0 {
			readonly = false
		}
		members = append(members, &deepkit.TypePropertySignature{
			Name:     name,
			Optional: optional,
			Readonly: readonly,
			Type:     value,
		})
		return nil
	}
	switch src := source.(type) {
	case *deepkit.TypeObjectLiteral, *deepkit.TypeClass:
		types, _ := deepkit.Members(src)
		for _, member := range types {
			var err error
			switch member := member.(type) {
			case *deepkit.TypeProperty:
				if member.Visibility != deepkit.Public {
					continue
				}
				err = mapKey(deepkit.NewLiteral(member.Name), member.Optional, member.Readonly)
			case *deepkit.TypeMethod:
				if member.Visibility != deepkit.Public || member.Name == "constructor" {
					continue
				}
				err = mapKey(deepkit.NewLiteral(member.Name), member.Optional, false)
			case *deepkit.TypePropertySignature:
				err = mapKey(deepkit.NewLiteral(member.Name), member.Optional, member.Readonly)
			case *deepkit.TypeMethodSignature:
				err = mapKey(deepkit.NewLiteral(member.Name), member.Optional, false)
			case *deepkit.TypeIndexSignature:
				for _, key := range deepkit.UnionTypes(member.Index) {
					if err = mapKey(key, false, false); err != nil {
						break
					}
				}
			}
			if err != nil {
				return err
			}
		}
	case *deepkit.TypeUnion:
		for _, key := range src.Types {
			if err := mapKey(key, false, false); err != nil {
				return err
			}
		}
	case *deepkit.TypeOfNever:
	default:
		if err := mapKey(source, false, false); err != nil {
			return err
		}
	}
	m.push(&deepkit.TypeObjectLiteral{Types: members})
	return nil
}
