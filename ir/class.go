package ir

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

func panicf(format string, args ...any) {
	log.Panicf(format, args...)
}

type Class struct {
	hierarchy   *Hierarchy
	name        string
	super       *Class
	interfaces  []*Class
	isInterface bool
	isAbstract  bool
	typ         *ClassType

	methods     map[string]*Method
	methodOrder []*Method
	fields      map[string]*Field
}

func newClass(h *Hierarchy, name string, super *Class, interfaces []*Class, abstract, isInterface bool) *Class {
	c := &Class{
		hierarchy:   h,
		name:        name,
		super:       super,
		interfaces:  interfaces,
		isAbstract:  abstract,
		isInterface: isInterface,
		methods:     make(map[string]*Method),
		fields:      make(map[string]*Field),
	}
	c.typ = &ClassType{class: c}
	return c
}

func (c *Class) Name() string { return c.name }

// Super returns the direct super-class, or nil at the hierarchy root and for
// interfaces.
func (c *Class) Super() *Class { return c.super }

func (c *Class) Interfaces() []*Class { return c.interfaces }

func (c *Class) IsInterface() bool { return c.isInterface }

func (c *Class) IsAbstract() bool { return c.isAbstract }

func (c *Class) Type() *ClassType { return c.typ }

func (c *Class) String() string { return c.name }

// DeclaredMethod looks up a method declared by this very class (no
// inheritance) by subsignature. Returns nil if the class declares none.
func (c *Class) DeclaredMethod(subsig string) *Method { return c.methods[subsig] }

func (c *Class) DeclaredMethods() []*Method { return c.methodOrder }

func (c *Class) DeclaredField(name string) *Field { return c.fields[name] }

// NewField declares a field on this class.
func (c *Class) NewField(name string, typ Type, static bool) *Field {
	if _, found := c.fields[name]; found {
		panicf("field %s.%s declared twice", c.name, name)
	}
	f := &Field{class: c, name: name, typ: typ, static: static}
	c.fields[name] = f
	return f
}

type Field struct {
	class  *Class
	name   string
	typ    Type
	static bool
}

func (f *Field) Class() *Class { return f.class }

func (f *Field) Name() string { return f.name }

func (f *Field) Type() Type { return f.typ }

func (f *Field) IsStatic() bool { return f.static }

func (f *Field) String() string { return fmt.Sprintf("%s.%s", f.class.name, f.name) }

// Subsignature is the method identity used for dispatch: return type, name
// and parameter types, without the declaring class.
func Subsignature(name string, params []Type, ret Type) string {
	ps := make([]string, len(params))
	for i, p := range params {
		ps[i] = p.String()
	}
	return fmt.Sprintf("%s %s(%s)", ret, name, strings.Join(ps, ","))
}

type methodAttrs uint8

const (
	attrStatic methodAttrs = 1 << iota
	attrAbstract
)

func (c *Class) newMethod(name string, params []Type, ret Type, attrs methodAttrs) *Method {
	subsig := Subsignature(name, params, ret)
	if _, found := c.methods[subsig]; found {
		panicf("method %s declared twice on %s", subsig, c.name)
	}

	m := &Method{
		class:      c,
		name:       name,
		subsig:     subsig,
		paramTypes: params,
		retType:    ret,
		static:     attrs&attrStatic != 0,
		abstract:   attrs&attrAbstract != 0,
	}
	c.methods[subsig] = m
	c.methodOrder = append(c.methodOrder, m)
	return m
}

// NewMethod declares a concrete instance method.
func (c *Class) NewMethod(name string, params []Type, ret Type) *Method {
	return c.newMethod(name, params, ret, 0)
}

func (c *Class) NewStaticMethod(name string, params []Type, ret Type) *Method {
	return c.newMethod(name, params, ret, attrStatic)
}

func (c *Class) NewAbstractMethod(name string, params []Type, ret Type) *Method {
	return c.newMethod(name, params, ret, attrAbstract)
}

type Method struct {
	class      *Class
	name       string
	subsig     string
	paramTypes []Type
	retType    Type
	static     bool
	abstract   bool
	body       *Body
}

func (m *Method) Class() *Class { return m.class }

func (m *Method) Name() string { return m.name }

func (m *Method) Subsignature() string { return m.subsig }

func (m *Method) ParamCount() int { return len(m.paramTypes) }

func (m *Method) ParamType(i int) Type { return m.paramTypes[i] }

func (m *Method) ReturnType() Type { return m.retType }

func (m *Method) IsStatic() bool { return m.static }

func (m *Method) IsAbstract() bool { return m.abstract }

// Body returns the method's IR, or nil for abstract methods.
func (m *Method) Body() *Body { return m.body }

func (m *Method) String() string { return fmt.Sprintf("<%s: %s>", m.class.name, m.subsig) }

type InvokeKind int

const (
	InvokeStatic InvokeKind = iota
	InvokeSpecial
	InvokeVirtual
	InvokeInterface
)

func (k InvokeKind) String() string {
	switch k {
	case InvokeStatic:
		return "static"
	case InvokeSpecial:
		return "special"
	case InvokeVirtual:
		return "virtual"
	case InvokeInterface:
		return "interface"
	}
	return "unknown"
}

// MethodRef is the symbolic callee reference at a call site: the statically
// named declaring class, the subsignature, and the invocation kind.
type MethodRef struct {
	kind   InvokeKind
	class  *Class
	subsig string
}

func NewMethodRef(kind InvokeKind, class *Class, subsig string) *MethodRef {
	return &MethodRef{kind: kind, class: class, subsig: subsig}
}

// RefTo builds a method reference naming the given method's declaring class.
func RefTo(kind InvokeKind, m *Method) *MethodRef {
	return &MethodRef{kind: kind, class: m.class, subsig: m.subsig}
}

func (r *MethodRef) Kind() InvokeKind { return r.kind }

func (r *MethodRef) DeclaringClass() *Class { return r.class }

func (r *MethodRef) Subsignature() string { return r.subsig }

// Resolve finds the declared method for this reference, searching the
// declaring class and then its ancestors. Returns nil if the hierarchy
// declares no such method.
func (r *MethodRef) Resolve() *Method {
	for c := r.class; c != nil; c = c.super {
		if m := c.DeclaredMethod(r.subsig); m != nil {
			return m
		}
	}
	return nil
}

func (r *MethodRef) String() string { return fmt.Sprintf("<%s: %s>", r.class.name, r.subsig) }
