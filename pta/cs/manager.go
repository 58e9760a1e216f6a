package cs

import (
	"fmt"

	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/pta"
)

// CSObj is an abstract object under a heap context. The same allocation
// site under different heap contexts yields distinct CSObjs.
type CSObj struct {
	id   int
	hctx *Context
	obj  *pta.Obj
}

func (o *CSObj) ID() int { return o.id }

func (o *CSObj) HeapContext() *Context { return o.hctx }

func (o *CSObj) Obj() *pta.Obj { return o.obj }

func (o *CSObj) String() string { return fmt.Sprintf("%v:%v", o.hctx, o.obj) }

// CSMethod is a method analyzed under a context.
type CSMethod struct {
	ctx *Context
	m   *ir.Method
}

func (m *CSMethod) Context() *Context { return m.ctx }

func (m *CSMethod) Method() *ir.Method { return m.m }

func (m *CSMethod) String() string { return fmt.Sprintf("%v:%v", m.ctx, m.m) }

// CSCallSite is a call site inside a method context.
type CSCallSite struct {
	ctx  *Context
	site *ir.Invoke
}

func (c *CSCallSite) Context() *Context { return c.ctx }

func (c *CSCallSite) Site() *ir.Invoke { return c.site }

func (c *CSCallSite) String() string { return fmt.Sprintf("%v:%v", c.ctx, c.site) }

// CSVar is the pointer of a variable under a context.
type CSVar struct {
	pts pta.PointsToSet
	ctx *Context
	v   *ir.Var
}

func (p *CSVar) PointsToSet() *pta.PointsToSet { return &p.pts }

func (p *CSVar) Context() *Context { return p.ctx }

func (p *CSVar) Var() *ir.Var { return p.v }

func (p *CSVar) String() string { return fmt.Sprintf("%v:%v", p.ctx, p.v) }

// StaticField is the pointer of a static field; static fields are context
// free.
type StaticField struct {
	pts pta.PointsToSet
	f   *ir.Field
}

func (p *StaticField) PointsToSet() *pta.PointsToSet { return &p.pts }

func (p *StaticField) Field() *ir.Field { return p.f }

func (p *StaticField) String() string { return p.f.String() }

// InstanceField is the pointer of a field of one CSObj.
type InstanceField struct {
	pts  pta.PointsToSet
	base *CSObj
	f    *ir.Field
}

func (p *InstanceField) PointsToSet() *pta.PointsToSet { return &p.pts }

func (p *InstanceField) Base() *CSObj { return p.base }

func (p *InstanceField) Field() *ir.Field { return p.f }

func (p *InstanceField) String() string { return fmt.Sprintf("%v.%s", p.base, p.f.Name()) }

// ArrayIndex is the pointer of the elements of one CSObj array.
type ArrayIndex struct {
	pts  pta.PointsToSet
	base *CSObj
}

func (p *ArrayIndex) PointsToSet() *pta.PointsToSet { return &p.pts }

func (p *ArrayIndex) Base() *CSObj { return p.base }

func (p *ArrayIndex) String() string { return fmt.Sprintf("%v[*]", p.base) }

type varKey struct {
	ctx *Context
	v   *ir.Var
}

type objKey struct {
	hctx *Context
	obj  *pta.Obj
}

type siteKey struct {
	ctx  *Context
	site *ir.Invoke
}

type methodKey struct {
	ctx *Context
	m   *ir.Method
}

type ifieldKey struct {
	base *CSObj
	f    *ir.Field
}

// Manager interns every context-sensitive element: same (context, element)
// pair, same identity. CSObj identifiers are dense so points-to sets can be
// sparse bit sets.
type Manager struct {
	vars    map[varKey]*CSVar
	varsOf  map[*ir.Var][]*CSVar
	objs    map[objKey]*CSObj
	objList []*CSObj
	sites   map[siteKey]*CSCallSite
	methods map[methodKey]*CSMethod
	statics map[*ir.Field]*StaticField
	ifields map[ifieldKey]*InstanceField
	arrays  map[*CSObj]*ArrayIndex
}

func NewManager() *Manager {
	return &Manager{
		vars:    make(map[varKey]*CSVar),
		varsOf:  make(map[*ir.Var][]*CSVar),
		objs:    make(map[objKey]*CSObj),
		sites:   make(map[siteKey]*CSCallSite),
		methods: make(map[methodKey]*CSMethod),
		statics: make(map[*ir.Field]*StaticField),
		ifields: make(map[ifieldKey]*InstanceField),
		arrays:  make(map[*CSObj]*ArrayIndex),
	}
}

func (m *Manager) CSVar(ctx *Context, v *ir.Var) *CSVar {
	key := varKey{ctx, v}
	if p, found := m.vars[key]; found {
		return p
	}
	p := &CSVar{ctx: ctx, v: v}
	m.vars[key] = p
	m.varsOf[v] = append(m.varsOf[v], p)
	return p
}

// CSVarsOf returns every context-sensitive instance of v seen so far.
func (m *Manager) CSVarsOf(v *ir.Var) []*CSVar { return m.varsOf[v] }

func (m *Manager) CSObj(hctx *Context, obj *pta.Obj) *CSObj {
	key := objKey{hctx, obj}
	if o, found := m.objs[key]; found {
		return o
	}
	o := &CSObj{id: len(m.objList), hctx: hctx, obj: obj}
	m.objs[key] = o
	m.objList = append(m.objList, o)
	return o
}

// ObjByID decodes a CSObj identifier.
func (m *Manager) ObjByID(id int) *CSObj { return m.objList[id] }

func (m *Manager) NumObjs() int { return len(m.objList) }

func (m *Manager) CSCallSite(ctx *Context, site *ir.Invoke) *CSCallSite {
	key := siteKey{ctx, site}
	if c, found := m.sites[key]; found {
		return c
	}
	c := &CSCallSite{ctx: ctx, site: site}
	m.sites[key] = c
	return c
}

func (m *Manager) CSMethod(ctx *Context, method *ir.Method) *CSMethod {
	key := methodKey{ctx, method}
	if c, found := m.methods[key]; found {
		return c
	}
	c := &CSMethod{ctx: ctx, m: method}
	m.methods[key] = c
	return c
}

func (m *Manager) StaticField(f *ir.Field) *StaticField {
	if p, found := m.statics[f]; found {
		return p
	}
	p := &StaticField{f: f}
	m.statics[f] = p
	return p
}

func (m *Manager) InstanceField(base *CSObj, f *ir.Field) *InstanceField {
	key := ifieldKey{base, f}
	if p, found := m.ifields[key]; found {
		return p
	}
	p := &InstanceField{base: base, f: f}
	m.ifields[key] = p
	return p
}

func (m *Manager) ArrayIndex(base *CSObj) *ArrayIndex {
	if p, found := m.arrays[base]; found {
		return p
	}
	p := &ArrayIndex{base: base}
	m.arrays[base] = p
	return p
}
