package pta

import (
	"fmt"

	"github.com/BarrensZeppelin/classflow/ir"
)

// PointerFlowGraph is the directed graph along which points-to sets flow.
// Its edge set only ever grows; AddEdge is idempotent.
type PointerFlowGraph struct {
	succs map[Pointer][]Pointer
	edges map[pfgEdge]struct{}
}

type pfgEdge struct {
	src, dst Pointer
}

func NewPointerFlowGraph() *PointerFlowGraph {
	return &PointerFlowGraph{
		succs: make(map[Pointer][]Pointer),
		edges: make(map[pfgEdge]struct{}),
	}
}

// AddEdge inserts src → dst; reports whether the edge was new.
func (g *PointerFlowGraph) AddEdge(src, dst Pointer) bool {
	e := pfgEdge{src, dst}
	if _, found := g.edges[e]; found {
		return false
	}
	g.edges[e] = struct{}{}
	g.succs[src] = append(g.succs[src], dst)
	return true
}

func (g *PointerFlowGraph) SuccsOf(p Pointer) []Pointer { return g.succs[p] }

func (g *PointerFlowGraph) NumEdges() int { return len(g.edges) }

// The context-insensitive pointer variants. Identities are interned by the
// solver's pointer tables: one pointer per variable, static field,
// (object, field) pair and object array.

// VarPtr represents the pointer of a local variable.
type VarPtr struct {
	pointer
	v *ir.Var
}

func (p *VarPtr) Var() *ir.Var { return p.v }

func (p *VarPtr) String() string { return fmt.Sprintf("%v.%s", p.v.Method(), p.v) }

// StaticFieldPtr represents the pointer of a static field.
type StaticFieldPtr struct {
	pointer
	f *ir.Field
}

func (p *StaticFieldPtr) Field() *ir.Field { return p.f }

func (p *StaticFieldPtr) String() string { return p.f.String() }

// InstanceFieldPtr represents the pointer of a field of one abstract object.
type InstanceFieldPtr struct {
	pointer
	obj *Obj
	f   *ir.Field
}

func (p *InstanceFieldPtr) Obj() *Obj { return p.obj }

func (p *InstanceFieldPtr) Field() *ir.Field { return p.f }

func (p *InstanceFieldPtr) String() string { return fmt.Sprintf("%v.%s", p.obj, p.f.Name()) }

// ArrayIndexPtr represents all elements of one abstract array object.
type ArrayIndexPtr struct {
	pointer
	obj *Obj
}

func (p *ArrayIndexPtr) Obj() *Obj { return p.obj }

func (p *ArrayIndexPtr) String() string { return fmt.Sprintf("%v[*]", p.obj) }

// pointers interns the context-insensitive pointer identities.
type pointers struct {
	vars    map[*ir.Var]*VarPtr
	statics map[*ir.Field]*StaticFieldPtr
	ifields map[ifieldKey]*InstanceFieldPtr
	arrays  map[*Obj]*ArrayIndexPtr
}

type ifieldKey struct {
	obj *Obj
	f   *ir.Field
}

func newPointers() *pointers {
	return &pointers{
		vars:    make(map[*ir.Var]*VarPtr),
		statics: make(map[*ir.Field]*StaticFieldPtr),
		ifields: make(map[ifieldKey]*InstanceFieldPtr),
		arrays:  make(map[*Obj]*ArrayIndexPtr),
	}
}

func (ps *pointers) varPtr(v *ir.Var) *VarPtr {
	if p, found := ps.vars[v]; found {
		return p
	}
	p := &VarPtr{v: v}
	ps.vars[v] = p
	return p
}

func (ps *pointers) staticField(f *ir.Field) *StaticFieldPtr {
	if p, found := ps.statics[f]; found {
		return p
	}
	p := &StaticFieldPtr{f: f}
	ps.statics[f] = p
	return p
}

func (ps *pointers) instanceField(o *Obj, f *ir.Field) *InstanceFieldPtr {
	key := ifieldKey{o, f}
	if p, found := ps.ifields[key]; found {
		return p
	}
	p := &InstanceFieldPtr{obj: o, f: f}
	ps.ifields[key] = p
	return p
}

func (ps *pointers) arrayIndex(o *Obj) *ArrayIndexPtr {
	if p, found := ps.arrays[o]; found {
		return p
	}
	p := &ArrayIndexPtr{obj: o}
	ps.arrays[o] = p
	return p
}
