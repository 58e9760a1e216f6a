// Package pta implements whole-program points-to analysis: a pointer flow
// graph over abstract pointers whose points-to sets are saturated by a
// worklist, with the call graph discovered on the fly. The solver in this
// package is context-insensitive; the cs subpackage generalizes it with
// contexts.
package pta

import (
	"fmt"

	"github.com/BarrensZeppelin/classflow/ir"
)

// Obj is an abstract heap object named by its allocation site. Identities
// are interned by the heap model: same site, same Obj.
type Obj struct {
	id   int
	site *ir.New
}

func (o *Obj) ID() int { return o.id }

func (o *Obj) Site() *ir.New { return o.site }

func (o *Obj) Type() ir.Type { return o.site.Exp.T }

// Class returns the allocated class, or nil for array allocations.
func (o *Obj) Class() *ir.Class {
	if t, ok := o.Type().(*ir.ClassType); ok {
		return t.Class()
	}
	return nil
}

func (o *Obj) String() string {
	return fmt.Sprintf("%v@%v/%d", o.site.Exp, o.site.Container(), o.site.Index())
}

// HeapModel implements allocation-site abstraction. Object identifiers are
// dense, so points-to sets can be sparse bit sets.
type HeapModel struct {
	objs   []*Obj
	bySite map[*ir.New]*Obj
}

func NewHeapModel() *HeapModel {
	return &HeapModel{bySite: make(map[*ir.New]*Obj)}
}

// Obj returns the abstract object of an allocation site, interned.
func (h *HeapModel) Obj(site *ir.New) *Obj {
	if o, found := h.bySite[site]; found {
		return o
	}
	o := &Obj{id: len(h.objs), site: site}
	h.objs = append(h.objs, o)
	h.bySite[site] = o
	return o
}

// ObjByID decodes an object identifier.
func (h *HeapModel) ObjByID(id int) *Obj { return h.objs[id] }

func (h *HeapModel) NumObjs() int { return len(h.objs) }
