package pta

import (
	"github.com/BarrensZeppelin/classflow/callgraph"
	"github.com/BarrensZeppelin/classflow/internal/slices"
	"github.com/BarrensZeppelin/classflow/ir"
)

// Result exposes the saturated pointer flow graph and the call graph that
// emerged from it. All structures are frozen once Analyze returns.
type Result struct {
	Heap      *HeapModel
	CallGraph *callgraph.Graph[*ir.Invoke, *ir.Method]
	PFG       *PointerFlowGraph

	pointers *pointers
}

func (r *Result) decode(pts *PointsToSet) []*Obj {
	return slices.Map(pts.IDs(), r.Heap.ObjByID)
}

// PointsTo returns the objects a variable may point to, in allocation
// order.
func (r *Result) PointsTo(v *ir.Var) []*Obj {
	if p, found := r.pointers.vars[v]; found {
		return r.decode(p.PointsToSet())
	}
	return nil
}

// PointsToField returns the objects o.f may point to.
func (r *Result) PointsToField(o *Obj, f *ir.Field) []*Obj {
	if p, found := r.pointers.ifields[ifieldKey{o, f}]; found {
		return r.decode(p.PointsToSet())
	}
	return nil
}

// PointsToStatic returns the objects a static field may point to.
func (r *Result) PointsToStatic(f *ir.Field) []*Obj {
	if p, found := r.pointers.statics[f]; found {
		return r.decode(p.PointsToSet())
	}
	return nil
}

// MayAlias reports whether two variables may refer to the same object.
func (r *Result) MayAlias(a, b *ir.Var) bool {
	pa, foundA := r.pointers.vars[a]
	pb, foundB := r.pointers.vars[b]
	if !foundA || !foundB {
		return false
	}
	for _, id := range pa.PointsToSet().IDs() {
		if pb.PointsToSet().Contains(id) {
			return true
		}
	}
	return false
}
