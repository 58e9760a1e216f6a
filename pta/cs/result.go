package cs

import (
	"github.com/BarrensZeppelin/classflow/callgraph"
	"github.com/BarrensZeppelin/classflow/internal/slices"
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/pta"
)

// Result is the outcome of a context-sensitive analysis: the interned
// element space, the saturated PFG and the context-sensitive call graph.
type Result struct {
	Heap      *pta.HeapModel
	Manager   *Manager
	CallGraph *callgraph.Graph[*CSCallSite, *CSMethod]
	PFG       *pta.PointerFlowGraph
}

func (r *Result) decode(pts *pta.PointsToSet) []*CSObj {
	return slices.Map(pts.IDs(), r.Manager.ObjByID)
}

// PointsTo returns the CSObjs a variable may point to under one context.
func (r *Result) PointsTo(ctx *Context, v *ir.Var) []*CSObj {
	if p, found := r.Manager.vars[varKey{ctx, v}]; found {
		return r.decode(p.PointsToSet())
	}
	return nil
}

// CollapsedPointsTo unions the points-to sets of a variable over all its
// contexts and drops heap contexts, yielding the context-insensitive view.
func (r *Result) CollapsedPointsTo(v *ir.Var) []*pta.Obj {
	var merged pta.PointsToSet
	for _, p := range r.Manager.CSVarsOf(v) {
		for _, id := range p.PointsToSet().IDs() {
			merged.Add(r.Manager.ObjByID(id).Obj().ID())
		}
	}
	return slices.Map(merged.IDs(), r.Heap.ObjByID)
}
