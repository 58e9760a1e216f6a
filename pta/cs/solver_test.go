package cs_test

import (
	"testing"

	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/pta"
	"github.com/BarrensZeppelin/classflow/pta/cs"
	"github.com/BarrensZeppelin/classflow/pta/cs/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIdentityWorld builds the classic precision scenario:
//
//	main() { r1 = id(new A()); r2 = id(new B()); }
//	static Object id(Object o) { return o; }
func buildIdentityWorld() (world *ir.World, sites [2]*ir.New, results [2]*ir.Var) {
	h := ir.NewHierarchy()
	object := h.NewClass("Object", nil)
	aCls := h.NewClass("A", object)
	bCls := h.NewClass("B", object)

	util := h.NewClass("Util", object)
	id := util.NewStaticMethod("id", []ir.Type{object.Type()}, object.Type())
	{
		b := id.NewBody("o")
		b.EmitReturn(b.Param(0))
	}

	mainClass := h.NewClass("Main", object)
	main := mainClass.NewStaticMethod("main", nil, ir.Void)
	b := main.NewBody()
	a1 := b.NewVar("a1", aCls.Type())
	a2 := b.NewVar("a2", bCls.Type())
	r1 := b.NewVar("r1", object.Type())
	r2 := b.NewVar("r2", object.Type())
	sites[0] = b.EmitNew(a1, aCls.Type())
	b.EmitInvoke(r1, ir.RefTo(ir.InvokeStatic, id), nil, a1)
	sites[1] = b.EmitNew(a2, bCls.Type())
	b.EmitInvoke(r2, ir.RefTo(ir.InvokeStatic, id), nil, a2)
	b.EmitReturn(nil)

	return &ir.World{Hierarchy: h, MainMethod: main}, sites, [2]*ir.Var{r1, r2}
}

// One call-site of context keeps the two id invocations apart: each result
// sees only its own argument.
func TestOneCallSitePrecision(t *testing.T) {
	world, sites, results := buildIdentityWorld()

	res := cs.Analyze(cs.Config{World: world, Selector: selector.NewKCallSite(1)})

	for i := range results {
		objs := res.CollapsedPointsTo(results[i])
		require.Len(t, objs, 1, "pts(%v)", results[i])
		assert.Same(t, res.Heap.Obj(sites[i]), objs[0])
	}

	// The id method is reachable under two distinct contexts.
	id := world.Hierarchy.Class("Util").DeclaredMethod("Object id(Object)")
	contexts := 0
	for _, m := range res.CallGraph.ReachableMethods() {
		if m.Method() == id {
			contexts++
		}
	}
	assert.Equal(t, 2, contexts)
}

// The insensitive selector conflates the two calls, like the
// context-insensitive solver.
func TestInsensitiveConflates(t *testing.T) {
	world, sites, results := buildIdentityWorld()

	res := cs.Analyze(cs.Config{World: world, Selector: selector.NewInsensitive()})

	want := []*pta.Obj{res.Heap.Obj(sites[0]), res.Heap.Obj(sites[1])}
	for _, r := range results {
		assert.ElementsMatch(t, want, res.CollapsedPointsTo(r), "pts(%v)", r)
	}

	ci := pta.Analyze(pta.Config{World: world})
	assert.Equal(t, len(ci.CallGraph.ReachableMethods()), len(res.CallGraph.ReachableMethods()),
		"insensitive CS reaches the same methods as CI")
}

// Object sensitivity distinguishes instance methods by their receiver
// allocation site: each get returns only the item stored into its own box.
func TestObjectSensitivity(t *testing.T) {
	h := ir.NewHierarchy()
	object := h.NewClass("Object", nil)
	item := h.NewClass("Item", object)
	box := h.NewClass("Box", object)
	f := box.NewField("f", item.Type(), false)

	set := box.NewMethod("set", []ir.Type{item.Type()}, ir.Void)
	{
		b := set.NewBody("v")
		b.EmitStoreField(b.This(), f, b.Param(0))
		b.EmitReturn(nil)
	}
	get := box.NewMethod("get", nil, item.Type())
	{
		b := get.NewBody()
		r := b.NewVar("r", item.Type())
		b.EmitLoadField(r, b.This(), f)
		b.EmitReturn(r)
	}

	mainClass := h.NewClass("Main", object)
	main := mainClass.NewStaticMethod("main", nil, ir.Void)
	b := main.NewBody()
	b1 := b.NewVar("b1", box.Type())
	b2 := b.NewVar("b2", box.Type())
	i1 := b.NewVar("i1", item.Type())
	i2 := b.NewVar("i2", item.Type())
	g1 := b.NewVar("g1", item.Type())
	g2 := b.NewVar("g2", item.Type())
	b.EmitNew(b1, box.Type())
	b.EmitNew(b2, box.Type())
	s1 := b.EmitNew(i1, item.Type())
	s2 := b.EmitNew(i2, item.Type())
	b.EmitInvoke(nil, ir.RefTo(ir.InvokeVirtual, set), b1, i1)
	b.EmitInvoke(nil, ir.RefTo(ir.InvokeVirtual, set), b2, i2)
	b.EmitInvoke(g1, ir.RefTo(ir.InvokeVirtual, get), b1)
	b.EmitInvoke(g2, ir.RefTo(ir.InvokeVirtual, get), b2)
	b.EmitReturn(nil)

	world := &ir.World{Hierarchy: h, MainMethod: main}
	res := cs.Analyze(cs.Config{World: world, Selector: selector.NewKObject(1)})

	g1Objs := res.CollapsedPointsTo(g1)
	require.Len(t, g1Objs, 1)
	assert.Same(t, res.Heap.Obj(s1), g1Objs[0])

	g2Objs := res.CollapsedPointsTo(g2)
	require.Len(t, g2Objs, 1)
	assert.Same(t, res.Heap.Obj(s2), g2Objs[0])
}

// CS call-graph closure mirrors the CI invariant, per (context, method)
// pair.
func TestCallGraphClosure(t *testing.T) {
	world, _, _ := buildIdentityWorld()
	res := cs.Analyze(cs.Config{World: world, Selector: selector.NewKCallSite(2)})

	for _, m := range res.CallGraph.ReachableMethods() {
		for _, e := range res.CallGraph.OutEdgesOf(m) {
			assert.True(t, res.CallGraph.Contains(e.Callee))
		}
	}
}
