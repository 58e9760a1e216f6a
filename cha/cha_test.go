package cha

import (
	"testing"

	"github.com/BarrensZeppelin/classflow/callgraph"
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	h := ir.NewHierarchy()
	a := h.NewClass("A", nil)
	b := h.NewAbstractClass("B", a)
	c := h.NewClass("C", b)

	af := a.NewMethod("f", nil, ir.Void)
	af.NewBody().EmitReturn(nil)
	b.NewAbstractMethod("f", nil, ir.Void)
	cf := c.NewMethod("f", nil, ir.Void)
	cf.NewBody().EmitReturn(nil)

	subsig := af.Subsignature()
	assert.Same(t, af, Dispatch(a, subsig))
	assert.Nil(t, Dispatch(b, subsig), "abstract redeclaration stops the walk")
	assert.Same(t, cf, Dispatch(c, subsig))
	assert.Nil(t, Dispatch(a, "void g()"))
}

// Virtual resolution on a declared class whose own declaration is abstract:
// the super-class target is pruned, the subclass target found.
func TestResolveVirtualOverAbstract(t *testing.T) {
	h := ir.NewHierarchy()
	object := h.NewClass("Object", nil)
	a := h.NewClass("A", object)
	b := h.NewAbstractClass("B", a)
	c := h.NewClass("C", b)

	af := a.NewMethod("f", nil, ir.Void)
	af.NewBody().EmitReturn(nil)
	b.NewAbstractMethod("f", nil, ir.Void)
	cf := c.NewMethod("f", nil, ir.Void)
	cf.NewBody().EmitReturn(nil)

	caller := h.NewClass("Main", object)
	main := caller.NewStaticMethod("main", nil, ir.Void)
	mb := main.NewBody()
	recv := mb.NewVar("b", b.Type())
	site := mb.EmitInvoke(nil, ir.NewMethodRef(ir.InvokeVirtual, b, af.Subsignature()), recv)

	assert.ElementsMatch(t, []*ir.Method{cf}, Resolve(h, site))

	// Declared at A, the walk reaches A.f and C.f but not B.
	siteA := mb.EmitInvoke(nil, ir.NewMethodRef(ir.InvokeVirtual, a, af.Subsignature()), recv)
	assert.ElementsMatch(t, []*ir.Method{af, cf}, Resolve(h, siteA))
}

// Interface resolution walks sub-interfaces and implementors, and descends
// through subclasses of every concrete implementor.
func TestResolveInterface(t *testing.T) {
	h := ir.NewHierarchy()
	object := h.NewClass("Object", nil)
	i := h.NewInterface("I")
	j := h.NewInterface("J", i)
	x := h.NewClass("X", object, i)
	y := h.NewClass("Y", x)
	z := h.NewClass("Z", object, j)

	i.NewAbstractMethod("g", nil, ir.Void)
	xg := x.NewMethod("g", nil, ir.Void)
	xg.NewBody().EmitReturn(nil)
	yg := y.NewMethod("g", nil, ir.Void)
	yg.NewBody().EmitReturn(nil)
	zg := z.NewMethod("g", nil, ir.Void)
	zg.NewBody().EmitReturn(nil)

	caller := h.NewClass("Main", object)
	main := caller.NewStaticMethod("main", nil, ir.Void)
	mb := main.NewBody()
	recv := mb.NewVar("i", i.Type())
	site := mb.EmitInvoke(nil, ir.NewMethodRef(ir.InvokeInterface, i, xg.Subsignature()), recv)

	assert.ElementsMatch(t, []*ir.Method{xg, yg, zg}, Resolve(h, site))
}

func TestResolveStaticAndSpecial(t *testing.T) {
	h := ir.NewHierarchy()
	base := h.NewClass("Base", nil)
	derived := h.NewClass("Derived", base)

	bf := base.NewMethod("f", nil, ir.Void)
	bf.NewBody().EmitReturn(nil)
	sm := base.NewStaticMethod("s", nil, ir.Void)
	sm.NewBody().EmitReturn(nil)

	caller := h.NewClass("Main", nil)
	main := caller.NewStaticMethod("main", nil, ir.Void)
	mb := main.NewBody()
	recv := mb.NewVar("d", derived.Type())

	static := mb.EmitInvoke(nil, ir.RefTo(ir.InvokeStatic, sm), nil)
	assert.Equal(t, []*ir.Method{sm}, Resolve(h, static))

	// Special dispatch starts at the named class and walks up.
	special := mb.EmitInvoke(nil, ir.NewMethodRef(ir.InvokeSpecial, derived, bf.Subsignature()), recv)
	assert.Equal(t, []*ir.Method{bf}, Resolve(h, special))
}

func TestCallGraph(t *testing.T) {
	h := ir.NewHierarchy()
	object := h.NewClass("Object", nil)
	a := h.NewClass("A", object)
	bcls := h.NewClass("B", a)

	af := a.NewMethod("f", nil, ir.Void)
	af.NewBody().EmitReturn(nil)
	bf := bcls.NewMethod("f", nil, ir.Void)
	{
		body := bf.NewBody()
		helper := bcls.NewStaticMethod("helper", nil, ir.Void)
		helper.NewBody().EmitReturn(nil)
		body.EmitInvoke(nil, ir.RefTo(ir.InvokeStatic, helper), nil)
		body.EmitReturn(nil)
	}

	mainClass := h.NewClass("Main", object)
	main := mainClass.NewStaticMethod("main", nil, ir.Void)
	{
		body := main.NewBody()
		recv := body.NewVar("a", a.Type())
		body.EmitNew(recv, bcls.Type())
		body.EmitInvoke(nil, ir.NewMethodRef(ir.InvokeVirtual, a, af.Subsignature()), recv)
		body.EmitReturn(nil)
	}

	cg := CallGraph(&ir.World{Hierarchy: h, MainMethod: main})

	// CHA resolves the virtual call against the whole subtree of A.
	site := CallSitesIn(main)[0]
	assert.ElementsMatch(t, []*ir.Method{af, bf}, cg.CalleesOf(site))

	// Closure: every callee of a reachable method is reachable.
	for _, m := range cg.ReachableMethods() {
		for _, e := range cg.OutEdgesOf(m) {
			assert.True(t, cg.Contains(e.Callee), "callee %v of %v not reachable", e.Callee, m)
			assert.True(t, cg.Contains(e.Site.Container()), "caller of %v not reachable", e.Site)
		}
	}

	assert.True(t, cg.Contains(bcls.DeclaredMethod("void helper()")),
		"helper is reached transitively through B.f")

	// Edges are labeled with their call kind.
	require.NotEmpty(t, cg.OutEdgesOf(main))
	assert.Equal(t, callgraph.Virtual, cg.OutEdgesOf(main)[0].Kind)
}

func TestResolveCallee(t *testing.T) {
	h := ir.NewHierarchy()
	base := h.NewClass("Base", nil)
	derived := h.NewClass("Derived", base)

	bf := base.NewMethod("f", nil, ir.Void)
	bf.NewBody().EmitReturn(nil)
	df := derived.NewMethod("f", nil, ir.Void)
	df.NewBody().EmitReturn(nil)

	caller := h.NewClass("Main", nil)
	main := caller.NewStaticMethod("main", nil, ir.Void)
	mb := main.NewBody()
	recv := mb.NewVar("b", base.Type())
	site := mb.EmitInvoke(nil, ir.NewMethodRef(ir.InvokeVirtual, base, bf.Subsignature()), recv)

	// Dispatch against the concrete receiver type yields a single target.
	assert.Same(t, df, ResolveCallee(derived, site))
	assert.Same(t, bf, ResolveCallee(base, site))
}
