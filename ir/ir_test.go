package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchyQueries(t *testing.T) {
	h := NewHierarchy()
	object := h.NewClass("Object", nil)
	i := h.NewInterface("I")
	j := h.NewInterface("J", i)
	a := h.NewClass("A", object, i)
	b := h.NewAbstractClass("B", a)
	c := h.NewClass("C", b, j)

	assert.ElementsMatch(t, []*Class{a}, h.DirectSubclassesOf(object))
	assert.ElementsMatch(t, []*Class{b}, h.DirectSubclassesOf(a))
	assert.ElementsMatch(t, []*Class{c}, h.DirectSubclassesOf(b))
	assert.ElementsMatch(t, []*Class{j}, h.DirectSubinterfacesOf(i))
	assert.ElementsMatch(t, []*Class{a}, h.DirectImplementorsOf(i))
	assert.ElementsMatch(t, []*Class{c}, h.DirectImplementorsOf(j))

	assert.True(t, i.IsInterface())
	assert.True(t, b.IsAbstract())
	assert.False(t, c.IsAbstract())
	assert.Same(t, b, c.Super())
	assert.Same(t, c, h.Class("C"))

	assert.Panics(t, func() { h.NewClass("A", object) }, "duplicate class name")
}

func TestSubsignature(t *testing.T) {
	h := NewHierarchy()
	c := h.NewClass("C", nil)
	m := c.NewMethod("foo", []Type{Int, c.Type()}, Void)

	assert.Equal(t, "void foo(int,C)", m.Subsignature())
	assert.Same(t, m, c.DeclaredMethod(m.Subsignature()))
	assert.Nil(t, c.DeclaredMethod("void bar()"))
}

func TestMethodRefResolve(t *testing.T) {
	h := NewHierarchy()
	base := h.NewClass("Base", nil)
	derived := h.NewClass("Derived", base)
	m := base.NewMethod("f", nil, Void)

	ref := NewMethodRef(InvokeVirtual, derived, m.Subsignature())
	assert.Same(t, m, ref.Resolve(), "resolution walks up to the declaring class")

	missing := NewMethodRef(InvokeVirtual, derived, "void g()")
	assert.Nil(t, missing.Resolve())
}

func TestBodyConstruction(t *testing.T) {
	h := NewHierarchy()
	c := h.NewClass("C", nil)
	f := c.NewField("f", c.Type(), false)

	m := c.NewMethod("m", []Type{c.Type()}, c.Type())
	b := m.NewBody("o")

	require.NotNil(t, b.This())
	assert.Same(t, c.Type(), b.This().Type())
	assert.Equal(t, 1, m.ParamCount())

	o := b.Param(0)
	r := b.NewVar("r", c.Type())

	store := b.EmitStoreField(o, f, b.This())
	load := b.EmitLoadField(r, o, f)
	call := b.EmitInvoke(nil, RefTo(InvokeVirtual, m), o, r)
	b.EmitReturn(r)

	// Statement indices follow emission order.
	assert.Equal(t, 0, store.Index())
	assert.Equal(t, 1, load.Index())
	assert.Equal(t, 2, call.Index())

	// Back-reference tables.
	assert.Equal(t, []*StoreField{store}, o.StoreFields())
	assert.Equal(t, []*LoadField{load}, o.LoadFields())
	assert.Equal(t, []*Invoke{call}, o.Invokes())
	assert.Empty(t, r.StoreFields())

	assert.Equal(t, []*Var{r}, b.ReturnVars())
	for _, s := range b.Stmts() {
		assert.Same(t, m, s.Container())
	}
}

func TestAbstractMethodHasNoBody(t *testing.T) {
	h := NewHierarchy()
	c := h.NewAbstractClass("C", nil)
	m := c.NewAbstractMethod("f", nil, Void)

	assert.True(t, m.IsAbstract())
	assert.Nil(t, m.Body())
	assert.Panics(t, func() { m.NewBody() })
}

func TestInvokeLValue(t *testing.T) {
	h := NewHierarchy()
	c := h.NewClass("C", nil)
	callee := c.NewStaticMethod("f", nil, Int)
	m := c.NewStaticMethod("m", nil, Void)
	b := m.NewBody()

	discarded := b.EmitInvoke(nil, RefTo(InvokeStatic, callee), nil)
	assert.Nil(t, discarded.LValue())

	r := b.NewVar("r", Int)
	received := b.EmitInvoke(r, RefTo(InvokeStatic, callee), nil)
	assert.Equal(t, LValue(r), received.LValue())
}
