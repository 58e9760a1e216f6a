// Package cs implements context-sensitive points-to analysis. Every pointer
// is keyed by a context, produced by a pluggable ContextSelector; the PFG
// semantics, propagation and dispatch are those of the context-insensitive
// solver.
package cs

import (
	"fmt"
	"strings"

	"github.com/BarrensZeppelin/classflow/internal/slices"
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/pta"
)

// Context is an interned list of context elements (call sites, objects or
// classes, depending on the selector). Contexts form a trie: extending a
// context with the same element twice yields the same *Context, so contexts
// compare by pointer identity.
type Context struct {
	parent   *Context
	elem     any
	depth    int
	children map[any]*Context
}

// NewContext returns a fresh empty context to root a trie at. All contexts
// of one analysis must derive from the same root.
func NewContext() *Context { return &Context{} }

func (c *Context) Depth() int { return c.depth }

// Push returns the context extended by elem, interned.
func (c *Context) Push(elem any) *Context {
	if child, found := c.children[elem]; found {
		return child
	}
	if c.children == nil {
		c.children = make(map[any]*Context)
	}
	child := &Context{parent: c, elem: elem, depth: c.depth + 1}
	c.children[elem] = child
	return child
}

func (c *Context) root() *Context {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

// Elems returns the elements from oldest to newest.
func (c *Context) Elems() []any {
	elems := make([]any, c.depth)
	for ; c.parent != nil; c = c.parent {
		elems[c.depth-1] = c.elem
	}
	return elems
}

// Append returns the context extended by elem, keeping only the newest
// limit elements.
func (c *Context) Append(elem any, limit int) *Context {
	return c.root().make(append(c.Elems(), elem), limit)
}

// Limit returns the context truncated to its newest limit elements.
func (c *Context) Limit(limit int) *Context {
	return c.root().make(c.Elems(), limit)
}

func (root *Context) make(elems []any, limit int) *Context {
	if limit < 0 {
		limit = 0
	}
	if len(elems) > limit {
		elems = elems[len(elems)-limit:]
	}
	c := root
	for _, elem := range elems {
		c = c.Push(elem)
	}
	return c
}

func (c *Context) String() string {
	return "[" + strings.Join(slices.Map(c.Elems(), func(e any) string {
		return fmt.Sprint(e)
	}), ", ") + "]"
}

// ContextSelector decides the contexts of the analysis: the heap context of
// every allocation and the callee context of every call edge.
type ContextSelector interface {
	EmptyContext() *Context
	// SelectHeapContext picks the heap context for an object allocated
	// while analyzing csMethod.
	SelectHeapContext(csMethod *CSMethod, obj *pta.Obj) *Context
	// SelectContext picks the callee context for a static call.
	SelectContext(callSite *CSCallSite, callee *ir.Method) *Context
	// SelectContextRecv picks the callee context for an instance call with
	// the given receiver.
	SelectContextRecv(callSite *CSCallSite, recv *CSObj, callee *ir.Method) *Context
}
