// Package selector provides the standard context-selector strategies:
// context insensitivity, k-limited call-site sensitivity (k-CFA), k-limited
// object sensitivity and k-limited type sensitivity. Heap contexts keep
// depth k-1, the conventional choice.
package selector

import (
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/pta"
	"github.com/BarrensZeppelin/classflow/pta/cs"
)

// Insensitive assigns the empty context everywhere; the analysis degenerates
// to the context-insensitive one.
type Insensitive struct {
	empty *cs.Context
}

func NewInsensitive() *Insensitive {
	return &Insensitive{empty: cs.NewContext()}
}

func (s *Insensitive) EmptyContext() *cs.Context { return s.empty }

func (s *Insensitive) SelectHeapContext(*cs.CSMethod, *pta.Obj) *cs.Context { return s.empty }

func (s *Insensitive) SelectContext(*cs.CSCallSite, *ir.Method) *cs.Context { return s.empty }

func (s *Insensitive) SelectContextRecv(*cs.CSCallSite, *cs.CSObj, *ir.Method) *cs.Context {
	return s.empty
}

// KCallSite distinguishes method analyses by the newest k call sites on the
// abstract call stack.
type KCallSite struct {
	k     int
	empty *cs.Context
}

func NewKCallSite(k int) *KCallSite {
	return &KCallSite{k: k, empty: cs.NewContext()}
}

func (s *KCallSite) EmptyContext() *cs.Context { return s.empty }

func (s *KCallSite) SelectHeapContext(m *cs.CSMethod, _ *pta.Obj) *cs.Context {
	return m.Context().Limit(s.k - 1)
}

func (s *KCallSite) SelectContext(callSite *cs.CSCallSite, _ *ir.Method) *cs.Context {
	return callSite.Context().Append(callSite.Site(), s.k)
}

func (s *KCallSite) SelectContextRecv(callSite *cs.CSCallSite, _ *cs.CSObj, _ *ir.Method) *cs.Context {
	return callSite.Context().Append(callSite.Site(), s.k)
}

// KObject distinguishes method analyses by the newest k receiver allocation
// sites. Static calls inherit the caller's context.
type KObject struct {
	k     int
	empty *cs.Context
}

func NewKObject(k int) *KObject {
	return &KObject{k: k, empty: cs.NewContext()}
}

func (s *KObject) EmptyContext() *cs.Context { return s.empty }

func (s *KObject) SelectHeapContext(m *cs.CSMethod, _ *pta.Obj) *cs.Context {
	return m.Context().Limit(s.k - 1)
}

func (s *KObject) SelectContext(callSite *cs.CSCallSite, _ *ir.Method) *cs.Context {
	return callSite.Context()
}

func (s *KObject) SelectContextRecv(_ *cs.CSCallSite, recv *cs.CSObj, _ *ir.Method) *cs.Context {
	return recv.HeapContext().Append(recv.Obj(), s.k)
}

// KType is the coarser variant of KObject that records the class containing
// the receiver's allocation site instead of the site itself.
type KType struct {
	k     int
	empty *cs.Context
}

func NewKType(k int) *KType {
	return &KType{k: k, empty: cs.NewContext()}
}

func (s *KType) EmptyContext() *cs.Context { return s.empty }

func (s *KType) SelectHeapContext(m *cs.CSMethod, _ *pta.Obj) *cs.Context {
	return m.Context().Limit(s.k - 1)
}

func (s *KType) SelectContext(callSite *cs.CSCallSite, _ *ir.Method) *cs.Context {
	return callSite.Context()
}

func (s *KType) SelectContextRecv(_ *cs.CSCallSite, recv *cs.CSObj, _ *ir.Method) *cs.Context {
	allocClass := recv.Obj().Site().Container().Class()
	return recv.HeapContext().Append(allocClass, s.k)
}
