// Package cha resolves call targets through the class hierarchy and builds
// whole-program call graphs with Class Hierarchy Analysis: a virtual call is
// assumed to reach the dispatch target of every class below the declared
// receiver type.
package cha

import (
	"github.com/BarrensZeppelin/classflow/callgraph"
	"github.com/BarrensZeppelin/classflow/internal/queue"
	"github.com/BarrensZeppelin/classflow/ir"
	log "github.com/sirupsen/logrus"
)

const ID = "cha"

// Dispatch simulates runtime method dispatch: the first class on the
// super-class chain declaring a non-abstract method with the subsignature
// wins. An abstract declaration stops the walk; callers treat nil as "no
// target".
func Dispatch(c *ir.Class, subsig string) *ir.Method {
	for ; c != nil; c = c.Super() {
		if m := c.DeclaredMethod(subsig); m != nil {
			if m.IsAbstract() {
				return nil
			}
			return m
		}
	}
	return nil
}

// Resolve computes the possible targets of a call site via CHA.
func Resolve(h *ir.Hierarchy, site *ir.Invoke) []*ir.Method {
	ref := site.MethodRef()
	subsig := ref.Subsignature()
	declared := ref.DeclaringClass()

	switch {
	case site.IsStatic():
		m := declared.DeclaredMethod(subsig)
		if m == nil {
			log.Panicf("static call %v resolves to no method", site)
		}
		return []*ir.Method{m}

	case site.IsSpecial():
		if m := Dispatch(declared, subsig); m != nil {
			return []*ir.Method{m}
		}
		return nil

	default:
		return resolveDynamic(h, declared, subsig)
	}
}

// resolveDynamic walks the downward hierarchy closure of the declared
// receiver. Concrete classes contribute their dispatch target and descend
// into subclasses; interfaces contribute nothing themselves and descend into
// sub-interfaces and implementors.
func resolveDynamic(h *ir.Hierarchy, declared *ir.Class, subsig string) []*ir.Method {
	var targets []*ir.Method
	seen := make(map[*ir.Method]bool)

	var work queue.SetQueue[*ir.Class]
	work.Push(declared)
	for !work.Empty() {
		c := work.Pop()
		if c.IsInterface() {
			for _, sub := range h.DirectSubinterfacesOf(c) {
				work.Push(sub)
			}
			for _, impl := range h.DirectImplementorsOf(c) {
				work.Push(impl)
			}
		} else {
			if m := Dispatch(c, subsig); m != nil && !seen[m] {
				seen[m] = true
				targets = append(targets, m)
			}
			for _, sub := range h.DirectSubclassesOf(c) {
				work.Push(sub)
			}
		}
	}
	return targets
}

// ResolveCallee resolves the single callee of a call site against a concrete
// receiver class, as the pointer analyses require. recv is ignored for
// static and special calls. Returns nil when dispatch finds no target.
func ResolveCallee(recv *ir.Class, site *ir.Invoke) *ir.Method {
	ref := site.MethodRef()
	switch {
	case site.IsStatic():
		return ref.Resolve()
	case site.IsSpecial():
		return Dispatch(ref.DeclaringClass(), ref.Subsignature())
	default:
		return Dispatch(recv, ref.Subsignature())
	}
}

// CallSitesIn lists the call sites of a method; none for abstract methods.
func CallSitesIn(m *ir.Method) []*ir.Invoke {
	body := m.Body()
	if body == nil {
		return nil
	}
	var sites []*ir.Invoke
	for _, s := range body.Stmts() {
		if inv, ok := s.(*ir.Invoke); ok {
			sites = append(sites, inv)
		}
	}
	return sites
}

// CallGraph builds the CHA call graph from the world's entry method.
func CallGraph(w *ir.World) *callgraph.Graph[*ir.Invoke, *ir.Method] {
	cg := callgraph.NewGraph[*ir.Invoke, *ir.Method]()
	cg.AddEntry(w.MainMethod)

	var work queue.SetQueue[*ir.Method]
	work.Push(w.MainMethod)
	for !work.Empty() {
		m := work.Pop()
		if !cg.AddReachable(m) {
			continue
		}
		for _, site := range CallSitesIn(m) {
			for _, target := range Resolve(w.Hierarchy, site) {
				cg.AddEdge(m, callgraph.Edge[*ir.Invoke, *ir.Method]{
					Kind:   callgraph.KindOf(site),
					Site:   site,
					Callee: target,
				})
				work.Push(target)
			}
		}
	}
	return cg
}
