package pta

import (
	"github.com/BarrensZeppelin/classflow/callgraph"
	"github.com/BarrensZeppelin/classflow/cha"
	"github.com/BarrensZeppelin/classflow/internal/queue"
	"github.com/BarrensZeppelin/classflow/ir"
	log "github.com/sirupsen/logrus"
)

const ID = "pta"

// Config carries the inputs of the context-insensitive analysis.
type Config struct {
	World *ir.World
	// Heap may be nil, in which case a fresh allocation-site model is used.
	Heap *HeapModel
}

// Analyze runs context-insensitive points-to analysis from the world's entry
// method and returns the saturated result.
func Analyze(config Config) *Result {
	heap := config.Heap
	if heap == nil {
		heap = NewHeapModel()
	}

	s := &solver{
		world:    config.World,
		heap:     heap,
		cg:       callgraph.NewGraph[*ir.Invoke, *ir.Method](),
		pfg:      NewPointerFlowGraph(),
		pointers: newPointers(),
	}
	s.initialize()
	s.analyze()

	return &Result{
		Heap:      heap,
		CallGraph: s.cg,
		PFG:       s.pfg,
		pointers:  s.pointers,
	}
}

type solver struct {
	world    *ir.World
	heap     *HeapModel
	cg       *callgraph.Graph[*ir.Invoke, *ir.Method]
	pfg      *PointerFlowGraph
	pointers *pointers
	work     queue.Queue[WorklistEntry]
}

func (s *solver) initialize() {
	main := s.world.MainMethod
	s.cg.AddEntry(main)
	s.addReachable(main)
}

// addReachable marks a method reachable and translates its context-free
// statements: allocations, copies, static field accesses and static calls.
// Statements that depend on the points-to set of a receiver are handled in
// the main loop.
func (s *solver) addReachable(m *ir.Method) {
	if !s.cg.AddReachable(m) {
		return
	}
	if m.Body() == nil {
		return
	}

	for _, stmt := range m.Body().Stmts() {
		switch stmt := stmt.(type) {
		case *ir.New:
			obj := s.heap.Obj(stmt)
			s.work.Push(WorklistEntry{s.pointers.varPtr(stmt.LHS), Singleton(obj.id)})

		case *ir.Copy:
			s.addPFGEdge(s.pointers.varPtr(stmt.RHS), s.pointers.varPtr(stmt.LHS))

		case *ir.LoadField:
			if stmt.IsStatic() {
				s.addPFGEdge(s.pointers.staticField(stmt.Field()), s.pointers.varPtr(stmt.LHS))
			}

		case *ir.StoreField:
			if stmt.IsStatic() {
				s.addPFGEdge(s.pointers.varPtr(stmt.RHS), s.pointers.staticField(stmt.Field()))
			}

		case *ir.Invoke:
			if stmt.IsStatic() {
				callee := cha.ResolveCallee(nil, stmt)
				if callee == nil {
					log.Panicf("static call %v resolves to no method", stmt)
				}
				s.addCallEdge(stmt, callee)
			}
		}
	}
}

// addPFGEdge inserts a pointer-flow edge and seeds the target with the
// source's current points-to set.
func (s *solver) addPFGEdge(src, dst Pointer) {
	if s.pfg.AddEdge(src, dst) && !src.PointsToSet().IsEmpty() {
		s.work.Push(WorklistEntry{dst, src.PointsToSet()})
	}
}

func (s *solver) addCallEdge(site *ir.Invoke, callee *ir.Method) {
	e := callgraph.Edge[*ir.Invoke, *ir.Method]{
		Kind:   callgraph.KindOf(site),
		Site:   site,
		Callee: callee,
	}
	if s.cg.AddEdge(site.Container(), e) {
		s.addReachable(callee)
		s.passArguments(site, callee)
	}
}

// passArguments connects arguments to parameters, and the callee's return
// variables to the receiving l-value, if any.
func (s *solver) passArguments(site *ir.Invoke, callee *ir.Method) {
	body := callee.Body()
	if body == nil {
		return
	}
	for i := 0; i < callee.ParamCount(); i++ {
		s.addPFGEdge(s.pointers.varPtr(site.Call.Arg(i)), s.pointers.varPtr(body.Param(i)))
	}
	if site.Result != nil {
		for _, ret := range body.ReturnVars() {
			s.addPFGEdge(s.pointers.varPtr(ret), s.pointers.varPtr(site.Result))
		}
	}
}

// reachableStmt reports whether the statement's containing method is
// reachable. O(1) via the call graph's reachable set.
func (s *solver) reachableStmt(stmt ir.Stmt) bool {
	return s.cg.Contains(stmt.Container())
}

// analyze drains the worklist. When the points-to set of a variable grows,
// the instance field, array and call statements on that variable are
// (re-)translated against the new objects.
func (s *solver) analyze() {
	for !s.work.Empty() {
		entry := s.work.Pop()
		delta := s.propagate(entry.Pointer, entry.PTS)
		x, ok := entry.Pointer.(*VarPtr)
		if !ok || delta.IsEmpty() {
			continue
		}

		for _, id := range delta.IDs() {
			obj := s.heap.ObjByID(id)

			for _, store := range x.v.StoreFields() {
				if s.reachableStmt(store) {
					s.addPFGEdge(s.pointers.varPtr(store.RHS), s.pointers.instanceField(obj, store.Field()))
				}
			}
			for _, load := range x.v.LoadFields() {
				if s.reachableStmt(load) {
					s.addPFGEdge(s.pointers.instanceField(obj, load.Field()), s.pointers.varPtr(load.LHS))
				}
			}
			for _, store := range x.v.StoreArrays() {
				if s.reachableStmt(store) {
					s.addPFGEdge(s.pointers.varPtr(store.RHS), s.pointers.arrayIndex(obj))
				}
			}
			for _, load := range x.v.LoadArrays() {
				if s.reachableStmt(load) {
					s.addPFGEdge(s.pointers.arrayIndex(obj), s.pointers.varPtr(load.LHS))
				}
			}
			s.processCall(x.v, obj)
		}
	}
}

// propagate merges pts \ pt(n) into pt(n) and forwards the delta to the PFG
// successors of n.
func (s *solver) propagate(n Pointer, pts *PointsToSet) *PointsToSet {
	delta := new(PointsToSet)
	if delta.DiffInto(pts, n.PointsToSet()) {
		n.PointsToSet().UnionWith(delta)
		for _, succ := range s.pfg.SuccsOf(n) {
			s.work.Push(WorklistEntry{succ, delta})
		}
	}
	return delta
}

// processCall resolves the instance calls on x against a newly discovered
// receiver object: dispatch on the object's concrete class, flow the
// receiver into `this` of the callee, and wire the call edge.
func (s *solver) processCall(x *ir.Var, recv *Obj) {
	for _, site := range x.Invokes() {
		if !s.reachableStmt(site) {
			continue
		}
		callee := cha.ResolveCallee(recv.Class(), site)
		if callee == nil || callee.Body() == nil {
			// No dispatch target; contributes nothing.
			continue
		}

		s.work.Push(WorklistEntry{s.pointers.varPtr(callee.Body().This()), Singleton(recv.id)})
		s.addCallEdge(site, callee)
	}
}
