package cs

import (
	"github.com/BarrensZeppelin/classflow/callgraph"
	"github.com/BarrensZeppelin/classflow/cha"
	"github.com/BarrensZeppelin/classflow/internal/queue"
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/pta"
	log "github.com/sirupsen/logrus"
)

const ID = "cspta"

// Config carries the inputs of the context-sensitive analysis.
type Config struct {
	World    *ir.World
	Selector ContextSelector
	// Heap may be nil, in which case a fresh allocation-site model is used.
	Heap *pta.HeapModel
}

// Analyze runs context-sensitive points-to analysis from the world's entry
// method under the empty context.
func Analyze(config Config) *Result {
	heap := config.Heap
	if heap == nil {
		heap = pta.NewHeapModel()
	}

	s := &solver{
		world:    config.World,
		heap:     heap,
		selector: config.Selector,
		manager:  NewManager(),
		cg:       callgraph.NewGraph[*CSCallSite, *CSMethod](),
		pfg:      pta.NewPointerFlowGraph(),
	}
	s.initialize()
	s.analyze()

	return &Result{
		Heap:      heap,
		Manager:   s.manager,
		CallGraph: s.cg,
		PFG:       s.pfg,
	}
}

type solver struct {
	world    *ir.World
	heap     *pta.HeapModel
	selector ContextSelector
	manager  *Manager
	cg       *callgraph.Graph[*CSCallSite, *CSMethod]
	pfg      *pta.PointerFlowGraph
	work     queue.Queue[pta.WorklistEntry]
}

func (s *solver) initialize() {
	main := s.manager.CSMethod(s.selector.EmptyContext(), s.world.MainMethod)
	s.cg.AddEntry(main)
	s.addReachable(main)
}

// addReachable marks a (context, method) pair reachable and translates its
// context-free statements under that context.
func (s *solver) addReachable(csMethod *CSMethod) {
	if !s.cg.AddReachable(csMethod) {
		return
	}
	body := csMethod.Method().Body()
	if body == nil {
		return
	}
	ctx := csMethod.Context()

	for _, stmt := range body.Stmts() {
		switch stmt := stmt.(type) {
		case *ir.New:
			obj := s.heap.Obj(stmt)
			hctx := s.selector.SelectHeapContext(csMethod, obj)
			csObj := s.manager.CSObj(hctx, obj)
			s.work.Push(pta.WorklistEntry{
				Pointer: s.manager.CSVar(ctx, stmt.LHS),
				PTS:     pta.Singleton(csObj.id),
			})

		case *ir.Copy:
			s.addPFGEdge(s.manager.CSVar(ctx, stmt.RHS), s.manager.CSVar(ctx, stmt.LHS))

		case *ir.LoadField:
			if stmt.IsStatic() {
				s.addPFGEdge(s.manager.StaticField(stmt.Field()), s.manager.CSVar(ctx, stmt.LHS))
			}

		case *ir.StoreField:
			if stmt.IsStatic() {
				s.addPFGEdge(s.manager.CSVar(ctx, stmt.RHS), s.manager.StaticField(stmt.Field()))
			}

		case *ir.Invoke:
			if stmt.IsStatic() {
				callee := cha.ResolveCallee(nil, stmt)
				if callee == nil {
					log.Panicf("static call %v resolves to no method", stmt)
				}
				callSite := s.manager.CSCallSite(ctx, stmt)
				calleeCtx := s.selector.SelectContext(callSite, callee)
				s.addCallEdge(callSite, s.manager.CSMethod(calleeCtx, callee))
			}
		}
	}
}

func (s *solver) addPFGEdge(src, dst pta.Pointer) {
	if s.pfg.AddEdge(src, dst) && !src.PointsToSet().IsEmpty() {
		s.work.Push(pta.WorklistEntry{Pointer: dst, PTS: src.PointsToSet()})
	}
}

func (s *solver) addCallEdge(callSite *CSCallSite, callee *CSMethod) {
	caller := s.manager.CSMethod(callSite.Context(), callSite.Site().Container())
	e := callgraph.Edge[*CSCallSite, *CSMethod]{
		Kind:   callgraph.KindOf(callSite.Site()),
		Site:   callSite,
		Callee: callee,
	}
	if s.cg.AddEdge(caller, e) {
		s.addReachable(callee)
		s.passArguments(callSite, callee)
	}
}

// passArguments wires arguments under the caller context to parameters
// under the callee context; return values flow callee → caller.
func (s *solver) passArguments(callSite *CSCallSite, callee *CSMethod) {
	body := callee.Method().Body()
	if body == nil {
		return
	}
	callerCtx, calleeCtx := callSite.Context(), callee.Context()
	site := callSite.Site()

	for i := 0; i < callee.Method().ParamCount(); i++ {
		s.addPFGEdge(
			s.manager.CSVar(callerCtx, site.Call.Arg(i)),
			s.manager.CSVar(calleeCtx, body.Param(i)),
		)
	}
	if site.Result != nil {
		for _, ret := range body.ReturnVars() {
			s.addPFGEdge(
				s.manager.CSVar(calleeCtx, ret),
				s.manager.CSVar(callerCtx, site.Result),
			)
		}
	}
}

// reachableStmt reports whether the statement's containing method is
// reachable under the given context. O(1) via the call graph's reachable
// set.
func (s *solver) reachableStmt(ctx *Context, stmt ir.Stmt) bool {
	return s.cg.Contains(s.manager.CSMethod(ctx, stmt.Container()))
}

func (s *solver) analyze() {
	for !s.work.Empty() {
		entry := s.work.Pop()
		delta := s.propagate(entry.Pointer, entry.PTS)
		x, ok := entry.Pointer.(*CSVar)
		if !ok || delta.IsEmpty() {
			continue
		}
		ctx := x.Context()

		for _, id := range delta.IDs() {
			csObj := s.manager.ObjByID(id)

			for _, store := range x.v.StoreFields() {
				if s.reachableStmt(ctx, store) {
					s.addPFGEdge(s.manager.CSVar(ctx, store.RHS), s.manager.InstanceField(csObj, store.Field()))
				}
			}
			for _, load := range x.v.LoadFields() {
				if s.reachableStmt(ctx, load) {
					s.addPFGEdge(s.manager.InstanceField(csObj, load.Field()), s.manager.CSVar(ctx, load.LHS))
				}
			}
			for _, store := range x.v.StoreArrays() {
				if s.reachableStmt(ctx, store) {
					s.addPFGEdge(s.manager.CSVar(ctx, store.RHS), s.manager.ArrayIndex(csObj))
				}
			}
			for _, load := range x.v.LoadArrays() {
				if s.reachableStmt(ctx, load) {
					s.addPFGEdge(s.manager.ArrayIndex(csObj), s.manager.CSVar(ctx, load.LHS))
				}
			}
			s.processCall(x, csObj)
		}
	}
}

func (s *solver) propagate(n pta.Pointer, pts *pta.PointsToSet) *pta.PointsToSet {
	delta := new(pta.PointsToSet)
	if delta.DiffInto(pts, n.PointsToSet()) {
		n.PointsToSet().UnionWith(delta)
		for _, succ := range s.pfg.SuccsOf(n) {
			s.work.Push(pta.WorklistEntry{Pointer: succ, PTS: delta})
		}
	}
	return delta
}

// processCall resolves the instance calls on x against a newly discovered
// receiver: dispatch on the concrete class, derive the callee context from
// the selector, and flow the receiver into `this` under that context.
func (s *solver) processCall(x *CSVar, recv *CSObj) {
	ctx := x.Context()
	for _, site := range x.v.Invokes() {
		if !s.reachableStmt(ctx, site) {
			continue
		}
		callee := cha.ResolveCallee(recv.Obj().Class(), site)
		if callee == nil || callee.Body() == nil {
			// No dispatch target; contributes nothing.
			continue
		}

		callSite := s.manager.CSCallSite(ctx, site)
		calleeCtx := s.selector.SelectContextRecv(callSite, recv, callee)
		csCallee := s.manager.CSMethod(calleeCtx, callee)

		s.work.Push(pta.WorklistEntry{
			Pointer: s.manager.CSVar(calleeCtx, callee.Body().This()),
			PTS:     pta.Singleton(recv.id),
		})
		s.addCallEdge(callSite, csCallee)
	}
}
