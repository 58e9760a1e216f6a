// Package dataflow implements a generic worklist driver for monotone
// intraprocedural dataflow analyses. Any analysis whose transfer function and
// meet reach a fixpoint may plug in; iteration order only affects
// intermediate states, not the result.
package dataflow

import (
	"github.com/BarrensZeppelin/classflow/cfg"
	"github.com/BarrensZeppelin/classflow/internal/queue"
	"github.com/BarrensZeppelin/classflow/ir"
)

// Analysis describes one dataflow problem over facts of type F.
//
// For backward analyses the driver presents facts in flow order: the "in"
// argument of Transfer is the fact entering the transfer (the OUT set of the
// statement) and "out" is the produced fact (its IN set).
type Analysis[F any] interface {
	IsForward() bool
	// NewBoundaryFact is the fact at the boundary node (entry for forward
	// analyses, exit for backward ones).
	NewBoundaryFact(g *cfg.Graph) F
	NewInitialFact() F
	// MeetInto merges fact into target in place.
	MeetInto(fact, target F)
	// Transfer recomputes out from in; reports whether out changed.
	Transfer(s ir.Stmt, in, out F) bool
}

// Result holds the per-statement IN and OUT facts of a solved analysis.
type Result[F any] struct {
	ins, outs map[ir.Stmt]F
}

func (r *Result[F]) InFact(s ir.Stmt) F { return r.ins[s] }

func (r *Result[F]) OutFact(s ir.Stmt) F { return r.outs[s] }

// Solve iterates the analysis over the graph until no fact changes.
func Solve[F any](g *cfg.Graph, a Analysis[F]) *Result[F] {
	res := &Result[F]{
		ins:  make(map[ir.Stmt]F, len(g.Nodes())),
		outs: make(map[ir.Stmt]F, len(g.Nodes())),
	}

	// flowIn/flowOut are the result maps seen in flow order, so the loop
	// below works unchanged for both directions.
	boundary := g.Entry()
	flowIn, flowOut := res.ins, res.outs
	succsOf, predsOf := g.SuccsOf, g.PredsOf
	if !a.IsForward() {
		boundary = g.Exit()
		flowIn, flowOut = res.outs, res.ins
		succsOf, predsOf = g.PredsOf, g.SuccsOf
	}

	flowOut[boundary] = a.NewBoundaryFact(g)
	var work queue.SetQueue[ir.Stmt]
	for _, n := range g.Nodes() {
		if n == boundary {
			continue
		}
		flowIn[n] = a.NewInitialFact()
		flowOut[n] = a.NewInitialFact()
		work.Push(n)
	}

	for !work.Empty() {
		n := work.Pop()

		in := a.NewInitialFact()
		for _, p := range predsOf(n) {
			a.MeetInto(flowOut[p], in)
		}
		flowIn[n] = in

		if a.Transfer(n, in, flowOut[n]) {
			for _, s := range succsOf(n) {
				work.Push(s)
			}
		}
	}

	return res
}
