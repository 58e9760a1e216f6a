// Package deadcode fuses constant propagation, live variables and
// control-flow reachability into a set of dead statements: code that can
// never execute under the computed constants, plus reachable assignments
// whose results are never observed.
package deadcode

import (
	"sort"

	"github.com/BarrensZeppelin/classflow/cfg"
	"github.com/BarrensZeppelin/classflow/constprop"
	"github.com/BarrensZeppelin/classflow/dataflow"
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/livevars"
	log "github.com/sirupsen/logrus"
)

const ID = "deadcode"

// Detect returns the dead statements of the method, ordered by statement
// index. The CFG's synthetic entry and exit are never reported.
func Detect(
	g *cfg.Graph,
	constants *dataflow.Result[*constprop.Fact],
	live *dataflow.Result[*livevars.Fact],
) []ir.Stmt {
	d := &detector{
		graph:     g,
		constants: constants,
		live:      live,
		reached:   make(map[ir.Stmt]bool),
	}
	d.visit(g.Entry())

	dead := d.useless
	for _, s := range g.Nodes() {
		if !d.reached[s] && s != g.Entry() && s != g.Exit() {
			dead = append(dead, s)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].Index() < dead[j].Index() })
	return dead
}

type detector struct {
	graph     *cfg.Graph
	constants *dataflow.Result[*constprop.Fact]
	live      *dataflow.Result[*livevars.Fact]
	reached   map[ir.Stmt]bool
	useless   []ir.Stmt
}

// visit walks the CFG depth-first, descending only into branches that may
// execute under the constant-propagation result, and collects useless
// assignments among the statements it reaches.
func (d *detector) visit(node ir.Stmt) {
	if d.reached[node] {
		return
	}
	d.reached[node] = true

	if assign, ok := node.(ir.AssignStmt); ok {
		if lv, ok := assign.LValue().(*ir.Var); ok &&
			!d.live.OutFact(node).Has(lv) && hasNoSideEffect(assign.RValue()) {
			d.useless = append(d.useless, node)
		}
	}

	switch node := node.(type) {
	case *ir.If:
		succs := d.graph.SuccsOf(node)
		if len(succs) != 2 {
			log.Panicf("if statement %v has %d successors", node, len(succs))
		}
		var taken, fallthru ir.Stmt
		for _, succ := range succs {
			if succ == node.Target() {
				taken = succ
			} else {
				fallthru = succ
			}
		}
		if fallthru == nil {
			// Both successors are the branch target.
			fallthru = taken
		}

		cond := constprop.Evaluate(node.Cond, d.constants.InFact(node))
		switch {
		case !cond.IsConstant():
			d.visit(taken)
			d.visit(fallthru)
		case cond.Constant() == 0:
			d.visit(fallthru)
		default:
			d.visit(taken)
		}

	case *ir.Switch:
		selector := constprop.Evaluate(node.Value, d.constants.InFact(node))
		if !selector.IsConstant() {
			for _, succ := range d.graph.SuccsOf(node) {
				d.visit(succ)
			}
			return
		}
		for i, caseValue := range node.CaseValues() {
			if caseValue == selector.Constant() {
				d.visit(node.CaseTarget(i))
				return
			}
		}
		d.visit(node.DefaultTarget())

	default:
		for _, succ := range d.graph.SuccsOf(node) {
			d.visit(succ)
		}
	}
}

// hasNoSideEffect reports whether evaluating the r-value can never be
// observed: allocations modify the heap, casts may trap, field and array
// accesses may trap or trigger initialization, division and remainder may
// trap.
func hasNoSideEffect(rvalue ir.Exp) bool {
	switch rvalue := rvalue.(type) {
	case *ir.NewExp, *ir.CastExp, *ir.FieldAccess, *ir.ArrayAccess:
		return false
	case *ir.ArithmeticExp:
		return rvalue.Op != ir.Div && rvalue.Op != ir.Rem
	default:
		return true
	}
}
