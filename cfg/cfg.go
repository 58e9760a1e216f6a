// Package cfg builds intraprocedural control-flow graphs over ir statements.
// Every graph carries one synthetic entry and one synthetic exit node that
// are not part of the method body.
package cfg

import (
	"github.com/BarrensZeppelin/classflow/ir"
)

type Graph struct {
	body  *ir.Body
	entry ir.Stmt
	exit  ir.Stmt
	nodes []ir.Stmt
	succs map[ir.Stmt][]ir.Stmt
	preds map[ir.Stmt][]ir.Stmt
}

// New builds the control-flow graph of a method body. Exception edges are
// not modeled.
func New(b *ir.Body) *Graph {
	stmts := b.Stmts()

	g := &Graph{
		body:  b,
		entry: b.MakeSynthetic(-1),
		exit:  b.MakeSynthetic(len(stmts)),
		succs: make(map[ir.Stmt][]ir.Stmt, len(stmts)+2),
		preds: make(map[ir.Stmt][]ir.Stmt, len(stmts)+2),
	}

	g.nodes = append(g.nodes, g.entry)
	g.nodes = append(g.nodes, stmts...)
	g.nodes = append(g.nodes, g.exit)

	next := func(i int) ir.Stmt {
		if i+1 < len(stmts) {
			return stmts[i+1]
		}
		return g.exit
	}

	g.addEdge(g.entry, next(-1))
	for i, s := range stmts {
		switch s := s.(type) {
		case *ir.If:
			// Fall-through first, branch target second; consumers
			// distinguish the taken branch via s.Target().
			g.addEdge(s, next(i))
			g.addEdge(s, s.Target())
		case *ir.Goto:
			g.addEdge(s, s.Target())
		case *ir.Switch:
			for ci := range s.CaseValues() {
				g.addEdge(s, s.CaseTarget(ci))
			}
			g.addEdge(s, s.DefaultTarget())
		case *ir.Return:
			g.addEdge(s, g.exit)
		default:
			g.addEdge(s, next(i))
		}
	}

	return g
}

func (g *Graph) addEdge(from, to ir.Stmt) {
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

func (g *Graph) Body() *ir.Body { return g.body }

func (g *Graph) Entry() ir.Stmt { return g.entry }

func (g *Graph) Exit() ir.Stmt { return g.exit }

// Nodes returns entry, the body statements in order, and exit.
func (g *Graph) Nodes() []ir.Stmt { return g.nodes }

func (g *Graph) SuccsOf(s ir.Stmt) []ir.Stmt { return g.succs[s] }

func (g *Graph) PredsOf(s ir.Stmt) []ir.Stmt { return g.preds[s] }
