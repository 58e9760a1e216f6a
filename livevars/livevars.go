// Package livevars implements backward live-variable analysis. Dead-code
// detection consumes its OUT facts to find useless assignments.
package livevars

import (
	"github.com/BarrensZeppelin/classflow/cfg"
	"github.com/BarrensZeppelin/classflow/dataflow"
	"github.com/BarrensZeppelin/classflow/ir"
)

const ID = "livevars"

type Fact = dataflow.SetFact[*ir.Var]

type Analysis struct{}

func (Analysis) IsForward() bool { return false }

func (Analysis) NewBoundaryFact(*cfg.Graph) *Fact { return dataflow.NewSetFact[*ir.Var]() }

func (Analysis) NewInitialFact() *Fact { return dataflow.NewSetFact[*ir.Var]() }

func (Analysis) MeetInto(fact, target *Fact) { fact.UnionInto(target) }

// Transfer computes live-in from live-out: kill the defined variable, then
// add every use.
func (Analysis) Transfer(s ir.Stmt, out, in *Fact) bool {
	next := out.Copy()
	if def, ok := s.(ir.DefinitionStmt); ok {
		if lv, ok := def.LValue().(*ir.Var); ok {
			next.Remove(lv)
		}
	}
	for _, use := range s.Uses() {
		next.Add(use)
	}

	if next.Equals(in) {
		return false
	}
	next.UnionInto(in)
	for _, v := range in.Elems() {
		if !next.Has(v) {
			in.Remove(v)
		}
	}
	return true
}

// Solve runs the analysis over the method's CFG.
func Solve(g *cfg.Graph) *dataflow.Result[*Fact] {
	return dataflow.Solve[*Fact](g, Analysis{})
}
