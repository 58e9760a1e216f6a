package deadcode

import (
	"testing"

	"github.com/BarrensZeppelin/classflow/cfg"
	"github.com/BarrensZeppelin/classflow/constprop"
	"github.com/BarrensZeppelin/classflow/dataflow"
	"github.com/BarrensZeppelin/classflow/ir"
	"github.com/BarrensZeppelin/classflow/livevars"
	"github.com/stretchr/testify/assert"
)

func newBody() *ir.Body {
	h := ir.NewHierarchy()
	c := h.NewClass("Test", nil)
	return c.NewStaticMethod("m", nil, ir.Int).NewBody()
}

func detect(b *ir.Body) []ir.Stmt {
	g := cfg.New(b)
	constants := dataflow.Solve[*constprop.Fact](g, constprop.Analysis{})
	live := livevars.Solve(g)
	return Detect(g, constants, live)
}

// A branch on a folded-constant condition kills the untaken arm.
func TestConstantBranch(t *testing.T) {
	b := newBody()
	x := b.NewVar("x", ir.Int)
	y := b.NewVar("y", ir.Int)
	z := b.NewVar("z", ir.Int)
	two := b.NewVar("two", ir.Int)
	a := b.NewVar("a", ir.Int)

	b.EmitLiteral(x, 1)
	b.EmitLiteral(y, 2)
	b.EmitBinary(z, &ir.ArithmeticExp{Op: ir.Add, X: x, Y: y})
	b.EmitLiteral(two, 2)
	branch := b.EmitIf(&ir.ConditionExp{Op: ir.Gt, X: z, Y: two})
	elseArm := b.EmitLiteral(a, 20)
	skip := b.EmitGoto()
	thenArm := b.EmitLiteral(a, 10)
	ret := b.EmitReturn(a)
	branch.SetTarget(thenArm)
	skip.SetTarget(ret)

	dead := detect(b)
	assert.Contains(t, dead, ir.Stmt(elseArm))
	assert.Contains(t, dead, ir.Stmt(skip))
	assert.NotContains(t, dead, ir.Stmt(thenArm))
	assert.NotContains(t, dead, ir.Stmt(branch))
}

// An unknown condition keeps both arms alive.
func TestUnknownBranch(t *testing.T) {
	h := ir.NewHierarchy()
	c := h.NewClass("Test", nil)
	b := c.NewStaticMethod("m", []ir.Type{ir.Int}, ir.Int).NewBody("p")

	p := b.Param(0)
	a := b.NewVar("a", ir.Int)

	branch := b.EmitIf(&ir.ConditionExp{Op: ir.Gt, X: p, Y: p})
	b.EmitLiteral(a, 20)
	skip := b.EmitGoto()
	thenArm := b.EmitLiteral(a, 10)
	ret := b.EmitReturn(a)
	branch.SetTarget(thenArm)
	skip.SetTarget(ret)

	assert.Empty(t, detect(b))
}

// Useless assignment: the first write to x is overwritten unseen, the
// second one is kept.
func TestUselessAssignment(t *testing.T) {
	b := newBody()
	x := b.NewVar("x", ir.Int)

	first := b.EmitLiteral(x, 1)
	second := b.EmitLiteral(x, 2)
	b.EmitReturn(x)

	dead := detect(b)
	assert.Contains(t, dead, ir.Stmt(first))
	assert.NotContains(t, dead, ir.Stmt(second))
}

// Side-effecting right-hand sides are kept even when the result is unused.
func TestSideEffectsKept(t *testing.T) {
	h := ir.NewHierarchy()
	c := h.NewClass("Test", nil)
	f := c.NewField("f", ir.Int, false)
	m := c.NewMethod("m", []ir.Type{ir.Int}, ir.Int)
	b := m.NewBody("p")

	p := b.Param(0)
	unusedDiv := b.NewVar("ud", ir.Int)
	unusedLoad := b.NewVar("ul", ir.Int)
	unusedAdd := b.NewVar("ua", ir.Int)

	div := b.EmitBinary(unusedDiv, &ir.ArithmeticExp{Op: ir.Div, X: p, Y: p})
	load := b.EmitLoadField(unusedLoad, b.This(), f)
	add := b.EmitBinary(unusedAdd, &ir.ArithmeticExp{Op: ir.Add, X: p, Y: p})
	b.EmitReturn(p)

	dead := detect(b)
	assert.NotContains(t, dead, ir.Stmt(div), "division may trap")
	assert.NotContains(t, dead, ir.Stmt(load), "field access may trap")
	assert.Contains(t, dead, ir.Stmt(add), "pure arithmetic with unused result")
}

// A switch on a folded constant descends only into the matching case; with
// no matching case, only into the default.
func TestConstantSwitch(t *testing.T) {
	run := func(t *testing.T, wantLive ir.Stmt, b *ir.Body, arms ...ir.Stmt) {
		dead := detect(b)
		for _, arm := range arms {
			if arm == wantLive {
				assert.NotContains(t, dead, arm)
			} else {
				assert.Contains(t, dead, arm)
			}
		}
	}

	build := func(selector int32) (*ir.Body, *ir.Switch, []ir.Stmt) {
		b := newBody()
		v := b.NewVar("v", ir.Int)
		r := b.NewVar("r", ir.Int)
		b.EmitLiteral(v, selector)
		sw := b.EmitSwitch(v, 1, 2)
		case1 := b.EmitLiteral(r, 11)
		g1 := b.EmitGoto()
		case2 := b.EmitLiteral(r, 22)
		g2 := b.EmitGoto()
		deflt := b.EmitLiteral(r, 99)
		ret := b.EmitReturn(r)
		sw.SetCaseTarget(0, case1)
		sw.SetCaseTarget(1, case2)
		sw.SetDefaultTarget(deflt)
		g1.SetTarget(ret)
		g2.SetTarget(ret)
		return b, sw, []ir.Stmt{case1, case2, deflt}
	}

	t.Run("MatchingCase", func(t *testing.T) {
		b, _, arms := build(2)
		run(t, arms[1], b, arms...)
	})

	t.Run("DefaultCase", func(t *testing.T) {
		b, _, arms := build(7)
		run(t, arms[2], b, arms...)
	})
}

// Statements after an unconditional jump-over are unreachable.
func TestUnreachableAfterGoto(t *testing.T) {
	b := newBody()
	r := b.NewVar("r", ir.Int)

	b.EmitLiteral(r, 1)
	skip := b.EmitGoto()
	island := b.EmitLiteral(r, 2)
	ret := b.EmitReturn(r)
	skip.SetTarget(ret)

	dead := detect(b)
	assert.Contains(t, dead, ir.Stmt(island))
	assert.NotContains(t, dead, ir.Stmt(ret))
}

// The synthetic entry and exit nodes are never reported.
func TestEntryExitNeverReported(t *testing.T) {
	b := newBody()
	r := b.NewVar("r", ir.Int)
	b.EmitLiteral(r, 1)
	b.EmitReturn(r)

	g := cfg.New(b)
	constants := dataflow.Solve[*constprop.Fact](g, constprop.Analysis{})
	live := livevars.Solve(g)
	dead := Detect(g, constants, live)

	assert.NotContains(t, dead, g.Entry())
	assert.NotContains(t, dead, g.Exit())
}

// Running detection twice yields the same statements.
func TestIdempotent(t *testing.T) {
	b := newBody()
	x := b.NewVar("x", ir.Int)
	b.EmitLiteral(x, 1)
	b.EmitLiteral(x, 2)
	b.EmitReturn(x)

	assert.Equal(t, detect(b), detect(b))
}
