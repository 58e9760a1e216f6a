package constprop

import (
	"math"

	"github.com/BarrensZeppelin/classflow/cfg"
	"github.com/BarrensZeppelin/classflow/ir"
)

// ID is the analysis identifier used by drivers.
const ID = "constprop"

// Analysis plugs constant propagation into the dataflow framework
// (a forward analysis over *Fact).
type Analysis struct{}

func (Analysis) IsForward() bool { return true }

// NewBoundaryFact binds every integer-holding parameter to NAC; nothing is
// known about caller-supplied values.
func (Analysis) NewBoundaryFact(g *cfg.Graph) *Fact {
	entry := NewFact()
	for _, param := range g.Body().Params() {
		if CanHoldInt(param) {
			entry.Update(param, NAC())
		}
	}
	return entry
}

func (Analysis) NewInitialFact() *Fact { return NewFact() }

func (Analysis) MeetInto(fact, target *Fact) {
	for _, v := range fact.Vars() {
		target.Update(v, Meet(fact.Get(v), target.Get(v)))
	}
}

func (Analysis) Transfer(s ir.Stmt, in, out *Fact) bool {
	old := out.Copy()
	out.copyFrom(in)
	if def, ok := s.(ir.DefinitionStmt); ok {
		if lv, ok := def.LValue().(*ir.Var); ok && CanHoldInt(lv) {
			out.Update(lv, Evaluate(def.RValue(), in))
		}
	}
	return !out.Equals(old)
}

// CanHoldInt reports whether the variable's static type is in the domain of
// the analysis (byte, short, int, char or boolean).
func CanHoldInt(v *ir.Var) bool {
	if t, ok := v.Type().(ir.PrimitiveType); ok {
		switch t {
		case ir.Byte, ir.Short, ir.Int, ir.Char, ir.Boolean:
			return true
		}
	}
	return false
}

// Evaluate abstracts the expression under the given fact.
//
// A division or remainder whose divisor is CONST(0) evaluates to UNDEF
// regardless of the dividend (the program would trap; no useful constant).
// A binary whose operands are CONST and UNDEF also evaluates to UNDEF, not
// to the constant: surprising, but required for monotonicity, since the
// UNDEF operand may yet be lowered to an incompatible constant.
func Evaluate(exp ir.Exp, in *Fact) Value {
	switch exp := exp.(type) {
	case ir.IntLiteral:
		return MakeConstant(exp.Value())

	case *ir.Var:
		return in.Get(exp)

	case ir.BinaryExp:
		x, y := exp.Operands()
		v1, v2 := in.Get(x), in.Get(y)

		if v1.IsConstant() && v2.IsConstant() {
			return evalBinary(exp, v1.Constant(), v2.Constant())
		}
		if isDivRem(exp) && v2.IsConstant() && v2.Constant() == 0 {
			return Undef()
		}
		if v1.IsNAC() || v2.IsNAC() {
			return NAC()
		}
		return Undef()

	default:
		// Side-effecting or unmodeled expression shapes.
		return NAC()
	}
}

func isDivRem(exp ir.BinaryExp) bool {
	e, ok := exp.(*ir.ArithmeticExp)
	return ok && (e.Op == ir.Div || e.Op == ir.Rem)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// evalBinary folds a binary over two constants with 32-bit two's-complement
// semantics: arithmetic wraps, shift amounts are masked to 5 bits, and
// unsigned shift-right is logical.
func evalBinary(exp ir.BinaryExp, c1, c2 int32) Value {
	switch exp := exp.(type) {
	case *ir.ArithmeticExp:
		switch exp.Op {
		case ir.Add:
			return MakeConstant(c1 + c2)
		case ir.Sub:
			return MakeConstant(c1 - c2)
		case ir.Mul:
			return MakeConstant(c1 * c2)
		case ir.Div:
			if c2 == 0 {
				return Undef()
			}
			if c1 == math.MinInt32 && c2 == -1 {
				// Wraps instead of trapping.
				return MakeConstant(math.MinInt32)
			}
			return MakeConstant(c1 / c2)
		case ir.Rem:
			if c2 == 0 {
				return Undef()
			}
			if c1 == math.MinInt32 && c2 == -1 {
				return MakeConstant(0)
			}
			return MakeConstant(c1 % c2)
		}

	case *ir.ConditionExp:
		switch exp.Op {
		case ir.Eq:
			return MakeConstant(boolToInt(c1 == c2))
		case ir.Ne:
			return MakeConstant(boolToInt(c1 != c2))
		case ir.Lt:
			return MakeConstant(boolToInt(c1 < c2))
		case ir.Gt:
			return MakeConstant(boolToInt(c1 > c2))
		case ir.Le:
			return MakeConstant(boolToInt(c1 <= c2))
		case ir.Ge:
			return MakeConstant(boolToInt(c1 >= c2))
		}

	case *ir.ShiftExp:
		shift := uint32(c2) & 31
		switch exp.Op {
		case ir.Shl:
			return MakeConstant(c1 << shift)
		case ir.Shr:
			return MakeConstant(c1 >> shift)
		case ir.Ushr:
			return MakeConstant(int32(uint32(c1) >> shift))
		}

	case *ir.BitwiseExp:
		switch exp.Op {
		case ir.Or:
			return MakeConstant(c1 | c2)
		case ir.And:
			return MakeConstant(c1 & c2)
		case ir.Xor:
			return MakeConstant(c1 ^ c2)
		}
	}

	return NAC()
}
