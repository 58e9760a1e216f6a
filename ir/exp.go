package ir

import (
	"fmt"
	"strings"

	"github.com/BarrensZeppelin/classflow/internal/slices"
)

type Exp interface {
	fmt.Stringer
	// method used to tag expression constructors
	expTag()
}

// LValue is an expression that may appear on the left of a definition: a
// variable, a field access or an array access.
type LValue interface {
	Exp
	lvalueTag()
}

type IntLiteral int32

func (IntLiteral) expTag() {}

func (l IntLiteral) Value() int32 { return int32(l) }

func (l IntLiteral) String() string { return fmt.Sprint(int32(l)) }

// Var is a method-local variable (parameter, temporary or `this`). The
// back-reference tables are filled in while statements are emitted and let
// the pointer analyses look up all loads, stores and invocations on a
// receiver without rescanning method bodies.
type Var struct {
	name   string
	typ    Type
	method *Method

	storeFields []*StoreField
	loadFields  []*LoadField
	storeArrays []*StoreArray
	loadArrays  []*LoadArray
	invokes     []*Invoke
}

func (*Var) expTag() {}

func (*Var) lvalueTag() {}

func (v *Var) Name() string { return v.name }

func (v *Var) Type() Type { return v.typ }

func (v *Var) Method() *Method { return v.method }

// StoreFields returns every `v.f = x` statement in the program with v as the
// base.
func (v *Var) StoreFields() []*StoreField { return v.storeFields }

func (v *Var) LoadFields() []*LoadField { return v.loadFields }

func (v *Var) StoreArrays() []*StoreArray { return v.storeArrays }

func (v *Var) LoadArrays() []*LoadArray { return v.loadArrays }

// Invokes returns every instance call with v as the receiver.
func (v *Var) Invokes() []*Invoke { return v.invokes }

func (v *Var) String() string { return v.name }

type ArithmeticOp int

const (
	Add ArithmeticOp = iota
	Sub
	Mul
	Div
	Rem
)

func (op ArithmeticOp) String() string { return [...]string{"+", "-", "*", "/", "%"}[op] }

type ConditionOp int

const (
	Eq ConditionOp = iota
	Ne
	Lt
	Gt
	Le
	Ge
)

func (op ConditionOp) String() string { return [...]string{"==", "!=", "<", ">", "<=", ">="}[op] }

type ShiftOp int

const (
	Shl ShiftOp = iota
	Shr
	Ushr
)

func (op ShiftOp) String() string { return [...]string{"<<", ">>", ">>>"}[op] }

type BitwiseOp int

const (
	Or BitwiseOp = iota
	And
	Xor
)

func (op BitwiseOp) String() string { return [...]string{"|", "&", "^"}[op] }

// BinaryExp is implemented by the four binary expression families. Operands
// are always variables (three-address form).
type BinaryExp interface {
	Exp
	Operands() (*Var, *Var)
}

type ArithmeticExp struct {
	Op   ArithmeticOp
	X, Y *Var
}

func (*ArithmeticExp) expTag() {}

func (e *ArithmeticExp) Operands() (*Var, *Var) { return e.X, e.Y }

func (e *ArithmeticExp) String() string { return fmt.Sprintf("%s %s %s", e.X, e.Op, e.Y) }

type ConditionExp struct {
	Op   ConditionOp
	X, Y *Var
}

func (*ConditionExp) expTag() {}

func (e *ConditionExp) Operands() (*Var, *Var) { return e.X, e.Y }

func (e *ConditionExp) String() string { return fmt.Sprintf("%s %s %s", e.X, e.Op, e.Y) }

type ShiftExp struct {
	Op   ShiftOp
	X, Y *Var
}

func (*ShiftExp) expTag() {}

func (e *ShiftExp) Operands() (*Var, *Var) { return e.X, e.Y }

func (e *ShiftExp) String() string { return fmt.Sprintf("%s %s %s", e.X, e.Op, e.Y) }

type BitwiseExp struct {
	Op   BitwiseOp
	X, Y *Var
}

func (*BitwiseExp) expTag() {}

func (e *BitwiseExp) Operands() (*Var, *Var) { return e.X, e.Y }

func (e *BitwiseExp) String() string { return fmt.Sprintf("%s %s %s", e.X, e.Op, e.Y) }

// NewExp is an allocation of the given type (class or array).
type NewExp struct {
	T Type
}

func (*NewExp) expTag() {}

func (e *NewExp) String() string { return "new " + e.T.String() }

// CastExp is a checked cast; it may trap at runtime.
type CastExp struct {
	T Type
	X *Var
}

func (*CastExp) expTag() {}

func (e *CastExp) String() string { return fmt.Sprintf("(%s) %s", e.T, e.X) }

// FieldAccess names a field of a base object, or a static field when Base is
// nil.
type FieldAccess struct {
	Base  *Var
	Field *Field
}

func (*FieldAccess) expTag() {}

func (*FieldAccess) lvalueTag() {}

func (e *FieldAccess) IsStatic() bool { return e.Base == nil }

func (e *FieldAccess) String() string {
	if e.IsStatic() {
		return e.Field.String()
	}
	return fmt.Sprintf("%s.%s", e.Base, e.Field.Name())
}

type ArrayAccess struct {
	Base  *Var
	Index *Var
}

func (*ArrayAccess) expTag() {}

func (*ArrayAccess) lvalueTag() {}

func (e *ArrayAccess) String() string {
	if e.Index == nil {
		return e.Base.String() + "[*]"
	}
	return fmt.Sprintf("%s[%s]", e.Base, e.Index)
}

// InvokeExp is a method invocation. Base is nil for static calls.
type InvokeExp struct {
	Ref  *MethodRef
	Base *Var
	Args []*Var
}

func (*InvokeExp) expTag() {}

func (e *InvokeExp) Arg(i int) *Var { return e.Args[i] }

func (e *InvokeExp) String() string {
	args := strings.Join(slices.Map(e.Args, (*Var).Name), ", ")
	if e.Base == nil {
		return fmt.Sprintf("invokestatic %v(%s)", e.Ref, args)
	}
	return fmt.Sprintf("invoke%s %s.%v(%s)", e.Ref.Kind(), e.Base, e.Ref, args)
}
