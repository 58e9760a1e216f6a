package ir

import "fmt"

// Stmt is a statement of a method body. Statements are identified by their
// position in the body; the synthetic CFG entry/exit nodes carry indices
// outside the body range.
type Stmt interface {
	fmt.Stringer
	Index() int
	Container() *Method
	// Uses lists the variables read by the statement.
	Uses() []*Var

	setIndex(int)
	setContainer(*Method)
}

type stmt struct {
	index  int
	method *Method
}

func (s *stmt) Index() int { return s.index }

func (s *stmt) Container() *Method { return s.method }

func (s *stmt) setIndex(i int) { s.index = i }

func (s *stmt) setContainer(m *Method) { s.method = m }

// DefinitionStmt is a statement that defines an l-value from an expression.
type DefinitionStmt interface {
	Stmt
	LValue() LValue
	RValue() Exp
}

// AssignStmt is a definition that is not an invocation; only these are
// candidates for the useless-assignment rule of dead-code detection.
type AssignStmt interface {
	DefinitionStmt
	assignTag()
}

// New is `x = new T`. The statement itself is the allocation site the heap
// model keys on.
type New struct {
	stmt
	LHS *Var
	Exp *NewExp
}

func (*New) assignTag() {}

func (s *New) LValue() LValue { return s.LHS }

func (s *New) RValue() Exp { return s.Exp }

func (s *New) Uses() []*Var { return nil }

func (s *New) String() string { return fmt.Sprintf("%s = %s", s.LHS, s.Exp) }

// Copy is `x = y`.
type Copy struct {
	stmt
	LHS, RHS *Var
}

func (*Copy) assignTag() {}

func (s *Copy) LValue() LValue { return s.LHS }

func (s *Copy) RValue() Exp { return s.RHS }

func (s *Copy) Uses() []*Var { return []*Var{s.RHS} }

func (s *Copy) String() string { return fmt.Sprintf("%s = %s", s.LHS, s.RHS) }

// AssignLiteral is `x = k`.
type AssignLiteral struct {
	stmt
	LHS   *Var
	Value IntLiteral
}

func (*AssignLiteral) assignTag() {}

func (s *AssignLiteral) LValue() LValue { return s.LHS }

func (s *AssignLiteral) RValue() Exp { return s.Value }

func (s *AssignLiteral) Uses() []*Var { return nil }

func (s *AssignLiteral) String() string { return fmt.Sprintf("%s = %s", s.LHS, s.Value) }

// Binary is `x = a ⊕ b`.
type Binary struct {
	stmt
	LHS *Var
	RHS BinaryExp
}

func (*Binary) assignTag() {}

func (s *Binary) LValue() LValue { return s.LHS }

func (s *Binary) RValue() Exp { return s.RHS }

func (s *Binary) Uses() []*Var {
	a, b := s.RHS.Operands()
	return []*Var{a, b}
}

func (s *Binary) String() string { return fmt.Sprintf("%s = %s", s.LHS, s.RHS) }

// Cast is `x = (T) y`.
type Cast struct {
	stmt
	LHS *Var
	RHS *CastExp
}

func (*Cast) assignTag() {}

func (s *Cast) LValue() LValue { return s.LHS }

func (s *Cast) RValue() Exp { return s.RHS }

func (s *Cast) Uses() []*Var { return []*Var{s.RHS.X} }

func (s *Cast) String() string { return fmt.Sprintf("%s = %s", s.LHS, s.RHS) }

// LoadField is `x = y.f` or `x = C.f`.
type LoadField struct {
	stmt
	LHS    *Var
	Access *FieldAccess
}

func (*LoadField) assignTag() {}

func (s *LoadField) LValue() LValue { return s.LHS }

func (s *LoadField) RValue() Exp { return s.Access }

func (s *LoadField) IsStatic() bool { return s.Access.IsStatic() }

func (s *LoadField) Field() *Field { return s.Access.Field }

func (s *LoadField) Uses() []*Var {
	if s.IsStatic() {
		return nil
	}
	return []*Var{s.Access.Base}
}

func (s *LoadField) String() string { return fmt.Sprintf("%s = %s", s.LHS, s.Access) }

// StoreField is `y.f = x` or `C.f = x`.
type StoreField struct {
	stmt
	Access *FieldAccess
	RHS    *Var
}

func (*StoreField) assignTag() {}

func (s *StoreField) LValue() LValue { return s.Access }

func (s *StoreField) RValue() Exp { return s.RHS }

func (s *StoreField) IsStatic() bool { return s.Access.IsStatic() }

func (s *StoreField) Field() *Field { return s.Access.Field }

func (s *StoreField) Uses() []*Var {
	if s.IsStatic() {
		return []*Var{s.RHS}
	}
	return []*Var{s.Access.Base, s.RHS}
}

func (s *StoreField) String() string { return fmt.Sprintf("%s = %s", s.Access, s.RHS) }

// LoadArray is `x = y[i]`.
type LoadArray struct {
	stmt
	LHS    *Var
	Access *ArrayAccess
}

func (*LoadArray) assignTag() {}

func (s *LoadArray) LValue() LValue { return s.LHS }

func (s *LoadArray) RValue() Exp { return s.Access }

func (s *LoadArray) Uses() []*Var {
	uses := []*Var{s.Access.Base}
	if s.Access.Index != nil {
		uses = append(uses, s.Access.Index)
	}
	return uses
}

func (s *LoadArray) String() string { return fmt.Sprintf("%s = %s", s.LHS, s.Access) }

// StoreArray is `y[i] = x`.
type StoreArray struct {
	stmt
	Access *ArrayAccess
	RHS    *Var
}

func (*StoreArray) assignTag() {}

func (s *StoreArray) LValue() LValue { return s.Access }

func (s *StoreArray) RValue() Exp { return s.RHS }

func (s *StoreArray) Uses() []*Var {
	uses := []*Var{s.Access.Base, s.RHS}
	if s.Access.Index != nil {
		uses = append(uses, s.Access.Index)
	}
	return uses
}

func (s *StoreArray) String() string { return fmt.Sprintf("%s = %s", s.Access, s.RHS) }

// Invoke is a call statement, optionally receiving the result: `x = o.m(...)`.
type Invoke struct {
	stmt
	Result *Var // nil when the result is discarded
	Call   *InvokeExp
}

// LValue returns the result variable, or nil (as an untyped LValue) when the
// call result is discarded.
func (s *Invoke) LValue() LValue {
	if s.Result == nil {
		return nil
	}
	return s.Result
}

func (s *Invoke) RValue() Exp { return s.Call }

func (s *Invoke) MethodRef() *MethodRef { return s.Call.Ref }

func (s *Invoke) IsStatic() bool { return s.Call.Ref.kind == InvokeStatic }

func (s *Invoke) IsSpecial() bool { return s.Call.Ref.kind == InvokeSpecial }

func (s *Invoke) IsVirtual() bool { return s.Call.Ref.kind == InvokeVirtual }

func (s *Invoke) IsInterface() bool { return s.Call.Ref.kind == InvokeInterface }

func (s *Invoke) Uses() []*Var {
	var uses []*Var
	if s.Call.Base != nil {
		uses = append(uses, s.Call.Base)
	}
	return append(uses, s.Call.Args...)
}

func (s *Invoke) String() string {
	if s.Result == nil {
		return s.Call.String()
	}
	return fmt.Sprintf("%s = %s", s.Result, s.Call)
}

// If branches to Target when the condition holds and falls through
// otherwise.
type If struct {
	stmt
	Cond   *ConditionExp
	target Stmt
}

func (s *If) Target() Stmt { return s.target }

func (s *If) SetTarget(t Stmt) { s.target = t }

func (s *If) Uses() []*Var { return []*Var{s.Cond.X, s.Cond.Y} }

func (s *If) String() string { return fmt.Sprintf("if (%s) goto %d", s.Cond, s.target.Index()) }

type Goto struct {
	stmt
	target Stmt
}

func (s *Goto) Target() Stmt { return s.target }

func (s *Goto) SetTarget(t Stmt) { s.target = t }

func (s *Goto) Uses() []*Var { return nil }

func (s *Goto) String() string { return fmt.Sprintf("goto %d", s.target.Index()) }

// Switch transfers control to the target of the case matching Value, or to
// the default target.
type Switch struct {
	stmt
	Value         *Var
	caseValues    []int32
	caseTargets   []Stmt
	defaultTarget Stmt
}

func (s *Switch) CaseValues() []int32 { return s.caseValues }

func (s *Switch) CaseTarget(i int) Stmt { return s.caseTargets[i] }

func (s *Switch) DefaultTarget() Stmt { return s.defaultTarget }

func (s *Switch) SetCaseTarget(i int, t Stmt) { s.caseTargets[i] = t }

func (s *Switch) SetDefaultTarget(t Stmt) { s.defaultTarget = t }

func (s *Switch) Uses() []*Var { return []*Var{s.Value} }

func (s *Switch) String() string { return fmt.Sprintf("switch (%s)", s.Value) }

// Return exits the method, optionally yielding a value.
type Return struct {
	stmt
	Value *Var // may be nil
}

func (s *Return) Uses() []*Var {
	if s.Value == nil {
		return nil
	}
	return []*Var{s.Value}
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.Name()
}

type Nop struct {
	stmt
}

func (s *Nop) Uses() []*Var { return nil }

func (s *Nop) String() string { return "nop" }
