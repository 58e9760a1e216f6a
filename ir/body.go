package ir

// Body is the IR of a concrete method: its variables and its statement list.
// Statements are created through the emitter methods, which assign indices,
// set the containing method and maintain the per-variable back-reference
// tables.
type Body struct {
	method     *Method
	thisVar    *Var
	params     []*Var
	vars       []*Var
	stmts      []Stmt
	returnVars []*Var
}

// NewBody attaches a fresh body to the method. Parameter variables are
// created from the method's parameter types; instance methods additionally
// receive a `this` variable.
func (m *Method) NewBody(paramNames ...string) *Body {
	if m.abstract {
		panicf("abstract method %v cannot have a body", m)
	}
	if m.body != nil {
		panicf("method %v already has a body", m)
	}
	if len(paramNames) != len(m.paramTypes) {
		panicf("%v: %d parameter names for %d parameters", m, len(paramNames), len(m.paramTypes))
	}

	b := &Body{method: m}
	if !m.static {
		b.thisVar = b.NewVar("this", m.class.typ)
	}
	for i, name := range paramNames {
		b.params = append(b.params, b.NewVar(name, m.paramTypes[i]))
	}
	m.body = b
	return b
}

func (b *Body) Method() *Method { return b.method }

// This returns the receiver variable; nil for static methods.
func (b *Body) This() *Var { return b.thisVar }

func (b *Body) Params() []*Var { return b.params }

func (b *Body) Param(i int) *Var { return b.params[i] }

func (b *Body) Vars() []*Var { return b.vars }

func (b *Body) Stmts() []Stmt { return b.stmts }

// ReturnVars lists the variables returned by the method's return statements.
func (b *Body) ReturnVars() []*Var { return b.returnVars }

func (b *Body) NewVar(name string, typ Type) *Var {
	v := &Var{name: name, typ: typ, method: b.method}
	b.vars = append(b.vars, v)
	return v
}

// MakeSynthetic creates a statement owned by the method but outside the body
// (the CFG's virtual entry and exit nodes).
func (b *Body) MakeSynthetic(index int) *Nop {
	s := &Nop{}
	s.setIndex(index)
	s.setContainer(b.method)
	return s
}

func (b *Body) emit(s Stmt) {
	s.setIndex(len(b.stmts))
	s.setContainer(b.method)
	b.stmts = append(b.stmts, s)
}

// EmitNew emits `lhs = new t` and returns the allocation site.
func (b *Body) EmitNew(lhs *Var, t Type) *New {
	s := &New{LHS: lhs, Exp: &NewExp{T: t}}
	b.emit(s)
	return s
}

func (b *Body) EmitCopy(lhs, rhs *Var) *Copy {
	s := &Copy{LHS: lhs, RHS: rhs}
	b.emit(s)
	return s
}

func (b *Body) EmitLiteral(lhs *Var, value int32) *AssignLiteral {
	s := &AssignLiteral{LHS: lhs, Value: IntLiteral(value)}
	b.emit(s)
	return s
}

func (b *Body) EmitBinary(lhs *Var, rhs BinaryExp) *Binary {
	s := &Binary{LHS: lhs, RHS: rhs}
	b.emit(s)
	return s
}

func (b *Body) EmitCast(lhs *Var, t Type, x *Var) *Cast {
	s := &Cast{LHS: lhs, RHS: &CastExp{T: t, X: x}}
	b.emit(s)
	return s
}

func (b *Body) EmitLoadStatic(lhs *Var, f *Field) *LoadField {
	s := &LoadField{LHS: lhs, Access: &FieldAccess{Field: f}}
	b.emit(s)
	return s
}

func (b *Body) EmitLoadField(lhs, base *Var, f *Field) *LoadField {
	s := &LoadField{LHS: lhs, Access: &FieldAccess{Base: base, Field: f}}
	b.emit(s)
	base.loadFields = append(base.loadFields, s)
	return s
}

func (b *Body) EmitStoreStatic(f *Field, rhs *Var) *StoreField {
	s := &StoreField{Access: &FieldAccess{Field: f}, RHS: rhs}
	b.emit(s)
	return s
}

func (b *Body) EmitStoreField(base *Var, f *Field, rhs *Var) *StoreField {
	s := &StoreField{Access: &FieldAccess{Base: base, Field: f}, RHS: rhs}
	b.emit(s)
	base.storeFields = append(base.storeFields, s)
	return s
}

func (b *Body) EmitLoadArray(lhs, base, index *Var) *LoadArray {
	s := &LoadArray{LHS: lhs, Access: &ArrayAccess{Base: base, Index: index}}
	b.emit(s)
	base.loadArrays = append(base.loadArrays, s)
	return s
}

func (b *Body) EmitStoreArray(base, index, rhs *Var) *StoreArray {
	s := &StoreArray{Access: &ArrayAccess{Base: base, Index: index}, RHS: rhs}
	b.emit(s)
	base.storeArrays = append(base.storeArrays, s)
	return s
}

// EmitInvoke emits a call statement. base must be nil exactly for static
// calls; result may be nil to discard the return value.
func (b *Body) EmitInvoke(result *Var, ref *MethodRef, base *Var, args ...*Var) *Invoke {
	if (base == nil) != (ref.kind == InvokeStatic) {
		panicf("receiver/kind mismatch for %v", ref)
	}

	s := &Invoke{Result: result, Call: &InvokeExp{Ref: ref, Base: base, Args: args}}
	b.emit(s)
	if base != nil {
		base.invokes = append(base.invokes, s)
	}
	return s
}

// EmitIf emits a conditional branch; the branch target is attached later via
// SetTarget once the target statement exists.
func (b *Body) EmitIf(cond *ConditionExp) *If {
	s := &If{Cond: cond}
	b.emit(s)
	return s
}

func (b *Body) EmitGoto() *Goto {
	s := &Goto{}
	b.emit(s)
	return s
}

// EmitSwitch emits a switch on v with one pending target per case value plus
// a pending default target.
func (b *Body) EmitSwitch(v *Var, caseValues ...int32) *Switch {
	s := &Switch{Value: v, caseValues: caseValues, caseTargets: make([]Stmt, len(caseValues))}
	b.emit(s)
	return s
}

func (b *Body) EmitReturn(v *Var) *Return {
	s := &Return{Value: v}
	b.emit(s)
	if v != nil {
		b.returnVars = append(b.returnVars, v)
	}
	return s
}

func (b *Body) EmitNop() *Nop {
	s := &Nop{}
	b.emit(s)
	return s
}
