// Package constprop implements intraprocedural constant propagation over
// integer-holding variables, on the three-point lattice
// UNDEF ⊑ CONST(k) ⊑ NAC.
package constprop

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type valueKind uint8

const (
	undef valueKind = iota
	constant
	nac
)

// Value is a point of the constant-propagation lattice.
type Value struct {
	kind valueKind
	c    int32
}

func Undef() Value { return Value{} }

func NAC() Value { return Value{kind: nac} }

func MakeConstant(c int32) Value { return Value{kind: constant, c: c} }

func (v Value) IsUndef() bool { return v.kind == undef }

func (v Value) IsNAC() bool { return v.kind == nac }

func (v Value) IsConstant() bool { return v.kind == constant }

// Constant returns the constant; defined only when IsConstant.
func (v Value) Constant() int32 {
	if v.kind != constant {
		log.Panicf("Constant() called on %v", v)
	}
	return v.c
}

// Meet computes the greatest lower bound of two values. NAC absorbs, UNDEF
// is the identity, distinct constants collapse to NAC.
func Meet(v1, v2 Value) Value {
	switch {
	case v1.IsNAC() || v2.IsNAC():
		return NAC()
	case v1.IsUndef():
		return v2
	case v2.IsUndef():
		return v1
	case v1.c == v2.c:
		return v1
	default:
		return NAC()
	}
}

func (v Value) String() string {
	switch v.kind {
	case undef:
		return "UNDEF"
	case nac:
		return "NAC"
	default:
		return fmt.Sprint(v.c)
	}
}
