// Package ir defines the class-based intermediate representation that the
// analyses operate on: a single-inheritance class hierarchy with interfaces,
// methods with three-address statement bodies, and the per-variable
// back-reference tables the pointer analyses consume.
package ir

import "fmt"

type Type interface {
	fmt.Stringer
	// method used to tag type constructors
	typeTag()
}

type PrimitiveType int

const (
	Void PrimitiveType = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
)

var primitiveNames = [...]string{
	Void: "void", Boolean: "boolean", Byte: "byte", Char: "char",
	Short: "short", Int: "int", Long: "long", Float: "float", Double: "double",
}

func (t PrimitiveType) typeTag() {}

func (t PrimitiveType) String() string { return primitiveNames[t] }

// ClassType is the reference type of a class or interface.
type ClassType struct {
	class *Class
}

func (t *ClassType) typeTag() {}

func (t *ClassType) Class() *Class { return t.class }

func (t *ClassType) String() string { return t.class.Name() }

type ArrayType struct {
	Elem Type
}

func (t *ArrayType) typeTag() {}

func (t *ArrayType) String() string { return t.Elem.String() + "[]" }
