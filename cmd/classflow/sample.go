package main

import "github.com/BarrensZeppelin/classflow/ir"

// buildSampleWorld constructs the bundled demo program:
//
//	class Container { Item it; void store(Item i) { this.it = i; } Item fetch() { return this.it; } }
//	class Item {}
//	class Main {
//	    static void main() {
//	        c = new Container(); i = new Item();
//	        c.store(i); got = c.fetch();
//	        n = compute();
//	    }
//	    static int compute() {
//	        x = 1; y = 2; z = x + y;
//	        if (z > 2) { a = 10; } else { a = 20; }
//	        dead = 99;
//	        return a;
//	    }
//	}
func buildSampleWorld() *ir.World {
	h := ir.NewHierarchy()
	object := h.NewClass("Object", nil)
	item := h.NewClass("Item", object)
	container := h.NewClass("Container", object)
	itField := container.NewField("it", item.Type(), false)

	store := container.NewMethod("store", []ir.Type{item.Type()}, ir.Void)
	{
		b := store.NewBody("i")
		b.EmitStoreField(b.This(), itField, b.Param(0))
		b.EmitReturn(nil)
	}

	fetch := container.NewMethod("fetch", nil, item.Type())
	{
		b := fetch.NewBody()
		r := b.NewVar("r", item.Type())
		b.EmitLoadField(r, b.This(), itField)
		b.EmitReturn(r)
	}

	mainClass := h.NewClass("Main", object)

	compute := mainClass.NewStaticMethod("compute", nil, ir.Int)
	{
		b := compute.NewBody()
		x := b.NewVar("x", ir.Int)
		y := b.NewVar("y", ir.Int)
		z := b.NewVar("z", ir.Int)
		two := b.NewVar("two", ir.Int)
		a := b.NewVar("a", ir.Int)
		dead := b.NewVar("dead", ir.Int)

		b.EmitLiteral(x, 1)
		b.EmitLiteral(y, 2)
		b.EmitBinary(z, &ir.ArithmeticExp{Op: ir.Add, X: x, Y: y})
		b.EmitLiteral(two, 2)
		branch := b.EmitIf(&ir.ConditionExp{Op: ir.Gt, X: z, Y: two})
		b.EmitLiteral(a, 20)
		skip := b.EmitGoto()
		branch.SetTarget(b.EmitLiteral(a, 10))
		skip.SetTarget(b.EmitLiteral(dead, 99))
		b.EmitReturn(a)
	}

	mainMethod := mainClass.NewStaticMethod("main", nil, ir.Void)
	{
		b := mainMethod.NewBody()
		c := b.NewVar("c", container.Type())
		i := b.NewVar("i", item.Type())
		got := b.NewVar("got", item.Type())
		n := b.NewVar("n", ir.Int)

		b.EmitNew(c, container.Type())
		b.EmitNew(i, item.Type())
		b.EmitInvoke(nil, ir.RefTo(ir.InvokeVirtual, store), c, i)
		b.EmitInvoke(got, ir.RefTo(ir.InvokeVirtual, fetch), c)
		b.EmitInvoke(n, ir.RefTo(ir.InvokeStatic, compute), nil)
		b.EmitReturn(nil)
	}

	return &ir.World{Hierarchy: h, MainMethod: mainMethod}
}
