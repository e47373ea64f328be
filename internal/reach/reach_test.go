package reach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/check"
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/prelude"
	"github.com/you-not-fish/runc/internal/syntax"
)

func validate(t *testing.T, src string) *build.Registry {
	t.Helper()
	pre, errs := syntax.ParseString(prelude.Path, prelude.Source())
	require.Empty(t, errs)
	pre.Builtin = true
	f, errs := syntax.ParseString("test.run", src)
	require.Empty(t, errs)

	list := diag.NewList(nil)
	reg := build.New(list)
	reg.Build(f, []*syntax.File{pre, f})
	check.New(reg, list).Check()
	require.Zero(t, list.Len(), "unexpected errors: %v", list.Messages())
	return reg
}

func fn(t *testing.T, reg *build.Registry, real string) *syntax.FuncDecl {
	t.Helper()
	for _, f := range reg.Funcs {
		if f.Real == real {
			return f
		}
	}
	t.Fatalf("no function %s", real)
	return nil
}

func TestCountFromEntry(t *testing.T) {
	reg := validate(t, `
class A {
	x:int
	func used():int => x
	func unused():int => 0
}
class B {}
func helper():int => 1
func dead():int => 2
main {
	var a = new A()
	print(a.used() + helper())
}
`)
	n := Count(reg)
	assert.Positive(t, n)

	assert.True(t, reg.Root.Main.Used())
	assert.True(t, reg.Class("A").Used())
	assert.True(t, fn(t, reg, "A_used").Used())
	assert.True(t, fn(t, reg, "A_this").Used())
	assert.True(t, fn(t, reg, "helper").Used())
	assert.True(t, fn(t, reg, "print_int").Used())
	assert.True(t, reg.Universe.Int.Used())

	assert.False(t, fn(t, reg, "A_unused").Used())
	assert.False(t, fn(t, reg, "dead").Used())
	assert.False(t, reg.Class("B").Used())
	assert.False(t, fn(t, reg, "print_string").Used())

	assert.Zero(t, Count(reg), "counting twice marks nothing new")
}

func TestGlobalInitializers(t *testing.T) {
	reg := validate(t, `
func seed():int => 42
var g = seed()
`)
	Count(reg)
	assert.True(t, fn(t, reg, "seed").Used())
	assert.True(t, reg.Globals[0].Used())
}

func TestBasesAndChaining(t *testing.T) {
	reg := validate(t, `
class Base {
	this(x:int) {}
	dispose() {}
}
class Derived : Base {
	this() : base(1) {}
}
main {
	var d = new Derived()
}
`)
	Count(reg)
	assert.True(t, reg.Class("Base").Used())
	assert.True(t, fn(t, reg, "Base_this_int").Used())
	assert.True(t, reg.Class("Base").Dispose.Used())
}

func TestInterfaceDispatch(t *testing.T) {
	reg := validate(t, `
interface Shape {
	func area():int
	property name:string
}
class Square : Shape {
	s:int
	property name:string
	func area():int => s * s
}
class Circle : Shape {
	property name:string
	func area():int => 3
}
class Other {
	func area():int => 0
}
main {
	var sh:Shape = new Square()
	print(sh.area())
	print(sh.name)
}
`)
	Count(reg)
	assert.True(t, fn(t, reg, "Square_area").Used())
	assert.True(t, fn(t, reg, "Circle_area").Used())
	assert.False(t, fn(t, reg, "Other_area").Used())
	assert.True(t, fn(t, reg, "Square_name_get").Used())
	assert.False(t, fn(t, reg, "Square_name_set").Used())
}

func TestLookupInherited(t *testing.T) {
	reg := validate(t, `
class A { func f():int => 1 }
class B : A {}
class C : A { func f():int => 2 }
`)
	idx := MethodIndex(reg)
	assert.Equal(t, "A_f", Lookup(idx, reg.Class("B"), "f").Real)
	assert.Equal(t, "C_f", Lookup(idx, reg.Class("C"), "f").Real)
	assert.Nil(t, Lookup(idx, reg.Class("B"), "g"))
}
