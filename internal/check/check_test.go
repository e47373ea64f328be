package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/prelude"
	"github.com/you-not-fish/runc/internal/syntax"
)

// checkSource registers and validates src together with the prelude.
func checkSource(t *testing.T, src string) (*build.Registry, *syntax.File, *diag.List) {
	t.Helper()
	pre, errs := syntax.ParseString(prelude.Path, prelude.Source())
	require.Empty(t, errs)
	pre.Builtin = true

	f, errs := syntax.ParseString("test.run", src)
	require.Empty(t, errs, "syntax errors in test source")

	list := diag.NewList(nil)
	reg := build.New(list)
	reg.Build(f, []*syntax.File{pre, f})
	require.Zero(t, list.Len(), "registry errors: %v", list.Messages())
	New(reg, list).Check()
	return reg, f, list
}

func expectNoErrors(t *testing.T, src string) (*build.Registry, *syntax.File) {
	t.Helper()
	reg, f, list := checkSource(t, src)
	require.Zero(t, list.Len(), "unexpected errors: %v", list.Messages())
	return reg, f
}

func expectErrors(t *testing.T, src string, msgs ...string) *diag.List {
	t.Helper()
	_, _, list := checkSource(t, src)
	require.NotZero(t, list.Len(), "expected errors containing %v", msgs)
	text := strings.Join(list.Messages(), "\n")
	for _, msg := range msgs {
		assert.Contains(t, text, msg)
	}
	return list
}

// find returns the first node of type T below root accepted by ok.
func find[T syntax.Node](root syntax.Node, ok func(T) bool) T {
	var found T
	done := false
	syntax.Inspect(root, func(n syntax.Node) bool {
		if done {
			return false
		}
		if x, is := n.(T); is && (ok == nil || ok(x)) {
			found = x
			done = true
			return false
		}
		return true
	})
	return found
}

func varNamed(f *syntax.File, name string) *syntax.VarDecl {
	return find(f, func(v *syntax.VarDecl) bool { return v.Name == name })
}

func callOf(f *syntax.File, name string) *syntax.CallExpr {
	return find(f, func(c *syntax.CallExpr) bool { return c.Name.Value == name })
}

func TestGlobalInference(t *testing.T) {
	reg, f := expectNoErrors(t, `var b = 10 + 10`)
	b := varNamed(f, "b")
	assert.Same(t, reg.Universe.Int, b.Class)
	assert.Same(t, reg.Universe.Int, b.Init.Type())
}

func TestUnknownName(t *testing.T) {
	list := expectErrors(t, `
main {
	x = 1
}
`, diag.MsgUnknownName)
	assert.Equal(t, 1, list.Len())
}

func TestLocalsAndParams(t *testing.T) {
	reg, f := expectNoErrors(t, `
func area(w:int, h:f64):f64 {
	var a = w * h
	return a
}
main {
	var s = "x"
	var n = s.len()
	print(area(2, 1.5))
}
`)
	assert.Same(t, reg.Universe.F64, varNamed(f, "a").Class)
	assert.Same(t, reg.Universe.Int, varNamed(f, "n").Class)
	call := callOf(f, "area")
	require.NotNil(t, call.Func)
	assert.Equal(t, "area_int_f64", call.Func.Real)
}

func TestUseBeforeDeclaration(t *testing.T) {
	expectErrors(t, `
main {
	var a = b
	var b = 1
}
`, diag.MsgUnknownName)

	// globals are validated on demand
	reg, f := expectNoErrors(t, `
var x = y * 2
var y = 1.5
`)
	assert.Same(t, reg.Universe.F64, varNamed(f, "x").Class)
}

func TestFieldsAndThis(t *testing.T) {
	reg, f := expectNoErrors(t, `
class P {
	x:int
	this(v:int) { x = v }
	func twice():int => this.x * 2
}
main {
	var p = new P(3)
	var t = p.twice()
	var x = p.x
}
`)
	p := reg.Class("P")
	assert.Same(t, p, varNamed(f, "p").Class)
	assert.Same(t, reg.Universe.Int, varNamed(f, "t").Class)
	assert.Same(t, reg.Universe.Int, varNamed(f, "x").Class)

	n := find(f, func(n *syntax.NewExpr) bool { return true })
	require.NotNil(t, n.Func)
	assert.Equal(t, "P_this_int", n.Func.Real)
}

func TestPropertyRewrite(t *testing.T) {
	reg, f := expectNoErrors(t, `
class A {
	v:int
	property p:int {
		get => v
		set { v = value }
	}
}
main {
	var a = new A()
	a.p = 5
	var x = a.p
}
`)
	assert.Same(t, reg.Universe.Int, varNamed(f, "x").Class)

	get := varNamed(f, "x").Init.(*syntax.CallExpr)
	require.NotNil(t, get.Func)
	assert.Equal(t, syntax.FuncGetter, get.Func.Kind)
	assert.Equal(t, "A_p_get", get.Func.Real)

	set := find(f, func(c *syntax.CallExpr) bool { return c.Func != nil && c.Func.Kind == syntax.FuncSetter })
	require.NotNil(t, set)
	require.Len(t, set.Args, 1)
	assert.Equal(t, "5", set.Args[0].(*syntax.BasicLit).Value)
	_, ok := set.Parent().(*syntax.ExprStmt)
	assert.True(t, ok)

	assert.Nil(t, find(f, func(s *syntax.SelectorExpr) bool { return s.Sel.Value == "p" }))
}

func TestSimplePropertyStaysField(t *testing.T) {
	reg, f := expectNoErrors(t, `
class A {
	property n:int = 4
}
main {
	var a = new A()
	a.n = 1
	var x = a.n
}
`)
	assert.Same(t, reg.Universe.Int, varNamed(f, "x").Class)
	sel := varNamed(f, "x").Init.(*syntax.SelectorExpr)
	_, ok := sel.Sel.From.(*syntax.PropertyDecl)
	assert.True(t, ok)
}

func TestPropertyErrors(t *testing.T) {
	expectErrors(t, `
class A {
	property p:int => 1
}
main {
	var a = new A()
	a.p = 2
}
`, diag.MsgNotWritable)
}

func TestCompoundPropertyAssign(t *testing.T) {
	_, f := expectNoErrors(t, `
class A {
	v:int
	property p:int {
		get => v
		set { v = value }
	}
}
main {
	var a = new A()
	a.p += 2
}
`)
	set := find(f, func(c *syntax.CallExpr) bool { return c.Func != nil && c.Func.Kind == syntax.FuncSetter })
	require.NotNil(t, set)
	sum := set.Args[0].(*syntax.BinaryExpr)
	assert.Equal(t, syntax.Add, sum.Op)
	get, ok := sum.X.(*syntax.CallExpr)
	require.True(t, ok)
	assert.Equal(t, syntax.FuncGetter, get.Func.Kind)
}

func TestIndexerRewrite(t *testing.T) {
	reg, f := expectNoErrors(t, `
class M {
	last:int
	[k:int]:int {
		get => k * 2
		set { last = value }
	}
}
main {
	var m = new M()
	m[1] = m[2]
	var s = "abc"
	var c = s[0]
	var xs = new int[3]
	var e = xs[1]
}
`)
	set := find(f, func(c *syntax.CallExpr) bool { return c.Func != nil && c.Func.Kind == syntax.FuncSetter })
	require.NotNil(t, set)
	require.Len(t, set.Args, 2)
	get, ok := set.Args[1].(*syntax.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "M_index_get_int", get.Func.Real)

	assert.Same(t, reg.Universe.Char, varNamed(f, "c").Class)
	assert.Same(t, reg.ArrayOf(reg.Universe.Int), varNamed(f, "xs").Class)
	assert.Same(t, reg.Universe.Int, varNamed(f, "e").Class)

	expectErrors(t, `
class A {}
main {
	var a = new A()
	var x = a[0]
}
`, diag.MsgNoIndexer)
}

func TestOperatorRewrite(t *testing.T) {
	reg, f := expectNoErrors(t, `
class V {
	x:int
	operator +(o:V):V => this
}
main {
	var a = new V()
	var c = a + a
}
`)
	c := varNamed(f, "c")
	call, ok := c.Init.(*syntax.CallExpr)
	require.True(t, ok)
	assert.Equal(t, syntax.FuncOperator, call.Func.Kind)
	assert.Equal(t, "V_operator_add_V", call.Func.Real)
	assert.Same(t, reg.Class("V"), c.Class)
}

func TestImplicitConversion(t *testing.T) {
	reg, f := expectNoErrors(t, `
class Meters {
	v:int
	@implicit this(x:int) { v = x }
}
func f(m:Meters) {}
main {
	f(5)
	var m:Meters = 7
}
`)
	call := callOf(f, "f")
	n, ok := call.Args[0].(*syntax.NewExpr)
	require.True(t, ok)
	assert.Same(t, reg.Class("Meters"), n.Type())
	assert.True(t, n.Func.Implicit)

	_, ok = varNamed(f, "m").Init.(*syntax.NewExpr)
	assert.True(t, ok)

	expectErrors(t, `
class Meters {}
func f(m:Meters) {}
main {
	f(5)
}
`, diag.MsgNoOverload)
}

func TestOverloadResolution(t *testing.T) {
	_, f := expectNoErrors(t, `
func show(a:int):int => 1
func show(a:string):int => 2
func show(a:int, b:int):int => 3
main {
	show("x")
	show(1, 2)
	print(1.5)
	print('c')
}
`)
	var reals []string
	syntax.Inspect(f, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.CallExpr); ok && c.Func != nil {
			reals = append(reals, c.Func.Real)
		}
		return true
	})
	assert.Equal(t, []string{"show_string", "show_int_int", "print_f64", "print_char"}, reals)

	expectErrors(t, `
func show(a:int) {}
main {
	show(1, 2)
}
`, diag.MsgNoOverload)
}

func TestOverloadDeclarationOrder(t *testing.T) {
	_, f := expectNoErrors(t, `
func pick(a:f64):int => 1
func pick(a:i64):int => 2
func pick(a:int):int => 3
main {
	var s:i16 = 4
	pick(s)
	pick(7)
	pick(2.5)
}
`)
	var reals []string
	syntax.Inspect(f, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.CallExpr); ok && c.Func != nil {
			reals = append(reals, c.Func.Real)
		}
		return true
	})
	// no exact signature for i16: the first compatible declaration wins
	assert.Equal(t, []string{"pick_f64", "pick_int", "pick_f64"}, reals)
}

func TestVariadic(t *testing.T) {
	reg, f := expectNoErrors(t, `
func sum(...xs:int):int {
	var t = 0
	for x in xs {
		t += x
	}
	return t
}
main {
	print(sum(1, 2, 3))
	printf("%d %s\n", 1, "a")
}
`)
	x := varNamed(f, "x")
	assert.Same(t, reg.Universe.Int, x.Class)
	assert.Equal(t, "sum_variadic", callOf(f, "sum").Func.Real)
}

func TestConstAssign(t *testing.T) {
	expectErrors(t, `
const k = 1
main {
	k = 2
}
`, diag.MsgConstAssign)

	expectErrors(t, `
enum E { A, B }
main {
	E.A = 3
}
`, diag.MsgConstAssign)
}

func TestLabels(t *testing.T) {
	_, f := expectNoErrors(t, `
main {
	goto end
	print(1)
end:
	print(2)
}
`)
	g := find[*syntax.GotoStmt](f, nil)
	require.NotNil(t, g.Target)
	assert.Equal(t, "end", g.Target.Label)

	expectErrors(t, `
main {
	goto nowhere
}
`, diag.MsgUnknownLabel)

	expectErrors(t, `
main {
a:
	print(1)
a:
	print(2)
}
`, diag.MsgDuplicateLabel)
}

func TestNewAndScope(t *testing.T) {
	expectErrors(t, `
class A {
	this(x:int) {}
}
main {
	var a = scope A
}
`, diag.MsgScopeNeedsCtor)

	expectErrors(t, `
class A {
	this(x:int) {}
}
main {
	var a = new A("s")
}
`, diag.MsgNoConstructor)

	expectErrors(t, `
interface I { func f():int }
main {
	var i = new I()
}
`, diag.MsgAbstractInstance)

	expectNoErrors(t, `
class A {}
main {
	var a = scope A
}
`)
}

func TestMainParams(t *testing.T) {
	expectNoErrors(t, `main(a:int, b:string, c:f64) {}`)
	expectErrors(t, `
class A {}
main(a:A) {}
`, diag.MsgMainParams)
}

func TestConditions(t *testing.T) {
	expectErrors(t, `var x = 1 ? 2 : 3`, diag.MsgBoolCondition)
	expectNoErrors(t, `var x = 1 > 0 ? 2 : 3`)
}

func TestInterfaceCall(t *testing.T) {
	reg, f := expectNoErrors(t, `
interface Shape { func area():int }
class Square : Shape {
	s:int
	func area():int => s * s
}
main {
	var sh:Shape = new Square()
	var a = sh.area()
}
`)
	call := callOf(f, "area")
	assert.Same(t, reg.Class("Shape"), call.Func.Owner)
	assert.True(t, call.Func.Abstract)
	assert.Same(t, reg.Universe.Int, varNamed(f, "a").Class)
}

func TestStaticAndPrivate(t *testing.T) {
	expectErrors(t, `
class A {
	x:int
	static func s():int => x
}
`, diag.MsgStaticThis)

	expectErrors(t, `
class A {
	private x:int
}
main {
	var a = new A()
	var y = a.x
}
`, diag.MsgPrivateMember)

	_, f := expectNoErrors(t, `
class Counter {
	static count:int
	static func next():int {
		count += 1
		return count
	}
}
main {
	var n = Counter.next()
	var c = Counter.count
}
`)
	assert.Equal(t, "Counter_next", callOf(f, "next").Func.Real)
}

func TestConstructorChaining(t *testing.T) {
	reg, _ := expectNoErrors(t, `
class A {
	x:int
	this(v:int) { x = v }
	this() {}
}
class B : A {
	this() : base(1) {}
}
class C : A {}
`)
	b := reg.Ctors(reg.Class("B"))[0]
	require.NotNil(t, b.InitFunc)
	assert.Equal(t, "A_this_int", b.InitFunc.Real)

	c := reg.Ctors(reg.Class("C"))[0]
	require.NotNil(t, c.InitFunc)
	assert.Equal(t, "A_this", c.InitFunc.Real)
}

func TestReturns(t *testing.T) {
	expectErrors(t, `
func f():int {
	return
}
`, diag.MsgMissingReturn)

	expectErrors(t, `
func g() {
	return 1
}
`, diag.MsgNoReturnValue)

	expectErrors(t, `
func h():int {
	return "s"
}
`, diag.MsgIncompatible)
}

func TestVoidValue(t *testing.T) {
	expectErrors(t, `
main {
	var x = print(1)
}
`, diag.MsgVoidValue)
}

func TestDelete(t *testing.T) {
	expectNoErrors(t, `
class A {}
main {
	var a = new A()
	var xs = new int[4]
	delete a, xs
}
`)
	expectErrors(t, `
main {
	var n = 1
	delete n
}
`, diag.MsgInvalidDelete)
}

func TestLoops(t *testing.T) {
	reg, f := expectNoErrors(t, `
main {
	for var i = 0 .. 10 {
		print(i)
	}
	for j in 0 .. 3 {
		print(j)
	}
	for var k = 0; k < 3; k++ {
		print(k)
	}
}
`)
	assert.Same(t, reg.Universe.Int, varNamed(f, "i").Class)
	assert.Same(t, reg.Universe.Int, varNamed(f, "j").Class)

	expectErrors(t, `
main {
	var n = 5
	for x in n {
	}
}
`, diag.MsgNotIterable)

	expectErrors(t, `
main {
	for i in "a" .. 3 {
	}
}
`, diag.MsgRangeBounds)
}

func TestIncompatible(t *testing.T) {
	expectErrors(t, `
main {
	var a:int = "s"
}
`, diag.MsgIncompatible)

	expectErrors(t, `
class A {}
main {
	var x = new A() + 1
}
`, diag.MsgIncompatible)

	expectErrors(t, `
main {
	var x:string = null
	var y:int = null
}
`, diag.MsgIncompatible)
}

func TestBaseCall(t *testing.T) {
	_, f := expectNoErrors(t, `
class A {
	func name():string => "A"
}
class B : A {
	func name():string => base.name()
}
`)
	call := find(f, func(c *syntax.CallExpr) bool {
		_, ok := c.Caller.(*syntax.BaseExpr)
		return ok
	})
	require.NotNil(t, call)
	assert.Equal(t, "A_name", call.Func.Real)
}

func TestEnums(t *testing.T) {
	reg, f := expectNoErrors(t, `
enum Color { Red, Green }
main {
	var c = Color.Green
	switch c {
	case Color.Red => print(1)
	default => print(2)
	}
}
`)
	assert.Same(t, reg.Class("Color"), varNamed(f, "c").Class)
}
