package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/check"
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/prelude"
	"github.com/you-not-fish/runc/internal/reach"
	"github.com/you-not-fish/runc/internal/syntax"
)

func compile(t *testing.T, src string) (string, *build.Registry) {
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
	reach.Count(reg)

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, reg))
	return buf.String(), reg
}

func generate(t *testing.T, src string) string {
	t.Helper()
	out, _ := compile(t, src)
	return out
}

func TestStructLayout(t *testing.T) {
	out := generate(t, `
class A {
	x:int
}
class B : A {
	y:int
}
main {
	var b = new B()
	b.x = 1
	print(b.y)
}
`)
	assert.Contains(t, out, "struct _A {\n\t__object __hdr;\n\tint _x;\n};")
	assert.Contains(t, out, "struct _B {\n\t_A __base;\n\tint _y;\n};")
	assert.Less(t, strings.Index(out, "struct _A {"), strings.Index(out, "struct _B {"), "base first")
	assert.Contains(t, out, "_B* B_this(_B* this)")
	assert.Contains(t, out, "A_this(((_A*)this));")
	assert.Contains(t, out, "__alloc(sizeof(_B), ")
	assert.Contains(t, out, "((_A*)(_b))->_x = 1;")
}

func TestVariadicCall(t *testing.T) {
	out := generate(t, `
func sum(...xs:int):int {
	var t = 0
	for x in xs {
		t += x
	}
	return t
}
main {
	print(sum(1, 2, 3))
}
`)
	assert.Contains(t, out, "int sum_variadic(int len_xs, ...)")
	assert.Contains(t, out, "va_arg(__va, int)")
	assert.Contains(t, out, `printf("%d\n", sum_variadic(3, 1, 2, 3))`)
	assert.Contains(t, out, "_t += _x;")
	assert.Contains(t, out, "return _t;")
}

func TestDeferredCleanup(t *testing.T) {
	out, reg := compile(t, `
func f():int {
	defer print(1)
	defer print(2)
	return 3
}
main {
	print(f())
}
`)
	var id int
	for _, fn := range reg.Funcs {
		if fn.Real == "f" {
			id = fn.Body.DeferID
		}
	}
	require.Positive(t, id)
	stage := fmt.Sprintf("__defer_stage_%d", id)

	assert.Contains(t, out, "int "+stage+" = 0;")
	assert.Contains(t, out, stage+" = 1;")
	assert.Contains(t, out, stage+" = 2;")
	assert.Contains(t, out, "__result = 3;\n\t__returning = 1;\n\tgoto __defer_"+fmt.Sprint(id)+";")
	assert.Contains(t, out, "memset(&__result, 0, sizeof(__result));")
	assert.Contains(t, out, "__done:;\n\treturn __result;")

	second := strings.Index(out, "if ("+stage+" >= 2)")
	first := strings.Index(out, "if ("+stage+" >= 1)")
	require.Positive(t, second)
	assert.Less(t, second, first, "latest defer runs first")
}

func TestNoDeferScaffolding(t *testing.T) {
	out := generate(t, `
func g():int => 1
main {
	print(g())
}
`)
	assert.Contains(t, out, "int g(void) {\n\treturn 1;\n}")
	assert.NotContains(t, out, "__returning")
	assert.NotContains(t, out, "__done")
}

func TestInterfaceDispatch(t *testing.T) {
	out := generate(t, `
interface Shape { func area():int }
class Square : Shape {
	s:int
	func area():int => s * s
}
main {
	var sh:Shape = new Square()
	print(sh.area())
}
`)
	assert.Regexp(t, `__rtti_method\(__t\d+, "area"\)`, out)
	assert.Contains(t, out, `{"area", 2, 0, (void*)Square_area}`)
	assert.Contains(t, out, "void* _sh = ((void*)(")
	assert.Contains(t, out, "(this->_s * this->_s)")
}

func TestStringEquality(t *testing.T) {
	out := generate(t, `
main {
	var s = "a"
	if s == "b" {
		print(1)
	} else {
		print(2)
	}
}
`)
	assert.Contains(t, out, `char* _s = "a";`)
	assert.Contains(t, out, `if (strcmp(_s, "b") == 0) {`)
	assert.Contains(t, out, "} else {")
}

func TestSwitchLowering(t *testing.T) {
	out := generate(t, `
enum Color { Red, Green }
main {
	var c = Color.Green
	switch c {
	case Color.Red => print(1)
	default => print(2)
	}
}
`)
	assert.Contains(t, out, "#define Color_Red 0")
	assert.Contains(t, out, "#define Color_Green 1")
	assert.Regexp(t, `int __t\d+ = _c;`, out)
	assert.Regexp(t, `if \(__t\d+ == Color_Red\) \{`, out)
}

func TestMainArguments(t *testing.T) {
	out := generate(t, `
main(n:int, name:string) {
	print(n)
	print(name)
}
`)
	assert.Contains(t, out, "if (argc < 3) {")
	assert.Contains(t, out, `__usage(argv[0], "n=<int> name=<string>");`)
	assert.Contains(t, out, "_n = (int)strtoll(v, NULL, 0);")
	assert.Contains(t, out, "_name = (char*)v;")
	assert.Contains(t, out, "run_main(_n, _name);\n\treturn 0;")
	assert.Contains(t, out, "__run_init();")
}

func TestTypeTable(t *testing.T) {
	out, reg := compile(t, `
class A {}
main {
	var a = new A()
	var t = typeof(a)
}
`)
	a := reg.Class("A")
	require.NotNil(t, a)
	assert.Contains(t, out, fmt.Sprintf(`[%d] = {"A", %d, -1, sizeof(_A), 0, NULL, 0, NULL},`, a.ID, a.ID))
	assert.Contains(t, out, fmt.Sprintf("const int __rtti_count = %d;", reg.NumClasses()))
	assert.Contains(t, out, "(&__rtti_types[((__object*)(_a))->__id])")
}

func TestStaticPropertiesPerClass(t *testing.T) {
	out := generate(t, `
class A {
	static property count:int
}
class B {
	static property count:int
}
main {
	A.count = 1
	B.count = 2
	print(A.count)
	print(B.count)
}
`)
	assert.Contains(t, out, "int _A_count;")
	assert.Contains(t, out, "int _B_count;")
	assert.Contains(t, out, "_A_count = 1;")
	assert.Contains(t, out, "_B_count = 2;")
	assert.NotContains(t, out, "int _count;")
}

func TestCallOnSpecialForms(t *testing.T) {
	out := generate(t, `
class A {
	func f():int => 7
}
main {
	var a = new A()
	print(typeof(a).name())
	print(new A().f())
}
`)
	assert.Contains(t, out, "puts(((&__rtti_types[((__object*)(_a))->__id])->name))")
	assert.Regexp(t, `A_f\(A_this\(`, out)
}
