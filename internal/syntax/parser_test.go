package syntax

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseFile(t *testing.T, src string) *File {
	t.Helper()
	f, errs := ParseString("test.run", src)
	for _, e := range errs {
		t.Errorf("unexpected error: %v (token %q)", e, e.Token)
	}
	require.NotNil(t, f)
	return f
}

func parseErrors(t *testing.T, src string) []string {
	t.Helper()
	_, errs := ParseString("test.run", src)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Msg
	}
	return msgs
}

// find returns the first node of type T in depth-first order.
func find[T Node](root Node) T {
	var out T
	found := false
	Inspect(root, func(n Node) bool {
		if found {
			return false
		}
		if v, ok := n.(T); ok {
			out = v
			found = true
			return false
		}
		return true
	})
	return out
}

// mainStmts parses src wrapped in an entry function and returns its statements.
func mainStmts(t *testing.T, body string) []Stmt {
	t.Helper()
	f := parseFile(t, "main {\n"+body+"\n}\n")
	require.NotNil(t, f.Main)
	require.NotNil(t, f.Main.Body)
	return f.Main.Body.Stmts
}

func initOf(t *testing.T, src string) Expr {
	t.Helper()
	f := parseFile(t, src)
	require.NotEmpty(t, f.Decls)
	v, ok := f.Decls[0].(*VarDecl)
	require.True(t, ok, "got %T", f.Decls[0])
	return v.Init
}

// ----------------------------------------------------------------------------
// Declarations

func TestParseClasses(t *testing.T) {
	f := parseFile(t, "class A {}\nclass B : A, I {}\ntype C {}\ninterface I {}\n")
	require.Len(t, f.Decls, 4)

	b := f.Decls[1].(*ClassDecl)
	assert.Equal(t, "B", b.Name)
	assert.Equal(t, "A", b.BaseName)
	assert.Equal(t, []string{"I"}, b.IfaceNames)
	assert.Equal(t, KindClass, b.Kind)

	assert.Equal(t, KindClass, f.Decls[2].(*ClassDecl).Kind)
	assert.Equal(t, KindInterface, f.Decls[3].(*ClassDecl).Kind)
}

func TestParseInterfaceBase(t *testing.T) {
	f := parseFile(t, "interface J : I {\n func f(x:int):int\n property p:int\n}\n")
	j := f.Decls[0].(*ClassDecl)
	assert.Empty(t, j.BaseName, "interfaces only extend interfaces")
	assert.Equal(t, []string{"I"}, j.IfaceNames)
	require.Len(t, j.Members, 2)
	fn := j.Members[0].(*FuncDecl)
	assert.True(t, fn.Abstract)
	assert.Nil(t, fn.Body)
	assert.False(t, j.Members[1].(*PropertyDecl).Simple)
}

func TestParseFunc(t *testing.T) {
	f := parseFile(t, "func add(a:int, b:int):int => a + b\nfunc log(msg:string) {\n}\n")
	require.Len(t, f.Decls, 2)

	add := f.Decls[0].(*FuncDecl)
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, FuncPlain, add.Kind)
	require.Len(t, add.Params, 2)
	assert.Equal(t, "int", add.Params[1].Type.Name)
	assert.Equal(t, "int", add.Result.Name)
	assert.IsType(t, &BinaryExpr{}, add.Arrow)

	lg := f.Decls[1].(*FuncDecl)
	assert.Nil(t, lg.Result)
	assert.NotNil(t, lg.Body)
}

func TestParseFuncWithoutParams(t *testing.T) {
	f := parseFile(t, "func test {\n}\nmain {\ntest()\n}\n")
	fn := f.Decls[0].(*FuncDecl)
	assert.Empty(t, fn.Params)
	assert.NotNil(t, fn.Body)
}

func TestParseVariadic(t *testing.T) {
	f := parseFile(t, "func f(t:int, ...args:int) {\n}\n")
	fn := f.Decls[0].(*FuncDecl)
	assert.True(t, fn.Variadic)
	assert.True(t, fn.Params[1].Variadic)
	assert.Equal(t, 1, fn.FixedParams())

	msgs := parseErrors(t, "func f(...a:int, b:int) {\n}\n")
	assert.Equal(t, []string{MsgVariadicLast}, msgs)
}

func TestParseArrayTypes(t *testing.T) {
	f := parseFile(t, "var a:int[]\nclass S {\n buf:char[16]\n}\n")
	v := f.Decls[0].(*VarDecl)
	assert.True(t, v.Type.Array)
	assert.True(t, v.Global)

	field := f.Decls[1].(*ClassDecl).Members[0].(*VarDecl)
	assert.True(t, field.Field)
	assert.False(t, field.Type.Array)
	assert.NotNil(t, field.ArrayLen)

	assert.Contains(t, parseErrors(t, "var a:int[][]\n"), MsgDoubleArray)
}

func TestParseMain(t *testing.T) {
	f := parseFile(t, "main(n:int, name:string) {\n}\n")
	require.NotNil(t, f.Main)
	assert.Equal(t, FuncMain, f.Main.Kind)
	assert.Len(t, f.Main.Params, 2)

	f = parseFile(t, "func main() {\n}\n")
	require.NotNil(t, f.Main)
	assert.Equal(t, FuncMain, f.Main.Kind)

	assert.Equal(t, []string{MsgDuplicateMain}, parseErrors(t, "main {\n}\nmain {\n}\n"))
}

func TestParseModuleDirectives(t *testing.T) {
	f := parseFile(t, "using \"lib/math\" m\nlibrary \"m\"\nnamespace app\n")
	require.Len(t, f.Usings, 1)
	assert.Equal(t, "lib/math", f.Usings[0].Path)
	assert.Equal(t, "m", f.Usings[0].Nick)
	assert.Equal(t, []string{"m"}, f.Libraries)
	assert.Equal(t, "app", f.Namespace)
}

func TestParseClassMembers(t *testing.T) {
	src := `class P : Base {
	x:int = 1
	var y:int
	const K = 3
	this(.x, y:int) : base(y) {
	}
	func len():int => x
	static func zero():P => new P(0, 0)
	operator +(o:P):P => o
	dispose() {
	}
}
`
	f := parseFile(t, src)
	c := f.Decls[0].(*ClassDecl)
	require.Len(t, c.Members, 8)

	assert.True(t, c.Members[0].(*VarDecl).Field)
	assert.True(t, c.Members[2].(*VarDecl).Const)

	ctor := c.Members[3].(*FuncDecl)
	assert.Equal(t, FuncCtor, ctor.Kind)
	assert.True(t, ctor.Params[0].Member)
	assert.Equal(t, InitBase, ctor.Init)
	assert.Len(t, ctor.InitArgs, 1)

	assert.Equal(t, FuncMethod, c.Members[4].(*FuncDecl).Kind)
	assert.True(t, c.Members[5].(*FuncDecl).Static)

	op := c.Members[6].(*FuncDecl)
	assert.Equal(t, FuncOperator, op.Kind)
	assert.Equal(t, Add, op.Op)

	assert.Equal(t, FuncDispose, c.Members[7].(*FuncDecl).Kind)
}

func TestParseContextDoesNotLeak(t *testing.T) {
	src := `class A {
	private var x:int
	var y:int
	static func f() {
	}
	func g() {
	}
}
`
	c := parseFile(t, src).Decls[0].(*ClassDecl)
	assert.Equal(t, Private, c.Members[0].(*VarDecl).Access)
	assert.Equal(t, Public, c.Members[1].(*VarDecl).Access)
	assert.True(t, c.Members[2].(*FuncDecl).Static)
	assert.False(t, c.Members[3].(*FuncDecl).Static)
}

func TestParseAnnotations(t *testing.T) {
	f := parseFile(t, "@primitive @number @native(\"int\")\nclass int {}\n")
	c := f.Decls[0].(*ClassDecl)
	assert.True(t, c.Annots.Has("primitive"))
	arg, ok := c.Annots.Get("native")
	assert.True(t, ok)
	assert.Equal(t, "int", arg)

	assert.Equal(t, []string{MsgAnnotInFunc}, parseErrors(t, "main {\n@foo\nx()\n}\n"))
}

func TestParseProperties(t *testing.T) {
	src := `class A {
	property p:int { get => 1 set => value }
	property q:int
	property r:int = 5
	property s:int => 2
	property t:int {
		get;
		set;
	}
}
`
	c := parseFile(t, src).Decls[0].(*ClassDecl)
	p := c.Members[0].(*PropertyDecl)
	assert.False(t, p.Simple)
	require.NotNil(t, p.Getter)
	require.NotNil(t, p.Setter)
	assert.Equal(t, FuncGetter, p.Getter.Kind)
	assert.Equal(t, "value", p.Setter.Params[0].Name)
	assert.Same(t, p, p.Setter.Property)

	assert.True(t, c.Members[1].(*PropertyDecl).Simple)
	assert.True(t, c.Members[2].(*PropertyDecl).Simple)
	assert.NotNil(t, c.Members[2].(*PropertyDecl).Init)

	s := c.Members[3].(*PropertyDecl)
	assert.NotNil(t, s.Getter)
	assert.Nil(t, s.Setter)
	assert.False(t, s.Writable())

	assert.True(t, c.Members[4].(*PropertyDecl).Simple)
}

func TestParseIndexer(t *testing.T) {
	src := `class L {
	[i:int]:int {
		get => i
		set {
		}
	}
}
`
	c := parseFile(t, src).Decls[0].(*ClassDecl)
	ix := c.Members[0].(*IndexerDecl)
	assert.Equal(t, "i", ix.Key.Name)
	require.NotNil(t, ix.Getter)
	require.NotNil(t, ix.Setter)
	assert.Len(t, ix.Getter.Params, 1)
	assert.Len(t, ix.Setter.Params, 2)
}

func TestImplicitForwardingParam(t *testing.T) {
	f := parseFile(t, "class A {\nv:int\n@implicit this(.v) {\n}\n}\n")
	c := f.Decls[0].(*ClassDecl)
	var ctor *FuncDecl
	for _, d := range c.Members {
		if fn, ok := d.(*FuncDecl); ok && fn.Kind == FuncCtor {
			ctor = fn
		}
	}
	require.NotNil(t, ctor)
	assert.True(t, ctor.Implicit)
	assert.True(t, ctor.Params[0].Member)
}

func TestParseClassRules(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"implicit_two_params", "class A {\n@implicit this(a:int, b:int) {\n}\n}\n", MsgImplicitParams},
		{"implicit_array_param", "class A {\n@implicit this(a:int[]) {\n}\n}\n", MsgImplicitParams},
		{"duplicate_indexer", "class A {\n[i:int]:int { get => 1 }\n[j:int]:int { get => 2 }\n}\n", MsgDuplicateIndexer},
		{"operator_in_number", "@number\nclass N {\noperator +(o:N):N => o\n}\n", MsgOperatorInNumber},
		{"operator_arity", "class A {\noperator +(a:A, b:A):A => a\n}\n", MsgOperatorParams},
		{"ctor_chain", "class A {\nthis() : other() {\n}\n}\n", MsgExpectBaseOrThis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, parseErrors(t, tt.src), tt.want)
		})
	}
}

func TestParseEnum(t *testing.T) {
	f := parseFile(t, "enum Color { Red, Green = 5, Blue }\nenum Dir {\n Up\n Down\n}\n")
	c := f.Decls[0].(*ClassDecl)
	assert.Equal(t, KindEnum, c.Kind)
	require.Len(t, c.Members, 3)
	assert.NotNil(t, c.Members[1].(*EnumMember).Value)
	assert.Len(t, f.Decls[1].(*ClassDecl).Members, 2)
}

func TestParseExtension(t *testing.T) {
	f := parseFile(t, "extension int {\n func twice():int => this * 2\n}\n")
	e := f.Decls[0].(*ExtensionDecl)
	assert.Equal(t, "int", e.Name)
	assert.Len(t, e.Members, 1)
}

func TestParseScopeErrors(t *testing.T) {
	assert.NotEmpty(t, parseErrors(t, "property p:int\n"))
	assert.NotEmpty(t, parseErrors(t, "main {\nclass A {}\n}\n"))
	assert.NotEmpty(t, parseErrors(t, "main {\nbreak\n}\n"))
}

// ----------------------------------------------------------------------------
// Statements

func TestForStages(t *testing.T) {
	tests := []struct {
		src   string
		stage ForStage
	}{
		{"for {\n}", ForInfinite},
		{"for x < 3 {\n}", ForWhile},
		{"for var i = 0; i < 3; i++ {\n}", ForClassic},
		{"for ; i < 3; {\n}", ForClassic},
		{"for var i = 0 {\n}", ForCounter},
		{"for var i = 0..3 {\n}", ForRange},
		{"for i in 0..3 {\n}", ForRange},
		{"for 0..3 {\n}", ForRange},
		{"for x in xs {\n}", ForRange},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			stmts := mainStmts(t, tt.src)
			require.Len(t, stmts, 1)
			s, ok := stmts[0].(*ForStmt)
			require.True(t, ok)
			assert.Equal(t, tt.stage, s.Stage)
			assert.NotNil(t, s.Body)
		})
	}
}

func TestForRangeForms(t *testing.T) {
	s := mainStmts(t, "for i in 0..3 {\n}")[0].(*ForStmt)
	require.NotNil(t, s.Var)
	assert.Equal(t, "i", s.Var.Name)
	assert.NotNil(t, s.Range)

	s = mainStmts(t, "for x in xs {\n}")[0].(*ForStmt)
	assert.Nil(t, s.Range)
	assert.IsType(t, &Name{}, s.Seq)

	s = mainStmts(t, "for 0..3 {\n}")[0].(*ForStmt)
	assert.Nil(t, s.Var)
}

func TestParseIfElse(t *testing.T) {
	stmts := mainStmts(t, "if a {\n} else if b {\n}\nelse {\n}\nx()")
	require.Len(t, stmts, 2)
	s := stmts[0].(*IfStmt)
	elif := s.Else.(*IfStmt)
	assert.IsType(t, &Block{}, elif.Else)

	stmts = mainStmts(t, "if a => x()\nelse => y()\nz()")
	require.Len(t, stmts, 2)
	s = stmts[0].(*IfStmt)
	require.Len(t, s.Then.Stmts, 1)
	assert.NotNil(t, s.Else)
}

func TestParseSwitch(t *testing.T) {
	stmts := mainStmts(t, "switch x {\ncase 1, 2 => a()\ncase 3 {\nb()\n}\ndefault => c()\n}")
	s := stmts[0].(*SwitchStmt)
	require.Len(t, s.Cases, 3)
	assert.Len(t, s.Cases[0].Values, 2)
	assert.Nil(t, s.Cases[2].Values)
}

func TestParseDefers(t *testing.T) {
	f := parseFile(t, "main {\ndefer {\na()\n}\ndefer b()\n{\ndefer c()\n}\n}\n")
	body := f.Main.Body
	assert.True(t, f.Main.HasDefers)
	require.Len(t, body.Defers, 2)
	assert.Equal(t, 1, body.DeferID)
	assert.Equal(t, 1, body.Defers[0].Ordinal)
	assert.Equal(t, 2, body.Defers[1].Ordinal)
	assert.Same(t, body, body.Defers[1].Owner)

	inner := body.Stmts[2].(*Block)
	assert.Equal(t, 2, inner.DeferID)
	assert.Len(t, inner.Defers, 1)
}

func TestDeferIDsAreSharedAcrossParsers(t *testing.T) {
	ids := new(Counter)
	for i, want := range []int{1, 2} {
		p := NewParser("m.run", strings.NewReader("main {\ndefer x()\n}\n"), nil)
		p.SetDeferCounter(ids)
		f := p.Parse()
		assert.Equal(t, want, f.Main.Body.DeferID, "parser %d", i)
	}
}

func TestParseMiscStatements(t *testing.T) {
	stmts := mainStmts(t, "var a = 1, b:int\nloop:\ngoto loop\ndelete a, b\ndelete(a)\nreturn")
	require.Len(t, stmts, 6)
	assert.Len(t, stmts[0].(*DeclStmt).Vars, 2)
	assert.Equal(t, "loop", stmts[1].(*LabelStmt).Label)
	assert.Equal(t, "loop", stmts[2].(*GotoStmt).Label)
	assert.Len(t, stmts[3].(*DeleteStmt).Targets, 2)
	assert.Len(t, stmts[4].(*DeleteStmt).Targets, 1)
	assert.Nil(t, stmts[5].(*ReturnStmt).Result)
}

func TestParseErrorRecovery(t *testing.T) {
	_, errs := ParseString("test.run", "main {\na b\nc d\nx()\n}\n")
	require.Len(t, errs, 2)
	assert.Equal(t, MsgExpectEOL, errs[0].Msg)
	assert.Equal(t, "b", errs[0].Token)
	assert.Equal(t, uint32(2), errs[0].Pos.Line())
	assert.Equal(t, uint32(3), errs[1].Pos.Line())
}

// ----------------------------------------------------------------------------
// Expressions

func TestPrecedence(t *testing.T) {
	x := initOf(t, "var x = 1 + 2 * 3\n").(*BinaryExpr)
	assert.Equal(t, Add, x.Op)
	assert.Equal(t, Mul, x.Y.(*BinaryExpr).Op)

	// left associativity
	x = initOf(t, "var x = 1 - 2 - 3\n").(*BinaryExpr)
	assert.Equal(t, Sub, x.Op)
	assert.IsType(t, &BinaryExpr{}, x.X)
	assert.IsType(t, &BasicLit{}, x.Y)

	x = initOf(t, "var x = a || b && c == d\n").(*BinaryExpr)
	assert.Equal(t, OrOr, x.Op)
	and := x.Y.(*BinaryExpr)
	assert.Equal(t, AndAnd, and.Op)
	assert.Equal(t, Eql, and.Y.(*BinaryExpr).Op)
}

func TestAssignRightAssoc(t *testing.T) {
	stmts := mainStmts(t, "a = b = c")
	a := stmts[0].(*ExprStmt).X.(*AssignExpr)
	assert.IsType(t, &Name{}, a.X)
	assert.IsType(t, &AssignExpr{}, a.Y)
}

func TestTernary(t *testing.T) {
	x := initOf(t, "var x = a > 1 ? b : c\n").(*TernaryExpr)
	assert.IsType(t, &BinaryExpr{}, x.Cond)
	assert.Equal(t, "b", x.X.(*Name).Value)
}

func TestSpecialForms(t *testing.T) {
	tests := []struct {
		src  string
		want Expr
	}{
		{"new A(1, 2)", &NewExpr{}},
		{"new int[5]", &NewExpr{}},
		{"scope A", &NewExpr{}},
		{"sizeof(x)", &SizeofExpr{}},
		{"typeof(x)", &TypeofExpr{}},
		{"ref x", &RefExpr{}},
		{"cast(int, y)", &CastExpr{}},
		{"x as A", &AsExpr{}},
		{"x is A", &IsExpr{}},
		{"a.b.c(1)", &CallExpr{}},
		{"a[1]", &IndexExpr{}},
		{"-x", &UnaryExpr{}},
		{"i++", &UnaryExpr{}},
		{"0..n", &RangeExpr{}},
		{"(a)", &ParenExpr{}},
		{"this.x", &SelectorExpr{}},
		{"null", &BasicLit{}},
		{"typeof(x).name()", &CallExpr{}},
		{"new A().f()", &CallExpr{}},
		{"new A(1).x", &SelectorExpr{}},
		{"cast(A, y).x", &SelectorExpr{}},
		{"sizeof(x) + 1", &BinaryExpr{}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.IsType(t, tt.want, initOf(t, "var v = "+tt.src+"\n"))
		})
	}
}

func TestNewForms(t *testing.T) {
	n := initOf(t, "var v = new int[5]\n").(*NewExpr)
	assert.True(t, n.To.Array)
	assert.NotNil(t, n.Len)

	n = initOf(t, "var v = scope A\n").(*NewExpr)
	assert.True(t, n.Scoped)
	assert.Equal(t, "A", n.To.Name)

	n = initOf(t, "var v = new A(1)\n").(*NewExpr)
	assert.Len(t, n.Args, 1)
}

func TestPostfixAfterSpecialForms(t *testing.T) {
	c := initOf(t, "var v = typeof(a).name()\n").(*CallExpr)
	assert.Equal(t, "name", c.Name.Value)
	assert.IsType(t, &TypeofExpr{}, c.Caller)

	c = initOf(t, "var v = new A(1).f(2)\n").(*CallExpr)
	assert.Equal(t, "f", c.Name.Value)
	n, ok := c.Caller.(*NewExpr)
	require.True(t, ok)
	assert.Len(t, n.Args, 1)
	assert.Len(t, c.Args, 1)
}

func TestCallShapes(t *testing.T) {
	c := initOf(t, "var v = f(1)\n").(*CallExpr)
	assert.Nil(t, c.Caller)
	assert.Equal(t, "f", c.Name.Value)

	c = initOf(t, "var v = a.b.f(1, 2)\n").(*CallExpr)
	assert.IsType(t, &SelectorExpr{}, c.Caller)
	assert.Equal(t, "f", c.Name.Value)
	assert.Len(t, c.Args, 2)
}

func TestMultilineArgs(t *testing.T) {
	c := initOf(t, "var v = f(\n1,\n2\n)\n").(*CallExpr)
	assert.Len(t, c.Args, 2)

	b := initOf(t, "var v = 1 +\n2\n").(*BinaryExpr)
	assert.Equal(t, Add, b.Op)
}

// ----------------------------------------------------------------------------
// Tree structure

func TestParentLinks(t *testing.T) {
	f := parseFile(t, "class A {\nfunc f(x:int):int {\nreturn x + 1\n}\n}\nmain {\nvar a = new A()\n}\n")
	count := 0
	Inspect(f, func(n Node) bool {
		for _, c := range Children(n) {
			assert.Same(t, n, c.Parent(), "%s parent", NodeKind(c))
			count++
		}
		return true
	})
	assert.Greater(t, count, 10)
	assert.Nil(t, f.Parent())
}

func TestReplace(t *testing.T) {
	f := parseFile(t, "main {\nx = a + b\n}\n")
	bin := find[*BinaryExpr](f)
	require.NotNil(t, bin)
	assign := bin.Parent().(*AssignExpr)

	repl := NewName(bin.Pos(), "c")
	require.True(t, Replace(bin, repl))
	assert.Same(t, repl, assign.Y)
	assert.Same(t, assign, repl.Parent())
	assert.Nil(t, bin.Parent())

	// detached nodes cannot be replaced again
	assert.False(t, Replace(bin, NewName(bin.Pos(), "d")))

	// a statement does not fit an expression slot
	assert.False(t, Replace(assign.X, &ExprStmt{}))
	assert.IsType(t, &Name{}, assign.X)
}

func TestReplaceSetsParentsBelow(t *testing.T) {
	f := parseFile(t, "main {\nf(a)\n}\n")
	arg := find[*CallExpr](f).Args[0]
	fn := &FuncDecl{Name: "g"}
	call := NewCall(arg.Pos(), nil, fn, NewName(arg.Pos(), "z"))
	require.True(t, Replace(arg, call))
	assert.Same(t, call, call.Args[0].Parent())
	assert.Same(t, fn, call.Func)
}

func TestPrinters(t *testing.T) {
	f := parseFile(t, "class A {\n}\nmain {\nfor var i = 0 {\n}\n}\n")

	var buf bytes.Buffer
	Fprint(&buf, f)
	out := buf.String()
	assert.Contains(t, out, "ClassDecl class A")
	assert.Contains(t, out, "ForStmt counter")

	buf.Reset()
	require.NoError(t, FprintJSON(&buf, f))
	assert.Contains(t, buf.String(), `"type": "ForStmt"`)
}

func TestExprString(t *testing.T) {
	assert.Equal(t, "a.f(1, b)", ExprString(initOf(t, "var v = a.f(1, b)\n")))
	assert.Equal(t, "x + y * 2", ExprString(initOf(t, "var v = x + y * 2\n")))
}
