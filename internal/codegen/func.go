package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/runc/internal/rtabi"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// function writes the body of fn.
//
// A function with defers keeps its result in __result and leaves through
// the cleanup labels of the blocks it is nested in, ending at __done.
func (g *generator) function(fn *syntax.FuncDecl) {
	g.fn, g.self, g.defers = fn, nil, nil
	if fn.IsMethod() {
		g.self = fn.Owner
	}
	defer func() { g.fn, g.self = nil, nil }()

	g.e.emitLine()
	if pos := fn.Pos(); pos.IsValid() {
		g.e.emitComment(pos.String())
	}
	g.e.open("%s {", g.signature(fn))

	for _, p := range fn.Params {
		if p.Variadic {
			g.variadicParam(p)
		}
	}
	if fn.HasDefers {
		if hasResult(fn) {
			g.e.emit("%s %s;", resultType(fn), rtabi.LocalResult)
			g.e.emit("memset(&%s, 0, sizeof(%s));", rtabi.LocalResult, rtabi.LocalResult)
		}
		g.e.emit("int %s = 0;", rtabi.LocalReturning)
	}
	if fn.Kind == syntax.FuncCtor {
		g.prologue(fn)
	}

	switch {
	case fn.Body != nil:
		g.blockStmts(fn.Body, true)
	case fn.Arrow != nil:
		g.arrow(fn)
	}

	switch {
	case fn.HasDefers:
		g.e.emitLabel(rtabi.LabelDone)
		g.e.emit("%s", g.returnText(nil))
	case fn.Kind == syntax.FuncCtor:
		g.e.emit("return %s;", rtabi.This)
	}
	g.e.close("}")
}

// arrow writes an expression body.
func (g *generator) arrow(fn *syntax.FuncDecl) {
	switch {
	case fn.Kind == syntax.FuncCtor || fn.Result == nil:
		g.e.emit("%s;", g.stmtExpr(fn.Arrow))
	default:
		g.e.emit("return %s;", g.convert(fn.Arrow, fn.Result.Type()))
	}
}

// returnText returns the statement leaving the function from the
// epilogue. value is the returned expression of a direct return.
func (g *generator) returnText(value syntax.Expr) string {
	fn := g.fn
	switch {
	case fn.Kind == syntax.FuncCtor:
		return "return " + rtabi.This + ";"
	case fn.HasDefers && hasResult(fn):
		return "return " + rtabi.LocalResult + ";"
	case value != nil && hasResult(fn):
		return "return " + g.convert(value, fn.Result.Type()) + ";"
	}
	return "return;"
}

// prologue writes what a constructor does before its body: the chained
// constructor, the field initializers of its class and the stores of
// member-forwarding parameters.
func (g *generator) prologue(fn *syntax.FuncDecl) {
	c := fn.Owner
	if init := fn.InitFunc; init != nil {
		args := []string{g.receiver(rtabi.This, c, init.Owner)}
		args = append(args, g.args(init, fn.InitArgs)...)
		g.e.emit("%s(%s);", init.Real, strings.Join(args, ", "))
	}
	if fn.Init != syntax.InitThis {
		for _, d := range g.members(c) {
			switch d := d.(type) {
			case *syntax.VarDecl:
				if !d.Static && d.Init != nil && d.ArrayLen == nil {
					g.e.emit("%s->%s = %s;", rtabi.This, d.Real, g.convert(d.Init, d.Class))
				}
			case *syntax.PropertyDecl:
				if d.Simple && !d.Static && d.Init != nil {
					g.e.emit("%s->%s = %s;", rtabi.This, d.Real, g.convert(d.Init, d.Type.Type()))
				}
			}
		}
	}
	for _, p := range fn.Params {
		if p.Member && p.Field != nil {
			g.e.emit("%s = %s;", g.field(rtabi.This, c, p.Field.Owner, p.Field.Real), p.Real)
		}
	}
}

// variadicParam collects the values passed for p into an __array named
// like the parameter.
func (g *generator) variadicParam(p *syntax.Param) {
	elem := elemType(p)
	t := cType(elem)
	count := rtabi.VariadicCount(p.Real)
	g.e.emit("%s* %s = %s(0, sizeof(%s));", rtabi.ArrayType, p.Real, rtabi.FnArrayNew, t)
	g.e.open("{")
	g.e.emit("va_list __va;")
	g.e.emit("va_start(__va, %s);", count)
	g.e.open("for (int __i = 0; __i < %s; __i++) {", count)
	g.e.emit("%s __v = (%s)va_arg(__va, %s);", t, t, rtabi.PromotedType(t))
	g.e.emit("%s(%s, &__v);", rtabi.FnArrayPush, p.Real)
	g.e.close("}")
	g.e.emit("va_end(__va);")
	g.e.close("}")
}

// initializer writes __run_init, which evaluates the initializers of
// module variables and static fields in registration order.
func (g *generator) initializer() {
	g.e.emitLine()
	g.e.open("static void %s(void) {", rtabi.FnInit)
	for _, d := range g.statics() {
		switch d := d.(type) {
		case *syntax.VarDecl:
			if d.Init != nil && d.ArrayLen == nil {
				g.e.emit("%s = %s;", d.Real, g.convert(d.Init, d.Class))
			}
		case *syntax.PropertyDecl:
			if d.Init != nil {
				g.e.emit("%s = %s;", d.Real, g.convert(d.Init, d.Type.Type()))
			}
		}
	}
	g.e.close("}")
}

// main writes the C entry point. Arguments of the entry function are
// passed as name=value pairs; too few arguments print a usage line.
func (g *generator) main() {
	if g.reg.Root == nil {
		return
	}
	entry := g.reg.Root.Main
	if entry == nil || !entry.Used() {
		return
	}
	g.e.emitLine()
	g.e.open("int main(int argc, char** argv) {")
	if n := len(entry.Params); n > 0 {
		var usage []string
		for _, p := range entry.Params {
			usage = append(usage, fmt.Sprintf("%s=<%s>", p.Name, p.Type.String()))
		}
		g.e.open("if (argc < %d) {", n+1)
		g.e.emit("%s(argv[0], %s);", rtabi.FnUsage, cString(strings.Join(usage, " ")))
		g.e.close("}")
	}
	g.e.emit("%s();", rtabi.FnInit)

	var args []string
	for _, p := range entry.Params {
		c := p.Type.Type()
		g.e.emit("%s %s = %s;", cType(c), p.Real, zeroValue(c))
		args = append(args, p.Real)
	}
	if len(entry.Params) > 0 {
		g.e.open("for (int i = 1; i < argc; i++) {")
		g.e.emit("char* eq = strchr(argv[i], '=');")
		g.e.open("if (eq == NULL) {")
		g.e.emit("continue;")
		g.e.close("}")
		g.e.emit("size_t n = (size_t)(eq - argv[i]);")
		g.e.emit("const char* v = eq + 1;")
		for _, p := range entry.Params {
			g.e.open("if (n == %d && strncmp(argv[i], %s, n) == 0) {", len(p.Name), cString(p.Name))
			g.e.emit("%s = %s;", p.Real, g.parseArg(p.Type.Type(), "v"))
			g.e.close("}")
		}
		g.e.close("}")
	}

	call := fmt.Sprintf("%s(%s)", entry.Real, strings.Join(args, ", "))
	if entry.Result != nil && types.IsNumeric(entry.Result.Type()) {
		g.e.emit("return (int)%s;", call)
	} else {
		g.e.emit("%s;", call)
		g.e.emit("return 0;")
	}
	g.e.close("}")
}

// parseArg returns the C expression converting the command line text v
// to a value of class c.
func (g *generator) parseArg(c *syntax.ClassDecl, v string) string {
	switch {
	case types.IsString(c):
		return "(char*)" + v
	case types.IsBool(c):
		return fmt.Sprintf("(strcmp(%s, \"true\") == 0 || strcmp(%s, \"1\") == 0)", v, v)
	case c == g.u.Char:
		return v + "[0]"
	case types.IsFloat(c):
		return fmt.Sprintf("(%s)strtod(%s, NULL)", cType(c), v)
	case c.Name == "u64" || c.Name == "u32" || c.Name == "u16" || c.Name == "u8" || c.Name == "byte":
		return fmt.Sprintf("(%s)strtoull(%s, NULL, 0)", cType(c), v)
	}
	return fmt.Sprintf("(%s)strtoll(%s, NULL, 0)", cType(c), v)
}
