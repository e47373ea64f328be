package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/rtabi"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// call returns the C text of a call. Methods take the receiver first;
// interface members are looked up in the receiver's type table.
func (g *generator) call(c *syntax.CallExpr) string {
	fn := c.Func
	if fn == nil {
		g.fail("%s: unresolved call of %s", c.Pos(), c.Name.Value)
		return "0"
	}
	if fn.Native != "" {
		return g.nativeCall(c, fn)
	}

	args := g.args(fn, c.Args)
	if !fn.IsMethod() {
		return fn.Real + "(" + strings.Join(args, ", ") + ")"
	}

	recv, from := rtabi.This, g.self
	switch x := c.Caller.(type) {
	case nil, *syntax.ThisExpr, *syntax.BaseExpr:
	default:
		recv, from = g.expr(x), x.Type()
	}
	if fn.Abstract && fn.Owner.IsInterface() {
		return g.dispatch(fn, recv, args)
	}
	args = append([]string{g.receiver(recv, from, fn.Owner)}, args...)
	return fn.Real + "(" + strings.Join(args, ", ") + ")"
}

// dispatch returns a call of the implementation of the interface member
// fn that the dynamic class of recv provides. The receiver is evaluated
// once.
func (g *generator) dispatch(fn *syntax.FuncDecl, recv string, args []string) string {
	tmp := g.e.nextTmp()
	ptypes := []string{"void*"}
	for _, p := range fn.Params {
		if p.Variadic {
			ptypes = append(ptypes, "int", "...")
			continue
		}
		ptypes = append(ptypes, g.paramType(p))
	}
	args = append([]string{tmp}, args...)
	return fmt.Sprintf("({ void* %s = (void*)(%s); ((%s (*)(%s))%s(%s, %s))(%s); })",
		tmp, recv, resultType(fn), strings.Join(ptypes, ", "),
		rtabi.FnMethod, tmp, cString(build.MethodKey(fn)), strings.Join(args, ", "))
}

// nativeCall expands the @native binding of fn. A bare C name is called
// with the receiver and the arguments; a template has them substituted
// for $this and $param.
func (g *generator) nativeCall(c *syntax.CallExpr, fn *syntax.FuncDecl) string {
	vals := make(map[string]string)
	var list []string
	if fn.IsMethod() {
		recv := rtabi.This
		if c.Caller != nil {
			recv = g.expr(c.Caller)
		}
		vals[rtabi.This] = recv
		list = append(list, recv)
	}
	for i, p := range fn.Params {
		if p.Variadic {
			var rest []string
			for _, x := range c.Args[min(i, len(c.Args)):] {
				rest = append(rest, g.expr(x))
			}
			vals[p.Name] = strings.Join(rest, ", ")
			list = append(list, rest...)
			break
		}
		if i < len(c.Args) {
			s := g.convert(c.Args[i], paramClass(p))
			vals[p.Name] = s
			list = append(list, s)
		}
	}

	if !isTemplate(fn.Native) {
		return fn.Native + "(" + strings.Join(list, ", ") + ")"
	}
	t, err := g.tmpl.parse(fn.Native)
	if err != nil {
		g.fail("%s: %v", c.Pos(), err)
		return "0"
	}
	return "(" + t.expand(vals) + ")"
}

// args returns the converted arguments of a call of fn, not counting the
// receiver. Values for a variadic parameter follow their count.
func (g *generator) args(fn *syntax.FuncDecl, list []syntax.Expr) []string {
	fixed := fn.FixedParams()
	var out []string
	for i, x := range list {
		if i >= fixed {
			break
		}
		out = append(out, g.convert(x, paramClass(fn.Params[i])))
	}
	if !fn.Variadic {
		return out
	}
	elem := elemType(fn.Params[fixed])
	rest := list[min(fixed, len(list)):]
	out = append(out, strconv.Itoa(len(rest)))
	for _, x := range rest {
		out = append(out, g.variadicArg(x, elem))
	}
	return out
}

// variadicArg returns x passed through "...". Numbers are cast to the
// element class so that the callee reads them back with the promoted
// type it expects.
func (g *generator) variadicArg(x syntax.Expr, elem *syntax.ClassDecl) string {
	if from := x.Type(); from != elem && types.IsNumeric(elem) && types.IsNumeric(from) {
		return "((" + cType(elem) + ")(" + g.expr(x) + "))"
	}
	return g.convert(x, elem)
}

// paramClass returns the class of p, taken from the forwarded field for
// member parameters.
func paramClass(p *syntax.Param) *syntax.ClassDecl {
	switch {
	case p.Type != nil:
		return p.Type.Type()
	case p.Field != nil:
		return p.Field.Class
	}
	return nil
}
