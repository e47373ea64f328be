package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/runc/internal/rtabi"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// expr returns the C text of x. Compound results are parenthesized so
// that they can be substituted anywhere.
func (g *generator) expr(x syntax.Expr) string {
	switch x := x.(type) {
	case nil:
		return ""

	case *syntax.BasicLit:
		return literal(x)

	case *syntax.Name:
		return g.name(x)

	case *syntax.ThisExpr:
		return rtabi.This

	case *syntax.BaseExpr:
		return g.receiver(rtabi.This, g.self, x.Type())

	case *syntax.ParenExpr:
		return "(" + g.expr(x.X) + ")"

	case *syntax.SelectorExpr:
		return g.selector(x)

	case *syntax.CallExpr:
		return g.call(x)

	case *syntax.BinaryExpr:
		return g.binary(x)

	case *syntax.AssignExpr:
		return "(" + g.assign(x) + ")"

	case *syntax.UnaryExpr:
		if x.Postfix {
			return "(" + g.expr(x.X) + x.Op.String() + ")"
		}
		v := g.expr(x.X)
		if strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
			v = " " + v
		}
		return "(" + x.Op.String() + v + ")"

	case *syntax.TernaryExpr:
		t := x.Type()
		return fmt.Sprintf("(%s ? %s : %s)", g.cond(x.Cond), g.convert(x.X, t), g.convert(x.Y, t))

	case *syntax.IndexExpr:
		t := x.X.Type()
		if t != nil && t.IsArray() {
			return fmt.Sprintf("%s(%s, %s, %s)", rtabi.MacroAt, cType(t.Elem), g.expr(x.X), g.expr(x.Index))
		}
		return g.expr(x.X) + "[" + g.expr(x.Index) + "]"

	case *syntax.CastExpr:
		return fmt.Sprintf("((%s)(%s))", cType(x.To.Type()), g.expr(x.X))

	case *syntax.AsExpr:
		to := x.To.Type()
		if isObject(to) && isObject(x.X.Type()) {
			return fmt.Sprintf("((%s)%s(%s, %d))", cType(to), rtabi.FnAs, g.expr(x.X), to.ID)
		}
		return fmt.Sprintf("((%s)(%s))", cType(to), g.expr(x.X))

	case *syntax.IsExpr:
		to, from := x.To.Type(), x.X.Type()
		if isObject(to) && isObject(from) {
			return fmt.Sprintf("%s(%s, %d)", rtabi.FnIs, g.expr(x.X), to.ID)
		}
		if types.AssignableTo(from, to) {
			return "true"
		}
		return "false"

	case *syntax.SizeofExpr:
		if c := className(x.X); c != nil {
			return sizeOf(c)
		}
		return "((int)sizeof(" + g.expr(x.X) + "))"

	case *syntax.TypeofExpr:
		if c := className(x.X); c != nil {
			return typeRef(fmt.Sprint(c.ID))
		}
		if t := x.X.Type(); isObject(t) {
			return typeRef(fmt.Sprintf("((%s*)(%s))->__id", rtabi.ObjectType, g.expr(x.X)))
		} else if t != nil {
			return typeRef(fmt.Sprint(t.ID))
		}
		return "NULL"

	case *syntax.RefExpr:
		return "((void*)&" + g.expr(x.X) + ")"

	case *syntax.NewExpr:
		return g.newExpr(x)

	case *syntax.TypeExpr:
		return cType(x.Type())
	}
	g.fail("%s: cannot translate %s", x.Pos(), syntax.ExprString(x))
	return "0"
}

// stmtExpr returns x used as a statement, without outer parentheses.
func (g *generator) stmtExpr(x syntax.Expr) string {
	switch x := x.(type) {
	case *syntax.AssignExpr:
		return g.assign(x)
	case *syntax.UnaryExpr:
		if x.Op == syntax.Inc || x.Op == syntax.Dec {
			if x.Postfix {
				return g.expr(x.X) + x.Op.String()
			}
			return x.Op.String() + g.expr(x.X)
		}
	}
	return g.expr(x)
}

func typeRef(id string) string {
	return "(&" + rtabi.TypeTable + "[" + id + "])"
}

// className returns the class x names when x is a bare class name.
func className(x syntax.Expr) *syntax.ClassDecl {
	switch x := syntax.Unparen(x).(type) {
	case *syntax.Name:
		c, _ := x.From.(*syntax.ClassDecl)
		return c
	case *syntax.TypeExpr:
		return x.Type()
	}
	return nil
}

func literal(x *syntax.BasicLit) string {
	switch x.Kind {
	case syntax.StringLit:
		return `"` + x.Value + `"`
	case syntax.NullLit:
		return "NULL"
	case syntax.FloatLit:
		if !strings.HasSuffix(x.Value, "f") && !strings.HasSuffix(x.Value, "F") {
			return x.Value + "f"
		}
	}
	return x.Value
}

// name returns the C text of an identifier by the declaration it names.
func (g *generator) name(n *syntax.Name) string {
	switch d := n.From.(type) {
	case *syntax.VarDecl:
		if d.Field && !d.Static {
			return g.field(rtabi.This, g.self, d.Owner, d.Real)
		}
		return d.Real
	case *syntax.PropertyDecl:
		if !d.Static {
			return g.field(rtabi.This, g.self, d.Owner, d.Real)
		}
		return d.Real
	case *syntax.ClassDecl:
		return cType(d)
	case nil:
		return n.Value
	}
	return n.From.RealName()
}

func (g *generator) selector(sel *syntax.SelectorExpr) string {
	switch d := sel.Sel.From.(type) {
	case *syntax.VarDecl:
		if d.Field && !d.Static {
			return g.field(g.expr(sel.X), sel.X.Type(), d.Owner, d.Real)
		}
		return d.Real
	case *syntax.PropertyDecl:
		if !d.Static {
			return g.field(g.expr(sel.X), sel.X.Type(), d.Owner, d.Real)
		}
		return d.Real
	case nil:
		g.fail("%s: unresolved member %s", sel.Pos(), sel.Sel.Value)
		return "0"
	}
	return sel.Sel.From.RealName()
}

// field returns the access of the field real declared in owner through
// recv, a value of class from.
func (g *generator) field(recv string, from, owner *syntax.ClassDecl, real string) string {
	if from == owner || owner == nil || !isStruct(owner) {
		return recv + "->" + real
	}
	return fmt.Sprintf("((%s*)(%s))->%s", owner.Real, recv, real)
}

// receiver returns recv, a value of class from, as a value of class to.
func (g *generator) receiver(recv string, from, to *syntax.ClassDecl) string {
	if from == to || to == nil || !isStruct(to) {
		return recv
	}
	return fmt.Sprintf("((%s*)%s)", to.Real, recv)
}

// convert returns x as a value of class to, cast where C needs it.
func (g *generator) convert(x syntax.Expr, to *syntax.ClassDecl) string {
	s := g.expr(x)
	from := x.Type()
	if !needsCast(from, to) {
		return s
	}
	if to.Any || to.IsInterface() {
		if types.IsNumeric(from) || types.IsBool(from) || from.IsEnum() {
			return "((void*)(intptr_t)(" + s + "))"
		}
		return "((void*)(" + s + "))"
	}
	return "((" + cType(to) + ")(" + s + "))"
}

func (g *generator) binary(b *syntax.BinaryExpr) string {
	x, y := b.X.Type(), b.Y.Type()
	l, r := g.expr(b.X), g.expr(b.Y)
	op := b.Op.String()
	switch {
	case b.Op == syntax.Cmp && types.IsString(x):
		return fmt.Sprintf("%s(%s, %s)", rtabi.FnStrCmp, l, r)
	case b.Op == syntax.Cmp:
		return fmt.Sprintf("%s(%s, %s)", rtabi.MacroCmp, l, r)
	case (b.Op == syntax.Eql || b.Op == syntax.Neq) && types.IsString(x) && types.IsString(y):
		return fmt.Sprintf("(strcmp(%s, %s) %s 0)", l, r, op)
	case b.Op.IsComparison() && x != y && (isObject(x) || isObject(y)):
		return fmt.Sprintf("((void*)(%s) %s (void*)(%s))", l, op, r)
	}
	return "(" + l + " " + op + " " + r + ")"
}

// assign returns an assignment without outer parentheses.
func (g *generator) assign(a *syntax.AssignExpr) string {
	l := g.expr(a.X)
	if a.Op == syntax.Assign {
		return l + " = " + g.convert(a.Y, a.X.Type())
	}
	return l + " " + a.Op.String() + " " + g.expr(a.Y)
}

// newExpr returns an array allocation or a constructor call on fresh
// heap or stack storage.
func (g *generator) newExpr(x *syntax.NewExpr) string {
	t := x.Type()
	if x.Len != nil {
		elem := t
		if t != nil && t.Elem != nil {
			elem = t.Elem
		}
		return fmt.Sprintf("%s(%s, sizeof(%s))", rtabi.FnArrayNew, g.expr(x.Len), cType(elem))
	}
	fn := x.Func
	if fn == nil || t == nil {
		g.fail("%s: no constructor for %s", x.Pos(), x.To)
		return "NULL"
	}
	var store string
	if x.Scoped {
		store = fmt.Sprintf("%s(%s, %d)", rtabi.FnScope, t.Real, t.ID)
	} else {
		store = fmt.Sprintf("((%s*)%s(sizeof(%s), %d))", t.Real, rtabi.FnAlloc, t.Real, t.ID)
	}
	args := []string{g.receiver(store, t, fn.Owner)}
	args = append(args, g.args(fn, x.Args)...)
	return g.receiver(fmt.Sprintf("%s(%s)", fn.Real, strings.Join(args, ", ")), fn.Owner, t)
}
