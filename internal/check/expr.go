package check

import (
	"github.com/you-not-fish/runc/internal/desugar"
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// expr validates x and returns its class, nil after an error. The class
// is memoized on the node. When x is rewritten during validation the
// class of the replacement is returned; callers re-read the parent slot
// to reach the new node.
func (c *Checker) expr(x syntax.Expr) *syntax.ClassDecl {
	if x == nil {
		return nil
	}
	if x.Checked() {
		return x.Type()
	}
	x.SetChecked()
	t := c.expr0(x)
	x.SetType(t)
	return t
}

// value is like expr but rejects expressions without value.
func (c *Checker) value(x syntax.Expr) *syntax.ClassDecl {
	t := c.expr(x)
	if t != nil && t.Void {
		c.errorf(x, token(x), diag.MsgVoidValue)
		return nil
	}
	return t
}

func (c *Checker) expr0(x syntax.Expr) *syntax.ClassDecl {
	switch x := x.(type) {
	case *syntax.BasicLit:
		return c.u.Literal(x.Kind)

	case *syntax.Name:
		return c.name(x)

	case *syntax.ThisExpr:
		cls := syntax.EnclosingClass(x)
		switch {
		case cls == nil:
			c.errorf(x, "this", "%s: this", diag.MsgUnknownName)
		case inStatic(x):
			c.errorf(x, "this", diag.MsgStaticThis)
		}
		return cls

	case *syntax.BaseExpr:
		cls := syntax.EnclosingClass(x)
		if cls == nil || cls.Base == nil {
			c.errorf(x, "base", diag.MsgNoBase)
			return nil
		}
		if inStatic(x) {
			c.errorf(x, "base", diag.MsgStaticThis)
		}
		return cls.Base

	case *syntax.ParenExpr:
		return c.expr(x.X)

	case *syntax.SelectorExpr:
		return c.selector(x)

	case *syntax.CallExpr:
		return c.call(x)

	case *syntax.BinaryExpr:
		return c.binary(x)

	case *syntax.AssignExpr:
		return c.assign(x)

	case *syntax.UnaryExpr:
		return c.unary(x)

	case *syntax.TernaryExpr:
		return c.ternary(x)

	case *syntax.IndexExpr:
		return c.index(x)

	case *syntax.CastExpr:
		c.value(x.X)
		return c.resolve(x.To)

	case *syntax.AsExpr:
		c.value(x.X)
		return c.resolve(x.To)

	case *syntax.IsExpr:
		c.value(x.X)
		c.resolve(x.To)
		return c.u.Bool

	case *syntax.SizeofExpr:
		c.expr(x.X)
		return c.u.Int

	case *syntax.TypeofExpr:
		c.expr(x.X)
		return c.u.Type

	case *syntax.RefExpr:
		c.value(x.X)
		return c.u.Pointer

	case *syntax.NewExpr:
		return c.newExpr(x)

	case *syntax.RangeExpr:
		lo, hi := c.value(x.Lo), c.value(x.Hi)
		if lo == nil || hi == nil {
			return nil
		}
		if !types.IsNumeric(lo) || !types.IsNumeric(hi) {
			c.errorf(x, token(x), diag.MsgRangeBounds)
			return nil
		}
		return types.Wider(lo, hi)

	case *syntax.TypeExpr:
		return c.resolve(x)
	}
	c.errorf(x, token(x), diag.MsgInvalidOperand)
	return nil
}

// name validates an identifier used as a value.
func (c *Checker) name(n *syntax.Name) *syntax.ClassDecl {
	d := c.resolveName(n)
	if d == nil {
		return nil
	}
	if instanceMember(d) && inStatic(n) {
		c.errorf(n, n.Value, "%s: %s", diag.MsgStaticThis, n.Value)
		return nil
	}
	switch d := d.(type) {
	case *syntax.ClassDecl:
		switch p := n.Parent().(type) {
		case *syntax.SizeofExpr, *syntax.TypeofExpr:
			return d
		case *syntax.SelectorExpr:
			if p.X == syntax.Expr(n) {
				return d
			}
		}
		c.errorf(n, n.Value, "%s: %s", diag.MsgNotAType, n.Value)
		return nil
	case *syntax.UsingDecl, *syntax.FuncDecl:
		c.errorf(n, n.Value, diag.MsgInvalidOperand)
		return nil
	}
	return c.declClass(n, nil, d)
}

// selector validates X.Sel used as a value.
func (c *Checker) selector(sel *syntax.SelectorExpr) *syntax.ClassDecl {
	d, static := c.selectDecl(sel)
	if d == nil {
		return nil
	}
	if _, ok := d.(*syntax.FuncDecl); ok {
		c.errorf(sel.Sel, sel.Sel.Value, diag.MsgInvalidOperand)
		return nil
	}
	var recv syntax.Expr
	if !static {
		recv = sel.X
	}
	t := c.declClass(sel, recv, d)
	sel.Sel.SetType(t)
	return t
}

// declClass returns the class of the declaration d read through x.
// Reading a property with accessors rewrites x into a getter call on recv.
func (c *Checker) declClass(x syntax.Expr, recv syntax.Expr, d syntax.Decl) *syntax.ClassDecl {
	switch d := d.(type) {
	case *syntax.VarDecl:
		return c.varDecl(d)
	case *syntax.Param:
		return c.paramClass(d)
	case *syntax.EnumMember:
		return d.Owner
	case *syntax.PropertyDecl:
		cls := c.resolve(d.Type)
		if d.Simple {
			return cls
		}
		if d.Getter == nil {
			c.errorf(x, d.Name, "%s: %s", diag.MsgNotReadable, d.Name)
			return nil
		}
		c.signature(d.Getter)
		if call := c.rw.Getter(x, recv, d); call != nil {
			return call.Type()
		}
		return cls
	}
	c.errorf(x, token(x), diag.MsgInvalidOperand)
	return nil
}

// binary validates a binary expression, rewriting operator overloads.
func (c *Checker) binary(b *syntax.BinaryExpr) *syntax.ClassDecl {
	x, y := c.value(b.X), c.value(b.Y)
	if x == nil || y == nil {
		return nil
	}

	if x.HasOperators {
		if op := c.operator(x, b.Op, b.Y); op != nil {
			call := c.rw.Operator(b, op)
			if call == nil {
				return c.resultClass(op)
			}
			c.convertArgs(op, call.Args)
			return call.Type()
		}
	}

	switch {
	case b.Op.IsLogical():
		return c.u.Bool

	case b.Op.IsComparison():
		if types.AssignableTo(x, y) || types.AssignableTo(y, x) {
			return c.u.Bool
		}

	case b.Op == syntax.Cmp:
		if (types.IsNumeric(x) && types.IsNumeric(y)) || (types.IsString(x) && types.IsString(y)) {
			return c.u.Int
		}

	case b.Op.IsBitwise():
		if types.IsBool(x) && types.IsBool(y) {
			return c.u.Bool
		}
		if integer(x) && integer(y) {
			if b.Op == syntax.Shl || b.Op == syntax.Shr {
				return x
			}
			return types.Wider(x, y)
		}

	default:
		if types.IsNumeric(x) && types.IsNumeric(y) {
			return types.Wider(x, y)
		}
		if x == c.u.Pointer && integer(y) && (b.Op == syntax.Add || b.Op == syntax.Sub) {
			return x
		}
	}
	c.errorf(b, b.Op.String(), "%s: %s %s %s", diag.MsgIncompatible, x.Name, b.Op, y.Name)
	return nil
}

func integer(c *syntax.ClassDecl) bool {
	return types.IsNumeric(c) && !types.IsFloat(c)
}

// operator returns the operator overload of cls for op accepting y.
func (c *Checker) operator(cls *syntax.ClassDecl, op syntax.Token, y syntax.Expr) *syntax.FuncDecl {
	cands := c.reg.Overloads(cls, "operator"+op.String())
	if len(cands) == 0 {
		return nil
	}
	return c.pick(cands, []syntax.Expr{y})
}

// unary validates prefix and postfix operators.
func (c *Checker) unary(u *syntax.UnaryExpr) *syntax.ClassDecl {
	switch u.Op {
	case syntax.Not:
		if c.value(u.X) == nil {
			return nil
		}
		return c.u.Bool
	case syntax.Inc, syntax.Dec:
		t := c.value(u.X)
		if t == nil || !c.assignable(u.X) {
			return nil
		}
		if !types.IsNumeric(t) && t != c.u.Pointer {
			c.errorf(u, u.Op.String(), "%s: %s", diag.MsgIncompatible, t.Name)
			return nil
		}
		return t
	}
	t := c.value(u.X)
	if t != nil && !types.IsNumeric(t) {
		c.errorf(u, u.Op.String(), "%s: %s", diag.MsgIncompatible, t.Name)
		return nil
	}
	return t
}

func (c *Checker) ternary(t *syntax.TernaryExpr) *syntax.ClassDecl {
	if cond := c.value(t.Cond); cond != nil && !types.IsBool(cond) {
		c.errorf(t.Cond, token(t.Cond), diag.MsgBoolCondition)
	}
	x, y := c.value(t.X), c.value(t.Y)
	if x == nil || y == nil {
		return nil
	}
	switch {
	case x.Null:
		return y
	case types.AssignableTo(y, x):
		return x
	case types.AssignableTo(x, y):
		return y
	}
	c.errorf(t, token(t), "%s: %s and %s", diag.MsgIncompatible, x.Name, y.Name)
	return nil
}

// index validates X[Index]: array elements, string characters and class
// indexers, which are rewritten into getter calls.
func (c *Checker) index(ix *syntax.IndexExpr) *syntax.ClassDecl {
	t, k := c.value(ix.X), c.value(ix.Index)
	if t == nil || k == nil {
		return nil
	}
	switch {
	case t.IsArray() || types.IsString(t):
		if !types.IsNumeric(k) {
			c.errorf(ix.Index, token(ix.Index), "%s: %s", diag.MsgIncompatible, k.Name)
			return nil
		}
		if t.IsArray() {
			return t.Elem
		}
		return c.u.Char
	}
	decl := c.indexer(t, k)
	if decl == nil {
		c.errorf(ix, token(ix.X), "%s: %s", diag.MsgNoIndexer, t.Name)
		return nil
	}
	if decl.Getter == nil {
		c.errorf(ix, token(ix.X), "%s: %s[]", diag.MsgNotReadable, t.Name)
		return nil
	}
	c.signature(decl.Getter)
	c.convert(ix.Index, c.resolve(decl.Key.Type))
	if call := c.rw.IndexGet(ix, decl); call != nil {
		return call.Type()
	}
	return c.resolve(decl.Result)
}

// indexer returns the indexer of cls whose key accepts k: an identical
// key class first, then an assignable or implicitly convertible one.
func (c *Checker) indexer(cls *syntax.ClassDecl, k *syntax.ClassDecl) *syntax.IndexerDecl {
	list := c.reg.Indexers(cls)
	for _, ix := range list {
		if ix.Key != nil && c.resolve(ix.Key.Type) == k {
			return ix
		}
	}
	for _, ix := range list {
		if ix.Key == nil {
			continue
		}
		key := c.resolve(ix.Key.Type)
		if types.AssignableTo(k, key) || c.reg.Implicit(key, k) != nil {
			return ix
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Assignment

// assign validates an assignment. Property and indexer targets become
// setter calls; compound assignments to them, and to operands of classes
// with operator overloads, are split into x = x op y first.
func (c *Checker) assign(a *syntax.AssignExpr) *syntax.ClassDecl {
	prop, recv, ix := c.target(a.X)

	if a.Op != syntax.Assign {
		split := prop != nil || ix != nil
		if !split {
			if t := c.expr(a.X); t != nil && t.HasOperators {
				split = true
			}
		}
		if split {
			if desugar.Compound(a) == nil {
				c.errorf(a, token(a.X), diag.MsgNotAssignable)
				return nil
			}
		}
	}

	switch {
	case prop != nil:
		if prop.Setter == nil {
			c.errorf(a, prop.Name, "%s: %s", diag.MsgNotWritable, prop.Name)
			return nil
		}
		if c.value(a.Y) == nil {
			return nil
		}
		c.signature(prop.Setter)
		c.convert(a.Y, c.resolve(prop.Type))
		c.rw.Setter(a, recv, prop, a.Y)
		return c.u.Void

	case ix != nil:
		x := a.X.(*syntax.IndexExpr)
		if ix.Setter == nil {
			c.errorf(a, token(x.X), "%s: []", diag.MsgNotWritable)
			return nil
		}
		if c.value(a.Y) == nil {
			return nil
		}
		c.signature(ix.Setter)
		c.convert(x.Index, c.resolve(ix.Key.Type))
		c.convert(a.Y, c.resolve(ix.Result))
		c.rw.IndexSet(a, x, ix, a.Y)
		return c.u.Void
	}

	x := c.expr(a.X)
	y := c.value(a.Y)
	if x == nil || y == nil || !c.assignable(a.X) {
		return nil
	}
	if a.Op == syntax.Assign {
		c.convert(a.Y, x)
		return x
	}
	bin := a.Op.Binary()
	switch {
	case types.IsNumeric(x) && types.IsNumeric(y):
	case x == c.u.Pointer && integer(y) && (bin == syntax.Add || bin == syntax.Sub):
	default:
		c.errorf(a, a.Op.String(), "%s: %s %s %s", diag.MsgIncompatible, x.Name, a.Op, y.Name)
		return nil
	}
	return x
}

// target classifies an assignment target: a property with accessors and
// its receiver, or a class indexer. Both results are nil for plain
// targets.
func (c *Checker) target(x syntax.Expr) (*syntax.PropertyDecl, syntax.Expr, *syntax.IndexerDecl) {
	switch x := x.(type) {
	case *syntax.Name:
		p, ok := c.resolveName(x).(*syntax.PropertyDecl)
		if ok && !p.Simple {
			if !p.Static && inStatic(x) {
				return nil, nil, nil
			}
			return p, nil, nil
		}
	case *syntax.SelectorExpr:
		d, static := c.selectDecl(x)
		if p, ok := d.(*syntax.PropertyDecl); ok && !p.Simple {
			if static {
				return p, nil, nil
			}
			return p, x.X, nil
		}
	case *syntax.IndexExpr:
		t, k := c.value(x.X), c.value(x.Index)
		if t == nil || k == nil || t.IsArray() || types.IsString(t) {
			return nil, nil, nil
		}
		return nil, nil, c.indexer(t, k)
	}
	return nil, nil, nil
}

// assignable reports whether x denotes a writable location.
func (c *Checker) assignable(x syntax.Expr) bool {
	var d syntax.Decl
	switch x := syntax.Unparen(x).(type) {
	case *syntax.Name:
		d = x.From
	case *syntax.SelectorExpr:
		d = x.Sel.From
	case *syntax.IndexExpr:
		return true
	default:
		c.errorf(x, token(x), diag.MsgNotAssignable)
		return false
	}
	switch d := d.(type) {
	case *syntax.VarDecl:
		if d.Const {
			c.errorf(x, d.Name, "%s: %s", diag.MsgConstAssign, d.Name)
			return false
		}
		return true
	case *syntax.Param:
		return true
	case *syntax.PropertyDecl:
		return d.Simple
	case *syntax.EnumMember:
		c.errorf(x, d.Name, "%s: %s", diag.MsgConstAssign, d.Name)
		return false
	case nil:
		return false
	}
	c.errorf(x, token(x), diag.MsgNotAssignable)
	return false
}

// convert checks that the value in x can be stored in a location of class
// to, wrapping it in an implicit constructor call when one applies.
func (c *Checker) convert(x syntax.Expr, to *syntax.ClassDecl) bool {
	if x == nil || to == nil {
		return true
	}
	from := x.Type()
	if from == nil {
		return true
	}
	if types.AssignableTo(from, to) {
		return true
	}
	if ctor := c.reg.Implicit(to, from); ctor != nil {
		c.signature(ctor)
		c.rw.Implicit(x, ctor)
		return true
	}
	c.errorf(x, token(x), "%s: %s to %s", diag.MsgIncompatible, from.Name, to.Name)
	return false
}
