package check

import (
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// call validates a function call and binds it to an overload.
func (c *Checker) call(call *syntax.CallExpr) *syntax.ClassDecl {
	call.Name.SetChecked()
	name := call.Name.Value

	cands, ok := c.candidates(call)
	if !ok {
		return nil
	}
	if !c.args(call.Args) {
		return nil
	}
	if len(cands) == 0 {
		c.errorf(call.Name, name, "%s: %s", diag.MsgUnknownName, name)
		return nil
	}
	fn := c.pick(cands, call.Args)
	if fn == nil {
		c.errorf(call.Name, name, "%s: %s", diag.MsgNoOverload, name)
		return nil
	}
	if call.Caller == nil && fn.IsMethod() && inStatic(call) {
		c.errorf(call.Name, name, "%s: %s", diag.MsgStaticThis, name)
		return nil
	}
	if call.Caller != nil {
		c.access(call, fn)
	}
	call.Func = fn
	call.Name.From = fn
	c.convertArgs(fn, call.Args)
	t := c.resultClass(fn)
	call.Name.SetType(t)
	return t
}

// candidates returns the functions a call may bind to, by the form of its
// caller: lexical functions, static members of a class, module members
// of a using nick, base class members or members of the receiver class.
func (c *Checker) candidates(call *syntax.CallExpr) ([]syntax.Decl, bool) {
	name := call.Name.Value
	if call.Caller == nil {
		list := c.lookup(call, name, isFunc)
		if len(list) == 0 {
			if other := c.lookup(call, name, nil); len(other) > 0 {
				c.errorf(call.Name, name, "%s: %s", diag.MsgNotCallable, name)
				return nil, false
			}
		}
		return list, true
	}

	switch q := c.qualifier(call.Caller).(type) {
	case *syntax.ClassDecl:
		var list []syntax.Decl
		for _, d := range c.members(q, name) {
			if fn, ok := d.(*syntax.FuncDecl); ok && !fn.IsMethod() {
				list = append(list, fn)
			}
		}
		return list, true
	case *syntax.UsingDecl:
		if q.Module == nil {
			return nil, false
		}
		return c.reg.Module(q.Module).LookupAll(name), true
	}

	t := c.value(call.Caller)
	if t == nil {
		return nil, false
	}
	var list []syntax.Decl
	for _, d := range c.members(t, name) {
		if isFunc(d) {
			list = append(list, d)
		}
	}
	return list, true
}

// args validates call arguments. It reports false when one of them failed.
func (c *Checker) args(list []syntax.Expr) bool {
	ok := true
	for _, a := range list {
		if c.value(a) == nil {
			ok = false
		}
	}
	return ok
}

// pick selects the overload among cands that accepts args. A candidate
// whose parameter classes equal the argument classes, the one named by the
// mangled call signature, wins; otherwise the first compatible candidate in
// declaration order is taken, and only then implicit constructor
// conversions are considered. The arguments must have been validated.
func (c *Checker) pick(cands []syntax.Decl, args []syntax.Expr) *syntax.FuncDecl {
	var fns []*syntax.FuncDecl
	for _, d := range cands {
		if fn, ok := d.(*syntax.FuncDecl); ok {
			c.signature(fn)
			fns = append(fns, fn)
		}
	}
	for _, m := range []match{matchExact, matchCompatible, matchImplicit} {
		for _, fn := range fns {
			if c.accepts(fn, args, m) {
				return fn
			}
		}
	}
	return nil
}

// match is how strictly an argument must fit its parameter.
type match int

const (
	matchExact match = iota
	matchCompatible
	matchImplicit
)

// accepts reports whether fn takes args under m.
func (c *Checker) accepts(fn *syntax.FuncDecl, args []syntax.Expr, m match) bool {
	n := fn.FixedParams()
	if len(args) < n || (!fn.Variadic && len(args) != n) {
		return false
	}
	for i, a := range args {
		want, got := c.paramAt(fn, i), a.Type()
		if want == nil || got == nil {
			return false
		}
		switch {
		case got == want:
		case m == matchExact:
			return false
		case types.AssignableTo(got, want):
		case m == matchImplicit && c.reg.Implicit(want, got) != nil:
		default:
			return false
		}
	}
	return true
}

// paramAt returns the class expected for the i-th argument of fn: the
// element class for arguments bound to the variadic parameter.
func (c *Checker) paramAt(fn *syntax.FuncDecl, i int) *syntax.ClassDecl {
	n := fn.FixedParams()
	if i >= n {
		if !fn.Variadic {
			return nil
		}
		i = n
	}
	if fn.Params[i].Type == nil {
		return nil
	}
	return fn.Params[i].Type.Type()
}

// convertArgs applies implicit conversions to the arguments of a call
// bound to fn.
func (c *Checker) convertArgs(fn *syntax.FuncDecl, args []syntax.Expr) {
	for i := range args {
		want := c.paramAt(fn, i)
		if want == nil || (fn.Variadic && i >= fn.FixedParams() && want.Any) {
			continue
		}
		c.convert(args[i], want)
	}
}

// newExpr validates new T(args), new T[n] and scope T.
func (c *Checker) newExpr(n *syntax.NewExpr) *syntax.ClassDecl {
	cls := c.resolve(n.To)
	if cls == nil {
		return nil
	}
	if n.Len != nil {
		if k := c.value(n.Len); k != nil && !types.IsNumeric(k) {
			c.errorf(n.Len, token(n.Len), "%s: %s", diag.MsgIncompatible, k.Name)
		}
		return cls
	}
	switch {
	case cls.IsInterface():
		c.errorf(n, cls.Name, "%s: %s", diag.MsgAbstractInstance, cls.Name)
		return nil
	case cls.IsValue() || cls.Synthetic:
		c.errorf(n, cls.Name, "%s: %s", diag.MsgInvalidOperand, cls.Name)
		return nil
	}
	if !c.args(n.Args) {
		return cls
	}
	fn := c.pick(ctorDecls(c.reg.Ctors(cls)), n.Args)
	if fn == nil {
		msg := diag.MsgNoConstructor
		if n.Scoped {
			msg = diag.MsgScopeNeedsCtor
		}
		c.errorf(n, cls.Name, "%s: %s", msg, cls.Name)
		return cls
	}
	n.Func = fn
	c.convertArgs(fn, n.Args)
	return cls
}
