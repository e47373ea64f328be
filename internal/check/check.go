// Package check implements the validator: it resolves every name to its
// declaration, computes the class of every expression and reports
// semantic errors. Validation is demand driven and memoized per node, so
// a declaration used before its turn is validated on first use and never
// twice.
//
// While validating, the checker hands properties, indexers, operator
// overloads and implicit conversions to the desugarer, which rewrites them
// into explicit calls.
package check

import (
	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/desugar"
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// Checker validates the modules of one compilation.
type Checker struct {
	reg  *build.Registry
	u    *types.Universe
	errs *diag.List
	rw   desugar.Rewriter

	sigs   map[*syntax.FuncDecl]bool
	labels map[*syntax.FuncDecl]map[string]*syntax.LabelStmt
}

// New returns a checker over the symbols of reg reporting to errs.
func New(reg *build.Registry, errs *diag.List) *Checker {
	return &Checker{
		reg:    reg,
		u:      reg.Universe,
		errs:   errs,
		rw:     desugar.Rewriter{Void: reg.Universe.Void},
		sigs:   make(map[*syntax.FuncDecl]bool),
		labels: make(map[*syntax.FuncDecl]map[string]*syntax.LabelStmt),
	}
}

// Check validates every declaration of the registered modules.
func (c *Checker) Check() {
	for _, f := range c.reg.Files {
		for _, d := range f.Decls {
			c.decl(d)
		}
	}
	if main := c.reg.Root.Main; main != nil && c.errs.Len() == 0 {
		c.mainParams(main)
	}
}

func (c *Checker) errorf(n syntax.Node, tok, format string, args ...interface{}) {
	c.errs.Errorf(n.Pos(), tok, format, args...)
}

// token returns the text reported with an error at n.
func token(n syntax.Node) string {
	switch n := n.(type) {
	case *syntax.Name:
		return n.Value
	case *syntax.CallExpr:
		return n.Name.Value
	case *syntax.SelectorExpr:
		return n.Sel.Value
	case syntax.Expr:
		return syntax.ExprString(n)
	case syntax.Decl:
		return n.DeclName()
	}
	return ""
}

// ----------------------------------------------------------------------------
// Declarations

func (c *Checker) decl(d syntax.Decl) {
	switch d := d.(type) {
	case *syntax.ClassDecl:
		c.class(d)
	case *syntax.ExtensionDecl:
		if d.Target == nil {
			return
		}
		for _, m := range d.Members {
			c.member(m)
		}
	case *syntax.FuncDecl:
		c.function(d)
	case *syntax.VarDecl:
		c.varDecl(d)
	}
}

func (c *Checker) class(cls *syntax.ClassDecl) {
	if cls.Checked() {
		return
	}
	cls.SetChecked()
	for _, m := range cls.Members {
		c.member(m)
	}
}

func (c *Checker) member(d syntax.Decl) {
	switch d := d.(type) {
	case *syntax.VarDecl:
		c.varDecl(d)
	case *syntax.FuncDecl:
		c.function(d)
	case *syntax.PropertyDecl:
		c.property(d)
	case *syntax.IndexerDecl:
		if d.Key != nil {
			c.resolve(d.Key.Type)
		}
		c.resolve(d.Result)
		c.function(d.Getter)
		c.function(d.Setter)
	}
}

func (c *Checker) property(p *syntax.PropertyDecl) {
	if p.Checked() {
		return
	}
	p.SetChecked()
	cls := c.resolve(p.Type)
	if p.Init != nil && cls != nil && c.value(p.Init) != nil {
		c.convert(p.Init, cls)
	}
	c.function(p.Getter)
	c.function(p.Setter)
}

// resolve returns the class denoted by the written type t, reporting an
// unknown type.
func (c *Checker) resolve(t *syntax.TypeExpr) *syntax.ClassDecl {
	if t == nil {
		return nil
	}
	cls := c.reg.Resolve(t)
	if cls == nil && !t.Checked() {
		c.errs.Forcef(t.Pos(), t.Name, "%s: %s", diag.MsgUnknownType, t.Name)
	}
	t.SetChecked()
	return cls
}

// varDecl validates a variable, field or global and records its class.
func (c *Checker) varDecl(v *syntax.VarDecl) *syntax.ClassDecl {
	if v.Checked() {
		return v.Class
	}
	v.SetChecked()
	v.SetReal("_" + v.Name)

	var cls *syntax.ClassDecl
	if v.Type != nil {
		cls = c.resolve(v.Type)
	}
	if v.ArrayLen != nil {
		if n := c.value(v.ArrayLen); n != nil && !types.IsNumeric(n) {
			c.errorf(v.ArrayLen, token(v.ArrayLen), diag.MsgIncompatible)
		}
	}
	if v.Type == nil && v.Init == nil {
		c.errorf(v, v.Name, "%s: %s", diag.MsgUnknownType, v.Name)
	}
	if v.Init != nil {
		init := c.value(v.Init)
		switch {
		case init == nil:
		case v.Type == nil && init.Null:
			c.errorf(v, v.Name, "%s: %s", diag.MsgUnknownType, v.Name)
		case v.Type == nil:
			cls = init
		case cls != nil:
			c.convert(v.Init, cls)
		}
	}
	v.Class = cls
	return cls
}

// signature resolves the parameter and result types of fn.
func (c *Checker) signature(fn *syntax.FuncDecl) {
	if fn == nil || c.sigs[fn] {
		return
	}
	c.sigs[fn] = true
	for _, p := range fn.Params {
		c.resolve(p.Type)
	}
	c.resolve(fn.Result)
	if fn.Kind == syntax.FuncOperator && (fn.Result == nil || len(fn.Params) != 1) {
		c.errorf(fn, fn.Name, diag.MsgOperatorSignature)
	}
}

// paramClass returns the class of p inside the function body: variadic
// parameters are arrays of their declared class.
func (c *Checker) paramClass(p *syntax.Param) *syntax.ClassDecl {
	if p.Type == nil {
		return nil
	}
	cls := c.resolve(p.Type)
	if cls != nil && p.Variadic {
		return c.reg.ArrayOf(cls)
	}
	return cls
}

// resultClass returns the class a call of fn evaluates to.
func (c *Checker) resultClass(fn *syntax.FuncDecl) *syntax.ClassDecl {
	c.signature(fn)
	if fn.Kind == syntax.FuncCtor {
		return fn.Owner
	}
	if fn.Result == nil {
		return c.u.Void
	}
	return fn.Result.Type()
}

// function validates the signature and body of fn.
func (c *Checker) function(fn *syntax.FuncDecl) {
	if fn == nil || fn.Checked() {
		return
	}
	fn.SetChecked()
	c.signature(fn)

	if fn.Kind == syntax.FuncCtor {
		c.chain(fn)
	}
	switch {
	case fn.Body != nil:
		c.collectLabels(fn)
		c.block(fn.Body)
	case fn.Arrow != nil:
		x := c.expr(fn.Arrow)
		if res := fn.Result; res != nil && res.Type() != nil && x != nil {
			if x.Void {
				c.errorf(fn.Arrow, token(fn.Arrow), diag.MsgVoidValue)
			} else {
				c.convert(fn.Arrow, res.Type())
			}
		}
	}
}

// chain resolves the constructor a constructor runs before its body:
// the one named by ": base(...)" or ": this(...)", or the base class
// constructor without parameters.
func (c *Checker) chain(fn *syntax.FuncDecl) {
	owner := fn.Owner
	if owner == nil {
		return
	}
	switch fn.Init {
	case syntax.InitNone:
		if owner.Base == nil {
			return
		}
		for _, ctor := range c.reg.Ctors(owner.Base) {
			if len(ctor.Params) == 0 {
				fn.InitFunc = ctor
				return
			}
		}
	case syntax.InitBase, syntax.InitThis:
		target := owner
		if fn.Init == syntax.InitBase {
			target = owner.Base
			if target == nil {
				c.errorf(fn, "base", diag.MsgNoBase)
				return
			}
		}
		if !c.args(fn.InitArgs) {
			return
		}
		ctor := c.pick(ctorDecls(c.reg.Ctors(target)), fn.InitArgs)
		if ctor == nil {
			c.errorf(fn, fn.Name, "%s: %s", diag.MsgNoConstructor, target.Name)
			return
		}
		c.convertArgs(ctor, fn.InitArgs)
		fn.InitFunc = ctor
	}
}

func ctorDecls(list []*syntax.FuncDecl) []syntax.Decl {
	ds := make([]syntax.Decl, len(list))
	for i, fn := range list {
		ds[i] = fn
	}
	return ds
}

// mainParams checks that the entry function takes only values the runtime
// can parse from the command line.
func (c *Checker) mainParams(fn *syntax.FuncDecl) {
	for _, p := range fn.Params {
		cls := c.paramClass(p)
		if cls == nil {
			continue
		}
		if p.Variadic || !cls.Primitive || cls == c.u.Pointer {
			c.errorf(p, p.Name, diag.MsgMainParams)
		}
	}
}
