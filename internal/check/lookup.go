package check

import (
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
)

// lookup returns the declarations called name visible at n, walking the
// lexical chain outwards: block locals declared before n, loop variables,
// parameters, members of the enclosing class and its bases, module
// globals, globals of used modules, using nicks and finally class names.
// The first scope holding a declaration accepted by keep wins; keep may
// be nil.
func (c *Checker) lookup(n syntax.Node, name string, keep func(syntax.Decl) bool) []syntax.Decl {
	filter := func(list []syntax.Decl) []syntax.Decl {
		if keep == nil {
			return list
		}
		var out []syntax.Decl
		for _, d := range list {
			if keep(d) {
				out = append(out, d)
			}
		}
		return out
	}

	child := n
	for p := n.Parent(); p != nil; child, p = p, p.Parent() {
		var found []syntax.Decl
		switch p := p.(type) {
		case *syntax.Block:
			found = locals(p.Stmts, child, name)
		case *syntax.DeclStmt:
			found = vars(p.Vars, child, name)
		case *syntax.ForStmt:
			if p.Var != nil && syntax.Node(p.Var) != child && p.Var.Name == name {
				found = []syntax.Decl{p.Var}
			}
			if ds, ok := p.Init.(*syntax.DeclStmt); ok && syntax.Node(ds) != child {
				found = append(found, vars(ds.Vars, nil, name)...)
			}
		case *syntax.FuncDecl:
			for _, prm := range p.Params {
				if prm.Name == name {
					found = append(found, prm)
				}
			}
			if len(filter(found)) == 0 && p.Owner != nil {
				found = c.members(p.Owner, name)
			}
		case *syntax.ClassDecl:
			found = c.reg.Overloads(p, name)
		case *syntax.File:
			found = c.reg.LookupGlobal(p, name)
			if len(filter(found)) == 0 {
				if u := c.reg.LookupUsing(p, name); u != nil {
					found = []syntax.Decl{u}
				}
			}
		}
		if found = filter(found); len(found) > 0 {
			return found
		}
	}
	if cls := c.reg.Class(name); cls != nil && (keep == nil || keep(cls)) {
		return []syntax.Decl{cls}
	}
	return nil
}

// locals returns the last variable called name declared by the statements
// preceding child.
func locals(stmts []syntax.Stmt, child syntax.Node, name string) []syntax.Decl {
	var found []syntax.Decl
	for _, s := range stmts {
		if syntax.Node(s) == child {
			break
		}
		if ds, ok := s.(*syntax.DeclStmt); ok {
			if list := vars(ds.Vars, nil, name); len(list) > 0 {
				found = list
			}
		}
	}
	return found
}

// vars returns the last variable called name declared before child.
func vars(list []*syntax.VarDecl, child syntax.Node, name string) []syntax.Decl {
	var found []syntax.Decl
	for _, v := range list {
		if syntax.Node(v) == child {
			break
		}
		if v.Name == name {
			found = []syntax.Decl{v}
		}
	}
	return found
}

// members returns the members called name of cls and its bases. For an
// interface the members of the interfaces it extends follow.
func (c *Checker) members(cls *syntax.ClassDecl, name string) []syntax.Decl {
	return c.membersDepth(cls, name, 0)
}

func (c *Checker) membersDepth(cls *syntax.ClassDecl, name string, depth int) []syntax.Decl {
	list := c.reg.Overloads(cls, name)
	if cls.IsInterface() && depth < 32 {
		for _, i := range cls.Interfaces {
			list = append(list, c.membersDepth(i, name, depth+1)...)
		}
	}
	return list
}

func isFunc(d syntax.Decl) bool {
	_, ok := d.(*syntax.FuncDecl)
	return ok
}

// resolveName binds n to the declaration it names, reporting unknown
// names once.
func (c *Checker) resolveName(n *syntax.Name) syntax.Decl {
	if n.From != nil {
		return n.From
	}
	list := c.lookup(n, n.Value, nil)
	if len(list) == 0 {
		c.errorf(n, n.Value, "%s: %s", diag.MsgUnknownName, n.Value)
		return nil
	}
	n.From = list[0]
	return n.From
}

// qualifier returns the class or using declaration named by x when x is
// a bare name used as a static qualifier (Class.member, nick.func).
func (c *Checker) qualifier(x syntax.Expr) syntax.Decl {
	n, ok := x.(*syntax.Name)
	if !ok {
		return nil
	}
	switch d := c.resolveName(n).(type) {
	case *syntax.ClassDecl:
		n.SetChecked()
		n.SetType(d)
		return d
	case *syntax.UsingDecl:
		n.SetChecked()
		return d
	}
	return nil
}

// selectDecl binds the selector sel to the member it names. static
// reports a class or module qualifier on the left.
func (c *Checker) selectDecl(sel *syntax.SelectorExpr) (d syntax.Decl, static bool) {
	name := sel.Sel.Value
	sel.Sel.SetChecked()
	if q := c.qualifier(sel.X); q != nil {
		static = true
		if sel.Sel.From != nil {
			return sel.Sel.From, true
		}
		switch q := q.(type) {
		case *syntax.ClassDecl:
			d = c.reg.LookupMember(q, name)
			if d != nil && instanceMember(d) {
				c.errorf(sel.Sel, name, "%s: %s", diag.MsgStaticThis, name)
				return nil, true
			}
		case *syntax.UsingDecl:
			if q.Module != nil {
				d = c.reg.Module(q.Module).Lookup(name)
			}
		}
	} else {
		t := c.value(sel.X)
		if sel.Sel.From != nil {
			return sel.Sel.From, false
		}
		if t == nil {
			return nil, false
		}
		if list := c.members(t, name); len(list) > 0 {
			d = list[0]
		}
	}
	if d == nil {
		c.errorf(sel.Sel, name, "%s: %s", diag.MsgUnknownName, name)
		return nil, static
	}
	c.access(sel, d)
	sel.Sel.From = d
	return d, static
}

// instanceMember reports whether d needs a receiver.
func instanceMember(d syntax.Decl) bool {
	switch d := d.(type) {
	case *syntax.VarDecl:
		return d.Field && !d.Static
	case *syntax.PropertyDecl:
		return !d.Static
	case *syntax.FuncDecl:
		return d.IsMethod() && d.Kind != syntax.FuncCtor
	}
	return false
}

// access reports a private member used outside its class.
func (c *Checker) access(at syntax.Node, d syntax.Decl) {
	var acc syntax.Access
	var owner *syntax.ClassDecl
	switch d := d.(type) {
	case *syntax.VarDecl:
		acc, owner = d.Access, d.Owner
	case *syntax.FuncDecl:
		acc, owner = d.Access, d.Owner
	case *syntax.PropertyDecl:
		acc, owner = d.Access, d.Owner
	}
	if acc != syntax.Private || owner == nil {
		return
	}
	if syntax.EnclosingClass(at) != owner {
		c.errorf(at, d.DeclName(), "%s: %s", diag.MsgPrivateMember, d.DeclName())
	}
}

// inStatic reports whether n lies in a static function.
func inStatic(n syntax.Node) bool {
	fn := syntax.EnclosingFunc(n)
	return fn != nil && fn.Static
}
