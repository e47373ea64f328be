package build

import (
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
)

// registerMembers registers the members of every class, then merges
// extensions into their target classes.
func (r *Registry) registerMembers() {
	for _, c := range r.Classes {
		if c.IsEnum() {
			continue
		}
		for _, d := range c.Members {
			r.member(c, d)
		}
	}

	for _, f := range r.Files {
		for _, d := range f.Decls {
			e, ok := d.(*syntax.ExtensionDecl)
			if !ok {
				continue
			}
			target := r.Class(e.Name)
			if target == nil || target.Synthetic {
				r.errorf(e, e.Name, diag.MsgUnknownType)
				continue
			}
			e.Target = target
			for _, m := range e.Members {
				r.member(target, m)
			}
		}
	}
}

// member registers one member declaration d of class c.
func (r *Registry) member(c *syntax.ClassDecl, d syntax.Decl) {
	scope := r.Members(c)
	switch d := d.(type) {
	case *syntax.VarDecl:
		d.Owner = c
		d.Field = true
		if prev := scope.Insert(d); prev != nil {
			r.errs.Forcef(d.Pos(), d.Name, diag.MsgNameExists)
			return
		}
		d.SetReal(varName(d))
		if d.Static {
			r.Statics = append(r.Statics, d)
		}

	case *syntax.FuncDecl:
		d.Owner = c
		if d.Kind == syntax.FuncPlain {
			d.Kind = syntax.FuncMethod
		}
		switch d.Kind {
		case syntax.FuncDispose:
			c.Dispose = d
		case syntax.FuncOperator:
			c.HasOperators = true
		case syntax.FuncCtor:
			r.forwardParams(c, d)
			if d.Implicit && len(d.Params) == 1 && d.Params[0].Type != nil && d.Params[0].Type.Array {
				r.errorf(d, "this", syntax.MsgImplicitParams)
			}
		}
		if !r.function(d) {
			return
		}
		d.Index = len(scope.LookupAll(d.Name))
		scope.Overload(d)
		if d.Implicit && len(d.Params) == 1 && d.Params[0].Type != nil {
			if r.implicit[c] == nil {
				r.implicit[c] = make(map[string]*syntax.FuncDecl)
			}
			r.implicit[c][d.Params[0].Type.String()] = d
		}

	case *syntax.PropertyDecl:
		d.Owner = c
		if prev := scope.Insert(d); prev != nil {
			r.errs.Forcef(d.Pos(), d.Name, diag.MsgNameExists)
			return
		}
		switch {
		case d.Simple && d.Static:
			d.SetReal("_" + c.Name + "_" + d.Name)
		case d.Simple:
			d.SetReal("_" + d.Name)
		}
		if (d.Simple && !d.Static) || (c.IsInterface() && d.Getter == nil && d.Setter == nil) {
			accessors(c, d)
		}
		for _, acc := range []*syntax.FuncDecl{d.Getter, d.Setter} {
			if acc == nil {
				continue
			}
			acc.Owner = c
			acc.Static = d.Static
			r.function(acc)
		}

	case *syntax.IndexerDecl:
		d.Owner = c
		c.HasIndexers = true
		scope.Overload(d)
		for _, acc := range []*syntax.FuncDecl{d.Getter, d.Setter} {
			if acc == nil {
				continue
			}
			acc.Owner = c
			r.function(acc)
		}
	}
}

// accessors synthesizes the getter and setter of a property declared
// without them. Interface accessors stay abstract; the accessors of a
// simple property read and write its backing field and let the property
// satisfy interfaces at run time.
func accessors(c *syntax.ClassDecl, p *syntax.PropertyDecl) {
	pos := p.Pos()
	typ := func() *syntax.TypeExpr {
		return syntax.NewTypeExpr(pos, p.Type.Name, p.Type.Array)
	}
	get := &syntax.FuncDecl{Name: p.Name, Kind: syntax.FuncGetter, Result: typ(), IsDefault: true, Owner: c, Property: p}
	set := &syntax.FuncDecl{Name: p.Name, Kind: syntax.FuncSetter, IsDefault: true, Owner: c, Property: p}
	value := &syntax.Param{Name: "value", Type: typ(), Func: set}
	set.Params = []*syntax.Param{value}
	get.SetPos(pos)
	set.SetPos(pos)
	value.SetPos(pos)

	if c.IsInterface() {
		get.Abstract, set.Abstract = true, true
	} else {
		get.Arrow = field(pos, p.Name)
		assign := &syntax.AssignExpr{Op: syntax.Assign, X: field(pos, p.Name), Y: syntax.NewName(pos, "value")}
		assign.SetPos(pos)
		set.Arrow = assign
	}
	p.Getter, p.Setter = get, set
	syntax.SetParents(p)
}

// field returns this.name at pos.
func field(pos syntax.Pos, name string) *syntax.SelectorExpr {
	this := &syntax.ThisExpr{}
	this.SetPos(pos)
	sel := &syntax.SelectorExpr{X: this, Sel: syntax.NewName(pos, name)}
	sel.SetPos(pos)
	return sel
}

// forwardParams gives member-forwarding constructor parameters (.x) the
// type of the field they forward to.
func (r *Registry) forwardParams(c *syntax.ClassDecl, fn *syntax.FuncDecl) {
	for _, p := range fn.Params {
		if !p.Member {
			continue
		}
		field := fieldOf(c, p.Name)
		if field == nil || field.Type == nil {
			r.errorf(p, "."+p.Name, "%s: %s", diag.MsgUnknownName, p.Name)
			continue
		}
		p.Field = field
		p.Type = syntax.NewTypeExpr(p.Pos(), field.Type.Name, field.Type.Array)
		syntax.SetParents(p)
	}
}

// fieldOf returns the field called name declared in c or its bases.
func fieldOf(c *syntax.ClassDecl, name string) *syntax.VarDecl {
	for k := c; k != nil; k = k.Base {
		for _, d := range k.Members {
			if v, ok := d.(*syntax.VarDecl); ok && v.Name == name {
				return v
			}
		}
	}
	return nil
}

// function assigns the emitted names of fn and its parameters and records
// fn for emission. It reports false when the emitted name is taken.
func (r *Registry) function(fn *syntax.FuncDecl) bool {
	name := funcName(fn)
	if prev := r.reals[name]; prev != nil && prev != syntax.Decl(fn) {
		r.errs.Forcef(fn.Pos(), fn.Name, diag.MsgNameExists)
		return false
	}
	r.reals[name] = fn
	fn.SetReal(name)
	for _, p := range fn.Params {
		p.SetReal("_" + p.Name)
	}
	r.nativeTemplate(fn)
	r.Funcs = append(r.Funcs, fn)
	return true
}

// nativeTemplate records the native binding of fn: the argument of
// @native, or the function's own name for a bare @native.
func (r *Registry) nativeTemplate(fn *syntax.FuncDecl) {
	if fn.Native != "" {
		return
	}
	if arg, ok := fn.Annots.Get("native"); ok {
		fn.Native = arg
		if arg == "" {
			fn.Native = fn.Name
		}
	}
}

// registerModules registers the module-level functions and variables of
// every file and the entry function of the root module.
func (r *Registry) registerModules() {
	for _, f := range r.Files {
		scope := r.modules[f]
		for _, d := range f.Decls {
			switch d := d.(type) {
			case *syntax.FuncDecl:
				if d.Kind == syntax.FuncMain {
					if f != r.Root {
						continue
					}
				}
				if !r.function(d) {
					continue
				}
				d.Index = len(scope.LookupAll(d.Name))
				scope.Overload(d)

			case *syntax.VarDecl:
				d.Global = true
				if prev := scope.Insert(d); prev != nil {
					r.errs.Forcef(d.Pos(), d.Name, diag.MsgNameExists)
					continue
				}
				d.SetReal(varName(d))
				r.Globals = append(r.Globals, d)
			}
		}
	}
}
