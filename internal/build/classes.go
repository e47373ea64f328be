package build

import (
	"strconv"

	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// registerClasses assigns identities to the synthetic any class and to
// every class, interface and enum, rejecting duplicate names.
func (r *Registry) registerClasses() {
	r.Universe.Any.ID = r.nextID
	r.nextID++
	r.classes.Insert(r.Universe.Any)

	for _, f := range r.Files {
		for _, d := range f.Decls {
			c, ok := d.(*syntax.ClassDecl)
			if !ok {
				continue
			}
			if prev := r.classes.Insert(c); prev != nil {
				r.errs.Forcef(c.Pos(), c.Name, diag.MsgNameExists)
				continue
			}
			c.Module = f
			c.ID = r.nextID
			r.nextID++
			r.classFlags(c)
			r.Classes = append(r.Classes, c)
			if c.IsEnum() {
				r.enumValues(c)
			}
		}
	}
}

// classFlags derives the semantic flags of c from its annotations.
func (r *Registry) classFlags(c *syntax.ClassDecl) {
	as := c.Annots
	c.Primitive = as.Has("primitive")
	c.Number = as.Has("number")
	c.Float = as.Has("float")
	if native, ok := as.Get("native"); ok {
		c.Native = true
		c.NativeName = native
		if native == "" {
			c.NativeName = c.Name
		}
	}
	if h, ok := as.Get("header"); ok {
		c.Header = h
	}
	switch {
	case c.NativeName != "":
		c.SetReal(c.NativeName)
	case c.IsEnum():
		c.NativeName = "int"
		c.SetReal("int")
	default:
		c.SetReal("_" + c.Name)
	}
}

// enumValues numbers the members of enum c. Explicit values must be
// integer literals; implicit values continue from the previous member.
func (r *Registry) enumValues(c *syntax.ClassDecl) {
	next := 0
	seen := map[string]bool{}
	for _, d := range c.Members {
		m, ok := d.(*syntax.EnumMember)
		if !ok {
			continue
		}
		m.Owner = c
		if seen[m.Name] {
			r.errs.Forcef(m.Pos(), m.Name, diag.MsgNameExists)
			continue
		}
		seen[m.Name] = true
		if m.Value != nil {
			lit, ok := syntax.Unparen(m.Value).(*syntax.BasicLit)
			if !ok || (lit.Kind != syntax.IntLit && lit.Kind != syntax.HexLit) {
				r.errorf(m.Value, syntax.ExprString(m.Value), diag.MsgEnumValue)
				continue
			}
			v, err := strconv.ParseInt(lit.Value, 0, 64)
			if err != nil {
				r.errorf(m.Value, lit.Value, diag.MsgEnumValue)
				continue
			}
			next = int(v)
		}
		m.Index = next
		m.SetReal(c.Name + "_" + m.Name)
		r.Members(c).Insert(m)
		next++
	}
}

// cachePrimitives stores the prelude classes in the universe.
func (r *Registry) cachePrimitives() {
	for _, c := range r.Classes {
		if c.Module != nil && c.Module.Builtin {
			r.Universe.Set(c)
		}
	}
	if a := r.Universe.Array; a != nil {
		for _, c := range r.arrays {
			c.Base = a
		}
	}
}

// defaultCtors synthesizes a constructor without parameters for every
// class that declares none.
func (r *Registry) defaultCtors() {
	for _, c := range r.Classes {
		if c.Kind != syntax.KindClass || c.Primitive || c.Native {
			continue
		}
		has := false
		for _, d := range c.Members {
			if fn, ok := d.(*syntax.FuncDecl); ok && fn.Kind == syntax.FuncCtor {
				has = true
				break
			}
		}
		if has {
			continue
		}
		fn := &syntax.FuncDecl{Name: "this", Kind: syntax.FuncCtor, IsDefault: true, Owner: c, Body: &syntax.Block{}}
		fn.SetPos(c.Pos())
		fn.Body.SetPos(c.Pos())
		c.Members = append(c.Members, fn)
		syntax.SetParents(c)
	}
}

// resolveBases links every class to its base class and interfaces. A
// base that turns out to be an interface moves to the interface list.
func (r *Registry) resolveBases() {
	for _, c := range r.Classes {
		if c.BaseName != "" {
			base := r.Class(c.BaseName)
			switch {
			case base == nil:
				r.errs.Forcef(c.BasePos, c.BaseName, diag.MsgUnknownType)
			case base.IsInterface():
				c.Interfaces = append(c.Interfaces, base)
			default:
				c.Base = base
			}
		}
		for _, name := range c.IfaceNames {
			iface := r.Class(name)
			switch {
			case iface == nil:
				r.errs.Forcef(c.Pos(), name, diag.MsgUnknownType)
			case !iface.IsInterface():
				r.errs.Forcef(c.Pos(), name, diag.MsgNotInterface)
			default:
				c.Interfaces = append(c.Interfaces, iface)
			}
		}
	}

	for _, c := range r.Classes {
		if cyclic(c) {
			r.errs.Forcef(c.Pos(), c.Name, diag.MsgCircularBase)
			c.Base = nil
			continue
		}
		if c.Base != nil {
			r.Members(c).SetParent(r.Members(c.Base))
		}
	}
}

func cyclic(c *syntax.ClassDecl) bool {
	seen := map[*syntax.ClassDecl]bool{}
	for k := c; k != nil; k = k.Base {
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}

// checkInterfaces verifies that every class provides the members of the
// interfaces it implements: functions with the same arity and result type
// name, and properties.
func (r *Registry) checkInterfaces() {
	for _, c := range r.Classes {
		if c.Kind != syntax.KindClass {
			continue
		}
		for _, iface := range allInterfaces(c) {
			for _, m := range iface.Members {
				switch m := m.(type) {
				case *syntax.FuncDecl:
					r.checkIfaceFunc(c, iface, m)
				case *syntax.PropertyDecl:
					if r.LookupMember(c, m.Name) == nil {
						r.errs.Forcef(c.Pos(), c.Name, "%s: %s.%s", diag.MsgMissingMember, iface.Name, m.Name)
					}
				}
			}
		}
	}
}

func (r *Registry) checkIfaceFunc(c, iface *syntax.ClassDecl, m *syntax.FuncDecl) {
	cands := r.Overloads(c, m.Name)
	if len(cands) == 0 {
		r.errs.Forcef(c.Pos(), c.Name, "%s: %s.%s", diag.MsgMissingMember, iface.Name, m.Name)
		return
	}
	for _, d := range cands {
		fn, ok := d.(*syntax.FuncDecl)
		if ok && len(fn.Params) == len(m.Params) && typeName(fn.Result) == typeName(m.Result) {
			return
		}
	}
	r.errs.Forcef(c.Pos(), c.Name, "%s: %s.%s", diag.MsgMismatchedMember, iface.Name, m.Name)
}

// allInterfaces returns the interfaces implemented by c, its bases and
// the interfaces they extend, without duplicates.
func allInterfaces(c *syntax.ClassDecl) []*syntax.ClassDecl {
	var list []*syntax.ClassDecl
	seen := map[*syntax.ClassDecl]bool{}
	var add func(i *syntax.ClassDecl)
	add = func(i *syntax.ClassDecl) {
		if seen[i] {
			return
		}
		seen[i] = true
		list = append(list, i)
		for _, j := range i.Interfaces {
			add(j)
		}
	}
	for _, k := range types.Chain(c) {
		for _, i := range k.Interfaces {
			add(i)
		}
	}
	return list
}

func typeName(t *syntax.TypeExpr) string {
	if t == nil {
		return ""
	}
	return t.String()
}
