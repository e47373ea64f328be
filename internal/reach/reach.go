// Package reach marks the declarations a program uses. Marking starts at
// the entry function and at the initializers of module-level variables of
// user modules, and follows calls, constructions, referenced variables and
// the classes they involve. The code generator emits marked declarations
// only.
package reach

import (
	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// Count marks everything reachable in reg and returns the number of
// declarations marked for the first time. Counting again marks nothing
// new.
func Count(reg *build.Registry) int {
	m := &marker{reg: reg, methods: MethodIndex(reg)}
	if reg.Root != nil && reg.Root.Main != nil {
		m.mark(reg.Root.Main)
	}
	for _, v := range reg.Globals {
		if f := syntax.EnclosingFile(v); f != nil && !f.Builtin {
			m.mark(v)
		}
	}
	m.drain()
	return m.n
}

type marker struct {
	reg     *build.Registry
	methods map[*syntax.ClassDecl][]*syntax.FuncDecl
	work    []syntax.Decl
	n       int
}

// MethodIndex groups the member functions of every class by owner, the
// index Lookup expects.
func MethodIndex(reg *build.Registry) map[*syntax.ClassDecl][]*syntax.FuncDecl {
	idx := make(map[*syntax.ClassDecl][]*syntax.FuncDecl)
	for _, fn := range reg.Funcs {
		if fn.Owner != nil {
			idx[fn.Owner] = append(idx[fn.Owner], fn)
		}
	}
	return idx
}

// mark queues d the first time it is seen.
func (m *marker) mark(d syntax.Decl) {
	if d == nil || d.Used() {
		return
	}
	d.MarkUsed()
	m.n++
	m.work = append(m.work, d)
}

func (m *marker) markClass(c *syntax.ClassDecl) {
	if c != nil {
		m.mark(c)
	}
}

func (m *marker) markFunc(fn *syntax.FuncDecl) {
	if fn != nil {
		m.mark(fn)
	}
}

func (m *marker) drain() {
	for len(m.work) > 0 {
		d := m.work[len(m.work)-1]
		m.work = m.work[:len(m.work)-1]
		m.visit(d)
	}
}

func (m *marker) visit(d syntax.Decl) {
	switch d := d.(type) {
	case *syntax.ClassDecl:
		m.markClass(d.Base)
		m.markClass(d.Elem)
		for _, i := range d.Interfaces {
			m.markClass(i)
		}
		m.markFunc(d.Dispose)
		for _, member := range d.Members {
			switch member := member.(type) {
			case *syntax.VarDecl:
				m.mark(member)
			case *syntax.PropertyDecl:
				if member.Simple {
					m.mark(member)
				}
			}
		}

	case *syntax.FuncDecl:
		m.markClass(d.Owner)
		for _, p := range d.Params {
			if p.Type != nil {
				m.markClass(p.Type.Type())
			}
		}
		if d.Result != nil {
			m.markClass(d.Result.Type())
		}
		m.markFunc(d.InitFunc)
		for _, a := range d.InitArgs {
			m.scan(a)
		}
		if d.Body != nil {
			m.scan(d.Body)
		}
		if d.Arrow != nil {
			m.scan(d.Arrow)
		}

	case *syntax.VarDecl:
		m.markClass(d.Class)
		m.markClass(d.Owner)
		if d.Init != nil {
			m.scan(d.Init)
		}

	case *syntax.PropertyDecl:
		if d.Type != nil {
			m.markClass(d.Type.Type())
		}
		m.markClass(d.Owner)
		if d.Init != nil {
			m.scan(d.Init)
		}

	case *syntax.EnumMember:
		m.markClass(d.Owner)
	}
}

// scan marks the declarations referenced below n.
func (m *marker) scan(n syntax.Node) {
	syntax.Inspect(n, func(n syntax.Node) bool {
		if x, ok := n.(syntax.Expr); ok {
			m.markClass(x.Type())
		}
		switch n := n.(type) {
		case *syntax.Name:
			switch d := n.From.(type) {
			case *syntax.VarDecl, *syntax.EnumMember, *syntax.PropertyDecl:
				m.mark(d)
			}
		case *syntax.DeclStmt:
			for _, v := range n.Vars {
				m.markClass(v.Class)
			}
		case *syntax.ForStmt:
			if n.Var != nil {
				m.markClass(n.Var.Class)
			}
		case *syntax.CallExpr:
			m.call(n.Func)
		case *syntax.NewExpr:
			m.markFunc(n.Func)
		}
		return true
	})
}

// call marks fn; a call through an interface marks the implementation
// of every class implementing it.
func (m *marker) call(fn *syntax.FuncDecl) {
	if fn == nil {
		return
	}
	m.markFunc(fn)
	iface := fn.Owner
	if iface == nil || !iface.IsInterface() {
		return
	}
	key := build.MethodKey(fn)
	for _, c := range m.reg.Classes {
		if c.Kind != syntax.KindClass || !types.IsSubclass(c, iface) {
			continue
		}
		if impl := Lookup(m.methods, c, key); impl != nil {
			m.markFunc(impl)
		}
	}
}

// Lookup returns the function with the given method key that class c
// provides, searching its base chain nearest first. idx groups functions
// by owner, see MethodIndex.
func Lookup(idx map[*syntax.ClassDecl][]*syntax.FuncDecl, c *syntax.ClassDecl, key string) *syntax.FuncDecl {
	for _, k := range types.Chain(c) {
		for _, fn := range idx[k] {
			if !fn.Abstract && fn.Kind != syntax.FuncCtor && build.MethodKey(fn) == key {
				return fn
			}
		}
	}
	return nil
}
