// Package build implements the symbol registry: it registers every class,
// enum, interface and function of the loaded modules, assigns class
// identities and emitted names, wires base classes and checks the shape of
// interface implementations.
package build

import (
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// Registry owns the symbol tables of one compilation. It is filled by
// Build and only read afterwards, except for array classes which are
// synthesized on demand.
type Registry struct {
	Universe *types.Universe

	// Registration order, used by the code generator.
	Classes []*syntax.ClassDecl
	Funcs   []*syntax.FuncDecl
	Globals []*syntax.VarDecl // module-level variables
	Statics []*syntax.VarDecl // static fields

	Files []*syntax.File
	Root  *syntax.File // module holding the entry function

	classes  *types.Scope
	modules  map[*syntax.File]*types.Scope
	members  map[*syntax.ClassDecl]*types.Scope
	implicit map[*syntax.ClassDecl]map[string]*syntax.FuncDecl
	arrays   map[string]*syntax.ClassDecl
	reals    map[string]syntax.Decl
	builtin  *syntax.File

	errs   *diag.List
	nextID int
}

// New returns an empty registry reporting to errs.
func New(errs *diag.List) *Registry {
	return &Registry{
		Universe: types.NewUniverse(),
		classes:  types.NewScope(nil, "classes"),
		modules:  make(map[*syntax.File]*types.Scope),
		members:  make(map[*syntax.ClassDecl]*types.Scope),
		implicit: make(map[*syntax.ClassDecl]map[string]*syntax.FuncDecl),
		arrays:   make(map[string]*syntax.ClassDecl),
		reals:    make(map[string]syntax.Decl),
		errs:     errs,
	}
}

// Build registers the declarations of files. The prelude, when loaded, is
// the file flagged Builtin; root is the module holding the entry function.
// Each step is skipped once errors exist.
func (r *Registry) Build(root *syntax.File, files []*syntax.File) {
	r.Root = root
	r.Files = files
	for _, f := range files {
		r.modules[f] = types.NewScope(nil, "module "+f.Path)
		if f.Builtin {
			r.builtin = f
		}
	}

	steps := []func(){
		r.registerClasses,
		r.cachePrimitives,
		r.defaultCtors,
		r.resolveBases,
		r.registerMembers,
		r.registerModules,
		r.checkInterfaces,
	}
	for _, step := range steps {
		if r.errs.Len() > 0 {
			return
		}
		step()
	}
}

func (r *Registry) errorf(n syntax.Node, tok, format string, args ...interface{}) {
	r.errs.Errorf(n.Pos(), tok, format, args...)
}

// ----------------------------------------------------------------------------
// Lookups

// Class returns the class called name, or nil.
func (r *Registry) Class(name string) *syntax.ClassDecl {
	if c := r.Universe.Lookup(name); c != nil && (c.Any || c.Null) {
		return c
	}
	if c, ok := r.classes.Lookup(name).(*syntax.ClassDecl); ok {
		return c
	}
	return nil
}

// Resolve returns the class a written type denotes and records it on t.
// It returns nil when the name is unknown; the caller reports the error.
func (r *Registry) Resolve(t *syntax.TypeExpr) *syntax.ClassDecl {
	if t == nil {
		return nil
	}
	if c := t.Type(); c != nil {
		return c
	}
	c := r.Class(t.Name)
	if c == nil {
		return nil
	}
	if t.Array {
		c = r.ArrayOf(c)
	}
	t.SetType(c)
	return c
}

// Members returns the member scope of c. Its parent chain follows the
// base classes.
func (r *Registry) Members(c *syntax.ClassDecl) *types.Scope {
	s := r.members[c]
	if s == nil {
		s = types.NewScope(nil, "class "+c.Name)
		r.members[c] = s
	}
	return s
}

// Module returns the scope of module-level functions and variables of f.
func (r *Registry) Module(f *syntax.File) *types.Scope {
	return r.modules[f]
}

// Builtin returns the prelude module, or nil when it was not loaded.
func (r *Registry) Builtin() *syntax.File {
	return r.builtin
}

// LookupGlobal returns the module-level declarations called name visible
// from f: its own, then those of the modules it uses, then the prelude.
func (r *Registry) LookupGlobal(f *syntax.File, name string) []syntax.Decl {
	if s := r.modules[f]; s != nil {
		if list := s.LookupAll(name); len(list) > 0 {
			return list
		}
	}
	if f != nil {
		for _, u := range f.Usings {
			if u.Module == nil {
				continue
			}
			if list := r.modules[u.Module].LookupAll(name); len(list) > 0 {
				return list
			}
		}
	}
	if r.builtin != nil && r.builtin != f {
		return r.modules[r.builtin].LookupAll(name)
	}
	return nil
}

// LookupUsing returns the using declaration of f whose nick (or the used
// module's namespace) is name.
func (r *Registry) LookupUsing(f *syntax.File, name string) *syntax.UsingDecl {
	if f == nil {
		return nil
	}
	for _, u := range f.Usings {
		if u.Nick == name || (u.Nick == "" && u.Module != nil && u.Module.Namespace == name) {
			return u
		}
	}
	return nil
}

// LookupMember returns the first member called name of c or its bases.
func (r *Registry) LookupMember(c *syntax.ClassDecl, name string) syntax.Decl {
	d, _ := r.Members(c).LookupParent(name)
	return d
}

// Overloads returns every member called name of c and its bases, nearest
// class first, each class in declaration order.
func (r *Registry) Overloads(c *syntax.ClassDecl, name string) []syntax.Decl {
	var list []syntax.Decl
	for s := r.Members(c); s != nil; s = s.Parent() {
		list = append(list, s.LookupAll(name)...)
	}
	return list
}

// Ctors returns the constructors declared by c itself.
func (r *Registry) Ctors(c *syntax.ClassDecl) []*syntax.FuncDecl {
	var list []*syntax.FuncDecl
	for _, d := range r.Members(c).LookupAll("this") {
		if fn, ok := d.(*syntax.FuncDecl); ok {
			list = append(list, fn)
		}
	}
	return list
}

// Indexers returns the indexers of c and its bases.
func (r *Registry) Indexers(c *syntax.ClassDecl) []*syntax.IndexerDecl {
	var list []*syntax.IndexerDecl
	for _, d := range r.Overloads(c, "[]") {
		if ix, ok := d.(*syntax.IndexerDecl); ok {
			list = append(list, ix)
		}
	}
	return list
}

// Implicit returns the @implicit constructor of target taking a value of
// class from, or nil.
func (r *Registry) Implicit(target, from *syntax.ClassDecl) *syntax.FuncDecl {
	if target == nil || from == nil {
		return nil
	}
	return r.implicit[target][from.Name]
}

// ArrayOf returns the array class with element class elem, creating it on
// first use. Array classes derive from the prelude's array class.
func (r *Registry) ArrayOf(elem *syntax.ClassDecl) *syntax.ClassDecl {
	name := elem.Name + "[]"
	if c := r.arrays[name]; c != nil {
		return c
	}
	c := &syntax.ClassDecl{
		Name:       name,
		Elem:       elem,
		NativeName: "__array*",
		Native:     true,
		Synthetic:  true,
		Base:       r.Universe.Array,
		Module:     elem.Module,
	}
	c.SetPos(elem.Pos())
	c.SetReal("__array")
	c.ID = r.nextID
	r.nextID++
	r.arrays[name] = c
	if c.Base != nil {
		r.Members(c).SetParent(r.Members(c.Base))
	}
	return c
}

// NumClasses returns the number of class identities handed out.
func (r *Registry) NumClasses() int {
	return r.nextID
}
