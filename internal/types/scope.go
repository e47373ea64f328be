package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/runc/internal/syntax"
)

// Scope maps names to declarations. A name may be bound to several
// declarations (function overloads); they are kept in declaration order.
// Scopes chain to a parent: module scopes to nothing, class member scopes
// to the member scope of the base class.
type Scope struct {
	parent  *Scope
	elems   map[string][]syntax.Decl
	comment string // debugging comment (e.g., "module main.run", "class A")
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:  parent,
		elems:   make(map[string][]syntax.Decl),
		comment: comment,
	}
}

// Parent returns the parent scope, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// SetParent links s below parent. Used once the base class of a class is
// resolved.
func (s *Scope) SetParent(parent *Scope) {
	s.parent = parent
}

// Comment returns the scope's comment (for debugging).
func (s *Scope) Comment() string {
	return s.comment
}

// Lookup returns the first declaration bound to name in this scope.
// Returns nil if not found in this scope (does not search parent scopes).
func (s *Scope) Lookup(name string) syntax.Decl {
	if list := s.elems[name]; len(list) > 0 {
		return list[0]
	}
	return nil
}

// LookupAll returns every declaration bound to name in this scope, in
// declaration order.
func (s *Scope) LookupAll(name string) []syntax.Decl {
	return s.elems[name]
}

// LookupParent returns the first declaration bound to name by searching
// from the current scope up through all parent scopes.
// Returns the declaration and the scope in which it was found.
// Returns (nil, nil) if not found.
func (s *Scope) LookupParent(name string) (syntax.Decl, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if d := scope.Lookup(name); d != nil {
			return d, scope
		}
	}
	return nil, nil
}

// Insert binds d under its declared name.
// If a declaration with the same name already exists, returns the existing
// declaration and leaves the scope unchanged. Otherwise, returns nil.
func (s *Scope) Insert(d syntax.Decl) syntax.Decl {
	name := d.DeclName()
	if existing := s.Lookup(name); existing != nil {
		return existing
	}
	s.elems[name] = []syntax.Decl{d}
	return nil
}

// Overload appends d to the declarations bound to its name.
func (s *Scope) Overload(d syntax.Decl) {
	name := d.DeclName()
	s.elems[name] = append(s.elems[name], d)
}

// Names returns the names bound in the scope, sorted alphabetically.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of names bound in the scope.
func (s *Scope) Len() int {
	return len(s.elems)
}

// String returns a string representation of the scope for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scope %s {\n", s.comment)
	for _, name := range s.Names() {
		for _, d := range s.elems[name] {
			fmt.Fprintf(&buf, "  %s: %s %s\n", name, syntax.NodeKind(d), d.RealName())
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}
