package build

import (
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/you-not-fish/runc/internal/syntax"
)

// ClassInfo summarizes one registered class for debug dumps.
type ClassInfo struct {
	ID         int
	Name       string
	Kind       string
	Real       string
	Base       string
	Interfaces []string
	Members    []string // "name real" per registered member
}

// Summary returns one ClassInfo per registered class in identity order,
// skipping the prelude unless builtins is set.
func (r *Registry) Summary(builtins bool) []ClassInfo {
	var list []ClassInfo
	for _, c := range r.Classes {
		if !builtins && c.Module != nil && c.Module.Builtin {
			continue
		}
		info := ClassInfo{ID: c.ID, Name: c.Name, Kind: c.Kind.String(), Real: c.Real}
		if c.Base != nil {
			info.Base = c.Base.Name
		}
		for _, i := range c.Interfaces {
			info.Interfaces = append(info.Interfaces, i.Name)
		}
		scope := r.Members(c)
		for _, name := range scope.Names() {
			for _, d := range scope.LookupAll(name) {
				info.Members = append(info.Members, name+" "+realOf(d))
			}
		}
		list = append(list, info)
	}
	return list
}

func realOf(d syntax.Decl) string {
	if ix, ok := d.(*syntax.IndexerDecl); ok {
		if ix.Getter != nil {
			return ix.Getter.Real
		}
		if ix.Setter != nil {
			return ix.Setter.Real
		}
	}
	return d.RealName()
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump writes the class summary to w.
func (r *Registry) Dump(w io.Writer, builtins bool) {
	dumper.Fdump(w, r.Summary(builtins))
}
