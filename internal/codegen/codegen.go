// Package codegen writes a validated, reachability-marked program as C
// source. Only declarations marked used are emitted.
//
// Output order:
//
//	preamble        includes, @header includes, runtime helpers
//	enums           one #define per member
//	structs         forward typedefs, then bodies ordered by base depth
//	globals         module variables and static fields
//	prototypes      every emitted function
//	RTTI            member tables and __rtti_types indexed by class id
//	functions       bodies
//	initializer     __run_init assigning globals and static fields
//	main            command line parsing and the call of the entry function
package codegen

import (
	"fmt"
	"io"
	"sort"

	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/reach"
	"github.com/you-not-fish/runc/internal/rtabi"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// generator holds the state of one Generate call.
type generator struct {
	reg *build.Registry
	u   *types.Universe
	e   *emitter

	classes []*syntax.ClassDecl // used classes, registration order
	funcs   []*syntax.FuncDecl  // used functions with bodies
	ext     map[*syntax.ClassDecl][]syntax.Decl
	methods map[*syntax.ClassDecl][]*syntax.FuncDecl
	tmpl    templates

	// Per function state.
	fn     *syntax.FuncDecl
	self   *syntax.ClassDecl // class of this, nil outside members
	defers []*syntax.Block   // enclosing blocks owning defers, innermost last

	err error // first template error
}

// Generate writes the C translation of the program registered in reg to
// w. The program must have been validated and counted.
func Generate(w io.Writer, reg *build.Registry) error {
	g := &generator{
		reg:     reg,
		u:       reg.Universe,
		e:       &emitter{w: w},
		ext:     make(map[*syntax.ClassDecl][]syntax.Decl),
		methods: reach.MethodIndex(reg),
		tmpl:    make(templates),
	}
	g.collect()

	if err := rtabi.Preamble(w, g.headers()); err != nil {
		return err
	}
	g.enums()
	g.structs()
	g.globals()
	g.prototypes()
	g.rtti()
	for _, fn := range g.funcs {
		g.function(fn)
	}
	g.initializer()
	g.main()

	if g.e.err != nil {
		return g.e.err
	}
	return g.err
}

// collect gathers the used classes and functions and the members
// extensions add to each class.
func (g *generator) collect() {
	for _, c := range g.reg.Classes {
		if c.Used() {
			g.classes = append(g.classes, c)
		}
	}
	for _, fn := range g.reg.Funcs {
		if fn.Used() && emitted(fn) {
			g.funcs = append(g.funcs, fn)
		}
	}
	for _, f := range g.reg.Files {
		for _, d := range f.Decls {
			if e, ok := d.(*syntax.ExtensionDecl); ok && e.Target != nil {
				g.ext[e.Target] = append(g.ext[e.Target], e.Members...)
			}
		}
	}
}

// emitted reports whether fn has a C body: native bindings are expanded
// at their call sites and interface members have no body.
func emitted(fn *syntax.FuncDecl) bool {
	return fn.Native == "" && !fn.Abstract && (fn.Body != nil || fn.Arrow != nil)
}

// headers returns the @header includes of used classes and functions.
func (g *generator) headers() []string {
	var list []string
	for _, c := range g.classes {
		if c.Header != "" {
			list = append(list, c.Header)
		}
	}
	for _, fn := range g.reg.Funcs {
		if h, ok := fn.Annots.Get("header"); ok && fn.Used() {
			list = append(list, h)
		}
	}
	return list
}

// structClasses returns the used classes emitted as structs, bases first.
func (g *generator) structClasses() []*syntax.ClassDecl {
	var list []*syntax.ClassDecl
	for _, c := range g.classes {
		if isStruct(c) {
			list = append(list, c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return types.BaseDepth(list[i]) < types.BaseDepth(list[j])
	})
	return list
}

// members returns the declared members of c followed by those added by
// extensions.
func (g *generator) members(c *syntax.ClassDecl) []syntax.Decl {
	if len(g.ext[c]) == 0 {
		return c.Members
	}
	list := make([]syntax.Decl, 0, len(c.Members)+len(g.ext[c]))
	list = append(list, c.Members...)
	return append(list, g.ext[c]...)
}

// fail records the first template error.
func (g *generator) fail(format string, args ...interface{}) {
	if g.err == nil {
		g.err = fmt.Errorf(format, args...)
	}
}
