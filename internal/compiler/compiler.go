// Package compiler sequences the phases of one compilation: loading the
// modules, registering their symbols, validating and counting them,
// writing C and handing it to the native toolchain.
//
// Every phase returns immediately when an earlier one reported errors, so
// callers may run them in a row and inspect Errors once at the end.
package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/you-not-fish/runc/internal/build"
	"github.com/you-not-fish/runc/internal/check"
	"github.com/you-not-fish/runc/internal/codegen"
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/prelude"
	"github.com/you-not-fish/runc/internal/reach"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/toolchain"
)

// Ext is the source file extension added to using paths that lack it.
const Ext = ".run"

// Options configures a compilation.
type Options struct {
	NoBuiltin bool     // do not load the prelude implicitly
	Output    string   // executable written by Compile
	KeepC     bool     // keep the C file next to the executable
	CC        string   // C compiler, found by toolchain.Find when empty
	CFlags    []string // extra C compiler flags
}

// Timing is the duration of one phase.
type Timing struct {
	Phase   string
	Elapsed time.Duration
}

// Program is the state of one compilation.
type Program struct {
	Options  Options
	Root     *syntax.File
	Files    []*syntax.File // user modules in load order
	Registry *build.Registry
	Errors   *diag.List
	Timings  []Timing
	Counted  int // declarations marked used by Validate

	sources diag.Sources
	modules map[string]*syntax.File
	defers  syntax.Counter
	builtin *syntax.File
}

// New returns an empty program.
func New(opts Options) *Program {
	src := make(diag.Sources)
	return &Program{
		Options: opts,
		Errors:  diag.NewList(src),
		sources: src,
		modules: make(map[string]*syntax.File),
	}
}

// Err returns the first reported error, or nil.
func (p *Program) Err() error {
	return p.Errors.Err()
}

func (p *Program) track(phase string) func() {
	start := time.Now()
	return func() {
		p.Timings = append(p.Timings, Timing{Phase: phase, Elapsed: time.Since(start)})
	}
}

// Parse loads the root module at path and every module it uses.
func (p *Program) Parse(path string) {
	text, err := os.ReadFile(path)
	if err != nil {
		p.Errors.Forcef(syntax.NewPos(path, 0, 0), path, diag.MsgPathNotFound, path)
		return
	}
	p.ParseSource(path, string(text))
}

// ParseSource loads the root module from src, reporting positions in
// path. Using declarations resolve relative to the directory of path.
func (p *Program) ParseSource(path, src string) {
	if p.Errors.Len() > 0 {
		return
	}
	defer p.track("parse")()

	if !p.Options.NoBuiltin {
		p.prelude()
	}
	p.Root = p.load(path, src)
}

// prelude returns the prelude module, parsing it on first use.
func (p *Program) prelude() *syntax.File {
	if p.builtin == nil {
		p.builtin = p.parse(prelude.Path, prelude.Source())
		p.builtin.Builtin = true
	}
	return p.builtin
}

// load parses src as the module at path and resolves its using
// declarations, loading each module once.
func (p *Program) load(path, src string) *syntax.File {
	key := filepath.Clean(path)
	if f, ok := p.modules[key]; ok {
		return f
	}
	f := p.parse(path, src)
	p.modules[key] = f
	p.Files = append(p.Files, f)

	dir := filepath.Dir(path)
	for _, u := range f.Usings {
		if u.Path == prelude.Name {
			u.Module = p.prelude()
			continue
		}
		u.Module = p.use(u, dir)
	}
	return f
}

// use loads the module named by u, relative to dir.
func (p *Program) use(u *syntax.UsingDecl, dir string) *syntax.File {
	rel := u.Path
	if !strings.HasSuffix(rel, Ext) {
		rel += Ext
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, rel)
	}
	if f, ok := p.modules[filepath.Clean(path)]; ok {
		return f
	}
	text, err := os.ReadFile(path)
	if err != nil {
		p.Errors.Forcef(u.Pos(), u.Path, diag.MsgPathNotFound, rel)
		return nil
	}
	return p.load(path, string(text))
}

func (p *Program) parse(path, src string) *syntax.File {
	p.sources.Add(path, src)
	parser := syntax.NewParser(path, strings.NewReader(src), p.Errors.SyntaxHandler())
	parser.SetDeferCounter(&p.defers)
	f := parser.Parse()
	if f.Path == "" {
		f.Path = path
	}
	return f
}

// files returns the loaded modules, prelude first.
func (p *Program) files() []*syntax.File {
	if p.builtin == nil {
		return p.Files
	}
	list := make([]*syntax.File, 0, len(p.Files)+1)
	list = append(list, p.builtin)
	return append(list, p.Files...)
}

// Build registers the symbols of the loaded modules.
func (p *Program) Build() {
	if p.Errors.Len() > 0 || p.Root == nil {
		return
	}
	defer p.track("build")()

	p.Registry = build.New(p.Errors)
	p.Registry.Build(p.Root, p.files())
}

// Validate type checks the program and marks the declarations reachable
// from the entry function.
func (p *Program) Validate() {
	if p.Errors.Len() > 0 || p.Registry == nil {
		return
	}
	defer p.track("validate")()

	check.New(p.Registry, p.Errors).Check()
	if p.Errors.Len() > 0 {
		return
	}
	if p.Root.Main == nil {
		p.Errors.Forcef(syntax.NewPos(p.Root.Path, 1, 1), "", diag.MsgNoEntry)
		return
	}
	p.Counted = reach.Count(p.Registry)
}

// Transpile writes the C translation of the validated program to w.
func (p *Program) Transpile(w io.Writer) error {
	if err := p.Err(); err != nil {
		return err
	}
	if p.Registry == nil {
		return fmt.Errorf("transpile: program not validated")
	}
	defer p.track("transpile")()
	return codegen.Generate(w, p.Registry)
}

// Libraries returns the link names declared by the loaded modules, in
// load order without repetitions.
func (p *Program) Libraries() []string {
	var list []string
	seen := make(map[string]bool)
	for _, f := range p.files() {
		for _, l := range f.Libraries {
			if !seen[l] {
				seen[l] = true
				list = append(list, l)
			}
		}
	}
	return list
}

// Compile transpiles the program and builds Options.Output with the
// native C compiler.
func (p *Program) Compile(ctx context.Context) error {
	if err := p.Err(); err != nil {
		return err
	}
	if p.Options.Output == "" {
		return fmt.Errorf("compile: no output path")
	}

	var cfile string
	if p.Options.KeepC {
		cfile = p.Options.Output + ".c"
	} else {
		tmp, err := os.CreateTemp("", "runc-*.c")
		if err != nil {
			return fmt.Errorf("compile: %w", err)
		}
		cfile = tmp.Name()
		tmp.Close()
		defer os.Remove(cfile)
	}
	if err := p.WriteC(cfile); err != nil {
		return err
	}

	defer p.track("cc")()
	return toolchain.Compile(ctx, toolchain.Config{
		CC:        p.Options.CC,
		Source:    cfile,
		Output:    p.Options.Output,
		Flags:     p.Options.CFlags,
		Libraries: p.Libraries(),
	})
}

// WriteC transpiles the program into the file at path.
func (p *Program) WriteC(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write C: %w", err)
	}
	if err := p.Transpile(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
