package compiler

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/toolchain"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func run(p *Program, path string) {
	p.Parse(path)
	p.Build()
	p.Validate()
}

func TestPipeline(t *testing.T) {
	dir := t.TempDir()
	root := writeModule(t, dir, "main.run", `
main {
	print("hello")
}
`)
	p := New(Options{})
	run(p, root)
	require.Zero(t, p.Errors.Len(), "%v", p.Errors.Messages())
	assert.Positive(t, p.Counted)

	var buf bytes.Buffer
	require.NoError(t, p.Transpile(&buf))
	assert.Contains(t, buf.String(), "int main(int argc, char** argv) {")
	assert.Contains(t, buf.String(), `(puts("hello"))`)

	var phases []string
	for _, tm := range p.Timings {
		phases = append(phases, tm.Phase)
	}
	assert.Equal(t, []string{"parse", "build", "validate", "transpile"}, phases)
}

func TestUsingModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "lib/math.run", `
library "m"
func twice(x:int):int => x * 2
`)
	root := writeModule(t, dir, "main.run", `
using "lib/math"
using builtin
main {
	print(twice(21))
}
`)
	p := New(Options{})
	run(p, root)
	require.Zero(t, p.Errors.Len(), "%v", p.Errors.Messages())
	require.Len(t, p.Files, 2)
	assert.Equal(t, []string{"m"}, p.Libraries())
	assert.NotNil(t, p.Root.Usings[0].Module)
	assert.True(t, p.Root.Usings[1].Module.Builtin)
}

func TestUsingMissing(t *testing.T) {
	dir := t.TempDir()
	root := writeModule(t, dir, "main.run", `
using "nothere"
main {}
`)
	p := New(Options{})
	run(p, root)
	require.Equal(t, 1, p.Errors.Len())
	assert.Equal(t, "Path not founded: 'nothere.run'", p.Errors.Messages()[0])
	assert.Nil(t, p.Registry, "build is skipped after errors")
}

func TestMissingRoot(t *testing.T) {
	p := New(Options{})
	run(p, filepath.Join(t.TempDir(), "none.run"))
	require.Equal(t, 1, p.Errors.Len())
	assert.Error(t, p.Transpile(&bytes.Buffer{}))
}

func TestNoEntry(t *testing.T) {
	p := New(Options{})
	p.ParseSource("lib.run", "func f():int => 1\n")
	p.Build()
	p.Validate()
	require.Equal(t, 1, p.Errors.Len())
	assert.Equal(t, diag.MsgNoEntry, p.Errors.Messages()[0])
}

func TestPhasesStopAtErrors(t *testing.T) {
	p := New(Options{})
	p.ParseSource("bad.run", "main {\n\tvar x = \n}\n")
	require.Positive(t, p.Errors.Len())
	n := p.Errors.Len()
	p.Build()
	p.Validate()
	assert.Nil(t, p.Registry)
	assert.Equal(t, n, p.Errors.Len())
	assert.Error(t, p.Compile(context.Background()))
}

func TestCompileAndRun(t *testing.T) {
	if _, err := toolchain.Find(); err != nil {
		t.Skip("no C compiler")
	}
	dir := t.TempDir()
	root := writeModule(t, dir, "main.run", `
main {
	print(40 + 2)
}
`)
	bin := filepath.Join(dir, "main")
	p := New(Options{Output: bin, KeepC: true})
	run(p, root)
	require.NoError(t, p.Compile(context.Background()))
	assert.FileExists(t, bin+".c")

	out, err := exec.Command(bin).Output()
	require.NoError(t, err)
	assert.Equal(t, "42\n", string(out))
}
