package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/runc/internal/toolchain"
)

func writeTempRunFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.run")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := newApp(&out, &errOut).Run(append([]string{"runc"}, args...))
	return out.String(), errOut.String(), err
}

const hello = `
class Greeter {
	name:string
	this(.name) {}
	func greet() {
		print(name)
	}
}
main {
	var g = new Greeter("world")
	g.greet()
}
`

func TestEmitC(t *testing.T) {
	out, errOut, err := runApp(t, "emit-c", writeTempRunFile(t, hello))
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "#include <stdio.h>")
	assert.Contains(t, out, "struct _Greeter {")
	assert.Contains(t, out, "void Greeter_greet(_Greeter* this)")
	assert.Contains(t, out, "int main(int argc, char** argv) {")
}

func TestEmitCToFile(t *testing.T) {
	src := writeTempRunFile(t, hello)
	dst := filepath.Join(filepath.Dir(src), "out.c")
	_, errOut, err := runApp(t, "--verbose", "emit-c", "-o", dst, src)
	require.NoError(t, err, errOut)
	assert.FileExists(t, dst)
	assert.Contains(t, errOut, "transpile")
}

func TestEmitTokens(t *testing.T) {
	out, _, err := runApp(t, "emit-tokens", writeTempRunFile(t, "main {\n\tprint(1)\n}\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "POSITION"))
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "EOF")
}

func TestEmitAST(t *testing.T) {
	path := writeTempRunFile(t, hello)

	out, _, err := runApp(t, "emit-ast", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Greeter")

	out, _, err = runApp(t, "emit-ast", "--format", "json", path)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)

	out, _, err = runApp(t, "emit-ast", "--format", "go", path)
	require.NoError(t, err)
	assert.Contains(t, out, "syntax.File{")

	_, _, err = runApp(t, "emit-ast", "--format", "xml", path)
	assert.Error(t, err)
}

func TestEmitSymbols(t *testing.T) {
	out, errOut, err := runApp(t, "emit-symbols", writeTempRunFile(t, hello))
	require.NoError(t, err, errOut)
	assert.Contains(t, out, "Greeter")
	assert.Contains(t, out, "Greeter_greet")
}

func TestDiagnostics(t *testing.T) {
	_, errOut, err := runApp(t, "emit-c", writeTempRunFile(t, "main {\n\tx = 1\n}\n"))
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, errOut, "Unknown name")
}

func TestNoInput(t *testing.T) {
	_, _, err := runApp(t, "emit-c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input file")
}

func TestRun(t *testing.T) {
	if _, err := toolchain.Find(); err != nil {
		t.Skip("no C compiler")
	}
	out, errOut, err := runApp(t, "run", writeTempRunFile(t, hello))
	require.NoError(t, err, errOut)
	assert.Equal(t, "world\n", out)

	_, _, err = runApp(t, "run", writeTempRunFile(t, "main {\n\texit(3)\n}\n"))
	var exit *exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 3, exit.code)
}

func TestBuild(t *testing.T) {
	if _, err := toolchain.Find(); err != nil {
		t.Skip("no C compiler")
	}
	src := writeTempRunFile(t, hello)
	bin := filepath.Join(filepath.Dir(src), "greeter")
	_, errOut, err := runApp(t, "build", "--keep-c", "-o", bin, src)
	require.NoError(t, err, errOut)
	assert.FileExists(t, bin)
	assert.FileExists(t, bin+".c")
}
