package e2e

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/runc/internal/compiler"
	"github.com/you-not-fish/runc/internal/toolchain"
)

// TestE2E compiles every .run file in testdata/ to a native executable,
// runs it and compares its standard output with the matching .golden file.
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*" + compiler.Ext)
	require.NoError(t, err)
	require.NotEmpty(t, testFiles, "no test programs found in testdata/")

	if _, err := toolchain.Find(); err != nil {
		t.Skipf("skipping end-to-end tests: %v", err)
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), compiler.Ext)
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

func runE2ETest(t *testing.T, runFile string) {
	t.Helper()

	want, err := os.ReadFile(strings.TrimSuffix(runFile, compiler.Ext) + ".golden")
	require.NoError(t, err, "reading golden file")

	bin := filepath.Join(t.TempDir(), "output")
	p := compiler.New(compiler.Options{Output: bin})
	p.Parse(runFile)
	p.Build()
	p.Validate()
	require.NoError(t, p.Err(), "diagnostics:\n%s", strings.Join(p.Errors.Messages(), "\n"))
	require.NoError(t, p.Compile(context.Background()))

	out, err := exec.Command(bin).Output()
	require.NoError(t, err, "running %s", bin)
	assert.Equal(t, string(want), string(out))
}
