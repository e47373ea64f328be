// Package toolchain finds and runs the native C compiler that turns the
// generated C into an executable.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
)

// Environment variables consulted by Find and Flags.
const (
	EnvCC     = "RUNC_CC"
	EnvCFlags = "RUNC_CFLAGS"
)

// Candidates are the compiler names searched on PATH when neither RUNC_CC
// nor CC is set.
var Candidates = []string{"cc", "gcc", "clang"}

// DefaultFlags precede the flags of every invocation. The generated code
// uses statement expressions and alloca.
var DefaultFlags = []string{"-std=gnu11", "-O2"}

// ErrNotFound is returned by Find when no usable C compiler exists.
var ErrNotFound = errors.New("no C compiler found (set RUNC_CC or CC)")

// Config describes one compiler invocation.
type Config struct {
	CC        string   // compiler, Find() when empty
	Source    string   // C file
	Output    string   // executable
	Flags     []string // extra flags, after DefaultFlags and RUNC_CFLAGS
	Libraries []string // link names, passed as -lname
	Stdout    io.Writer
	Stderr    io.Writer // compiler diagnostics, collected into the error when nil
}

// Find returns the path of the C compiler: RUNC_CC, then CC, then the
// first of Candidates found on PATH. The result must be executable.
func Find() (string, error) {
	var names []string
	for _, name := range []string{env.Str(EnvCC), env.Str("CC")} {
		if name != "" {
			names = append(names, name)
		}
	}
	names = append(names, Candidates...)
	for _, name := range names {
		if path, ok := resolve(name); ok {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// resolve returns the executable named by name, which is either a path
// or a command looked up on PATH.
func resolve(name string) (string, bool) {
	path := name
	if !strings.ContainsRune(name, filepath.Separator) {
		p, err := exec.LookPath(name)
		if err != nil {
			return "", false
		}
		path = p
	}
	if !executable(path) {
		return "", false
	}
	return path, true
}

// Flags returns the flags from RUNC_CFLAGS, split at white space.
func Flags() []string {
	return strings.Fields(env.Str(EnvCFlags))
}

// Args returns the command line arguments for cfg, without the compiler.
func Args(cfg Config) []string {
	args := append([]string{}, DefaultFlags...)
	args = append(args, Flags()...)
	args = append(args, cfg.Flags...)
	args = append(args, cfg.Source, "-o", cfg.Output)
	for _, l := range cfg.Libraries {
		args = append(args, "-l"+l)
	}
	return append(args, "-lm")
}

// Compile runs the C compiler described by cfg. A failing compiler is
// reported with its exit status and, unless cfg.Stderr is set, its
// diagnostics. Cancelling ctx kills the compiler.
func Compile(ctx context.Context, cfg Config) error {
	cc := cfg.CC
	if cc == "" {
		var err error
		if cc, err = Find(); err != nil {
			return err
		}
	}
	cmd := exec.CommandContext(ctx, cc, Args(cfg)...)
	cmd.Stdout = cfg.Stdout
	var diag bytes.Buffer
	if cfg.Stderr != nil {
		cmd.Stderr = cfg.Stderr
	} else {
		cmd.Stderr = &diag
	}
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(diag.String()); msg != "" {
			return fmt.Errorf("%s: %w\n%s", filepath.Base(cc), err, msg)
		}
		return fmt.Errorf("%s: %w", filepath.Base(cc), err)
	}
	return nil
}

// Version returns the first line cc prints for --version.
func Version(ctx context.Context, cc string) (string, error) {
	out, err := exec.CommandContext(ctx, cc, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", cc, err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
