// Command runc compiles Run programs to C and, through the native C
// compiler, to executables.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sanity-io/litter"
	cli "github.com/urfave/cli/v2"
	"github.com/xyproto/env/v2"

	"github.com/you-not-fish/runc/internal/compiler"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/toolchain"
)

// Version is the compiler version.
const Version = "0.1.0-dev"

// errFailed reports that diagnostics were printed.
var errFailed = errors.New("compilation failed")

// exitError carries the exit status of a program started by "run".
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	log.SetFlags(0)
	log.SetPrefix("runc: ")

	err := newApp(os.Stdout, os.Stderr).Run(os.Args)
	var exit *exitError
	switch {
	case err == nil:
	case errors.As(err, &exit):
		os.Exit(exit.code)
	default:
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write the result to `FILE`",
	}
	return &cli.App{
		Name:      "runc",
		Usage:     "compile Run programs to C",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print phase timings",
			},
			&cli.BoolFlag{
				Name:    "no-builtin",
				Usage:   "do not load the builtin prelude",
				EnvVars: []string{"RUNC_NO_BUILTIN"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "compile a program to an executable",
				ArgsUsage: "FILE.run",
				Flags: []cli.Flag{
					outputFlag,
					&cli.BoolFlag{
						Name:  "keep-c",
						Usage: "keep the generated C next to the executable",
						Value: env.Bool("RUNC_KEEP_C"),
					},
					&cli.StringFlag{
						Name:  "cc",
						Usage: "C compiler to use",
					},
					&cli.StringSliceFlag{
						Name:  "cflag",
						Usage: "extra C compiler flag (repeatable)",
					},
				},
				Action: buildCmd,
			},
			{
				Name:      "run",
				Usage:     "compile and run a program; arguments are name=value pairs",
				ArgsUsage: "FILE.run [name=value ...]",
				Action:    runCmd,
			},
			{
				Name:      "emit-tokens",
				Usage:     "print the token stream",
				ArgsUsage: "FILE.run",
				Action:    emitTokens,
			},
			{
				Name:      "emit-ast",
				Usage:     "print the syntax tree",
				ArgsUsage: "FILE.run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "text",
						Usage: "output format: text, json or go",
					},
				},
				Action: emitAST,
			},
			{
				Name:      "emit-c",
				Usage:     "print the generated C",
				ArgsUsage: "FILE.run",
				Flags:     []cli.Flag{outputFlag},
				Action:    emitC,
			},
			{
				Name:      "emit-symbols",
				Usage:     "print the registered classes and members",
				ArgsUsage: "FILE.run",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "builtins",
						Usage: "include the prelude classes",
					},
				},
				Action: emitSymbols,
			},
			{
				Name:   "doctor",
				Usage:  "check the C toolchain",
				Action: doctor,
			},
		},
	}
}

// input returns the source file argument.
func input(c *cli.Context) (string, error) {
	path := c.Args().First()
	if path == "" {
		return "", fmt.Errorf("no input file (usage: runc %s %s)", c.Command.Name, c.Command.ArgsUsage)
	}
	return path, nil
}

// load runs the front end on the input file. Diagnostics are printed to
// the error writer.
func load(c *cli.Context, opts compiler.Options) (*compiler.Program, error) {
	path, err := input(c)
	if err != nil {
		return nil, err
	}
	opts.NoBuiltin = c.Bool("no-builtin")
	p := compiler.New(opts)
	p.Parse(path)
	p.Build()
	p.Validate()
	if p.Errors.Len() > 0 {
		p.Errors.Fprint(c.App.ErrWriter)
		return nil, errFailed
	}
	return p, nil
}

// trace prints the phase timings when --verbose is set.
func trace(c *cli.Context, p *compiler.Program) {
	if !c.Bool("verbose") {
		return
	}
	for _, t := range p.Timings {
		fmt.Fprintf(c.App.ErrWriter, "%-10s %s OK %d ms\n", t.Phase, strings.Repeat(".", 5), t.Elapsed.Milliseconds())
	}
}

// outputPath returns the executable path: --output, or the input without
// its extension.
func outputPath(c *cli.Context, path string) string {
	if out := c.String("output"); out != "" {
		return out
	}
	out := strings.TrimSuffix(path, filepath.Ext(path))
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	return out
}

func buildCmd(c *cli.Context) error {
	path, err := input(c)
	if err != nil {
		return err
	}
	p, err := load(c, compiler.Options{
		Output: outputPath(c, path),
		KeepC:  c.Bool("keep-c"),
		CC:     c.String("cc"),
		CFlags: c.StringSlice("cflag"),
	})
	if err != nil {
		return err
	}
	defer trace(c, p)
	return p.Compile(c.Context)
}

func runCmd(c *cli.Context) error {
	dir, err := os.MkdirTemp("", "runc-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	p, err := load(c, compiler.Options{Output: filepath.Join(dir, "a.out")})
	if err != nil {
		return err
	}
	if err := p.Compile(c.Context); err != nil {
		return err
	}
	trace(c, p)

	cmd := exec.CommandContext(c.Context, p.Options.Output, c.Args().Tail()...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = c.App.Writer
	cmd.Stderr = c.App.ErrWriter
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &exitError{code: ee.ExitCode()}
		}
		return err
	}
	return nil
}

func emitTokens(c *cli.Context) error {
	path, err := input(c)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var errs []string
	s := syntax.NewScanner(path, f, func(line, col uint32, msg string) {
		errs = append(errs, fmt.Sprintf("%s:%d:%d: %s", path, line, col, msg))
	})
	w := c.App.Writer
	fmt.Fprintf(w, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	for {
		s.Next()
		tok := s.Token()
		fmt.Fprintf(w, "%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))
		if tok.IsEOF() {
			break
		}
	}
	if len(errs) > 0 {
		fmt.Fprintln(c.App.ErrWriter, strings.Join(errs, "\n"))
		return errFailed
	}
	return nil
}

// formatLiteral escapes control characters for display.
func formatLiteral(lit string) string {
	r := strings.NewReplacer("\n", `\n`, "\t", `\t`, "\r", `\r`)
	return r.Replace(lit)
}

func emitAST(c *cli.Context) error {
	path, err := input(c)
	if err != nil {
		return err
	}
	p := compiler.New(compiler.Options{NoBuiltin: true})
	p.Parse(path)
	if p.Errors.Len() > 0 {
		p.Errors.Fprint(c.App.ErrWriter)
		return errFailed
	}
	w := c.App.Writer
	switch format := c.String("format"); format {
	case "text":
		syntax.Fprint(w, p.Root)
	case "json":
		return syntax.FprintJSON(w, p.Root)
	case "go":
		opts := litter.Options{HidePrivateFields: true, HideZeroValues: true}
		fmt.Fprintln(w, opts.Sdump(p.Root))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func emitC(c *cli.Context) error {
	p, err := load(c, compiler.Options{})
	if err != nil {
		return err
	}
	defer trace(c, p)
	if out := c.String("output"); out != "" {
		return p.WriteC(out)
	}
	return p.Transpile(c.App.Writer)
}

func emitSymbols(c *cli.Context) error {
	p, err := load(c, compiler.Options{})
	if err != nil {
		return err
	}
	p.Registry.Dump(c.App.Writer, c.Bool("builtins"))
	return nil
}

func doctor(c *cli.Context) error {
	w := c.App.Writer
	fmt.Fprintln(w, "runc toolchain doctor")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "runc:    %s\n", Version)
	fmt.Fprintf(w, "Go:      %s\n", runtime.Version())

	cc, err := toolchain.Find()
	if err != nil {
		fmt.Fprintf(w, "C:       ✗ (%v)\n", err)
		return err
	}
	version, err := toolchain.Version(c.Context, cc)
	if err != nil {
		fmt.Fprintf(w, "C:       %s ✗ (%v)\n", cc, err)
		return err
	}
	fmt.Fprintf(w, "C:       %s (%s) ✓\n", cc, version)
	if flags := toolchain.Flags(); len(flags) > 0 {
		fmt.Fprintf(w, "CFLAGS:  %s\n", strings.Join(flags, " "))
	}
	return nil
}
