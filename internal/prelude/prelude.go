// Package prelude provides the builtin module loaded before every program.
package prelude

import (
	_ "embed"
)

// Name is the module name that resolves to the prelude in using
// declarations.
const Name = "builtin"

// Path is the file name reported in diagnostics for prelude declarations.
const Path = "builtin.run"

//go:embed builtin.run
var source string

// Source returns the prelude source text.
func Source() string {
	return source
}
