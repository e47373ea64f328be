package codegen

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// A native template is the C text of an @native binding. $name stands
// for the argument passed to the parameter called name and $this for the
// receiver; everything else is copied verbatim.
//
//	@native("(strcmp($this, $other) == 0)")
type template struct {
	Parts []*part `parser:"@@*"`
}

type part struct {
	Param string `parser:"  @Param"`
	Text  string `parser:"| @Text"`
}

var templateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Param", Pattern: `\$[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Text", Pattern: `[^$]+|\$`},
})

var templateParser = participle.MustBuild[template](
	participle.Lexer(templateLexer),
)

// templates caches parsed templates by source text.
type templates map[string]*template

// parse returns the template for src.
func (ts templates) parse(src string) (*template, error) {
	if t, ok := ts[src]; ok {
		return t, nil
	}
	t, err := templateParser.ParseString("", unescape.Replace(src))
	if err != nil {
		return nil, fmt.Errorf("native template %q: %w", src, err)
	}
	ts[src] = t
	return t, nil
}

// unescape undoes the escapes a template needed to fit in a string
// literal.
var unescape = strings.NewReplacer(`\\`, `\`, `\"`, `"`)

// isTemplate reports whether src is a template rather than the bare name
// of a C function.
func isTemplate(src string) bool {
	return strings.ContainsAny(src, "$()[]-> ")
}

// expand substitutes args into t. Unknown parameters are kept as
// written. An empty argument drops the separator before it, so an empty
// variadic list leaves no trailing comma.
func (t *template) expand(args map[string]string) string {
	var out string
	for _, p := range t.Parts {
		if p.Param == "" {
			out += p.Text
			continue
		}
		v, ok := args[p.Param[1:]]
		switch {
		case !ok:
			out += p.Param
		case v == "":
			out = strings.TrimSuffix(strings.TrimRight(out, " "), ",")
		default:
			out += v
		}
	}
	return out
}
