package codegen

import (
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// cType maps a class to the C type of its values.
func cType(c *syntax.ClassDecl) string {
	switch {
	case c == nil:
		return "void*"
	case c.Void:
		return "void"
	case c.IsEnum():
		return "int"
	case c.IsValue(), c.Any, c.Null:
		return c.NativeName
	case c.IsInterface():
		return "void*"
	}
	return c.Real + "*"
}

// isStruct reports whether c is emitted as a C struct.
func isStruct(c *syntax.ClassDecl) bool {
	return c != nil && c.Kind == syntax.KindClass && types.IsReference(c)
}

// isObject reports whether values of c point at objects carrying a class
// identity.
func isObject(c *syntax.ClassDecl) bool {
	return c != nil && (isStruct(c) || c.IsInterface())
}

// zeroValue returns the C initializer of a variable of class c without
// initializer.
func zeroValue(c *syntax.ClassDecl) string {
	switch {
	case c == nil:
		return "0"
	case c.IsEnum(), types.IsNumeric(c):
		return "0"
	case types.IsBool(c):
		return "false"
	case types.Nullable(c), types.IsReference(c):
		return "NULL"
	}
	return "{0}"
}

// resultType returns the C return type of fn.
func resultType(fn *syntax.FuncDecl) string {
	switch {
	case fn.Kind == syntax.FuncCtor:
		return cType(fn.Owner)
	case fn.Result == nil:
		return "void"
	}
	return cType(fn.Result.Type())
}

// hasResult reports whether fn returns a value from its declared result.
func hasResult(fn *syntax.FuncDecl) bool {
	return fn.Kind != syntax.FuncCtor && fn.Result != nil
}

// paramType returns the C type of parameter p as seen inside the body.
func (g *generator) paramType(p *syntax.Param) string {
	if p.Variadic {
		return "__array*"
	}
	return cType(paramClass(p))
}

// elemType returns the class of the values a variadic parameter takes.
func elemType(p *syntax.Param) *syntax.ClassDecl {
	return paramClass(p)
}

// needsCast reports whether a value of class from must be cast to be
// stored where class to is expected.
func needsCast(from, to *syntax.ClassDecl) bool {
	if from == nil || to == nil || from == to || from.Null {
		return false
	}
	return types.IsReference(to) || to.IsInterface() || to.Any ||
		types.IsReference(from) || from.IsInterface()
}
