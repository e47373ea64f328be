package types

import (
	"strings"

	"github.com/you-not-fish/runc/internal/syntax"
)

// Compatible reports whether values of classes x and y may be used in place
// of each other: assignment, binary operands and argument matching.
//
// Identical classes are always compatible; the null class is compatible
// with every class held by reference; two numeric classes are compatible
// (implicit widening); the any class is compatible with everything.
// Otherwise the classes must carry the same name.
func Compatible(x, y *syntax.ClassDecl) bool {
	if x == nil || y == nil {
		return false
	}
	if x == y {
		return true
	}
	if x.Void || y.Void {
		return false
	}
	if x.Any || y.Any {
		return true
	}
	if x.Null {
		return Nullable(y)
	}
	if y.Null {
		return Nullable(x)
	}
	if IsNumeric(x) && IsNumeric(y) {
		return true
	}
	return x.Name == y.Name
}

// AssignableTo reports whether a value of class v can be stored in a
// location of class t. It accepts everything Compatible accepts plus a
// subclass for a base or interface target.
func AssignableTo(v, t *syntax.ClassDecl) bool {
	return Compatible(v, t) || IsSubclass(v, t)
}

// IsSubclass reports whether c derives from base, either through its base
// chain or by implementing base when base is an interface. A class is not
// its own subclass.
func IsSubclass(c, base *syntax.ClassDecl) bool {
	if c == nil || base == nil || c == base {
		return false
	}
	for k := c; k != nil; k = k.Base {
		if k != c && k == base {
			return true
		}
		if base.IsInterface() && implements(k, base, 0) {
			return true
		}
	}
	return false
}

// implements searches the interface lists of c, following interfaces that
// extend other interfaces.
func implements(c, iface *syntax.ClassDecl, depth int) bool {
	if depth > 32 {
		return false // cyclic interface lists are reported by the registry
	}
	for _, i := range c.Interfaces {
		if i == iface || implements(i, iface, depth+1) {
			return true
		}
	}
	return false
}

// IsNumeric reports whether c is a number class. Enums count as numbers.
func IsNumeric(c *syntax.ClassDecl) bool {
	return c != nil && (c.Number || c.IsEnum())
}

// IsFloat reports whether c is a floating point class.
func IsFloat(c *syntax.ClassDecl) bool {
	return c != nil && c.Number && c.Float
}

// IsBool reports whether c is the bool class.
func IsBool(c *syntax.ClassDecl) bool {
	return c != nil && c.Primitive && c.Name == "bool"
}

// IsString reports whether c is the string class.
func IsString(c *syntax.ClassDecl) bool {
	return c != nil && c.Name == "string"
}

// Nullable reports whether null can be stored in a location of class c.
func Nullable(c *syntax.ClassDecl) bool {
	switch {
	case c == nil || c.Void:
		return false
	case c.Any || c.Null || c.IsArray() || c.IsInterface():
		return true
	case c.IsEnum():
		return false
	case c.Primitive || c.Native:
		return strings.HasSuffix(c.NativeName, "*")
	}
	return true
}

// IsReference reports whether values of c are pointers to heap objects
// created with new.
func IsReference(c *syntax.ClassDecl) bool {
	return c != nil && !c.IsValue() && !c.Any && !c.Null && !c.Void
}

// BaseDepth returns the number of classes in c's base chain.
func BaseDepth(c *syntax.ClassDecl) int {
	n := 0
	for k := c.Base; k != nil && n <= 64; k = k.Base {
		n++
	}
	return n
}

// Chain returns c followed by its bases, nearest first.
func Chain(c *syntax.ClassDecl) []*syntax.ClassDecl {
	var list []*syntax.ClassDecl
	for k := c; k != nil && len(list) <= 64; k = k.Base {
		list = append(list, k)
	}
	return list
}

// Wider returns the class of a binary arithmetic result on x and y: the
// floating class if either is floating, otherwise the larger integer
// class by declaration rank (int wins over narrower integers).
func Wider(x, y *syntax.ClassDecl) *syntax.ClassDecl {
	switch {
	case IsFloat(x) && IsFloat(y):
		if x.Name == "f64" {
			return x
		}
		return y
	case IsFloat(x):
		return x
	case IsFloat(y):
		return y
	case x.IsEnum() && !y.IsEnum():
		return y
	case rank(y) > rank(x):
		return y
	}
	return x
}

var ranks = map[string]int{
	"bool": 0, "char": 1, "byte": 1, "i8": 1, "u8": 1,
	"i16": 2, "u16": 2, "i32": 3, "u32": 3, "int": 3, "i64": 4, "u64": 4,
}

func rank(c *syntax.ClassDecl) int {
	if r, ok := ranks[c.Name]; ok {
		return r
	}
	return 3
}
