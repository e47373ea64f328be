// Package types holds the class predicates shared by the registry, the
// validator and the code generator, and the cache of primitive classes.
package types

import "github.com/you-not-fish/runc/internal/syntax"

// Universe caches direct references to the primitive classes of the
// prelude. A nil field means the class was not declared, which only
// happens when the prelude is suppressed.
type Universe struct {
	Bool    *syntax.ClassDecl
	Char    *syntax.ClassDecl
	Byte    *syntax.ClassDecl
	Int     *syntax.ClassDecl
	I8      *syntax.ClassDecl
	I16     *syntax.ClassDecl
	I32     *syntax.ClassDecl
	I64     *syntax.ClassDecl
	U8      *syntax.ClassDecl
	U16     *syntax.ClassDecl
	U32     *syntax.ClassDecl
	U64     *syntax.ClassDecl
	F32     *syntax.ClassDecl
	F64     *syntax.ClassDecl
	String  *syntax.ClassDecl
	Pointer *syntax.ClassDecl
	Array   *syntax.ClassDecl
	Type    *syntax.ClassDecl

	Any  *syntax.ClassDecl // synthetic: compatible with everything
	Null *syntax.ClassDecl // synthetic: class of the null literal
	Void *syntax.ClassDecl // synthetic: result of functions without result
}

// PrimitiveNames lists the class names cached by the universe.
var PrimitiveNames = []string{
	"bool", "char", "byte", "int", "i8", "i16", "i32", "i64",
	"u8", "u16", "u32", "u64", "f32", "f64", "string", "pointer", "array", "Type",
}

// NewUniverse returns a universe holding the synthetic any and null
// classes.
func NewUniverse() *Universe {
	anyClass := &syntax.ClassDecl{Name: "any", Any: true, Synthetic: true, NativeName: "void*"}
	anyClass.SetReal("void*")
	nullClass := &syntax.ClassDecl{Name: "null", Null: true, Synthetic: true, NativeName: "void*"}
	nullClass.SetReal("void*")
	voidClass := &syntax.ClassDecl{Name: "void", Void: true, Synthetic: true, NativeName: "void"}
	voidClass.SetReal("void")
	return &Universe{Any: anyClass, Null: nullClass, Void: voidClass}
}

// Set caches c if its name is a primitive name. It reports whether c was
// cached.
func (u *Universe) Set(c *syntax.ClassDecl) bool {
	slot := u.slot(c.Name)
	if slot == nil {
		return false
	}
	*slot = c
	return true
}

// Lookup returns the cached class called name, or nil.
func (u *Universe) Lookup(name string) *syntax.ClassDecl {
	switch name {
	case "any":
		return u.Any
	case "null":
		return u.Null
	}
	if slot := u.slot(name); slot != nil {
		return *slot
	}
	return nil
}

func (u *Universe) slot(name string) **syntax.ClassDecl {
	switch name {
	case "bool":
		return &u.Bool
	case "char":
		return &u.Char
	case "byte":
		return &u.Byte
	case "int":
		return &u.Int
	case "i8":
		return &u.I8
	case "i16":
		return &u.I16
	case "i32":
		return &u.I32
	case "i64":
		return &u.I64
	case "u8":
		return &u.U8
	case "u16":
		return &u.U16
	case "u32":
		return &u.U32
	case "u64":
		return &u.U64
	case "f32":
		return &u.F32
	case "f64":
		return &u.F64
	case "string":
		return &u.String
	case "pointer":
		return &u.Pointer
	case "array":
		return &u.Array
	case "Type":
		return &u.Type
	}
	return nil
}

// Literal returns the class of a literal of kind k.
func (u *Universe) Literal(k syntax.LitKind) *syntax.ClassDecl {
	switch k {
	case syntax.IntLit, syntax.HexLit:
		return u.Int
	case syntax.FloatLit:
		return u.F32
	case syntax.DoubleLit:
		return u.F64
	case syntax.StringLit:
		return u.String
	case syntax.CharLit:
		return u.Char
	case syntax.BoolLit:
		return u.Bool
	case syntax.NullLit:
		return u.Null
	}
	return nil
}
