// Package rtabi defines the ABI shared between the code generator and the
// C runtime written at the top of every generated file.
package rtabi

import "strconv"

// Runtime function and macro names (must match the preamble)
const (
	// Initialization
	FnInit = "__run_init"

	// Memory allocation
	FnAlloc  = "__alloc"
	FnScope  = "SCOPE"
	FnDelete = "__delete"

	// Type tests
	FnIs = "__is"
	FnAs = "__as"

	// Dispatch
	FnMethod = "__rtti_method"
	FnFind   = "__rtti_find"

	// Arrays
	FnArrayNew  = "__array_new"
	FnArrayPush = "__array_push"
	FnArrayFree = "__array_free"
	MacroAt     = "__ARRAY_AT"

	// Comparison
	MacroCmp = "__CMP"
	FnStrCmp = "__str_cmp"

	// Command line
	FnUsage = "__usage"
)

// Runtime data names
const (
	TypeTable  = "__rtti_types"
	TypeCount  = "__rtti_count"
	TypeStruct = "__rtti_type"
	TypeMember = "__rtti_member"
	ArrayType  = "__array"
	ObjectType = "__object"
)

// Names reserved inside generated function bodies
const (
	// Result and return flag of functions with defers.
	LocalResult    = "__result"
	LocalReturning = "__returning"
	LabelDone      = "__done"

	// This is the receiver parameter of methods and constructors.
	This = "this"

	// BaseField is the first member of a derived struct, holding the base.
	BaseField = "__base"

	// HeaderField is the first member of a root struct.
	HeaderField = "__hdr"
)

// DeferStage returns the stage variable of the defer block with the given id.
func DeferStage(id int) string {
	return "__defer_stage_" + strconv.Itoa(id)
}

// DeferLabel returns the cleanup label of the defer block with the given id.
func DeferLabel(id int) string {
	return "__defer_" + strconv.Itoa(id)
}

// VariadicCount returns the count parameter emitted before the variadic
// values of a parameter emitted as name.
func VariadicCount(name string) string {
	return "len" + name
}
