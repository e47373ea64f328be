// Package diag collects and renders compiler diagnostics.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/runc/internal/syntax"
)

// Semantic error messages.
const (
	MsgUnknownName       = "Unknown name"
	MsgUnknownType       = "Unknown type"
	MsgIncompatible      = "Incompatible types"
	MsgNameExists        = "Name already exists"
	MsgNoOverload        = "No function matches the arguments"
	MsgNotCallable       = "Not a function"
	MsgConstAssign       = "Can not assign to a constant"
	MsgNotAssignable     = "Expression is not assignable"
	MsgBoolCondition     = "Condition must be bool"
	MsgUnknownLabel      = "Unknown label"
	MsgDuplicateLabel    = "Label already defined"
	MsgScopeNeedsCtor    = "Scope allocation needs a constructor without parameters"
	MsgNotReadable       = "Property has no getter"
	MsgNotWritable       = "Property has no setter"
	MsgMissingMember     = "Interface member missing"
	MsgMismatchedMember  = "Interface member mismatched"
	MsgNotInterface      = "Not an interface"
	MsgMainParams        = "Entry function parameters must be primitive or string"
	MsgNoIndexer         = "Type has no indexer"
	MsgNoReturnValue     = "Function has no result"
	MsgMissingReturn     = "Expecting a return value"
	MsgNoBase            = "Class has no base"
	MsgInvalidOperand    = "Invalid operand"
	MsgStaticThis        = "this is not available in a static function"
	MsgEnumValue         = "Enum value must be an integer"
	MsgPathNotFound      = "Path not founded: '%s'"
	MsgNoEntry           = "Entry function not found"
	MsgPrivateMember     = "Member is not accessible"
	MsgNotAType          = "Not a type"
	MsgCircularBase      = "Circular base class"
	MsgVoidValue         = "Expression has no value"
	MsgAbstractInstance  = "Can not create an instance of an interface"
	MsgVariadicArgs      = "Variadic arguments must be compatible with the parameter"
	MsgInvalidDelete     = "Only references can be deleted"
	MsgNoConstructor     = "No constructor matches the arguments"
	MsgRangeBounds       = "Range bounds must be numbers"
	MsgNotIterable       = "Value is not iterable"
	MsgOperatorSignature = "Operator must have exactly one parameter"
)

// Error is a diagnostic at a source position.
type Error struct {
	Pos   syntax.Pos
	Token string // text of the offending token
	Msg   string
	Line  string // offending source line, filled by the List
	Force bool   // bypasses same-line de-duplication
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// FromSyntax converts a parser error.
func FromSyntax(err *syntax.SyntaxError) *Error {
	return &Error{Pos: err.Pos, Token: err.Token, Msg: err.Msg}
}

// Fprint renders e in the compiler's diagnostic layout:
//
//	Error: <message>
//	 File: <path>(<line>:<col>)
//	Token: <text>
//	 Code: <source line>
//	       <caret>
func (e *Error) Fprint(w io.Writer) {
	fmt.Fprintf(w, "Error: %s\n", e.Msg)
	fmt.Fprintf(w, " File: %s\n", e.Pos)
	if e.Token != "" {
		fmt.Fprintf(w, "Token: %s\n", e.Token)
	}
	if e.Line == "" {
		return
	}
	fmt.Fprintf(w, " Code: %s\n", e.Line)
	fmt.Fprintf(w, "       %s\n", caret(e.Line, int(e.Pos.Col()), len(e.Token)))
}

// caret underlines width characters starting at column col of line.
// Tabs before the column are kept so the marker lines up in a terminal.
func caret(line string, col, width int) string {
	var b strings.Builder
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	if width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// Sources maps file paths to their lines, used to attach the offending
// line to each diagnostic.
type Sources map[string][]string

// Add records the text of a file.
func (s Sources) Add(path, text string) {
	s[path] = strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// Line returns the source line at pos, or "" when unknown.
func (s Sources) Line(pos syntax.Pos) string {
	lines := s[pos.Filename()]
	n := int(pos.Line())
	if n < 1 || n > len(lines) {
		return ""
	}
	return lines[n-1]
}
