// Package syntax implements lexical and syntactic analysis for the Run language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF     Token = iota // end of file
	_Illegal              // unscannable character
	_EOL                  // end of line (statement terminator)

	// Literals
	_Name    // identifier: foo, Rectangle, __tmp
	_Literal // literal value (used with LitKind)

	// Assignment operators
	_Assign    // =
	_AddAssign // +=
	_SubAssign // -=
	_MulAssign // *=
	_DivAssign // /=
	_RemAssign // %=
	_AndAssign // &=
	_OrAssign  // |=

	// Ternary
	_Question // ?

	// Logical operators
	_OrOr   // ||
	_AndAnd // &&

	// Bitwise operators
	_Or  // |
	_Xor // ^
	_And // &

	// Comparison operators
	_Eql // ==
	_Neq // !=
	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=
	_Cmp // <=>

	// Shift operators
	_Shl // <<
	_Shr // >>

	// Arithmetic operators
	_Add // +
	_Sub // -
	_Mul // *
	_Div // /
	_Rem // %

	// Unary operators
	_Not // !
	_Inc // ++
	_Dec // --

	// Delimiters
	_Lparen   // (
	_Rparen   // )
	_Lbrack   // [
	_Rbrack   // ]
	_Lbrace   // {
	_Rbrace   // }
	_Comma    // ,
	_Semi     // ;
	_Colon    // :
	_Dot      // .
	_Range    // ..
	_Ellipsis // ...
	_Arrow    // =>
	_At       // @
	_Hash     // #

	// Keywords
	_As
	_Base
	_Break
	_Case
	_Cast
	_Class
	_Const
	_Continue
	_Default
	_Defer
	_Delete
	_Else
	_Enum
	_Extension
	_False
	_For
	_Func
	_Goto
	_If
	_In
	_Interface
	_Internal
	_Is
	_Library
	_Namespace
	_New
	_Null
	_Operator
	_Private
	_Property
	_Protected
	_Public
	_Ref
	_Return
	_Scope
	_Sizeof
	_Static
	_Switch
	_This
	_True
	_Type
	_Typeof
	_Using
	_Var

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:     "EOF",
	_Illegal: "ILLEGAL",
	_EOL:     "EOL",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign:    "=",
	_AddAssign: "+=",
	_SubAssign: "-=",
	_MulAssign: "*=",
	_DivAssign: "/=",
	_RemAssign: "%=",
	_AndAssign: "&=",
	_OrAssign:  "|=",

	_Question: "?",

	_OrOr:   "||",
	_AndAnd: "&&",

	_Or:  "|",
	_Xor: "^",
	_And: "&",

	_Eql: "==",
	_Neq: "!=",
	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",
	_Cmp: "<=>",

	_Shl: "<<",
	_Shr: ">>",

	_Add: "+",
	_Sub: "-",
	_Mul: "*",
	_Div: "/",
	_Rem: "%",

	_Not: "!",
	_Inc: "++",
	_Dec: "--",

	_Lparen:   "(",
	_Rparen:   ")",
	_Lbrack:   "[",
	_Rbrack:   "]",
	_Lbrace:   "{",
	_Rbrace:   "}",
	_Comma:    ",",
	_Semi:     ";",
	_Colon:    ":",
	_Dot:      ".",
	_Range:    "..",
	_Ellipsis: "...",
	_Arrow:    "=>",
	_At:       "@",
	_Hash:     "#",

	_As:        "as",
	_Base:      "base",
	_Break:     "break",
	_Case:      "case",
	_Cast:      "cast",
	_Class:     "class",
	_Const:     "const",
	_Continue:  "continue",
	_Default:   "default",
	_Defer:     "defer",
	_Delete:    "delete",
	_Else:      "else",
	_Enum:      "enum",
	_Extension: "extension",
	_False:     "false",
	_For:       "for",
	_Func:      "func",
	_Goto:      "goto",
	_If:        "if",
	_In:        "in",
	_Interface: "interface",
	_Internal:  "internal",
	_Is:        "is",
	_Library:   "library",
	_Namespace: "namespace",
	_New:       "new",
	_Null:      "null",
	_Operator:  "operator",
	_Private:   "private",
	_Property:  "property",
	_Protected: "protected",
	_Public:    "public",
	_Ref:       "ref",
	_Return:    "return",
	_Scope:     "scope",
	_Sizeof:    "sizeof",
	_Static:    "static",
	_Switch:    "switch",
	_This:      "this",
	_True:      "true",
	_Type:      "type",
	_Typeof:    "typeof",
	_Using:     "using",
	_Var:       "var",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// Family classifies tokens the way diagnostics and the checker group them.
type Family uint8

const (
	FamilySyntax Family = iota
	FamilyArithmetic
	FamilyLogical
	FamilyLiteral
	FamilyKeyword
	FamilyName
)

var familyNames = [...]string{
	FamilySyntax:     "SYNTAX",
	FamilyArithmetic: "ARITHMETIC",
	FamilyLogical:    "LOGICAL",
	FamilyLiteral:    "LITERAL",
	FamilyKeyword:    "KEYWORD",
	FamilyName:       "NAME",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return fmt.Sprintf("Family(%d)", f)
}

// Family returns the token family.
// Comparison and boolean connectives are LOGICAL: their result is bool.
func (t Token) Family() Family {
	switch {
	case t == _Name:
		return FamilyName
	case t == _Literal:
		return FamilyLiteral
	case t.IsKeyword():
		return FamilyKeyword
	}
	switch t {
	case _OrOr, _AndAnd, _Eql, _Neq, _Lss, _Leq, _Gtr, _Geq, _Not:
		return FamilyLogical
	case _Add, _Sub, _Mul, _Div, _Rem, _Or, _Xor, _And, _Shl, _Shr, _Cmp, _Inc, _Dec,
		_AddAssign, _SubAssign, _MulAssign, _DivAssign, _RemAssign, _AndAssign, _OrAssign:
		return FamilyArithmetic
	}
	return FamilySyntax
}

// Prec is an operator precedence level. Higher binds tighter.
type Prec int

const (
	PrecNone Prec = iota
	PrecAssignment
	PrecTernary
	PrecOr
	PrecAnd
	PrecBitOr
	PrecBitAnd
	PrecEquality
	PrecComparison
	PrecShift
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// Precedence returns the infix (or postfix) precedence of t.
// Returns PrecNone for tokens that cannot continue an expression.
//
//	Assignment: = += -= *= /= %= &= |= .. as is
//	Ternary:    ?
//	Or:         ||
//	And:        &&
//	BitOr:      | ^
//	BitAnd:     &
//	Equality:   == !=
//	Comparison: < <= > >= <=>
//	Shift:      << >>
//	Term:       + -
//	Factor:     * / %
//	Call:       . ( [ ++ --
func (t Token) Precedence() Prec {
	switch t {
	case _Assign, _AddAssign, _SubAssign, _MulAssign, _DivAssign, _RemAssign,
		_AndAssign, _OrAssign, _Range, _As, _Is:
		return PrecAssignment
	case _Question:
		return PrecTernary
	case _OrOr:
		return PrecOr
	case _AndAnd:
		return PrecAnd
	case _Or, _Xor:
		return PrecBitOr
	case _And:
		return PrecBitAnd
	case _Eql, _Neq:
		return PrecEquality
	case _Lss, _Leq, _Gtr, _Geq, _Cmp:
		return PrecComparison
	case _Shl, _Shr:
		return PrecShift
	case _Add, _Sub:
		return PrecTerm
	case _Mul, _Div, _Rem:
		return PrecFactor
	case _Dot, _Lparen, _Lbrack, _Inc, _Dec:
		return PrecCall
	}
	return PrecNone
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _As && t <= _Var
}

// IsAssignOp reports whether t is = or a compound assignment.
func (t Token) IsAssignOp() bool {
	return t >= _Assign && t <= _OrAssign
}

// IsOperator reports whether t can be overloaded by an operator declaration.
func (t Token) IsOperator() bool {
	return t >= _OrOr && t <= _Rem
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// OpName returns the identifier fragment used to mangle operator functions.
func (t Token) OpName() string {
	switch t {
	case _Add:
		return "add"
	case _Sub:
		return "sub"
	case _Mul:
		return "mul"
	case _Div:
		return "div"
	case _Rem:
		return "mod"
	case _Eql:
		return "eq"
	case _Neq:
		return "ne"
	case _Lss:
		return "lt"
	case _Leq:
		return "le"
	case _Gtr:
		return "gt"
	case _Geq:
		return "ge"
	case _Cmp:
		return "cmp"
	case _And:
		return "band"
	case _Or:
		return "bor"
	case _Xor:
		return "xor"
	case _Shl:
		return "shl"
	case _Shr:
		return "shr"
	case _AndAnd:
		return "and"
	case _OrOr:
		return "or"
	}
	return fmt.Sprintf("op%d", t)
}

// IsComparison reports whether t compares its operands and yields bool.
func (t Token) IsComparison() bool {
	return t >= _Eql && t <= _Geq
}

// IsLogical reports whether t is && or ||.
func (t Token) IsLogical() bool {
	return t == _AndAnd || t == _OrOr
}

// IsBitwise reports whether t is a bitwise or shift operator.
func (t Token) IsBitwise() bool {
	switch t {
	case _Or, _Xor, _And, _Shl, _Shr:
		return true
	}
	return false
}

// Binary returns the binary operator applied by a compound assignment.
// Other tokens are returned unchanged.
func (t Token) Binary() Token {
	switch t {
	case _AddAssign:
		return _Add
	case _SubAssign:
		return _Sub
	case _MulAssign:
		return _Mul
	case _DivAssign:
		return _Div
	case _RemAssign:
		return _Rem
	case _AndAssign:
		return _And
	case _OrAssign:
		return _Or
	}
	return t
}

// Exported operator tokens for the checker and code generator.
const (
	EOF       Token = _EOF
	Assign    Token = _Assign
	AddAssign Token = _AddAssign
	SubAssign Token = _SubAssign
	MulAssign Token = _MulAssign
	DivAssign Token = _DivAssign
	RemAssign Token = _RemAssign
	AndAssign Token = _AndAssign
	OrAssign  Token = _OrAssign
	And       Token = _And
	Or        Token = _Or
	Xor       Token = _Xor
	Shl       Token = _Shl
	Shr       Token = _Shr
	Add       Token = _Add
	Sub       Token = _Sub
	Mul       Token = _Mul
	Div       Token = _Div
	Rem       Token = _Rem
	Eql       Token = _Eql
	Neq       Token = _Neq
	Lss       Token = _Lss
	Leq       Token = _Leq
	Gtr       Token = _Gtr
	Geq       Token = _Geq
	Cmp       Token = _Cmp
	AndAnd    Token = _AndAnd
	OrOr      Token = _OrOr
	Not       Token = _Not
	Inc       Token = _Inc
	Dec       Token = _Dec
	Break     Token = _Break
	Continue  Token = _Continue
)

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 123, -4
	HexLit                   // 0x1F
	FloatLit                 // 1.5f
	DoubleLit                // 3.14, 1e10
	StringLit                // "hello"
	CharLit                  // 'a'
	BoolLit                  // true, false (produced by the parser)
	NullLit                  // null (produced by the parser)
)

// litKindNames maps literal kinds to their string representation.
var litKindNames = [...]string{
	IntLit:    "int",
	HexLit:    "hex",
	FloatLit:  "float",
	DoubleLit: "double",
	StringLit: "string",
	CharLit:   "char",
	BoolLit:   "bool",
	NullLit:   "null",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if int(k) < len(litKindNames) {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// Contextual words (main, get, set, dispose) are scanned as _Name
// and recognized by the parser where they are meaningful.
var keywords = map[string]Token{}

func init() {
	for t := _As; t <= _Var; t++ {
		keywords[tokenNames[t]] = t
	}
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
