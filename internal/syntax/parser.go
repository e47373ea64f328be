package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Maximum number of errors before aborting parse.
const maxErrors = 25

// Syntax error messages.
const (
	MsgExpectName         = "Expecting a name"
	MsgExpectBlock        = "Expecting Begin of Block"
	MsgExpectBlockEnd     = "Expecting End of Block"
	MsgExpectEOL          = "Expecting End of Line"
	MsgExpectExpr         = "Expecting an expression"
	MsgExpectType         = "Expecting a type"
	MsgExpectString       = "Expecting a string"
	MsgVariadicLast       = "No more parameters after variadic parameter definition"
	MsgDoubleArray        = "Double Array Expression Not Supported"
	MsgAnnotInFunc        = "Annotations are not allowed inside functions"
	MsgExpectBaseOrThis   = "Expecting base or this"
	MsgImplicitParams     = "Implicit constructor must have exactly one non-array parameter"
	MsgOperatorInNumber   = "Operators are not allowed in number classes"
	MsgDuplicateIndexer   = "Indexer with the same index type already exists"
	MsgOperatorParams     = "Operator must have exactly one parameter"
	MsgNotOverloadable    = "Operator can not be overloaded"
	MsgMemberParamOutside = "Member parameters are only allowed in constructors"
	MsgDuplicateMain      = "Entry function already defined"
	MsgModifierNotAllowed = "Modifiers are not allowed here"
)

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos   Pos
	Token string // text of the offending token
	Msg   string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrorHandler receives every syntax error in order.
type ErrorHandler func(err *SyntaxError)

// Counter hands out increasing ids. One Counter is shared by all parsers
// of a compilation so that defer block ids are unique across modules.
type Counter struct{ n int }

// Next returns the next id, starting at 1.
func (c *Counter) Next() int {
	c.n++
	return c.n
}

// Parser performs syntax analysis on Run source code.
type Parser struct {
	scanner  *Scanner
	filename string

	// Current token info (cached from scanner)
	tok Token
	lit string
	pos Pos

	// Error handling
	errh   ErrorHandler
	errcnt int
	first  error // first error encountered
	abort  bool  // set to true when error limit reached

	file   *File
	defers *Counter
}

// NewParser creates a new Parser for the given source.
func NewParser(filename string, src io.Reader, errh ErrorHandler) *Parser {
	p := &Parser{
		filename: filename,
		errh:     errh,
		defers:   new(Counter),
	}
	p.scanner = NewScanner(filename, src, func(line, col uint32, msg string) {
		var tok string
		if p.scanner != nil {
			tok = p.scanner.Literal()
		}
		p.report(NewPos(filename, line, col), tok, msg)
	})
	p.next() // prime the parser with first token
	return p
}

// SetDeferCounter shares a defer id counter with other parsers.
func (p *Parser) SetDeferCounter(c *Counter) {
	if c != nil {
		p.defers = c
	}
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
	if p.tok == _Illegal {
		// already reported by the scanner; drop it and resync at line end
		p.skipLine()
	}
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error and returns false without consuming.
func (p *Parser) want(tok Token) bool {
	if p.got(tok) {
		return true
	}
	switch tok {
	case _Lbrace:
		p.syntaxError(MsgExpectBlock)
	case _Rbrace:
		p.syntaxError(MsgExpectBlockEnd)
	case _Name:
		p.syntaxError(MsgExpectName)
	default:
		p.syntaxError(fmt.Sprintf("Expecting '%s'", tok))
	}
	return false
}

// skipEOL skips newlines. Used after tokens that cannot end a statement.
func (p *Parser) skipEOL() {
	for p.tok == _EOL {
		p.next()
	}
}

// skipSeparators skips newlines and semicolons between statements.
func (p *Parser) skipSeparators() {
	for p.tok == _EOL || p.tok == _Semi {
		p.next()
	}
}

// peekEOL reports whether the current token is a newline followed by tok.
func (p *Parser) peekEOL(tok Token) bool {
	return p.tok == _EOL && p.scanner.Test(tok)
}

// endStmt consumes the terminator of a statement or declaration.
// A closing brace or EOF also ends a statement and is left in place.
func (p *Parser) endStmt() {
	switch p.tok {
	case _EOL, _Semi:
		p.next()
	case _Rbrace, _EOF:
	default:
		p.syntaxError(MsgExpectEOL)
		p.skipLine()
	}
}

// skipLine discards the rest of the current line for error recovery.
func (p *Parser) skipLine() {
	if p.tok == _EOL || p.tok == _EOF {
		return
	}
	p.scanner.SkipLine()
	p.next()
}

// skipBlock discards tokens up to and including the '}' closing the
// current block.
func (p *Parser) skipBlock() {
	p.scanner.SkipBlock()
	p.next()
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current token.
func (p *Parser) syntaxError(msg string) {
	p.report(p.pos, p.tokText(), msg)
}

// syntaxErrorAt reports a syntax error at a specific position.
func (p *Parser) syntaxErrorAt(pos Pos, tok, msg string) {
	p.report(pos, tok, msg)
}

func (p *Parser) tokText() string {
	switch p.tok {
	case _EOL:
		return "EOL"
	case _EOF:
		return "EOF"
	case _Literal:
		if p.scanner.LitKind() == StringLit {
			return `"` + p.lit + `"`
		}
	}
	return p.lit
}

func (p *Parser) report(pos Pos, tok, msg string) {
	if p.abort {
		return
	}
	err := &SyntaxError{Pos: pos, Token: tok, Msg: msg}
	if p.errcnt == 0 {
		p.first = err
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(err)
	}

	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(&SyntaxError{Pos: pos, Token: tok, Msg: "too many errors; aborting parse"})
		}
		p.tok = _EOF
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file and returns the AST with parent
// links installed.
func (p *Parser) Parse() *File {
	f := &File{Path: p.filename}
	f.pos = p.pos
	p.file = f

	ctx := ParseContext{Scope: ScopeModule}
	for !p.abort && p.tok != _EOF {
		p.skipSeparators()
		if p.tok == _EOF {
			break
		}
		f.Decls = append(f.Decls, p.decl(ctx)...)
	}

	SetParents(f)
	return f
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier and returns a Name node.
func (p *Parser) name() *Name {
	if p.tok != _Name {
		p.syntaxError(MsgExpectName)
		// Return a placeholder for error recovery
		return NewName(p.pos, "_")
	}
	n := NewName(p.pos, p.lit)
	p.next()
	return n
}

// stringLit parses a string literal and returns its raw content.
func (p *Parser) stringLit() (string, bool) {
	if p.tok != _Literal || p.scanner.LitKind() != StringLit {
		p.syntaxError(MsgExpectString)
		return "", false
	}
	s := p.lit
	p.next()
	return s, true
}

// typeExpr parses Name or Name[].
func (p *Parser) typeExpr() *TypeExpr {
	pos := p.pos
	if p.tok != _Name {
		p.syntaxError(MsgExpectType)
		return NewTypeExpr(pos, "_", false)
	}
	t := NewTypeExpr(pos, p.lit, false)
	p.next()
	if p.tok == _Lbrack && p.scanner.Test(_Rbrack) {
		p.next()
		p.next()
		t.Array = true
		if p.tok == _Lbrack && p.scanner.Test(_Rbrack) {
			p.syntaxError(MsgDoubleArray)
			p.next()
			p.next()
		}
	}
	return t
}

// ----------------------------------------------------------------------------
// Declarations

// allowed reports whether a declaration keyword may appear in scope s.
func allowed(tok Token, s ScopeKind) bool {
	switch tok {
	case _Using, _Library, _Namespace, _Class, _Type, _Enum, _Interface, _Extension:
		return s == ScopeModule
	case _Property:
		return s == ScopeClass || s == ScopeInterface
	case _Operator, _This, _Lbrack:
		return s == ScopeClass
	case _Func:
		return s != ScopeFunc && s != ScopeEnum
	case _Var, _Const:
		return s != ScopeInterface && s != ScopeEnum
	}
	return true
}

// decl parses one declaration with its leading annotations and modifiers
// and returns the declarations it produced. The caller's ctx is never
// modified; modifiers apply only to this declaration.
func (p *Parser) decl(ctx ParseContext) []Decl {
	ctx = p.modifiers(ctx)

	if !allowed(p.tok, ctx.Scope) {
		p.syntaxError(fmt.Sprintf("'%s' is not allowed in %s scope", p.lit, ctx.Scope))
		p.skipLine()
		return nil
	}

	switch p.tok {
	case _Using, _Library, _Namespace:
		if ctx.Pending() {
			p.syntaxError(MsgModifierNotAllowed)
		}
		p.moduleDirective()
		return nil

	case _Class, _Type:
		return one(p.classDecl(ctx, KindClass))
	case _Interface:
		return one(p.classDecl(ctx, KindInterface))
	case _Enum:
		return one(p.enumDecl(ctx))
	case _Extension:
		return one(p.extensionDecl(ctx))

	case _Func:
		return one(p.funcDecl(ctx))

	case _Var, _Const:
		return p.varDecls(ctx)

	case _This:
		return one(p.ctorDecl(ctx))
	case _Operator:
		return one(p.operatorDecl(ctx))
	case _Property:
		return one(p.propertyDecl(ctx))
	case _Lbrack:
		return one(p.indexerDecl(ctx))

	case _Name:
		switch {
		case p.lit == "main" && ctx.Scope == ScopeModule && (p.scanner.Test(_Lparen) || p.scanner.Test(_Lbrace)):
			return one(p.mainDecl(ctx))
		case p.lit == "dispose" && ctx.Scope == ScopeClass && p.scanner.Test(_Lparen):
			return one(p.disposeDecl(ctx))
		case ctx.Scope == ScopeClass && p.scanner.Test(_Colon):
			v := p.varSpec(ctx, false)
			p.endStmt()
			return one(v)
		}
	}

	p.syntaxError(fmt.Sprintf("Unexpected '%s' in %s scope", p.tokText(), ctx.Scope))
	p.skipLine()
	return nil
}

func one(d Decl) []Decl {
	return []Decl{d}
}

// modifiers collects annotations and access/static modifiers into ctx.
func (p *Parser) modifiers(ctx ParseContext) ParseContext {
	for {
		switch p.tok {
		case _At:
			a := p.annotation()
			if ctx.Scope == ScopeFunc {
				p.syntaxErrorAt(a.Pos, "@"+a.Name, MsgAnnotInFunc)
				continue
			}
			ctx = ctx.WithAnnot(a)
			p.skipEOL()
		case _Public:
			ctx = ctx.WithAccess(Public)
			p.next()
		case _Private:
			ctx = ctx.WithAccess(Private)
			p.next()
		case _Protected:
			ctx = ctx.WithAccess(Protected)
			p.next()
		case _Internal:
			ctx = ctx.WithAccess(Internal)
			p.next()
		case _Static:
			ctx = ctx.WithStatic()
			p.next()
		default:
			return ctx
		}
	}
}

// annotation parses @name or @name("arg").
func (p *Parser) annotation() Annotation {
	a := Annotation{Pos: p.pos}
	p.want(_At)
	if p.tok == _Name || p.tok.IsKeyword() {
		a.Name = p.lit
		p.next()
	} else {
		p.syntaxError(MsgExpectName)
	}
	if p.got(_Lparen) {
		a.Arg, _ = p.stringLit()
		p.want(_Rparen)
	}
	return a
}

// moduleDirective parses using, library and namespace.
func (p *Parser) moduleDirective() {
	switch p.tok {
	case _Using:
		u := &UsingDecl{}
		u.pos = p.pos
		p.next()
		if p.tok == _Name {
			// using name: a module next to the importing file
			u.Path = p.lit
			p.next()
		} else {
			u.Path, _ = p.stringLit()
		}
		if p.tok == _Name {
			u.Nick = p.lit
			p.next()
		}
		p.file.Usings = append(p.file.Usings, u)

	case _Library:
		p.next()
		if lib, ok := p.stringLit(); ok {
			p.file.Libraries = append(p.file.Libraries, lib)
		}

	case _Namespace:
		p.next()
		p.file.Namespace = p.name().Value
	}
	p.endStmt()
}

// classDecl parses class, type and interface declarations:
//
//	class Name [: Base {, Interface}] { members }
func (p *Parser) classDecl(ctx ParseContext, kind ClassKind) *ClassDecl {
	c := &ClassDecl{Kind: kind, Annots: ctx.Annots, Access: ctx.Access, Static: ctx.Static, Module: p.file}
	c.pos = p.pos
	p.next() // class, type or interface

	c.Name = p.name().Value

	if p.got(_Colon) {
		c.BasePos = p.pos
		c.BaseName = p.name().Value
		for p.got(_Comma) {
			p.skipEOL()
			c.IfaceNames = append(c.IfaceNames, p.name().Value)
		}
		if kind == KindInterface {
			// interfaces only extend interfaces
			c.IfaceNames = append([]string{c.BaseName}, c.IfaceNames...)
			c.BaseName = ""
		}
	}

	scope := ScopeClass
	if kind == KindInterface {
		scope = ScopeInterface
	}
	p.classBody(ctx.WithClass(c, scope), &c.Members)
	if kind == KindClass {
		p.checkMembers(c)
	}
	return c
}

// classBody parses { members } appending to *members.
func (p *Parser) classBody(ctx ParseContext, members *[]Decl) {
	p.skipEOL()
	if !p.want(_Lbrace) {
		p.skipLine()
		return
	}
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		p.skipSeparators()
		if p.tok == _Rbrace {
			break
		}
		*members = append(*members, p.decl(ctx)...)
	}
	p.want(_Rbrace)
	p.endStmt()
}

// checkMembers applies class-level member rules that need the whole body.
func (p *Parser) checkMembers(c *ClassDecl) {
	number := c.Annots.Has("number")
	seen := map[string]bool{}
	for _, m := range c.Members {
		switch m := m.(type) {
		case *FuncDecl:
			if m.Kind == FuncOperator && number {
				p.syntaxErrorAt(m.Pos(), "operator", MsgOperatorInNumber)
			}
		case *IndexerDecl:
			if m.Key == nil || m.Key.Type == nil {
				continue
			}
			key := m.Key.Type.String()
			if seen[key] {
				p.syntaxErrorAt(m.Pos(), "[", MsgDuplicateIndexer)
			}
			seen[key] = true
		}
	}
}

// enumDecl parses enum Name { A, B = 2, C }
func (p *Parser) enumDecl(ctx ParseContext) *ClassDecl {
	c := &ClassDecl{Kind: KindEnum, Annots: ctx.Annots, Access: ctx.Access, Module: p.file}
	c.pos = p.pos
	p.next() // enum
	c.Name = p.name().Value

	p.skipEOL()
	if !p.want(_Lbrace) {
		p.skipLine()
		return c
	}
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		p.skipSeparators()
		if p.tok == _Rbrace {
			break
		}
		m := &EnumMember{Index: len(c.Members)}
		m.pos = p.pos
		m.Name = p.name().Value
		if p.got(_Assign) {
			m.Value = p.expr()
		}
		c.Members = append(c.Members, m)
		if !p.got(_Comma) && p.tok != _EOL && p.tok != _Rbrace {
			p.syntaxError(MsgExpectEOL)
			p.skipLine()
		}
	}
	p.want(_Rbrace)
	p.endStmt()
	return c
}

// extensionDecl parses extension Name { funcs and properties }
func (p *Parser) extensionDecl(ctx ParseContext) *ExtensionDecl {
	e := &ExtensionDecl{}
	e.pos = p.pos
	p.next() // extension
	e.Name = p.name().Value
	p.classBody(ctx.In(ScopeClass), &e.Members)
	return e
}

// varDecls parses var/const followed by one or more specs.
func (p *Parser) varDecls(ctx ParseContext) []Decl {
	isConst := p.tok == _Const
	p.next()

	var list []Decl
	for {
		list = append(list, p.varSpec(ctx, isConst))
		if !p.got(_Comma) {
			break
		}
		p.skipEOL()
	}
	p.endStmt()
	return list
}

// varSpec parses Name [: Type [ "[" Len "]" ]] [= Init].
func (p *Parser) varSpec(ctx ParseContext, isConst bool) *VarDecl {
	v := &VarDecl{
		Const:  isConst,
		Static: ctx.Static,
		Access: ctx.Access,
		Annots: ctx.Annots,
		Field:  ctx.Scope == ScopeClass,
		Global: ctx.Scope == ScopeModule,
	}
	v.pos = p.pos
	v.Name = p.name().Value

	if p.got(_Colon) {
		v.Type = p.typeExpr()
		if p.tok == _Lbrack {
			if v.Type.Array {
				p.syntaxError(MsgDoubleArray)
			}
			p.next()
			v.ArrayLen = p.expr()
			p.want(_Rbrack)
		}
	}
	if p.got(_Assign) {
		p.skipEOL()
		v.Init = p.expr()
	}
	if v.Type == nil && v.Init == nil {
		p.syntaxError(MsgExpectType)
	}
	return v
}

// ----------------------------------------------------------------------------
// Functions

// newFunc starts a function declaration at the current position.
func (p *Parser) newFunc(ctx ParseContext, kind FuncKind) *FuncDecl {
	fn := &FuncDecl{Kind: kind, Annots: ctx.Annots, Access: ctx.Access, Static: ctx.Static, Owner: ctx.Class}
	fn.pos = p.pos
	if kind == FuncPlain && ctx.Scope != ScopeModule {
		fn.Kind = FuncMethod
	}
	return fn
}

// funcDecl parses func Name(Params) [: Result] Body. The parameter list
// may be omitted before a block body: func test { }
func (p *Parser) funcDecl(ctx ParseContext) *FuncDecl {
	fn := p.newFunc(ctx, FuncPlain)
	p.next() // func

	n := p.name()
	fn.Name = n.Value
	if n.Value == "main" && ctx.Scope == ScopeModule {
		fn.Kind = FuncMain
	}
	if p.tok != _Lbrace {
		p.params(ctx, fn)
	}
	if p.got(_Colon) {
		fn.Result = p.typeExpr()
	}
	p.funcBody(ctx, fn)
	if fn.Kind == FuncMain {
		p.setMain(fn)
	}
	return fn
}

// mainDecl parses main [(Params)] Body.
func (p *Parser) mainDecl(ctx ParseContext) *FuncDecl {
	fn := p.newFunc(ctx, FuncMain)
	fn.Name = "main"
	p.next() // main
	if p.tok == _Lparen {
		p.params(ctx, fn)
	}
	p.funcBody(ctx, fn)
	p.setMain(fn)
	return fn
}

func (p *Parser) setMain(fn *FuncDecl) {
	if p.file.Main != nil {
		p.syntaxErrorAt(fn.Pos(), "main", MsgDuplicateMain)
		return
	}
	p.file.Main = fn
}

// ctorDecl parses this(Params) [: base(Args) | : this(Args)] Body.
func (p *Parser) ctorDecl(ctx ParseContext) *FuncDecl {
	fn := p.newFunc(ctx, FuncCtor)
	fn.Name = "this"
	fn.Static = false
	p.next() // this

	p.params(ctx, fn)
	if p.got(_Colon) {
		switch p.tok {
		case _Base:
			fn.Init = InitBase
		case _This:
			fn.Init = InitThis
		default:
			p.syntaxError(MsgExpectBaseOrThis)
		}
		if fn.Init != InitNone {
			p.next()
			fn.InitArgs = p.args()
		}
	}

	if fn.Annots.Has("implicit") {
		fn.Implicit = true
		// a forwarding parameter takes its type from the field when the
		// class is registered
		if len(fn.Params) != 1 || fn.Params[0].Variadic || (!fn.Params[0].Member &&
			(fn.Params[0].Type == nil || fn.Params[0].Type.Array)) {
			p.syntaxErrorAt(fn.Pos(), "this", MsgImplicitParams)
		}
	}
	p.funcBody(ctx, fn)
	return fn
}

// disposeDecl parses dispose() Body.
func (p *Parser) disposeDecl(ctx ParseContext) *FuncDecl {
	fn := p.newFunc(ctx, FuncDispose)
	fn.Name = "dispose"
	fn.Static = false
	p.next() // dispose
	p.params(ctx, fn)
	p.funcBody(ctx, fn)
	return fn
}

// operatorDecl parses operator OP(Param): Result Body.
func (p *Parser) operatorDecl(ctx ParseContext) *FuncDecl {
	fn := p.newFunc(ctx, FuncOperator)
	fn.Static = false
	p.next() // operator

	fn.Op = p.tok
	fn.Name = "operator" + p.tok.String()
	if !p.tok.IsOperator() {
		p.syntaxError(MsgNotOverloadable)
	}
	p.next()

	p.params(ctx, fn)
	if len(fn.Params) != 1 {
		p.syntaxErrorAt(fn.Pos(), "operator", MsgOperatorParams)
	}
	if p.got(_Colon) {
		fn.Result = p.typeExpr()
	}
	p.funcBody(ctx, fn)
	return fn
}

// params parses (p1:T1, ...rest:T, .field).
func (p *Parser) params(ctx ParseContext, fn *FuncDecl) {
	if !p.want(_Lparen) {
		return
	}
	p.skipEOL()
	for p.tok != _Rparen && p.tok != _EOF && p.tok != _Lbrace {
		if fn.Variadic {
			p.syntaxError(MsgVariadicLast)
		}
		par := &Param{Func: fn}
		par.pos = p.pos
		switch {
		case p.got(_Ellipsis):
			par.Variadic = true
			fn.Variadic = true
		case p.got(_Dot):
			par.Member = true
			if fn.Kind != FuncCtor || ctx.Scope != ScopeClass {
				p.syntaxErrorAt(par.Pos(), ".", MsgMemberParamOutside)
			}
		}
		par.Name = p.name().Value
		if !par.Member {
			if p.want(_Colon) {
				par.Type = p.typeExpr()
			}
		}
		fn.Params = append(fn.Params, par)
		if !p.got(_Comma) {
			break
		}
		p.skipEOL()
	}
	p.skipEOL()
	p.want(_Rparen)
}

// args parses (a, b, c).
func (p *Parser) args() []Expr {
	if !p.want(_Lparen) {
		return nil
	}
	p.skipEOL()
	var list []Expr
	for p.tok != _Rparen && p.tok != _EOF {
		list = append(list, p.expr())
		if !p.got(_Comma) {
			break
		}
		p.skipEOL()
	}
	p.skipEOL()
	p.want(_Rparen)
	return list
}

// funcBody parses a block body, an arrow body, a native binding or
// nothing (interface members and native declarations).
func (p *Parser) funcBody(ctx ParseContext, fn *FuncDecl) {
	switch p.tok {
	case _Lbrace:
		fn.Body = p.block(ctx.WithFunc(fn))
		p.endStmt()
	case _Arrow:
		p.next()
		p.skipEOL()
		fn.Arrow = p.expr()
		p.endStmt()
	case _Assign:
		p.next()
		fn.Native, _ = p.stringLit()
		p.endStmt()
	case _EOL, _Semi, _Rbrace, _EOF:
		if ctx.Scope == ScopeInterface {
			fn.Abstract = true
		} else if !fn.Annots.Has("native") {
			p.syntaxError(MsgExpectBlock)
		}
		p.endStmt()
	default:
		p.syntaxError(MsgExpectBlock)
		if p.scanner.Test(_Lbrace) {
			p.next()
			p.skipBlock()
		}
		p.skipLine()
	}
}

// ----------------------------------------------------------------------------
// Properties and indexers

// propertyDecl parses
//
//	property Name: Type [= Init]
//	property Name: Type => Expr
//	property Name: Type { get ... set ... }
func (p *Parser) propertyDecl(ctx ParseContext) *PropertyDecl {
	pr := &PropertyDecl{Static: ctx.Static, Access: ctx.Access, Owner: ctx.Class}
	pr.pos = p.pos
	p.next() // property

	pr.Name = p.name().Value
	if p.want(_Colon) {
		pr.Type = p.typeExpr()
	} else {
		pr.Type = NewTypeExpr(p.pos, "_", false)
	}

	switch p.tok {
	case _Assign:
		p.next()
		pr.Init = p.expr()
		pr.Simple = true
		p.endStmt()

	case _Arrow:
		pr.Getter = p.accessor(ctx, pr.Name, FuncGetter, pr.Type, nil)

	case _Lbrace, _EOL:
		if p.tok == _EOL && !p.scanner.Test(_Lbrace) {
			pr.Simple = ctx.Scope != ScopeInterface
			p.endStmt()
			break
		}
		p.skipEOL()
		p.next() // {
		auto := false
		for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
			p.skipSeparators()
			if p.tok != _Name || (p.lit != "get" && p.lit != "set") {
				if p.tok != _Rbrace {
					p.syntaxError("Expecting get or set")
					p.skipLine()
				}
				continue
			}
			isGet := p.lit == "get"
			p.next()
			if p.tok == _EOL || p.tok == _Semi || p.tok == _Rbrace {
				auto = true
				p.endStmt()
				continue
			}
			if isGet {
				pr.Getter = p.accessor(ctx, pr.Name, FuncGetter, pr.Type, nil)
			} else {
				pr.Setter = p.accessor(ctx, pr.Name, FuncSetter, pr.Type, nil)
			}
		}
		p.want(_Rbrace)
		p.endStmt()
		if auto {
			pr.Simple = ctx.Scope != ScopeInterface
			pr.Getter, pr.Setter = nil, nil
		}

	default:
		pr.Simple = ctx.Scope != ScopeInterface
		p.endStmt()
	}
	if pr.Getter != nil {
		pr.Getter.Property = pr
	}
	if pr.Setter != nil {
		pr.Setter.Property = pr
	}
	return pr
}

// accessor parses the body of a get or set accessor. key is the indexer
// key parameter, nil for properties.
func (p *Parser) accessor(ctx ParseContext, name string, kind FuncKind, typ *TypeExpr, key *Param) *FuncDecl {
	fn := p.newFunc(ctx, kind)
	fn.Name = name
	if key != nil {
		k := &Param{Name: key.Name, Type: NewTypeExpr(key.Type.Pos(), key.Type.Name, key.Type.Array), Func: fn}
		k.pos = key.pos
		fn.Params = append(fn.Params, k)
	}
	if kind == FuncGetter {
		fn.Result = NewTypeExpr(typ.Pos(), typ.Name, typ.Array)
	} else {
		v := &Param{Name: "value", Type: NewTypeExpr(typ.Pos(), typ.Name, typ.Array), Func: fn}
		v.pos = fn.pos
		fn.Params = append(fn.Params, v)
	}
	if ctx.Scope == ScopeInterface {
		fn.Abstract = true
	}

	// Accessor bodies may share a line: { get => x set => y }
	switch p.tok {
	case _Arrow:
		p.next()
		p.skipEOL()
		fn.Arrow = p.expr()
	case _Lbrace:
		fn.Body = p.block(ctx.WithFunc(fn))
	default:
		p.funcBody(ctx, fn)
		return fn
	}
	if p.tok == _EOL || p.tok == _Semi {
		p.next()
	}
	return fn
}

// indexerDecl parses [key: K]: T { get ... set ... }
func (p *Parser) indexerDecl(ctx ParseContext) *IndexerDecl {
	ix := &IndexerDecl{Owner: ctx.Class}
	ix.pos = p.pos
	p.next() // [

	key := &Param{}
	key.pos = p.pos
	key.Name = p.name().Value
	if p.want(_Colon) {
		key.Type = p.typeExpr()
	} else {
		key.Type = NewTypeExpr(p.pos, "_", false)
	}
	ix.Key = key
	p.want(_Rbrack)
	if p.want(_Colon) {
		ix.Result = p.typeExpr()
	} else {
		ix.Result = NewTypeExpr(p.pos, "_", false)
	}

	p.skipEOL()
	if !p.want(_Lbrace) {
		p.skipLine()
		return ix
	}
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		p.skipSeparators()
		if p.tok != _Name || (p.lit != "get" && p.lit != "set") {
			if p.tok != _Rbrace {
				p.syntaxError("Expecting get or set")
				p.skipLine()
			}
			continue
		}
		isGet := p.lit == "get"
		p.next()
		if isGet {
			ix.Getter = p.accessor(ctx, "index", FuncGetter, ix.Result, key)
			ix.Getter.Property = ix
		} else {
			ix.Setter = p.accessor(ctx, "index", FuncSetter, ix.Result, key)
			ix.Setter.Property = ix
		}
	}
	p.want(_Rbrace)
	p.endStmt()
	return ix
}

// ----------------------------------------------------------------------------
// Convenience entry points

// ParseString parses src and returns the file and the syntax errors found.
func ParseString(filename, src string) (*File, []*SyntaxError) {
	var errs []*SyntaxError
	p := NewParser(filename, strings.NewReader(src), func(err *SyntaxError) {
		errs = append(errs, err)
	})
	return p.Parse(), errs
}
