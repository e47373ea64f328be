package syntax

import "fmt"

// ----------------------------------------------------------------------------
// Statements

// block parses { stmts... } with ctx as the enclosing context.
func (p *Parser) block(ctx ParseContext) *Block {
	b := &Block{}
	b.pos = p.pos

	p.skipEOL()
	if !p.want(_Lbrace) {
		p.skipLine()
		return b
	}
	p.stmtList(ctx.WithBlock(b), b)
	b.Rbrace = p.pos
	p.want(_Rbrace)
	return b
}

// stmtList parses statements into b until '}' or EOF.
func (p *Parser) stmtList(ctx ParseContext, b *Block) {
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		p.skipSeparators()
		if p.tok == _Rbrace || p.tok == _EOF {
			break
		}
		if s := p.stmt(ctx); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
}

// wrap returns a synthesized block holding the single statement parsed
// by f. Used for `=> stmt` bodies.
func (p *Parser) wrap(ctx ParseContext, f func(ParseContext) Stmt) *Block {
	b := &Block{}
	b.pos = p.pos
	if s := f(ctx.WithBlock(b)); s != nil {
		b.Stmts = []Stmt{s}
	}
	b.Rbrace = p.pos
	return b
}

// body parses either { block } or => stmt. It reports whether the arrow
// form was used, in which case the statement terminator is consumed.
func (p *Parser) body(ctx ParseContext) (*Block, bool) {
	if p.got(_Arrow) {
		p.skipEOL()
		return p.wrap(ctx, p.stmt), true
	}
	return p.block(ctx), false
}

// stmt parses a statement. Statement parsers consume their terminator.
func (p *Parser) stmt(ctx ParseContext) Stmt {
	switch p.tok {
	case _Lbrace:
		b := p.block(ctx)
		p.endStmt()
		return b

	case _Var, _Const:
		return p.declStmt(ctx)

	case _If:
		return p.ifStmt(ctx)

	case _For:
		return p.forStmt(ctx)

	case _Switch:
		return p.switchStmt(ctx)

	case _Return:
		return p.returnStmt(ctx)

	case _Break, _Continue:
		return p.branchStmt(ctx)

	case _Goto:
		return p.gotoStmt()

	case _Defer:
		return p.deferStmt(ctx)

	case _Delete:
		return p.deleteStmt()

	case _At:
		a := p.annotation()
		p.syntaxErrorAt(a.Pos, "@"+a.Name, MsgAnnotInFunc)
		p.skipSeparators()
		return nil

	case _Name:
		if p.scanner.Test(_Colon) {
			return p.labelStmt()
		}

	case _Func, _Class, _Type, _Interface, _Enum, _Property, _Operator, _Using, _Extension,
		_Public, _Private, _Protected, _Internal, _Static:
		p.syntaxError(fmt.Sprintf("'%s' is not allowed in %s scope", p.lit, ctx.Scope))
		p.skipLine()
		return nil
	}
	return p.simpleStmt()
}

// simpleStmt parses an expression statement.
func (p *Parser) simpleStmt() Stmt {
	s := &ExprStmt{}
	s.pos = p.pos
	s.X = p.expr()
	p.endStmt()
	return s
}

// declStmt parses var/const inside a function body.
func (p *Parser) declStmt(ctx ParseContext) Stmt {
	s := &DeclStmt{}
	s.pos = p.pos
	for _, d := range p.varDecls(ctx.Reset()) {
		s.Vars = append(s.Vars, d.(*VarDecl))
	}
	return s
}

// ifStmt parses
//
//	if cond { then } [else { else } | else if ...]
//	if cond => stmt [else ...]
func (p *Parser) ifStmt(ctx ParseContext) Stmt {
	s := &IfStmt{}
	s.pos = p.pos

	p.want(_If)
	s.Cond = p.expr()
	then, arrow := p.body(ctx)
	s.Then = then

	if !arrow && p.peekEOL(_Else) {
		p.next()
	}
	if p.got(_Else) {
		if p.tok == _If {
			s.Else = p.ifStmt(ctx) // else if
			return s
		}
		var els *Block
		els, arrow = p.body(ctx)
		s.Else = els
	}
	if !arrow {
		p.endStmt()
	}
	return s
}

// forStmt parses the five loop forms. The form is recorded in Stage.
func (p *Parser) forStmt(ctx ParseContext) Stmt {
	s := &ForStmt{}
	s.pos = p.pos
	p.want(_For)

	switch {
	case p.tok == _Lbrace:
		s.Stage = ForInfinite

	case p.tok == _Var:
		p.next()
		v := p.varSpec(ctx.Reset(), false)
		switch r := v.Init.(type) {
		case *RangeExpr:
			s.Stage = ForRange
			s.Range = r
			v.Init = nil
			s.Var = v
		default:
			if p.tok == _Semi {
				init := &DeclStmt{Vars: []*VarDecl{v}}
				init.pos = v.Pos()
				s.Init = init
				p.classicTail(s)
			} else {
				s.Stage = ForCounter
				s.Var = v
			}
		}

	case p.tok == _Semi:
		p.classicTail(s)

	case p.tok == _Name && p.scanner.Test(_In):
		v := &VarDecl{}
		v.pos = p.pos
		v.Name = p.lit
		p.next() // name
		p.next() // in
		s.Stage = ForRange
		s.Var = v
		x := p.expr()
		if r, ok := x.(*RangeExpr); ok {
			s.Range = r
		} else {
			s.Seq = x
		}

	default:
		x := p.expr()
		switch {
		case p.tok == _Semi:
			init := &ExprStmt{X: x}
			init.pos = x.Pos()
			s.Init = init
			p.classicTail(s)
		case isRange(x):
			s.Stage = ForRange
			s.Range = x.(*RangeExpr)
		default:
			s.Stage = ForWhile
			s.Cond = x
		}
	}

	s.Body = p.block(ctx.WithLoop())
	p.endStmt()
	return s
}

func isRange(x Expr) bool {
	_, ok := x.(*RangeExpr)
	return ok
}

// classicTail parses "; cond; post" after the init clause.
func (p *Parser) classicTail(s *ForStmt) {
	s.Stage = ForClassic
	p.want(_Semi)
	if p.tok != _Semi {
		s.Cond = p.expr()
	}
	p.want(_Semi)
	if p.tok != _Lbrace {
		s.Post = p.expr()
	}
}

// switchStmt parses
//
//	switch tag {
//	case a, b => stmt
//	case c { stmts }
//	default => stmt
//	}
func (p *Parser) switchStmt(ctx ParseContext) Stmt {
	s := &SwitchStmt{}
	s.pos = p.pos
	p.want(_Switch)
	s.Tag = p.expr()

	p.skipEOL()
	if !p.want(_Lbrace) {
		p.skipLine()
		return s
	}
	for !p.abort && p.tok != _Rbrace && p.tok != _EOF {
		p.skipSeparators()
		c := &CaseClause{}
		c.pos = p.pos
		switch p.tok {
		case _Case:
			p.next()
			for {
				c.Values = append(c.Values, p.expr())
				if !p.got(_Comma) {
					break
				}
				p.skipEOL()
			}
		case _Default:
			p.next()
		case _Rbrace:
			continue
		default:
			p.syntaxError("Expecting case or default")
			p.skipLine()
			continue
		}
		p.got(_Colon)
		body, arrow := p.body(ctx.WithSwitch())
		c.Body = body
		if !arrow && p.tok != _Rbrace {
			p.endStmt()
		}
		s.Cases = append(s.Cases, c)
	}
	p.want(_Rbrace)
	p.endStmt()
	return s
}

// returnStmt parses: return [expr]
func (p *Parser) returnStmt(ctx ParseContext) Stmt {
	s := &ReturnStmt{Func: ctx.Func}
	s.pos = p.pos
	p.want(_Return)

	// Optional return value (check for statement terminators)
	if p.tok != _EOL && p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}
	p.endStmt()
	return s
}

// branchStmt parses: break or continue
func (p *Parser) branchStmt(ctx ParseContext) Stmt {
	s := &BranchStmt{Tok: p.tok}
	s.pos = p.pos
	if !ctx.Loop {
		p.syntaxError(fmt.Sprintf("'%s' is only allowed inside a loop", p.lit))
	}
	p.next()
	p.endStmt()
	return s
}

// gotoStmt parses: goto Label
func (p *Parser) gotoStmt() Stmt {
	s := &GotoStmt{}
	s.pos = p.pos
	p.want(_Goto)
	s.Label = p.name().Value
	p.endStmt()
	return s
}

// labelStmt parses: Label:
func (p *Parser) labelStmt() Stmt {
	s := &LabelStmt{Label: p.lit}
	s.pos = p.pos
	p.next() // name
	p.next() // :
	p.skipSeparators()
	return s
}

// deferStmt parses defer { block } or defer expr. The defer is attached to
// the innermost block, which gets a compilation-wide id on its first defer.
func (p *Parser) deferStmt(ctx ParseContext) Stmt {
	s := &DeferStmt{Owner: ctx.Block}
	s.pos = p.pos
	p.want(_Defer)

	if p.tok == _Lbrace {
		s.Body = p.block(ctx)
		p.endStmt()
	} else {
		s.Body = p.wrap(ctx, func(ParseContext) Stmt { return p.simpleStmt() })
	}

	if b := ctx.Block; b != nil {
		if b.DeferID == 0 {
			b.DeferID = p.defers.Next()
		}
		b.Defers = append(b.Defers, s)
		s.Ordinal = len(b.Defers)
	}
	if ctx.Func != nil {
		ctx.Func.HasDefers = true
	}
	return s
}

// deleteStmt parses delete a, b or delete(a, b).
func (p *Parser) deleteStmt() Stmt {
	s := &DeleteStmt{}
	s.pos = p.pos
	p.want(_Delete)

	if p.tok == _Lparen {
		s.Targets = p.args()
	} else {
		for {
			s.Targets = append(s.Targets, p.expr())
			if !p.got(_Comma) {
				break
			}
		}
	}
	p.endStmt()
	return s
}
