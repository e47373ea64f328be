package syntax

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() Expr {
	return p.binaryExpr(PrecNone)
}

// binaryExpr parses a binary expression with minimum precedence prec.
// Implements precedence climbing: the loop runs while the current token
// binds tighter than prec, rebinding the left operand each time.
// Binary operators are left-associative; assignment and the ternary
// operator are right-associative.
func (p *Parser) binaryExpr(prec Prec) Expr {
	x := p.unaryExpr()

	for {
		oprec := p.tok.Precedence()
		if oprec <= prec || oprec >= PrecUnary {
			return x
		}

		pos := x.Pos()
		op := p.tok
		p.next() // consume operator

		switch {
		case op.IsAssignOp():
			p.skipEOL()
			a := &AssignExpr{Op: op, X: x}
			a.pos = pos
			a.Y = p.binaryExpr(oprec - 1)
			x = a

		case op == _Question:
			p.skipEOL()
			t := &TernaryExpr{Cond: x}
			t.pos = pos
			t.X = p.binaryExpr(PrecNone)
			p.skipEOL()
			p.want(_Colon)
			p.skipEOL()
			t.Y = p.binaryExpr(oprec - 1)
			x = t

		case op == _Range:
			r := &RangeExpr{Lo: x}
			r.pos = pos
			r.Hi = p.binaryExpr(oprec)
			x = r

		case op == _As:
			a := &AsExpr{X: x}
			a.pos = pos
			a.To = p.typeExpr()
			x = a

		case op == _Is:
			i := &IsExpr{X: x}
			i.pos = pos
			i.To = p.typeExpr()
			x = i

		default:
			p.skipEOL()
			b := &BinaryExpr{Op: op, X: x}
			b.pos = pos
			b.Y = p.binaryExpr(oprec)
			x = b
		}
	}
}

// unaryExpr parses a unary expression.
func (p *Parser) unaryExpr() Expr {
	switch p.tok {
	case _Not, _Sub, _Inc, _Dec:
		u := &UnaryExpr{Op: p.tok}
		u.pos = p.pos
		p.next()
		u.X = p.unaryExpr()
		return u

	case _Ref:
		r := &RefExpr{}
		r.pos = p.pos
		p.next()
		r.X = p.unaryExpr()
		return r

	default:
		return p.primaryExpr()
	}
}

// parenOperand parses ( expr ).
func (p *Parser) parenOperand() Expr {
	p.want(_Lparen)
	p.skipEOL()
	x := p.expr()
	p.skipEOL()
	p.want(_Rparen)
	return x
}

// primaryExpr parses primary expressions and postfix operations.
func (p *Parser) primaryExpr() Expr {
	x := p.operand()

	// Parse postfix operations: calls, index, selector, ++ and --
	for {
		switch p.tok {
		case _Lparen: // function call
			x = p.callExpr(x)

		case _Lbrack: // index expression
			x = p.indexExpr(x)

		case _Dot: // selector expression
			x = p.selectorExpr(x)

		case _Inc, _Dec:
			u := &UnaryExpr{Op: p.tok, X: x, Postfix: true}
			u.pos = x.Pos()
			p.next()
			x = u

		default:
			return x
		}
	}
}

// operand parses an operand (the base of primary expressions). The
// special forms new, scope, sizeof, typeof and cast are operands, so
// postfix operations apply to their results.
func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name:
		n := NewName(p.pos, p.lit)
		p.next()
		return n

	case _Literal:
		lit := &BasicLit{Value: p.lit, Kind: p.scanner.LitKind()}
		lit.pos = p.pos
		p.next()
		return lit

	case _True, _False:
		lit := &BasicLit{Value: p.lit, Kind: BoolLit}
		lit.pos = p.pos
		p.next()
		return lit

	case _Null:
		lit := &BasicLit{Value: "null", Kind: NullLit}
		lit.pos = p.pos
		p.next()
		return lit

	case _This:
		t := &ThisExpr{}
		t.pos = p.pos
		p.next()
		return t

	case _Base:
		b := &BaseExpr{}
		b.pos = p.pos
		p.next()
		return b

	case _New:
		return p.newExpr()

	case _Scope:
		return p.scopeExpr()

	case _Sizeof:
		s := &SizeofExpr{}
		s.pos = p.pos
		p.next()
		s.X = p.parenOperand()
		return s

	case _Typeof:
		t := &TypeofExpr{}
		t.pos = p.pos
		p.next()
		t.X = p.parenOperand()
		return t

	case _Cast:
		c := &CastExpr{}
		c.pos = p.pos
		p.next()
		p.want(_Lparen)
		c.To = p.typeExpr()
		p.want(_Comma)
		p.skipEOL()
		c.X = p.expr()
		p.want(_Rparen)
		return c

	case _Lparen: // parenthesized expression
		pos := p.pos
		x := p.parenOperand()
		paren := &ParenExpr{X: x}
		paren.pos = pos
		return paren

	default:
		p.syntaxError(MsgExpectExpr)
		return NewName(p.pos, "_") // error recovery
	}
}

// callExpr parses Fun(args...). The callee must be a name, optionally
// qualified by a receiver: f(x) or a.f(x).
func (p *Parser) callExpr(fun Expr) Expr {
	call := &CallExpr{}
	call.pos = fun.Pos()

	switch f := fun.(type) {
	case *Name:
		call.Name = f
	case *SelectorExpr:
		call.Caller = f.X
		call.Name = f.Sel
	default:
		p.syntaxErrorAt(fun.Pos(), "(", MsgExpectName)
		call.Name = NewName(fun.Pos(), "_")
	}

	call.Args = p.args()
	return call
}

// indexExpr parses X[Index]
func (p *Parser) indexExpr(x Expr) Expr {
	idx := &IndexExpr{X: x}
	idx.pos = x.Pos()

	p.want(_Lbrack)
	p.skipEOL()
	idx.Index = p.expr()
	if p.tok == _Comma {
		p.syntaxError(MsgDoubleArray)
		p.next()
		p.expr()
	}
	p.skipEOL()
	p.want(_Rbrack)
	if p.tok == _Lbrack {
		p.syntaxError(MsgDoubleArray)
	}

	return idx
}

// selectorExpr parses X.Sel
func (p *Parser) selectorExpr(x Expr) Expr {
	sel := &SelectorExpr{X: x}
	sel.pos = x.Pos()

	p.want(_Dot)
	sel.Sel = p.name()

	return sel
}

// newExpr parses new T(args), new T[len] and new T.
func (p *Parser) newExpr() Expr {
	n := &NewExpr{}
	n.pos = p.pos
	p.want(_New)

	pos := p.pos
	if p.tok != _Name {
		p.syntaxError(MsgExpectType)
		n.To = NewTypeExpr(pos, "_", false)
		return n
	}
	n.To = NewTypeExpr(pos, p.lit, false)
	p.next()

	switch p.tok {
	case _Lbrack:
		p.next()
		n.To.Array = true
		p.skipEOL()
		n.Len = p.expr()
		p.skipEOL()
		p.want(_Rbrack)
		if p.tok == _Lbrack {
			p.syntaxError(MsgDoubleArray)
		}
	case _Lparen:
		n.Args = p.args()
	}
	return n
}

// scopeExpr parses scope T: a stack allocation of T using its
// no-argument constructor.
func (p *Parser) scopeExpr() Expr {
	n := &NewExpr{Scoped: true}
	n.pos = p.pos
	p.want(_Scope)

	pos := p.pos
	name := p.name()
	n.To = NewTypeExpr(pos, name.Value, false)
	if p.tok == _Lparen {
		if args := p.args(); len(args) > 0 {
			p.syntaxErrorAt(pos, name.Value, "scope allocation takes no arguments")
		}
	}
	return n
}
