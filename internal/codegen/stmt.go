package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/runc/internal/rtabi"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

// block writes b as a braced C block.
func (g *generator) block(b *syntax.Block) {
	g.e.open("{")
	g.blockStmts(b, false)
	g.e.close("}")
}

// blockStmts writes the statements of b. A block owning defers counts
// the defers reached in a stage variable and runs them, latest first,
// at its cleanup label. A return jumps to the innermost cleanup label;
// each cleanup passes it on to the next enclosing one. top marks the
// function body, whose cleanup falls through to the epilogue.
func (g *generator) blockStmts(b *syntax.Block, top bool) {
	if b == nil {
		return
	}
	deferred := b.DeferID > 0 && len(b.Defers) > 0
	if deferred {
		g.e.emit("int %s = 0;", rtabi.DeferStage(b.DeferID))
		g.defers = append(g.defers, b)
	}
	for _, s := range b.Stmts {
		g.stmt(s)
	}
	if !deferred {
		return
	}
	g.defers = g.defers[:len(g.defers)-1]
	g.e.emitLabel(rtabi.DeferLabel(b.DeferID))
	for k := len(b.Defers); k >= 1; k-- {
		g.e.open("if (%s >= %d) {", rtabi.DeferStage(b.DeferID), k)
		g.blockStmts(b.Defers[k-1].Body, false)
		g.e.close("}")
	}
	if !top {
		g.e.open("if (%s) {", rtabi.LocalReturning)
		g.e.emit("goto %s;", g.cleanup())
		g.e.close("}")
	}
}

// cleanup returns the label a return jumps to from the current position.
func (g *generator) cleanup() string {
	if n := len(g.defers); n > 0 {
		return rtabi.DeferLabel(g.defers[n-1].DeferID)
	}
	return rtabi.LabelDone
}

func (g *generator) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.Block:
		g.block(s)

	case *syntax.DeclStmt:
		for _, v := range s.Vars {
			g.e.emit("%s;", g.local(v))
		}

	case *syntax.ExprStmt:
		g.e.emit("%s;", g.stmtExpr(s.X))

	case *syntax.IfStmt:
		g.ifStmt(s, "if")

	case *syntax.ForStmt:
		g.forStmt(s)

	case *syntax.SwitchStmt:
		g.switchStmt(s)

	case *syntax.ReturnStmt:
		g.returnStmt(s)

	case *syntax.BranchStmt:
		if s.Tok == syntax.Break {
			g.e.emit("break;")
		} else {
			g.e.emit("continue;")
		}

	case *syntax.GotoStmt:
		g.e.emit("goto %s;", label(s.Label))

	case *syntax.LabelStmt:
		g.e.emit("%s:;", label(s.Label))

	case *syntax.DeferStmt:
		if s.Owner != nil {
			g.e.emit("%s = %d;", rtabi.DeferStage(s.Owner.DeferID), s.Ordinal)
		}

	case *syntax.DeleteStmt:
		for _, x := range s.Targets {
			g.e.emit("%s;", g.deleteExpr(x))
		}
	}
}

// label returns the C name of a source label.
func label(name string) string {
	return "_" + name
}

// local returns the declaration of a local variable.
func (g *generator) local(v *syntax.VarDecl) string {
	switch {
	case v.ArrayLen != nil:
		return g.declarator(v.Class, v.Real, v.ArrayLen) + " = {0}"
	case v.Init != nil:
		return cType(v.Class) + " " + v.Real + " = " + g.convert(v.Init, v.Class)
	}
	return cType(v.Class) + " " + v.Real + " = " + zeroValue(v.Class)
}

// ifStmt writes an if chain.
func (g *generator) ifStmt(s *syntax.IfStmt, kw string) {
	if kw == "if" {
		g.e.open("if (%s) {", g.cond(s.Cond))
	} else {
		g.e.indent--
		g.e.open("} else if (%s) {", g.cond(s.Cond))
	}
	g.blockStmts(s.Then, false)
	switch e := s.Else.(type) {
	case *syntax.IfStmt:
		g.ifStmt(e, "else if")
		return
	case *syntax.Block:
		g.e.indent--
		g.e.open("} else {")
		g.blockStmts(e, false)
	}
	g.e.close("}")
}

// cond returns a condition without redundant outer parentheses.
func (g *generator) cond(x syntax.Expr) string {
	s := g.expr(x)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && balanced(s[1:len(s)-1]) {
		return s[1 : len(s)-1]
	}
	return s
}

// balanced reports whether the parentheses in s pair up from left to
// right, ignoring string and character literals.
func balanced(s string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func (g *generator) forStmt(s *syntax.ForStmt) {
	switch s.Stage {
	case syntax.ForInfinite:
		g.e.open("while (1) {")
		g.blockStmts(s.Body, false)
		g.e.close("}")

	case syntax.ForWhile:
		g.e.open("while (%s) {", g.cond(s.Cond))
		g.blockStmts(s.Body, false)
		g.e.close("}")

	case syntax.ForClassic:
		var init, cond, post string
		switch in := s.Init.(type) {
		case *syntax.DeclStmt:
			if len(in.Vars) == 1 {
				init = g.local(in.Vars[0])
			} else {
				g.e.open("{")
				defer g.e.close("}")
				for _, v := range in.Vars {
					g.e.emit("%s;", g.local(v))
				}
			}
		case *syntax.ExprStmt:
			init = g.stmtExpr(in.X)
		}
		if s.Cond != nil {
			cond = g.cond(s.Cond)
		}
		if s.Post != nil {
			post = g.stmtExpr(s.Post)
		}
		g.e.open("for (%s; %s; %s) {", init, cond, post)
		g.blockStmts(s.Body, false)
		g.e.close("}")

	case syntax.ForCounter:
		g.e.open("for (%s;; %s++) {", g.local(s.Var), s.Var.Real)
		g.blockStmts(s.Body, false)
		g.e.close("}")

	case syntax.ForRange:
		if s.Range != nil {
			g.rangeLoop(s)
		} else {
			g.seqLoop(s)
		}
	}
}

// rangeLoop writes a loop over the half-open interval [Lo, Hi).
func (g *generator) rangeLoop(s *syntax.ForStmt) {
	cls, name := s.Range.Type(), ""
	if s.Var != nil {
		if s.Var.Class != nil {
			cls = s.Var.Class
		}
		name = s.Var.Real
	} else {
		name = g.e.nextTmp()
	}
	hi := g.e.nextTmp()
	g.e.open("for (%s %s = %s, %s = %s; %s < %s; %s++) {",
		cType(cls), name, g.expr(s.Range.Lo), hi, g.expr(s.Range.Hi), name, hi, name)
	g.blockStmts(s.Body, false)
	g.e.close("}")
}

// seqLoop writes a loop over the elements of an array.
func (g *generator) seqLoop(s *syntax.ForStmt) {
	seq, i := g.e.nextTmp(), g.e.nextTmp()
	elem := s.Seq.Type().Elem
	g.e.open("{")
	g.e.emit("%s* %s = %s;", rtabi.ArrayType, seq, g.expr(s.Seq))
	g.e.open("for (int %s = 0; %s < %s->len; %s++) {", i, i, seq, i)
	if s.Var != nil {
		cls := s.Var.Class
		if cls == nil {
			cls = elem
		}
		g.e.emit("%s %s = %s(%s, %s, %s);", cType(cls), s.Var.Real, rtabi.MacroAt, cType(elem), seq, i)
	}
	g.blockStmts(s.Body, false)
	g.e.close("}")
	g.e.close("}")
}

// switchStmt writes a switch as an if chain over a temporary holding the
// tag. The default clause goes last.
func (g *generator) switchStmt(s *syntax.SwitchStmt) {
	tag := g.e.nextTmp()
	t := s.Tag.Type()
	g.e.open("{")
	g.e.emit("%s %s = %s;", cType(t), tag, g.expr(s.Tag))

	var def *syntax.CaseClause
	first := true
	for _, cc := range s.Cases {
		if cc.Values == nil {
			def = cc
			continue
		}
		var tests []string
		for _, v := range cc.Values {
			if types.IsString(t) && types.IsString(v.Type()) {
				tests = append(tests, fmt.Sprintf("strcmp(%s, %s) == 0", tag, g.expr(v)))
			} else {
				tests = append(tests, fmt.Sprintf("%s == %s", tag, g.expr(v)))
			}
		}
		if first {
			g.e.open("if (%s) {", strings.Join(tests, " || "))
			first = false
		} else {
			g.e.indent--
			g.e.open("} else if (%s) {", strings.Join(tests, " || "))
		}
		g.blockStmts(cc.Body, false)
	}
	if def != nil {
		if first {
			g.e.open("{")
			first = false
		} else {
			g.e.indent--
			g.e.open("} else {")
		}
		g.blockStmts(def.Body, false)
	}
	if !first {
		g.e.close("}")
	}
	g.e.close("}")
}

func (g *generator) returnStmt(s *syntax.ReturnStmt) {
	fn := g.fn
	if !fn.HasDefers {
		if s.Result != nil && !hasResult(fn) {
			g.e.emit("%s;", g.stmtExpr(s.Result))
			s = &syntax.ReturnStmt{}
		}
		g.e.emit("%s", g.returnText(s.Result))
		return
	}
	switch {
	case s.Result != nil && hasResult(fn):
		g.e.emit("%s = %s;", rtabi.LocalResult, g.convert(s.Result, fn.Result.Type()))
	case s.Result != nil:
		g.e.emit("%s;", g.stmtExpr(s.Result))
	}
	g.e.emit("%s = 1;", rtabi.LocalReturning)
	g.e.emit("goto %s;", g.cleanup())
}

// deleteExpr returns the statement releasing x.
func (g *generator) deleteExpr(x syntax.Expr) string {
	t := x.Type()
	switch {
	case t != nil && t.IsArray():
		return fmt.Sprintf("%s(%s)", rtabi.FnArrayFree, g.expr(x))
	case isObject(t):
		return fmt.Sprintf("%s(%s)", rtabi.FnDelete, g.expr(x))
	}
	return fmt.Sprintf("free(%s)", g.expr(x))
}
