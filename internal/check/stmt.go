package check

import (
	"github.com/you-not-fish/runc/internal/diag"
	"github.com/you-not-fish/runc/internal/syntax"
	"github.com/you-not-fish/runc/internal/types"
)

func (c *Checker) block(b *syntax.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		c.stmt(s)
	}
}

func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.Block:
		c.block(s)

	case *syntax.DeclStmt:
		for _, v := range s.Vars {
			c.varDecl(v)
		}

	case *syntax.ExprStmt:
		c.expr(s.X)

	case *syntax.IfStmt:
		c.value(s.Cond)
		c.block(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}

	case *syntax.ForStmt:
		c.forStmt(s)

	case *syntax.SwitchStmt:
		tag := c.value(s.Tag)
		for _, cc := range s.Cases {
			for _, v := range cc.Values {
				t := c.value(v)
				if tag != nil && t != nil && !types.Compatible(tag, t) {
					c.errorf(v, token(v), "%s: %s and %s", diag.MsgIncompatible, tag.Name, t.Name)
				}
			}
			c.block(cc.Body)
		}

	case *syntax.ReturnStmt:
		c.returnStmt(s)

	case *syntax.GotoStmt:
		fn := syntax.EnclosingFunc(s)
		if l := c.labels[fn][s.Label]; l != nil {
			s.Target = l
			return
		}
		c.errorf(s, s.Label, "%s: %s", diag.MsgUnknownLabel, s.Label)

	case *syntax.DeferStmt:
		c.block(s.Body)

	case *syntax.DeleteStmt:
		for _, x := range s.Targets {
			t := c.value(x)
			if t != nil && !types.IsReference(t) && !t.IsArray() && t != c.u.Pointer {
				c.errorf(x, token(x), "%s: %s", diag.MsgInvalidDelete, t.Name)
			}
		}

	case *syntax.BranchStmt, *syntax.LabelStmt:
		// nothing to resolve
	}
}

func (c *Checker) forStmt(s *syntax.ForStmt) {
	switch s.Stage {
	case syntax.ForWhile:
		c.value(s.Cond)

	case syntax.ForClassic:
		if s.Init != nil {
			c.stmt(s.Init)
		}
		c.value(s.Cond)
		c.expr(s.Post)

	case syntax.ForCounter:
		if t := c.varDecl(s.Var); t != nil && !types.IsNumeric(t) {
			c.errorf(s.Var, s.Var.Name, diag.MsgRangeBounds)
		}

	case syntax.ForRange:
		if s.Range != nil {
			c.loopVar(s.Var, c.expr(s.Range))
			break
		}
		t := c.value(s.Seq)
		if t == nil {
			break
		}
		if !t.IsArray() {
			c.errorf(s.Seq, token(s.Seq), "%s: %s", diag.MsgNotIterable, t.Name)
			break
		}
		c.loopVar(s.Var, t.Elem)
	}
	c.block(s.Body)
}

// loopVar types the variable of a range loop from the values it takes.
func (c *Checker) loopVar(v *syntax.VarDecl, cls *syntax.ClassDecl) {
	if v == nil || v.Checked() {
		return
	}
	v.SetChecked()
	v.SetReal("_" + v.Name)
	if v.Type != nil {
		t := c.resolve(v.Type)
		if t != nil && cls != nil && !types.AssignableTo(cls, t) {
			c.errorf(v, v.Name, "%s: %s to %s", diag.MsgIncompatible, cls.Name, t.Name)
		}
		if t != nil {
			cls = t
		}
	}
	v.Class = cls
}

func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	fn := s.Func
	if fn == nil {
		fn = syntax.EnclosingFunc(s)
	}
	var want *syntax.ClassDecl
	if fn != nil && fn.Kind != syntax.FuncCtor && fn.Result != nil {
		want = c.resolve(fn.Result)
		if want == nil {
			c.value(s.Result)
			return
		}
	}
	switch {
	case s.Result == nil && want != nil:
		c.errorf(s, "return", "%s: %s", diag.MsgMissingReturn, want.Name)
	case s.Result != nil && want == nil:
		c.errorf(s.Result, token(s.Result), diag.MsgNoReturnValue)
	case s.Result != nil:
		if c.value(s.Result) != nil {
			c.convert(s.Result, want)
		}
	}
}

// collectLabels records the labels of fn, rejecting duplicates.
func (c *Checker) collectLabels(fn *syntax.FuncDecl) {
	labels := make(map[string]*syntax.LabelStmt)
	syntax.Inspect(fn.Body, func(n syntax.Node) bool {
		l, ok := n.(*syntax.LabelStmt)
		if !ok {
			return true
		}
		if labels[l.Label] != nil {
			c.errs.Forcef(l.Pos(), l.Label, "%s: %s", diag.MsgDuplicateLabel, l.Label)
			return true
		}
		labels[l.Label] = l
		return true
	})
	c.labels[fn] = labels
}
