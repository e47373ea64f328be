// Package desugar rewrites properties, indexers, operator overloads and
// implicit conversions into explicit calls. Every rewrite builds the
// replacement node, types it and installs it with syntax.Replace; the
// replaced node is detached from the tree.
//
// The validator decides when a rewrite applies and has already typed the
// operands it hands over.
package desugar

import (
	"github.com/you-not-fish/runc/internal/syntax"
)

// result returns the class a call of fn evaluates to, void for functions
// without result.
func result(fn *syntax.FuncDecl, void *syntax.ClassDecl) *syntax.ClassDecl {
	if fn.Kind == syntax.FuncCtor {
		return fn.Owner
	}
	if fn.Result == nil || fn.Result.Type() == nil {
		return void
	}
	return fn.Result.Type()
}

// install types and marks repl and replaces old by it. It returns false
// when old is not attached to a parent slot.
func install(old syntax.Node, repl syntax.Expr, typ *syntax.ClassDecl) bool {
	repl.SetType(typ)
	repl.SetChecked()
	if call, ok := repl.(*syntax.CallExpr); ok {
		call.Name.SetChecked()
	}
	return syntax.Replace(old, repl)
}

// Rewriter performs the rewrites. Void is the class given to calls of
// functions without result.
type Rewriter struct {
	Void *syntax.ClassDecl
}

// Getter replaces the property read x with a call of the property getter.
// recv is the receiver expression, nil for the implicit this or a static
// property.
func (r Rewriter) Getter(x syntax.Expr, recv syntax.Expr, prop *syntax.PropertyDecl) *syntax.CallExpr {
	call := syntax.NewCall(x.Pos(), recv, prop.Getter)
	if !install(x, call, result(prop.Getter, r.Void)) {
		return nil
	}
	return call
}

// Setter replaces the assignment a with a call of the property setter
// passing value.
func (r Rewriter) Setter(a *syntax.AssignExpr, recv syntax.Expr, prop *syntax.PropertyDecl, value syntax.Expr) *syntax.CallExpr {
	call := syntax.NewCall(a.Pos(), recv, prop.Setter, value)
	if !install(a, call, r.Void) {
		return nil
	}
	return call
}

// IndexGet replaces the indexer read ix with a call of the indexer getter.
func (r Rewriter) IndexGet(ix *syntax.IndexExpr, decl *syntax.IndexerDecl) *syntax.CallExpr {
	call := syntax.NewCall(ix.Pos(), ix.X, decl.Getter, ix.Index)
	if !install(ix, call, result(decl.Getter, r.Void)) {
		return nil
	}
	return call
}

// IndexSet replaces the assignment a, whose target is the indexer access
// ix, with a call of the indexer setter passing the key and value.
func (r Rewriter) IndexSet(a *syntax.AssignExpr, ix *syntax.IndexExpr, decl *syntax.IndexerDecl, value syntax.Expr) *syntax.CallExpr {
	call := syntax.NewCall(a.Pos(), ix.X, decl.Setter, ix.Index, value)
	if !install(a, call, r.Void) {
		return nil
	}
	return call
}

// Operator replaces the binary expression b with a call of the operator
// function op on the left operand.
func (r Rewriter) Operator(b *syntax.BinaryExpr, op *syntax.FuncDecl) *syntax.CallExpr {
	call := syntax.NewCall(b.Pos(), b.X, op, b.Y)
	if !install(b, call, result(op, r.Void)) {
		return nil
	}
	return call
}

// Implicit wraps x in a call of the implicit constructor ctor.
func (r Rewriter) Implicit(x syntax.Expr, ctor *syntax.FuncDecl) *syntax.NewExpr {
	pos := x.Pos()
	parent := x.Parent()
	if parent == nil {
		return nil
	}
	// x moves below the new node: detach it first so Replace finds the
	// slot through the placeholder.
	hole := syntax.NewName(pos, "_")
	if !syntax.Replace(x, hole) {
		return nil
	}
	n := syntax.NewNew(pos, ctor.Owner, ctor, x)
	if !install(hole, n, ctor.Owner) {
		return nil
	}
	return n
}

// Compound splits the compound assignment a (x op= y) into x = x op y and
// returns the new binary expression, or nil when x can not be duplicated.
// The caller validates the result.
func Compound(a *syntax.AssignExpr) *syntax.BinaryExpr {
	dup := Clone(a.X)
	if dup == nil {
		return nil
	}
	b := &syntax.BinaryExpr{Op: a.Op.Binary(), X: dup, Y: a.Y}
	b.SetPos(a.Pos())
	a.Op = syntax.Assign
	a.Y = b
	syntax.SetParents(a)
	return b
}

// Clone duplicates side-effect free access paths: names, this, base,
// literals and selectors over them. It returns nil for anything else.
// Resolution links are copied; types are left for the validator.
func Clone(x syntax.Expr) syntax.Expr {
	var c syntax.Expr
	switch x := x.(type) {
	case *syntax.Name:
		n := syntax.NewName(x.Pos(), x.Value)
		n.From = x.From
		c = n
	case *syntax.ThisExpr:
		t := &syntax.ThisExpr{}
		t.SetPos(x.Pos())
		c = t
	case *syntax.BaseExpr:
		b := &syntax.BaseExpr{}
		b.SetPos(x.Pos())
		c = b
	case *syntax.BasicLit:
		l := &syntax.BasicLit{Value: x.Value, Kind: x.Kind}
		l.SetPos(x.Pos())
		c = l
	case *syntax.SelectorExpr:
		inner := Clone(x.X)
		if inner == nil {
			return nil
		}
		s := &syntax.SelectorExpr{X: inner, Sel: Clone(x.Sel).(*syntax.Name)}
		s.SetPos(x.Pos())
		syntax.SetParents(s)
		c = s
	case *syntax.ParenExpr:
		inner := Clone(x.X)
		if inner == nil {
			return nil
		}
		p := &syntax.ParenExpr{X: inner}
		p.SetPos(x.Pos())
		syntax.SetParents(p)
		c = p
	default:
		return nil
	}
	return c
}
