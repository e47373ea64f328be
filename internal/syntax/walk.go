package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// Only ownership edges are followed; links such as Name.From are not.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}
	eachChild(node, func(child Node) {
		Walk(child, v)
	})
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// SetParents installs parent links for every node below root.
func SetParents(root Node) {
	eachChild(root, func(child Node) {
		child.setParent(root)
		SetParents(child)
	})
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var list []Node
	eachChild(n, func(child Node) {
		list = append(list, child)
	})
	return list
}

// eachChild calls f for every non-nil child slot of n.
func eachChild(n Node, f func(Node)) {
	x := func(e Expr) {
		if e != nil {
			f(e)
		}
	}
	xs := func(list []Expr) {
		for _, e := range list {
			x(e)
		}
	}
	typ := func(t *TypeExpr) {
		if t != nil {
			f(t)
		}
	}
	block := func(b *Block) {
		if b != nil {
			f(b)
		}
	}
	fn := func(d *FuncDecl) {
		if d != nil {
			f(d)
		}
	}

	switch n := n.(type) {
	case *File:
		for _, u := range n.Usings {
			f(u)
		}
		for _, d := range n.Decls {
			f(d)
		}

	case *UsingDecl:
		// leaf

	case *ClassDecl:
		for _, m := range n.Members {
			f(m)
		}

	case *EnumMember:
		x(n.Value)

	case *ExtensionDecl:
		for _, m := range n.Members {
			f(m)
		}

	case *FuncDecl:
		for _, p := range n.Params {
			f(p)
		}
		typ(n.Result)
		xs(n.InitArgs)
		block(n.Body)
		x(n.Arrow)

	case *Param:
		typ(n.Type)

	case *VarDecl:
		typ(n.Type)
		x(n.ArrayLen)
		x(n.Init)

	case *PropertyDecl:
		typ(n.Type)
		x(n.Init)
		fn(n.Getter)
		fn(n.Setter)

	case *IndexerDecl:
		if n.Key != nil {
			f(n.Key)
		}
		typ(n.Result)
		fn(n.Getter)
		fn(n.Setter)

	case *Block:
		for _, s := range n.Stmts {
			f(s)
		}

	case *DeclStmt:
		for _, v := range n.Vars {
			f(v)
		}

	case *ExprStmt:
		x(n.X)

	case *IfStmt:
		x(n.Cond)
		block(n.Then)
		if n.Else != nil {
			f(n.Else)
		}

	case *ForStmt:
		if n.Init != nil {
			f(n.Init)
		}
		if n.Var != nil {
			f(n.Var)
		}
		x(n.Cond)
		x(n.Post)
		if n.Range != nil {
			f(n.Range)
		}
		x(n.Seq)
		block(n.Body)

	case *SwitchStmt:
		x(n.Tag)
		for _, c := range n.Cases {
			f(c)
		}

	case *CaseClause:
		xs(n.Values)
		block(n.Body)

	case *ReturnStmt:
		x(n.Result)

	case *DeferStmt:
		block(n.Body)

	case *DeleteStmt:
		xs(n.Targets)

	case *BinaryExpr:
		x(n.X)
		x(n.Y)

	case *AssignExpr:
		x(n.X)
		x(n.Y)

	case *UnaryExpr:
		x(n.X)

	case *TernaryExpr:
		x(n.Cond)
		x(n.X)
		x(n.Y)

	case *SelectorExpr:
		x(n.X)
		if n.Sel != nil {
			f(n.Sel)
		}

	case *CallExpr:
		x(n.Caller)
		if n.Name != nil {
			f(n.Name)
		}
		xs(n.Args)

	case *IndexExpr:
		x(n.X)
		x(n.Index)

	case *CastExpr:
		typ(n.To)
		x(n.X)

	case *AsExpr:
		x(n.X)
		typ(n.To)

	case *IsExpr:
		x(n.X)
		typ(n.To)

	case *SizeofExpr:
		x(n.X)

	case *TypeofExpr:
		x(n.X)

	case *RefExpr:
		x(n.X)

	case *NewExpr:
		typ(n.To)
		xs(n.Args)
		x(n.Len)

	case *RangeExpr:
		x(n.Lo)
		x(n.Hi)

	case *ParenExpr:
		x(n.X)

	// Leaf nodes: Name, BasicLit, ThisExpr, BaseExpr, TypeExpr,
	// BranchStmt, GotoStmt, LabelStmt
	}
}

// Enclosing returns the nearest ancestor of n (n excluded) satisfying pred.
func Enclosing(n Node, pred func(Node) bool) Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if pred(p) {
			return p
		}
	}
	return nil
}

// EnclosingFunc returns the function containing n, or nil.
func EnclosingFunc(n Node) *FuncDecl {
	if f, ok := Enclosing(n, func(p Node) bool { _, ok := p.(*FuncDecl); return ok }).(*FuncDecl); ok {
		return f
	}
	return nil
}

// EnclosingClass returns the class containing n, or nil.
func EnclosingClass(n Node) *ClassDecl {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p := p.(type) {
		case *ClassDecl:
			return p
		case *FuncDecl:
			if p.Owner != nil {
				return p.Owner
			}
		}
	}
	return nil
}

// EnclosingFile returns the module containing n, or nil.
func EnclosingFile(n Node) *File {
	for p := Node(n); p != nil; p = p.Parent() {
		if f, ok := p.(*File); ok {
			return f
		}
	}
	return nil
}
