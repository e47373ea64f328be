package syntax

// Replace installs repl in the parent slot currently holding old.
// On success repl's parent becomes old's parent, old is detached, and
// parent links below repl are refreshed. Replace reports false when old
// has no parent, the parent has no slot holding old, or repl does not fit
// the slot's type.
//
// Replace is the only operation that rewrites a parsed tree.
func Replace(old, repl Node) bool {
	if old == nil || repl == nil {
		return false
	}
	parent := old.Parent()
	if parent == nil || !replaceChild(parent, old, repl) {
		return false
	}
	repl.setParent(parent)
	old.setParent(nil)
	SetParents(repl)
	return true
}

// swap replaces *slot with repl when *slot is old.
func swap[T Node](slot *T, old, repl Node) bool {
	if Node(*slot) != old {
		return false
	}
	r, ok := repl.(T)
	if !ok {
		return false
	}
	*slot = r
	return true
}

// swapIn replaces the element of list equal to old.
func swapIn[T Node](list []T, old, repl Node) bool {
	for i := range list {
		if swap(&list[i], old, repl) {
			return true
		}
	}
	return false
}

func replaceChild(parent, old, repl Node) bool {
	switch p := parent.(type) {
	case *File:
		return swapIn(p.Decls, old, repl) || swapIn(p.Usings, old, repl)
	case *ClassDecl:
		return swapIn(p.Members, old, repl)
	case *ExtensionDecl:
		return swapIn(p.Members, old, repl)
	case *EnumMember:
		return swap(&p.Value, old, repl)
	case *FuncDecl:
		return swapIn(p.Params, old, repl) || swap(&p.Result, old, repl) ||
			swapIn(p.InitArgs, old, repl) || swap(&p.Body, old, repl) || swap(&p.Arrow, old, repl)
	case *Param:
		return swap(&p.Type, old, repl)
	case *VarDecl:
		return swap(&p.Type, old, repl) || swap(&p.ArrayLen, old, repl) || swap(&p.Init, old, repl)
	case *PropertyDecl:
		return swap(&p.Type, old, repl) || swap(&p.Init, old, repl) ||
			swap(&p.Getter, old, repl) || swap(&p.Setter, old, repl)
	case *IndexerDecl:
		return swap(&p.Key, old, repl) || swap(&p.Result, old, repl) ||
			swap(&p.Getter, old, repl) || swap(&p.Setter, old, repl)
	case *Block:
		return swapIn(p.Stmts, old, repl)
	case *DeclStmt:
		return swapIn(p.Vars, old, repl)
	case *ExprStmt:
		return swap(&p.X, old, repl)
	case *IfStmt:
		return swap(&p.Cond, old, repl) || swap(&p.Then, old, repl) || swap(&p.Else, old, repl)
	case *ForStmt:
		return swap(&p.Init, old, repl) || swap(&p.Var, old, repl) || swap(&p.Cond, old, repl) ||
			swap(&p.Post, old, repl) || swap(&p.Range, old, repl) || swap(&p.Seq, old, repl) ||
			swap(&p.Body, old, repl)
	case *SwitchStmt:
		return swap(&p.Tag, old, repl) || swapIn(p.Cases, old, repl)
	case *CaseClause:
		return swapIn(p.Values, old, repl) || swap(&p.Body, old, repl)
	case *ReturnStmt:
		return swap(&p.Result, old, repl)
	case *DeferStmt:
		return swap(&p.Body, old, repl)
	case *DeleteStmt:
		return swapIn(p.Targets, old, repl)
	case *BinaryExpr:
		return swap(&p.X, old, repl) || swap(&p.Y, old, repl)
	case *AssignExpr:
		return swap(&p.X, old, repl) || swap(&p.Y, old, repl)
	case *UnaryExpr:
		return swap(&p.X, old, repl)
	case *TernaryExpr:
		return swap(&p.Cond, old, repl) || swap(&p.X, old, repl) || swap(&p.Y, old, repl)
	case *SelectorExpr:
		return swap(&p.X, old, repl) || swap(&p.Sel, old, repl)
	case *CallExpr:
		return swap(&p.Caller, old, repl) || swap(&p.Name, old, repl) || swapIn(p.Args, old, repl)
	case *IndexExpr:
		return swap(&p.X, old, repl) || swap(&p.Index, old, repl)
	case *CastExpr:
		return swap(&p.To, old, repl) || swap(&p.X, old, repl)
	case *AsExpr:
		return swap(&p.X, old, repl) || swap(&p.To, old, repl)
	case *IsExpr:
		return swap(&p.X, old, repl) || swap(&p.To, old, repl)
	case *SizeofExpr:
		return swap(&p.X, old, repl)
	case *TypeofExpr:
		return swap(&p.X, old, repl)
	case *RefExpr:
		return swap(&p.X, old, repl)
	case *NewExpr:
		return swap(&p.To, old, repl) || swapIn(p.Args, old, repl) || swap(&p.Len, old, repl)
	case *RangeExpr:
		return swap(&p.Lo, old, repl) || swap(&p.Hi, old, repl)
	case *ParenExpr:
		return swap(&p.X, old, repl)
	}
	return false
}
