package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w, one node per
// line, children indented below their parent.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}
	kind, attrs := describe(node)
	if attrs != "" {
		p.printf("%s %s %s\n", kind, attrs, node.Pos())
	} else {
		p.printf("%s %s\n", kind, node.Pos())
	}
	p.indent++
	eachChild(node, p.print)
	p.indent--
}

// NodeKind returns the type name of a node, e.g. "CallExpr".
func NodeKind(n Node) string {
	kind, _ := describe(n)
	return kind
}

// describe returns the node's kind and its non-child attributes.
func describe(node Node) (string, string) {
	switch n := node.(type) {
	case *File:
		return "File", quote(n.Path)
	case *UsingDecl:
		return "UsingDecl", strings.TrimSpace(quote(n.Path) + " " + n.Nick)
	case *ClassDecl:
		s := n.Kind.String() + " " + n.Name
		if n.BaseName != "" {
			s += " : " + n.BaseName
		}
		if len(n.IfaceNames) > 0 {
			s += " [" + strings.Join(n.IfaceNames, ", ") + "]"
		}
		return "ClassDecl", s + annots(n.Annots)
	case *EnumMember:
		return "EnumMember", n.Name
	case *ExtensionDecl:
		return "ExtensionDecl", n.Name
	case *FuncDecl:
		s := n.Kind.String() + " " + n.Name
		if n.Static {
			s = "static " + s
		}
		if n.Variadic {
			s += " variadic"
		}
		if n.HasDefers {
			s += " defers"
		}
		return "FuncDecl", s + annots(n.Annots)
	case *Param:
		s := n.Name
		switch {
		case n.Variadic:
			s = "..." + s
		case n.Member:
			s = "." + s
		}
		return "Param", s
	case *VarDecl:
		s := n.Name
		if n.Const {
			s = "const " + s
		}
		if n.Static {
			s = "static " + s
		}
		return "VarDecl", s
	case *PropertyDecl:
		s := n.Name
		if n.Simple {
			s += " simple"
		}
		return "PropertyDecl", s
	case *IndexerDecl:
		return "IndexerDecl", ""
	case *Block:
		if n.DeferID != 0 {
			return "Block", fmt.Sprintf("defer#%d", n.DeferID)
		}
		return "Block", ""
	case *DeclStmt:
		return "DeclStmt", ""
	case *ExprStmt:
		return "ExprStmt", ""
	case *IfStmt:
		return "IfStmt", ""
	case *ForStmt:
		return "ForStmt", n.Stage.String()
	case *SwitchStmt:
		return "SwitchStmt", ""
	case *CaseClause:
		if n.Values == nil {
			return "CaseClause", "default"
		}
		return "CaseClause", ""
	case *ReturnStmt:
		return "ReturnStmt", ""
	case *BranchStmt:
		return "BranchStmt", n.Tok.String()
	case *GotoStmt:
		return "GotoStmt", n.Label
	case *LabelStmt:
		return "LabelStmt", n.Label
	case *DeferStmt:
		return "DeferStmt", fmt.Sprintf("#%d", n.Ordinal)
	case *DeleteStmt:
		return "DeleteStmt", ""
	case *Name:
		return "Name", n.Value
	case *BasicLit:
		return "BasicLit", n.Kind.String() + " " + n.Value
	case *ThisExpr:
		return "ThisExpr", ""
	case *BaseExpr:
		return "BaseExpr", ""
	case *BinaryExpr:
		return "BinaryExpr", n.Op.String()
	case *AssignExpr:
		return "AssignExpr", n.Op.String()
	case *UnaryExpr:
		if n.Postfix {
			return "UnaryExpr", "postfix " + n.Op.String()
		}
		return "UnaryExpr", n.Op.String()
	case *TernaryExpr:
		return "TernaryExpr", ""
	case *SelectorExpr:
		return "SelectorExpr", ""
	case *CallExpr:
		return "CallExpr", ""
	case *IndexExpr:
		return "IndexExpr", ""
	case *CastExpr:
		return "CastExpr", ""
	case *AsExpr:
		return "AsExpr", ""
	case *IsExpr:
		return "IsExpr", ""
	case *SizeofExpr:
		return "SizeofExpr", ""
	case *TypeofExpr:
		return "TypeofExpr", ""
	case *RefExpr:
		return "RefExpr", ""
	case *NewExpr:
		if n.Scoped {
			return "NewExpr", "scope"
		}
		return "NewExpr", ""
	case *RangeExpr:
		return "RangeExpr", ""
	case *ParenExpr:
		return "ParenExpr", ""
	case *TypeExpr:
		return "TypeExpr", n.String()
	}
	return fmt.Sprintf("%T", node), ""
}

func quote(s string) string {
	if s == "" {
		return ""
	}
	return `"` + s + `"`
}

func annots(as Annotations) string {
	var b strings.Builder
	for _, a := range as {
		b.WriteString(" @" + a.Name)
		if a.Arg != "" {
			b.WriteString("(" + quote(a.Arg) + ")")
		}
	}
	return b.String()
}

// ExprString returns a compact source-like rendering of an expression,
// used in diagnostics.
func ExprString(x Expr) string {
	switch x := x.(type) {
	case nil:
		return ""
	case *Name:
		return x.Value
	case *BasicLit:
		switch x.Kind {
		case StringLit:
			return `"` + x.Value + `"`
		}
		return x.Value
	case *ThisExpr:
		return "this"
	case *BaseExpr:
		return "base"
	case *BinaryExpr:
		return ExprString(x.X) + " " + x.Op.String() + " " + ExprString(x.Y)
	case *AssignExpr:
		return ExprString(x.X) + " " + x.Op.String() + " " + ExprString(x.Y)
	case *UnaryExpr:
		if x.Postfix {
			return ExprString(x.X) + x.Op.String()
		}
		return x.Op.String() + ExprString(x.X)
	case *TernaryExpr:
		return ExprString(x.Cond) + " ? " + ExprString(x.X) + " : " + ExprString(x.Y)
	case *SelectorExpr:
		return ExprString(x.X) + "." + x.Sel.Value
	case *CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = ExprString(a)
		}
		s := x.Name.Value + "(" + strings.Join(args, ", ") + ")"
		if x.Caller != nil {
			s = ExprString(x.Caller) + "." + s
		}
		return s
	case *IndexExpr:
		return ExprString(x.X) + "[" + ExprString(x.Index) + "]"
	case *CastExpr:
		return "cast(" + x.To.String() + ", " + ExprString(x.X) + ")"
	case *AsExpr:
		return ExprString(x.X) + " as " + x.To.String()
	case *IsExpr:
		return ExprString(x.X) + " is " + x.To.String()
	case *SizeofExpr:
		return "sizeof(" + ExprString(x.X) + ")"
	case *TypeofExpr:
		return "typeof(" + ExprString(x.X) + ")"
	case *RefExpr:
		return "ref " + ExprString(x.X)
	case *NewExpr:
		if x.Scoped {
			return "scope " + x.To.Name
		}
		if x.Len != nil {
			return "new " + x.To.Name + "[" + ExprString(x.Len) + "]"
		}
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = ExprString(a)
		}
		return "new " + x.To.Name + "(" + strings.Join(args, ", ") + ")"
	case *RangeExpr:
		return ExprString(x.Lo) + ".." + ExprString(x.Hi)
	case *ParenExpr:
		return "(" + ExprString(x.X) + ")"
	case *TypeExpr:
		return x.String()
	}
	return fmt.Sprintf("%T", x)
}
