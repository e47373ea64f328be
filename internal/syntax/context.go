package syntax

// ScopeKind is the syntactic region a statement is parsed in.
type ScopeKind uint8

const (
	ScopeModule ScopeKind = iota
	ScopeClass
	ScopeInterface
	ScopeEnum
	ScopeFunc
)

var scopeNames = [...]string{
	ScopeModule: "module", ScopeClass: "class", ScopeInterface: "interface",
	ScopeEnum: "enum", ScopeFunc: "function",
}

func (s ScopeKind) String() string { return scopeNames[s] }

// ParseContext carries the pending declaration state through statement
// parsing. It is a value: parsers pass modified copies down and the caller's
// copy is untouched, so modifiers never leak into the next declaration or
// into another Parser.
type ParseContext struct {
	Scope  ScopeKind
	Access Access
	Static bool
	Annots Annotations

	Class *ClassDecl // enclosing class, nil outside class bodies
	Func  *FuncDecl  // enclosing function, nil outside bodies
	Block *Block     // innermost block, owner of defers
	Loop  bool       // inside a loop body
	Sw    bool       // inside a switch case
}

// In returns the context for parsing the body of a new scope.
// Pending modifiers are dropped.
func (c ParseContext) In(s ScopeKind) ParseContext {
	c.Scope = s
	return c.Reset()
}

// Reset drops pending modifiers and annotations.
func (c ParseContext) Reset() ParseContext {
	c.Access = Public
	c.Static = false
	c.Annots = nil
	return c
}

// WithAccess returns c with access a pending.
func (c ParseContext) WithAccess(a Access) ParseContext {
	c.Access = a
	return c
}

// WithStatic returns c with static pending.
func (c ParseContext) WithStatic() ParseContext {
	c.Static = true
	return c
}

// WithAnnot returns c with a appended to the pending annotations.
func (c ParseContext) WithAnnot(a Annotation) ParseContext {
	as := make(Annotations, len(c.Annots), len(c.Annots)+1)
	copy(as, c.Annots)
	c.Annots = append(as, a)
	return c
}

// WithClass returns the context for a class body.
func (c ParseContext) WithClass(cls *ClassDecl, s ScopeKind) ParseContext {
	c = c.In(s)
	c.Class = cls
	return c
}

// WithFunc returns the context for a function body.
func (c ParseContext) WithFunc(fn *FuncDecl) ParseContext {
	c = c.In(ScopeFunc)
	c.Func = fn
	c.Loop = false
	c.Sw = false
	return c
}

// WithBlock returns c with b as innermost block.
func (c ParseContext) WithBlock(b *Block) ParseContext {
	c.Block = b
	return c
}

// WithLoop returns the context for a loop body.
func (c ParseContext) WithLoop() ParseContext {
	c.Loop = true
	return c
}

// WithSwitch returns the context for a switch case body.
func (c ParseContext) WithSwitch() ParseContext {
	c.Sw = true
	return c
}

// Pending reports whether modifiers or annotations are waiting for a declaration.
func (c ParseContext) Pending() bool {
	return c.Access != Public || c.Static || len(c.Annots) > 0
}
