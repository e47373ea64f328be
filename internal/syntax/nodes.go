package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions, Statements, and Declarations.
// All nodes implement the Node interface. The set of node types is closed:
// the marker methods restrict implementations to this package.
//
// Every node except the File root has exactly one owning parent. Parent
// links are installed by SetParents after parsing and maintained by Replace.
// Fields documented as links (ClassDecl.Base, Name.From, CallExpr.Func, ...)
// point at nodes owned elsewhere and are never walked.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos      // position of first character belonging to the node
	Parent() Node  // owning node, nil for the root
	Checked() bool // reports whether the validator already visited the node
	SetChecked()
	setParent(Node)
	aNode()
}

// Expr is the interface for all expression nodes.
// An expression's Type is its resolved class, nil until validated.
type Expr interface {
	Node
	Type() *ClassDecl
	SetType(*ClassDecl)
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	DeclName() string
	RealName() string
	SetReal(string)
	Used() bool
	MarkUsed() bool
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos     Pos
	parent  Node
	checked bool
}

func (n *node) Pos() Pos         { return n.pos }
func (n *node) Parent() Node     { return n.parent }
func (n *node) Checked() bool    { return n.checked }
func (n *node) SetChecked()      { n.checked = true }
func (n *node) setParent(p Node) { n.parent = p }
func (n *node) SetPos(pos Pos)   { n.pos = pos }
func (n *node) aNode()           {}

// expr is embedded in all expression nodes.
type expr struct {
	node
	typ *ClassDecl
}

func (x *expr) Type() *ClassDecl     { return x.typ }
func (x *expr) SetType(t *ClassDecl) { x.typ = t }
func (*expr) aExpr()                 {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// decl is embedded in all declaration nodes.
type decl struct {
	node
	Real string // emitted (mangled) name
	uses int    // reachability counter
}

func (d *decl) RealName() string { return d.Real }
func (d *decl) Used() bool       { return d.uses > 0 }
func (*decl) aDecl()             {}

// SetReal assigns the emitted name. The first assignment wins.
func (d *decl) SetReal(s string) {
	if d.Real == "" {
		d.Real = s
	}
}

// MarkUsed increments the usage counter and reports whether this was the
// first mark.
func (d *decl) MarkUsed() bool {
	d.uses++
	return d.uses == 1
}

// ----------------------------------------------------------------------------
// Modifiers and annotations

// Access is a declaration's visibility.
type Access uint8

const (
	Public Access = iota
	Private
	Protected
	Internal
)

var accessNames = [...]string{Public: "public", Private: "private", Protected: "protected", Internal: "internal"}

func (a Access) String() string { return accessNames[a] }

// Annotation is an @name or @name("arg") marker preceding a declaration.
type Annotation struct {
	Pos  Pos
	Name string
	Arg  string
}

// Annotations is an ordered annotation list.
type Annotations []Annotation

// Has reports whether the list contains an annotation called name.
func (as Annotations) Has(name string) bool {
	_, ok := as.Get(name)
	return ok
}

// Get returns the argument of the annotation called name.
func (as Annotations) Get(name string) (string, bool) {
	for _, a := range as {
		if a.Name == name {
			return a.Arg, true
		}
	}
	return "", false
}

// ----------------------------------------------------------------------------
// Files and Declarations

// File represents a complete source file (a module).
type File struct {
	node
	Path      string       // file path as loaded
	Namespace string       // module nick from "namespace"
	Usings    []*UsingDecl // using declarations
	Libraries []string     // link names from "library"
	Decls     []Decl       // top-level declarations in source order
	Main      *FuncDecl    // entry function, nil when absent
	Builtin   bool         // true for the prelude module
}

// UsingDecl represents `using "path" [nick]`.
type UsingDecl struct {
	decl
	Path   string
	Nick   string
	Module *File // link: the loaded module
}

// DeclName returns the module nick.
func (u *UsingDecl) DeclName() string { return u.Nick }

// ClassKind distinguishes classes, interfaces and enums.
type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindEnum
)

var classKindNames = [...]string{KindClass: "class", KindInterface: "interface", KindEnum: "enum"}

func (k ClassKind) String() string { return classKindNames[k] }

// ClassDecl represents a class, interface or enum declaration.
type ClassDecl struct {
	decl
	Name       string
	Kind       ClassKind
	BaseName   string      // declared base, "" when none
	IfaceNames []string    // declared interfaces
	Members    []Decl      // fields, functions, properties, indexers, enum members
	Annots     Annotations // annotations
	Access     Access
	BasePos    Pos

	// Semantic state, filled by the registry.
	ID           int    // unique identity, assigned once at registration
	NativeName   string // C type for native classes
	Header       string // C header from @header
	Primitive    bool
	Native       bool
	Number       bool
	Float        bool // floating point number class
	Any          bool // the synthetic "any" class
	Null         bool // the class of the null literal
	Void         bool // the result class of functions without result
	Static       bool
	HasIndexers  bool
	HasOperators bool
	Synthetic    bool // created by the compiler (any, null, array instances)

	Base       *ClassDecl   // link: resolved base class
	Interfaces []*ClassDecl // link: resolved interfaces
	Elem       *ClassDecl   // link: array element class
	Dispose    *FuncDecl    // link: dispose function
	Module     *File        // link: declaring module
}

// DeclName returns the class name.
func (c *ClassDecl) DeclName() string { return c.Name }

// IsArray reports whether c is an array-of class.
func (c *ClassDecl) IsArray() bool { return c.Elem != nil }

// IsInterface reports whether c is an interface.
func (c *ClassDecl) IsInterface() bool { return c.Kind == KindInterface }

// IsEnum reports whether c is an enum.
func (c *ClassDecl) IsEnum() bool { return c.Kind == KindEnum }

// IsValue reports whether values of c are held directly rather than by pointer.
func (c *ClassDecl) IsValue() bool { return c.Primitive || c.Native || c.IsEnum() }

// EnumMember is one constant of an enum.
type EnumMember struct {
	decl
	Name  string
	Value Expr // explicit value, nil when implicit
	Index int  // resolved value
	Owner *ClassDecl
}

func (m *EnumMember) DeclName() string { return m.Name }

// ExtensionDecl adds members to an existing class: extension Name { ... }
// The registry moves its members into the target class.
type ExtensionDecl struct {
	decl
	Name    string
	Members []Decl
	Target  *ClassDecl // link
}

func (e *ExtensionDecl) DeclName() string { return e.Name }

// FuncKind distinguishes the roles a FuncDecl can play.
type FuncKind uint8

const (
	FuncPlain FuncKind = iota
	FuncMethod
	FuncCtor
	FuncOperator
	FuncGetter
	FuncSetter
	FuncMain
	FuncDispose
)

var funcKindNames = [...]string{
	FuncPlain: "func", FuncMethod: "method", FuncCtor: "ctor", FuncOperator: "operator",
	FuncGetter: "getter", FuncSetter: "setter", FuncMain: "main", FuncDispose: "dispose",
}

func (k FuncKind) String() string { return funcKindNames[k] }

// InitKind selects the constructor chained by `: base(...)` or `: this(...)`.
type InitKind uint8

const (
	InitNone InitKind = iota
	InitBase
	InitThis
)

// FuncDecl represents a function, method, constructor, operator, accessor
// or the entry function.
type FuncDecl struct {
	decl
	Name     string
	Kind     FuncKind
	Params   []*Param
	Result   *TypeExpr // nil for void
	Body     *Block    // nil for arrow, native and interface functions
	Arrow    Expr      // => expression body
	Annots   Annotations
	Access   Access
	Static   bool
	Op       Token    // operator token for FuncOperator
	Init     InitKind // constructor chaining
	InitArgs []Expr

	// Semantic state.
	Native    string // @native template or C function name
	Variadic  bool
	Implicit  bool // @implicit single-argument constructor
	HasDefers bool
	Abstract  bool // interface member without body
	IsDefault bool // synthesized by the compiler
	Index     int  // position in the owner's overload list

	Owner    *ClassDecl // link: owning class, nil for free functions
	Property Decl       // link: property or indexer for accessors
	InitFunc *FuncDecl  // link: constructor chained before the body
}

func (f *FuncDecl) DeclName() string { return f.Name }

// IsMethod reports whether f takes an implicit this.
func (f *FuncDecl) IsMethod() bool {
	return f.Owner != nil && !f.Static && f.Kind != FuncMain
}

// FixedParams returns the number of non-variadic parameters.
func (f *FuncDecl) FixedParams() int {
	if f.Variadic {
		return len(f.Params) - 1
	}
	return len(f.Params)
}

// Param represents a function parameter.
type Param struct {
	decl
	Name     string
	Type     *TypeExpr // nil for member-forwarding parameters until resolved
	Variadic bool      // ...name:T
	Member   bool      // .name forwards to the field name
	Field    *VarDecl  // link: forwarded field
	Func     *FuncDecl // link
}

func (p *Param) DeclName() string { return p.Name }

// VarDecl represents a variable, constant or field.
type VarDecl struct {
	decl
	Name     string
	Type     *TypeExpr // explicit type, nil when inferred
	ArrayLen Expr      // fixed C array length: buf:char[10]
	Init     Expr      // initializer, nil when none
	Const    bool
	Static   bool
	Field    bool // declared in a class body
	Global   bool // declared at module level
	Access   Access
	Annots   Annotations

	Class *ClassDecl // resolved class of the variable
	Owner *ClassDecl // link: owning class for fields
}

func (v *VarDecl) DeclName() string { return v.Name }

// PropertyDecl represents `property name:T ...`.
type PropertyDecl struct {
	decl
	Name   string
	Type   *TypeExpr
	Getter *FuncDecl
	Setter *FuncDecl
	Init   Expr // initial value of the backing field
	Simple bool // backed by a hidden field, no custom accessors
	Static bool
	Access Access

	Owner *ClassDecl // link
}

func (p *PropertyDecl) DeclName() string { return p.Name }

// Readable reports whether the property can be read.
func (p *PropertyDecl) Readable() bool { return p.Simple || p.Getter != nil }

// Writable reports whether the property can be assigned.
func (p *PropertyDecl) Writable() bool { return p.Simple || p.Setter != nil }

// IndexerDecl represents `[key:K]:T { get ... set ... }`.
type IndexerDecl struct {
	decl
	Key    *Param
	Result *TypeExpr
	Getter *FuncDecl
	Setter *FuncDecl

	Owner *ClassDecl // link
}

func (ix *IndexerDecl) DeclName() string { return "[]" }

// ----------------------------------------------------------------------------
// Statements

// Block represents a braced statement list.
type Block struct {
	stmt
	Stmts   []Stmt
	Rbrace  Pos
	Defers  []*DeferStmt // defers owned by this block, in source order
	DeferID int          // block-level defer id, 0 when the block has no defers
}

// DeclStmt declares local variables: var a = 1, b:int
type DeclStmt struct {
	stmt
	Vars []*VarDecl
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// IfStmt represents an if statement: if Cond Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr
	Then *Block
	Else Stmt // nil, *IfStmt or *Block
}

// ForStage records which loop form was written.
type ForStage uint8

const (
	ForInfinite ForStage = iota // for { }
	ForWhile                    // for cond { }
	ForClassic                  // for init; cond; post { }
	ForCounter                  // for var i = 0 { }
	ForRange                    // for i in a..b, for x in seq
)

var forStageNames = [...]string{
	ForInfinite: "infinite", ForWhile: "while", ForClassic: "classic", ForCounter: "counter", ForRange: "range",
}

func (s ForStage) String() string { return forStageNames[s] }

// ForStmt represents all loop forms. Stage tells which fields are set:
//
//	ForInfinite: Body
//	ForWhile:    Cond, Body
//	ForClassic:  Init, Cond, Post, Body (each clause optional)
//	ForCounter:  Var, Body
//	ForRange:    Var (may be synthesized), Range or Seq, Body
type ForStmt struct {
	stmt
	Stage ForStage
	Init  Stmt
	Cond  Expr
	Post  Expr
	Var   *VarDecl
	Range *RangeExpr
	Seq   Expr
	Body  *Block
}

// SwitchStmt represents switch Tag { case ... }
type SwitchStmt struct {
	stmt
	Tag   Expr
	Cases []*CaseClause
}

// CaseClause is one case of a switch; Values is nil for default.
type CaseClause struct {
	stmt
	Values []Expr
	Body   *Block
}

// ReturnStmt represents a return statement: return [Result]
type ReturnStmt struct {
	stmt
	Result Expr
	Func   *FuncDecl // link
}

// BranchStmt represents a break or continue statement.
type BranchStmt struct {
	stmt
	Tok Token
}

// GotoStmt represents goto Label.
type GotoStmt struct {
	stmt
	Label  string
	Target *LabelStmt // link
}

// LabelStmt represents Label:
type LabelStmt struct {
	stmt
	Label string
}

// DeferStmt represents defer { ... } or defer expr.
type DeferStmt struct {
	stmt
	Body    *Block
	Ordinal int    // 1-based position among the owning block's defers
	Owner   *Block // link: block whose cleanup runs this defer
}

// DeleteStmt represents delete a, b, ...
type DeleteStmt struct {
	stmt
	Targets []Expr
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier.
type Name struct {
	expr
	Value string
	From  Decl // link: resolved declaration
}

// BasicLit represents a literal value.
type BasicLit struct {
	expr
	Value string // literal text (raw for strings and chars)
	Kind  LitKind
}

// ThisExpr represents this.
type ThisExpr struct{ expr }

// BaseExpr represents base.
type BaseExpr struct{ expr }

// BinaryExpr represents X Op Y.
type BinaryExpr struct {
	expr
	Op Token
	X  Expr
	Y  Expr
}

// AssignExpr represents X = Y and the compound assignments.
type AssignExpr struct {
	expr
	Op Token // _Assign or a compound operator
	X  Expr
	Y  Expr
}

// UnaryExpr represents -X, !X, ++X, --X, X++ and X--.
type UnaryExpr struct {
	expr
	Op      Token
	X       Expr
	Postfix bool
}

// TernaryExpr represents Cond ? X : Y.
type TernaryExpr struct {
	expr
	Cond Expr
	X    Expr
	Y    Expr
}

// SelectorExpr represents X.Sel.
type SelectorExpr struct {
	expr
	X   Expr
	Sel *Name
}

// CallExpr represents [Caller.]Name(Args...).
type CallExpr struct {
	expr
	Caller Expr // receiver or class, nil for unqualified calls
	Name   *Name
	Args   []Expr
	Func   *FuncDecl // link: selected overload
}

// IndexExpr represents X[Index].
type IndexExpr struct {
	expr
	X     Expr
	Index Expr
}

// CastExpr represents cast(Type, X).
type CastExpr struct {
	expr
	To *TypeExpr
	X  Expr
}

// AsExpr represents X as Type.
type AsExpr struct {
	expr
	X  Expr
	To *TypeExpr
}

// IsExpr represents X is Type.
type IsExpr struct {
	expr
	X  Expr
	To *TypeExpr
}

// SizeofExpr represents sizeof(X).
type SizeofExpr struct {
	expr
	X Expr
}

// TypeofExpr represents typeof(X).
type TypeofExpr struct {
	expr
	X Expr
}

// RefExpr represents ref X.
type RefExpr struct {
	expr
	X Expr
}

// NewExpr represents new T(args), new T[len], new T and scope T.
type NewExpr struct {
	expr
	To     *TypeExpr
	Args   []Expr
	Len    Expr      // array length for new T[n]
	Scoped bool      // scope T
	Func   *FuncDecl // link: selected constructor
}

// RangeExpr represents Lo..Hi.
type RangeExpr struct {
	expr
	Lo Expr
	Hi Expr
}

// ParenExpr represents (X).
type ParenExpr struct {
	expr
	X Expr
}

// TypeExpr represents a written type: Name or Name[].
type TypeExpr struct {
	expr
	Name  string
	Array bool
}

// String returns the type as written.
func (t *TypeExpr) String() string {
	if t.Array {
		return t.Name + "[]"
	}
	return t.Name
}

// ----------------------------------------------------------------------------
// Constructors used by the parser and by tree rewrites.

// NewName returns an identifier node at pos.
func NewName(pos Pos, value string) *Name {
	n := &Name{Value: value}
	n.pos = pos
	return n
}

// NewTypeExpr returns a type node at pos.
func NewTypeExpr(pos Pos, name string, array bool) *TypeExpr {
	t := &TypeExpr{Name: name, Array: array}
	t.pos = pos
	return t
}

// NewCall returns a call to fn with receiver caller and the given arguments.
// Parent links of the new subtree are installed.
func NewCall(pos Pos, caller Expr, fn *FuncDecl, args ...Expr) *CallExpr {
	c := &CallExpr{Caller: caller, Name: NewName(pos, fn.Name), Args: args, Func: fn}
	c.pos = pos
	c.Name.From = fn
	SetParents(c)
	return c
}

// NewNew returns a constructor call new T(args) using ctor.
func NewNew(pos Pos, class *ClassDecl, ctor *FuncDecl, args ...Expr) *NewExpr {
	n := &NewExpr{To: NewTypeExpr(pos, class.Name, false), Args: args, Func: ctor}
	n.pos = pos
	n.To.SetType(class)
	SetParents(n)
	return n
}

// Unparen strips any enclosing parentheses.
func Unparen(x Expr) Expr {
	for {
		p, ok := x.(*ParenExpr)
		if !ok {
			return x
		}
		x = p.X
	}
}
