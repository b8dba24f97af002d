// ast.go — AST node types for zpy.
//
// Expr and Stmt are closed unions: every variant lives in this file and
// carries an unexported marker method, so a type switch over the variants
// is exhaustive. Nodes are immutable after the parser builds them. The
// whole tree hangs off a Program, which plays the role of the parse
// arena: function values keep references to statement bodies inside it,
// so a Program must stay reachable for as long as any function parsed
// from it can still be called.
package zpy

// Pos is a source position carried by every node (1-based line, 0-based
// column, same convention as tokens).
type Pos struct {
	Line int
	Col  int
}

// Expr is an expression node.
type Expr interface {
	exprNode()
	At() Pos
}

// Stmt is a statement node.
type Stmt interface {
	stmtNode()
	At() Pos
}

// Program is the ordered list of top-level statements of one parse.
type Program struct {
	Stmts []Stmt
}

// ----- expressions -----

type IntLit struct {
	Pos   Pos
	Value int64
}

type FloatLit struct {
	Pos   Pos
	Value float64
}

// StringLit holds the already escape-processed text.
type StringLit struct {
	Pos   Pos
	Value string
}

type BoolLit struct {
	Pos   Pos
	Value bool
}

type NoneLit struct {
	Pos Pos
}

type Ident struct {
	Pos  Pos
	Name string
}

// BinaryExpr covers arithmetic, comparison and the logical and/or
// operators. Op is the operator lexeme ("+", "==", "and", ...).
type BinaryExpr struct {
	Pos   Pos
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr covers prefix "-" and "not".
type UnaryExpr struct {
	Pos     Pos
	Op      string
	Operand Expr
}

// CallExpr is a plain call; the callee is always a bare name (the
// grammar only permits calls on identifiers).
type CallExpr struct {
	Pos  Pos
	Name string
	Args []Expr
}

type IndexExpr struct {
	Pos    Pos
	Object Expr
	Index  Expr
}

type ListLit struct {
	Pos   Pos
	Elems []Expr
}

// DictLit keeps keys and values as parallel slices of equal length,
// preserving source order.
type DictLit struct {
	Pos    Pos
	Keys   []Expr
	Values []Expr
}

type MethodCallExpr struct {
	Pos    Pos
	Object Expr
	Method string
	Args   []Expr
}

// MembershipExpr is "x in coll" / "x not in coll".
type MembershipExpr struct {
	Pos        Pos
	Value      Expr
	Collection Expr
	Negated    bool
}

func (n *IntLit) exprNode()         {}
func (n *FloatLit) exprNode()       {}
func (n *StringLit) exprNode()      {}
func (n *BoolLit) exprNode()        {}
func (n *NoneLit) exprNode()        {}
func (n *Ident) exprNode()          {}
func (n *BinaryExpr) exprNode()     {}
func (n *UnaryExpr) exprNode()      {}
func (n *CallExpr) exprNode()       {}
func (n *IndexExpr) exprNode()      {}
func (n *ListLit) exprNode()        {}
func (n *DictLit) exprNode()        {}
func (n *MethodCallExpr) exprNode() {}
func (n *MembershipExpr) exprNode() {}

func (n *IntLit) At() Pos         { return n.Pos }
func (n *FloatLit) At() Pos       { return n.Pos }
func (n *StringLit) At() Pos      { return n.Pos }
func (n *BoolLit) At() Pos        { return n.Pos }
func (n *NoneLit) At() Pos        { return n.Pos }
func (n *Ident) At() Pos          { return n.Pos }
func (n *BinaryExpr) At() Pos     { return n.Pos }
func (n *UnaryExpr) At() Pos      { return n.Pos }
func (n *CallExpr) At() Pos       { return n.Pos }
func (n *IndexExpr) At() Pos      { return n.Pos }
func (n *ListLit) At() Pos        { return n.Pos }
func (n *DictLit) At() Pos        { return n.Pos }
func (n *MethodCallExpr) At() Pos { return n.Pos }
func (n *MembershipExpr) At() Pos { return n.Pos }

// ----- statements -----

type ExprStmt struct {
	Pos  Pos
	Expr Expr
}

type AssignStmt struct {
	Pos   Pos
	Name  string
	Value Expr
}

type IndexAssignStmt struct {
	Pos    Pos
	Object Expr
	Index  Expr
	Value  Expr
}

// AugAssignStmt is "name op= value"; Op is the bare operator ("+", "-",
// "*", "/", "%").
type AugAssignStmt struct {
	Pos   Pos
	Name  string
	Op    string
	Value Expr
}

// DelStmt removes an element; the grammar guarantees the target parsed
// as an index expression.
type DelStmt struct {
	Pos    Pos
	Object Expr
	Index  Expr
}

type ElifBranch struct {
	Cond Expr
	Body *BlockStmt
}

type IfStmt struct {
	Pos   Pos
	Cond  Expr
	Then  *BlockStmt
	Elifs []ElifBranch
	Else  *BlockStmt // nil when absent
}

type WhileStmt struct {
	Pos  Pos
	Cond Expr
	Body *BlockStmt
}

type ForStmt struct {
	Pos      Pos
	Var      string
	Iterable Expr
	Body     *BlockStmt
}

type BreakStmt struct {
	Pos Pos
}

type ContinueStmt struct {
	Pos Pos
}

type ReturnStmt struct {
	Pos   Pos
	Value Expr // nil for a bare return
}

type FuncDefStmt struct {
	Pos    Pos
	Name   string
	Params []string
	Body   *BlockStmt
}

type BlockStmt struct {
	Pos   Pos
	Stmts []Stmt
}

type PassStmt struct {
	Pos Pos
}

func (n *ExprStmt) stmtNode()        {}
func (n *AssignStmt) stmtNode()      {}
func (n *IndexAssignStmt) stmtNode() {}
func (n *AugAssignStmt) stmtNode()   {}
func (n *DelStmt) stmtNode()         {}
func (n *IfStmt) stmtNode()          {}
func (n *WhileStmt) stmtNode()       {}
func (n *ForStmt) stmtNode()         {}
func (n *BreakStmt) stmtNode()       {}
func (n *ContinueStmt) stmtNode()    {}
func (n *ReturnStmt) stmtNode()      {}
func (n *FuncDefStmt) stmtNode()     {}
func (n *BlockStmt) stmtNode()       {}
func (n *PassStmt) stmtNode()        {}

func (n *ExprStmt) At() Pos        { return n.Pos }
func (n *AssignStmt) At() Pos      { return n.Pos }
func (n *IndexAssignStmt) At() Pos { return n.Pos }
func (n *AugAssignStmt) At() Pos   { return n.Pos }
func (n *DelStmt) At() Pos         { return n.Pos }
func (n *IfStmt) At() Pos          { return n.Pos }
func (n *WhileStmt) At() Pos       { return n.Pos }
func (n *ForStmt) At() Pos         { return n.Pos }
func (n *BreakStmt) At() Pos       { return n.Pos }
func (n *ContinueStmt) At() Pos    { return n.Pos }
func (n *ReturnStmt) At() Pos      { return n.Pos }
func (n *FuncDefStmt) At() Pos     { return n.Pos }
func (n *BlockStmt) At() Pos       { return n.Pos }
func (n *PassStmt) At() Pos        { return n.Pos }
