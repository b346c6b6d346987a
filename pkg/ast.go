package cog

// Expr is any node of the syntax tree. The set of implementations is closed;
// consumers switch over the concrete node types.
type Expr interface {
	exprNode()
}

// ParamPlaceholder is the identifier stored as the value of every function
// parameter, since parameters reuse VariableDecl but have no initialiser.
const ParamPlaceholder = "placeholder"

type LiteralType int

const (
	LiteralInteger LiteralType = iota
	LiteralFloat
	LiteralString
	LiteralBoolean
	LiteralIdentifier
)

// LiteralExpr is a literal value or an identifier reference. Value holds the
// string contents or the identifier name.
type LiteralExpr struct {
	Typ   LiteralType
	Value string
	Int   int64
	Float float64
	Bool  bool
}

func NewIntLiteral(v int64) *LiteralExpr {
	return &LiteralExpr{Typ: LiteralInteger, Int: v}
}

func NewFloatLiteral(v float64) *LiteralExpr {
	return &LiteralExpr{Typ: LiteralFloat, Float: v}
}

func NewStringLiteral(v string) *LiteralExpr {
	return &LiteralExpr{Typ: LiteralString, Value: v}
}

func NewBoolLiteral(v bool) *LiteralExpr {
	return &LiteralExpr{Typ: LiteralBoolean, Bool: v}
}

func NewIdentifier(name string) *LiteralExpr {
	return &LiteralExpr{Typ: LiteralIdentifier, Value: name}
}

// IsIdentifier reports whether e is a bare identifier and returns its name.
func IsIdentifier(e Expr) (string, bool) {
	lit, ok := e.(*LiteralExpr)
	if !ok || lit.Typ != LiteralIdentifier {
		return "", false
	}

	return lit.Value, true
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
	BinaryModulo         BinaryOp = "%"
	BinaryEqual          BinaryOp = "=="
	BinaryNotEqual       BinaryOp = "!="
	BinaryAnd            BinaryOp = "&&"
	BinaryOr             BinaryOp = "||"
	BinaryLess           BinaryOp = "<"
	BinaryLessEqual      BinaryOp = "<="
	BinaryGreater        BinaryOp = ">"
	BinaryGreaterEqual   BinaryOp = ">="
)

type BinaryExpr struct {
	Operation BinaryOp
	Left      Expr
	Right     Expr
}

type UnaryOp string

const (
	UnaryNegative UnaryOp = "-"
	UnaryNot      UnaryOp = "!"
)

type UnaryExpr struct {
	Operation UnaryOp
	Operand   Expr
}

// AssignmentExpr is `name = value`. The target is always a bare identifier.
type AssignmentExpr struct {
	Name  string
	Value Expr
}

// VariableDecl is a `let` binding or a function parameter. Type is nil when
// no type was written.
type VariableDecl struct {
	Name  string
	Type  Type
	Value Expr
}

type FuncDecl struct {
	Name       string
	Params     []*VariableDecl
	Body       *BlockExpr
	ReturnType Type
}

type ReturnExpr struct {
	Value Expr
}

type BlockExpr struct {
	Statements []Expr
}

// IfElseExpr has a nil Else when there is no else branch.
type IfElseExpr struct {
	Condition Expr
	Then      *BlockExpr
	Else      *BlockExpr
}

type AddressOfExpr struct {
	Operand Expr
}

type DerefExpr struct {
	Operand Expr
}

func (*LiteralExpr) exprNode()    {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*AssignmentExpr) exprNode() {}
func (*VariableDecl) exprNode()   {}
func (*FuncDecl) exprNode()       {}
func (*ReturnExpr) exprNode()     {}
func (*BlockExpr) exprNode()      {}
func (*IfElseExpr) exprNode()     {}
func (*AddressOfExpr) exprNode()  {}
func (*DerefExpr) exprNode()      {}
