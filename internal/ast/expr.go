package ast

import "github.com/otterlang/otter/internal/token"

// Identifier is a name reference; the resolver attaches the bound Symbol
// via its side-table keyed on ID().
type Identifier struct {
	base
	Name string
}

func (*Identifier) exprNode() {}

func NewIdentifier(span token.Span, name string) *Identifier {
	return &Identifier{base: newBase(span), Name: name}
}

// Literal kinds.

type IntLiteral struct {
	base
	Value int64
}

func (*IntLiteral) exprNode() {}

type FloatLiteral struct {
	base
	Value float64
}

func (*FloatLiteral) exprNode() {}

type StringLiteral struct {
	base
	Value string
}

func (*StringLiteral) exprNode() {}

type BoolLiteral struct {
	base
	Value bool
}

func (*BoolLiteral) exprNode() {}

// UnitLiteral is the sole value of type unit, `()`.
type UnitLiteral struct{ base }

func (*UnitLiteral) exprNode() {}

// FStringPiece is one segment of an f-string: either a literal chunk or an
// embedded expression parsed from its captured source text (spec.md §3's
// "pre-split sequence of {literal-chunk | embedded-expression-source}").
type FStringPiece struct {
	Literal string     // set when Expr == nil
	Expr    Expression // set when this piece is an embedded expression
}

type FString struct {
	base
	Pieces []FStringPiece
}

func (*FString) exprNode() {}

// MemberAccess is `Left.Name`.
type MemberAccess struct {
	base
	Left Expression
	Name string
}

func (*MemberAccess) exprNode() {}

// Call is `Callee(Args...)`.
type Call struct {
	base
	Callee Expression
	Args   []Expression
}

func (*Call) exprNode() {}

// Index is `Left[Idx]`.
type Index struct {
	base
	Left Expression
	Idx  Expression
}

func (*Index) exprNode() {}

// UnaryOp is `Op Operand` (e.g. -x, not x).
type UnaryOp struct {
	base
	Op      string
	Operand Expression
}

func (*UnaryOp) exprNode() {}

// BinaryOp is `Left Op Right` for arithmetic/comparison operators.
type BinaryOp struct {
	base
	Op          string
	Left, Right Expression
}

func (*BinaryOp) exprNode() {}

// LogicalOp is `Left (and|or) Right`, kept distinct from BinaryOp because
// it short-circuits (spec.md §3: "Logical(and|or)").
type LogicalOp struct {
	base
	Op          string // "and" | "or"
	Left, Right Expression
}

func (*LogicalOp) exprNode() {}

// IsCheck is `Left (is|is not) Right` (spec.md §4.D: treated as a normal
// binary comparison against None at resolution time).
type IsCheck struct {
	base
	Negated     bool
	Left, Right Expression
}

func (*IsCheck) exprNode() {}

// RangeExpr is `Lo..Hi`, used by both `for x in a..b` and as a standalone
// value (spec.md §4.B: "retains Range(a,b) as an explicit expression").
type RangeExpr struct {
	base
	Lo, Hi Expression
}

func (*RangeExpr) exprNode() {}

type ListLit struct {
	base
	Elements []Expression
}

func (*ListLit) exprNode() {}

type DictEntry struct{ Key, Value Expression }

type DictLit struct {
	base
	Entries []DictEntry
}

func (*DictLit) exprNode() {}

// StructLit is `Name{field: value, ...}` keyword-argument instantiation.
type StructLit struct {
	base
	Name   string
	Fields []StructLitField
}

type StructLitField struct {
	Name  string
	Value Expression
}

func (*StructLit) exprNode() {}

// Lambda is an anonymous function literal.
type Lambda struct {
	base
	Params []Param
	Body   []Statement // single expression desugars to a one-statement body
}

func (*Lambda) exprNode() {}

// Await suspends until its Task operand completes (spec.md §4.E async
// typing: `await e` where `e : Task<T>` yields `T`).
type Await struct {
	base
	Operand Expression
}

func (*Await) exprNode() {}

// Spawn eagerly evaluates Operand's arguments then hands the closure to the
// task runtime, yielding `Task<T>` (spec.md §5 ordering rule).
type Spawn struct {
	base
	Operand Expression
}

func (*Spawn) exprNode() {}

// MatchArm is one `case Pattern: Body` arm of a Match expression.
type MatchArm struct {
	Pattern Pattern
	Body    []Statement
}

// Match is both an expression (yielding the join of its arms' types) and
// may appear as a statement via ExprStmt.
type Match struct {
	base
	Scrutinee Expression
	Arms      []MatchArm
}

func (*Match) exprNode() {}

// ListComprehension is `[Yield for Target in Iter if Filter]`.
type ListComprehension struct {
	base
	Yield  Expression
	Target Pattern
	Iter   Expression
	Filter Expression // nil if absent
}

func (*ListComprehension) exprNode() {}

// DictComprehension is `{K: V for Target in Iter if Filter}`.
type DictComprehension struct {
	base
	Key, Value Expression
	Target     Pattern
	Iter       Expression
	Filter     Expression
}

func (*DictComprehension) exprNode() {}
