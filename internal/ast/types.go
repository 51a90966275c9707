package ast

// TypeExpr is a syntactic type as written by the programmer; the type
// checker elaborates it into a typesystem.Type (spec.md §3).
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is `Path<Generics...>`, e.g. `List<Int>` or `Result<T, E>`.
type NamedType struct {
	base
	Path     string
	Generics []TypeExpr
}

func (*NamedType) typeExprNode() {}

// FunctionType is `(Params...) -> Ret`.
type FunctionType struct {
	base
	Params []TypeExpr
	Ret    TypeExpr
}

func (*FunctionType) typeExprNode() {}

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	base
	Elements []TypeExpr
}

func (*TupleType) typeExprNode() {}

// UnitType is `()`.
type UnitType struct{ base }

func (*UnitType) typeExprNode() {}
