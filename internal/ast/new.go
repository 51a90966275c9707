package ast

import "github.com/otterlang/otter/internal/token"

// Constructors. base is unexported, so every node outside this package is
// built through one of these rather than a struct literal.

func NewIntLiteral(span token.Span, v int64) *IntLiteral { return &IntLiteral{base: newBase(span), Value: v} }
func NewFloatLiteral(span token.Span, v float64) *FloatLiteral {
	return &FloatLiteral{base: newBase(span), Value: v}
}
func NewStringLiteral(span token.Span, v string) *StringLiteral {
	return &StringLiteral{base: newBase(span), Value: v}
}
func NewBoolLiteral(span token.Span, v bool) *BoolLiteral { return &BoolLiteral{base: newBase(span), Value: v} }
func NewUnitLiteral(span token.Span) *UnitLiteral         { return &UnitLiteral{base: newBase(span)} }
func NewFString(span token.Span, pieces []FStringPiece) *FString {
	return &FString{base: newBase(span), Pieces: pieces}
}
func NewMemberAccess(span token.Span, left Expression, name string) *MemberAccess {
	return &MemberAccess{base: newBase(span), Left: left, Name: name}
}
func NewCall(span token.Span, callee Expression, args []Expression) *Call {
	return &Call{base: newBase(span), Callee: callee, Args: args}
}
func NewIndex(span token.Span, left, idx Expression) *Index {
	return &Index{base: newBase(span), Left: left, Idx: idx}
}
func NewUnaryOp(span token.Span, op string, operand Expression) *UnaryOp {
	return &UnaryOp{base: newBase(span), Op: op, Operand: operand}
}
func NewBinaryOp(span token.Span, op string, left, right Expression) *BinaryOp {
	return &BinaryOp{base: newBase(span), Op: op, Left: left, Right: right}
}
func NewLogicalOp(span token.Span, op string, left, right Expression) *LogicalOp {
	return &LogicalOp{base: newBase(span), Op: op, Left: left, Right: right}
}
func NewIsCheck(span token.Span, negated bool, left, right Expression) *IsCheck {
	return &IsCheck{base: newBase(span), Negated: negated, Left: left, Right: right}
}
func NewRangeExpr(span token.Span, lo, hi Expression) *RangeExpr {
	return &RangeExpr{base: newBase(span), Lo: lo, Hi: hi}
}
func NewListLit(span token.Span, elems []Expression) *ListLit {
	return &ListLit{base: newBase(span), Elements: elems}
}
func NewDictLit(span token.Span, entries []DictEntry) *DictLit {
	return &DictLit{base: newBase(span), Entries: entries}
}
func NewStructLit(span token.Span, name string, fields []StructLitField) *StructLit {
	return &StructLit{base: newBase(span), Name: name, Fields: fields}
}
func NewLambda(span token.Span, params []Param, body []Statement) *Lambda {
	return &Lambda{base: newBase(span), Params: params, Body: body}
}
func NewAwait(span token.Span, operand Expression) *Await {
	return &Await{base: newBase(span), Operand: operand}
}
func NewSpawn(span token.Span, operand Expression) *Spawn {
	return &Spawn{base: newBase(span), Operand: operand}
}
func NewMatch(span token.Span, scrutinee Expression, arms []MatchArm) *Match {
	return &Match{base: newBase(span), Scrutinee: scrutinee, Arms: arms}
}
func NewListComprehension(span token.Span, yield Expression, target Pattern, iter, filter Expression) *ListComprehension {
	return &ListComprehension{base: newBase(span), Yield: yield, Target: target, Iter: iter, Filter: filter}
}
func NewDictComprehension(span token.Span, key, value Expression, target Pattern, iter, filter Expression) *DictComprehension {
	return &DictComprehension{base: newBase(span), Key: key, Value: value, Target: target, Iter: iter, Filter: filter}
}

// Statements.

func NewLetStmt(span token.Span, name string, annotation TypeExpr, value Expression) *LetStmt {
	return &LetStmt{base: newBase(span), Name: name, Annotation: annotation, Value: value}
}
func NewAssignStmt(span token.Span, target, value Expression) *AssignStmt {
	return &AssignStmt{base: newBase(span), Target: target, Value: value}
}
func NewReturnStmt(span token.Span, value Expression) *ReturnStmt {
	return &ReturnStmt{base: newBase(span), Value: value}
}
func NewBreakStmt(span token.Span) *BreakStmt       { return &BreakStmt{base: newBase(span)} }
func NewContinueStmt(span token.Span) *ContinueStmt { return &ContinueStmt{base: newBase(span)} }
func NewPassStmt(span token.Span) *PassStmt         { return &PassStmt{base: newBase(span)} }
func NewIfStmt(span token.Span, cond Expression, body []Statement, elifs []ElifClause, els []Statement) *IfStmt {
	return &IfStmt{base: newBase(span), Cond: cond, Body: body, Elifs: elifs, Else: els}
}
func NewWhileStmt(span token.Span, cond Expression, body []Statement) *WhileStmt {
	return &WhileStmt{base: newBase(span), Cond: cond, Body: body}
}
func NewForStmt(span token.Span, target Pattern, iter Expression, body []Statement) *ForStmt {
	return &ForStmt{base: newBase(span), Target: target, Iter: iter, Body: body}
}
func NewTryStmt(span token.Span, body []Statement, handlers []ExceptHandler, els, finally []Statement) *TryStmt {
	return &TryStmt{base: newBase(span), Body: body, Handlers: handlers, Else: els, Finally: finally}
}
func NewRaiseStmt(span token.Span, value Expression) *RaiseStmt {
	return &RaiseStmt{base: newBase(span), Value: value}
}

// Patterns.

func NewBindingPattern(span token.Span, name string) *BindingPattern {
	return &BindingPattern{base: newBase(span), Name: name}
}
func NewLiteralPattern(span token.Span, value Expression) *LiteralPattern {
	return &LiteralPattern{base: newBase(span), Value: value}
}
func NewEnumVariantPattern(span token.Span, enumName, variantName string, sub []Pattern) *EnumVariantPattern {
	return &EnumVariantPattern{base: newBase(span), EnumName: enumName, VariantName: variantName, Subpatterns: sub}
}
func NewStructDestructurePattern(span token.Span, structName string, fields map[string]Pattern) *StructDestructurePattern {
	return &StructDestructurePattern{base: newBase(span), StructName: structName, Fields: fields}
}
func NewListPattern(span token.Span, head []Pattern, rest *BindingPattern, tail []Pattern) *ListPattern {
	return &ListPattern{base: newBase(span), Head: head, Rest: rest, Tail: tail}
}

// Type expressions.

func NewNamedType(span token.Span, path string, generics []TypeExpr) *NamedType {
	return &NamedType{base: newBase(span), Path: path, Generics: generics}
}
func NewFunctionType(span token.Span, params []TypeExpr, ret TypeExpr) *FunctionType {
	return &FunctionType{base: newBase(span), Params: params, Ret: ret}
}
func NewTupleType(span token.Span, elements []TypeExpr) *TupleType {
	return &TupleType{base: newBase(span), Elements: elements}
}
func NewUnitType(span token.Span) *UnitType { return &UnitType{base: newBase(span)} }

// Items.

func NewUseStmt(span token.Span, path, alias string) *UseStmt {
	return &UseStmt{base: newBase(span), Path: path, Alias: alias}
}
func NewPubUseStmt(span token.Span, path, symbol, alias string) *PubUseStmt {
	return &PubUseStmt{base: newBase(span), Path: path, Symbol: symbol, Alias: alias}
}
func NewTypeAliasDecl(span token.Span, vis Visibility, name string, generics []string, underlying TypeExpr) *TypeAliasDecl {
	return &TypeAliasDecl{base: newBase(span), Vis: vis, Name: name, Generics: generics, Underlying: underlying}
}
func NewStructDecl(span token.Span, vis Visibility, name string, generics []string, fields []StructField, methods []*FunctionDecl) *StructDecl {
	return &StructDecl{base: newBase(span), Vis: vis, Name: name, Generics: generics, Fields: fields, Methods: methods}
}
func NewEnumDecl(span token.Span, vis Visibility, name string, generics []string, variants []EnumVariant) *EnumDecl {
	return &EnumDecl{base: newBase(span), Vis: vis, Name: name, Generics: generics, Variants: variants}
}
func NewFunctionDecl(span token.Span, vis Visibility, name string, generics []string, params []Param, ret TypeExpr, body []Statement) *FunctionDecl {
	return &FunctionDecl{base: newBase(span), Vis: vis, Name: name, Generics: generics, Params: params, Ret: ret, Body: body}
}
