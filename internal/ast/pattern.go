package ast

import "github.com/otterlang/otter/internal/token"

// Pattern is the base interface for match-arm and destructuring patterns
// (spec.md §3). Patterns are checked against a scrutinee type and, once
// typed, are internally annotated with their narrowed variant/type via the
// same node-id side-table mechanism as expressions (spec.md invariant 4).
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is `_`; it binds nothing.
type WildcardPattern struct{ base }

func (*WildcardPattern) patternNode() {}

// BindingPattern binds the scrutinee (or sub-value) to Name.
type BindingPattern struct {
	base
	Name string
}

func (*BindingPattern) patternNode() {}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	base
	Value Expression // one of the Literal expression kinds
}

func (*LiteralPattern) patternNode() {}

// EnumVariantPattern matches `Enum.Variant(sub-patterns...)`.
type EnumVariantPattern struct {
	base
	EnumName    string
	VariantName string
	Subpatterns []Pattern
}

func (*EnumVariantPattern) patternNode() {}

// StructDestructurePattern matches `Name{field: pattern, ...}`.
type StructDestructurePattern struct {
	base
	StructName string
	Fields     map[string]Pattern
}

func (*StructDestructurePattern) patternNode() {}

// ListPattern matches `[head..., rest?, ...tail]` against a List<T>.
type ListPattern struct {
	base
	Head []Pattern
	Rest *BindingPattern // nil if absent; binds the remaining List<T>
	Tail []Pattern
}

func (*ListPattern) patternNode() {}

func NewWildcard(span token.Span) *WildcardPattern {
	return &WildcardPattern{base: newBase(span)}
}
