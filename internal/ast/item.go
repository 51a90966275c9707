package ast

// Visibility controls whether a declaration is visible outside its
// defining module (spec.md §3 "Symbols").
type Visibility int

const (
	ModulePrivate Visibility = iota
	Public
)

// UseStmt resolves a `use` path into a module (spec.md §4.C). Segments are
// separated by `/` or `:`; a leading `.`/`..` anchors at the importing
// module's directory; `rust:<crate>` is delegated to the FFI oracle.
type UseStmt struct {
	base
	Path    string
	Alias   string // "" if no `as` override; defaults to last path segment
}

func (*UseStmt) itemNode() {}

// PubUseStmt re-exports either one symbol (optionally renamed) or an
// entire module's public surface (spec.md §4.C).
type PubUseStmt struct {
	base
	Path    string
	Symbol  string // "" when re-exporting the whole module
	Alias   string
}

func (*PubUseStmt) itemNode() {}

// TypeAliasDecl is `[pub] type Name<Generics...> = Underlying`.
type TypeAliasDecl struct {
	base
	Vis      Visibility
	Name     string
	Generics []string
	Underlying TypeExpr
}

func (*TypeAliasDecl) itemNode() {}

// StructField is one field of a struct declaration.
type StructField struct {
	Name string
	Type TypeExpr
}

// StructDecl is `[pub] struct Name<Generics...>: fields... methods...`.
type StructDecl struct {
	base
	Vis      Visibility
	Name     string
	Generics []string
	Fields   []StructField
	Methods  []*FunctionDecl
}

func (*StructDecl) itemNode() {}

// EnumVariant is one `Name: (payload types...)` case of an enum.
type EnumVariant struct {
	Name    string
	Payload []TypeExpr
}

// EnumDecl is `[pub] enum Name<Generics...>: variants...`.
type EnumDecl struct {
	base
	Vis      Visibility
	Name     string
	Generics []string
	Variants []EnumVariant
}

func (*EnumDecl) itemNode() {}

// FunctionDecl is `[pub] fn name<Generics...>(params...) -> Ret: body`. A
// first parameter named `self` marks this as a struct method (spec.md
// §4.B "Method syntax").
type FunctionDecl struct {
	base
	Vis      Visibility
	Name     string
	Generics []string
	Params   []Param
	Ret      TypeExpr // nil when inferred as unit
	Body     []Statement
}

func (*FunctionDecl) itemNode() {}

func (f *FunctionDecl) IsMethod() bool {
	return len(f.Params) > 0 && f.Params[0].IsSelf
}
