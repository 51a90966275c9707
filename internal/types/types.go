// Package types implements OtterLang's type system: a Hindley-Milner-flavored
// representation with nominal structs/enums, structural tuples and function
// types, and generics instantiated via fresh type variables per call site
// (spec.md §4.E).
package types

import (
	"fmt"
	"strings"
)

// Type is the interface every elaborated type satisfies.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// TVar is an unresolved type variable introduced during inference.
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	if repl, ok := s[t.Name]; ok {
		if tv, ok := repl.(TVar); ok && tv.Name == t.Name {
			return t
		}
		return repl.Apply(s)
	}
	return t
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// Primitive scalar type names.
const (
	Int   = "Int"
	Float = "Float"
	Bool  = "Bool"
	Str   = "Str"
)

// TCon is a nominal type constant: a built-in scalar, or a zero-generic
// struct/enum referenced by name (spec.md §4.E "nominal vs structural type
// equality": struct and enum identity is by declared name, not shape).
type TCon struct {
	Name string
}

func (t TCon) String() string              { return t.Name }
func (t TCon) Apply(Subst) Type            { return t }
func (t TCon) FreeTypeVariables() []TVar   { return nil }

// TApp is a generic nominal type applied to arguments, e.g. List<Int> or a
// user struct/enum with type parameters.
type TApp struct {
	Name string
	Args []Type
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

func (t TApp) Apply(s Subst) Type {
	args := make([]Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Apply(s)
	}
	return TApp{Name: t.Name, Args: args}
}

func (t TApp) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TTuple is a structural tuple type: two tuples are equal iff their element
// types are pairwise equal, regardless of where they were constructed.
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t TTuple) Apply(s Subst) Type {
	elems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.Apply(s)
	}
	return TTuple{Elements: elems}
}

func (t TTuple) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, e := range t.Elements {
		vars = append(vars, e.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TFunc is a structural function type `(Params...) -> Ret`.
type TFunc struct {
	Params []Type
	Ret    Type
}

func (t TFunc) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Ret.String())
}

func (t TFunc) Apply(s Subst) Type {
	params := make([]Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Apply(s)
	}
	return TFunc{Params: params, Ret: t.Ret.Apply(s)}
}

func (t TFunc) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.Ret.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// TUnit is the sole value of unit type, the default return type when a
// function declares no `-> Ret`.
type TUnit struct{}

func (TUnit) String() string            { return "Unit" }
func (t TUnit) Apply(Subst) Type        { return t }
func (TUnit) FreeTypeVariables() []TVar { return nil }

// Task wraps the payload type T a `spawn`'d expression yields, matched by
// `await` (spec.md §4.E async typing: `e : Task<T>` makes `await e : T`).
func Task(payload Type) Type { return TApp{Name: "Task", Args: []Type{payload}} }

// List and Dict construct the built-in generic container types.
func List(elem Type) Type            { return TApp{Name: "List", Args: []Type{elem}} }
func Dict(key, value Type) Type      { return TApp{Name: "Dict", Args: []Type{key, value}} }

func uniqueTVars(vars []TVar) []TVar {
	seen := make(map[string]bool, len(vars))
	var out []TVar
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}
