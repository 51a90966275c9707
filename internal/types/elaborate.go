package types

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
)

// builtinContainers names the generic container/async type constructors
// that elaborate to TApp rather than a user-declared nominal type. Option
// and Result are ordinary enums declared in source (spec.md S2/S3), not
// built-ins, so they are deliberately absent here.
var builtinContainers = map[string]bool{
	config.ListTypeName: true,
	config.DictTypeName: true,
	config.TaskTypeName: true,
}

// Elaborate turns a syntactic TypeExpr into a Type. genericParams names the
// enclosing declaration's generic parameters, elaborated to TVar so that
// `struct Box<T>: value: T` produces the same type variable at every
// occurrence of T within one declaration (spec.md §4.E).
func Elaborate(te ast.TypeExpr, genericParams map[string]TVar) Type {
	switch t := te.(type) {
	case nil:
		return TUnit{}
	case *ast.UnitType:
		return TUnit{}
	case *ast.NamedType:
		if tv, ok := genericParams[t.Path]; ok {
			return tv
		}
		switch t.Path {
		case config.IntTypeName:
			return TCon{Name: Int}
		case config.FloatTypeName:
			return TCon{Name: Float}
		case config.BoolTypeName:
			return TCon{Name: Bool}
		case config.StrTypeName:
			return TCon{Name: Str}
		case config.UnitTypeName:
			return TUnit{}
		}
		if len(t.Generics) == 0 {
			return TCon{Name: t.Path}
		}
		args := make([]Type, len(t.Generics))
		for i, g := range t.Generics {
			args[i] = Elaborate(g, genericParams)
		}
		return TApp{Name: t.Path, Args: args}
	case *ast.FunctionType:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = Elaborate(p, genericParams)
		}
		return TFunc{Params: params, Ret: Elaborate(t.Ret, genericParams)}
	case *ast.TupleType:
		elems := make([]Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = Elaborate(e, genericParams)
		}
		return TTuple{Elements: elems}
	default:
		return TCon{Name: config.AnyTypeName}
	}
}

// GenericScope builds the genericParams map Elaborate expects from a
// declaration's generic parameter names, minting one fresh TVar per name.
func GenericScope(names []string) map[string]TVar {
	if len(names) == 0 {
		return nil
	}
	scope := make(map[string]TVar, len(names))
	for _, n := range names {
		scope[n] = Fresh()
	}
	return scope
}

// IsBuiltinContainer reports whether name is one of the built-in generic
// type constructors (List/Dict/Task) rather than a
// user-declared struct or enum.
func IsBuiltinContainer(name string) bool { return builtinContainers[name] }
