package checker

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/types"
)

// collectSignatures elaborates every top-level struct/enum/function
// declaration's signature before any body is checked, so forward
// references (a function calling one declared later in the file, a struct
// embedding another declared later) resolve without a second file pass.
func (c *Checker) collectSignatures(mod *ast.Module) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.StructDecl:
			c.collectStruct(it)
		case *ast.EnumDecl:
			c.collectEnum(it)
		}
	}
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.FunctionDecl:
			c.functions[it.Name] = c.buildSig(it, "")
		case *ast.StructDecl:
			for _, m := range it.Methods {
				c.functions[it.Name+"."+m.Name] = c.buildSig(m, it.Name)
			}
		}
	}
}

// genericScopeVars builds both the name->TVar map Elaborate expects and the
// ordered TVar slice needed to re-substitute fresh arguments at use sites.
func genericScopeVars(names []string) (map[string]types.TVar, []types.TVar) {
	if len(names) == 0 {
		return nil, nil
	}
	scope := make(map[string]types.TVar, len(names))
	vars := make([]types.TVar, len(names))
	for i, n := range names {
		tv := types.Fresh()
		scope[n] = tv
		vars[i] = tv
	}
	return scope, vars
}

func (c *Checker) collectStruct(decl *ast.StructDecl) {
	scope, vars := genericScopeVars(decl.Generics)
	info := &StructInfo{Generics: decl.Generics, GenericVars: vars, Fields: make(map[string]types.Type)}
	for _, f := range decl.Fields {
		info.FieldOrder = append(info.FieldOrder, f.Name)
		info.Fields[f.Name] = types.Elaborate(f.Type, scope)
	}
	c.structs[decl.Name] = info
}

func (c *Checker) collectEnum(decl *ast.EnumDecl) {
	scope, vars := genericScopeVars(decl.Generics)
	info := &EnumInfo{Generics: decl.Generics, GenericVars: vars, Variants: make(map[string][]types.Type)}
	for _, v := range decl.Variants {
		info.VariantOrder = append(info.VariantOrder, v.Name)
		payload := make([]types.Type, len(v.Payload))
		for i, p := range v.Payload {
			payload[i] = types.Elaborate(p, scope)
		}
		info.Variants[v.Name] = payload
	}
	c.enums[decl.Name] = info
}

func (c *Checker) buildSig(fn *ast.FunctionDecl, receiver string) *FunctionSig {
	scope, vars := genericScopeVars(fn.Generics)
	if receiver != "" {
		if info, ok := c.structs[receiver]; ok {
			if scope == nil {
				scope = make(map[string]types.TVar)
			}
			for i, g := range info.Generics {
				if _, exists := scope[g]; !exists {
					scope[g] = info.GenericVars[i]
				}
			}
		}
	}
	sig := &FunctionSig{Generics: fn.Generics, GenericVars: vars, Receiver: receiver}
	for _, p := range fn.Params {
		if p.IsSelf {
			continue
		}
		sig.ParamNames = append(sig.ParamNames, p.Name)
		sig.Params = append(sig.Params, types.Elaborate(p.Type, scope))
		sig.Defaults = append(sig.Defaults, p.Default != nil)
	}
	sig.Ret = types.Elaborate(fn.Ret, scope)
	return sig
}

// selfType builds the elaborated Self type for a method's receiver,
// instantiating the enclosing struct's generic parameters fresh (spec.md
// §4.E "fresh per call site", applied to the implicit self binding).
func (c *Checker) selfType(structName string) types.Type {
	info, ok := c.structs[structName]
	if !ok || len(info.Generics) == 0 {
		return types.TCon{Name: structName}
	}
	s := instantiate(info.GenericVars)
	args := make([]types.Type, len(info.GenericVars))
	for i, v := range info.GenericVars {
		args[i] = v.Apply(s)
	}
	return types.TApp{Name: structName, Args: args}
}
