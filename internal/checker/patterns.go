package checker

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/types"
)

// checkPattern type-checks a pattern against scrutinee, binding names into
// env and annotating the pattern's node with its narrowed type (spec.md
// §4.E "pattern typing", invariant 4).
func (c *Checker) checkPattern(env *typeEnv, p ast.Pattern, scrutinee types.Type) {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		c.setType(pt.ID(), scrutinee)
	case *ast.BindingPattern:
		env.define(pt.Name, scrutinee)
		c.setType(pt.ID(), scrutinee)
	case *ast.LiteralPattern:
		lt := c.inferExpr(env, pt.Value)
		ty := c.unify(lt, scrutinee, pt.Span(), "literal pattern")
		c.setType(pt.ID(), ty)
	case *ast.EnumVariantPattern:
		c.checkEnumVariantPattern(env, pt, scrutinee)
	case *ast.StructDestructurePattern:
		c.checkStructDestructurePattern(env, pt, scrutinee)
	case *ast.ListPattern:
		c.checkListPattern(env, pt, scrutinee)
	}
}

func (c *Checker) checkEnumVariantPattern(env *typeEnv, pt *ast.EnumVariantPattern, scrutinee types.Type) {
	info, ok := c.enums[pt.EnumName]
	if !ok {
		c.errorf(pt.Span(), diagnostics.UnresolvedName, "unknown enum %q", pt.EnumName)
		c.setType(pt.ID(), any())
		return
	}
	s := instantiate(info.GenericVars)
	var instTy types.Type = types.TCon{Name: pt.EnumName}
	if len(info.GenericVars) > 0 {
		args := make([]types.Type, len(info.GenericVars))
		for i, v := range info.GenericVars {
			args[i] = v.Apply(s)
		}
		instTy = types.TApp{Name: pt.EnumName, Args: args}
	}
	instTy = c.unify(instTy, scrutinee, pt.Span(), "enum pattern scrutinee")
	c.setType(pt.ID(), instTy)
	c.matchNarrow[pt.ID()] = pt.VariantName

	payload, ok := info.Variants[pt.VariantName]
	if !ok {
		c.errorf(pt.Span(), diagnostics.UnknownField, "enum %q has no variant %q", pt.EnumName, pt.VariantName)
		return
	}
	if len(payload) != len(pt.Subpatterns) {
		c.errorf(pt.Span(), diagnostics.ArityMismatch, "variant %s.%s expects %d payload value(s), got %d",
			pt.EnumName, pt.VariantName, len(payload), len(pt.Subpatterns))
	}
	for i, sp := range pt.Subpatterns {
		if i >= len(payload) {
			break
		}
		c.checkPattern(env, sp, payload[i].Apply(s))
	}
}

func (c *Checker) checkStructDestructurePattern(env *typeEnv, pt *ast.StructDestructurePattern, scrutinee types.Type) {
	info, ok := c.structs[pt.StructName]
	if !ok {
		c.errorf(pt.Span(), diagnostics.UnresolvedName, "unknown struct %q", pt.StructName)
		c.setType(pt.ID(), any())
		return
	}
	s := instantiate(info.GenericVars)
	var instTy types.Type = types.TCon{Name: pt.StructName}
	if len(info.GenericVars) > 0 {
		args := make([]types.Type, len(info.GenericVars))
		for i, v := range info.GenericVars {
			args[i] = v.Apply(s)
		}
		instTy = types.TApp{Name: pt.StructName, Args: args}
	}
	instTy = c.unify(instTy, scrutinee, pt.Span(), "struct pattern scrutinee")
	c.setType(pt.ID(), instTy)

	for name, sub := range pt.Fields {
		ft, ok := info.Fields[name]
		if !ok {
			c.errorf(pt.Span(), diagnostics.UnknownField, "struct %q has no field %q", pt.StructName, name)
			continue
		}
		c.checkPattern(env, sub, ft.Apply(s))
	}
}

func (c *Checker) checkListPattern(env *typeEnv, pt *ast.ListPattern, scrutinee types.Type) {
	elem := types.Fresh()
	instTy := c.unify(types.List(elem), scrutinee, pt.Span(), "list pattern scrutinee")
	c.setType(pt.ID(), instTy)
	elemTy := elem.Apply(c.subst)
	for _, h := range pt.Head {
		c.checkPattern(env, h, elemTy)
	}
	if pt.Rest != nil {
		env.define(pt.Rest.Name, types.List(elemTy))
		c.setType(pt.Rest.ID(), types.List(elemTy))
	}
	for _, t := range pt.Tail {
		c.checkPattern(env, t, elemTy)
	}
}
