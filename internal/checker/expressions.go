package checker

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/symbols"
	"github.com/otterlang/otter/internal/token"
	"github.com/otterlang/otter/internal/types"
)

// inferExpr elaborates e's type, recording it via setType, and returns it
// (spec.md §4.E).
func (c *Checker) inferExpr(env *typeEnv, e ast.Expression) types.Type {
	ty := c.inferExprRaw(env, e)
	c.setType(e.ID(), ty)
	return ty
}

func (c *Checker) inferExprRaw(env *typeEnv, e ast.Expression) types.Type {
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return types.TCon{Name: types.Int}
	case *ast.FloatLiteral:
		return types.TCon{Name: types.Float}
	case *ast.StringLiteral:
		return types.TCon{Name: types.Str}
	case *ast.BoolLiteral:
		return types.TCon{Name: types.Bool}
	case *ast.UnitLiteral:
		return types.TUnit{}
	case *ast.Identifier:
		return c.inferIdentifier(env, ex)
	case *ast.FString:
		for _, piece := range ex.Pieces {
			if piece.Expr != nil {
				c.inferExpr(env, piece.Expr)
			}
		}
		return types.TCon{Name: types.Str}
	case *ast.MemberAccess:
		return c.inferMemberAccess(env, ex)
	case *ast.Call:
		return c.inferCall(env, ex)
	case *ast.Index:
		return c.inferIndex(env, ex)
	case *ast.UnaryOp:
		return c.inferUnary(env, ex)
	case *ast.BinaryOp:
		return c.inferBinary(env, ex)
	case *ast.LogicalOp:
		l := c.inferExpr(env, ex.Left)
		r := c.inferExpr(env, ex.Right)
		c.unify(l, types.TCon{Name: types.Bool}, ex.Left.Span(), "logical operand")
		c.unify(r, types.TCon{Name: types.Bool}, ex.Right.Span(), "logical operand")
		return types.TCon{Name: types.Bool}
	case *ast.IsCheck:
		c.inferExpr(env, ex.Left)
		c.inferExpr(env, ex.Right)
		return types.TCon{Name: types.Bool}
	case *ast.RangeExpr:
		lo := c.inferExpr(env, ex.Lo)
		hi := c.inferExpr(env, ex.Hi)
		c.unify(lo, types.TCon{Name: types.Int}, ex.Lo.Span(), "range bound")
		c.unify(hi, types.TCon{Name: types.Int}, ex.Hi.Span(), "range bound")
		return types.TApp{Name: "Range", Args: []types.Type{types.TCon{Name: types.Int}}}
	case *ast.ListLit:
		elem := types.Type(types.Fresh())
		for _, el := range ex.Elements {
			et := c.inferExpr(env, el)
			elem = c.unify(elem, et, el.Span(), "list element")
		}
		return types.List(elem)
	case *ast.DictLit:
		key := types.Type(types.Fresh())
		val := types.Type(types.Fresh())
		for _, entry := range ex.Entries {
			kt := c.inferExpr(env, entry.Key)
			vt := c.inferExpr(env, entry.Value)
			key = c.unify(key, kt, entry.Key.Span(), "dict key")
			val = c.unify(val, vt, entry.Value.Span(), "dict value")
		}
		return types.Dict(key, val)
	case *ast.StructLit:
		return c.inferStructLit(env, ex)
	case *ast.Lambda:
		return c.inferLambda(env, ex)
	case *ast.Await:
		operand := c.inferExpr(env, ex.Operand)
		payload := types.Fresh()
		task := types.Task(payload)
		s, err := types.Unify(operand.Apply(c.subst), task)
		if err != nil {
			c.errorf(ex.Span(), diagnostics.AwaitOutsideAsync, "await operand %s is not a Task", operand)
			return any()
		}
		c.subst = c.subst.Compose(s)
		return payload.Apply(c.subst)
	case *ast.Spawn:
		operand := c.inferExpr(env, ex.Operand)
		return types.Task(operand)
	case *ast.Match:
		return c.inferMatch(env, ex)
	case *ast.ListComprehension:
		return c.inferListComprehension(env, ex)
	case *ast.DictComprehension:
		return c.inferDictComprehension(env, ex)
	default:
		c.errorf(e.Span(), diagnostics.InternalError, "checker: unhandled expression %T", e)
		return any()
	}
}

func (c *Checker) inferIdentifier(env *typeEnv, id *ast.Identifier) types.Type {
	if ty, ok := env.lookup(id.Name); ok {
		return ty
	}
	sym := c.symbolFor(id)
	if sym == nil {
		return any()
	}
	if sym.Poisoned {
		return any()
	}
	switch sym.Kind {
	case symbols.FunctionSymbol:
		if sig, ok := c.functions[id.Name]; ok {
			return c.instantiateFunc(sig)
		}
		return any()
	case symbols.GlobalLetSymbol:
		if ty, ok := c.globals[id.Name]; ok {
			return ty
		}
		return any()
	case symbols.StructSymbol, symbols.EnumSymbol, symbols.ModuleSymbol, symbols.VariantSymbol, symbols.TypeAliasSymbol:
		// Referenced as a namespace (e.g. the left of a MemberAccess or
		// Call); the containing expression elaborates the real type.
		return any()
	default:
		return any()
	}
}

// instantiateFunc builds the call-site function type for sig, minting
// fresh type variables for its generic parameters (spec.md §4.E).
func (c *Checker) instantiateFunc(sig *FunctionSig) types.Type {
	s := instantiate(sig.GenericVars)
	params := make([]types.Type, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = p.Apply(s)
	}
	return types.TFunc{Params: params, Ret: sig.Ret.Apply(s)}
}

func (c *Checker) inferMemberAccess(env *typeEnv, ex *ast.MemberAccess) types.Type {
	if enumName, ok := c.enumNameFromExpr(ex.Left); ok {
		if info, ok := c.enums[enumName]; ok {
			if payload, ok := info.Variants[ex.Name]; ok {
				if len(payload) == 0 {
					return c.instantiateEnumValue(info, enumName)
				}
				// A payload-carrying variant referenced bare (not called)
				// behaves like its constructor function.
				s := instantiate(info.GenericVars)
				params := make([]types.Type, len(payload))
				for i, p := range payload {
					params[i] = p.Apply(s)
				}
				return types.TFunc{Params: params, Ret: c.instantiateEnumValueWith(enumName, info, s)}
			}
			c.errorf(ex.Span(), diagnostics.UnknownField, "enum %q has no variant %q", enumName, ex.Name)
			return any()
		}
	}
	leftTy := c.inferExpr(env, ex.Left)
	return c.fieldType(leftTy, ex.Name, ex.Span())
}

func (c *Checker) instantiateEnumValue(info *EnumInfo, name string) types.Type {
	s := instantiate(info.GenericVars)
	return c.instantiateEnumValueWith(name, info, s)
}

func (c *Checker) instantiateEnumValueWith(name string, info *EnumInfo, s types.Subst) types.Type {
	if len(info.GenericVars) == 0 {
		return types.TCon{Name: name}
	}
	args := make([]types.Type, len(info.GenericVars))
	for i, v := range info.GenericVars {
		args[i] = v.Apply(s)
	}
	return types.TApp{Name: name, Args: args}
}

// enumNameFromExpr reports whether e is a bare Identifier naming a declared
// enum (the left side of an `Enum.Variant` path).
func (c *Checker) enumNameFromExpr(e ast.Expression) (string, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return "", false
	}
	if sym := c.symbolFor(id); sym != nil && sym.Kind == symbols.EnumSymbol {
		return id.Name, true
	}
	if _, ok := c.enums[id.Name]; ok {
		return id.Name, true
	}
	return "", false
}

// structInfoFor resolves receiver (after substitution) to its declared
// StructInfo and the substitution mapping its generic parameters to the
// receiver's actual type arguments.
func (c *Checker) structInfoFor(receiver types.Type) (*StructInfo, types.Subst, bool) {
	switch t := receiver.Apply(c.subst).(type) {
	case types.TCon:
		if info, ok := c.structs[t.Name]; ok {
			return info, types.Subst{}, true
		}
	case types.TApp:
		if info, ok := c.structs[t.Name]; ok {
			s := make(types.Subst, len(info.GenericVars))
			for i, v := range info.GenericVars {
				if i < len(t.Args) {
					s[v.Name] = t.Args[i]
				}
			}
			return info, s, true
		}
	}
	return nil, nil, false
}

// fieldType looks up field on a struct-typed receiver, substituting the
// receiver's actual generic arguments into the declared field type.
func (c *Checker) fieldType(receiver types.Type, field string, span token.Span) types.Type {
	if isAny(receiver.Apply(c.subst)) {
		return any()
	}
	info, s, ok := c.structInfoFor(receiver)
	if !ok {
		c.errorf(span, diagnostics.UnknownField, "%s has no field %q", receiver.Apply(c.subst), field)
		return any()
	}
	ft, ok := info.Fields[field]
	if !ok {
		c.errorf(span, diagnostics.UnknownField, "struct %s has no field %q", receiver.Apply(c.subst), field)
		return any()
	}
	return ft.Apply(s)
}

// inferCall type-checks a call expression: a bare function/method reference,
// a builtin (print/len), or an enum variant constructor invoked with
// arguments (spec.md §4.B/§4.E).
func (c *Checker) inferCall(env *typeEnv, ex *ast.Call) types.Type {
	argTypes := make([]types.Type, len(ex.Args))
	for i, a := range ex.Args {
		argTypes[i] = c.inferExpr(env, a)
	}

	if id, ok := ex.Callee.(*ast.Identifier); ok {
		if ty, builtin := c.inferBuiltinCall(id.Name, ex, argTypes); builtin {
			return ty
		}
	}

	if ty, isFFI := c.inferFFICall(ex, argTypes); isFFI {
		return ty
	}

	calleeTy := c.inferExpr(env, ex.Callee)
	return c.applyCall(calleeTy, argTypes, ex)
}

func (c *Checker) inferBuiltinCall(name string, ex *ast.Call, argTypes []types.Type) (types.Type, bool) {
	switch name {
	case "print":
		return types.TUnit{}, true
	case "len":
		if len(argTypes) != 1 {
			c.errorf(ex.Span(), diagnostics.ArityMismatch, "len expects 1 argument, got %d", len(argTypes))
			return any(), true
		}
		return types.TCon{Name: types.Int}, true
	}
	return nil, false
}

// applyCall unifies calleeTy as a function of len(argTypes) parameters
// against the supplied arguments and returns the return type.
func (c *Checker) applyCall(calleeTy types.Type, argTypes []types.Type, ex *ast.Call) types.Type {
	calleeTy = calleeTy.Apply(c.subst)
	if isAny(calleeTy) {
		return any()
	}
	fn, ok := calleeTy.(types.TFunc)
	if !ok {
		c.errorf(ex.Span(), diagnostics.TypeMismatch, "%s is not callable", calleeTy)
		return any()
	}
	if len(fn.Params) != len(argTypes) {
		c.errorf(ex.Span(), diagnostics.ArityMismatch, "expected %d argument(s), got %d", len(fn.Params), len(argTypes))
	}
	n := len(fn.Params)
	if len(argTypes) < n {
		n = len(argTypes)
	}
	for i := 0; i < n; i++ {
		c.unify(fn.Params[i], argTypes[i], ex.Args[i].Span(), "call argument")
	}
	return fn.Ret.Apply(c.subst)
}

func (c *Checker) inferIndex(env *typeEnv, ex *ast.Index) types.Type {
	leftTy := c.inferExpr(env, ex.Left).Apply(c.subst)
	idxTy := c.inferExpr(env, ex.Idx)
	if isAny(leftTy) {
		return any()
	}
	if t, ok := leftTy.(types.TApp); ok {
		switch t.Name {
		case "List":
			c.unify(idxTy, types.TCon{Name: types.Int}, ex.Idx.Span(), "list index")
			return t.Args[0].Apply(c.subst)
		case "Dict":
			c.unify(idxTy, t.Args[0], ex.Idx.Span(), "dict key")
			return t.Args[1].Apply(c.subst)
		}
	}
	c.errorf(ex.Span(), diagnostics.TypeMismatch, "%s is not indexable", leftTy)
	return any()
}

func (c *Checker) inferUnary(env *typeEnv, ex *ast.UnaryOp) types.Type {
	operand := c.inferExpr(env, ex.Operand)
	switch ex.Op {
	case "not":
		c.unify(operand, types.TCon{Name: types.Bool}, ex.Span(), "not operand")
		return types.TCon{Name: types.Bool}
	case "-":
		operand = operand.Apply(c.subst)
		if con, ok := operand.(types.TCon); ok && (con.Name == types.Int || con.Name == types.Float) {
			return con
		}
		c.errorf(ex.Span(), diagnostics.TypeMismatch, "cannot negate %s", operand)
		return any()
	default:
		c.errorf(ex.Span(), diagnostics.InternalError, "checker: unknown unary operator %q", ex.Op)
		return any()
	}
}

func (c *Checker) inferStructLit(env *typeEnv, ex *ast.StructLit) types.Type {
	info, ok := c.structs[ex.Name]
	if !ok {
		c.errorf(ex.Span(), diagnostics.UnresolvedName, "unknown struct %q", ex.Name)
		return any()
	}
	s := instantiate(info.GenericVars)
	seen := make(map[string]bool, len(ex.Fields))
	for _, f := range ex.Fields {
		seen[f.Name] = true
		vt := c.inferExpr(env, f.Value)
		declared, ok := info.Fields[f.Name]
		if !ok {
			c.errorf(ex.Span(), diagnostics.UnknownField, "struct %q has no field %q", ex.Name, f.Name)
			continue
		}
		c.unify(declared.Apply(s), vt, f.Value.Span(), "struct field "+f.Name)
	}
	for _, name := range info.FieldOrder {
		if !seen[name] {
			c.errorf(ex.Span(), diagnostics.MissingField, "struct %q is missing field %q", ex.Name, name)
		}
	}
	if len(info.GenericVars) == 0 {
		return types.TCon{Name: ex.Name}
	}
	args := make([]types.Type, len(info.GenericVars))
	for i, v := range info.GenericVars {
		args[i] = v.Apply(s)
	}
	return types.TApp{Name: ex.Name, Args: args}
}

func (c *Checker) inferLambda(env *typeEnv, ex *ast.Lambda) types.Type {
	lenv := newTypeEnv(env)
	params := make([]types.Type, len(ex.Params))
	for i, p := range ex.Params {
		var pt types.Type
		if p.Type != nil {
			pt = types.Elaborate(p.Type, nil)
		} else {
			pt = types.Fresh()
		}
		params[i] = pt
		lenv.define(p.Name, pt)
	}
	prevRet := c.curRet
	ret := types.Type(types.Fresh())
	c.curRet = ret
	val, diverged := c.checkBlockValue(lenv, ex.Body)
	if !diverged {
		ret = c.unify(ret, val, ex.Span(), "lambda body")
	}
	c.curRet = prevRet
	for i, p := range params {
		params[i] = p.Apply(c.subst)
	}
	return types.TFunc{Params: params, Ret: ret.Apply(c.subst)}
}

// inferMatch type-checks a match expression: every arm's pattern is checked
// against the scrutinee's type in its own scope, and the expression's type
// is the unified join of every non-diverging arm's body (spec.md §4.E).
func (c *Checker) inferMatch(env *typeEnv, ex *ast.Match) types.Type {
	scrutinee := c.inferExpr(env, ex.Scrutinee)
	c.checkExhaustiveness(ex, scrutinee.Apply(c.subst))

	result := types.Type(types.Fresh())
	anyArm := false
	for _, arm := range ex.Arms {
		aenv := newTypeEnv(env)
		c.checkPattern(aenv, arm.Pattern, scrutinee.Apply(c.subst))
		val, diverged := c.checkBlockValue(aenv, arm.Body)
		if diverged {
			continue
		}
		anyArm = true
		result = c.unify(result, val, arm.Body[len(arm.Body)-1].Span(), "match arm")
	}
	if !anyArm {
		return types.TUnit{}
	}
	return result.Apply(c.subst)
}

func (c *Checker) inferListComprehension(env *typeEnv, ex *ast.ListComprehension) types.Type {
	iterTy := c.inferExpr(env, ex.Iter)
	elem := types.Fresh()
	c.unify(iterTy, types.List(elem), ex.Iter.Span(), "comprehension iterable")
	benv := newTypeEnv(env)
	c.checkPattern(benv, ex.Target, elem.Apply(c.subst))
	if ex.Filter != nil {
		ft := c.inferExpr(benv, ex.Filter)
		c.unify(ft, types.TCon{Name: types.Bool}, ex.Filter.Span(), "comprehension filter")
	}
	yieldTy := c.inferExpr(benv, ex.Yield)
	return types.List(yieldTy.Apply(c.subst))
}

func (c *Checker) inferDictComprehension(env *typeEnv, ex *ast.DictComprehension) types.Type {
	iterTy := c.inferExpr(env, ex.Iter)
	elem := types.Fresh()
	c.unify(iterTy, types.List(elem), ex.Iter.Span(), "comprehension iterable")
	benv := newTypeEnv(env)
	c.checkPattern(benv, ex.Target, elem.Apply(c.subst))
	if ex.Filter != nil {
		ft := c.inferExpr(benv, ex.Filter)
		c.unify(ft, types.TCon{Name: types.Bool}, ex.Filter.Span(), "comprehension filter")
	}
	keyTy := c.inferExpr(benv, ex.Key)
	valTy := c.inferExpr(benv, ex.Value)
	return types.Dict(keyTy.Apply(c.subst), valTy.Apply(c.subst))
}
