package checker

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/types"
)

// checkBodies type-checks every function/method body and top-level
// let/expression statement (spec.md §4.E pass 2).
func (c *Checker) checkBodies(mod *ast.Module) {
	moduleEnv := newTypeEnv(nil)
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.FunctionDecl:
			c.checkFunction(it, c.functions[it.Name])
		case *ast.StructDecl:
			for _, m := range it.Methods {
				c.checkFunction(m, c.functions[it.Name+"."+m.Name])
			}
		case *ast.LetStmt:
			mark := len(c.order)
			c.subst = types.Subst{}
			ty := c.inferExpr(moduleEnv, it.Value)
			if it.Annotation != nil {
				ann := types.Elaborate(it.Annotation, nil)
				ty = c.unify(ann, ty, it.Span(), "let annotation")
			}
			c.setType(it.ID(), ty)
			c.finalize(mark)
			moduleEnv.define(it.Name, ty)
			c.globals[it.Name] = ty
		case *ast.ExprStmt:
			mark := len(c.order)
			c.subst = types.Subst{}
			c.inferExpr(moduleEnv, it.X)
			c.finalize(mark)
		}
	}
}

// checkFunction type-checks one function or method body against sig,
// starting a fresh substitution (spec.md §4.E: generics are instantiated
// per call site, and one function's local inference has no bearing on
// another's).
func (c *Checker) checkFunction(fn *ast.FunctionDecl, sig *FunctionSig) {
	mark := len(c.order)
	c.subst = types.Subst{}
	env := newTypeEnv(nil)
	if fn.IsMethod() {
		env.define(config.SelfParamName, c.selfType(sig.Receiver))
	}
	for i, name := range sig.ParamNames {
		env.define(name, sig.Params[i])
	}
	prevRet := c.curRet
	c.curRet = sig.Ret
	for _, p := range fn.Params {
		if p.Default != nil {
			dt := c.inferExpr(env, p.Default)
			c.unify(dt, sig.Params[paramIndex(sig.ParamNames, p.Name)], p.Default.Span(), "default value")
		}
	}
	c.checkBlock(env, fn.Body)
	c.curRet = prevRet
	c.finalize(mark)
}

func paramIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

// checkBlock type-checks a statement list for its side effects only,
// discarding any trailing expression's value (used by if/while/for/try
// bodies, as opposed to match arms and lambda bodies which yield a value).
func (c *Checker) checkBlock(parent *typeEnv, stmts []ast.Statement) {
	c.checkBlockValue(parent, stmts)
}

// checkBlockValue type-checks a statement list and returns the type
// "yielded" by its last expression-statement plus whether the block
// diverges (ends in return/raise/break/continue), matching spec.md §4.E's
// control-flow-as-expression join rule and invariant 3 (nodes below a
// diverging statement are typed unit).
func (c *Checker) checkBlockValue(parent *typeEnv, stmts []ast.Statement) (types.Type, bool) {
	env := newTypeEnv(parent)
	diverged := false
	last := types.Type(types.TUnit{})
	for i, s := range stmts {
		if diverged {
			c.markUnreachable(s)
			continue
		}
		switch st := s.(type) {
		case *ast.ExprStmt:
			t := c.inferExpr(env, st.X)
			if i == len(stmts)-1 {
				last = t
			}
		case *ast.ReturnStmt:
			c.checkStmt(env, st)
			diverged = true
			last = types.TUnit{}
		case *ast.RaiseStmt:
			c.checkStmt(env, st)
			diverged = true
			last = types.TUnit{}
		case *ast.BreakStmt, *ast.ContinueStmt:
			diverged = true
			last = types.TUnit{}
		default:
			c.checkStmt(env, s)
		}
	}
	return last, diverged
}

// markUnreachable types dead-code expression statements as unit, satisfying
// spec.md invariant 3 without running real inference over them.
func (c *Checker) markUnreachable(s ast.Statement) {
	if es, ok := s.(*ast.ExprStmt); ok {
		c.setType(es.X.ID(), types.TUnit{})
		c.setType(es.ID(), types.TUnit{})
	}
}

func (c *Checker) checkStmt(env *typeEnv, s ast.Statement) {
	switch st := s.(type) {
	case *ast.LetStmt:
		ty := c.inferExpr(env, st.Value)
		if st.Annotation != nil {
			ann := types.Elaborate(st.Annotation, nil)
			ty = c.unify(ann, ty, st.Span(), "let annotation")
		}
		c.setType(st.ID(), ty)
		env.define(st.Name, ty)
	case *ast.AssignStmt:
		target := c.inferExpr(env, st.Target)
		value := c.inferExpr(env, st.Value)
		c.unify(target, value, st.Span(), "assignment")
	case *ast.ReturnStmt:
		var ty types.Type = types.TUnit{}
		if st.Value != nil {
			ty = c.inferExpr(env, st.Value)
		}
		c.unify(ty, c.curRet, st.Span(), "return value")
	case *ast.RaiseStmt:
		if st.Value != nil {
			c.inferExpr(env, st.Value)
		}
	case *ast.IfStmt:
		cond := c.inferExpr(env, st.Cond)
		c.unify(cond, types.TCon{Name: types.Bool}, st.Cond.Span(), "if condition")
		c.checkBlock(env, st.Body)
		for _, e := range st.Elifs {
			ec := c.inferExpr(env, e.Cond)
			c.unify(ec, types.TCon{Name: types.Bool}, e.Cond.Span(), "elif condition")
			c.checkBlock(env, e.Body)
		}
		if st.Else != nil {
			c.checkBlock(env, st.Else)
		}
	case *ast.WhileStmt:
		cond := c.inferExpr(env, st.Cond)
		c.unify(cond, types.TCon{Name: types.Bool}, st.Cond.Span(), "while condition")
		c.checkBlock(env, st.Body)
	case *ast.ForStmt:
		c.checkFor(env, st)
	case *ast.TryStmt:
		c.checkBlock(env, st.Body)
		for _, h := range st.Handlers {
			henv := newTypeEnv(env)
			if h.Pattern != nil {
				c.checkPattern(henv, h.Pattern, any())
			}
			c.checkBlock(henv, h.Body)
		}
		if st.Else != nil {
			c.checkBlock(env, st.Else)
		}
		if st.Finally != nil {
			c.checkBlock(env, st.Finally)
		}
	case *ast.ExprStmt:
		c.inferExpr(env, st.X)
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.PassStmt:
		// no types involved
	default:
		c.errorf(s.Span(), diagnostics.InternalError, "checker: unhandled statement %T", s)
	}
}

// checkFor types `for target in iter: body` (spec.md §4.B/§4.F): a Range
// iterates Int, anything else must be a List<T> and binds target to T.
func (c *Checker) checkFor(env *typeEnv, st *ast.ForStmt) {
	var elem types.Type
	if rng, ok := st.Iter.(*ast.RangeExpr); ok {
		lo := c.inferExpr(env, rng.Lo)
		hi := c.inferExpr(env, rng.Hi)
		c.unify(lo, types.TCon{Name: types.Int}, rng.Span(), "range bound")
		c.unify(hi, types.TCon{Name: types.Int}, rng.Span(), "range bound")
		c.setType(rng.ID(), types.TCon{Name: types.Int})
		elem = types.TCon{Name: types.Int}
	} else {
		iterTy := c.inferExpr(env, st.Iter)
		fresh := types.Fresh()
		c.unify(iterTy, types.List(fresh), st.Iter.Span(), "for-loop iterable")
		elem = fresh.Apply(c.subst)
	}
	benv := newTypeEnv(env)
	c.checkPattern(benv, st.Target, elem)
	c.checkBlock(benv, st.Body)
}
