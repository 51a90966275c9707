package checker

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/token"
	"github.com/otterlang/otter/internal/types"
)

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

var equalityOnlyOps = map[string]bool{"==": true, "!=": true}

// inferBinary type-checks `Left Op Right` (spec.md §4.E "operator typing"):
//   - `+` is numeric addition between Int/Float (widening Int to Float when
//     mixed) or string concatenation, auto-stringifying a non-string operand
//     when the other side is a Str (spec.md §9 resolved Open Question).
//   - `-`, `*` follow the same numeric widening rule, without the string case.
//   - `/` always yields Float (true division; spec.md §4.B "/ always
//     produces a Float").
//   - comparisons require both operands to share a type and yield Bool;
//     `==`/`!=` additionally accept Any-poisoned operands.
func (c *Checker) inferBinary(env *typeEnv, ex *ast.BinaryOp) types.Type {
	l := c.inferExpr(env, ex.Left)
	r := c.inferExpr(env, ex.Right)

	switch ex.Op {
	case "+":
		return c.inferPlus(ex, l, r)
	case "-", "*":
		return c.inferNumeric(ex, l, r)
	case "/":
		c.checkDivisionOperand(ex.Left.Span(), l)
		c.checkDivisionOperand(ex.Right.Span(), r)
		return types.TCon{Name: types.Float}
	default:
		if comparisonOps[ex.Op] {
			return c.inferComparison(ex, l, r)
		}
		c.errorf(ex.Span(), diagnostics.InternalError, "checker: unknown binary operator %q", ex.Op)
		return any()
	}
}

// inferPlus handles the `+` overload: Int+Int, Float+Float, Int+Float
// (widened), Str+Str, or Str+<anything> (auto-stringified).
func (c *Checker) inferPlus(ex *ast.BinaryOp, l, r types.Type) types.Type {
	l = l.Apply(c.subst)
	r = r.Apply(c.subst)
	lCon, lOk := l.(types.TCon)
	rCon, rOk := r.(types.TCon)

	if lOk && lCon.Name == types.Str || rOk && rCon.Name == types.Str {
		if lOk && lCon.Name != types.Str {
			c.widened[ex.Left.ID()] = true
		}
		if rOk && rCon.Name != types.Str {
			c.widened[ex.Right.ID()] = true
		}
		return types.TCon{Name: types.Str}
	}
	return c.inferNumeric(ex, l, r)
}

// inferNumeric unifies l and r under Int/Float widening: if either operand
// is Float, the Int side is marked widened and the result is Float;
// otherwise both must be Int.
func (c *Checker) inferNumeric(ex *ast.BinaryOp, l, r types.Type) types.Type {
	l = l.Apply(c.subst)
	r = r.Apply(c.subst)
	lCon, lOk := l.(types.TCon)
	rCon, rOk := r.(types.TCon)
	if isAny(l) || isAny(r) {
		return any()
	}
	if !lOk || !rOk || (lCon.Name != types.Int && lCon.Name != types.Float) || (rCon.Name != types.Int && rCon.Name != types.Float) {
		c.errorf(ex.Span(), diagnostics.TypeMismatch, "operator %s requires numeric operands, got %s and %s", ex.Op, l, r)
		return any()
	}
	if lCon.Name == types.Float || rCon.Name == types.Float {
		if lCon.Name == types.Int {
			c.widened[ex.Left.ID()] = true
		}
		if rCon.Name == types.Int {
			c.widened[ex.Right.ID()] = true
		}
		return types.TCon{Name: types.Float}
	}
	return types.TCon{Name: types.Int}
}

func (c *Checker) checkDivisionOperand(span token.Span, t types.Type) {
	t = t.Apply(c.subst)
	if isAny(t) {
		return
	}
	con, ok := t.(types.TCon)
	if !ok || (con.Name != types.Int && con.Name != types.Float) {
		c.errorf(span, diagnostics.TypeMismatch, "/ requires numeric operands, got %s", t)
	}
}

func (c *Checker) inferComparison(ex *ast.BinaryOp, l, r types.Type) types.Type {
	if equalityOnlyOps[ex.Op] {
		if !isAny(l) && !isAny(r) {
			c.unify(l, r, ex.Span(), "comparison operands")
		}
		return types.TCon{Name: types.Bool}
	}
	c.unify(l, r, ex.Span(), "comparison operands")
	return types.TCon{Name: types.Bool}
}
