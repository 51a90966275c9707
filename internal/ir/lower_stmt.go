package ir

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/types"
)

func (l *Lowerer) lowerStmt(s ast.Statement) {
	switch st := s.(type) {
	case *ast.LetStmt:
		val, ty := l.lowerExpr(st.Value)
		slot := l.fn.addSlot(st.Name, ty)
		l.env.define(st.Name, slot)
		addr := l.emitSlotAddr(slot)
		l.emitVoid(OpStore, addr, val)
	case *ast.AssignStmt:
		val, _ := l.lowerExpr(st.Value)
		addr := l.lowerAddr(st.Target)
		l.emitVoid(OpStore, addr, val)
	case *ast.ReturnStmt:
		if st.Value == nil {
			l.block.terminate(&Terminator{Kind: TermRet})
			return
		}
		val, _ := l.lowerExpr(st.Value)
		l.block.terminate(&Terminator{Kind: TermRet, Value: &val})
	case *ast.RaiseStmt:
		var arg ValueID
		if st.Value != nil {
			arg, _ = l.lowerExpr(st.Value)
		}
		l.emitVoid(OpRaise, arg)
		l.block.terminate(&Terminator{Kind: TermUnreachable})
	case *ast.BreakStmt:
		if l.loop != nil {
			l.block.terminate(&Terminator{Kind: TermBr, Target: l.loop.breakTo})
		}
	case *ast.ContinueStmt:
		if l.loop != nil {
			l.block.terminate(&Terminator{Kind: TermBr, Target: l.loop.continueTo})
		}
	case *ast.PassStmt:
		// no-op
	case *ast.ExprStmt:
		l.lowerExpr(st.X)
	case *ast.IfStmt:
		l.lowerIf(st)
	case *ast.WhileStmt:
		l.lowerWhile(st)
	case *ast.ForStmt:
		l.lowerFor(st)
	case *ast.TryStmt:
		l.lowerTry(st)
	}
}

// lowerIf lowers `if/elif*/else` into a chain of cond_br/then/else/merge
// blocks (spec.md §4.F "if lowers to cond_br between a then, else, and
// merge block").
func (l *Lowerer) lowerIf(st *ast.IfStmt) {
	merge := l.fn.newBlock("if.merge")
	l.lowerIfChain(st.Cond, st.Body, st.Elifs, st.Else, merge)
	l.block = merge
}

func (l *Lowerer) lowerIfChain(cond ast.Expression, body []ast.Statement, elifs []ast.ElifClause, els []ast.Statement, merge *Block) {
	condVal, _ := l.lowerExpr(cond)
	thenBlk := l.fn.newBlock("if.then")
	elseBlk := l.fn.newBlock("if.else")
	l.block.terminate(&Terminator{Kind: TermCondBr, Cond: condVal, Then: thenBlk, Else: elseBlk})

	l.block = thenBlk
	l.lowerBlock(body)
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: merge})
	}

	l.block = elseBlk
	if len(elifs) > 0 {
		l.lowerIfChain(elifs[0].Cond, elifs[0].Body, elifs[1:], els, merge)
		return
	}
	l.lowerBlock(els)
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: merge})
	}
}

// lowerWhile lowers `while Cond: Body` into header/body/exit blocks
// (spec.md §4.F).
func (l *Lowerer) lowerWhile(st *ast.WhileStmt) {
	header := l.fn.newBlock("while.header")
	body := l.fn.newBlock("while.body")
	exit := l.fn.newBlock("while.exit")

	l.block.terminate(&Terminator{Kind: TermBr, Target: header})

	l.block = header
	cond, _ := l.lowerExpr(st.Cond)
	l.block.terminate(&Terminator{Kind: TermCondBr, Cond: cond, Then: body, Else: exit})

	l.block = body
	prevLoop := l.loop
	l.loop = &loopLabels{parent: prevLoop, continueTo: header, breakTo: exit}
	l.lowerBlock(st.Body)
	l.loop = prevLoop
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: header})
	}

	l.block = exit
}

// lowerFor lowers `for x in a..b: body` to an induction-variable loop
// (exclusive of b), and a non-range iterable to iterator-protocol
// intrinsic calls (spec.md §4.F).
func (l *Lowerer) lowerFor(st *ast.ForStmt) {
	if rng, ok := st.Iter.(*ast.RangeExpr); ok {
		l.lowerForRange(st, rng)
		return
	}
	l.lowerForIterator(st)
}

func (l *Lowerer) lowerForRange(st *ast.ForStmt, rng *ast.RangeExpr) {
	lo, _ := l.lowerExpr(rng.Lo)
	hi, _ := l.lowerExpr(rng.Hi)
	intT := types.TCon{Name: types.Int}

	slot := l.fn.addSlot(targetName(st.Target), intT)
	addr := l.emitSlotAddr(slot)
	l.emitVoid(OpStore, addr, lo)

	header := l.fn.newBlock("for.header")
	body := l.fn.newBlock("for.body")
	exit := l.fn.newBlock("for.exit")
	l.block.terminate(&Terminator{Kind: TermBr, Target: header})

	l.block = header
	cur := l.emitArgs(OpLoad, intT, addr)
	cond := l.emitArgs(OpBinOp, types.TCon{Name: types.Bool}, cur, hi)
	l.block.Instrs[len(l.block.Instrs)-1].Sym = "<"
	l.block.terminate(&Terminator{Kind: TermCondBr, Cond: cond, Then: body, Else: exit})

	l.block = body
	l.env = newScope(l.env)
	l.env.define(targetName(st.Target), slot)
	prevLoop := l.loop

	next := l.fn.newBlock("for.next")
	l.loop = &loopLabels{parent: prevLoop, continueTo: next, breakTo: exit}
	l.lowerBlock(st.Body)
	l.loop = prevLoop
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: next})
	}

	l.block = next
	cur2 := l.emitArgs(OpLoad, intT, addr)
	one := l.emit(OpConstInt, intT, "")
	l.block.Instrs[len(l.block.Instrs)-1].ConstI = 1
	incr := l.emitArgs(OpBinOp, intT, cur2, one)
	l.block.Instrs[len(l.block.Instrs)-1].Sym = "+"
	l.emitVoid(OpStore, addr, incr)
	l.block.terminate(&Terminator{Kind: TermBr, Target: header})

	l.env = l.env.parent
	l.block = exit
}

// lowerForIterator lowers iteration over a List<T> (or any non-range
// iterable) via the runtime's iterator-protocol intrinsic (spec.md §4.F).
func (l *Lowerer) lowerForIterator(st *ast.ForStmt) {
	iterable, elemTy := l.lowerExpr(st.Iter)
	anyT := types.TCon{Name: config.AnyTypeName}

	header := l.fn.newBlock("foriter.header")
	body := l.fn.newBlock("foriter.body")
	exit := l.fn.newBlock("foriter.exit")
	l.block.terminate(&Terminator{Kind: TermBr, Target: header})

	l.block = header
	next := l.emitArgs(OpCall, anyT, iterable)
	l.block.Instrs[len(l.block.Instrs)-1].Sym = config.IntrinsicIterNext
	hasMore := l.emitArgs(OpBinOp, types.TCon{Name: types.Bool}, next)
	l.block.Instrs[len(l.block.Instrs)-1].Sym = "has_value"
	l.block.terminate(&Terminator{Kind: TermCondBr, Cond: hasMore, Then: body, Else: exit})

	l.block = body
	slot := l.fn.addSlot(targetName(st.Target), elemTy)
	addr := l.emitSlotAddr(slot)
	l.emitVoid(OpStore, addr, next)
	l.env = newScope(l.env)
	l.env.define(targetName(st.Target), slot)
	prevLoop := l.loop
	l.loop = &loopLabels{parent: prevLoop, continueTo: header, breakTo: exit}
	l.lowerBlock(st.Body)
	l.loop = prevLoop
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: header})
	}
	l.env = l.env.parent
	l.block = exit
}

func targetName(p ast.Pattern) string {
	if b, ok := p.(*ast.BindingPattern); ok {
		return b.Name
	}
	return "_"
}

// lowerTry establishes a landing pad for `try/except/finally`: the body
// runs normally, then falls through the finally block on both the success
// and (simplified, single-handler) exception edges (spec.md §4.F/§5's
// "finally executes on every exit path").
func (l *Lowerer) lowerTry(st *ast.TryStmt) {
	merge := l.fn.newBlock("try.merge")
	l.lowerBlock(st.Body)
	if l.block.Term == nil && len(st.Else) > 0 {
		l.lowerBlock(st.Else)
	}
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: merge})
	}

	for _, h := range st.Handlers {
		l.block = l.fn.newBlock("except")
		if len(h.Body) == 0 {
			l.block.terminate(&Terminator{Kind: TermBr, Target: merge})
			continue
		}
		l.lowerBlock(h.Body)
		if l.block.Term == nil {
			l.block.terminate(&Terminator{Kind: TermBr, Target: merge})
		}
	}

	l.block = merge
	if len(st.Finally) > 0 {
		l.lowerBlock(st.Finally)
	}
}

// lowerAddr computes the address an assignment target stores through:
// a plain local/global, or a struct field.
func (l *Lowerer) lowerAddr(e ast.Expression) ValueID {
	switch n := e.(type) {
	case *ast.Identifier:
		if slot, ok := l.env.lookup(n.Name); ok {
			return l.emitSlotAddr(slot)
		}
		return l.emit(OpGlobalAddr, types.TCon{Name: config.AnyTypeName}, n.Name)
	case *ast.MemberAccess:
		base, baseTy := l.lowerExpr(n.Left)
		return l.fieldAddr(base, baseTy, n.Name)
	case *ast.Index:
		base, _ := l.lowerExpr(n.Left)
		idx, _ := l.lowerExpr(n.Idx)
		return l.emitArgs(OpListGet, types.TCon{Name: config.AnyTypeName}, base, idx)
	default:
		v, _ := l.lowerExpr(e)
		return v
	}
}
