package ir

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/types"
)

// lowerMatch lowers a match expression to a decision tree of tag/literal
// tests over the scrutinee, each surviving arm storing its value into a
// shared result slot before branching to a common merge block (spec.md
// §4.F "pattern-match decision tree").
func (l *Lowerer) lowerMatch(ex *ast.Match) (ValueID, types.Type) {
	resultTy := l.typeOf(ex)
	scrut, scrutTy := l.lowerExpr(ex.Scrutinee)
	resultSlot := l.fn.addSlot("$match", resultTy)
	merge := l.fn.newBlock("match.merge")

	l.lowerMatchArms(scrut, scrutTy, ex.Arms, resultSlot, merge)

	l.block = merge
	addr := l.emitSlotAddr(resultSlot)
	return l.emitArgs(OpLoad, resultTy, addr), resultTy
}

func (l *Lowerer) lowerMatchArms(scrut ValueID, scrutTy types.Type, arms []ast.MatchArm, resultSlot *Slot, merge *Block) {
	if len(arms) == 0 {
		l.block.terminate(&Terminator{Kind: TermUnreachable})
		return
	}
	arm := arms[0]
	rest := arms[1:]

	matched := l.fn.newBlock("match.arm")
	var next *Block
	if len(rest) > 0 {
		next = l.fn.newBlock("match.next")
	} else {
		next = l.fn.newBlock("match.fail")
	}

	l.lowerPatternTest(scrut, arm.Pattern, matched, next)

	l.block = matched
	l.env = newScope(l.env)
	l.bindPattern(scrut, scrutTy, arm.Pattern)
	val, _ := l.lowerBlockValue(arm.Body)
	if l.block.Term == nil {
		addr := l.emitSlotAddr(resultSlot)
		l.emitVoid(OpStore, addr, val)
		l.block.terminate(&Terminator{Kind: TermBr, Target: merge})
	}
	l.env = l.env.parent

	l.block = next
	if len(rest) > 0 {
		l.lowerMatchArms(scrut, scrutTy, rest, resultSlot, merge)
	} else {
		// Exhaustiveness is checked and diagnosed by the checker; a
		// non-exhaustive match that still reaches here at runtime is
		// unreachable by construction.
		l.block.terminate(&Terminator{Kind: TermUnreachable})
	}
}

// lowerPatternTest emits the branch deciding whether scrut matches p,
// branching to matched or failed. Binding/wildcard patterns always match;
// literal patterns compare by value; enum-variant patterns compare tags;
// struct and list patterns are shape-checked (list length; struct shape is
// guaranteed by the checker's static typing, so no runtime test is needed).
func (l *Lowerer) lowerPatternTest(scrut ValueID, p ast.Pattern, matched, failed *Block) {
	switch pat := p.(type) {
	case *ast.WildcardPattern, *ast.BindingPattern:
		l.block.terminate(&Terminator{Kind: TermBr, Target: matched})
	case *ast.LiteralPattern:
		lv, _ := l.lowerExpr(pat.Value)
		cond := l.emitBinOp("==", types.TCon{Name: types.Bool}, scrut, lv)
		l.block.terminate(&Terminator{Kind: TermCondBr, Cond: cond, Then: matched, Else: failed})
	case *ast.EnumVariantPattern:
		info := l.checked.Enums[pat.EnumName]
		tag := variantIndex(info, pat.VariantName)
		tagVal := l.emitArgs(OpEnumTag, types.TCon{Name: types.Int}, scrut)
		tagConst := l.emitConstInt(int64(tag))
		cond := l.emitBinOp("==", types.TCon{Name: types.Bool}, tagVal, tagConst)
		l.block.terminate(&Terminator{Kind: TermCondBr, Cond: cond, Then: matched, Else: failed})
	case *ast.ListPattern:
		need := int64(len(pat.Head) + len(pat.Tail))
		ln := l.emitCall(config.IntrinsicListLen, types.TCon{Name: types.Int}, scrut)
		needConst := l.emitConstInt(need)
		op := "=="
		if pat.Rest != nil {
			op = ">="
		}
		cond := l.emitBinOp(op, types.TCon{Name: types.Bool}, ln, needConst)
		l.block.terminate(&Terminator{Kind: TermCondBr, Cond: cond, Then: matched, Else: failed})
	case *ast.StructDestructurePattern:
		l.block.terminate(&Terminator{Kind: TermBr, Target: matched})
	default:
		l.block.terminate(&Terminator{Kind: TermBr, Target: matched})
	}
}

// bindPattern binds every name p introduces to a fresh stack slot holding
// the corresponding sub-value of scrut.
func (l *Lowerer) bindPattern(scrut ValueID, scrutTy types.Type, p ast.Pattern) {
	anyT := types.TCon{Name: config.AnyTypeName}
	switch pat := p.(type) {
	case *ast.BindingPattern:
		slot := l.fn.addSlot(pat.Name, scrutTy)
		addr := l.emitSlotAddr(slot)
		l.emitVoid(OpStore, addr, scrut)
		l.env.define(pat.Name, slot)
	case *ast.EnumVariantPattern:
		info := l.checked.Enums[pat.EnumName]
		var payload []types.Type
		if info != nil {
			payload = info.Variants[pat.VariantName]
		}
		for i, sub := range pat.Subpatterns {
			elemTy := anyT
			if i < len(payload) {
				elemTy = loweredType(payload[i])
			}
			addr := l.fn.newReg()
			l.block.emit(&Instr{ID: addr, Op: OpEnumPayloadAddr, Type: elemTy, Args: []ValueID{scrut}, Imm: int64(i)})
			val := l.emitArgs(OpLoad, elemTy, addr)
			l.bindPattern(val, elemTy, sub)
		}
	case *ast.StructDestructurePattern:
		info := l.checked.Structs[pat.StructName]
		for name, sub := range pat.Fields {
			fieldTy := anyT
			if info != nil {
				if ft, ok := info.Fields[name]; ok {
					fieldTy = loweredType(ft)
				}
			}
			addr := l.fieldAddr(scrut, scrutTy, name)
			val := l.emitArgs(OpLoad, fieldTy, addr)
			l.bindPattern(val, fieldTy, sub)
		}
	case *ast.ListPattern:
		for i, sub := range pat.Head {
			idx := l.emitConstInt(int64(i))
			val := l.emitArgs(OpListGet, anyT, scrut, idx)
			l.bindPattern(val, anyT, sub)
		}
		if pat.Rest != nil {
			slot := l.fn.addSlot(pat.Rest.Name, scrutTy)
			addr := l.emitSlotAddr(slot)
			l.emitVoid(OpStore, addr, scrut)
			l.env.define(pat.Rest.Name, slot)
		}
		for i, sub := range pat.Tail {
			idx := l.emitConstInt(int64(i))
			val := l.emitArgs(OpListGet, anyT, scrut, idx)
			l.bindPattern(val, anyT, sub)
		}
	}
}

// lowerListComprehension desugars `[Yield for Target in Iter if Filter]`
// into a fresh list plus an imperative iterator-protocol loop that pushes
// each passing, transformed element (spec.md §4.F comprehension lowering).
func (l *Lowerer) lowerListComprehension(ex *ast.ListComprehension, ty types.Type) ValueID {
	anyT := types.TCon{Name: config.AnyTypeName}
	result := l.emitCall(config.IntrinsicListNew, ty)
	iterVal, _ := l.lowerExpr(ex.Iter)

	header := l.fn.newBlock("listcomp.header")
	body := l.fn.newBlock("listcomp.body")
	exit := l.fn.newBlock("listcomp.exit")
	l.block.terminate(&Terminator{Kind: TermBr, Target: header})

	l.block = header
	next := l.emitCall(config.IntrinsicIterNext, anyT, iterVal)
	hasMore := l.emitBinOp("has_value", types.TCon{Name: types.Bool}, next, next)
	l.block.terminate(&Terminator{Kind: TermCondBr, Cond: hasMore, Then: body, Else: exit})

	l.block = body
	l.env = newScope(l.env)
	l.bindPattern(next, anyT, ex.Target)
	if ex.Filter != nil {
		fv, _ := l.lowerExpr(ex.Filter)
		keep := l.fn.newBlock("listcomp.keep")
		l.block.terminate(&Terminator{Kind: TermCondBr, Cond: fv, Then: keep, Else: header})
		l.block = keep
	}
	yv, _ := l.lowerExpr(ex.Yield)
	l.emitVoid(OpListPush, result, yv)
	l.env = l.env.parent
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: header})
	}

	l.block = exit
	return result
}

// lowerDictComprehension mirrors lowerListComprehension for `{K: V for
// Target in Iter if Filter}`.
func (l *Lowerer) lowerDictComprehension(ex *ast.DictComprehension, ty types.Type) ValueID {
	anyT := types.TCon{Name: config.AnyTypeName}
	result := l.emitCall(config.IntrinsicDictNew, ty)
	iterVal, _ := l.lowerExpr(ex.Iter)

	header := l.fn.newBlock("dictcomp.header")
	body := l.fn.newBlock("dictcomp.body")
	exit := l.fn.newBlock("dictcomp.exit")
	l.block.terminate(&Terminator{Kind: TermBr, Target: header})

	l.block = header
	next := l.emitCall(config.IntrinsicIterNext, anyT, iterVal)
	hasMore := l.emitBinOp("has_value", types.TCon{Name: types.Bool}, next, next)
	l.block.terminate(&Terminator{Kind: TermCondBr, Cond: hasMore, Then: body, Else: exit})

	l.block = body
	l.env = newScope(l.env)
	l.bindPattern(next, anyT, ex.Target)
	if ex.Filter != nil {
		fv, _ := l.lowerExpr(ex.Filter)
		keep := l.fn.newBlock("dictcomp.keep")
		l.block.terminate(&Terminator{Kind: TermCondBr, Cond: fv, Then: keep, Else: header})
		l.block = keep
	}
	kv, _ := l.lowerExpr(ex.Key)
	vv, _ := l.lowerExpr(ex.Value)
	l.emitVoid(OpDictSet, result, kv, vv)
	l.env = l.env.parent
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermBr, Target: header})
	}

	l.block = exit
	return result
}
