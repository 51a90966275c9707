package ir

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/checker"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/types"
)

// typeOf returns e's checker-elaborated type (lowered), falling back to Any
// for nodes the checker poisoned or never visited.
func (l *Lowerer) typeOf(e ast.Expression) types.Type {
	if t, ok := l.checked.TypeOf[e.ID()]; ok {
		return loweredType(t)
	}
	return types.TCon{Name: config.AnyTypeName}
}

// rawTypeOf is typeOf without generic erasure, needed to pick the right
// otter_to_string_<T> overload and container intrinsic.
func (l *Lowerer) rawTypeOf(e ast.Expression) types.Type {
	if t, ok := l.checked.TypeOf[e.ID()]; ok {
		return t
	}
	return types.TCon{Name: config.AnyTypeName}
}

func (l *Lowerer) emitConstInt(v int64) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpConstInt, Type: types.TCon{Name: types.Int}, ConstI: v})
	return id
}

func (l *Lowerer) emitConstFloat(v float64) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpConstFloat, Type: types.TCon{Name: types.Float}, ConstF: v})
	return id
}

func (l *Lowerer) emitConstBool(v bool) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpConstBool, Type: types.TCon{Name: types.Bool}, ConstB: v})
	return id
}

func (l *Lowerer) emitConstString(v string) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpConstString, Type: types.TCon{Name: types.Str}, ConstS: v})
	return id
}

func (l *Lowerer) emitConstUnit() ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpConstBool, Type: types.TUnit{}, ConstB: false})
	return id
}

func (l *Lowerer) emitCall(sym string, typ types.Type, args ...ValueID) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpCall, Type: typ, Sym: sym, Args: args})
	return id
}

func (l *Lowerer) emitCallVoid(sym string, args ...ValueID) {
	l.block.emit(&Instr{ID: l.fn.newReg(), Op: OpCall, Sym: sym, Args: args})
}

func (l *Lowerer) emitBinOp(sym string, typ types.Type, a, b ValueID) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpBinOp, Type: typ, Sym: sym, Args: []ValueID{a, b}})
	return id
}

func structNameOf(t types.Type) string {
	switch tt := t.(type) {
	case types.TCon:
		return tt.Name
	case types.TApp:
		return tt.Name
	}
	return ""
}

// fieldAddr computes the address of field on a struct-typed base value,
// resolving the field's declared index from the checker's StructInfo so
// the same layout order survives into the lowered OpFieldAddr.
func (l *Lowerer) fieldAddr(base ValueID, baseTy types.Type, field string) ValueID {
	idx := 0
	fieldTy := types.Type(types.TCon{Name: config.AnyTypeName})
	if info, ok := l.checked.Structs[structNameOf(baseTy)]; ok {
		for i, f := range info.FieldOrder {
			if f == field {
				idx = i
				break
			}
		}
		if ft, ok := info.Fields[field]; ok {
			fieldTy = loweredType(ft)
		}
	}
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpFieldAddr, Type: fieldTy, Args: []ValueID{base}, Field: field, Imm: int64(idx)})
	return id
}

func variantIndex(info *checker.EnumInfo, name string) int {
	if info == nil {
		return 0
	}
	for i, v := range info.VariantOrder {
		if v == name {
			return i
		}
	}
	return 0
}

// stringify coerces val (of checker-elaborated type ty) to a Str value,
// calling the matching otter_to_string_<T> extern for a primitive and
// passing anything else through unchanged (structs/enums/Any are assumed to
// already carry a runtime-printable representation; spec.md §6 leaves
// struct/enum formatting to the runtime, out of this lowerer's scope).
func (l *Lowerer) stringify(val ValueID, ty types.Type) ValueID {
	con, ok := ty.(types.TCon)
	if !ok {
		return val
	}
	if con.Name == types.Str {
		return val
	}
	switch con.Name {
	case types.Int, types.Float, types.Bool:
		name := l.mod.toStringExtern(con.Name)
		return l.emitCall(name, types.TCon{Name: types.Str}, val)
	default:
		return val
	}
}

// lowerExpr lowers e to the value instruction(s) computing it, returning
// the fresh result register and e's lowered type.
func (l *Lowerer) lowerExpr(e ast.Expression) (ValueID, types.Type) {
	ty := l.typeOf(e)
	switch ex := e.(type) {
	case *ast.IntLiteral:
		return l.emitConstInt(ex.Value), ty
	case *ast.FloatLiteral:
		return l.emitConstFloat(ex.Value), ty
	case *ast.StringLiteral:
		return l.emitConstString(ex.Value), ty
	case *ast.BoolLiteral:
		return l.emitConstBool(ex.Value), ty
	case *ast.UnitLiteral:
		return l.emitConstUnit(), ty
	case *ast.Identifier:
		return l.lowerIdentifier(ex, ty)
	case *ast.FString:
		return l.lowerFString(ex), ty
	case *ast.MemberAccess:
		return l.lowerMemberAccess(ex, ty)
	case *ast.Call:
		return l.lowerCall(ex)
	case *ast.Index:
		return l.lowerIndexExpr(ex, ty)
	case *ast.UnaryOp:
		return l.lowerUnaryExpr(ex, ty)
	case *ast.BinaryOp:
		return l.lowerBinaryExpr(ex, ty)
	case *ast.LogicalOp:
		return l.lowerLogicalOp(ex), ty
	case *ast.IsCheck:
		return l.lowerIsCheck(ex), ty
	case *ast.RangeExpr:
		lo, _ := l.lowerExpr(ex.Lo)
		hi, _ := l.lowerExpr(ex.Hi)
		return l.emitCall(config.IntrinsicListNew, ty, lo, hi), ty
	case *ast.ListLit:
		return l.lowerListLit(ex, ty), ty
	case *ast.DictLit:
		return l.lowerDictLit(ex, ty), ty
	case *ast.StructLit:
		return l.lowerStructLit(ex, ty), ty
	case *ast.Lambda:
		return l.lowerLambdaExpr(ex, ty), ty
	case *ast.Await:
		operand, _ := l.lowerExpr(ex.Operand)
		return l.emitCall(config.IntrinsicTaskAwait, ty, operand), ty
	case *ast.Spawn:
		return l.lowerSpawn(ex, ty), ty
	case *ast.Match:
		return l.lowerMatch(ex)
	case *ast.ListComprehension:
		return l.lowerListComprehension(ex, ty), ty
	case *ast.DictComprehension:
		return l.lowerDictComprehension(ex, ty), ty
	default:
		return l.emitConstUnit(), types.TUnit{}
	}
}

func (l *Lowerer) lowerIdentifier(ex *ast.Identifier, ty types.Type) (ValueID, types.Type) {
	if slot, ok := l.env.lookup(ex.Name); ok {
		addr := l.emitSlotAddr(slot)
		return l.emitArgs(OpLoad, slot.Type, addr), slot.Type
	}
	if _, ok := l.checked.Globals[ex.Name]; ok {
		addr := l.emit(OpGlobalAddr, ty, ex.Name)
		return l.emitArgs(OpLoad, ty, addr), ty
	}
	// A bare reference to a free function used as a value (passed to a
	// higher-order call); carried as a symbolic constant for the indirect
	// call convention lowerCall uses for non-direct callees.
	return l.emitConstString(ex.Name), ty
}

// lowerFString folds every piece into a left-associative
// otter_string_concat chain, stringifying embedded non-Str expressions
// (spec.md §3 f-strings, §4.B auto-stringify rule).
func (l *Lowerer) lowerFString(ex *ast.FString) ValueID {
	var acc ValueID
	have := false
	strT := types.TCon{Name: types.Str}
	for _, piece := range ex.Pieces {
		var part ValueID
		if piece.Expr != nil {
			val, ty := l.lowerExpr(piece.Expr)
			part = l.stringify(val, l.rawTypeOf(piece.Expr))
			_ = ty
		} else {
			part = l.emitConstString(piece.Literal)
		}
		if !have {
			acc = part
			have = true
			continue
		}
		acc = l.emitCall(config.IntrinsicStringConcat, strT, acc, part)
	}
	if !have {
		acc = l.emitConstString("")
	}
	return acc
}

// enumVariantRef reports whether ex is a bare `Enum.Variant` reference (as
// opposed to a struct field access), returning the enum/variant names.
func (l *Lowerer) enumVariantRef(ex *ast.MemberAccess) (string, string, bool) {
	id, ok := ex.Left.(*ast.Identifier)
	if !ok {
		return "", "", false
	}
	info, ok := l.checked.Enums[id.Name]
	if !ok {
		return "", "", false
	}
	for _, v := range info.VariantOrder {
		if v == ex.Name {
			return id.Name, ex.Name, true
		}
	}
	return "", "", false
}

func (l *Lowerer) lowerMemberAccess(ex *ast.MemberAccess, ty types.Type) (ValueID, types.Type) {
	if enumName, variant, ok := l.enumVariantRef(ex); ok {
		info := l.checked.Enums[enumName]
		tag := variantIndex(info, variant)
		id := l.fn.newReg()
		l.block.emit(&Instr{ID: id, Op: OpEnumAlloc, Type: ty, Sym: enumName, Imm: int64(tag)})
		return id, ty
	}
	base, baseTy := l.lowerExpr(ex.Left)
	addr := l.fieldAddr(base, baseTy, ex.Name)
	return l.emitArgs(OpLoad, ty, addr), ty
}

func (l *Lowerer) lowerIndexExpr(ex *ast.Index, ty types.Type) (ValueID, types.Type) {
	base, baseTy := l.lowerExpr(ex.Left)
	idx, _ := l.lowerExpr(ex.Idx)
	if tt, ok := baseTy.(types.TApp); ok && tt.Name == config.DictTypeName {
		return l.emitArgs(OpDictGet, ty, base, idx), ty
	}
	return l.emitArgs(OpListGet, ty, base, idx), ty
}

func (l *Lowerer) lowerUnaryExpr(ex *ast.UnaryOp, ty types.Type) (ValueID, types.Type) {
	operand, _ := l.lowerExpr(ex.Operand)
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpUnaryOp, Type: ty, Sym: ex.Op, Args: []ValueID{operand}})
	return id, ty
}

// lowerBinaryExpr lowers arithmetic/comparison/concatenation operators,
// consulting the checker's Widened side-table to insert the coercion each
// marked operand needs: an int-to-float cast when the result is Float, or a
// stringify call when the result is Str (spec.md §4.F "numeric coercion
// casts").
func (l *Lowerer) lowerBinaryExpr(ex *ast.BinaryOp, ty types.Type) (ValueID, types.Type) {
	lv, lty := l.lowerExpr(ex.Left)
	rv, rty := l.lowerExpr(ex.Right)

	if ex.Op == "+" {
		if con, ok := ty.(types.TCon); ok && con.Name == types.Str {
			if l.checked.Widened[ex.Left.ID()] {
				lv = l.stringify(lv, l.rawTypeOf(ex.Left))
			}
			if l.checked.Widened[ex.Right.ID()] {
				rv = l.stringify(rv, l.rawTypeOf(ex.Right))
			}
			return l.emitCall(config.IntrinsicStringConcat, ty, lv, rv), ty
		}
	}

	if l.checked.Widened[ex.Left.ID()] {
		lv = l.emitArgs(OpCastIntToFloat, types.TCon{Name: types.Float}, lv)
		lty = types.TCon{Name: types.Float}
	}
	if l.checked.Widened[ex.Right.ID()] {
		rv = l.emitArgs(OpCastIntToFloat, types.TCon{Name: types.Float}, rv)
		rty = types.TCon{Name: types.Float}
	}
	_ = lty
	_ = rty
	return l.emitBinOp(ex.Op, ty, lv, rv), ty
}

func (l *Lowerer) lowerLogicalOp(ex *ast.LogicalOp) ValueID {
	lv, _ := l.lowerExpr(ex.Left)
	boolT := types.TCon{Name: types.Bool}

	thenBlk := l.fn.newBlock("logical.rhs")
	merge := l.fn.newBlock("logical.merge")
	shortBlk := l.fn.newBlock("logical.short")

	if ex.Op == "and" {
		l.block.terminate(&Terminator{Kind: TermCondBr, Cond: lv, Then: thenBlk, Else: shortBlk})
	} else {
		l.block.terminate(&Terminator{Kind: TermCondBr, Cond: lv, Then: shortBlk, Else: thenBlk})
	}

	slot := l.fn.addSlot("$logical", boolT)
	addr := l.emitSlotAddr(slot)

	l.block = shortBlk
	l.emitVoid(OpStore, addr, lv)
	l.block.terminate(&Terminator{Kind: TermBr, Target: merge})

	l.block = thenBlk
	rv, _ := l.lowerExpr(ex.Right)
	l.emitVoid(OpStore, addr, rv)
	l.block.terminate(&Terminator{Kind: TermBr, Target: merge})

	l.block = merge
	addr2 := l.emitSlotAddr(slot)
	return l.emitArgs(OpLoad, boolT, addr2)
}

func (l *Lowerer) lowerIsCheck(ex *ast.IsCheck) ValueID {
	lv, _ := l.lowerExpr(ex.Left)
	rv, _ := l.lowerExpr(ex.Right)
	op := "=="
	if ex.Negated {
		op = "!="
	}
	return l.emitBinOp(op, types.TCon{Name: types.Bool}, lv, rv)
}

func (l *Lowerer) lowerListLit(ex *ast.ListLit, ty types.Type) ValueID {
	handle := l.emitCall(config.IntrinsicListNew, ty)
	for _, el := range ex.Elements {
		ev, _ := l.lowerExpr(el)
		l.emitVoid(OpListPush, handle, ev)
	}
	return handle
}

func (l *Lowerer) lowerDictLit(ex *ast.DictLit, ty types.Type) ValueID {
	handle := l.emitCall(config.IntrinsicDictNew, ty)
	for _, entry := range ex.Entries {
		kv, _ := l.lowerExpr(entry.Key)
		vv, _ := l.lowerExpr(entry.Value)
		l.emitVoid(OpDictSet, handle, kv, vv)
	}
	return handle
}

func (l *Lowerer) lowerStructLit(ex *ast.StructLit, ty types.Type) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpStructAlloc, Type: ty, Sym: ex.Name})
	for _, f := range ex.Fields {
		val, _ := l.lowerExpr(f.Value)
		addr := l.fieldAddr(id, ty, f.Name)
		l.emitVoid(OpStore, addr, val)
	}
	return id
}

// lowerLambdaExpr lowers the lambda body into its own synthetic function
// and returns a symbolic reference to it; the runtime forms a closure value
// around it when the lambda captures enclosing locals. Capture lists are
// not tracked at this layer (spec.md does not describe closure layout), a
// simplification noted in the grounding ledger.
func (l *Lowerer) lowerLambdaExpr(ex *ast.Lambda, ty types.Type) ValueID {
	name := "$lambda" + itoa(len(l.mod.Functions))
	savedFn, savedBlock, savedEnv, savedLoop := l.fn, l.block, l.env, l.loop

	var params []Param
	fnTy, _ := ty.(types.TFunc)
	for i, p := range ex.Params {
		pt := types.Type(types.TCon{Name: config.AnyTypeName})
		if i < len(fnTy.Params) {
			pt = fnTy.Params[i]
		}
		params = append(params, Param{Name: p.Name, Type: pt})
	}
	ret := types.Type(types.TCon{Name: config.AnyTypeName})
	if fnTy.Ret != nil {
		ret = fnTy.Ret
	}

	fn := newFunction(name, params, ret)
	l.fn = fn
	l.loop = nil
	l.env = newScope(savedEnv)
	l.block = fn.newBlock("entry")
	for _, p := range params {
		slot := fn.addSlot(p.Name, p.Type)
		l.env.define(p.Name, slot)
		pv := l.emit(OpParam, p.Type, p.Name)
		addr := l.emitSlotAddr(slot)
		l.emitVoid(OpStore, addr, pv)
	}
	val, _ := l.lowerBlockValue(ex.Body)
	if l.block.Term == nil {
		l.block.terminate(&Terminator{Kind: TermRet, Value: &val})
	}
	l.mod.Functions = append(l.mod.Functions, fn)

	l.fn, l.block, l.env, l.loop = savedFn, savedBlock, savedEnv, savedLoop
	return l.emitConstString(name)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func (l *Lowerer) lowerSpawn(ex *ast.Spawn, ty types.Type) ValueID {
	call, ok := ex.Operand.(*ast.Call)
	if !ok {
		operand, _ := l.lowerExpr(ex.Operand)
		return l.emitCall(config.IntrinsicTaskSpawn, ty, operand)
	}
	callee, _ := l.lowerExpr(call.Callee)
	argsHandle := l.emitCall(config.IntrinsicListNew, types.TCon{Name: config.AnyTypeName})
	for _, a := range call.Args {
		av, _ := l.lowerExpr(a)
		l.emitVoid(OpListPush, argsHandle, av)
	}
	return l.emitCall(config.IntrinsicTaskSpawn, ty, callee, argsHandle)
}

// lowerBlockValue lowers stmts as a value-producing block: every statement
// but a trailing bare expression-statement executes for effect, and the
// trailing expression-statement (if present) yields the block's value,
// mirroring the checker's checkBlockValue (spec.md §4.E).
func (l *Lowerer) lowerBlockValue(stmts []ast.Statement) (ValueID, types.Type) {
	for i, s := range stmts {
		if l.block.Term != nil {
			return l.emitConstUnit(), types.TUnit{}
		}
		if i == len(stmts)-1 {
			if es, ok := s.(*ast.ExprStmt); ok {
				return l.lowerExpr(es.X)
			}
		}
		l.lowerStmt(s)
	}
	return l.emitConstUnit(), types.TUnit{}
}
