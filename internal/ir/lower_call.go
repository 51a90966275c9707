package ir

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/ffi"
	"github.com/otterlang/otter/internal/types"
)

// lowerCall lowers a call expression: the print/len builtins, a direct
// free-function or method call, an enum variant constructor invoked with
// arguments, or an indirect call through a first-class function value
// (spec.md §4.B/§4.F).
func (l *Lowerer) lowerCall(ex *ast.Call) (ValueID, types.Type) {
	ty := l.typeOf(ex)

	if sym, ok := l.checked.FFICalls[ex.ID()]; ok {
		return l.lowerFFICall(sym, ex.Args, ty), ty
	}

	if id, ok := ex.Callee.(*ast.Identifier); ok {
		if _, isLocal := l.env.lookup(id.Name); !isLocal {
			switch id.Name {
			case config.PrintFuncName:
				return l.lowerPrintCall(ex), ty
			case config.LenFuncName:
				return l.lowerLenCall(ex), ty
			}
			if _, isFunc := l.checked.Functions[id.Name]; isFunc {
				return l.lowerDirectCall(id.Name, ex.Args, ty), ty
			}
		}
	}

	if member, ok := ex.Callee.(*ast.MemberAccess); ok {
		if enumName, variant, ok := l.enumVariantRef(member); ok {
			return l.lowerEnumConstructor(enumName, variant, ex.Args, ty), ty
		}
		self, selfTy := l.lowerExpr(member.Left)
		structName := structNameOf(selfTy)
		sym := structName + "." + member.Name
		args := []ValueID{self}
		for _, a := range ex.Args {
			av, _ := l.lowerExpr(a)
			args = append(args, av)
		}
		return l.emitCall(sym, ty, args...), ty
	}

	// Indirect call through a lambda/function value: the callee evaluates to
	// a symbolic function reference, passed as the first argument under the
	// runtime's closure-call convention.
	calleeVal, _ := l.lowerExpr(ex.Callee)
	args := []ValueID{calleeVal}
	for _, a := range ex.Args {
		av, _ := l.lowerExpr(a)
		args = append(args, av)
	}
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpCall, Type: ty, Args: args})
	return id, ty
}

// lowerFFICall declares sym as an extern (once per module) and emits a
// direct call to it, the lowerer's half of spec.md §6's "lookup(path) ->
// {symbol name, parameter types, return type, calling convention}": the
// oracle's calling convention does not change how this IR-level call is
// shaped (the backend driver owns the actual ABI marshalling), and it is
// not recorded: the Extern keeps only the name, parameter and return types.
func (l *Lowerer) lowerFFICall(sym ffi.Symbol, argExprs []ast.Expression, ty types.Type) ValueID {
	l.mod.ffiExtern(sym.Name, sym.Params, sym.Ret)
	var args []ValueID
	for _, a := range argExprs {
		av, _ := l.lowerExpr(a)
		args = append(args, av)
	}
	return l.emitCall(sym.Name, ty, args...)
}

func (l *Lowerer) lowerDirectCall(name string, argExprs []ast.Expression, ty types.Type) ValueID {
	var args []ValueID
	for _, a := range argExprs {
		av, _ := l.lowerExpr(a)
		args = append(args, av)
	}
	return l.emitCall(name, ty, args...)
}

func (l *Lowerer) lowerEnumConstructor(enumName, variant string, argExprs []ast.Expression, ty types.Type) ValueID {
	info := l.checked.Enums[enumName]
	tag := variantIndex(info, variant)
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpEnumAlloc, Type: ty, Sym: enumName, Imm: int64(tag)})
	for i, a := range argExprs {
		val, _ := l.lowerExpr(a)
		addr := l.fn.newReg()
		l.block.emit(&Instr{ID: addr, Op: OpEnumPayloadAddr, Type: types.TCon{Name: config.AnyTypeName}, Args: []ValueID{id}, Imm: int64(i)})
		l.emitVoid(OpStore, addr, val)
	}
	return id
}

// lowerPrintCall stringifies and concatenates every argument, then hands
// the result to the runtime's stdout writer (spec.md §6 "env.otter_write_stdout
// host import").
func (l *Lowerer) lowerPrintCall(ex *ast.Call) ValueID {
	strT := types.TCon{Name: types.Str}
	var acc ValueID
	have := false
	for i, a := range ex.Args {
		val, _ := l.lowerExpr(a)
		part := l.stringify(val, l.rawTypeOf(a))
		if i > 0 {
			sep := l.emitConstString(" ")
			if !have {
				acc = sep
				have = true
			} else {
				acc = l.emitCall(config.IntrinsicStringConcat, strT, acc, sep)
			}
			acc = l.emitCall(config.IntrinsicStringConcat, strT, acc, part)
			continue
		}
		acc = part
		have = true
	}
	if !have {
		acc = l.emitConstString("")
	}
	nl := l.emitConstString("\n")
	acc = l.emitCall(config.IntrinsicStringConcat, strT, acc, nl)
	l.emitCallVoid(l.mod.hostWriteStdoutExtern(), acc)
	return l.emitConstUnit()
}

// lowerLenCall dispatches to the list-length intrinsic; both List and Dict
// handles share the same opaque runtime representation at this IR layer, so
// one intrinsic serves both (a simplification the runtime's handle tag
// resolves at a lower level).
func (l *Lowerer) lowerLenCall(ex *ast.Call) ValueID {
	if len(ex.Args) != 1 {
		return l.emitConstInt(0)
	}
	arg, _ := l.lowerExpr(ex.Args[0])
	return l.emitCall(config.IntrinsicListLen, types.TCon{Name: types.Int}, arg)
}
