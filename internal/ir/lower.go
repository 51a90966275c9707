package ir

import (
	"github.com/google/uuid"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/checker"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/types"
)

// scope is the lowerer's own slot-lookup chain, one push per block/loop/
// match-arm, mirroring the checker's typeEnv (spec.md §4.F "every local
// binding gets a stack slot").
type scope struct {
	parent *scope
	slots  map[string]*Slot
}

func newScope(parent *scope) *scope { return &scope{parent: parent, slots: make(map[string]*Slot)} }

func (s *scope) define(name string, slot *Slot) { s.slots[name] = slot }

func (s *scope) lookup(name string) (*Slot, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if slot, ok := cur.slots[name]; ok {
			return slot, true
		}
	}
	return nil, false
}

// loopLabels tracks the exit/continuation blocks `break`/`continue` target
// inside the innermost enclosing while/for.
type loopLabels struct {
	parent   *loopLabels
	continueTo *Block
	breakTo    *Block
}

// Lowerer lowers one checked module's AST into an ir.Module.
type Lowerer struct {
	checked *checker.Result
	mod     *Module

	fn    *Function
	block *Block
	env   *scope
	loop  *loopLabels
}

// Lower builds the ir.Module for mod, consulting checked for every
// expression's elaborated type and the struct/enum/function registries
// (spec.md §4.F).
func Lower(mod *ast.Module, checked *checker.Result, moduleName string) *Module {
	l := &Lowerer{checked: checked, mod: &Module{Name: moduleName}}
	l.mod.Externs = runtimeExterns()

	for name, ty := range checked.Globals {
		l.mod.Globals = append(l.mod.Globals, &Global{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(moduleName+"."+name)), Name: name, Type: loweredType(ty)})
	}
	l.lowerInitFunction(mod)

	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.FunctionDecl:
			l.mod.Functions = append(l.mod.Functions, l.lowerFunction(it, it.Name, ""))
		case *ast.StructDecl:
			for _, m := range it.Methods {
				l.mod.Functions = append(l.mod.Functions, l.lowerFunction(m, it.Name+"."+m.Name, it.Name))
			}
		}
	}
	return l.mod
}

// loweredType erases generic type variables to Any: the lowerer targets a
// single runtime representation for generic values (opaque
// runtime-allocated handles, per spec.md §4.F's List/Dict/struct/enum
// lowering rules), so a function's own generic parameters carry no
// specialized layout at this level.
func loweredType(t types.Type) types.Type {
	switch tt := t.(type) {
	case types.TVar:
		return types.TCon{Name: config.AnyTypeName}
	case types.TApp:
		args := make([]types.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = loweredType(a)
		}
		return types.TApp{Name: tt.Name, Args: args}
	case types.TFunc:
		params := make([]types.Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = loweredType(p)
		}
		return types.TFunc{Params: params, Ret: loweredType(tt.Ret)}
	default:
		return t
	}
}

// lowerInitFunction lowers every module-scope `let`'s initializer into a
// synthetic entry function the driver runs once before main, storing each
// result into its Global (spec.md §6 "global initializers for let items at
// module scope").
func (l *Lowerer) lowerInitFunction(mod *ast.Module) {
	init := newFunction("$init", nil, types.TUnit{})
	l.fn = init
	l.env = newScope(nil)
	l.block = init.newBlock("entry")

	for _, item := range mod.Items {
		if lt, ok := item.(*ast.LetStmt); ok {
			val, _ := l.lowerExpr(lt.Value)
			addr := l.emit(OpGlobalAddr, types.TCon{Name: config.AnyTypeName}, lt.Name)
			l.emitVoid(OpStore, addr, val)
		}
	}
	l.block.terminate(&Terminator{Kind: TermRet})
	l.mod.Functions = append(l.mod.Functions, init)
}

// lowerFunction lowers one function/method body. receiverStruct is "" for
// free functions.
func (l *Lowerer) lowerFunction(decl *ast.FunctionDecl, irName, receiverStruct string) *Function {
	sig := l.checked.Functions[irName]
	var params []Param
	if decl.IsMethod() {
		params = append(params, Param{Name: config.SelfParamName, Type: types.TCon{Name: receiverStruct}})
	}
	for i, name := range paramNamesOf(sig) {
		params = append(params, Param{Name: name, Type: loweredType(sig.Params[i])})
	}
	ret := types.Type(types.TUnit{})
	if sig != nil {
		ret = loweredType(sig.Ret)
	}

	fn := newFunction(irName, params, ret)
	l.fn = fn
	l.loop = nil
	l.env = newScope(nil)
	l.block = fn.newBlock("entry")

	for _, p := range params {
		slot := fn.addSlot(p.Name, p.Type)
		l.env.define(p.Name, slot)
		pv := l.emit(OpParam, p.Type, p.Name)
		addr := l.emitSlotAddr(slot)
		l.emitVoid(OpStore, addr, pv)
	}

	l.lowerBlock(decl.Body)
	if l.block.Term == nil {
		if _, ok := ret.(types.TUnit); ok {
			l.block.terminate(&Terminator{Kind: TermRet})
		} else {
			l.block.terminate(&Terminator{Kind: TermUnreachable})
		}
	}
	return fn
}

func paramNamesOf(sig *checker.FunctionSig) []string {
	if sig == nil {
		return nil
	}
	return sig.ParamNames
}

func (l *Lowerer) emit(op Op, typ types.Type, sym string) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: op, Type: typ, Sym: sym})
	return id
}

func (l *Lowerer) emitArgs(op Op, typ types.Type, args ...ValueID) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: op, Type: typ, Args: args})
	return id
}

func (l *Lowerer) emitVoid(op Op, args ...ValueID) {
	l.block.emit(&Instr{ID: l.fn.newReg(), Op: op, Args: args})
}

func (l *Lowerer) emitSlotAddr(slot *Slot) ValueID {
	id := l.fn.newReg()
	l.block.emit(&Instr{ID: id, Op: OpSlotAddr, Type: slot.Type, Imm: int64(slot.Index)})
	return id
}

// lowerBlock lowers a statement list into the current block, branching into
// fresh blocks for nested control flow and leaving l.block positioned at
// the block subsequent statements continue in.
func (l *Lowerer) lowerBlock(stmts []ast.Statement) {
	for _, s := range stmts {
		if l.block.Term != nil {
			return // unreachable tail after return/break/continue/raise
		}
		l.lowerStmt(s)
	}
}
