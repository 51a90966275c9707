// Package ir implements OtterLang's lowering target: an SSA-shaped module
// of basic blocks, value instructions, and terminators, plus the pass that
// lowers a type-checked AST into it (spec.md §4.F).
//
// Locals are not phi-joined; every local binding gets a stack slot and
// reads/writes become load/store instructions, exactly as spec.md §4.F's
// "Stack slots" rule asks for, so control-flow joins need no phi nodes.
package ir

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/otterlang/otter/internal/types"
)

// Module is one compiled unit: its global variables, the runtime/FFI
// externs it calls, and its function definitions (spec.md §6 "IR module
// output").
type Module struct {
	Name      string
	Globals   []*Global
	Externs   []*Extern
	Functions []*Function
}

// Global is a module-scope `let` binding, given a stable uuid so repeated
// lowering runs of structurally identical modules stay diffable in
// snapshot tests (SPEC_FULL.md DOMAIN STACK: google/uuid).
type Global struct {
	ID   uuid.UUID
	Name string
	Type types.Type
}

// Extern declares an external symbol the lowerer calls into: a runtime
// intrinsic (otter_-prefixed) or an FFI function resolved through the
// oracle (spec.md §6).
type Extern struct {
	Name   string
	Params []types.Type
	Ret    types.Type
}

// Param is one function parameter, bound to its own stack slot on entry.
type Param struct {
	Name string
	Type types.Type
}

// Slot is one stack-allocated local (spec.md §4.F "every local binding
// gets a stack slot").
type Slot struct {
	Index int
	Name  string
	Type  types.Type
}

// Function is a graph of basic blocks reachable from Entry.
type Function struct {
	Name    string
	Params  []Param
	Ret     types.Type
	Slots   []*Slot
	Blocks  []*Block
	Entry   *Block
	nextReg int
}

func newFunction(name string, params []Param, ret types.Type) *Function {
	return &Function{Name: name, Params: params, Ret: ret}
}

func (f *Function) addSlot(name string, t types.Type) *Slot {
	s := &Slot{Index: len(f.Slots), Name: name, Type: t}
	f.Slots = append(f.Slots, s)
	return s
}

func (f *Function) newBlock(label string) *Block {
	b := &Block{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d:%s", f.Name, len(f.Blocks), label))), Label: label}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Function) newReg() ValueID {
	f.nextReg++
	return ValueID(f.nextReg)
}

// Block is one basic block: a straight-line instruction list ending in
// exactly one Terminator.
type Block struct {
	ID     uuid.UUID
	Label  string
	Instrs []*Instr
	Term   *Terminator
}

func (b *Block) emit(i *Instr) *Instr {
	b.Instrs = append(b.Instrs, i)
	return i
}

func (b *Block) terminate(t *Terminator) {
	if b.Term == nil {
		b.Term = t
	}
}

// ValueID names an instruction's result register within its function
// (spec.md §4.F "value instructions").
type ValueID int

// TermKind enumerates the four terminator shapes spec.md §4.F names.
type TermKind int

const (
	TermBr TermKind = iota
	TermCondBr
	TermRet
	TermUnreachable
)

// Terminator ends a Block (spec.md §4.F: "br, cond_br, ret, unreachable").
type Terminator struct {
	Kind  TermKind
	Target *Block            // TermBr
	Cond   ValueID           // TermCondBr
	Then   *Block            // TermCondBr
	Else   *Block            // TermCondBr
	Value  *ValueID          // TermRet; nil for a void return
}

// Dump renders m as the textual IR form spec.md §6 describes ("a textual
// or binary module consumable by the backend driver").
func (m *Module) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n", m.Name)
	for _, g := range m.Globals {
		fmt.Fprintf(&b, "global %s : %s\n", g.Name, g.Type)
	}
	for _, e := range m.Externs {
		params := make([]string, len(e.Params))
		for i, p := range e.Params {
			params[i] = p.String()
		}
		fmt.Fprintf(&b, "extern %s(%s) -> %s\n", e.Name, strings.Join(params, ", "), e.Ret)
	}
	for _, fn := range m.Functions {
		fn.dump(&b)
	}
	return b.String()
}

func (f *Function) dump(b *strings.Builder) {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
	}
	fmt.Fprintf(b, "\nfn %s(%s) -> %s {\n", f.Name, strings.Join(params, ", "), f.Ret)
	for _, slot := range f.Slots {
		fmt.Fprintf(b, "  slot %%%d %s : %s\n", slot.Index, slot.Name, slot.Type)
	}
	for _, blk := range f.Blocks {
		blk.dump(b)
	}
	b.WriteString("}\n")
}

func (blk *Block) dump(b *strings.Builder) {
	fmt.Fprintf(b, " %s:\n", blk.Label)
	for _, instr := range blk.Instrs {
		fmt.Fprintf(b, "  %s\n", instr.String())
	}
	if blk.Term != nil {
		fmt.Fprintf(b, "  %s\n", blk.Term.String())
	}
}

func (t *Terminator) String() string {
	switch t.Kind {
	case TermBr:
		return fmt.Sprintf("br %s", t.Target.Label)
	case TermCondBr:
		return fmt.Sprintf("cond_br %%%d, %s, %s", t.Cond, t.Then.Label, t.Else.Label)
	case TermRet:
		if t.Value == nil {
			return "ret"
		}
		return fmt.Sprintf("ret %%%d", *t.Value)
	case TermUnreachable:
		return "unreachable"
	default:
		return "?"
	}
}
