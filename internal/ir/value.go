package ir

import (
	"fmt"
	"strings"

	"github.com/otterlang/otter/internal/types"
)

// Op names one value-producing (or, for the Store/Raise cases, purely
// side-effecting) instruction kind (spec.md §4.F "value instructions:
// arithmetic, comparisons, memory loads/stores, calls, casts").
type Op string

const (
	OpConstInt    Op = "const.int"
	OpConstFloat  Op = "const.float"
	OpConstBool   Op = "const.bool"
	OpConstString Op = "const.string"
	OpParam       Op = "param"

	OpSlotAddr   Op = "slot.addr"
	OpGlobalAddr Op = "global.addr"
	OpLoad       Op = "load"
	OpStore      Op = "store" // no result

	OpBinOp  Op = "binop"  // Sym: operator text ("+", "-", "==", ...)
	OpUnaryOp Op = "unop"  // Sym: operator text ("-", "not")
	OpCastIntToFloat Op = "cast.i2f"

	OpCall Op = "call" // Sym: callee (function or extern) name

	OpStructAlloc     Op = "struct.alloc" // Sym: struct name
	OpFieldAddr       Op = "field.addr"   // Sym: field name, Imm: declared field index
	OpEnumAlloc       Op = "enum.alloc"   // Sym: enum name, Imm: variant tag
	OpEnumTag         Op = "enum.tag"
	OpEnumPayloadAddr Op = "enum.payload.addr" // Imm: payload slot index

	OpListNew  Op = "list.new"
	OpListPush Op = "list.push" // no result
	OpListGet  Op = "list.get"
	OpListLen  Op = "list.len"

	OpDictNew Op = "dict.new"
	OpDictSet Op = "dict.set" // no result
	OpDictGet Op = "dict.get"

	OpStringConcat Op = "string.concat"
	OpToString     Op = "to_string" // Sym: primitive type name

	OpTaskSpawn Op = "task.spawn" // Sym: spawned function name
	OpTaskAwait Op = "task.await"

	OpRaise Op = "raise" // no result; block still needs a terminator after it
)

// Instr is one instruction inside a Block. Args reference earlier results
// within the same function by register number.
type Instr struct {
	ID    ValueID
	Op    Op
	Type  types.Type // nil for void ops (Store, ListPush, DictSet, Raise)
	Args  []ValueID
	Sym   string
	Field string
	Imm   int64
	ConstI int64
	ConstF float64
	ConstS string
	ConstB bool
}

func (i *Instr) String() string {
	var b strings.Builder
	if i.Type != nil {
		fmt.Fprintf(&b, "%%%d = ", i.ID)
	}
	b.WriteString(string(i.Op))
	switch i.Op {
	case OpConstInt:
		fmt.Fprintf(&b, " %d", i.ConstI)
	case OpConstFloat:
		fmt.Fprintf(&b, " %g", i.ConstF)
	case OpConstBool:
		fmt.Fprintf(&b, " %t", i.ConstB)
	case OpConstString:
		fmt.Fprintf(&b, " %q", i.ConstS)
	case OpBinOp, OpUnaryOp:
		fmt.Fprintf(&b, " %s", i.Sym)
	case OpCall, OpTaskSpawn:
		fmt.Fprintf(&b, " %s", i.Sym)
	case OpStructAlloc, OpEnumAlloc:
		fmt.Fprintf(&b, " %s", i.Sym)
	case OpFieldAddr:
		fmt.Fprintf(&b, " .%s(+%d)", i.Field, i.Imm)
	case OpToString:
		fmt.Fprintf(&b, " %s", i.Sym)
	}
	for _, a := range i.Args {
		fmt.Fprintf(&b, " %%%d", a)
	}
	if i.Type != nil {
		fmt.Fprintf(&b, " : %s", i.Type)
	}
	return b.String()
}
