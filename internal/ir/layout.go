package ir

import (
	"github.com/otterlang/otter/internal/checker"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/types"
)

// wordSize is the GC-managed pointer/scalar width this lowerer assumes for
// layout estimates (spec.md §4.F: structs are "a sequentially packed
// record of field types", enums "a discriminant ... followed by a
// union-sized payload area"). The backend driver owns the real ABI; these
// numbers only feed the `profile memory` CLI's human-readable estimate.
const wordSize = 8

// primitiveSize returns the packed width of a built-in scalar type name,
// or 0 if name does not name one of spec.md §3's primitives.
func primitiveSize(name string) (int, bool) {
	switch name {
	case types.Bool:
		return 1, true
	case types.Int, types.Float:
		return 8, true
	case types.Str:
		return 2 * wordSize, true // fat pointer {ptr, len} (spec.md §4.F "Strings")
	case config.AnyTypeName, config.ListTypeName, config.DictTypeName, config.TaskTypeName:
		return wordSize, true // opaque runtime handle
	default:
		return 0, false
	}
}

// SizeOf estimates t's packed byte size given the struct/enum registries a
// completed Check pass produced, falling back to one word for anything
// unrecognized (a generic type variable, a function value, and so on --
// all represented as GC-managed pointers at this layer).
func SizeOf(t types.Type, checked *checker.Result) int {
	switch tt := t.(type) {
	case types.TCon:
		if n, ok := primitiveSize(tt.Name); ok {
			return n
		}
		if info, ok := checked.Structs[tt.Name]; ok {
			return structSize(info, checked)
		}
		if info, ok := checked.Enums[tt.Name]; ok {
			return enumSize(info, checked)
		}
		return wordSize
	case types.TApp:
		if n, ok := primitiveSize(tt.Name); ok {
			return n
		}
		if info, ok := checked.Structs[tt.Name]; ok {
			return structSize(info, checked)
		}
		if info, ok := checked.Enums[tt.Name]; ok {
			return enumSize(info, checked)
		}
		return wordSize
	case types.TTuple:
		total := 0
		for _, e := range tt.Elements {
			total += SizeOf(e, checked)
		}
		return total
	default:
		return wordSize
	}
}

func structSize(info *checker.StructInfo, checked *checker.Result) int {
	total := 0
	for _, name := range info.FieldOrder {
		total += SizeOf(info.Fields[name], checked)
	}
	return total
}

// enumSize is a tag word plus the widest variant's payload (spec.md §4.F
// "a discriminant ... followed by a union-sized payload area large enough
// for the widest variant").
func enumSize(info *checker.EnumInfo, checked *checker.Result) int {
	widest := 0
	for _, name := range info.VariantOrder {
		size := 0
		for _, p := range info.Variants[name] {
			size += SizeOf(p, checked)
		}
		if size > widest {
			widest = size
		}
	}
	return wordSize + widest
}
