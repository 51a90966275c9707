package ir

import (
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/types"
)

// runtimeExterns declares every runtime intrinsic spec.md §6 names, each
// emitted once into a lowered Module's Externs (only calls actually
// reached would be emitted by a production lowerer; this pass declares the
// full fixed ABI up front since the set is small and static).
func runtimeExterns() []*Extern {
	anyT := types.TCon{Name: config.AnyTypeName}
	strT := types.TCon{Name: types.Str}
	intT := types.TCon{Name: types.Int}
	unit := types.TUnit{}
	return []*Extern{
		{Name: config.IntrinsicStringNew, Params: []types.Type{anyT, intT}, Ret: strT},
		{Name: config.IntrinsicStringConcat, Params: []types.Type{strT, strT}, Ret: strT},
		{Name: config.IntrinsicListNew, Params: nil, Ret: anyT},
		{Name: config.IntrinsicListPush, Params: []types.Type{anyT, anyT}, Ret: unit},
		{Name: config.IntrinsicListGet, Params: []types.Type{anyT, intT}, Ret: anyT},
		{Name: config.IntrinsicListLen, Params: []types.Type{anyT}, Ret: intT},
		{Name: config.IntrinsicDictNew, Params: nil, Ret: anyT},
		{Name: config.IntrinsicDictSet, Params: []types.Type{anyT, anyT, anyT}, Ret: unit},
		{Name: config.IntrinsicDictGet, Params: []types.Type{anyT, anyT}, Ret: anyT},
		{Name: config.IntrinsicGCAlloc, Params: []types.Type{intT}, Ret: anyT},
		{Name: config.IntrinsicGCAddRoot, Params: []types.Type{anyT}, Ret: unit},
		{Name: config.IntrinsicGCRemoveRoot, Params: []types.Type{anyT}, Ret: unit},
		{Name: config.IntrinsicGCCollect, Params: nil, Ret: intT},
		{Name: config.IntrinsicRaise, Params: []types.Type{anyT}, Ret: unit},
		{Name: config.IntrinsicTaskSpawn, Params: []types.Type{anyT, anyT}, Ret: anyT},
		{Name: config.IntrinsicTaskAwait, Params: []types.Type{anyT}, Ret: anyT},
		{Name: config.IntrinsicIterNext, Params: []types.Type{anyT}, Ret: anyT},
	}
}

// hostWriteStdoutExtern returns (declaring once into m if needed) the
// env.otter_write_stdout host import print lowers to (spec.md §6).
func (m *Module) hostWriteStdoutExtern() string {
	for _, e := range m.Externs {
		if e.Name == config.HostWriteStdout {
			return config.HostWriteStdout
		}
	}
	m.Externs = append(m.Externs, &Extern{
		Name:   config.HostWriteStdout,
		Params: []types.Type{types.TCon{Name: types.Str}},
		Ret:    types.TUnit{},
	})
	return config.HostWriteStdout
}

// ffiExtern returns (declaring once into m if needed) the extern for an
// FFI symbol the checker resolved through the oracle; this only
// guarantees the symbol is declared once. No marshalling casts are
// inserted around FFI calls: lowerFFICall passes each argument as lowered.
func (m *Module) ffiExtern(name string, params []types.Type, ret types.Type) string {
	for _, e := range m.Externs {
		if e.Name == name {
			return name
		}
	}
	m.Externs = append(m.Externs, &Extern{Name: name, Params: params, Ret: ret})
	return name
}

// toStringExtern returns (declaring once into m if needed) the
// otter_to_string_<T> extern for a primitive type name.
func (m *Module) toStringExtern(primitive string) string {
	name := config.ToStringIntrinsic(primitive)
	for _, e := range m.Externs {
		if e.Name == name {
			return name
		}
	}
	m.Externs = append(m.Externs, &Extern{
		Name:   name,
		Params: []types.Type{types.TCon{Name: primitive}},
		Ret:    types.TCon{Name: types.Str},
	})
	return name
}
