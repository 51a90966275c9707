// Package config centralizes the compiler's naming conventions: source file
// extensions, runtime intrinsic names, and built-in type names shared across
// the resolver, type checker, and IR lowerer.
package config

// SourceFileExt is OtterLang's canonical source file extension (spec.md §6).
const SourceFileExt = ".ot"

// IntrinsicPrefix namespaces every runtime ABI call the lowerer emits
// (spec.md §4.F: "runtime intrinsic calls use an otter_ prefixed ABI").
const IntrinsicPrefix = "otter_"

// Runtime intrinsic names the IR lowerer targets. These match spec.md §6's
// runtime intrinsic ABI verbatim; ToStringIntrinsic derives the
// otter_to_string_<T> name for a given primitive type name since that
// family is parameterized rather than a single symbol.
const (
	IntrinsicStringNew   = IntrinsicPrefix + "string_new"
	IntrinsicStringConcat = IntrinsicPrefix + "string_concat"
	IntrinsicListNew     = IntrinsicPrefix + "list_new"
	IntrinsicListPush    = IntrinsicPrefix + "list_push"
	IntrinsicListGet     = IntrinsicPrefix + "list_get"
	IntrinsicListLen     = IntrinsicPrefix + "list_len"
	IntrinsicDictNew     = IntrinsicPrefix + "dict_new"
	IntrinsicDictSet     = IntrinsicPrefix + "dict_set"
	IntrinsicDictGet     = IntrinsicPrefix + "dict_get"
	IntrinsicGCAlloc     = IntrinsicPrefix + "gc_alloc"
	IntrinsicGCAddRoot   = IntrinsicPrefix + "gc_add_root"
	IntrinsicGCRemoveRoot = IntrinsicPrefix + "gc_remove_root"
	IntrinsicGCCollect   = IntrinsicPrefix + "gc_collect"
	IntrinsicRaise       = IntrinsicPrefix + "raise"
	IntrinsicTaskSpawn   = IntrinsicPrefix + "task_spawn"
	IntrinsicTaskAwait   = IntrinsicPrefix + "task_await"
	IntrinsicIterNext    = IntrinsicPrefix + "iter_next"

	// WASM host imports, only emitted when targeting wasm32-unknown-unknown.
	HostWriteStdout = "env." + IntrinsicPrefix + "write_stdout"
	HostWriteStderr = "env." + IntrinsicPrefix + "write_stderr"
	HostTimeNowMs   = "env." + IntrinsicPrefix + "time_now_ms"
)

// ToStringIntrinsic returns the otter_to_string_<T> runtime symbol for a
// primitive type name (spec.md §6: "otter_to_string_<T>(v:T) -> string for
// each primitive T").
func ToStringIntrinsic(primitiveTypeName string) string {
	return IntrinsicPrefix + "to_string_" + primitiveTypeName
}

// Built-in scalar and container type names, as they appear in NamedType
// paths and symbol-table registrations.
const (
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	BoolTypeName   = "Bool"
	StrTypeName    = "Str"
	UnitTypeName   = "Unit"
	ListTypeName   = "List"
	DictTypeName   = "Dict"
	TaskTypeName   = "Task"
	OptionTypeName = "Option"
	ResultTypeName = "Result"
	AnyTypeName    = "Any"
)

// Built-in free function names resolved without an explicit `use`.
const (
	PrintFuncName = "print"
	LenFuncName   = "len"
)

// SelfParamName is the implicit receiver binding inside a method body
// (spec.md §4.B "Method syntax").
const SelfParamName = "self"

// ModuleCacheFile is the filename of the on-disk sqlite cache the loader
// keeps alongside the entry module's root directory.
const ModuleCacheFile = ".otter-modcache.sqlite"
