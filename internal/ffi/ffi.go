// Package ffi implements the FFI oracle interface spec.md §6 describes:
// a query surface the resolver and IR lowerer consult when a `use
// rust:<crate>` path is encountered. The compiler only trusts the
// oracle's answers; it never inspects the foreign crate itself (spec.md
// §1 places transparent FFI integration out of scope as an external
// collaborator).
package ffi

import (
	"fmt"
	"sync"

	"github.com/otterlang/otter/internal/types"
)

// CallingConvention names the ABI the lowerer must use when emitting a
// call to a resolved FFI symbol.
type CallingConvention string

const (
	ConvC    CallingConvention = "c"
	ConvRust CallingConvention = "rust"
)

// Symbol is the oracle's answer for one `rust:` path: the external symbol
// name to call, its parameter/return types already expressed in
// OtterLang's type system, and the calling convention the lowerer must
// honor when marshalling arguments (spec.md §6 "lookup(path) -> {symbol
// name, parameter types, return type, calling convention}").
type Symbol struct {
	Name       string
	Params     []types.Type
	Ret        types.Type
	Convention CallingConvention
}

// Oracle is the query interface the resolver/lowerer use when a
// `rust:<crate>` use path is encountered. The compiler core never
// implements one itself; production builds wire in whatever external
// tool (e.g. a cargo-metadata scraper) answers for the target crate.
type Oracle interface {
	Lookup(path string) (Symbol, error)
}

// NotFoundError reports that path has no registered FFI answer; the
// resolver/lowerer surface it as diagnostics.FfiLookupFailed.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ffi: no oracle answer for %q", e.Path)
}

// StaticOracle is an in-memory Oracle backed by a fixed table, the kind
// of stub a compiler-core test harness (or a `--ffi-manifest` driver flag,
// out of this package's scope) would populate ahead of a build. It is
// safe for concurrent Lookup calls, matching spec.md §5's allowance for
// per-file-parallel module loading touching the same shared state.
type StaticOracle struct {
	mu      sync.RWMutex
	symbols map[string]Symbol
}

// NewStaticOracle builds a StaticOracle from an initial path->Symbol table.
// A nil or empty table is valid; entries can be added later with Register.
func NewStaticOracle(table map[string]Symbol) *StaticOracle {
	o := &StaticOracle{symbols: make(map[string]Symbol, len(table))}
	for k, v := range table {
		o.symbols[k] = v
	}
	return o
}

// Register adds or replaces the answer for path.
func (o *StaticOracle) Register(path string, sym Symbol) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.symbols[path] = sym
}

// Lookup implements Oracle.
func (o *StaticOracle) Lookup(path string) (Symbol, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	sym, ok := o.symbols[path]
	if !ok {
		return Symbol{}, &NotFoundError{Path: path}
	}
	return sym, nil
}
