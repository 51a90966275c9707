package checker

import (
	"strings"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/ffi"
	"github.com/otterlang/otter/internal/symbols"
	"github.com/otterlang/otter/internal/types"
)

// rustPathPrefix matches the `rust:<crate>` use-path form spec.md §4.C and
// §6 describe as delegated verbatim to the FFI oracle.
const rustPathPrefix = "rust:"

// ffiModuleOf reports the `rust:` path a module-alias Identifier was bound
// to by the resolver, if any (spec.md §4.C "rust:<crate> paths are
// delegated verbatim to the FFI oracle").
func (c *Checker) ffiModuleOf(e ast.Expression) (string, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return "", false
	}
	sym := c.symbolFor(id)
	if sym == nil || sym.Kind != symbols.ModuleSymbol {
		return "", false
	}
	if !strings.HasPrefix(sym.Module, rustPathPrefix) {
		return "", false
	}
	return sym.Module, true
}

// inferFFICall type-checks a call through an FFI module member, querying
// the oracle for the symbol's signature (spec.md §6 "lookup(path) ->
// {symbol name, parameter types, return type, calling convention}"). It
// reports whether ex.Callee was in fact an FFI reference; when it returns
// false the caller falls through to ordinary call typing.
func (c *Checker) inferFFICall(ex *ast.Call, argTypes []types.Type) (types.Type, bool) {
	member, ok := ex.Callee.(*ast.MemberAccess)
	if !ok {
		return nil, false
	}
	modPath, ok := c.ffiModuleOf(member.Left)
	if !ok {
		return nil, false
	}

	path := modPath + "/" + member.Name
	if c.oracle == nil {
		c.errorf(ex.Span(), diagnostics.FfiLookupFailed, "no FFI oracle configured to resolve %q", path)
		return any(), true
	}
	sym, err := c.oracle.Lookup(path)
	if err != nil {
		c.errorf(ex.Span(), diagnostics.FfiLookupFailed, "FFI lookup failed for %q: %v", path, err)
		return any(), true
	}

	if len(sym.Params) != len(argTypes) {
		c.errorf(ex.Span(), diagnostics.ArityMismatch,
			"%s expects %d argument(s), got %d", path, len(sym.Params), len(argTypes))
	}
	n := len(sym.Params)
	if len(argTypes) < n {
		n = len(argTypes)
	}
	for i := 0; i < n; i++ {
		c.unify(sym.Params[i], argTypes[i], ex.Args[i].Span(), "FFI call argument")
	}

	if c.ffiCalls == nil {
		c.ffiCalls = make(map[ast.NodeID]ffi.Symbol)
	}
	c.ffiCalls[ex.ID()] = sym
	return sym.Ret, true
}
