// Package checker implements OtterLang's bidirectional, unification-based
// type checker and inferencer (spec.md §4.E). It consumes a module's AST
// together with the resolver's bindings (internal/resolver) and produces a
// side-table of elaborated, ground types keyed by ast.NodeID plus the
// registries the IR lowerer needs: function signatures, struct layouts, and
// enum variant layouts.
//
// The split from internal/types mirrors the teacher's typesystem/analyzer
// split: internal/types is a leaf package (Type, Subst, Unify, Elaborate)
// with no knowledge of symbol tables, while this package owns the walk that
// threads an environment through the AST and calls into internal/types for
// unification.
package checker

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/ffi"
	"github.com/otterlang/otter/internal/resolver"
	"github.com/otterlang/otter/internal/symbols"
	"github.com/otterlang/otter/internal/token"
	"github.com/otterlang/otter/internal/types"
)

// FunctionSig is an elaborated function or method signature.
type FunctionSig struct {
	Generics    []string
	GenericVars []types.TVar
	ParamNames  []string
	Params      []types.Type
	Defaults    []bool
	Ret         types.Type
	Receiver    string // enclosing struct name; "" for free functions
}

// StructInfo is a struct declaration's elaborated field layout, generic
// parameters left as TVars so each use site can unify fresh arguments in.
type StructInfo struct {
	Generics    []string
	GenericVars []types.TVar // the TVar minted for each Generics entry, for re-substitution at use sites
	FieldOrder  []string
	Fields      map[string]types.Type
}

// EnumInfo is an enum declaration's elaborated variant layout.
type EnumInfo struct {
	Generics     []string
	GenericVars  []types.TVar
	VariantOrder []string
	Variants     map[string][]types.Type
}

// instantiate returns a substitution mapping vars to freshly-minted type
// variables, used to give each struct/enum/function use site its own
// unification variables (spec.md §4.E "fresh per call site").
func instantiate(vars []types.TVar) types.Subst {
	if len(vars) == 0 {
		return types.Subst{}
	}
	s := make(types.Subst, len(vars))
	for _, v := range vars {
		s[v.Name] = types.Fresh()
	}
	return s
}

// Result is everything the IR lowerer (internal/ir) needs from a checked
// module.
type Result struct {
	TypeOf    map[ast.NodeID]types.Type
	Widened   map[ast.NodeID]bool // true where an Int operand was widened to Float, or a `+` operand is converted to Str for concatenation (spec.md §4.F)
	Functions map[string]*FunctionSig
	Structs   map[string]*StructInfo
	Enums     map[string]*EnumInfo
	Globals   map[string]types.Type
	// MatchNarrow records, per EnumVariantPattern node, the variant name the
	// pattern narrows to (spec.md invariant 4).
	MatchNarrow map[ast.NodeID]string
	// FFICalls records, per Call node resolved through a `rust:` module
	// member, the oracle's answer the lowerer needs to declare the right
	// extern and marshal arguments (spec.md §6 FFI oracle).
	FFICalls map[ast.NodeID]ffi.Symbol
}

// Checker runs the two sub-passes (signature collection, then body
// checking) for exactly one module.
type Checker struct {
	sink *diagnostics.Sink
	res  *resolver.Resolution
	file string

	structs   map[string]*StructInfo
	enums     map[string]*EnumInfo
	functions map[string]*FunctionSig
	globals   map[string]types.Type

	typeOf      map[ast.NodeID]types.Type
	order       []ast.NodeID
	widened     map[ast.NodeID]bool
	matchNarrow map[ast.NodeID]string
	ffiCalls    map[ast.NodeID]ffi.Symbol
	oracle      ffi.Oracle

	subst  types.Subst
	curRet types.Type
}

// New creates a Checker for one module's AST, reporting diagnostics to
// sink and consulting res for identifier bindings produced by the resolver.
// No FFI oracle is configured; a `use rust:...` member call reports
// FfiLookupFailed rather than silently falling back to Any, so a missing
// oracle is visible instead of swallowed (see NewWithOracle).
func New(sink *diagnostics.Sink, res *resolver.Resolution, file string) *Checker {
	return NewWithOracle(sink, res, file, nil)
}

// NewWithOracle is New plus an FFI oracle consulted whenever a call targets
// a `rust:` module member (spec.md §6).
func NewWithOracle(sink *diagnostics.Sink, res *resolver.Resolution, file string, oracle ffi.Oracle) *Checker {
	return &Checker{
		sink:        sink,
		res:         res,
		file:        file,
		oracle:      oracle,
		structs:     make(map[string]*StructInfo),
		enums:       make(map[string]*EnumInfo),
		functions:   make(map[string]*FunctionSig),
		globals:     make(map[string]types.Type),
		typeOf:      make(map[ast.NodeID]types.Type),
		widened:     make(map[ast.NodeID]bool),
		matchNarrow: make(map[ast.NodeID]string),
		ffiCalls:    make(map[ast.NodeID]ffi.Symbol),
		subst:       types.Subst{},
	}
}

// Check type-checks mod and returns the elaborated Result.
func (c *Checker) Check(mod *ast.Module) *Result {
	c.collectSignatures(mod)
	c.checkBodies(mod)
	return &Result{
		TypeOf:      c.typeOf,
		Widened:     c.widened,
		Functions:   c.functions,
		Structs:     c.structs,
		Enums:       c.enums,
		Globals:     c.globals,
		MatchNarrow: c.matchNarrow,
		FFICalls:    c.ffiCalls,
	}
}

func (c *Checker) errorf(span token.Span, code diagnostics.Code, format string, args ...interface{}) {
	c.sink.Report(diagnostics.PhaseTypes, code, span, format, args...)
}

// setType records e's elaborated type. The value stored is finalized (fully
// substituted) lazily by finalize at the end of the enclosing checking unit,
// matching spec.md invariant 2 ("no free inference variables remain").
func (c *Checker) setType(id ast.NodeID, t types.Type) {
	c.typeOf[id] = t
	c.order = append(c.order, id)
}

// finalize applies the checker's current substitution to every type
// recorded since mark, then resets the order log for the next unit.
func (c *Checker) finalize(mark int) {
	for _, id := range c.order[mark:] {
		c.typeOf[id] = c.typeOf[id].Apply(c.subst)
	}
	c.order = c.order[:mark]
}

// unify attempts to unify a and b under the checker's running substitution,
// reporting a TypeMismatch diagnostic and returning Any on failure so later
// inference continues undisturbed (spec.md §9 "poisoned symbols/types").
func (c *Checker) unify(a, b types.Type, span token.Span, ctx string) types.Type {
	a = a.Apply(c.subst)
	b = b.Apply(c.subst)
	s, err := types.Unify(a, b)
	if err != nil {
		c.errorf(span, diagnostics.TypeMismatch, "%s: cannot unify %s with %s", ctx, a, b)
		return any()
	}
	c.subst = c.subst.Compose(s)
	return a.Apply(c.subst)
}

func any() types.Type { return types.TCon{Name: config.AnyTypeName} }

func isAny(t types.Type) bool {
	c, ok := t.(types.TCon)
	return ok && c.Name == config.AnyTypeName
}

// symbolFor looks up the symbol the resolver bound an identifier node to.
func (c *Checker) symbolFor(id *ast.Identifier) *symbols.Symbol {
	return c.res.Symbols[id.ID()]
}

// typeEnv is the checker's own lexical scope stack, mirroring the
// resolver's Scope/Table shape (spec.md §4.D) but keyed to elaborated
// types rather than symbols, since internal/types cannot depend on
// internal/symbols without an import cycle (symbols already depends on
// types for Symbol.Type).
type typeEnv struct {
	parent *typeEnv
	vars   map[string]types.Type
}

func newTypeEnv(parent *typeEnv) *typeEnv {
	return &typeEnv{parent: parent, vars: make(map[string]types.Type)}
}

func (e *typeEnv) define(name string, t types.Type) { e.vars[name] = t }

func (e *typeEnv) lookup(name string) (types.Type, bool) {
	for s := e; s != nil; s = s.parent {
		if t, ok := s.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}
