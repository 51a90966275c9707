// Package resolver implements OtterLang's two-pass name resolver: Collect
// populates a module's top-level symbol table, then Bind walks function
// bodies and expressions, binding every identifier to a symbol or
// reporting it unresolved (spec.md §4.D).
package resolver

import (
	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/modules"
	"github.com/otterlang/otter/internal/symbols"
	"github.com/otterlang/otter/internal/token"
	"github.com/otterlang/otter/internal/types"
)

// Resolution is the output of resolving one module: its symbol table plus
// a side-table from identifier node id to the symbol it was bound to (spec.md §9 "side-tables over node mutation").
type Resolution struct {
	Table   *symbols.Table
	Symbols map[ast.NodeID]*symbols.Symbol
}

func newResolution(modulePath string) *Resolution {
	return &Resolution{Table: symbols.NewTable(modulePath), Symbols: make(map[ast.NodeID]*symbols.Symbol)}
}

// Resolver runs the collect and bind passes for exactly one module.
type Resolver struct {
	sink   *diagnostics.Sink
	loader *modules.Loader
	dir    string
	res    *Resolution
}

// New creates a Resolver for the module at modulePath. dir and loader are
// kept on the Resolver; neither Collect nor Bind reads them.
func New(sink *diagnostics.Sink, loader *modules.Loader, modulePath, dir string) *Resolver {
	return &Resolver{sink: sink, loader: loader, dir: dir, res: newResolution(modulePath)}
}

func (r *Resolver) Resolution() *Resolution { return r.res }

func (r *Resolver) errorf(span token.Span, code diagnostics.Code, format string, args ...interface{}) {
	r.sink.Report(diagnostics.PhaseResolver, code, span, format, args...)
}

// Collect walks mod's top-level items and populates the module symbol
// table with each declaration's name, kind, visibility and defining
// module, leaving its type for the checker (spec.md §4.D pass 1).
func (r *Resolver) Collect(mod *ast.Module) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.UseStmt:
			alias := it.Alias
			if alias == "" {
				alias = modules.LastSegment(it.Path)
			}
			r.defineTop(alias, symbols.ModuleSymbol, ast.ModulePrivate, it.Path, it.Span())
		case *ast.PubUseStmt:
			if it.Symbol == "" {
				alias := it.Alias
				if alias == "" {
					alias = modules.LastSegment(it.Path)
				}
				r.defineTop(alias, symbols.ModuleSymbol, ast.Public, it.Path, it.Span())
			} else {
				name := it.Alias
				if name == "" {
					name = it.Symbol
				}
				r.defineTop(name, symbols.FunctionSymbol, ast.Public, it.Path, it.Span())
			}
		case *ast.TypeAliasDecl:
			r.defineTop(it.Name, symbols.TypeAliasSymbol, it.Vis, mod.File, it.Span())
		case *ast.StructDecl:
			r.defineTop(it.Name, symbols.StructSymbol, it.Vis, mod.File, it.Span())
			for _, method := range it.Methods {
				r.defineTop(it.Name+"."+method.Name, symbols.FunctionSymbol, method.Vis, mod.File, method.Span())
			}
		case *ast.EnumDecl:
			r.defineTop(it.Name, symbols.EnumSymbol, it.Vis, mod.File, it.Span())
			for _, v := range it.Variants {
				r.defineTop(it.Name+"."+v.Name, symbols.VariantSymbol, it.Vis, mod.File, it.Span())
			}
		case *ast.FunctionDecl:
			r.defineTop(it.Name, symbols.FunctionSymbol, it.Vis, mod.File, it.Span())
		case *ast.LetStmt:
			r.defineTop(it.Name, symbols.GlobalLetSymbol, ast.ModulePrivate, mod.File, it.Span())
		case *ast.ExprStmt:
			// nothing to collect; evaluated for side effects at module init
		}
	}
}

func (r *Resolver) defineTop(name string, kind symbols.Kind, vis ast.Visibility, module string, span token.Span) {
	if _, ok := r.res.Table.LookupModuleLevel(name); ok {
		r.errorf(span, diagnostics.Redefinition, "redefinition of %q at module scope", name)
		return
	}
	symVis := symbols.ModulePrivate
	if vis == ast.Public {
		symVis = symbols.Public
	}
	r.res.Table.DefineModuleLevel(&symbols.Symbol{Name: name, Kind: kind, Vis: symVis, Module: module})
}

// Bind walks function/method bodies, top-level `let` initializers, and
// top-level expression-statements, binding every identifier encountered
// (spec.md §4.D pass 2).
func (r *Resolver) Bind(mod *ast.Module) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.FunctionDecl:
			r.bindFunction(it)
		case *ast.StructDecl:
			for _, method := range it.Methods {
				r.bindFunction(method)
			}
		case *ast.LetStmt:
			r.bindExpr(it.Value)
		case *ast.ExprStmt:
			r.bindExpr(it.X)
		}
	}
}

func (r *Resolver) bindFunction(fn *ast.FunctionDecl) {
	r.res.Table.Push()
	defer r.res.Table.Pop()
	for _, p := range fn.Params {
		if p.IsSelf {
			continue
		}
		if p.Default != nil {
			r.bindExpr(p.Default)
		}
		r.res.Table.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.ParamSymbol})
	}
	for _, s := range fn.Body {
		r.bindStmt(s)
	}
}

func (r *Resolver) bindBlock(stmts []ast.Statement) {
	r.res.Table.Push()
	defer r.res.Table.Pop()
	for _, s := range stmts {
		r.bindStmt(s)
	}
}

func (r *Resolver) bindStmt(s ast.Statement) {
	switch st := s.(type) {
	case *ast.LetStmt:
		r.bindExpr(st.Value)
		r.res.Table.Define(&symbols.Symbol{Name: st.Name, Kind: symbols.LocalSymbol})
	case *ast.AssignStmt:
		r.bindExpr(st.Target)
		r.bindExpr(st.Value)
	case *ast.ReturnStmt:
		if st.Value != nil {
			r.bindExpr(st.Value)
		}
	case *ast.RaiseStmt:
		if st.Value != nil {
			r.bindExpr(st.Value)
		}
	case *ast.IfStmt:
		r.bindExpr(st.Cond)
		r.bindBlock(st.Body)
		for _, e := range st.Elifs {
			r.bindExpr(e.Cond)
			r.bindBlock(e.Body)
		}
		if st.Else != nil {
			r.bindBlock(st.Else)
		}
	case *ast.WhileStmt:
		r.bindExpr(st.Cond)
		r.bindBlock(st.Body)
	case *ast.ForStmt:
		r.bindExpr(st.Iter)
		r.res.Table.Push()
		r.bindPattern(st.Target)
		for _, bs := range st.Body {
			r.bindStmt(bs)
		}
		r.res.Table.Pop()
	case *ast.TryStmt:
		r.bindBlock(st.Body)
		for _, h := range st.Handlers {
			r.res.Table.Push()
			if h.Pattern != nil {
				r.bindPattern(h.Pattern)
			}
			for _, bs := range h.Body {
				r.bindStmt(bs)
			}
			r.res.Table.Pop()
		}
		if st.Else != nil {
			r.bindBlock(st.Else)
		}
		if st.Finally != nil {
			r.bindBlock(st.Finally)
		}
	case *ast.ExprStmt:
		r.bindExpr(st.X)
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.PassStmt:
		// no names involved
	}
}

func (r *Resolver) bindPattern(p ast.Pattern) {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		// binds nothing (spec.md §4.D)
	case *ast.BindingPattern:
		r.res.Table.Define(&symbols.Symbol{Name: pt.Name, Kind: symbols.LocalSymbol})
	case *ast.LiteralPattern:
		r.bindExpr(pt.Value)
	case *ast.EnumVariantPattern:
		for _, sp := range pt.Subpatterns {
			r.bindPattern(sp)
		}
	case *ast.StructDestructurePattern:
		for _, sp := range pt.Fields {
			r.bindPattern(sp)
		}
	case *ast.ListPattern:
		for _, h := range pt.Head {
			r.bindPattern(h)
		}
		if pt.Rest != nil {
			r.res.Table.Define(&symbols.Symbol{Name: pt.Rest.Name, Kind: symbols.LocalSymbol})
		}
		for _, t := range pt.Tail {
			r.bindPattern(t)
		}
	}
}

func (r *Resolver) bindExpr(e ast.Expression) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.Identifier:
		r.bindIdentifier(ex)
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.UnitLiteral:
		// no names
	case *ast.FString:
		for _, piece := range ex.Pieces {
			if piece.Expr != nil {
				r.bindExpr(piece.Expr)
			}
		}
	case *ast.MemberAccess:
		r.bindExpr(ex.Left)
	case *ast.Call:
		r.bindExpr(ex.Callee)
		for _, a := range ex.Args {
			r.bindExpr(a)
		}
	case *ast.Index:
		r.bindExpr(ex.Left)
		r.bindExpr(ex.Idx)
	case *ast.UnaryOp:
		r.bindExpr(ex.Operand)
	case *ast.BinaryOp:
		r.bindExpr(ex.Left)
		r.bindExpr(ex.Right)
	case *ast.LogicalOp:
		r.bindExpr(ex.Left)
		r.bindExpr(ex.Right)
	case *ast.IsCheck:
		r.bindExpr(ex.Left)
		r.bindExpr(ex.Right)
	case *ast.RangeExpr:
		r.bindExpr(ex.Lo)
		r.bindExpr(ex.Hi)
	case *ast.ListLit:
		for _, el := range ex.Elements {
			r.bindExpr(el)
		}
	case *ast.DictLit:
		for _, entry := range ex.Entries {
			r.bindExpr(entry.Key)
			r.bindExpr(entry.Value)
		}
	case *ast.StructLit:
		for _, f := range ex.Fields {
			r.bindExpr(f.Value)
		}
	case *ast.Lambda:
		r.res.Table.Push()
		for _, p := range ex.Params {
			r.res.Table.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.ParamSymbol})
		}
		for _, s := range ex.Body {
			r.bindStmt(s)
		}
		r.res.Table.Pop()
	case *ast.Await:
		r.bindExpr(ex.Operand)
	case *ast.Spawn:
		r.bindExpr(ex.Operand)
	case *ast.Match:
		r.bindExpr(ex.Scrutinee)
		for _, arm := range ex.Arms {
			r.res.Table.Push()
			r.bindPattern(arm.Pattern)
			for _, s := range arm.Body {
				r.bindStmt(s)
			}
			r.res.Table.Pop()
		}
	case *ast.ListComprehension:
		r.bindExpr(ex.Iter)
		r.res.Table.Push()
		r.bindPattern(ex.Target)
		if ex.Filter != nil {
			r.bindExpr(ex.Filter)
		}
		r.bindExpr(ex.Yield)
		r.res.Table.Pop()
	case *ast.DictComprehension:
		r.bindExpr(ex.Iter)
		r.res.Table.Push()
		r.bindPattern(ex.Target)
		if ex.Filter != nil {
			r.bindExpr(ex.Filter)
		}
		r.bindExpr(ex.Key)
		r.bindExpr(ex.Value)
		r.res.Table.Pop()
	}
}

func (r *Resolver) bindIdentifier(id *ast.Identifier) {
	if id.Name == "_" {
		return
	}
	if sym, ok := r.res.Table.Lookup(id.Name); ok {
		r.res.Symbols[id.ID()] = sym
		return
	}
	if sym, ok := r.res.Table.LookupModuleLevel(id.Name); ok {
		r.res.Symbols[id.ID()] = sym
		return
	}
	if id.Name == config.PrintFuncName || id.Name == config.LenFuncName {
		r.res.Symbols[id.ID()] = &symbols.Symbol{Name: id.Name, Kind: symbols.FunctionSymbol}
		return
	}
	r.errorf(id.Span(), diagnostics.UnresolvedName, "undefined name %q", id.Name)
	r.res.Symbols[id.ID()] = &symbols.Symbol{
		Name:     id.Name,
		Kind:     symbols.LocalSymbol,
		Poisoned: true,
		Type:     types.TCon{Name: config.AnyTypeName},
	}
}
