package pipeline

import (
	"github.com/otterlang/otter/internal/checker"
	"github.com/otterlang/otter/internal/resolver"
)

// LoadStage drives the module loader over the entry file and everything it
// transitively `use`s (spec.md §4.C).
type LoadStage struct{}

func (LoadStage) Process(ctx *Context) *Context {
	entry, err := ctx.Loader.Load(ctx.EntryPath, ctx.EntryDir)
	if err != nil {
		return ctx
	}
	ctx.Entry = entry
	return ctx
}

// ResolveStage runs the name resolver over every module the loader reached,
// in two passes per module (Collect then Bind), matching spec.md §4.D.
type ResolveStage struct{}

func (ResolveStage) Process(ctx *Context) *Context {
	if ctx.Entry == nil {
		return ctx
	}
	for path, mod := range ctx.Loader.Modules() {
		if mod.IsFFI || mod.AST == nil {
			continue
		}
		r := resolver.New(ctx.Sink, ctx.Loader, path, mod.Dir)
		r.Collect(mod.AST)
		r.Bind(mod.AST)
		ctx.Resolutions[path] = r.Resolution()
	}
	return ctx
}

// CheckStage runs the type checker over every resolved module.
type CheckStage struct{}

func (CheckStage) Process(ctx *Context) *Context {
	for path, mod := range ctx.Loader.Modules() {
		res, ok := ctx.Resolutions[path]
		if !ok || mod.AST == nil {
			continue
		}
		c := checker.NewWithOracle(ctx.Sink, res, path, ctx.Oracle)
		ctx.Checked[path] = c.Check(mod.AST)
	}
	return ctx
}
