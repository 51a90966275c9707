// Package pipeline wires the compiler's passes (lex+parse via the module
// loader, name resolution, type checking) into one ordered run over an
// entry module and everything it transitively `use`s (spec.md §2's pass
// list, §5's module lifecycle).
package pipeline

import "github.com/otterlang/otter/internal/modules"

// Processor is one pass the driver runs over a loaded module, in the
// teacher's Process-returns-context shape generalized from a single-file
// pipeline to per-module driving (spec.md §2: lexer -> parser -> loader ->
// resolver -> checker -> lowerer).
type Processor interface {
	Process(ctx *Context) *Context
}

// ModuleUnit wraps one loaded module. It holds no resolver/checker state;
// that is kept in Context.Resolutions and Context.Checked.
type ModuleUnit struct {
	Module *modules.Module
}
