package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/ir"
	"github.com/otterlang/otter/internal/modules"
	"github.com/otterlang/otter/internal/pipeline"
)

// compileResult is everything a subcommand needs after running the
// front-end pipeline over an entry file: the context (for diagnostics and
// the module graph) and, if checking produced no errors, the lowered IR
// module for the entry file.
type compileResult struct {
	ctx *pipeline.Context
	mod *ir.Module
}

// runFrontend drives spec.md §2's pipeline (lexer -> parser -> loader ->
// resolver -> checker) over entryPath, opening the on-disk module cache
// alongside it unless caching is disabled.
func runFrontend(entryPath string, noCache bool) (*pipeline.Context, error) {
	abs, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, internalFailure(fmt.Errorf("resolving %s: %w", entryPath, err))
	}

	var cache *modules.ModuleCache
	if !noCache {
		cachePath := filepath.Join(filepath.Dir(abs), config.ModuleCacheFile)
		cache, err = modules.OpenModuleCache(cachePath)
		if err != nil {
			// A cache that fails to open (e.g. a read-only directory) degrades
			// to no caching rather than failing the build (spec.md §7's
			// recovery-over-abort policy).
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	ctx := pipeline.NewContext(abs, cache)
	ctx = pipeline.Default().Run(ctx)
	return ctx, nil
}

// lowerEntry runs the IR lowerer over the entry module only; lowering the
// full transitive module graph into one linked output is the backend
// driver's job (spec.md §1 places the backend out of this core's scope).
func lowerEntry(ctx *pipeline.Context) (*ir.Module, error) {
	if ctx.Entry == nil {
		return nil, fmt.Errorf("entry module failed to load")
	}
	res, ok := ctx.Checked[ctx.Entry.Path]
	if !ok {
		return nil, fmt.Errorf("entry module was not type-checked")
	}
	name := strings.TrimSuffix(filepath.Base(ctx.EntryPath), config.SourceFileExt)
	return ir.Lower(ctx.Entry.AST, res, name), nil
}

// reportDiagnostics prints every diagnostic ctx accumulated, each with a
// source excerpt read from its own file when available (spec.md §7's
// user-visible failure format).
func reportDiagnostics(ctx *pipeline.Context) {
	sourceCache := map[string]string{}
	for _, d := range ctx.Sink.Diagnostics {
		src := sourceFor(sourceCache, d.Primary.File)
		fmt.Fprintln(os.Stderr, d.Render(src))
	}
}

func sourceFor(cache map[string]string, file string) string {
	if file == "" {
		return ""
	}
	if s, ok := cache[file]; ok {
		return s
	}
	b, err := os.ReadFile(file)
	s := ""
	if err == nil {
		s = string(b)
	}
	cache[file] = s
	return s
}

// checkedCounts summarizes a Sink's diagnostics by severity for the `run`/
// `build` commands' closing status line.
func checkedCounts(sink *diagnostics.Sink) (errs, warns int) {
	for _, d := range sink.Diagnostics {
		switch d.Severity {
		case diagnostics.Error:
			errs++
		case diagnostics.Warning:
			warns++
		}
	}
	return
}
