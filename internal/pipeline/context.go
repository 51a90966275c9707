package pipeline

import (
	"path/filepath"

	"github.com/otterlang/otter/internal/checker"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/ffi"
	"github.com/otterlang/otter/internal/modules"
	"github.com/otterlang/otter/internal/resolver"
)

// Context holds all the data passed between pipeline stages: the entry
// file, the loader's module graph, and each module's resolver/checker
// output as later stages fill it in.
type Context struct {
	EntryPath string
	EntryDir  string
	Sink      *diagnostics.Sink
	Cache     *modules.ModuleCache
	// Oracle answers `use rust:...` symbol lookups for CheckStage; nil
	// disables FFI call typing (every such call then reports
	// FfiLookupFailed instead of resolving a signature).
	Oracle ffi.Oracle

	Loader *modules.Loader
	Entry  *modules.Module

	// Resolutions and Checked are keyed by modules.Module.Path (the
	// loader's canonical path), populated as the Resolve/Check stages
	// visit the module graph the Load stage discovered.
	Resolutions map[string]*resolver.Resolution
	Checked     map[string]*checker.Result
}

// NewContext creates a Context for compiling the entry file at entryPath.
// cache may be nil to disable cross-invocation diagnostic memoization.
func NewContext(entryPath string, cache *modules.ModuleCache) *Context {
	sink := diagnostics.NewSink()
	return &Context{
		EntryPath:   entryPath,
		EntryDir:    filepath.Dir(entryPath),
		Sink:        sink,
		Cache:       cache,
		Loader:      modules.NewLoader(sink, cache),
		Resolutions: make(map[string]*resolver.Resolution),
		Checked:     make(map[string]*checker.Result),
	}
}
