// Package modules implements OtterLang's module loader: use-path
// resolution, cycle detection, and an on-disk cache of cross-run
// diagnostics (spec.md §4.C).
package modules

import (
	"strings"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/symbols"
)

// Status is a module's position in the Loading -> Ready|Failed lifecycle
// (spec.md §5: "each module transitions through Loading -> Ready|Failed
// exactly once").
type Status int

const (
	Unloaded Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unloaded"
	}
}

// Reexport records one `pub use` declaration: either a single renamed
// symbol or an entire module's public surface (spec.md §4.C). Re-exports
// are single-level: re-exporting a module does not transitively chase
// that module's own `pub use` declarations (an Open Question in spec.md
// §9, decided in DESIGN.md).
type Reexport struct {
	FromPath string
	Symbol   string // "" re-exports the whole module's public surface
	Alias    string
}

// Module is one compilation unit: a parsed file, or (for a `rust:` path)
// an FFI-delegated stub with no AST, plus the bookkeeping the loader and
// resolver need to drive it through its lifecycle.
type Module struct {
	Path      string // canonical absolute path, or the raw `rust:...` path for FFI modules
	Dir       string // directory containing the file; anchors relative use paths
	AST       *ast.Module
	Status    Status
	IsFFI     bool
	Public    map[string]*symbols.Symbol
	Reexports []Reexport
}

// NewModule creates an Unloaded module at path, rooted at dir.
func NewModule(path, dir string) *Module {
	return &Module{Path: path, Dir: dir, Status: Unloaded, Public: make(map[string]*symbols.Symbol)}
}

// LastSegment returns the final `/`- or `:`-separated component of a use
// path, the default import alias when no `as` clause overrides it
// (spec.md §4.D: "Imported symbols are inserted ... under their import
// alias (default: last segment)").
func LastSegment(path string) string {
	norm := strings.NewReplacer(":", "/").Replace(path)
	segs := strings.Split(norm, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return path
}
