package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/token"
)

// Loader resolves `use` paths into Modules, parsing each file at most once
// per process and detecting import cycles as they occur (spec.md §4.C).
type Loader struct {
	sink   *diagnostics.Sink
	cache  *ModuleCache
	byPath map[string]*Module
	stack  []string // canonical paths currently Loading, for the cycle ring
}

// NewLoader creates a Loader reporting to sink. cache may be nil to disable
// cross-invocation diagnostic memoization.
func NewLoader(sink *diagnostics.Sink, cache *ModuleCache) *Loader {
	return &Loader{sink: sink, cache: cache, byPath: make(map[string]*Module)}
}

// Modules returns every module reached so far, keyed by canonical path.
func (l *Loader) Modules() map[string]*Module { return l.byPath }

// Loaded looks up an already-loaded module by the same use-path/fromDir
// pair Load would resolve, without triggering a load.
func (l *Loader) Loaded(rawPath, fromDir string) (*Module, bool) {
	if strings.HasPrefix(rawPath, "rust:") {
		m, ok := l.byPath[rawPath]
		return m, ok
	}
	_, canonical, err := resolvePath(rawPath, fromDir)
	if err != nil {
		return nil, false
	}
	m, ok := l.byPath[canonical]
	return m, ok
}

// Load resolves rawPath (as written in a `use`/`pub use` at fromDir) to a
// Module and drives it through Loading -> Ready|Failed, recursively
// loading its own `use` targets. Calling Load again with an
// already-Ready/Failed path is a cache hit, not a re-parse.
func (l *Loader) Load(rawPath, fromDir string) (*Module, error) {
	if strings.HasPrefix(rawPath, "rust:") {
		return l.loadFFI(rawPath), nil
	}

	diskPath, canonical, err := resolvePath(rawPath, fromDir)
	if err != nil {
		return nil, err
	}

	if m, ok := l.byPath[canonical]; ok {
		if m.Status == Loading {
			ring := append(append([]string{}, l.stack...), canonical)
			l.sink.Report(diagnostics.PhaseLoader, diagnostics.ImportCycle, token.Span{File: diskPath},
				"import cycle: %s", strings.Join(ring, " -> "))
			m.Status = Failed
			return m, fmt.Errorf("import cycle detected at %s", canonical)
		}
		return m, nil
	}

	m := NewModule(canonical, filepath.Dir(diskPath))
	l.byPath[canonical] = m
	m.Status = Loading
	l.stack = append(l.stack, canonical)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	source, err := os.ReadFile(diskPath)
	if err != nil {
		m.Status = Failed
		l.sink.Report(diagnostics.PhaseLoader, diagnostics.InternalError, token.Span{File: diskPath},
			"cannot read module %q: %v", canonical, err)
		return m, err
	}

	hash := HashSource(string(source))
	parseSink := l.sink
	if l.cache != nil {
		if cached, ok := l.cache.Lookup(canonical, hash); ok {
			for _, d := range cached {
				l.sink.Add(d)
			}
			// The replayed diagnostics stand in for the re-parse's own.
			parseSink = diagnostics.NewSink()
		}
	}

	before := len(l.sink.Diagnostics)
	p := parser.New(diskPath, string(source), parseSink)
	m.AST = p.ParseModule()

	if l.cache != nil && parseSink == l.sink {
		if err := l.cache.Store(canonical, hash, l.sink.Diagnostics[before:]); err != nil {
			l.sink.Report(diagnostics.PhaseLoader, diagnostics.InternalError, token.Span{File: diskPath},
				"module cache write failed: %v", err)
		}
	}

	for _, item := range m.AST.Items {
		switch it := item.(type) {
		case *ast.UseStmt:
			l.Load(it.Path, m.Dir)
		case *ast.PubUseStmt:
			l.Load(it.Path, m.Dir)
		}
	}
	if m.Status == Loading {
		m.Status = Ready
	}
	return m, nil
}

func (l *Loader) loadFFI(path string) *Module {
	if m, ok := l.byPath[path]; ok {
		return m
	}
	m := NewModule(path, "")
	m.IsFFI = true
	m.Status = Ready
	l.byPath[path] = m
	return m
}

// resolvePath turns a raw use-path into the on-disk file it names
// (diskPath) and a canonical path used as the loader's and cache's lookup
// key (canonical). Segments are separated by `/` or `:`; a leading `.`/
// `..` anchors at fromDir, matching every other bare path in this single-
// root loader (spec.md §4.C).
func resolvePath(raw, fromDir string) (diskPath, canonical string, err error) {
	normalized := strings.NewReplacer(":", "/").Replace(raw)
	diskPath = filepath.Join(fromDir, normalized) + config.SourceFileExt
	canonical, err = filepath.Abs(diskPath)
	if err != nil {
		return "", "", err
	}
	return diskPath, canonical, nil
}
