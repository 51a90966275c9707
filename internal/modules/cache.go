package modules

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"

	_ "modernc.org/sqlite"

	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/token"
)

func tokenSpan(file string, line, column, lo, hi int) token.Span {
	return token.Span{File: file, Line: line, Column: column, Lo: lo, Hi: hi}
}

// ModuleCache memoizes, per canonical module path, the content hash last
// compiled and the diagnostics that compiling it produced, so an
// unchanged module in a large `use` graph does not re-emit the same
// warnings on every `otterc build` invocation. The AST itself is never
// persisted: ast.NodeID is a process-local monotonic counter with no
// meaning across runs (see internal/ast's doc comment), so a cached AST
// would be unusable by the side-table passes that key off of it — the
// loader always re-parses, and the cache only shortcuts diagnostic
// replay.
type ModuleCache struct {
	db *sql.DB
}

type cachedDiagnostic struct {
	Severity string
	Code     string
	Phase    string
	File     string
	Line     int
	Column   int
	Lo, Hi   int
	Message  string
	Hint     string
}

// OpenModuleCache opens (creating if absent) the sqlite file at path.
func OpenModuleCache(path string) (*ModuleCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS modules (
		path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		diagnostics_json TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &ModuleCache{db: db}, nil
}

func (c *ModuleCache) Close() error { return c.db.Close() }

// HashSource fingerprints a module's source text for cache keying.
func HashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup reports whether path's cached content hash still matches hash;
// if so it returns the diagnostics recorded the last time this exact
// source compiled.
func (c *ModuleCache) Lookup(path, hash string) ([]*diagnostics.Diagnostic, bool) {
	var storedHash, diagJSON string
	row := c.db.QueryRow(`SELECT content_hash, diagnostics_json FROM modules WHERE path = ?`, path)
	if err := row.Scan(&storedHash, &diagJSON); err != nil {
		return nil, false
	}
	if storedHash != hash {
		return nil, false
	}
	var cached []cachedDiagnostic
	if err := json.Unmarshal([]byte(diagJSON), &cached); err != nil {
		return nil, false
	}
	out := make([]*diagnostics.Diagnostic, len(cached))
	for i, d := range cached {
		out[i] = &diagnostics.Diagnostic{
			Severity: diagnostics.Severity(d.Severity),
			Code:     diagnostics.Code(d.Code),
			Phase:    diagnostics.Phase(d.Phase),
			Primary: tokenSpan(d.File, d.Line, d.Column, d.Lo, d.Hi),
			Message: d.Message,
			Hint:    d.Hint,
		}
	}
	return out, true
}

// Store records path's content hash and the diagnostics its compilation
// produced, replacing any previous entry.
func (c *ModuleCache) Store(path, hash string, diags []*diagnostics.Diagnostic) error {
	cached := make([]cachedDiagnostic, len(diags))
	for i, d := range diags {
		cached[i] = cachedDiagnostic{
			Severity: string(d.Severity),
			Code:     string(d.Code),
			Phase:    string(d.Phase),
			File:     d.Primary.File,
			Line:     d.Primary.Line,
			Column:   d.Primary.Column,
			Lo:       d.Primary.Lo,
			Hi:       d.Primary.Hi,
			Message:  d.Message,
			Hint:     d.Hint,
		}
	}
	blob, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(`INSERT INTO modules(path, content_hash, diagnostics_json) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET content_hash = excluded.content_hash, diagnostics_json = excluded.diagnostics_json`,
		path, hash, string(blob))
	return err
}
