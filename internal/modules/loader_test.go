package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otterlang/otter/internal/diagnostics"
)

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadSingleModule(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.ot", "fn f():\n    pass\n")

	sink := diagnostics.NewSink()
	l := NewLoader(sink, nil)
	m, err := l.Load("./a", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != Ready {
		t.Fatalf("expected module to be Ready, got %s", m.Status)
	}
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", sink.Diagnostics)
	}
}

// TestImportCycleIsDetected is scenario S4: a.ot uses b.ot, b.ot uses a.ot
// back, and the loader must report an ImportCycle rather than recursing
// forever.
func TestImportCycleIsDetected(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.ot", "use ./b\nfn f():\n    pass\n")
	writeModule(t, dir, "b.ot", "use ./a\nfn g():\n    pass\n")

	sink := diagnostics.NewSink()
	l := NewLoader(sink, nil)
	_, _ = l.Load("./a", dir)

	found := false
	for _, d := range sink.Diagnostics {
		if d.Code == diagnostics.ImportCycle {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ImportCycle diagnostic, got %v", sink.Diagnostics)
	}
}

func TestLoadedIsACacheHitNotAReparse(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.ot", "fn f():\n    pass\n")

	sink := diagnostics.NewSink()
	l := NewLoader(sink, nil)
	m1, err := l.Load("./a", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m2, ok := l.Loaded("./a", dir)
	if !ok || m2 != m1 {
		t.Fatalf("expected Loaded to return the same *Module instance")
	}
}

func TestRustFFIPathLoadsAsStubModule(t *testing.T) {
	sink := diagnostics.NewSink()
	l := NewLoader(sink, nil)
	m, err := l.Load("rust:serde_json", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsFFI || m.Status != Ready {
		t.Fatalf("expected an FFI stub module, got %#v", m)
	}
}

func TestLastSegmentDefaultsAlias(t *testing.T) {
	cases := map[string]string{
		"./math":        "math",
		"a/b/c":         "c",
		"rust:serde_json": "serde_json",
		"a:b:c":         "c",
	}
	for path, want := range cases {
		if got := LastSegment(path); got != want {
			t.Errorf("LastSegment(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestModuleCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenModuleCache(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer cache.Close()

	hash := HashSource("fn f():\n    pass\n")
	if _, ok := cache.Lookup("mod-a", hash); ok {
		t.Fatalf("expected no cache entry before Store")
	}

	diags := []*diagnostics.Diagnostic{
		{Severity: diagnostics.Warning, Code: diagnostics.NonExhaustiveMatch, Phase: diagnostics.PhaseTypes, Message: "missing variant Err"},
	}
	if err := cache.Store("mod-a", hash, diags); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok := cache.Lookup("mod-a", hash)
	if !ok || len(got) != 1 || got[0].Message != "missing variant Err" {
		t.Fatalf("expected the stored diagnostic back, got %v (ok=%v)", got, ok)
	}

	if _, ok := cache.Lookup("mod-a", HashSource("changed")); ok {
		t.Fatalf("expected a cache miss once the content hash changes")
	}
}
