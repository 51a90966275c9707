package resolver

import (
	"testing"

	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/modules"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/symbols"
)

func resolve(t *testing.T, src string) (*Resolution, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := parser.New("t.ot", src, sink).ParseModule()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics)
	}
	loader := modules.NewLoader(sink, nil)
	r := New(sink, loader, "t.ot", ".")
	r.Collect(mod)
	r.Bind(mod)
	return r.Resolution(), sink
}

func hasCode(sink *diagnostics.Sink, code diagnostics.Code) bool {
	for _, d := range sink.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestCollectsFunctionAndStructSymbols(t *testing.T) {
	res, sink := resolve(t, "fn f():\n    pass\nstruct P:\n    x: Int\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
	if _, ok := res.Table.LookupModuleLevel("f"); !ok {
		t.Fatalf("expected function f to be collected")
	}
	if _, ok := res.Table.LookupModuleLevel("P"); !ok {
		t.Fatalf("expected struct P to be collected")
	}
}

func TestDuplicateTopLevelNameIsRedefinition(t *testing.T) {
	_, sink := resolve(t, "fn f():\n    pass\nfn f():\n    pass\n")
	if !hasCode(sink, diagnostics.Redefinition) {
		t.Fatalf("expected Redefinition, got %v", sink.Diagnostics)
	}
}

func TestUndefinedNameIsUnresolved(t *testing.T) {
	res, sink := resolve(t, "fn f():\n    return y\n")
	if !hasCode(sink, diagnostics.UnresolvedName) {
		t.Fatalf("expected UnresolvedName, got %v", sink.Diagnostics)
	}
	found := false
	for _, sym := range res.Symbols {
		if sym.Name == "y" && sym.Poisoned {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a poisoned symbol recorded for the unresolved name")
	}
}

func TestWildcardDoesNotBind(t *testing.T) {
	_, sink := resolve(t, "fn f(xs):\n    for _ in xs:\n        pass\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors for wildcard for-loop target: %v", sink.Diagnostics)
	}
}

func TestLetShadowsOuterBinding(t *testing.T) {
	_, sink := resolve(t, "fn f(x):\n    let x = x + 1\n    return x\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors for shadowing let: %v", sink.Diagnostics)
	}
}

func TestParamsScopedToOwningFunction(t *testing.T) {
	_, sink := resolve(t, "fn f(x):\n    return x\nfn g():\n    return x\n")
	if !hasCode(sink, diagnostics.UnresolvedName) {
		t.Fatalf("expected g's reference to f's param x to be unresolved, got %v", sink.Diagnostics)
	}
}

func TestUseStmtBindsModuleAlias(t *testing.T) {
	res, sink := resolve(t, "use ./math as m\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
	sym, ok := res.Table.LookupModuleLevel("m")
	if !ok || sym.Kind != symbols.ModuleSymbol {
		t.Fatalf("expected module alias m bound as a ModuleSymbol, got %#v", sym)
	}
}

func TestStructMethodRegisteredUnderQualifiedName(t *testing.T) {
	res, sink := resolve(t, "struct P:\n    x: Int\n    fn get(self) -> Int:\n        return self.x\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
	if _, ok := res.Table.LookupModuleLevel("P.get"); !ok {
		t.Fatalf("expected P.get to be registered at module scope")
	}
}

func TestEnumVariantsRegisteredUnderQualifiedName(t *testing.T) {
	res, sink := resolve(t, "enum Result<T, E>:\n    Ok(T)\n    Err(E)\n")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
	if _, ok := res.Table.LookupModuleLevel("Result.Ok"); !ok {
		t.Fatalf("expected Result.Ok to be registered at module scope")
	}
	if _, ok := res.Table.LookupModuleLevel("Result.Err"); !ok {
		t.Fatalf("expected Result.Err to be registered at module scope")
	}
}

func TestBuiltinPrintAndLenResolveWithoutDeclaration(t *testing.T) {
	_, sink := resolve(t, "fn f(xs):\n    print(len(xs))\n")
	if sink.HasErrors() {
		t.Fatalf("expected print/len to resolve as builtins without errors, got %v", sink.Diagnostics)
	}
}
