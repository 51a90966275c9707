package checker

import (
	"testing"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/ffi"
	"github.com/otterlang/otter/internal/modules"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/resolver"
	"github.com/otterlang/otter/internal/types"
)

func check(t *testing.T, src string) (*ast.Module, *Result, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := parser.New("t.ot", src, sink).ParseModule()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics)
	}
	loader := modules.NewLoader(sink, nil)
	r := resolver.New(sink, loader, "t.ot", ".")
	r.Collect(mod)
	r.Bind(mod)
	c := New(sink, r.Resolution(), "t.ot")
	res := c.Check(mod)
	return mod, res, sink
}

func hasCode(sink *diagnostics.Sink, code diagnostics.Code) bool {
	for _, d := range sink.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// TestMatchOnResultNarrowsPayload is scenario S2: matching on a
// Result<T, E> unifies each arm's bound payload to the variant's element
// type, so `return v` type-checks against the Int return type.
func TestMatchOnResultNarrowsPayload(t *testing.T) {
	src := "enum Result<T, E>:\n" +
		"    Ok(T)\n" +
		"    Err(E)\n" +
		"fn unwrap_or(r: Result<Int, Str>, fallback: Int) -> Int:\n" +
		"    match r:\n" +
		"        case Result.Ok(v):\n" +
		"            return v\n" +
		"        case Result.Err(_):\n" +
		"            return fallback\n"
	_, _, sink := check(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
}

// TestNonExhaustiveMatchWarnsWithMissingVariant is scenario S3.
func TestNonExhaustiveMatchWarnsWithMissingVariant(t *testing.T) {
	src := "enum Result<T, E>:\n" +
		"    Ok(T)\n" +
		"    Err(E)\n" +
		"fn unwrap(r: Result<Int, Str>) -> Int:\n" +
		"    match r:\n" +
		"        case Result.Ok(v):\n" +
		"            return v\n"
	_, _, sink := check(t, src)
	if !hasCode(sink, diagnostics.NonExhaustiveMatch) {
		t.Fatalf("expected NonExhaustiveMatch, got %v", sink.Diagnostics)
	}
	found := false
	for _, d := range sink.Diagnostics {
		if d.Code == diagnostics.NonExhaustiveMatch && d.Severity != diagnostics.Error {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected NonExhaustiveMatch to default to a warning, got %v", sink.Diagnostics)
	}
}

func TestUnreachableArmAfterWildcard(t *testing.T) {
	src := "enum Result<T, E>:\n" +
		"    Ok(T)\n" +
		"    Err(E)\n" +
		"fn f(r: Result<Int, Str>) -> Int:\n" +
		"    match r:\n" +
		"        case _:\n" +
		"            return 0\n" +
		"        case Result.Ok(v):\n" +
		"            return v\n"
	_, _, sink := check(t, src)
	if !hasCode(sink, diagnostics.UnreachableArm) {
		t.Fatalf("expected UnreachableArm, got %v", sink.Diagnostics)
	}
}

func TestNumericWideningIntToFloat(t *testing.T) {
	src := "fn f(x: Int, y: Float) -> Float:\n    return x + y\n"
	mod, res, sink := check(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
	fn := mod.Items[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	bin := ret.Value.(*ast.BinaryOp)
	if !res.Widened[bin.Left.ID()] {
		t.Fatalf("expected the Int operand to be recorded as widened to Float")
	}
}

func TestGenericStructFieldInstantiatesPerUse(t *testing.T) {
	src := "struct Box<T>:\n" +
		"    value: T\n" +
		"fn unbox(b: Box<Int>) -> Int:\n" +
		"    return b.value\n"
	_, _, sink := check(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
}

func TestStructKeywordLiteralMissingFieldIsError(t *testing.T) {
	src := "struct Point:\n" +
		"    x: Int\n" +
		"    y: Int\n" +
		"fn f():\n" +
		"    let p = Point{x: 1}\n"
	_, _, sink := check(t, src)
	if !sink.HasErrors() {
		t.Fatalf("expected an error for an incomplete struct literal")
	}
}

func TestFFICallTypesThroughOracle(t *testing.T) {
	oracle := ffi.NewStaticOracle(nil)
	oracle.Register("rust:serde_json/to_string", ffi.Symbol{
		Name:   "serde_json_to_string",
		Params: []types.Type{types.TCon{Name: types.Str}},
		Ret:    types.TCon{Name: types.Str},
	})

	sink := diagnostics.NewSink()
	src := "use rust:serde_json\nfn f(s: Str) -> Str:\n    return serde_json.to_string(s)\n"
	mod := parser.New("t.ot", src, sink).ParseModule()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", sink.Diagnostics)
	}
	loader := modules.NewLoader(sink, nil)
	r := resolver.New(sink, loader, "t.ot", ".")
	r.Collect(mod)
	r.Bind(mod)
	c := NewWithOracle(sink, r.Resolution(), "t.ot", oracle)
	res := c.Check(mod)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
	found := false
	for _, sym := range res.FFICalls {
		if sym.Name == "serde_json_to_string" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the FFI call to be recorded against the oracle's symbol, got %v", res.FFICalls)
	}
}

func TestFFICallWithoutOracleMatchReportsFailure(t *testing.T) {
	src := "use rust:serde_json\nfn f(s: Str) -> Str:\n    return serde_json.to_string(s)\n"
	_, _, sink := check(t, src)
	if !hasCode(sink, diagnostics.FfiLookupFailed) {
		t.Fatalf("expected FfiLookupFailed with no oracle configured, got %v", sink.Diagnostics)
	}
}
