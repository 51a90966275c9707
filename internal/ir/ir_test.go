package ir

import (
	"testing"

	"github.com/otterlang/otter/internal/checker"
	"github.com/otterlang/otter/internal/config"
	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/ffi"
	"github.com/otterlang/otter/internal/modules"
	"github.com/otterlang/otter/internal/parser"
	"github.com/otterlang/otter/internal/resolver"
	"github.com/otterlang/otter/internal/types"
)

func lowerSrc(t *testing.T, src string) *Module {
	t.Helper()
	return lowerSrcWithOracle(t, src, nil)
}

func lowerSrcWithOracle(t *testing.T, src string, oracle ffi.Oracle) *Module {
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
	c := checker.NewWithOracle(sink, r.Resolution(), "t.ot", oracle)
	checked := c.Check(mod)
	if sink.HasErrors() {
		t.Fatalf("unexpected checker errors: %v", sink.Diagnostics)
	}
	return Lower(mod, checked, "t")
}

func findFunc(mod *Module, name string) *Function {
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func countOp(fn *Function, op Op) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, i := range b.Instrs {
			if i.Op == op {
				n++
			}
		}
	}
	return n
}

func countCallsTo(fn *Function, sym string) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, i := range b.Instrs {
			if i.Op == OpCall && i.Sym == sym {
				n++
			}
		}
	}
	return n
}

// TestForRangeLowersToLoop is scenario S1 (a Leibniz-pi-style `for i in
// 0..n` loop): the lowered function must span several blocks and have a
// conditional terminator closing the loop.
func TestForRangeLowersToLoop(t *testing.T) {
	src := "fn sum_to(n: Int) -> Int:\n" +
		"    let total = 0\n" +
		"    for i in 0..n:\n" +
		"        total += i\n" +
		"    return total\n"
	mod := lowerSrc(t, src)
	fn := findFunc(mod, "sum_to")
	if fn == nil {
		t.Fatalf("expected a lowered sum_to function")
	}
	if len(fn.Blocks) < 3 {
		t.Fatalf("expected a multi-block loop shape, got %d blocks", len(fn.Blocks))
	}
	var condBlocks int
	for _, b := range fn.Blocks {
		if b.Term != nil && b.Term.Kind == TermCondBr {
			condBlocks++
		}
	}
	if condBlocks == 0 {
		t.Fatalf("expected at least one conditional branch terminator for the loop test")
	}
}

// TestSpawnAwaitEmitsExactlyOneEach is scenario S5.
func TestSpawnAwaitEmitsExactlyOneEach(t *testing.T) {
	src := "fn compute(x: Int) -> Int:\n" +
		"    return x\n" +
		"fn f() -> Int:\n" +
		"    let t = spawn compute(5)\n" +
		"    return await t\n"
	mod := lowerSrc(t, src)
	fn := findFunc(mod, "f")
	if fn == nil {
		t.Fatalf("expected a lowered f function")
	}
	spawns := countCallsTo(fn, config.IntrinsicTaskSpawn)
	awaits := countCallsTo(fn, config.IntrinsicTaskAwait)
	if spawns != 1 {
		t.Fatalf("expected exactly 1 task_spawn call, got %d", spawns)
	}
	if awaits != 1 {
		t.Fatalf("expected exactly 1 task_await call, got %d", awaits)
	}
}

func TestFFICallLowersToExternCall(t *testing.T) {
	oracle := ffi.NewStaticOracle(nil)
	oracle.Register("rust:serde_json/to_string", ffi.Symbol{
		Name:   "serde_json_to_string",
		Params: []types.Type{types.TCon{Name: types.Str}},
		Ret:    types.TCon{Name: types.Str},
	})
	src := "use rust:serde_json\nfn f(s: Str) -> Str:\n    return serde_json.to_string(s)\n"
	mod := lowerSrcWithOracle(t, src, oracle)

	foundExtern := false
	for _, e := range mod.Externs {
		if e.Name == "serde_json_to_string" {
			foundExtern = true
		}
	}
	if !foundExtern {
		t.Fatalf("expected an extern declaration for the FFI symbol, got %v", mod.Externs)
	}
	fn := findFunc(mod, "f")
	if fn == nil || countCallsTo(fn, "serde_json_to_string") != 1 {
		t.Fatalf("expected exactly one call to the FFI extern")
	}
}

func TestStructLiteralLowersToOneAlloc(t *testing.T) {
	src := "struct Point:\n" +
		"    x: Int\n" +
		"    y: Int\n" +
		"fn make() -> Point:\n" +
		"    let p = Point{x: 1, y: 2}\n" +
		"    return p\n"
	mod := lowerSrc(t, src)
	fn := findFunc(mod, "make")
	if fn == nil || countOp(fn, OpStructAlloc) != 1 {
		t.Fatalf("expected exactly one struct.alloc in make()")
	}
}

func TestSizeOfPrimitivesAndStruct(t *testing.T) {
	src := "struct Point:\n    x: Int\n    y: Int\n"
	sink := diagnostics.NewSink()
	mod := parser.New("t.ot", src, sink).ParseModule()
	loader := modules.NewLoader(sink, nil)
	r := resolver.New(sink, loader, "t.ot", ".")
	r.Collect(mod)
	r.Bind(mod)
	c := checker.New(sink, r.Resolution(), "t.ot")
	res := c.Check(mod)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Diagnostics)
	}
	size := SizeOf(types.TCon{Name: "Point"}, res)
	if size != 2*wordSize {
		t.Fatalf("expected a 2-word struct layout, got %d", size)
	}
}
