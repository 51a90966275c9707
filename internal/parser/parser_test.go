package parser

import (
	"testing"

	"github.com/otterlang/otter/internal/ast"
	"github.com/otterlang/otter/internal/diagnostics"
)

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := New("t.ot", src, sink).ParseModule()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, sink.Diagnostics)
	}
	return mod
}

func TestParseLetAndExprStmt(t *testing.T) {
	mod := parseOK(t, "let x = 1 + 2\nx\n")
	if len(mod.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(mod.Items))
	}
	let, ok := mod.Items[0].(*ast.LetStmt)
	if !ok || let.Name != "x" {
		t.Fatalf("expected let x, got %#v", mod.Items[0])
	}
	if _, ok := let.Value.(*ast.BinaryOp); !ok {
		t.Fatalf("expected binary op value, got %#v", let.Value)
	}
	if _, ok := mod.Items[1].(*ast.ExprStmt); !ok {
		t.Fatalf("expected trailing expr statement, got %#v", mod.Items[1])
	}
}

func TestCompoundAssignDesugarsToAssign(t *testing.T) {
	mod := parseOK(t, "fn f():\n    let x = 1\n    x += 2\n")
	fn := mod.Items[0].(*ast.FunctionDecl)
	assign, ok := fn.Body[1].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AugAssign to desugar to AssignStmt, got %#v", fn.Body[1])
	}
	bin, ok := assign.Value.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected `x = x + 2`, got %#v", assign.Value)
	}
}

func TestFunctionDeclParamsAndReturn(t *testing.T) {
	mod := parseOK(t, "fn add(a: Int, b: Int) -> Int:\n    return a + b\n")
	fn := mod.Items[0].(*ast.FunctionDecl)
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function decl: %#v", fn)
	}
	if fn.Ret == nil {
		t.Fatalf("expected an explicit return type")
	}
}

func TestMethodSyntaxSelfParam(t *testing.T) {
	mod := parseOK(t, "struct Point:\n    x: Int\n    y: Int\n    fn sum(self) -> Int:\n        return self.x + self.y\n")
	st := mod.Items[0].(*ast.StructDecl)
	if len(st.Methods) != 1 || !st.Methods[0].IsMethod() {
		t.Fatalf("expected one method with a self receiver, got %#v", st.Methods)
	}
}

func TestDefaultParamOrderEnforced(t *testing.T) {
	sink := diagnostics.NewSink()
	New("t.ot", "fn f(a: Int = 1, b: Int):\n    pass\n", sink).ParseModule()
	found := false
	for _, d := range sink.Diagnostics {
		if d.Code == diagnostics.DefaultParamOrder {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DefaultParamOrder once a later required param follows a defaulted one, got %v", sink.Diagnostics)
	}
}

func TestTopLevelControlFlowIsIllegal(t *testing.T) {
	sink := diagnostics.NewSink()
	New("t.ot", "if true:\n    pass\n", sink).ParseModule()
	if !sink.HasErrors() {
		t.Fatalf("expected bare top-level `if` to be rejected")
	}
	found := false
	for _, d := range sink.Diagnostics {
		if d.Code == diagnostics.IllegalTopLevel {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected IllegalTopLevel, got %v", sink.Diagnostics)
	}
}

func TestEnumDeclVariants(t *testing.T) {
	mod := parseOK(t, "enum Result<T, E>:\n    Ok(T)\n    Err(E)\n")
	en := mod.Items[0].(*ast.EnumDecl)
	if en.Name != "Result" || len(en.Generics) != 2 || len(en.Variants) != 2 {
		t.Fatalf("unexpected enum decl: %#v", en)
	}
	if en.Variants[0].Name != "Ok" || len(en.Variants[0].Payload) != 1 {
		t.Fatalf("unexpected Ok variant: %#v", en.Variants[0])
	}
}

func TestMatchOnEnumVariant(t *testing.T) {
	mod := parseOK(t, "fn f(r):\n    match r:\n        case Result.Ok(v):\n            return v\n        case Result.Err(_):\n            return -1\n")
	fn := mod.Items[0].(*ast.FunctionDecl)
	stmt := fn.Body[0].(*ast.ExprStmt)
	m, ok := stmt.X.(*ast.Match)
	if !ok || len(m.Arms) != 2 {
		t.Fatalf("expected a 2-arm match, got %#v", stmt.X)
	}
}

func TestListComprehensionDesugars(t *testing.T) {
	mod := parseOK(t, "let xs = [x * 2 for x in ys if x > 0]\n")
	let := mod.Items[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.ListComprehension); !ok {
		t.Fatalf("expected a ListComprehension node, got %#v", let.Value)
	}
}

func TestFStringParsesAsExpression(t *testing.T) {
	mod := parseOK(t, `let s = f"len={len(xs)}"` + "\n")
	let := mod.Items[0].(*ast.LetStmt)
	fs, ok := let.Value.(*ast.FString)
	if !ok {
		t.Fatalf("expected FString node, got %#v", let.Value)
	}
	var embedded int
	for _, p := range fs.Pieces {
		if p.Expr != nil {
			embedded++
		}
	}
	if embedded != 1 {
		t.Fatalf("expected 1 embedded expression, got %d", embedded)
	}
}

func TestSpawnAwaitExpressions(t *testing.T) {
	mod := parseOK(t, "let t = spawn compute(5)\nlet r = await t\n")
	let := mod.Items[0].(*ast.LetStmt)
	if _, ok := let.Value.(*ast.Spawn); !ok {
		t.Fatalf("expected Spawn node, got %#v", let.Value)
	}
	let2 := mod.Items[1].(*ast.LetStmt)
	if _, ok := let2.Value.(*ast.Await); !ok {
		t.Fatalf("expected Await node, got %#v", let2.Value)
	}
}

func TestUsePathWithAlias(t *testing.T) {
	mod := parseOK(t, "use ./math as m\n")
	use := mod.Items[0].(*ast.UseStmt)
	if use.Path != "./math" || use.Alias != "m" {
		t.Fatalf("unexpected use statement: %#v", use)
	}
}

func TestEmptyFileParsesToEmptyModule(t *testing.T) {
	mod := parseOK(t, "")
	if len(mod.Items) != 0 {
		t.Fatalf("expected no items for an empty file, got %d", len(mod.Items))
	}
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	mod := parseOK(t, "let x = 1 + 2 * 3\n")
	let := mod.Items[0].(*ast.LetStmt)
	bin := let.Value.(*ast.BinaryOp)
	if bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %q", bin.Op)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' to bind tighter than '+', got %#v", bin.Right)
	}
}
