package prettyprinter

import (
	"testing"

	"github.com/otterlang/otter/internal/diagnostics"
	"github.com/otterlang/otter/internal/parser"
)

// reparse is one step of the round-trip property: parse -> print -> parse.
func reparse(t *testing.T, src string) string {
	t.Helper()
	sink := diagnostics.NewSink()
	mod := parser.New("t.ot", src, sink).ParseModule()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, sink.Diagnostics)
	}
	return Print(mod)
}

// TestRoundTripIsIdempotent is spec.md §8 property 1 for the comment-free
// subset: printing an already-printed module reproduces it exactly, since
// print(parse(x)) re-parses to the same canonical form every time.
func TestRoundTripIsIdempotent(t *testing.T) {
	srcs := []string{
		"let x = 1 + 2 * 3\n",
		"fn add(a: Int, b: Int) -> Int:\n    return a + b\n",
		"struct Point:\n    x: Int\n    y: Int\n    fn sum(self) -> Int:\n        return self.x + self.y\n",
		"enum Result<T, E>:\n    Ok(T)\n    Err(E)\n",
		"fn f(r):\n    match r:\n        case Result.Ok(v):\n            return v\n        case Result.Err(_):\n            return -1\n",
		"fn f(x):\n    if x > 0:\n        return 1\n    elif x < 0:\n        return -1\n    else:\n        return 0\n",
		"fn f(xs):\n    for x in xs:\n        print(x)\n",
		"use ./math as m\n",
	}
	for _, src := range srcs {
		once := reparse(t, src)
		twice := reparse(t, once)
		if once != twice {
			t.Errorf("round-trip not idempotent for %q:\nfirst:\n%s\nsecond:\n%s", src, once, twice)
		}
	}
}

func TestStructDeclRoundTrip(t *testing.T) {
	src := "struct Point:\n    x: Int\n    y: Int\n"
	printed := reparse(t, src)
	if printed != "struct Point:\n    x: Int\n    y: Int\n" {
		t.Fatalf("unexpected struct rendering:\n%s", printed)
	}
}
