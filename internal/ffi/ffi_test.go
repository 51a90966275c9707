package ffi

import (
	"errors"
	"testing"

	"github.com/otterlang/otter/internal/types"
)

func TestStaticOracleRegisterAndLookup(t *testing.T) {
	o := NewStaticOracle(nil)
	o.Register("rust:serde_json/to_string", Symbol{
		Name:       "serde_json_to_string",
		Params:     []types.Type{types.TCon{Name: types.Str}},
		Ret:        types.TCon{Name: types.Str},
		Convention: ConvRust,
	})

	sym, err := o.Lookup("rust:serde_json/to_string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym.Name != "serde_json_to_string" || sym.Convention != ConvRust {
		t.Fatalf("unexpected symbol: %#v", sym)
	}
}

func TestStaticOracleLookupMissReturnsNotFoundError(t *testing.T) {
	o := NewStaticOracle(nil)
	_, err := o.Lookup("rust:nope/whatever")
	if err == nil {
		t.Fatalf("expected an error for an unregistered path")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected a *NotFoundError, got %T (%v)", err, err)
	}
	if nf.Path != "rust:nope/whatever" {
		t.Fatalf("unexpected path on NotFoundError: %q", nf.Path)
	}
}

func TestStaticOracleSeededFromInitialTable(t *testing.T) {
	o := NewStaticOracle(map[string]Symbol{
		"rust:libc/getpid": {Name: "getpid", Ret: types.TCon{Name: types.Int}},
	})
	sym, err := o.Lookup("rust:libc/getpid")
	if err != nil || sym.Name != "getpid" {
		t.Fatalf("expected the seeded symbol back, got %#v, err=%v", sym, err)
	}
}

func TestRegisterOverwritesExistingEntry(t *testing.T) {
	o := NewStaticOracle(nil)
	o.Register("rust:a/f", Symbol{Name: "old"})
	o.Register("rust:a/f", Symbol{Name: "new"})
	sym, _ := o.Lookup("rust:a/f")
	if sym.Name != "new" {
		t.Fatalf("expected Register to overwrite, got %q", sym.Name)
	}
}
