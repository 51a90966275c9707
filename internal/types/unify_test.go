package types

import "testing"

func TestUnifyMatchingTCons(t *testing.T) {
	s, err := Unify(TCon{Name: Int}, TCon{Name: Int})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("expected an empty substitution for two identical constants, got %v", s)
	}
}

func TestUnifyMismatchedTConsErrors(t *testing.T) {
	if _, err := Unify(TCon{Name: Int}, TCon{Name: Str}); err == nil {
		t.Fatalf("expected an error unifying Int with Str")
	}
}

func TestUnifyBindsTypeVariable(t *testing.T) {
	a := Fresh()
	s, err := Unify(a, TCon{Name: Bool})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.Apply(s); got.String() != "Bool" {
		t.Fatalf("expected %s to resolve to Bool, got %s", a, got)
	}
}

func TestUnifyOccursCheckRejectsInfiniteType(t *testing.T) {
	a := Fresh()
	if _, err := Unify(a, List(a)); err == nil {
		t.Fatalf("expected an occurs-check error unifying a type variable with List<itself>")
	}
}

func TestUnifyTAppRequiresMatchingNameAndArity(t *testing.T) {
	if _, err := Unify(List(TCon{Name: Int}), Dict(TCon{Name: Str}, TCon{Name: Int})); err == nil {
		t.Fatalf("expected List<Int> and Dict<Str, Int> not to unify")
	}
	s, err := Unify(List(TCon{Name: Int}), List(TCon{Name: Int}))
	if err != nil || len(s) != 0 {
		t.Fatalf("expected List<Int> to unify with itself cleanly, got s=%v err=%v", s, err)
	}
}

func TestUnifyTFuncStructurally(t *testing.T) {
	f1 := TFunc{Params: []Type{TCon{Name: Int}}, Ret: TCon{Name: Bool}}
	f2 := TFunc{Params: []Type{TCon{Name: Int}}, Ret: TCon{Name: Bool}}
	if _, err := Unify(f1, f2); err != nil {
		t.Fatalf("expected two structurally identical function types to unify: %v", err)
	}
}

func TestEqualRejectsOpenTypes(t *testing.T) {
	a := Fresh()
	if Equal(a, TCon{Name: Int}) {
		t.Fatalf("expected Equal to reject a type still containing a free variable")
	}
	if !Equal(TCon{Name: Int}, TCon{Name: Int}) {
		t.Fatalf("expected two identical ground types to be Equal")
	}
}

func TestInstantiateReplacesGenericParamsWithFreshVars(t *testing.T) {
	generic := List(TVar{Name: "T"})
	out1 := Instantiate([]string{"T"}, generic)
	out2 := Instantiate([]string{"T"}, generic)
	if out1.String() == out2.String() {
		t.Fatalf("expected two separate instantiations to mint distinct type variables, both rendered as %s", out1)
	}
}
