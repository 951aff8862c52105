package term

import (
	"testing"
)

func TestUnifyConstants(t *testing.T) {
	b := NewBindings()
	if !Unify(Const("red"), Const("red"), b) {
		t.Fatal("identical constants should unify")
	}
	if Unify(Const("red"), Const("blue"), b) {
		t.Fatal("distinct constants should not unify")
	}
}

func TestUnifyVariableBinding(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")
	if !Unify(x, Const("red"), b) {
		t.Fatal("variable should unify with constant")
	}
	if got := b.Walk(x); got.Name != "red" {
		t.Fatalf("Walk(X) = %v, want red", got)
	}
}

func TestUnifyCompound(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")
	y := NewVar("Y")
	left := Compound("holds", x, Const("now"))
	right := Compound("holds", Const("alive"), y)
	if !Unify(left, right, b) {
		t.Fatal("compounds should unify")
	}
	if got := b.Walk(x); got.Name != "alive" {
		t.Fatalf("X bound to %v, want alive", got)
	}
	if got := b.Walk(y); got.Name != "now" {
		t.Fatalf("Y bound to %v, want now", got)
	}
}

func TestUnifyArityMismatch(t *testing.T) {
	b := NewBindings()
	if Unify(Compound("f", Const("a")), Compound("f", Const("a"), Const("b")), b) {
		t.Fatal("different arities should not unify")
	}
	if Unify(Compound("f", Const("a")), Compound("g", Const("a")), b) {
		t.Fatal("different functors should not unify")
	}
}

func TestOccursCheck(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")
	if Unify(x, Compound("f", x), b) {
		t.Fatal("occurs-check must reject X = f(X)")
	}

	// Indirect occurrence through a chain of bindings.
	y := NewVar("Y")
	if !Unify(x, y, b) {
		t.Fatal("X = Y should unify")
	}
	if Unify(y, Compound("f", x), b) {
		t.Fatal("occurs-check must reject Y = f(X) when X = Y")
	}
}

func TestTrailUndo(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")
	y := NewVar("Y")

	mark := b.Mark()
	if !Unify(Compound("f", x, y), Compound("f", Const("a"), Const("b")), b) {
		t.Fatal("unification should succeed")
	}
	if !b.Bound(x.ID) || !b.Bound(y.ID) {
		t.Fatal("both variables should be bound")
	}

	b.Undo(mark)
	if b.Bound(x.ID) || b.Bound(y.ID) {
		t.Fatal("Undo should unbind everything since the mark")
	}
}

func TestUndoPartial(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")
	y := NewVar("Y")

	if !Unify(x, Const("a"), b) {
		t.Fatal("bind X")
	}
	mark := b.Mark()
	if !Unify(y, Const("b"), b) {
		t.Fatal("bind Y")
	}
	b.Undo(mark)

	if !b.Bound(x.ID) {
		t.Fatal("X bound before the mark must survive")
	}
	if b.Bound(y.ID) {
		t.Fatal("Y bound after the mark must be undone")
	}
}

func TestBindHookVeto(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")
	b.SetHook(func(v VarID, value *Term) bool { return v != x.ID })

	if Unify(x, Const("a"), b) {
		t.Fatal("hook rejection should fail unification")
	}
	y := NewVar("Y")
	if !Unify(y, Const("a"), b) {
		t.Fatal("hook should allow other variables")
	}
}

func TestUnifiableProbe(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")

	ok, ground := Unifiable(x, Const("red"), b)
	if !ok || ground {
		t.Fatalf("Unifiable(X, red) = (%v, %v), want (true, false)", ok, ground)
	}
	if b.Bound(x.ID) {
		t.Fatal("probe must not commit bindings")
	}

	ok, ground = Unifiable(Const("red"), Const("red"), b)
	if !ok || !ground {
		t.Fatalf("Unifiable(red, red) = (%v, %v), want (true, true)", ok, ground)
	}

	ok, _ = Unifiable(Const("red"), Const("blue"), b)
	if ok {
		t.Fatal("red and blue must not be unifiable")
	}
}

func TestUnifiableSuspendsHook(t *testing.T) {
	b := NewBindings()
	b.SetHook(func(VarID, *Term) bool { return false })
	x := NewVar("X")
	if ok, _ := Unifiable(x, Const("a"), b); !ok {
		t.Fatal("probe should ignore the hook")
	}
}

func TestEqualModuloBindings(t *testing.T) {
	b := NewBindings()
	x := NewVar("X")
	if !Unify(x, Const("red"), b) {
		t.Fatal("bind X")
	}

	if !Equal(Compound("hot", x), Compound("hot", Const("red")), b) {
		t.Fatal("hot(X) with X=red should equal hot(red)")
	}
	if Equal(x, Const("blue"), b) {
		t.Fatal("X=red should not equal blue")
	}
	y := NewVar("Y")
	if Equal(x, y, b) {
		t.Fatal("bound X and unbound Y are not structurally equal")
	}
}

func TestRenameEligibleOnly(t *testing.T) {
	x := NewVar("X")
	y := NewVar("Y")
	orig := Compound("f", x, y)

	renaming := make(map[VarID]*Term)
	copied := Rename(orig, map[VarID]bool{x.ID: true}, renaming)

	if copied.Args[0].ID == x.ID {
		t.Fatal("eligible variable should be renamed")
	}
	if copied.Args[1].ID != y.ID {
		t.Fatal("ineligible variable must keep its identity")
	}

	// Co-referring occurrences share one fresh variable.
	again := Rename(Compound("g", x), map[VarID]bool{x.ID: true}, renaming)
	if again.Args[0].ID != copied.Args[0].ID {
		t.Fatal("shared renaming map should map X to the same fresh variable")
	}
}

func TestSubst(t *testing.T) {
	x := NewVar("X")
	out := Subst(Compound("f", x, Compound("g", x), Const("c")), x.ID, Const("a"))
	want := "f(a, g(a), c)"
	if out.String() != want {
		t.Fatalf("Subst = %s, want %s", out, want)
	}
}

func TestFreshVarsDistinct(t *testing.T) {
	a := NewVar("X")
	b := NewVar("X")
	if a.ID == b.ID {
		t.Fatal("fresh variables must have distinct IDs")
	}
}
