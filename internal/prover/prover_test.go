package prover

import (
	"errors"
	"testing"

	"knower/internal/formula"
	"knower/internal/tableau"
	"knower/internal/term"
)

func mustProve(t *testing.T, axioms []string, goal string) {
	t.Helper()
	if !prove(t, axioms, goal) {
		t.Fatalf("%v |- %s: expected a proof", axioms, goal)
	}
}

func mustFail(t *testing.T, axioms []string, goal string) {
	t.Helper()
	if prove(t, axioms, goal) {
		t.Fatalf("%v |- %s: expected no proof", axioms, goal)
	}
}

func prove(t *testing.T, axioms []string, goal string) bool {
	t.Helper()
	var ax []*formula.Formula
	for _, a := range axioms {
		ax = append(ax, formula.MustParse(a))
	}
	p := New(DefaultConfig())
	ok, err := p.ProveWithAxioms(ax, formula.MustParse(goal))
	if err != nil {
		t.Fatalf("ProveWithAxioms(%v, %s) error: %v", axioms, goal, err)
	}
	return ok
}

func TestPropositionalBasics(t *testing.T) {
	mustProve(t, nil, "true")
	mustProve(t, nil, "~false")
	mustProve(t, nil, "p | ~p")
	mustProve(t, nil, "p => p")
	mustProve(t, nil, "(p & q) => p")
	mustProve(t, nil, "p => (q => p)")
	mustProve(t, nil, "(p => q) => (~q => ~p)")
	mustProve(t, nil, "(p <=> q) => (p => q)")

	mustFail(t, nil, "p | q")
	mustFail(t, nil, "p")
	mustFail(t, nil, "p => q")
	mustFail(t, nil, "false")
}

func TestAxiomsCloseGoals(t *testing.T) {
	mustProve(t, []string{"q"}, "p | q")
	mustProve(t, []string{"p", "p => q"}, "q")
	mustProve(t, []string{"p | q", "~p"}, "q")
	mustFail(t, []string{"q"}, "p")
}

func TestEquality(t *testing.T) {
	mustProve(t, nil, "red = red")
	mustProve(t, nil, "~(red = blue)")
	mustProve(t, nil, "red != blue")
	mustFail(t, nil, "red = blue")
	mustProve(t, nil, "f(red) = f(red)")
	mustProve(t, nil, "f(red) != f(blue)")
	mustProve(t, nil, "f(red) != g(red)")
}

func TestUniversalInstantiation(t *testing.T) {
	mustProve(t, nil, "(forall X: (X = red => hot(X))) => hot(red)")
	mustProve(t, []string{"forall X: p(X)"}, "p(a)")
	mustProve(t, []string{"forall X: p(X)"}, "p(a) & p(b)")
	mustProve(t, []string{"forall X: p(X)"}, "p(a) & p(a)")
	mustProve(t, []string{"forall X: (p(X) => q(X))", "p(a)"}, "q(a)")
	mustFail(t, []string{"forall X: (p(X) => q(X))"}, "q(a)")
	mustProve(t, []string{"forall X, Y: likes(X, Y)"}, "likes(a, b)")
}

func TestBacktrackingAcrossClosingDerivations(t *testing.T) {
	// The first closing derivation picks the wrong witness; the search
	// must retry before giving up.
	mustProve(t, []string{"p(a)", "p(b)", "r(b)"}, "~(forall X: ~(p(X) & r(X)))")
}

func TestEpistemicBasics(t *testing.T) {
	mustProve(t, nil, "knows(ann, p | ~p)")
	mustFail(t, nil, "knows(ann, p | q)")
	mustFail(t, nil, "knows(ann, p & ~p)")
	mustProve(t, nil, "knows(ann, p) => knows(ann, p)")
}

func TestNestedKnowledge(t *testing.T) {
	mustProve(t, nil, "knows(ann, knows(bob, p)) => knows(ann, knows(bob, p | q))")
	mustFail(t, nil, "knows(ann, knows(bob, p | q)) => knows(ann, knows(bob, p))")
}

func TestDoubleNegationStability(t *testing.T) {
	cases := []struct {
		axioms []string
		goal   string
	}{
		{nil, "p | ~p"},
		{[]string{"q"}, "p | q"},
		{nil, "knows(ann, p | ~p)"},
		{nil, "red = red"},
	}
	for _, c := range cases {
		if !prove(t, c.axioms, c.goal) {
			t.Fatalf("%v |- %s should hold", c.axioms, c.goal)
		}
		if !prove(t, c.axioms, "~~("+c.goal+")") {
			t.Fatalf("%v |- ~~(%s) should hold when the positive form does", c.axioms, c.goal)
		}
	}
}

func TestIdempotence(t *testing.T) {
	axioms := []string{"forall X: p(X)"}
	goal := "p(a) & p(b)"
	for i := 0; i < 3; i++ {
		if !prove(t, axioms, goal) {
			t.Fatalf("run %d: proof lost; state leaked between independent calls", i)
		}
	}
}

func TestIterativeDeepeningRestarts(t *testing.T) {
	p := New(Config{InitialDepth: 2, DepthIncrement: 2})
	ok, err := p.Prove(formula.MustParse("p | ~p"))
	if err != nil {
		t.Fatalf("Prove error: %v", err)
	}
	if !ok {
		t.Fatal("widening must eventually find the proof")
	}
	if p.LastStats().Restarts == 0 {
		t.Fatal("an initial budget of 2 must exhaust at least once")
	}
	if p.LastStats().Depth <= 2 {
		t.Fatal("final depth should exceed the initial budget")
	}
}

func TestMaxRestartsGivesUp(t *testing.T) {
	// A formula the engine cannot decide within a tiny budget: the cap
	// turns a widening loop into a plain failure.
	p := New(Config{InitialDepth: 1, DepthIncrement: 1, MaxRestarts: 3})
	ok, err := p.Prove(formula.MustParse("p | q"))
	if err != nil {
		t.Fatalf("Prove error: %v", err)
	}
	if ok {
		t.Fatal("p | q is not a theorem")
	}
	if p.LastStats().Restarts > 3 {
		t.Fatalf("Restarts = %d, want at most 3", p.LastStats().Restarts)
	}
}

func TestUsageErrorSurfaces(t *testing.T) {
	v := term.NewVar("X")
	goal := formula.Not(formula.Exists([]*term.Term{v}, formula.Lit("p", v)))
	// ~exists X: p(X) negates to ~~exists, and the existential reaches
	// the engine in positive scope.
	p := New(DefaultConfig())
	_, err := p.Prove(goal)
	if !errors.Is(err, tableau.ErrExistential) {
		t.Fatalf("err = %v, want ErrExistential", err)
	}
}

func TestTraceCapture(t *testing.T) {
	p := New(Config{InitialDepth: 50, DepthIncrement: 25, Trace: true})
	ok, err := p.Prove(formula.MustParse("p | ~p"))
	if err != nil || !ok {
		t.Fatalf("Prove = (%v, %v)", ok, err)
	}
	trace := p.LastTrace()
	if trace == nil || len(trace.Events) == 0 {
		t.Fatal("tracing enabled but no events captured")
	}
}

func TestStatsPopulated(t *testing.T) {
	p := New(DefaultConfig())
	ok, err := p.ProveWithAxioms(
		[]*formula.Formula{formula.MustParse("forall X: p(X)")},
		formula.MustParse("p(a)"),
	)
	if err != nil || !ok {
		t.Fatalf("Prove = (%v, %v)", ok, err)
	}
	st := p.LastStats()
	if !st.Proved {
		t.Fatal("Stats.Proved should be set")
	}
	if st.Tableau.Instantiations == 0 {
		t.Fatal("instantiation counter should be nonzero")
	}
	if st.Tableau.Expansions == 0 {
		t.Fatal("expansion counter should be nonzero")
	}
}
