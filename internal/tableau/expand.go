package tableau

import (
	"errors"
	"fmt"

	"knower/internal/formula"
	"knower/internal/logging"
	"knower/internal/term"
)

// ErrExistential reports a usage error: an existential quantifier reached
// the expansion engine in positive scope. Callers must pre-expand
// existentials into finite disjunctions; the prover cannot skolemize.
var ErrExistential = errors.New("existential quantifier in positive scope")

// Stats counts the work done by one refutation attempt.
type Stats struct {
	Expansions     int // expansion-engine invocations
	Instantiations int // universal instantiations performed
	Closures       int // literal-level branch closures found
	SubWorlds      int // modal sub-worlds dispatched
}

// closeFn is the proof continuation: invoked when the current branch
// closes, carrying the disequality obligations the closure depends on.
// It returns true when the rest of the proof succeeds from there;
// returning false backtracks into the next closing alternative.
// Commit-on-first-success falls out of the boolean short-circuit: once a
// continuation chain returns true, no further alternatives are pulled.
type closeFn func(obligations []disequality) bool

// Expander drives one depth-bounded refutation attempt. It owns the
// global bindings, their trail, and the instantiation-veto table; branch
// state is threaded through the recursive calls.
type Expander struct {
	bind      *term.Bindings
	veto      *vetoTable
	exhausted bool
	err       error
	stats     Stats
	trace     *Trace
	log       *logging.Logger
}

// NewExpander creates an expander with fresh bindings and veto table.
// Nothing is shared with prior attempts.
func NewExpander(trace *Trace) *Expander {
	bind := term.NewBindings()
	veto := newVetoTable()
	bind.SetHook(veto.hook(bind))
	return &Expander{
		bind:  bind,
		veto:  veto,
		trace: trace,
		log:   logging.Get(logging.CategoryTableau),
	}
}

// Refute attempts to close a tableau for the axioms plus the goal within
// the recursion budget. It reports closed; Exhausted() distinguishes a
// budget cut-off from a definitively open tableau, and Err() surfaces
// usage errors.
func (e *Expander) Refute(axioms []*formula.Formula, goal *formula.Formula, depth int) bool {
	br := newBranch(axioms, goal)
	closed := e.proceed(br, depth, func([]disequality) bool { return true })
	if closed {
		e.log.Debug("tableau closed: %s", goal)
	}
	return closed
}

// Exhausted reports whether the attempt ran out of recursion budget
// before reaching a definite answer.
func (e *Expander) Exhausted() bool { return e.exhausted }

// Err returns the fatal usage error, if any.
func (e *Expander) Err() error { return e.err }

// Stats returns the work counters for this attempt.
func (e *Expander) Stats() Stats { return e.stats }

// expand decomposes one formula on the branch. Decision is by formula
// shape after at most one normalization rewrite; literals hand off to the
// addition rules and resume via proceed.
func (e *Expander) expand(f *formula.Formula, br *branch, depth int, k closeFn) bool {
	if e.err != nil {
		return false
	}
	if depth <= 0 {
		e.exhausted = true
		return false
	}
	e.stats.Expansions++

	if rw, ok := formula.Rewrite(f); ok {
		e.traceStep("rewrite", f, depth)
		return e.expand(rw, br, depth-1, k)
	}

	switch f.Kind {
	case formula.KindTrue:
		return e.proceed(br, depth, k)

	case formula.KindFalse:
		e.traceStep("close/false", f, depth)
		return k(br.diseqs)

	case formula.KindForall:
		return e.expandForall(f, br, depth, k)

	case formula.KindExists:
		e.err = fmt.Errorf("%w: %s", ErrExistential, f)
		return false

	case formula.KindKnows:
		e.traceStep("necessity", f, depth)
		br.necessity = append(br.necessity, obligation{agent: f.Agent, f: f.Sub})
		return e.proceed(br, depth, k)

	case formula.KindOr:
		return e.expandOr(f, br, depth, k)

	case formula.KindAnd:
		br.push(f.Right)
		return e.expand(f.Left, br, depth-1, k)

	case formula.KindEqual:
		return e.addEqual(br, f.Args[0], f.Args[1], depth, k)

	case formula.KindLiteral:
		return e.addLiteral(br, f, false, depth, k)

	case formula.KindNot:
		g := f.Sub
		switch g.Kind {
		case formula.KindTrue:
			e.traceStep("close/not-true", f, depth)
			return k(br.diseqs)
		case formula.KindFalse:
			return e.proceed(br, depth, k)
		case formula.KindKnows:
			e.traceStep("possibility", f, depth)
			br.possibility = append(br.possibility, obligation{agent: g.Agent, f: formula.Not(g.Sub)})
			return e.proceed(br, depth, k)
		case formula.KindForall:
			// The dual of a bare existential; same usage error.
			e.err = fmt.Errorf("%w: negated universal %s", ErrExistential, f)
			return false
		case formula.KindEqual:
			return e.addNotEqual(br, g.Args[0], g.Args[1], depth, k)
		case formula.KindLiteral:
			return e.addLiteral(br, g, true, depth, k)
		}
	}

	e.err = fmt.Errorf("unexpandable formula %s", f)
	return false
}

// expandForall instantiates one bound variable with a fresh term
// variable, registers the template for reinstantiation, and continues
// with the instance. An empty binding list just exposes the body.
func (e *Expander) expandForall(f *formula.Formula, br *branch, depth int, k closeFn) bool {
	if len(f.Vars) == 0 {
		return e.expand(f.Sub, br, depth-1, k)
	}

	v := f.Vars[0]
	fresh := term.NewVar(v.Name)
	e.veto.register(f.Marker, v.ID, fresh.ID)

	u := br.universalFor(f)
	u.instVars = append(u.instVars, fresh.ID)
	br.freeVars[fresh.ID] = true
	e.stats.Instantiations++
	e.traceStep("instantiate", f, depth)

	body := formula.Subst(f.Sub, v.ID, fresh)
	if len(f.Vars) == 1 {
		return e.expand(body, br, depth-1, k)
	}
	rest := formula.ForallWith(f.Vars[1:], f.Marker, body)
	return e.expand(rest, br, depth-1, k)
}

// expandOr bifurcates the branch. Both disjuncts must close: the left is
// expanded first, each of its closing derivations propagates its
// disequality obligations into a fresh copy of the branch for the right,
// and a right-side failure backtracks into the next closing derivation of
// the left. An open left side leaves the whole disjunction open.
func (e *Expander) expandOr(f *formula.Formula, br *branch, depth int, k closeFn) bool {
	e.traceStep("split", f, depth)
	left := br.clone()
	return e.expand(f.Left, left, depth-1, func(n1 []disequality) bool {
		right := br.clone()
		right.diseqs = mergeDiseqs(right.diseqs, n1, e.bind)
		return e.expand(f.Right, right, depth-1, func(n2 []disequality) bool {
			return k(mergeDiseqs(n1, n2, e.bind))
		})
	})
}

// proceed is the resumption policy after a literal has been added (or a
// no-op expansion): drain the worklist, refresh used-up universal
// templates, dispatch modal sub-worlds, refresh once more, and only then
// report the branch open.
func (e *Expander) proceed(br *branch, depth int, k closeFn) bool {
	if e.err != nil {
		return false
	}
	if depth <= 0 {
		e.exhausted = true
		return false
	}

	if len(br.worklist) > 0 {
		return e.expand(br.pop(), br, depth-1, k)
	}
	if br.refreshUniversals(e.bind) {
		return e.proceed(br, depth-1, k)
	}
	if e.expandWorlds(br, depth, k) {
		return true
	}
	if e.err != nil {
		return false
	}
	if br.refreshUniversals(e.bind) {
		return e.proceed(br, depth-1, k)
	}
	return false
}

// traceStep records an expansion event when tracing is enabled.
func (e *Expander) traceStep(rule string, f *formula.Formula, depth int) {
	if e.trace != nil {
		e.trace.record(rule, f, depth)
	}
}
