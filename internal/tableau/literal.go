package tableau

import (
	"knower/internal/formula"
	"knower/internal/term"
)

// addLiteral establishes a (possibly negated) non-equality literal on the
// branch. A structurally identical complement closes deterministically;
// failing that, each unifiable complement is a backtrackable closing
// choice; with all candidates exhausted the literal joins its store and
// expansion resumes.
func (e *Expander) addLiteral(br *branch, lit *formula.Formula, neg bool, depth int, k closeFn) bool {
	store := &br.trueLits
	comp := br.falseLits
	if neg {
		store = &br.falseLits
		comp = br.trueLits
	}

	// Deterministic closure on an exact structural match: no bindings,
	// no alternatives.
	for _, c := range comp {
		if formula.EqualLiteral(c, lit, e.bind) {
			e.stats.Closures++
			e.traceStep("close/literal", lit, depth)
			return k(br.diseqs)
		}
	}

	// Each unifiable complement is a choice point. Committing performs
	// the bindings and closes; a failed continuation rolls them back and
	// tries the next candidate.
	for _, c := range comp {
		if c.Pred != lit.Pred || len(c.Args) != len(lit.Args) {
			continue
		}
		mark := e.bind.Mark()
		if e.unifyArgs(c, lit) {
			if pruned, ok := e.rescanDiseqs(br.diseqs); ok {
				saved := br.diseqs
				br.diseqs = pruned
				e.stats.Closures++
				e.traceStep("close/unify", lit, depth)
				if k(br.diseqs) {
					return true
				}
				br.diseqs = saved
			}
		}
		e.bind.Undo(mark)
	}

	// Open: record the literal (deduplicated) and resume.
	dup := false
	for _, c := range *store {
		if formula.EqualLiteral(c, lit, e.bind) {
			dup = true
			break
		}
	}
	if !dup {
		*store = append(*store, lit)
	}
	return e.proceed(br, depth, k)
}

// addEqual establishes the equality literal l = r. Non-unifiable sides
// contradict the unique-names assumption and close immediately; already
// identical sides are a tautology. Otherwise there is a choice: forbid
// the unifying binding forever and close, or perform it and stay open.
func (e *Expander) addEqual(br *branch, l, r *term.Term, depth int, k closeFn) bool {
	ok, ground := term.Unifiable(l, r, e.bind)
	if !ok {
		// Rigid terms: distinct non-unifiable terms denote distinct
		// individuals, so asserting their equality is a contradiction.
		e.stats.Closures++
		e.traceStep("close/rigid", formula.Eq(l, r), depth)
		return k(br.diseqs)
	}
	if ground {
		return e.proceed(br, depth, k)
	}

	// Closing alternative first: declare the only witness binding
	// forbidden and close this literal's evaluation.
	e.traceStep("close/forbid", formula.Eq(l, r), depth)
	if k(br.withDiseq(l, r, e.bind)) {
		return true
	}

	// Open alternative: perform the binding.
	mark := e.bind.Mark()
	if term.Unify(l, r, e.bind) {
		if pruned, ok := e.rescanDiseqs(br.diseqs); ok {
			saved := br.diseqs
			br.diseqs = pruned
			if e.proceed(br, depth, k) {
				return true
			}
			br.diseqs = saved
		}
	}
	e.bind.Undo(mark)
	return false
}

// addNotEqual establishes the negated equality l != r, the dual of
// addEqual: performing the unifying binding contradicts the asserted
// inequality and closes, while declining records the pair as a permanent
// disequality and stays open.
func (e *Expander) addNotEqual(br *branch, l, r *term.Term, depth int, k closeFn) bool {
	ok, ground := term.Unifiable(l, r, e.bind)
	if !ok {
		// Never equal: the inequality is trivially true.
		return e.proceed(br, depth, k)
	}
	if ground {
		// Already identical: the inequality is a contradiction.
		e.stats.Closures++
		e.traceStep("close/identical", formula.Neq(l, r), depth)
		return k(br.diseqs)
	}

	// Closing alternative first: perform the binding.
	mark := e.bind.Mark()
	if term.Unify(l, r, e.bind) {
		if pruned, ok := e.rescanDiseqs(br.diseqs); ok {
			saved := br.diseqs
			br.diseqs = pruned
			e.stats.Closures++
			e.traceStep("close/bind", formula.Neq(l, r), depth)
			if k(br.diseqs) {
				return true
			}
			br.diseqs = saved
		}
	}
	e.bind.Undo(mark)

	// Open alternative: the pair must never unify from here on.
	saved := br.diseqs
	br.diseqs = br.withDiseq(l, r, e.bind)
	if e.proceed(br, depth, k) {
		return true
	}
	br.diseqs = saved
	return false
}

// unifyArgs unifies the argument lists of two same-shaped literals under
// the veto hook. Partial bindings on failure are the caller's to undo.
func (e *Expander) unifyArgs(a, b *formula.Formula) bool {
	for i := range a.Args {
		if !term.Unify(a.Args[i], b.Args[i], e.bind) {
			return false
		}
	}
	return true
}

// rescanDiseqs re-checks every disequality obligation after a successful
// binding. Pairs forced equal fail the whole binding step; pairs that can
// no longer unify are trivially satisfied forever and pruned; the rest
// stay as active obligations.
func (e *Expander) rescanDiseqs(ds []disequality) ([]disequality, bool) {
	out := make([]disequality, 0, len(ds))
	for _, d := range ds {
		ok, ground := term.Unifiable(d.left, d.right, e.bind)
		if ground {
			return nil, false
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, true
}
