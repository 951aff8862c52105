// Package tableau implements the refutation tableau for the epistemic
// first-order modal logic: branch state, the recursive expansion engine,
// unification-based equality reasoning under the unique-names assumption,
// sub-world dispatch for the knowledge modality, and the instantiation
// veto that suppresses redundant universal instances.
package tableau

import (
	"knower/internal/formula"
	"knower/internal/term"
)

// disequality is an unordered pair of terms forbidden from ever unifying
// for the remainder of the proof attempt.
type disequality struct {
	left  *term.Term
	right *term.Term
}

// obligation pairs an agent with a formula recorded for modal dispatch:
// necessity entries hold in every world the agent considers possible,
// possibility entries assert some accessible world where the formula
// holds.
type obligation struct {
	agent string
	f     *formula.Formula
}

// universal is a quantified-formula template retained for repeated fresh
// instantiation, keyed by the quantifier's marker. instVars records every
// instantiation variable produced so far; once all of them are bound the
// template is used up and warrants a fresh instance.
type universal struct {
	marker   term.VarID
	template *formula.Formula
	instVars []term.VarID
}

func (u *universal) usedUp(bind *term.Bindings) bool {
	if len(u.instVars) == 0 {
		return false
	}
	for _, id := range u.instVars {
		if !bind.Bound(id) {
			return false
		}
	}
	return true
}

// branch is the tableau record for one line of the case-split tree. All
// fields are owned by the current branch; sibling branches get clones,
// while variable bindings stay global on the expander.
type branch struct {
	worklist    []*formula.Formula
	trueLits    []*formula.Formula
	falseLits   []*formula.Formula
	diseqs      []disequality
	axioms      []*formula.Formula
	necessity   []obligation
	possibility []obligation
	universals  []*universal
	freeVars    map[term.VarID]bool
}

// newBranch creates the root branch for a proof attempt. The worklist
// pops the axioms in order before the goal, so theory literals are on
// the branch by the time the goal decomposes against them; the axioms
// are also retained for re-copying into every sub-world.
func newBranch(axioms []*formula.Formula, goal *formula.Formula) *branch {
	br := &branch{
		axioms:   axioms,
		freeVars: make(map[term.VarID]bool),
	}
	br.push(goal)
	for i := len(axioms) - 1; i >= 0; i-- {
		br.push(axioms[i])
	}
	return br
}

// clone copies the branch so a sibling can diverge. Formulas are
// immutable and shared; slices, the free-variable set, and the universal
// registry entries are copied since siblings instantiate independently.
func (b *branch) clone() *branch {
	out := &branch{
		worklist:    append([]*formula.Formula(nil), b.worklist...),
		trueLits:    append([]*formula.Formula(nil), b.trueLits...),
		falseLits:   append([]*formula.Formula(nil), b.falseLits...),
		diseqs:      append([]disequality(nil), b.diseqs...),
		axioms:      b.axioms,
		necessity:   append([]obligation(nil), b.necessity...),
		possibility: append([]obligation(nil), b.possibility...),
		universals:  make([]*universal, len(b.universals)),
		freeVars:    make(map[term.VarID]bool, len(b.freeVars)),
	}
	for i, u := range b.universals {
		out.universals[i] = &universal{
			marker:   u.marker,
			template: u.template,
			instVars: append([]term.VarID(nil), u.instVars...),
		}
	}
	for id := range b.freeVars {
		out.freeVars[id] = true
	}
	return out
}

// push queues a formula for later expansion on this branch.
func (b *branch) push(f *formula.Formula) {
	b.worklist = append(b.worklist, f)
}

// pop removes and returns the most recently queued formula.
func (b *branch) pop() *formula.Formula {
	n := len(b.worklist) - 1
	f := b.worklist[n]
	b.worklist = b.worklist[:n]
	return f
}

// universalFor returns the registry entry for the template's marker,
// creating one on first sight. A partially instantiated universal shares
// its outer template's marker, so nested instantiations append to the
// entry created for the outermost form.
func (b *branch) universalFor(f *formula.Formula) *universal {
	for _, u := range b.universals {
		if u.marker == f.Marker {
			return u
		}
	}
	u := &universal{marker: f.Marker, template: f}
	b.universals = append(b.universals, u)
	return u
}

// refreshUniversals queues a fresh instance of every used-up template and
// reports whether anything was queued.
func (b *branch) refreshUniversals(bind *term.Bindings) bool {
	queued := false
	for _, u := range b.universals {
		if u.usedUp(bind) {
			b.push(u.template)
			queued = true
		}
	}
	return queued
}

// hasDiseq reports whether the pair is already recorded, in either
// orientation.
func (b *branch) hasDiseq(l, r *term.Term, bind *term.Bindings) bool {
	for _, d := range b.diseqs {
		if term.Equal(d.left, l, bind) && term.Equal(d.right, r, bind) {
			return true
		}
		if term.Equal(d.left, r, bind) && term.Equal(d.right, l, bind) {
			return true
		}
	}
	return false
}

// withDiseq returns the branch's obligations extended by (l, r),
// deduplicated. The receiver's slice is not mutated.
func (b *branch) withDiseq(l, r *term.Term, bind *term.Bindings) []disequality {
	if b.hasDiseq(l, r, bind) {
		return b.diseqs
	}
	out := make([]disequality, len(b.diseqs), len(b.diseqs)+1)
	copy(out, b.diseqs)
	return append(out, disequality{left: l, right: r})
}

// mergeDiseqs unions two obligation sets, deduplicating by structural
// identity under the current bindings.
func mergeDiseqs(a, b []disequality, bind *term.Bindings) []disequality {
	out := append([]disequality(nil), a...)
	for _, d := range b {
		dup := false
		for _, e := range out {
			if (term.Equal(e.left, d.left, bind) && term.Equal(e.right, d.right, bind)) ||
				(term.Equal(e.left, d.right, bind) && term.Equal(e.right, d.left, bind)) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	return out
}
