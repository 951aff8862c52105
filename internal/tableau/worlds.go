package tableau

import (
	"knower/internal/formula"
	"knower/internal/term"
)

// expandWorlds enumerates the modally accessible sub-worlds of the
// branch. Each possibility entry seeds a world with its formula, every
// necessity formula recorded for the same agent, and a freshly renamed
// copy of the global axioms. Agents carrying necessity entries but no
// possibility get a serial world (seriality: some accessible world always
// exists) holding just their necessity set plus the axioms.
//
// Any closing sub-world closes the parent branch: a necessity obligation
// must hold in every accessible world, so a single inconsistent one
// refutes the claim that produced it.
func (e *Expander) expandWorlds(br *branch, depth int, k closeFn) bool {
	for _, po := range br.possibility {
		if e.err != nil {
			return false
		}
		wb := e.newWorld(br, po.agent, po.f)
		e.stats.SubWorlds++
		e.traceStep("world", po.f, depth)
		if e.proceed(wb, depth-1, func(n []disequality) bool {
			return k(mergeDiseqs(br.diseqs, n, e.bind))
		}) {
			return true
		}
	}

	seen := make(map[string]bool, len(br.possibility))
	for _, po := range br.possibility {
		seen[po.agent] = true
	}
	for _, ne := range br.necessity {
		if seen[ne.agent] {
			continue
		}
		seen[ne.agent] = true
		if e.err != nil {
			return false
		}
		wb := e.newWorld(br, ne.agent, nil)
		e.stats.SubWorlds++
		e.traceStep("world/serial", ne.f, depth)
		if e.proceed(wb, depth-1, func(n []disequality) bool {
			return k(mergeDiseqs(br.diseqs, n, e.bind))
		}) {
			return true
		}
	}
	return false
}

// newWorld builds a sub-world branch from empty state. The seed formula
// and the agent's necessity formulas share one renaming map so variables
// they co-refer to stay shared; variables already bound keep their
// identity (they belong to the enclosing context, not to the template).
// The parent's disequality obligations carry over: bindings are global,
// so a unification inside the world must still respect them.
func (e *Expander) newWorld(br *branch, agent string, seed *formula.Formula) *branch {
	wb := &branch{
		axioms:   br.axioms,
		diseqs:   append([]disequality(nil), br.diseqs...),
		freeVars: make(map[term.VarID]bool),
	}

	eligible := make(map[term.VarID]bool, len(br.freeVars))
	for id := range br.freeVars {
		if !e.bind.Bound(id) {
			eligible[id] = true
		}
	}
	renaming := make(map[term.VarID]*term.Term)

	// Pushed in reverse so the worklist pops axioms first, then the
	// necessity set, then the seed: theory literals are on the branch
	// before the seed decomposes against them, as at the root.
	var renamed []*formula.Formula
	for _, ax := range br.axioms {
		renamed = append(renamed, formula.Rename(ax, eligible, renaming))
	}
	for _, ne := range br.necessity {
		if ne.agent == agent {
			renamed = append(renamed, formula.Rename(ne.f, eligible, renaming))
		}
	}
	if seed != nil {
		renamed = append(renamed, formula.Rename(seed, eligible, renaming))
	}
	for i := len(renamed) - 1; i >= 0; i-- {
		wb.push(renamed[i])
	}

	for _, fresh := range renaming {
		wb.freeVars[fresh.ID] = true
	}
	return wb
}
