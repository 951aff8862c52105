// Package formula defines the formula language of the prover and its
// normalization toward the primitive connective set used by the tableau:
// literals, negated literals, conjunction, disjunction, bounded universal
// quantification, and the per-agent knowledge modality.
//
// Formulas are immutable. Quantifiers carry a prover-introduced marker
// variable used purely to key the universal-template registry; it is
// never unified into the logical content.
package formula

import (
	"fmt"
	"strings"

	"knower/internal/term"
)

// Kind discriminates the formula variants.
type Kind int

const (
	KindTrue Kind = iota
	KindFalse
	KindLiteral
	KindEqual
	KindNot
	KindAnd
	KindOr
	KindImplies
	KindIff
	KindForall
	KindExists
	KindKnows
)

// Formula is a node of the immutable formula tree. Which fields are
// populated depends on Kind:
//
//	Literal:        Pred, Args
//	Equal:          Args[0], Args[1]
//	Not:            Sub
//	And/Or/Implies/Iff: Left, Right
//	Forall/Exists:  Vars, Marker, Sub
//	Knows:          Agent, Sub
type Formula struct {
	Kind   Kind
	Pred   string       // predicate symbol
	Args   []*term.Term // literal arguments / equality sides
	Left   *Formula
	Right  *Formula
	Sub    *Formula
	Vars   []*term.Term // quantifier-bound variables
	Marker term.VarID   // quantifier bookkeeping marker
	Agent  string
}

// True is the trivially valid formula.
func True() *Formula { return &Formula{Kind: KindTrue} }

// False is the trivially contradictory formula.
func False() *Formula { return &Formula{Kind: KindFalse} }

// Lit builds the literal pred(args...).
func Lit(pred string, args ...*term.Term) *Formula {
	return &Formula{Kind: KindLiteral, Pred: pred, Args: args}
}

// Eq builds the equality literal l = r.
func Eq(l, r *term.Term) *Formula {
	return &Formula{Kind: KindEqual, Args: []*term.Term{l, r}}
}

// Neq builds the negated equality l != r.
func Neq(l, r *term.Term) *Formula { return Not(Eq(l, r)) }

// Not negates a formula.
func Not(f *Formula) *Formula { return &Formula{Kind: KindNot, Sub: f} }

// And conjoins two formulas.
func And(l, r *Formula) *Formula { return &Formula{Kind: KindAnd, Left: l, Right: r} }

// Or disjoins two formulas.
func Or(l, r *Formula) *Formula { return &Formula{Kind: KindOr, Left: l, Right: r} }

// Implies builds the implication l => r.
func Implies(l, r *Formula) *Formula { return &Formula{Kind: KindImplies, Left: l, Right: r} }

// Iff builds the biconditional l <=> r.
func Iff(l, r *Formula) *Formula { return &Formula{Kind: KindIff, Left: l, Right: r} }

// Forall universally quantifies vars over body. Each construction gets a
// fresh marker so distinct occurrences register as distinct templates.
func Forall(vars []*term.Term, body *Formula) *Formula {
	return &Formula{Kind: KindForall, Vars: vars, Marker: term.NewVar("#u").ID, Sub: body}
}

// ForallWith rebuilds a partially instantiated universal keeping the
// template's marker, so nested instantiations append to the same
// registry entry.
func ForallWith(vars []*term.Term, marker term.VarID, body *Formula) *Formula {
	return &Formula{Kind: KindForall, Vars: vars, Marker: marker, Sub: body}
}

// Exists existentially quantifies vars over body. A positive existential
// is only ever legal under a negation; the expansion engine rejects it
// anywhere else.
func Exists(vars []*term.Term, body *Formula) *Formula {
	return &Formula{Kind: KindExists, Vars: vars, Marker: term.NewVar("#e").ID, Sub: body}
}

// Knows asserts that agent knows f.
func Knows(agent string, f *Formula) *Formula {
	return &Formula{Kind: KindKnows, Agent: agent, Sub: f}
}

// IsLiteral reports whether f is a (non-equality) literal.
func (f *Formula) IsLiteral() bool { return f.Kind == KindLiteral }

// String renders the formula in the surface syntax accepted by Parse.
func (f *Formula) String() string {
	switch f.Kind {
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindLiteral:
		if len(f.Args) == 0 {
			return f.Pred
		}
		parts := make([]string, len(f.Args))
		for i, a := range f.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", f.Pred, strings.Join(parts, ", "))
	case KindEqual:
		return fmt.Sprintf("%s = %s", f.Args[0], f.Args[1])
	case KindNot:
		if f.Sub.Kind == KindEqual {
			return fmt.Sprintf("%s != %s", f.Sub.Args[0], f.Sub.Args[1])
		}
		return fmt.Sprintf("~(%s)", f.Sub)
	case KindAnd:
		return fmt.Sprintf("(%s & %s)", f.Left, f.Right)
	case KindOr:
		return fmt.Sprintf("(%s | %s)", f.Left, f.Right)
	case KindImplies:
		return fmt.Sprintf("(%s => %s)", f.Left, f.Right)
	case KindIff:
		return fmt.Sprintf("(%s <=> %s)", f.Left, f.Right)
	case KindForall:
		return fmt.Sprintf("forall %s: %s", varList(f.Vars), f.Sub)
	case KindExists:
		return fmt.Sprintf("exists %s: %s", varList(f.Vars), f.Sub)
	case KindKnows:
		return fmt.Sprintf("knows(%s, %s)", f.Agent, f.Sub)
	default:
		return "?"
	}
}

func varList(vars []*term.Term) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// EqualLiteral reports structural identity of two literal or equality
// formulas modulo the current bindings. Non-atomic formulas never compare
// equal here; the literal stores only ever hold atoms.
func EqualLiteral(a, b *Formula, bind *term.Bindings) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindLiteral:
		if a.Pred != b.Pred || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !term.Equal(a.Args[i], b.Args[i], bind) {
				return false
			}
		}
		return true
	case KindEqual:
		return term.Equal(a.Args[0], b.Args[0], bind) && term.Equal(a.Args[1], b.Args[1], bind)
	default:
		return false
	}
}

// CollectVars adds the IDs of all term variables occurring in f to set.
// Quantifier markers are bookkeeping, not content, and are excluded.
func (f *Formula) CollectVars(set map[term.VarID]bool) {
	for _, a := range f.Args {
		a.CollectVars(set)
	}
	for _, v := range f.Vars {
		v.CollectVars(set)
	}
	if f.Left != nil {
		f.Left.CollectVars(set)
	}
	if f.Right != nil {
		f.Right.CollectVars(set)
	}
	if f.Sub != nil {
		f.Sub.CollectVars(set)
	}
}

// Subst deep-copies f, replacing every occurrence of the variable id with
// replacement. Used to instantiate one quantifier-bound variable.
func Subst(f *Formula, id term.VarID, replacement *term.Term) *Formula {
	out := *f
	if len(f.Args) > 0 {
		out.Args = make([]*term.Term, len(f.Args))
		for i, a := range f.Args {
			out.Args[i] = term.Subst(a, id, replacement)
		}
	}
	if len(f.Vars) > 0 {
		out.Vars = make([]*term.Term, len(f.Vars))
		for i, v := range f.Vars {
			out.Vars[i] = term.Subst(v, id, replacement)
		}
	}
	if f.Left != nil {
		out.Left = Subst(f.Left, id, replacement)
	}
	if f.Right != nil {
		out.Right = Subst(f.Right, id, replacement)
	}
	if f.Sub != nil {
		out.Sub = Subst(f.Sub, id, replacement)
	}
	return &out
}

// Rename deep-copies f, replacing every term variable whose ID is in
// eligible with a fresh variable recorded in renaming, and giving every
// quantifier a fresh marker. Sibling formulas copied into the same
// sub-world share one renaming map so co-referring variables stay shared;
// markers are always fresh so the copy registers its own universal
// templates.
func Rename(f *Formula, eligible map[term.VarID]bool, renaming map[term.VarID]*term.Term) *Formula {
	out := *f
	if len(f.Args) > 0 {
		out.Args = make([]*term.Term, len(f.Args))
		for i, a := range f.Args {
			out.Args[i] = term.Rename(a, eligible, renaming)
		}
	}
	if len(f.Vars) > 0 {
		out.Vars = make([]*term.Term, len(f.Vars))
		for i, v := range f.Vars {
			out.Vars[i] = term.Rename(v, eligible, renaming)
		}
	}
	if f.Kind == KindForall || f.Kind == KindExists {
		out.Marker = term.NewVar("#u").ID
	}
	if f.Left != nil {
		out.Left = Rename(f.Left, eligible, renaming)
	}
	if f.Right != nil {
		out.Right = Rename(f.Right, eligible, renaming)
	}
	if f.Sub != nil {
		out.Sub = Rename(f.Sub, eligible, renaming)
	}
	return &out
}
