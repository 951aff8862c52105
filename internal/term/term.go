// Package term implements the first-order term language of the prover:
// variables, constants, and compound terms, together with the global
// substitution (bindings) and unification with occurs-check.
//
// Terms are immutable once constructed. Variable bindings live in a
// Bindings value owned by a single proof attempt and are resolved by
// walking, never by destructive update of the term itself.
package term

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Kind discriminates the term variants.
type Kind int

const (
	KindVar Kind = iota
	KindConst
	KindCompound
)

// VarID identifies a prover variable. IDs are unique for the lifetime of
// the process so that distinct proof attempts can never alias variables.
type VarID int64

var varSeq atomic.Int64

// Term is a variable, a constant symbol, or a functor applied to an
// ordered sequence of argument terms.
type Term struct {
	Kind    Kind
	ID      VarID   // variable identity (KindVar only)
	Name    string  // variable display name, constant symbol, or functor
	Args    []*Term // compound arguments (KindCompound only)
}

// NewVar creates a fresh variable with the given display name.
func NewVar(name string) *Term {
	return &Term{Kind: KindVar, ID: VarID(varSeq.Add(1)), Name: name}
}

// Const creates a constant symbol term.
func Const(name string) *Term {
	return &Term{Kind: KindConst, Name: name}
}

// Compound creates a functor applied to the given arguments.
// A functor with no arguments is a constant.
func Compound(functor string, args ...*Term) *Term {
	if len(args) == 0 {
		return Const(functor)
	}
	return &Term{Kind: KindCompound, Name: functor, Args: args}
}

// IsVar reports whether t is a variable.
func (t *Term) IsVar() bool { return t.Kind == KindVar }

// String renders the term in Prolog-like notation. Variables print as
// Name_ID so that distinct variables sharing a display name stay apart.
func (t *Term) String() string {
	switch t.Kind {
	case KindVar:
		return fmt.Sprintf("%s_%d", t.Name, t.ID)
	case KindConst:
		return t.Name
	case KindCompound:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
	default:
		return "?"
	}
}

// CollectVars adds the IDs of all variables occurring in t to set.
func (t *Term) CollectVars(set map[VarID]bool) {
	switch t.Kind {
	case KindVar:
		set[t.ID] = true
	case KindCompound:
		for _, a := range t.Args {
			a.CollectVars(set)
		}
	}
}

// SortedVars returns the variable IDs in t in ascending order.
// Used by tests and trace output for deterministic reporting.
func (t *Term) SortedVars() []VarID {
	set := make(map[VarID]bool)
	t.CollectVars(set)
	ids := make([]VarID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Rename deep-copies t, replacing every variable whose ID is in eligible
// with a fresh variable. The renaming map records replacements so that
// co-referring occurrences (and sibling formulas copied with the same map)
// share the same fresh variable. Variables outside eligible keep their
// identity, preserving any binding they carry in the enclosing context.
func Rename(t *Term, eligible map[VarID]bool, renaming map[VarID]*Term) *Term {
	switch t.Kind {
	case KindVar:
		if !eligible[t.ID] {
			return t
		}
		if fresh, ok := renaming[t.ID]; ok {
			return fresh
		}
		fresh := NewVar(t.Name)
		renaming[t.ID] = fresh
		return fresh
	case KindCompound:
		args := make([]*Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = Rename(a, eligible, renaming)
		}
		return &Term{Kind: KindCompound, Name: t.Name, Args: args}
	default:
		return t
	}
}

// Subst deep-copies t, replacing every occurrence of the variable id with
// replacement. Used for quantifier instantiation.
func Subst(t *Term, id VarID, replacement *Term) *Term {
	switch t.Kind {
	case KindVar:
		if t.ID == id {
			return replacement
		}
		return t
	case KindCompound:
		args := make([]*Term, len(t.Args))
		for i, a := range t.Args {
			args[i] = Subst(a, id, replacement)
		}
		return &Term{Kind: KindCompound, Name: t.Name, Args: args}
	default:
		return t
	}
}
