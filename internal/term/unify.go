package term

// Unify attempts to make x and y equal under the substitution, binding
// variables as needed. Bindings are recorded on the trail; on failure the
// caller is responsible for rolling back to its mark, since a partial
// prefix of bindings may already have been committed.
//
// The occurs-check is never skipped: the universal-instantiation loop in
// the tableau can otherwise tie a variable to a term containing itself
// and build an infinite term.
func Unify(x, y *Term, b *Bindings) bool {
	x = b.Walk(x)
	y = b.Walk(y)

	if x.IsVar() && y.IsVar() && x.ID == y.ID {
		return true
	}
	if x.IsVar() {
		if occurs(x.ID, y, b) {
			return false
		}
		return b.bind(x.ID, y)
	}
	if y.IsVar() {
		if occurs(y.ID, x, b) {
			return false
		}
		return b.bind(y.ID, x)
	}

	switch {
	case x.Kind == KindConst && y.Kind == KindConst:
		return x.Name == y.Name
	case x.Kind == KindCompound && y.Kind == KindCompound:
		if x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Unify(x.Args[i], y.Args[i], b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// occurs reports whether the variable id occurs in t under the current
// substitution.
func occurs(id VarID, t *Term, b *Bindings) bool {
	t = b.Walk(t)
	switch t.Kind {
	case KindVar:
		return t.ID == id
	case KindCompound:
		for _, a := range t.Args {
			if occurs(id, a, b) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Equal reports structural identity of x and y modulo the current
// substitution: equal with no further binding required.
func Equal(x, y *Term, b *Bindings) bool {
	x = b.Walk(x)
	y = b.Walk(y)
	switch {
	case x.IsVar() || y.IsVar():
		return x.IsVar() && y.IsVar() && x.ID == y.ID
	case x.Kind == KindConst && y.Kind == KindConst:
		return x.Name == y.Name
	case x.Kind == KindCompound && y.Kind == KindCompound:
		if x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i], b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Unifiable probes whether x and y can be unified without committing any
// binding. It reports (ok, ground): ok is unifiability, ground means the
// unification succeeds with the empty binding, i.e. the terms are already
// structurally identical. The hook is suspended for the probe.
func Unifiable(x, y *Term, b *Bindings) (ok, ground bool) {
	restore := b.suspendHook()
	defer restore()
	mark := b.Mark()
	ok = Unify(x, y, b)
	ground = ok && b.Mark() == mark
	b.Undo(mark)
	return ok, ground
}
