package term

// BindHook is consulted before a variable binding is committed to the
// trail. Returning false rejects the binding and fails the enclosing
// unification. The tableau layer installs its instantiation-veto check
// here; probes (admissibility tests that are always undone) run with the
// hook suspended.
type BindHook func(v VarID, value *Term) bool

// Bindings is the global substitution for one proof attempt: a map from
// variable ID to term plus an explicit trail so that backtracking can
// undo everything bound since a choice point.
type Bindings struct {
	vals  map[VarID]*Term
	trail []VarID
	hook  BindHook
}

// NewBindings creates an empty substitution.
func NewBindings() *Bindings {
	return &Bindings{vals: make(map[VarID]*Term)}
}

// SetHook installs the binding hook. A nil hook accepts every binding.
func (b *Bindings) SetHook(h BindHook) { b.hook = h }

// Mark returns the current trail position for later rollback.
func (b *Bindings) Mark() int { return len(b.trail) }

// Undo unbinds every variable bound since mark.
func (b *Bindings) Undo(mark int) {
	for i := len(b.trail) - 1; i >= mark; i-- {
		delete(b.vals, b.trail[i])
	}
	b.trail = b.trail[:mark]
}

// Bound reports whether the variable currently has a binding.
func (b *Bindings) Bound(id VarID) bool {
	_, ok := b.vals[id]
	return ok
}

// Lookup returns the direct binding of the variable, if any.
func (b *Bindings) Lookup(id VarID) (*Term, bool) {
	t, ok := b.vals[id]
	return t, ok
}

// Walk chases variable bindings one level at a time until it reaches an
// unbound variable or a non-variable term.
func (b *Bindings) Walk(t *Term) *Term {
	for t.IsVar() {
		next, ok := b.vals[t.ID]
		if !ok {
			return t
		}
		t = next
	}
	return t
}

// Resolve returns t with every bound variable replaced by its value,
// recursively. The result contains only unbound variables.
func (b *Bindings) Resolve(t *Term) *Term {
	t = b.Walk(t)
	if t.Kind != KindCompound {
		return t
	}
	args := make([]*Term, len(t.Args))
	changed := false
	for i, a := range t.Args {
		args[i] = b.Resolve(a)
		if args[i] != a {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return &Term{Kind: KindCompound, Name: t.Name, Args: args}
}

// bind commits a variable binding after consulting the hook.
func (b *Bindings) bind(id VarID, value *Term) bool {
	if b.hook != nil && !b.hook(id, value) {
		return false
	}
	b.vals[id] = value
	b.trail = append(b.trail, id)
	return true
}

// suspendHook removes the hook and returns a func restoring it.
func (b *Bindings) suspendHook() func() {
	h := b.hook
	b.hook = nil
	return func() { b.hook = h }
}
