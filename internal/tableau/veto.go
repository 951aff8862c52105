package tableau

import (
	"knower/internal/term"
)

// vetoTable tracks the provenance of instantiation variables: which
// universal template (by marker) and which bound-variable slot each fresh
// variable came from. Binding an instantiation variable to a value
// already taken by a sibling instantiation of the same slot would make
// the instance logically redundant, so such bindings are rejected.
//
// The table is global to a proof attempt, like the bindings it guards.
type vetoTable struct {
	// siblings groups instantiation variables by (template marker,
	// bound-variable slot); every member vetoes every other member.
	siblings map[slotKey][]term.VarID
	// slotOf maps an instantiation variable back to its slot.
	slotOf map[term.VarID]slotKey
}

type slotKey struct {
	marker term.VarID
	slot   term.VarID
}

func newVetoTable() *vetoTable {
	return &vetoTable{
		siblings: make(map[slotKey][]term.VarID),
		slotOf:   make(map[term.VarID]slotKey),
	}
}

// register records a fresh instantiation variable for the given template
// marker and bound-variable slot.
func (v *vetoTable) register(marker, slot, fresh term.VarID) {
	key := slotKey{marker: marker, slot: slot}
	v.siblings[key] = append(v.siblings[key], fresh)
	v.slotOf[fresh] = key
}

// hook returns the BindHook enforcing the veto against the given
// bindings. The check is symmetric over the slot's members: whichever
// sibling binds second is the one rejected.
func (v *vetoTable) hook(bind *term.Bindings) term.BindHook {
	return func(id term.VarID, value *term.Term) bool {
		key, ok := v.slotOf[id]
		if !ok {
			return true
		}
		for _, sib := range v.siblings[key] {
			if sib == id {
				continue
			}
			bound, ok := bind.Lookup(sib)
			if !ok {
				continue
			}
			if term.Equal(bound, value, bind) {
				return false
			}
		}
		return true
	}
}
