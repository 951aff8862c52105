package formula

// Rewrite performs exactly one structural rewrite of a derived connective
// toward the primitive set, returning (rewritten, true), or (f, false)
// when f is already primitive. The rewrites are purely syntactic:
//
//	~~X          -> X
//	X => Y       -> ~X | Y
//	X <=> Y      -> (X & Y) | (~X & ~Y)
//	~(X & Y)     -> ~X | ~Y
//	~(X | Y)     -> ~X & ~Y
//	~(X => Y)    -> X & ~Y
//	~(X <=> Y)   -> (~X | ~Y) & (X | Y)
//	~exists V: P -> forall V: ~P
//
// A bare positive existential and its negated-universal dual are not
// rewritten here; the expansion engine reports them as usage errors.
func Rewrite(f *Formula) (*Formula, bool) {
	switch f.Kind {
	case KindImplies:
		return Or(Not(f.Left), f.Right), true
	case KindIff:
		return Or(And(f.Left, f.Right), And(Not(f.Left), Not(f.Right))), true
	case KindNot:
		g := f.Sub
		switch g.Kind {
		case KindNot:
			return g.Sub, true
		case KindAnd:
			return Or(Not(g.Left), Not(g.Right)), true
		case KindOr:
			return And(Not(g.Left), Not(g.Right)), true
		case KindImplies:
			return And(g.Left, Not(g.Right)), true
		case KindIff:
			return And(Or(Not(g.Left), Not(g.Right)), Or(g.Left, g.Right)), true
		case KindExists:
			return &Formula{Kind: KindForall, Vars: g.Vars, Marker: g.Marker, Sub: Not(g.Sub)}, true
		}
	}
	return f, false
}
