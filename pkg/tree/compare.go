package tree

// Equal reports whether a and b hold the same points, whatever their shape.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ai, bi := Iterate(a), Iterate(b)
	for {
		an, bn := ai.Next(), bi.Next()
		if !an || !bn {
			return an == bn
		}
		if ai.Range() != bi.Range() {
			return false
		}
	}
}

// SupersetOf reports whether every point of sub is in super. With proper
// set, super must also hold at least one point that sub does not.
func SupersetOf(super, sub *Node, proper bool) bool {
	if super == sub {
		return !proper
	}
	if super == nil {
		return false
	}
	if sub == nil {
		return true
	}

	supIt, subIt := Iterate(super), Iterate(sub)
	hasSup, hasSub := supIt.Next(), subIt.Next()
	larger := false
	for hasSup && hasSub {
		p, q := supIt.Range(), subIt.Range()
		switch {
		case p == q:
			hasSup, hasSub = supIt.Next(), subIt.Next()
		case p.end < q.start:
			larger = true
			hasSup = supIt.Next()
		case p.Covers(q):
			larger = true
			hasSub = subIt.Next()
		default:
			return false
		}
	}
	if hasSub {
		return false
	}
	if hasSup {
		larger = true
	}
	return !proper || larger
}

// SubsetOf reports whether every point of sub is in super.
func SubsetOf(sub, super *Node, proper bool) bool {
	return SupersetOf(super, sub, proper)
}
