package tree

// Union returns the points in a or b. When either side is empty the other
// is returned as is.
func Union(a, b *Node) *Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	l, overlap, r := Split(a, b.rng)
	k := b.rng
	if overlap != nil {
		k = k.Union(*overlap)
	}
	return join(Union(l, b.left), k, Union(r, b.right))
}

// Intersect returns the points in both a and b.
func Intersect(a, b *Node) *Node {
	if a == nil || b == nil {
		return nil
	}
	l, overlap, r := Split(a, b.rng)
	var mid *Node
	if overlap != nil {
		mid = Slice(a, b.rng)
	}
	return Join2(Join2(Intersect(l, b.left), mid), Intersect(r, b.right))
}

// Difference returns the points in a that are not in b.
func Difference(a, b *Node) *Node {
	if a == nil {
		return nil
	}
	if b == nil {
		return a
	}
	l, _, r := Split(a, b.rng)
	return Join2(Difference(l, b.left), Difference(r, b.right))
}

// Invert returns the points of domain that are not in t.
func Invert(t *Node, domain Range) *Node {
	return Difference(Singleton(domain), t)
}
