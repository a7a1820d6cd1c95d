// Package tree implements a persistent AVL tree of disjoint integer ranges.
//
// Every stored range is separated from its neighbours by at least one
// integer: overlapping or adjacent ranges are always merged. All operations
// are built from Split and Join and never modify their operands, so the
// result of an operation may share subtrees with its inputs.
package tree

// Join returns a balanced tree holding everything in l, then k, then
// everything in r. The maximum of l must lie below k and k below the minimum
// of r; ranges touching k are merged into it. A nil k joins l and r directly.
func Join(l *Node, k *Range, r *Node) *Node {
	if k == nil {
		return Join2(l, r)
	}
	return join(l, *k, r)
}

// Join2 concatenates l and r, where the maximum of l lies below the minimum
// of r. The rightmost range of l becomes the new separating range.
func Join2(l, r *Node) *Node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	rest, k := splitLast(l)
	return join(rest, k, r)
}

func join(l *Node, k Range, r *Node) *Node {
	for {
		if l != nil && touches(l.Max(), k.start) {
			var last Range
			l, last = splitLast(l)
			k = span(last.start, k.end)
			continue
		}
		if r != nil && touches(k.end, r.Min()) {
			var first Range
			r, first = splitFirst(r)
			k = span(k.start, first.end)
			continue
		}
		break
	}

	switch {
	case l.Height() > r.Height()+1:
		return joinRight(l, k, r)
	case r.Height() > l.Height()+1:
		return joinLeft(l, k, r)
	}
	return newNode(l, k, r)
}

// joinRight descends the right spine of the taller l until it finds a
// subtree small enough to hang k and r from.
func joinRight(l *Node, k Range, r *Node) *Node {
	c := l.right
	if c.Height() <= r.Height()+1 {
		t := newNode(c, k, r)
		if t.Height() <= l.left.Height()+1 {
			return newNode(l.left, l.rng, t)
		}
		return rotateLeft(newNode(l.left, l.rng, rotateRight(t)))
	}
	t := joinRight(c, k, r)
	n := newNode(l.left, l.rng, t)
	if t.Height() <= l.left.Height()+1 {
		return n
	}
	return rotateLeft(n)
}

func joinLeft(l *Node, k Range, r *Node) *Node {
	c := r.left
	if c.Height() <= l.Height()+1 {
		t := newNode(l, k, c)
		if t.Height() <= r.right.Height()+1 {
			return newNode(t, r.rng, r.right)
		}
		return rotateRight(newNode(rotateLeft(t), r.rng, r.right))
	}
	t := joinLeft(l, k, c)
	n := newNode(t, r.rng, r.right)
	if t.Height() <= r.right.Height()+1 {
		return n
	}
	return rotateRight(n)
}

// splitLast removes the rightmost range of a non-empty tree.
func splitLast(t *Node) (*Node, Range) {
	if t.right == nil {
		return t.left, t.rng
	}
	rest, k := splitLast(t.right)
	return join(t.left, t.rng, rest), k
}

// splitFirst removes the leftmost range of a non-empty tree.
func splitFirst(t *Node) (*Node, Range) {
	if t.left == nil {
		return t.right, t.rng
	}
	rest, k := splitFirst(t.left)
	return join(rest, t.rng, t.right), k
}

// Split partitions t around k. l holds every point of t below k.start and r
// every point above k.end; a stored range straddling a bound of k is cut
// there. overlap is the smallest range covering all points of t inside k,
// or nil when t has none.
func Split(t *Node, k Range) (l *Node, overlap *Range, r *Node) {
	if t == nil {
		return nil, nil, nil
	}
	m := t.rng
	if k.end < m.start {
		l, overlap, r = Split(t.left, k)
		return l, overlap, join(r, m, t.right)
	}
	if k.start > m.end {
		l, overlap, r = Split(t.right, k)
		return join(t.left, m, l), overlap, r
	}
	if k.start <= t.Min() && t.Max() <= k.end {
		hull := span(t.Min(), t.Max())
		return nil, &hull, nil
	}

	// m overlaps k: the left subtree lies entirely below k.end and the right
	// subtree entirely above k.start.
	l, lo, _ := Split(t.left, k)
	_, hi, r := Split(t.right, k)
	if m.start < k.start {
		l = join(l, span(m.start, k.start-1), nil)
	}
	if m.end > k.end {
		r = join(nil, span(k.end+1, m.end), r)
	}
	hull := span(max(m.start, k.start), min(m.end, k.end))
	if lo != nil {
		hull.start = lo.start
	}
	if hi != nil {
		hull.end = hi.end
	}
	return l, &hull, r
}

// Slice returns the points of t that lie within k.
func Slice(t *Node, k Range) *Node {
	_, lo, above := Split(t, RangeOf(k.start))
	if lo != nil {
		above = join(nil, *lo, above)
	}
	below, hi, _ := Split(above, RangeOf(k.end))
	if hi != nil {
		below = join(below, *hi, nil)
	}
	return below
}

// Insert adds every point of k to t. t is returned as is when it already
// holds all of k.
func Insert(t *Node, k Range) *Node {
	if n := find(t, k.start); n != nil && n.rng.Covers(k) {
		return t
	}
	l, _, r := Split(t, k)
	return join(l, k, r)
}

// Remove deletes every point of k from t, bisecting a stored range when k
// falls strictly inside it. t is returned as is when it holds no point of k.
func Remove(t *Node, k Range) *Node {
	if !intersects(t, k) {
		return t
	}
	l, _, r := Split(t, k)
	return Join2(l, r)
}

// Search reports whether p is in t.
func Search(t *Node, p int) bool { return find(t, p) != nil }

// Find returns the stored range holding p.
func Find(t *Node, p int) (Range, bool) {
	n := find(t, p)
	if n == nil {
		return Range{}, false
	}
	return n.rng, true
}

func find(t *Node, p int) *Node {
	for t != nil {
		switch {
		case p < t.rng.start:
			t = t.left
		case p > t.rng.end:
			t = t.right
		default:
			return t
		}
	}
	return nil
}

// intersects reports whether any stored range overlaps k.
func intersects(t *Node, k Range) bool {
	for t != nil {
		switch {
		case k.end < t.rng.start:
			t = t.left
		case k.start > t.rng.end:
			t = t.right
		default:
			return true
		}
	}
	return false
}

// Count returns the number of ranges stored in t.
func Count(t *Node) int {
	if t == nil {
		return 0
	}
	return 1 + Count(t.left) + Count(t.right)
}

// Cardinality returns the number of points covered by t.
func Cardinality(t *Node) int {
	if t == nil {
		return 0
	}
	return t.rng.Len() + Cardinality(t.left) + Cardinality(t.right)
}
