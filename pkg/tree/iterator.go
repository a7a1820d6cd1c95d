package tree

import "iter"

// Iterator walks the ranges of a tree in ascending order. It keeps an
// explicit stack of pending ancestors instead of recursing.
type Iterator struct {
	stack []*Node
	cur   *Node
}

// Iterate returns an iterator positioned before the first range of t.
// Calling Iterate again restarts the walk.
func Iterate(t *Node) *Iterator {
	it := &Iterator{stack: make([]*Node, 0, t.Height())}
	it.pushLeft(t)
	return it
}

// Next advances to the next range. It returns false once the walk is done.
func (it *Iterator) Next() bool {
	n := len(it.stack)
	if n == 0 {
		it.cur = nil
		return false
	}
	it.cur = it.stack[n-1]
	it.stack = it.stack[:n-1]
	it.pushLeft(it.cur.right)
	return true
}

// Range returns the current range. It is only valid after Next returned true.
func (it *Iterator) Range() Range { return it.cur.rng }

func (it *Iterator) pushLeft(n *Node) {
	for ; n != nil; n = n.left {
		it.stack = append(it.stack, n)
	}
}

// All returns the ranges of t in ascending order.
func All(t *Node) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for it := Iterate(t); it.Next(); {
			if !yield(it.Range()) {
				return
			}
		}
	}
}

// Ranges returns the ranges of t in ascending order.
func Ranges(t *Node) []Range {
	out := make([]Range, 0, Count(t))
	for it := Iterate(t); it.Next(); {
		out = append(out, it.Range())
	}
	return out
}
