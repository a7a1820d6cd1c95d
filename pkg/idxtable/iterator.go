package idxtable

import "github.com/henderiw/rangetree/pkg/tree"

// Iterator walks the ids of a range tree one by one.
type Iterator[T1 any] struct {
	ranges  *tree.Iterator
	cur     tree.Range
	id      int64
	prev    int64
	started bool
	hasPrev bool
	value   func(id int64) T1
}

func newIterator[T1 any](ids *tree.Node, value func(id int64) T1) *Iterator[T1] {
	return &Iterator[T1]{ranges: tree.Iterate(ids), value: value}
}

func (r *Iterator[T1]) Value() T1 {
	return r.value(r.id)
}

func (r *Iterator[T1]) ID() int64 {
	return r.id
}

func (r *Iterator[T1]) Entry() Entry[T1] {
	return NewEntry(r.id, r.Value())
}

func (r *Iterator[T1]) Next() bool {
	if r.started && r.id < int64(r.cur.End()) {
		r.prev, r.hasPrev = r.id, true
		r.id++
		return true
	}
	if !r.ranges.Next() {
		return false
	}
	if r.started {
		r.prev, r.hasPrev = r.id, true
	}
	r.cur = r.ranges.Range()
	r.id = int64(r.cur.Start())
	r.started = true
	return true
}

// IsConsecutive reports whether the current id directly follows the
// previous one.
func (r *Iterator[T1]) IsConsecutive() bool {
	return r.hasPrev && r.prev == r.id-1
}
