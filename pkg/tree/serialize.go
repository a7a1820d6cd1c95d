package tree

import (
	"fmt"
	"math"
)

// Unbounded accepts every valid range, MinPoint to MaxPoint.
var Unbounded = Range{start: MinPoint, end: MaxPoint}

// Serialize flattens t into ascending (start, size) pairs.
func Serialize(t *Node) []int {
	flat := make([]int, 0, 2*Count(t))
	for it := Iterate(t); it.Next(); {
		flat = append(flat, it.Range().start, it.Range().Size())
	}
	return flat
}

// Deserialize builds a balanced tree from ascending (start, size) pairs
// without any rotations. The ranges must lie within bounds and each must be
// separated from its predecessor by at least one integer.
func Deserialize(flat []int, bounds Range) (*Node, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d values", ErrOddLength, len(flat))
	}
	d := decoder{flat: flat, bounds: bounds}
	return d.build(0, len(flat)/2-1)
}

type decoder struct {
	flat   []int
	bounds Range
}

// build constructs the subtree for pairs lo..hi around their median. Each
// pair is checked against its predecessor when it is visited, so every
// neighbouring pair is validated before the node joining them is made.
func (d *decoder) build(lo, hi int) (*Node, error) {
	if hi < lo {
		return nil, nil
	}
	mid := lo + (hi-lo)/2
	r, err := d.rangeAt(mid)
	if err != nil {
		return nil, err
	}
	if mid > 0 {
		prev, err := d.rangeAt(mid - 1)
		if err != nil {
			return nil, err
		}
		if !separated(prev.end, r.start) {
			return nil, fmt.Errorf("%w: %s at pair %d does not follow %s", ErrUnordered, r, mid, prev)
		}
	}
	left, err := d.build(lo, mid-1)
	if err != nil {
		return nil, err
	}
	right, err := d.build(mid+1, hi)
	if err != nil {
		return nil, err
	}
	return newNode(left, r, right), nil
}

func (d *decoder) rangeAt(i int) (Range, error) {
	start, size := d.flat[2*i], d.flat[2*i+1]
	if size < 0 {
		return Range{}, fmt.Errorf("%w: negative length %d at pair %d", ErrInvalidRange, size, i)
	}
	if start > math.MaxInt-size {
		return Range{}, fmt.Errorf("%w: pair %d overflows", ErrOutOfBounds, i)
	}
	r := span(start, start+size)
	if !d.bounds.Covers(r) {
		return Range{}, fmt.Errorf("%w: %s is outside %s", ErrOutOfBounds, r, d.bounds)
	}
	return r, nil
}
