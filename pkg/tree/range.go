package tree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Points are limited to MinPoint..MaxPoint so that the size of any range,
// and the number of points in any tree, fits in an int.
const (
	MinPoint = -(math.MaxInt >> 1)
	MaxPoint = math.MaxInt >> 1
)

// Range is a closed interval [start, end] of integers. The zero value is
// the single point 0.
type Range struct {
	start int
	end   int
}

// NewRange returns the range [start, end]. It fails when end comes before
// start or when a bound lies outside MinPoint..MaxPoint.
func NewRange(start, end int) (Range, error) {
	if end < start {
		return Range{}, fmt.Errorf("%w: end %d comes before start %d", ErrInvalidRange, end, start)
	}
	if start < MinPoint || end > MaxPoint {
		return Range{}, fmt.Errorf("%w: %d-%d is outside %d-%d", ErrOutOfBounds, start, end, MinPoint, MaxPoint)
	}
	return Range{start: start, end: end}, nil
}

// RangeOf returns the range holding only p. It panics when p lies outside
// MinPoint..MaxPoint.
func RangeOf(p int) Range {
	if p < MinPoint || p > MaxPoint {
		panic(fmt.Errorf("%w: point %d is outside %d-%d", ErrOutOfBounds, p, MinPoint, MaxPoint))
	}
	return Range{start: p, end: p}
}

// RangeFrom is like NewRange but panics on invalid bounds. It is meant for
// bounds known at compile time.
func RangeFrom(start, end int) Range {
	r, err := NewRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

// span builds a range whose bounds are already known to be ordered.
func span(start, end int) Range { return Range{start: start, end: end} }

// ParseRange parses "a" or "a-b". A leading '-' is read as the sign of a.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty range", ErrInvalidRange)
	}
	from, to := s, s
	if h := strings.IndexByte(s[1:], '-'); h != -1 {
		from, to = s[:h+1], s[h+2:]
	}
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return Range{}, fmt.Errorf("%w: invalid start %q in range %q", ErrInvalidRange, from, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return Range{}, fmt.Errorf("%w: invalid end %q in range %q", ErrInvalidRange, to, s)
	}
	return NewRange(start, end)
}

// Start returns the lower bound of r.
func (r Range) Start() int { return r.start }

// End returns the upper bound of r.
func (r Range) End() int { return r.end }

// Size returns end - start, the length in a start/length encoding.
func (r Range) Size() int { return r.end - r.start }

// Len returns the number of points in r.
func (r Range) Len() int { return r.end - r.start + 1 }

func (r Range) String() string {
	if r.start == r.end {
		return strconv.Itoa(r.start)
	}
	return fmt.Sprintf("%d-%d", r.start, r.end)
}

func (r Range) Equal(other Range) bool { return r == other }

// Contains reports whether p lies within r.
func (r Range) Contains(p int) bool { return r.start <= p && p <= r.end }

// Covers reports whether every point of other lies within r.
func (r Range) Covers(other Range) bool {
	return r.start <= other.start && other.end <= r.end
}

func (r Range) Overlaps(other Range) bool {
	return r.start <= other.end && r.end >= other.start
}

// Adjacent reports whether r and other touch without overlapping, e.g.
// 1-2 and 3-4.
func (r Range) Adjacent(other Range) bool {
	return touches(r.end, other.start) || touches(other.end, r.start)
}

// Union merges other into r when the two overlap or are adjacent.
// Otherwise r is returned unchanged.
func (r Range) Union(other Range) Range {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return r
	}
	return Range{start: min(r.start, other.start), end: max(r.end, other.end)}
}

// Intersect returns the points shared by r and other, or false when they
// are disjoint.
func (r Range) Intersect(other Range) (Range, bool) {
	if !r.Overlaps(other) {
		return Range{}, false
	}
	return Range{start: max(r.start, other.start), end: min(r.end, other.end)}, true
}

// Clamp returns p limited to the bounds of r.
func (r Range) Clamp(p int) int {
	return min(max(r.start, p), r.end)
}

// touches reports hi+1 == lo without overflowing.
func touches(hi, lo int) bool { return hi < lo && hi+1 == lo }

// separated reports hi+1 < lo, i.e. at least one integer lies between them.
func separated(hi, lo int) bool { return hi < lo && hi+1 < lo }
