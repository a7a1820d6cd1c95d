package rangeset

import (
	"errors"
	"fmt"

	"github.com/henderiw/rangetree/pkg/tree"
)

var ErrOutOfDomain = errors.New("range outside domain")

type BuilderOption func(*Builder)

// WithClamp makes the builder keep the in-domain part of ranges that stick
// out of the domain instead of rejecting them.
func WithClamp() BuilderOption {
	return func(b *Builder) { b.clamp = true }
}

// Builder accumulates additions and removals. Rejected input is recorded
// and reported by Set; the remaining changes still apply.
type Builder struct {
	domain  tree.Range
	clamp   bool
	root    *tree.Node
	changed bool
	errs    error
}

func NewBuilder(domain tree.Range, opts ...BuilderOption) *Builder {
	b := &Builder{domain: domain}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddPoint adds p. A point outside the domain is recorded as an error, or
// dropped when clamping.
func (b *Builder) AddPoint(p int) {
	if !b.domain.Contains(p) {
		if !b.clamp {
			b.errs = errors.Join(b.errs, fmt.Errorf("%w: %d is outside %s", ErrOutOfDomain, p, b.domain))
		}
		b.changed = false
		return
	}
	b.update(tree.Insert(b.root, tree.RangeOf(p)))
}

func (b *Builder) AddRange(r tree.Range) {
	r, ok := b.admit(r)
	if !ok {
		b.changed = false
		return
	}
	b.update(tree.Insert(b.root, r))
}

// AddSet adds every point of o that lies within the domain.
func (b *Builder) AddSet(o *Set) {
	if o == nil {
		return
	}
	b.updateSet(tree.Union(b.root, tree.Slice(o.root, b.domain)))
}

func (b *Builder) RemovePoint(p int) {
	if !b.domain.Contains(p) {
		b.changed = false
		return
	}
	b.RemoveRange(tree.RangeOf(p))
}

// RemoveRange removes every point of r. Points outside the domain are never
// in the set, so no error is recorded for them.
func (b *Builder) RemoveRange(r tree.Range) {
	b.update(tree.Remove(b.root, r))
}

func (b *Builder) RemoveSet(o *Set) {
	if o == nil {
		return
	}
	b.updateSet(tree.Difference(b.root, o.root))
}

// Changed reports whether the last add or remove changed the set.
func (b *Builder) Changed() bool { return b.changed }

// Set returns the accumulated set along with every error recorded since the
// previous call.
func (b *Builder) Set() (*Set, error) {
	s := &Set{domain: b.domain, root: b.root}
	errs := b.errs
	b.errs = nil
	return s, errs
}

func (b *Builder) admit(r tree.Range) (tree.Range, bool) {
	if b.domain.Covers(r) {
		return r, true
	}
	if b.clamp {
		if clipped, ok := b.domain.Intersect(r); ok {
			return clipped, true
		}
		return r, false
	}
	b.errs = errors.Join(b.errs, fmt.Errorf("%w: %s is outside %s", ErrOutOfDomain, r, b.domain))
	return r, false
}

// update relies on Insert and Remove returning their input when nothing
// changes.
func (b *Builder) update(root *tree.Node) {
	b.changed = root != b.root
	b.root = root
}

func (b *Builder) updateSet(root *tree.Node) {
	b.changed = root != b.root && !tree.Equal(root, b.root)
	b.root = root
}
