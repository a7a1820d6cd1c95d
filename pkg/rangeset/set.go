package rangeset

import (
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/henderiw/rangetree/pkg/tree"
)

const (
	MinCodePoint = 0
	MaxCodePoint = 0x10FFFF
	MaxASCII     = 0x7F
)

// CodePointDomain is the Unicode code point space.
var CodePointDomain = tree.RangeFrom(MinCodePoint, MaxCodePoint)

var (
	empty      = sync.OnceValue(func() *Set { return New(CodePointDomain) })
	codePoints = sync.OnceValue(func() *Set { return mustFromRange(CodePointDomain, CodePointDomain) })
	ascii      = sync.OnceValue(func() *Set { return mustFromRange(CodePointDomain, tree.RangeFrom(MinCodePoint, MaxASCII)) })
)

// Empty returns the shared empty code point set.
func Empty() *Set { return empty() }

// CodePoints returns the shared set of every code point.
func CodePoints() *Set { return codePoints() }

// ASCII returns the shared set of code points 0 to 0x7F.
func ASCII() *Set { return ascii() }

// Set is an immutable set of integers within a domain. Sets are safe for
// concurrent use; every operation returns a new set that may share structure
// with its operands. A nil *Set operand is read as the empty set.
type Set struct {
	domain tree.Range
	root   *tree.Node
}

// New returns an empty set over domain.
func New(domain tree.Range) *Set {
	return &Set{domain: domain}
}

// FromRange returns the set holding every point of r.
func FromRange(domain, r tree.Range) (*Set, error) {
	if !domain.Covers(r) {
		return nil, fmt.Errorf("%w: %s is outside %s", ErrOutOfDomain, r, domain)
	}
	return &Set{domain: domain, root: tree.Singleton(r)}, nil
}

func mustFromRange(domain, r tree.Range) *Set {
	s, err := FromRange(domain, r)
	if err != nil {
		panic(err)
	}
	return s
}

// FromStartLengths builds a set from ascending (start, length) pairs, where
// length counts the points after start.
func FromStartLengths(domain tree.Range, flat []int) (*Set, error) {
	root, err := tree.Deserialize(flat, domain)
	if err != nil {
		return nil, err
	}
	return &Set{domain: domain, root: root}, nil
}

// Parse reads a comma separated list of ranges such as "0-3,5,7-9". The
// ranges may come in any order and may overlap.
func Parse(domain tree.Range, s string) (*Set, error) {
	b := NewBuilder(domain)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := tree.ParseRange(part)
		if err != nil {
			return nil, err
		}
		b.AddRange(r)
	}
	return b.Set()
}

func (s *Set) Domain() tree.Range { return s.domain }

// Root returns the underlying tree. It must not be assumed to be exclusively
// owned by s.
func (s *Set) Root() *tree.Node { return s.root }

func (s *Set) IsEmpty() bool { return s.root == nil }

// Has reports whether p is in s.
func (s *Set) Has(p int) bool { return tree.Search(s.root, p) }

// HasRange reports whether every point of r is in s.
func (s *Set) HasRange(r tree.Range) bool {
	found, ok := tree.Find(s.root, r.Start())
	return ok && found.Covers(r)
}

// HasSet reports whether every point of o is in s.
func (s *Set) HasSet(o *Set) bool { return s.SupersetOf(o, false) }

func (s *Set) Union(o *Set) *Set {
	return s.with(tree.Union(s.root, s.clip(o)))
}

func (s *Set) Intersect(o *Set) *Set {
	return s.with(tree.Intersect(s.root, rootOf(o)))
}

// Except returns the points of s that are not in o.
func (s *Set) Except(o *Set) *Set {
	return s.with(tree.Difference(s.root, rootOf(o)))
}

// Invert returns the points of the domain that are not in s.
func (s *Set) Invert() *Set {
	return s.with(tree.Invert(s.root, s.domain))
}

func (s *Set) Equal(o *Set) bool { return tree.Equal(s.root, rootOf(o)) }

// SupersetOf reports whether s holds every point of o, and with proper set
// at least one more.
func (s *Set) SupersetOf(o *Set, proper bool) bool {
	return tree.SupersetOf(s.root, rootOf(o), proper)
}

// SubsetOf reports whether o holds every point of s, and with proper set at
// least one more.
func (s *Set) SubsetOf(o *Set, proper bool) bool {
	return tree.SubsetOf(s.root, rootOf(o), proper)
}

// Count returns the number of points in s.
func (s *Set) Count() int { return tree.Cardinality(s.root) }

// RangeCount returns the number of disjoint ranges in s.
func (s *Set) RangeCount() int { return tree.Count(s.root) }

// Ranges returns the minimal sorted list of ranges covering s.
func (s *Set) Ranges() []tree.Range { return tree.Ranges(s.root) }

// All returns the ranges of s in ascending order.
func (s *Set) All() iter.Seq[tree.Range] { return tree.All(s.root) }

// Points returns every point of s in ascending order.
func (s *Set) Points() iter.Seq[int] {
	return func(yield func(int) bool) {
		for r := range tree.All(s.root) {
			for p := r.Start(); ; p++ {
				if !yield(p) {
					return
				}
				if p == r.End() {
					break
				}
			}
		}
	}
}

// StartLengths flattens s into ascending (start, length) pairs.
func (s *Set) StartLengths() []int { return tree.Serialize(s.root) }

func (s *Set) String() string {
	var sb strings.Builder
	for r := range tree.All(s.root) {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}

// Builder returns a builder seeded with the points of s.
func (s *Set) Builder(opts ...BuilderOption) *Builder {
	b := NewBuilder(s.domain, opts...)
	b.root = s.root
	return b
}

func (s *Set) with(root *tree.Node) *Set {
	if root == s.root {
		return s
	}
	return &Set{domain: s.domain, root: root}
}

// rootOf treats a nil set as empty.
func rootOf(o *Set) *tree.Node {
	if o == nil {
		return nil
	}
	return o.root
}

// clip drops the points of o that fall outside the domain of s.
func (s *Set) clip(o *Set) *tree.Node {
	if o == nil {
		return nil
	}
	if s.domain.Covers(o.domain) {
		return o.root
	}
	d, ok := s.domain.Intersect(o.domain)
	if !ok {
		return nil
	}
	return tree.Slice(o.root, d)
}
