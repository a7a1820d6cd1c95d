package idxtable

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/henderiw/rangetree/pkg/tree"
)

type Table[T1 any] interface {
	Get(id int64) (T1, error)
	Claim(id int64, d T1) error
	ClaimDynamic(d T1) (int64, error)
	ClaimRange(start, size int64, d T1) error
	ClaimSize(size int64, d T1) error
	Release(id int64) error
	ReleaseRange(start, size int64) error
	Update(id int64, d T1) error

	Iterate() *Iterator[T1]
	IterateFree() *Iterator[T1]

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)
	FindFreeRange(start, size int64) (tree.Range, error)
	FindFreeSize(size int64) ([]tree.Range, error)

	GetAll() map[int64]T1
	Claimed() *tree.Node
	Free() *tree.Node
}

type ValidationFn func(id int64) error

type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger claims and releases are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewTable returns a table of s ids, 0 to s-1. Init entries bypass the
// validation function; all of their errors are returned joined.
func NewTable[T1 any](s int64, initEntries map[int64]T1, v ValidationFn, opts ...Option) (Table[T1], error) {
	if s <= 0 {
		return nil, fmt.Errorf("table size must be positive, got: %d", s)
	}
	domain, err := tree.NewRange(0, int(s-1))
	if err != nil {
		return nil, fmt.Errorf("table size %d: %w", s, err)
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	r := &table[T1]{
		m:          new(sync.RWMutex),
		table:      map[int64]T1{},
		domain:     domain,
		validateFn: v,
		log:        o.logger,
	}

	var errm error
	for id, d := range initEntries {
		if err := r.add(id, d, true); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

// table keeps the claimed ids in an immutable range tree next to the
// per-id data, so free space queries never scan the id space.
type table[T1 any] struct {
	m          *sync.RWMutex
	claimed    *tree.Node
	table      map[int64]T1
	domain     tree.Range
	validateFn ValidationFn
	log        *slog.Logger
}

func (r *table[T1]) validate(id int64, init bool) error {
	if !r.domain.Contains(int(id)) {
		return fmt.Errorf("id %d is outside the allowed entries: %s", id, r.domain)
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(id); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T1]) validateRange(start, size int64) (tree.Range, error) {
	if size <= 0 {
		return tree.Range{}, fmt.Errorf("size must be positive, got: %d", size)
	}
	rng, err := tree.NewRange(int(start), int(start+size-1))
	if err != nil {
		return tree.Range{}, err
	}
	if !r.domain.Covers(rng) {
		return tree.Range{}, fmt.Errorf("range %s does not fit in the allowed entries: %s", rng, r.domain)
	}
	return rng, nil
}

func (r *table[T1]) Get(id int64) (T1, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	var d T1

	if err := r.validate(id, false); err != nil {
		return d, err
	}

	d, ok := r.table[id]
	if !ok {
		return d, fmt.Errorf("no match found for: %v", id)
	}
	return d, nil
}

func (r *table[T1]) Claim(id int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(id, d, false)
}

func (r *table[T1]) ClaimDynamic(d T1) (int64, error) {
	r.m.Lock()
	defer r.m.Unlock()

	id, err := r.findFree()
	if err != nil {
		return 0, err
	}
	if err := r.add(id, d, false); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *table[T1]) ClaimRange(start, size int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.findFreeRange(start, size)
	if err != nil {
		return err
	}
	return r.addRanges([]tree.Range{rng}, d)
}

func (r *table[T1]) ClaimSize(size int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	free, err := r.findFreeSize(size)
	if err != nil {
		return err
	}
	return r.addRanges(free, d)
}

// addRanges validates every id before claiming any of them. The ranges are
// known to be free and within the table.
func (r *table[T1]) addRanges(rr []tree.Range, d T1) error {
	if r.validateFn != nil {
		for _, rng := range rr {
			for id := rng.Start(); id <= rng.End(); id++ {
				if err := r.validateFn(int64(id)); err != nil {
					return err
				}
			}
		}
	}
	for _, rng := range rr {
		for id := rng.Start(); id <= rng.End(); id++ {
			r.table[int64(id)] = d
		}
		r.claimed = tree.Insert(r.claimed, rng)
		r.log.Debug("claimed range", "range", rng.String())
	}
	return nil
}

func (r *table[T1]) Release(id int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(id)
}

func (r *table[T1]) ReleaseRange(start, size int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.validateRange(start, size)
	if err != nil {
		return err
	}
	for id := rng.Start(); id <= rng.End(); id++ {
		delete(r.table, int64(id))
	}
	r.claimed = tree.Remove(r.claimed, rng)
	r.log.Debug("released range", "range", rng.String())
	return nil
}

func (r *table[T1]) Update(id int64, d T1) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(id, d)
}

// Iterate walks the claimed ids in ascending order. The ids are a snapshot
// taken at the time of the call.
func (r *table[T1]) Iterate() *Iterator[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	return newIterator(r.claimed, r.value)
}

// IterateFree walks the free ids in ascending order; values are zero.
func (r *table[T1]) IterateFree() *Iterator[T1] {
	r.m.RLock()
	defer r.m.RUnlock()

	return newIterator(r.free(), func(int64) T1 {
		var d T1
		return d
	})
}

func (r *table[T1]) value(id int64) T1 {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.table[id]
}

func (r *table[T1]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *table[T1]) Has(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return tree.Search(r.claimed, int(id))
}

func (r *table[T1]) IsFree(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.isFree(id)
}

// isFree reports whether id lies within the table and is not claimed.
func (r *table[T1]) isFree(id int64) bool {
	return r.domain.Contains(int(id)) && !tree.Search(r.claimed, int(id))
}

func (r *table[T1]) FindFree() (int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFree()
}

// findFree returns the lowest free id: 0, or the id right after the claimed
// range holding 0.
func (r *table[T1]) findFree() (int64, error) {
	first, ok := tree.Find(r.claimed, r.domain.Start())
	if !ok {
		return int64(r.domain.Start()), nil
	}
	if first.End() >= r.domain.End() {
		return 0, fmt.Errorf("no free entry found")
	}
	return int64(first.End() + 1), nil
}

func (r *table[T1]) FindFreeRange(start, size int64) (tree.Range, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeRange(start, size)
}

func (r *table[T1]) findFreeRange(start, size int64) (tree.Range, error) {
	rng, err := r.validateRange(start, size)
	if err != nil {
		return tree.Range{}, err
	}
	if !tree.SupersetOf(r.free(), tree.Singleton(rng), false) {
		return tree.Range{}, fmt.Errorf("range %s is not free", rng)
	}
	return rng, nil
}

func (r *table[T1]) FindFreeSize(size int64) ([]tree.Range, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFreeSize(size)
}

// findFreeSize returns the lowest size free ids as ranges.
func (r *table[T1]) findFreeSize(size int64) ([]tree.Range, error) {
	if size <= 0 || size > int64(r.domain.Len()) {
		return nil, fmt.Errorf("size %d does not fit in max allowed entries: %d", size, r.domain.Len())
	}
	var out []tree.Range
	need := int(size)
	for rng := range tree.All(r.free()) {
		if rng.Len() >= need {
			return append(out, tree.RangeFrom(rng.Start(), rng.Start()+need-1)), nil
		}
		out = append(out, rng)
		need -= rng.Len()
	}
	return nil, fmt.Errorf("could not find free entries that fit in size %d", size)
}

func (r *table[T1]) free() *tree.Node {
	return tree.Invert(r.claimed, r.domain)
}

func (r *table[T1]) add(id int64, d T1, init bool) error {
	if err := r.validate(id, init); err != nil {
		return err
	}
	if !r.isFree(id) {
		return fmt.Errorf("entry %d already exists", id)
	}
	r.table[id] = d
	r.claimed = tree.Insert(r.claimed, tree.RangeOf(int(id)))
	r.log.Debug("claimed", "id", id)
	return nil
}

func (r *table[T1]) update(id int64, d T1) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	if r.isFree(id) {
		return fmt.Errorf("entry %d not found", id)
	}
	r.table[id] = d
	return nil
}

func (r *table[T1]) delete(id int64) error {
	if err := r.validate(id, false); err != nil {
		return err
	}
	delete(r.table, id)
	r.claimed = tree.Remove(r.claimed, tree.RangeOf(int(id)))
	r.log.Debug("released", "id", id)
	return nil
}

func (r *table[T1]) GetAll() map[int64]T1 {
	r.m.RLock()
	defer r.m.RUnlock()

	return maps.Clone(r.table)
}

// Claimed returns the claimed ids. The tree is immutable and stays valid
// after later claims.
func (r *table[T1]) Claimed() *tree.Node {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.claimed
}

func (r *table[T1]) Free() *tree.Node {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.free()
}
