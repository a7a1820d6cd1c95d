package vxlantable

import (
	"fmt"

	"github.com/henderiw/rangetree/pkg/idxtable"
	"github.com/henderiw/rangetree/pkg/tree"
	"k8s.io/apimachinery/pkg/labels"
)

const (
	MinVNI = 1
	MaxVNI = 1<<24 - 1
)

type VXLANTable interface {
	Get(id int64) (labels.Set, error)
	Claim(id int64, d labels.Set) error
	ClaimDynamic(d labels.Set) (int64, error)
	ClaimRange(start, size int64, d labels.Set) error
	Release(id int64) error
	ReleaseRange(start, size int64) error
	Update(id int64, d labels.Set) error

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)
	FreeRanges() []tree.Range

	GetAll() map[int64]labels.Set
}

// New returns a table for the VNIs offset to max, both included.
func New(offset, max int64, opts ...idxtable.Option) (VXLANTable, error) {
	if offset < MinVNI || max > MaxVNI || max < offset {
		return nil, fmt.Errorf("invalid VNI range %d-%d, must be within %d-%d", offset, max, MinVNI, MaxVNI)
	}
	t, err := idxtable.NewTable[labels.Set](
		max-offset+1,
		nil,
		nil,
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return &vxlanTable{
		table:  t,
		offset: offset,
		max:    max,
	}, nil
}

type vxlanTable struct {
	table  idxtable.Table[labels.Set]
	offset int64
	max    int64
}

func (r *vxlanTable) Get(id int64) (labels.Set, error) {
	return r.table.Get(r.calculateIndex(id))
}

func (r *vxlanTable) Claim(id int64, d labels.Set) error {
	idx := r.calculateIndex(id)
	if r.table.Has(idx) {
		return fmt.Errorf("VNI %d is already claimed", id)
	}
	return r.table.Claim(idx, d)
}

func (r *vxlanTable) ClaimDynamic(d labels.Set) (int64, error) {
	idx, err := r.table.ClaimDynamic(d)
	if err != nil {
		return -1, err
	}
	return idx + r.offset, nil
}

func (r *vxlanTable) ClaimRange(start, size int64, d labels.Set) error {
	return r.table.ClaimRange(r.calculateIndex(start), size, d)
}

func (r *vxlanTable) Release(id int64) error {
	return r.table.Release(r.calculateIndex(id))
}

func (r *vxlanTable) ReleaseRange(start, size int64) error {
	return r.table.ReleaseRange(r.calculateIndex(start), size)
}

func (r *vxlanTable) Update(id int64, d labels.Set) error {
	idx := r.calculateIndex(id)
	if r.table.IsFree(idx) {
		return fmt.Errorf("VNI %d is not claimed", id)
	}
	return r.table.Update(idx, d)
}

func (r *vxlanTable) Count() int {
	return r.table.Count()
}

func (r *vxlanTable) Has(id int64) bool {
	return r.table.Has(r.calculateIndex(id))
}

func (r *vxlanTable) IsFree(id int64) bool {
	return r.table.IsFree(r.calculateIndex(id))
}

func (r *vxlanTable) FindFree() (int64, error) {
	idx, err := r.table.FindFree()
	if err != nil {
		return -1, err
	}
	return idx + r.offset, nil
}

// FreeRanges returns the unclaimed VNIs.
func (r *vxlanTable) FreeRanges() []tree.Range {
	var ranges []tree.Range
	for rng := range tree.All(r.table.Free()) {
		ranges = append(ranges, tree.RangeFrom(rng.Start()+int(r.offset), rng.End()+int(r.offset)))
	}
	return ranges
}

func (r *vxlanTable) GetAll() map[int64]labels.Set {
	entries := make(map[int64]labels.Set, r.table.Count())
	for idx, d := range r.table.GetAll() {
		entries[idx+r.offset] = d
	}
	return entries
}

func (r *vxlanTable) calculateIndex(id int64) int64 {
	return id - r.offset
}
