package vlantable

import (
	"fmt"

	"github.com/henderiw/rangetree/pkg/idxtable"
	"github.com/henderiw/rangetree/pkg/rangeset"
	"github.com/henderiw/rangetree/pkg/tree"
	"k8s.io/apimachinery/pkg/labels"
)

type VLANTable interface {
	Get(id int64) (labels.Set, error)
	Claim(id int64, d labels.Set) error
	ClaimDynamic(d labels.Set) (int64, error)
	ClaimRange(start, size int64, d labels.Set) error
	ClaimSize(size int64, d labels.Set) error
	ClaimList(list string, d labels.Set) error
	Release(id int64) error
	ReleaseList(list string) error
	Update(id int64, d labels.Set) error

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)
	Free() *tree.Node
	FreeRanges() []tree.Range
	FreeList() string

	GetAll() map[int64]labels.Set
	GetByLabel(selector labels.Selector) map[int64]labels.Set
}

// vlanDomain holds every VLAN id, reserved ones included.
var vlanDomain = tree.RangeFrom(0, 4095)

type reservation struct {
	kind   string
	reason string
}

var reserved = map[int64]reservation{
	0:    {kind: "untagged", reason: "is the untagged VLAN"},
	1:    {kind: "default", reason: "is the default VLAN"},
	4095: {kind: "reserved", reason: "is reserved"},
}

func New(opts ...idxtable.Option) (VLANTable, error) {
	initEntries := make(map[int64]labels.Set, len(reserved))
	for id, res := range reserved {
		initEntries[id] = labels.Set{"type": res.kind, "status": "reserved"}
	}
	t, err := idxtable.NewTable[labels.Set](
		int64(vlanDomain.Len()),
		initEntries,
		func(id int64) error {
			if res, ok := reserved[id]; ok {
				return fmt.Errorf("VLAN %d %s, cannot be added to the database", id, res.reason)
			}
			return nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	return &vlanTable{table: t}, nil
}

type vlanTable struct {
	table idxtable.Table[labels.Set]
}

func (r *vlanTable) Get(id int64) (labels.Set, error) { return r.table.Get(id) }

func (r *vlanTable) Claim(id int64, d labels.Set) error { return r.table.Claim(id, d) }

func (r *vlanTable) ClaimDynamic(d labels.Set) (int64, error) { return r.table.ClaimDynamic(d) }

func (r *vlanTable) ClaimRange(start, size int64, d labels.Set) error {
	return r.table.ClaimRange(start, size, d)
}

func (r *vlanTable) ClaimSize(size int64, d labels.Set) error { return r.table.ClaimSize(size, d) }

// ClaimList claims every VLAN of a list such as "10,20-30". Nothing is
// claimed unless the whole list is free.
func (r *vlanTable) ClaimList(list string, d labels.Set) error {
	vlans, err := rangeset.Parse(vlanDomain, list)
	if err != nil {
		return err
	}
	if busy := vlans.Except(r.free()); !busy.IsEmpty() {
		return fmt.Errorf("VLANs %s are not free", busy)
	}
	var claimed []tree.Range
	for rng := range vlans.All() {
		if err := r.table.ClaimRange(int64(rng.Start()), int64(rng.Len()), d); err != nil {
			for _, c := range claimed {
				_ = r.table.ReleaseRange(int64(c.Start()), int64(c.Len()))
			}
			return err
		}
		claimed = append(claimed, rng)
	}
	return nil
}

func (r *vlanTable) Release(id int64) error { return r.table.Release(id) }

// ReleaseList releases every VLAN of a list. Reserved VLANs in the list make
// the whole call fail.
func (r *vlanTable) ReleaseList(list string) error {
	vlans, err := rangeset.Parse(vlanDomain, list)
	if err != nil {
		return err
	}
	for id := range reserved {
		if vlans.Has(int(id)) {
			return fmt.Errorf("VLAN %d %s, cannot be released", id, reserved[id].reason)
		}
	}
	for rng := range vlans.All() {
		if err := r.table.ReleaseRange(int64(rng.Start()), int64(rng.Len())); err != nil {
			return err
		}
	}
	return nil
}

func (r *vlanTable) Update(id int64, d labels.Set) error {
	if !r.table.Has(id) {
		return fmt.Errorf("VLAN %d is not claimed", id)
	}
	return r.table.Update(id, d)
}

func (r *vlanTable) Count() int { return r.table.Count() }

func (r *vlanTable) Has(id int64) bool { return r.table.Has(id) }

func (r *vlanTable) IsFree(id int64) bool { return r.table.IsFree(id) }

func (r *vlanTable) FindFree() (int64, error) { return r.table.FindFree() }

// Free returns the unclaimed VLAN ids.
func (r *vlanTable) Free() *tree.Node { return r.table.Free() }

func (r *vlanTable) FreeRanges() []tree.Range { return tree.Ranges(r.table.Free()) }

// FreeList returns the unclaimed VLANs in list form, e.g. "2-99,200-4094".
func (r *vlanTable) FreeList() string { return r.free().String() }

func (r *vlanTable) free() *rangeset.Set {
	s, err := rangeset.FromStartLengths(vlanDomain, tree.Serialize(r.table.Free()))
	if err != nil {
		// the free tree is normalized and within the domain
		panic(err)
	}
	return s
}

func (r *vlanTable) GetAll() map[int64]labels.Set { return r.table.GetAll() }

func (r *vlanTable) GetByLabel(selector labels.Selector) map[int64]labels.Set {
	entries := map[int64]labels.Set{}
	for iter := r.table.Iterate(); iter.Next(); {
		if v := iter.Value(); selector.Matches(v) {
			entries[iter.ID()] = v
		}
	}
	return entries
}
