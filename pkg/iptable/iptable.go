package iptable

import (
	"fmt"
	"math/big"
	"net/netip"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/rangetree/pkg/idxtable"
	"github.com/henderiw/rangetree/pkg/tree"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

type IPTable interface {
	Get(addr string) (table.Route, error)
	Claim(addr string, d table.Route) error
	ClaimDynamic(d table.Route) (netip.Addr, error)
	Release(addr string) error
	Update(addr string, d table.Route) error

	Count() int
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)
	FreeRanges() []netipx.IPRange

	GetAll() table.Routes
	GetByLabel(selector labels.Selector) table.Routes
}

// maxIPs bounds the table so that every address maps to an int index.
var maxIPs = big.NewInt(1 << 62)

func New(from, to netip.Addr, opts ...idxtable.Option) (IPTable, error) {
	if !from.IsValid() || !to.IsValid() || from.Is4() != to.Is4() || to.Less(from) {
		return nil, fmt.Errorf("invalid ip range from %s to %s", from, to)
	}
	size := new(big.Int).Add(new(big.Int).Sub(ipToInt(to), ipToInt(from)), big.NewInt(1))
	if size.Cmp(maxIPs) > 0 {
		return nil, fmt.Errorf("ip range from %s to %s holds %s addresses, max %s", from, to, size, maxIPs)
	}
	t, err := idxtable.NewTable[table.Route](size.Int64(), nil, nil, opts...)
	if err != nil {
		return nil, err
	}
	return &ipTable{
		table:   t,
		ipRange: netipx.IPRangeFrom(from, to),
	}, nil
}

type ipTable struct {
	table   idxtable.Table[table.Route]
	ipRange netipx.IPRange
}

func (r *ipTable) Get(addr string) (table.Route, error) {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return table.Route{}, err
	}
	return r.table.Get(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) Claim(addr string, d table.Route) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := calculateIndex(claimIP, r.ipRange.From())
	if !r.table.IsFree(id) {
		return fmt.Errorf("claim failed ip %s already claimed", addr)
	}
	return r.table.Claim(id, d)
}

func (r *ipTable) ClaimDynamic(d table.Route) (netip.Addr, error) {
	id, err := r.table.ClaimDynamic(d)
	if err != nil {
		return netip.Addr{}, err
	}
	return calculateIPFromIndex(r.ipRange.From(), id), nil
}

func (r *ipTable) Release(addr string) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	return r.table.Release(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) Update(addr string, d table.Route) error {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := calculateIndex(claimIP, r.ipRange.From())
	if r.table.IsFree(id) {
		return fmt.Errorf("update failed ip %s not claimed", addr)
	}
	return r.table.Update(id, d)
}

func (r *ipTable) Count() int {
	return r.table.Count()
}

func (r *ipTable) Has(addr string) bool {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.table.Has(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) IsFree(addr string) bool {
	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.table.IsFree(calculateIndex(claimIP, r.ipRange.From()))
}

func (r *ipTable) FindFree() (netip.Addr, error) {
	id, err := r.table.FindFree()
	if err != nil {
		return netip.Addr{}, err
	}
	return calculateIPFromIndex(r.ipRange.From(), id), nil
}

// FreeRanges returns the unclaimed addresses as ordered, non adjacent ranges.
func (r *ipTable) FreeRanges() []netipx.IPRange {
	var ranges []netipx.IPRange
	for rng := range tree.All(r.table.Free()) {
		ranges = append(ranges, netipx.IPRangeFrom(
			calculateIPFromIndex(r.ipRange.From(), int64(rng.Start())),
			calculateIPFromIndex(r.ipRange.From(), int64(rng.End())),
		))
	}
	return ranges
}

// GetAll returns the claimed routes ordered by address.
func (r *ipTable) GetAll() table.Routes {
	var routes table.Routes
	iter := r.table.Iterate()
	for iter.Next() {
		routes = append(routes, iter.Value())
	}
	return routes
}

func (r *ipTable) GetByLabel(selector labels.Selector) table.Routes {
	var routes table.Routes
	iter := r.table.Iterate()
	for iter.Next() {
		route := iter.Value()
		if selector.Matches(route.Labels()) {
			routes = append(routes, route)
		}
	}
	return routes
}

func (r *ipTable) validateIP(addr string) (netip.Addr, error) {
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From().String(), r.ipRange.To().String())
	}
	return claimIP, nil
}

func calculateIndex(ip, start netip.Addr) int64 {
	return new(big.Int).Sub(ipToInt(ip), ipToInt(start)).Int64()
}

func ipToInt(ip netip.Addr) *big.Int {
	bytes := ip.As16()
	return new(big.Int).SetBytes(bytes[:])
}

func calculateIPFromIndex(startIP netip.Addr, id int64) netip.Addr {
	ipInt := new(big.Int).Add(ipToInt(startIP), big.NewInt(id))

	var ip16 [16]byte
	ipInt.FillBytes(ip16[:])

	addr := netip.AddrFrom16(ip16)
	if startIP.Is4() {
		return addr.Unmap()
	}
	return addr
}
