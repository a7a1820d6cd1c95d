package iptable

import (
	"net/netip"
	"testing"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/tj/assert"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		ipRange           string
		newSuccessEntries map[string]table.Route
		newFailedEntries  map[string]table.Route
		expectedEntries   int
		expectedFree      string
	}{

		"Normal": {
			ipRange: "10.0.0.10-10.0.0.20",
			newSuccessEntries: map[string]table.Route{
				"10.0.0.10": {},
				"10.0.0.11": {},
			},
			newFailedEntries: map[string]table.Route{
				"10.0.0.21": {},
				"10.0.0.9":  {},
				"bad":       {},
			},
			expectedEntries: 2,
			expectedFree:    "10.0.0.12",
		},
		"IPv6": {
			ipRange: "2001:db8::1-2001:db8::ffff",
			newSuccessEntries: map[string]table.Route{
				"2001:db8::1": {},
				"2001:db8::3": {},
			},
			newFailedEntries: map[string]table.Route{
				"2001:db8::1:0": {},
			},
			expectedEntries: 2,
			expectedFree:    "2001:db8::2",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {

			ipRange, err := netipx.ParseIPRange(tc.ipRange)
			assert.NoError(t, err)

			r, err := New(ipRange.From(), ipRange.To())
			assert.NoError(t, err)

			for addr, d := range tc.newSuccessEntries {
				err := r.Claim(addr, d)
				assert.NoError(t, err)

			}
			for addr, d := range tc.newFailedEntries {
				err := r.Claim(addr, d)
				assert.Error(t, err)
			}
			for addr := range tc.newSuccessEntries {
				if !r.Has(addr) {
					t.Errorf("%s expecting success claim entry: %s\n", name, addr)
				}
			}
			for addr := range tc.newFailedEntries {
				if r.Has(addr) {
					t.Errorf("%s no expecting failed claim entry: %s\n", name, addr)
				}
			}
			if r.Count() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, len(r.GetAll()))
			}

			a, err := r.FindFree()
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedFree, a.String())
		})
	}
}

func TestNewInvalid(t *testing.T) {
	cases := map[string]struct {
		from string
		to   string
	}{
		"Reversed":    {from: "10.0.0.20", to: "10.0.0.10"},
		"MixedFamily": {from: "10.0.0.1", to: "2001:db8::1"},
		"TooLarge":    {from: "::", to: "ffff::"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(netip.MustParseAddr(tc.from), netip.MustParseAddr(tc.to))
			assert.Error(t, err)
		})
	}
}

func TestFreeRanges(t *testing.T) {
	r, err := New(netip.MustParseAddr("192.168.0.0"), netip.MustParseAddr("192.168.1.255"))
	assert.NoError(t, err)

	assert.NoError(t, r.Claim("192.168.0.0", table.Route{}))
	assert.NoError(t, r.Claim("192.168.0.255", table.Route{}))
	assert.NoError(t, r.Claim("192.168.1.0", table.Route{}))

	var got []string
	for _, rng := range r.FreeRanges() {
		got = append(got, rng.String())
	}
	assert.Equal(t, []string{"192.168.0.1-192.168.0.254", "192.168.1.1-192.168.1.255"}, got)

	assert.NoError(t, r.Release("192.168.0.255"))
	assert.Equal(t, 2, len(r.FreeRanges()))
	assert.Equal(t, "192.168.0.1-192.168.0.255", r.FreeRanges()[0].String())
	assert.True(t, r.IsFree("192.168.0.255"))
}

func TestClaimDynamic(t *testing.T) {
	r, err := New(netip.MustParseAddr("10.0.0.254"), netip.MustParseAddr("10.0.1.1"))
	assert.NoError(t, err)

	var got []string
	for range 4 {
		a, err := r.ClaimDynamic(table.Route{})
		assert.NoError(t, err)
		got = append(got, a.String())
	}
	assert.Equal(t, []string{"10.0.0.254", "10.0.0.255", "10.0.1.0", "10.0.1.1"}, got)

	_, err = r.ClaimDynamic(table.Route{})
	assert.Error(t, err)
	assert.Nil(t, r.FreeRanges())
}

func TestGetByLabel(t *testing.T) {
	r, err := New(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.0.255"))
	assert.NoError(t, err)

	routeA := table.NewRoute(netip.MustParsePrefix("10.0.0.1/32"), map[string]string{"app": "a"}, nil)
	routeB := table.NewRoute(netip.MustParsePrefix("10.0.0.2/32"), map[string]string{"app": "b"}, nil)
	assert.NoError(t, r.Claim("10.0.0.1", routeA))
	assert.NoError(t, r.Claim("10.0.0.2", routeB))

	sel, err := labels.Parse("app=b")
	assert.NoError(t, err)
	routes := r.GetByLabel(sel)
	assert.Equal(t, 1, len(routes))
	assert.Equal(t, "10.0.0.2/32", routes[0].Prefix().String())

	assert.Equal(t, 2, len(r.GetAll()))
	assert.Equal(t, "10.0.0.1/32", r.GetAll()[0].Prefix().String())

	assert.Error(t, r.Update("10.0.0.3", routeA))
	assert.NoError(t, r.Update("10.0.0.2", routeA))
	got, err := r.Get("10.0.0.2")
	assert.NoError(t, err)
	assert.Equal(t, "a", got.Labels()["app"])
}
