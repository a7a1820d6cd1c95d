package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRange(t *testing.T) {
	_, err := NewRange(1, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)

	r, err := NewRange(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Start())
	assert.Equal(t, 1, r.End())
	assert.Equal(t, 1, r.Size())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 0, RangeOf(0).Size())

	_, err = NewRange(MinPoint-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = NewRange(0, math.MaxInt)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Panics(t, func() { RangeOf(math.MinInt) })
	_, err = ParseRange("0-9223372036854775807")
	assert.ErrorIs(t, err, ErrOutOfBounds)

	widest, err := NewRange(MinPoint, MaxPoint)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt-1, widest.Size())
	assert.Equal(t, math.MaxInt, widest.Len())
}

func TestParseRange(t *testing.T) {
	cases := map[string]struct {
		in          string
		want        Range
		expectedErr bool
	}{
		"Point":         {in: "7", want: span(7, 7)},
		"Range":         {in: "3-5", want: span(3, 5)},
		"Spaces":        {in: " 3 - 5 ", want: span(3, 5)},
		"Negative":      {in: "-5--3", want: span(-5, -3)},
		"NegativePoint": {in: "-2", want: span(-2, -2)},
		"Reversed":      {in: "5-3", expectedErr: true},
		"Empty":         {in: "", expectedErr: true},
		"Garbage":       {in: "a-b", expectedErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseRange(tc.in)
			if tc.expectedErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Range {
	t.Helper()
	r, err := ParseRange(s)
	require.NoError(t, err)
	return r
}

func TestRangeRelations(t *testing.T) {
	a := span(1, 5)
	b := span(1, 5)
	c := span(2, 5)
	d := span(4, 7)
	e := span(6, 10)
	f := span(0, 0)
	g := span(7, 10)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	assert.True(t, a.Covers(b))
	assert.True(t, a.Covers(c))
	assert.False(t, a.Covers(d))
	assert.True(t, a.Contains(5))
	assert.False(t, a.Contains(6))

	assert.True(t, a.Overlaps(d))
	assert.False(t, a.Overlaps(e))

	assert.True(t, a.Adjacent(e))
	assert.True(t, a.Adjacent(f))
	assert.False(t, a.Adjacent(g))
	assert.False(t, a.Adjacent(d))

	assert.Equal(t, a, a.Union(b))
	assert.Equal(t, a, a.Union(c))
	assert.Equal(t, span(1, 7), a.Union(d))
	assert.Equal(t, span(1, 10), a.Union(e))
	assert.Equal(t, span(0, 5), a.Union(f))
	assert.Equal(t, a, a.Union(g))

	got, ok := a.Intersect(d)
	assert.True(t, ok)
	assert.Equal(t, span(4, 5), got)
	_, ok = a.Intersect(e)
	assert.False(t, ok)

	assert.Equal(t, 1, a.Clamp(-3))
	assert.Equal(t, 5, a.Clamp(9))
	assert.Equal(t, 3, a.Clamp(3))
}
