package rangeset

import (
	"math"
	"testing"

	"github.com/henderiw/rangetree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder(CodePointDomain)
	b.AddPoint(1)
	b.AddPoint(2)
	b.AddPoint(3)
	assert.True(t, b.Changed())
	b.AddRange(tree.RangeFrom(2, 3))
	assert.False(t, b.Changed())

	b.AddRange(tree.RangeFrom(10, 20))
	b.RemoveRange(tree.RangeFrom(14, 15))
	assert.True(t, b.Changed())
	b.RemoveRange(tree.RangeFrom(30, 40))
	assert.False(t, b.Changed())
	b.RemovePoint(2)
	assert.True(t, b.Changed())

	s, err := b.Set()
	require.NoError(t, err)
	assert.Equal(t, "1,3,10-13,16-20", s.String())
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder(tree.RangeFrom(0, 100))
	b.AddRange(tree.RangeFrom(90, 110))
	b.AddRange(tree.RangeFrom(-5, -1))
	b.AddRange(tree.RangeFrom(10, 20))

	s, err := b.Set()
	assert.ErrorIs(t, err, ErrOutOfDomain)
	assert.Equal(t, "10-20", s.String())

	// errors are reported once
	_, err = b.Set()
	assert.NoError(t, err)
}

func TestBuilderPointsOutsideDomain(t *testing.T) {
	b := NewBuilder(tree.RangeFrom(0, 100))
	b.AddPoint(5)
	b.AddPoint(math.MaxInt)
	assert.False(t, b.Changed())
	b.AddPoint(-1)
	b.RemovePoint(math.MinInt)
	assert.False(t, b.Changed())

	s, err := b.Set()
	assert.ErrorIs(t, err, ErrOutOfDomain)
	assert.Equal(t, "5", s.String())

	c := NewBuilder(tree.RangeFrom(0, 100), WithClamp())
	c.AddPoint(math.MaxInt)
	c.AddPoint(7)
	s, err = c.Set()
	assert.NoError(t, err)
	assert.Equal(t, "7", s.String())
}

func TestBuilderClamp(t *testing.T) {
	b := NewBuilder(tree.RangeFrom(0, 100), WithClamp())
	b.AddRange(tree.RangeFrom(90, 110))
	b.AddRange(tree.RangeFrom(-5, 3))
	b.AddRange(tree.RangeFrom(200, 300))
	assert.False(t, b.Changed())

	s, err := b.Set()
	require.NoError(t, err)
	assert.Equal(t, "0-3,90-100", s.String())
}

func TestBuilderSets(t *testing.T) {
	b := ASCII().Builder()
	b.RemoveSet(mustParse(t, "0-31,127"))
	assert.True(t, b.Changed())
	b.AddSet(mustParse(t, "40-50"))
	assert.False(t, b.Changed())
	b.AddSet(mustParse(t, "256"))
	s, err := b.Set()
	require.NoError(t, err)
	assert.Equal(t, "32-126,256", s.String())
	// the shared singleton is untouched
	assert.Equal(t, "0-127", ASCII().String())
}
