package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/listkit/pkg/geometry"
)

func r(start, end int) geometry.Range {
	return geometry.Range{Start: start, End: end}
}

// TestRangeSet_AddMergesOverlapping verifies overlapping inserts collapse.
func TestRangeSet_AddMergesOverlapping(t *testing.T) {
	s := NewRangeSet()
	s.Add(r(0, 10))
	s.Add(r(5, 15))

	assert.Equal(t, []geometry.Range{r(0, 15)}, s.Ranges())
	assert.Equal(t, 15, s.Count())
}

// TestRangeSet_AddMergesAdjacent verifies touching ranges collapse too.
func TestRangeSet_AddMergesAdjacent(t *testing.T) {
	s := NewRangeSet()
	s.Add(r(0, 10))
	s.Add(r(20, 30))
	s.Add(r(10, 20))

	assert.Equal(t, []geometry.Range{r(0, 30)}, s.Ranges())
	assert.Equal(t, 1, s.Len())
}

// TestRangeSet_AddBridgesMany verifies one insert can absorb several
// stored ranges at once.
func TestRangeSet_AddBridgesMany(t *testing.T) {
	s := NewRangeSet()
	s.Add(r(0, 5))
	s.Add(r(10, 15))
	s.Add(r(20, 25))
	s.Add(r(3, 22))

	assert.Equal(t, []geometry.Range{r(0, 25)}, s.Ranges())
}

// TestRangeSet_Subtract verifies straddled ranges are split.
func TestRangeSet_Subtract(t *testing.T) {
	s := NewRangeSet()
	s.Add(r(0, 30))
	s.Subtract(r(10, 20))

	assert.Equal(t, []geometry.Range{r(0, 10), r(20, 30)}, s.Ranges())
	assert.True(t, s.Contains(r(0, 10)))
	assert.False(t, s.Contains(r(5, 15)))
	assert.False(t, s.ContainsIndex(10))
	assert.True(t, s.ContainsIndex(20))
}

// TestRangeSet_Missing verifies gap enumeration inside a query range.
func TestRangeSet_Missing(t *testing.T) {
	s := NewRangeSet()
	s.Add(r(10, 20))
	s.Add(r(30, 40))

	assert.Equal(t, []geometry.Range{r(0, 10), r(20, 30), r(40, 50)}, s.Missing(r(0, 50)))
	assert.Empty(t, s.Missing(r(12, 18)))
	assert.Equal(t, []geometry.Range{r(25, 28)}, s.Missing(r(25, 28)))
}

// TestRangeSet_Clear verifies the set empties completely.
func TestRangeSet_Clear(t *testing.T) {
	s := NewRangeSet()
	s.Add(r(0, 100))
	s.Clear()

	require.Empty(t, s.Ranges())
	assert.Equal(t, 0, s.Count())
}
