package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/listkit/pkg/geometry"
)

func records(start, n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			ID:      fmt.Sprintf("row-%d", start+i),
			Payload: map[string]string{"title": fmt.Sprintf("Row %d", start+i)},
		}
	}
	return out
}

// TestStore_PutAndGet verifies inserted runs become loaded records.
func TestStore_PutAndGet(t *testing.T) {
	s := NewStore()
	loaded := s.Put(10, records(10, 5))

	assert.Equal(t, r(10, 15), loaded)
	assert.Equal(t, 5, s.Len())
	assert.True(t, s.IsLoaded(r(10, 15)))
	assert.False(t, s.IsLoaded(r(9, 15)))

	rec, ok := s.Get(12)
	require.True(t, ok)
	assert.Equal(t, 12, rec.Index)
	assert.Equal(t, "row-12", rec.ID)
	assert.False(t, rec.Placeholder)

	_, ok = s.Get(15)
	assert.False(t, ok)
}

// TestStore_PutIdempotent verifies re-inserting a loaded run changes nothing.
func TestStore_PutIdempotent(t *testing.T) {
	s := NewStore()
	s.Put(0, records(0, 10))
	s.Put(0, records(0, 10))

	assert.Equal(t, 10, s.Len())
	assert.Equal(t, []geometry.Range{r(0, 10)}, s.Loaded())
}

// TestStore_PutClampsToTotal verifies records beyond a known total drop.
func TestStore_PutClampsToTotal(t *testing.T) {
	s := NewStore()
	s.SetTotal(12)
	loaded := s.Put(10, records(10, 5))

	assert.Equal(t, r(10, 12), loaded)
	assert.Equal(t, 2, s.Len())
}

// TestStore_SetTotalEvicts verifies shrinking the total evicts tail records.
func TestStore_SetTotalEvicts(t *testing.T) {
	s := NewStore()
	s.Put(0, records(0, 20))

	require.True(t, s.SetTotal(15))
	assert.Equal(t, 15, s.Total())
	assert.Equal(t, 15, s.Len())
	assert.Equal(t, []geometry.Range{r(0, 15)}, s.Loaded())
	assert.False(t, s.SetTotal(15), "same total should report unchanged")
}

// TestStore_Missing verifies gap reporting against loaded ranges.
func TestStore_Missing(t *testing.T) {
	s := NewStore()
	s.Put(0, records(0, 10))
	s.Put(20, records(20, 10))

	assert.Equal(t, []geometry.Range{r(10, 20)}, s.Missing(r(5, 25)))
	assert.Empty(t, s.Missing(r(0, 10)))
}

// TestStore_IndexOfID verifies id lookup over loaded records.
func TestStore_IndexOfID(t *testing.T) {
	s := NewStore()
	s.Put(100, records(100, 3))

	i, ok := s.IndexOfID("row-101")
	require.True(t, ok)
	assert.Equal(t, 101, i)

	_, ok = s.IndexOfID("row-999")
	assert.False(t, ok)
}

// TestStore_All verifies ascending index order regardless of insert order.
func TestStore_All(t *testing.T) {
	s := NewStore()
	s.Put(50, records(50, 2))
	s.Put(0, records(0, 2))

	all := s.All()
	require.Len(t, all, 4)
	assert.Equal(t, []int{0, 1, 50, 51}, []int{all[0].Index, all[1].Index, all[2].Index, all[3].Index})
}

// TestStore_ClearKeepsTotal verifies a refresh clears data but not extent.
func TestStore_ClearKeepsTotal(t *testing.T) {
	s := NewStore()
	s.Put(0, records(0, 10))
	s.SetTotal(500)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Loaded())
	assert.Equal(t, 500, s.Total())
}
