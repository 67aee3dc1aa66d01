package geometry

import (
	"math"
	"sort"
)

// searchThreshold is the number of height overrides above which OffsetOf
// and IndexAt switch from a linear scan to binary search. Below it the
// scan is cheaper than the bookkeeping.
const searchThreshold = 64

// HeightModel maps item indices to pixel heights and cumulative offsets.
//
// The model assumes a uniform height for every item and accepts sparse
// per-index overrides via [HeightModel.SetHeight]. Offsets are exact: the
// offset of index i is i*uniform plus the accumulated difference of all
// overridden items below i, kept in a monotonic prefix table. Lookups are
// O(log k) in the number of overrides once past searchThreshold.
//
// HeightModel is not safe for concurrent use; the engine serializes access.
type HeightModel struct {
	uniform float64
	heights map[int]float64
	entries []heightEntry // sorted by index, offsets precomputed
}

type heightEntry struct {
	index  int
	height float64
	offset float64 // exact offset of this index
}

// NewHeightModel returns a model where every item is uniform pixels tall.
func NewHeightModel(uniform float64) *HeightModel {
	return &HeightModel{uniform: uniform}
}

// Uniform reports whether no per-item overrides are present.
func (m *HeightModel) Uniform() bool {
	return len(m.entries) == 0
}

// SetHeight overrides the height of a single index.
func (m *HeightModel) SetHeight(index int, height float64) {
	m.SetHeights(map[int]float64{index: height})
}

// SetHeights overrides the heights of several indices at once.
// Non-positive heights reset an index back to the uniform height.
func (m *HeightModel) SetHeights(heights map[int]float64) {
	if len(heights) == 0 {
		return
	}
	if m.heights == nil {
		m.heights = make(map[int]float64, len(heights))
	}
	for index, h := range heights {
		if index < 0 {
			continue
		}
		if h <= 0 {
			delete(m.heights, index)
			continue
		}
		m.heights[index] = h
	}
	m.rebuild()
}

func (m *HeightModel) rebuild() {
	m.entries = m.entries[:0]
	for index, h := range m.heights {
		m.entries = append(m.entries, heightEntry{index: index, height: h})
	}
	sort.Slice(m.entries, func(i, j int) bool {
		return m.entries[i].index < m.entries[j].index
	})
	delta := 0.0
	for i := range m.entries {
		m.entries[i].offset = float64(m.entries[i].index)*m.uniform + delta
		delta += m.entries[i].height - m.uniform
	}
}

// HeightOf returns the height of index i.
func (m *HeightModel) HeightOf(i int) float64 {
	if h, ok := m.heights[i]; ok {
		return h
	}
	return m.uniform
}

// OffsetOf returns the exact top offset of index i.
func (m *HeightModel) OffsetOf(i int) float64 {
	if i <= 0 {
		return 0
	}
	k := m.entryBefore(i)
	if k < 0 {
		return float64(i) * m.uniform
	}
	e := m.entries[k]
	return e.offset + e.height + float64(i-e.index-1)*m.uniform
}

// IndexAt returns the index whose extent contains the given offset.
// Offsets below zero map to index 0. The result is unbounded above;
// callers clamp against the total count.
func (m *HeightModel) IndexAt(offset float64) int {
	if offset <= 0 || m.uniform <= 0 {
		return 0
	}
	if len(m.entries) == 0 {
		return int(math.Floor(offset / m.uniform))
	}
	k := m.entryAtOrBefore(offset)
	if k < 0 {
		return int(math.Floor(offset / m.uniform))
	}
	e := m.entries[k]
	if offset < e.offset+e.height {
		return e.index
	}
	// Uniform run between this override and the next one.
	return e.index + 1 + int(math.Floor((offset-e.offset-e.height)/m.uniform))
}

// ContentHeight returns the total pixel height of the first total items.
func (m *HeightModel) ContentHeight(total int) float64 {
	if total <= 0 {
		return 0
	}
	return m.OffsetOf(total)
}

// entryBefore returns the position of the last override with index < i,
// or -1 when there is none.
func (m *HeightModel) entryBefore(i int) int {
	n := len(m.entries)
	if n == 0 || m.entries[0].index >= i {
		return -1
	}
	if n <= searchThreshold {
		for k := n - 1; k >= 0; k-- {
			if m.entries[k].index < i {
				return k
			}
		}
		return -1
	}
	return sort.Search(n, func(k int) bool { return m.entries[k].index >= i }) - 1
}

// entryAtOrBefore returns the position of the last override whose offset
// is <= the given pixel offset, or -1 when the offset falls before the
// first override.
func (m *HeightModel) entryAtOrBefore(offset float64) int {
	n := len(m.entries)
	if n == 0 || m.entries[0].offset > offset {
		return -1
	}
	if n <= searchThreshold {
		for k := n - 1; k >= 0; k-- {
			if m.entries[k].offset <= offset {
				return k
			}
		}
		return -1
	}
	return sort.Search(n, func(k int) bool { return m.entries[k].offset > offset }) - 1
}
