package store

import (
	"github.com/google/btree"

	"github.com/go-drift/listkit/pkg/geometry"
)

// RangeSet is an ordered set of disjoint half-open index ranges.
//
// Ranges are merged on insert: after any sequence of Add calls the set is
// pairwise disjoint and maximally merged, so adjacent ranges [a,b) and
// [b,c) never coexist. The set is not safe for concurrent use; owners
// serialize access.
type RangeSet struct {
	tree *btree.BTreeG[geometry.Range]
}

// NewRangeSet returns an empty range set.
func NewRangeSet() *RangeSet {
	return &RangeSet{
		tree: btree.NewG(16, func(a, b geometry.Range) bool {
			return a.Start < b.Start
		}),
	}
}

// Add inserts r, merging it with any overlapping or adjacent ranges.
func (s *RangeSet) Add(r geometry.Range) {
	if r.Empty() {
		return
	}
	merged := r
	var absorb []geometry.Range

	// The predecessor may reach into r.
	s.tree.DescendLessOrEqual(geometry.Range{Start: r.Start}, func(item geometry.Range) bool {
		if item.End >= r.Start {
			absorb = append(absorb, item)
		}
		return false
	})
	// Successors overlap or touch while their start is within r's reach.
	s.tree.AscendGreaterOrEqual(geometry.Range{Start: r.Start}, func(item geometry.Range) bool {
		if item.Start > merged.End && item.Start > r.End {
			return false
		}
		if item.Start <= r.End {
			absorb = append(absorb, item)
			return true
		}
		return false
	})

	for _, item := range absorb {
		s.tree.Delete(item)
		merged = merged.Union(item)
	}
	s.tree.ReplaceOrInsert(merged)
}

// Subtract removes r from the set, splitting ranges that straddle it.
func (s *RangeSet) Subtract(r geometry.Range) {
	if r.Empty() {
		return
	}
	overlapping := s.Overlapping(r)
	for _, item := range overlapping {
		s.tree.Delete(item)
		if left := (geometry.Range{Start: item.Start, End: r.Start}); !left.Empty() {
			s.tree.ReplaceOrInsert(left)
		}
		if right := (geometry.Range{Start: r.End, End: item.End}); !right.Empty() {
			s.tree.ReplaceOrInsert(right)
		}
	}
}

// Overlapping returns the stored ranges sharing at least one index with r,
// in ascending order.
func (s *RangeSet) Overlapping(r geometry.Range) []geometry.Range {
	if r.Empty() {
		return nil
	}
	var out []geometry.Range
	s.tree.DescendLessOrEqual(geometry.Range{Start: r.Start}, func(item geometry.Range) bool {
		if item.Overlaps(r) {
			out = append(out, item)
		}
		return false
	})
	s.tree.AscendGreaterOrEqual(geometry.Range{Start: r.Start + 1}, func(item geometry.Range) bool {
		if !item.Overlaps(r) {
			return false
		}
		out = append(out, item)
		return true
	})
	return out
}

// Contains reports whether every index of r is covered. Because the set is
// maximally merged, full coverage means a single stored range spans r.
func (s *RangeSet) Contains(r geometry.Range) bool {
	if r.Empty() {
		return true
	}
	for _, item := range s.Overlapping(r) {
		if item.Start <= r.Start && item.End >= r.End {
			return true
		}
	}
	return false
}

// ContainsIndex reports whether index i is covered.
func (s *RangeSet) ContainsIndex(i int) bool {
	return s.Contains(geometry.Range{Start: i, End: i + 1})
}

// Missing returns the sub-ranges of r not covered by the set, in order.
func (s *RangeSet) Missing(r geometry.Range) []geometry.Range {
	if r.Empty() {
		return nil
	}
	var gaps []geometry.Range
	cursor := r.Start
	for _, item := range s.Overlapping(r) {
		if item.Start > cursor {
			gaps = append(gaps, geometry.Range{Start: cursor, End: item.Start})
		}
		if item.End > cursor {
			cursor = item.End
		}
	}
	if cursor < r.End {
		gaps = append(gaps, geometry.Range{Start: cursor, End: r.End})
	}
	return gaps
}

// Ranges returns all stored ranges in ascending order.
func (s *RangeSet) Ranges() []geometry.Range {
	out := make([]geometry.Range, 0, s.tree.Len())
	s.tree.Ascend(func(item geometry.Range) bool {
		out = append(out, item)
		return true
	})
	return out
}

// Len returns the number of stored ranges.
func (s *RangeSet) Len() int {
	return s.tree.Len()
}

// Count returns the total number of indices covered.
func (s *RangeSet) Count() int {
	total := 0
	s.tree.Ascend(func(item geometry.Range) bool {
		total += item.Len()
		return true
	})
	return total
}

// Clear removes all ranges.
func (s *RangeSet) Clear() {
	s.tree.Clear(false)
}
