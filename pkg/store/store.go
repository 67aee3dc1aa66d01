// Package store holds the sparse item state of the list engine: loaded
// records, loaded-range bookkeeping and placeholder synthesis.
package store

import (
	"sort"
	"sync"

	"github.com/go-drift/listkit/pkg/geometry"
)

// TotalUnknown is the total count before the data source reports one.
const TotalUnknown = -1

// Record is one item slot in the list.
type Record struct {
	// Index is the absolute position of the item in the dataset.
	Index int
	// ID is the caller-defined identity of the item.
	ID string
	// Payload is opaque to the engine and owned by the caller.
	Payload any
	// Placeholder marks synthesized filler records. Placeholder records
	// are never persisted in the store.
	Placeholder bool
}

// Store is a sparse mapping from index to loaded record.
//
// Every index inside a loaded range has a real record; indices outside all
// loaded ranges have none and render as synthesized placeholders. All
// methods are safe for concurrent use; mutation happens under one lock so
// asynchronous fetch completions never interleave partial state.
type Store struct {
	mu     sync.RWMutex
	items  map[int]Record
	loaded *RangeSet
	total  int
}

// NewStore returns an empty store with an unknown total count.
func NewStore() *Store {
	return &Store{
		items:  make(map[int]Record),
		loaded: NewRangeSet(),
		total:  TotalUnknown,
	}
}

// Get returns the record at index i, if loaded.
func (s *Store) Get(i int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[i]
	return rec, ok
}

// Put inserts a run of records starting at index at and marks the covered
// range loaded. Records beyond a known total are dropped. Re-inserting an
// already loaded run is idempotent, which makes out-of-order fetch
// completion safe.
func (s *Store) Put(at int, items []Record) geometry.Range {
	if at < 0 || len(items) == 0 {
		return geometry.Range{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	end := at + len(items)
	if s.total >= 0 && end > s.total {
		end = s.total
	}
	if end <= at {
		return geometry.Range{}
	}
	for i := at; i < end; i++ {
		rec := items[i-at]
		rec.Index = i
		rec.Placeholder = false
		s.items[i] = rec
	}
	r := geometry.Range{Start: at, End: end}
	s.loaded.Add(r)
	return r
}

// Total returns the known total count, or TotalUnknown.
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// SetTotal records the total count reported by the data source.
// It reports whether the value changed. Records at or beyond the new
// total are evicted.
func (s *Store) SetTotal(total int) bool {
	if total < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if total == s.total {
		return false
	}
	s.total = total
	for i := range s.items {
		if i >= total {
			delete(s.items, i)
		}
	}
	s.loaded.Subtract(geometry.Range{Start: total, End: int(^uint(0) >> 1)})
	return true
}

// Loaded returns the loaded ranges in ascending order.
func (s *Store) Loaded() []geometry.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded.Ranges()
}

// Missing returns the unloaded sub-ranges of r.
func (s *Store) Missing(r geometry.Range) []geometry.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded.Missing(r)
}

// IsLoaded reports whether every index of r is loaded.
func (s *Store) IsLoaded(r geometry.Range) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded.Contains(r)
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// IndexOfID returns the index of the loaded record with the given id.
func (s *Store) IndexOfID(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, rec := range s.items {
		if rec.ID == id {
			return i, true
		}
	}
	return 0, false
}

// All returns every loaded record in ascending index order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.items))
	for _, rec := range s.items {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Clear drops all records and loaded ranges. The total count is kept so a
// refresh does not collapse the scroll extent before new data arrives.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[int]Record)
	s.loaded.Clear()
}

// nearestLoaded returns the loaded record closest to index i, if any.
func (s *Store) nearestLoaded(i int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.items[i]; ok {
		return rec, true
	}
	best := Record{}
	bestDist := -1
	for _, r := range s.loaded.Ranges() {
		var candidate int
		switch {
		case i < r.Start:
			candidate = r.Start
		case i >= r.End:
			candidate = r.End - 1
		default:
			candidate = i
		}
		dist := candidate - i
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			if rec, ok := s.items[candidate]; ok {
				best = rec
				bestDist = dist
			}
		}
	}
	return best, bestDist >= 0
}
