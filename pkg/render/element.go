// Package render positions visual elements for the visible range and
// recycles them through a bounded pool.
package render

import "github.com/go-drift/listkit/pkg/store"

// Content is the renderable field set of one row. The engine diffs
// successive contents field by field and only applies what changed.
type Content map[string]string

// Diff returns the fields of next that differ from prev. Fields present
// in prev but absent from next map to the empty string so stale text is
// cleared on reuse.
func Diff(prev, next Content) Content {
	changed := Content{}
	for key, value := range next {
		if prev[key] != value {
			changed[key] = value
		}
	}
	for key := range prev {
		if _, ok := next[key]; !ok {
			changed[key] = ""
		}
	}
	if len(changed) == 0 {
		return nil
	}
	return changed
}

// Element is one reusable visual slot in the list surface. The engine
// never inspects an element beyond this contract; its internal structure
// belongs to the caller.
type Element interface {
	// Apply writes the changed fields into the element.
	Apply(changed Content)
	// SetTop positions the element at an absolute pixel offset. Direct
	// coordinate assignment keeps positions exact for datasets far
	// beyond any surface's native size limit.
	SetTop(px float64)
	// Destroy releases the element's resources. Called when the element
	// is evicted from the pool or the engine shuts down.
	Destroy()
}

// RenderFunc creates the element for an item, or rebinds the recycled one
// when provided. Returning the recycled element reuses it; returning a new
// element discards the recycled one back to the caller's responsibility.
type RenderFunc func(rec store.Record, index int, recycled Element) Element

// ItemTypeFunc buckets records for recycling; elements are only reused
// across records of the same type.
type ItemTypeFunc func(rec store.Record) string

// ContentFunc flattens a record into renderable fields.
type ContentFunc func(rec store.Record) Content

// DefaultItemType puts every record in one bucket.
func DefaultItemType(store.Record) string { return "row" }

// DefaultContent derives fields from the record payload.
func DefaultContent(rec store.Record) Content {
	return Content(store.Fields(rec.Payload))
}
