// Package paginate translates index ranges into adapter requests under one
// of three interchangeable strategies: page, offset or cursor.
package paginate

import (
	"fmt"

	"github.com/go-drift/listkit/pkg/geometry"
	"github.com/go-drift/listkit/pkg/store"
)

// Params is the adapter-facing request parameter set. Parameter names are
// configurable through ParamNames; the engine mandates no wire protocol.
type Params map[string]string

// ParamNames configures the parameter names sent to the data source.
type ParamNames struct {
	Page   string
	Limit  string
	Offset string
	Cursor string
}

// WithDefaults fills empty names with the conventional ones.
func (n ParamNames) WithDefaults() ParamNames {
	if n.Page == "" {
		n.Page = "page"
	}
	if n.Limit == "" {
		n.Limit = "limit"
	}
	if n.Offset == "" {
		n.Offset = "offset"
	}
	if n.Cursor == "" {
		n.Cursor = "cursor"
	}
	return n
}

// Validate rejects conflicting parameter name assignments.
func (n ParamNames) Validate() error {
	names := map[string]string{}
	for field, name := range map[string]string{
		"page": n.Page, "limit": n.Limit, "offset": n.Offset, "cursor": n.Cursor,
	} {
		if other, dup := names[name]; dup {
			return fmt.Errorf("parameter name %q assigned to both %s and %s", name, other, field)
		}
		names[name] = field
	}
	return nil
}

// Response is the data source's answer to one request.
type Response struct {
	Items []store.Record
	// Total is the dataset size, or store.TotalUnknown.
	Total      int
	HasNext    bool
	HasPrev    bool
	NextCursor string
	PrevCursor string
}

// Request is one adapter call planned by a strategy.
type Request struct {
	// Params are sent to the data source verbatim.
	Params Params
	// Range is the index span this request is expected to fill.
	Range geometry.Range
}

// Placement locates a response's items in the store.
type Placement struct {
	// At is the absolute index of the first returned item.
	At int
	// Items are the records to insert.
	Items []store.Record
	// Total is the updated total count, or store.TotalUnknown.
	Total int
}

// Strategy plans adapter requests for index ranges and merges responses.
//
// Merge may mutate strategy state (the cursor strategy records response
// cursors); the loader serializes all Strategy calls.
type Strategy interface {
	// Name identifies the strategy in configuration ("page", "offset",
	// "cursor").
	Name() string
	// RequestsFor plans the requests needed to fill r.
	RequestsFor(r geometry.Range) ([]Request, error)
	// Merge maps a response back to absolute indices.
	Merge(req Request, resp Response) Placement
	// Sequential reports whether requests must be issued one at a time,
	// each depending on the previous response. Sequential strategies
	// return a single request per RequestsFor call and are re-planned
	// after each merge.
	Sequential() bool
}

// PreloadRanges returns the boundary-preload ranges around the visible
// range: before pages before it and after pages behind it, in page-size
// steps, clamped to [0,total).
func PreloadRanges(visible geometry.Range, pageSize, before, after, total int) []geometry.Range {
	if visible.Empty() || pageSize <= 0 {
		return nil
	}
	var out []geometry.Range
	if before > 0 {
		r := geometry.Range{Start: visible.Start - before*pageSize, End: visible.Start}.Clamp(total)
		if !r.Empty() {
			out = append(out, r)
		}
	}
	if after > 0 {
		r := geometry.Range{Start: visible.End, End: visible.End + after*pageSize}.Clamp(total)
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// PageOf returns the 1-based page containing index i.
func PageOf(i, pageSize int) int {
	if pageSize <= 0 || i < 0 {
		return 1
	}
	return i/pageSize + 1
}

// PageRange returns the index range covered by a 1-based page.
func PageRange(page, pageSize int) geometry.Range {
	if page < 1 {
		page = 1
	}
	return geometry.Range{Start: (page - 1) * pageSize, End: page * pageSize}
}
