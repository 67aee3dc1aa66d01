// Package showcase is a demo backend and terminal surface for the list
// engine: an HTTP API serving a synthetic million-row dataset and a text
// renderer that exercises the full recycling pipeline.
package showcase

import "fmt"

// DefaultDatasetSize is the number of synthetic rows the demo serves.
const DefaultDatasetSize = 1_000_000

var categories = []string{"alpha", "bravo", "charlie", "delta", "echo"}

// Item is one wire-format row of the demo dataset.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Position int    `json:"position"`
}

// Dataset generates rows on demand so a million-row backend costs no
// memory. Row content is a pure function of the index.
type Dataset struct {
	Size int
}

// NewDataset returns a dataset of n synthetic rows.
func NewDataset(n int) *Dataset {
	if n <= 0 {
		n = DefaultDatasetSize
	}
	return &Dataset{Size: n}
}

// Row returns the item at index i.
func (d *Dataset) Row(i int) Item {
	return Item{
		ID:       fmt.Sprintf("row-%d", i),
		Title:    fmt.Sprintf("Row %d", i),
		Category: categories[i%len(categories)],
		Position: i,
	}
}

// Slice returns the items of [start, end), clamped to the dataset.
func (d *Dataset) Slice(start, end int) []Item {
	if start < 0 {
		start = 0
	}
	if end > d.Size {
		end = d.Size
	}
	if end <= start {
		return []Item{}
	}
	out := make([]Item, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, d.Row(i))
	}
	return out
}
