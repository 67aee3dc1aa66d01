package showcase

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-drift/listkit/pkg/render"
	"github.com/go-drift/listkit/pkg/store"
)

// TextSurface is a rendering surface that draws rows as text lines. It is
// the demo's stand-in for a real UI layer and doubles as a probe: it
// counts allocations and destructions so recycling is observable.
type TextSurface struct {
	mu        sync.Mutex
	rows      map[*TextRow]struct{}
	created   int
	destroyed int
}

// NewTextSurface returns an empty surface.
func NewTextSurface() *TextSurface {
	return &TextSurface{rows: make(map[*TextRow]struct{})}
}

// TextRow is one reusable text line.
type TextRow struct {
	surface *TextSurface

	mu     sync.Mutex
	top    float64
	fields render.Content
}

// Apply merges the changed fields into the row.
func (r *TextRow) Apply(changed render.Content) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fields == nil {
		r.fields = render.Content{}
	}
	for key, value := range changed {
		if value == "" {
			delete(r.fields, key)
			continue
		}
		r.fields[key] = value
	}
}

// SetTop positions the row at an absolute pixel offset.
func (r *TextRow) SetTop(px float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.top = px
}

// Destroy removes the row from its surface.
func (r *TextRow) Destroy() {
	r.surface.mu.Lock()
	defer r.surface.mu.Unlock()
	delete(r.surface.rows, r)
	r.surface.destroyed++
}

// Render returns the render hook to wire into the engine: it reuses the
// recycled row when offered one and allocates otherwise.
func (s *TextSurface) Render() render.RenderFunc {
	return func(_ store.Record, _ int, recycled render.Element) render.Element {
		if row, ok := recycled.(*TextRow); ok {
			return row
		}
		row := &TextRow{surface: s}
		s.mu.Lock()
		s.rows[row] = struct{}{}
		s.created++
		s.mu.Unlock()
		return row
	}
}

// Snapshot returns the current lines in top-to-bottom order.
func (s *TextSurface) Snapshot() []string {
	type line struct {
		top  float64
		text string
	}

	s.mu.Lock()
	lines := make([]line, 0, len(s.rows))
	for row := range s.rows {
		row.mu.Lock()
		keys := make([]string, 0, len(row.fields))
		for key := range row.fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, row.fields[key]))
		}
		lines = append(lines, line{top: row.top, text: strings.Join(parts, " ")})
		row.mu.Unlock()
	}
	s.mu.Unlock()

	sort.Slice(lines, func(i, j int) bool { return lines[i].top < lines[j].top })
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.text)
	}
	return out
}

// Stats returns how many rows were ever created and destroyed. With
// recycling working, created stays near the window size regardless of how
// far the list scrolls.
func (s *TextSurface) Stats() (created, destroyed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created, s.destroyed
}
