package render

import (
	"sync"

	"github.com/go-drift/listkit/pkg/geometry"
	"github.com/go-drift/listkit/pkg/store"
)

// binding ties an element to the index it currently displays, along with
// the content it last rendered for diffing.
type binding struct {
	el       Element
	itemType string
	last     Content
}

// Recycler manages the bound element set for the visible window.
//
// On every pass it recycles elements that left the keep range, rebinds or
// allocates elements for the render range, applies content diffs and
// positions each element at its exact offset.
type Recycler struct {
	pool     *Pool
	render   RenderFunc
	itemType ItemTypeFunc
	content  ContentFunc
	heights  *geometry.HeightModel

	mu    sync.Mutex
	bound map[int]*binding
}

// NewRecycler builds a recycler. Nil hooks fall back to defaults; render
// must be provided by the caller.
func NewRecycler(pool *Pool, render RenderFunc, itemType ItemTypeFunc, content ContentFunc, heights *geometry.HeightModel) *Recycler {
	if itemType == nil {
		itemType = DefaultItemType
	}
	if content == nil {
		content = DefaultContent
	}
	return &Recycler{
		pool:     pool,
		render:   render,
		itemType: itemType,
		content:  content,
		heights:  heights,
		bound:    make(map[int]*binding),
	}
}

// Render lays out one frame: indices in renderRange get bound elements,
// indices outside keep are recycled. lookup supplies the record (real or
// placeholder) for an index.
func (r *Recycler) Render(renderRange, keep geometry.Range, lookup func(int) store.Record) {
	if r.render == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for index, b := range r.bound {
		if !keep.Contains(index) {
			r.pool.Put(b.itemType, b.el)
			delete(r.bound, index)
		}
	}

	for i := renderRange.Start; i < renderRange.End; i++ {
		rec := lookup(i)
		typ := r.itemType(rec)
		content := r.content(rec)

		b := r.bound[i]
		if b != nil && b.itemType != typ {
			r.pool.Put(b.itemType, b.el)
			delete(r.bound, i)
			b = nil
		}
		if b == nil {
			recycled, _ := r.pool.Get(typ)
			el := r.render(rec, i, recycled)
			if el == nil {
				continue
			}
			b = &binding{el: el, itemType: typ}
			r.bound[i] = b
		}
		if changed := Diff(b.last, content); changed != nil {
			b.el.Apply(changed)
			b.last = content
		}
		b.el.SetTop(r.heights.OffsetOf(i))
	}
}

// BoundCount returns the number of currently bound elements.
func (r *Recycler) BoundCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bound)
}

// Destroy unbinds and destroys every element, bound or pooled.
func (r *Recycler) Destroy() {
	r.mu.Lock()
	bound := r.bound
	r.bound = make(map[int]*binding)
	r.mu.Unlock()
	for _, b := range bound {
		b.el.Destroy()
	}
	r.pool.Drain()
}
