package engine

import "github.com/go-drift/listkit/pkg/geometry"

// EventKind identifies an engine event.
type EventKind int

const (
	// EventRangeLoaded fires after a response merge makes a range loaded.
	EventRangeLoaded EventKind = iota
	// EventLoadFailed fires when a range's fetch fails. The range reverts
	// to unloaded and shows placeholders until a retry succeeds.
	EventLoadFailed
	// EventPageChanged fires when the first visible index crosses a page
	// boundary or a page jump lands.
	EventPageChanged
	// EventTotalChanged fires when the source reports a new total count.
	EventTotalChanged
	// EventRefreshed fires after Refresh clears the store.
	EventRefreshed
	// EventStuckLoading fires when pending ranges exceed the configured
	// stuck age. Diagnostics only.
	EventStuckLoading
)

func (k EventKind) String() string {
	switch k {
	case EventRangeLoaded:
		return "range-loaded"
	case EventLoadFailed:
		return "load-failed"
	case EventPageChanged:
		return "page-changed"
	case EventTotalChanged:
		return "total-changed"
	case EventRefreshed:
		return "refreshed"
	case EventStuckLoading:
		return "stuck-loading"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers registered with Subscribe.
type Event struct {
	Kind  EventKind
	Range geometry.Range
	Page  int
	Total int
	Err   error
}

// Subscribe registers an event callback and returns its unsubscribe
// function. Callbacks run on engine goroutines and must not block.
func (e *Engine) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	return func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		delete(e.subs, id)
	}
}

// OnPageChange registers a callback fired with the 1-based page number
// whenever the current page changes. Returns the unsubscribe function.
func (e *Engine) OnPageChange(fn func(page int)) func() {
	if fn == nil {
		return func() {}
	}
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	id := e.nextPageSub
	e.nextPageSub++
	e.pageSubs[id] = fn
	return func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		delete(e.pageSubs, id)
	}
}

func (e *Engine) emit(ev Event) {
	e.subsMu.Lock()
	subs := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.subsMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (e *Engine) emitPage(page int) {
	e.subsMu.Lock()
	subs := make([]func(int), 0, len(e.pageSubs))
	for _, fn := range e.pageSubs {
		subs = append(subs, fn)
	}
	e.subsMu.Unlock()
	for _, fn := range subs {
		fn(page)
	}
	e.emit(Event{Kind: EventPageChanged, Page: page})
}
