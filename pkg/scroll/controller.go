// Package scroll tracks scroll position and classifies scroll velocity for
// the list engine.
package scroll

import "sync"

// Controller stores the scroll offset and viewport extent and notifies
// listeners on changes.
//
// The engine positions content in absolute pixel coordinates, so offsets
// stay exact for datasets far larger than any rendering surface. Unlike a
// UI-thread scroll controller, this one is safe for concurrent use:
// asynchronous load completions may adjust extents while the caller
// scrolls.
type Controller struct {
	mu             sync.Mutex
	offset         float64
	max            float64
	viewportExtent float64
	listeners      map[int]func()
	nextListenerID int
}

// NewController returns a controller at offset 0 with no extent.
func NewController() *Controller {
	return &Controller{}
}

// Offset returns the current scroll offset.
func (c *Controller) Offset() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// ViewportExtent returns the current viewport extent in pixels.
func (c *Controller) ViewportExtent() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportExtent
}

// SetViewportExtent records the viewport size and notifies listeners when
// it changes.
func (c *Controller) SetViewportExtent(extent float64) {
	c.mu.Lock()
	if extent == c.viewportExtent {
		c.mu.Unlock()
		return
	}
	c.viewportExtent = extent
	c.clampLocked()
	listeners := c.snapshotLocked()
	c.mu.Unlock()
	notify(listeners)
}

// SetContentExtent records the total content height. The maximum offset is
// content minus viewport, never below zero.
func (c *Controller) SetContentExtent(content float64) {
	c.mu.Lock()
	maxOffset := content - c.viewportExtent
	if maxOffset < 0 {
		maxOffset = 0
	}
	if maxOffset == c.max {
		c.mu.Unlock()
		return
	}
	c.max = maxOffset
	moved := c.clampLocked()
	var listeners []func()
	if moved {
		listeners = c.snapshotLocked()
	}
	c.mu.Unlock()
	notify(listeners)
}

// JumpTo moves to a new offset, clamped to the valid extent.
func (c *Controller) JumpTo(offset float64) {
	c.mu.Lock()
	if offset < 0 {
		offset = 0
	}
	if offset > c.max {
		offset = c.max
	}
	if offset == c.offset {
		c.mu.Unlock()
		return
	}
	c.offset = offset
	listeners := c.snapshotLocked()
	c.mu.Unlock()
	notify(listeners)
}

// AddListener registers a callback for scroll changes and returns its
// unsubscribe function.
func (c *Controller) AddListener(listener func()) func() {
	if listener == nil {
		return func() {}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners == nil {
		c.listeners = make(map[int]func())
	}
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = listener
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Controller) clampLocked() bool {
	clamped := c.offset
	if clamped > c.max {
		clamped = c.max
	}
	if clamped < 0 {
		clamped = 0
	}
	if clamped == c.offset {
		return false
	}
	c.offset = clamped
	return true
}

func (c *Controller) snapshotLocked() []func() {
	out := make([]func(), 0, len(c.listeners))
	for _, listener := range c.listeners {
		out = append(out, listener)
	}
	return out
}

func notify(listeners []func()) {
	for _, listener := range listeners {
		listener()
	}
}
