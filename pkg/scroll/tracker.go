package scroll

import (
	"math"
	"sync"
	"time"
)

// Mode classifies the current scroll speed.
type Mode int

const (
	// ModeSlow means visibility changes trigger loads immediately.
	ModeSlow Mode = iota
	// ModeFast means loading is suppressed until motion settles, so a
	// scrollbar drag does not flood the data source.
	ModeFast
)

func (m Mode) String() string {
	if m == ModeFast {
		return "fast"
	}
	return "slow"
}

// DefaultFastVelocity is the velocity threshold, in distance units per
// millisecond, above which the tracker switches to ModeFast.
const DefaultFastVelocity = 5.0

// DefaultQuietPeriod is how long the tracker waits after the last scroll
// event before firing a synthetic now-slow transition.
const DefaultQuietPeriod = 100 * time.Millisecond

// Tracker is the Slow ⇄ Fast scroll state machine.
//
// Observe feeds scroll positions; Tick drives the quiet-period timeout.
// Both take explicit timestamps so tests drive the machine with a fake
// clock. The tracker holds no timers of its own and shares no state across
// instances.
type Tracker struct {
	threshold float64 // units per millisecond
	quiet     time.Duration

	mu         sync.Mutex
	mode       Mode
	velocity   float64
	lastOffset float64
	lastEvent  time.Time
	hasEvent   bool
	onSettle   func()
}

// NewTracker returns a tracker in ModeSlow. Non-positive arguments fall
// back to the documented defaults.
func NewTracker(threshold float64, quiet time.Duration) *Tracker {
	if threshold <= 0 {
		threshold = DefaultFastVelocity
	}
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Tracker{threshold: threshold, quiet: quiet}
}

// OnSettle registers the callback fired on every Fast→Slow transition,
// including the synthetic one after the quiet period.
func (t *Tracker) OnSettle(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettle = fn
}

// Mode returns the current mode.
func (t *Tracker) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Velocity returns the last observed velocity in units per millisecond.
func (t *Tracker) Velocity() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.velocity
}

// Observe records a scroll position at the given time and updates the mode
// from the instantaneous velocity.
func (t *Tracker) Observe(offset float64, at time.Time) {
	t.mu.Lock()
	var settle func()

	if !t.hasEvent {
		t.hasEvent = true
		t.lastOffset = offset
		t.lastEvent = at
		t.velocity = 0
		t.mu.Unlock()
		return
	}

	dtMillis := float64(at.Sub(t.lastEvent)) / float64(time.Millisecond)
	if dtMillis > 0 {
		t.velocity = math.Abs(offset-t.lastOffset) / dtMillis
	}
	t.lastOffset = offset
	t.lastEvent = at

	switch {
	case t.velocity > t.threshold:
		t.mode = ModeFast
	case t.mode == ModeFast:
		t.mode = ModeSlow
		settle = t.onSettle
	}
	t.mu.Unlock()

	if settle != nil {
		settle()
	}
}

// Tick fires the synthetic now-slow transition when no scroll event has
// been observed for the quiet period. Safe to call at any cadence; it is
// a no-op outside ModeFast.
func (t *Tracker) Tick(at time.Time) {
	t.mu.Lock()
	var settle func()
	if t.mode == ModeFast && t.hasEvent && at.Sub(t.lastEvent) >= t.quiet {
		t.mode = ModeSlow
		t.velocity = 0
		settle = t.onSettle
	}
	t.mu.Unlock()

	if settle != nil {
		settle()
	}
}
