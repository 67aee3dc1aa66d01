package scroll

import (
	"testing"
	"time"

	"github.com/go-drift/listkit/pkg/testkit"
)

// TestController_JumpToClamps verifies offsets stay inside the extent.
func TestController_JumpToClamps(t *testing.T) {
	c := NewController()
	c.SetViewportExtent(600)
	c.SetContentExtent(40_000_000)

	c.JumpTo(-100)
	if got := c.Offset(); got != 0 {
		t.Errorf("expected offset 0, got %v", got)
	}
	c.JumpTo(1e12)
	if got := c.Offset(); got != 40_000_000-600 {
		t.Errorf("expected offset at max, got %v", got)
	}
	c.JumpTo(1234)
	if got := c.Offset(); got != 1234 {
		t.Errorf("expected offset 1234, got %v", got)
	}
}

// TestController_ShrinkingContentClamps verifies the offset follows a
// shrinking content extent.
func TestController_ShrinkingContentClamps(t *testing.T) {
	c := NewController()
	c.SetViewportExtent(100)
	c.SetContentExtent(1000)
	c.JumpTo(900)

	c.SetContentExtent(500)
	if got := c.Offset(); got != 400 {
		t.Errorf("expected offset 400, got %v", got)
	}
}

// TestController_Listeners verifies notification and unsubscription.
func TestController_Listeners(t *testing.T) {
	c := NewController()
	c.SetViewportExtent(100)
	c.SetContentExtent(1000)

	calls := 0
	remove := c.AddListener(func() { calls++ })

	c.JumpTo(50)
	c.JumpTo(50) // no change, no notification
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}

	remove()
	c.JumpTo(100)
	if calls != 1 {
		t.Errorf("expected no calls after unsubscribe, got %d", calls)
	}
}

// TestTracker_ModeTransitions verifies the slow/fast state machine.
func TestTracker_ModeTransitions(t *testing.T) {
	clock := testkit.NewFakeClock()
	tr := NewTracker(5, 100*time.Millisecond)

	if tr.Mode() != ModeSlow {
		t.Fatal("tracker should start slow")
	}

	tr.Observe(0, clock.Now())
	tr.Observe(100, clock.Advance(10*time.Millisecond)) // 10 units/ms
	if tr.Mode() != ModeFast {
		t.Errorf("expected fast mode at 10 units/ms, got %v", tr.Mode())
	}
	if got := tr.Velocity(); got != 10 {
		t.Errorf("expected velocity 10, got %v", got)
	}

	tr.Observe(110, clock.Advance(10*time.Millisecond)) // 1 unit/ms
	if tr.Mode() != ModeSlow {
		t.Errorf("expected slow mode at 1 unit/ms, got %v", tr.Mode())
	}
}

// TestTracker_SettleFiresOnSlowdown verifies the settle callback fires on
// the fast-to-slow transition.
func TestTracker_SettleFiresOnSlowdown(t *testing.T) {
	clock := testkit.NewFakeClock()
	tr := NewTracker(5, 100*time.Millisecond)

	settles := 0
	tr.OnSettle(func() { settles++ })

	tr.Observe(0, clock.Now())
	tr.Observe(1000, clock.Advance(10*time.Millisecond))
	tr.Observe(1010, clock.Advance(10*time.Millisecond))

	if settles != 1 {
		t.Errorf("expected 1 settle, got %d", settles)
	}
}

// TestTracker_QuietPeriodBurst verifies a fast scrollbar drag suppresses
// loading entirely and settles once after the quiet period.
func TestTracker_QuietPeriodBurst(t *testing.T) {
	clock := testkit.NewFakeClock()
	tr := NewTracker(5, 100*time.Millisecond)

	settles := 0
	tr.OnSettle(func() { settles++ })

	// 200 scroll events over 50ms at 10000 units/ms: every observation
	// after the first stays fast.
	offset := 0.0
	tr.Observe(offset, clock.Now())
	for i := 0; i < 199; i++ {
		offset += 2500
		tr.Observe(offset, clock.Advance(250*time.Microsecond))
		if i > 0 && tr.Mode() != ModeFast {
			t.Fatalf("event %d: expected fast mode", i)
		}
	}
	if settles != 0 {
		t.Fatalf("no settle should fire during the burst, got %d", settles)
	}

	// A tick inside the quiet period does nothing.
	tr.Tick(clock.Advance(50 * time.Millisecond))
	if settles != 0 {
		t.Fatalf("tick inside quiet period must not settle, got %d", settles)
	}
	if tr.Mode() != ModeFast {
		t.Fatal("expected still fast inside quiet period")
	}

	// One tick past the quiet period fires exactly one settle.
	tr.Tick(clock.Advance(60 * time.Millisecond))
	if settles != 1 {
		t.Errorf("expected 1 settle after quiet period, got %d", settles)
	}
	if tr.Mode() != ModeSlow {
		t.Errorf("expected slow mode after settle, got %v", tr.Mode())
	}
	tr.Tick(clock.Advance(100 * time.Millisecond))
	if settles != 1 {
		t.Errorf("tick outside fast mode must not settle again, got %d", settles)
	}
}
