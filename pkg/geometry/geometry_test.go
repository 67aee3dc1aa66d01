package geometry

import "testing"

// TestRange_Basics verifies emptiness, length and containment.
func TestRange_Basics(t *testing.T) {
	r := Range{Start: 3, End: 7}
	if r.Empty() {
		t.Error("range should not be empty")
	}
	if r.Len() != 4 {
		t.Errorf("expected len 4, got %d", r.Len())
	}
	if !r.Contains(3) || !r.Contains(6) {
		t.Error("range should contain its endpoints-1")
	}
	if r.Contains(7) {
		t.Error("end is exclusive")
	}
	if !(Range{Start: 5, End: 5}).Empty() {
		t.Error("zero-width range should be empty")
	}
	if (Range{Start: 5, End: 2}).Len() != 0 {
		t.Error("inverted range should have zero length")
	}
}

// TestRange_OverlapsAdjacent verifies overlap and adjacency checks.
func TestRange_OverlapsAdjacent(t *testing.T) {
	a := Range{Start: 0, End: 10}
	b := Range{Start: 5, End: 15}
	c := Range{Start: 10, End: 20}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("a and b should overlap")
	}
	if a.Overlaps(c) {
		t.Error("touching ranges do not overlap")
	}
	if !a.Adjacent(c) || !c.Adjacent(a) {
		t.Error("a and c should be adjacent")
	}
	if a.Adjacent(b) {
		t.Error("overlapping ranges are not adjacent")
	}
}

// TestRange_IntersectUnion verifies intersection and union results.
func TestRange_IntersectUnion(t *testing.T) {
	a := Range{Start: 0, End: 10}
	b := Range{Start: 5, End: 15}

	if got := a.Intersect(b); got != (Range{Start: 5, End: 10}) {
		t.Errorf("unexpected intersection %+v", got)
	}
	if got := a.Intersect(Range{Start: 20, End: 30}); !got.Empty() {
		t.Errorf("disjoint intersection should be empty, got %+v", got)
	}
	if got := a.Union(b); got != (Range{Start: 0, End: 15}) {
		t.Errorf("unexpected union %+v", got)
	}
	if got := (Range{}).Union(b); got != b {
		t.Errorf("union with empty should return the other range, got %+v", got)
	}
}

// TestRange_ExpandClamp verifies buffer expansion and bound clamping.
func TestRange_ExpandClamp(t *testing.T) {
	r := Range{Start: 2, End: 5}.Expand(4)
	if r != (Range{Start: 0, End: 9}) {
		t.Errorf("expand should floor at zero, got %+v", r)
	}
	if got := r.Clamp(7); got != (Range{Start: 0, End: 7}) {
		t.Errorf("clamp should cap at total, got %+v", got)
	}
	if got := (Range{Start: -3, End: 100}).Clamp(-1); got != (Range{Start: 0, End: 100}) {
		t.Errorf("unknown total clamps the lower bound only, got %+v", got)
	}
	if got := (Range{Start: 50, End: 60}).Clamp(40); !got.Empty() {
		t.Errorf("range beyond total should clamp to empty, got %+v", got)
	}
}

// TestHeightModel_Uniform verifies offsets and lookups without overrides.
func TestHeightModel_Uniform(t *testing.T) {
	m := NewHeightModel(40)
	if !m.Uniform() {
		t.Error("fresh model should be uniform")
	}
	if got := m.OffsetOf(10); got != 400 {
		t.Errorf("expected offset 400, got %v", got)
	}
	if got := m.IndexAt(399.9); got != 9 {
		t.Errorf("expected index 9, got %d", got)
	}
	if got := m.IndexAt(400); got != 10 {
		t.Errorf("expected index 10, got %d", got)
	}
	if got := m.ContentHeight(1_000_000); got != 40_000_000 {
		t.Errorf("expected content height 40000000, got %v", got)
	}
}

// TestHeightModel_Overrides verifies exact offsets with sparse overrides.
func TestHeightModel_Overrides(t *testing.T) {
	m := NewHeightModel(40)
	m.SetHeight(5, 100)

	if got := m.OffsetOf(5); got != 200 {
		t.Errorf("expected offset 200, got %v", got)
	}
	if got := m.OffsetOf(6); got != 300 {
		t.Errorf("expected offset 300, got %v", got)
	}
	if got := m.OffsetOf(10); got != 460 {
		t.Errorf("expected offset 460, got %v", got)
	}
	if got := m.IndexAt(250); got != 5 {
		t.Errorf("offset 250 should fall inside item 5, got %d", got)
	}
	if got := m.IndexAt(300); got != 6 {
		t.Errorf("offset 300 should fall inside item 6, got %d", got)
	}
	if got := m.HeightOf(5); got != 100 {
		t.Errorf("expected height 100, got %v", got)
	}
	if got := m.HeightOf(4); got != 40 {
		t.Errorf("expected uniform height 40, got %v", got)
	}

	// Resetting the override restores uniform geometry.
	m.SetHeight(5, 0)
	if got := m.OffsetOf(10); got != 400 {
		t.Errorf("expected offset 400 after reset, got %v", got)
	}
}

// TestHeightModel_BinarySearch verifies that lookups past the linear-scan
// threshold agree with the analytic answer.
func TestHeightModel_BinarySearch(t *testing.T) {
	m := NewHeightModel(40)
	overrides := make(map[int]float64, 100)
	for i := 0; i < 100; i++ {
		overrides[i] = 50
	}
	m.SetHeights(overrides)

	// Indices 0..99 are 50 tall, everything after is 40.
	if got := m.OffsetOf(50); got != 2500 {
		t.Errorf("expected offset 2500, got %v", got)
	}
	if got := m.OffsetOf(100); got != 5000 {
		t.Errorf("expected offset 5000, got %v", got)
	}
	if got := m.OffsetOf(110); got != 5400 {
		t.Errorf("expected offset 5400, got %v", got)
	}
	if got := m.IndexAt(2525); got != 50 {
		t.Errorf("expected index 50, got %d", got)
	}
	if got := m.IndexAt(5399); got != 109 {
		t.Errorf("expected index 109, got %d", got)
	}

	// OffsetOf and IndexAt stay mutually consistent across the override
	// boundary.
	for i := 0; i < 200; i++ {
		if got := m.IndexAt(m.OffsetOf(i)); got != i {
			t.Fatalf("IndexAt(OffsetOf(%d)) = %d", i, got)
		}
	}
}

// TestVisibleWindow_Uniform verifies the viewport projection with uniform
// heights.
func TestVisibleWindow_Uniform(t *testing.T) {
	m := NewHeightModel(40)
	w := VisibleWindow(400, 200, m, 1000, 5, 3)

	if w.Visible != (Range{Start: 10, End: 16}) {
		t.Errorf("unexpected visible range %+v", w.Visible)
	}
	if w.Render != (Range{Start: 5, End: 21}) {
		t.Errorf("unexpected render range %+v", w.Render)
	}
	if w.Keep != (Range{Start: 2, End: 24}) {
		t.Errorf("unexpected keep range %+v", w.Keep)
	}
}

// TestVisibleWindow_Bounds verifies edge behavior at the extremes.
func TestVisibleWindow_Bounds(t *testing.T) {
	m := NewHeightModel(40)

	if w := VisibleWindow(0, 0, m, 1000, 5, 3); !w.Visible.Empty() {
		t.Errorf("zero viewport should yield an empty window, got %+v", w.Visible)
	}
	if w := VisibleWindow(100, 200, m, 0, 5, 3); !w.Visible.Empty() {
		t.Errorf("empty dataset should yield an empty window, got %+v", w.Visible)
	}

	// Scrolled far past the end of a known total: snap to the last item.
	w := VisibleWindow(1e9, 200, m, 100, 5, 3)
	if w.Visible != (Range{Start: 99, End: 100}) {
		t.Errorf("expected snap to last item, got %+v", w.Visible)
	}

	// Unknown total: the window is bounded below only.
	w = VisibleWindow(40_000_000, 200, m, -1, 5, 3)
	if w.Visible.Start != 1_000_000 {
		t.Errorf("expected visible start 1000000, got %d", w.Visible.Start)
	}

	// Negative offsets clamp to the top.
	w = VisibleWindow(-50, 200, m, 1000, 0, 0)
	if w.Visible.Start != 0 {
		t.Errorf("expected visible start 0, got %d", w.Visible.Start)
	}
}

// TestVisibleWindow_RenderIsSubset verifies the nesting invariant
// Visible ⊆ Render ⊆ Keep for a spread of positions.
func TestVisibleWindow_RenderIsSubset(t *testing.T) {
	m := NewHeightModel(32)
	for offset := 0.0; offset < 10_000; offset += 173 {
		w := VisibleWindow(offset, 480, m, 5000, 4, 2)
		if w.Render.Start > w.Visible.Start || w.Render.End < w.Visible.End {
			t.Fatalf("render %+v does not cover visible %+v", w.Render, w.Visible)
		}
		if w.Keep.Start > w.Render.Start || w.Keep.End < w.Render.End {
			t.Fatalf("keep %+v does not cover render %+v", w.Keep, w.Render)
		}
	}
}
