package geometry

// Window is the projection of a scroll position onto item indices.
type Window struct {
	// Visible covers the indices intersecting the viewport itself.
	Visible Range
	// Render is Visible expanded by the configured buffer; this is the
	// range the engine loads and lays out.
	Render Range
	// Keep is Render expanded by the overscan count. Elements inside Keep
	// stay bound even when hidden; elements outside it are recycled.
	Keep Range
}

// VisibleWindow computes the window for a scroll offset and viewport height.
//
// total < 0 means the total count is unknown: the window is bounded below
// only. A zero or negative viewport yields an empty window. When total > 0
// the visible range is never empty; scrolling past the end snaps to the
// last item.
func VisibleWindow(offset, viewport float64, hm *HeightModel, total, buffer, overscan int) Window {
	if viewport <= 0 || total == 0 {
		return Window{}
	}
	if offset < 0 {
		offset = 0
	}
	start := hm.IndexAt(offset)
	end := hm.IndexAt(offset+viewport) + 1
	visible := Range{Start: start, End: end}.Clamp(total)
	if total > 0 && visible.Empty() {
		visible = Range{Start: total - 1, End: total}
	}
	if buffer < 0 {
		buffer = 0
	}
	if overscan < 0 {
		overscan = 0
	}
	render := visible.Expand(buffer).Clamp(total)
	keep := render.Expand(overscan).Clamp(total)
	return Window{Visible: visible, Render: render, Keep: keep}
}
