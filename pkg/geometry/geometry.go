// Package geometry provides the pure visibility math for the list engine:
// index ranges, item height models and viewport-to-range projection.
package geometry

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range covers no indices.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Overlaps reports whether the two ranges share at least one index.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Adjacent reports whether the two ranges touch without overlapping,
// so their union is still contiguous.
func (r Range) Adjacent(o Range) bool {
	return r.End == o.Start || o.End == r.Start
}

// Intersect returns the overlapping part of both ranges.
// The result is empty when they do not overlap.
func (r Range) Intersect(o Range) Range {
	out := Range{Start: max(r.Start, o.Start), End: min(r.End, o.End)}
	if out.Empty() {
		return Range{}
	}
	return out
}

// Union returns the smallest range covering both. Callers are expected to
// check Overlaps or Adjacent first; a union of disjoint ranges also covers
// the gap between them.
func (r Range) Union(o Range) Range {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Range{Start: min(r.Start, o.Start), End: max(r.End, o.End)}
}

// Expand grows the range by n indices on each side, never below zero.
func (r Range) Expand(n int) Range {
	if r.Empty() || n <= 0 {
		return r
	}
	start := r.Start - n
	if start < 0 {
		start = 0
	}
	return Range{Start: start, End: r.End + n}
}

// Clamp restricts the range to [0, total). A negative total means the total
// count is unknown and only the lower bound is applied.
func (r Range) Clamp(total int) Range {
	if r.Start < 0 {
		r.Start = 0
	}
	if total >= 0 && r.End > total {
		r.End = total
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}
