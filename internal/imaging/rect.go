package imaging

import "image"

// Rect is an axis-aligned pixel rectangle.
//
// (X, Y) is the top-left corner (inclusive); the rectangle covers
// [X, X+W) horizontally and [Y, Y+H) vertically.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Rectangle converts r to the stdlib min/max form.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// RectFrom converts a stdlib rectangle to a Rect.
func RectFrom(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Clamp intersects r with [0,width) x [0,height). The second result is
// false when nothing of r remains inside the bounds, or when r has a
// non-positive width or height to begin with.
func (r Rect) Clamp(width, height int) (Rect, bool) {
	if r.Empty() {
		return Rect{}, false
	}
	c := r.Rectangle().Intersect(image.Rect(0, 0, width, height))
	if c.Empty() {
		return Rect{}, false
	}
	return RectFrom(c), true
}

// Pad grows r by n pixels on every side and clamps the result to the
// buffer bounds.
func (r Rect) Pad(n, width, height int) Rect {
	x0 := max(0, r.X-n)
	y0 := max(0, r.Y-n)
	x1 := min(width, r.X+r.W+n)
	y1 := min(height, r.Y+r.H+n)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle containing every rect in rs.
// It returns false for an empty slice.
func Union(rs []Rect) (Rect, bool) {
	if len(rs) == 0 {
		return Rect{}, false
	}
	u := rs[0].Rectangle()
	for _, r := range rs[1:] {
		u = u.Union(r.Rectangle())
	}
	return RectFrom(u), true
}
