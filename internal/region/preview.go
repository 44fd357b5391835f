package region

import (
	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

// Selection outline style used while dragging.
var (
	OutlineColor = imaging.RGBColor{R: 0x3B, G: 0x82, B: 0xF6}
	OutlineWidth = 2
	DashLength   = 5
)

// DrawSelection returns a copy of base with a dashed outline around r.
// base is not modified. Parts of the outline outside the buffer are skipped.
func DrawSelection(base *imaging.Buffer, r imaging.Rect) *imaging.Buffer {
	out := base.Clone()
	if r.Empty() {
		return out
	}

	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W-1, r.Y+r.H-1

	// Walk the perimeter clockwise so the dash pattern runs continuously
	// around the corners.
	pos := 0
	for x := x0; x <= x1; x++ {
		dashPixel(out, x, y0, pos, 0, 1)
		pos++
	}
	for y := y0 + 1; y <= y1; y++ {
		dashPixel(out, x1, y, pos, -1, 0)
		pos++
	}
	for x := x1 - 1; x >= x0; x-- {
		dashPixel(out, x, y1, pos, 0, -1)
		pos++
	}
	for y := y1 - 1; y > y0; y-- {
		dashPixel(out, x0, y, pos, 1, 0)
		pos++
	}
	return out
}

// dashPixel paints the stroke at (x, y) when pos falls in an "on" segment.
// The stroke grows OutlineWidth pixels inward along (dx, dy).
func dashPixel(b *imaging.Buffer, x, y, pos, dx, dy int) {
	if (pos/DashLength)%2 != 0 {
		return
	}
	for i := 0; i < OutlineWidth; i++ {
		px, py := x+dx*i, y+dy*i
		if b.In(px, py) {
			b.SetRGBA(px, py, OutlineColor.R, OutlineColor.G, OutlineColor.B, 255)
		}
	}
}
