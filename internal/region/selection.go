package region

import (
	"math"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

// MinSelectionSize is the size a drag must exceed on both axes to count as
// a selection rather than an accidental click.
const MinSelectionSize = 5

// Viewport maps pointer coordinates from the displayed (CSS) size of the
// image to buffer pixels.
type Viewport struct {
	BufferWidth   int     `json:"buffer_width"`
	BufferHeight  int     `json:"buffer_height"`
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
}

// Scale returns the display-to-buffer factors. A zero or negative display
// size means the image is shown at its natural size.
func (v Viewport) Scale() (sx, sy float64) {
	sx, sy = 1, 1
	if v.DisplayWidth > 0 {
		sx = float64(v.BufferWidth) / v.DisplayWidth
	}
	if v.DisplayHeight > 0 {
		sy = float64(v.BufferHeight) / v.DisplayHeight
	}
	return sx, sy
}

// ToBuffer converts a display-space point to buffer space.
func (v Viewport) ToBuffer(p Point) Point {
	sx, sy := v.Scale()
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Pixel converts a display-space point to the buffer pixel under it,
// clamped to the buffer.
func (v Viewport) Pixel(p Point) (int, int) {
	b := v.ToBuffer(p)
	x := clampInt(int(math.Floor(b.X)), 0, v.BufferWidth-1)
	y := clampInt(int(math.Floor(b.Y)), 0, v.BufferHeight-1)
	return x, y
}

// Point is a pointer position. Coordinates are fractional because display
// scaling rarely lands on whole pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NormalizeDrag returns the rectangle spanned by two corners, whichever
// direction the drag went.
func NormalizeDrag(start, end Point) imaging.Rect {
	return imaging.Rect{
		X: int(math.Round(math.Min(start.X, end.X))),
		Y: int(math.Round(math.Min(start.Y, end.Y))),
		W: int(math.Round(math.Abs(end.X - start.X))),
		H: int(math.Round(math.Abs(end.Y - start.Y))),
	}
}

// State is the manual selection state.
type State int

const (
	// Idle waits for a pointer-down.
	Idle State = iota
	// Dragging tracks a selection in progress.
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Selector is the manual drag-to-select state machine. All points it
// receives must already be in buffer space.
type Selector struct {
	state   State
	start   Point
	current Point
}

// State returns the current state.
func (s *Selector) State() State {
	return s.state
}

// Down starts a drag at p. It is ignored, and reports false, when no base
// snapshot is available to preview against.
func (s *Selector) Down(p Point, haveBase bool) bool {
	if !haveBase {
		return false
	}
	s.state = Dragging
	s.start = p
	s.current = p
	return true
}

// Move updates the drag and returns the preview rectangle. It reports false
// when no drag is in progress.
func (s *Selector) Move(p Point) (imaging.Rect, bool) {
	if s.state != Dragging {
		return imaging.Rect{}, false
	}
	s.current = p
	return NormalizeDrag(s.start, p), true
}

// Preview returns the rectangle of the drag in progress, if any.
func (s *Selector) Preview() (imaging.Rect, bool) {
	if s.state != Dragging {
		return imaging.Rect{}, false
	}
	return NormalizeDrag(s.start, s.current), true
}

// Up finishes the drag at p. It returns the selected rectangle and true when
// the drag exceeded MinSelectionSize on both axes; anything smaller is
// treated as a click and discarded.
func (s *Selector) Up(p Point) (imaging.Rect, bool) {
	if s.state != Dragging {
		return imaging.Rect{}, false
	}
	s.state = Idle
	w := math.Abs(p.X - s.start.X)
	h := math.Abs(p.Y - s.start.Y)
	if w <= MinSelectionSize || h <= MinSelectionSize {
		return imaging.Rect{}, false
	}
	return NormalizeDrag(s.start, p), true
}

// Cancel abandons any drag in progress.
func (s *Selector) Cancel() {
	s.state = Idle
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
