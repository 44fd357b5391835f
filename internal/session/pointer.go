package session

import (
	"context"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/region"
)

// PointerEvent is the kind of pointer input driving manual selection.
type PointerEvent string

const (
	PointerDown  PointerEvent = "down"
	PointerMove  PointerEvent = "move"
	PointerUp    PointerEvent = "up"
	PointerLeave PointerEvent = "leave"
)

// PointerResult reports what a pointer event did.
type PointerResult struct {
	State region.State `json:"-"`

	// Selection is the drag rectangle in buffer pixels, set while dragging
	// and when a drag finished with an accepted region.
	Selection *imaging.Rect `json:"selection,omitempty"`

	// Added is true when a finished drag appended a region.
	Added bool `json:"added"`

	// X and Y locate the buffer pixel under the pointer, clamped to the
	// image.
	X int `json:"x"`
	Y int `json:"y"`
}

// SetDisplaySize records the size the image is displayed at. Pointer
// coordinates are scaled from this size to buffer pixels. A zero size means
// the image is shown at its natural size.
func (s *Session) SetDisplaySize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.DisplayWidth = width
	s.viewport.DisplayHeight = height
}

// Viewport returns the current display mapping.
func (s *Session) Viewport() region.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Pointer feeds one pointer event, in display coordinates, to the manual
// selection state machine.
//
// A down event starts a drag only when a rendered base snapshot exists.
// Leave is handled like up. When a drag ends with a selection larger than
// region.MinSelectionSize on both axes, the region is added and the output
// re-rendered; smaller drags are discarded and the output stays as it was.
func (s *Session) Pointer(ctx context.Context, ev PointerEvent, p region.Point) (PointerResult, error) {
	s.mu.Lock()
	bp := s.viewport.ToBuffer(p)

	var res PointerResult
	res.X, res.Y = s.viewport.Pixel(p)
	switch ev {
	case PointerDown:
		s.selector.Down(bp, s.output != nil)
		if r, ok := s.selector.Preview(); ok {
			res.Selection = &r
		}
	case PointerMove:
		if r, ok := s.selector.Move(bp); ok {
			res.Selection = &r
		}
	case PointerUp, PointerLeave:
		r, ok := s.selector.Up(bp)
		if !ok || s.source == nil {
			break
		}
		if added, ok := s.store.Add(region.Manual(r)); ok {
			res.Selection = &added.Rect
			res.Added = true
			res.State = s.selector.State()
			job := s.beginRenderLocked(ctx)
			s.mu.Unlock()
			return res, s.refresh(job)
		}
	}
	res.State = s.selector.State()
	s.mu.Unlock()
	return res, nil
}

// Preview returns the image to display: the committed output, with the
// dashed selection outline drawn over it while a drag is in progress.
func (s *Session) Preview() (*imaging.Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.output == nil {
		return nil, ErrNoImage
	}
	if r, ok := s.selector.Preview(); ok {
		return region.DrawSelection(s.output, r), nil
	}
	return s.output, nil
}
