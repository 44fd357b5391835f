package region

import (
	"github.com/ironsheep/image-redact-mcp/internal/imaging"
)

// Source identifies where a region came from.
type Source string

const (
	// SourceManual regions were drawn by the user.
	SourceManual Source = "manual"
	// SourceDetected regions came from the local red-frame detector.
	SourceDetected Source = "detected"
	// SourceVision regions came from the vision annotation service.
	SourceVision Source = "vision"
)

// Region is one rectangle queued for redaction.
type Region struct {
	imaging.Rect

	// Source records which producer added the region.
	Source Source `json:"source"`

	// IgnoreRed excludes annotation-red pixels from mosaic averages so the
	// frame the user drew does not tint the result. Manual selections never
	// set it.
	IgnoreRed bool `json:"ignore_red"`
}

// Manual builds a region for a user-drawn rectangle.
func Manual(r imaging.Rect) Region {
	return Region{Rect: r, Source: SourceManual}
}

// Annotation builds a region for a rectangle found around a red frame.
func Annotation(r imaging.Rect, src Source) Region {
	return Region{Rect: r, Source: src, IgnoreRed: true}
}

// Store is the ordered list of active regions.
//
// Insertion order is significant: Undo removes the most recent append. All
// geometry is clamped to the image when it enters the store, so consumers
// can assume every stored rectangle is non-empty and in bounds.
//
// Store is not safe for concurrent use; the owning session serializes access.
type Store struct {
	width, height int
	regions       []Region
}

// NewStore creates an empty store for an image of the given size.
func NewStore(width, height int) *Store {
	return &Store{width: width, height: height}
}

// Add clamps r to the image, appends it and returns the region as stored.
// Regions with a non-positive width or height, or lying entirely outside the
// image, are dropped and Add reports false.
func (s *Store) Add(r Region) (Region, bool) {
	c, ok := r.Rect.Clamp(s.width, s.height)
	if !ok {
		return Region{}, false
	}
	r.Rect = c
	s.regions = append(s.regions, r)
	return r, true
}

// Replace removes every region from src and appends rs in order. It returns
// how many of rs survived clamping. Regions from other sources keep their
// relative order.
func (s *Store) Replace(src Source, rs []Region) int {
	kept := s.regions[:0:0]
	for _, r := range s.regions {
		if r.Source != src {
			kept = append(kept, r)
		}
	}
	s.regions = kept

	added := 0
	for _, r := range rs {
		r.Source = src
		if _, ok := s.Add(r); ok {
			added++
		}
	}
	return added
}

// Undo removes the most recently added region. It is a no-op on an empty store.
func (s *Store) Undo() (Region, bool) {
	if len(s.regions) == 0 {
		return Region{}, false
	}
	last := s.regions[len(s.regions)-1]
	s.regions = s.regions[:len(s.regions)-1]
	return last, true
}

// Clear empties the store.
func (s *Store) Clear() {
	s.regions = nil
}

// Len returns the number of stored regions.
func (s *Store) Len() int {
	return len(s.regions)
}

// Regions returns a copy of the stored regions in insertion order.
func (s *Store) Regions() []Region {
	out := make([]Region, len(s.regions))
	copy(out, s.regions)
	return out
}
