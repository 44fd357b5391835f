package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ironsheep/image-redact-mcp/internal/detection"
	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/redact"
	"github.com/ironsheep/image-redact-mcp/internal/region"
)

var (
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")

	// ErrSuperseded is returned when a newer request overtook this one.
	// The superseded result was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")

	// ErrNoAnnotator is returned by DetectVision when no vision service is configured.
	ErrNoAnnotator = errors.New("vision detection not configured")
)

// Annotator locates red annotation frames in an encoded image.
// *vision.Client satisfies it.
type Annotator interface {
	Detect(ctx context.Context, img []byte, width, height int) ([]imaging.Rect, error)
}

// Options configures a new Session.
type Options struct {
	Params    redact.Parameters
	Detection detection.Options

	// Annotator is optional; without it DetectVision fails with ErrNoAnnotator.
	Annotator Annotator
}

// Session owns the state of one redaction workflow: the original image, the
// regions queued against it, the render parameters and the last rendered
// output.
//
// The committed output doubles as the base snapshot for drag previews. It is
// replaced whenever the image, the regions or the parameters change.
//
// Session is safe for concurrent use. Renders and vision requests run outside
// the lock; when a newer request starts, the older one is cancelled and its
// result is dropped.
type Session struct {
	mu sync.Mutex

	annotator Annotator
	params    redact.Parameters
	detect    detection.Options

	path     string
	source   *imaging.Source
	imageGen uint64
	store    *region.Store
	selector region.Selector
	viewport region.Viewport

	output *imaging.Buffer

	renderGen    uint64
	renderCancel context.CancelFunc

	visionGen    uint64
	visionCancel context.CancelFunc
}

// New creates an empty session.
func New(opts Options) *Session {
	return &Session{
		annotator: opts.Annotator,
		params:    opts.Params,
		detect:    opts.Detection,
		store:     region.NewStore(0, 0),
	}
}

// Load replaces the session image. All regions are dropped, any drag in
// progress is abandoned, and pending renders and vision requests are
// superseded. The returned output is the unredacted image.
func (s *Session) Load(ctx context.Context, path string, src *imaging.Source) (*imaging.Buffer, error) {
	if src == nil || src.Buffer == nil {
		return nil, fmt.Errorf("load %s: %w", path, ErrNoImage)
	}

	s.mu.Lock()
	s.path = path
	s.source = src
	s.imageGen++
	s.store = region.NewStore(src.Buffer.Width, src.Buffer.Height)
	s.selector.Cancel()
	s.viewport = region.Viewport{BufferWidth: src.Buffer.Width, BufferHeight: src.Buffer.Height}
	s.output = nil
	if s.visionCancel != nil {
		s.visionCancel()
		s.visionCancel = nil
	}
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return s.finishRender(job)
}

// Path returns the path of the loaded image, or "" when none is loaded.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Source returns the loaded image.
func (s *Session) Source() (*imaging.Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, s.source != nil
}

// Params returns the current render parameters.
func (s *Session) Params() redact.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetParams validates and applies new render parameters, then re-renders.
func (s *Session) SetParams(ctx context.Context, p redact.Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.params = p
	if s.source == nil {
		s.mu.Unlock()
		return nil
	}
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return s.refresh(job)
}

// DetectionOptions returns the settings used by DetectRed.
func (s *Session) DetectionOptions() detection.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detect
}

// DetectRed runs the local red-frame detector with opts and replaces all
// previously detected regions with the result. Manual and vision regions
// are kept. It returns the detected regions.
func (s *Session) DetectRed(ctx context.Context, opts detection.Options) ([]region.Region, error) {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return nil, ErrNoImage
	}
	s.detect = opts
	rects := detection.DetectRedBoxes(s.source.Buffer, opts)
	s.store.Replace(region.SourceDetected, annotations(rects, region.SourceDetected))
	found := s.regionsFromLocked(region.SourceDetected)
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return found, s.refresh(job)
}

// DetectVision asks the vision service for red frames and replaces all
// previous vision regions with the result.
//
// Only the latest request counts: starting a new one, or loading another
// image, cancels a request in flight, and the older caller receives
// ErrSuperseded without touching the regions. Service errors are returned
// unchanged.
func (s *Session) DetectVision(ctx context.Context) ([]region.Region, error) {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return nil, ErrNoImage
	}
	if s.annotator == nil {
		s.mu.Unlock()
		return nil, ErrNoAnnotator
	}
	if s.visionCancel != nil {
		s.visionCancel()
	}
	s.visionGen++
	gen, imageGen := s.visionGen, s.imageGen
	ctx, cancel := context.WithCancel(ctx)
	s.visionCancel = cancel
	src := s.source
	annotator := s.annotator
	s.mu.Unlock()
	defer cancel()

	payload := src.Encoded
	if len(payload) == 0 {
		var err error
		if payload, err = imaging.EncodePNG(src.Buffer); err != nil {
			return nil, err
		}
	}

	rects, err := annotator.Detect(ctx, payload, src.Buffer.Width, src.Buffer.Height)

	s.mu.Lock()
	if gen != s.visionGen || imageGen != s.imageGen {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	s.visionCancel = nil
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.store.Replace(region.SourceVision, annotations(rects, region.SourceVision))
	found := s.regionsFromLocked(region.SourceVision)
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return found, s.refresh(job)
}

// AddRegion appends a manual region given in buffer pixels and returns it
// as stored, clamped to the image. It reports false when the rectangle lies
// entirely outside the image or is empty.
func (s *Session) AddRegion(ctx context.Context, r imaging.Rect) (region.Region, bool, error) {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return region.Region{}, false, ErrNoImage
	}
	added, ok := s.store.Add(region.Manual(r))
	if !ok {
		s.mu.Unlock()
		return region.Region{}, false, nil
	}
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return added, true, s.refresh(job)
}

// Undo removes the most recently added region. It reports false when there
// was nothing to remove.
func (s *Session) Undo(ctx context.Context) (region.Region, bool, error) {
	s.mu.Lock()
	removed, ok := s.store.Undo()
	if !ok || s.source == nil {
		s.mu.Unlock()
		return removed, ok, nil
	}
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return removed, true, s.refresh(job)
}

// Clear removes every region.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	empty := s.store.Len() == 0
	s.store.Clear()
	if empty || s.source == nil {
		s.mu.Unlock()
		return nil
	}
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return s.refresh(job)
}

// Regions returns the active regions in insertion order.
func (s *Session) Regions() []region.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Regions()
}

// Output returns the last committed render.
func (s *Session) Output() (*imaging.Buffer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output, s.output != nil
}

// Render recomputes the output from the original image and commits it.
// A render overtaken by a newer one returns ErrSuperseded.
func (s *Session) Render(ctx context.Context) (*imaging.Buffer, error) {
	s.mu.Lock()
	if s.source == nil {
		s.mu.Unlock()
		return nil, ErrNoImage
	}
	job := s.beginRenderLocked(ctx)
	s.mu.Unlock()

	return s.finishRender(job)
}

func (s *Session) regionsFromLocked(src region.Source) []region.Region {
	var out []region.Region
	for _, r := range s.store.Regions() {
		if r.Source == src {
			out = append(out, r)
		}
	}
	if out == nil {
		out = []region.Region{}
	}
	return out
}

func annotations(rects []imaging.Rect, src region.Source) []region.Region {
	out := make([]region.Region, len(rects))
	for i, r := range rects {
		out[i] = region.Annotation(r, src)
	}
	return out
}
