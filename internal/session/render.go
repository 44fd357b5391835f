package session

import (
	"context"
	"errors"

	"github.com/ironsheep/image-redact-mcp/internal/imaging"
	"github.com/ironsheep/image-redact-mcp/internal/redact"
	"github.com/ironsheep/image-redact-mcp/internal/region"
)

// renderJob is a snapshot of everything one render pass reads.
type renderJob struct {
	ctx      context.Context
	cancel   context.CancelFunc
	gen      uint64
	imageGen uint64
	src      *imaging.Buffer
	regions  []region.Region
	params   redact.Parameters
}

// beginRenderLocked cancels the render in flight, if any, and snapshots the
// state for a new one. s.mu must be held.
func (s *Session) beginRenderLocked(ctx context.Context) *renderJob {
	if s.renderCancel != nil {
		s.renderCancel()
	}
	s.renderGen++
	rctx, cancel := context.WithCancel(ctx)
	s.renderCancel = cancel
	return &renderJob{
		ctx:      rctx,
		cancel:   cancel,
		gen:      s.renderGen,
		imageGen: s.imageGen,
		src:      s.source.Buffer,
		regions:  s.store.Regions(),
		params:   s.params,
	}
}

// finishRender runs the job outside the lock and commits the result unless
// a newer job started meanwhile.
func (s *Session) finishRender(job *renderJob) (*imaging.Buffer, error) {
	defer job.cancel()
	out, err := redact.RenderContext(job.ctx, job.src, job.regions, job.params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if job.gen != s.renderGen || job.imageGen != s.imageGen {
		return nil, ErrSuperseded
	}
	s.renderCancel = nil
	if err != nil {
		return nil, err
	}
	s.output = out
	return out, nil
}

// refresh re-renders after a state change. Being superseded is not a
// failure here since the newer render already includes the change.
func (s *Session) refresh(job *renderJob) error {
	if _, err := s.finishRender(job); err != nil && !errors.Is(err, ErrSuperseded) {
		return err
	}
	return nil
}
