// pkg/render/null.go
package render

import (
	"context"

	"github.com/arvheim/boxsim/pkg/entity"
	"github.com/arvheim/boxsim/pkg/logging"
)

// NullSurface is an entity.Renderer that draws nothing and logs every
// call at debug level. Useful for headless runs and as a reference
// implementation of the surface contract.
type NullSurface struct {
	logger *logging.Logger
}

// NewNullSurface creates a new NullSurface with structured logging.
func NewNullSurface() *NullSurface {
	return &NullSurface{
		logger: logging.NewLogger(),
	}
}

// Resize implements entity.Renderer.
func (s *NullSurface) Resize(width, height float64) {
	s.logger.Debug(context.Background(), "Resize called",
		"width", width,
		"height", height,
	)
}

// Attach implements entity.Renderer.
func (s *NullSurface) Attach(e entity.Entity) {
	if e == nil {
		s.logger.Debug(context.Background(), "Attach called with nil entity")
		return
	}
	s.logger.Debug(context.Background(), "Attach called",
		"entity_id", uint64(e.GetID()),
	)
}

// Clear implements entity.Renderer.
func (s *NullSurface) Clear() {
	s.logger.Debug(context.Background(), "Clear called")
}

// RenderRectangle implements entity.Renderer.
func (s *NullSurface) RenderRectangle(r *entity.Rectangle) {
	if r == nil {
		s.logger.Debug(context.Background(), "RenderRectangle called with nil rectangle")
		return
	}
	s.logger.Debug(context.Background(), "RenderRectangle called",
		"entity_id", uint64(r.GetID()),
		"x", r.Position.X,
		"y", r.Position.Y,
	)
}

// SetFrameCount implements entity.Renderer.
func (s *NullSurface) SetFrameCount(count uint64) {
	s.logger.Debug(context.Background(), "SetFrameCount called",
		"frame", count,
	)
}

// Present implements entity.Renderer.
func (s *NullSurface) Present() {
	s.logger.Debug(context.Background(), "Present called")
}
