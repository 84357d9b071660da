// pkg/entity/rectangle.go
package entity

import (
	"github.com/arvheim/boxsim/pkg/physics"
)

// Dimensions describes a rectangle's width and height
type Dimensions struct {
	Width  float64
	Height float64
}

// Bounds is a rectangle's derived bounding box in screen coordinates
// (y grows downward). Consumed by rendering and layout only, never by
// the physics step.
type Bounds struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Rectangle is an axis-aligned box entity. Position is the center of
// the box.
type Rectangle struct {
	Base
	Dimensions Dimensions
}

// NewRectangle creates a rectangle centered at pos with the given
// dimensions and optional trait overrides.
func NewRectangle(pos physics.Vector2D, dims Dimensions, traits Traits) *Rectangle {
	return &Rectangle{
		Base:       NewBase(pos, traits),
		Dimensions: dims,
	}
}

// Bounds computes the bounding box from the current position and
// dimensions at access time; nothing is cached.
func (r *Rectangle) Bounds() Bounds {
	halfW := r.Dimensions.Width / 2
	halfH := r.Dimensions.Height / 2
	return Bounds{
		Top:    r.Position.Y - halfH,
		Bottom: r.Position.Y + halfH,
		Left:   r.Position.X - halfW,
		Right:  r.Position.X + halfW,
	}
}

// Tick advances the rectangle one simulated step
func (r *Rectangle) Tick(w World) {
	r.Base.Tick(w)
}

// Render synchronizes the rectangle's visual representation with its
// current state
func (r *Rectangle) Render(f Frame) {
	r.Base.Render(f)
	f.Surface().RenderRectangle(r)
}
