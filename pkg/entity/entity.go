// pkg/entity/entity.go
package entity

import (
	"math/rand/v2"

	"github.com/arvheim/boxsim/pkg/physics"
)

// ID is a unique identifier for a simulated entity
type ID uint64

// GenerateID returns a fresh random identifier. Identifiers are drawn from
// the full uint64 space, so collisions are not expected in practice; the
// engine registry tolerates them by silent overwrite.
func GenerateID() ID {
	return ID(rand.Uint64())
}

// World exposes the global simulation properties an entity may read
// while it is being ticked.
type World interface {
	Gravity() float64
}

// Frame carries the read-only frame-level data an entity receives
// while it is being rendered.
type Frame interface {
	Viewport() (width, height float64)
	FrameCount() uint64
	Surface() Renderer
}

// Renderer is the render surface contract: it can be sized to a viewport,
// accept entities as children, let each entity draw itself, and publish a
// frame count for observability.
type Renderer interface {
	Resize(width, height float64)
	Attach(e Entity)
	Clear()
	RenderRectangle(r *Rectangle)
	SetFrameCount(count uint64)
	Present()
}

// Entity is the capability set every simulated object supports
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	Tick(w World)
	Render(f Frame)
}

// Traits holds the optional kinematic configuration supplied once at
// construction. Omitted fields default to zero and are never re-validated.
type Traits struct {
	Mass         float64
	Velocity     float64
	Acceleration float64
	Direction    float64
}

// Base contains the kinematic state common to all entity variants.
// Variants embed it and call its Tick/Render as part of their own.
type Base struct {
	ID           ID
	Position     physics.Vector2D
	Direction    float64
	Velocity     float64
	Acceleration float64
	Mass         float64
}

// NewBase initializes the shared state for a variant. The position is
// copied by value; later mutation of the caller's copy does not reach
// the entity.
func NewBase(pos physics.Vector2D, traits Traits) Base {
	return Base{
		ID:           GenerateID(),
		Position:     pos,
		Direction:    traits.Direction,
		Velocity:     traits.Velocity,
		Acceleration: traits.Acceleration,
		Mass:         traits.Mass,
	}
}

// GetID returns the entity's unique identifier
func (b *Base) GetID() ID {
	return b.ID
}

// GetPosition returns the entity's position
func (b *Base) GetPosition() physics.Vector2D {
	return b.Position
}

// Tick is the shared per-step behavior. It applies no forces; the physics
// step is a placeholder and variants layer their own state changes on top.
func (b *Base) Tick(w World) {
}

// Render is the shared per-frame behavior. The base representation has
// nothing to draw; variants dispatch to the surface themselves.
func (b *Base) Render(f Frame) {
}
