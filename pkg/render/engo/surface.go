// pkg/render/engo/surface.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/arvheim/boxsim/pkg/entity"
)

// spriteHandle ties a simulation entity to its Engo render components.
// The components are held by pointer so position updates propagate into
// the render system without re-adding the entity.
type spriteHandle struct {
	basic  *ecs.BasicEntity
	space  *common.SpaceComponent
	render *common.RenderComponent
}

// Surface implements entity.Renderer on top of the Engo game engine.
// Engo owns the window and the draw loop; the surface translates
// rectangle bounds into SpaceComponent updates each frame.
type Surface struct {
	world        *ecs.World
	renderSystem *common.RenderSystem

	handles    map[entity.ID]*spriteHandle
	viewWidth  float64
	viewHeight float64
	frameCount uint64
}

// NewSurface creates an unbound surface. Initialize must be called from
// the scene's Setup before the first draw.
func NewSurface() *Surface {
	return &Surface{
		handles: make(map[entity.ID]*spriteHandle),
	}
}

// Initialize binds the surface to the scene's ECS world and installs
// the render system.
func (s *Surface) Initialize(world *ecs.World) {
	s.world = world
	s.renderSystem = &common.RenderSystem{}
	world.AddSystem(s.renderSystem)
}

// Resize implements entity.Renderer. The window size is fixed at
// launch; resizing adjusts the world-to-screen mapping.
func (s *Surface) Resize(width, height float64) {
	s.viewWidth = width
	s.viewHeight = height
}

// Attach implements entity.Renderer. Sprites are created lazily on the
// first draw, so attachment needs no work here.
func (s *Surface) Attach(e entity.Entity) {}

// Clear implements entity.Renderer. Engo clears the framebuffer itself;
// the surface hides every sprite so entities not drawn this frame
// disappear.
func (s *Surface) Clear() {
	for _, h := range s.handles {
		h.render.Hidden = true
	}
}

// RenderRectangle implements entity.Renderer.
func (s *Surface) RenderRectangle(r *entity.Rectangle) {
	h := s.getOrCreateHandle(r.GetID())

	b := r.Bounds()
	x, y := s.worldToScreen(b.Left, b.Top)
	right, bottom := s.worldToScreen(b.Right, b.Bottom)

	h.space.Position = engo.Point{X: x, Y: y}
	h.space.Width = right - x
	h.space.Height = bottom - y
	h.render.Hidden = false
}

// SetFrameCount implements entity.Renderer.
func (s *Surface) SetFrameCount(count uint64) {
	s.frameCount = count
}

// Present implements entity.Renderer. Engo presents through its own
// render loop; nothing to do here.
func (s *Surface) Present() {}

// getOrCreateHandle returns the sprite for an entity, creating it on
// first use.
func (s *Surface) getOrCreateHandle(id entity.ID) *spriteHandle {
	if h, exists := s.handles[id]; exists {
		return h
	}

	basic := ecs.NewBasic()
	h := &spriteHandle{
		basic: &basic,
		space: &common.SpaceComponent{},
		render: &common.RenderComponent{
			Drawable: common.Rectangle{
				BorderWidth: 1,
				BorderColor: color.RGBA{255, 255, 255, 255},
			},
			Color: color.RGBA{70, 130, 180, 255},
		},
	}
	s.renderSystem.Add(h.basic, h.render, h.space)
	s.handles[id] = h
	return h
}

// worldToScreen converts world coordinates to screen coordinates.
func (s *Surface) worldToScreen(x, y float64) (float32, float32) {
	if s.viewWidth <= 0 || s.viewHeight <= 0 {
		return float32(x), float32(y)
	}
	sx := float32(x/s.viewWidth) * engo.GameWidth()
	sy := float32(y/s.viewHeight) * engo.GameHeight()
	return sx, sy
}
