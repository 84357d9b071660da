// pkg/render/engo/scene.go
package engo

import (
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/arvheim/boxsim/pkg/config"
	"github.com/arvheim/boxsim/pkg/event"
	"github.com/arvheim/boxsim/pkg/sim"
)

// Scene hosts the simulation inside an Engo window. Engo's update loop
// takes the role of the host frame clock: every engine update delivers
// one frame callback to the simulator.
type Scene struct {
	sim     *sim.Simulator
	surface *Surface
	world   *ecs.World
	pacer   *frameSystem
}

// NewScene creates a scene for a simulator whose surface must be the
// engo Surface that Run will initialize.
func NewScene(simulator *sim.Simulator, surface *Surface) *Scene {
	return &Scene{
		sim:     simulator,
		surface: surface,
	}
}

// Type returns the scene identifier (required by Engo).
func (scene *Scene) Type() string {
	return "boxsim"
}

// Preload is called before the scene starts (required by Engo).
func (scene *Scene) Preload() {}

// Setup wires the ECS world: render system, frame pacing, and input
// (required by Engo).
func (scene *Scene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	scene.world = world

	scene.surface.Initialize(world)

	registerInputBindings()
	world.AddSystem(newInputSystem(scene.sim))

	scene.pacer = newFrameSystem(scene.sim)
	world.AddSystem(scene.pacer)

	scene.sim.Start()
}

// Exit is called when the window closes (required by Engo).
func (scene *Scene) Exit() {
	scene.sim.Stop()
}

// frameSystem feeds Engo's update ticks to the simulator as frame
// callbacks. When the simulator ends the chain, the system goes
// dormant until the next start event re-arms it with a fresh epoch.
type frameSystem struct {
	sim     *sim.Simulator
	elapsed time.Duration
	active  bool
}

func newFrameSystem(simulator *sim.Simulator) *frameSystem {
	fs := &frameSystem{sim: simulator}
	simulator.Engine().Events().Subscribe(event.SimStarted, func(event.Event) {
		fs.active = true
		fs.elapsed = 0
	})
	return fs
}

// Remove satisfies the ecs.System interface.
func (fs *frameSystem) Remove(basic ecs.BasicEntity) {}

// Update delivers one frame callback per engine tick.
func (fs *frameSystem) Update(dt float32) {
	if !fs.active {
		return
	}
	fs.elapsed += time.Duration(float64(dt) * float64(time.Second))
	if !fs.sim.Frame(fs.elapsed) {
		fs.active = false
	}
}

// Run opens the window and blocks until it closes.
func Run(cfg *config.Config, scene *Scene) {
	fps := 60
	if cfg.Loop.FramePeriod > 0 {
		fps = int(time.Second / cfg.Loop.FramePeriod)
	}

	opts := engo.RunOptions{
		Title:    "boxsim",
		Width:    int(cfg.Viewport.Width),
		Height:   int(cfg.Viewport.Height),
		FPSLimit: fps,
	}
	engo.Run(opts, scene)
}
