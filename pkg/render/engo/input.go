// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/arvheim/boxsim/pkg/sim"
)

// inputSystem maps keyboard input onto simulator operations.
type inputSystem struct {
	sim *sim.Simulator
}

func newInputSystem(simulator *sim.Simulator) *inputSystem {
	return &inputSystem{sim: simulator}
}

// Remove satisfies the ecs.System interface.
func (is *inputSystem) Remove(basic ecs.BasicEntity) {}

// Update polls the registered buttons once per engine tick.
func (is *inputSystem) Update(dt float32) {
	if engo.Input.Button("toggle").JustPressed() {
		if is.sim.State() == sim.Running {
			is.sim.Stop()
		} else {
			is.sim.Start()
		}
	}
	if engo.Input.Button("spawn").JustPressed() {
		is.sim.Spawn()
	}
	if engo.Input.Button("quit").JustPressed() {
		engo.Exit()
	}
}

// registerInputBindings sets up the key bindings for the window.
func registerInputBindings() {
	engo.Input.RegisterButton("toggle", engo.KeySpace)
	engo.Input.RegisterButton("spawn", engo.KeyN)
	engo.Input.RegisterButton("quit", engo.KeyEscape, engo.KeyQ)
}
