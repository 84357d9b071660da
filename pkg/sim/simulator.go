// pkg/sim/simulator.go
package sim

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arvheim/boxsim/pkg/config"
	"github.com/arvheim/boxsim/pkg/engine"
	"github.com/arvheim/boxsim/pkg/entity"
	"github.com/arvheim/boxsim/pkg/event"
	"github.com/arvheim/boxsim/pkg/logging"
	"github.com/arvheim/boxsim/pkg/physics"
)

// State is the simulator's run state
type State int

const (
	// Paused is the initial state; frames delivered while paused no-op
	// and end the frame chain.
	Paused State = iota
	// Running means delivered frames are evaluated against the tick
	// interval.
	Running
)

// ErrNoSurface aborts construction when the render surface is absent.
// This is the system's only fatal error; a caller must not proceed with
// a half-constructed simulator.
var ErrNoSurface = errors.New("render surface unavailable")

// Simulator owns one engine and paces its tick/render passes against a
// host frame clock. Wall-clock frame delivery is decoupled from
// simulation cadence: however often frames arrive, the engine advances
// at most once per tick interval.
//
// Tick and render share a single elapsed-time gate: they always fire
// together, never independently.
type Simulator struct {
	engine   *engine.Engine
	surface  entity.Renderer
	width    float64
	height   float64
	interval time.Duration
	spawn    config.SpawnConfig
	logger   *logging.Logger

	mu         sync.Mutex
	state      State
	lastRender time.Duration
	frames     atomic.Uint64
}

// New creates a paused simulator with its own engine. The surface is the
// one external collaborator the simulator cannot run without.
func New(cfg *config.Config, surface entity.Renderer) (*Simulator, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	interval := cfg.Loop.TickInterval
	if interval <= 0 {
		interval = config.DefaultTickInterval
	}

	return &Simulator{
		engine:   engine.New(cfg.World.Gravity),
		surface:  surface,
		width:    cfg.Viewport.Width,
		height:   cfg.Viewport.Height,
		interval: interval,
		spawn:    cfg.Spawn,
		logger:   logging.NewLogger(),
	}, nil
}

// Engine returns the simulator's engine, fixed for the simulator's
// lifetime.
func (s *Simulator) Engine() *engine.Engine {
	return s.engine
}

// State returns the current run state.
func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Viewport returns the viewport dimensions. Implements entity.Frame.
func (s *Simulator) Viewport() (width, height float64) {
	return s.width, s.height
}

// FrameCount returns the number of rendered frames so far. Implements
// entity.Frame. The counter only ever grows; Start does not reset it.
func (s *Simulator) FrameCount() uint64 {
	return s.frames.Load()
}

// Surface returns the render surface. Implements entity.Frame.
func (s *Simulator) Surface() entity.Renderer {
	return s.surface
}

// Start transitions to running, resets the elapsed-time baseline, and
// performs the initial frame iteration at step 0.
func (s *Simulator) Start() {
	s.mu.Lock()
	s.state = Running
	s.lastRender = 0
	s.mu.Unlock()

	s.engine.Events().Publish(&event.BaseEvent{EventType: event.SimStarted, Source: s})
	s.Frame(0)
}

// Stop transitions back to paused. A frame already scheduled by the host
// is not cancelled; it will no-op on delivery and end the chain.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.state = Paused
	s.mu.Unlock()

	s.engine.Events().Publish(&event.BaseEvent{EventType: event.SimStopped, Source: s})
}

// Spawn constructs a rectangle with the configured default geometry at
// the origin, registers it with the engine, and attaches its visual
// representation to the surface. There is no collision check against
// existing spawns; the registry's overwrite semantics cover that.
func (s *Simulator) Spawn() *entity.Rectangle {
	dims := entity.Dimensions{Width: s.spawn.RectWidth, Height: s.spawn.RectHeight}
	rect := entity.NewRectangle(physics.Vector2D{}, dims, entity.Traits{})

	s.engine.Register(rect)
	s.surface.Attach(rect)
	s.engine.Events().Publish(event.NewEntityEvent(event.EntitySpawned, s, rect.GetID()))

	s.logger.Debug(context.Background(), "entity spawned",
		"entity_id", uint64(rect.GetID()),
		"width", dims.Width,
		"height", dims.Height,
	)
	return rect
}

// Frame is the per-frame callback driving everything. step is the host
// clock's timestamp, monotonically increasing from the chain's epoch.
// The return value tells the driving loop whether to request one more
// frame: false ends the chain until the next Start.
func (s *Simulator) Frame(step time.Duration) bool {
	s.mu.Lock()
	if s.state == Paused {
		s.mu.Unlock()
		return false
	}
	if step-s.lastRender < s.interval {
		s.mu.Unlock()
		return true
	}

	s.engine.Tick()

	s.surface.Resize(s.width, s.height)
	s.surface.Clear()
	s.engine.Render(s)
	s.lastRender = step
	count := s.frames.Add(1)
	s.surface.SetFrameCount(count)
	s.surface.Present()
	s.mu.Unlock()

	s.engine.Events().Publish(event.NewFrameEvent(s, count, step))
	s.logger.Debug(context.Background(), "frame rendered",
		"frame", count,
		"step_ms", step.Milliseconds(),
		"entities", s.engine.Len(),
	)
	return true
}

// Run drives the frame chain: it blocks on the clock for each frame
// callback and stops when the simulator pauses or the context ends.
// There is exactly one logical thread of control; Run is it.
func (s *Simulator) Run(ctx context.Context, clock Clock) error {
	for {
		step, err := clock.WaitFrame(ctx)
		if err != nil {
			return err
		}
		if !s.Frame(step) {
			return nil
		}
	}
}
