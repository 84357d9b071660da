package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arvheim/boxsim/pkg/config"
	"github.com/arvheim/boxsim/pkg/entity"
	"github.com/arvheim/boxsim/pkg/event"
	"github.com/arvheim/boxsim/pkg/physics"
)

// fakeSurface records every call the simulator makes on the render
// surface.
type fakeSurface struct {
	resizes    []struct{ w, h float64 }
	attached   []entity.Entity
	clears     int
	drawn      []*entity.Rectangle
	frameCount uint64
	presents   int
}

func (s *fakeSurface) Resize(w, h float64) {
	s.resizes = append(s.resizes, struct{ w, h float64 }{w, h})
}
func (s *fakeSurface) Attach(e entity.Entity)              { s.attached = append(s.attached, e) }
func (s *fakeSurface) Clear()                              { s.clears++ }
func (s *fakeSurface) RenderRectangle(r *entity.Rectangle) { s.drawn = append(s.drawn, r) }
func (s *fakeSurface) SetFrameCount(count uint64)          { s.frameCount = count }
func (s *fakeSurface) Present()                            { s.presents++ }

// traceEntity appends "tick" and "render" markers to a shared trace so
// tests can assert ordering within a pass.
type traceEntity struct {
	id    entity.ID
	trace *[]string
}

func (e *traceEntity) GetID() entity.ID              { return e.id }
func (e *traceEntity) GetPosition() physics.Vector2D { return physics.Vector2D{} }
func (e *traceEntity) Tick(entity.World)             { *e.trace = append(*e.trace, "tick") }
func (e *traceEntity) Render(entity.Frame)           { *e.trace = append(*e.trace, "render") }

func newTestSimulator(t *testing.T) (*Simulator, *fakeSurface) {
	t.Helper()
	surface := &fakeSurface{}
	s, err := New(config.DefaultConfig(), surface)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s, surface
}

func TestNew_NilSurfaceIsFatal(t *testing.T) {
	if _, err := New(config.DefaultConfig(), nil); !errors.Is(err, ErrNoSurface) {
		t.Errorf("New(nil surface) = %v, want ErrNoSurface", err)
	}
}

func TestNew_StartsPaused(t *testing.T) {
	s, _ := newTestSimulator(t)
	if s.State() != Paused {
		t.Error("simulator must start paused")
	}
	if s.FrameCount() != 0 {
		t.Errorf("frame counter = %d, want 0", s.FrameCount())
	}
}

func TestSimulator_Frame_PausedNoOpsAndEndsChain(t *testing.T) {
	s, surface := newTestSimulator(t)
	var trace []string
	s.Engine().Register(&traceEntity{id: 1, trace: &trace})

	cont := s.Frame(10 * time.Second)

	if cont {
		t.Error("paused frame must not request another frame")
	}
	if len(trace) != 0 {
		t.Errorf("paused frame touched entities: %v", trace)
	}
	if surface.presents != 0 || surface.clears != 0 {
		t.Error("paused frame touched the surface")
	}
}

func TestSimulator_Frame_ExactIntervalFiresBoth(t *testing.T) {
	s, surface := newTestSimulator(t)
	var trace []string
	s.Engine().Register(&traceEntity{id: 1, trace: &trace})
	s.Start()

	cont := s.Frame(300 * time.Millisecond)

	if !cont {
		t.Error("running frame must request another frame")
	}
	if len(trace) != 2 || trace[0] != "tick" || trace[1] != "render" {
		t.Errorf("trace = %v, want [tick render]", trace)
	}
	if s.FrameCount() != 1 {
		t.Errorf("frame counter = %d, want 1", s.FrameCount())
	}
	if surface.frameCount != 1 {
		t.Errorf("surface frame count = %d, want 1", surface.frameCount)
	}
	if surface.presents != 1 {
		t.Errorf("presents = %d, want 1", surface.presents)
	}
}

func TestSimulator_Frame_BelowIntervalFiresNeither(t *testing.T) {
	s, surface := newTestSimulator(t)
	var trace []string
	s.Engine().Register(&traceEntity{id: 1, trace: &trace})
	s.Start()

	cont := s.Frame(299 * time.Millisecond)

	if !cont {
		t.Error("running frame must keep the chain alive even when gated")
	}
	if len(trace) != 0 {
		t.Errorf("gated frame touched entities: %v", trace)
	}
	if s.FrameCount() != 0 {
		t.Errorf("frame counter = %d, want 0", s.FrameCount())
	}
	if surface.presents != 0 {
		t.Error("gated frame presented the surface")
	}
}

func TestSimulator_Frame_TickAndRenderNeverIndependent(t *testing.T) {
	s, _ := newTestSimulator(t)
	var trace []string
	s.Engine().Register(&traceEntity{id: 1, trace: &trace})
	s.Start()

	for _, step := range []time.Duration{50, 100, 299, 300, 301, 550, 600} {
		s.Frame(step * time.Millisecond)
	}

	// Every tick must be immediately followed by a render in the same
	// pass; counts always match.
	ticks, renders := 0, 0
	for i, ev := range trace {
		switch ev {
		case "tick":
			ticks++
			if i+1 >= len(trace) || trace[i+1] != "render" {
				t.Fatalf("tick without paired render in trace %v", trace)
			}
		case "render":
			renders++
		}
	}
	if ticks != renders {
		t.Errorf("ticks = %d, renders = %d; must fire together", ticks, renders)
	}
}

func TestSimulator_Frame_UpdatesBaselineOnFire(t *testing.T) {
	s, _ := newTestSimulator(t)
	s.Start()

	s.Frame(300 * time.Millisecond) // fires, baseline = 300
	s.Frame(550 * time.Millisecond) // 250 elapsed, gated
	if s.FrameCount() != 1 {
		t.Errorf("frame counter = %d after gated frame, want 1", s.FrameCount())
	}
	s.Frame(600 * time.Millisecond) // 300 elapsed, fires
	if s.FrameCount() != 2 {
		t.Errorf("frame counter = %d, want 2", s.FrameCount())
	}
}

func TestSimulator_Frame_ResizesSurfaceToViewport(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Viewport.Width = 320
	cfg.Viewport.Height = 240
	surface := &fakeSurface{}
	s, err := New(cfg, surface)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	s.Start()

	s.Frame(time.Second)

	if len(surface.resizes) != 1 {
		t.Fatalf("resizes = %d, want 1", len(surface.resizes))
	}
	if surface.resizes[0].w != 320 || surface.resizes[0].h != 240 {
		t.Errorf("resize = %+v, want 320x240", surface.resizes[0])
	}
}

func TestSimulator_StopStart_ResetsBaselineNotCounter(t *testing.T) {
	s, _ := newTestSimulator(t)
	s.Start()
	s.Frame(5 * time.Second) // fires; baseline = 5s, counter = 1

	s.Stop()
	if cont := s.Frame(6 * time.Second); cont {
		t.Error("frame after Stop must end the chain")
	}

	s.Start()
	// Fresh chain from timestamp 0: a frame at 300ms is evaluated
	// against baseline 0, not the pre-stop 5s.
	s.Frame(300 * time.Millisecond)
	if s.FrameCount() != 2 {
		t.Errorf("frame counter = %d after restart, want 2", s.FrameCount())
	}
}

func TestSimulator_Start_PerformsInitialIteration(t *testing.T) {
	s, _ := newTestSimulator(t)
	s.Start()
	if s.State() != Running {
		t.Error("Start() must transition to running")
	}
	// The initial iteration runs at step 0 and is gated; the counter
	// must not move.
	if s.FrameCount() != 0 {
		t.Errorf("frame counter = %d after Start, want 0", s.FrameCount())
	}
}

func TestSimulator_Spawn_RegistersAndAttaches(t *testing.T) {
	s, surface := newTestSimulator(t)

	first := s.Spawn()
	second := s.Spawn()

	if first.GetID() == second.GetID() {
		t.Error("spawned entities must receive distinct identifiers")
	}
	if s.Engine().Len() != 2 {
		t.Errorf("engine has %d entities, want 2", s.Engine().Len())
	}
	if len(surface.attached) != 2 {
		t.Errorf("surface received %d attachments, want 2", len(surface.attached))
	}
	if first.Dimensions.Width != config.DefaultRectWidth {
		t.Errorf("spawned width = %v, want default", first.Dimensions.Width)
	}
	if first.GetPosition() != (physics.Vector2D{}) {
		t.Errorf("spawned position = %v, want origin", first.GetPosition())
	}
}

func TestSimulator_Run_EndsWhenStopped(t *testing.T) {
	s, _ := newTestSimulator(t)
	s.Start()

	// Stop after the first rendered frame; the next delivered frame
	// must no-op and end the loop.
	s.Engine().Events().Subscribe(event.FrameRendered, func(event.Event) {
		s.Stop()
	})

	clock := &scriptClock{steps: []time.Duration{
		100 * time.Millisecond,
		400 * time.Millisecond, // fires, handler stops the simulator
		500 * time.Millisecond, // delivered, no-ops, ends the chain
	}}
	if err := s.Run(context.Background(), clock); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if s.FrameCount() != 1 {
		t.Errorf("frame counter = %d, want 1", s.FrameCount())
	}
	if clock.served != 3 {
		t.Errorf("clock served %d frames, want 3", clock.served)
	}
}

func TestSimulator_Run_PropagatesClockError(t *testing.T) {
	s, _ := newTestSimulator(t)
	s.Start()

	clock := &scriptClock{steps: nil} // immediately exhausted
	err := s.Run(context.Background(), clock)
	if !errors.Is(err, errClockExhausted) {
		t.Errorf("Run() = %v, want clock error", err)
	}
}

var errClockExhausted = errors.New("script clock exhausted")

// scriptClock replays a fixed list of frame timestamps.
type scriptClock struct {
	steps  []time.Duration
	served int
}

func (c *scriptClock) WaitFrame(ctx context.Context) (time.Duration, error) {
	if c.served >= len(c.steps) {
		return 0, errClockExhausted
	}
	step := c.steps[c.served]
	c.served++
	return step, nil
}
