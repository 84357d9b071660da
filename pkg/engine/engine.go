// pkg/engine/engine.go
package engine

import (
	"sync"

	"github.com/arvheim/boxsim/pkg/entity"
	"github.com/arvheim/boxsim/pkg/event"
)

// Engine owns the authoritative registry of live entities and the global
// world properties. It never constructs entities itself; everything in the
// registry was explicitly registered.
//
// Tick and Render iterate the registry in insertion order. Registering
// entities from inside a tick or render pass is disallowed.
type Engine struct {
	mu       sync.RWMutex
	entities map[entity.ID]entity.Entity
	order    []entity.ID
	gravity  float64
	events   *event.Bus
}

// New creates an engine with the given initial gravity and an empty
// registry.
func New(gravity float64) *Engine {
	return &Engine{
		entities: make(map[entity.ID]entity.Entity),
		gravity:  gravity,
		events:   event.NewBus(),
	}
}

// Gravity returns the current world gravity. Implements entity.World.
func (e *Engine) Gravity() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.gravity
}

// UpdateGravity replaces the world gravity unconditionally. Zero and
// negative values are accepted; gravity is a plain scalar here.
func (e *Engine) UpdateGravity(value float64) {
	e.mu.Lock()
	old := e.gravity
	e.gravity = value
	e.mu.Unlock()

	e.events.Publish(event.NewGravityEvent(e, old, value))
}

// Register inserts an entity into the registry keyed by its identifier.
// A colliding identifier silently overwrites the previous entity, which
// keeps its original insertion slot in the iteration order.
func (e *Engine) Register(ent entity.Entity) {
	id := ent.GetID()

	e.mu.Lock()
	if _, exists := e.entities[id]; !exists {
		e.order = append(e.order, id)
	}
	e.entities[id] = ent
	e.mu.Unlock()

	e.events.Publish(event.NewEntityEvent(event.EntityRegistered, e, id))
}

// Tick advances every registered entity by one simulated step, in
// insertion order. With an empty registry it is a no-op.
func (e *Engine) Tick() {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, id := range e.order {
		e.entities[id].Tick(e)
	}
}

// Render asks every registered entity to synchronize its visual
// representation, in the same order Tick uses.
func (e *Engine) Render(f entity.Frame) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, id := range e.order {
		e.entities[id].Render(f)
	}
}

// Len returns the number of registered entities.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entities)
}

// Events returns the engine's event bus.
func (e *Engine) Events() *event.Bus {
	return e.events
}
