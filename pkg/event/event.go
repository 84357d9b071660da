// pkg/event/event.go
package event

import (
	"sync"
	"time"

	"github.com/arvheim/boxsim/pkg/entity"
)

// Type represents the type of event
type Type string

// Simulation lifecycle event types
const (
	EntityRegistered Type = "entity_registered"
	EntitySpawned    Type = "entity_spawned"
	GravityChanged   Type = "gravity_changed"
	SimStarted       Type = "sim_started"
	SimStopped       Type = "sim_stopped"
	FrameRendered    Type = "frame_rendered"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publisher's goroutine.
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// EntityEvent carries information about entity lifecycle events
type EntityEvent struct {
	BaseEvent
	EntityID entity.ID
}

// NewEntityEvent creates a new entity lifecycle event
func NewEntityEvent(eventType Type, source interface{}, id entity.ID) *EntityEvent {
	return &EntityEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityID: id,
	}
}

// GravityEvent carries the old and new gravity values of a world
type GravityEvent struct {
	BaseEvent
	Old float64
	New float64
}

// NewGravityEvent creates a new gravity change event
func NewGravityEvent(source interface{}, oldValue, newValue float64) *GravityEvent {
	return &GravityEvent{
		BaseEvent: BaseEvent{
			EventType: GravityChanged,
			Source:    source,
		},
		Old: oldValue,
		New: newValue,
	}
}

// FrameEvent is published after a completed tick and render pass
type FrameEvent struct {
	BaseEvent
	Frame uint64
	Step  time.Duration
}

// NewFrameEvent creates a new frame completion event
func NewFrameEvent(source interface{}, frame uint64, step time.Duration) *FrameEvent {
	return &FrameEvent{
		BaseEvent: BaseEvent{
			EventType: FrameRendered,
			Source:    source,
		},
		Frame: frame,
		Step:  step,
	}
}
