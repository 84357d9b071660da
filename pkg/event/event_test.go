package event

import (
	"testing"
	"time"
)

func TestBus_SubscribePublish(t *testing.T) {
	bus := NewBus()
	received := 0

	bus.Subscribe(SimStarted, func(e Event) {
		received++
		if e.GetType() != SimStarted {
			t.Errorf("handler got type %q, want %q", e.GetType(), SimStarted)
		}
	})

	bus.Publish(&BaseEvent{EventType: SimStarted})
	bus.Publish(&BaseEvent{EventType: SimStarted})

	if received != 2 {
		t.Errorf("expected handler to run twice, got %d", received)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	// Must not panic or block.
	bus.Publish(&BaseEvent{EventType: SimStopped})
}

func TestBus_HandlersOnlyReceiveSubscribedType(t *testing.T) {
	bus := NewBus()
	var got []Type

	bus.Subscribe(GravityChanged, func(e Event) {
		got = append(got, e.GetType())
	})

	bus.Publish(&BaseEvent{EventType: SimStarted})
	bus.Publish(NewGravityEvent(nil, 0, 9.81))

	if len(got) != 1 || got[0] != GravityChanged {
		t.Errorf("handler received %v, want exactly one %q", got, GravityChanged)
	}
}

func TestBus_MultipleHandlersForSameType(t *testing.T) {
	bus := NewBus()
	first, second := false, false

	bus.Subscribe(EntityRegistered, func(Event) { first = true })
	bus.Subscribe(EntityRegistered, func(Event) { second = true })

	bus.Publish(NewEntityEvent(EntityRegistered, nil, 7))

	if !first || !second {
		t.Errorf("all handlers must run: first=%v second=%v", first, second)
	}
}

func TestEntityEvent_CarriesID(t *testing.T) {
	evt := NewEntityEvent(EntitySpawned, nil, 42)
	if evt.EntityID != 42 {
		t.Errorf("EntityID = %d, want 42", evt.EntityID)
	}
	if evt.GetType() != EntitySpawned {
		t.Errorf("GetType() = %q, want %q", evt.GetType(), EntitySpawned)
	}
}

func TestGravityEvent_CarriesOldAndNew(t *testing.T) {
	evt := NewGravityEvent("engine", 9.81, -3)
	if evt.Old != 9.81 || evt.New != -3 {
		t.Errorf("gravity event = %+v", evt)
	}
	if evt.GetSource() != "engine" {
		t.Errorf("GetSource() = %v, want engine", evt.GetSource())
	}
}

func TestFrameEvent_CarriesFrameAndStep(t *testing.T) {
	evt := NewFrameEvent(nil, 12, 3600*time.Millisecond)
	if evt.Frame != 12 || evt.Step != 3600*time.Millisecond {
		t.Errorf("frame event = %+v", evt)
	}
}
