package ecs

import (
	"testing"

	"github.com/corewl/corewl"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSinkEmit(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []corewl.CoreOutputF
	CoreEventType.Subscribe(world, func(w donburi.World, e corewl.CoreOutputF) {
		received = append(received, e)
	})

	cid := corewl.ClientId(7)
	sink.Emit(corewl.EffectClientEvent{Target: &cid, Event: corewl.EventBufferReleased{}})
	sink.Emit(corewl.EffectCoreError{Err: nil})

	// Events are queued — process them.
	CoreEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}

	ev0, ok := received[0].(corewl.EffectClientEvent)
	if !ok || ev0.Target == nil || *ev0.Target != 7 {
		t.Errorf("event 0 = %+v", received[0])
	}

	if _, ok := received[1].(corewl.EffectCoreError); !ok {
		t.Errorf("event 1 = %+v, want EffectCoreError", received[1])
	}
}

func TestDonburiSinkImplementsEventSink(t *testing.T) {
	world := donburi.NewWorld()
	var sink corewl.EventSink = NewDonburiSink(world)
	_ = sink // compile-time interface check
}

func TestDonburiSinkMultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	CoreEventType.Subscribe(world, func(w donburi.World, e corewl.CoreOutputF) {
		count1++
	})
	CoreEventType.Subscribe(world, func(w donburi.World, e corewl.CoreOutputF) {
		count2++
	})

	sink.Emit(corewl.EffectCoreError{})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
