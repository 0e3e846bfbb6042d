// Package ecs bridges corewl's engine effects onto a Donburi ECS world.
package ecs

import (
	"github.com/corewl/corewl"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// CoreEventType is the Donburi event type corewl effects are published as.
// Subscribe to this in an ECS system to observe every commit and client
// event the engine produces.
var CoreEventType = events.NewEventType[corewl.CoreOutputF]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink returns a corewl.EventSink backed by a Donburi world.
// Every effect passed to Emit is published to CoreEventType and can be
// consumed with events.Subscribe and events.ProcessEvents (or
// ProcessAllEvents for multiple event types on the same world).
func NewDonburiSink(world donburi.World) corewl.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Emit(eff corewl.CoreOutputF) {
	CoreEventType.Publish(s.world, eff)
}
