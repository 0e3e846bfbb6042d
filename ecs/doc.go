// Package ecs provides ECS adapters for corewl's engine effect stream.
//
// The primary adapter is [NewDonburiSink], which republishes every
// [corewl.CoreOutputF] an [corewl.Engine.Step] call returns into a
// [Donburi] world as a typed event. Subscribe to [CoreEventType] in your
// ECS systems to receive them — useful for debug overlays and other
// introspection tooling that wants to observe engine effects without
// sitting in the critical path that delivers them to clients and the
// backend.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	for _, eff := range eng.Step(in) {
//		sink.Emit(eff)
//	}
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
