// Package corewl implements the stateful core of a Wayland compositor: the
// arbiter that sits between client processes and a rendering backend.
//
// The package maintains the authoritative model of which surfaces exist, how
// they compose into window trees (the [SurfaceMap]), which windows are mapped
// on which outputs (the [Universe]), and what rectangles each window occupies
// on screen (the pure [Layout] function). From that model [Engine.Step]
// issues commit instructions to the backend and events back to clients.
//
// # Scope
//
// This package does not parse wire protocol bytes, does not render, does not
// schedule repaint timers, and does not route keyboard/pointer input. Those
// concerns live at the edges named by [BackendSurfaceHandle], [Request], and
// [BackendEvent] — this package only ever sees the parsed, typed shapes.
//
// # Quick start
//
// An [Engine] is driven by feeding it [CoreInput] values one at a time and
// collecting the [CoreOutputF] effects it returns:
//
//	eng := corewl.NewEngine()
//	outs := eng.Step(corewl.BackendEventInput{Event: corewl.EvtOutputAdded{Output: out}})
//	outs = eng.Step(corewl.ClientAddInput{Client: cid})
//
// For a multi-goroutine host (client reader/writer tasks, a backend thread),
// wrap the Engine in a [Multiplexer], which serializes all four input
// streams into the order [Engine.Step] expects.
//
// # Scene graph
//
// Every client owns a [SurfaceMap]: surfaces form trees via [Attachment],
// resolved root-first. The [Universe] tracks which [ClientSurfaceId]s are
// mapped windows and how they're distributed across workspaces, screens, and
// the floating set. [Layout] is a pure function from a Universe to
// per-output rectangles.
//
// ECS/debug-tool integration is available via the [Donburi] adapter in
// corewl/ecs, which republishes engine effects onto an ECS event bus for
// external subscribers.
//
// [Donburi]: https://github.com/yohamta/donburi
package corewl
