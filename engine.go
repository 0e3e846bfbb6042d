package corewl

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// --- Inbound ---

// CoreInput is one of the four messages the Engine accepts, already
// demultiplexed into a single serialized stream (see Multiplexer).
type CoreInput interface{ isCoreInput() }

// ClientAddInput signals a newly connected client.
type ClientAddInput struct{ Client ClientId }

// ClientDelInput signals a disconnected client.
type ClientDelInput struct{ Client ClientId }

// ClientRequestInput carries a parsed protocol request from a client.
type ClientRequestInput struct {
	Client  ClientId
	Request Request
}

// BackendEventInput carries an event from the rendering backend.
type BackendEventInput struct{ Event BackendEvent }

func (ClientAddInput) isCoreInput()     {}
func (ClientDelInput) isCoreInput()     {}
func (ClientRequestInput) isCoreInput() {}
func (BackendEventInput) isCoreInput()  {}

// Request is a parsed client request.
type Request interface{ isRequest() }

// ReqSurfaceCreate asks for a new, empty surface.
type ReqSurfaceCreate struct{ Surface SurfaceId }

// ReqSurfaceDestroy destroys an existing surface.
type ReqSurfaceDestroy struct{ Surface SurfaceId }

// SurfaceCommitEntry is one (surface, new state) pair in a commit batch.
type SurfaceCommitEntry struct {
	Surface SurfaceId
	State   SurfaceState
}

// ReqSurfaceCommit atomically commits a batch of surface states.
type ReqSurfaceCommit struct{ Updates []SurfaceCommitEntry }

func (ReqSurfaceCreate) isRequest()  {}
func (ReqSurfaceDestroy) isRequest() {}
func (ReqSurfaceCommit) isRequest()  {}

// BackendEvent is an event posted by the rendering backend.
type BackendEvent interface{ isBackendEvent() }

// EvtBufferReleased signals the backend no longer needs buf.
type EvtBufferReleased struct{ Buffer Buffer }

// EvtOutputAdded signals a new output became available.
type EvtOutputAdded struct{ Output Output }

// EvtOutputRemoved signals an output went away.
type EvtOutputRemoved struct{ Output OutputId }

// EvtOutputFrame signals the backend is ready for a new frame on Output.
type EvtOutputFrame struct{ Output OutputId }

func (EvtBufferReleased) isBackendEvent() {}
func (EvtOutputAdded) isBackendEvent()    {}
func (EvtOutputRemoved) isBackendEvent()  {}
func (EvtOutputFrame) isBackendEvent()    {}

// --- Outbound ---

// Event is delivered to a client (or broadcast to all clients).
type Event interface{ isEvent() }

// EventOutputAdded announces a newly mapped output.
type EventOutputAdded struct{ MappedOutput MappedOutput }

// EventOutputRemoved announces an output was unmapped.
type EventOutputRemoved struct{ MappedOutput MappedOutput }

// EventSurfaceFrame delivers a frame callback for the given surfaces.
type EventSurfaceFrame struct{ Surfaces []SurfaceId }

// EventBufferReleased forwards a backend buffer release to its owner.
type EventBufferReleased struct{ Buffer Buffer }

// EventWindowConfigure tells a client its window's allotted size changed.
type EventWindowConfigure struct {
	Surface SurfaceId
	Size    Size
}

// ClientErrorKind classifies a client-facing protocol error.
type ClientErrorKind uint8

const (
	ErrBadSurface ClientErrorKind = iota
	ErrBadWindow
)

// EventError reports a client protocol error. The offending request is
// dropped and state is left unmutated.
type EventError struct{ Kind ClientErrorKind }

func (EventOutputAdded) isEvent()     {}
func (EventOutputRemoved) isEvent()   {}
func (EventSurfaceFrame) isEvent()    {}
func (EventBufferReleased) isEvent()  {}
func (EventWindowConfigure) isEvent() {}
func (EventError) isEvent()           {}

// BackendSurfaceInstance is one flattened surface instance inside a backend
// commit window: its accumulated offset and backend handle.
type BackendSurfaceInstance struct {
	Offset V2
	Handle BackendSurfaceHandle
}

// BackendCommitWindow is one window's rect plus its flattened surface list.
type BackendCommitWindow struct {
	Rect     Rect
	Surfaces []BackendSurfaceInstance
}

// BackendCommitOutput is one output's window list for a backend commit.
type BackendCommitOutput struct {
	Output  OutputId
	Windows []BackendCommitWindow
}

// BackendRequest is an instruction issued to the rendering backend.
type BackendRequest interface{ isBackendRequest() }

// BackendReqSurfaceCommit tells the backend what to draw, where, per output.
type BackendReqSurfaceCommit struct{ Outputs []BackendCommitOutput }

// BackendReqSurfaceDestroy relinquishes backend handles.
type BackendReqSurfaceDestroy struct{ Handles []BackendSurfaceHandle }

func (BackendReqSurfaceCommit) isBackendRequest()  {}
func (BackendReqSurfaceDestroy) isBackendRequest() {}

// CoreOutputF is one effect emitted by a single Engine.Step call. Effects
// for one input are emitted in program order; see the ordering guarantees
// documented on Engine.Step.
type CoreOutputF interface{ isCoreOutputF() }

// EffectClientEvent delivers Event to Target, or broadcasts it to every
// connected client when Target is nil.
type EffectClientEvent struct {
	Target *ClientId
	Event  Event
}

// EffectBackendRequest issues Request to the backend.
type EffectBackendRequest struct{ Request BackendRequest }

// EffectBackendSurfGet announces a fresh backend handle was allocated for a
// newly created surface.
type EffectBackendSurfGet struct {
	Surface ClientSurfaceId
	Handle  BackendSurfaceHandle
}

// EffectCoreError reports an internal inconsistency. Non-fatal; the Engine
// continues processing subsequent inputs.
type EffectCoreError struct{ Err error }

func (EffectClientEvent) isCoreOutputF()     {}
func (EffectBackendRequest) isCoreOutputF()  {}
func (EffectBackendSurfGet) isCoreOutputF()  {}
func (EffectCoreError) isCoreOutputF()       {}

// --- State ---

// ClientData is the per-client state created on ClientAdd and destroyed on
// ClientDel.
type ClientData struct {
	Surfaces *SurfaceMap
}

// CoreState is the Engine's full authoritative model.
type CoreState struct {
	Outputs    []MappedOutput
	Clients    map[ClientId]*ClientData
	Universe   *Universe[ClientSurfaceId]
	LastLayout []LayoutEntry[ClientSurfaceId]
}

// Engine is the single-threaded orchestrator: it demultiplexes CoreInput,
// mutates the Surface Map and Universe, recomputes Layout, and emits
// correctly ordered, de-duplicated commits and events. It is otherwise
// stateless between Step calls: no implicit blocking, retry, or async wait.
type Engine struct {
	state   CoreState
	handles *Diet
}

// NewEngine returns an Engine with an empty state and the given workspace
// tags (order preserved). Pass no tags to start with no workspaces at all.
func NewEngine(tags ...string) *Engine {
	return &Engine{
		state: CoreState{
			Clients:  make(map[ClientId]*ClientData),
			Universe: NewUniverse[ClientSurfaceId](tags),
		},
		handles: NewDiet(),
	}
}

// State returns the Engine's current state for read-only inspection (tests,
// introspection tooling). Callers must not mutate the returned value.
func (e *Engine) State() CoreState {
	return e.state
}

// Step processes one CoreInput to completion and returns the ordered
// effects it produced.
//
// Ordering guarantees: (1) effects from a single input are emitted in
// program order; (2) a WindowConfigure precedes the BackendCommit of the
// same layout change; (3) an OutputAdded broadcast to existing clients
// precedes any subsequent WindowConfigure referring to that output's
// screen; (4) on ClientDel, the universe filter and its backend commit
// happen before SurfaceDestroy.
func (e *Engine) Step(input CoreInput) []CoreOutputF {
	switch in := input.(type) {
	case ClientAddInput:
		return e.stepClientAdd(in.Client)
	case ClientDelInput:
		return e.stepClientDel(in.Client)
	case ClientRequestInput:
		return e.stepClientRequest(in.Client, in.Request)
	case BackendEventInput:
		return e.stepBackendEvent(in.Event)
	default:
		return nil
	}
}

func (e *Engine) stepClientAdd(cid ClientId) []CoreOutputF {
	e.state.Clients[cid] = &ClientData{Surfaces: NewSurfaceMap()}
	out := make([]CoreOutputF, 0, len(e.state.Outputs))
	for _, mo := range e.state.Outputs {
		out = append(out, clientEvent(cid, EventOutputAdded{MappedOutput: mo}))
	}
	return out
}

func (e *Engine) stepClientDel(cid ClientId) []CoreOutputF {
	cd, ok := e.state.Clients[cid]
	if !ok {
		return []CoreOutputF{internalErrorEffect(fmt.Errorf("client del: %w: %d", ErrUnknownClient, cid))}
	}
	var handles []BackendSurfaceHandle
	for _, sid := range cd.Surfaces.AllIds() {
		if s, ok := cd.Surfaces.Lookup(sid); ok && s.BackendData != nil {
			handles = append(handles, s.BackendData)
		}
	}
	delete(e.state.Clients, cid)
	e.state.Universe.Filter(func(w ClientSurfaceId) bool { return w.Client != cid })

	out := e.recomputeLayout()
	if len(handles) > 0 {
		out = append(out, backendRequestEffect(BackendReqSurfaceDestroy{Handles: handles}))
	}
	return out
}

func (e *Engine) stepClientRequest(cid ClientId, req Request) []CoreOutputF {
	cd, ok := e.state.Clients[cid]
	if !ok {
		return []CoreOutputF{internalErrorEffect(fmt.Errorf("client request: %w: %d", ErrUnknownClient, cid))}
	}
	switch r := req.(type) {
	case ReqSurfaceCreate:
		handle := backendHandle{id: uint64(e.handles.Alloc())}
		cd.Surfaces.Insert(r.Surface, Surface{BackendData: handle})
		return []CoreOutputF{
			EffectBackendSurfGet{Surface: ClientSurfaceId{Client: cid, Surface: r.Surface}, Handle: handle},
		}
	case ReqSurfaceDestroy:
		return e.stepSurfaceDestroy(cid, cd, r.Surface)
	case ReqSurfaceCommit:
		return e.stepSurfaceCommit(cid, cd, r.Updates)
	default:
		return nil
	}
}

func (e *Engine) stepSurfaceDestroy(cid ClientId, cd *ClientData, sid SurfaceId) []CoreOutputF {
	s, ok := cd.Surfaces.Lookup(sid)
	if !ok {
		return clientProtocolErrorEffects(cid, ErrBadSurface, fmt.Errorf("surface destroy: %w: %d", ErrUnknownSurface, sid))
	}
	e.state.Universe.Delete(ClientSurfaceId{Client: cid, Surface: sid})
	out := e.recomputeLayout()
	cd.Surfaces.Delete(sid)
	if s.BackendData != nil {
		out = append(out, backendRequestEffect(BackendReqSurfaceDestroy{Handles: []BackendSurfaceHandle{s.BackendData}}))
	}
	return out
}

func (e *Engine) stepSurfaceCommit(cid ClientId, cd *ClientData, updates []SurfaceCommitEntry) []CoreOutputF {
	var out []CoreOutputF
	type universeOp struct {
		insert bool
		w      ClientSurfaceId
	}
	var ops []universeOp

	// Validate the whole batch first: one unknown surface drops the entire
	// request without touching any state.
	for _, u := range updates {
		if _, ok := cd.Surfaces.Lookup(u.Surface); !ok {
			return clientProtocolErrorEffects(cid, ErrBadSurface, fmt.Errorf("surface commit: %w: %d", ErrUnknownSurface, u.Surface))
		}
	}

	for _, u := range updates {
		old, _ := cd.Surfaces.Lookup(u.Surface)
		newState := u.State
		if newState.Window != nil {
			sanitized := *newState.Window
			sanitized.Title = sanitizeWindowText(sanitized.Title)
			sanitized.Class = sanitizeWindowText(sanitized.Class)
			newState.Window = &sanitized
		}
		wasMapped := old.State.IsMapped()
		cd.Surfaces.ModifyState(u.Surface, func(SurfaceState) SurfaceState { return newState })
		nowMapped := newState.IsMapped()
		w := ClientSurfaceId{Client: cid, Surface: u.Surface}
		switch {
		case !wasMapped && nowMapped:
			ops = append(ops, universeOp{insert: true, w: w})
		case wasMapped && !nowMapped:
			ops = append(ops, universeOp{insert: false, w: w})
		}
	}

	for _, op := range ops {
		if op.insert {
			e.state.Universe.Insert(op.w)
		} else {
			e.state.Universe.Delete(op.w)
		}
	}

	out = append(out, e.recomputeLayout()...)
	return out
}

func (e *Engine) stepBackendEvent(ev BackendEvent) []CoreOutputF {
	switch be := ev.(type) {
	case EvtBufferReleased:
		if _, ok := e.state.Clients[be.Buffer.ClientId]; !ok {
			return nil // client gone; must not crash, simply dropped
		}
		return []CoreOutputF{clientEvent(be.Buffer.ClientId, EventBufferReleased{Buffer: be.Buffer})}
	case EvtOutputAdded:
		return e.stepOutputAdded(be.Output)
	case EvtOutputRemoved:
		return e.stepOutputRemoved(be.Output)
	case EvtOutputFrame:
		return e.stepOutputFrame(be.Output)
	default:
		return nil
	}
}

func (e *Engine) stepOutputAdded(o Output) []CoreOutputF {
	filtered := e.state.Outputs[:0:0]
	for _, mo := range e.state.Outputs {
		if mo.Output.ID != o.ID {
			filtered = append(filtered, mo)
		}
	}
	mo := mapOutput(outputsRight(filtered), o)
	e.state.Outputs = append([]MappedOutput{mo}, filtered...)

	out := []CoreOutputF{broadcastEvent(EventOutputAdded{MappedOutput: mo})}
	e.state.Universe.SetOutputs(e.state.Outputs)
	out = append(out, e.recomputeLayout()...)
	return out
}

func (e *Engine) stepOutputRemoved(oid OutputId) []CoreOutputF {
	newList, ok := deleteOutput(oid, e.state.Outputs)
	if !ok {
		return []CoreOutputF{internalErrorEffect(fmt.Errorf("output removed: %w: %d", ErrUnknownOutput, oid))}
	}
	var removed MappedOutput
	for _, mo := range e.state.Outputs {
		if mo.Output.ID == oid {
			removed = mo
			break
		}
	}
	e.state.Outputs = newList

	out := []CoreOutputF{broadcastEvent(EventOutputRemoved{MappedOutput: removed})}
	e.state.Universe.SetOutputs(e.state.Outputs)
	out = append(out, e.recomputeLayout()...)
	return out
}

func (e *Engine) stepOutputFrame(oid OutputId) []CoreOutputF {
	var out []CoreOutputF
	for _, w := range e.state.Universe.OnOutput(oid) {
		cd, ok := e.state.Clients[w.Client]
		if !ok {
			continue
		}
		ids := cd.Surfaces.LookupAllIds(w.Surface)
		out = append(out, clientEvent(w.Client, EventSurfaceFrame{Surfaces: ids}))
	}
	return out
}

// recomputeLayout recomputes Layout over the current Universe, diffs it
// against LastLayout (emitting WindowConfigure for every window whose
// allotted size changed), replaces LastLayout, and always emits a backend
// commit reflecting the new layout.
func (e *Engine) recomputeLayout() []CoreOutputF {
	newLayout := Layout(e.state.Universe)
	out := e.diffConfigures(e.state.LastLayout, newLayout)
	e.state.LastLayout = newLayout
	out = append(out, backendRequestEffect(e.buildBackendCommit(newLayout)))
	return out
}

// diffConfigures emits WindowConfigure for each window whose layout size
// differs between old and new, ignoring position.
func (e *Engine) diffConfigures(oldLayout, newLayout []LayoutEntry[ClientSurfaceId]) []CoreOutputF {
	oldSizes := make(map[ClientSurfaceId]Size)
	for _, entry := range oldLayout {
		for _, wr := range entry.Windows {
			oldSizes[wr.Window] = wr.Rect.Size
		}
	}

	var out []CoreOutputF
	for _, entry := range newLayout {
		for _, wr := range entry.Windows {
			if oldSizes[wr.Window] != wr.Rect.Size {
				out = append(out, clientEvent(wr.Window.Client, EventWindowConfigure{
					Surface: wr.Window.Surface,
					Size:    wr.Rect.Size,
				}))
			}
		}
	}
	return out
}

// buildBackendCommit turns a layout into the wire-level commit payload: for
// each (output, windows) pair, each window's rect origin becomes the
// flatten offset passed into that window's client's SurfaceMap.LookupAll.
func (e *Engine) buildBackendCommit(layout []LayoutEntry[ClientSurfaceId]) BackendReqSurfaceCommit {
	outputs := make([]BackendCommitOutput, 0, len(layout))
	for _, entry := range layout {
		windows := make([]BackendCommitWindow, 0, len(entry.Windows))
		for _, wr := range entry.Windows {
			var surfaces []BackendSurfaceInstance
			if cd, ok := e.state.Clients[wr.Window.Client]; ok {
				for _, fs := range cd.Surfaces.LookupAll(wr.Rect.Origin, wr.Window.Surface) {
					surfaces = append(surfaces, BackendSurfaceInstance{Offset: fs.Offset, Handle: fs.Backend})
				}
			}
			windows = append(windows, BackendCommitWindow{Rect: wr.Rect, Surfaces: surfaces})
		}
		outputs = append(outputs, BackendCommitOutput{Output: entry.Output.Output.ID, Windows: windows})
	}
	return BackendReqSurfaceCommit{Outputs: outputs}
}

func clientEvent(cid ClientId, ev Event) CoreOutputF {
	c := cid
	return EffectClientEvent{Target: &c, Event: ev}
}

func broadcastEvent(ev Event) CoreOutputF {
	return EffectClientEvent{Target: nil, Event: ev}
}

func backendRequestEffect(req BackendRequest) CoreOutputF {
	return EffectBackendRequest{Request: req}
}

func internalErrorEffect(err error) CoreOutputF {
	return EffectCoreError{Err: newInternalError(err)}
}

// clientProtocolErrorEffects reports a client-protocol CoreError for err as
// both an EventError of the given kind to cid (the wire-level form the
// client sees) and an EffectCoreError (the classified, loggable form a
// host can errors.Is/errors.As against). The client event is always first,
// matching every other CoreOutputF ordering guarantee Engine.Step makes.
func clientProtocolErrorEffects(cid ClientId, kind ClientErrorKind, err error) []CoreOutputF {
	return []CoreOutputF{
		clientEvent(cid, EventError{Kind: kind}),
		EffectCoreError{Err: newClientError(err)},
	}
}

// sanitizeWindowText normalizes client-controlled window text (title,
// class) to Unicode NFC and strips C0/DEL control characters, upgrading
// the ASCII-only filename-safety filter this is grounded on to handle
// arbitrary untrusted UTF-8.
func sanitizeWindowText(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
