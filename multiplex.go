package corewl

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// connectReq is a request to allocate a fresh ClientId, routed through the
// Multiplexer's own select loop so allocation can never race with a
// concurrent Free triggered by a disconnect flowing through the same loop.
type connectReq struct {
	resp chan ClientId
}

// Multiplexer owns the four independent input sources a host has — client
// connects, client disconnects, per-client requests, and backend events —
// and serializes them in arrival order into the single ordered CoreInput
// stream Engine.Step expects. It also owns the Diet allocator that hands
// out ClientIds on connect and reclaims them on disconnect, so a host never
// has to invent its own connection-id scheme. It holds no compositor state
// beyond that allocator; it is otherwise pure plumbing, grounded on
// willow's Scene.processInput, which likewise demultiplexes several input
// sources into one ordered per-tick call sequence before any state
// mutation happens.
type Multiplexer struct {
	ids           *Diet
	connect       chan connectReq
	clientDel     chan ClientId
	clientRequest chan ClientRequestInput
	backendEvent  chan BackendEvent
}

// NewMultiplexer returns a Multiplexer with the given per-source channel
// buffer depth. A depth of 0 yields unbuffered (synchronous-handoff)
// channels. connect is always unbuffered: Connect blocks until Run has
// allocated and handed back the new ClientId.
func NewMultiplexer(bufferDepth int) *Multiplexer {
	return &Multiplexer{
		ids:           NewDiet(),
		connect:       make(chan connectReq),
		clientDel:     make(chan ClientId, bufferDepth),
		clientRequest: make(chan ClientRequestInput, bufferDepth),
		backendEvent:  make(chan BackendEvent, bufferDepth),
	}
}

// Connect allocates a fresh ClientId from the Diet pool, enqueues its
// ClientAddInput, and returns the allocated id once Run has processed the
// request — so the host can associate it with the underlying connection
// object before any request referencing that client can arrive. Must not
// be called after Run's context is canceled.
func (m *Multiplexer) Connect() ClientId {
	req := connectReq{resp: make(chan ClientId, 1)}
	m.connect <- req
	return <-req.resp
}

// ClientDel returns the channel a host pushes disconnected client ids to.
// cid's Diet slot is freed only once Run actually processes the
// disconnect, so it cannot be reissued to a new Connect before the Engine
// has seen the old client go.
func (m *Multiplexer) ClientDel() chan<- ClientId { return m.clientDel }

// ClientRequest returns the channel a host pushes parsed client requests
// to.
func (m *Multiplexer) ClientRequest() chan<- ClientRequestInput { return m.clientRequest }

// BackendEvent returns the channel a host pushes backend events to.
func (m *Multiplexer) BackendEvent() chan<- BackendEvent { return m.backendEvent }

// Run serializes the four sources in arrival order, feeds each resulting
// CoreInput to eng.Step one at a time, and fans every effect Step returns
// into sink (nil sink simply discards them). It blocks until ctx is
// canceled and returns ctx.Err(). Meant to run under an errgroup alongside
// a host's reader/writer/backend goroutines so a cancellation on any of
// them tears the whole pipeline down together.
func (m *Multiplexer) Run(ctx context.Context, eng *Engine, sink EventSink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-m.connect:
			cid := ClientId(m.ids.Alloc())
			req.resp <- cid
			m.step(eng, sink, ClientAddInput{Client: cid})
		case cid := <-m.clientDel:
			m.step(eng, sink, ClientDelInput{Client: cid})
			m.ids.Free(uint32(cid))
		case req := <-m.clientRequest:
			m.step(eng, sink, req)
		case ev := <-m.backendEvent:
			m.step(eng, sink, BackendEventInput{Event: ev})
		}
	}
}

func (m *Multiplexer) step(eng *Engine, sink EventSink, in CoreInput) {
	for _, eff := range eng.Step(in) {
		if sink != nil {
			sink.Emit(eff)
		}
	}
}

// RunSupervised runs m under a golang.org/x/sync/errgroup-supervised
// context derived from ctx, alongside any additional goroutines a host
// wants torn down together with the multiplexer (e.g. protocol reader
// loops feeding m's channels). Returns the first non-nil error from m or
// from extra.
func RunSupervised(ctx context.Context, m *Multiplexer, eng *Engine, sink EventSink, extra ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.Run(gctx, eng, sink) })
	for _, fn := range extra {
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}
