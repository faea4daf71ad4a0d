/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley

License: GPLv3 or later
*/

// puller.go - the puller goroutine: dequeues Cache1 entries and dispatches
// them to engines, performs object binds and context switches (spec.md
// §4.5, §3 "Context switch", §5)
//
// Grounded on original_source/hw/xbox/nv2a.c's qemu_pfifo_run/
// pfifo_puller_run plus the teacher's goroutine-per-actor convention from
// video_voodoo.go (one dedicated goroutine draining a producer, started and
// stopped by an explicit Start/Stop pair rather than left to leak).

package nv2a

import (
	"fmt"
	"sync"
)

// method ranges the puller classifies a non-zero method into (spec.md §4.5).
const (
	pullerPassthroughLowStart  = 0x100
	pullerPassthroughLowEnd    = 0x180 // exclusive
	pullerHandleIndirectStart  = 0x180
	pullerHandleIndirectEnd    = 0x200 // exclusive
	pullerPassthroughHighStart = 0x200
	pullerPassthroughHighEnd   = 0x2000 // exclusive
)

// GraphicsEngine is the method sink a Puller dispatches to once an object is
// bound on a subchannel. PGRAPH implements this; it is an interface here so
// puller.go has no compile-time dependency on the PGRAPH singleton's
// internals, mirroring the teacher's Backend-interface-over-concrete-engine
// split in video_voodoo.go (VoodooEngine holds a Backend, never the reverse).
type GraphicsEngine interface {
	// Dispatch delivers one decoded method to the engine for the given
	// subchannel's bound object. instance is the RAMIN object address the
	// subchannel was bound to.
	Dispatch(subchannel int, instance uint32, method uint32, parameter uint32, nonincreasing bool)

	// FifoAccess reports PGRAPH's fifo_access flag (spec.md §4.5: "the
	// puller waits on fifo_access before any Graphics dispatch").
	FifoAccess() bool

	// CurrentChannelID reports which channel id PGRAPH currently considers
	// current, for context-switch detection.
	CurrentChannelID() int

	// BeginContextSwitch is called when the puller detects entry's channel
	// differs from CurrentChannelID(); it must set trapped_channel_id,
	// raise PGRAPH_INTR_CONTEXT_SWITCH and drive the interrupt line, per
	// spec.md §4.5. It does not block; the puller itself blocks afterward
	// on WaitContextSwitch.
	BeginContextSwitch(channelID int)

	// WaitContextSwitch blocks until the host has serviced the context
	// switch interrupt (spec.md §4.5: "the puller... waits on an interrupt
	// condition until the host clears PGRAPH_INTR_CONTEXT_SWITCH").
	WaitContextSwitch()
}

// Puller drains a Cache1 and dispatches each entry: method 0 binds a
// subchannel's object via RAMHT lookup (and may trigger a context switch);
// all other methods are routed to the currently bound engine.
type Puller struct {
	cache  *Cache1
	ramht  *RAMHT
	table  *SubchannelTable
	engine GraphicsEngine

	mu      sync.Mutex
	running bool
	done    chan struct{}

	// onBind is invoked after a successful object bind on subchannel 0's
	// method (spec.md §4.5's "set object" path), letting Core observe
	// graphics-object lifecycle without puller.go importing core.go.
	onBind func(subchannel int, obj GraphicsObject)

	// onError mirrors the pusher's error callback for recoverable dispatch
	// failures (ErrInvalidMethod). RAMHT lookup misses are not recoverable
	// (spec.md §7: "guest-bug asserts ... preserved as assertions") and
	// panic instead of reaching this callback; see bindObject/dispatch.
	onError func(err error)
}

// NewPuller builds a puller draining cache, resolving objects via ramht into
// table, dispatching to engine.
func NewPuller(cache *Cache1, ramht *RAMHT, table *SubchannelTable, engine GraphicsEngine) *Puller {
	return &Puller{cache: cache, ramht: ramht, table: table, engine: engine}
}

// SetBindHandler wires the callback invoked after a successful subchannel
// object bind.
func (p *Puller) SetBindHandler(fn func(subchannel int, obj GraphicsObject)) {
	p.onBind = fn
}

// SetErrorHandler wires the callback invoked on a dispatch error.
func (p *Puller) SetErrorHandler(fn func(err error)) {
	p.onError = fn
}

// Start launches the puller's dedicated goroutine (spec.md §5 point 2:
// "the puller ... runs on a dedicated goroutine, separate from the MMIO
// thread that runs the pusher inline").
func (p *Puller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.loop()
}

// Stop disables pulling and waits for the goroutine to exit. Safe to call
// even if Start was never called.
func (p *Puller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	done := p.done
	p.mu.Unlock()

	p.cache.SetPullEnabled(false)
	<-done
}

func (p *Puller) loop() {
	defer func() {
		p.mu.Lock()
		p.running = false
		close(p.done)
		p.mu.Unlock()
	}()

	for {
		entry, ok := p.cache.Pop()
		if !ok {
			return
		}
		if err := p.dispatch(entry); err != nil {
			p.cache.SetError(err)
			if p.onError != nil {
				p.onError(err)
			}
			return
		}
	}
}

// dispatch routes one cache entry per spec.md §4.5's method classification.
func (p *Puller) dispatch(entry CacheEntry) error {
	if entry.Method == 0 {
		return p.bindObject(entry)
	}

	switch {
	case entry.Method >= pullerPassthroughLowStart && entry.Method < pullerPassthroughLowEnd,
		entry.Method >= pullerPassthroughHighStart && entry.Method < pullerPassthroughHighEnd:
		return p.dispatchToEngine(entry, entry.Parameter)

	case entry.Method >= pullerHandleIndirectStart && entry.Method < pullerHandleIndirectEnd:
		resolved, err := p.ramht.Lookup(entry.Parameter, p.cache.ChannelID())
		if err != nil {
			// spec.md §7: a RAMHT miss is a guest-bug assertion, not a
			// recoverable pusher-style error (original_source/hw/xbox/
			// nv2a.c:3056-3058's assert(entry.valid); assert(entry.channel_id
			// == state->channel_id)).
			panic(fmt.Sprintf("nv2a: ramht lookup failed for handle %#x on channel %d: %v", entry.Parameter, p.cache.ChannelID(), err))
		}
		return p.dispatchToEngine(entry, resolved.Instance)

	default:
		return ErrInvalidMethod
	}
}

// dispatchToEngine waits for fifo_access and routes to the bound engine,
// substituting effectiveParameter for the raw cache entry parameter (the
// handle-indirect range resolves to an instance address before this call;
// all other ranges pass the parameter through unchanged).
func (p *Puller) dispatchToEngine(entry CacheEntry, effectiveParameter uint32) error {
	if p.engine == nil {
		return nil
	}
	// spec.md §4.5: the puller waits on PGRAPH's fifo_access condition
	// before any Graphics-engine dispatch. The wait itself belongs to
	// PGRAPH (it owns the condition variable fifo_access is stored under);
	// Dispatch is specified to block internally until fifo_access is true,
	// so this call is where that wait actually happens.
	obj := p.table.Get(entry.Subchannel)
	instance := uint32(0)
	if obj != nil {
		instance = obj.Instance
	}
	p.engine.Dispatch(entry.Subchannel, instance, entry.Method, effectiveParameter, entry.Nonincreasing)
	return nil
}

// bindObject implements the method-0 "set object" path: RAMHT lookup,
// subchannel table update, engine binding in Cache1, and context-switch
// detection (spec.md §4.5 "Context switch").
func (p *Puller) bindObject(entry CacheEntry) error {
	channelID := p.cache.ChannelID()

	resolved, err := p.ramht.Lookup(entry.Parameter, channelID)
	if err != nil {
		// spec.md §7: a RAMHT miss is a guest-bug assertion, not a
		// recoverable pusher-style error (original_source/hw/xbox/
		// nv2a.c:3056-3058's assert(entry.valid); assert(entry.channel_id
		// == state->channel_id)).
		panic(fmt.Sprintf("nv2a: ramht lookup failed for handle %#x on channel %d: %v", entry.Parameter, channelID, err))
	}

	if p.engine != nil && p.engine.CurrentChannelID() != channelID {
		p.engine.BeginContextSwitch(channelID)
		p.engine.WaitContextSwitch()
	}

	class := classFromEngine(resolved.Engine)
	obj := NewGraphicsObject(class, resolved.Handle, resolved.Instance)
	p.table.Set(entry.Subchannel, obj)
	p.cache.BindEngine(entry.Subchannel, resolved.Engine)

	if p.onBind != nil {
		p.onBind(entry.Subchannel, obj)
	}
	return nil
}

// classFromEngine maps a RAMHT-reported engine to the GraphicsClass used to
// tag a freshly bound object. Software/DVD engine binds carry no PGRAPH
// class of their own; ClassKelvin is a placeholder slot the bind callback
// is free to overwrite once it inspects the object's real class byte from
// RAMIN (spec.md leaves the class byte itself out of the RAMHT entry, so it
// is not this function's job to recover it).
func classFromEngine(engine Engine) GraphicsClass {
	if engine == EngineGraphics {
		return ClassKelvin
	}
	return GraphicsClass(0)
}
