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

// core.go - Core: the top-level wiring of PFIFO and PGRAPH into one emulated
// NV2A unit (spec.md §2, §6).
//
// Mirrors the teacher's top-level machine assembly (NewVoodooEngine(bus)
// wiring a VideoChip's register windows to a backend): Core owns the two
// guest-memory windows, builds the PFIFO chain (RAMHT, per-channel Cache1,
// Pusher, Puller) over them, builds the PGRAPH method engine, and wires the
// cross-references (DMA resolver, VRAM, IRQ line, context-switch callback)
// that spec.md §5 says must exist between them. MMIO register dispatch
// itself lives in mmio.go.
package nv2a

// IRQLine is the host's interrupt controller line this unit drives (spec.md
// §4.13, §6): out of this core's scope to implement, the same way the
// teacher's VideoChip takes an IRQ callback from its enclosing machine
// rather than owning a PIC itself.
type IRQLine interface {
	AssertIRQ()
	DeassertIRQ()
}

// Default RAMHT placement within the RAMIN window (spec.md §4.2 leaves the
// exact base implementation-defined; this follows the well-known NV2A
// default of instance 0x10000 with a 4096-byte, 8-bytes-per-entry table --
// 512 entries -- unless a caller overrides it via Config in a future
// revision).
const (
	defaultRAMHTAddress = 0x10000
	defaultRAMHTSize    = 0x1000
)

// Core is one complete NV2A unit: PFIFO's command pipeline plus PGRAPH's
// method engine, bound to a pair of guest-memory windows and a host.
type Core struct {
	cfg Config

	vram  *GuestMemory
	ramin *GuestMemory
	dma   *DMAResolver
	ramht *RAMHT

	objects  *SubchannelTable
	channels []*Channel
	cache1   *Cache1
	pusher   *Pusher
	puller   *Puller
	pgraph   *PGRAPH

	irq IRQLine

	// pfifoPending/pfifoEnabled are PFIFO's own unit-level interrupt masks
	// (spec.md §4.13); PGRAPH carries its own pair internally.
	pfifoPending uint32
	pfifoEnabled uint32

	// pmcIntrEn is the master-level interrupt enable mask read back at
	// PMC_INTR_EN_0 (spec.md §6); PMC_INTR_0 itself is always the live
	// per-unit aggregate, never a latched value of its own.
	pmcIntrEn uint32

	host HostBinding
}

// NewCore assembles a Core from cfg, wiring every cross-reference spec.md
// §5 requires between PFIFO and PGRAPH. irq may be nil (tests that never
// inspect the interrupt line).
func NewCore(cfg Config, irq IRQLine) *Core {
	cfg = cfg.withDefaults()

	c := &Core{
		cfg:   cfg,
		vram:  NewGuestMemory(cfg.VRAMSize, nil),
		ramin: NewGuestMemory(cfg.RAMINSize, nil),
		irq:   irq,
	}

	c.dma = NewDMAResolver(c.ramin, c.vram)
	c.ramht = NewRAMHT(c.ramin, defaultRAMHTAddress, defaultRAMHTSize)

	c.objects = &SubchannelTable{}
	c.channels = make([]*Channel, cfg.Channels)
	for i := range c.channels {
		c.channels[i] = NewChannel(i)
	}

	c.cache1 = NewCache1(cfg.Cache1Depth)
	c.pusher = NewPusher(c.dma, c.cache1)
	c.pusher.SetErrorHandler(c.onPusherError)

	c.pgraph = NewPGRAPH(c.objects, cfg.ShaderCacheCapacity, c.deleteProgram)
	c.pgraph.SetDMAResolver(c.dma)
	c.pgraph.SetVRAM(c.vram)
	c.pgraph.SetAllowNonBGRAUBD3D(cfg.AllowNonBGRAUB_D3D)
	c.pgraph.SetIRQHandler(c.reevaluateIRQ)
	c.pgraph.SetContextSwitchHandler(nil)

	c.puller = NewPuller(c.cache1, c.ramht, c.objects, c.pgraph)
	c.puller.SetErrorHandler(c.onPullerError)

	// SetPut triggers the pusher inline on the MMIO thread (spec.md §4.3,
	// §5 point 1): the doorbell write that owns this channel also selects
	// it as Cache1's current channel (spec.md §4.5 "Runs on the channel
	// selected by Cache1's channel id").
	for _, ch := range c.channels {
		ch.SetPutCallback(c.onChannelPut)
	}

	return c
}

// SetPullEnabled implements PFIFO_CACHE1_PULL0_ACCESS (spec.md §5 point 2:
// "the puller ... lives while pull_enabled"). The puller's goroutine exits
// the moment Cache1 is drained with pulling disabled (Cache1.Pop returns
// ok=false), so re-enabling must relaunch it -- Puller.Start is idempotent
// against an already-running loop.
func (c *Core) SetPullEnabled(enabled bool) {
	c.cache1.SetPullEnabled(enabled)
	if enabled {
		c.puller.Start()
	}
}

// SetHostBinding wires the host graphics backend into PGRAPH (hostgpu.GLBackend
// in production).
func (c *Core) SetHostBinding(host HostBinding) {
	c.host = host
	c.pgraph.SetHostBinding(host)
}

// Close disables pulling and waits for the puller's goroutine to exit, if
// one is currently running (spec.md §5's "lives while pull_enabled").
func (c *Core) Close() {
	c.puller.Stop()
}

// Channel returns the channel at id, or nil if out of range.
func (c *Core) Channel(id int) *Channel {
	if id < 0 || id >= len(c.channels) {
		return nil
	}
	return c.channels[id]
}

// onChannelPut is the Pusher.Run entry point wired to every channel's
// doorbell PUT register (spec.md §4.3).
func (c *Core) onChannelPut(ch *Channel) {
	c.cache1.SetChannelID(ch.ID)
	c.pusher.Run(ch)
}

// onPusherError implements spec.md §4.4's pusher-error path: set Cache1's
// latched error, raise PFIFO_INTR_DMA_PUSHER, and disable push on the
// offending channel (spec.md §4.4 "the pusher halts the channel").
func (c *Core) onPusherError(ch *Channel, err error) {
	c.cache1.SetError(err)
	ch.SetPushEnabled(false)
	c.raisePFIFO(PFIFOIntrDMAPusher)
}

// onPullerError implements spec.md §4.5/§4.6's puller-error path: raise
// PFIFO_INTR_CACHE_ERROR (the puller already latched the error on Cache1
// and stopped its loop).
func (c *Core) onPullerError(err error) {
	c.raisePFIFO(PFIFOIntrCacheError)
}

// deleteProgram is the ShaderCache eviction callback (spec.md §9's bounded
// LRU): forwards to the host backend if one is wired, a no-op otherwise
// (tests that build a Core without a host binding never compile programs in
// the first place, so there is nothing to delete).
func (c *Core) deleteProgram(handle uint32) {
	if c.host != nil {
		c.host.DeleteProgram(handle)
	}
}

// raisePFIFO sets one or more PFIFO pending bits and re-drives the master
// IRQ line (spec.md §4.13).
func (c *Core) raisePFIFO(bits uint32) {
	c.pfifoPending |= bits
	c.reevaluateIRQ()
}

// ackPFIFO clears PFIFO pending bits (a host write-1s-to-clear) and
// re-drives the master IRQ line.
func (c *Core) ackPFIFO(bits uint32) {
	c.pfifoPending &^= bits
	c.reevaluateIRQ()
}

// reevaluateIRQ implements spec.md §4.13's interrupt aggregator: the master
// line is asserted iff any unit's (pending & enabled) is nonzero. This is
// PGRAPH's onIRQ callback and is also called directly after every PFIFO
// register write that can change pfifoPending/pfifoEnabled. It must never be
// called with PGRAPH's lock held (spec.md §5) -- PGRAPH itself only invokes
// this after unlocking, and the PFIFO-side callers here never take
// PGRAPH.mu at all.
func (c *Core) reevaluateIRQ() {
	if c.irq == nil {
		return
	}
	if c.masterPending()&c.pmcIntrEn != 0 {
		c.irq.AssertIRQ()
	} else {
		c.irq.DeassertIRQ()
	}
}

// masterPending folds each unit's own (pending & enabled) condition into
// its PMC_INTR_0 bit (spec.md §4.13: "set a unit-level bit in master
// pending iff (pending & enabled) != 0").
func (c *Core) masterPending() uint32 {
	var m uint32
	if c.pfifoPending&c.pfifoEnabled != 0 {
		m |= 1 << 8
	}
	if c.pgraph.IRQActive() {
		m |= 1 << 12
	}
	return m
}
