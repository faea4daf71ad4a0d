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

/*
pgraph_state.go - PGRAPH state singleton (spec.md §3, §5, §9 "Global state")

This is the single owner of all 3D-engine state: the register scratch, the
interrupt masks, surface/texture/vertex descriptors, vertex-program memory,
the constant file, inline draw buffers, and the shader fingerprint cache.
Ownership follows spec.md §3 exactly: "PGRAPH state is exclusively owned by
the puller while it holds the PGRAPH lock; MMIO handlers acquire the same
lock for inspection." One mutex covers the struct (spec.md §9 considers
splitting it into state/interrupt locks "if contention is measured" — this
port keeps the single lock the source uses, since nothing here measures
contention).
*/

package nv2a

import (
	"sync"

	"github.com/gviegas/scene/linear"
	"golang.org/x/sync/semaphore"
)

// SurfaceDescriptor is the shared shape of the color and zeta surface state
// (spec.md §3).
type SurfaceDescriptor struct {
	DrawDirty bool
	Pitch     uint32
	Format    SurfaceColorFormat
	Offset    uint32
	Type      SurfaceType
	ClipX0, ClipY0,
	ClipX1, ClipY1 uint32
	LogWidth, LogHeight uint32 // for swizzled surfaces

	// DMAInstance is the RAMIN instance address of the context DMA object
	// (color_dma/zeta_dma) this surface's Offset is relative to (spec.md
	// §4.1, §4.12: "color surface at color_dma.address + surface_color.offset").
	DMAInstance uint32
}

// TextureDescriptor is one of the four texture slots (spec.md §3, §4.9).
type TextureDescriptor struct {
	Dirty         bool
	Enabled       bool
	DMASelect     int // 0 = DMA A, 1 = DMA B
	Offset        uint32
	ColorFormat   TextureColorFormat
	LogWidth      uint32
	LogHeight     uint32
	MipmapLevels  uint32
	RectWidth     uint32
	RectHeight    uint32
	Pitch         uint32
	FilterMin     uint32
	FilterMag     uint32
	LODMinClamp   uint32
	LODMaxClamp   uint32
	AnisoClamp    uint32 // supplemented feature C.6: original's aniso clamp field
	RectScale     bool   // supplemented feature C.6: non-power-of-two rect handling
	Linear        bool   // true => rectangle target, unnormalised coords
}

// VertexAttributeDescriptor is one of the sixteen vertex-attribute slots
// (spec.md §3, §4.10, §4.11).
type VertexAttributeDescriptor struct {
	Format    VertexFormat
	Size      int // bytes per component
	Count     int // components; 0 disables the attribute
	Stride    int
	DMASelect int
	Offset    uint32

	InlineValue uint32 // fallback constant when Count == 0 (spec.md §4.10)

	NeedsConversion   bool
	ConvertedBuffer   []float32
	ConvertedCount    int // components after conversion (e.g. CMP -> 3)
	ConvertedElements int // number of elements currently materialized

	GLType    uint32
	Normalize bool
}

// InlineVertex is one record of the inline_buffer path (spec.md §4.7:
// "tightly packed {pos[4], diffuse}").
type InlineVertex struct {
	Position [4]float32
	Diffuse  uint32
}

// ShaderState is the fixed-size cache key described in spec.md §3. Equality
// is byte-wise, not field-wise, so this type intentionally holds only
// fixed-size/comparable data (no slices) — VertexProgramLen disambiguates
// how much of the fixed-length VertexProgramImage is meaningful.
type ShaderState struct {
	CombinerControl    uint32
	ShaderStageProgram uint32
	OtherStageInput    uint32
	FinalInputs        [2]uint32
	RGBIn              [8]uint32
	RGBOut             [8]uint32
	AlphaIn            [8]uint32
	AlphaOut           [8]uint32
	RectTex            [4]bool
	FixedFunction      bool
	VertexProgram      bool
	VertexProgramImage [vertexProgramTokenWords * 4]byte // zero-padded byte image
	VertexProgramLen   int
}

// PGRAPH is the 3D method engine's complete state (spec.md §3, §2's
// "PGRAPH state" row).
type PGRAPH struct {
	mu sync.Mutex

	interruptCond  *sync.Cond
	fifoAccessCond *sync.Cond

	// read_3d: counting semaphore (initial 0) for flip-stall (spec.md §5).
	read3D *semaphore.Weighted

	regs [8192]byte // 8kB register-addressable scratch (spec.md §3)

	pendingInterrupts uint32
	enabledInterrupts uint32

	channelID    int
	channelValid bool
	trappedChannelID int

	fifoAccess bool

	Color SurfaceDescriptor
	Zeta  SurfaceDescriptor

	Textures [4]TextureDescriptor

	VertexAttributes [16]VertexAttributeDescriptor

	// Vertex-program token memory: up to 136 quads of 4 words each.
	VertexProgramTokens [vertexProgramTokenWords]uint32
	ProgramLoad         int
	ProgramStart        int

	// Constant file: 192 x 4-float constants.
	Constants        [constantFileSize][4]float32
	ConstantDirty    [constantFileSize]bool
	ConstantLoadSlot int

	InlineBuffer   []InlineVertex
	InlineArray    []uint32
	InlineElements []uint32

	shaderCache    *ShaderCache
	current        ShaderState
	shadersDirty   bool
	currentProgram HostProgram

	host HostBinding

	// vram backs color_dma/zeta_dma/texture/vertex memory access.
	vram *GuestMemory

	// dma resolves the context DMA object instances (color_dma, zeta_dma,
	// the Kelvin object's DMA A/B slots) into base addresses (spec.md
	// §4.1). Textures and vertex attributes pick DMA A or B per their
	// DMASelect field; surfaces and the semaphore use the Kelvin object's
	// dedicated handles.
	dma *DMAResolver

	// allowNonBGRAUBD3D is DESIGN.md's Open Question decision for
	// VertexFormatUB_D3D slots whose guest component count isn't 4: by
	// default this is an assertion failure, the same way the teacher's
	// format decoders treat an unexpected field combination as a bug
	// rather than silently reinterpreting it.
	allowNonBGRAUBD3D bool

	// CompositeMatrix is the fixed-function composite matrix (spec.md
	// §4.8); built with gviegas/scene/linear the way its matrix package is
	// used in the pack's own gviegas-neo3 example repo for scene transforms.
	CompositeMatrix linear.M4
	InvViewport     linear.M4

	ZClipMin, ZClipMax float32

	// Drawing state (spec.md §4.7).
	primitive    int
	drawing      bool
	objectTable  *SubchannelTable
	boundObjects [8]*GraphicsObject

	// currentKelvin is the Kelvin object the dispatcher last routed a
	// method to: textures and vertex attributes resolve their DMASelect
	// field against its DMAAHandle/DMABHandle (spec.md §4.9, §4.10).
	currentKelvin *Kelvin

	// pendingInlineVertex accumulates the four SET_VERTEX4F components
	// before they are flushed into InlineBuffer (spec.md §4.7).
	pendingInlineVertex [4]float32

	// onIRQ is invoked whenever pending&enabled transitions (spec.md §4.13);
	// wired by Core to the interrupt aggregator. Must be called with no
	// PGRAPH lock held (spec.md §5: "the host IRQ lowering/raising call
	// must be made with no PGRAPH lock held").
	onIRQ func()

	// onContextSwitchCleared is run by ClearContextSwitch after it clears
	// PGRAPH_INTR_CONTEXT_SWITCH, letting Core/host observe the completed
	// switch without puller.go depending on Core (supplemented feature C.4).
	onContextSwitchCleared func()
}

// NewPGRAPH builds an idle PGRAPH state with the given shader cache
// capacity (DESIGN.md's Open Question decision on unbounded growth).
func NewPGRAPH(table *SubchannelTable, shaderCacheCapacity int, deleteProgram func(handle uint32)) *PGRAPH {
	g := &PGRAPH{
		channelValid: false,
		fifoAccess:   true,
		objectTable:  table,
		shaderCache:  NewShaderCache(shaderCacheCapacity, deleteProgram),
		read3D:       semaphore.NewWeighted(1 << 30),
	}
	g.interruptCond = sync.NewCond(&g.mu)
	g.fifoAccessCond = sync.NewCond(&g.mu)
	// read3D starts at weight 0 available (spec.md §5: "counting semaphore
	// (initial 0)"); acquire the full capacity up front so TryAcquire(1)
	// only succeeds once a post (Release) has happened.
	g.read3D.TryAcquire(1 << 30)
	return g
}

// SetHostBinding wires the host graphics backend (hostgpu.GLBackend in
// production; left nil, every host-side call is skipped, as in this
// package's unit tests — mirrors the teacher's VoodooEngine.SetBackend).
func (g *PGRAPH) SetHostBinding(host HostBinding) {
	g.mu.Lock()
	g.host = host
	g.mu.Unlock()
}

// SetVRAM wires the guest-memory view textures, surfaces, and vertex data
// are read from.
func (g *PGRAPH) SetVRAM(vram *GuestMemory) {
	g.mu.Lock()
	g.vram = vram
	g.mu.Unlock()
}

func (g *PGRAPH) SetIRQHandler(fn func()) {
	g.mu.Lock()
	g.onIRQ = fn
	g.mu.Unlock()
}

func (g *PGRAPH) SetContextSwitchHandler(fn func()) {
	g.mu.Lock()
	g.onContextSwitchCleared = fn
	g.mu.Unlock()
}

// SetDMAResolver wires the context-DMA-object resolver Core built over
// RAMIN (spec.md §4.1).
func (g *PGRAPH) SetDMAResolver(dma *DMAResolver) {
	g.mu.Lock()
	g.dma = dma
	g.mu.Unlock()
}

// SetAllowNonBGRAUBD3D configures the UB_D3D Open Question knob
// (DESIGN.md): whether a VertexFormatUB_D3D slot with a guest component
// count other than 4 is tolerated instead of asserted.
func (g *PGRAPH) SetAllowNonBGRAUBD3D(allow bool) {
	g.mu.Lock()
	g.allowNonBGRAUBD3D = allow
	g.mu.Unlock()
}

// resolveAddress maps a context DMA object instance + byte offset to an
// absolute VRAM address (spec.md §4.1). With no resolver wired (tests
// using a bare PGRAPH), offset is returned unchanged so existing
// lock-step unit tests that never call SetDMAResolver keep working
// against a flat VRAM view.
func (g *PGRAPH) resolveAddress(instance, offset uint32) uint32 {
	if g.dma == nil {
		return offset
	}
	addr, _, err := g.dma.MapAt(instance, offset)
	if err != nil {
		return offset
	}
	return addr
}

// --- GraphicsEngine interface (consumed by Puller) ---

func (g *PGRAPH) FifoAccess() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fifoAccess
}

func (g *PGRAPH) CurrentChannelID() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.channelID
}

// BeginContextSwitch implements spec.md §4.5's context-switch trap: sets
// trapped_channel_id, raises PGRAPH_INTR_CONTEXT_SWITCH, drives IRQ.
func (g *PGRAPH) BeginContextSwitch(channelID int) {
	g.mu.Lock()
	g.trappedChannelID = channelID
	g.channelValid = false
	g.raiseLocked(PGRAPHIntrContextSwitch)
	irq := g.onIRQ
	g.mu.Unlock()

	// spec.md §5: "the host IRQ lowering/raising call must be made with no
	// PGRAPH lock held."
	if irq != nil {
		irq()
	}
}

// WaitContextSwitch blocks until ClearContextSwitch is called by the host
// (spec.md §4.5, §5's "Suspension points").
func (g *PGRAPH) WaitContextSwitch() {
	g.mu.Lock()
	for g.pendingInterrupts&PGRAPHIntrContextSwitch != 0 {
		g.interruptCond.Wait()
	}
	g.mu.Unlock()
}

// ClearContextSwitch is the host-side call that completes a context switch:
// it installs the new channel id as current and clears the interrupt bit,
// waking the blocked puller (spec.md §4.5: "The host is responsible for
// writing the new channel's context to PGRAPH state before clearing").
func (g *PGRAPH) ClearContextSwitch() {
	g.mu.Lock()
	g.channelID = g.trappedChannelID
	g.channelValid = true
	g.clearLocked(PGRAPHIntrContextSwitch)
	cb := g.onContextSwitchCleared
	g.mu.Unlock()

	g.interruptCond.Broadcast()
	if cb != nil {
		cb()
	}
}

// Dispatch is the PGRAPH method entry point the puller calls for every
// Graphics-bound cache entry (spec.md §4.6's single dispatch key). The
// heavy lifting lives in pgraph_dispatch.go's dispatchMethod; this method
// only takes the lock and resolves the bound object.
func (g *PGRAPH) Dispatch(subchannel int, instance uint32, method uint32, parameter uint32, nonincreasing bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for !g.fifoAccess {
		g.fifoAccessCond.Wait()
	}

	obj := g.objectTable.Get(subchannel)
	g.dispatchMethod(obj, method, parameter, nonincreasing)
}

// SetFifoAccess toggles the fifo_access flag and wakes any puller waiting
// in Dispatch (spec.md §4.5).
func (g *PGRAPH) SetFifoAccess(enabled bool) {
	g.mu.Lock()
	g.fifoAccess = enabled
	g.mu.Unlock()
	g.fifoAccessCond.Broadcast()
}

// raiseLocked/clearLocked maintain pendingInterrupts and re-evaluate the
// master IRQ condition (spec.md §4.13: "every write that clears pending
// bits or changes enabled masks must re-evaluate and re-drive the line").
// Callers must hold g.mu; they do not themselves invoke onIRQ — spec.md §5
// requires the IRQ call happen with no PGRAPH lock held, so callers of
// these two helpers are responsible for invoking onIRQ after unlocking.
func (g *PGRAPH) raiseLocked(bit uint32) {
	g.pendingInterrupts |= bit
}

func (g *PGRAPH) clearLocked(bit uint32) {
	g.pendingInterrupts &^= bit
}

// IRQActive reports whether the master pending & enabled condition holds
// (spec.md §4.13).
func (g *PGRAPH) IRQActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pendingInterrupts&g.enabledInterrupts != 0
}

// SetEnabledInterrupts updates the enabled mask and re-drives IRQ.
func (g *PGRAPH) SetEnabledInterrupts(mask uint32) {
	g.mu.Lock()
	g.enabledInterrupts = mask
	irq := g.onIRQ
	g.mu.Unlock()
	if irq != nil {
		irq()
	}
}

// AckInterrupts clears the given pending bits (a host write-1s-to-clear,
// spec.md §7) and re-drives IRQ.
func (g *PGRAPH) AckInterrupts(mask uint32) {
	g.mu.Lock()
	g.clearLocked(mask)
	irq := g.onIRQ
	g.mu.Unlock()
	g.interruptCond.Broadcast()
	if irq != nil {
		irq()
	}
}

// pendingInterruptsSnapshot/enabledInterruptsSnapshot back mmio.go's
// PGRAPH_INTR_0/PGRAPH_INTR_EN_0 register reads.
func (g *PGRAPH) pendingInterruptsSnapshot() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pendingInterrupts
}

func (g *PGRAPH) enabledInterruptsSnapshot() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabledInterrupts
}

// readRegScratch/writeRegScratch expose the 8kB register-addressable
// scratch (spec.md §3, §6's "register scratch") to mmio.go for the PGRAPH
// block's offsets that aren't one of the named interrupt registers. Bounds
// outside the scratch array read as zero / are ignored.
func (g *PGRAPH) readRegScratch(off uint32) uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if int(off)+4 > len(g.regs) {
		return 0
	}
	return uint32(g.regs[off]) | uint32(g.regs[off+1])<<8 | uint32(g.regs[off+2])<<16 | uint32(g.regs[off+3])<<24
}

func (g *PGRAPH) writeRegScratch(off, value uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if int(off)+4 > len(g.regs) {
		return
	}
	g.regs[off] = byte(value)
	g.regs[off+1] = byte(value >> 8)
	g.regs[off+2] = byte(value >> 16)
	g.regs[off+3] = byte(value >> 24)
}
