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

// dma_object.go - DMA object resolver (spec.md §4.1, §3 "DMA object")
//
// Grounded on original_source/hw/xbox/nv2a.c's nv_dma_load/nv_dma_map, which
// fold a small NV_DMA_ADJUST bitfield into the address rather than treating
// {class, target, base, limit} as four independent fields (SPEC_FULL.md
// §C.2). The teacher has no direct analogue (its IORegion table maps
// address ranges to callbacks, not descriptor records), so this is grounded
// directly on the original C source, using the bits.go helpers adapted from
// its GET_MASK macro.

package nv2a

const (
	dmaClassMask  = 0x00000FFF
	dmaTargetMask = 0x00038000 // NV_DMA_TARGET
	dmaAdjustMask = 0xFFF00000 // NV_DMA_ADJUST
	dmaAddressMax = 0xFFFFF000 // NV_DMA_ADDRESS mask over the frame word

	dmaDescriptorSize = 12 // 3 little-endian 32-bit words
)

// DMATarget identifies where a DMA object's address range lives.
type DMATarget uint32

const (
	DMATargetNone DMATarget = iota
	DMATargetVRAM
	DMATargetVRAMFallback // bit pattern seen on some guest drivers, treated as VRAM
	DMATargetSystem
)

// DMAObject is the decoded form of a 12-byte RAMIN descriptor (spec.md §3,
// §4.1).
type DMAObject struct {
	Class   uint32
	Target  DMATarget
	Address uint32 // frame address folded with NV_DMA_ADJUST (SPEC_FULL.md §C.2)
	Limit   uint32
}

// DMAResolver decodes DMA object descriptors out of RAMIN and maps them to
// byte ranges in VRAM. Both the pushbuffer source (channel DMA) and engine
// memory accesses (color/zeta/vertex/texture/semaphore) go through it.
type DMAResolver struct {
	ramin *GuestMemory
	vram  *GuestMemory
}

// NewDMAResolver builds a resolver over the given RAMIN and VRAM windows.
func NewDMAResolver(ramin, vram *GuestMemory) *DMAResolver {
	return &DMAResolver{ramin: ramin, vram: vram}
}

// Load decodes the DMA object descriptor at the given RAMIN offset.
func (r *DMAResolver) Load(offset uint32) (DMAObject, error) {
	if offset >= r.ramin.Size() || offset+dmaDescriptorSize > r.ramin.Size() {
		return DMAObject{}, ErrInvalidDescriptor
	}

	flags := r.ramin.ReadU32(offset)
	limit := r.ramin.ReadU32(offset + 4)
	frame := r.ramin.ReadU32(offset + 8)

	adjust := getMaskU32(flags, dmaAdjustMask)
	obj := DMAObject{
		Class:   getMaskU32(flags, dmaClassMask),
		Target:  DMATarget(getMaskU32(flags, dmaTargetMask)),
		Address: (frame & dmaAddressMax) | adjust,
		Limit:   limit,
	}
	return obj, nil
}

// Map resolves offset to a host-addressable byte slice of length obj.Limit
// over VRAM (spec.md §4.1 "a second call, map"). It fails with
// ErrInvalidExtent if the object's address+limit doesn't fit in VRAM.
func (r *DMAResolver) Map(offset uint32) ([]byte, DMAObject, error) {
	obj, err := r.Load(offset)
	if err != nil {
		return nil, DMAObject{}, err
	}
	if uint64(obj.Address)+uint64(obj.Limit) > uint64(r.vram.Size()) {
		return nil, obj, ErrInvalidExtent
	}
	return r.vram.Slice(obj.Address, obj.Limit), obj, nil
}

// MapAt is a convenience for resolving a DMA object and a byte offset within
// it to an absolute VRAM address, used throughout PGRAPH for surface/
// texture/semaphore addressing ({dma.Address + offset}).
func (r *DMAResolver) MapAt(offset, within uint32) (uint32, DMAObject, error) {
	obj, err := r.Load(offset)
	if err != nil {
		return 0, DMAObject{}, err
	}
	if uint64(obj.Address)+uint64(obj.Limit) > uint64(r.vram.Size()) {
		return 0, obj, ErrInvalidExtent
	}
	return obj.Address + within, obj, nil
}
