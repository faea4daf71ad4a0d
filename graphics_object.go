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

// graphics_object.go - tagged GraphicsObject variants (spec.md §3, §9
// "tagged object variants", "cyclic references")
//
// spec.md §9 is explicit: "model GraphicsObject as a tagged sum over
// {ContextSurfaces2D, ImageBlit, Kelvin}; do not use inheritance" and store
// subchannel objects "in a fixed-size array indexed by slot". The teacher's
// closest pattern is video_voodoo.go's single concrete struct (Voodoo has
// only one object kind); there is no multi-variant tagged union anywhere in
// the pack, so the Go idiom used here -- an explicit Class discriminant plus
// one pointer field per variant, left nil when not that variant -- follows
// spec.md's instruction directly rather than imitating a pack example that
// doesn't have one.

package nv2a

// GraphicsClass is the one-byte class code naming a graphics object's kind
// (spec.md §3).
type GraphicsClass uint8

const (
	ClassContextSurfaces2D GraphicsClass = 0x62
	ClassImageBlit         GraphicsClass = 0x9F
	ClassKelvin            GraphicsClass = 0x97 // glossary: "the 3D class identifier"
)

// ContextSurfaces2D holds the source/dest DMA handles and layout for 2D
// blits (spec.md §3).
type ContextSurfaces2D struct {
	SourceDMAHandle uint32
	DestDMAHandle   uint32
	ColorFormat     uint32
	SourcePitch     uint32
	DestPitch       uint32
	SourceOffset    uint32
	DestOffset      uint32
}

// ImageBlitOp selects the blit operation (spec.md §4.6's NV09F_SIZE trigger
// only implements SRCCOPY, but the object carries whatever op code was
// last written).
type ImageBlitOp uint32

const (
	ImageBlitSRCCOPY ImageBlitOp = 0x3
)

// ImageBlit refers to a ContextSurfaces2D object by handle, not by pointer
// (spec.md §9 "cyclic references"): the referenced object is looked up by a
// bounded scan of the owning subchannel table at trigger time, never cached
// as a pointer.
type ImageBlit struct {
	SurfacesHandle uint32 // handle of the ContextSurfaces2D object to blit through
	Operation      ImageBlitOp
	SrcX, SrcY     uint32
	DstX, DstY     uint32
	Width, Height  uint32
}

// Kelvin is the 3D primitive class object (spec.md §3). All other PGRAPH
// state it drives (textures, surfaces, vertex state, etc.) lives in the
// PGRAPH singleton, not here.
type Kelvin struct {
	DMANotifiesHandle  uint32
	DMAStateHandle     uint32
	DMASemaphoreHandle uint32
	SemaphoreOffset    uint32

	// DMAAHandle/DMABHandle are the two general-purpose DMA object instances
	// (NV097_SET_CONTEXT_DMA_A/_B) that texture and vertex-attribute offsets
	// select between via their DMASelect field (spec.md §4.9, §4.10).
	DMAAHandle uint32
	DMABHandle uint32
}

// GraphicsObject is the tagged sum described above. Exactly one of
// Surfaces2D, Blit, Kelvin is non-nil, matching Class.
type GraphicsObject struct {
	Class      GraphicsClass
	Handle     uint32
	Instance   uint32 // RAMIN instance address this object was loaded from
	Surfaces2D *ContextSurfaces2D
	Blit       *ImageBlit
	Kelvin     *Kelvin
}

// NewGraphicsObject builds an empty object of the given class, initializing
// the matching variant pointer so callers can fill it in directly.
func NewGraphicsObject(class GraphicsClass, handle, instance uint32) GraphicsObject {
	obj := GraphicsObject{Class: class, Handle: handle, Instance: instance}
	switch class {
	case ClassContextSurfaces2D:
		obj.Surfaces2D = &ContextSurfaces2D{}
	case ClassImageBlit:
		obj.Blit = &ImageBlit{}
	case ClassKelvin:
		obj.Kelvin = &Kelvin{}
	}
	return obj
}

// SubchannelTable holds the 8 per-subchannel object slots for the current
// channel (spec.md §3 "Subchannel"). A "set object" method (0) replaces a
// slot's previous object entirely (spec.md §3's GraphicsObject lifecycle:
// "destroyed on next SET_OBJECT to the same subchannel").
type SubchannelTable struct {
	slots [8]*GraphicsObject
}

// Set installs obj at subchannel, discarding whatever was there before.
func (t *SubchannelTable) Set(subchannel int, obj GraphicsObject) {
	t.slots[subchannel] = &obj
}

// Get returns the object bound to subchannel, or nil if none.
func (t *SubchannelTable) Get(subchannel int) *GraphicsObject {
	return t.slots[subchannel]
}

// FindByHandle performs the bounded linear scan spec.md §9 prescribes for
// resolving an ImageBlit's SurfacesHandle reference: "a bounded search over
// <= 8 entries", not a pointer chase.
func (t *SubchannelTable) FindByHandle(handle uint32) *GraphicsObject {
	for _, obj := range t.slots {
		if obj != nil && obj.Handle == handle {
			return obj
		}
	}
	return nil
}
