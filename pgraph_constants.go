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

// pgraph_constants.go - Kelvin/PGRAPH method opcodes and register offsets
// (spec.md §4.6-§4.13)
//
// Method numbers are taken from spec.md's component descriptions and cross
// checked against original_source/hw/xbox/nv2a.c's NV097_* / NV09F_* /
// NV062_* defines for exact values where spec.md names a method without
// giving its number.

package nv2a

// GraphicsClass method-number base is folded into the dispatch key as
// (class << 16) | method, per spec.md §4.6.

const (
	// ContextSurfaces2D (class 0x62) methods.
	MethodSurfaces2DSetContextDMAImage  uint32 = 0x0184
	MethodSurfaces2DSetContextDMASource uint32 = 0x0190
	MethodSurfaces2DSetContextDMADest   uint32 = 0x0194
	MethodSurfaces2DSetColorFormat      uint32 = 0x0300
	MethodSurfaces2DSetPitch            uint32 = 0x0304
	MethodSurfaces2DSetOffsetSource     uint32 = 0x0308
	MethodSurfaces2DSetOffsetDest       uint32 = 0x030C
)

// NV062_SET_COLOR_FORMAT_LE_* — the only two color formats ContextSurfaces2D
// accepts (original_source/hw/xbox/nv2a.c's ContextSurfaces2D switch asserts
// false for anything else; spec.md §4.6: "Y8 -> 1 BPP; A8R8G8B8 -> 4 BPP").
// Distinct namespace from SurfaceColorFormat (NV097, the Kelvin surface
// descriptor) and TextureColorFormat (NV097 texture format codes) below —
// numerically unrelated despite some shared values.
const (
	ContextSurfaceFormatY8       uint32 = 0x01
	ContextSurfaceFormatA8R8G8B8 uint32 = 0x0A
)

const (
	// ImageBlit (class 0x9F) methods.
	MethodBlitSetContextSurfaces uint32 = 0x0184
	MethodBlitSetOperation       uint32 = 0x02FC
	MethodBlitPointIn            uint32 = 0x0300
	MethodBlitPointOut            uint32 = 0x0304
	MethodBlitSize                uint32 = 0x0308 // NV09F_SIZE — the trigger method
)

const (
	// Kelvin (class 0x97) methods spec.md names explicitly.
	MethodSetObject                        uint32 = 0x0000
	MethodSetContextDMANotifies             uint32 = 0x0180
	MethodSetContextDMAA                     uint32 = 0x0188
	MethodSetContextDMAB                     uint32 = 0x018C
	MethodSetContextDMAState                uint32 = 0x0190
	MethodSetContextDMASemaphore            uint32 = 0x0194
	MethodSetContextDMAColor                uint32 = 0x01A4
	MethodSetContextDMAZeta                 uint32 = 0x01A8
	MethodSetSurfaceFormat                  uint32 = 0x0204
	MethodSetSurfacePitch                   uint32 = 0x0208
	MethodSetSurfaceColorOffset             uint32 = 0x020C
	MethodSetSurfaceZetaOffset              uint32 = 0x0210
	MethodSetSurfaceClipHorizontal          uint32 = 0x02F4
	MethodSetSurfaceClipVertical            uint32 = 0x02F8
	MethodSetClearRect                      uint32 = 0x01D8
	MethodClearSurface                      uint32 = 0x01D0
	MethodSetBeginEnd                       uint32 = 0x01B0
	MethodDrawArrays                        uint32 = 0x0184
	MethodInlineArray                       uint32 = 0x1818
	MethodArrayElement16                    uint32 = 0x1808
	MethodArrayElement32                    uint32 = 0x1810
	MethodSetVertex4F                       uint32 = 0x1518
	MethodSetVertexDataArrayFormat          uint32 = 0x1880
	MethodSetVertexDataArrayOffset          uint32 = 0x1900
	MethodSetTextureOffset                  uint32 = 0x1B00
	MethodSetTextureFormat                  uint32 = 0x1B04
	MethodSetTextureControl0                uint32 = 0x1B08
	MethodSetTextureFilter                  uint32 = 0x1B0C
	MethodSetTextureImageRect               uint32 = 0x1B10
	MethodSetCombinerControl                uint32 = 0x1E60
	MethodSetShaderStageProgram             uint32 = 0x1E70
	MethodSetShaderOtherStageInput          uint32 = 0x1E78
	MethodSetTransformProgramLoad           uint32 = 0x0B00
	MethodSetTransformProgram               uint32 = 0x0B80
	MethodSetTransformConstantLoad          uint32 = 0x1EA0
	MethodSetTransformConstant              uint32 = 0x1EA4
	MethodSetCompositeMatrix                uint32 = 0x0680
	MethodSetViewportOffset                 uint32 = 0x0A20
	MethodSetViewportScale                  uint32 = 0x0A10
	MethodSetZclipMin                       uint32 = 0x0A4C
	MethodSetZclipMax                       uint32 = 0x0A50
	MethodNoOperation                       uint32 = 0x0100
	MethodWaitForIdle                       uint32 = 0x0110
	MethodFlipStall                         uint32 = 0x1D94
	MethodBackEndWriteSemaphoreRelease      uint32 = 0x1D6C
)

// Primitive codes for SET_BEGIN_END (spec.md §4.7).
const (
	PrimitiveEnd = iota
	PrimitivePoints
	PrimitiveLines
	PrimitiveLineLoop
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
	PrimitiveQuads
	PrimitiveQuadStrip
	PrimitivePolygon
)

// Incrementing-method array bounds (spec.md §4.6 "bounded by the respective
// array size").
const (
	vertexProgramTokenQuads  = 136
	vertexProgramTokenWords  = vertexProgramTokenQuads * 4
	constantFileSize         = 192
	compositeMatrixCells     = 16
	combinerFactorArraySize  = 8

	// textureSlotStride is the method-address spacing between a texture
	// slot's setters and the next slot's (spec.md §4.9's "four texture
	// slots"); MethodSetTextureOffset/.../ImageRect are the five field
	// offsets within slot 0's block.
	textureSlotStride = 0x40
)

// Vertex attribute format codes (spec.md §4.10's table).
type VertexFormat uint32

const (
	VertexFormatUB_D3D VertexFormat = 0
	VertexFormatS1     VertexFormat = 1
	VertexFormatF      VertexFormat = 2
	VertexFormatUB_OGL VertexFormat = 4
	VertexFormatS32K   VertexFormat = 5
	VertexFormatCMP    VertexFormat = 6
)

// Surface color formats (spec.md §4.12's table).
type SurfaceColorFormat uint32

const (
	SurfaceFormatNone               SurfaceColorFormat = 0
	SurfaceFormatR5G6B5              SurfaceColorFormat = 1
	SurfaceFormatX8R8G8B8_Z8R8G8B8   SurfaceColorFormat = 2
	SurfaceFormatA8R8G8B8            SurfaceColorFormat = 3
)

// SurfaceType selects pitched vs swizzled layout (spec.md §3).
type SurfaceType int

const (
	SurfaceTypePitch SurfaceType = iota
	SurfaceTypeSwizzle
)

// Texture color formats relevant to upload (spec.md §4.9).
type TextureColorFormat uint32

const (
	TextureFormatY8                   TextureColorFormat = 0x0B
	TextureFormatA8R8G8B8              TextureColorFormat = 0x12
	TextureFormatDXT1                  TextureColorFormat = 0x0C
	TextureFormatDXT3                  TextureColorFormat = 0x0E
	TextureFormatDXT5                  TextureColorFormat = 0x0F
)

// PGRAPH interrupt bits (spec.md §4.5, §4.6, §4.13).
const (
	PGRAPHIntrNotify        uint32 = 1 << 0
	PGRAPHIntrContextSwitch uint32 = 1 << 4
	PGRAPHIntrError         uint32 = 1 << 12
)

// PFIFO interrupt bits (spec.md §4.4, §8 scenario 4's "pending-interrupt bit
// 12").
const (
	PFIFOIntrCacheError uint32 = 1 << 0
	PFIFOIntrDMAPusher  uint32 = 1 << 12
)
