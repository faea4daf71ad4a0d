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

// format.go - pure format-mapping tables shared by the cgo and no-cgo
// builds. Kept free of the go-gl/gl import so format_test.go can exercise
// the mapping logic without a cgo toolchain, the same way glgl_all.go in
// the retrieved soypat-glgl package holds the cgo-independent parts of that
// package's surface.

package hostgpu

import "github.com/nv2acore/nv2a"

// glEnum is a local stand-in for the gl package's untyped enum constants,
// used so this file compiles without importing "github.com/go-gl/gl/v4.6-core/gl".
// gl_backend.go converts these 1:1 into real gl.Enum values at the call site.
type glEnum uint32

// Real values lifted from the GL 4.6 core enum space, so they equal the
// go-gl/gl constants of the same meaning without this file importing that
// build-tagged package.
const (
	glRGB565               glEnum = 0x8D62
	glRGB8                 glEnum = 0x8051
	glRGBA8                glEnum = 0x8058
	glBGRA                 glEnum = 0x80E1
	glRGBA                 glEnum = 0x1908
	glRGB                  glEnum = 0x1907
	glUnsignedByte         glEnum = 0x1401
	glUnsignedShort565     glEnum = 0x8363
	glUnsignedInt8888Rev   glEnum = 0x8367
	glCompressedRGBAS3TC1  glEnum = 0x83F1
	glCompressedRGBAS3TC3  glEnum = 0x83F2
	glCompressedRGBAS3TC5  glEnum = 0x83F3
	glRed                  glEnum = 0x1903
	glR8                   glEnum = 0x8229
)

// surfaceFormatInfo is the {internalFormat, format, type} triple a
// SurfaceColorFormat maps to, plus its packed byte size, for UploadSurface/
// DownloadSurface.
type surfaceFormatInfo struct {
	internalFormat glEnum
	format         glEnum
	pixelType      glEnum
	bytesPerPixel  int
}

// surfaceGLFormat maps spec.md §4.12's three live surface color formats
// onto the GL triples the teacher's texture-upload paths use (video_voodoo.go's
// format table, generalized from Voodoo's fixed RGB565/ARGB8888 framebuffer
// to NV2A's three SurfaceColorFormat values).
func surfaceGLFormat(format nv2a.SurfaceColorFormat) surfaceFormatInfo {
	switch format {
	case nv2a.SurfaceFormatR5G6B5:
		return surfaceFormatInfo{glRGB565, glRGB, glUnsignedShort565, 2}
	case nv2a.SurfaceFormatA8R8G8B8:
		return surfaceFormatInfo{glRGBA8, glBGRA, glUnsignedInt8888Rev, 4}
	case nv2a.SurfaceFormatX8R8G8B8_Z8R8G8B8:
		return surfaceFormatInfo{glRGB8, glBGRA, glUnsignedInt8888Rev, 4}
	default:
		return surfaceFormatInfo{glRGBA8, glBGRA, glUnsignedInt8888Rev, 4}
	}
}

// textureFormatInfo describes how a TextureColorFormat maps onto the GL
// texture upload path: either a block-compressed internal format (TexImage
// takes the raw block stream via CompressedTexImage2D) or an uncompressed
// {format, type} pair consumed by plain TexImage2D.
type textureFormatInfo struct {
	compressed     bool
	internalFormat glEnum
	format         glEnum
	pixelType      glEnum
	blockBytes     int // compressed only: bytes per 4x4 block
}

// textureGLFormat maps spec.md §4.9's texture color formats. DXT1/3/5 go
// through the S3TC compressed path; Y8 is a single-channel luminance
// texture; everything else falls back to packed BGRA8888, matching
// surfaceGLFormat's default since NV2A's A8R8G8B8 texture layout is
// byte-identical to its surface layout.
func textureGLFormat(format nv2a.TextureColorFormat) textureFormatInfo {
	switch format {
	case nv2a.TextureFormatDXT1:
		return textureFormatInfo{compressed: true, internalFormat: glCompressedRGBAS3TC1, blockBytes: 8}
	case nv2a.TextureFormatDXT3:
		return textureFormatInfo{compressed: true, internalFormat: glCompressedRGBAS3TC3, blockBytes: 16}
	case nv2a.TextureFormatDXT5:
		return textureFormatInfo{compressed: true, internalFormat: glCompressedRGBAS3TC5, blockBytes: 16}
	case nv2a.TextureFormatY8:
		return textureFormatInfo{internalFormat: glR8, format: glRed, pixelType: glUnsignedByte}
	default:
		return textureFormatInfo{internalFormat: glRGBA8, format: glBGRA, pixelType: glUnsignedInt8888Rev}
	}
}

// vertexComponentGLType maps nv2a's abstract VertexComponent constants (set
// by pgraph_vertex.go's format decoder, independent of any GL import) onto
// the GL attribute-pointer type enum.
func vertexComponentGLType(c uint32) glEnum {
	switch c {
	case nv2a.VertexComponentUByte:
		return glUnsignedByte
	case nv2a.VertexComponentShort:
		return 0x1402 // GL_SHORT
	case nv2a.VertexComponentUShort:
		return 0x1403 // GL_UNSIGNED_SHORT
	case nv2a.VertexComponentFloat:
		return 0x1406 // GL_FLOAT
	default:
		return 0x1406
	}
}

// primitiveGLMode maps spec.md §4.7's abstract primitive codes to the GL
// draw-mode enum, matching the teacher's triangle/strip/fan dispatch in
// video_voodoo.go's FlushTriangles.
func primitiveGLMode(code int) glEnum {
	switch code {
	case nv2a.PrimitivePoints:
		return 0x0000 // GL_POINTS
	case nv2a.PrimitiveLines:
		return 0x0001 // GL_LINES
	case nv2a.PrimitiveLineLoop:
		return 0x0002 // GL_LINE_LOOP
	case nv2a.PrimitiveLineStrip:
		return 0x0003 // GL_LINE_STRIP
	case nv2a.PrimitiveTriangles:
		return 0x0004 // GL_TRIANGLES
	case nv2a.PrimitiveTriangleStrip:
		return 0x0005 // GL_TRIANGLE_STRIP
	case nv2a.PrimitiveTriangleFan:
		return 0x0006 // GL_TRIANGLE_FAN
	case nv2a.PrimitiveQuads:
		return 0x0007 // GL_QUADS
	case nv2a.PrimitiveQuadStrip:
		return 0x0008 // GL_QUAD_STRIP
	case nv2a.PrimitivePolygon:
		return 0x0009 // GL_POLYGON
	default:
		return 0x0004
	}
}
