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

// host_binding.go - HostBinding: the seam between PGRAPH state and the host
// graphics API (spec.md §2 "Host-GPU binding", §4.8-§4.12)
//
// Mirrors the teacher's VoodooEngine/Backend split in video_voodoo.go: the
// engine (here, PGRAPH) holds an interface, never a concrete backend, so any
// implementation can be wired in through SetHostBinding (PGRAPH's unit tests
// leave it nil, which skips every host-side call). The real implementation lives in
// the hostgpu package (not imported here, to keep this package free of a
// go-gl/gl build dependency); hostgpu.GLBackend satisfies this interface
// structurally.

package nv2a

// HostBinding is everything PGRAPH needs from the host graphics layer:
// shader compilation, texture/vertex upload, draw issue, and surface
// pixel transfer.
type HostBinding interface {
	// CompileProgram builds and links a vertex+fragment program, returning
	// a host program handle (spec.md §4.8).
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)

	// DeleteProgram releases a previously compiled program (spec.md §9's
	// LRU eviction callback).
	DeleteProgram(handle uint32)

	// UseProgram binds a program as current before uniform upload / draw.
	UseProgram(handle uint32)

	// UploadUniformMatrix4 / UploadUniformVec4 / UploadUniformFloat2 set
	// named uniforms on the currently bound program (spec.md §4.8:
	// composite, invViewport, c_i_j, c[i], clipRange).
	UploadUniformMatrix4(name string, m [16]float32)
	UploadUniformVec4(name string, v [4]float32)
	UploadUniformFloat2(name string, v [2]float32)

	// BindTexture uploads (if dirty) and binds the texture described by
	// desc to texture unit slot, reading source bytes from data (spec.md
	// §4.9).
	BindTexture(slot int, desc TextureDescriptor, data []byte)

	// UnbindTexture disables both 2D and rectangle targets on slot.
	UnbindTexture(slot int)

	// BindVertexAttribute sets up a vertex attribute pointer from raw
	// guest bytes (spec.md §4.10), or disables the attribute and sets its
	// constant fallback if enabled is false.
	BindVertexAttribute(slot int, desc VertexAttributeDescriptor, data []byte, enabled bool)

	// BindConvertedAttribute binds an already-converted float32 buffer
	// (spec.md §4.11's converted-attribute path).
	BindConvertedAttribute(slot int, buffer []float32, componentCount int)

	// DrawArrays / DrawElements issue the draw call (spec.md §4.7).
	DrawArrays(primitive, first, count int)
	DrawElements(primitive int, indices []uint32)

	// DrawInlineBuffer issues the inline_buffer draw path's dedicated
	// {position, diffuse} vertex stream (spec.md §4.7) -- distinct from the
	// sixteen general vertex-attribute slots DrawArrays/DrawElements read
	// through BindVertexAttribute.
	DrawInlineBuffer(vertices []InlineVertex, primitive int)

	// UploadSurface copies CPU-side pixels into the host render target
	// (spec.md §4.12's upload direction).
	UploadSurface(width, height int, format SurfaceColorFormat, pixels []byte)

	// DownloadSurface reads the host render target back into pixels,
	// sized width*height*bytesPerPixel(format) (spec.md §4.12's download
	// direction).
	DownloadSurface(width, height int, format SurfaceColorFormat, pixels []byte)

	// SetScissor/ClearScissor implement the clear-surface scissor window
	// (spec.md §4.6 "Clear surface").
	SetScissor(x0, y0, x1, y1 int)
	ClearScissor()

	// Clear issues a clear with the given GL-style mask (depth, stencil,
	// color) and color value.
	Clear(depth, stencil, colorMask bool, r, g, b, a float32)

	// CheckError reports the last host API error, if any (spec.md §7:
	// "All OpenGL errors are checked after draw issue; any error is
	// fatal").
	CheckError() error
}
