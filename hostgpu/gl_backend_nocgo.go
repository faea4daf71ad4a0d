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

//go:build tinygo || !cgo

// gl_backend_nocgo.go - the same stand-in the teacher keeps for builds
// without a working cgo toolchain (mirrors soypat-glgl's glgl_nocgo.go):
// GLBackend exists so callers can still reference the type, but
// NewGLBackend, CompileProgram and CheckError return errNoCgo and every other
// method does nothing, instead of touching a GL context.

package hostgpu

import (
	"errors"

	"github.com/nv2acore/nv2a"
)

var errNoCgo = errors.New("hostgpu: GLBackend requires cgo")

// GLBackend is the no-op stand-in used when this package is built without
// cgo (spec.md's ambient testability requirement: PGRAPH and the rest of
// the core must still build and unit-test on a toolchain with no GL
// headers available).
type GLBackend struct{}

func NewGLBackend() (*GLBackend, error) { return nil, errNoCgo }

var _ nv2a.HostBinding = (*GLBackend)(nil)

func (b *GLBackend) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) { return 0, errNoCgo }
func (b *GLBackend) DeleteProgram(handle uint32)                                  {}
func (b *GLBackend) UseProgram(handle uint32)                                     {}
func (b *GLBackend) UploadUniformMatrix4(name string, m [16]float32)              {}
func (b *GLBackend) UploadUniformVec4(name string, v [4]float32)                  {}
func (b *GLBackend) UploadUniformFloat2(name string, v [2]float32)                {}
func (b *GLBackend) BindTexture(slot int, desc nv2a.TextureDescriptor, data []byte) {}
func (b *GLBackend) UnbindTexture(slot int)                                       {}
func (b *GLBackend) BindVertexAttribute(slot int, desc nv2a.VertexAttributeDescriptor, data []byte, enabled bool) {
}
func (b *GLBackend) BindConvertedAttribute(slot int, buffer []float32, componentCount int) {}
func (b *GLBackend) DrawArrays(primitive, first, count int)                               {}
func (b *GLBackend) DrawElements(primitive int, indices []uint32)                         {}
func (b *GLBackend) DrawInlineBuffer(vertices []nv2a.InlineVertex, primitive int)          {}
func (b *GLBackend) UploadSurface(width, height int, format nv2a.SurfaceColorFormat, pixels []byte) {
}
func (b *GLBackend) DownloadSurface(width, height int, format nv2a.SurfaceColorFormat, pixels []byte) {
}
func (b *GLBackend) SetScissor(x0, y0, x1, y1 int)                      {}
func (b *GLBackend) ClearScissor()                                      {}
func (b *GLBackend) Clear(depth, stencil, colorMask bool, r, g, b2, a float32) {}
func (b *GLBackend) CheckError() error                                  { return errNoCgo }
