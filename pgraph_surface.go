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

// pgraph_surface.go - surface coherency, image blit trigger, notify,
// flip-stall, semaphore release, clear surface (spec.md §4.6, §4.12)

package nv2a

import (
	"context"
	"encoding/binary"
	"fmt"
)

// bytesPerPixel maps a surface color format to its byte stride (spec.md
// §4.12's format table).
func (f SurfaceColorFormat) bytesPerPixel() int {
	switch f {
	case SurfaceFormatR5G6B5:
		return 2
	case SurfaceFormatX8R8G8B8_Z8R8G8B8, SurfaceFormatA8R8G8B8:
		return 4
	default:
		return 0
	}
}

// uploadSurface implements spec.md §4.12's upload direction: CPU -> GPU,
// test-and-clear the guest dirty range, deswizzle if needed, upload. The
// rows reach the host in guest order; no vertical flip is applied.
func (g *PGRAPH) uploadSurface(desc *SurfaceDescriptor, width, height int, forced bool) {
	if g.host == nil || g.vram == nil || desc.Format == SurfaceFormatNone {
		return
	}
	bpp := desc.Format.bytesPerPixel()
	if bpp == 0 {
		return
	}

	addr := g.resolveAddress(desc.DMAInstance, desc.Offset)
	rangeLen := uint32(int(desc.Pitch) * height)
	dirty := g.vram.TestAndClearDirty(addr, rangeLen)
	if !dirty && !forced {
		return
	}

	raw := g.vram.Slice(addr, rangeLen)
	pixels := raw
	if desc.Type == SurfaceTypeSwizzle {
		pixels = deswizzleBytes(raw, width, height, bpp)
	}
	g.host.UploadSurface(width, height, desc.Format, pixels)
}

// downloadSurface implements spec.md §4.12's download direction: only if
// draw_dirty, read the render target back, swizzle if needed, write into
// VRAM, mark VGA-dirty, clear draw_dirty. This helper is safe to call
// unconditionally by every setter that "may be about to change" the
// surface (spec.md §4.6): it is a no-op when draw_dirty is false.
func (g *PGRAPH) downloadSurface(desc *SurfaceDescriptor) {
	if !desc.DrawDirty || g.host == nil || g.vram == nil || desc.Format == SurfaceFormatNone {
		return
	}
	bpp := desc.Format.bytesPerPixel()
	if bpp == 0 {
		return
	}

	width := 1 << desc.LogWidth
	height := 1 << desc.LogHeight
	if desc.Type == SurfaceTypePitch && desc.Pitch > 0 {
		width = int(desc.Pitch) / bpp
	}
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}

	scratch := make([]byte, width*height*bpp)
	g.host.DownloadSurface(width, height, desc.Format, scratch)

	addr := g.resolveAddress(desc.DMAInstance, desc.Offset)
	dst := g.vram.Slice(addr, uint32(len(scratch)))
	if desc.Type == SurfaceTypeSwizzle {
		swizzleBytes(dst, scratch, width, height, bpp)
	} else {
		copy(dst, scratch)
	}
	g.vram.MarkDirty(addr, uint32(len(scratch)))
	desc.DrawDirty = false
}

// triggerImageBlit implements spec.md §4.6's NV09F_SIZE handling: resolve
// the referenced ContextSurfaces2D via the bounded subchannel scan (spec.md
// §9), then perform a row-by-row CPU memcpy at the source's pitch/bpp.
func (g *PGRAPH) triggerImageBlit(b *ImageBlit) {
	if b.Operation != ImageBlitSRCCOPY || g.objectTable == nil || g.vram == nil {
		return
	}
	ref := g.objectTable.FindByHandle(b.SurfacesHandle)
	if ref == nil || ref.Surfaces2D == nil {
		return
	}
	s := ref.Surfaces2D

	var bpp int
	switch s.ColorFormat {
	case ContextSurfaceFormatY8:
		bpp = 1
	case ContextSurfaceFormatA8R8G8B8:
		bpp = 4
	default:
		// original_source/hw/xbox/nv2a.c asserts false here: ContextSurfaces2D
		// has no color format besides Y8 and A8R8G8B8 (spec.md §4.6).
		panic(fmt.Sprintf("nv2a: context-surfaces-2D blit with unsupported color format %#x", s.ColorFormat))
	}

	rowBytes := int(b.Width) * bpp
	for row := 0; row < int(b.Height); row++ {
		srcOff := s.SourceOffset + (b.SrcY+uint32(row))*s.SourcePitch + b.SrcX*uint32(bpp)
		dstOff := s.DestOffset + (b.DstY+uint32(row))*s.DestPitch + b.DstX*uint32(bpp)
		src := g.vram.Slice(g.resolveAddress(s.SourceDMAHandle, srcOff), uint32(rowBytes))
		dst := g.vram.Slice(g.resolveAddress(s.DestDMAHandle, dstOff), uint32(rowBytes))
		copy(dst, src)
	}
}

// triggerNotify implements spec.md §4.6's NV097_NO_OPERATION notify path:
// raise PGRAPH_INTR_NOTIFY and block until the host clears it.
func (g *PGRAPH) triggerNotify() {
	g.raiseLocked(PGRAPHIntrNotify)
	irq := g.onIRQ
	g.mu.Unlock()
	if irq != nil {
		irq()
	}
	g.mu.Lock()

	for g.pendingInterrupts&PGRAPHIntrNotify != 0 {
		g.interruptCond.Wait()
	}
}

// waitFlipStall implements spec.md §4.6's FLIP_STALL: blocks on the
// read_3d counting semaphore posted by the CRTC path (spec.md §5). The
// PGRAPH lock is released for the wait since Acquire may block for an
// unbounded time and the CRTC path needs to be able to call PostFlip
// concurrently.
func (g *PGRAPH) waitFlipStall() {
	sem := g.read3D
	g.mu.Unlock()
	_ = sem.Acquire(context.Background(), 1)
	g.mu.Lock()
}

// PostFlip is called by the CRTC/vblank path (outside this package's
// scope per spec.md §1, but the semaphore it posts to lives here) to wake
// one blocked FLIP_STALL.
func (g *PGRAPH) PostFlip() {
	g.read3D.Release(1)
}

// releaseSemaphore implements spec.md §4.6's BACK_END_WRITE_SEMAPHORE_RELEASE:
// writes the parameter little-endian at the Kelvin object's configured
// semaphore DMA + offset (spec.md §9: "byte-wise little-endian regardless
// of surface endian-mode register", preserved rather than guessed at).
func (g *PGRAPH) releaseSemaphore(k *Kelvin, value uint32) {
	if g.vram == nil {
		return
	}
	addr := g.resolveAddress(k.DMASemaphoreHandle, k.SemaphoreOffset)
	dst := g.vram.Slice(addr, 4)
	binary.LittleEndian.PutUint32(dst, value)
}

// clearSurface implements spec.md §4.6's "Clear surface": compute a clear
// mask from depth/stencil/color bits, upload if color is cleared, scissor
// to the clip rectangle, clear, disable scissor, mark draw-dirty.
func (g *PGRAPH) clearSurface(parameter uint32) {
	const (
		clearZ      = 1 << 0
		clearStencil = 1 << 1
		clearR      = 1 << 4
		clearG      = 1 << 5
		clearB      = 1 << 6
		clearA      = 1 << 7
	)
	colorMask := parameter&(clearR|clearG|clearB|clearA) != 0
	depth := parameter&clearZ != 0
	stencil := parameter&clearStencil != 0

	if g.host == nil {
		return
	}
	if colorMask {
		width := 1 << g.Color.LogWidth
		height := 1 << g.Color.LogHeight
		g.uploadSurface(&g.Color, width, height, false)
	}

	g.host.SetScissor(int(g.Color.ClipX0), int(g.Color.ClipY1), int(g.Color.ClipX1), int(g.Color.ClipY0))
	g.host.Clear(depth, stencil, colorMask, 0, 0, 0, 0)
	g.host.ClearScissor()

	g.Color.DrawDirty = true
}
