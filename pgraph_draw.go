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

// pgraph_draw.go - begin/end primitive lifecycle and the four draw paths
// (spec.md §4.7): DRAW_ARRAYS, inline_buffer, inline_array, inline_elements.

package nv2a

import "encoding/binary"

// beginEnd implements spec.md §4.7's SET_BEGIN_END: a non-PrimitiveEnd code
// starts a primitive (binds surfaces/shaders/textures/vertex state), the
// PrimitiveEnd code flushes whichever inline draw path accumulated data.
func (g *PGRAPH) beginEnd(code int) {
	if code == PrimitiveEnd {
		g.endPrimitive()
		return
	}
	g.startPrimitive(code)
}

// startPrimitive implements spec.md §4.7's BEGIN-time sequence: surface
// upload (the surface may need deswizzling before the host samples it as a
// render target source), shader bind, texture bind, vertex attribute bind.
func (g *PGRAPH) startPrimitive(code int) {
	width := 1 << g.Color.LogWidth
	height := 1 << g.Color.LogHeight
	if g.Color.Type == SurfaceTypePitch && g.Color.Pitch > 0 {
		if bpp := g.Color.Format.bytesPerPixel(); bpp > 0 {
			width = int(g.Color.Pitch) / bpp
		}
	}
	g.uploadSurface(&g.Color, width, height, false)

	g.bindShaders()
	g.bindTextures()
	g.bindVertexAttributes()

	g.primitive = code
	g.drawing = true
	g.InlineBuffer = g.InlineBuffer[:0]
	g.InlineArray = g.InlineArray[:0]
	g.InlineElements = g.InlineElements[:0]
	g.pendingInlineVertex = [4]float32{}
}

// endPrimitive implements spec.md §4.7's END-time flush: whichever of the
// three inline buffers accumulated data during this primitive is drawn;
// DRAW_ARRAYS-driven primitives don't use any of them and simply stop
// drawing here.
func (g *PGRAPH) endPrimitive() {
	defer func() {
		g.drawing = false
		g.Color.DrawDirty = true
	}()

	if g.host == nil {
		return
	}
	switch {
	case len(g.InlineBuffer) > 0:
		g.host.DrawInlineBuffer(g.InlineBuffer, g.primitive)
	case len(g.InlineArray) > 0:
		g.drawInlineArray()
	case len(g.InlineElements) > 0:
		g.drawInlineElements()
	}

	if g.host.CheckError() != nil {
		g.raiseLocked(PGRAPHIntrError)
	}
}

// drawArrays implements spec.md §4.7's DRAW_ARRAYS method: a (start, count)
// pair packed into the parameter word, issued immediately (multiple
// DRAW_ARRAYS calls can appear between one BEGIN/END when a guest batches
// several ranges over the same bound vertex state).
func (g *PGRAPH) drawArrays(parameter uint32) {
	if g.host == nil || !g.drawing {
		return
	}
	start := int(parameter & 0xFFFFFF)
	count := int((parameter>>24)&0xFF) + 1
	g.convertAttributes(start + count)
	g.host.DrawArrays(g.primitive, start, count)
}

// appendInlineVertexComponent implements spec.md §4.7's SET_VERTEX4F: the
// pushbuffer addresses x/y/z/w as four method offsets in one incrementing
// run; the fourth write (w) flushes a completed {pos[4], diffuse} record
// into InlineBuffer. Diffuse isn't separately modeled: every
// inline_buffer vertex is opaque white.
func (g *PGRAPH) appendInlineVertexComponent(comp int, word uint32) {
	if comp < 0 || comp > 3 {
		return
	}
	g.pendingInlineVertex[comp] = float32FromBits(word)
	if comp == 3 {
		g.InlineBuffer = append(g.InlineBuffer, InlineVertex{
			Position: g.pendingInlineVertex,
			Diffuse:  0xFFFFFFFF,
		})
	}
}

// drawInlineArray implements spec.md §4.7's inline_array path: the currently
// enabled vertex attributes describe an interleaved record layout; divide
// the accumulated word count by that record size to get the vertex count,
// bind each attribute at its running byte offset within the record, and
// draw.
func (g *PGRAPH) drawInlineArray() {
	vertexSize := 0
	for i := range g.VertexAttributes {
		a := &g.VertexAttributes[i]
		if a.Count > 0 {
			vertexSize += a.Size * a.Count
		}
	}
	if vertexSize == 0 {
		return
	}

	raw := make([]byte, len(g.InlineArray)*4)
	for i, w := range g.InlineArray {
		binary.LittleEndian.PutUint32(raw[i*4:], w)
	}
	count := len(raw) / vertexSize

	offsets := make([]int, len(g.VertexAttributes))
	offset := 0
	for i := range g.VertexAttributes {
		a := &g.VertexAttributes[i]
		offsets[i] = offset
		if a.Count == 0 {
			g.host.BindVertexAttribute(i, *a, nil, false)
			continue
		}
		if a.NeedsConversion {
			offset += a.Size * a.Count
			continue
		}
		desc := *a
		desc.Offset = uint32(offset)
		desc.Stride = vertexSize
		// The host binds from the start of data, so hand it the bytes
		// beginning at this attribute's offset within the first record.
		var data []byte
		if offset < len(raw) {
			data = raw[offset:]
		}
		g.host.BindVertexAttribute(i, desc, data, true)
		offset += a.Size * a.Count
	}

	g.convertAttributesFromInlineArray(raw, offsets, vertexSize, count)
	g.host.DrawArrays(g.primitive, 0, count)
}

// drawInlineElements implements spec.md §4.7's inline_elements path: the
// accumulated index list addresses guest-memory-bound vertex attributes
// (already pointer-bound at BEGIN by bindVertexAttributes); conversion
// attributes are grown up to one past the largest referenced index, then
// an indexed draw is issued.
func (g *PGRAPH) drawInlineElements() {
	maxIndex := uint32(0)
	for _, idx := range g.InlineElements {
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	g.convertAttributes(int(maxIndex) + 1)
	g.host.DrawElements(g.primitive, g.InlineElements)
}
