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

// pgraph_texture.go - texture field setter and texture-unit bind (spec.md
// §4.9). Byte-layout decisions the filtered original_source excerpt didn't
// pin down exactly (NV_PGRAPH_TEXFMT0/TEXCTL0 sub-fields) follow the field
// widths spec.md §4.9 names; see DESIGN.md.

package nv2a

// setTextureField implements spec.md §4.9's per-slot texture register
// writes: slot = (method-base)/textureSlotStride, field selects one of the
// five setters within that slot's block.
func (g *PGRAPH) setTextureField(method, parameter uint32) {
	rel := method - MethodSetTextureOffset
	slot := int(rel / textureSlotStride)
	if slot < 0 || slot >= len(g.Textures) {
		return
	}
	t := &g.Textures[slot]
	field := rel % textureSlotStride

	switch field {
	case MethodSetTextureOffset - MethodSetTextureOffset:
		t.Offset = parameter
		t.Dirty = true
	case MethodSetTextureFormat - MethodSetTextureOffset:
		t.ColorFormat = TextureColorFormat((parameter >> 8) & 0xFF)
		t.DMASelect = int((parameter >> 1) & 1)
		t.LogWidth = (parameter >> 20) & 0xF
		t.LogHeight = (parameter >> 24) & 0xF
		t.MipmapLevels = (parameter >> 16) & 0xF
		t.Linear = parameter&(1<<4) == 0
		t.Dirty = true
	case MethodSetTextureControl0 - MethodSetTextureOffset:
		t.Enabled = parameter&(1<<30) != 0
		t.LODMinClamp = (parameter >> 0) & 0xFFF
		t.LODMaxClamp = (parameter >> 12) & 0xFFF
	case MethodSetTextureFilter - MethodSetTextureOffset:
		t.FilterMin = (parameter >> 24) & 0xF
		t.FilterMag = (parameter >> 16) & 0xF
		t.AnisoClamp = (parameter >> 28) & 0xF // supplement C.6
	case MethodSetTextureImageRect - MethodSetTextureOffset:
		t.RectWidth = parameter >> 16
		t.RectHeight = parameter & 0xFFFF
		t.RectScale = true // supplement C.6: non-power-of-two rect path
		t.Dirty = true
	}
}

// levelByteSize returns one mip level's byte extent for the given format and
// dimensions (spec.md §4.9's per-level accounting): compressed formats are
// measured in 4x4 blocks, everything else is flat width*height*bpp.
func levelByteSize(format TextureColorFormat, width, height int) uint32 {
	switch format {
	case TextureFormatDXT1:
		return uint32(((width + 3) / 4) * ((height + 3) / 4) * 8)
	case TextureFormatDXT3, TextureFormatDXT5:
		return uint32(((width + 3) / 4) * ((height + 3) / 4) * 16)
	case TextureFormatY8:
		return uint32(width * height)
	default:
		return uint32(width * height * 4)
	}
}

// mipLevelCount clamps the descriptor's configured mipmap count by its
// LOD-max-clamp field (spec.md §4.9: "up to levels mipmaps (clamped by
// max-lod-clamp)"). LODMaxClamp is a fixed-point NV2A LOD value; the integer
// portion (its top bits) bounds the level count the same way the filtered
// excerpt's mipmap walk does.
func mipLevelCount(t *TextureDescriptor) int {
	levels := int(t.MipmapLevels)
	if levels < 1 {
		levels = 1
	}
	if clamp := int(t.LODMaxClamp>>8) + 1; clamp > 0 && clamp < levels {
		levels = clamp
	}
	return levels
}

// textureByteSize estimates the source byte extent to slice out of guest
// memory for a texture (spec.md §4.9): linear (rectangle) textures carry no
// mipmaps, so it's one level; non-linear textures sum every mip level down
// to 1x1 or until mipLevelCount is exhausted, halving each dimension (
// minimum 4 for compressed formats, per spec.md §4.9's upload loop).
func textureByteSize(t *TextureDescriptor) (width, height int, size uint32) {
	width = int(t.RectWidth)
	height = int(t.RectHeight)
	if !t.Linear {
		width = 1 << t.LogWidth
		height = 1 << t.LogHeight
	}
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}

	if t.Linear {
		size = levelByteSize(t.ColorFormat, width, height)
		return
	}

	w, h := width, height
	compressed := t.ColorFormat == TextureFormatDXT1 || t.ColorFormat == TextureFormatDXT3 || t.ColorFormat == TextureFormatDXT5
	minDim := 1
	if compressed {
		minDim = 4
	}
	for level, levels := 0, mipLevelCount(t); level < levels; level++ {
		size += levelByteSize(t.ColorFormat, w, h)
		if w <= minDim && h <= minDim {
			break
		}
		w = maxInt(w/2, minDim)
		h = maxInt(h/2, minDim)
	}
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// bindTextures implements the BEGIN-time half of spec.md §4.9: each
// enabled, dirty slot is re-uploaded through HostBinding; disabled slots
// are unbound.
func (g *PGRAPH) bindTextures() {
	if g.host == nil {
		return
	}
	for i := range g.Textures {
		t := &g.Textures[i]
		if !t.Enabled {
			g.host.UnbindTexture(i)
			continue
		}
		if !t.Dirty {
			continue
		}
		_, _, size := textureByteSize(t)
		addr := g.resolveAddress(g.dmaHandleForSelect(t.DMASelect), t.Offset)
		data := g.vramSliceOrNil(addr, size)
		g.host.BindTexture(i, *t, data)
		t.Dirty = false
	}
}
