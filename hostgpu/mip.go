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

// mip.go - mip-chain walking for texture upload (spec.md §4.9): how many
// texel bytes a given level occupies, and where each level starts within
// the contiguous byte slice pgraph_texture.go's textureByteSize sized for
// the whole chain. Also converts NV2A's fixed-point LOD clamp fields into
// the float LOD bias/clamp GL expects.

package hostgpu

import (
	"github.com/chewxy/math32"
	"github.com/nv2acore/nv2a"
)

// mipLevel describes one entry of a texture's mip chain as laid out by
// nv2a.textureByteSize's summed accounting: width/height in texels, and the
// byte offset/length of this level within the source slice BindTexture
// receives.
type mipLevel struct {
	width, height int
	offset, size  int
}

// mipChain walks desc's mip levels the same way pgraph_texture.go's
// textureByteSize summed them, returning each level's dimensions and byte
// range so BindTexture can hand every level to a separate
// TexImage2D/CompressedTexImage2D call instead of only level 0.
func mipChain(desc *nv2a.TextureDescriptor, info textureFormatInfo) []mipLevel {
	if desc.Linear {
		width, height := int(desc.RectWidth), int(desc.RectHeight)
		if width == 0 {
			width = 1
		}
		if height == 0 {
			height = 1
		}
		return []mipLevel{{width: width, height: height, offset: 0, size: levelBytes(info, width, height)}}
	}

	width := 1 << desc.LogWidth
	height := 1 << desc.LogHeight
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}

	minDim := 1
	if info.compressed {
		minDim = 4
	}

	levels := int(desc.MipmapLevels)
	if levels < 1 {
		levels = 1
	}
	if clamp := int(desc.LODMaxClamp>>8) + 1; clamp > 0 && clamp < levels {
		levels = clamp
	}

	chain := make([]mipLevel, 0, levels)
	offset := 0
	w, h := width, height
	for level := 0; level < levels; level++ {
		size := levelBytes(info, w, h)
		chain = append(chain, mipLevel{width: w, height: h, offset: offset, size: size})
		offset += size
		if w <= minDim && h <= minDim {
			break
		}
		w = maxInt(w/2, minDim)
		h = maxInt(h/2, minDim)
	}
	return chain
}

func levelBytes(info textureFormatInfo, width, height int) int {
	if info.compressed {
		return ((width + 3) / 4) * ((height + 3) / 4) * info.blockBytes
	}
	if info.format == glRed {
		return width * height
	}
	return width * height * 4
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// lodClampToFloat converts one of TextureDescriptor's 12-bit fixed-point
// LOD clamp fields (8 fractional bits, the same split mipChain and
// pgraph_texture.go's mipLevelCount use when they take clamp>>8 as the
// integer level) into the float GL_TEXTURE_MIN_LOD/
// GL_TEXTURE_MAX_LOD expects. math32 rather than math avoids pulling the
// float64 package into a path that only ever needs float32 precision,
// matching the rest of this backend's uniform/vertex math.
func lodClampToFloat(clamp uint32) float32 {
	return math32.Max(0, float32(clamp)/256)
}
