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

package hostgpu

import (
	"testing"

	"github.com/nv2acore/nv2a"
)

func TestSurfaceGLFormatBytesPerPixel(t *testing.T) {
	cases := []struct {
		format nv2a.SurfaceColorFormat
		bpp    int
	}{
		{nv2a.SurfaceFormatR5G6B5, 2},
		{nv2a.SurfaceFormatA8R8G8B8, 4},
		{nv2a.SurfaceFormatX8R8G8B8_Z8R8G8B8, 4},
	}
	for _, c := range cases {
		if got := surfaceGLFormat(c.format).bytesPerPixel; got != c.bpp {
			t.Errorf("surfaceGLFormat(%v).bytesPerPixel = %d, want %d", c.format, got, c.bpp)
		}
	}
}

func TestTextureGLFormatCompressed(t *testing.T) {
	cases := []struct {
		format     nv2a.TextureColorFormat
		compressed bool
		blockBytes int
	}{
		{nv2a.TextureFormatDXT1, true, 8},
		{nv2a.TextureFormatDXT3, true, 16},
		{nv2a.TextureFormatDXT5, true, 16},
		{nv2a.TextureFormatY8, false, 0},
		{nv2a.TextureFormatA8R8G8B8, false, 0},
	}
	for _, c := range cases {
		info := textureGLFormat(c.format)
		if info.compressed != c.compressed {
			t.Errorf("textureGLFormat(%v).compressed = %v, want %v", c.format, info.compressed, c.compressed)
		}
		if info.blockBytes != c.blockBytes {
			t.Errorf("textureGLFormat(%v).blockBytes = %d, want %d", c.format, info.blockBytes, c.blockBytes)
		}
	}
}

func TestVertexComponentGLType(t *testing.T) {
	if vertexComponentGLType(nv2a.VertexComponentFloat) != 0x1406 {
		t.Fatalf("expected GL_FLOAT for VertexComponentFloat")
	}
	if vertexComponentGLType(nv2a.VertexComponentUByte) != glUnsignedByte {
		t.Fatalf("expected GL_UNSIGNED_BYTE for VertexComponentUByte")
	}
}

func TestPrimitiveGLModeCoversEveryPrimitive(t *testing.T) {
	seen := map[glEnum]bool{}
	for code := nv2a.PrimitivePoints; code <= nv2a.PrimitivePolygon; code++ {
		mode := primitiveGLMode(code)
		if seen[mode] {
			t.Errorf("primitive code %d reused GL mode 0x%x already assigned to another primitive", code, mode)
		}
		seen[mode] = true
	}
}
