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

package nv2a

import "testing"

func newTestBlitPGRAPH() (*PGRAPH, *SubchannelTable) {
	table := &SubchannelTable{}
	g := NewPGRAPH(table, 8, nil)
	g.SetVRAM(NewGuestMemory(0x10000, nil))
	return g, table
}

// TestPGRAPH_ImageBlitY8UsesOneBytePerPixel pins spec.md §4.6's "Y8 -> 1 BPP"
// against the real NV062_SET_COLOR_FORMAT_LE_Y8 code (0x01), not the
// unrelated Kelvin SurfaceColorFormat/TextureColorFormat namespaces.
func TestPGRAPH_ImageBlitY8UsesOneBytePerPixel(t *testing.T) {
	g, table := newTestBlitPGRAPH()
	table.Set(0, GraphicsObject{
		Class:  ClassContextSurfaces2D,
		Handle: 0x11,
		Surfaces2D: &ContextSurfaces2D{
			SourcePitch: 16, DestPitch: 16, DestOffset: 16,
			ColorFormat: ContextSurfaceFormatY8,
		},
	})

	src := g.vram.Slice(0, 16)
	for i := range src {
		src[i] = byte(0x40 + i)
	}

	blit := &ImageBlit{
		SurfacesHandle: 0x11,
		Operation:      ImageBlitSRCCOPY,
		Width:          4, Height: 1,
	}
	g.triggerImageBlit(blit)

	dst := g.vram.Slice(16, 4)
	for i := 0; i < 4; i++ {
		if dst[i] != src[i] {
			t.Errorf("dst[%d] = %#x, want %#x (1 BPP row copy)", i, dst[i], src[i])
		}
	}
}

// TestPGRAPH_ImageBlitA8R8G8B8UsesFourBytesPerPixel pins spec.md §4.6's
// "A8R8G8B8 -> 4 BPP" against NV062_SET_COLOR_FORMAT_LE_A8R8G8B8 (0x0A).
func TestPGRAPH_ImageBlitA8R8G8B8UsesFourBytesPerPixel(t *testing.T) {
	g, table := newTestBlitPGRAPH()
	table.Set(0, GraphicsObject{
		Class:  ClassContextSurfaces2D,
		Handle: 0x22,
		Surfaces2D: &ContextSurfaces2D{
			SourcePitch: 16, DestPitch: 16, DestOffset: 16,
			ColorFormat: ContextSurfaceFormatA8R8G8B8,
		},
	})

	src := g.vram.Slice(0, 16)
	for i := range src {
		src[i] = byte(0x80 + i)
	}

	blit := &ImageBlit{
		SurfacesHandle: 0x22,
		Operation:      ImageBlitSRCCOPY,
		Width:          4, Height: 1,
	}
	g.triggerImageBlit(blit)

	dst := g.vram.Slice(16, 16)
	for i := 0; i < 16; i++ {
		if dst[i] != src[i] {
			t.Errorf("dst[%d] = %#x, want %#x (4 BPP row copy)", i, dst[i], src[i])
		}
	}
}

// TestPGRAPH_ImageBlitUnknownColorFormatPanics pins the original's
// assert(false) default for any ContextSurfaces2D color format besides Y8
// and A8R8G8B8 (spec.md §4.6).
func TestPGRAPH_ImageBlitUnknownColorFormatPanics(t *testing.T) {
	g, table := newTestBlitPGRAPH()
	table.Set(0, GraphicsObject{
		Class:      ClassContextSurfaces2D,
		Handle:     0x33,
		Surfaces2D: &ContextSurfaces2D{ColorFormat: 0x07},
	})

	defer func() {
		if recover() == nil {
			t.Error("triggerImageBlit with an unsupported color format did not panic")
		}
	}()
	g.triggerImageBlit(&ImageBlit{SurfacesHandle: 0x33, Operation: ImageBlitSRCCOPY, Width: 1, Height: 1})
}
