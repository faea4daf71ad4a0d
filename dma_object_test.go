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

func newTestResolver() (*DMAResolver, *GuestMemory, *GuestMemory) {
	ramin := NewGuestMemory(0x10000, nil)
	vram := NewGuestMemory(0x100000, nil)
	return NewDMAResolver(ramin, vram), ramin, vram
}

// writeDescriptor encodes a 12-byte RAMIN DMA descriptor at offset, matching
// the {class, target, base, limit} layout dma_object.go's Load decodes.
func writeDescriptor(ramin *GuestMemory, offset uint32, class uint32, target DMATarget, frame, limit uint32) {
	flags := setMaskU32(0, dmaClassMask, class)
	flags = setMaskU32(flags, dmaTargetMask, uint32(target))
	ramin.WriteU32(offset, flags)
	ramin.WriteU32(offset+4, limit)
	ramin.WriteU32(offset+8, frame)
}

func TestDMAResolver_LoadDecodesDescriptor(t *testing.T) {
	dma, ramin, _ := newTestResolver()
	writeDescriptor(ramin, 0x1000, 0x3D, DMATargetVRAM, 0x2000, 0x1000)

	obj, err := dma.Load(0x1000)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if obj.Class != 0x3D || obj.Target != DMATargetVRAM || obj.Address != 0x2000 || obj.Limit != 0x1000 {
		t.Errorf("Load = %+v, want Class=0x3D Target=VRAM Address=0x2000 Limit=0x1000", obj)
	}
}

func TestDMAResolver_LoadRejectsOutOfRangeOffset(t *testing.T) {
	dma, ramin, _ := newTestResolver()
	_, err := dma.Load(ramin.Size())
	if err != ErrInvalidDescriptor {
		t.Errorf("Load at ramin.Size() = %v, want ErrInvalidDescriptor", err)
	}
}

func TestDMAResolver_MapRejectsExtentBeyondVRAM(t *testing.T) {
	dma, ramin, vram := newTestResolver()
	writeDescriptor(ramin, 0x1000, 0x3D, DMATargetVRAM, vram.Size()-0x10, 0x2000)

	_, _, err := dma.Map(0x1000)
	if err != ErrInvalidExtent {
		t.Errorf("Map past VRAM end = %v, want ErrInvalidExtent", err)
	}
}

func TestDMAResolver_MapReturnsSliceOfDeclaredLimit(t *testing.T) {
	dma, ramin, vram := newTestResolver()
	writeDescriptor(ramin, 0x1000, 0x3D, DMATargetVRAM, 0x4000, 0x200)
	vram.WriteU32(0x4000, 0xCAFEBABE)

	slice, obj, err := dma.Map(0x1000)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(slice) != int(obj.Limit) {
		t.Errorf("slice length = %d, want %d", len(slice), obj.Limit)
	}
	if slice[0] != 0xBE || slice[1] != 0xBA {
		t.Errorf("slice contents = %v, want little-endian 0xCAFEBABE prefix", slice[:4])
	}
}

func TestDMAResolver_MapAtAddsWithinOffset(t *testing.T) {
	dma, ramin, _ := newTestResolver()
	writeDescriptor(ramin, 0x1000, 0x3D, DMATargetVRAM, 0x4000, 0x1000)

	addr, _, err := dma.MapAt(0x1000, 0x40)
	if err != nil {
		t.Fatalf("MapAt: %v", err)
	}
	if addr != 0x4040 {
		t.Errorf("MapAt address = %#x, want 0x4040", addr)
	}
}
