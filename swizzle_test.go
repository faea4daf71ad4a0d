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

import (
	"bytes"
	"testing"
)

func TestGenerateSwizzleMasks2D_SquarePartitionsBitsRoundRobin(t *testing.T) {
	maskX, maskY := generateSwizzleMasks2D(2, 2) // 4x4
	if maskX != 0x5 || maskY != 0xA {
		t.Errorf("masks = %#x, %#x, want 0x5, 0xa", maskX, maskY)
	}
}

func TestGenerateSwizzleMasks2D_WideRectangleLeavesExcessBitsToX(t *testing.T) {
	maskX, maskY := generateSwizzleMasks2D(3, 1) // 8x2
	if maskX|maskY != 0xF {
		t.Fatalf("masks don't cover the full 4-bit address space: %#x | %#x", maskX, maskY)
	}
	if maskX&maskY != 0 {
		t.Error("X and Y masks must not overlap")
	}
}

func TestIncrementMasked_WrapsWithinMaskOnly(t *testing.T) {
	mask := uint32(0x5) // bits 0 and 2
	v := uint32(0x5)    // both mask bits already set
	got := incrementMasked(v, mask)
	if got != 0 {
		t.Errorf("incrementMasked(0x5, 0x5) = %#x, want 0 (wraps within the mask)", got)
	}
}

func TestDeswizzleBytes_InverseOfSwizzleBytesRoundTrips(t *testing.T) {
	const width, height, bpp = 8, 8, 4
	linear := make([]byte, width*height*bpp)
	for i := range linear {
		linear[i] = byte(i)
	}

	swizzled := make([]byte, width*height*bpp)
	SwizzleBytes(swizzled, linear, width, height, bpp)
	roundTripped := DeswizzleBytes(swizzled, width, height, bpp)

	if !bytes.Equal(roundTripped, linear) {
		t.Error("deswizzle(swizzle(linear)) should reproduce the original row-major bytes")
	}
}

func TestSwizzleBytes_PermutesRatherThanDropsBytes(t *testing.T) {
	// Every source byte still appears exactly once in the destination, just
	// reordered: a corrupted mask would duplicate some offsets and leave
	// others as their zero-initialized default instead.
	const width, height, bpp = 4, 4, 1
	linear := make([]byte, width*height*bpp)
	for i := range linear {
		linear[i] = byte(i + 1) // avoid the zero value so gaps are visible
	}

	swizzled := make([]byte, width*height*bpp)
	SwizzleBytes(swizzled, linear, width, height, bpp)

	seen := make(map[byte]bool)
	for _, b := range swizzled {
		if b == 0 {
			t.Fatal("swizzled output contains an untouched zero byte")
		}
		if seen[b] {
			t.Fatalf("byte value %d written more than once", b)
		}
		seen[b] = true
	}
}

func TestDeswizzleBytes_NonSquareDimensions(t *testing.T) {
	const width, height, bpp = 16, 4, 2
	linear := make([]byte, width*height*bpp)
	for i := range linear {
		linear[i] = byte(i * 3)
	}

	swizzled := make([]byte, width*height*bpp)
	SwizzleBytes(swizzled, linear, width, height, bpp)
	roundTripped := DeswizzleBytes(swizzled, width, height, bpp)

	if !bytes.Equal(roundTripped, linear) {
		t.Error("round trip should hold for non-square power-of-two dimensions")
	}
}
