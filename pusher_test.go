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

// pusher_test.go exercises spec.md §8's pushbuffer-parser laws and
// end-to-end scenarios 2-4 directly against Pusher.Run.

package nv2a

import "testing"

// newTestPusher builds a Pusher over a channel whose DMA instance points at
// a pushbuffer region starting at VRAM address 0, writes words into that
// region, and returns everything a test needs to drive Run.
func newTestPusher(t *testing.T, words ...uint32) (*Pusher, *Channel, *Cache1) {
	t.Helper()
	dma, ramin, vram := newTestResolver()
	writeDescriptor(ramin, 0x2000, 0x3D, DMATargetVRAM, 0, vram.Size())

	for i, w := range words {
		vram.WriteU32(uint32(i*4), w)
	}

	cache := NewCache1(64)
	pusher := NewPusher(dma, cache)

	ch := NewChannel(0)
	ch.Mode = ChannelModeDMA
	ch.PushEnabled = true
	ch.SetDMAInstance(0x2000)
	ch.Put = uint32(len(words) * 4)

	return pusher, ch, cache
}

func TestPusher_EmptyPushbufferProducesNoEntries(t *testing.T) {
	pusher, ch, cache := newTestPusher(t)
	ch.Put = 0 // GET == PUT

	pusher.Run(ch)

	if cache.Len() != 0 {
		t.Errorf("cache.Len() = %d, want 0", cache.Len())
	}
}

func TestPusher_OldJumpRewindsGetAndSavesShadow(t *testing.T) {
	// Exercised directly against decodeOpcode: Run's loop terminates on
	// GET==PUT, so driving an old-jump through Run requires PUT to already
	// sit at the jump target, which decodeOpcode alone can assert cleanly.
	dma, ramin, vram := newTestResolver()
	writeDescriptor(ramin, 0x2000, 0x3D, DMATargetVRAM, 0, vram.Size())
	cache := NewCache1(64)
	pusher := NewPusher(dma, cache)

	var jmpShadowBefore uint32 = 0xFFFFFFFF
	pusher.jmpShadow = jmpShadowBefore

	ch := NewChannel(0)
	ch.Put = 100 // arbitrary; decodeOpcode doesn't consult Put
	if err := pusher.decodeOpcode(ch, 0x20000000); err != nil {
		t.Fatalf("decodeOpcode(old-jump): %v", err)
	}
	get, _ := ch.GetPut()
	if get != 0 {
		t.Errorf("GET after old-jump to 0 = %#x, want 0", get)
	}
	if pusher.jmpShadow == jmpShadowBefore {
		t.Error("old-jump should have saved the prior GET into jmpShadow")
	}
}

func TestPusher_ReturnWithoutActiveSubroutineFails(t *testing.T) {
	pusher, ch, cache := newTestPusher(t, 0x00020000)
	pusher.Run(ch)

	err := cache.Error()
	if err == nil {
		t.Fatal("expected a pusher error for RETURN with no active subroutine")
	}
	pe, ok := err.(*PusherError)
	if !ok || pe.Unwrap() != ErrPusherReturn {
		t.Errorf("cache error = %v, want ErrPusherReturn", err)
	}
	if !ch.PushSuspended {
		t.Error("pusher should suspend the channel on error")
	}
}

func TestPusher_CallThenReturnRestoresGet(t *testing.T) {
	// word0 (offset 0): call to offset 8, the subroutine body.
	// word1 (offset 4): never reached by this run, but it's the return
	// address saved by the call, so PUT stops right after it.
	// word2 (offset 8): a harmless no-op increasing-methods header.
	// word3 (offset 12): return, which resumes at offset 4 == PUT.
	pusher, ch, _ := newTestPusher(t,
		0x00000008|pusherCallMatch, // call -> offset 8
		0xDEADBEEF,
		0x00000000,
		pusherReturnWord,
	)
	ch.Put = 4
	pusher.Run(ch)

	get, put := ch.GetPut()
	if get != put {
		t.Errorf("GET = %#x after call/return, want GET==PUT==%#x", get, put)
	}
}

func TestPusher_ReservedCommandFails(t *testing.T) {
	pusher, ch, cache := newTestPusher(t, 0x80000000)
	pusher.Run(ch)

	err := cache.Error()
	if err == nil {
		t.Fatal("expected a pusher error for a reserved command word")
	}
	pe, ok := err.(*PusherError)
	if !ok || pe.Unwrap() != ErrPusherReservedCmd {
		t.Errorf("cache error = %v, want ErrPusherReservedCmd", err)
	}
}

func TestPusher_IncreasingMethodsProduceSequentialMethodAddresses(t *testing.T) {
	// header: method=0x200, subchannel=0, count=3, increasing
	header := uint32(0x200) | (0 << 13) | (3 << 18)
	pusher, ch, cache := newTestPusher(t, header, 0x123, 0x456, 0x789)
	pusher.Run(ch)

	if cache.Len() != 3 {
		t.Fatalf("cache.Len() = %d, want 3", cache.Len())
	}
	want := []struct {
		method, param uint32
	}{
		{0x200, 0x123},
		{0x204, 0x456},
		{0x208, 0x789},
	}
	for i, w := range want {
		e, ok := cache.Pop()
		if !ok {
			t.Fatalf("entry %d missing", i)
		}
		if e.Method != w.method || e.Parameter != w.param || e.Nonincreasing {
			t.Errorf("entry %d = %+v, want method=%#x param=%#x nonincreasing=false", i, e, w.method, w.param)
		}
	}
}

func TestPusher_NonIncreasingMethodsKeepSameMethodAddress(t *testing.T) {
	// header: method=0x200, subchannel=0, count=2, non-increasing
	header := pusherNonIncMatch | uint32(0x200) | (0 << 13) | (2 << 18)
	pusher, ch, cache := newTestPusher(t, header, 0xAA, 0xBB)
	pusher.Run(ch)

	if cache.Len() != 2 {
		t.Fatalf("cache.Len() = %d, want 2", cache.Len())
	}
	for i, want := range []uint32{0xAA, 0xBB} {
		e, ok := cache.Pop()
		if !ok {
			t.Fatalf("entry %d missing", i)
		}
		if e.Method != 0x200 || e.Parameter != want || !e.Nonincreasing {
			t.Errorf("entry %d = %+v, want method=0x200 param=%#x nonincreasing=true", i, e, want)
		}
	}
}
