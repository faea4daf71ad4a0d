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

func TestGuestMemory_ReadWriteU32RoundTrip(t *testing.T) {
	m := NewGuestMemory(4096, nil)
	m.WriteU32(0x100, 0xDEADBEEF)
	if got := m.ReadU32(0x100); got != 0xDEADBEEF {
		t.Errorf("ReadU32 = %#x, want 0xDEADBEEF", got)
	}
}

func TestGuestMemory_SliceAliasesUnderlyingStorage(t *testing.T) {
	m := NewGuestMemory(4096, nil)
	m.WriteU32(0x10, 1)
	s := m.Slice(0x10, 4)
	if len(s) != 4 {
		t.Fatalf("Slice length = %d, want 4", len(s))
	}
	if s[0] != 1 || s[1] != 0 {
		t.Errorf("Slice contents = %v, want [1 0 0 0]", s)
	}
}

func TestGuestMemory_CopyInCopyOutRoundTrip(t *testing.T) {
	m := NewGuestMemory(4096, nil)
	src := []byte{1, 2, 3, 4, 5}
	m.CopyIn(0x20, src)

	dst := make([]byte, len(src))
	m.CopyOut(dst, 0x20)
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("CopyOut[%d] = %d, want %d", i, dst[i], src[i])
		}
	}
}

// trackingDirty is a DirtyTracker that records whether a range was marked
// and lets tests assert TestAndClearDirty only reports true once.
type trackingDirty struct {
	marked bool
}

func (t *trackingDirty) MarkDirty(addr, length uint32) { t.marked = true }
func (t *trackingDirty) TestAndClear(addr, length uint32) bool {
	was := t.marked
	t.marked = false
	return was
}

func TestGuestMemory_WriteU32MarksDirtyTracker(t *testing.T) {
	tracker := &trackingDirty{}
	m := NewGuestMemory(4096, tracker)

	if m.TestAndClearDirty(0, 4) {
		t.Fatal("fresh memory should not be dirty")
	}
	m.WriteU32(0, 1)
	if !m.TestAndClearDirty(0, 4) {
		t.Fatal("WriteU32 should have marked the range dirty")
	}
	if m.TestAndClearDirty(0, 4) {
		t.Fatal("TestAndClearDirty should clear the dirty state")
	}
}

func TestGuestMemory_AlwaysDirtyDefaultsWhenNoTrackerGiven(t *testing.T) {
	m := NewGuestMemory(16, nil)
	if !m.TestAndClearDirty(0, 16) {
		t.Fatal("nil tracker should default to AlwaysDirty")
	}
}
