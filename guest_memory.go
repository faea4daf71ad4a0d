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

// guest_memory.go - byte-level view into guest VRAM and RAMIN
//
// Adapted from the teacher's memory_bus.go SystemBus: a contiguous byte
// slice guarded by a RWMutex with little-endian accessors. Generalized from
// a single flat address space with IO-region callbacks into two independent
// windows (VRAM and RAMIN) plus a pluggable DirtyTracker, since spec.md §1
// treats guest-VRAM dirty-tracking as an external, already-available
// collaborator ("mark dirty / test-and-clear dirty").

package nv2a

import (
	"encoding/binary"
	"sync"
)

// DirtyTracker is the out-of-scope collaborator spec.md §1 assumes exists:
// guest-driver writes to VRAM mark ranges dirty, and the surface-coherency
// path test-and-clears them. A no-op implementation (AlwaysDirty) is
// provided for callers/tests that don't wire a real one.
type DirtyTracker interface {
	// MarkDirty records that [addr, addr+length) was written by the guest.
	MarkDirty(addr, length uint32)
	// TestAndClear reports whether any byte in [addr, addr+length) is dirty,
	// clearing the range's dirty state as a side effect.
	TestAndClear(addr, length uint32) bool
}

// AlwaysDirty is a DirtyTracker that always reports dirty and never
// remembers state; useful for tests and for callers that don't need the
// CPU-dirty optimization and always want surface upload to run.
type AlwaysDirty struct{}

func (AlwaysDirty) MarkDirty(addr, length uint32)          {}
func (AlwaysDirty) TestAndClear(addr, length uint32) bool  { return true }

// GuestMemory is a byte-addressable window over one of the guest's memory
// regions (VRAM or RAMIN). Safe for concurrent use: PFIFO pusher/puller and
// PGRAPH methods read it, the host MMIO thread may write to RAMIN-resident
// descriptor tables on the guest's behalf in tests.
type GuestMemory struct {
	mu     sync.RWMutex
	bytes  []byte
	dirty  DirtyTracker
}

// NewGuestMemory allocates a zeroed window of the given size. A nil tracker
// defaults to AlwaysDirty.
func NewGuestMemory(size uint32, tracker DirtyTracker) *GuestMemory {
	if tracker == nil {
		tracker = AlwaysDirty{}
	}
	return &GuestMemory{
		bytes: make([]byte, size),
		dirty: tracker,
	}
}

// Size returns the window's byte length.
func (m *GuestMemory) Size() uint32 {
	return uint32(len(m.bytes))
}

// ReadU32 reads a little-endian 32-bit word at addr (spec.md §4.4: "read a
// 32-bit little-endian word").
func (m *GuestMemory) ReadU32(addr uint32) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return binary.LittleEndian.Uint32(m.bytes[addr : addr+4])
}

// WriteU32 writes a little-endian 32-bit word and marks the range dirty.
func (m *GuestMemory) WriteU32(addr, value uint32) {
	m.mu.Lock()
	binary.LittleEndian.PutUint32(m.bytes[addr:addr+4], value)
	m.mu.Unlock()
	m.dirty.MarkDirty(addr, 4)
}

// Slice returns a host-addressable view of length bytes starting at addr.
// Used by the DMA object resolver's "map" operation (spec.md §4.1) and by
// surface coherency / texture upload for direct pixel access. The returned
// slice aliases the underlying storage; callers must not retain it across a
// Reset.
func (m *GuestMemory) Slice(addr, length uint32) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bytes[addr : addr+length]
}

// CopyIn copies src into the window at addr and marks the range dirty (used
// by test setup and by the image-blit CPU-side memcpy, spec.md §4.6).
func (m *GuestMemory) CopyIn(addr uint32, src []byte) {
	m.mu.Lock()
	n := copy(m.bytes[addr:], src)
	m.mu.Unlock()
	m.dirty.MarkDirty(addr, uint32(n))
}

// CopyOut copies bytes starting at addr into dst, up to len(dst) or the end
// of memory, whichever comes first.
func (m *GuestMemory) CopyOut(dst []byte, addr uint32) {
	m.mu.RLock()
	copy(dst, m.bytes[addr:])
	m.mu.RUnlock()
}

// TestAndClearDirty reports and clears dirtiness over a range, delegating to
// the configured DirtyTracker (spec.md §4.12's upload-path precondition).
func (m *GuestMemory) TestAndClearDirty(addr, length uint32) bool {
	return m.dirty.TestAndClear(addr, length)
}

// MarkDirty exposes the tracker's MarkDirty for callers writing through
// Slice directly (e.g. the host-GPU download path writing pixels back into
// VRAM, spec.md §4.12).
func (m *GuestMemory) MarkDirty(addr, length uint32) {
	m.dirty.MarkDirty(addr, length)
}

// Reset zeroes the window.
func (m *GuestMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bytes {
		m.bytes[i] = 0
	}
}
