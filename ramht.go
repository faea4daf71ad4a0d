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

// ramht.go - RAMHT: handle -> {instance, engine, channel, valid} hash table
// (spec.md §4.2, §3 "RAMHT entry")
//
// Grounded directly on original_source/hw/xbox/nv2a.c's ramht_hash/
// ramht_lookup. spec.md §9 flags the hash function as a documented
// divergence from nouveau's published algorithm; this port preserves the
// divergence rather than "fixing" it, per spec.md §9's instruction not to
// guess intent.

package nv2a

const (
	ramhtEntrySize = 8 // two little-endian 32-bit words

	ramhtInstanceMask = 0x00000FFF // NV_RAMHT_INSTANCE (pre-shift by 4)
	ramhtEngineMask   = 0x00030000 // NV_RAMHT_ENGINE
	ramhtChannelMask  = 0x1F000000 // NV_RAMHT_CHID
	ramhtValidMask    = 0x80000000 // NV_RAMHT_STATUS
)

// Engine identifies which PFIFO engine a subchannel is bound to (spec.md
// §3 "Subchannel").
type Engine uint32

const (
	EngineSoftware Engine = 0
	EngineGraphics Engine = 1
	EngineDVD      Engine = 2
)

// RAMHTEntry is the decoded form of an 8-byte RAMIN hash-table slot.
type RAMHTEntry struct {
	Handle    uint32
	Instance  uint32
	Engine    Engine
	ChannelID int
	Valid     bool
}

// RAMHT hashes object handles into a fixed-size table resident in RAMIN.
type RAMHT struct {
	ramin   *GuestMemory
	address uint32 // RAMHT base offset within RAMIN (shifted x4096 per spec.md §6)
	size    uint32 // table size in bytes, a power of two
}

// NewRAMHT constructs a RAMHT view at the given RAMIN offset and byte size.
func NewRAMHT(ramin *GuestMemory, address, size uint32) *RAMHT {
	return &RAMHT{ramin: ramin, address: address, size: size}
}

// hash implements spec.md §4.2's folding hash: bits = ctz(size) - 1; fold the
// handle into bits-wide XOR chunks; XOR with channel_id << (bits-4).
func (h *RAMHT) hash(handle uint32, channelID int) uint32 {
	bits := uint32(ctz32(h.size) - 1)
	mask := (uint32(1) << bits) - 1

	var result uint32
	v := handle
	for v != 0 {
		result ^= v & mask
		v >>= bits
	}
	result ^= uint32(channelID) << (bits - 4)
	return result
}

// Lookup resolves a handle to its entry. Per spec.md §4.2 ("the entry is
// valid only if the stored valid bit is set and the channel id matches"),
// channelID is the channel the lookup is being performed on behalf of: an
// entry that is !Valid, whose handle doesn't match what's stored at the
// hashed slot, or whose stored ChannelID doesn't match channelID yields
// ErrInvalidHandle. This is distinct from the puller's own context-switch
// check (spec.md §4.5), which compares the now-validated entry's ChannelID
// against PGRAPH's *currently bound* channel, not against channelID here.
func (h *RAMHT) Lookup(handle uint32, channelID int) (RAMHTEntry, error) {
	slot := h.hash(handle, channelID)
	byteOffset := h.address + slot*ramhtEntrySize
	if slot*ramhtEntrySize >= h.size {
		// original_source asserts here (assert(hash*8 < ramht_size));
		// spec.md §7 preserves guest-bug asserts as assertions.
		panic("nv2a: ramht hash out of table bounds")
	}

	entryHandle := h.ramin.ReadU32(byteOffset)
	context := h.ramin.ReadU32(byteOffset + 4)

	entry := RAMHTEntry{
		Handle:    entryHandle,
		Instance:  getMaskU32(context, ramhtInstanceMask) << 4,
		Engine:    Engine(getMaskU32(context, ramhtEngineMask)),
		ChannelID: int(getMaskU32(context, ramhtChannelMask)),
		Valid:     context&ramhtValidMask != 0,
	}

	if !entry.Valid || entry.Handle != handle || entry.ChannelID != channelID {
		return RAMHTEntry{}, ErrInvalidHandle
	}
	return entry, nil
}

// Store writes an entry at its hashed slot. The core itself never calls
// this in normal operation (spec.md §3: "created by guest writes to RAMIN;
// the core is read-only") — it exists for test setup that needs to seed a
// RAMHT entry without hand-encoding the byte layout.
func (h *RAMHT) Store(entry RAMHTEntry) {
	slot := h.hash(entry.Handle, entry.ChannelID)
	byteOffset := h.address + slot*ramhtEntrySize

	context := uint32(0)
	context = setMaskU32(context, ramhtInstanceMask, entry.Instance>>4)
	context = setMaskU32(context, ramhtEngineMask, uint32(entry.Engine))
	context = setMaskU32(context, ramhtChannelMask, uint32(entry.ChannelID))
	if entry.Valid {
		context |= ramhtValidMask
	}

	h.ramin.WriteU32(byteOffset, entry.Handle)
	h.ramin.WriteU32(byteOffset+4, context)
}
