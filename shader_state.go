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

// shader_state.go - ShaderState fingerprinting and bounded LRU program cache
// (spec.md §3, §8 "shader cache hit", §9 "Shader cache growth")
//
// spec.md §9 flags the source's cache as unbounded and recommends an LRU
// keyed by fingerprint with host-API eviction ("delete program"); this file
// is that recommendation implemented (DESIGN.md's Open Question decision:
// default capacity 512, evicting via the HostBinding's DeleteProgram).

package nv2a

import "container/list"

// shaderFingerprint is a non-cryptographic avalanche hash over ShaderState's
// bytes (spec.md §3: "hashing is a non-cryptographic avalanche hash over the
// same bytes"). fnv-1a-style with an avalanche finishing mix, grounded on
// the same "fast non-crypto hash over a fixed byte record" shape used by
// the teacher's voodoo_vulkan.go pipeline-state-object cache key (hashed
// struct bytes, not per-field comparisons).
type shaderFingerprint uint64

func fingerprintShaderState(s *ShaderState) shaderFingerprint {
	h := shaderFingerprint(0xcbf29ce484222325)
	mix := func(v uint64) {
		h ^= shaderFingerprint(v)
		h *= 0x100000001b3
	}
	mix(uint64(s.CombinerControl))
	mix(uint64(s.ShaderStageProgram))
	mix(uint64(s.OtherStageInput))
	mix(uint64(s.FinalInputs[0]))
	mix(uint64(s.FinalInputs[1]))
	for _, v := range s.RGBIn {
		mix(uint64(v))
	}
	for _, v := range s.RGBOut {
		mix(uint64(v))
	}
	for _, v := range s.AlphaIn {
		mix(uint64(v))
	}
	for _, v := range s.AlphaOut {
		mix(uint64(v))
	}
	for i, v := range s.RectTex {
		if v {
			mix(uint64(i) + 1)
		}
	}
	if s.FixedFunction {
		mix(1)
	}
	if s.VertexProgram {
		mix(2)
	}
	mix(uint64(s.VertexProgramLen))
	for i := 0; i < s.VertexProgramLen && i < len(s.VertexProgramImage); i += 8 {
		var word uint64
		for j := 0; j < 8 && i+j < len(s.VertexProgramImage); j++ {
			word |= uint64(s.VertexProgramImage[i+j]) << (8 * j)
		}
		mix(word)
	}

	// avalanche finisher (splitmix64's final mix step)
	v := uint64(h)
	v ^= v >> 33
	v *= 0xff51afd7ed558ccd
	v ^= v >> 33
	v *= 0xc4ceb9fe1a85ec53
	v ^= v >> 33
	return shaderFingerprint(v)
}

// HostProgram is an opaque handle to a compiled/linked host shader program
// (hostgpu.Program, kept abstract here so shader_state.go has no import of
// the hostgpu package).
type HostProgram uint32

type shaderCacheEntry struct {
	key     ShaderState
	program HostProgram
}

// ShaderCache is a fingerprint-keyed, bounded-capacity LRU cache from
// ShaderState to a compiled host program (spec.md §3, §9).
type ShaderCache struct {
	capacity      int
	entries       map[shaderFingerprint][]*list.Element
	order         *list.List // front = most recently used
	deleteProgram func(handle uint32)
}

// NewShaderCache builds a cache bounded at capacity entries. deleteProgram
// is invoked on eviction with the evicted program's handle (may be nil in
// tests that don't need eviction observed).
func NewShaderCache(capacity int, deleteProgram func(handle uint32)) *ShaderCache {
	if capacity <= 0 {
		capacity = 512
	}
	return &ShaderCache{
		capacity:      capacity,
		entries:       make(map[shaderFingerprint][]*list.Element),
		order:         list.New(),
		deleteProgram: deleteProgram,
	}
}

// Lookup returns the cached program for key, if any. A fingerprint
// collision between two byte-unequal states falls back to exact ShaderState
// comparison (spec.md §3: "Equality is byte-wise") before calling it a hit.
func (c *ShaderCache) Lookup(key *ShaderState) (HostProgram, bool) {
	fp := fingerprintShaderState(key)
	for _, el := range c.entries[fp] {
		e := el.Value.(*shaderCacheEntry)
		if e.key == *key {
			c.order.MoveToFront(el)
			return e.program, true
		}
	}
	return 0, false
}

// Insert records a freshly compiled program under key, evicting the least
// recently used entry if the cache is at capacity.
func (c *ShaderCache) Insert(key *ShaderState, program HostProgram) {
	fp := fingerprintShaderState(key)
	el := c.order.PushFront(&shaderCacheEntry{key: *key, program: program})
	c.entries[fp] = append(c.entries[fp], el)

	for c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

func (c *ShaderCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	e := el.Value.(*shaderCacheEntry)
	fp := fingerprintShaderState(&e.key)

	c.order.Remove(el)
	list := c.entries[fp]
	for i, cand := range list {
		if cand == el {
			c.entries[fp] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(c.entries[fp]) == 0 {
		delete(c.entries, fp)
	}
	if c.deleteProgram != nil {
		c.deleteProgram(uint32(e.program))
	}
}

// Len reports the number of cached programs.
func (c *ShaderCache) Len() int {
	return c.order.Len()
}
