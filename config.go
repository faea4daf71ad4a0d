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

// config.go - construction-time parameters for the emulation core
//
// Mirrors the teacher's approach (NewVideoChip(backend int), NewVoodooEngine
// (bus *MachineBus)): no env vars, no config file, just explicit constructor
// arguments with sane defaults. spec.md §6 states the core has no
// environment/CLI surface.

package nv2a

const (
	defaultRAMINSize   = 1 * 1024 * 1024   // RAMIN window size (spec.md §6 lists 0x100000 at 0x700000)
	defaultVRAMSize    = 64 * 1024 * 1024  // guest VRAM
	defaultChannels    = 32                // spec.md §3 "one of 32 independent command streams"
	defaultSubchannels = 8                 // spec.md §3 "one of 8 slots"
	defaultCache1Depth = 512                // Cache1 high-watermark (spec.md §4.4 "implementation-defined bound")
	defaultShaderCache = 512                // bounded LRU capacity (§9 open question)
)

// Config bundles the sizes and knobs a Core is built from. Zero-valued
// sizes, counts and capacities are replaced by DefaultConfig's values.
type Config struct {
	RAMINSize   uint32
	VRAMSize    uint32
	Channels    int
	Subchannels int

	// Cache1Depth bounds the method cache between pusher and puller
	// (spec.md §4.4's "implementation-defined bound").
	Cache1Depth int

	// ShaderCacheCapacity bounds the ShaderState -> host program LRU
	// (spec.md §9 "shader cache growth is unbounded in the source").
	ShaderCacheCapacity int

	// AllowNonBGRAUB_D3D relaxes the UB_D3D vertex-format assertion
	// (spec.md §9) from a panic to a best-effort conversion when the guest
	// count is not 4.
	AllowNonBGRAUB_D3D bool
}

// DefaultConfig returns the configuration used when a caller doesn't need to
// override anything.
func DefaultConfig() Config {
	return Config{
		RAMINSize:           defaultRAMINSize,
		VRAMSize:            defaultVRAMSize,
		Channels:            defaultChannels,
		Subchannels:         defaultSubchannels,
		Cache1Depth:         defaultCache1Depth,
		ShaderCacheCapacity: defaultShaderCache,
		AllowNonBGRAUB_D3D:  false,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RAMINSize == 0 {
		c.RAMINSize = d.RAMINSize
	}
	if c.VRAMSize == 0 {
		c.VRAMSize = d.VRAMSize
	}
	if c.Channels == 0 {
		c.Channels = d.Channels
	}
	if c.Subchannels == 0 {
		c.Subchannels = d.Subchannels
	}
	if c.Cache1Depth == 0 {
		c.Cache1Depth = d.Cache1Depth
	}
	if c.ShaderCacheCapacity == 0 {
		c.ShaderCacheCapacity = d.ShaderCacheCapacity
	}
	return c
}
