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

// cache1.go - Cache1: the bounded FIFO between pusher and puller (spec.md
// §4.4, §5, §3 "Cache entry")
//
// The teacher has no direct queue-with-two-condvars analogue (its closest
// relative, coprocessor_manager.go's ring buffers, was trimmed — see
// DESIGN.md), so this is grounded on spec.md §5's explicit description:
// "Cache1.cache_lock + cache_cond: protects the queue ... and signals
// not-empty" plus a second condition for not-full, using stdlib sync.Cond
// the way the teacher uses sync.Mutex/RWMutex elsewhere — a condition
// variable pair is exactly what spec.md asks for and no pack example wraps
// one in a third-party queue library, so this is one of the few places
// genuinely best served by the standard library (see DESIGN.md).

package nv2a

import "sync"

// CacheEntry is one decoded pushbuffer method record (spec.md §3).
type CacheEntry struct {
	Method        uint32 // 14-bit method address
	Subchannel    int    // 3-bit subchannel index
	Nonincreasing bool
	Parameter     uint32
}

// Cache1 is the bounded queue the DMA pusher produces into and the puller
// consumes from. It exposes the PFIFO_CACHE1_DMA_PUSH/PULL0_ACCESS style
// error/enable bits that spec.md's pusher and puller sections reference.
type Cache1 struct {
	mu        sync.Mutex
	notEmpty  *sync.Cond
	notFull   *sync.Cond

	entries []CacheEntry
	depth   int

	channelID int // which channel this Cache1 instance is currently servicing

	// error holds the last pusher error (spec.md §4.4 "set Cache1.error").
	error error

	pullEnabled bool

	// boundEngines/lastEngine are protected by pull_lock in spec.md §5;
	// Cache1 already serializes access via mu, so they live here rather
	// than a separate lock, which matches the spirit (one lock per
	// logically-independent piece of state) without introducing a second
	// mutex Cache1 itself doesn't need.
	boundEngines [8]Engine
	lastEngine   Engine
}

// NewCache1 creates an empty cache bounded at depth entries.
func NewCache1(depth int) *Cache1 {
	c := &Cache1{
		entries: make([]CacheEntry, 0, depth),
		depth:   depth,
	}
	c.notEmpty = sync.NewCond(&c.mu)
	c.notFull = sync.NewCond(&c.mu)
	return c
}

// SetChannelID records which channel this Cache1 is bound to (spec.md §4.5:
// "Runs on the channel selected by Cache1's channel id").
func (c *Cache1) SetChannelID(id int) {
	c.mu.Lock()
	c.channelID = id
	c.mu.Unlock()
}

func (c *Cache1) ChannelID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channelID
}

// Push enqueues an entry, blocking while the queue is at its high-water
// mark (spec.md §4.4: "the pusher blocks on a cache not full condition").
func (c *Cache1) Push(entry CacheEntry) {
	c.mu.Lock()
	for len(c.entries) >= c.depth && c.pullEnabled {
		c.notFull.Wait()
	}
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
	c.notEmpty.Signal()
}

// Pop blocks until an entry is available or the cache is disabled, returning
// ok=false in the latter case (spec.md §4.5: "blocking on empty, wake on
// shutdown").
func (c *Cache1) Pop() (entry CacheEntry, ok bool) {
	c.mu.Lock()
	for len(c.entries) == 0 && c.pullEnabled {
		c.notEmpty.Wait()
	}
	if len(c.entries) == 0 {
		c.mu.Unlock()
		return CacheEntry{}, false
	}
	entry = c.entries[0]
	c.entries = c.entries[1:]
	c.mu.Unlock()
	c.notFull.Signal()
	return entry, true
}

// Len reports the current queue depth (used by MMIO status reads and
// tests).
func (c *Cache1) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetPullEnabled flips PFIFO_CACHE1_PULL0_ACCESS. Disabling it wakes both
// condition variables so a blocked puller (on Pop) and a blocked pusher (on
// Push) observe the change and return (spec.md §5: "the flipping MMIO write
// ... broadcasts cache_cond").
func (c *Cache1) SetPullEnabled(enabled bool) {
	c.mu.Lock()
	c.pullEnabled = enabled
	c.mu.Unlock()
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

func (c *Cache1) PullEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pullEnabled
}

// SetError records a pusher error (spec.md §4.4).
func (c *Cache1) SetError(err error) {
	c.mu.Lock()
	c.error = err
	c.mu.Unlock()
}

// Error returns the last recorded pusher error, if any.
func (c *Cache1) Error() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.error
}

// ClearError resets the error state (the host does this after handling
// PFIFO_INTR_0_DMA_PUSHER, spec.md §7).
func (c *Cache1) ClearError() {
	c.mu.Lock()
	c.error = nil
	c.mu.Unlock()
}

// BindEngine records that a subchannel now has an object of the given
// engine bound (spec.md §4.5 "set object").
func (c *Cache1) BindEngine(subchannel int, engine Engine) {
	c.mu.Lock()
	c.boundEngines[subchannel] = engine
	c.lastEngine = engine
	c.mu.Unlock()
}

// BoundEngine reports the engine currently bound to a subchannel.
func (c *Cache1) BoundEngine(subchannel int) Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boundEngines[subchannel]
}

// LastEngine reports the most recently bound engine across all
// subchannels, used to route methods that don't carry their own
// subchannel-to-engine lookup.
func (c *Cache1) LastEngine() Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastEngine
}
