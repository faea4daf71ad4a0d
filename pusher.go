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

// pusher.go - DMA pusher: pushbuffer opcode decoder (spec.md §4.4, §8)
//
// Grounded directly on original_source/hw/xbox/nv2a.c's pusher loop (the
// teacher has nothing resembling a pushbuffer grammar; this is implemented
// fresh from spec.md's bit patterns, cross-checked against the C source's
// NV_PFIFO opcode masks). Runs inline on whichever goroutine calls Run --
// spec.md §5 point 2: "runs inline on the MMIO thread (triggered by PUT
// writes) and on pull-disable transitions."

package nv2a

const (
	pusherOldJumpMask  = 0xE0000003
	pusherOldJumpMatch = 0x20000000
	pusherJumpMask     = 0x00000003
	pusherJumpMatch    = 0x00000001
	pusherCallMatch    = 0x00000002
	pusherReturnWord   = 0x00020000
	pusherMethodMask   = 0xE0030003
	pusherIncMatch     = 0x00000000
	pusherNonIncMatch  = 0x40000000
)

// Pusher reads command words from a channel's DMA buffer between GET and
// PUT and feeds decoded entries into a Cache1.
type Pusher struct {
	dma   *DMAResolver
	cache *Cache1

	// per-channel run state (spec.md §4.4's "method_count > 0" run and
	// jmp-shadow/return-address bookkeeping for call/return).
	methodCount   uint32
	currentMethod uint32
	subchannel    int
	nonincreasing bool
	dcount        uint32

	jmpShadow      uint32
	subroutineRet  uint32
	subroutineActv bool

	// onError is invoked with the channel and error whenever the pusher
	// suspends (spec.md §4.4: "set Cache1.error, suspend the pusher, raise
	// PFIFO_INTR_0_DMA_PUSHER, drive the interrupt line").
	onError func(ch *Channel, err error)
}

// NewPusher builds a pusher over the given DMA resolver, pushing into cache.
func NewPusher(dma *DMAResolver, cache *Cache1) *Pusher {
	return &Pusher{dma: dma, cache: cache}
}

// SetErrorHandler wires the callback invoked on a pusher error.
func (p *Pusher) SetErrorHandler(fn func(ch *Channel, err error)) {
	p.onError = fn
}

// Run drains words from ch's DMA buffer between GET and PUT (spec.md §4.4's
// main loop). Preconditions (DMA mode, push enabled, not suspended, no
// pending error) are the caller's responsibility, matching spec.md's
// phrasing of them as preconditions rather than checks this function makes
// on every word.
func (p *Pusher) Run(ch *Channel) {
	if ch.Mode != ChannelModeDMA || !ch.PushEnabled || ch.PushSuspended {
		return
	}
	if p.cache.Error() != nil {
		return
	}

	dmaBase, _, err := p.dma.MapAt(ch.DMAInstance(), 0)
	if err != nil {
		p.fail(ch, err)
		return
	}

	for {
		get, put := ch.GetPut()
		if get == put {
			return
		}

		word := p.dma.vram.ReadU32(dmaBase + get)
		ch.AdvanceGet(get + 4)

		if p.methodCount > 0 {
			p.cache.Push(CacheEntry{
				Method:        p.currentMethod,
				Subchannel:    p.subchannel,
				Nonincreasing: p.nonincreasing,
				Parameter:     word,
			})
			if !p.nonincreasing {
				p.currentMethod += 4
			}
			p.methodCount--
			p.dcount++
			continue
		}

		if err := p.decodeOpcode(ch, word); err != nil {
			p.fail(ch, err)
			return
		}
	}
}

// decodeOpcode classifies a non-parameter word by the grammar in spec.md
// §4.4. Order matters: old-jump and jump share low-bit patterns with other
// cases only when the top bits also match, so each case is checked in the
// order the spec lists them.
func (p *Pusher) decodeOpcode(ch *Channel, word uint32) error {
	switch {
	case word&pusherOldJumpMask == pusherOldJumpMatch:
		get, _ := ch.GetPut()
		p.jmpShadow = get
		ch.AdvanceGet(word & 0x1FFFFFFF)
		return nil

	case word&pusherJumpMask == pusherJumpMatch:
		get, _ := ch.GetPut()
		p.jmpShadow = get
		ch.AdvanceGet(word & 0xFFFFFFFC)
		return nil

	case word&pusherJumpMask == pusherCallMatch:
		if p.subroutineActv {
			return ErrPusherCall
		}
		get, _ := ch.GetPut()
		p.subroutineRet = get
		p.subroutineActv = true
		ch.AdvanceGet(word & 0xFFFFFFFC)
		return nil

	case word == pusherReturnWord:
		if !p.subroutineActv {
			return ErrPusherReturn
		}
		p.subroutineActv = false
		ch.AdvanceGet(p.subroutineRet)
		return nil

	case word&pusherMethodMask == pusherIncMatch:
		p.beginRun(word, false)
		return nil

	case word&pusherMethodMask == pusherNonIncMatch:
		p.beginRun(word, true)
		return nil

	default:
		return ErrPusherReservedCmd
	}
}

// beginRun decodes an "increasing methods"/"non-increasing methods" header
// word (spec.md §4.4).
func (p *Pusher) beginRun(word uint32, nonincreasing bool) {
	p.currentMethod = word & 0x1FFF
	p.subchannel = int((word >> 13) & 7)
	p.methodCount = (word >> 18) & 0x7FF
	p.nonincreasing = nonincreasing
	p.dcount = 0
}

func (p *Pusher) fail(ch *Channel, err error) {
	p.cache.SetError(&PusherError{Channel: ch.ID, Err: err})
	ch.PushSuspended = true
	if p.onError != nil {
		p.onError(ch, err)
	}
}
