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
	"testing"
	"time"
)

func TestCache1_PushPopFIFOOrder(t *testing.T) {
	c := NewCache1(4)
	c.SetPullEnabled(true)

	c.Push(CacheEntry{Method: 0x200, Parameter: 1})
	c.Push(CacheEntry{Method: 0x204, Parameter: 2})

	e1, ok := c.Pop()
	if !ok || e1.Parameter != 1 {
		t.Fatalf("first Pop = %+v, ok=%v, want Parameter=1", e1, ok)
	}
	e2, ok := c.Pop()
	if !ok || e2.Parameter != 2 {
		t.Fatalf("second Pop = %+v, ok=%v, want Parameter=2", e2, ok)
	}
}

func TestCache1_PopReturnsFalseWhenDisabledAndEmpty(t *testing.T) {
	c := NewCache1(4)
	// pullEnabled defaults false: Pop must not block forever.
	entry, ok := c.Pop()
	if ok {
		t.Fatalf("Pop on a never-enabled cache = %+v, ok=true, want ok=false", entry)
	}
}

func TestCache1_SetPullEnabledFalseWakesBlockedPop(t *testing.T) {
	c := NewCache1(4)
	c.SetPullEnabled(true)

	done := make(chan bool, 1)
	go func() {
		_, ok := c.Pop()
		done <- ok
	}()

	// Give the goroutine time to block in Pop before disabling.
	time.Sleep(20 * time.Millisecond)
	c.SetPullEnabled(false)

	select {
	case ok := <-done:
		if ok {
			t.Error("Pop woken by disable should report ok=false")
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake up after SetPullEnabled(false)")
	}
}

func TestCache1_PushBlocksAtDepthUntilPop(t *testing.T) {
	c := NewCache1(1)
	c.SetPullEnabled(true)
	c.Push(CacheEntry{Parameter: 1})

	pushed := make(chan struct{})
	go func() {
		c.Push(CacheEntry{Parameter: 2})
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("Push at depth should have blocked")
	case <-time.After(50 * time.Millisecond):
	}

	c.Pop()

	select {
	case <-pushed:
	case <-time.After(time.Second):
		t.Fatal("Push did not unblock after a Pop freed a slot")
	}
}

func TestCache1_ErrorRoundTrip(t *testing.T) {
	c := NewCache1(4)
	if c.Error() != nil {
		t.Fatal("fresh Cache1 should have no error")
	}
	c.SetError(ErrPusherReservedCmd)
	if c.Error() != ErrPusherReservedCmd {
		t.Errorf("Error() = %v, want ErrPusherReservedCmd", c.Error())
	}
	c.ClearError()
	if c.Error() != nil {
		t.Error("ClearError should reset the error")
	}
}

func TestCache1_BindEngineTracksPerSubchannelAndLast(t *testing.T) {
	c := NewCache1(4)
	c.BindEngine(2, EngineGraphics)
	c.BindEngine(5, EngineDVD)

	if c.BoundEngine(2) != EngineGraphics {
		t.Errorf("BoundEngine(2) = %v, want EngineGraphics", c.BoundEngine(2))
	}
	if c.BoundEngine(5) != EngineDVD {
		t.Errorf("BoundEngine(5) = %v, want EngineDVD", c.BoundEngine(5))
	}
	if c.LastEngine() != EngineDVD {
		t.Errorf("LastEngine() = %v, want EngineDVD (most recent bind)", c.LastEngine())
	}
}
