package futex

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestWaitStaleSnapshot verifies that Wait returns immediately when the
// caller's snapshot is already out of date.
func TestWaitStaleSnapshot(t *testing.T) {
	var addr atomic.Uint32
	addr.Store(7)

	done := make(chan struct{})
	go func() {
		Wait(&addr, 3) // value is 7, snapshot is 3
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait with a stale snapshot did not return")
	}
}

// TestWakeAllNoWaiters verifies that waking an address nobody is parked
// on is a harmless no-op.
func TestWakeAllNoWaiters(t *testing.T) {
	var addr atomic.Uint32
	WakeAll(&addr) // must not panic or block
}

// TestWakeAllReleasesWaiters parks several goroutines on one address,
// changes the value, wakes, and verifies every waiter returns.
//
// Waiters use the documented caller loop: Wait may return spuriously, so
// each waiter keeps parking while the value is still the snapshot it
// went to sleep on.
func TestWakeAllReleasesWaiters(t *testing.T) {
	const waiters = 16

	var addr atomic.Uint32
	var wg sync.WaitGroup

	wg.Add(waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			defer wg.Done()
			for {
				v := addr.Load()
				if v != 0 {
					return
				}
				Wait(&addr, v)
			}
		}()
	}

	// Give the waiters a chance to park. Not required for correctness
	// (a pre-park value change makes them return immediately), but it
	// exercises the actual sleep path most of the time.
	time.Sleep(50 * time.Millisecond)

	addr.Store(1)
	WakeAll(&addr)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("not all waiters were released by WakeAll")
	}
}

// TestWakeBeforePark covers the race where the value changes before the
// waiter reaches Wait: the stale-snapshot check must prevent a sleep.
func TestWakeBeforePark(t *testing.T) {
	var addr atomic.Uint32

	v := addr.Load()
	addr.Store(v + 1)
	WakeAll(&addr) // nobody parked; the wake is "lost"

	done := make(chan struct{})
	go func() {
		Wait(&addr, v) // must see the changed value and return
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait slept through a value change that preceded it")
	}
}

// TestIndependentAddresses verifies a wake on one address does not
// release waiters parked on another.
func TestIndependentAddresses(t *testing.T) {
	var a, b atomic.Uint32

	released := make(chan struct{})
	go func() {
		for {
			v := a.Load()
			if v != 0 {
				close(released)
				return
			}
			Wait(&a, v)
		}
	}()

	time.Sleep(20 * time.Millisecond)

	// Wake the unrelated address; the waiter on a must stay parked.
	b.Store(1)
	WakeAll(&b)

	select {
	case <-released:
		t.Fatal("waiter on a was released by a wake on b")
	case <-time.After(100 * time.Millisecond):
	}

	a.Store(1)
	WakeAll(&a)

	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter on a was never released")
	}
}

// BenchmarkWaitStale measures the no-sleep fast path.
func BenchmarkWaitStale(b *testing.B) {
	var addr atomic.Uint32
	addr.Store(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Wait(&addr, 0)
	}
}

// BenchmarkWakeWaitRoundTrip measures a park followed by a wake between
// two goroutines.
func BenchmarkWakeWaitRoundTrip(b *testing.B) {
	var addr atomic.Uint32

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		done := make(chan struct{})
		go func() {
			for {
				v := addr.Load()
				if v%2 == 1 {
					break
				}
				Wait(&addr, v)
			}
			close(done)
		}()
		addr.Add(1) // make it odd
		WakeAll(&addr)
		<-done
		addr.Add(1) // back to even for the next iteration
	}
}
