// Copyright 2026 The rendezvous Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"errors"
	"math"

	"github.com/kolkov/rendezvous/internal/rdv/futex"
)

// ErrCapacityExceeded is returned by Clone when a group already has
// 2^32 - 1 handles in flight. The group itself is unaffected and the
// handle that attempted the clone remains fully usable.
var ErrCapacityExceeded = errors.New("rendezvous: group already has 4294967295 handles")

// decrement is the two's-complement -1 for atomic.Uint32.Add.
const decrement = ^uint32(0)

// Handle is one participant's membership token. Each Handle has a
// single logical owner; it may be transferred between goroutines, and
// Clone may be called concurrently through a shared reference because
// it touches only the shared atomic counters.
//
// A Handle retires exactly once, through Wait or through Drop. After
// retirement it is inert: Drop becomes a no-op and any other use is a
// programming error (Wait and Clone will dereference a nil state).
type Handle struct {
	s *state
}

// New allocates the shared record for a fresh group, with live and
// pending both at 1, and returns the group's first handle.
func New() *Handle {
	return &Handle{s: newState()}
}

// Clone registers one more participant and returns its handle.
//
// The pending counter is reserved first, with a checked increment that
// fails at the 2^32 - 1 ceiling; live is incremented after. Reserving
// pending first keeps pending >= live even at the instant the new
// participant becomes visible: a handle must never be countable as
// "able to retire" before it is countable as "keeping the record
// alive".
func (h *Handle) Clone() (*Handle, error) {
	s := h.s
	for {
		n := s.pending.Load()
		if n == math.MaxUint32 {
			return nil, ErrCapacityExceeded
		}
		if s.pending.CompareAndSwap(n, n+1) {
			break
		}
	}
	// Cannot overflow: live <= pending always, and pending was
	// successfully reserved above.
	s.live.Add(1)
	return &Handle{s: s}, nil
}

// Wait retires the handle and blocks until every handle in the group
// has retired, by Wait or by Drop.
//
// The retirement is two-phase. Dropping live first announces this
// participant to its peers (waking them if it was the last); pending
// stays held across the park/recheck loop because the loop keeps
// reading the shared record. Only once live is seen at zero does this
// thread drop pending, and the retirement that takes pending to zero
// releases the record.
func (h *Handle) Wait() {
	s := h.s
	h.s = nil

	n := s.live.Add(decrement)
	if n == 0 {
		// Last to begin retiring: release everyone already parked.
		futex.WakeAll(&s.live)
	}
	for n > 0 {
		// Park against the snapshot, then recheck. The engine
		// re-validates the snapshot before sleeping, so a wake between
		// the load and the park is never missed; spurious returns just
		// go around the loop.
		futex.Wait(&s.live, n)
		n = s.live.Load()
	}

	if s.pending.Add(decrement) == 0 {
		s.release()
	}
}

// Drop retires the handle without waiting. It never blocks: remaining
// participants are simply left to proceed, but the departure still
// counts and still wakes parked waiters when it empties the group.
//
// Drop is idempotent and is a no-op after Wait, so "defer h.Drop()" is
// the standing idiom: it retires the handle on early return and on
// panic unwinding, and costs nothing when Wait already ran.
func (h *Handle) Drop() {
	s := h.s
	if s == nil {
		return
	}
	h.s = nil

	if s.live.Add(decrement) == 0 {
		futex.WakeAll(&s.live)
	}
	if s.pending.Add(decrement) == 0 {
		s.release()
	}
}

// Retired reports whether the handle has already retired via Wait or
// Drop.
func (h *Handle) Retired() bool {
	return h.s == nil
}

// Snapshot returns the current live and pending counts for diagnostics.
// The two counters are read independently, not as a pair: under
// concurrent mutation the returned values can be mutually inconsistent
// (even pending < live, which the true state never exhibits). The
// snapshot is advisory only and must not back any safety decision.
// A retired handle reports 0, 0.
func (h *Handle) Snapshot() (live, pending uint32) {
	s := h.s
	if s == nil {
		return 0, 0
	}
	return s.live.Load(), s.pending.Load()
}
