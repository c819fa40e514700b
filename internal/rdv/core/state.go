// Copyright 2026 The rendezvous Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"sync"
	"sync/atomic"
)

// state is the one record shared by every handle of a group. It is pure
// bookkeeping: two counters and nothing else. All mutation goes through
// single-word atomic read-modify-write operations.
type state struct {
	// live counts handles that have not yet begun retirement. This is
	// the word waiters park on; it is the only address handed to the
	// wait/wake engine.
	live atomic.Uint32

	// pending counts handles whose retirement protocol has not yet
	// fully completed. Invariant: pending >= live at every instant.
	// The record may be released only when pending reaches zero, and
	// only by the retirement that performed that decrement.
	pending atomic.Uint32
}

// poisoned is stored into both counters of a released record. A handle
// misused after retirement then trips on an obviously absurd count
// instead of silently corrupting a recycled group.
const poisoned = 0xdeaddead

// statePool recycles released records. Pool reuse stands in for manual
// deallocation: the pending counter decides when a record may be
// handed back, exactly as a manual free would, and a protocol bug
// becomes visible corruption across reuses rather than being masked by
// the garbage collector.
var statePool = sync.Pool{
	New: func() any { return new(state) },
}

// newState returns a record armed for a fresh group: one handle exists,
// so both counters start at 1.
func newState() *state {
	s := statePool.Get().(*state)
	s.live.Store(1)
	s.pending.Store(1)
	return s
}

// release returns the record to the pool. The caller must be the
// retirement that decremented pending to zero; at that point no other
// thread can still be reading the record.
func (s *state) release() {
	if fn := releaseHook.Load(); fn != nil {
		(*fn)(s)
	}
	s.live.Store(poisoned)
	s.pending.Store(poisoned)
	statePool.Put(s)
}

// releaseHook, when set, observes every record release. Test use only.
var releaseHook atomic.Pointer[func(*state)]

// SetReleaseHook installs fn to be called on every state release, or
// clears the hook when fn is nil. It exists so tests can assert the
// single-release property; production code never sets it.
func SetReleaseHook(fn func()) {
	if fn == nil {
		releaseHook.Store(nil)
		return
	}
	wrapped := func(*state) { fn() }
	releaseHook.Store(&wrapped)
}
