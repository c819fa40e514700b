// Copyright 2026 The rendezvous Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package futex provides address-based blocking: a goroutine can park
// until the value stored at a watched address is observed to change,
// and a peer can wake every goroutine parked on that address.
//
// This is the only suspension mechanism used by the rendezvous core.
// The contract mirrors futex(2):
//
//   - Wait compares the value at addr against a caller-supplied snapshot
//     and parks only while they are equal. A concurrent change between
//     the caller's load and the park is detected, never slept through.
//   - Wait may return spuriously. Callers must re-read the value and
//     loop while their wait condition still holds.
//   - WakeAll releases every waiter currently parked on addr. Waiters
//     that park afterwards are not affected.
//
// On Linux the implementation is the futex syscall itself (see
// futex_linux.go). Elsewhere, and under the purego build tag, a hashed
// parking lot provides the same contract (see parkinglot.go).
package futex

import "sync/atomic"

// Wait parks the calling goroutine until the value at addr is observed
// to differ from old. It returns immediately when the value already
// differs, and may also return spuriously; callers loop on their own
// condition.
func Wait(addr *atomic.Uint32, old uint32) {
	waitOnAddress(addr, old)
}

// WakeAll wakes every goroutine currently parked on addr via Wait.
// Waking an address with no waiters is a no-op.
func WakeAll(addr *atomic.Uint32) {
	wakeAllOnAddress(addr)
}
