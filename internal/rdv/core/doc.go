// Copyright 2026 The rendezvous Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core implements the reference-counted shared-state protocol
// behind the rendezvous primitive.
//
// One heap record (the state) is shared by every handle in a group. Two
// atomic counters drive the whole protocol:
//
//   - live: handles that have not yet begun retiring. A group is done
//     when live reaches zero; that transition happens exactly once and
//     is what parked waiters watch for.
//   - pending: handles whose retirement has not fully completed. The
//     record stays valid while pending > 0 and is released by whichever
//     retirement decrements pending to zero.
//
// The gap between the two exists because a waiter that has already
// announced "I am no longer live" still dereferences the record inside
// its park/recheck loop. Keeping pending nonzero for exactly that span
// is what rules out use-after-release.
//
// Counter update order is fixed rather than transactional: creation
// increments pending before live, retirement decrements live before
// pending. That preserves pending >= live at every instant without ever
// needing a double-word atomic.
//
// Go's sync/atomic operations are sequentially consistent, which is
// strictly stronger than the acquire/release ordering the protocol
// requires: the decrement of live to zero is ordered before the wake
// broadcast, which is ordered before any waiter's observation of
// live == 0 and its own pending decrement.
package core
