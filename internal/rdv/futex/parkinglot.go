// Copyright 2026 The rendezvous Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux || purego

// Portable fallback: a hashed parking lot.
//
// Addresses hash into a fixed set of buckets. Each bucket holds a mutex
// and, per address, the list of channels of parked waiters. Wait
// re-checks the watched value under the bucket lock before parking, so
// a wake that happens after the value changes can never be missed: the
// waker stores the new value before calling WakeAll, and WakeAll takes
// the same bucket lock the waiter registered under.

package futex

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// Name identifies the compiled-in engine.
const Name = "parking lot"

const lotBuckets = 64

type lotBucket struct {
	mu sync.Mutex
	// waiters maps a watched address to the channels of goroutines
	// currently parked on it. Entries are removed wholesale by WakeAll.
	waiters map[*atomic.Uint32][]chan struct{}
}

var lot [lotBuckets]lotBucket

func bucketFor(addr *atomic.Uint32) *lotBucket {
	h := uintptr(unsafe.Pointer(addr))
	// Discard alignment zeros and mix the upper bits down.
	h = (h >> 3) ^ (h >> 13)
	return &lot[h%lotBuckets]
}

func waitOnAddress(addr *atomic.Uint32, old uint32) {
	b := bucketFor(addr)
	b.mu.Lock()
	if addr.Load() != old {
		b.mu.Unlock()
		return
	}
	if b.waiters == nil {
		b.waiters = make(map[*atomic.Uint32][]chan struct{})
	}
	ch := make(chan struct{})
	b.waiters[addr] = append(b.waiters[addr], ch)
	b.mu.Unlock()
	<-ch
}

func wakeAllOnAddress(addr *atomic.Uint32) {
	b := bucketFor(addr)
	b.mu.Lock()
	parked := b.waiters[addr]
	if parked != nil {
		delete(b.waiters, addr)
	}
	b.mu.Unlock()
	for _, ch := range parked {
		close(ch)
	}
}
