// Copyright 2026 The rendezvous Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && !purego

// Linux fast path: park directly on the counter's address with futex(2).
//
// FUTEX_WAIT atomically re-checks *addr against the caller's snapshot in
// the kernel before sleeping, which closes the window between the
// caller's load and the park. FUTEX_PRIVATE_FLAG is safe here because
// the watched word is never shared across processes.
//
// The watched word lives on the Go heap. Go's collector does not move
// heap objects, so the address handed to the kernel stays valid for the
// duration of the sleep; the caller keeps the enclosing allocation
// reachable.

package futex

import (
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Name identifies the compiled-in engine.
const Name = "futex"

// Futex operation constants from <linux/futex.h>; x/sys/unix does not
// export them.
const (
	futexWait        = 0    // FUTEX_WAIT
	futexWake        = 1    // FUTEX_WAKE
	futexPrivateFlag = 0x80 // FUTEX_PRIVATE_FLAG
)

// waitOnAddress issues FUTEX_WAIT. EAGAIN means the value already
// changed and EINTR means the sleep was interrupted by a signal; both
// are ordinary returns under the Wait contract (the caller loops), so
// the error is intentionally discarded.
func waitOnAddress(addr *atomic.Uint32, old uint32) {
	_, _, _ = unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWait|futexPrivateFlag),
		uintptr(old),
		0, // no timeout
		0,
		0,
	)
}

// wakeAllOnAddress issues FUTEX_WAKE for every waiter on addr.
func wakeAllOnAddress(addr *atomic.Uint32) {
	_, _, _ = unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWake|futexPrivateFlag),
		uintptr(math.MaxInt32),
		0,
		0,
		0,
	)
}
