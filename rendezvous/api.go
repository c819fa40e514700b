package rendezvous

import (
	"fmt"

	"github.com/kolkov/rendezvous/internal/rdv/core"
)

// ErrCapacityExceeded is returned by [Rendezvous.Clone] when the group
// already has 2^32 - 1 handles in flight. The failed clone leaves the
// group, and the handle it was attempted on, fully usable.
var ErrCapacityExceeded = core.ErrCapacityExceeded

// Rendezvous is one participant's handle on a rendezvous group.
//
// Handles are created by [New] (the group's first participant) and
// [Rendezvous.Clone] (every subsequent one), and retire exactly once
// via [Rendezvous.Wait] or [Rendezvous.Drop]. See the package
// documentation for the ownership discipline.
type Rendezvous struct {
	h *core.Handle
}

// New creates a rendezvous group and returns its first handle.
func New() *Rendezvous {
	return &Rendezvous{h: core.New()}
}

// Clone registers one more participant in the same group and returns
// its handle. The new handle is independent: it may be sent to another
// goroutine and retired there.
//
// Clone is safe to call concurrently through a shared handle. It fails
// with [ErrCapacityExceeded] when the group already has 2^32 - 1
// handles; the receiver is unaffected by a failed clone.
func (r *Rendezvous) Clone() (*Rendezvous, error) {
	h, err := r.h.Clone()
	if err != nil {
		return nil, err
	}
	return &Rendezvous{h: h}, nil
}

// Wait retires the handle and blocks until every handle in the group
// has retired, whether by Wait or by Drop. It always runs to
// completion; there is no ordering guarantee among waiters released by
// the same group.
//
// Wait consumes the handle: it must not be used again afterwards
// (a deferred Drop is fine, it becomes a no-op).
func (r *Rendezvous) Wait() {
	r.h.Wait()
}

// Drop retires the handle without waiting for anyone. The departure is
// still observed by the rest of the group: if this was the last live
// handle, every blocked waiter is released.
//
// Drop never blocks and is idempotent, so
//
//	defer h.Drop()
//
// safely covers early returns and panic unwinding, including when the
// happy path ends in Wait.
func (r *Rendezvous) Drop() {
	r.h.Drop()
}

// Snapshot reports the group's current live and pending handle counts
// for diagnostics. The two values are read independently, so under
// concurrent cloning and retirement the pair can be momentarily
// inconsistent; treat it as advisory output, never as a basis for a
// safety decision. A retired handle reports 0, 0.
func (r *Rendezvous) Snapshot() (live, pending uint32) {
	return r.h.Snapshot()
}

// String implements fmt.Stringer using a Snapshot. Like Snapshot it is
// advisory only.
func (r *Rendezvous) String() string {
	if r.h.Retired() {
		return "Rendezvous{retired}"
	}
	live, pending := r.h.Snapshot()
	return fmt.Sprintf("Rendezvous{live: %d, pending: %d}", live, pending)
}
