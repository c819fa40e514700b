// Package rendezvous lets a dynamically growing set of goroutines agree
// on a single joint completion point, without anyone knowing in advance
// how many participants will exist.
//
// A Rendezvous handle is a membership token. Cloning a handle registers
// one more participant; each handle then retires exactly once, either by
// calling [Rendezvous.Wait] (block until everyone has retired) or by
// calling [Rendezvous.Drop] (leave immediately, still counting as a
// departure). Synchronization fires once per group; there is no reset.
//
// # Rendezvous vs Barrier vs WaitGroup
//
//   - A barrier needs the participant count at construction; a
//     Rendezvous grows by cloning.
//   - A barrier is reusable after it trips; a Rendezvous synchronizes
//     exactly once.
//   - At a barrier every participant waits. With a Rendezvous each
//     participant chooses: wait for the others, or drop and move on.
//   - A [sync.WaitGroup] splits roles into workers (Done) and observers
//     (Wait); a Rendezvous handle can do either, decided at the last
//     moment.
//
// # Quick start
//
//	rdv := rendezvous.New()
//
//	for i := 0; i < 4; i++ {
//		h, err := rdv.Clone()
//		if err != nil {
//			// only possible after 2^32-1 concurrent clones
//			panic(err)
//		}
//		go func() {
//			defer h.Drop() // retires the handle even on panic
//			// ... do some work ...
//		}()
//	}
//
//	rdv.Wait() // blocks until all four workers have retired
//
// # Ownership discipline
//
// Each handle has one logical owner. A handle may be handed to another
// goroutine, and Clone may be called concurrently through a shared
// handle (it touches only the group's shared atomic counters), but Wait
// and Drop retire the handle and must only be reached by its owner.
// After retirement the handle is inert: Drop is a no-op, other use is a
// programming error.
//
// There is no cancellation or timeout inside Wait. A caller that needs
// bounded waiting composes one externally, for example by running Wait
// in a goroutine and racing it against a timer (see examples/timeout).
//
// The group's capacity is 2^32 - 1 concurrent handles; Clone fails with
// [ErrCapacityExceeded] at that ceiling and the group keeps working.
package rendezvous
