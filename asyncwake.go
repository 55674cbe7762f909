// asyncwake.go: cross-thread wake primitive for the lock-free data path
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

// AsyncWake is a cross-thread-safe wake signal. Signal may be called from
// any goroutine, including one driven by a realtime audio callback that
// must not block, allocate, or otherwise synchronize with the Go runtime
// beyond this single coalescing poke. Wait parks the calling goroutine
// (which IS managed by the Go runtime) until a pending Signal is observed.
//
// It plays the same role the teacher's MPSCConsumer ticker plays for
// "something changed, go look again", generalized from a fixed timer to
// an externally-triggerable poke, following the self-pipe/eventfd shape
// spec.md asks a systems-language implementation to provide explicitly
// rather than inherit from a managed-runtime primitive.
type AsyncWake struct {
	ch chan struct{}
}

// NewAsyncWake creates a wake handle with room to coalesce one pending
// signal; a burst of Signal calls between two Wait calls still only
// wakes the waiter once, which is all a "re-check the ring" poke needs.
func NewAsyncWake() *AsyncWake {
	return &AsyncWake{ch: make(chan struct{}, 1)}
}

// Signal wakes a pending Wait, or arms the next one if nobody is
// currently waiting. Safe to call concurrently from any number of
// goroutines, including ones outside the cooperative scheduler.
func (w *AsyncWake) Signal() {
	select {
	case w.ch <- struct{}{}:
	default:
		// A signal is already pending; the next Wait will consume it.
	}
}

// Wait blocks until Signal has been called at least once since the last
// Wait returned. Spurious wakeups never occur in this implementation,
// but callers must tolerate them per spec.md's contract, since a future
// revision (or a foreign caller driving the buffer directly) may add a
// coarser wake source that does produce them.
func (w *AsyncWake) Wait() {
	<-w.ch
}
