// broadcastwake.go: multi-waiter "something changed" notification
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

import "sync"

// broadcastWake lets an arbitrary number of goroutines each block until
// the next Signal, without any of them consuming a wakeup meant for
// another — unlike AsyncWake's single-slot mailbox, which assumes one
// consumer drains it. BlockingRing needs this because its head reader
// and head writer may both be parked on data_notify at the same
// instant, each re-checking its own, different condition.
//
// Grounded on the close-and-replace notification channel idiom (e.g.
// a fanout buffer's "notify" field: closed and swapped for a fresh one
// on every append so every current waiter observes it exactly once).
type broadcastWake struct {
	mu sync.Mutex
	ch chan struct{}
}

func newBroadcastWake() *broadcastWake {
	return &broadcastWake{ch: make(chan struct{})}
}

// snapshot returns the channel to wait on. The caller must re-check its
// condition after this channel closes, since Signal carries no payload
// and may have been triggered by an unrelated change.
func (b *broadcastWake) snapshot() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch
}

// signal wakes every goroutine currently parked on a snapshot taken
// before this call.
func (b *broadcastWake) signal() {
	b.mu.Lock()
	old := b.ch
	b.ch = make(chan struct{})
	b.mu.Unlock()
	close(old)
}
