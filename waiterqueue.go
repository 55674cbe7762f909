// waiterqueue.go: FIFO queue of one-shot wake handles
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

import (
	"container/list"
	"sync"
)

// waiterHandle is a single-shot cooperative condition: the owner parks
// on ready by receiving from it, and exactly one notify call (guarded
// by once) closes it to release that receive. Closing rather than
// sending lets a handle be notified before its owner ever waits on it
// (e.g. a caller that becomes head without ever having to suspend)
// without the notifier blocking or needing to know whether anyone is
// listening yet.
type waiterHandle struct {
	ready chan struct{}
	once  sync.Once
}

func newWaiterHandle() *waiterHandle {
	return &waiterHandle{ready: make(chan struct{})}
}

// notify releases the owner of this handle. Safe to call more than
// once or concurrently; only the first call has an effect.
func (h *waiterHandle) notify() {
	h.once.Do(func() { close(h.ready) })
}

// wait blocks until notify has been called for this handle.
func (h *waiterHandle) wait() {
	<-h.ready
}

// WaiterQueue is a FIFO queue of waiterHandles enforcing head-of-queue
// discipline: only the handle at position 0 may be assumed to be
// permitted to attempt data-path progress. Modeled on the teacher's
// single-consumer drain loop (MPSCConsumer.flushAll pops until empty)
// and on the "close a channel to broadcast" idiom used by
// fanout-buffer-style notify-everyone-waiting paths, but here each
// handle is released individually and in FIFO order rather than all
// at once, except in DrainAndNotifyAll where every remaining handle is
// released because the queue itself is being torn down.
type WaiterQueue struct {
	mu    sync.Mutex
	items *list.List
}

// NewWaiterQueue returns an empty queue.
func NewWaiterQueue() *WaiterQueue {
	return &WaiterQueue{items: list.New()}
}

// Enqueue appends a fresh handle and returns it along with its queue
// position (0 meaning it is already head and may proceed without
// waiting).
func (q *WaiterQueue) Enqueue() (*waiterHandle, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	h := newWaiterHandle()
	q.items.PushBack(h)
	return h, q.items.Len() - 1
}

// Len returns the current queue depth.
func (q *WaiterQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Head returns the handle currently permitted to attempt progress, or
// nil if the queue is empty.
func (q *WaiterQueue) Head() *waiterHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e := q.items.Front(); e != nil {
		return e.Value.(*waiterHandle)
	}
	return nil
}

// PopHead removes the current head (the caller must already hold it,
// i.e. have finished its turn) and notifies the new head, if any, so
// it may begin attempting progress.
func (q *WaiterQueue) PopHead() {
	q.mu.Lock()
	e := q.items.Front()
	if e != nil {
		q.items.Remove(e)
	}
	next := q.items.Front()
	q.mu.Unlock()

	if next != nil {
		next.Value.(*waiterHandle).notify()
	}
}

// DrainAndNotifyAll removes and notifies every queued handle, head
// first. Used by BlockingRing.Close to release every blocked caller at
// once; every released waiter observes the ring closed on its own next
// check and returns without popping the queue again.
func (q *WaiterQueue) DrainAndNotifyAll() {
	q.mu.Lock()
	var handles []*waiterHandle
	for e := q.items.Front(); e != nil; e = e.Next() {
		handles = append(handles, e.Value.(*waiterHandle))
	}
	q.items.Init()
	q.mu.Unlock()

	for _, h := range handles {
		h.notify()
	}
}
