// blockingring.go: frame-oriented blocking facade over LockFreeRing
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

import (
	"sync"
	"time"

	"github.com/agilira/go-timecache"
)

// EventCallback is invoked on notable BlockingRing events: "closed"
// (nil fields) once from Close, and "overwrite" (fields["frames"]) after
// every OVERWRITE-policy write, whether or not unread frames were
// discarded. No other events are emitted. Mirrors the teacher's
// Logger.ErrorCallback: the library reports, the host decides whether
// and how to log it.
type EventCallback func(event string, fields map[string]any)

// BlockingRing presents a frame-granular, cancel-on-close blocking
// read/write API over a LockFreeRing of interleaved samples. Concurrent
// writers are serialized FIFO through a writer WaiterQueue; concurrent
// readers through a reader WaiterQueue. At most one goroutine drives
// the underlying data path from each side at any instant, which is
// what lets BlockingRing wrap a strictly SPSC LockFreeRing safely.
type BlockingRing[T any] struct {
	nchannels uint64

	inner *LockFreeRing[T]

	readers *WaiterQueue
	writers *WaiterQueue

	dataNotify *broadcastWake

	stateMu sync.Mutex
	open    bool

	overflow  OverflowPolicy
	underflow UnderflowPolicy

	timeCache *timecache.TimeCache

	onEvent EventCallback

	lastWriteAt time.Time
	lastReadAt  time.Time
	statsMu     sync.Mutex
}

// New constructs a BlockingRing carrying nchannels interleaved channels
// and an internal capacity of at least frames frames (rounded up to
// the next power of two), using the default BLOCK policy on both
// sides.
func New[T any](nchannels, frames uint64) (*BlockingRing[T], error) {
	return NewWithPolicy[T](nchannels, frames, OverflowBlock, UnderflowBlock, nil)
}

// NewWithPolicy constructs a BlockingRing with explicit overflow and
// underflow policies and an optional event callback.
func NewWithPolicy[T any](nchannels, frames uint64, overflow OverflowPolicy, underflow UnderflowPolicy, onEvent EventCallback) (*BlockingRing[T], error) {
	if err := ValidateChannelCount(nchannels); err != nil {
		return nil, err
	}

	capacitySamples := nextPow2(frames) * nchannels
	return &BlockingRing[T]{
		nchannels:  nchannels,
		inner:      NewLockFreeRing[T](capacitySamples),
		readers:    NewWaiterQueue(),
		writers:    NewWaiterQueue(),
		dataNotify: newBroadcastWake(),
		open:       true,
		overflow:   overflow,
		underflow:  underflow,
		timeCache:  timecache.NewWithResolution(time.Millisecond),
		onEvent:    onEvent,
	}, nil
}

// NewSimple constructs a BlockingRing with the default BLOCK policy on
// both sides, taking capacity as a string (e.g. "4096", "4Ki", "1Mi")
// for callers wiring capacity through a config file or flag value
// rather than a literal integer, mirroring the teacher's
// NewSimple(filename, maxSize string, maxBackups int).
func NewSimple[T any](nchannels uint64, frames string) (*BlockingRing[T], error) {
	n, err := ParseCapacity(frames)
	if err != nil {
		return nil, err
	}
	return New[T](nchannels, n)
}

// IsOpen reports whether the ring is still accepting new reads/writes.
func (r *BlockingRing[T]) IsOpen() bool {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.open
}

// ReadableFrames returns the number of whole frames currently
// available to Read.
func (r *BlockingRing[T]) ReadableFrames() uint64 {
	return r.inner.Readable() / r.nchannels
}

// WritableFrames returns the number of whole frames of free space
// currently available to Write.
func (r *BlockingRing[T]) WritableFrames() uint64 {
	return r.inner.Writable() / r.nchannels
}

// Stats is a read-only snapshot of BlockingRing's state, useful for
// diagnostics and metrics scraping without perturbing the data path.
type Stats struct {
	ReadableFrames   uint64
	WritableFrames   uint64
	ReaderQueueDepth int
	WriterQueueDepth int
	LastWriteAt      time.Time
	LastReadAt       time.Time
	Open             bool
}

// Stats returns a snapshot of the ring's current state.
func (r *BlockingRing[T]) Stats() Stats {
	r.statsMu.Lock()
	lastWrite, lastRead := r.lastWriteAt, r.lastReadAt
	r.statsMu.Unlock()

	return Stats{
		ReadableFrames:   r.ReadableFrames(),
		WritableFrames:   r.WritableFrames(),
		ReaderQueueDepth: r.readers.Len(),
		WriterQueueDepth: r.writers.Len(),
		LastWriteAt:      lastWrite,
		LastReadAt:       lastRead,
		Open:             r.IsOpen(),
	}
}

func (r *BlockingRing[T]) emit(event string, fields map[string]any) {
	if r.onEvent != nil {
		r.onEvent(event, fields)
	}
}

// enterQueue performs the "check open, then enqueue" step atomically
// against Close's "set open=false, then drain" step, both guarded by
// stateMu. This removes the lost-wakeup window a naive check-then-
// enqueue would have against a Close racing in between: either this
// call's critical section runs entirely before Close's (so the new
// handle is present in the queue by the time Close drains it), or
// entirely after (so this call observes open=false and never
// enqueues at all), per invariant I5.
func (r *BlockingRing[T]) enterQueue(q *WaiterQueue) (h *waiterHandle, pos int, stillOpen bool) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if !r.open {
		return nil, 0, false
	}
	h, pos = q.Enqueue()
	return h, pos, true
}

// Close flips the ring closed, releases every queued and in-progress
// reader and writer with their current partial counts, and is
// idempotent. Safe to call from any goroutine.
func (r *BlockingRing[T]) Close() {
	r.stateMu.Lock()
	if !r.open {
		r.stateMu.Unlock()
		return
	}
	r.open = false
	r.stateMu.Unlock()

	r.inner.Close()
	r.dataNotify.signal()
	r.writers.DrainAndNotifyAll()
	r.readers.DrainAndNotifyAll()
	r.timeCache.Stop()
	r.emit("closed", nil)
}
