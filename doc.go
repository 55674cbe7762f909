// Package ringio provides a multi-channel, fixed-capacity ring buffer
// for audio-style streaming: producing and consuming interleaved
// frames of fixed-width samples across a boundary that may include a
// realtime, non-blocking context on one side.
//
// Two coupled layers make up the package. LockFreeRing is a wait-free,
// allocation-free single-producer/single-consumer ring safe to drive
// from a realtime callback thread that must never block or allocate.
// BlockingRing wraps it with a cooperative, queued blocking facade:
// frame-granular reads and writes, configurable overflow/underflow
// policies, and fair FIFO ordering among concurrent readers and among
// concurrent writers.
//
// # Quick start
//
//	ring, err := ringio.New[int16](2, 4096) // stereo, 4096-frame capacity
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ring.Close()
//
//	n, err := ring.WriteFrames(samples)
//	frames, n, err := ring.ReadMatrix(256)
//
// # Overflow and underflow policies
//
//	ring, err := ringio.NewWithPolicy[int16](2, 4096,
//		ringio.OverflowBlock, ringio.UnderflowBlock, nil)
//
// BLOCK is the default on both sides and the one policy the package
// guarantees close-safe cancellation semantics for: a Write or Read
// blocked waiting for space or data returns its partial count the
// moment the ring is closed. TRUNCATE and PAD/OVERWRITE never suspend
// the caller; see policy.go for their exact contracts.
//
// # Concurrency
//
// LockFreeRing permits exactly one concurrent writer and one
// concurrent reader; BlockingRing enforces that by serializing callers
// on each side through a WaiterQueue and only ever letting the current
// head drive the data path. Close is safe to call from any goroutine
// and is idempotent.
package ringio
