// main.go: ringiobench, a smoke-test/benchmark harness for BlockingRing
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Command ringiobench drives a producer/consumer pair against a
// ringio.BlockingRing for a fixed duration and prints the resulting
// Stats snapshot. It exists purely as an operational smoke test — not
// a packaging or build artifact for exposing LockFreeRing to a foreign
// caller, which spec.md puts out of scope.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	flashflags "github.com/agilira/flash-flags"

	"github.com/agilira/ringio"
)

func main() {
	fs := flashflags.New("ringiobench")
	channels := fs.Int("channels", 2, "number of interleaved channels")
	frames := fs.Uint64("frames", 4096, "ring capacity in frames")
	policy := fs.String("policy", "block", "overflow/underflow policy: block, truncate, pad, overwrite")
	duration := fs.Duration("duration", 2*time.Second, "how long to run the producer/consumer pair")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("ringiobench: %v", err)
	}

	overflow, underflow := resolvePolicy(*policy)

	ring, err := ringio.NewWithPolicy[float32](uint64(*channels), *frames, overflow, underflow, func(event string, fields map[string]any) {
		fmt.Printf("event=%s fields=%v\n", event, fields)
	})
	if err != nil {
		log.Fatalf("ringiobench: %v", err)
	}

	stop := time.After(*duration)
	done := make(chan struct{})

	go produce(ring, *channels, stop)
	go consume(ring, *channels, stop, done)

	<-done
	ring.Close()

	stats := ring.Stats()
	fmt.Printf("readable=%d writable=%d readerQueue=%d writerQueue=%d open=%v\n",
		stats.ReadableFrames, stats.WritableFrames, stats.ReaderQueueDepth, stats.WriterQueueDepth, stats.Open)
}

func resolvePolicy(name string) (ringio.OverflowPolicy, ringio.UnderflowPolicy) {
	switch name {
	case "truncate":
		return ringio.OverflowTruncate, ringio.UnderflowTruncate
	case "pad":
		return ringio.OverflowBlock, ringio.UnderflowPad
	case "overwrite":
		return ringio.OverflowOverwrite, ringio.UnderflowBlock
	default:
		return ringio.OverflowBlock, ringio.UnderflowBlock
	}
}

func produce(ring *ringio.BlockingRing[float32], channels int, stop <-chan time.Time) {
	frame := make([]float32, channels*64)
	for {
		select {
		case <-stop:
			return
		default:
			ring.WriteFrames(frame)
		}
	}
}

func consume(ring *ringio.BlockingRing[float32], channels int, stop <-chan time.Time, done chan<- struct{}) {
	dst := make([]float32, channels*64)
	for {
		select {
		case <-stop:
			close(done)
			return
		default:
			ring.Read(dst, 64)
		}
	}
}
