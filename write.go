// write.go: BlockingRing write path and its shape overloads
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

import "fmt"

// Write writes up to nframes frames from data (interleaved, nchannels
// samples per frame) into the ring, per the policy selected at
// construction. It returns the number of frames actually written.
//
// Under OverflowBlock, a short return (less than nframes) means the
// ring was closed while this call was waiting for space; callers
// distinguish that from a clean full write by checking IsOpen(). Under
// OverflowTruncate, a short return simply means the ring did not have
// room. OverflowOverwrite reports nframes; it returns 0 only when the
// ring is closed before this call gets its turn.
func (r *BlockingRing[T]) Write(data []T, nframes uint64) (uint64, error) {
	if uint64(len(data)) < nframes*r.nchannels {
		return 0, argumentError("Write", ErrShortBuffer,
			fmt.Sprintf("need %d samples for %d frames, got %d", nframes*r.nchannels, nframes, len(data)))
	}

	switch r.overflow {
	case OverflowTruncate:
		return r.writeTruncate(data, nframes)
	case OverflowOverwrite:
		return r.writeOverwrite(data, nframes)
	default:
		return r.writeBlock(data, nframes)
	}
}

// WriteFrames infers nframes from len(data)/nchannels and writes that
// many frames.
func (r *BlockingRing[T]) WriteFrames(data []T) (uint64, error) {
	return r.Write(data, uint64(len(data))/r.nchannels)
}

// WriteMatrix writes a [nchannels][nframes]T matrix, one row per
// channel, interleaving it into the ring's native layout first. All
// rows must have equal length and matrix must have exactly nchannels
// rows.
func (r *BlockingRing[T]) WriteMatrix(matrix [][]T) (uint64, error) {
	if uint64(len(matrix)) != r.nchannels {
		return 0, argumentError("WriteMatrix", ErrChannelShape,
			fmt.Sprintf("expected %d rows, got %d", r.nchannels, len(matrix)))
	}
	nframes := uint64(0)
	if len(matrix) > 0 {
		nframes = uint64(len(matrix[0]))
	}
	for i, row := range matrix {
		if uint64(len(row)) != nframes {
			return 0, argumentError("WriteMatrix", ErrChannelShape,
				fmt.Sprintf("row %d has %d frames, expected %d", i, len(row), nframes))
		}
	}

	interleaved := make([]T, nframes*r.nchannels)
	for f := uint64(0); f < nframes; f++ {
		for c := uint64(0); c < r.nchannels; c++ {
			interleaved[f*r.nchannels+c] = matrix[c][f]
		}
	}
	return r.Write(interleaved, nframes)
}

// writeBlock implements the required BLOCK overflow policy: spec.md
// §4.3 steps 2-6.
func (r *BlockingRing[T]) writeBlock(data []T, nframes uint64) (uint64, error) {
	h, pos, stillOpen := r.enterQueue(r.writers)
	if !stillOpen {
		return 0, nil
	}
	if pos > 0 {
		h.wait()
		if !r.IsOpen() {
			// Close already drained the queue; do not pop again.
			return 0, nil
		}
	}

	var written uint64
	for written < nframes {
		// Snapshot before attempting progress: data_notify is edge-
		// triggered (signal() closes-and-replaces with no latched
		// state), so a signal delivered between the write attempt and
		// the snapshot would close a generation we never captured,
		// stranding us on the fresh channel with nobody left to wake
		// us. Capturing the generation first guarantees any space a
		// reader frees after this point closes the channel we are
		// about to wait on.
		ch := r.dataNotify.snapshot()

		remaining := (nframes - written) * r.nchannels
		n := r.inner.Write(data[written*r.nchannels : written*r.nchannels+remaining])
		written += n / r.nchannels
		if written >= nframes {
			break
		}
		if n > 0 {
			// Partial progress produced data: wake a head reader parked
			// on data_notify before this writer parks on it as well.
			r.dataNotify.signal()
		}

		<-ch
		if !r.IsOpen() {
			return written, nil
		}
	}

	r.finishWrite(written)
	return written, nil
}

// writeTruncate implements the TRUNCATE overflow policy: write only
// what currently fits, never suspending.
func (r *BlockingRing[T]) writeTruncate(data []T, nframes uint64) (uint64, error) {
	h, pos, stillOpen := r.enterQueue(r.writers)
	if !stillOpen {
		return 0, nil
	}
	if pos > 0 {
		h.wait()
		if !r.IsOpen() {
			return 0, nil
		}
	}

	n := r.inner.Write(data[:nframes*r.nchannels])
	written := n / r.nchannels
	r.finishWrite(written)
	return written, nil
}

// writeOverwrite implements the OVERWRITE overflow policy: always
// accepts the full request, discarding unread data as needed.
func (r *BlockingRing[T]) writeOverwrite(data []T, nframes uint64) (uint64, error) {
	h, pos, stillOpen := r.enterQueue(r.writers)
	if !stillOpen {
		return 0, nil
	}
	if pos > 0 {
		h.wait()
		if !r.IsOpen() {
			return 0, nil
		}
	}

	r.inner.Overwrite(data[:nframes*r.nchannels])
	r.emit("overwrite", map[string]any{"frames": nframes})
	r.finishWrite(nframes)
	return nframes, nil
}

// finishWrite is step 5 of spec.md §4.3: notify data_notify once for
// any blocked reader, then release the writer queue head so the next
// queued writer, if any, may proceed.
func (r *BlockingRing[T]) finishWrite(written uint64) {
	r.dataNotify.signal()
	r.writers.PopHead()

	r.statsMu.Lock()
	r.lastWriteAt = r.timeCache.CachedTime()
	r.statsMu.Unlock()
}
