// read.go: BlockingRing read path and its shape overloads
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

import "fmt"

// Read reads up to nframes frames (interleaved, nchannels samples per
// frame) from the ring into dst, per the policy selected at
// construction. It returns the number of frames actually read.
//
// Under UnderflowBlock, a short return means the ring was closed while
// this call was waiting for data; distinguish that from a clean full
// read by checking IsOpen(). Under UnderflowTruncate, a short return
// simply means the ring did not have enough data yet. UnderflowPad
// zeroes the unread tail of dst and reports nframes; it returns 0 only
// when the ring is closed before this call gets its turn.
func (r *BlockingRing[T]) Read(dst []T, nframes uint64) (uint64, error) {
	if uint64(len(dst)) < nframes*r.nchannels {
		return 0, argumentError("Read", ErrShortBuffer,
			fmt.Sprintf("need %d samples for %d frames, got %d", nframes*r.nchannels, nframes, len(dst)))
	}

	switch r.underflow {
	case UnderflowTruncate:
		return r.readTruncate(dst, nframes)
	case UnderflowPad:
		return r.readPad(dst, nframes)
	default:
		return r.readBlock(dst, nframes)
	}
}

// ReadMatrix reads nframes frames and returns them as a freshly
// allocated [nchannels][nframes]T matrix, de-interleaving the ring's
// native layout.
func (r *BlockingRing[T]) ReadMatrix(nframes uint64) ([][]T, uint64, error) {
	flat := make([]T, nframes*r.nchannels)
	n, err := r.Read(flat, nframes)
	if err != nil {
		return nil, 0, err
	}

	matrix := make([][]T, r.nchannels)
	for c := range matrix {
		matrix[c] = make([]T, n)
	}
	for f := uint64(0); f < n; f++ {
		for c := uint64(0); c < r.nchannels; c++ {
			matrix[c][f] = flat[f*r.nchannels+c]
		}
	}
	return matrix, n, nil
}

// readBlock implements the required BLOCK underflow policy, symmetric
// to writeBlock.
func (r *BlockingRing[T]) readBlock(dst []T, nframes uint64) (uint64, error) {
	h, pos, stillOpen := r.enterQueue(r.readers)
	if !stillOpen {
		return 0, nil
	}
	if pos > 0 {
		h.wait()
		if !r.IsOpen() {
			return 0, nil
		}
	}

	var read uint64
	for read < nframes {
		// Snapshot before attempting progress; see the matching
		// comment in writeBlock for why the order matters against an
		// edge-triggered data_notify.
		ch := r.dataNotify.snapshot()

		remaining := (nframes - read) * r.nchannels
		n := r.inner.Read(dst[read*r.nchannels : read*r.nchannels+remaining])
		read += n / r.nchannels
		if read >= nframes {
			break
		}
		if n > 0 {
			// Partial progress freed space: wake a head writer parked on
			// data_notify before this reader parks on it as well.
			r.dataNotify.signal()
		}

		<-ch
		if !r.IsOpen() {
			return read, nil
		}
	}

	r.finishRead(read)
	return read, nil
}

// readTruncate implements the TRUNCATE underflow policy: return
// immediately with whatever is available.
func (r *BlockingRing[T]) readTruncate(dst []T, nframes uint64) (uint64, error) {
	h, pos, stillOpen := r.enterQueue(r.readers)
	if !stillOpen {
		return 0, nil
	}
	if pos > 0 {
		h.wait()
		if !r.IsOpen() {
			return 0, nil
		}
	}

	n := r.inner.Read(dst[:nframes*r.nchannels])
	read := n / r.nchannels
	r.finishRead(read)
	return read, nil
}

// readPad implements the PAD underflow policy: read what's available,
// zero-fill the rest of dst, and always report the full requested
// frame count.
func (r *BlockingRing[T]) readPad(dst []T, nframes uint64) (uint64, error) {
	h, pos, stillOpen := r.enterQueue(r.readers)
	if !stillOpen {
		return 0, nil
	}
	if pos > 0 {
		h.wait()
		if !r.IsOpen() {
			return 0, nil
		}
	}

	n := r.inner.Read(dst[:nframes*r.nchannels])
	read := n / r.nchannels
	if read < nframes {
		var zero T
		for i := read * r.nchannels; i < nframes*r.nchannels; i++ {
			dst[i] = zero
		}
	}
	r.finishRead(nframes)
	return nframes, nil
}

// finishRead is the reader-side mirror of finishWrite: notify
// data_notify once for any blocked writer, then release the reader
// queue head so the next queued reader, if any, may proceed.
func (r *BlockingRing[T]) finishRead(read uint64) {
	r.dataNotify.signal()
	r.readers.PopHead()

	r.statsMu.Lock()
	r.lastReadAt = r.timeCache.CachedTime()
	r.statsMu.Unlock()
}
