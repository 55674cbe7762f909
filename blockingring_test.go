// blockingring_test.go: tests for the blocking frame-oriented facade
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

import (
	"sync"
	"testing"
	"time"
)

func mustNewRing(t *testing.T, nchannels, frames uint64) *BlockingRing[int] {
	t.Helper()
	r, err := New[int](nchannels, frames)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

// TestRoundTripMatrix covers scenario S1.
func TestRoundTripMatrix(t *testing.T) {
	r := mustNewRing(t, 2, 8)
	defer r.Close()

	writeIn := [][]int{
		{1, 3, 5, 7, 9},
		{2, 4, 6, 8, 10},
	}
	n, err := r.WriteMatrix(writeIn)
	if err != nil || n != 5 {
		t.Fatalf("WriteMatrix() = %d, %v, want 5, nil", n, err)
	}

	matrix, n, err := r.ReadMatrix(5)
	if err != nil || n != 5 {
		t.Fatalf("ReadMatrix() = %d, %v, want 5, nil", n, err)
	}
	for c := range writeIn {
		for f := range writeIn[c] {
			if matrix[c][f] != writeIn[c][f] {
				t.Errorf("matrix[%d][%d] = %d, want %d", c, f, matrix[c][f], writeIn[c][f])
			}
		}
	}
}

// TestRoundTripFlat covers scenario S2.
func TestRoundTripFlat(t *testing.T) {
	r := mustNewRing(t, 2, 8)
	defer r.Close()

	flat := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	n, err := r.WriteFrames(flat)
	if err != nil || n != 5 {
		t.Fatalf("WriteFrames() = %d, %v, want 5, nil", n, err)
	}

	dst := make([]int, 10)
	read, err := r.Read(dst, 5)
	if err != nil || read != 5 {
		t.Fatalf("Read() = %d, %v, want 5, nil", read, err)
	}
	want := []int{1, 3, 5, 7, 9, 2, 4, 6, 8, 10}
	for i := 0; i < 5; i++ {
		if dst[2*i] != want[i] || dst[2*i+1] != want[i+5] {
			t.Errorf("unexpected interleave at frame %d: %v", i, dst[:10])
			break
		}
	}
}

// TestWriteMatrixWrongChannelCount covers scenario S3.
func TestWriteMatrixWrongChannelCount(t *testing.T) {
	r := mustNewRing(t, 2, 8)
	defer r.Close()

	bad := [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if _, err := r.WriteMatrix(bad); err == nil {
		t.Fatal("WriteMatrix() with 3 rows against 2 channels: want error, got nil")
	}
}

func TestWriteShortBufferIsArgumentError(t *testing.T) {
	r := mustNewRing(t, 2, 8)
	defer r.Close()

	if _, err := r.Write([]int{1, 2, 3}, 5); err == nil {
		t.Fatal("Write() with short buffer: want error, got nil")
	}
	if d := r.writers.Len(); d != 0 {
		t.Fatalf("writer queue depth after argument error = %d, want 0", d)
	}
}

// TestOverflowBlocksWriter covers scenario S4.
func TestOverflowBlocksWriter(t *testing.T) {
	r := mustNewRing(t, 2, 8) // capacity 8 frames
	defer r.Close()

	first := [][]int{{1, 3, 5, 7, 9}, {2, 4, 6, 8, 10}} // 5 frames, fits
	if n, err := r.WriteMatrix(first); err != nil || n != 5 {
		t.Fatalf("first WriteMatrix() = %d, %v, want 5, nil", n, err)
	}

	resultCh := make(chan uint64, 1)
	go func() {
		n, _ := r.WriteMatrix(first) // another 5 frames; only 3 fit, must block
		resultCh <- n
	}()

	select {
	case n := <-resultCh:
		t.Fatalf("second write completed early with %d frames, want it to block", n)
	case <-time.After(100 * time.Millisecond):
	}

	dst := make([]int, 8*2)
	read, err := r.Read(dst, 8)
	if err != nil || read != 8 {
		t.Fatalf("Read() = %d, %v, want 8, nil", read, err)
	}

	select {
	case n := <-resultCh:
		if n != 5 {
			t.Fatalf("second write result = %d, want 5", n)
		}
	case <-time.After(time.Second):
		t.Fatal("second write never completed after space was freed")
	}
}

// TestUnderflowBlocksReader covers scenario S5.
func TestUnderflowBlocksReader(t *testing.T) {
	r := mustNewRing(t, 2, 8)
	defer r.Close()

	if _, err := r.WriteMatrix([][]int{{1, 2, 3}, {1, 2, 3}}); err != nil {
		t.Fatalf("WriteMatrix() error = %v", err)
	}

	resultCh := make(chan uint64, 1)
	go func() {
		dst := make([]int, 6*2)
		n, _ := r.Read(dst, 6)
		resultCh <- n
	}()

	select {
	case n := <-resultCh:
		t.Fatalf("read completed early with %d frames, want it to block", n)
	case <-time.After(100 * time.Millisecond):
	}

	if _, err := r.WriteMatrix([][]int{{4, 5, 6}, {4, 5, 6}}); err != nil {
		t.Fatalf("WriteMatrix() error = %v", err)
	}

	select {
	case n := <-resultCh:
		if n != 6 {
			t.Fatalf("read result = %d, want 6", n)
		}
	case <-time.After(time.Second):
		t.Fatal("read never completed after data was produced")
	}
}

// TestCloseCancelsInProgress covers scenario S6.
func TestCloseCancelsInProgress(t *testing.T) {
	r := mustNewRing(t, 2, 8) // capacity 8 frames

	t1 := make(chan uint64, 1)
	t2 := make(chan uint64, 1)

	frame := func(n int) [][]int {
		row := make([]int, n)
		for i := range row {
			row[i] = i
		}
		return [][]int{row, row}
	}

	go func() {
		n, _ := r.WriteMatrix(frame(10)) // fits 8, blocks for the rest
		t1 <- n
	}()
	time.Sleep(20 * time.Millisecond)
	go func() {
		n, _ := r.WriteMatrix(frame(10)) // queued entirely behind t1
		t2 <- n
	}()
	time.Sleep(20 * time.Millisecond)

	r.Close()

	select {
	case n := <-t1:
		if n != 8 {
			t.Fatalf("t1 result = %d, want 8", n)
		}
	case <-time.After(time.Second):
		t.Fatal("t1 never returned after Close")
	}
	select {
	case n := <-t2:
		if n != 0 {
			t.Fatalf("t2 result = %d, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatal("t2 never returned after Close")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	r := mustNewRing(t, 1, 4)
	r.Close()
	r.Close() // must not panic or block
	if r.IsOpen() {
		t.Fatal("IsOpen() = true after Close()")
	}
}

func TestConcurrentWritersPreserveEnqueueOrder(t *testing.T) {
	r := mustNewRing(t, 1, 2)
	defer r.Close()

	const writers = 4
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		i := i
		go func() {
			defer wg.Done()
			r.Write([]int{i, i}, 2)
		}()
		time.Sleep(10 * time.Millisecond) // stagger enqueue order deterministically
	}

	go func() {
		wg.Wait()
	}()

	dst := make([]int, writers*2)
	var total uint64
	for total < uint64(writers*2) {
		n, err := r.Read(dst[total:], uint64(writers*2)-total)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		total += n
	}

	for i := 0; i < writers; i++ {
		if dst[2*i] != i || dst[2*i+1] != i {
			t.Fatalf("frame pair %d = (%d,%d), want (%d,%d)", i, dst[2*i], dst[2*i+1], i, i)
		}
	}
}

func TestUnderflowTruncateNeverBlocks(t *testing.T) {
	r, err := NewWithPolicy[int](1, 4, OverflowBlock, UnderflowTruncate, nil)
	if err != nil {
		t.Fatalf("NewWithPolicy() error = %v", err)
	}
	defer r.Close()

	dst := make([]int, 4)
	n, err := r.Read(dst, 4)
	if err != nil || n != 0 {
		t.Fatalf("Read() = %d, %v, want 0, nil", n, err)
	}
}

func TestUnderflowPadZeroFillsTail(t *testing.T) {
	r, err := NewWithPolicy[int](1, 4, OverflowBlock, UnderflowPad, nil)
	if err != nil {
		t.Fatalf("NewWithPolicy() error = %v", err)
	}
	defer r.Close()

	r.Write([]int{7, 8}, 2)
	dst := make([]int, 4)
	for i := range dst {
		dst[i] = -1
	}
	n, err := r.Read(dst, 4)
	if err != nil || n != 4 {
		t.Fatalf("Read() = %d, %v, want 4, nil", n, err)
	}
	want := []int{7, 8, 0, 0}
	for i, v := range want {
		if dst[i] != v {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], v)
		}
	}
}

func TestOverflowTruncateNeverBlocks(t *testing.T) {
	r, err := NewWithPolicy[int](1, 4, OverflowTruncate, UnderflowBlock, nil)
	if err != nil {
		t.Fatalf("NewWithPolicy() error = %v", err)
	}
	defer r.Close()

	n, err := r.Write([]int{1, 2, 3, 4, 5, 6}, 6)
	if err != nil || n != 4 {
		t.Fatalf("Write() = %d, %v, want 4, nil", n, err)
	}
}

func TestOverflowOverwriteAlwaysReturnsFull(t *testing.T) {
	r, err := NewWithPolicy[int](1, 4, OverflowOverwrite, UnderflowBlock, nil)
	if err != nil {
		t.Fatalf("NewWithPolicy() error = %v", err)
	}
	defer r.Close()

	n, err := r.Write([]int{1, 2, 3, 4, 5, 6}, 6)
	if err != nil || n != 6 {
		t.Fatalf("Write() = %d, %v, want 6, nil", n, err)
	}
	if got := r.ReadableFrames(); got != 4 {
		t.Fatalf("ReadableFrames() = %d, want 4", got)
	}

	dst := make([]int, 4)
	read, err := r.Read(dst, 4)
	if err != nil || read != 4 {
		t.Fatalf("Read() = %d, %v, want 4, nil", read, err)
	}
	want := []int{3, 4, 5, 6}
	for i, v := range want {
		if dst[i] != v {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], v)
		}
	}
}

func TestStatsReflectsWritableFramesAndOpen(t *testing.T) {
	r := mustNewRing(t, 1, 2)
	if s := r.Stats(); !s.Open || s.WritableFrames != 2 {
		t.Fatalf("initial Stats() = %+v, want Open=true WritableFrames=2", s)
	}
	r.Close()
	if s := r.Stats(); s.Open {
		t.Fatalf("Stats() after Close = %+v, want Open=false", s)
	}
}

func TestInvalidChannelCountRejected(t *testing.T) {
	if _, err := New[int](0, 8); err == nil {
		t.Fatal("New() with nchannels=0: want error, got nil")
	}
}

func TestNewSimpleParsesCapacityString(t *testing.T) {
	r, err := NewSimple[int](2, "1Ki")
	if err != nil {
		t.Fatalf("NewSimple() error = %v", err)
	}
	defer r.Close()
	if got := r.WritableFrames(); got != 1024 {
		t.Fatalf("WritableFrames() = %d, want 1024", got)
	}
}

func TestNewSimpleRejectsBadCapacityString(t *testing.T) {
	if _, err := NewSimple[int](2, "not-a-size"); err == nil {
		t.Fatal("NewSimple() with malformed capacity: want error, got nil")
	}
}

// TestOverflowBlockNoSleepLostWakeup is a tight-race regression test
// for the lost-wakeup window described in writeBlock/readBlock: it
// hammers a blocked writer against a draining reader back-to-back with
// no sleeps, so that if data_notify were ever snapshotted *after* the
// write attempt (instead of before), a signal landing in that window
// would close a generation the writer never captured and strand it on
// <-ch forever.
func TestOverflowBlockNoSleepLostWakeup(t *testing.T) {
	const rounds = 2000
	r := mustNewRing(t, 1, 1) // capacity 1 frame: every write after the first must wait.

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < rounds; i++ {
			if _, err := r.Write([]int{i}, 1); err != nil {
				t.Errorf("Write() error = %v", err)
				return
			}
		}
	}()

	dst := make([]int, 1)
	for i := 0; i < rounds; i++ {
		n, err := r.Read(dst, 1)
		if err != nil || n != 1 {
			t.Fatalf("Read() round %d = %d, %v, want 1, nil", i, n, err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("writer never finished: suspected lost wakeup on data_notify")
	}
}
