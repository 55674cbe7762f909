// errors.go: error taxonomy for the ring buffer and blocking facade
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

import (
	"errors"
	"fmt"
)

// Pre-allocated sentinel errors to avoid allocations on the error path.
var (
	// ErrClosed names the closed-ring condition. No operation in this
	// package returns it: Read and Write on a closed ring report a short
	// count with a nil error, and IsOpen() reports false.
	ErrClosed = errors.New("ringio: ring is closed")

	// ErrShortBuffer indicates the caller-supplied slice or matrix does
	// not hold at least the requested number of frames.
	ErrShortBuffer = errors.New("ringio: buffer shorter than requested frame count")

	// ErrChannelShape indicates a 2D argument's row or column count does
	// not match the ring's channel count.
	ErrChannelShape = errors.New("ringio: matrix shape does not match channel count")

	// ErrInvalidChannels indicates a channel count of zero was requested.
	ErrInvalidChannels = errors.New("ringio: channel count must be >= 1")
)

// argumentError wraps one of the sentinels above with operation-specific
// context, mirroring the teacher's fmt.Errorf("...: %w", err) wrapping
// style used throughout rotation.go.
func argumentError(op string, sentinel error, detail string) error {
	return fmt.Errorf("ringio: %s: %w (%s)", op, sentinel, detail)
}
