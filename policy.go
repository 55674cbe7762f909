// policy.go: overflow/underflow policy variants for BlockingRing
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ringio

// OverflowPolicy selects what BlockingRing.write does when the ring
// does not have enough writable space for the full request.
type OverflowPolicy int

const (
	// OverflowBlock suspends the caller until enough space is freed by
	// readers, or the ring is closed. This is the policy relied on by
	// the concurrent close semantics (spec.md §4.3) and is the default.
	OverflowBlock OverflowPolicy = iota

	// OverflowTruncate writes only what currently fits and returns
	// immediately without suspending.
	OverflowTruncate

	// OverflowOverwrite accepts the full write whenever the ring is
	// still open when the call gets its turn. If the request
	// is at least the ring's capacity, the ring is discarded and only
	// the trailing capacity frames of the request are kept; otherwise
	// the oldest unread frames are dropped (by advancing nread) to make
	// room for the new ones.
	OverflowOverwrite
)

// UnderflowPolicy selects what BlockingRing.read does when the ring
// does not have enough readable data for the full request.
type UnderflowPolicy int

const (
	// UnderflowBlock suspends the caller until enough data is produced
	// by writers, or the ring is closed. Default.
	UnderflowBlock UnderflowPolicy = iota

	// UnderflowTruncate returns immediately with whatever is available,
	// which may be zero frames.
	UnderflowTruncate

	// UnderflowPad reads whatever is available and fills the remainder
	// of the destination with zero-value samples, reporting the full
	// requested frame count whenever the ring is still open when the
	// call gets its turn.
	UnderflowPad
)
