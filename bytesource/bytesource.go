// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package bytesource provides the random-access byte source the mxf core
// consumes as an external collaborator (spec.md §6): ReadBytes, Skip,
// CurrentOffset, and Size, nothing more. The core borrows a Source for the duration of
// one constructor call and never outlives it.
package bytesource

import "errors"

// ErrOutOfRange is returned when a read or skip would move past the end of
// the underlying data.
var ErrOutOfRange = errors.New("bytesource: read past end of data")

// Source is the contract the mxf core consumes. Implementations need not be
// safe for concurrent use; the core is single-threaded and synchronous
// (spec.md §5).
type Source interface {
	// ReadBytes returns the next n bytes and advances the cursor by n.
	ReadBytes(n int64) ([]byte, error)

	// Skip advances the cursor by n bytes without returning them.
	Skip(n int64) error

	// CurrentOffset returns the cursor's absolute offset from the start of
	// the data.
	CurrentOffset() int64

	// Size returns the total number of bytes available.
	Size() int64
}
