// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"bytes"
	"encoding/hex"
)

// MXFUid is the opaque identity used throughout the object graph: an
// instance UID (16 bytes), a package UID / UMID (16 or 32 bytes), or a
// strong reference (the 16-byte instance UID of another set). Per spec.md
// §9, the two UID flavors are kept as a single type that stores the raw
// bytes and compares by full length — a 16-byte instance UID is never equal
// to a 32-byte UMID even if their material-number portion matches.
type MXFUid struct {
	b [32]byte
	n int
}

// NewMXFUid16 builds an MXFUid from a 16-byte instance UID or strong
// reference.
func NewMXFUid16(b []byte) MXFUid {
	var u MXFUid
	u.n = 16
	copy(u.b[:16], b)
	return u
}

// NewMXFUid32 builds an MXFUid from a 32-byte package UMID.
func NewMXFUid32(b []byte) MXFUid {
	var u MXFUid
	u.n = 32
	copy(u.b[:32], b)
	return u
}

// Bytes returns the raw identity bytes (16 or 32, whichever this value was
// constructed with).
func (u MXFUid) Bytes() []byte {
	return u.b[:u.n]
}

// Len reports the stored byte length, 16 or 32 (or 0 for the zero value).
func (u MXFUid) Len() int {
	return u.n
}

// Equal compares two MXFUid values by full length and content. Two UIDs of
// different lengths are never equal, even if one is a prefix of the other —
// this is the "do not silently truncate" rule from spec.md §9.
func (u MXFUid) Equal(other MXFUid) bool {
	if u.n != other.n {
		return false
	}
	return bytes.Equal(u.b[:u.n], other.b[:other.n])
}

// IsZero reports whether this is the zero value (no identity set).
func (u MXFUid) IsZero() bool {
	return u.n == 0
}

// String renders the identity as hex, for logs and diagnostics.
func (u MXFUid) String() string {
	return hex.EncodeToString(u.b[:u.n])
}

// MaterialNumber returns the 16-byte material-number portion of a 32-byte
// UMID (the low half), used only for the cross-matching the teacher's
// upstream describes in spec.md §3 — identity indexing itself always uses
// the full stored form, never this truncated view.
func (u MXFUid) MaterialNumber() MXFUid {
	if u.n != 32 {
		return u
	}
	return NewMXFUid16(u.b[16:32])
}
