// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// Rational is a SMPTE rational number: a signed numerator/denominator pair,
// used for edit rates, sample rates, and aspect ratios.
type Rational struct {
	Numerator   int32
	Denominator int32
}

// Timestamp is a decoded SMPTE timestamp (2-byte year, then one byte each
// for month, day, hour, minute, second and milliseconds/4), the 8-byte form
// used throughout structural metadata.
type Timestamp struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Msec        int // derived from the frame/fraction byte at 1/4 resolution, per ST 377-1
}

// decodeU8/16/32/64 and signed counterparts decode fixed-width big-endian
// scalars, mirroring the teacher's ReadUint32/ReadUint16-style bounds
// checking in helper.go but operating on an already-sliced field value
// instead of the whole mmap'd file.

func decodeU8(b []byte) (uint8, error) {
	if len(b) != 1 {
		return 0, errFieldSize(1, len(b))
	}
	return b[0], nil
}

func decodeBool(b []byte) (bool, error) {
	v, err := decodeU8(b)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func decodeU16(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, errFieldSize(2, len(b))
	}
	return binary.BigEndian.Uint16(b), nil
}

func decodeU32(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, errFieldSize(4, len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

func decodeU64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errFieldSize(8, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func decodeI32(b []byte) (int32, error) {
	v, err := decodeU32(b)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func decodeI64(b []byte) (int64, error) {
	v, err := decodeU64(b)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// decodeRational decodes an 8-byte (num:i32, denom:i32) pair. denom == 0 is
// a FieldDecodeFailure (spec.md §4.3).
func decodeRational(b []byte) (Rational, error) {
	if len(b) != 8 {
		return Rational{}, errFieldSize(8, len(b))
	}
	num := int32(binary.BigEndian.Uint32(b[0:4]))
	den := int32(binary.BigEndian.Uint32(b[4:8]))
	if den == 0 {
		return Rational{}, errRationalZeroDen
	}
	return Rational{Numerator: num, Denominator: den}, nil
}

// decodeTimestamp decodes the 8-byte SMPTE timestamp.
func decodeTimestamp(b []byte) (Timestamp, error) {
	if len(b) != 8 {
		return Timestamp{}, errFieldSize(8, len(b))
	}
	year := int(binary.BigEndian.Uint16(b[0:2]))
	return Timestamp{
		Year:   year,
		Month:  int(b[2]),
		Day:    int(b[3]),
		Hour:   int(b[4]),
		Minute: int(b[5]),
		Second: int(b[6]),
		Msec:   int(b[7]) * 4,
	}, nil
}

// AsTime converts a Timestamp to a time.Time in UTC, for convenience; it
// performs no validation of out-of-range fields (structural decoding does
// not reject them — spec.md's error taxonomy has no entry for an
// implausible-but-well-formed timestamp).
func (t Timestamp) AsTime() time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second,
		t.Msec*1_000_000, time.UTC)
}

// decodeUL decodes a 16-byte Universal Label / AUID field.
func decodeUL(b []byte) (UL, error) {
	if len(b) != 16 {
		return UL{}, errFieldSize(16, len(b))
	}
	var u UL
	copy(u[:], b)
	return u, nil
}

// decodeUMID decodes a package UMID field, 16 or 32 bytes (spec.md §3 notes
// both variants occur; the implementation canonicalizes by retaining
// whichever width it was given, never truncating — spec.md §9).
func decodeUMID(b []byte) (MXFUid, error) {
	switch len(b) {
	case 16:
		return NewMXFUid16(b), nil
	case 32:
		return NewMXFUid32(b), nil
	default:
		return MXFUid{}, errFieldSize(32, len(b))
	}
}

// decodeStrongRef decodes a 16-byte strong reference: the instance UID of
// another set in this partition.
func decodeStrongRef(b []byte) (MXFUid, error) {
	if len(b) != 16 {
		return MXFUid{}, errFieldSize(16, len(b))
	}
	return NewMXFUid16(b), nil
}

// decodeStrongRefBatch decodes a (count:u32, item_size:u32, items...) batch
// of strong references, item_size must be 16 (spec.md §4.3).
func decodeStrongRefBatch(b []byte) ([]MXFUid, error) {
	if len(b) < 8 {
		return nil, errFieldSize(8, len(b))
	}
	count := binary.BigEndian.Uint32(b[0:4])
	itemSize := binary.BigEndian.Uint32(b[4:8])
	if itemSize != 16 {
		return nil, errFieldDecode("strong-reference batch item_size must be 16, got %d", itemSize)
	}
	want := 8 + int64(count)*16
	if int64(len(b)) != want {
		return nil, errFieldDecode("strong-reference batch declares %d items but value is %d bytes", count, len(b))
	}

	refs := make([]MXFUid, 0, count)
	for i := uint32(0); i < count; i++ {
		start := 8 + i*16
		refs = append(refs, NewMXFUid16(b[start:start+16]))
	}
	return refs, nil
}

// utf16BEDecoder decodes UTF-16BE text without a byte-order mark, the same
// golang.org/x/text/encoding/unicode machinery the teacher's
// DecodeUTF16String uses in helper.go.
var utf16BEDecoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// decodeUTF16BEString decodes a length-prefixed UTF-16BE string field. A
// trailing UTF-16 NUL terminator, if present, is trimmed.
func decodeUTF16BEString(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if len(b)%2 != 0 {
		return "", errFieldDecode("UTF-16BE string value has odd length %d", len(b))
	}

	trimmed := b
	if len(trimmed) >= 2 && trimmed[len(trimmed)-2] == 0 && trimmed[len(trimmed)-1] == 0 {
		trimmed = trimmed[:len(trimmed)-2]
	}
	if len(trimmed) == 0 {
		return "", nil
	}

	s, err := utf16BEDecoder.Bytes(trimmed)
	if err != nil {
		return "", errFieldDecode("UTF-16BE decode failed: %v", err)
	}
	return string(s), nil
}

// decodeBlob returns the field's bytes unchanged, for fields with no more
// specific parser (spec.md §4.3's "opaque blob").
func decodeBlob(b []byte) ([]byte, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func errFieldSize(want, got int) error {
	return errFieldDecode("expected %d bytes, got %d", want, got)
}

func errFieldDecode(format string, args ...interface{}) error {
	return &fieldDecodeError{msg: fmt.Sprintf(format, args...)}
}

type fieldDecodeError struct{ msg string }

func (e *fieldDecodeError) Error() string { return e.msg }
