// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"github.com/mxfkit/mxf/bytesource"
)

// klvHeader is the decoded framing of one KLV (Key-Length-Value) record:
// a 16-byte key, a BER-encoded length, and the resulting value size.
// Grounded on spec.md §4.1.
type klvHeader struct {
	Key    UL
	LSize  int   // number of bytes the BER length field occupied, 1..9
	VSize  int64 // decoded value length
	KLSize int64 // Key+Length size, i.e. where the value begins relative to the header's start offset
}

// klvReader decodes KLV framing from a bytesource.Source, the equivalent of
// the teacher's structUnpack/ReadUint* bounds-checked reads in helper.go,
// specialized to the Key-Length-Value wire shape instead of fixed PE
// structs.
type klvReader struct {
	src bytesource.Source
}

func newKLVReader(src bytesource.Source) *klvReader {
	return &klvReader{src: src}
}

// readHeader decodes one KLV header at the reader's current offset. It does
// not read the value bytes; call readExact(VSize) or skip(VSize) next.
func (r *klvReader) readHeader() (klvHeader, error) {
	keyBytes, err := r.src.ReadBytes(16)
	if err != nil {
		return klvHeader{}, errTruncatedKey
	}
	var key UL
	copy(key[:], keyBytes)

	vsize, lsize, err := r.readBERLength()
	if err != nil {
		return klvHeader{}, err
	}

	return klvHeader{
		Key:    key,
		LSize:  lsize,
		VSize:  vsize,
		KLSize: 16 + int64(lsize),
	}, nil
}

// readBERLength decodes a BER length field per spec.md §4.1: short form
// when the first byte's high bit is clear (the byte itself is the length);
// long form when set (the low 7 bits give the count of following
// big-endian length bytes, up to 8). Lengths beyond 64 bits are rejected.
func (r *klvReader) readBERLength() (value int64, lsize int, err error) {
	first, err := r.src.ReadBytes(1)
	if err != nil {
		return 0, 0, errInvalidBERLen
	}

	if first[0]&0x80 == 0 {
		return int64(first[0]), 1, nil
	}

	count := int(first[0] & 0x7f)
	if count == 0 || count > 8 {
		return 0, 0, errInvalidBERLen
	}

	rest, err := r.src.ReadBytes(int64(count))
	if err != nil {
		return 0, 0, errInvalidBERLen
	}

	// Reject lengths whose significant bits would not fit in an int64 once
	// the sign bit is accounted for (the top bit of an 8-byte BER length
	// could otherwise overflow a signed 64-bit value).
	if count == 8 && rest[0]&0x80 != 0 {
		return 0, 0, errLengthOverflow
	}

	var v int64
	for _, b := range rest {
		v = (v << 8) | int64(b)
	}
	return v, 1 + count, nil
}

// readExact reads and returns exactly n value bytes.
func (r *klvReader) readExact(n int64) ([]byte, error) {
	b, err := r.src.ReadBytes(n)
	if err != nil {
		return nil, errTruncatedValue
	}
	return b, nil
}

// skip advances the cursor by n bytes without returning them.
func (r *klvReader) skip(n int64) error {
	if n == 0 {
		return nil
	}
	if err := r.src.Skip(n); err != nil {
		return errTruncatedValue
	}
	return nil
}

// offset returns the reader's current absolute offset.
func (r *klvReader) offset() int64 {
	return r.src.CurrentOffset()
}

// encodeBERLength re-encodes a length in canonical minimal BER form: 1-byte
// short form for values below 128, otherwise the shortest long form that
// holds the value. This is the inverse of readBERLength, exercised by the
// round-trip property in spec.md §8.
func encodeBERLength(v uint64) []byte {
	if v < 0x80 {
		return []byte{byte(v)}
	}

	var be []byte
	for v > 0 {
		be = append([]byte{byte(v & 0xff)}, be...)
		v >>= 8
	}
	return append([]byte{0x80 | byte(len(be))}, be...)
}
