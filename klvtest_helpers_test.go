// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

// In-memory KLV-stream construction helpers shared by this package's
// tests. Grounded on the teacher's in-memory *File fixtures in file_test.go
// (the teacher builds small byte buffers by hand rather than shipping
// sample binaries); no real MXF sample files exist in this module's
// retrieval pack, so every test here builds its own minimal byte stream.

import (
	"encoding/binary"

	"github.com/mxfkit/mxf/bytesource"
)

func newBufferSourceForTest(data []byte) bytesource.Source {
	return bytesource.NewBuffer(data)
}

func klvBytes(key UL, value []byte) []byte {
	out := make([]byte, 0, 16+9+len(value))
	out = append(out, key[:]...)
	out = append(out, encodeBERLength(uint64(len(value)))...)
	out = append(out, value...)
	return out
}

func triple(tag uint16, value []byte) []byte {
	b := make([]byte, 4+len(value))
	binary.BigEndian.PutUint16(b[0:2], tag)
	binary.BigEndian.PutUint16(b[2:4], uint16(len(value)))
	copy(b[4:], value)
	return b
}

func concatBytes(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func u16Bytes(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func u32Bytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func i64Bytes(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func rationalBytes(num, den int32) []byte {
	return concatBytes(u32Bytes(uint32(num)), u32Bytes(uint32(den)))
}

func strongRefBytes(u MXFUid) []byte {
	return u.Bytes()
}

func strongRefBatchBytes(us []MXFUid) []byte {
	out := concatBytes(u32Bytes(uint32(len(us))), u32Bytes(16))
	for _, u := range us {
		out = append(out, u.Bytes()...)
	}
	return out
}

func utf16BEBytes(s string) []byte {
	out := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		out = append(out, byte(r>>8), byte(r))
	}
	return append(out, 0, 0) // trailing NUL terminator
}

// testUID builds a distinct 16-byte instance UID from a single seed byte,
// for tests that need many distinguishable identities without caring about
// their exact bytes.
func testUID(seed byte) MXFUid {
	b := make([]byte, 16)
	for i := range b {
		b[i] = seed
	}
	b[15] = seed // keep distinguishable even if callers only vary high bytes
	return NewMXFUid16(b)
}

func testUMID(seed byte) MXFUid {
	b := make([]byte, 32)
	for i := range b {
		b[i] = seed
	}
	return NewMXFUid32(b)
}

// buildSet assembles a full structural set KLV: the instance UID triple
// (local tag 0x3C0A) plus every caller-supplied field triple, wrapped as a
// KLV with the given key.
func buildSet(key UL, instanceUID MXFUid, fieldTriples ...[]byte) []byte {
	value := concatBytes(triple(instanceUIDLocalTag, strongRefBytes(instanceUID)))
	for _, t := range fieldTriples {
		value = append(value, t...)
	}
	return klvBytes(key, value)
}

// primerEntryFor builds a primer entry mapping tag to the field UL declared
// for (classByte, fieldByte) in the static schema table.
func primerEntryFor(tag uint16, classByte, fieldByte byte) primerEntry {
	return primerEntry{LocalTag: tag, UL: fieldUL(classByte, fieldByte)}
}

func buildPrimerPack(entries []primerEntry) []byte {
	value := concatBytes(u32Bytes(uint32(len(entries))), u32Bytes(primerPackItemSize))
	for _, e := range entries {
		value = append(value, u16Bytes(e.LocalTag)...)
		value = append(value, e.UL[:]...)
	}
	return klvBytes(ULPrimerPack, value)
}

func buildPartitionPackKLV() []byte {
	return klvBytes(ULPartitionPackHeaderClosedComplete, make([]byte, 8))
}
