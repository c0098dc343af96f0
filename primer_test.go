// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import "testing"

func TestDecodePrimerPackRoundTrip(t *testing.T) {
	entries := []primerEntry{
		{LocalTag: 0x0101, UL: fieldUL(0x01, 0x01)},
		{LocalTag: 0x0102, UL: fieldUL(0x01, 0x02)},
	}
	kv := buildPrimerPack(entries)

	// kv is a full KLV; strip the framing this test doesn't need.
	hdr, value := splitKLVForTest(t, kv)
	if !hdr.Key.EqualIgnoringVersion(ULPrimerPack) {
		t.Fatalf("expected primer pack key")
	}

	mapping, err := decodePrimerPack(value)
	if err != nil {
		t.Fatalf("decodePrimerPack: %v", err)
	}
	for _, e := range entries {
		got, ok := mapping.resolve(e.LocalTag)
		if !ok {
			t.Fatalf("tag 0x%04x not resolved", e.LocalTag)
		}
		if got != e.UL {
			t.Errorf("tag 0x%04x resolved to %s, want %s", e.LocalTag, got, e.UL)
		}
	}
}

func TestDecodePrimerPackRejectsBadItemSize(t *testing.T) {
	value := concatBytes(u32Bytes(1), u32Bytes(17), u16Bytes(1), make([]byte, 16))
	if _, err := decodePrimerPack(value); err != errPrimerItemSize {
		t.Fatalf("got err %v, want errPrimerItemSize", err)
	}
}

func TestDecodePrimerPackRejectsDuplicateTag(t *testing.T) {
	entries := []primerEntry{
		{LocalTag: 0x0101, UL: fieldUL(0x01, 0x01)},
		{LocalTag: 0x0101, UL: fieldUL(0x01, 0x02)},
	}
	value := concatBytes(u32Bytes(uint32(len(entries))), u32Bytes(primerPackItemSize))
	for _, e := range entries {
		value = append(value, u16Bytes(e.LocalTag)...)
		value = append(value, e.UL[:]...)
	}

	if _, err := decodePrimerPack(value); err != errPrimerDuplicate {
		t.Fatalf("got err %v, want errPrimerDuplicate", err)
	}
}

func TestDecodePrimerPackRejectsShortValue(t *testing.T) {
	if _, err := decodePrimerPack([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for undersized primer pack value")
	}
}

// splitKLVForTest decodes a full KLV buffer back into its header and value,
// for tests that build a KLV via klvBytes and need the raw value back.
func splitKLVForTest(t *testing.T, data []byte) (klvHeader, []byte) {
	t.Helper()
	src := newBufferSourceForTest(data)
	kr := newKLVReader(src)
	hdr, err := kr.readHeader()
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	value, err := kr.readExact(hdr.VSize)
	if err != nil {
		t.Fatalf("readExact: %v", err)
	}
	return hdr, value
}
