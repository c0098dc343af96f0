// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import "testing"

func TestDecodeRationalRejectsZeroDenominator(t *testing.T) {
	b := rationalBytes(25, 0)
	if _, err := decodeRational(b); err != errRationalZeroDen {
		t.Fatalf("got %v, want errRationalZeroDen", err)
	}
}

func TestDecodeRationalOK(t *testing.T) {
	b := rationalBytes(24000, 1001)
	r, err := decodeRational(b)
	if err != nil {
		t.Fatalf("decodeRational: %v", err)
	}
	if r.Numerator != 24000 || r.Denominator != 1001 {
		t.Errorf("got %+v", r)
	}
}

func TestDecodeTimestamp(t *testing.T) {
	b := []byte{0x07, 0xe8, 3, 15, 10, 30, 45, 10} // 2024-03-15 10:30:45, 40ms
	ts, err := decodeTimestamp(b)
	if err != nil {
		t.Fatalf("decodeTimestamp: %v", err)
	}
	if ts.Year != 2024 || ts.Month != 3 || ts.Day != 15 {
		t.Errorf("got %+v", ts)
	}
	if ts.Msec != 40 {
		t.Errorf("Msec = %d, want 40", ts.Msec)
	}
}

func TestDecodeUTF16BEString(t *testing.T) {
	want := "mxfkit"
	got, err := decodeUTF16BEString(utf16BEBytes(want))
	if err != nil {
		t.Fatalf("decodeUTF16BEString: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeUTF16BERejectsOddLength(t *testing.T) {
	if _, err := decodeUTF16BEString([]byte{0, 'a', 0}); err == nil {
		t.Fatal("expected error for odd-length UTF-16 value")
	}
}

func TestDecodeStrongRefBatch(t *testing.T) {
	refs := []MXFUid{testUID(1), testUID(2), testUID(3)}
	got, err := decodeStrongRefBatch(strongRefBatchBytes(refs))
	if err != nil {
		t.Fatalf("decodeStrongRefBatch: %v", err)
	}
	if len(got) != len(refs) {
		t.Fatalf("got %d refs, want %d", len(got), len(refs))
	}
	for i, r := range refs {
		if !got[i].Equal(r) {
			t.Errorf("ref %d: got %s, want %s", i, got[i], r)
		}
	}
}

func TestDecodeUMIDDistinguishesWidths(t *testing.T) {
	u16, err := decodeUMID(testUID(5).Bytes())
	if err != nil {
		t.Fatalf("decodeUMID(16): %v", err)
	}
	u32, err := decodeUMID(testUMID(5).Bytes())
	if err != nil {
		t.Fatalf("decodeUMID(32): %v", err)
	}
	if u16.Equal(u32) {
		t.Error("16-byte and 32-byte UIDs with the same fill byte must not compare equal")
	}
}

func TestFieldSizeMismatch(t *testing.T) {
	if _, err := decodeU32([]byte{1, 2}); err == nil {
		t.Fatal("expected size-mismatch error")
	}
}
