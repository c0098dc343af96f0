// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"testing"

	"github.com/mxfkit/mxf/bytesource"
)

func TestBERLengthRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 126, 127, 128, 129, 255, 256, 1<<16 - 1, 1 << 16, 1<<32 - 1, 1 << 32, 1<<56 - 1}

	for _, v := range cases {
		encoded := encodeBERLength(v)
		src := bytesource.NewBuffer(encoded)
		kr := newKLVReader(src)
		got, lsize, err := kr.readBERLength()
		if err != nil {
			t.Fatalf("readBERLength(%d): unexpected error: %v", v, err)
		}
		if got != int64(v) {
			t.Errorf("readBERLength(%d): got %d", v, got)
		}
		if lsize != len(encoded) {
			t.Errorf("readBERLength(%d): lsize %d, encoded length %d", v, lsize, len(encoded))
		}
	}
}

func TestBERLengthCanonicalForm(t *testing.T) {
	if got := encodeBERLength(127); len(got) != 1 {
		t.Errorf("127 should encode in short form, got %d bytes", len(got))
	}
	if got := encodeBERLength(128); len(got) != 2 || got[0] != 0x81 {
		t.Errorf("128 should encode as {0x81, 0x80}, got %x", got)
	}
}

func TestReadHeaderTruncatedKey(t *testing.T) {
	src := bytesource.NewBuffer([]byte{1, 2, 3})
	kr := newKLVReader(src)
	if _, err := kr.readHeader(); err == nil {
		t.Fatal("expected error for truncated key")
	}
}

func TestReadHeaderLongFormLength(t *testing.T) {
	key := ULFillItem
	value := make([]byte, 200)
	data := klvBytes(key, value)

	src := bytesource.NewBuffer(data)
	kr := newKLVReader(src)
	hdr, err := kr.readHeader()
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if hdr.Key != key {
		t.Errorf("key mismatch")
	}
	if hdr.VSize != int64(len(value)) {
		t.Errorf("VSize = %d, want %d", hdr.VSize, len(value))
	}
	got, err := kr.readExact(hdr.VSize)
	if err != nil {
		t.Fatalf("readExact: %v", err)
	}
	if len(got) != len(value) {
		t.Errorf("read %d bytes, want %d", len(got), len(value))
	}
}

func TestInvalidBERLengthRejectsZeroCount(t *testing.T) {
	src := bytesource.NewBuffer([]byte{0x80})
	kr := newKLVReader(src)
	if _, _, err := kr.readBERLength(); err == nil {
		t.Fatal("expected error for zero-count long form")
	}
}
