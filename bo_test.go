// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import "testing"

func TestDecodeSetUnknownStructuralKeyIsNonFatal(t *testing.T) {
	var diag DiagnosticLog
	unknownKey := UL{0x06, 0x0e, 0x2b, 0x34, 0xff, 0xff, 0xff, 0x01, 0, 0, 0, 0, 0, 0, 0, 0}
	obj, err := decodeSet(unknownKey, []byte{0, 0}, 0, &primerMapping{}, &diag, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj != nil {
		t.Fatalf("expected nil object for unrecognized key")
	}
	fatals := diag.fatalSince(0)
	if len(fatals) != 0 {
		t.Fatalf("unrecognized structural key must not be fatal, got %v", fatals)
	}
}

func TestDecodeSetMissingInstanceUIDIsFatal(t *testing.T) {
	var diag DiagnosticLog
	primer := &primerMapping{}
	value := concatBytes(triple(0x0001, u32Bytes(1)))
	obj, err := decodeSet(ulIdentification, value, 0, primer, &diag, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj != nil {
		t.Fatalf("expected nil object when instance UID is absent")
	}
	if len(diag.fatalSince(0)) == 0 {
		t.Fatalf("missing instance UID must be recorded as fatal")
	}
}

func TestDecodeSetPopulatesDeclaredAndUnknownFields(t *testing.T) {
	var diag DiagnosticLog

	companyTag := uint16(0x1001)
	mysteryTag := uint16(0x1002)
	mysteryUL := UL{0x06, 0x0e, 0x2b, 0x34, 0x01, 0x01, 0x01, 0x01, 0x99, 0x99, 0x99, 0x99, 0, 0, 0, 0}

	primer := &primerMapping{entries: []primerEntry{
		primerEntryFor(companyTag, 0x02, 0x01),
		{LocalTag: mysteryTag, UL: mysteryUL},
	}}

	uid := testUID(9)
	value := buildIdentificationValue(uid, companyTag, mysteryTag)

	obj, err := decodeSet(ulIdentification, value, 0, primer, &diag, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ident, ok := obj.(*identificationBO)
	if !ok {
		t.Fatalf("expected *identificationBO, got %T", obj)
	}
	if ident.CompanyName != "mxfkit" {
		t.Errorf("CompanyName = %q, want mxfkit", ident.CompanyName)
	}
	if !ident.InstanceUID.Equal(uid) {
		t.Errorf("InstanceUID mismatch")
	}
	if _, ok := ident.UnknownFields[mysteryUL]; !ok {
		t.Errorf("expected unrecognized field %s to be recorded", mysteryUL)
	}
}

// buildIdentificationValue builds an Identification set's value bytes: the
// instance UID triple plus a CompanyName field and one field whose UL the
// schema table does not declare.
func buildIdentificationValue(uid MXFUid, companyTag, mysteryTag uint16) []byte {
	return concatBytes(
		triple(instanceUIDLocalTag, strongRefBytes(uid)),
		triple(companyTag, utf16BEBytes("mxfkit")),
		triple(mysteryTag, []byte{0xde, 0xad, 0xbe, 0xef}),
	)
}
