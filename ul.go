// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"encoding/hex"
	"fmt"
)

// UL is a 16-byte SMPTE Universal Label, the registered identifier attached
// to every KLV key, set class, and field in an MXF file.
type UL [16]byte

// String renders the UL as dash-separated hex, e.g. "060e2b34-0101...".
func (u UL) String() string {
	return fmt.Sprintf("%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:16])
}

// IsZero reports whether the UL is all zero bytes.
func (u UL) IsZero() bool {
	return u == UL{}
}

// smpteRegistryPrefix is shared by every key defined by SMPTE ST 336
// (06.0e.2b.34). The core only ever operates on ULs stamped with it.
var smpteRegistryPrefix = [4]byte{0x06, 0x0e, 0x2b, 0x34}

// HasSMPTERegistry reports whether the first four bytes identify this as an
// SMPTE-registered Universal Label.
func (u UL) HasSMPTERegistry() bool {
	return u[0] == smpteRegistryPrefix[0] && u[1] == smpteRegistryPrefix[1] &&
		u[2] == smpteRegistryPrefix[2] && u[3] == smpteRegistryPrefix[3]
}

// registryVersionByte is the octet the MXF specification defines as a
// don't-care when matching structural-set classes.
const registryVersionByte = 7

// EqualIgnoringVersion compares two ULs as whole 16-byte sequences except for
// the registry version octet.
func (u UL) EqualIgnoringVersion(other UL) bool {
	for i := 0; i < 16; i++ {
		if i == registryVersionByte {
			continue
		}
		if u[i] != other[i] {
			return false
		}
	}
	return true
}

// ulKey is the map key used by static dispatch tables: the UL with the
// registry version byte zeroed out, so one table entry matches every
// registry version of a given class.
func ulKey(u UL) UL {
	k := u
	k[registryVersionByte] = 0
	return k
}

func mustParseUL(s string) UL {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 16 {
		panic(fmt.Sprintf("mxf: invalid static UL literal %q", s))
	}
	var u UL
	copy(u[:], b)
	return u
}

// Well-known Universal Labels. Registry version (byte index 7) is zero in
// these literals; lookups mask it via ulKey/EqualIgnoringVersion.
var (
	// ULPartitionPackHeaderClosedComplete is the Header Partition Pack key.
	// ST 2067-5 requires the header partition to be closed and complete.
	ULPartitionPackHeaderClosedComplete = mustParseUL("060e2b34020501010d01020101020400")

	// ULPrimerPack is the Primer Pack's key.
	ULPrimerPack = mustParseUL("060e2b34020501010d01020101050100")

	// ULFillItem is the KLV Fill Item key.
	ULFillItem = mustParseUL("060e2b34010101010301021001000000")

	// ULInstanceUID is the field key registered for local tag 0x3C0A on
	// every structural set. decodeSet recognizes the instance UID by that
	// local tag alone, without a Primer lookup.
	ULInstanceUID = mustParseUL("060e2b34010101010601011504010000")
)

// instanceUIDLocalTag is the fixed local tag used for every set's own
// identity field, per spec.md §4.3.
const instanceUIDLocalTag uint16 = 0x3C0A

// isPartitionPackKey reports whether key identifies any partition pack
// (header/body/footer, open/closed/complete) by matching everything but the
// 14th and 15th bytes, which SMPTE uses to enumerate the partition kind
// (0x02..0x04) and its open/closed/complete status (0x01..0x04). Only the
// Header/Closed/Complete variant is accepted by New as the first KLV, but
// classification itself recognizes the whole family so a non-header
// partition pack can still be reported with a precise error instead of being
// treated as an unrecognized structural set.
func isPartitionPackKey(key UL) bool {
	for i := 0; i < 16; i++ {
		if i == 13 || i == 14 {
			continue
		}
		if key[i] != ULPartitionPackHeaderClosedComplete[i] {
			return false
		}
	}
	kind, status := key[13], key[14]
	return kind >= 0x02 && kind <= 0x04 && status >= 0x01 && status <= 0x04
}
