// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import "encoding/binary"

// primerPackItemSize is the fixed size of one (local_tag, UL) entry in the
// Primer Pack batch.
const primerPackItemSize = 18

// primerMapping is the immutable local-tag → UL table decoded from a
// Primer Pack, used to resolve every (local_tag, length, value) triple
// inside a structural set (spec.md §4.2). The teacher's note on flat vectors
// outperforming hash maps at small N (spec.md §9, "Local-tag maps") is
// honored here: entries is a small slice, looked up linearly, instead of a
// Go map.
type primerMapping struct {
	entries []primerEntry
}

type primerEntry struct {
	LocalTag uint16
	UL       UL
}

// resolve looks up the UL registered for a local tag. ok is false if the
// tag was never declared by the Primer Pack (spec.md's UnknownLocalTag).
func (p *primerMapping) resolve(tag uint16) (UL, bool) {
	for _, e := range p.entries {
		if e.LocalTag == tag {
			return e.UL, true
		}
	}
	return UL{}, false
}

// decodePrimerPack decodes a Primer Pack KLV's value bytes into a
// primerMapping. value is the batch header (count:u32, item_size:u32)
// followed by count entries of (local_tag:u16, ul:[16]).
func decodePrimerPack(value []byte) (*primerMapping, error) {
	if len(value) < 8 {
		return nil, errFieldDecode("primer pack value too short for batch header: %d bytes", len(value))
	}

	count := binary.BigEndian.Uint32(value[0:4])
	itemSize := binary.BigEndian.Uint32(value[4:8])
	if itemSize != primerPackItemSize {
		return nil, errPrimerItemSize
	}

	want := int64(8) + int64(count)*primerPackItemSize
	if int64(len(value)) != want {
		return nil, errFieldDecode("primer pack declares %d entries but value is %d bytes", count, len(value))
	}

	mapping := &primerMapping{entries: make([]primerEntry, 0, count)}
	seen := make(map[uint16]bool, count)

	offset := 8
	for i := uint32(0); i < count; i++ {
		tag := binary.BigEndian.Uint16(value[offset : offset+2])
		var ul UL
		copy(ul[:], value[offset+2:offset+18])

		if seen[tag] {
			return nil, errPrimerDuplicate
		}
		seen[tag] = true

		mapping.entries = append(mapping.entries, primerEntry{LocalTag: tag, UL: ul})
		offset += primerPackItemSize
	}

	return mapping, nil
}
