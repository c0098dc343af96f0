// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mxfkit/mxf/bytesource"
	"github.com/mxfkit/mxf/mxflog"
)

// Options configures a HeaderPartition construction. The zero value is
// usable: every field defaults the way the teacher's PE Options does in
// file.go, filled in by withDefaults before use.
type Options struct {
	// MaxStructuralSets bounds how many structural sets a single Header
	// Partition may contain, guarding against unbounded allocation from a
	// hostile or corrupt file. 0 means "use the default" (4096).
	MaxStructuralSets int

	// MaxFieldBytes bounds the value size of a whole KLV in the partition
	// at 16 × MaxFieldBytes; individual local-tag fields inside a set are
	// not checked against it. 0 means "use the default" (1 MiB).
	MaxFieldBytes int64

	// StrictPrimer, when true, turns a duplicate Primer Pack KLV into a
	// fatal MalformedPrimer diagnostic instead of a warning.
	StrictPrimer bool

	// Logger receives debug/info/warn/error lines as construction
	// proceeds. A nil Logger is replaced by a Helper writing to os.Stderr
	// at warn level.
	Logger *mxflog.Helper
}

func (o Options) withDefaults() Options {
	if o.MaxStructuralSets == 0 {
		o.MaxStructuralSets = 4096
	}
	if o.MaxFieldBytes == 0 {
		o.MaxFieldBytes = 1 << 20
	}
	if o.Logger == nil {
		o.Logger = mxflog.NewStdHelper(zerolog.WarnLevel)
	}
	return o
}

// HeaderPartition is the fully decoded, dependency-resolved contents of an
// MXF Header Partition, constrained to begin at absolute byte offset 0
// (SMPTE ST 2067-5 / IMF Essence Component, spec.md §1). It is the facade
// external callers query; the KLV/Primer/Set/Resolver components above are
// internal collaborators reached only through New.
type HeaderPartition struct {
	options Options
	diag    DiagnosticLog

	bos  map[MXFUid]bo          // every decoded structural set, by instance UID
	rich map[MXFUid]interface{} // every materialized rich object (or leaf BO), by instance UID

	byPackageUID map[MXFUid]GenericPackage // dual index: MaterialPackage/SourcePackage by their package UMID

	preface *Preface
}

// New constructs a HeaderPartition from src, which must be positioned at
// absolute offset 0. It is the package's sole public entry point.
func New(src bytesource.Source, opts Options) (*HeaderPartition, error) {
	opts = opts.withDefaults()
	hp := &HeaderPartition{
		options:      opts,
		bos:          make(map[MXFUid]bo),
		byPackageUID: make(map[MXFUid]GenericPackage),
	}

	if err := hp.construct(src); err != nil {
		return nil, err
	}
	return hp, nil
}

func (hp *HeaderPartition) construct(src bytesource.Source) error {
	mark := hp.diag.mark()
	opts := hp.options

	if src.CurrentOffset() != 0 {
		hp.diag.AddLogged(opts.Logger, UnexpectedOffset, SeverityFatal, src.CurrentOffset(),
			"Header Partition must begin at absolute offset 0, source is at %d", src.CurrentOffset())
		return hp.fail(mark)
	}

	kr := newKLVReader(src)

	ppHeader, err := kr.readHeader()
	if err != nil {
		hp.diag.AddLogged(opts.Logger, MalformedKLV, SeverityFatal, 0, "failed reading Partition Pack header: %v", err)
		return hp.fail(mark)
	}
	if !isPartitionPackKey(ppHeader.Key) {
		hp.diag.AddLogged(opts.Logger, InvalidPartitionPack, SeverityFatal, 0, "first KLV key %s is not a Partition Pack", ppHeader.Key)
		return hp.fail(mark)
	}
	if !ppHeader.Key.EqualIgnoringVersion(ULPartitionPackHeaderClosedComplete) {
		hp.diag.AddLogged(opts.Logger, InvalidPartitionPack, SeverityFatal, 0,
			"Partition Pack %s is not the closed/complete Header Partition variant ST 2067-5 requires", ppHeader.Key)
		return hp.fail(mark)
	}
	if _, err := kr.readExact(ppHeader.VSize); err != nil {
		hp.diag.AddLogged(opts.Logger, IoFailure, SeverityFatal, kr.offset(), "failed reading Partition Pack value: %v", err)
		return hp.fail(mark)
	}
	opts.Logger.Debugf("header partition pack at offset 0, value size %d", ppHeader.VSize)

	var primer *primerMapping
	sawFillBeforePrimer := false

	for {
		if kr.offset() >= src.Size() {
			break
		}

		hdr, err := kr.readHeader()
		if err != nil {
			hp.diag.AddLogged(opts.Logger, MalformedKLV, SeverityFatal, kr.offset(), "failed reading KLV header: %v", err)
			return hp.fail(mark)
		}

		if isPartitionPackKey(hdr.Key) {
			// The next partition (body or footer) begins here. This
			// module's scope ends at the Header Partition.
			break
		}

		if hdr.VSize > opts.MaxFieldBytes*16 {
			// A structural set's whole value, not one field; generous
			// multiple of MaxFieldBytes guards total allocation without
			// penalizing legitimately large batches.
			return fmt.Errorf("mxf: KLV value at offset %d is %d bytes, exceeding configured limits", kr.offset(), hdr.VSize)
		}

		value, err := kr.readExact(hdr.VSize)
		if err != nil {
			hp.diag.AddLogged(opts.Logger, IoFailure, SeverityFatal, kr.offset(), "failed reading KLV value: %v", err)
			return hp.fail(mark)
		}

		switch {
		case hdr.Key.EqualIgnoringVersion(ULFillItem):
			// spec.md §4.1: at most one Fill Item is permitted between the
			// Partition Pack and the Primer Pack; once the Primer has been
			// seen, Fill Items are ordinary padding with no count limit.
			if primer == nil {
				if sawFillBeforePrimer {
					hp.diag.AddLogged(opts.Logger, MissingPrimer, SeverityFatal, kr.offset(),
						"second Fill Item encountered before the Primer Pack")
					continue
				}
				sawFillBeforePrimer = true
			}
			continue

		case hdr.Key.EqualIgnoringVersion(ULPrimerPack):
			if primer != nil {
				sev := SeverityWarn
				if opts.StrictPrimer {
					sev = SeverityFatal
				}
				hp.diag.AddLogged(opts.Logger, MalformedPrimer, sev, kr.offset(), "duplicate Primer Pack, ignoring")
				if opts.StrictPrimer {
					return hp.fail(mark)
				}
				continue
			}
			p, err := decodePrimerPack(value)
			if err != nil {
				hp.diag.AddLogged(opts.Logger, MalformedPrimer, SeverityFatal, kr.offset(), "%v", err)
				return hp.fail(mark)
			}
			primer = p
			opts.Logger.Debugf("decoded primer pack with %d entries", len(p.entries))

		default:
			if primer == nil {
				hp.diag.AddLogged(opts.Logger, MissingPrimer, SeverityFatal, kr.offset(),
					"structural set %s encountered before a Primer Pack", hdr.Key)
				continue
			}
			if len(hp.bos) >= opts.MaxStructuralSets {
				return fmt.Errorf("mxf: header partition exceeds MaxStructuralSets (%d)", opts.MaxStructuralSets)
			}
			obj, err := decodeSet(hdr.Key, value, kr.offset(), primer, &hp.diag, opts.Logger)
			if err != nil {
				hp.diag.AddLogged(opts.Logger, FieldDecodeFailure, SeverityError, kr.offset(), "%v", err)
				continue
			}
			if obj != nil {
				hp.bos[obj.instanceUID()] = obj
			}
		}
	}

	rich, err := resolve(hp.bos, &hp.diag, opts.Logger)
	if err != nil {
		return err
	}
	hp.rich = rich
	hp.indexPackages()
	hp.findPreface()

	return hp.fail(mark)
}

// fail returns a *ParseError if any FATAL diagnostic has been recorded
// since mark, otherwise nil. This is the "fail-fast only on FATAL" rule
// from spec.md §7, implemented by diffing the log rather than aborting
// mid-construction on the first fatal entry.
func (hp *HeaderPartition) fail(mark int) error {
	if fatals := hp.diag.fatalSince(mark); len(fatals) > 0 {
		return &ParseError{Fatals: fatals}
	}
	return nil
}

func (hp *HeaderPartition) indexPackages() {
	for _, v := range hp.rich {
		if p, ok := v.(GenericPackage); ok {
			hp.byPackageUID[p.PackageUMID()] = p
		}
	}
}

func (hp *HeaderPartition) findPreface() {
	var found []*Preface
	for _, v := range hp.rich {
		if p, ok := v.(*Preface); ok {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		hp.diag.AddLogged(hp.options.Logger, NoPreface, SeverityFatal, 0, "header partition contains no Preface set")
	case 1:
		hp.preface = found[0]
	default:
		hp.diag.AddLogged(hp.options.Logger, MultiplePreface, SeverityFatal, 0, "header partition contains %d Preface sets, expected 1", len(found))
		hp.preface = found[0]
	}
}

// Diagnostics returns every diagnostic recorded while constructing hp,
// fatal or not.
func (hp *HeaderPartition) Diagnostics() []Diagnostic { return hp.diag.Entries() }

// Preface returns the partition's single Preface. New returns an error,
// and no HeaderPartition, when it does not find exactly one, so this is
// non-nil on any value New returns.
func (hp *HeaderPartition) Preface() *Preface { return hp.preface }

// ContentStorage returns the Preface's ContentStorage, or nil.
func (hp *HeaderPartition) ContentStorage() *ContentStorage {
	if hp.preface == nil {
		return nil
	}
	return hp.preface.ContentStorage
}

// MaterialPackages returns every MaterialPackage reachable from
// ContentStorage's package list.
func (hp *HeaderPartition) MaterialPackages() []*MaterialPackage {
	cs := hp.ContentStorage()
	if cs == nil {
		return nil
	}
	var out []*MaterialPackage
	for _, p := range cs.Packages {
		if mp, ok := p.(*MaterialPackage); ok {
			out = append(out, mp)
		}
	}
	return out
}

// SourcePackages returns every SourcePackage reachable from
// ContentStorage's package list.
func (hp *HeaderPartition) SourcePackages() []*SourcePackage {
	cs := hp.ContentStorage()
	if cs == nil {
		return nil
	}
	var out []*SourcePackage
	for _, p := range cs.Packages {
		if sp, ok := p.(*SourcePackage); ok {
			out = append(out, sp)
		}
	}
	return out
}

// EssenceContainerDataList returns ContentStorage's EssenceContainerData
// list.
func (hp *HeaderPartition) EssenceContainerDataList() []*EssenceContainerData {
	cs := hp.ContentStorage()
	if cs == nil {
		return nil
	}
	return cs.EssenceContainerData
}

// EssenceDescriptors returns the resolved EssenceDescriptor of every
// SourcePackage that has one.
func (hp *HeaderPartition) EssenceDescriptors() []EssenceDescriptor {
	var out []EssenceDescriptor
	for _, sp := range hp.SourcePackages() {
		if sp.Descriptor != nil {
			out = append(out, sp.Descriptor)
		}
	}
	return out
}

// WaveAudioEssenceDescriptors returns only the WaveAudioEssenceDescriptor
// subset of EssenceDescriptors.
func (hp *HeaderPartition) WaveAudioEssenceDescriptors() []*WaveAudioEssenceDescriptor {
	var out []*WaveAudioEssenceDescriptor
	for _, d := range hp.EssenceDescriptors() {
		if w, ok := d.(*WaveAudioEssenceDescriptor); ok {
			out = append(out, w)
		}
	}
	return out
}

// SubDescriptors returns d's sub-descriptors by flattening its BO's
// strong-reference batch through the BO map (spec.md §4.4/§9: descriptors do
// not eagerly carry a materialized sub-descriptor slice; this dereferences
// on demand instead).
func (hp *HeaderPartition) SubDescriptors(d EssenceDescriptor) []bo {
	raw, ok := hp.bos[d.descriptorInstanceUID()]
	if !ok {
		return nil
	}

	var refs []MXFUid
	switch b := raw.(type) {
	case *cdciPictureEssenceDescriptorBO:
		refs = b.SubDescriptorRefs
	case *rgbaPictureEssenceDescriptorBO:
		refs = b.SubDescriptorRefs
	case *waveAudioEssenceDescriptorBO:
		refs = b.SubDescriptorRefs
	default:
		return nil
	}

	out := make([]bo, 0, len(refs))
	for _, ref := range refs {
		if sub, ok := hp.bos[ref]; ok {
			out = append(out, sub)
		}
	}
	return out
}

// AllSubDescriptors returns the sub-descriptors of every EssenceDescriptor
// in the partition, flattened into one list (spec.md §4.4's no-argument
// `sub_descriptors()`, distinct from the per-descriptor `SubDescriptors`).
func (hp *HeaderPartition) AllSubDescriptors() []bo {
	var out []bo
	for _, d := range hp.EssenceDescriptors() {
		out = append(out, hp.SubDescriptors(d)...)
	}
	return out
}

// StructuralMetadata looks up any decoded set, rich or leaf, by its
// instance UID.
func (hp *HeaderPartition) StructuralMetadata(uid MXFUid) (interface{}, bool) {
	v, ok := hp.rich[uid]
	return v, ok
}

// TimelineTrackByUID looks up a TimelineTrack by instance UID.
func (hp *HeaderPartition) TimelineTrackByUID(uid MXFUid) (*TimelineTrack, bool) {
	v, ok := hp.rich[uid]
	if !ok {
		return nil, false
	}
	t, ok := v.(*TimelineTrack)
	return t, ok
}

// SequenceByUID looks up a Sequence by instance UID.
func (hp *HeaderPartition) SequenceByUID(uid MXFUid) (*Sequence, bool) {
	v, ok := hp.rich[uid]
	if !ok {
		return nil, false
	}
	s, ok := v.(*Sequence)
	return s, ok
}

// SourceClipByUID looks up a SourceClip by instance UID.
func (hp *HeaderPartition) SourceClipByUID(uid MXFUid) (*SourceClip, bool) {
	v, ok := hp.rich[uid]
	if !ok {
		return nil, false
	}
	c, ok := v.(*SourceClip)
	return c, ok
}

// MaterialPackageByUID looks up a MaterialPackage by instance UID.
func (hp *HeaderPartition) MaterialPackageByUID(uid MXFUid) (*MaterialPackage, bool) {
	v, ok := hp.rich[uid]
	if !ok {
		return nil, false
	}
	mp, ok := v.(*MaterialPackage)
	return mp, ok
}

// SourcePackageByUID looks up a SourcePackage by instance UID.
func (hp *HeaderPartition) SourcePackageByUID(uid MXFUid) (*SourcePackage, bool) {
	v, ok := hp.rich[uid]
	if !ok {
		return nil, false
	}
	sp, ok := v.(*SourcePackage)
	return sp, ok
}

// EssenceContainerDataByUID looks up an EssenceContainerData by instance UID.
func (hp *HeaderPartition) EssenceContainerDataByUID(uid MXFUid) (*EssenceContainerData, bool) {
	v, ok := hp.rich[uid]
	if !ok {
		return nil, false
	}
	ecd, ok := v.(*EssenceContainerData)
	return ecd, ok
}

// MaterialPackageByPackageUID looks up a MaterialPackage by its package UMID
// (the dual index spec.md calls for, distinct from instance-UID lookup).
func (hp *HeaderPartition) MaterialPackageByPackageUID(packageUID MXFUid) (*MaterialPackage, bool) {
	p, ok := hp.byPackageUID[packageUID]
	if !ok {
		return nil, false
	}
	mp, ok := p.(*MaterialPackage)
	return mp, ok
}

// SourcePackageByPackageUID looks up a SourcePackage by its package UMID.
func (hp *HeaderPartition) SourcePackageByPackageUID(packageUID MXFUid) (*SourcePackage, bool) {
	p, ok := hp.byPackageUID[packageUID]
	if !ok {
		return nil, false
	}
	sp, ok := p.(*SourcePackage)
	return sp, ok
}

// HasWaveAudioEssence reports whether any SourcePackage carries a
// WaveAudioEssenceDescriptor.
func (hp *HeaderPartition) HasWaveAudioEssence() bool {
	return len(hp.WaveAudioEssenceDescriptors()) > 0
}

// HasPictureEssence reports whether any SourcePackage carries a CDCI or
// RGBA picture essence descriptor.
func (hp *HeaderPartition) HasPictureEssence() bool {
	for _, d := range hp.EssenceDescriptors() {
		switch d.(type) {
		case *CDCIPictureEssenceDescriptor, *RGBAPictureEssenceDescriptor:
			return true
		}
	}
	return false
}

// EssenceDuration returns the longest total duration across every
// MaterialPackage TimelineTrack's Sequence, summing each component's
// duration along the way (spec.md's "max over timeline tracks of summed
// component durations").
func (hp *HeaderPartition) EssenceDuration() int64 {
	var max int64
	for _, mp := range hp.MaterialPackages() {
		for _, t := range mp.TrackList {
			if t.Sequence == nil {
				continue
			}
			var total int64
			for _, c := range t.Sequence.Components {
				total += c.ComponentDuration()
			}
			if total > max {
				max = total
			}
		}
	}
	return max
}
