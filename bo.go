// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import (
	"encoding/binary"

	"github.com/mxfkit/mxf/mxflog"
)

// classKind tags which concrete BO/rich-object variant a structural set
// decodes to. Per spec.md §9 this plays the role reflection-over-
// constructors plays in the original: a static table maps a registered UL
// to one of these, instead of discovering the class at runtime.
type classKind int

const (
	kindUnknown classKind = iota
	kindPreface
	kindIdentification
	kindContentStorage
	kindMaterialPackage
	kindSourcePackage
	kindEssenceContainerData
	kindTimelineTrack
	kindSequence
	kindSourceClip
	kindCDCIPictureEssenceDescriptor
	kindRGBAPictureEssenceDescriptor
	kindWaveAudioEssenceDescriptor
	kindAudioChannelLabelSubDescriptor
	kindSoundFieldGroupLabelSubDescriptor
	kindJPEG2000PictureSubDescriptor
	kindPHDRMetaDataTrackSubDescriptor
)

func (k classKind) String() string {
	names := [...]string{
		"Unknown", "Preface", "Identification", "ContentStorage",
		"MaterialPackage", "SourcePackage", "EssenceContainerData",
		"TimelineTrack", "Sequence", "SourceClip",
		"CDCIPictureEssenceDescriptor", "RGBAPictureEssenceDescriptor",
		"WaveAudioEssenceDescriptor", "AudioChannelLabelSubDescriptor",
		"SoundFieldGroupLabelSubDescriptor", "JPEG2000PictureSubDescriptor",
		"PHDRMetaDataTrackSubDescriptor",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// boCommon is embedded by every concrete BO struct: the instance UID every
// structural set carries (local tag 0x3C0A, extracted eagerly per spec.md
// §4.3) plus the unparsed-but-tolerated fields the decoder didn't recognize.
type boCommon struct {
	InstanceUID   MXFUid
	Kind          classKind
	UnknownFields map[UL][]byte
}

func (c *boCommon) instanceUID() MXFUid { return c.InstanceUID }
func (c *boCommon) kind() classKind     { return c.Kind }

// bo is the tagged-variant interface every concrete *XxxBO implements. Its
// only cross-cutting behavior is identity and dependency extraction; the
// concrete field layout is what the Set Decoder and Graph Resolver actually
// care about, reached through the class-specific decode/materialize
// functions and via type switches in resolver.go.
type bo interface {
	instanceUID() MXFUid
	kind() classKind
	// dependencyRefs returns every strong-reference UID this set carries,
	// single or batched, for the Graph Resolver's edge extraction
	// (spec.md §4.4, "Dependency extraction"). Order is irrelevant here —
	// materialization re-derives the declared order from the concrete
	// fields below, not from this flattened list.
	dependencyRefs() []MXFUid
}

// --- concrete BO variants -------------------------------------------------

type prefaceBO struct {
	boCommon
	PrimaryPackageRef  MXFUid
	ContentStorageRef  MXFUid
	IdentificationRefs []MXFUid // supplement, SPEC_FULL.md §3.2
}

func (b *prefaceBO) dependencyRefs() []MXFUid {
	refs := append([]MXFUid{b.PrimaryPackageRef, b.ContentStorageRef}, b.IdentificationRefs...)
	return refs
}

type identificationBO struct {
	boCommon
	CompanyName     string
	ProductName     string
	ProductVersion  string
	GenerationUID   UL
}

func (b *identificationBO) dependencyRefs() []MXFUid { return nil }

type contentStorageBO struct {
	boCommon
	PackageRefs             []MXFUid
	EssenceContainerDataRefs []MXFUid
}

func (b *contentStorageBO) dependencyRefs() []MXFUid {
	return append(append([]MXFUid{}, b.PackageRefs...), b.EssenceContainerDataRefs...)
}

type materialPackageBO struct {
	boCommon
	PackageUID MXFUid
	TrackRefs  []MXFUid
}

func (b *materialPackageBO) dependencyRefs() []MXFUid { return b.TrackRefs }

type sourcePackageBO struct {
	boCommon
	PackageUID   MXFUid
	TrackRefs    []MXFUid
	DescriptorRef MXFUid
}

func (b *sourcePackageBO) dependencyRefs() []MXFUid {
	if b.DescriptorRef.IsZero() {
		return b.TrackRefs
	}
	return append(append([]MXFUid{}, b.TrackRefs...), b.DescriptorRef)
}

type essenceContainerDataBO struct {
	boCommon
	PackageRef MXFUid
	IndexSID   uint32
	BodySID    uint32
}

func (b *essenceContainerDataBO) dependencyRefs() []MXFUid { return []MXFUid{b.PackageRef} }

type timelineTrackBO struct {
	boCommon
	SequenceRef MXFUid
	TrackID     uint32
	TrackNumber uint32
	EditRate    Rational
	Origin      int64
}

func (b *timelineTrackBO) dependencyRefs() []MXFUid { return []MXFUid{b.SequenceRef} }

type sequenceBO struct {
	boCommon
	DataDefinition UL
	Duration       int64
	ComponentRefs  []MXFUid
}

func (b *sequenceBO) dependencyRefs() []MXFUid { return b.ComponentRefs }

type sourceClipBO struct {
	boCommon
	DataDefinition   UL
	Duration         int64
	StartPosition    int64
	SourcePackageRef MXFUid
	SourceTrackID    uint32
}

func (b *sourceClipBO) dependencyRefs() []MXFUid {
	if b.SourcePackageRef.IsZero() {
		return nil
	}
	return []MXFUid{b.SourcePackageRef}
}

type cdciPictureEssenceDescriptorBO struct {
	boCommon
	SampleRate          Rational
	StoredWidth         uint32
	StoredHeight        uint32
	HorizontalSubsampling uint32
	VerticalSubsampling   uint32
	ComponentDepth        uint32
	SubDescriptorRefs     []MXFUid
}

func (b *cdciPictureEssenceDescriptorBO) dependencyRefs() []MXFUid { return b.SubDescriptorRefs }

type rgbaPictureEssenceDescriptorBO struct {
	boCommon
	SampleRate        Rational
	StoredWidth       uint32
	StoredHeight      uint32
	ComponentMaxRef   uint32
	ComponentMinRef   uint32
	SubDescriptorRefs []MXFUid
}

func (b *rgbaPictureEssenceDescriptorBO) dependencyRefs() []MXFUid { return b.SubDescriptorRefs }

type waveAudioEssenceDescriptorBO struct {
	boCommon
	AudioSamplingRate Rational
	ChannelCount      uint32
	QuantizationBits  uint32
	BlockAlign        uint16
	AvgBps            uint32
	SubDescriptorRefs []MXFUid
}

func (b *waveAudioEssenceDescriptorBO) dependencyRefs() []MXFUid { return b.SubDescriptorRefs }

type audioChannelLabelSubDescriptorBO struct {
	boCommon
	MCATagSymbol string
	MCAChannelID uint32
}

func (b *audioChannelLabelSubDescriptorBO) dependencyRefs() []MXFUid { return nil }

type soundFieldGroupLabelSubDescriptorBO struct {
	boCommon
	MCATagSymbol string
}

func (b *soundFieldGroupLabelSubDescriptorBO) dependencyRefs() []MXFUid { return nil }

type jpeg2000PictureSubDescriptorBO struct {
	boCommon
	Rsiz uint16
}

func (b *jpeg2000PictureSubDescriptorBO) dependencyRefs() []MXFUid { return nil }

type phdrMetaDataTrackSubDescriptorBO struct {
	boCommon
	SourceTrackID uint32
}

func (b *phdrMetaDataTrackSubDescriptorBO) dependencyRefs() []MXFUid { return nil }

// --- static schema table ---------------------------------------------------

// fieldSetter decodes one field's raw value bytes and stores it on bo.
type fieldSetter func(bo bo, raw []byte) error

// setClass is one row of the Set Decoder's static dispatch table: a
// registered UL, the classKind it produces, a constructor for a fresh BO,
// and its declared local fields (by UL, already looked up through the
// Primer by the time dispatch runs). Grounded on the teacher's
// `funcMaps map[ImageDirectoryEntry]func(...)` in pe.go, generalized from
// an array index to a UL key.
type setClass struct {
	kind   classKind
	newBO  func() bo
	fields map[UL]fieldSetter
}

// classUL builds an illustrative SMPTE-registry-shaped metadata-set UL from
// a single class-discriminator byte. Real SMPTE ST 336 values are a public
// registry this module does not have bit-exact access to; internal
// consistency (every set/field UL distinct, looked up the same way a real
// registry would be) is what the core's invariants depend on.
func classUL(classByte byte) UL {
	return UL{0x06, 0x0e, 0x2b, 0x34, 0x02, 0x53, 0x01, 0x01, 0x0d, 0x01, 0x01, 0x01, 0x01, classByte, 0x00, 0x00}
}

// fieldUL builds an illustrative field-level UL, distinguished from the set
// ULs above by a different byte-5 dictionary prefix (data-element rather
// than metadata-set, mirroring the real registry's own split).
func fieldUL(classByte, fieldByte byte) UL {
	return UL{0x06, 0x0e, 0x2b, 0x34, 0x01, 0x01, 0x01, 0x01, 0x04, 0x01, classByte, fieldByte, 0x00, 0x00, 0x00, 0x00}
}

var (
	ulPreface                 = classUL(0x01)
	ulIdentification          = classUL(0x02)
	ulContentStorage          = classUL(0x03)
	ulMaterialPackage         = classUL(0x04)
	ulSourcePackage           = classUL(0x05)
	ulEssenceContainerData    = classUL(0x06)
	ulTimelineTrack           = classUL(0x07)
	ulSequence                = classUL(0x08)
	ulSourceClip              = classUL(0x09)
	ulCDCIDescriptor          = classUL(0x0a)
	ulRGBADescriptor          = classUL(0x0b)
	ulWaveAudioDescriptor     = classUL(0x0c)
	ulAudioChannelLabelSub    = classUL(0x0d)
	ulSoundFieldGroupLabelSub = classUL(0x0e)
	ulJPEG2000PictureSub      = classUL(0x0f)
	ulPHDRMetaDataTrackSub    = classUL(0x10)
)

// setClassTable is the Set Decoder's static dispatch table, keyed by
// ulKey(set UL) (registry version masked). Built once at package init.
var setClassTable = buildSetClassTable()

func buildSetClassTable() map[UL]*setClass {
	t := make(map[UL]*setClass)

	t[ulKey(ulPreface)] = &setClass{
		kind:  kindPreface,
		newBO: func() bo { return &prefaceBO{boCommon: boCommon{Kind: kindPreface}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x01, 0x01): setStrongRef(func(b bo, v MXFUid) { b.(*prefaceBO).PrimaryPackageRef = v }),
			fieldUL(0x01, 0x02): setStrongRef(func(b bo, v MXFUid) { b.(*prefaceBO).ContentStorageRef = v }),
			fieldUL(0x01, 0x03): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*prefaceBO).IdentificationRefs = v }),
		},
	}

	t[ulKey(ulIdentification)] = &setClass{
		kind:  kindIdentification,
		newBO: func() bo { return &identificationBO{boCommon: boCommon{Kind: kindIdentification}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x02, 0x01): setString(func(b bo, v string) { b.(*identificationBO).CompanyName = v }),
			fieldUL(0x02, 0x02): setString(func(b bo, v string) { b.(*identificationBO).ProductName = v }),
			fieldUL(0x02, 0x03): setString(func(b bo, v string) { b.(*identificationBO).ProductVersion = v }),
			fieldUL(0x02, 0x04): setULField(func(b bo, v UL) { b.(*identificationBO).GenerationUID = v }),
		},
	}

	t[ulKey(ulContentStorage)] = &setClass{
		kind:  kindContentStorage,
		newBO: func() bo { return &contentStorageBO{boCommon: boCommon{Kind: kindContentStorage}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x03, 0x01): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*contentStorageBO).PackageRefs = v }),
			fieldUL(0x03, 0x02): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*contentStorageBO).EssenceContainerDataRefs = v }),
		},
	}

	t[ulKey(ulMaterialPackage)] = &setClass{
		kind:  kindMaterialPackage,
		newBO: func() bo { return &materialPackageBO{boCommon: boCommon{Kind: kindMaterialPackage}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x04, 0x01): setUMID(func(b bo, v MXFUid) { b.(*materialPackageBO).PackageUID = v }),
			fieldUL(0x04, 0x02): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*materialPackageBO).TrackRefs = v }),
		},
	}

	t[ulKey(ulSourcePackage)] = &setClass{
		kind:  kindSourcePackage,
		newBO: func() bo { return &sourcePackageBO{boCommon: boCommon{Kind: kindSourcePackage}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x05, 0x01): setUMID(func(b bo, v MXFUid) { b.(*sourcePackageBO).PackageUID = v }),
			fieldUL(0x05, 0x02): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*sourcePackageBO).TrackRefs = v }),
			fieldUL(0x05, 0x03): setStrongRef(func(b bo, v MXFUid) { b.(*sourcePackageBO).DescriptorRef = v }),
		},
	}

	t[ulKey(ulEssenceContainerData)] = &setClass{
		kind:  kindEssenceContainerData,
		newBO: func() bo { return &essenceContainerDataBO{boCommon: boCommon{Kind: kindEssenceContainerData}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x06, 0x01): setStrongRef(func(b bo, v MXFUid) { b.(*essenceContainerDataBO).PackageRef = v }),
			fieldUL(0x06, 0x02): setU32(func(b bo, v uint32) { b.(*essenceContainerDataBO).IndexSID = v }),
			fieldUL(0x06, 0x03): setU32(func(b bo, v uint32) { b.(*essenceContainerDataBO).BodySID = v }),
		},
	}

	t[ulKey(ulTimelineTrack)] = &setClass{
		kind:  kindTimelineTrack,
		newBO: func() bo { return &timelineTrackBO{boCommon: boCommon{Kind: kindTimelineTrack}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x07, 0x01): setU32(func(b bo, v uint32) { b.(*timelineTrackBO).TrackID = v }),
			fieldUL(0x07, 0x02): setU32(func(b bo, v uint32) { b.(*timelineTrackBO).TrackNumber = v }),
			fieldUL(0x07, 0x03): setStrongRef(func(b bo, v MXFUid) { b.(*timelineTrackBO).SequenceRef = v }),
			fieldUL(0x07, 0x04): setRational(func(b bo, v Rational) { b.(*timelineTrackBO).EditRate = v }),
			fieldUL(0x07, 0x05): setI64(func(b bo, v int64) { b.(*timelineTrackBO).Origin = v }),
		},
	}

	t[ulKey(ulSequence)] = &setClass{
		kind:  kindSequence,
		newBO: func() bo { return &sequenceBO{boCommon: boCommon{Kind: kindSequence}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x08, 0x01): setULField(func(b bo, v UL) { b.(*sequenceBO).DataDefinition = v }),
			fieldUL(0x08, 0x02): setI64(func(b bo, v int64) { b.(*sequenceBO).Duration = v }),
			fieldUL(0x08, 0x03): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*sequenceBO).ComponentRefs = v }),
		},
	}

	t[ulKey(ulSourceClip)] = &setClass{
		kind:  kindSourceClip,
		newBO: func() bo { return &sourceClipBO{boCommon: boCommon{Kind: kindSourceClip}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x09, 0x01): setULField(func(b bo, v UL) { b.(*sourceClipBO).DataDefinition = v }),
			fieldUL(0x09, 0x02): setI64(func(b bo, v int64) { b.(*sourceClipBO).Duration = v }),
			fieldUL(0x09, 0x03): setI64(func(b bo, v int64) { b.(*sourceClipBO).StartPosition = v }),
			fieldUL(0x09, 0x04): setStrongRef(func(b bo, v MXFUid) { b.(*sourceClipBO).SourcePackageRef = v }),
			fieldUL(0x09, 0x05): setU32(func(b bo, v uint32) { b.(*sourceClipBO).SourceTrackID = v }),
		},
	}

	t[ulKey(ulCDCIDescriptor)] = &setClass{
		kind:  kindCDCIPictureEssenceDescriptor,
		newBO: func() bo { return &cdciPictureEssenceDescriptorBO{boCommon: boCommon{Kind: kindCDCIPictureEssenceDescriptor}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x0a, 0x01): setRational(func(b bo, v Rational) { b.(*cdciPictureEssenceDescriptorBO).SampleRate = v }),
			fieldUL(0x0a, 0x02): setU32(func(b bo, v uint32) { b.(*cdciPictureEssenceDescriptorBO).StoredWidth = v }),
			fieldUL(0x0a, 0x03): setU32(func(b bo, v uint32) { b.(*cdciPictureEssenceDescriptorBO).StoredHeight = v }),
			fieldUL(0x0a, 0x04): setU32(func(b bo, v uint32) { b.(*cdciPictureEssenceDescriptorBO).HorizontalSubsampling = v }),
			fieldUL(0x0a, 0x05): setU32(func(b bo, v uint32) { b.(*cdciPictureEssenceDescriptorBO).VerticalSubsampling = v }),
			fieldUL(0x0a, 0x06): setU32(func(b bo, v uint32) { b.(*cdciPictureEssenceDescriptorBO).ComponentDepth = v }),
			fieldUL(0x0a, 0x07): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*cdciPictureEssenceDescriptorBO).SubDescriptorRefs = v }),
		},
	}

	t[ulKey(ulRGBADescriptor)] = &setClass{
		kind:  kindRGBAPictureEssenceDescriptor,
		newBO: func() bo { return &rgbaPictureEssenceDescriptorBO{boCommon: boCommon{Kind: kindRGBAPictureEssenceDescriptor}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x0b, 0x01): setRational(func(b bo, v Rational) { b.(*rgbaPictureEssenceDescriptorBO).SampleRate = v }),
			fieldUL(0x0b, 0x02): setU32(func(b bo, v uint32) { b.(*rgbaPictureEssenceDescriptorBO).StoredWidth = v }),
			fieldUL(0x0b, 0x03): setU32(func(b bo, v uint32) { b.(*rgbaPictureEssenceDescriptorBO).StoredHeight = v }),
			fieldUL(0x0b, 0x04): setU32(func(b bo, v uint32) { b.(*rgbaPictureEssenceDescriptorBO).ComponentMaxRef = v }),
			fieldUL(0x0b, 0x05): setU32(func(b bo, v uint32) { b.(*rgbaPictureEssenceDescriptorBO).ComponentMinRef = v }),
			fieldUL(0x0b, 0x06): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*rgbaPictureEssenceDescriptorBO).SubDescriptorRefs = v }),
		},
	}

	t[ulKey(ulWaveAudioDescriptor)] = &setClass{
		kind:  kindWaveAudioEssenceDescriptor,
		newBO: func() bo { return &waveAudioEssenceDescriptorBO{boCommon: boCommon{Kind: kindWaveAudioEssenceDescriptor}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x0c, 0x01): setRational(func(b bo, v Rational) { b.(*waveAudioEssenceDescriptorBO).AudioSamplingRate = v }),
			fieldUL(0x0c, 0x02): setU32(func(b bo, v uint32) { b.(*waveAudioEssenceDescriptorBO).ChannelCount = v }),
			fieldUL(0x0c, 0x03): setU32(func(b bo, v uint32) { b.(*waveAudioEssenceDescriptorBO).QuantizationBits = v }),
			fieldUL(0x0c, 0x04): setU16(func(b bo, v uint16) { b.(*waveAudioEssenceDescriptorBO).BlockAlign = v }),
			fieldUL(0x0c, 0x05): setU32(func(b bo, v uint32) { b.(*waveAudioEssenceDescriptorBO).AvgBps = v }),
			fieldUL(0x0c, 0x06): setStrongRefBatch(func(b bo, v []MXFUid) { b.(*waveAudioEssenceDescriptorBO).SubDescriptorRefs = v }),
		},
	}

	t[ulKey(ulAudioChannelLabelSub)] = &setClass{
		kind:  kindAudioChannelLabelSubDescriptor,
		newBO: func() bo { return &audioChannelLabelSubDescriptorBO{boCommon: boCommon{Kind: kindAudioChannelLabelSubDescriptor}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x0d, 0x01): setString(func(b bo, v string) { b.(*audioChannelLabelSubDescriptorBO).MCATagSymbol = v }),
			fieldUL(0x0d, 0x02): setU32(func(b bo, v uint32) { b.(*audioChannelLabelSubDescriptorBO).MCAChannelID = v }),
		},
	}

	t[ulKey(ulSoundFieldGroupLabelSub)] = &setClass{
		kind:  kindSoundFieldGroupLabelSubDescriptor,
		newBO: func() bo {
			return &soundFieldGroupLabelSubDescriptorBO{boCommon: boCommon{Kind: kindSoundFieldGroupLabelSubDescriptor}}
		},
		fields: map[UL]fieldSetter{
			fieldUL(0x0e, 0x01): setString(func(b bo, v string) { b.(*soundFieldGroupLabelSubDescriptorBO).MCATagSymbol = v }),
		},
	}

	t[ulKey(ulJPEG2000PictureSub)] = &setClass{
		kind:  kindJPEG2000PictureSubDescriptor,
		newBO: func() bo { return &jpeg2000PictureSubDescriptorBO{boCommon: boCommon{Kind: kindJPEG2000PictureSubDescriptor}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x0f, 0x01): setU16(func(b bo, v uint16) { b.(*jpeg2000PictureSubDescriptorBO).Rsiz = v }),
		},
	}

	t[ulKey(ulPHDRMetaDataTrackSub)] = &setClass{
		kind:  kindPHDRMetaDataTrackSubDescriptor,
		newBO: func() bo { return &phdrMetaDataTrackSubDescriptorBO{boCommon: boCommon{Kind: kindPHDRMetaDataTrackSubDescriptor}} },
		fields: map[UL]fieldSetter{
			fieldUL(0x10, 0x01): setU32(func(b bo, v uint32) { b.(*phdrMetaDataTrackSubDescriptorBO).SourceTrackID = v }),
		},
	}

	for _, class := range t {
		masked := make(map[UL]fieldSetter, len(class.fields))
		for ul, setter := range class.fields {
			masked[ulKey(ul)] = setter
		}
		class.fields = masked
	}

	return t
}

// --- fieldSetter adapters ---------------------------------------------------
// Each adapter decodes raw bytes with the matching field-parser catalogue
// function from fields.go and invokes a small typed assignment closure.
// This is the static-table replacement for the reflection-based field
// assignment spec.md §9 describes in the original.

func setU16(assign func(bo, uint16)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeU16(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setU32(assign func(bo, uint32)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeU32(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setI64(assign func(bo, int64)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeI64(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setRational(assign func(bo, Rational)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeRational(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setString(assign func(bo, string)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeUTF16BEString(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setUMID(assign func(bo, MXFUid)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeUMID(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setULField(assign func(bo, UL)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeUL(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setStrongRef(assign func(bo, MXFUid)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeStrongRef(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

func setStrongRefBatch(assign func(bo, []MXFUid)) fieldSetter {
	return func(b bo, raw []byte) error {
		v, err := decodeStrongRefBatch(raw)
		if err != nil {
			return err
		}
		assign(b, v)
		return nil
	}
}

// --- triple walking ----------------------------------------------------

// localTriple is one decoded (local_tag, length, value) field inside a
// structural set's KLV value, per spec.md §4.3.
type localTriple struct {
	Tag   uint16
	Value []byte
}

// splitLocalTriples walks a structural set's value bytes into
// (local_tag:u16-BE, length:u16-BE, value) triples until exhausted.
func splitLocalTriples(value []byte) ([]localTriple, error) {
	var triples []localTriple
	offset := 0
	for offset < len(value) {
		if offset+4 > len(value) {
			return nil, errFieldDecode("truncated local-tag/length header at byte %d", offset)
		}
		tag := binary.BigEndian.Uint16(value[offset : offset+2])
		length := int(binary.BigEndian.Uint16(value[offset+2 : offset+4]))
		offset += 4
		if offset+length > len(value) {
			return nil, errFieldDecode("local tag 0x%04x declares length %d past end of set value", tag, length)
		}
		triples = append(triples, localTriple{Tag: tag, Value: value[offset : offset+length]})
		offset += length
	}
	return triples, nil
}

// decodeSet is the Set Decoder's per-KLV entry point (spec.md §4.3): given
// one metadata-set KLV's key and value, the Primer in force for the
// partition, and the DiagnosticLog to accumulate into, it returns the
// decoded BO, or (nil, nil) if the key does not match any registered class
// (an UnknownStructuralSet diagnostic is recorded, non-fatal, and the whole
// value is treated as skipped). logger mirrors every accumulated diagnostic
// to the configured Helper, the same dual-write the teacher's
// ParseDataDirectories closures do with pe.logger.Warnf/pe.Anomalies; it may
// be nil.
func decodeSet(key UL, value []byte, offset int64, primer *primerMapping, diag *DiagnosticLog, logger *mxflog.Helper) (bo, error) {
	class, ok := setClassTable[ulKey(key)]
	if !ok {
		diag.AddLogged(logger, UnknownStructuralSet, SeverityWarn, offset, "unrecognized structural set key %s, skipping", key)
		return nil, nil
	}

	triples, err := splitLocalTriples(value)
	if err != nil {
		diag.AddLogged(logger, MalformedKLV, SeverityError, offset, "%s set malformed: %v", class.kind, err)
		return nil, nil
	}

	obj := class.newBO()
	haveInstanceUID := false

	for _, t := range triples {
		if t.Tag == instanceUIDLocalTag {
			uid, err := decodeStrongRef(t.Value)
			if err != nil {
				diag.AddLogged(logger, FieldDecodeFailure, SeverityFatal, offset, "%s instance UID malformed: %v", class.kind, err)
				return nil, nil
			}
			common := boCommonOf(obj)
			common.InstanceUID = uid
			haveInstanceUID = true
			continue
		}

		ul, ok := primer.resolve(t.Tag)
		if !ok {
			diag.AddLogged(logger, UnknownLocalTag, SeverityWarn, offset, "%s: local tag 0x%04x not declared by primer", class.kind, t.Tag)
			continue
		}

		setter, ok := class.fields[ulKey(ul)]
		if !ok {
			common := boCommonOf(obj)
			if common.UnknownFields == nil {
				common.UnknownFields = make(map[UL][]byte)
			}
			common.UnknownFields[ul] = append([]byte(nil), t.Value...)
			continue
		}

		if err := setter(obj, t.Value); err != nil {
			diag.AddLogged(logger, FieldDecodeFailure, SeverityError, offset, "%s field %s: %v", class.kind, ul, err)
		}
	}

	if !haveInstanceUID {
		diag.AddLogged(logger, FieldDecodeFailure, SeverityFatal, offset, "%s: missing required instance UID (local tag 0x3C0A)", class.kind)
		return nil, nil
	}

	return obj, nil
}

// boCommonOf extracts the embedded *boCommon from any concrete BO variant.
// Every setClass.newBO constructor returns one of the structs above, all of
// which embed boCommon as their first field, so this type switch is
// exhaustive over the static schema table.
func boCommonOf(b bo) *boCommon {
	switch v := b.(type) {
	case *prefaceBO:
		return &v.boCommon
	case *identificationBO:
		return &v.boCommon
	case *contentStorageBO:
		return &v.boCommon
	case *materialPackageBO:
		return &v.boCommon
	case *sourcePackageBO:
		return &v.boCommon
	case *essenceContainerDataBO:
		return &v.boCommon
	case *timelineTrackBO:
		return &v.boCommon
	case *sequenceBO:
		return &v.boCommon
	case *sourceClipBO:
		return &v.boCommon
	case *cdciPictureEssenceDescriptorBO:
		return &v.boCommon
	case *rgbaPictureEssenceDescriptorBO:
		return &v.boCommon
	case *waveAudioEssenceDescriptorBO:
		return &v.boCommon
	case *audioChannelLabelSubDescriptorBO:
		return &v.boCommon
	case *soundFieldGroupLabelSubDescriptorBO:
		return &v.boCommon
	case *jpeg2000PictureSubDescriptorBO:
		return &v.boCommon
	case *phdrMetaDataTrackSubDescriptorBO:
		return &v.boCommon
	default:
		panic("mxf: unhandled bo variant in boCommonOf")
	}
}
