// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

// This file holds the rich-object graph: the materialized, dependency-
// resolved counterparts of the BO variants in bo.go. Where a BO carries
// strong references as raw MXFUid values, its rich object carries the
// actual dependent, already looked up and, for ordered collections,
// already ordered the way the BO declared (spec.md §4.4).

// Preface is the root of the metadata object graph: exactly one per Header
// Partition (spec.md §3, MultiplePreface/NoPreface invariants).
type Preface struct {
	InstanceUID     MXFUid
	PrimaryPackage  GenericPackage
	ContentStorage  *ContentStorage
	Identifications []*Identification // supplement, SPEC_FULL.md §3.2
}

// Identification is a supplemented leaf set recording which application
// generated or last modified the file (SPEC_FULL.md §3.2). It carries no
// dependents of its own.
type Identification struct {
	InstanceUID    MXFUid
	CompanyName    string
	ProductName    string
	ProductVersion string
	GenerationUID  UL
}

// ContentStorage indexes every Package and EssenceContainerData in the
// partition.
type ContentStorage struct {
	InstanceUID          MXFUid
	Packages             []GenericPackage
	EssenceContainerData []*EssenceContainerData
}

// GenericPackage is implemented by MaterialPackage and SourcePackage: the
// two package kinds ContentStorage and Preface hold polymorphically.
type GenericPackage interface {
	PackageInstanceUID() MXFUid
	PackageUMID() MXFUid
	Tracks() []*TimelineTrack
}

// MaterialPackage is the user-facing, timeline-space package: its
// TimelineTracks' SourceClips point into one or more SourcePackages.
type MaterialPackage struct {
	InstanceUID MXFUid
	PackageUID  MXFUid
	TrackList   []*TimelineTrack
}

func (p *MaterialPackage) PackageInstanceUID() MXFUid { return p.InstanceUID }
func (p *MaterialPackage) PackageUMID() MXFUid        { return p.PackageUID }
func (p *MaterialPackage) Tracks() []*TimelineTrack   { return p.TrackList }

// SourcePackage is a package describing the essence itself: its
// EssenceDescriptor carries the CDCI/RGBA/WaveAudio shape of the data its
// EssenceContainerData names.
type SourcePackage struct {
	InstanceUID MXFUid
	PackageUID  MXFUid
	TrackList   []*TimelineTrack
	Descriptor  EssenceDescriptor // nil if the reference is absent or unresolved
}

func (p *SourcePackage) PackageInstanceUID() MXFUid { return p.InstanceUID }
func (p *SourcePackage) PackageUMID() MXFUid        { return p.PackageUID }
func (p *SourcePackage) Tracks() []*TimelineTrack   { return p.TrackList }

// EssenceContainerData links a SourcePackage to the BodySID/IndexSID of the
// essence container carrying its samples (outside the Header Partition
// itself — spec.md's scope ends at cataloguing this link).
type EssenceContainerData struct {
	InstanceUID MXFUid
	Package     GenericPackage
	IndexSID    uint32
	BodySID     uint32
}

// TimelineTrack is a GenericTrack variant carrying a Sequence of timed
// components. spec.md §9 calls out caching this Sequence dependent once per
// BO during resolution rather than re-deriving it on every loop iteration;
// the field below is exactly that cache.
type TimelineTrack struct {
	InstanceUID MXFUid
	TrackID     uint32
	TrackNumber uint32
	EditRate    Rational
	Origin      int64
	Sequence    *Sequence
}

// Sequence is an ordered list of StructuralComponents (spec.md: "dependents
// in the BO's declared order", not map iteration order).
type Sequence struct {
	InstanceUID    MXFUid
	DataDefinition UL
	Duration       int64
	Components     []StructuralComponent
}

// StructuralComponent is implemented by SourceClip (the only structural
// component variant this module models; spec.md's Non-goals exclude the
// other ST 377-1 component kinds).
type StructuralComponent interface {
	ComponentDuration() int64
}

// SourceClip names a span of another package's essence.
type SourceClip struct {
	InstanceUID    MXFUid
	DataDefinition UL
	Duration       int64
	StartPosition  int64
	SourcePackage  GenericPackage // nil if the reference could not be resolved (optional per spec.md §4.4)
	SourceTrackID  uint32
}

func (c *SourceClip) ComponentDuration() int64 { return c.Duration }

// EssenceDescriptor is implemented by the three concrete descriptor rich
// objects below, purely to give materialized descriptors a common shape for
// facade callers. HeaderPartition.EssenceDescriptors returns these rich
// objects from each SourcePackage; HeaderPartition.SubDescriptors works over
// the BO map instead of the rich-object graph.
type EssenceDescriptor interface {
	descriptorInstanceUID() MXFUid
}

// CDCIPictureEssenceDescriptor describes component-coded picture essence.
// Per spec.md §9 Open Question, its sub-descriptors are not eagerly
// materialized here; callers reach them through
// HeaderPartition.SubDescriptors, which dereferences the underlying BO's
// sub-descriptor batch directly.
type CDCIPictureEssenceDescriptor struct {
	InstanceUID           MXFUid
	SampleRate            Rational
	StoredWidth           uint32
	StoredHeight          uint32
	HorizontalSubsampling uint32
	VerticalSubsampling   uint32
	ComponentDepth        uint32
}

func (d *CDCIPictureEssenceDescriptor) descriptorInstanceUID() MXFUid { return d.InstanceUID }

// RGBAPictureEssenceDescriptor describes RGBA-coded picture essence.
type RGBAPictureEssenceDescriptor struct {
	InstanceUID     MXFUid
	SampleRate      Rational
	StoredWidth     uint32
	StoredHeight    uint32
	ComponentMaxRef uint32
	ComponentMinRef uint32
}

func (d *RGBAPictureEssenceDescriptor) descriptorInstanceUID() MXFUid { return d.InstanceUID }

// WaveAudioEssenceDescriptor describes PCM audio essence.
type WaveAudioEssenceDescriptor struct {
	InstanceUID       MXFUid
	AudioSamplingRate Rational
	ChannelCount      uint32
	QuantizationBits  uint32
	BlockAlign        uint16
	AvgBps            uint32
}

func (d *WaveAudioEssenceDescriptor) descriptorInstanceUID() MXFUid { return d.InstanceUID }
