// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import "github.com/mxfkit/mxf/mxflog"

// This file is the Graph Resolver & Object Builder (spec.md §4.4): it takes
// every BO decoded from the partition, extracts a dependency DAG from their
// strong references, topologically sorts it, and walks the sort rebuilding
// the rich-object graph bottom-up so each materialization step can assume
// its own dependents already exist.

// dfsColor is the 3-color marking used by the topological sort: white
// (unvisited), gray (on the current DFS stack, used to detect a back edge),
// black (finished).
type dfsColor int

const (
	colorWhite dfsColor = iota
	colorGray
	colorBlack
)

// resolver holds the working state for one Header Partition's graph pass.
type resolver struct {
	bos    map[MXFUid]bo
	diag   *DiagnosticLog
	logger *mxflog.Helper
	color  map[MXFUid]dfsColor
	order  []MXFUid
	rich   map[MXFUid]interface{}
}

// resolve extracts edges, topologically sorts, and materializes every BO in
// bos into its rich-object counterpart. The returned map is keyed by
// instance UID and holds whatever concrete rich-object type (or, for leaf
// sub-descriptor kinds, the BO itself) that UID's class produces. logger
// mirrors every accumulated diagnostic the same way decodeSet's does; it may
// be nil.
func resolve(bos map[MXFUid]bo, diag *DiagnosticLog, logger *mxflog.Helper) (map[MXFUid]interface{}, error) {
	r := &resolver{
		bos:    bos,
		diag:   diag,
		logger: logger,
		color:  make(map[MXFUid]dfsColor, len(bos)),
		rich:   make(map[MXFUid]interface{}, len(bos)),
	}

	for uid := range bos {
		if r.color[uid] == colorWhite {
			if err := r.visit(uid); err != nil {
				return nil, err
			}
		}
	}

	for _, uid := range r.order {
		r.materialize(uid, bos[uid])
	}

	return r.rich, nil
}

// visit runs the DFS from uid, appending uid to r.order only after every
// dependent it reaches has itself been appended (post-order, giving a
// dependency-first topological order). Edges to UIDs with no BO in this
// partition are silently dropped, per spec.md's "body-partition references
// are out of scope" note.
func (r *resolver) visit(uid MXFUid) error {
	r.color[uid] = colorGray
	obj := r.bos[uid]

	for _, dep := range obj.dependencyRefs() {
		if dep.IsZero() {
			continue
		}
		if _, ok := r.bos[dep]; !ok {
			continue
		}
		switch r.color[dep] {
		case colorWhite:
			if err := r.visit(dep); err != nil {
				return err
			}
		case colorGray:
			r.diag.AddLogged(r.logger, CyclicGraph, SeverityFatal, 0,
				"cycle detected in strong-reference graph: %s -> %s", uid, dep)
			return &ParseError{Fatals: []Diagnostic{{
				Kind: CyclicGraph, Severity: SeverityFatal,
				Message: "cycle detected in strong-reference graph",
			}}}
		case colorBlack:
			// already finished, nothing to do
		}
	}

	r.color[uid] = colorBlack
	r.order = append(r.order, uid)
	return nil
}

// resolvedPackage returns the materialized GenericPackage for uid, or nil.
func (r *resolver) resolvedPackage(uid MXFUid) GenericPackage {
	if uid.IsZero() {
		return nil
	}
	if v, ok := r.rich[uid]; ok {
		if p, ok := v.(GenericPackage); ok {
			return p
		}
	}
	return nil
}

func (r *resolver) resolvedTrack(uid MXFUid) *TimelineTrack {
	if v, ok := r.rich[uid]; ok {
		if t, ok := v.(*TimelineTrack); ok {
			return t
		}
	}
	return nil
}

func (r *resolver) resolvedSequence(uid MXFUid) *Sequence {
	if v, ok := r.rich[uid]; ok {
		if s, ok := v.(*Sequence); ok {
			return s
		}
	}
	return nil
}

func (r *resolver) resolvedDescriptor(uid MXFUid) EssenceDescriptor {
	if v, ok := r.rich[uid]; ok {
		if d, ok := v.(EssenceDescriptor); ok {
			return d
		}
	}
	return nil
}

// materialize builds uid's rich object from obj, assuming every dependent
// UID obj refers to is already present in r.rich (guaranteed by the
// dependency-first topological order materialize's caller walks).
func (r *resolver) materialize(uid MXFUid, obj bo) {
	switch b := obj.(type) {

	case *identificationBO:
		r.rich[uid] = &Identification{
			InstanceUID:    b.InstanceUID,
			CompanyName:    b.CompanyName,
			ProductName:    b.ProductName,
			ProductVersion: b.ProductVersion,
			GenerationUID:  b.GenerationUID,
		}

	case *sourceClipBO:
		r.rich[uid] = &SourceClip{
			InstanceUID:    b.InstanceUID,
			DataDefinition: b.DataDefinition,
			Duration:       b.Duration,
			StartPosition:  b.StartPosition,
			SourceTrackID:  b.SourceTrackID,
			SourcePackage:  r.resolvedPackage(b.SourcePackageRef),
		}

	case *sequenceBO:
		comps := make([]StructuralComponent, 0, len(b.ComponentRefs))
		for _, ref := range b.ComponentRefs {
			if v, ok := r.rich[ref]; ok {
				if sc, ok := v.(StructuralComponent); ok {
					comps = append(comps, sc)
				}
			}
		}
		r.rich[uid] = &Sequence{
			InstanceUID:    b.InstanceUID,
			DataDefinition: b.DataDefinition,
			Duration:       b.Duration,
			Components:     comps,
		}

	case *timelineTrackBO:
		r.rich[uid] = &TimelineTrack{
			InstanceUID: b.InstanceUID,
			TrackID:     b.TrackID,
			TrackNumber: b.TrackNumber,
			EditRate:    b.EditRate,
			Origin:      b.Origin,
			Sequence:    r.resolvedSequence(b.SequenceRef),
		}

	case *sourcePackageBO:
		tracks := make([]*TimelineTrack, 0, len(b.TrackRefs))
		for _, ref := range b.TrackRefs {
			if t := r.resolvedTrack(ref); t != nil {
				tracks = append(tracks, t)
			}
		}
		sp := &SourcePackage{
			InstanceUID: b.InstanceUID,
			PackageUID:  b.PackageUID,
			TrackList:   tracks,
			Descriptor:  r.resolvedDescriptor(b.DescriptorRef),
		}
		if !b.DescriptorRef.IsZero() && sp.Descriptor == nil {
			r.diag.AddLogged(r.logger, UnresolvedStrongRef, SeverityError, 0,
				"source package %s: essence descriptor %s did not resolve to a known descriptor class",
				b.InstanceUID, b.DescriptorRef)
		}
		r.rich[uid] = sp

	case *materialPackageBO:
		tracks := make([]*TimelineTrack, 0, len(b.TrackRefs))
		for _, ref := range b.TrackRefs {
			if t := r.resolvedTrack(ref); t != nil {
				tracks = append(tracks, t)
			}
		}
		r.rich[uid] = &MaterialPackage{
			InstanceUID: b.InstanceUID,
			PackageUID:  b.PackageUID,
			TrackList:   tracks,
		}

	case *essenceContainerDataBO:
		r.rich[uid] = &EssenceContainerData{
			InstanceUID: b.InstanceUID,
			Package:     r.resolvedPackage(b.PackageRef),
			IndexSID:    b.IndexSID,
			BodySID:     b.BodySID,
		}

	case *contentStorageBO:
		packages := make([]GenericPackage, 0, len(b.PackageRefs))
		for _, ref := range b.PackageRefs {
			if p := r.resolvedPackage(ref); p != nil {
				packages = append(packages, p)
			}
		}
		ecds := make([]*EssenceContainerData, 0, len(b.EssenceContainerDataRefs))
		for _, ref := range b.EssenceContainerDataRefs {
			if v, ok := r.rich[ref]; ok {
				if ecd, ok := v.(*EssenceContainerData); ok {
					ecds = append(ecds, ecd)
				}
			}
		}
		r.rich[uid] = &ContentStorage{
			InstanceUID:          b.InstanceUID,
			Packages:             packages,
			EssenceContainerData: ecds,
		}

	case *prefaceBO:
		idents := make([]*Identification, 0, len(b.IdentificationRefs))
		for _, ref := range b.IdentificationRefs {
			if v, ok := r.rich[ref]; ok {
				if id, ok := v.(*Identification); ok {
					idents = append(idents, id)
				}
			}
		}
		var cs *ContentStorage
		if v, ok := r.rich[b.ContentStorageRef]; ok {
			cs, _ = v.(*ContentStorage)
		}
		primary := r.resolvedPackage(b.PrimaryPackageRef)
		r.rich[uid] = &Preface{
			InstanceUID:     b.InstanceUID,
			PrimaryPackage:  primary,
			ContentStorage:  cs,
			Identifications: idents,
		}
		if cs == nil {
			r.diag.AddLogged(r.logger, UnresolvedStrongRef, SeverityFatal, 0,
				"preface %s: content storage %s did not resolve", b.InstanceUID, b.ContentStorageRef)
		}
		if !b.PrimaryPackageRef.IsZero() && primary == nil {
			r.diag.AddLogged(r.logger, UnresolvedStrongRef, SeverityError, 0,
				"preface %s: primary package %s did not resolve to a known package class",
				b.InstanceUID, b.PrimaryPackageRef)
		}

	case *cdciPictureEssenceDescriptorBO:
		// No restriction on CDCI's sub-descriptor kinds; nothing to validate.
		r.rich[uid] = &CDCIPictureEssenceDescriptor{
			InstanceUID:           b.InstanceUID,
			SampleRate:            b.SampleRate,
			StoredWidth:           b.StoredWidth,
			StoredHeight:          b.StoredHeight,
			HorizontalSubsampling: b.HorizontalSubsampling,
			VerticalSubsampling:   b.VerticalSubsampling,
			ComponentDepth:        b.ComponentDepth,
		}

	case *rgbaPictureEssenceDescriptorBO:
		r.rich[uid] = &RGBAPictureEssenceDescriptor{
			InstanceUID:     b.InstanceUID,
			SampleRate:      b.SampleRate,
			StoredWidth:     b.StoredWidth,
			StoredHeight:    b.StoredHeight,
			ComponentMaxRef: b.ComponentMaxRef,
			ComponentMinRef: b.ComponentMinRef,
		}

	case *waveAudioEssenceDescriptorBO:
		// Sub-descriptors are not eagerly materialized onto the rich object
		// (spec.md §9 Open Question); this pass only enforces the invariant
		// that, when dependents are declared, at least one is a recognized
		// audio sub-descriptor kind. Callers reach the sub-descriptors
		// themselves through HeaderPartition.SubDescriptors, via the BO map.
		r.checkWaveAudioSubDescriptors(b.InstanceUID, b.SubDescriptorRefs)
		r.rich[uid] = &WaveAudioEssenceDescriptor{
			InstanceUID:       b.InstanceUID,
			AudioSamplingRate: b.AudioSamplingRate,
			ChannelCount:      b.ChannelCount,
			QuantizationBits:  b.QuantizationBits,
			BlockAlign:        b.BlockAlign,
			AvgBps:            b.AvgBps,
		}

	default:
		// Leaf sub-descriptor kinds (AudioChannelLabel, SoundFieldGroupLabel,
		// JPEG2000Picture, PHDRMetaDataTrack) have no dedicated rich type:
		// they are surfaced as the BO itself, through
		// HeaderPartition.SubDescriptors and StructuralMetadata.
		r.rich[uid] = obj
	}
}

// checkWaveAudioSubDescriptors enforces spec.md §4.4's WaveAudio
// sub-descriptor invariant: if the BO declares any sub-descriptor
// dependents at all, at least one must resolve to AudioChannelLabel or
// SoundFieldGroupLabel; otherwise the descriptor is fatally invalid. This
// only records the diagnostic — it does not alter what
// HeaderPartition.SubDescriptors later returns, which flattens the BO's
// batch unconditionally via the BO map per spec.md §9.
func (r *resolver) checkWaveAudioSubDescriptors(owner MXFUid, refs []MXFUid) {
	if len(refs) == 0 {
		return
	}
	for _, ref := range refs {
		sub, ok := r.bos[ref]
		if !ok {
			continue
		}
		switch sub.kind() {
		case kindAudioChannelLabelSubDescriptor, kindSoundFieldGroupLabelSubDescriptor:
			return
		}
	}
	r.diag.AddLogged(r.logger, InvalidDescriptor, SeverityFatal, 0,
		"wave audio essence descriptor %s: has sub-descriptor dependents but none are AudioChannelLabel or SoundFieldGroupLabel", owner)
}
