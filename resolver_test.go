// Copyright 2024 The mxfkit Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package mxf

import "testing"

func TestResolveDetectsCycle(t *testing.T) {
	uidA := testUID(0xA1)
	uidB := testUID(0xB2)

	bos := map[MXFUid]bo{
		uidA: &sequenceBO{boCommon: boCommon{InstanceUID: uidA, Kind: kindSequence}, ComponentRefs: []MXFUid{uidB}},
		uidB: &sequenceBO{boCommon: boCommon{InstanceUID: uidB, Kind: kindSequence}, ComponentRefs: []MXFUid{uidA}},
	}

	var diag DiagnosticLog
	_, err := resolve(bos, &diag, nil)
	if err == nil {
		t.Fatal("expected error for cyclic graph")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Fatals[0].Kind != CyclicGraph {
		t.Fatalf("got %s, want CyclicGraph", perr.Fatals[0].Kind)
	}
}

func TestResolveMaterializesSequenceInDeclaredOrder(t *testing.T) {
	clipA := testUID(1)
	clipB := testUID(2)
	seqUID := testUID(3)

	bos := map[MXFUid]bo{
		clipA: &sourceClipBO{boCommon: boCommon{InstanceUID: clipA, Kind: kindSourceClip}, Duration: 10},
		clipB: &sourceClipBO{boCommon: boCommon{InstanceUID: clipB, Kind: kindSourceClip}, Duration: 20},
		seqUID: &sequenceBO{
			boCommon:      boCommon{InstanceUID: seqUID, Kind: kindSequence},
			ComponentRefs: []MXFUid{clipA, clipB},
		},
	}

	var diag DiagnosticLog
	rich, err := resolve(bos, &diag, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	seq, ok := rich[seqUID].(*Sequence)
	if !ok {
		t.Fatalf("expected *Sequence, got %T", rich[seqUID])
	}
	if len(seq.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(seq.Components))
	}
	if seq.Components[0].ComponentDuration() != 10 || seq.Components[1].ComponentDuration() != 20 {
		t.Errorf("components out of declared order: %v", seq.Components)
	}
}

func TestResolveRejectsDisallowedWaveAudioSubDescriptor(t *testing.T) {
	badSub := testUID(0x50)
	waveUID := testUID(0x51)

	bos := map[MXFUid]bo{
		badSub: &cdciPictureEssenceDescriptorBO{boCommon: boCommon{InstanceUID: badSub, Kind: kindCDCIPictureEssenceDescriptor}},
		waveUID: &waveAudioEssenceDescriptorBO{
			boCommon:          boCommon{InstanceUID: waveUID, Kind: kindWaveAudioEssenceDescriptor},
			SubDescriptorRefs: []MXFUid{badSub},
		},
	}

	var diag DiagnosticLog
	rich, err := resolve(bos, &diag, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := rich[waveUID].(*WaveAudioEssenceDescriptor); !ok {
		t.Fatalf("expected *WaveAudioEssenceDescriptor, got %T", rich[waveUID])
	}

	var sawFatalInvalid bool
	for _, d := range diag.Entries() {
		if d.Kind == InvalidDescriptor && d.Severity == SeverityFatal {
			sawFatalInvalid = true
		}
	}
	if !sawFatalInvalid {
		t.Error("expected a fatal InvalidDescriptor diagnostic: sole sub-descriptor is neither AudioChannelLabel nor SoundFieldGroupLabel")
	}
}

func TestResolveAllowsWaveAudioWithRecognizedSubDescriptor(t *testing.T) {
	okSub := testUID(0x52)
	waveUID := testUID(0x53)

	bos := map[MXFUid]bo{
		okSub: &audioChannelLabelSubDescriptorBO{boCommon: boCommon{InstanceUID: okSub, Kind: kindAudioChannelLabelSubDescriptor}},
		waveUID: &waveAudioEssenceDescriptorBO{
			boCommon:          boCommon{InstanceUID: waveUID, Kind: kindWaveAudioEssenceDescriptor},
			SubDescriptorRefs: []MXFUid{okSub},
		},
	}

	var diag DiagnosticLog
	if _, err := resolve(bos, &diag, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, d := range diag.Entries() {
		if d.Kind == InvalidDescriptor {
			t.Errorf("unexpected InvalidDescriptor diagnostic: %s", d)
		}
	}
}
