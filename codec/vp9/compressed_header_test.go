package vp9

import (
	"testing"

	"github.com/ausocean/vp9bridge/codec/vp9/boolcoder"
)

func TestTxModeRoundTripLossless(t *testing.T) {
	f := &Frame{Quantization: QuantizationParams{}, Compressed: CompressedHeader{
		SkipProb: []ProbUpdate{{}, {}, {}},
	}}

	e := boolcoder.NewBoolEncoder()
	writeCompressedHeader(e, f)
	payload := e.ExitBool()

	d := boolcoder.NewBoolDecoder(payload)
	got := &Frame{Quantization: f.Quantization}
	readCompressedHeader(d, got)

	if got.Compressed.TxMode != Only4x4 {
		t.Errorf("TxMode: got %d, want Only4x4", got.Compressed.TxMode)
	}
}

func TestTxModeRoundTripSelect(t *testing.T) {
	f := &Frame{
		Quantization: QuantizationParams{BaseQIdx: 10},
		Compressed: CompressedHeader{
			TxMode:      TxModeSelect,
			TxModeProbs: make([]ProbUpdate, txModeProbsCount),
			SkipProb:    []ProbUpdate{{}, {}, {}},
		},
	}

	e := boolcoder.NewBoolEncoder()
	writeCompressedHeader(e, f)
	payload := e.ExitBool()

	d := boolcoder.NewBoolDecoder(payload)
	got := &Frame{Quantization: f.Quantization}
	readCompressedHeader(d, got)

	if got.Compressed.TxMode != TxModeSelect {
		t.Errorf("TxMode: got %d, want TxModeSelect", got.Compressed.TxMode)
	}
	if len(got.Compressed.CoefProbs) != Tx32x32-Tx4x4+1 {
		t.Errorf("CoefProbs: got %d tx sizes, want %d", len(got.Compressed.CoefProbs), Tx32x32-Tx4x4+1)
	}
}

func TestTxModeRoundTripFixedAllow8x8(t *testing.T) {
	f := &Frame{
		Quantization: QuantizationParams{BaseQIdx: 5},
		Compressed: CompressedHeader{
			TxMode:   Allow8x8,
			SkipProb: []ProbUpdate{{}, {}, {}},
		},
	}

	e := boolcoder.NewBoolEncoder()
	writeCompressedHeader(e, f)
	payload := e.ExitBool()

	d := boolcoder.NewBoolDecoder(payload)
	got := &Frame{Quantization: f.Quantization}
	readCompressedHeader(d, got)

	if got.Compressed.TxMode != Allow8x8 {
		t.Errorf("TxMode: got %d, want Allow8x8", got.Compressed.TxMode)
	}
	if len(got.Compressed.CoefProbs) != Tx8x8-Tx4x4+1 {
		t.Errorf("CoefProbs: got %d tx sizes, want %d", len(got.Compressed.CoefProbs), Tx8x8-Tx4x4+1)
	}
}

func TestCoefProbsUpdateRoundTrip(t *testing.T) {
	entries := make([]ProbUpdate, coefProbsPerTxSize)
	entries[0] = ProbUpdate{Present: true, Value: 200}
	entries[10] = ProbUpdate{Present: true, Value: 17}

	f := &Frame{
		Quantization: QuantizationParams{BaseQIdx: 1},
		Compressed: CompressedHeader{
			TxMode: Only4x4,
			CoefProbs: []CoefProbsForTxSize{
				{UpdateProbs: true, Entries: entries},
			},
			SkipProb: []ProbUpdate{{Present: true, Value: 99}, {}, {}},
		},
	}

	e := boolcoder.NewBoolEncoder()
	writeCompressedHeader(e, f)
	payload := e.ExitBool()

	d := boolcoder.NewBoolDecoder(payload)
	got := &Frame{Quantization: f.Quantization}
	readCompressedHeader(d, got)

	if !got.Compressed.CoefProbs[0].UpdateProbs {
		t.Fatal("UpdateProbs: want true")
	}
	if !got.Compressed.CoefProbs[0].Entries[0].Present || got.Compressed.CoefProbs[0].Entries[0].Value != 200 {
		t.Errorf("Entries[0]: got %+v", got.Compressed.CoefProbs[0].Entries[0])
	}
	if !got.Compressed.CoefProbs[0].Entries[10].Present || got.Compressed.CoefProbs[0].Entries[10].Value != 17 {
		t.Errorf("Entries[10]: got %+v", got.Compressed.CoefProbs[0].Entries[10])
	}
	if !got.Compressed.SkipProb[0].Present || got.Compressed.SkipProb[0].Value != 99 {
		t.Errorf("SkipProb[0]: got %+v", got.Compressed.SkipProb[0])
	}
}

func TestInterFrameCompressedHeaderRoundTrip(t *testing.T) {
	f := &Frame{
		FrameType:            NonKeyFrame,
		InterpolationFilter:  SwitchableFilter,
		AllowHighPrecisionMv: true,
		RefFrames: []RefFrame{
			{Idx: 0, SignBias: false},
			{Idx: 1, SignBias: true},
			{Idx: 2, SignBias: false},
		},
		Quantization: QuantizationParams{BaseQIdx: 50},
		Compressed: CompressedHeader{
			TxMode:   Only4x4,
			SkipProb: []ProbUpdate{{Present: true, Value: 10}, {}, {}},
			InterModeProbs: []ProbUpdate{
				{Present: true, Value: 20},
			},
			InterpFilterProbs: []ProbUpdate{
				{Present: true, Value: 30},
			},
			IsInterProbs: []ProbUpdate{
				{Present: true, Value: 40},
			},
			ReferenceMode: ReferenceModeSelect,
			FrameReferenceModeProbs: []ProbUpdate{
				{Present: true, Value: 60},
			},
			MvProbs: []ProbUpdate{
				{Present: true, Value: 100},
			},
			MvProbsHp: []ProbUpdate{
				{Present: true, Value: 110},
			},
		},
	}

	e := boolcoder.NewBoolEncoder()
	writeCompressedHeader(e, f)
	payload := e.ExitBool()

	d := boolcoder.NewBoolDecoder(payload)
	got := &Frame{
		FrameType:            f.FrameType,
		InterpolationFilter:  f.InterpolationFilter,
		AllowHighPrecisionMv: f.AllowHighPrecisionMv,
		RefFrames:            f.RefFrames,
		Quantization:         f.Quantization,
	}
	readCompressedHeader(d, got)

	if got.Compressed.ReferenceMode != ReferenceModeSelect {
		t.Errorf("ReferenceMode: got %d, want ReferenceModeSelect", got.Compressed.ReferenceMode)
	}
	if !got.Compressed.InterModeProbs[0].Present || got.Compressed.InterModeProbs[0].Value != 20 {
		t.Errorf("InterModeProbs[0]: got %+v", got.Compressed.InterModeProbs[0])
	}
	if !got.Compressed.MvProbs[0].Present || got.Compressed.MvProbs[0].Value != 100 {
		t.Errorf("MvProbs[0]: got %+v", got.Compressed.MvProbs[0])
	}
	if !got.Compressed.MvProbsHp[0].Present || got.Compressed.MvProbsHp[0].Value != 110 {
		t.Errorf("MvProbsHp[0]: got %+v", got.Compressed.MvProbsHp[0])
	}
}

func TestFrameReferenceModeSingleWhenNotCompoundAllowed(t *testing.T) {
	f := &Frame{
		FrameType: NonKeyFrame,
		RefFrames: []RefFrame{
			{SignBias: false}, {SignBias: false}, {SignBias: false},
		},
		Quantization: QuantizationParams{BaseQIdx: 1},
		Compressed: CompressedHeader{
			TxMode:        Only4x4,
			SkipProb:      []ProbUpdate{{}, {}, {}},
			ReferenceMode: ReferenceModeSelect, // should be forced down to SingleReference.
		},
	}

	e := boolcoder.NewBoolEncoder()
	writeCompressedHeader(e, f)
	payload := e.ExitBool()

	d := boolcoder.NewBoolDecoder(payload)
	got := &Frame{
		FrameType:    f.FrameType,
		RefFrames:    f.RefFrames,
		Quantization: f.Quantization,
	}
	readCompressedHeader(d, got)

	if got.Compressed.ReferenceMode != SingleReference {
		t.Errorf("ReferenceMode: got %d, want SingleReference (compound not allowed)", got.Compressed.ReferenceMode)
	}
}
