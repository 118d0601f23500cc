package vp9

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/vp9bridge/codec/vp9/bits"
)

func encodeDecodeHeader(t *testing.T, f *Frame) (*Frame, int) {
	t.Helper()
	sink := bits.NewBitSink()
	w := newBitFieldWriter(sink)
	writeUncompressedHeader(&w, f)
	sink.AlignToByte()
	out := sink.Finalize()

	src := bits.NewBitSource(out)
	r := newBitFieldReader(src)
	decoded, headerSize, err := readUncompressedHeader(&r)
	if err != nil {
		t.Fatalf("readUncompressedHeader returned error: %v", err)
	}
	return decoded, headerSize
}

func TestUncompressedHeaderShowExistingFrameShortCircuits(t *testing.T) {
	f := &Frame{ShowExistingFrame: true, FrameToShowMapIdx: 3}
	decoded, headerSize := encodeDecodeHeader(t, f)
	if headerSize != 0 {
		t.Errorf("headerSize: got %d, want 0", headerSize)
	}
	if decoded.FrameToShowMapIdx != 3 {
		t.Errorf("FrameToShowMapIdx: got %d, want 3", decoded.FrameToShowMapIdx)
	}
}

func TestUncompressedHeaderKeyFrameColorConfigRGB(t *testing.T) {
	f := &Frame{
		FrameType: KeyFrame,
		ShowFrame: true,
		ColorConfig: ColorConfig{
			ColorSpace: CsRGB,
			ColorRange: true,
		},
		FrameSize: FrameSize{WidthMinus1: 15, HeightMinus1: 31},
	}
	decoded, _ := encodeDecodeHeader(t, f)

	if decoded.ColorConfig.ColorSpace != CsRGB {
		t.Errorf("ColorSpace: got %d, want CsRGB", decoded.ColorConfig.ColorSpace)
	}
	if !decoded.ColorConfig.ColorRange {
		t.Error("ColorRange: want true for CS_RGB")
	}
	if decoded.FrameSize.WidthMinus1 != 15 || decoded.FrameSize.HeightMinus1 != 31 {
		t.Errorf("FrameSize: got %+v, want 15x31", decoded.FrameSize)
	}
}

func TestUncompressedHeaderProfile1Subsampling(t *testing.T) {
	f := &Frame{
		Profile:   1,
		FrameType: KeyFrame,
		ShowFrame: true,
		ColorConfig: ColorConfig{
			ColorSpace:   CsBT601,
			SubsamplingX: true,
			SubsamplingY: false,
		},
		FrameSize: FrameSize{WidthMinus1: 7, HeightMinus1: 7},
	}
	decoded, _ := encodeDecodeHeader(t, f)

	if decoded.Profile != 1 {
		t.Fatalf("Profile: got %d, want 1", decoded.Profile)
	}
	if !decoded.ColorConfig.SubsamplingX || decoded.ColorConfig.SubsamplingY {
		t.Errorf("subsampling: got x=%v y=%v, want x=true y=false",
			decoded.ColorConfig.SubsamplingX, decoded.ColorConfig.SubsamplingY)
	}
}

func TestUncompressedHeaderRenderSizeDifferent(t *testing.T) {
	f := &Frame{
		FrameType:   KeyFrame,
		ShowFrame:   true,
		ColorConfig: ColorConfig{ColorSpace: CsBT601, SubsamplingX: true, SubsamplingY: true},
		FrameSize:   FrameSize{WidthMinus1: 99, HeightMinus1: 99},
		RenderSize:  RenderSize{Different: true, WidthMinus1: 49, HeightMinus1: 49},
	}
	decoded, _ := encodeDecodeHeader(t, f)

	if !decoded.RenderSize.Different {
		t.Fatal("RenderSize.Different: want true")
	}
	if decoded.RenderSize.WidthMinus1 != 49 || decoded.RenderSize.HeightMinus1 != 49 {
		t.Errorf("RenderSize: got %+v, want 49x49", decoded.RenderSize)
	}
}

func TestUncompressedHeaderInterFrameWithRefs(t *testing.T) {
	f := &Frame{
		FrameType:         NonKeyFrame,
		ShowFrame:         true,
		RefreshFrameFlags: 0x05,
		RefFrames: []RefFrame{
			{Idx: 0, SignBias: false},
			{Idx: 1, SignBias: true},
			{Idx: 2, SignBias: false},
		},
		FoundRef:             []bool{false, false, false},
		FrameSize:            FrameSize{WidthMinus1: 127, HeightMinus1: 63},
		AllowHighPrecisionMv: true,
		InterpolationFilter:  SwitchableFilter,
	}
	decoded, _ := encodeDecodeHeader(t, f)

	if decoded.FrameType != NonKeyFrame {
		t.Errorf("FrameType: got %d, want NonKeyFrame", decoded.FrameType)
	}
	if diff := cmp.Diff(f.RefFrames, decoded.RefFrames); diff != "" {
		t.Errorf("RefFrames round trip mismatch (-want +got):\n%s", diff)
	}
	if !decoded.AllowHighPrecisionMv {
		t.Error("AllowHighPrecisionMv: want true")
	}
	if decoded.InterpolationFilter != SwitchableFilter {
		t.Errorf("InterpolationFilter: got %d, want SwitchableFilter", decoded.InterpolationFilter)
	}
	if decoded.FrameSize.WidthMinus1 != 127 || decoded.FrameSize.HeightMinus1 != 63 {
		t.Errorf("FrameSize (sourced directly, no ref found): got %+v", decoded.FrameSize)
	}
}

func TestUncompressedHeaderLoopFilterDeltas(t *testing.T) {
	f := &Frame{
		FrameType:   KeyFrame,
		ShowFrame:   true,
		ColorConfig: ColorConfig{ColorSpace: CsBT601, SubsamplingX: true, SubsamplingY: true},
		FrameSize:   FrameSize{WidthMinus1: 15, HeightMinus1: 15},
		LoopFilter: LoopFilterParams{
			Level:        10,
			Sharpness:    3,
			DeltaEnabled: true,
			DeltaUpdate:  true,
			RefDelta: []ProbUpdateSigned{
				{Present: true, Value: Signed{Magnitude: 2, Negative: true}},
				{Present: false},
				{Present: true, Value: Signed{Magnitude: 1}},
				{Present: false},
			},
			ModeDelta: []ProbUpdateSigned{
				{Present: true, Value: Signed{Magnitude: 4, Negative: true}},
				{Present: false},
			},
		},
	}
	decoded, _ := encodeDecodeHeader(t, f)

	lf := decoded.LoopFilter
	if lf.Level != 10 || lf.Sharpness != 3 {
		t.Errorf("Level/Sharpness: got %d/%d, want 10/3", lf.Level, lf.Sharpness)
	}
	if diff := cmp.Diff(f.LoopFilter.RefDelta, lf.RefDelta); diff != "" {
		t.Errorf("RefDelta round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(f.LoopFilter.ModeDelta, lf.ModeDelta); diff != "" {
		t.Errorf("ModeDelta round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUncompressedHeaderQuantizationDeltas(t *testing.T) {
	f := &Frame{
		FrameType:   KeyFrame,
		ShowFrame:   true,
		ColorConfig: ColorConfig{ColorSpace: CsBT601, SubsamplingX: true, SubsamplingY: true},
		FrameSize:   FrameSize{WidthMinus1: 15, HeightMinus1: 15},
		Quantization: QuantizationParams{
			BaseQIdx:   42,
			DeltaQYDc:  Signed{Magnitude: 3, Negative: true},
			DeltaQUVDc: Signed{},
			DeltaQUVAc: Signed{Magnitude: 5},
		},
	}
	decoded, _ := encodeDecodeHeader(t, f)

	q := decoded.Quantization
	if q.BaseQIdx != 42 {
		t.Errorf("BaseQIdx: got %d, want 42", q.BaseQIdx)
	}
	if q.DeltaQYDc.Magnitude != 3 || !q.DeltaQYDc.Negative {
		t.Errorf("DeltaQYDc: got %+v", q.DeltaQYDc)
	}
	if q.DeltaQUVDc.Magnitude != 0 {
		t.Errorf("DeltaQUVDc: got %+v, want zero", q.DeltaQUVDc)
	}
	if q.DeltaQUVAc.Magnitude != 5 || q.DeltaQUVAc.Negative {
		t.Errorf("DeltaQUVAc: got %+v", q.DeltaQUVAc)
	}
	if q.Lossless() {
		t.Error("Lossless: want false, base_q_idx and deltas are nonzero")
	}
}

func TestUncompressedHeaderSegmentationParams(t *testing.T) {
	f := &Frame{
		FrameType:   KeyFrame,
		ShowFrame:   true,
		ColorConfig: ColorConfig{ColorSpace: CsBT601, SubsamplingX: true, SubsamplingY: true},
		FrameSize:   FrameSize{WidthMinus1: 15, HeightMinus1: 15},
		Segmentation: SegmentationParams{
			Enabled:          true,
			UpdateMap:        true,
			TreeProbs:        []uint8{1, 2, 3, 4, 5, 6, 7},
			TemporalUpdate:   true,
			PredProbs:        []uint8{8, 9, 10},
			UpdateData:       true,
			AbsOrDeltaUpdate: true,
			Features: []SegmentationFeature{
				{Enabled: true, Value: Signed{Magnitude: 7, Negative: true}},
			},
		},
	}
	decoded, _ := encodeDecodeHeader(t, f)

	s := decoded.Segmentation
	if !s.Enabled || !s.UpdateMap || !s.TemporalUpdate || !s.UpdateData || !s.AbsOrDeltaUpdate {
		t.Fatalf("segmentation flags: got %+v", s)
	}
	if len(s.TreeProbs) != 7 || s.TreeProbs[0] != 1 || s.TreeProbs[6] != 7 {
		t.Errorf("TreeProbs: got %v", s.TreeProbs)
	}
	if len(s.PredProbs) != 3 || s.PredProbs[0] != 8 {
		t.Errorf("PredProbs: got %v", s.PredProbs)
	}
	if len(s.Features) != numSegments*SegLvlMax {
		t.Fatalf("Features: got %d entries, want %d", len(s.Features), numSegments*SegLvlMax)
	}
	if !s.Features[0].Enabled || s.Features[0].Value.Magnitude != 7 || !s.Features[0].Value.Negative {
		t.Errorf("Features[0]: got %+v", s.Features[0])
	}
}

func TestUncompressedHeaderSegmentationParamsShortProbLists(t *testing.T) {
	// A Record with fewer TreeProbs/PredProbs entries than required must
	// round-trip the missing slots as "not coded" (255), not as an explicit
	// zero probability.
	f := &Frame{
		FrameType:   KeyFrame,
		ShowFrame:   true,
		ColorConfig: ColorConfig{ColorSpace: CsBT601, SubsamplingX: true, SubsamplingY: true},
		FrameSize:   FrameSize{WidthMinus1: 15, HeightMinus1: 15},
		Segmentation: SegmentationParams{
			Enabled:        true,
			UpdateMap:      true,
			TreeProbs:      []uint8{1},
			TemporalUpdate: true,
			UpdateData:     false,
		},
	}
	decoded, _ := encodeDecodeHeader(t, f)

	s := decoded.Segmentation
	if len(s.TreeProbs) != 7 {
		t.Fatalf("TreeProbs: got %d entries, want 7", len(s.TreeProbs))
	}
	if s.TreeProbs[0] != 1 {
		t.Errorf("TreeProbs[0]: got %d, want 1 (explicitly provided)", s.TreeProbs[0])
	}
	for i := 1; i < len(s.TreeProbs); i++ {
		if s.TreeProbs[i] != 255 {
			t.Errorf("TreeProbs[%d]: got %d, want 255 (not coded)", i, s.TreeProbs[i])
		}
	}

	if len(s.PredProbs) != 3 {
		t.Fatalf("PredProbs: got %d entries, want 3", len(s.PredProbs))
	}
	for i, p := range s.PredProbs {
		if p != 255 {
			t.Errorf("PredProbs[%d]: got %d, want 255 (not coded, empty list)", i, p)
		}
	}
}

func TestUncompressedHeaderInvalidFrameMarker(t *testing.T) {
	// Build a byte sequence with frame_marker = 00, which is invalid.
	src := bits.NewBitSource([]byte{0x00})
	r := newBitFieldReader(src)
	if _, _, err := readUncompressedHeader(&r); err == nil {
		t.Error("expected error for invalid frame_marker, got nil")
	}
}
