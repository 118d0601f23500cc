/*
DESCRIPTION
  record.go defines the in-memory Record tree this bridge serializes to
  and parses from VP9 bitstream bytes. The Record schema definition
  language and its generated accessors are out of scope for this module;
  Record here is the plain Go struct shape a generated accessor layer
  would expose, used directly since no such generator is part of this
  bridge's responsibility.
*/

package vp9

// Signed is a sign-magnitude pair, the representation VP9 uses for every
// signed integer syntax element (magnitude bits, then one sign bit).
type Signed struct {
	Magnitude uint32
	Negative  bool
}

// at returns list[i], or the zero value of T if i is out of range. This
// is the "missing list entries default to zero" accessor behavior
// mandated by the Record contract (§6.1), used throughout the header
// codecs so a Record with fewer entries than a fixed-count loop still
// encodes cleanly.
func at[T any](list []T, i int) T {
	if i >= 0 && i < len(list) {
		return list[i]
	}
	var zero T
	return zero
}

// atProb returns list[i], or 255 if i is out of range. TreeProbs and
// PredProbs encode presence via the sentinel value 255 (readProb's default)
// rather than a separate Present flag, so a short or empty list must default
// to "not coded" (255), not the zero value at() gives every other list.
func atProb(list []uint8, i int) uint8 {
	if i >= 0 && i < len(list) {
		return list[i]
	}
	return 255
}

// ProbUpdate is one entry of a DiffUpdateProb-driven list: whether the
// Record specifies an explicit update for this probability slot, and if
// so, its raw 8-bit value.
type ProbUpdate struct {
	Present bool
	Value   uint8
}

// RefFrame holds one inter-frame reference slot's index into the 8 stored
// reference frame buffers, and its sign-bias flag.
type RefFrame struct {
	Idx      uint8
	SignBias bool
}

// SegmentationFeature holds one (segment, feature) slot of
// SegmentationParams' feature data.
type SegmentationFeature struct {
	Enabled bool
	Value   Signed
}

// ColorConfig models VP9's color_config() syntax.
type ColorConfig struct {
	TenOrTwelveBit bool // only meaningful when Profile is 2 or 3.
	ColorSpace     uint8
	ColorRange     bool
	SubsamplingX   bool // only meaningful when ColorSpace != CsRGB.
	SubsamplingY   bool
}

// FrameSize models VP9's frame_size() syntax.
type FrameSize struct {
	WidthMinus1  uint16
	HeightMinus1 uint16
}

// RenderSize models VP9's render_size() syntax.
type RenderSize struct {
	Different     bool
	WidthMinus1   uint16
	HeightMinus1  uint16
}

// LoopFilterParams models VP9's loop_filter_params() syntax.
type LoopFilterParams struct {
	Level     uint8
	Sharpness uint8

	DeltaEnabled bool
	DeltaUpdate  bool
	RefDelta     []ProbUpdateSigned // 4 slots: intra, last, golden, altref.
	ModeDelta    []ProbUpdateSigned // 2 slots.
}

// ProbUpdateSigned is the delta-coding equivalent of ProbUpdate for
// signed fields (loop filter ref/mode deltas): present iff the update bit
// was set, in which case Value carries the signed delta.
type ProbUpdateSigned struct {
	Present bool
	Value   Signed
}

// QuantizationParams models VP9's quantization_params() syntax.
type QuantizationParams struct {
	BaseQIdx  uint8
	DeltaQYDc Signed
	DeltaQUVDc Signed
	DeltaQUVAc Signed
}

// Lossless reports whether this QuantizationParams implies a lossless
// frame: base_q_idx is 0 and all three delta_q magnitudes are 0.
func (q QuantizationParams) Lossless() bool {
	return q.BaseQIdx == 0 &&
		q.DeltaQYDc.Magnitude == 0 &&
		q.DeltaQUVDc.Magnitude == 0 &&
		q.DeltaQUVAc.Magnitude == 0
}

// SegmentationParams models VP9's segmentation_params() syntax.
type SegmentationParams struct {
	Enabled bool

	UpdateMap      bool
	TreeProbs      []uint8 // 7 slots.
	TemporalUpdate bool
	PredProbs      []uint8 // 3 slots, present only when TemporalUpdate.

	UpdateData     bool
	AbsOrDeltaUpdate bool
	Features       []SegmentationFeature // SegLvlMax*numSegments, row-major.
}

// TileInfo models VP9's tile_info() syntax. The encoder clamps
// TileColsLog2 into the range allowed by the frame's Sb64Cols and writes
// TileRowsLog2 as given (values above 2 are written as 2); the parser
// recovers both from the increment-bit sequence.
type TileInfo struct {
	TileColsLog2 int
	TileRowsLog2 int
}

// CompressedHeader models the fields read/written inside the boolean
// coder region (§4.4).
type CompressedHeader struct {
	TxMode          uint8
	TxModeProbs     []ProbUpdate // 12 slots, present only if TxMode==TxModeSelect.

	// CoefProbs[txSize] is the 396-entry update list for that transform
	// size, for txSize in [Tx4x4, txModeToBiggestTxSize[TxMode]].
	CoefProbs []CoefProbsForTxSize

	SkipProb []ProbUpdate // 3 slots.

	InterModeProbs   []ProbUpdate // 21 slots, inter frames only.
	InterpFilterProbs []ProbUpdate // 8 slots, inter frames only.
	IsInterProbs     []ProbUpdate // 4 slots, inter frames only.

	ReferenceMode           uint8        // SingleReference/CompoundReference/ReferenceModeSelect.
	FrameReferenceModeProbs []ProbUpdate // shared 5-entry list, reused up to 3 times per §9.

	YModeProbs      []ProbUpdate // 36 slots.
	PartitionProbs  []ProbUpdate // 48 slots.

	MvProbs   []ProbUpdate // 45 slots.
	MvProbsHp []ProbUpdate // 4 more, present only if allow_high_precision_mv.
}

// CoefProbsForTxSize holds one transform size's 396-entry coefficient
// probability update list, plus the single update_probs flag that gates
// whether the list is read at all.
type CoefProbsForTxSize struct {
	UpdateProbs bool
	Entries     []ProbUpdate // 396 slots, read only if UpdateProbs.
}

// Tile is one tile's opaque partition bytes.
type Tile struct {
	Data []byte
}

// Frame is the full Record for a single VP9 frame: every field the
// uncompressed and compressed header codecs need, plus the tile payload.
// The external record schema is responsible for producing/consuming this
// shape; this module never depends on how that schema is defined.
type Frame struct {
	ShowExistingFrame bool
	FrameToShowMapIdx uint8

	Profile         uint8
	FrameType       uint8 // KeyFrame or NonKeyFrame.
	ShowFrame       bool
	ErrorResilientMode bool

	IntraOnly        bool
	ResetFrameContext uint8
	RefreshFrameFlags uint8
	RefFrames        []RefFrame // 3 slots.
	// FoundRef marks, per reference slot, whether frame_size_with_refs
	// should source its dimensions from that reference frame rather than
	// reading an explicit frame_size(). Multi-frame reference tracking
	// itself (the actual stored dimensions of a prior frame) is out of
	// scope, so a Record that sets a FoundRef entry is expected to also
	// populate FrameSize with the dimensions to use.
	FoundRef             []bool // 3 slots.
	AllowHighPrecisionMv bool
	InterpolationFilter  uint8

	FrameParallelDecodingMode bool
	FrameContextIdx           uint8

	RefreshFrameContext bool

	ColorConfig ColorConfig
	FrameSize   FrameSize
	RenderSize  RenderSize

	// TileCols records the tile_cols_log2/tile_rows_log2 the encoder
	// should try to emit; the actual written value is clamped into the
	// range tile_info()'s increment-bit sequence can express for the
	// frame's Sb64Cols, per §4.3.i.
	TileCols TileInfo

	LoopFilter      LoopFilterParams
	Quantization    QuantizationParams
	Segmentation    SegmentationParams
	Compressed      CompressedHeader

	Tiles []Tile // up to MaxTiles slots.
}

// FrameIsIntra reports whether this frame only predicts from itself: true
// for key frames and for intra_only inter frames.
func (f *Frame) FrameIsIntra() bool {
	return f.FrameType == KeyFrame || f.IntraOnly
}

// CompoundReferenceAllowed reports whether frame_reference_mode may signal
// compound prediction: true iff any reference's sign bias differs from
// the first reference's sign bias (missing entries default to zero/false
// per the Record accessor contract).
func (f *Frame) CompoundReferenceAllowed() bool {
	if len(f.RefFrames) == 0 {
		return false
	}
	first := at(f.RefFrames, 0).SignBias
	for i := 1; i < refFrames; i++ {
		if at(f.RefFrames, i).SignBias != first {
			return true
		}
	}
	return false
}
