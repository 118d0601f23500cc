package vp9

// Frame types.
const (
	KeyFrame    = 0
	NonKeyFrame = 1
)

// Reference frame slots. VP9 keeps 3 usable reference frames per inter
// frame (LAST, GOLDEN, ALTREF), addressed by ref_frame_idx/sign_bias.
const refFrames = 3

// SegLvlMax is the number of segmentation feature types per segment.
const SegLvlMax = 4

// segmentationFeatureBits gives the bit width of each segmentation
// feature's magnitude, indexed by feature ID.
var segmentationFeatureBits = [SegLvlMax]int{8, 6, 2, 0}

// segmentationFeatureSigned reports whether each segmentation feature
// carries a sign bit in addition to its magnitude.
var segmentationFeatureSigned = [SegLvlMax]bool{true, true, false, false}

// Transform sizes.
const (
	Tx4x4 = iota
	Tx8x8
	Tx16x16
	Tx32x32
)

// Transform modes.
const (
	Only4x4 = iota
	Allow8x8
	Allow16x16
	Allow32x32
	TxModeSelect
	TxModes = 5
)

// txModeToBiggestTxSize maps a tx_mode to the largest transform size it
// permits, matching libvpx's table bit-for-bit.
var txModeToBiggestTxSize = [TxModes]int{Tx4x4, Tx8x8, Tx16x16, Tx32x32, Tx32x32}

// Reference modes for frame_reference_mode.
const (
	SingleReference = iota
	CompoundReference
	ReferenceModeSelect
)

// Interpolation filter selectors.
const (
	EightTap = iota
	EightTapSmooth
	EightTapSharp
	Bilinear
	SwitchableFilter
)

// Tile sizing bounds, in units of 64x64 superblocks.
const (
	MinTileWidthB64 = 4
	MaxTileWidthB64 = 64
)

// MaxTiles is the hard cap on tile columns this bridge will emit or parse;
// VP9 itself permits more, but the fuzzing harness this bridge serves
// never needs beyond 3 and the Record format reserves exactly 3 slots.
const MaxTiles = 3

// Color space identifiers (colorspace field of ColorConfig).
const (
	CsUnknown = iota
	CsBT601
	CsBT709
	CsSMPTE170
	CsSMPTE240
	CsBT2020
	CsReserved
	CsRGB
)

// Frame sync code, always emitted as a 24-bit constant for key frames.
const frameSyncCode = 0x498342

// minLog2TileCols/maxLog2TileCols compute the permissible range of
// tile_cols_log2 for a given superblock-column count, per §4.3.i.
func minLog2TileCols(sb64Cols int) int {
	minLog2 := 0
	for (MaxTileWidthB64 << minLog2) < sb64Cols {
		minLog2++
	}
	return minLog2
}

func maxLog2TileCols(sb64Cols int) int {
	maxLog2 := 1
	for (sb64Cols >> maxLog2) >= MinTileWidthB64 {
		maxLog2++
	}
	return maxLog2 - 1
}
