/*
DESCRIPTION
  uncompressed_header.go implements VP9's uncompressed frame header: the
  bit-packed fields read before the boolean-coded compressed header
  begins, per §4.3. Field order and presence rules follow the VP9
  bitstream syntax exactly; Record accessors supply values that the real
  codec would otherwise derive from reference-frame and probability-
  context state this bridge does not model (§1 Non-goals).
*/

package vp9

// literalToFilter maps the 2-bit raw_interpolation_filter code to VP9's
// named interpolation filter constants.
var literalToFilter = [4]uint8{EightTapSmooth, EightTap, EightTapSharp, Bilinear}

// filterToLiteral is the inverse of literalToFilter.
func filterToLiteral(f uint8) uint8 {
	for i, v := range literalToFilter {
		if v == f {
			return uint8(i)
		}
	}
	return 0
}

const numSegments = 8

// writeUncompressedHeader writes f's uncompressed header into w, returning
// the bit position of the header_size_in_bytes placeholder so the caller
// can patch it in once the compressed header's length is known.
func writeUncompressedHeader(w *bitFieldWriter, f *Frame) (headerSizePos int) {
	w.writeBits(0b10, 2) // frame_marker.

	profileLow := f.Profile & 1
	profileHigh := (f.Profile >> 1) & 1
	w.writeBit(profileLow != 0)
	w.writeBit(profileHigh != 0)
	if f.Profile == 3 {
		w.writeBit(false) // reserved_zero.
	}

	w.writeBit(f.ShowExistingFrame)
	if f.ShowExistingFrame {
		w.writeBits(uint64(f.FrameToShowMapIdx), 3)
		return -1 // header_size_in_bytes is not present.
	}

	w.writeBit(f.FrameType != KeyFrame)
	w.writeBit(f.ShowFrame)
	w.writeBit(f.ErrorResilientMode)

	if f.FrameType == KeyFrame {
		w.writeBytesAsBits([]byte{0x49, 0x83, 0x42}, 24) // frame_sync_code.
		writeColorConfig(w, f)
		writeFrameSize(w, f)
		writeRenderSize(w, f)
	} else {
		if !f.ShowFrame {
			w.writeBit(f.IntraOnly)
		}
		if !f.ErrorResilientMode {
			w.writeBits(uint64(f.ResetFrameContext), 2)
		}
		if f.IntraOnly {
			w.writeBytesAsBits([]byte{0x49, 0x83, 0x42}, 24)
			if f.Profile > 0 {
				writeColorConfig(w, f)
			}
			w.writeBits(uint64(f.RefreshFrameFlags), 8)
			writeFrameSize(w, f)
			writeRenderSize(w, f)
		} else {
			w.writeBits(uint64(f.RefreshFrameFlags), 8)
			for i := 0; i < refFrames; i++ {
				rf := at(f.RefFrames, i)
				w.writeBits(uint64(rf.Idx), 3)
				w.writeBit(rf.SignBias)
			}
			writeFrameSizeWithRefs(w, f)
			w.writeBit(f.AllowHighPrecisionMv)
			writeInterpolationFilter(w, f)
		}
	}

	if !f.ErrorResilientMode {
		w.writeBit(f.RefreshFrameContext)
		w.writeBit(f.FrameParallelDecodingMode)
	}
	w.writeBits(uint64(f.FrameContextIdx), 2)

	writeLoopFilterParams(w, f)
	writeQuantizationParams(w, f)
	writeSegmentationParams(w, f)
	writeTileInfo(w, f)

	pos := w.sink.BitPos()
	w.writeBits(0, 16) // header_size_in_bytes placeholder.
	return pos
}

func writeColorConfig(w *bitFieldWriter, f *Frame) {
	c := f.ColorConfig
	if f.Profile >= 2 {
		w.writeBit(c.TenOrTwelveBit)
	}
	w.writeBits(uint64(c.ColorSpace), 3)
	if c.ColorSpace != CsRGB {
		w.writeBit(c.ColorRange)
		if f.Profile == 1 || f.Profile == 3 {
			w.writeBit(c.SubsamplingX)
			w.writeBit(c.SubsamplingY)
			w.writeBit(false) // reserved_zero.
		}
	} else {
		if f.Profile == 1 || f.Profile == 3 {
			w.writeBit(false) // reserved_zero.
		}
	}
}

func writeFrameSize(w *bitFieldWriter, f *Frame) {
	w.writeBits(uint64(f.FrameSize.WidthMinus1), 16)
	w.writeBits(uint64(f.FrameSize.HeightMinus1), 16)
}

func writeRenderSize(w *bitFieldWriter, f *Frame) {
	w.writeBit(f.RenderSize.Different)
	if f.RenderSize.Different {
		w.writeBits(uint64(f.RenderSize.WidthMinus1), 16)
		w.writeBits(uint64(f.RenderSize.HeightMinus1), 16)
	}
}

// writeFrameSizeWithRefs models frame_size_with_refs(): up to 3 found_ref
// bits, one per candidate reference, stopping at the first match; a
// frame_size()/render_size() pair is written only when no reference
// supplied the dimensions.
func writeFrameSizeWithRefs(w *bitFieldWriter, f *Frame) {
	found := false
	for i := 0; i < refFrames; i++ {
		f2 := at(f.FoundRef, i)
		w.writeBit(f2)
		if f2 {
			found = true
			break
		}
	}
	if !found {
		writeFrameSize(w, f)
	}
	writeRenderSize(w, f)
}

func writeInterpolationFilter(w *bitFieldWriter, f *Frame) {
	if f.InterpolationFilter == SwitchableFilter {
		w.writeBit(true)
		return
	}
	w.writeBit(false)
	w.writeBits(uint64(filterToLiteral(f.InterpolationFilter)), 2)
}

func writeLoopFilterParams(w *bitFieldWriter, f *Frame) {
	lf := f.LoopFilter
	w.writeBits(uint64(lf.Level), 6)
	w.writeBits(uint64(lf.Sharpness), 3)
	w.writeBit(lf.DeltaEnabled)
	if !lf.DeltaEnabled {
		return
	}
	w.writeBit(lf.DeltaUpdate)
	if !lf.DeltaUpdate {
		return
	}
	for i := 0; i < 4; i++ {
		d := at(lf.RefDelta, i)
		w.writeBit(d.Present)
		if d.Present {
			w.writeSigned(d.Value, 6)
		}
	}
	for i := 0; i < 2; i++ {
		d := at(lf.ModeDelta, i)
		w.writeBit(d.Present)
		if d.Present {
			w.writeSigned(d.Value, 6)
		}
	}
}

func writeDeltaQ(w *bitFieldWriter, s Signed) {
	coded := s.Magnitude != 0
	w.writeBit(coded)
	if coded {
		w.writeSigned(s, 4)
	}
}

func writeQuantizationParams(w *bitFieldWriter, f *Frame) {
	q := f.Quantization
	w.writeBits(uint64(q.BaseQIdx), 8)
	writeDeltaQ(w, q.DeltaQYDc)
	writeDeltaQ(w, q.DeltaQUVDc)
	writeDeltaQ(w, q.DeltaQUVAc)
}

// writeProb writes VP9's read_prob() convention: a presence bit, then an
// explicit 8-bit probability only if present (default is 255 otherwise).
func writeProb(w *bitFieldWriter, present bool, value uint8) {
	w.writeBit(present)
	if present {
		w.writeBits(uint64(value), 8)
	}
}

func writeSegmentationParams(w *bitFieldWriter, f *Frame) {
	s := f.Segmentation
	w.writeBit(s.Enabled)
	if !s.Enabled {
		return
	}
	w.writeBit(s.UpdateMap)
	if s.UpdateMap {
		for i := 0; i < 7; i++ {
			p := atProb(s.TreeProbs, i)
			writeProb(w, p != 255, p)
		}
		w.writeBit(s.TemporalUpdate)
		for i := 0; i < 3; i++ {
			p := atProb(s.PredProbs, i)
			if s.TemporalUpdate {
				writeProb(w, p != 255, p)
			}
		}
	}
	w.writeBit(s.UpdateData)
	if s.UpdateData {
		w.writeBit(s.AbsOrDeltaUpdate)
		for seg := 0; seg < numSegments; seg++ {
			for feat := 0; feat < SegLvlMax; feat++ {
				idx := seg*SegLvlMax + feat
				sf := at(s.Features, idx)
				w.writeBit(sf.Enabled)
				if !sf.Enabled {
					continue
				}
				bitsN := segmentationFeatureBits[feat]
				w.writeBits(uint64(sf.Value.Magnitude), bitsN)
				if segmentationFeatureSigned[feat] {
					w.writeBit(sf.Value.Negative)
				}
			}
		}
	}
}

func writeTileInfo(w *bitFieldWriter, f *Frame) {
	miCols := (int(f.FrameSize.WidthMinus1) + 1 + 7) >> 3
	sb64Cols := (miCols + 7) >> 3
	minLog2 := minLog2TileCols(sb64Cols)
	maxLog2 := maxLog2TileCols(sb64Cols)

	target := f.TileCols.TileColsLog2
	if target < minLog2 {
		target = minLog2
	}
	if target > maxLog2 {
		target = maxLog2
	}

	tileColsLog2 := minLog2
	for tileColsLog2 < maxLog2 {
		want := tileColsLog2 < target
		w.writeBit(want)
		if !want {
			break
		}
		tileColsLog2++
	}

	rowsLog2 := f.TileCols.TileRowsLog2
	if rowsLog2 >= 1 {
		w.writeBit(true)
		w.writeBit(rowsLog2 >= 2)
	} else {
		w.writeBit(false)
	}
}
