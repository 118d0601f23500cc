package vp9

// readUncompressedHeader parses a Frame's uncompressed header from r,
// returning the parsed Frame and the header_size_in_bytes value (0 when
// show_existing_frame short-circuits the rest of the header).
func readUncompressedHeader(r *bitFieldReader) (*Frame, int, error) {
	f := &Frame{}

	marker := r.readBits(2)
	if marker != 0b10 {
		return nil, 0, wrapField(ErrInvalidConstant, "frame_marker")
	}

	profileLow := r.readBit()
	profileHigh := r.readBit()
	f.Profile = b2u8(profileHigh)<<1 | b2u8(profileLow)
	if f.Profile == 3 {
		r.readBit() // reserved_zero.
	}

	f.ShowExistingFrame = r.readBit()
	if f.ShowExistingFrame {
		f.FrameToShowMapIdx = uint8(r.readBits(3))
		return f, 0, r.err()
	}

	if r.readBit() {
		f.FrameType = NonKeyFrame
	} else {
		f.FrameType = KeyFrame
	}
	f.ShowFrame = r.readBit()
	f.ErrorResilientMode = r.readBit()

	if f.FrameType == KeyFrame {
		if err := readFrameSyncCode(r); err != nil {
			return nil, 0, err
		}
		readColorConfigInto(r, f)
		readFrameSizeInto(r, f)
		readRenderSizeInto(r, f)
		f.RefreshFrameFlags = 0xff
	} else {
		if !f.ShowFrame {
			f.IntraOnly = r.readBit()
		}
		if !f.ErrorResilientMode {
			f.ResetFrameContext = uint8(r.readBits(2))
		}
		if f.IntraOnly {
			if err := readFrameSyncCode(r); err != nil {
				return nil, 0, err
			}
			if f.Profile > 0 {
				readColorConfigInto(r, f)
			} else {
				f.ColorConfig = ColorConfig{ColorSpace: CsBT601, SubsamplingX: true, SubsamplingY: true}
			}
			f.RefreshFrameFlags = uint8(r.readBits(8))
			readFrameSizeInto(r, f)
			readRenderSizeInto(r, f)
		} else {
			f.RefreshFrameFlags = uint8(r.readBits(8))
			f.RefFrames = make([]RefFrame, refFrames)
			for i := 0; i < refFrames; i++ {
				f.RefFrames[i] = RefFrame{
					Idx:      uint8(r.readBits(3)),
					SignBias: r.readBit(),
				}
			}
			readFrameSizeWithRefsInto(r, f)
			f.AllowHighPrecisionMv = r.readBit()
			readInterpolationFilterInto(r, f)
		}
	}

	if !f.ErrorResilientMode {
		f.RefreshFrameContext = r.readBit()
		f.FrameParallelDecodingMode = r.readBit()
	} else {
		f.FrameParallelDecodingMode = true
	}
	f.FrameContextIdx = uint8(r.readBits(2))

	readLoopFilterParamsInto(r, f)
	readQuantizationParamsInto(r, f)
	readSegmentationParamsInto(r, f)
	readTileInfoInto(r, f)

	headerSize := int(r.readBits(16))

	if err := r.err(); err != nil {
		return nil, 0, err
	}
	return f, headerSize, nil
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func readFrameSyncCode(r *bitFieldReader) error {
	b := r.readBytesAsBits(24)
	if r.err() != nil {
		return r.err()
	}
	if len(b) != 3 || b[0] != 0x49 || b[1] != 0x83 || b[2] != 0x42 {
		return wrapField(ErrInvalidConstant, "frame_sync_code")
	}
	return nil
}

func readColorConfigInto(r *bitFieldReader, f *Frame) {
	var c ColorConfig
	if f.Profile >= 2 {
		c.TenOrTwelveBit = r.readBit()
	}
	c.ColorSpace = uint8(r.readBits(3))
	if c.ColorSpace != CsRGB {
		c.ColorRange = r.readBit()
		if f.Profile == 1 || f.Profile == 3 {
			c.SubsamplingX = r.readBit()
			c.SubsamplingY = r.readBit()
			r.readBit() // reserved_zero.
		} else {
			c.SubsamplingX = true
			c.SubsamplingY = true
		}
	} else {
		c.ColorRange = true
		if f.Profile == 1 || f.Profile == 3 {
			r.readBit() // reserved_zero.
		}
	}
	f.ColorConfig = c
}

func readFrameSizeInto(r *bitFieldReader, f *Frame) {
	f.FrameSize = FrameSize{
		WidthMinus1:  uint16(r.readBits(16)),
		HeightMinus1: uint16(r.readBits(16)),
	}
}

func readRenderSizeInto(r *bitFieldReader, f *Frame) {
	different := r.readBit()
	rs := RenderSize{Different: different}
	if different {
		rs.WidthMinus1 = uint16(r.readBits(16))
		rs.HeightMinus1 = uint16(r.readBits(16))
	}
	f.RenderSize = rs
}

func readFrameSizeWithRefsInto(r *bitFieldReader, f *Frame) {
	f.FoundRef = make([]bool, refFrames)
	found := false
	for i := 0; i < refFrames; i++ {
		b := r.readBit()
		f.FoundRef[i] = b
		if b {
			found = true
			break
		}
	}
	if !found {
		readFrameSizeInto(r, f)
	}
	readRenderSizeInto(r, f)
}

func readInterpolationFilterInto(r *bitFieldReader, f *Frame) {
	if r.readBit() {
		f.InterpolationFilter = SwitchableFilter
		return
	}
	lit := uint8(r.readBits(2))
	f.InterpolationFilter = literalToFilter[lit]
}

func readLoopFilterParamsInto(r *bitFieldReader, f *Frame) {
	var lf LoopFilterParams
	lf.Level = uint8(r.readBits(6))
	lf.Sharpness = uint8(r.readBits(3))
	lf.DeltaEnabled = r.readBit()
	if lf.DeltaEnabled {
		lf.DeltaUpdate = r.readBit()
		if lf.DeltaUpdate {
			lf.RefDelta = make([]ProbUpdateSigned, 4)
			for i := 0; i < 4; i++ {
				present := r.readBit()
				var v Signed
				if present {
					v = r.readSigned(6)
				}
				lf.RefDelta[i] = ProbUpdateSigned{Present: present, Value: v}
			}
			lf.ModeDelta = make([]ProbUpdateSigned, 2)
			for i := 0; i < 2; i++ {
				present := r.readBit()
				var v Signed
				if present {
					v = r.readSigned(6)
				}
				lf.ModeDelta[i] = ProbUpdateSigned{Present: present, Value: v}
			}
		}
	}
	f.LoopFilter = lf
}

func readDeltaQ(r *bitFieldReader) Signed {
	if !r.readBit() {
		return Signed{}
	}
	return r.readSigned(4)
}

func readQuantizationParamsInto(r *bitFieldReader, f *Frame) {
	var q QuantizationParams
	q.BaseQIdx = uint8(r.readBits(8))
	q.DeltaQYDc = readDeltaQ(r)
	q.DeltaQUVDc = readDeltaQ(r)
	q.DeltaQUVAc = readDeltaQ(r)
	f.Quantization = q
}

func readProb(r *bitFieldReader) uint8 {
	if !r.readBit() {
		return 255
	}
	return uint8(r.readBits(8))
}

func readSegmentationParamsInto(r *bitFieldReader, f *Frame) {
	var s SegmentationParams
	s.Enabled = r.readBit()
	if s.Enabled {
		s.UpdateMap = r.readBit()
		if s.UpdateMap {
			s.TreeProbs = make([]uint8, 7)
			for i := range s.TreeProbs {
				s.TreeProbs[i] = readProb(r)
			}
			s.TemporalUpdate = r.readBit()
			s.PredProbs = make([]uint8, 3)
			for i := range s.PredProbs {
				if s.TemporalUpdate {
					s.PredProbs[i] = readProb(r)
				} else {
					s.PredProbs[i] = 255
				}
			}
		}
		s.UpdateData = r.readBit()
		if s.UpdateData {
			s.AbsOrDeltaUpdate = r.readBit()
			s.Features = make([]SegmentationFeature, numSegments*SegLvlMax)
			for seg := 0; seg < numSegments; seg++ {
				for feat := 0; feat < SegLvlMax; feat++ {
					idx := seg*SegLvlMax + feat
					enabled := r.readBit()
					var v Signed
					if enabled {
						v.Magnitude = uint32(r.readBits(segmentationFeatureBits[feat]))
						if segmentationFeatureSigned[feat] {
							v.Negative = r.readBit()
						}
					}
					s.Features[idx] = SegmentationFeature{Enabled: enabled, Value: v}
				}
			}
		}
	}
	f.Segmentation = s
}

func readTileInfoInto(r *bitFieldReader, f *Frame) {
	miCols := (int(f.FrameSize.WidthMinus1) + 1 + 7) >> 3
	sb64Cols := (miCols + 7) >> 3
	minLog2 := minLog2TileCols(sb64Cols)
	maxLog2 := maxLog2TileCols(sb64Cols)

	tileColsLog2 := minLog2
	for tileColsLog2 < maxLog2 {
		if !r.readBit() {
			break
		}
		tileColsLog2++
	}

	tileRowsLog2 := 0
	if r.readBit() {
		tileRowsLog2 = 1
		if r.readBit() {
			tileRowsLog2 = 2
		}
	}

	f.TileCols = TileInfo{TileColsLog2: tileColsLog2, TileRowsLog2: tileRowsLog2}
}
