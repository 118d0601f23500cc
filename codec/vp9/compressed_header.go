/*
DESCRIPTION
  compressed_header.go implements VP9's boolean-coded compressed header
  (§4.4): the sequence of probability-table updates that follows the
  uncompressed header, run entirely inside a single BoolEncoder/
  BoolDecoder session. DiffUpdateProb is modeled once as a parameterized
  operation (per §9's redesign note) and reused by every probability list
  below instead of being copy-pasted per section.
*/

package vp9

import "github.com/ausocean/vp9bridge/codec/vp9/boolcoder"

// Entry counts for the various fixed-size probability lists, named after
// the VP9 syntax element they correspond to.
const (
	txModeProbsCount      = 12
	coefProbsPerTxSize    = 396
	skipProbCount         = 3
	interModeProbsCount   = 21
	interpFilterProbsCount = 8
	isInterProbsCount     = 4
	referenceModeProbsCount = 5
	yModeProbsCount       = 36
	partitionProbsCount   = 48
	mvProbsCount          = 45
	mvProbsHpCount        = 4
)

// writeProbUpdateList writes n DiffUpdateProb entries sourced from list
// (missing entries default to "not present").
func writeProbUpdateList(e *boolcoder.BoolEncoder, list []ProbUpdate, n int) {
	for i := 0; i < n; i++ {
		p := at(list, i)
		e.DiffUpdateProb(p.Present, p.Value)
	}
}

// readProbUpdateList reads n DiffUpdateProb entries into a freshly
// allocated slice.
func readProbUpdateList(d *boolcoder.BoolDecoder, n int) []ProbUpdate {
	out := make([]ProbUpdate, n)
	for i := range out {
		present, value := d.DiffUpdateProb()
		out[i] = ProbUpdate{Present: present, Value: value}
	}
	return out
}

// writeMvProbUpdate writes one mv_probs entry: a p=252 presence bit, and
// if set, a 7-bit literal value rather than a subexponential delta (VP9's
// MV probability updates use a plain literal, unlike every other
// DiffUpdateProb-driven list).
func writeMvProbUpdate(e *boolcoder.BoolEncoder, p ProbUpdate) {
	e.WriteBool(p.Present, 252)
	if p.Present {
		e.WriteLiteral(uint32(p.Value), 7)
	}
}

func readMvProbUpdate(d *boolcoder.BoolDecoder) ProbUpdate {
	present := d.ReadBool(252)
	var v uint8
	if present {
		v = uint8(d.ReadLiteral(7))
	}
	return ProbUpdate{Present: present, Value: v}
}

// writeCompressedHeader writes f.Compressed's boolean-coded fields. The
// caller is responsible for running this between a fresh BoolEncoder and
// its ExitBool call (§4.7).
func writeCompressedHeader(e *boolcoder.BoolEncoder, f *Frame) {
	ch := &f.Compressed
	lossless := f.Quantization.Lossless()

	if lossless {
		ch.TxMode = Only4x4
	} else {
		literal := ch.TxMode
		if literal > Allow32x32 {
			literal = Allow32x32 // TX_MODE_SELECT is signaled via the extra bit below.
		}
		e.WriteLiteral(uint32(literal), 2)
		if literal == Allow32x32 {
			e.WriteBool(ch.TxMode == TxModeSelect, 128)
		}
	}

	if !lossless && ch.TxMode == TxModeSelect {
		writeProbUpdateList(e, ch.TxModeProbs, txModeProbsCount)
	}

	biggestTx := Tx4x4
	if !lossless {
		biggestTx = txModeToBiggestTxSize[ch.TxMode]
	}
	for txSz := Tx4x4; txSz <= biggestTx; txSz++ {
		c := at(ch.CoefProbs, txSz)
		e.WriteBool(c.UpdateProbs, 128)
		if c.UpdateProbs {
			writeProbUpdateList(e, c.Entries, coefProbsPerTxSize)
		}
	}

	writeProbUpdateList(e, ch.SkipProb, skipProbCount)

	if !f.FrameIsIntra() {
		writeProbUpdateList(e, ch.InterModeProbs, interModeProbsCount)
		if f.InterpolationFilter == SwitchableFilter {
			writeProbUpdateList(e, ch.InterpFilterProbs, interpFilterProbsCount)
		}
		writeProbUpdateList(e, ch.IsInterProbs, isInterProbsCount)

		compoundAllowed := f.CompoundReferenceAllowed()
		if !compoundAllowed {
			// Mirrors readFrameReferenceMode: when compound prediction isn't
			// available, reference_mode is always single_reference and no
			// reference_mode bits are present in the bitstream.
			ch.ReferenceMode = SingleReference
		}
		writeFrameReferenceMode(e, f, compoundAllowed)
		if ch.ReferenceMode == ReferenceModeSelect {
			writeProbUpdateList(e, ch.FrameReferenceModeProbs, referenceModeProbsCount)
		}
		if ch.ReferenceMode != CompoundReference {
			writeProbUpdateList(e, ch.FrameReferenceModeProbs, referenceModeProbsCount)
		}
		if ch.ReferenceMode != SingleReference {
			writeProbUpdateList(e, ch.FrameReferenceModeProbs, referenceModeProbsCount)
		}

		writeProbUpdateList(e, ch.YModeProbs, yModeProbsCount)
		writeProbUpdateList(e, ch.PartitionProbs, partitionProbsCount)

		for i := 0; i < mvProbsCount; i++ {
			writeMvProbUpdate(e, at(ch.MvProbs, i))
		}
		if f.AllowHighPrecisionMv {
			for i := 0; i < mvProbsHpCount; i++ {
				writeMvProbUpdate(e, at(ch.MvProbsHp, i))
			}
		}
	}
}

// writeFrameReferenceMode writes the non_single_reference/reference_select
// bit pair, deriving them from ch.ReferenceMode.
func writeFrameReferenceMode(e *boolcoder.BoolEncoder, f *Frame, compoundAllowed bool) {
	if !compoundAllowed {
		return
	}
	nonSingle := f.Compressed.ReferenceMode != SingleReference
	e.WriteBool(nonSingle, 128)
	if nonSingle {
		e.WriteBool(f.Compressed.ReferenceMode == ReferenceModeSelect, 128)
	}
}

// readCompressedHeader parses f.Compressed's boolean-coded fields,
// mirroring writeCompressedHeader exactly.
func readCompressedHeader(d *boolcoder.BoolDecoder, f *Frame) {
	ch := &f.Compressed
	lossless := f.Quantization.Lossless()

	if lossless {
		ch.TxMode = Only4x4
	} else {
		mode := uint8(d.ReadLiteral(2))
		if mode == Allow32x32 && d.ReadBool(128) {
			mode = TxModeSelect
		}
		ch.TxMode = mode
	}

	if !lossless && ch.TxMode == TxModeSelect {
		ch.TxModeProbs = readProbUpdateList(d, txModeProbsCount)
	}

	biggestTx := Tx4x4
	if !lossless {
		biggestTx = txModeToBiggestTxSize[ch.TxMode]
	}
	ch.CoefProbs = make([]CoefProbsForTxSize, biggestTx-Tx4x4+1)
	for txSz := Tx4x4; txSz <= biggestTx; txSz++ {
		update := d.ReadBool(128)
		c := CoefProbsForTxSize{UpdateProbs: update}
		if update {
			c.Entries = readProbUpdateList(d, coefProbsPerTxSize)
		}
		ch.CoefProbs[txSz-Tx4x4] = c
	}

	ch.SkipProb = readProbUpdateList(d, skipProbCount)

	if !f.FrameIsIntra() {
		ch.InterModeProbs = readProbUpdateList(d, interModeProbsCount)
		if f.InterpolationFilter == SwitchableFilter {
			ch.InterpFilterProbs = readProbUpdateList(d, interpFilterProbsCount)
		}
		ch.IsInterProbs = readProbUpdateList(d, isInterProbsCount)

		compoundAllowed := f.CompoundReferenceAllowed()
		readFrameReferenceMode(d, f, compoundAllowed)
		if ch.ReferenceMode == ReferenceModeSelect {
			ch.FrameReferenceModeProbs = readProbUpdateList(d, referenceModeProbsCount)
		}
		if ch.ReferenceMode != CompoundReference {
			ch.FrameReferenceModeProbs = readProbUpdateList(d, referenceModeProbsCount)
		}
		if ch.ReferenceMode != SingleReference {
			ch.FrameReferenceModeProbs = readProbUpdateList(d, referenceModeProbsCount)
		}

		ch.YModeProbs = readProbUpdateList(d, yModeProbsCount)
		ch.PartitionProbs = readProbUpdateList(d, partitionProbsCount)

		ch.MvProbs = make([]ProbUpdate, mvProbsCount)
		for i := range ch.MvProbs {
			ch.MvProbs[i] = readMvProbUpdate(d)
		}
		if f.AllowHighPrecisionMv {
			ch.MvProbsHp = make([]ProbUpdate, mvProbsHpCount)
			for i := range ch.MvProbsHp {
				ch.MvProbsHp[i] = readMvProbUpdate(d)
			}
		}
	}
}

func readFrameReferenceMode(d *boolcoder.BoolDecoder, f *Frame, compoundAllowed bool) {
	if !compoundAllowed {
		f.Compressed.ReferenceMode = SingleReference
		return
	}
	if !d.ReadBool(128) {
		f.Compressed.ReferenceMode = SingleReference
		return
	}
	if d.ReadBool(128) {
		f.Compressed.ReferenceMode = ReferenceModeSelect
	} else {
		f.Compressed.ReferenceMode = CompoundReference
	}
}
