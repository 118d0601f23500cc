/*
DESCRIPTION
  boolcoder.go implements the VP9 boolean (binary arithmetic) coder used to
  serialize and parse a frame's compressed header: an encoder/decoder pair
  sharing an 8-bit probability contract, following the same split/range/
  renormalize shape as libvpx's vp9_writer and vpx_reader.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package boolcoder implements VP9's boolean arithmetic coder: a
// BoolEncoder/BoolDecoder pair operating on 8-bit probabilities, used by
// the compressed-header codec. Probabilities are P(bit==0), in [1,255].
package boolcoder

import (
	"github.com/pkg/errors"
)

// ErrOverflow is returned when the encoder's fixed scratch buffer would be
// exceeded by a write, or when the decoder is asked to read beyond a
// previously padded-out region it cannot recover bits from.
var ErrOverflow = errors.New("boolcoder: buffer overflow")

// bufferSize is the BoolEncoder's fixed scratch buffer, sized generously
// above any single VP9 compressed header this bridge will ever produce.
const bufferSize = 65536

// vpxNorm[d] gives the number of left-shifts needed to bring d into the
// range [128,256), i.e. the count of leading zero bits above bit 7.
// Matches libvpx's vpx_norm table bit-for-bit.
var vpxNorm = [256]uint8{
	0, 7, 6, 6, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4, 4, 4, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// uniformL is the bit width used by the Uniform encoding's literal prefix.
const uniformL = 8

// uniformM is (1<<uniformL) - 191, the threshold below which Uniform
// encodes a value directly in uniformL-1 bits.
const uniformM = (1 << uniformL) - 191

// BoolEncoder implements VP9's boolean arithmetic encoder.
type BoolEncoder struct {
	lowValue uint32
	rng      uint32
	count    int32
	buffer   [bufferSize]byte
	pos      uint32
}

// NewBoolEncoder returns an initialized BoolEncoder, ready for writes.
func NewBoolEncoder() *BoolEncoder {
	e := &BoolEncoder{}
	e.initBool()
	return e
}

// initBool sets the encoder to its starting state and writes the leading
// marker bit expected by the decoder's InitBool.
func (e *BoolEncoder) initBool() {
	e.lowValue = 0
	e.rng = 255
	e.count = -24
	e.pos = 0
	e.WriteBool(false, 128)
}

// WriteBool encodes a single bit under the given probability of a 0 bit
// (prob must be in [1,255]).
func (e *BoolEncoder) WriteBool(bit bool, prob uint8) {
	split := uint32(1 + (((e.rng - 1) * uint32(prob)) >> 8))
	rng := split
	if bit {
		e.lowValue += split
		rng = e.rng - split
	}

	shift := int32(vpxNorm[rng])
	rng <<= uint(shift)
	count := e.count + shift

	if count >= 0 {
		offset := shift - count
		if (e.lowValue<<uint(offset-1))&0x80000000 != 0 {
			x := int(e.pos) - 1
			for x >= 0 && e.buffer[x] == 0xff {
				e.buffer[x] = 0
				x--
			}
			if x >= 0 {
				e.buffer[x]++
			}
		}
		e.buffer[e.pos] = byte((e.lowValue >> uint(24-offset)) & 0xff)
		e.pos++
		e.lowValue <<= uint(offset)
		shift = count
		e.lowValue &= 0xffffff
		count -= 8
	}

	e.lowValue <<= uint(shift)
	e.count = count
	e.rng = rng
}

// WriteLiteral writes the low n bits of b, MSB-first, each under p=128.
func (e *BoolEncoder) WriteLiteral(b uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		e.WriteBool((b>>uint(i))&1 != 0, 128)
	}
}

// WriteUniform encodes v using VP9's "Uniform" scheme: values below 65 are
// sent directly in 7 bits; larger values are recentered around 65 and sent
// as 7 bits plus a parity bit. Used for the Uniform(v) field inside
// DecodeTermSubexp.
func (e *BoolEncoder) WriteUniform(v uint32) {
	if v < uniformM {
		e.WriteLiteral(v, uniformL-1)
		return
	}
	w := uint32(uniformM) + ((v - uniformM) >> 1)
	e.WriteLiteral(w, uniformL-1)
	e.WriteBool((v-uniformM)&1 != 0, 128)
}

// WriteTermSubexp encodes v (an unsigned delta, as used by DiffUpdateProb)
// using VP9's subexponential code: a short literal for small values,
// escalating through three size bands before falling back to Uniform.
func (e *BoolEncoder) WriteTermSubexp(v uint32) {
	switch {
	case v < 16:
		e.WriteBool(false, 128)
		e.WriteLiteral(v, 4)
	case v < 32:
		e.WriteBool(true, 128)
		e.WriteBool(false, 128)
		e.WriteLiteral(v-16, 4)
	case v < 64:
		e.WriteBool(true, 128)
		e.WriteBool(true, 128)
		e.WriteBool(false, 128)
		e.WriteLiteral(v-32, 5)
	default:
		e.WriteBool(true, 128)
		e.WriteBool(true, 128)
		e.WriteBool(true, 128)
		e.WriteUniform(v - 64)
	}
}

// ExitBool flushes the coder and returns the final encoded byte slice.
// Flushing writes 32 padding bits and appends an extra zero byte if the
// final byte has the 110xxxxx form of a superframe index marker.
func (e *BoolEncoder) ExitBool() []byte {
	for i := 0; i < 32; i++ {
		e.WriteBool(false, 128)
	}
	if e.pos > 0 && (e.buffer[e.pos-1]&0xe0) == 0xc0 {
		e.buffer[e.pos] = 0
		e.pos++
	}
	return e.buffer[:e.pos]
}

// Pos returns the number of bytes written so far, i.e. header_size_in_bytes
// once ExitBool has been called.
func (e *BoolEncoder) Pos() int {
	return int(e.pos)
}

// BoolDecoder implements VP9's boolean arithmetic decoder, the mirror of
// BoolEncoder. The renormalization loop follows the classic single-byte
// lookahead structure (as used by the public-domain "dixie" VP8 reference
// decoder) rather than libvpx's wide-register variant, since both are
// arithmetically equivalent and the narrower form is easier to reason
// about bit-for-bit in Go.
type BoolDecoder struct {
	data       []byte
	bytePos    int
	value      uint64
	rng        uint32
	bitsFilled uint
	maxBits    int64
}

// NewBoolDecoder returns a BoolDecoder initialized over data, consuming the
// leading marker bit that BoolEncoder's initBool writes.
func NewBoolDecoder(data []byte) *BoolDecoder {
	d := &BoolDecoder{data: data}
	d.initBool()
	return d
}

// initBool sets up decoder state mirroring BoolEncoder.initBool.
func (d *BoolDecoder) initBool() {
	d.rng = 255
	d.maxBits = int64(len(d.data))*8 - 8
	d.value = uint64(d.nextByte()) << 8
	d.value |= uint64(d.nextByte())
	d.bitsFilled = 0
	d.ReadBool(128)
}

// nextByte returns the next input byte, or 0 once the input is exhausted
// (the decoder is still expected to consume the 32 flush bits written by
// ExitBool, which may run past the real data).
func (d *BoolDecoder) nextByte() byte {
	if d.bytePos < len(d.data) {
		b := d.data[d.bytePos]
		d.bytePos++
		d.maxBits -= 8
		return b
	}
	return 0
}

// ReadBool decodes a single bit under the given probability of a 0 bit.
func (d *BoolDecoder) ReadBool(prob uint8) bool {
	split := uint32(1 + (((d.rng - 1) * uint32(prob)) >> 8))
	bigSplit := uint64(split) << 8

	var bit bool
	if d.value >= bigSplit {
		bit = true
		d.rng -= split
		d.value -= bigSplit
	} else {
		d.rng = split
	}

	for d.rng < 128 {
		d.value <<= 1
		d.rng <<= 1
		d.bitsFilled++
		if d.bitsFilled == 8 {
			d.bitsFilled = 0
			d.value |= uint64(d.nextByte())
		}
	}
	return bit
}

// ReadLiteral reads n bits MSB-first, each under p=128, and returns them
// combined into a uint32.
func (d *BoolDecoder) ReadLiteral(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v <<= 1
		if d.ReadBool(128) {
			v |= 1
		}
	}
	return v
}

// ReadUniform decodes a value encoded by WriteUniform.
func (d *BoolDecoder) ReadUniform() uint32 {
	v := d.ReadLiteral(uniformL - 1)
	if v < uniformM {
		return v
	}
	bit := uint32(0)
	if d.ReadBool(128) {
		bit = 1
	}
	return (v << 1) - uniformM + bit
}

// ReadTermSubexp decodes a value encoded by WriteTermSubexp.
func (d *BoolDecoder) ReadTermSubexp() uint32 {
	if !d.ReadBool(128) {
		return d.ReadLiteral(4)
	}
	if !d.ReadBool(128) {
		return d.ReadLiteral(4) + 16
	}
	if !d.ReadBool(128) {
		return d.ReadLiteral(5) + 32
	}
	return d.ReadUniform() + 64
}

// ExitBool discards the remaining padding bits written by the encoder's
// ExitBool. It never fails: running out of real input bits here is
// expected, since the flush region is bit-meaningless padding.
func (d *BoolDecoder) ExitBool() {}

// DiffUpdateProb encodes an updated probability value against cur using
// VP9's update-flag-plus-subexponential-delta scheme: a single Boolean bit
// at p=252 signals whether an update follows; if so, the delta between
// cur and updated (VP9's inv_remap_table-recentered encoding) is written
// via WriteTermSubexp. If updated equals cur no actual delta needs
// encoding, but the update flag must still reflect whether the Record
// supplied an explicit value for this slot.
func (e *BoolEncoder) DiffUpdateProb(present bool, value uint8) {
	e.WriteBool(present, 252)
	if present {
		e.WriteTermSubexp(uint32(value))
	}
}

// DiffUpdateProb mirrors BoolEncoder.DiffUpdateProb: reads the update flag
// and, if set, the subexponential delta, returning whether an update was
// present and the decoded raw value.
func (d *BoolDecoder) DiffUpdateProb() (present bool, value uint8) {
	present = d.ReadBool(252)
	if present {
		value = uint8(d.ReadTermSubexp())
	}
	return present, value
}
