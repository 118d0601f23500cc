/*
NAME
  ivf.go

DESCRIPTION
  ivf.go provides IVF container encoding and decoding for a sequence of
  VP9 frames (§4.6). IVF wraps compressed video frames with a fixed
  32-byte container header and a 12-byte per-frame header carrying the
  frame's byte length and a timestamp.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ivf provides IVF container encoding and decoding, the byte
// envelope a sequence of VP9 frames is wrapped in for this bridge's
// byte-stream contract (§6.2).
package ivf

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	sizeofContainerHeader = 32
	sizeofFrameHeader     = 12

	// MaxFrames is the largest frame_count the container header's 2-byte
	// field is specified to carry for this bridge (§4.6's table).
	MaxFrames = 3

	headerLength    = 32
	timebaseDenom   = 1000
	timebaseNumer   = 1
)

// IVF is big-endian for its ASCII magic fields, little-endian for every
// numeric field, per §4.6's table.
var order = binary.LittleEndian

// ErrTooManyFrames is returned when more than MaxFrames frames are given
// to Encode.
var ErrTooManyFrames = errors.New("ivf: too many frames")

// ErrShortBuffer is returned when Decode is given fewer bytes than a
// fixed-size header requires.
var ErrShortBuffer = errors.New("ivf: buffer too short")

// ErrBadMagic is returned when the container or codec magic does not
// match the expected ASCII constant.
var ErrBadMagic = errors.New("ivf: bad magic")

// Header mirrors the 32-byte IVF container header's meaningful fields;
// Version, HeaderLength, and the DKIF/VP90/MICH magics are implicit and
// always written as their fixed constants; Decode checks only the DKIF
// and VP90 magics.
type Header struct {
	Width      uint16
	Height     uint16
	FrameCount uint16
}

// Frame is one VP9 frame's bytes plus its 8-byte IVF timestamp.
type Frame struct {
	Data      []byte
	Timestamp uint64
}

// Encode packs hdr and frames into a single IVF byte sequence: the
// 32-byte container header followed by each frame's 12-byte per-frame
// header and its bytes.
func Encode(hdr Header, frames []Frame) ([]byte, error) {
	if len(frames) > MaxFrames {
		return nil, errors.Wrapf(ErrTooManyFrames, "got %d frames, max %d", len(frames), MaxFrames)
	}

	total := sizeofContainerHeader
	for _, f := range frames {
		total += sizeofFrameHeader + len(f.Data)
	}
	b := make([]byte, total)

	copy(b[0:4], "DKIF")
	order.PutUint16(b[4:6], 0) // version.
	order.PutUint16(b[6:8], headerLength)
	copy(b[8:12], "VP90")
	order.PutUint16(b[12:14], hdr.Width)
	order.PutUint16(b[14:16], hdr.Height)
	order.PutUint32(b[16:20], timebaseDenom)
	order.PutUint32(b[20:24], timebaseNumer)
	order.PutUint16(b[24:26], uint16(len(frames)))
	copy(b[26:30], "MICH")
	// b[30:32] left zero ("unused").

	off := sizeofContainerHeader
	for _, f := range frames {
		order.PutUint32(b[off:off+4], uint32(len(f.Data)))
		order.PutUint64(b[off+4:off+12], f.Timestamp)
		copy(b[off+sizeofFrameHeader:], f.Data)
		off += sizeofFrameHeader + len(f.Data)
	}

	return b, nil
}

// Decode parses an IVF byte sequence into its header and frames.
func Decode(b []byte) (Header, []Frame, error) {
	if len(b) < sizeofContainerHeader {
		return Header{}, nil, errors.Wrapf(ErrShortBuffer, "container header needs %d bytes, got %d", sizeofContainerHeader, len(b))
	}
	if string(b[0:4]) != "DKIF" {
		return Header{}, nil, errors.Wrapf(ErrBadMagic, "want DKIF, got %q", b[0:4])
	}
	if string(b[8:12]) != "VP90" {
		return Header{}, nil, errors.Wrapf(ErrBadMagic, "want VP90, got %q", b[8:12])
	}

	hdr := Header{
		Width:      order.Uint16(b[12:14]),
		Height:     order.Uint16(b[14:16]),
		FrameCount: order.Uint16(b[24:26]),
	}

	frames := make([]Frame, 0, hdr.FrameCount)
	off := sizeofContainerHeader
	for i := 0; i < int(hdr.FrameCount); i++ {
		if off+sizeofFrameHeader > len(b) {
			return Header{}, nil, errors.Wrapf(ErrShortBuffer, "frame %d header needs %d bytes at offset %d, buffer is %d", i, sizeofFrameHeader, off, len(b))
		}
		size := int(order.Uint32(b[off : off+4]))
		ts := order.Uint64(b[off+4 : off+12])
		off += sizeofFrameHeader
		if off+size > len(b) {
			return Header{}, nil, errors.Wrapf(ErrShortBuffer, "frame %d data needs %d bytes at offset %d, buffer is %d", i, size, off, len(b))
		}
		frames = append(frames, Frame{Data: b[off : off+size], Timestamp: ts})
		off += size
	}

	return hdr, frames, nil
}
