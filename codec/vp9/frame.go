/*
DESCRIPTION
  frame.go provides the top-level per-frame orchestration described in
  §4.7: emit the uncompressed header leaving header_size_in_bytes open,
  run the boolean coder over the compressed header, patch the size back
  in, byte-align, and append the compressed payload and tile section (and
  mirror that sequence on the parse side). Each call builds fresh state
  (BitSink/BitSource/BoolEncoder/BoolDecoder); no package-level mutable
  state is shared across frames, so independent frames may be encoded or
  decoded concurrently from separate goroutines (§5).
*/

package vp9

import (
	"github.com/ausocean/vp9bridge/codec/vp9/bits"
	"github.com/ausocean/vp9bridge/codec/vp9/boolcoder"
)

// EncodeFrame serializes f into a single VP9 frame's bytes.
func EncodeFrame(f *Frame, log Logger) ([]byte, error) {
	log = logOrNop(log)
	sink := bits.NewBitSink()
	w := newBitFieldWriter(sink)

	headerSizePos := writeUncompressedHeader(&w, f)
	if headerSizePos < 0 {
		log(LevelDebug, "encoded show_existing_frame, skipping compressed header and tiles")
		sink.AlignToByte()
		return sink.Finalize(), nil
	}

	e := boolcoder.NewBoolEncoder()
	writeCompressedHeader(e, f)
	payload := e.ExitBool()
	if len(payload) > 0xffff {
		return nil, ErrBoolCoderOverflow
	}
	log(LevelDebug, "compressed header built", "bytes", len(payload))

	sink.WriteUintAt(uint64(len(payload)), 16, headerSizePos)
	sink.AlignToByte()
	sink.AppendBytes(payload)

	if writeTiles(&w, f.Tiles) {
		log(LevelWarning, ErrTooManyTiles.Error(), "tile_count", len(f.Tiles), "max_tiles", MaxTiles)
	}

	return sink.Finalize(), nil
}

// DecodeFrame parses a single VP9 frame's bytes into a Frame.
func DecodeFrame(data []byte, log Logger) (*Frame, error) {
	log = logOrNop(log)
	src := bits.NewBitSource(data)
	r := newBitFieldReader(src)

	f, headerSize, err := readUncompressedHeader(&r)
	if err != nil {
		return nil, wrapField(err, "uncompressed_header")
	}
	if f.ShowExistingFrame {
		log(LevelDebug, "parsed show_existing_frame", "frame_to_show_map_idx", f.FrameToShowMapIdx)
		return f, nil
	}

	src.SkipToByte()
	remaining := src.Remaining()
	if headerSize > len(remaining) {
		return nil, wrapField(ErrReadPastEnd, "compressed_header")
	}
	payload := remaining[:headerSize]
	if err := src.Advance(headerSize); err != nil {
		return nil, wrapField(err, "compressed_header")
	}
	log(LevelDebug, "parsing compressed header", "bytes", headerSize)

	d := boolcoder.NewBoolDecoder(payload)
	readCompressedHeader(d, f)
	d.ExitBool()

	tilesLen := src.Len() - src.BitPos()/8
	tiles, err := readTiles(&r, tilesLen)
	if err != nil {
		return nil, wrapField(err, "tiles")
	}
	f.Tiles = tiles

	return f, nil
}
