/*
DESCRIPTION
  tile.go implements VP9's tile section (§4.5): a sequence of opaque
  partition byte blocks, all but the last prefixed with a 32-bit
  big-endian length, capped at MaxTiles columns.
*/

package vp9

import "encoding/binary"

// writeTiles appends f.Tiles to w as the tile section: every tile but the
// last is prefixed with its 32-bit big-endian byte length; extra tiles
// beyond MaxTiles are discarded per §9, reported via the returned
// truncated flag so the caller can log it (ErrTooManyTiles).
func writeTiles(w *bitFieldWriter, tiles []Tile) (truncated bool) {
	n := len(tiles)
	if n > MaxTiles {
		n = MaxTiles
		truncated = true
	}
	for i := 0; i < n; i++ {
		data := tiles[i].Data
		if i < n-1 {
			var lenBuf [4]byte
			binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
			w.writeBytesAsBits(lenBuf[:], 32)
		}
		w.writeBytesAsBits(data, len(data)*8)
	}
	return truncated
}

// readTiles parses the tile section from the remaining byte-aligned bytes
// of src: a greedy sequence of length-prefixed blocks, with a final
// trailing unprefixed block taken as the last tile. This greedy strategy
// is the implementer's choice the tile section leaves open (§9). The
// framing is ambiguous: a final tile of at least 4 bytes whose first 4
// bytes, read as a big-endian length, fit in the bytes after them is
// split as if those bytes were a length prefix, so such a tile does not
// round-trip through writeTiles.
func readTiles(r *bitFieldReader, remainingLen int) ([]Tile, error) {
	var tiles []Tile
	left := remainingLen
	for len(tiles) < MaxTiles-1 && left >= 4 {
		lenBytes := r.readBytesAsBits(32)
		if r.err() != nil {
			return nil, r.err()
		}
		sz := int(binary.BigEndian.Uint32(lenBytes))
		left -= 4
		if sz > left {
			// Not enough data left to honor this length prefix; treat the
			// remaining bytes (including what looked like a length prefix)
			// as the final, unprefixed tile instead.
			data := append(append([]byte{}, lenBytes...), r.readBytesAsBits(left*8)...)
			tiles = append(tiles, Tile{Data: data})
			return tiles, r.err()
		}
		data := r.readBytesAsBits(sz * 8)
		if r.err() != nil {
			return nil, r.err()
		}
		tiles = append(tiles, Tile{Data: data})
		left -= sz
	}
	if left > 0 {
		data := r.readBytesAsBits(left * 8)
		if r.err() != nil {
			return nil, r.err()
		}
		tiles = append(tiles, Tile{Data: data})
	}
	return tiles, nil
}
