package vp9

import "github.com/ausocean/vp9bridge/codec/vp9/bits"

// bitFieldReader wraps a bits.BitSource with a sticky error, mirroring the
// h264 decoder's fieldReader: once a read fails, subsequent reads become
// no-ops and return zero, so a long sequence of field reads can be
// written without an if err != nil check after every single one. Callers
// must check err() once at the end of a syntax section.
type bitFieldReader struct {
	e   error
	src *bits.BitSource
}

func newBitFieldReader(src *bits.BitSource) bitFieldReader {
	return bitFieldReader{src: src}
}

// readBits reads n bits as a uint64. Returns 0 without reading if the
// reader already holds an error.
func (r *bitFieldReader) readBits(n int) uint64 {
	if r.e != nil {
		return 0
	}
	v, err := r.src.ReadUint(n)
	if err != nil {
		r.e = wrapField(err, "uint")
		return 0
	}
	return v
}

// readBit reads a single bit as a bool.
func (r *bitFieldReader) readBit() bool {
	return r.readBits(1) != 0
}

// readSigned reads a magnitude of n bits followed by a sign bit, VP9's
// standard signed-integer encoding (magnitude first, then sign).
func (r *bitFieldReader) readSigned(n int) Signed {
	mag := uint32(r.readBits(n))
	neg := r.readBit()
	return Signed{Magnitude: mag, Negative: neg}
}

// readBytesAsBits reads n bits packed MSB-first, byte-0-first into a byte
// slice, used for frame_sync_code and similar fixed-width byte-string
// fields.
func (r *bitFieldReader) readBytesAsBits(n int) []byte {
	if r.e != nil {
		return nil
	}
	b, err := r.src.ReadBytesAsBits(n)
	if err != nil {
		r.e = wrapField(err, "bytes")
		return nil
	}
	return b
}

// err returns the reader's sticky error, if any.
func (r *bitFieldReader) err() error {
	return r.e
}

// bitFieldWriter wraps a bits.BitSink. Writes to a BitSink cannot fail (it
// grows without bound), so this exists purely to give the header codec a
// symmetric, equally-named counterpart to bitFieldReader.
type bitFieldWriter struct {
	sink *bits.BitSink
}

func newBitFieldWriter(sink *bits.BitSink) bitFieldWriter {
	return bitFieldWriter{sink: sink}
}

func (w *bitFieldWriter) writeBits(v uint64, n int) {
	w.sink.WriteUint(v, n)
}

func (w *bitFieldWriter) writeBit(b bool) {
	var v uint64
	if b {
		v = 1
	}
	w.sink.WriteUint(v, 1)
}

func (w *bitFieldWriter) writeSigned(s Signed, n int) {
	w.sink.WriteUint(uint64(s.Magnitude), n)
	w.writeBit(s.Negative)
}

func (w *bitFieldWriter) writeBytesAsBits(data []byte, n int) {
	w.sink.WriteBytesAsBits(data, n)
}
