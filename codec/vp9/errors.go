package vp9

import "github.com/pkg/errors"

// Sentinel errors per the error-handling contract: ReadPastEnd and
// BoolCoderOverflow are always fatal; the parser also returns
// InvalidConstantValue as an error that ends the parse.
var (
	// ErrReadPastEnd indicates a parse read would run past the end of the
	// input byte buffer.
	ErrReadPastEnd = errors.New("vp9: read past end of input")

	// ErrInvalidConstant indicates a field carried a value VP9 defines as
	// fixed (e.g. frame_marker, frame_sync_code) that did not match.
	ErrInvalidConstant = errors.New("vp9: invalid constant value")

	// ErrBoolCoderOverflow indicates the boolean coder's fixed scratch
	// buffer would be exceeded.
	ErrBoolCoderOverflow = errors.New("vp9: boolean coder overflow")

	// ErrTooManyTiles indicates more tile columns were requested by a
	// Record than MaxTiles allows; the encoder discards the excess per the
	// tile-section contract and logs this at warning level rather than
	// returning it.
	ErrTooManyTiles = errors.New("vp9: tile count exceeds MaxTiles")
)

// wrapField attaches the name of the field being processed to err, or
// returns nil unchanged if err is nil. Mirrors the teacher's pervasive use
// of errors.Wrap to identify which syntax element failed.
func wrapField(err error, field string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "field %s", field)
}
