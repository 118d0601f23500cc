package vp9

import "github.com/ausocean/utils/logging"

// Logger is the logging function signature accepted by every entry point
// in this package, matching the style used by protocol/rtcp's Client
// rather than a package-level logger: a frame encode/decode is a pure
// function over byte slices and should not depend on global state.
type Logger func(level int8, msg string, args ...interface{})

// NopLogger discards all log calls. It is the default used when a nil
// Logger is passed to an entry point.
func NopLogger(level int8, msg string, args ...interface{}) {}

// logOrNop returns l if non-nil, otherwise NopLogger.
func logOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger
	}
	return l
}

// Level constants re-exported for callers that don't want to import
// ausocean/utils/logging directly just to pass a level to Logger.
const (
	LevelDebug   = logging.Debug
	LevelInfo    = logging.Info
	LevelWarning = logging.Warning
	LevelError   = logging.Error
	LevelFatal   = logging.Fatal
)
