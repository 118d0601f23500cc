/*
NAME
  proto_to_vp9

DESCRIPTION
  proto_to_vp9 reads a serialized Record from ./test_frame_protobuf,
  encodes it into VP9 bitstream bytes wrapped in an IVF container, and
  writes the result to ./test_frame_out. It is the encoder half of the
  fuzzing pipeline's record-to-bytes bridge (§6.3).

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/
package main

import (
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/vp9bridge/codec/vp9"
	"github.com/ausocean/vp9bridge/container/ivf"
)

const (
	inputPath  = "./test_frame_protobuf"
	outputPath = "./test_frame_out"

	logPath      = "./proto_to_vp9.log"
	logMaxSize   = 10 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

func main() {
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if err := run(l); err != nil {
		l.Error("proto_to_vp9 failed", "error", err)
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// adaptLogger turns an ausocean/utils/logging.Logger into the plain
// func-based vp9.Logger signature this module's codec entry points accept.
func adaptLogger(l logging.Logger) vp9.Logger {
	return func(level int8, msg string, args ...interface{}) {
		switch level {
		case vp9.LevelDebug:
			l.Debug(msg, args...)
		case vp9.LevelInfo:
			l.Info(msg, args...)
		case vp9.LevelWarning:
			l.Warning(msg, args...)
		case vp9.LevelError:
			l.Error(msg, args...)
		default:
			l.Fatal(msg, args...)
		}
	}
}

func run(l logging.Logger) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	record, err := vp9.UnmarshalRecord(data)
	if err != nil {
		return err
	}

	frameBytes, err := vp9.EncodeFrame(record, adaptLogger(l))
	if err != nil {
		return err
	}

	out, err := ivf.Encode(ivf.Header{
		Width:  record.FrameSize.WidthMinus1 + 1,
		Height: record.FrameSize.HeightMinus1 + 1,
	}, []ivf.Frame{{Data: frameBytes}})
	if err != nil {
		return err
	}

	return os.WriteFile(outputPath, out, 0644)
}
