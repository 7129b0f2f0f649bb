package tllog

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var Zero = NewZeroLogger("", false)

// NewZeroLogger creates a logger writing JSON to filepath, or to stdout when
// filepath is empty. pretty switches to a human readable console writer.
func NewZeroLogger(filepath string, pretty bool) *zerolog.Logger {
	writer := newWriter(filepath)
	if pretty {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	return &logger
}

// ReloadLogger replaces Zero with a logger writing to filepath, keeping
// the current level.
func ReloadLogger(filepath string, pretty bool) {
	level := Zero.GetLevel()
	logger := NewZeroLogger(filepath, pretty).Level(level)
	Zero = &logger
}

func UpdateZeroLogLevel(logLevel string) {
	level := parseLevel(logLevel)
	zeroLogger := Zero.With().Logger().Level(level)
	Zero = &zeroLogger
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// newWriter returns stdout for an empty filepath, otherwise the file opened
// in append mode.
func newWriter(filepath string) io.Writer {
	if filepath == "" {
		return os.Stdout
	}
	f, err := os.OpenFile(filepath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}
	return f
}
