// Package logging builds the zerolog logger shared by the CLI and the walker.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout used by the console writer.
const TimeFormat = "15:04:05"

// New returns a console logger writing to w (stderr when nil). Diagnostics
// from the walker are logged at debug level, so they only appear when
// verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: TimeFormat,
	}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
