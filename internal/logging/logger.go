// Package logging builds the zerolog loggers used by the CLI and the MCP server.
// Log output always goes to a side channel (stderr) so reports written to
// stdout stay machine readable.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger writing to w. quiet keeps warnings and errors
// only, verbose enables debug output; quiet wins when both are set.
func New(w io.Writer, verbose, quiet bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(out).Level(Level(verbose, quiet)).With().Timestamp().Logger()
}

// Level maps the CLI verbosity flags to a zerolog level
func Level(verbose, quiet bool) zerolog.Level {
	switch {
	case quiet:
		return zerolog.WarnLevel
	case verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// Nop returns a disabled logger
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
