// Package logging builds the diagnostic logger shared by the helper
// processes. Diagnostics always go to standard error; standard output is
// reserved for protocol replies.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the named level. An empty
// level means info.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level = strings.TrimSpace(level); level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), err
		}
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// Verbosity maps the -quiet / -verbose switches of the one-shot tools to a
// level name.
func Verbosity(quiet, verbose bool) string {
	switch {
	case verbose:
		return zerolog.LevelDebugValue
	case quiet:
		return zerolog.LevelErrorValue
	default:
		return zerolog.LevelInfoValue
	}
}
