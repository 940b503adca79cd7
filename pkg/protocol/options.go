package protocol

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
)

// Board formats accepted by :pgn-to-board.
const (
	FormatSVG  = "svg"
	FormatText = "text"
)

// ErrBadOptions is returned when a request's option string cannot be parsed.
var ErrBadOptions = errors.New("bad request options")

// Options are the per-request flags. They are rebuilt from the defaults for
// every request.
type Options struct {
	Pixels      int    `toml:"pixels"`
	BoardFormat string `toml:"board_format"`
	Engine      string `toml:"engine"`
	Depth       int    `toml:"depth"`
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Pixels:      400,
		BoardFormat: FormatSVG,
		Engine:      "stockfish",
		Depth:       20,
	}
}

// Validate checks values that would make a handler misbehave.
func (o Options) Validate() error {
	if o.Pixels < 1 {
		return fmt.Errorf("pixels must be positive, got %d", o.Pixels)
	}
	if o.Depth < 1 {
		return fmt.Errorf("depth must be positive, got %d", o.Depth)
	}
	if o.Engine == "" {
		return errors.New("engine path is empty")
	}
	return nil
}

// ParseOptions splits raw with shell quoting rules and applies the
// recognized flags on top of defaults. Both -name and --name spellings are
// accepted, as are -name=value forms.
func ParseOptions(raw string, defaults Options) (Options, error) {
	args, err := shlex.Split(raw)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %q: %v", ErrBadOptions, raw, err)
	}

	opts := defaults
	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&opts.Pixels, "pixels", defaults.Pixels, "pixels per side for SVG board output")
	fs.StringVar(&opts.BoardFormat, "board_format", defaults.BoardFormat, "board output format: svg or text")
	fs.StringVar(&opts.Engine, "engine", defaults.Engine, "path to UCI engine for analysis")
	fs.IntVar(&opts.Depth, "depth", defaults.Depth, "depth for depth-limited UCI evaluations")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w: %q: %v", ErrBadOptions, raw, err)
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("%w: %q: unrecognized arguments: %s", ErrBadOptions, raw, strings.Join(fs.Args(), " "))
	}
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("%w: %q: %v", ErrBadOptions, raw, err)
	}
	return opts, nil
}
