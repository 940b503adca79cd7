// Package oneshot holds the shared driver of the single-shot converters
// (pgn-to-fen, pgn-to-board): read PGN from standard input and files, print
// one rendering per input.
package oneshot

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/dwcoates/pgn-mode/pkg/chess"
	"github.com/dwcoates/pgn-mode/pkg/logging"
)

// RenderFunc turns the final position of a game into output text.
type RenderFunc func(gs *chess.GameState) (string, error)

// Tool describes one converter.
type Tool struct {
	Name        string
	Description string
	Version     string

	// Flags registers tool-specific flags and returns the renderer, which
	// may read the parsed flag values.
	Flags func(fs *flag.FlagSet) RenderFunc

	Stdin           io.Reader
	Stdout          io.Writer
	Stderr          io.Writer
	StdinIsTerminal bool
}

// New returns a Tool wired to the process's standard streams.
func New(name, description, version string, flags func(fs *flag.FlagSet) RenderFunc) *Tool {
	return &Tool{
		Name:            name,
		Description:     description,
		Version:         version,
		Flags:           flags,
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		StdinIsTerminal: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// Run executes the tool with command-line args (without the program name)
// and returns the process exit code.
func (t *Tool) Run(args []string) int {
	fs := flag.NewFlagSet(t.Name, flag.ContinueOnError)
	fs.SetOutput(t.Stderr)
	quiet := fs.Bool("quiet", false, "Emit less diagnostic output.")
	verbose := fs.Bool("verbose", false, "Emit more diagnostic output.")
	version := fs.Bool("version", false, "Print the version and exit.")
	render := t.Flags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [flags] [<file> ...]\n\n%s\nInput on the standard input is also accepted.\n\n", t.Name, t.Description)
		fs.PrintDefaults()
	}

	if t.StdinIsTerminal && len(args) == 0 {
		fs.SetOutput(t.Stdout)
		fs.Usage()
		return 0
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *version {
		fmt.Fprintln(t.Stdout, t.Version)
		return 0
	}
	if *quiet && *verbose {
		fmt.Fprintf(t.Stderr, "%s: -quiet and -verbose are incompatible\n", t.Name)
		return 1
	}

	log, err := logging.New(t.Stderr, logging.Verbosity(*quiet, *verbose))
	if err != nil {
		fmt.Fprintf(t.Stderr, "%s: %v\n", t.Name, err)
		return 1
	}
	log = log.With().Str("tool", t.Name).Logger()

	status := 0
	if !t.StdinIsTerminal {
		if !t.convert(log, "<stdin>", t.Stdin, render) {
			status = 1
		}
	}
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Error().Err(err).Msg("open input")
			status = 1
			continue
		}
		if !t.convert(log, path, f, render) {
			status = 1
		}
		f.Close()
	}
	return status
}

// convert renders the first game read from r.
func (t *Tool) convert(log zerolog.Logger, name string, r io.Reader, render RenderFunc) bool {
	data, err := io.ReadAll(r)
	if err != nil {
		log.Error().Err(err).Str("input", name).Msg("read input")
		return false
	}
	gs, err := chess.LoadPGN(string(data) + "\n\n")
	if err != nil {
		log.Error().Err(err).Str("input", name).Msg("parse game")
		return false
	}
	out, err := render(gs)
	if err != nil {
		log.Error().Err(err).Str("input", name).Msg("render")
		return false
	}
	log.Debug().Str("input", name).Int("moves", len(gs.Game().Moves())).Msg("converted")
	fmt.Fprintln(t.Stdout, out)
	return true
}
