// Command pgn-to-board prints an SVG diagram of the position after the last
// move of a PGN game.
package main

import (
	"flag"
	"os"

	"github.com/dwcoates/pgn-mode/pkg/chess"
	"github.com/dwcoates/pgn-mode/pkg/diagram"
	"github.com/dwcoates/pgn-mode/pkg/oneshot"
)

const version = "1.00"

func main() {
	tool := oneshot.New("pgn-to-board", "Return the SVG board after the last move in a PGN <file>.", version,
		func(fs *flag.FlagSet) oneshot.RenderFunc {
			pixels := fs.Int("pixels", 400, "Pixels per side of the SVG board.")
			return func(gs *chess.GameState) (string, error) {
				return diagram.SVG(gs.Position(), gs.LastMove(), *pixels)
			}
		})
	os.Exit(tool.Run(os.Args[1:]))
}
