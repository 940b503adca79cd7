// Command pgn-to-fen prints the FEN after the last move of a PGN game.
package main

import (
	"flag"
	"os"

	"github.com/dwcoates/pgn-mode/pkg/chess"
	"github.com/dwcoates/pgn-mode/pkg/oneshot"
)

const version = "1.00"

func main() {
	tool := oneshot.New("pgn-to-fen", "Return the FEN after the last move in a PGN <file>.", version,
		func(fs *flag.FlagSet) oneshot.RenderFunc {
			return func(gs *chess.GameState) (string, error) {
				return gs.FEN(), nil
			}
		})
	os.Exit(tool.Run(os.Args[1:]))
}
