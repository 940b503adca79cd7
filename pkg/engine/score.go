package engine

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

// Score is an engine evaluation seen from the side to move, which is the
// perspective UCI engines report in.
type Score struct {
	CP     int
	Mate   int
	IsMate bool
	Turn   chess.Color
}

func newScore(s uci.Score, mate bool, turn chess.Color) Score {
	return Score{
		CP:     s.CP,
		Mate:   s.Mate,
		IsMate: mate,
		Turn:   turn,
	}
}

// parseInfoScore reads the score and depth of one engine "info" line. ok is
// false for info lines that carry no score.
func parseInfoScore(line string, turn chess.Color) (s Score, depth int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "info" {
		return Score{}, 0, false
	}
	kind := ""
	for i := 1; i+1 < len(fields); i++ {
		if fields[i] == "score" {
			kind = fields[i+1]
			break
		}
	}
	if kind != "cp" && kind != "mate" {
		return Score{}, 0, false
	}
	var info uci.Info
	if err := info.UnmarshalText([]byte(strings.Join(fields, " "))); err != nil {
		return Score{}, 0, false
	}
	return newScore(info.Score, kind == "mate", turn), info.Depth, true
}

// String renders the score the way the editor client parses it:
// PovScore(Cp(+35), WHITE) or PovScore(Mate(-2), BLACK). A side already
// mated is Mate(-0).
func (s Score) String() string {
	var inner string
	switch {
	case s.IsMate && s.Mate == 0:
		inner = "Mate(-0)"
	case s.IsMate:
		inner = fmt.Sprintf("Mate(%+d)", s.Mate)
	default:
		inner = fmt.Sprintf("Cp(%+d)", s.CP)
	}
	return fmt.Sprintf("PovScore(%s, %s)", inner, colorName(s.Turn))
}

func colorName(c chess.Color) string {
	if c == chess.Black {
		return "BLACK"
	}
	return "WHITE"
}
