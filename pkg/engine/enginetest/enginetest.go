// Package enginetest runs the test binary itself as a small scripted UCI
// engine, so engine lifecycles can be tested against a real subprocess.
package enginetest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/notnil/chess"
)

// Env selects the engine mode when the test binary is re-executed.
const Env = "PGN_MODE_FAKE_UCI_ENGINE"

const (
	// ModeOK answers every command and scores each position +35.
	ModeOK = "ok"
	// ModeDieOnGo exits as soon as a search starts.
	ModeDieOnGo = "die-on-go"
	// ModeExitAfterPing exits right after the first isready that follows
	// the handshake has been answered.
	ModeExitAfterPing = "exit-after-ping"
)

// Main is a TestMain body: it turns the process into the engine when Env is
// set and runs the tests otherwise.
func Main(m *testing.M) {
	if mode := os.Getenv(Env); mode != "" {
		Run(mode, os.Stdin, os.Stdout)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// Path points Env at mode for the rest of t and returns the executable to
// start as the engine.
func Path(t testing.TB, mode string) string {
	t.Helper()
	t.Setenv(Env, mode)
	path, err := os.Executable()
	if err != nil {
		t.Fatalf("locate test binary: %v", err)
	}
	return path
}

// Run answers the UCI commands read from in until quit or end of input.
// Searches play the first legal move. A position with no legal move gets
// "score mate 0" when checkmated and "score cp 0" when stalemated, followed
// by "bestmove (none)", the way Stockfish reports them.
func Run(mode string, in io.Reader, out io.Writer) {
	pos := chess.StartingPosition()
	readies := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "uci":
			fmt.Fprintln(out, "id name FakeFish")
			fmt.Fprintln(out, "id author pgn-mode")
			fmt.Fprintln(out, "option name Hash type spin default 16 min 1 max 33554432")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
			readies++
			if mode == ModeExitAfterPing && readies == 2 {
				return
			}
		case "position":
			pos = position(fields[1:])
		case "go":
			if mode == ModeDieOnGo {
				return
			}
			search(out, pos, depthArg(fields))
		case "quit":
			return
		}
	}
}

func search(out io.Writer, pos *chess.Position, depth string) {
	fmt.Fprintln(out, "info string NNUE evaluation using nn-fake.nnue enabled")
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		if pos.Status() == chess.Checkmate {
			fmt.Fprintln(out, "info depth 0 score mate 0")
		} else {
			fmt.Fprintln(out, "info depth 0 score cp 0")
		}
		fmt.Fprintln(out, "bestmove (none)")
		return
	}
	best := chess.UCINotation{}.Encode(pos, moves[0])
	fmt.Fprintf(out, "info depth 1 seldepth 1 multipv 1 score cp 12 nodes 20 nps 1000 time 1 pv %s\n", best)
	fmt.Fprintf(out, "info depth %s seldepth %s multipv 1 score cp 35 nodes 40 nps 1000 time 2 pv %s\n", depth, depth, best)
	fmt.Fprintf(out, "bestmove %s\n", best)
}

func depthArg(fields []string) string {
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "depth" {
			return fields[i+1]
		}
	}
	return "1"
}

// position replays a UCI "position" command's arguments.
func position(args []string) *chess.Position {
	game := chess.NewGame()
	rest := args
	if len(args) > 0 && args[0] == "fen" {
		end := 1
		for end < len(args) && args[end] != "moves" {
			end++
		}
		if opt, err := chess.FEN(strings.Join(args[1:end], " ")); err == nil {
			game = chess.NewGame(opt)
		}
		rest = args[end:]
	} else if len(args) > 0 && args[0] == "startpos" {
		rest = args[1:]
	}
	if len(rest) > 0 && rest[0] == "moves" {
		for _, s := range rest[1:] {
			m, err := chess.UCINotation{}.Decode(game.Position(), s)
			if err != nil {
				break
			}
			if err := game.Move(m); err != nil {
				break
			}
		}
	}
	return game.Position()
}
