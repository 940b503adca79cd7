package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// ErrEmptyPGN is returned when a payload holds no parsable game.
var ErrEmptyPGN = errors.New("empty pgn")

// RowColFromSquare converts a chess.Square to diagram grid coordinates.
// Diagram grid: row 0 = rank 8 (top of board), col 0 = file a (left).
func RowColFromSquare(sq chess.Square) (row, col int) {
	row = 7 - int(sq.Rank())
	col = int(sq.File())
	return
}

// GameState is one request's view of a parsed game: the game tree, the
// position after the last main-line move, and that move.
type GameState struct {
	game     *chess.Game
	initial  *chess.Position
	final    *chess.Position
	lastMove *chess.Move
}

// UnescapePayload turns the two-character sequence `\n` used on the request
// line back into real newlines and terminates the game with a blank line.
func UnescapePayload(payload string) string {
	return strings.ReplaceAll(payload, `\n`, "\n") + "\n\n"
}

// LoadPGN parses PGN text and replays its main line from the initial
// position.
func LoadPGN(pgn string) (*GameState, error) {
	if strings.TrimSpace(pgn) == "" {
		return nil, ErrEmptyPGN
	}
	opt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return nil, fmt.Errorf("parse pgn: %w", err)
	}
	return newGameState(chess.NewGame(opt)), nil
}

// LoadPayload is LoadPGN for a request payload still carrying escaped newlines.
func LoadPayload(payload string) (*GameState, error) {
	return LoadPGN(UnescapePayload(payload))
}

func newGameState(game *chess.Game) *GameState {
	positions := game.Positions()
	gs := &GameState{
		game:    game,
		initial: positions[0],
		final:   positions[0],
	}
	moves := game.Moves()
	for i, m := range moves {
		gs.lastMove = m
		gs.final = positions[i+1]
	}
	return gs
}

// Game returns the underlying chess.Game.
func (gs *GameState) Game() *chess.Game {
	return gs.game
}

// Position returns the position after the last main-line move.
func (gs *GameState) Position() *chess.Position {
	return gs.final
}

// LastMove returns the last main-line move, or nil for a game with no moves.
func (gs *GameState) LastMove() *chess.Move {
	return gs.lastMove
}

// FEN returns the FEN string of the final position. The en passant field
// names a square only when an en passant capture is legal there.
func (gs *GameState) FEN() string {
	return LegalFEN(gs.final)
}

// LegalFEN is pos.String() with an en passant target that no pawn can
// legally capture on replaced by "-".
func LegalFEN(pos *chess.Position) string {
	fen := pos.String()
	if pos.EnPassantSquare() == chess.NoSquare {
		return fen
	}
	for _, m := range pos.ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			return fen
		}
	}
	fields := strings.Fields(fen)
	fields[3] = "-"
	return strings.Join(fields, " ")
}

// Result returns the PGN result marker for the game. A Result header other
// than "*" wins over the movetext's termination marker; a game with neither
// is "*".
func (gs *GameState) Result() string {
	if tp := gs.game.GetTagPair("Result"); tp != nil && tp.Value != "" && tp.Value != string(chess.NoOutcome) {
		return tp.Value
	}
	if outcome := gs.game.Outcome(); outcome != "" {
		return string(outcome)
	}
	return string(chess.NoOutcome)
}

// MoveText renders the main line as PGN movetext without headers, comments
// or variations, ending with the result marker: "1. e4 e5 2. Nf3 *".
func (gs *GameState) MoveText() string {
	var b strings.Builder
	positions := gs.game.Positions()
	number := fullMoveNumber(gs.initial)
	for i, m := range gs.game.Moves() {
		pos := positions[i]
		if pos.Turn() == chess.White {
			fmt.Fprintf(&b, "%d. ", number)
		} else if i == 0 {
			fmt.Fprintf(&b, "%d... ", number)
		}
		b.WriteString(chess.AlgebraicNotation{}.Encode(pos, m))
		b.WriteByte(' ')
		if pos.Turn() == chess.Black {
			number++
		}
	}
	b.WriteString(gs.Result())
	return b.String()
}

// Mainline is MoveText with the trailing result marker and the whitespace
// before it removed.
func (gs *GameState) Mainline() string {
	return StripLastToken(gs.MoveText())
}

// StripLastToken removes one trailing non-whitespace token together with any
// whitespace preceding it. Text with a single token is returned unchanged.
func StripLastToken(s string) string {
	end := len(s)
	for end > 0 && !isSpace(s[end-1]) {
		end--
	}
	if end == len(s) || end == 0 {
		return s
	}
	start := end
	for start > 0 && isSpace(s[start-1]) {
		start--
	}
	return s[:start]
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// fullMoveNumber reads the move counter field of the position's FEN.
func fullMoveNumber(pos *chess.Position) int {
	fields := strings.Fields(pos.String())
	if len(fields) < 6 {
		return 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// PieceGrid returns the final board as an 8x8 grid of chess.Piece values.
// Row 0 = rank 8 (top), col 0 = file a (left).
func (gs *GameState) PieceGrid() [8][8]chess.Piece {
	return PieceGridFromPosition(gs.final)
}

// PieceGridFromPosition returns a piece grid from any chess.Position.
func PieceGridFromPosition(pos *chess.Position) [8][8]chess.Piece {
	var grid [8][8]chess.Piece
	board := pos.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		row, col := RowColFromSquare(sq)
		grid[row][col] = board.Piece(sq)
	}
	return grid
}
