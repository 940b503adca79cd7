package server

import (
	"errors"
	"fmt"

	"github.com/dwcoates/pgn-mode/pkg/chess"
	"github.com/dwcoates/pgn-mode/pkg/diagram"
	"github.com/dwcoates/pgn-mode/pkg/engine"
	"github.com/dwcoates/pgn-mode/pkg/protocol"
)

// Request commands.
const (
	CmdPGNToFEN      = ":pgn-to-fen"
	CmdPGNToBoard    = ":pgn-to-board"
	CmdPGNToScore    = ":pgn-to-score"
	CmdPGNToMainline = ":pgn-to-mainline"
)

// Reply kinds.
const (
	ReplyFEN       = ":fen"
	ReplyBoardSVG  = ":board-svg"
	ReplyBoardText = ":board-text"
	ReplyScore     = ":score"
	ReplySAN       = ":san"
)

var (
	// ErrUnknownCommand is returned for a command with no handler.
	ErrUnknownCommand = errors.New("unknown request command")
	// ErrBadBoardFormat is returned for a -board_format other than svg or text.
	ErrBadBoardFormat = errors.New("bad -board_format value")
)

// HandlerFunc turns one request's game into a reply line.
type HandlerFunc func(gs *chess.GameState, opts protocol.Options) (string, error)

// Dispatcher maps request commands to handlers.
type Dispatcher map[string]HandlerFunc

// NewDispatcher returns the standard command table. Score requests draw
// their engines from pool.
func NewDispatcher(pool *engine.Pool) Dispatcher {
	return Dispatcher{
		CmdPGNToFEN:      pgnToFEN,
		CmdPGNToBoard:    pgnToBoard,
		CmdPGNToScore:    scoreHandler(pool),
		CmdPGNToMainline: pgnToMainline,
	}
}

// Lookup returns the handler for command.
func (d Dispatcher) Lookup(command string) (HandlerFunc, error) {
	h, ok := d[command]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
	return h, nil
}

func pgnToFEN(gs *chess.GameState, _ protocol.Options) (string, error) {
	return protocol.Reply(ReplyFEN, gs.FEN()), nil
}

func pgnToBoard(gs *chess.GameState, opts protocol.Options) (string, error) {
	switch opts.BoardFormat {
	case protocol.FormatSVG:
		doc, err := diagram.SVG(gs.Position(), gs.LastMove(), opts.Pixels)
		if err != nil {
			return "", err
		}
		return protocol.Reply(ReplyBoardSVG, doc), nil
	case protocol.FormatText:
		return protocol.Reply(ReplyBoardText, diagram.Text(gs.PieceGrid())), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrBadBoardFormat, opts.BoardFormat)
	}
}

func scoreHandler(pool *engine.Pool) HandlerFunc {
	return func(gs *chess.GameState, opts protocol.Options) (string, error) {
		e, err := pool.Instantiate(opts.Engine)
		if err != nil {
			return "", err
		}
		score, err := e.Analyze(gs.Position(), opts.Depth)
		if err != nil {
			return "", err
		}
		return protocol.Reply(ReplyScore, score.String()), nil
	}
}

func pgnToMainline(gs *chess.GameState, _ protocol.Options) (string, error) {
	return protocol.Reply(ReplySAN, gs.Mainline()), nil
}
