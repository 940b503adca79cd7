// Package engine drives external UCI analysis engines and keeps them alive
// across requests.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"github.com/rs/zerolog"
)

// DefaultPath is the engine used when a request names none.
const DefaultPath = "stockfish"

// quitGrace is how long Close waits for the engine to honour "quit"
// before killing it.
const quitGrace = 2 * time.Second

var (
	// ErrEngineClosed is returned by an Engine after Close.
	ErrEngineClosed = errors.New("engine closed")
	// ErrEngineExited is returned when the engine's output ends while a
	// reply is awaited.
	ErrEngineExited = errors.New("engine exited")
	// ErrNoBestMove is returned when the engine's output ends before it
	// reports a best move, which usually means the process died mid-search.
	ErrNoBestMove = errors.New("engine returned no best move")
	// ErrNoScore is returned when a search finishes without any scored
	// info line.
	ErrNoScore = errors.New("engine reported no score")
)

// Analyzer is a live handle on one analysis engine.
type Analyzer interface {
	// Ping is a cheap round trip proving the engine still answers.
	Ping() error
	// Analyze searches pos to a fixed depth.
	Analyze(pos *chess.Position, depth int) (Score, error)
	Close() error
}

// Engine wraps a UCI chess engine (e.g. Stockfish) running as a child
// process. The engine's stdout reaches end-of-file when the process exits,
// so a dead engine fails the pending call instead of blocking it.
type Engine struct {
	path string
	cmd  *exec.Cmd
	in   io.WriteCloser
	out  *bufio.Scanner
	log  zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// NewEngine starts a UCI engine process. If no path is given, "stockfish"
// is used (expected to be on PATH). No timeout is put on any command.
func NewEngine(path string, log zerolog.Logger) (*Engine, error) {
	if path == "" {
		path = DefaultPath
	}

	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("start engine %s: %w", path, err)
	}
	cmd := exec.Command(bin)
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("start engine %s: %w", path, err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("start engine %s: %w", path, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %s: %w", path, err)
	}

	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	e := &Engine{
		path: path,
		cmd:  cmd,
		in:   in,
		out:  scanner,
		log:  log.With().Str("engine", path).Logger(),
	}

	// Initialize UCI protocol
	if err := e.handshake(); err != nil {
		e.kill()
		return nil, fmt.Errorf("initialize engine %s: %w", path, err)
	}
	e.log.Debug().Int("pid", cmd.Process.Pid).Msg("uci handshake complete")
	return e, nil
}

func (e *Engine) handshake() error {
	if err := e.send(uci.CmdUCI); err != nil {
		return err
	}
	if err := e.waitFor("uciok"); err != nil {
		return err
	}
	if err := e.send(uci.CmdUCINewGame); err != nil {
		return err
	}
	if err := e.send(uci.CmdIsReady); err != nil {
		return err
	}
	return e.waitFor("readyok")
}

// Path returns the executable the engine was started from.
func (e *Engine) Path() string {
	return e.path
}

// Ping sends isready and waits for readyok.
func (e *Engine) Ping() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	if err := e.send(uci.CmdIsReady); err != nil {
		return fmt.Errorf("ping engine %s: %w", e.path, err)
	}
	if err := e.waitFor("readyok"); err != nil {
		return fmt.Errorf("ping engine %s: %w", e.path, err)
	}
	return nil
}

// Analyze runs a depth-limited search of pos and returns the score of the
// last scored info line. A position without legal moves is still scored:
// engines report it with "bestmove (none)".
func (e *Engine) Analyze(pos *chess.Position, depth int) (Score, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return Score{}, ErrEngineClosed
	}

	if err := e.send(uci.CmdPosition{Position: pos}); err != nil {
		return Score{}, fmt.Errorf("analyze on %s: %w", e.path, err)
	}
	if err := e.send(uci.CmdGo{Depth: depth}); err != nil {
		return Score{}, fmt.Errorf("analyze on %s: %w", e.path, err)
	}

	var (
		score   Score
		reached int
		scored  bool
	)
	for e.out.Scan() {
		line := strings.TrimSpace(e.out.Text())
		if fields := strings.Fields(line); len(fields) > 0 && fields[0] == "bestmove" {
			if !scored {
				return Score{}, fmt.Errorf("analyze on %s: %w", e.path, ErrNoScore)
			}
			best := "(none)"
			if len(fields) > 1 {
				best = fields[1]
			}
			e.log.Debug().
				Int("depth", reached).
				Str("score", score.String()).
				Str("bestmove", best).
				Msg("analysis complete")
			return score, nil
		}
		if s, d, ok := parseInfoScore(line, pos.Turn()); ok {
			score, reached, scored = s, d, true
		}
	}
	if err := e.out.Err(); err != nil {
		return Score{}, fmt.Errorf("analyze on %s: %w: %w", e.path, ErrNoBestMove, err)
	}
	return Score{}, fmt.Errorf("analyze on %s: %w", e.path, ErrNoBestMove)
}

// Close asks the engine to quit and releases the process. An engine that
// ignores quit is killed. Calling Close more than once is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	// the process may already be gone; its exit status is what counts
	_ = e.send(uci.CmdQuit)
	_ = e.in.Close()

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close engine %s: %w", e.path, err)
		}
		return nil
	case <-time.After(quitGrace):
		e.log.Warn().Dur("grace", quitGrace).Msg("engine ignored quit, killing")
		if err := e.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("close engine %s: %w", e.path, err)
		}
		<-done
		return nil
	}
}

func (e *Engine) kill() {
	_ = e.in.Close()
	_ = e.cmd.Process.Kill()
	_ = e.cmd.Wait()
}

func (e *Engine) send(cmd uci.Cmd) error {
	e.log.Trace().Str("cmd", cmd.String()).Msg("to engine")
	if _, err := fmt.Fprintln(e.in, cmd.String()); err != nil {
		return fmt.Errorf("send %s: %w: %w", cmd, ErrEngineExited, err)
	}
	return nil
}

// waitFor reads engine output until a line equal to token arrives.
func (e *Engine) waitFor(token string) error {
	for e.out.Scan() {
		line := strings.TrimSpace(e.out.Text())
		e.log.Trace().Str("line", line).Msg("from engine")
		if line == token {
			return nil
		}
	}
	if err := e.out.Err(); err != nil {
		return fmt.Errorf("waiting for %s: %w: %w", token, ErrEngineExited, err)
	}
	return fmt.Errorf("waiting for %s: %w", token, ErrEngineExited)
}
