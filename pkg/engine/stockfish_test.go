package engine

import (
	"testing"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwcoates/pgn-mode/pkg/engine/enginetest"
)

func TestMain(m *testing.M) {
	enginetest.Main(m)
}

const foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"

func position(t *testing.T, fen string) *chess.Position {
	t.Helper()
	opt, err := chess.FEN(fen)
	require.NoError(t, err)
	return chess.NewGame(opt).Position()
}

// within fails t when f has not returned after d.
func within(t *testing.T, d time.Duration, f func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("still blocked after %s", d)
	}
}

func TestEngineAnalyze(t *testing.T) {
	e, err := NewEngine(enginetest.Path(t, enginetest.ModeOK), zerolog.Nop())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Ping())

	score, err := e.Analyze(position(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"), 4)
	require.NoError(t, err)
	assert.Equal(t, "PovScore(Cp(+35), BLACK)", score.String())

	// the engine stays usable for further requests
	score, err = e.Analyze(chess.StartingPosition(), 2)
	require.NoError(t, err)
	assert.Equal(t, "PovScore(Cp(+35), WHITE)", score.String())
}

func TestEngineAnalyzeNoLegalMoves(t *testing.T) {
	e, err := NewEngine(enginetest.Path(t, enginetest.ModeOK), zerolog.Nop())
	require.NoError(t, err)
	defer e.Close()

	score, err := e.Analyze(position(t, foolsMateFEN), 10)
	require.NoError(t, err)
	assert.Equal(t, "PovScore(Mate(-0), WHITE)", score.String())

	score, err = e.Analyze(position(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"), 10)
	require.NoError(t, err)
	assert.Equal(t, "PovScore(Cp(+0), BLACK)", score.String())

	require.NoError(t, e.Ping())
}

func TestEngineClose(t *testing.T) {
	e, err := NewEngine(enginetest.Path(t, enginetest.ModeOK), zerolog.Nop())
	require.NoError(t, err)

	assert.NoError(t, e.Close())
	assert.NoError(t, e.Close(), "second Close is a no-op")
	assert.ErrorIs(t, e.Ping(), ErrEngineClosed)

	_, err = e.Analyze(chess.StartingPosition(), 1)
	assert.ErrorIs(t, err, ErrEngineClosed)
}

func TestEngineDiesDuringAnalysis(t *testing.T) {
	e, err := NewEngine(enginetest.Path(t, enginetest.ModeDieOnGo), zerolog.Nop())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Ping())
	within(t, 5*time.Second, func() {
		_, err = e.Analyze(chess.StartingPosition(), 3)
	})
	assert.ErrorIs(t, err, ErrNoBestMove)

	within(t, 5*time.Second, func() {
		err = e.Ping()
	})
	assert.ErrorIs(t, err, ErrEngineExited)
}

func TestEnginePingAfterExit(t *testing.T) {
	e, err := NewEngine(enginetest.Path(t, enginetest.ModeExitAfterPing), zerolog.Nop())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Ping(), "first ping is answered")
	within(t, 5*time.Second, func() {
		err = e.Ping()
	})
	assert.ErrorIs(t, err, ErrEngineExited)
}

func TestNewEngineMissingBinary(t *testing.T) {
	_, err := NewEngine("/nonexistent/pgn-mode-engine", zerolog.Nop())
	assert.Error(t, err)
}
