package diagram

import (
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgnchess "github.com/dwcoates/pgn-mode/pkg/chess"
)

func TestTextStartingPosition(t *testing.T) {
	want := strings.Join([]string{
		"  ┌───┬───┬───┬───┬───┬───┬───┬───┐",
		"8 │ R │ N │ B │ Q │ K │ B │ N │ R │ ",
		"  ├───┼───┼───┼───┼───┼───┼───┼───┤",
		"7 │ P │ P │ P │ P │ P │ P │ P │ P │ ",
		"  ├───┼───┼───┼───┼───┼───┼───┼───┤",
		"6 │   │   │   │   │   │   │   │   │ ",
		"  ├───┼───┼───┼───┼───┼───┼───┼───┤",
		"5 │   │   │   │   │   │   │   │   │ ",
		"  ├───┼───┼───┼───┼───┼───┼───┼───┤",
		"4 │   │   │   │   │   │   │   │   │ ",
		"  ├───┼───┼───┼───┼───┼───┼───┼───┤",
		"3 │   │   │   │   │   │   │   │   │ ",
		"  ├───┼───┼───┼───┼───┼───┼───┼───┤",
		"2 │ p │ p │ p │ p │ p │ p │ p │ p │ ",
		"  ├───┼───┼───┼───┼───┼───┼───┼───┤",
		"1 │ r │ n │ b │ q │ k │ b │ n │ r │ ",
		"  └───┴───┴───┴───┴───┴───┴───┴───┘",
		"    a   b   c   d   e   f   g   h",
	}, `\n`)

	got := Text(pgnchess.PieceGridFromPosition(chess.StartingPosition()))
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "\n")
}

func TestTextAfterMoves(t *testing.T) {
	gs, err := pgnchess.LoadPayload(`1. e4 e5 2. Nf3\n`)
	require.NoError(t, err)

	lines := TextLines(gs.PieceGrid())
	require.Len(t, lines, 18)
	assert.Equal(t, "5 │   │   │   │   │ P │   │   │   │ ", lines[7])
	assert.Equal(t, "4 │   │   │   │   │ p │   │   │   │ ", lines[9])
	assert.Equal(t, "3 │   │   │   │   │   │ n │   │   │ ", lines[11])
	assert.Equal(t, "1 │ r │ n │ b │ q │ k │ b │   │ r │ ", lines[15])
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, byte('K'), Glyph(chess.BlackKing))
	assert.Equal(t, byte('k'), Glyph(chess.WhiteKing))
	assert.Equal(t, byte('N'), Glyph(chess.BlackKnight))
	assert.Equal(t, byte('p'), Glyph(chess.WhitePawn))
	assert.Equal(t, byte(' '), Glyph(chess.NoPiece))
}

func TestSVGSized(t *testing.T) {
	gs, err := pgnchess.LoadPayload(`1. e4\n\n`)
	require.NoError(t, err)

	doc, err := SVG(gs.Position(), gs.LastMove(), 200)
	require.NoError(t, err)

	assert.NotContains(t, doc, "\n")
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.Contains(t, doc, `width="200" height="200"`)
	assert.Contains(t, doc, `viewBox="0 0 360 360"`)
	assert.Equal(t, 1, strings.Count(doc, "<?xml"), "inner prolog is dropped")
	assert.True(t, strings.HasSuffix(doc, "</svg>"))
}

func TestSVGNoLastMove(t *testing.T) {
	doc, err := SVG(chess.StartingPosition(), nil, 400)
	require.NoError(t, err)
	assert.Contains(t, doc, `width="400" height="400"`)
}

func TestSVGBadSize(t *testing.T) {
	_, err := SVG(chess.StartingPosition(), nil, 0)
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, `<svg a="1" b="2"> <g/> </svg>`, flatten("<svg a=\"1\"\n     b=\"2\">\n<g/>\n</svg>\n"))
}
