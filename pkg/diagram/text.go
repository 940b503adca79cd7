package diagram

import (
	"strings"

	"github.com/notnil/chess"
)

// EscapedNewline is the two-character sequence that stands for a line break
// inside a single-line reply.
const EscapedNewline = `\n`

// glyphs maps pieces to the ASCII alphabet used by the text board. The
// editor client reads black pieces as uppercase and white as lowercase.
var glyphs = map[chess.Piece]byte{
	chess.BlackKing:   'K',
	chess.BlackQueen:  'Q',
	chess.BlackRook:   'R',
	chess.BlackBishop: 'B',
	chess.BlackKnight: 'N',
	chess.BlackPawn:   'P',
	chess.WhiteKing:   'k',
	chess.WhiteQueen:  'q',
	chess.WhiteRook:   'r',
	chess.WhiteBishop: 'b',
	chess.WhiteKnight: 'n',
	chess.WhitePawn:   'p',
}

const (
	topBorder    = "  ┌───┬───┬───┬───┬───┬───┬───┬───┐"
	midBorder    = "  ├───┼───┼───┼───┼───┼───┼───┼───┤"
	bottomBorder = "  └───┴───┴───┴───┴───┴───┴───┴───┘"
	fileLabels   = "    a   b   c   d   e   f   g   h"
)

// Glyph returns the text-board symbol for p, a blank for an empty square.
func Glyph(p chess.Piece) byte {
	if g, ok := glyphs[p]; ok {
		return g
	}
	return ' '
}

// TextLines draws grid (row 0 = rank 8) as a bordered board, one string per
// output line.
func TextLines(grid [8][8]chess.Piece) []string {
	lines := make([]string, 0, 2*8+2)
	lines = append(lines, topBorder)
	for row := 0; row < 8; row++ {
		if row > 0 {
			lines = append(lines, midBorder)
		}
		var b strings.Builder
		b.WriteByte(byte('8' - row))
		for col := 0; col < 8; col++ {
			b.WriteString(" │ ")
			b.WriteByte(Glyph(grid[row][col]))
		}
		b.WriteString(" │ ")
		lines = append(lines, b.String())
	}
	lines = append(lines, bottomBorder, fileLabels)
	return lines
}

// Text renders grid as a text board whose line breaks are escaped, so the
// whole diagram fits on one protocol line.
func Text(grid [8][8]chess.Piece) string {
	return strings.Join(TextLines(grid), EscapedNewline)
}
