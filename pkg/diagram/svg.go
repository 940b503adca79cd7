// Package diagram renders board diagrams for the editor: a sized SVG image
// and a single-line box-drawing text board.
package diagram

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/notnil/chess"
	"github.com/notnil/chess/image"
)

// nativeSize is the side length, in user units, of the board drawn by
// chess/image (8 squares of 45).
const nativeSize = 360

var (
	lightSquare   = color.NRGBA{R: 0xf0, G: 0xd9, B: 0xb5, A: 0xff} // #f0d9b5
	darkSquare    = color.NRGBA{R: 0xb5, G: 0x88, B: 0x63, A: 0xff} // #b58863
	lastMoveColor = color.NRGBA{R: 0xcd, G: 0xd1, B: 0x6a, A: 0xff} // #cdd16a
)

// SVG renders pos as an SVG document of pixels x pixels, highlighting the
// from and to squares of lastMove when it is not nil. The result holds no
// newlines.
func SVG(pos *chess.Position, lastMove *chess.Move, pixels int) (string, error) {
	if pixels < 1 {
		return "", fmt.Errorf("invalid board size %d", pixels)
	}

	var marked []chess.Square
	if lastMove != nil {
		marked = []chess.Square{lastMove.S1(), lastMove.S2()}
	}
	var inner bytes.Buffer
	err := image.SVG(&inner, pos.Board(),
		image.SquareColors(lightSquare, darkSquare),
		image.MarkSquares(lastMoveColor, marked...),
	)
	if err != nil {
		return "", fmt.Errorf("render svg: %w", err)
	}
	body := inner.Bytes()
	if i := bytes.Index(body, []byte("<svg")); i > 0 {
		body = body[i:]
	}

	var out bytes.Buffer
	canvas := svg.New(&out)
	canvas.Startview(pixels, pixels, 0, 0, nativeSize, nativeSize)
	out.Write(body)
	canvas.End()
	return flatten(out.String()), nil
}

// flatten joins the lines of an XML document into one line.
func flatten(doc string) string {
	lines := strings.Split(doc, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, " ")
}
