package game

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the grid as text. Hidden cells are '#', revealed blanks '.',
// hints their digit and revealed hazards '*'. With showHazards set, hidden
// hazards are drawn as 'O'.
func (game *Game) Render(w io.Writer, showHazards bool) error {
	width := game.grid.Width()
	colWidth := len(fmt.Sprint(width - 1))
	rowWidth := len(fmt.Sprint(game.grid.Height() - 1))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowWidth+2))
	for x := 0; x < width; x++ {
		fmt.Fprintf(&b, "%*d ", colWidth, x)
	}
	b.WriteString("\n")

	for idx := range game.grid.cells {
		if idx%width == 0 {
			fmt.Fprintf(&b, "%*d: ", rowWidth, idx/width)
		}
		fmt.Fprintf(&b, "%*s ", colWidth, glyph(&game.grid.cells[idx], showHazards))
		if idx%width == width-1 {
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func glyph(cell *Cell, showHazards bool) string {
	switch {
	case cell.state == Hidden && cell.isHazard && showHazards:
		return "O"
	case cell.state == Hidden:
		return "#"
	case cell.isHazard:
		return "*"
	case cell.adjacentHazards == 0:
		return "."
	default:
		return fmt.Sprint(cell.adjacentHazards)
	}
}
