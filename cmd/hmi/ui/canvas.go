package ui

import (
	"strings"

	"torhmi/internal/render"

	"github.com/charmbracelet/lipgloss"
)

type cellStyle struct {
	fg, bg render.Color
	bold   bool
}

// PaintGrid renders a rasterized road frame with terminal colors. Runs of
// cells sharing a style are rendered together.
func PaintGrid(g render.Grid) string {
	var sb strings.Builder
	for row := 0; row < g.Rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		cells := g.Row(row)
		start := 0
		for i := 1; i <= len(cells); i++ {
			if i < len(cells) && styleOf(cells[i]) == styleOf(cells[start]) {
				continue
			}
			sb.WriteString(paintRun(cells[start:i]))
			start = i
		}
	}
	return sb.String()
}

func styleOf(c render.Cell) cellStyle {
	return cellStyle{fg: c.FG, bg: c.BG, bold: c.Bold}
}

func paintRun(cells []render.Cell) string {
	runes := make([]rune, len(cells))
	for i, c := range cells {
		runes[i] = c.Rune
	}
	first := cells[0]
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(first.FG.HexString())).
		Background(lipgloss.Color(first.BG.HexString())).
		Bold(first.Bold).
		Render(string(runes))
}
