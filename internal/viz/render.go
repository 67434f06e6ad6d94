package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ambient/internal/ambient"
)

var barGlyphs = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Scene is everything needed to draw one frame of the backdrop.
type Scene struct {
	Gradient ambient.GradientFrame
	// Heights are the displayed bar heights, usually spring-smoothed.
	Heights []float64
	Width   int
	Rows    int
	BarRows int
	Bar     ambient.RGB
}

// GradientRow interpolates left to right across width columns.
func GradientRow(left, right ambient.RGB, width int) []ambient.RGB {
	if width <= 0 {
		return nil
	}
	row := make([]ambient.RGB, width)
	if width == 1 {
		row[0] = left
		return row
	}
	for x := range row {
		row[x] = ambient.Lerp(left, right, float64(x)/float64(width-1))
	}
	return row
}

// BarColumn maps a terminal column to the bar drawn in it. The last column
// of each slot is left empty as a gap once slots are two or more columns wide.
func BarColumn(col, width, n int) (idx int, gap bool) {
	if n <= 0 || width <= 0 {
		return 0, true
	}
	idx = col * n / width
	if width < 2*n {
		return idx, false
	}
	next := (col + 1) * n / width
	return idx, next != idx || col == width-1
}

// BarGlyph picks the glyph for a cell fromBottom rows above the baseline of
// a bar area rows tall, using eighth blocks for the partial top cell.
func BarGlyph(h float64, rows, fromBottom int) rune {
	fill := h*float64(rows) - float64(fromBottom)
	switch {
	case fill >= 1:
		return barGlyphs[len(barGlyphs)-1]
	case fill <= 0:
		return ' '
	}
	return barGlyphs[int(fill*float64(len(barGlyphs)-1))]
}

func renderBand(colors []ambient.RGB) string {
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(" "))
	}
	return b.String()
}

// RenderScene draws the gradient band with the bar field along its bottom
// edge. Each bar is composited over the band with opacity equal to its height.
func RenderScene(s Scene) string {
	if s.Width <= 0 || s.Rows <= 0 {
		return ""
	}
	bg := GradientRow(s.Gradient.Left, s.Gradient.Right, s.Width)
	barRows := min(max(s.BarRows, 0), s.Rows)
	lines := make([]string, 0, s.Rows)

	if bandRows := s.Rows - barRows; bandRows > 0 {
		band := renderBand(bg)
		for range bandRows {
			lines = append(lines, band)
		}
	}

	for r := range barRows {
		fromBottom := barRows - 1 - r
		var b strings.Builder
		for col, c := range bg {
			style := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex()))
			glyph := ' '
			if idx, gap := BarColumn(col, s.Width, len(s.Heights)); !gap && idx < len(s.Heights) {
				h := clamp01(s.Heights[idx])
				if glyph = BarGlyph(h, barRows, fromBottom); glyph != ' ' {
					style = style.Foreground(lipgloss.Color(ambient.Lerp(c, s.Bar, h).Hex()))
				}
			}
			b.WriteString(style.Render(string(glyph)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
