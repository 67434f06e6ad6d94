package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/ambient/internal/ambient"
	"github.com/san-kum/ambient/internal/viz"
)

// barMargin is the horizontal space, in viewport units, between bars.
const barMargin = 2.0

// FrameToSVG draws one still of the backdrop: the gradient band as a linear
// gradient with the bars along the bottom edge, each filled with bar at an
// opacity equal to its height.
func FrameToSVG(g ambient.GradientFrame, bars ambient.BarFrame, width, height int, bar ambient.RGB) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs>
<linearGradient id="backdrop" x1="0" y1="0" x2="1" y2="0">
<stop offset="0" stop-color="%s"/>
<stop offset="1" stop-color="%s"/>
</linearGradient>
</defs>
<rect width="100%%" height="100%%" fill="url(#backdrop)"/>
<g fill="%s">
`, width, height, width, height, g.Left.Hex(), g.Right.Hex(), bar.Hex())

	viewport := bars.BarWidth * float64(len(bars.Samples))
	if viewport > 0 {
		scale := float64(width) / viewport
		for _, s := range bars.Samples {
			w := max(bars.BarWidth-barMargin, 1) * scale
			h := s.Height * float64(height)
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill-opacity="%.3f"/>
`, s.X*scale, float64(height)-h, w, h, s.Opacity)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// BarsCanvas renders a bar frame onto a braille canvas cols by rows cells.
func BarsCanvas(bars ambient.BarFrame, cols, rows int) *viz.Canvas {
	c := viz.NewCanvas(cols, rows)
	c.DrawBars(bars.Heights())
	return c
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, background, dot ambient.RGB) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, width, height, width, height, background.Hex(), dot.Hex())

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values in [0, 1] as a polyline, one point per value.
func SeriesToSVG(values []float64, width, height int, stroke ambient.RGB) string {
	if len(values) < 2 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke.Hex())

	step := float64(width) / float64(len(values)-1)
	for i, v := range values {
		v = min(max(v, 0), 1)
		x := float64(i) * step
		y := float64(height) - v*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func WriteFile(path, svg string) error {
	return os.WriteFile(path, []byte(svg), 0644)
}
