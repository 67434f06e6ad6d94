package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a monochrome braille grid, two dots wide and four tall per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set turns on the dot at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillRect sets every dot with x0 <= x < x1 and y0 <= y < y1.
func (c *Canvas) FillRect(x0, y0, x1, y1 int) {
	for y := max(y0, 0); y < y1; y++ {
		for x := max(x0, 0); x < x1; x++ {
			c.Set(x, y)
		}
	}
}

// DrawBars fills one column of dots per bar, rising from the bottom edge,
// with a one-dot gap between bars when there is room for it.
func (c *Canvas) DrawBars(heights []float64) {
	n := len(heights)
	if n == 0 {
		return
	}
	w, h := c.Width*2, c.Height*4
	for i, v := range heights {
		x0 := i * w / n
		x1 := (i + 1) * w / n
		if x1-x0 >= 2 {
			x1--
		}
		top := h - int(clamp01(v)*float64(h)+0.5)
		c.FillRect(x0, top, x1, h)
	}
}

// DrawSeries plots values in [0, 1] left to right as a connected line.
func (c *Canvas) DrawSeries(values []float64) {
	if len(values) == 0 {
		return
	}
	w, h := c.Width*2, c.Height*4
	point := func(i int) (int, int) {
		x := 0
		if len(values) > 1 {
			x = i * (w - 1) / (len(values) - 1)
		}
		return x, (h - 1) - int(clamp01(values[i])*float64(h-1)+0.5)
	}
	px, py := point(0)
	c.Set(px, py)
	for i := 1; i < len(values); i++ {
		x, y := point(i)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
