package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/san-kum/ambient/internal/ambient"
	"github.com/san-kum/ambient/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	home        = "\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	reset       = "\033[0m"
)

// LiveRenderer paints frames straight to a terminal with 24-bit color
// escapes. It is an ambient.Renderer: the engine calls it from its clock
// goroutine. Gradient frames are throttled to the frame rate; bar frames are
// always drawn.
type LiveRenderer struct {
	out     io.Writer
	width   int
	rows    int
	barRows int
	bar     ambient.RGB
	limiter *rate.Limiter

	mu       sync.Mutex
	gradient ambient.GradientFrame
	heights  []float64
	barTick  uint64
	frames   int
}

func NewLiveRenderer(out io.Writer, width, rows, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:     out,
		width:   width,
		rows:    rows,
		barRows: max(rows/3, 1),
		bar:     viz.ThemeSky.Bar,
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(frameRate)), 1),
	}
}

// SetBarColor changes the color bars are composited with.
func (r *LiveRenderer) SetBarColor(c ambient.RGB) {
	r.mu.Lock()
	r.bar = c
	r.mu.Unlock()
}

func (r *LiveRenderer) RenderGradient(f ambient.GradientFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gradient = f
	if r.limiter.Allow() {
		r.draw()
	}
}

func (r *LiveRenderer) RenderBars(f ambient.BarFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heights = f.Heights()
	r.barTick = f.Tick
	r.draw()
}

// Frames reports how many frames have been written.
func (r *LiveRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func fg(c ambient.RGB) string { return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B) }
func bg(c ambient.RGB) string { return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B) }

func (r *LiveRenderer) draw() {
	row := viz.GradientRow(r.gradient.Left, r.gradient.Right, r.width)
	band := make([]string, len(row))
	for x, c := range row {
		band[x] = bg(c)
	}

	var b strings.Builder
	b.WriteString(home)
	for y := 0; y < r.rows-r.barRows; y++ {
		for x := range row {
			b.WriteString(band[x])
			b.WriteByte(' ')
		}
		b.WriteString(reset + "\n")
	}
	for y := range r.barRows {
		fromBottom := r.barRows - 1 - y
		for x, c := range row {
			b.WriteString(band[x])
			idx, gap := viz.BarColumn(x, r.width, len(r.heights))
			if gap || idx >= len(r.heights) {
				b.WriteByte(' ')
				continue
			}
			h := r.heights[idx]
			glyph := viz.BarGlyph(h, r.barRows, fromBottom)
			if glyph != ' ' {
				b.WriteString(fg(ambient.Lerp(c, r.bar, h)))
			}
			b.WriteRune(glyph)
		}
		b.WriteString(reset + "\n")
	}

	mean := 0.0
	for _, h := range r.heights {
		mean += h
	}
	if len(r.heights) > 0 {
		mean /= float64(len(r.heights))
	}
	fmt.Fprintf(&b, "  %s → %s  step=%.3f  tick=%d  mean=%.2f\033[K\n",
		r.gradient.Left.Hex(), r.gradient.Right.Hex(), r.gradient.Step, r.barTick, mean)

	io.WriteString(r.out, b.String())
	r.frames++
}

func (r *LiveRenderer) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(r.out, hideCursor+clearScreen)
}

func (r *LiveRenderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(r.out, reset+showCursor)
}
