package ambient

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Lerp blends a toward b by t, rounding each channel to the nearest integer.
func Lerp(a, b RGB, t float64) RGB {
	it := 1 - t
	return RGB{
		R: mixChannel(a.R, b.R, t, it),
		G: mixChannel(a.G, b.G, t, it),
		B: mixChannel(a.B, b.B, t, it),
	}
}

func mixChannel(a, b uint8, t, it float64) uint8 {
	v := math.Floor(it*float64(a) + t*float64(b) + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Palette is an ordered, immutable sequence of colors.
type Palette struct {
	colors []RGB
}

// NewPalette copies colors into a palette. At least two colors are required.
func NewPalette(colors ...RGB) (Palette, error) {
	if len(colors) < 2 {
		return Palette{}, configErr("palette", len(colors), ErrPaletteTooSmall)
	}
	c := make([]RGB, len(colors))
	copy(c, colors)
	return Palette{colors: c}, nil
}

// ParsePalette builds a palette from hex strings.
func ParsePalette(hex ...string) (Palette, error) {
	colors := make([]RGB, 0, len(hex))
	for _, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return Palette{}, err
		}
		colors = append(colors, c)
	}
	return NewPalette(colors...)
}

func mustPalette(colors ...RGB) Palette {
	p, err := NewPalette(colors...)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPalette runs from bright red through dark red to light and dark blue.
var DefaultPalette = mustPalette(
	RGB{255, 0, 0},
	RGB{210, 41, 45},
	RGB{175, 12, 21},
	RGB{135, 206, 235},
	RGB{23, 97, 176},
	RGB{13, 53, 128},
)

func (p Palette) Len() int { return len(p.colors) }

// At returns the i-th color. It panics if i is out of range.
func (p Palette) At(i int) RGB { return p.colors[i] }

// Colors returns a copy of the palette's colors.
func (p Palette) Colors() []RGB {
	c := make([]RGB, len(p.colors))
	copy(c, p.colors)
	return c
}

// Hex returns the colors formatted as #rrggbb.
func (p Palette) Hex() []string {
	out := make([]string, len(p.colors))
	for i, c := range p.colors {
		out[i] = c.Hex()
	}
	return out
}

func (p Palette) validate() error {
	if len(p.colors) < 2 {
		return configErr("palette", len(p.colors), ErrPaletteTooSmall)
	}
	return nil
}
