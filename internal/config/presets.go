package config

import (
	"sort"
	"time"
)

// Palettes maps palette names to their colors, in cycling order.
var Palettes = map[string][]string{
	"ember-sea": {"#ff0000", "#d2292d", "#af0c15", "#87ceeb", "#1761b0", "#0d3580"},
	"ocean":     {"#001a33", "#0077be", "#00a8cc", "#48cae4", "#90e0ef", "#023e8a"},
	"sunset":    {"#ff6b6b", "#feca57", "#ff9ff3", "#2d1b2e", "#ff4757", "#ffc048"},
	"cyberpunk": {"#ff00ff", "#00ffff", "#ffff00", "#0a0a0a"},
	"retro":     {"#00ff00", "#00cc00", "#88ff88", "#005500"},
	"mono":      {"#000000", "#444444", "#888888", "#cccccc"},
}

// Presets are complete configurations keyed by name. Fields left zero take
// the defaults when loaded through GetPreset.
var Presets = map[string]*Config{
	"reference": {Palette: "ember-sea"},
	"calm": {
		Palette: "ocean", Period: 12, StepSize: 0.1, GradientSpeed: 0.001,
		BarInterval: Duration(2 * time.Second),
	},
	"storm": {
		Palette: "cyberpunk", Period: 2, StepSize: 0.6, GradientSpeed: 0.01,
		BarInterval: Duration(250 * time.Millisecond),
	},
	"ocean":  {Palette: "ocean", Bars: 40, StepSize: 0.25},
	"sunset": {Palette: "sunset", Bars: 24, Period: 8},
	"mono":   {Palette: "mono", Bars: 60, StepSize: 0.2},
}

// GetPreset returns a copy of the named preset filled with defaults, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Palette = p.Palette
	if p.Bars != 0 {
		cfg.Bars = p.Bars
	}
	if p.Period != 0 {
		cfg.Period = p.Period
	}
	if p.StepSize != 0 {
		cfg.StepSize = p.StepSize
	}
	if p.GradientSpeed != 0 {
		cfg.GradientSpeed = p.GradientSpeed
	}
	if p.GradientInterval != 0 {
		cfg.GradientInterval = p.GradientInterval
	}
	if p.BarInterval != 0 {
		cfg.BarInterval = p.BarInterval
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func PaletteNames() []string {
	names := make([]string, 0, len(Palettes))
	for name := range Palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
