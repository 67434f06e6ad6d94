package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/ambient/internal/ambient"
)

// Theme colors the bars and the chrome around the scene.
type Theme struct {
	Name   string
	Bar    ambient.RGB
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Paused lipgloss.Color
}

// Available themes
var (
	ThemeSky = Theme{
		Name:   "sky",
		Bar:    ambient.RGB{R: 52, G: 152, B: 219},
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888899"),
		Accent: lipgloss.Color("#00ccff"),
		Paused: lipgloss.Color("#ffaa00"),
	}

	ThemeSnow = Theme{
		Name:   "snow",
		Bar:    ambient.RGB{R: 245, G: 245, B: 245},
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#aaaaaa"),
		Accent: lipgloss.Color("#0088ff"),
		Paused: lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Bar:    ambient.RGB{R: 0, G: 255, B: 0},
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Accent: lipgloss.Color("#88ff88"),
		Paused: lipgloss.Color("#ffff00"),
	}

	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Bar:    ambient.RGB{R: 255, G: 0, B: 255},
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Accent: lipgloss.Color("#ffff00"),
		Paused: lipgloss.Color("#ff8800"),
	}

	// All available themes
	Themes = []Theme{
		ThemeSky,
		ThemeSnow,
		ThemeRetroGreen,
		ThemeCyberpunk,
	}
)

// GetTheme returns a theme by name, falling back to sky.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSky
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
