package viz

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the live view.
type keyMap struct {
	pause   key.Binding
	reset   key.Binding
	palette key.Binding
	theme   key.Binding
	faster  key.Binding
	slower  key.Binding
	stats   key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reseed")),
		palette: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "palette")),
		theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		faster:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		slower:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		stats:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "stats")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pause, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.pause, k.reset},
		{k.palette, k.theme},
		{k.faster, k.slower, k.stats},
		{k.help, k.quit},
	}
}
