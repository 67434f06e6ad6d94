package viz

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/ambient/internal/ambient"
	"github.com/san-kum/ambient/internal/config"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	bright  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	keyHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var presetInfo = map[string]string{
	"reference": "stock settings on the ember-sea palette",
	"calm":      "slow drift",
	"storm":     "fast and jittery",
	"ocean":     "deep blues",
	"sunset":    "warm pinks",
	"mono":      "greyscale, dense",
}

const (
	stateMenu = iota
	stateLive
)

// picker lists the presets and switches to the live view on selection.
type picker struct {
	ctx           context.Context
	logger        *log.Logger
	state, cursor int
	presets       []string
	width, height int
	live          Model
	err           error
}

func newPicker(ctx context.Context, logger *log.Logger) picker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return picker{
		ctx:     ctx,
		logger:  logger,
		state:   stateMenu,
		presets: config.ListPresets(),
		width:   width,
		height:  height,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	if m.state == stateLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		return m.menuKey(k)
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (picker, tea.Cmd) {
	cfg := config.GetPreset(m.presets[m.cursor])
	live, err := NewModel(m.ctx, cfg, m.logger)
	if err != nil {
		m.err = err
		return m, nil
	}
	live.width, live.height = m.width, m.height
	live.help.Width = m.width
	m.live, m.state = live, stateLive
	m.logger.Info("preset selected", "preset", m.presets[m.cursor], "seed", live.seed)
	return m, live.Init()
}

// Close stops the live engine, if one was started.
func (m picker) Close() {
	if m.state == stateLive {
		m.live.Close()
	}
}

func (m picker) View() string {
	if m.state == stateLive {
		return m.live.View()
	}
	return m.viewMenu()
}

func (m picker) viewMenu() string {
	var b strings.Builder
	title := GradientText("AMBIENT", ambient.DefaultPalette.At(0), ambient.DefaultPalette.At(4))
	b.WriteString("\n\n    " + title + "\n    " + Subtle.Render("animated backdrop") + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", cyan.Render("▸"), bright.Render(fmt.Sprintf("%-12s", name)), magenta.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", dim.Render(fmt.Sprintf("  %-12s", name)), dimmer.Render(desc))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHint.Render("j/k") + dim.Render(" navigate  ") + keyHint.Render("enter") + dim.Render(" select  ") + keyHint.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive lets the user pick a preset, then runs it live.
func RunInteractive(ctx context.Context, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return runProgram(ctx, newPicker(ctx, logger), logger, "")
}
