package viz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ambient/internal/ambient"
	"github.com/san-kum/ambient/internal/config"
)

const (
	width        = 80
	height       = 24
	meanCapacity = 240
)

var graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(0, 1)

type TickMsg time.Time

// ConfigMsg carries a reloaded config into a running program.
type ConfigMsg struct {
	Config *config.Config
	Err    error
}

// Model draws a running engine. The engine ticks on its own clock into a
// Buffer; every frame the model reads the latest frames from it and eases
// the bars toward their logical heights.
type Model struct {
	ctx    context.Context
	cfg    config.Config
	logger *log.Logger

	engine *ambient.Engine
	buffer *ambient.Buffer
	seed   int64

	springs springField
	targets []float64
	shown   []float64
	means   []float64
	barTick uint64
	synced  bool

	theme         Theme
	width, height int
	paused        bool
	showStats     bool
	keys          keyMap
	help          help.Model
	err           error
}

// NewModel builds the engine from cfg and starts it. The engine stops when
// ctx ends or Close is called.
func NewModel(ctx context.Context, cfg *config.Config, logger *log.Logger) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		ctx:     ctx,
		cfg:     *cfg,
		logger:  logger,
		springs: newSpringField(cfg.FPS, cfg.Smoothing.Frequency, cfg.Smoothing.Damping),
		theme:   ThemeSky,
		width:   width,
		height:  height,
		keys:    newKeyMap(),
		help:    help.New(),
	}
	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// rebuild replaces the engine with one built from the current config.
func (m *Model) rebuild() error {
	if m.engine != nil {
		m.engine.Stop()
	}
	opts, err := m.cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = m.logger
	buf := &ambient.Buffer{}
	eng, err := ambient.New(opts, buf)
	if err != nil {
		return err
	}
	m.engine, m.buffer, m.seed = eng, buf, opts.Seed
	m.synced = false
	m.means = m.means[:0]
	m.logger.Debug("engine built", "seed", opts.Seed, "palette", m.cfg.Palette, "bars", opts.Bars)
	if m.paused {
		return nil
	}
	return eng.Start(m.ctx)
}

// Close stops the engine.
func (m Model) Close() {
	if m.engine != nil {
		m.engine.Stop()
	}
}

func (m Model) Seed() int64 { return m.seed }

func (m Model) Paused() bool { return m.paused }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input and advances the smoothing each frame.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	case ConfigMsg:
		m.applyConfig(msg)
	case TickMsg:
		m.pull()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.pause):
		m.paused = !m.paused
		if m.paused {
			m.engine.Stop()
		} else {
			m.err = m.engine.Start(m.ctx)
		}
	case key.Matches(msg, m.keys.reset):
		m.cfg.Seed = 0
		m.err = m.rebuild()
	case key.Matches(msg, m.keys.palette):
		m.cfg.Palette = nextName(config.PaletteNames(), m.cfg.Palette)
		m.cfg.Colors = nil
		m.cfg.Seed = m.seed
		m.err = m.rebuild()
	case key.Matches(msg, m.keys.theme):
		m.theme = NextTheme(m.theme.Name)
	case key.Matches(msg, m.keys.faster):
		m.retuneSpeed(2)
	case key.Matches(msg, m.keys.slower):
		m.retuneSpeed(0.5)
	case key.Matches(msg, m.keys.stats):
		m.showStats = !m.showStats
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func nextName(names []string, current string) string {
	i := slices.Index(names, current)
	return names[(i+1)%len(names)]
}

func (m *Model) retuneSpeed(factor float64) {
	speed := min(m.cfg.GradientSpeed*factor, 1)
	if speed <= 0 {
		return
	}
	m.cfg.GradientSpeed = speed
	m.err = m.engine.Retune(m.cfg.Tuning())
}

// structural reports whether moving from a to b needs a new engine rather
// than a retune.
func structural(a, b *config.Config) bool {
	return a.Palette != b.Palette ||
		!slices.Equal(a.Colors, b.Colors) ||
		a.Bars != b.Bars ||
		a.ViewportWidth != b.ViewportWidth ||
		a.GradientInterval != b.GradientInterval ||
		a.BarInterval != b.BarInterval ||
		a.Seed != b.Seed
}

func (m *Model) applyConfig(msg ConfigMsg) {
	if msg.Err != nil {
		m.logger.Warn("config reload failed", "err", msg.Err)
		m.err = msg.Err
		return
	}
	next := *msg.Config
	rebuild := structural(&m.cfg, &next)
	if next.FPS != m.cfg.FPS || next.Smoothing != m.cfg.Smoothing {
		m.springs = newSpringField(next.FPS, next.Smoothing.Frequency, next.Smoothing.Damping)
		m.springs.snap(m.shown)
	}
	m.cfg = next
	m.err = nil
	if rebuild {
		m.logger.Info("config reloaded, rebuilding engine")
		m.err = m.rebuild()
		return
	}
	m.logger.Info("config reloaded, retuning engine")
	m.err = m.engine.Retune(m.cfg.Tuning())
}

// pull picks up a new bar frame if one landed and steps the springs.
func (m *Model) pull() {
	if f, ok := m.buffer.Bars(); ok && (!m.synced || f.Tick != m.barTick) {
		m.targets = f.Heights()
		m.barTick = f.Tick
		if !m.synced {
			m.springs.snap(m.targets)
			m.synced = true
		}
		m.means = append(m.means, f.MeanHeight())
		if len(m.means) > meanCapacity {
			m.means = m.means[len(m.means)-meanCapacity:]
		}
	}
	m.shown = m.springs.stepAll(m.targets, m.shown)
}

func (m Model) View() string {
	g, _ := m.buffer.Gradient()
	chrome := m.chrome(g)

	rows := max(m.height-lipgloss.Height(chrome), 1)
	scene := RenderScene(Scene{
		Gradient: g,
		Heights:  m.shown,
		Width:    m.width,
		Rows:     rows,
		BarRows:  max(rows/3, 1),
		Bar:      m.theme.Bar,
	})
	return scene + "\n" + chrome
}

func (m Model) chrome(g ambient.GradientFrame) string {
	label := lipgloss.NewStyle().Foreground(m.theme.Muted)
	value := lipgloss.NewStyle().Foreground(m.theme.Text).Bold(true)

	var s strings.Builder
	s.WriteString(GradientText("ambient", g.Left, g.Right))
	if m.paused {
		s.WriteString(" " + lipgloss.NewStyle().Foreground(m.theme.Paused).Bold(true).Render("PAUSED"))
	} else {
		s.WriteString(" " + StatusRunning.Render("LIVE"))
	}
	fmt.Fprintf(&s, " %s %s", label.Render("palette"), value.Render(m.cfg.Palette))
	fmt.Fprintf(&s, " %s %s", label.Render("seed"), value.Render(fmt.Sprint(m.seed)))
	fmt.Fprintf(&s, " %s %s", label.Render("step"), ProgressBar(g.Step, 10))
	fmt.Fprintf(&s, " %s %s", label.Render("mean"), SparklineChart(m.means, 20))
	if m.err != nil {
		s.WriteString(" " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()))
	}

	out := s.String()
	if m.showStats && len(m.means) > 1 {
		chart := asciigraph.Plot(m.means,
			asciigraph.Height(6),
			asciigraph.Width(max(min(60, m.width-12), 10)),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("mean bar height"))
		out = graphStyle.Render(chart) + "\n" + out
	}
	return out + "\n" + m.help.View(m.keys)
}

// Run shows the live view until the user quits or ctx ends. When watchPath
// is set, edits to that file are applied to the running engine.
func Run(ctx context.Context, cfg *config.Config, logger *log.Logger, watchPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m, err := NewModel(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return runProgram(ctx, m, logger, watchPath)
}

func runProgram(ctx context.Context, m tea.Model, logger *log.Logger, watchPath string) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if watchPath != "" {
		go func() {
			err := config.Watch(ctx, watchPath, func(c *config.Config, err error) {
				p.Send(ConfigMsg{Config: c, Err: err})
			})
			if err != nil && !errors.Is(err, context.Canceled) && logger != nil {
				logger.Warn("config watch stopped", "err", err)
			}
		}()
	}

	final, err := p.Run()
	if c, ok := final.(interface{ Close() }); ok {
		c.Close()
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
