package ambient

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Renderer consumes frames. Frames are values and may be retained.
type Renderer interface {
	RenderGradient(GradientFrame)
	RenderBars(BarFrame)
}

// Options configures an [Engine].
type Options struct {
	Palette          Palette
	Bars             int
	ViewportWidth    float64
	Period           int
	StepSize         float64
	GradientSpeed    float64
	GradientInterval time.Duration
	BarInterval      time.Duration

	// Seed derives the generators' sources when GradientRand or BarRand is nil.
	Seed         int64
	GradientRand Rand
	BarRand      Rand

	Logger *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Palette:          DefaultPalette,
		Bars:             DefaultBarCount,
		ViewportWidth:    1200,
		Period:           DefaultPeriod,
		StepSize:         DefaultStepSize,
		GradientSpeed:    DefaultGradientSpeed,
		GradientInterval: DefaultGradientInterval,
		BarInterval:      DefaultBarInterval,
		Seed:             time.Now().UnixNano(),
	}
}

// Validate reports the first configuration error, if any.
func (o Options) Validate() error {
	if err := o.Palette.validate(); err != nil {
		return err
	}
	if o.Bars <= 0 {
		return configErr("bars", o.Bars, ErrInvalidBarCount)
	}
	if !(o.ViewportWidth > 0) {
		return configErr("viewport_width", o.ViewportWidth, ErrInvalidViewport)
	}
	if err := (BarParams{Period: o.Period, StepSize: o.StepSize}).validate(); err != nil {
		return err
	}
	if err := validateSpeed(o.GradientSpeed); err != nil {
		return err
	}
	if o.GradientInterval <= 0 {
		return configErr("gradient_interval", o.GradientInterval, ErrInvalidInterval)
	}
	if o.BarInterval <= 0 {
		return configErr("bar_interval", o.BarInterval, ErrInvalidInterval)
	}
	return nil
}

// Tuning holds the parameters that may change while the engine runs.
type Tuning struct {
	Period        int
	StepSize      float64
	GradientSpeed float64
}

func (t Tuning) validate() error {
	if err := (BarParams{Period: t.Period, StepSize: t.StepSize}).validate(); err != nil {
		return err
	}
	return validateSpeed(t.GradientSpeed)
}

// Engine drives a gradient cycler and a bar field on one clock and hands
// every frame to a renderer. It is built when a surface is mounted and
// stopped when it goes away.
type Engine struct {
	opts     Options
	gradient *GradientCycler
	bars     *BarFieldAnimator
	clock    *Clock
	renderer Renderer
	logger   *log.Logger

	gradientTune atomic.Pointer[float64]
	barTune      atomic.Pointer[BarParams]

	mu      sync.Mutex
	running bool
}

// New validates opts and builds the engine. A nil renderer discards frames.
func New(opts Options, r Renderer) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.GradientRand == nil {
		opts.GradientRand = NewRand(opts.Seed)
	}
	if opts.BarRand == nil {
		opts.BarRand = NewRand(opts.Seed + 1)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if r == nil {
		r = Discard
	}

	g, err := NewGradientCycler(opts.Palette, opts.GradientSpeed, opts.GradientRand)
	if err != nil {
		return nil, err
	}
	b, err := NewBarFieldAnimator(opts.Bars, opts.ViewportWidth, BarParams{Period: opts.Period, StepSize: opts.StepSize}, opts.BarRand)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:     opts,
		gradient: g,
		bars:     b,
		renderer: r,
		logger:   opts.Logger,
	}
	e.clock, err = NewClock(
		Channel{Name: "gradient", Interval: opts.GradientInterval, Tick: func(time.Time) { e.tickGradient() }},
		Channel{Name: "bars", Interval: opts.BarInterval, Tick: func(time.Time) { e.tickBars() }},
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) tickGradient() GradientFrame {
	if s := e.gradientTune.Swap(nil); s != nil {
		_ = e.gradient.SetSpeed(*s)
	}
	f := e.gradient.Tick()
	e.renderer.RenderGradient(f)
	return f
}

func (e *Engine) tickBars() BarFrame {
	if p := e.barTune.Swap(nil); p != nil {
		_ = e.bars.SetParams(*p)
	}
	f := e.bars.Tick()
	e.renderer.RenderBars(f)
	return f
}

// Start renders the initial frames and begins ticking.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running && e.clock.Running() {
		return ErrClockRunning
	}

	e.renderer.RenderGradient(e.gradient.Colors())
	e.renderer.RenderBars(e.bars.Frame())

	if err := e.clock.Start(ctx); err != nil {
		return err
	}
	e.running = true
	e.logger.Info("engine started",
		"bars", e.bars.Len(),
		"palette", e.opts.Palette.Len(),
		"gradient_interval", e.opts.GradientInterval,
		"bar_interval", e.opts.BarInterval)
	return nil
}

// Stop halts the clock. No frame is rendered after Stop returns.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.clock.Stop()
	e.running = false
	ticks := e.clock.Ticks()
	e.logger.Info("engine stopped", "gradient_ticks", ticks[0], "bar_ticks", ticks[1])
}

func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running && e.clock.Running()
}

// Retune schedules new tuning. Each generator picks it up on its next tick.
func (e *Engine) Retune(t Tuning) error {
	if err := t.validate(); err != nil {
		return err
	}
	speed := t.GradientSpeed
	e.gradientTune.Store(&speed)
	e.barTune.Store(&BarParams{Period: t.Period, StepSize: t.StepSize})
	e.logger.Debug("engine retuned", "period", t.Period, "step_size", t.StepSize, "gradient_speed", t.GradientSpeed)
	return nil
}

func (e *Engine) Options() Options { return e.opts }

// Discard is a renderer that drops every frame.
var Discard Renderer = discard{}

type discard struct{}

func (discard) RenderGradient(GradientFrame) {}
func (discard) RenderBars(BarFrame)          {}

// Buffer keeps the latest frames for a reader on another goroutine.
type Buffer struct {
	gradient atomic.Pointer[GradientFrame]
	bars     atomic.Pointer[BarFrame]
}

func (b *Buffer) RenderGradient(f GradientFrame) { b.gradient.Store(&f) }
func (b *Buffer) RenderBars(f BarFrame)          { b.bars.Store(&f) }

// Gradient returns the latest gradient frame and whether one was rendered.
func (b *Buffer) Gradient() (GradientFrame, bool) {
	f := b.gradient.Load()
	if f == nil {
		return GradientFrame{}, false
	}
	return *f, true
}

// Bars returns the latest bar frame and whether one was rendered.
func (b *Buffer) Bars() (BarFrame, bool) {
	f := b.bars.Load()
	if f == nil {
		return BarFrame{}, false
	}
	return *f, true
}

// Fanout forwards every frame to each renderer in order.
type Fanout []Renderer

func (f Fanout) RenderGradient(g GradientFrame) {
	for _, r := range f {
		r.RenderGradient(g)
	}
}

func (f Fanout) RenderBars(b BarFrame) {
	for _, r := range f {
		r.RenderBars(b)
	}
}
