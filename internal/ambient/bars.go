package ambient

const (
	DefaultBarCount = 30
	DefaultPeriod   = 6
	DefaultStepSize = 0.4
)

// Bar is one slot of the field. Height stays within [0, 1].
type Bar struct {
	Height    float64
	Direction int
	Counter   int
}

// BarParams tunes the random walk.
type BarParams struct {
	// Period is the number of ticks a direction is held before it is redrawn.
	Period   int
	StepSize float64
}

func DefaultBarParams() BarParams {
	return BarParams{Period: DefaultPeriod, StepSize: DefaultStepSize}
}

func (p BarParams) validate() error {
	if p.Period < 1 {
		return configErr("period", p.Period, ErrInvalidPeriod)
	}
	if !(p.StepSize > 0 && p.StepSize <= 1) {
		return configErr("step_size", p.StepSize, ErrInvalidStepSize)
	}
	return nil
}

// BarSample is a bar as the renderer sees it.
type BarSample struct {
	Index   int
	X       float64
	Height  float64
	Opacity float64
}

// BarFrame is an immutable snapshot of the field.
type BarFrame struct {
	Tick     uint64
	BarWidth float64
	Samples  []BarSample
}

// Heights returns the bar heights in slot order.
func (f BarFrame) Heights() []float64 {
	h := make([]float64, len(f.Samples))
	for i, s := range f.Samples {
		h[i] = s.Height
	}
	return h
}

func (f BarFrame) MeanHeight() float64 {
	if len(f.Samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range f.Samples {
		sum += s.Height
	}
	return sum / float64(len(f.Samples))
}

// BarFieldAnimator moves a fixed row of bars. Every bar commits to a
// direction for Period ticks and bounces when it hits 0 or 1.
type BarFieldAnimator struct {
	bars     []Bar
	params   BarParams
	viewport float64
	barWidth float64
	rng      Rand
	ticks    uint64
}

// NewBarFieldAnimator seeds n bars with random heights and directions.
func NewBarFieldAnimator(n int, viewportWidth float64, params BarParams, rng Rand) (*BarFieldAnimator, error) {
	if n <= 0 {
		return nil, configErr("bars", n, ErrInvalidBarCount)
	}
	if !(viewportWidth > 0) {
		return nil, configErr("viewport_width", viewportWidth, ErrInvalidViewport)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	rng = orTimeSeeded(rng)

	bars := make([]Bar, n)
	for i := range bars {
		bars[i].Height = rng.Float64()
	}
	for i := range bars {
		bars[i].Direction = drawDirection(rng)
	}

	return &BarFieldAnimator{
		bars:     bars,
		params:   params,
		viewport: viewportWidth,
		barWidth: viewportWidth / float64(n),
		rng:      rng,
	}, nil
}

// Tick advances every bar by one step and returns the resulting field.
func (a *BarFieldAnimator) Tick() BarFrame {
	for i := range a.bars {
		a.step(&a.bars[i])
	}
	a.ticks++
	return a.Frame()
}

func (a *BarFieldAnimator) step(b *Bar) {
	b.Counter++
	if b.Counter >= a.params.Period {
		b.Counter = 0
		b.Direction = drawDirection(a.rng)
	}

	h := b.Height + float64(b.Direction)*a.params.StepSize
	switch {
	case h > 1:
		h = 1
		b.Direction = -1
	case h < 0:
		h = 0
		b.Direction = 1
	}
	b.Height = h
}

// Frame returns the current field without advancing it.
func (a *BarFieldAnimator) Frame() BarFrame {
	samples := make([]BarSample, len(a.bars))
	for i, b := range a.bars {
		samples[i] = BarSample{
			Index:   i,
			X:       float64(i) * a.barWidth,
			Height:  b.Height,
			Opacity: b.Height,
		}
	}
	return BarFrame{Tick: a.ticks, BarWidth: a.barWidth, Samples: samples}
}

// Bars returns a copy of the bar states.
func (a *BarFieldAnimator) Bars() []Bar {
	c := make([]Bar, len(a.bars))
	copy(c, a.bars)
	return c
}

func (a *BarFieldAnimator) Len() int          { return len(a.bars) }
func (a *BarFieldAnimator) BarWidth() float64 { return a.barWidth }
func (a *BarFieldAnimator) Params() BarParams { return a.params }
func (a *BarFieldAnimator) Viewport() float64 { return a.viewport }

// SetParams retunes period and step size. Counters already past the new
// period roll over on the next tick.
func (a *BarFieldAnimator) SetParams(p BarParams) error {
	if err := p.validate(); err != nil {
		return err
	}
	a.params = p
	return nil
}

// Resize changes the viewport width. Bars keep their slots.
func (a *BarFieldAnimator) Resize(viewportWidth float64) error {
	if !(viewportWidth > 0) {
		return configErr("viewport_width", viewportWidth, ErrInvalidViewport)
	}
	a.viewport = viewportWidth
	a.barWidth = viewportWidth / float64(len(a.bars))
	return nil
}
