package ambient

import "math"

const (
	// DefaultGradientSpeed moves one full color transition every 500 ticks.
	DefaultGradientSpeed = 0.002
)

// GradientState is a copy of the cycler's indices and interpolation fraction.
type GradientState struct {
	StartA, EndA int
	StartB, EndB int
	Step         float64
}

// GradientFrame is the pair of colors for a two-stop gradient.
type GradientFrame struct {
	Tick  uint64
	Left  RGB
	Right RGB
	Step  float64
}

// GradientCycler drifts two gradient stops through a palette. Each stop moves
// along its own segment; when a segment completes, its end becomes the next
// start and a new end is drawn that always differs from it.
type GradientCycler struct {
	palette Palette
	rng     Rand
	speed   float64
	idx     [4]int
	step    float64
	ticks   uint64
	wraps   uint64
}

// NewGradientCycler starts at indices [0,1,2,3] reduced modulo the palette size.
func NewGradientCycler(p Palette, speed float64, rng Rand) (*GradientCycler, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := validateSpeed(speed); err != nil {
		return nil, err
	}
	g := &GradientCycler{
		palette: p,
		rng:     orTimeSeeded(rng),
		speed:   speed,
	}
	for i := range g.idx {
		g.idx[i] = i % p.Len()
	}
	return g, nil
}

func validateSpeed(speed float64) error {
	if !(speed > 0 && speed <= 1) {
		return configErr("gradient_speed", speed, ErrInvalidSpeed)
	}
	return nil
}

// Tick returns the colors at the current fraction and then advances it.
func (g *GradientCycler) Tick() GradientFrame {
	g.ticks++
	f := g.frame()

	g.step += g.speed
	if g.step >= 1 {
		g.step = math.Mod(g.step, 1)
		g.advance()
	}
	return f
}

func (g *GradientCycler) advance() {
	n := g.palette.Len()
	g.idx[0] = g.idx[1]
	g.idx[2] = g.idx[3]
	g.idx[1] = (g.idx[1] + 1 + g.rng.Intn(n-1)) % n
	g.idx[3] = (g.idx[3] + 1 + g.rng.Intn(n-1)) % n
	g.wraps++
}

func (g *GradientCycler) frame() GradientFrame {
	p := g.palette
	return GradientFrame{
		Tick:  g.ticks,
		Left:  Lerp(p.At(g.idx[0]), p.At(g.idx[1]), g.step),
		Right: Lerp(p.At(g.idx[2]), p.At(g.idx[3]), g.step),
		Step:  g.step,
	}
}

// Colors returns the current colors without advancing.
func (g *GradientCycler) Colors() GradientFrame { return g.frame() }

func (g *GradientCycler) State() GradientState {
	return GradientState{
		StartA: g.idx[0], EndA: g.idx[1],
		StartB: g.idx[2], EndB: g.idx[3],
		Step: g.step,
	}
}

// Wraps is the number of completed transitions.
func (g *GradientCycler) Wraps() uint64 { return g.wraps }

func (g *GradientCycler) Speed() float64 { return g.speed }

// SetSpeed changes the per-tick increment of the fraction.
func (g *GradientCycler) SetSpeed(speed float64) error {
	if err := validateSpeed(speed); err != nil {
		return err
	}
	g.speed = speed
	return nil
}
