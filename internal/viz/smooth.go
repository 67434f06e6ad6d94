package viz

import "github.com/charmbracelet/harmonica"

// springField eases each bar toward its latest logical height between bar
// ticks, which arrive far less often than frames.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// resize keeps existing positions and zeroes new slots.
func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	pos := make([]float64, n)
	vel := make([]float64, n)
	copy(pos, s.pos)
	copy(vel, s.vel)
	s.pos, s.vel = pos, vel
}

// snap places every spring at rest on its target.
func (s *springField) snap(targets []float64) {
	s.resize(len(targets))
	copy(s.pos, targets)
	clear(s.vel)
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

// stepAll advances every spring one frame and returns the positions
// clamped to [0, 1]. The result is reused across calls.
func (s *springField) stepAll(targets []float64, out []float64) []float64 {
	s.resize(len(targets))
	if cap(out) < len(targets) {
		out = make([]float64, len(targets))
	}
	out = out[:len(targets)]
	for i, t := range targets {
		out[i] = clamp01(s.step(i, t))
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
