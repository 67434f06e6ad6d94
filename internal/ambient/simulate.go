package ambient

import (
	"context"
	"fmt"
	"time"
)

// Result holds every frame of a simulated run in time order.
type Result struct {
	GradientTimes []time.Duration
	Gradients     []GradientFrame
	BarTimes      []time.Duration
	Bars          []BarFrame
	Wraps         uint64
}

// Simulate runs both generators over virtual time without sleeping. Ticks
// land where the clock would place them: gradient ticks every
// GradientInterval, bar ticks every BarInterval, gradient first on ties.
// Frames are also handed to the renderer. The engine must not be running.
func (e *Engine) Simulate(ctx context.Context, duration time.Duration) (*Result, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("ambient: duration must be positive, got %v", duration)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running && e.clock.Running() {
		return nil, ErrClockRunning
	}

	gi, bi := e.opts.GradientInterval, e.opts.BarInterval
	ng, nb := framesHint(duration, gi), framesHint(duration, bi)
	result := &Result{
		GradientTimes: make([]time.Duration, 0, ng),
		Gradients:     make([]GradientFrame, 0, ng),
		BarTimes:      make([]time.Duration, 0, nb),
		Bars:          make([]BarFrame, 0, nb),
	}

	nextG, nextB := gi, bi
	for i := 0; nextG <= duration || nextB <= duration; i++ {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				result.Wraps = e.gradient.Wraps()
				return result, ctx.Err()
			default:
			}
		}

		if nextG <= nextB && nextG <= duration {
			f := e.tickGradient()
			result.GradientTimes = append(result.GradientTimes, nextG)
			result.Gradients = append(result.Gradients, f)
			nextG += gi
			continue
		}

		f := e.tickBars()
		result.BarTimes = append(result.BarTimes, nextB)
		result.Bars = append(result.Bars, f)
		nextB += bi
	}

	result.Wraps = e.gradient.Wraps()
	e.logger.Debug("simulation finished",
		"duration", duration,
		"gradient_frames", len(result.Gradients),
		"bar_frames", len(result.Bars),
		"wraps", result.Wraps)
	return result, nil
}

// maxPrealloc caps how many frames Simulate reserves up front. Longer runs
// grow their slices as frames arrive.
const maxPrealloc = 1 << 14

func framesHint(duration, interval time.Duration) int {
	return int(min(duration/interval, maxPrealloc))
}

// MeanHeights returns the mean bar height of every bar frame.
func (r *Result) MeanHeights() []float64 {
	out := make([]float64, len(r.Bars))
	for i, f := range r.Bars {
		out[i] = f.MeanHeight()
	}
	return out
}

// BarHeights returns the height history of one bar slot.
func (r *Result) BarHeights(index int) ([]float64, error) {
	out := make([]float64, 0, len(r.Bars))
	for _, f := range r.Bars {
		if index < 0 || index >= len(f.Samples) {
			return nil, fmt.Errorf("ambient: bar index %d out of range [0,%d)", index, len(f.Samples))
		}
		out = append(out, f.Samples[index].Height)
	}
	return out, nil
}
