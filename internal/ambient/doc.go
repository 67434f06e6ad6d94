// Package ambient provides the background animation engine: a two-point
// color gradient that drifts through a palette and a field of vertical bars
// performing a bounded random walk.
//
// The package is made of small, independent parts:
//
//   - [Palette]: ordered, immutable set of colors
//   - [GradientCycler]: blends two palette segments and advances along them
//   - [BarFieldAnimator]: N bars with committed directions that bounce at 0 and 1
//   - [Clock]: single goroutine scheduler with independent cadences
//   - [Engine]: wires the generators to a clock and a [Renderer]
//
// # Example
//
//	opts := ambient.DefaultOptions()
//	opts.Seed = 42
//	buf := &ambient.Buffer{}
//	eng, err := ambient.New(opts, buf)
//	if err != nil {
//		return err
//	}
//	if err := eng.Start(ctx); err != nil {
//		return err
//	}
//	defer eng.Stop()
//
// # Thread Safety
//
// Generators are NOT thread-safe; each is owned by the clock goroutine while
// the engine runs. Renderers receive value snapshots, so a [Buffer] may be
// read from any goroutine.
package ambient
