package ambient

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingRenderer struct {
	gradients atomic.Int64
	bars      atomic.Int64
}

func (c *countingRenderer) RenderGradient(GradientFrame) { c.gradients.Add(1) }
func (c *countingRenderer) RenderBars(BarFrame)          { c.bars.Add(1) }

func testOptions(seed int64) Options {
	opts := DefaultOptions()
	opts.Seed = seed
	return opts
}

func newEngine(opts Options, r Renderer) *Engine {
	eng, err := New(opts, r)
	Expect(err).NotTo(HaveOccurred())
	return eng
}

var _ = Describe("Engine", func() {
	DescribeTable("rejects bad options with a field-tagged error",
		func(modify func(*Options), want error) {
			opts := testOptions(1)
			modify(&opts)
			_, err := New(opts, nil)
			Expect(err).To(MatchError(want))

			var cfgErr *ConfigError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).NotTo(BeEmpty())
		},
		Entry("empty palette", func(o *Options) { o.Palette = Palette{} }, ErrPaletteTooSmall),
		Entry("zero bars", func(o *Options) { o.Bars = 0 }, ErrInvalidBarCount),
		Entry("negative viewport", func(o *Options) { o.ViewportWidth = -1 }, ErrInvalidViewport),
		Entry("zero period", func(o *Options) { o.Period = 0 }, ErrInvalidPeriod),
		Entry("zero step", func(o *Options) { o.StepSize = 0 }, ErrInvalidStepSize),
		Entry("zero speed", func(o *Options) { o.GradientSpeed = 0 }, ErrInvalidSpeed),
		Entry("zero gradient interval", func(o *Options) { o.GradientInterval = 0 }, ErrInvalidInterval),
		Entry("zero bar interval", func(o *Options) { o.BarInterval = 0 }, ErrInvalidInterval),
	)

	It("renders frames while running and none after Stop", func() {
		opts := testOptions(3)
		opts.GradientInterval = time.Millisecond
		opts.BarInterval = 5 * time.Millisecond

		counter := &countingRenderer{}
		buf := &Buffer{}
		eng := newEngine(opts, Fanout{counter, buf})

		_, ok := buf.Gradient()
		Expect(ok).To(BeFalse())
		Expect(eng.Start(context.Background())).To(Succeed())
		Expect(eng.Start(context.Background())).To(MatchError(ErrClockRunning))
		Expect(eng.Running()).To(BeTrue())

		time.Sleep(60 * time.Millisecond)
		eng.Stop()

		g, b := counter.gradients.Load(), counter.bars.Load()
		Expect(g).To(BeNumerically(">=", 2))
		Expect(b).To(BeNumerically(">=", 2))
		Consistently(func() int64 { return counter.gradients.Load() + counter.bars.Load() }, 30*time.Millisecond, 5*time.Millisecond).
			Should(Equal(g + b))

		bars, ok := buf.Bars()
		Expect(ok).To(BeTrue())
		Expect(bars.Samples).To(HaveLen(opts.Bars))
		Expect(eng.Running()).To(BeFalse())
		eng.Stop()
	})

	Describe("Simulate", func() {
		It("interleaves both cadences in virtual time", func() {
			res, err := newEngine(testOptions(5), nil).Simulate(context.Background(), 3*time.Second)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Gradients).To(HaveLen(300))
			Expect(res.Bars).To(HaveLen(3))
			Expect(res.GradientTimes[0]).To(Equal(10 * time.Millisecond))
			Expect(res.BarTimes[2]).To(Equal(3 * time.Second))
			for i, f := range res.Gradients {
				Expect(f.Tick).To(Equal(uint64(i + 1)))
			}
			Expect(res.MeanHeights()).To(HaveLen(3))
			_, err = res.BarHeights(DefaultBarCount)
			Expect(err).To(HaveOccurred())
		})

		It("is reproducible under the same seed", func() {
			run := func() *Result {
				opts := testOptions(42)
				opts.BarInterval = 50 * time.Millisecond
				res, err := newEngine(opts, nil).Simulate(context.Background(), 20*time.Second)
				Expect(err).NotTo(HaveOccurred())
				return res
			}

			a, b := run(), run()
			Expect(a.Gradients).To(Equal(b.Gradients))
			Expect(a.Bars).To(HaveLen(len(b.Bars)))
			for i := range a.Bars {
				Expect(a.Bars[i].Heights()).To(Equal(b.Bars[i].Heights()))
			}
			Expect(a.Wraps).To(BeNumerically(">", 0))
		})

		It("refuses to run while the clock is running", func() {
			eng := newEngine(testOptions(1), nil)
			Expect(eng.Start(context.Background())).To(Succeed())
			defer eng.Stop()

			_, err := eng.Simulate(context.Background(), time.Second)
			Expect(err).To(MatchError(ErrClockRunning))
		})

		It("honors cancellation and rejects empty durations", func() {
			eng := newEngine(testOptions(1), nil)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := eng.Simulate(ctx, time.Minute)
			Expect(err).To(MatchError(context.Canceled))
			_, err = eng.Simulate(context.Background(), 0)
			Expect(err).To(HaveOccurred())
		})

		It("reserves a bounded number of frames up front", func() {
			Expect(framesHint(3*time.Second, 10*time.Millisecond)).To(Equal(300))
			Expect(framesHint(24*time.Hour, 10*time.Millisecond)).To(Equal(maxPrealloc))

			opts := testOptions(2)
			opts.GradientInterval = time.Microsecond
			res, err := newEngine(opts, nil).Simulate(context.Background(), 50*time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Gradients).To(HaveLen(50000))
			Expect(res.GradientTimes[49999]).To(Equal(50 * time.Millisecond))
		})
	})

	It("applies a retune on the next tick", func() {
		eng := newEngine(testOptions(9), nil)

		Expect(eng.Retune(Tuning{Period: 0, StepSize: 0.1, GradientSpeed: 0.1})).To(MatchError(ErrInvalidPeriod))
		Expect(eng.Retune(Tuning{Period: 2, StepSize: 0.1, GradientSpeed: 0.25})).To(Succeed())
		_, err := eng.Simulate(context.Background(), time.Second)
		Expect(err).NotTo(HaveOccurred())

		Expect(eng.gradient.Speed()).To(Equal(0.25))
		Expect(eng.bars.Params()).To(Equal(BarParams{Period: 2, StepSize: 0.1}))
	})
})
