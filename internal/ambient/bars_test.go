package ambient

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newField(bars []Bar, params BarParams, rng Rand) *BarFieldAnimator {
	a, err := NewBarFieldAnimator(len(bars), 300, params, rng)
	Expect(err).NotTo(HaveOccurred())
	copy(a.bars, bars)
	return a
}

var _ = Describe("BarFieldAnimator", func() {
	Describe("construction", func() {
		DescribeTable("rejects bad configuration",
			func(n int, viewport float64, params BarParams, want error) {
				_, err := NewBarFieldAnimator(n, viewport, params, NewRand(1))
				Expect(err).To(MatchError(want))
			},
			Entry("zero bars", 0, 300.0, DefaultBarParams(), ErrInvalidBarCount),
			Entry("negative bars", -3, 300.0, DefaultBarParams(), ErrInvalidBarCount),
			Entry("zero viewport", 30, 0.0, DefaultBarParams(), ErrInvalidViewport),
			Entry("zero period", 30, 300.0, BarParams{Period: 0, StepSize: 0.4}, ErrInvalidPeriod),
			Entry("zero step", 30, 300.0, BarParams{Period: 6, StepSize: 0}, ErrInvalidStepSize),
			Entry("step above one", 30, 300.0, BarParams{Period: 6, StepSize: 1.2}, ErrInvalidStepSize),
		)

		It("seeds heights in [0, 1] and directions of +1 or -1", func() {
			a, err := NewBarFieldAnimator(DefaultBarCount, 1200, DefaultBarParams(), NewRand(4))
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Len()).To(Equal(30))
			Expect(a.BarWidth()).To(Equal(40.0))
			for _, b := range a.Bars() {
				Expect(b.Height).To(BeNumerically(">=", 0))
				Expect(b.Height).To(BeNumerically("<=", 1))
				Expect(b.Direction).To(BeElementOf(-1, 1))
				Expect(b.Counter).To(Equal(0))
			}
		})
	})

	It("bounces off the top", func() {
		a := newField([]Bar{{Height: 0.9, Direction: 1}}, DefaultBarParams(), NewRand(1))

		f := a.Tick()
		Expect(f.Samples[0].Height).To(Equal(1.0))
		Expect(a.Bars()[0].Direction).To(Equal(-1))
	})

	It("bounces off the bottom", func() {
		a := newField([]Bar{{Height: 0.1, Direction: -1}}, DefaultBarParams(), NewRand(1))

		f := a.Tick()
		Expect(f.Samples[0].Height).To(Equal(0.0))
		Expect(a.Bars()[0].Direction).To(Equal(1))
	})

	It("moves by the step size inside the range", func() {
		a := newField([]Bar{{Height: 0.5, Direction: 1}, {Height: 0.5, Direction: -1}}, BarParams{Period: 6, StepSize: 0.25}, NewRand(1))

		f := a.Tick()
		Expect(f.Heights()).To(Equal([]float64{0.75, 0.25}))
		Expect(a.Bars()[0].Direction).To(Equal(1))
		Expect(a.Bars()[1].Direction).To(Equal(-1))
	})

	It("redraws the direction only when the period elapses", func() {
		rng := newScriptedRand()
		a := newField([]Bar{{Height: 0.5, Direction: 1}}, BarParams{Period: 3, StepSize: 0.25}, rng)

		rng.floats = []float64{0.1}
		a.Tick()
		a.Tick()
		Expect(a.Bars()[0].Direction).To(Equal(1))
		Expect(rng.floats).To(HaveLen(1))

		a.Tick()
		Expect(rng.floats).To(BeEmpty())
		Expect(a.Bars()[0]).To(Equal(Bar{Height: 0.75, Direction: -1, Counter: 0}))
	})

	It("keeps every height in [0, 1] and changes direction only at a period or a clamp", func() {
		params := BarParams{Period: 4, StepSize: 0.3}
		a, err := NewBarFieldAnimator(50, 500, params, NewRand(21))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 5000; i++ {
			before := a.Bars()
			f := a.Tick()
			after := a.Bars()
			for j, s := range f.Samples {
				Expect(s.Height).To(BeNumerically(">=", 0))
				Expect(s.Height).To(BeNumerically("<=", 1))
				if after[j].Direction != before[j].Direction {
					periodic := before[j].Counter+1 >= params.Period
					clamped := s.Height == 0 || s.Height == 1
					Expect(periodic || clamped).To(BeTrue(), "bar %d changed direction spontaneously", j)
				}
			}
		}
	})

	It("places bars in fixed slots and derives opacity from height", func() {
		a, err := NewBarFieldAnimator(4, 200, DefaultBarParams(), NewRand(8))
		Expect(err).NotTo(HaveOccurred())

		f := a.Tick()
		Expect(f.BarWidth).To(Equal(50.0))
		for i, s := range f.Samples {
			Expect(s.Index).To(Equal(i))
			Expect(s.X).To(Equal(float64(i) * 50))
			Expect(s.Opacity).To(Equal(s.Height))
		}

		Expect(a.Resize(100)).To(Succeed())
		f = a.Frame()
		Expect(f.BarWidth).To(Equal(25.0))
		Expect(f.Samples[3].X).To(Equal(75.0))
		Expect(a.Resize(0)).To(MatchError(ErrInvalidViewport))
	})

	It("returns frames that later ticks do not modify", func() {
		a, err := NewBarFieldAnimator(10, 100, DefaultBarParams(), NewRand(2))
		Expect(err).NotTo(HaveOccurred())

		f := a.Tick()
		held := append([]float64(nil), f.Heights()...)
		for i := 0; i < 20; i++ {
			a.Tick()
		}
		Expect(f.Heights()).To(Equal(held))
	})

	It("is reproducible under the same seed", func() {
		a, err := NewBarFieldAnimator(30, 900, DefaultBarParams(), NewRand(77))
		Expect(err).NotTo(HaveOccurred())
		b, err := NewBarFieldAnimator(30, 900, DefaultBarParams(), NewRand(77))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 500; i++ {
			Expect(a.Tick().Heights()).To(Equal(b.Tick().Heights()))
		}
	})

	It("validates parameter changes", func() {
		a, err := NewBarFieldAnimator(3, 30, DefaultBarParams(), NewRand(2))
		Expect(err).NotTo(HaveOccurred())
		Expect(a.SetParams(BarParams{Period: 0, StepSize: 0.1})).To(MatchError(ErrInvalidPeriod))
		Expect(a.SetParams(BarParams{Period: 2, StepSize: 0.1})).To(Succeed())
		Expect(a.Params()).To(Equal(BarParams{Period: 2, StepSize: 0.1}))
	})
})
