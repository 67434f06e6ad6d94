package ambient

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var (
	red  = RGB{255, 0, 0}
	blue = RGB{0, 0, 255}
)

var _ = Describe("GradientCycler", func() {
	var twoColors Palette

	BeforeEach(func() {
		var err error
		twoColors, err = NewPalette(red, blue)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("rejects palettes with fewer than two colors", func() {
			_, err := NewGradientCycler(Palette{}, DefaultGradientSpeed, NewRand(1))
			Expect(err).To(MatchError(ErrPaletteTooSmall))
		})

		DescribeTable("rejects speeds outside (0, 1]",
			func(speed float64) {
				_, err := NewGradientCycler(twoColors, speed, NewRand(1))
				Expect(err).To(MatchError(ErrInvalidSpeed))
			},
			Entry("zero", 0.0),
			Entry("negative", -0.1),
			Entry("above one", 1.5),
			Entry("NaN", math.NaN()),
		)

		It("starts at indices 0,1,2,3 reduced by the palette size", func() {
			g, err := NewGradientCycler(twoColors, DefaultGradientSpeed, NewRand(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(g.State()).To(Equal(GradientState{StartA: 0, EndA: 1, StartB: 0, EndB: 1}))

			g, err = NewGradientCycler(DefaultPalette, DefaultGradientSpeed, NewRand(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(g.State()).To(Equal(GradientState{StartA: 0, EndA: 1, StartB: 2, EndB: 3}))
		})
	})

	It("blends red and blue to purple half way", func() {
		g, err := NewGradientCycler(twoColors, DefaultGradientSpeed, NewRand(1))
		Expect(err).NotTo(HaveOccurred())
		g.step = 0.5

		f := g.Tick()
		Expect(f.Left).To(Equal(RGB{128, 0, 128}))
		Expect(f.Right).To(Equal(RGB{128, 0, 128}))
		Expect(g.State().Step).To(BeNumerically("~", 0.502, 1e-12))
	})

	It("returns the colors of the fraction before advancing", func() {
		g, err := NewGradientCycler(DefaultPalette, 0.25, NewRand(1))
		Expect(err).NotTo(HaveOccurred())

		f := g.Tick()
		Expect(f.Step).To(Equal(0.0))
		Expect(f.Left).To(Equal(DefaultPalette.At(0)))
		Expect(f.Right).To(Equal(DefaultPalette.At(2)))
		Expect(f.Tick).To(Equal(uint64(1)))
	})

	It("keeps the fraction in [0, 1) and the indices valid", func() {
		g, err := NewGradientCycler(DefaultPalette, 0.003, NewRand(7))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 20000; i++ {
			f := g.Tick()
			Expect(f.Step).To(BeNumerically(">=", 0))
			Expect(f.Step).To(BeNumerically("<", 1))

			s := g.State()
			Expect(s.Step).To(BeNumerically("<", 1))
			for _, idx := range []int{s.StartA, s.EndA, s.StartB, s.EndB} {
				Expect(idx).To(BeNumerically(">=", 0))
				Expect(idx).To(BeNumerically("<", DefaultPalette.Len()))
			}
		}
		Expect(g.Wraps()).To(BeNumerically(">", 0))
	})

	It("promotes the end colors at a wrap and never draws a zero-length segment", func() {
		g, err := NewGradientCycler(DefaultPalette, 0.1, NewRand(3))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 5000; i++ {
			before := g.State()
			wraps := g.Wraps()
			g.Tick()
			if g.Wraps() == wraps {
				continue
			}
			after := g.State()
			Expect(after.StartA).To(Equal(before.EndA))
			Expect(after.StartB).To(Equal(before.EndB))
			Expect(after.EndA).NotTo(Equal(after.StartA))
			Expect(after.EndB).NotTo(Equal(after.StartB))
		}
	})

	It("has no visible jump across a wrap", func() {
		g, err := NewGradientCycler(DefaultPalette, DefaultGradientSpeed, NewRand(11))
		Expect(err).NotTo(HaveOccurred())

		var last GradientFrame
		for g.Wraps() == 0 {
			last = g.Tick()
		}
		next := g.Tick()

		for _, pair := range [][2]RGB{{last.Left, next.Left}, {last.Right, next.Right}} {
			a, b := pair[0], pair[1]
			Expect(math.Abs(float64(a.R) - float64(b.R))).To(BeNumerically("<=", 2))
			Expect(math.Abs(float64(a.G) - float64(b.G))).To(BeNumerically("<=", 2))
			Expect(math.Abs(float64(a.B) - float64(b.B))).To(BeNumerically("<=", 2))
		}
	})

	It("draws the new end as end + 1 + r modulo the palette size", func() {
		rng := newScriptedRand()
		rng.ints = []int{0, 4}
		g, err := NewGradientCycler(DefaultPalette, 0.5, rng)
		Expect(err).NotTo(HaveOccurred())

		g.Tick()
		g.Tick()

		Expect(rng.intArg).To(Equal([]int{5, 5}))
		Expect(g.State()).To(Equal(GradientState{StartA: 1, EndA: 2, StartB: 3, EndB: 2, Step: 0}))
	})

	It("starts the next segment at the color the previous one ended on", func() {
		g, err := NewGradientCycler(DefaultPalette, 0.25, NewRand(5))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 4; i++ {
			g.Tick()
		}
		Expect(g.Wraps()).To(Equal(uint64(1)))
		f := g.Colors()
		Expect(f.Step).To(Equal(0.0))
		Expect(f.Left).To(Equal(DefaultPalette.At(1)))
		Expect(f.Right).To(Equal(DefaultPalette.At(3)))
	})

	It("is reproducible under the same seed", func() {
		a, err := NewGradientCycler(DefaultPalette, 0.01, NewRand(99))
		Expect(err).NotTo(HaveOccurred())
		b, err := NewGradientCycler(DefaultPalette, 0.01, NewRand(99))
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 3000; i++ {
			Expect(a.Tick()).To(Equal(b.Tick()))
		}
	})

	It("validates speed changes", func() {
		g, err := NewGradientCycler(twoColors, DefaultGradientSpeed, NewRand(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(g.SetSpeed(0)).To(MatchError(ErrInvalidSpeed))
		Expect(g.SetSpeed(0.5)).To(Succeed())
		Expect(g.Speed()).To(Equal(0.5))
	})
})
