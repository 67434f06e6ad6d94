package ambient

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Palette", func() {
	DescribeTable("Lerp blends each channel and rounds to nearest",
		func(a, b RGB, t float64, want RGB) {
			Expect(Lerp(a, b, t)).To(Equal(want))
		},
		Entry("start", RGB{255, 0, 0}, RGB{0, 0, 255}, 0.0, RGB{255, 0, 0}),
		Entry("end", RGB{255, 0, 0}, RGB{0, 0, 255}, 1.0, RGB{0, 0, 255}),
		Entry("half rounds up", RGB{255, 0, 0}, RGB{0, 0, 255}, 0.5, RGB{128, 0, 128}),
		Entry("quarter", RGB{0, 0, 0}, RGB{200, 100, 40}, 0.25, RGB{50, 25, 10}),
		Entry("same color", RGB{13, 53, 128}, RGB{13, 53, 128}, 0.37, RGB{13, 53, 128}),
	)

	It("needs at least two colors", func() {
		_, err := NewPalette()
		Expect(err).To(MatchError(ErrPaletteTooSmall))
		_, err = NewPalette(RGB{1, 2, 3})
		Expect(err).To(MatchError(ErrPaletteTooSmall))
	})

	It("does not alias its input or its output", func() {
		colors := []RGB{{1, 2, 3}, {4, 5, 6}}
		p, err := NewPalette(colors...)
		Expect(err).NotTo(HaveOccurred())

		colors[0] = RGB{9, 9, 9}
		Expect(p.At(0)).To(Equal(RGB{1, 2, 3}))

		out := p.Colors()
		out[1] = RGB{}
		Expect(p.At(1)).To(Equal(RGB{4, 5, 6}))
	})

	DescribeTable("ParseHex",
		func(in string, want RGB, wantErr bool) {
			got, err := ParseHex(in)
			if wantErr {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("with hash", "#ff0000", RGB{255, 0, 0}, false),
		Entry("without hash", "0d3580", RGB{13, 53, 128}, false),
		Entry("padded", " #87ceeb ", RGB{135, 206, 235}, false),
		Entry("short form", "#fff", RGB{255, 255, 255}, false),
		Entry("not hex", "#zzzzzz", RGB{}, true),
		Entry("empty", "", RGB{}, true),
	)

	It("survives a hex round trip", func() {
		p, err := ParsePalette(DefaultPalette.Hex()...)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Colors()).To(Equal(DefaultPalette.Colors()))
	})

	It("formats colors", func() {
		Expect(RGB{128, 0, 128}.String()).To(Equal("rgb(128,0,128)"))
		Expect(RGB{255, 0, 0}.Hex()).To(Equal("#ff0000"))
	})
})
