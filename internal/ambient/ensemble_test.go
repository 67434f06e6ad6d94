package ambient

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ensemble", func() {
	It("produces the same frames as single runs of each seed", func() {
		opts := testOptions(0)
		opts.Bars = 6
		ens, err := NewEnsemble(opts, 4, 100)
		Expect(err).NotTo(HaveOccurred())

		results, err := ens.Run(context.Background(), 3*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, res := range results {
			single := testOptions(ens.Seed(i))
			single.Bars = 6
			want, err := newEngine(single, nil).Simulate(context.Background(), 3*time.Second)
			Expect(err).NotTo(HaveOccurred())

			last := len(want.Bars) - 1
			Expect(res.Bars[last].Heights()).To(Equal(want.Bars[last].Heights()), "seed %d", ens.Seed(i))
			Expect(res.Gradients[len(res.Gradients)-1]).To(Equal(want.Gradients[len(want.Gradients)-1]))
		}
	})

	It("rejects bad input", func() {
		_, err := NewEnsemble(testOptions(1), 0, 1)
		Expect(err).To(HaveOccurred())

		bad := testOptions(1)
		bad.Bars = 0
		_, err = NewEnsemble(bad, 2, 1)
		Expect(err).To(MatchError(ErrInvalidBarCount))

		ens, err := NewEnsemble(testOptions(1), 3, 1)
		Expect(err).NotTo(HaveOccurred())
		_, err = ens.Run(context.Background(), 0)
		Expect(err).To(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = ens.Run(ctx, time.Hour)
		Expect(err).To(MatchError(context.Canceled))
	})
})
