package ambient

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Clock", func() {
	noop := func(time.Time) {}

	DescribeTable("rejects invalid channels",
		func(channels []Channel) {
			_, err := NewClock(channels...)
			Expect(err).To(HaveOccurred())
		},
		Entry("none", nil),
		Entry("zero interval", []Channel{{Name: "a", Interval: 0, Tick: noop}}),
		Entry("negative interval", []Channel{{Name: "a", Interval: -time.Millisecond, Tick: noop}}),
		Entry("nil handler", []Channel{{Name: "a", Interval: time.Millisecond}}),
	)

	It("ticks channels at their own cadence and nothing fires after Stop", func() {
		var fast, slow atomic.Int64
		c, err := NewClock(
			Channel{Name: "fast", Interval: time.Millisecond, Tick: func(time.Time) { fast.Add(1) }},
			Channel{Name: "slow", Interval: 20 * time.Millisecond, Tick: func(time.Time) { slow.Add(1) }},
		)
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Start(context.Background())).To(Succeed())
		Expect(c.Start(context.Background())).To(MatchError(ErrClockRunning))

		time.Sleep(100 * time.Millisecond)
		c.Stop()
		Expect(c.Running()).To(BeFalse())

		f, s := fast.Load(), slow.Load()
		Expect(f).To(BeNumerically(">", 0))
		Expect(s).To(BeNumerically(">", 0))
		Expect(f).To(BeNumerically(">", s))

		Consistently(func() int64 { return fast.Load() + slow.Load() }, 50*time.Millisecond, 5*time.Millisecond).
			Should(Equal(f + s))
		Expect(c.Ticks()).To(Equal([]uint64{uint64(f), uint64(s)}))

		c.Stop()
	})

	It("never runs two handlers at once", func() {
		var inFlight, overlaps atomic.Int32
		handler := func(time.Time) {
			if inFlight.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(200 * time.Microsecond)
			inFlight.Add(-1)
		}
		c, err := NewClock(
			Channel{Name: "a", Interval: time.Millisecond, Tick: handler},
			Channel{Name: "b", Interval: time.Millisecond, Tick: handler},
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Start(context.Background())).To(Succeed())
		time.Sleep(50 * time.Millisecond)
		c.Stop()

		Expect(overlaps.Load()).To(BeZero())
	})

	It("stops when its context is canceled and can be restarted", func() {
		var n atomic.Int64
		c, err := NewClock(Channel{Name: "a", Interval: time.Millisecond, Tick: func(time.Time) { n.Add(1) }})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		Expect(c.Start(ctx)).To(Succeed())
		time.Sleep(20 * time.Millisecond)
		cancel()

		Eventually(c.Running, time.Second, time.Millisecond).Should(BeFalse())
		Expect(c.Start(context.Background())).To(Succeed())
		c.Stop()
	})

	Context("while a slow handler is running", func() {
		var (
			c        *Clock
			entered  chan struct{}
			inFlight atomic.Int32
			overlaps atomic.Int32
			finished atomic.Int64
		)

		BeforeEach(func() {
			entered = make(chan struct{}, 1)
			inFlight.Store(0)
			overlaps.Store(0)
			finished.Store(0)
			handler := func(time.Time) {
				if inFlight.Add(1) > 1 {
					overlaps.Add(1)
				}
				select {
				case entered <- struct{}{}:
				default:
				}
				time.Sleep(30 * time.Millisecond)
				finished.Add(1)
				inFlight.Add(-1)
			}
			var err error
			c, err = NewClock(Channel{Name: "slow", Interval: time.Millisecond, Tick: handler})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Start(context.Background())).To(Succeed())
			Eventually(entered, time.Second).Should(Receive())
		})

		It("refuses Start until a pending Stop has finished", func() {
			stopped := make(chan struct{})
			go func() {
				defer close(stopped)
				c.Stop()
			}()
			time.Sleep(2 * time.Millisecond)

			Expect(c.Start(context.Background())).To(MatchError(ErrClockRunning))
			Eventually(stopped, time.Second).Should(BeClosed())
			Expect(overlaps.Load()).To(BeZero())

			Expect(c.Start(context.Background())).To(Succeed())
			c.Stop()
			Expect(overlaps.Load()).To(BeZero())
		})

		It("makes every concurrent Stop wait for the handler", func() {
			var wg sync.WaitGroup
			seen := make([]int64, 2)
			for i := range seen {
				wg.Add(1)
				go func() {
					defer wg.Done()
					c.Stop()
					seen[i] = finished.Load()
				}()
			}
			wg.Wait()

			total := finished.Load()
			Expect(total).To(BeNumerically(">=", 1))
			Expect(seen).To(Equal([]int64{total, total}))
			Expect(inFlight.Load()).To(BeZero())
			Expect(c.Running()).To(BeFalse())
		})
	})
})
