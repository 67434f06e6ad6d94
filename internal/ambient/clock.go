package ambient

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultGradientInterval = 10 * time.Millisecond
	DefaultBarInterval      = time.Second
)

// Channel is one cadence driven by a [Clock].
type Channel struct {
	Name     string
	Interval time.Duration
	Tick     func(now time.Time)
}

// Clock issues ticks to its channels from a single goroutine. Handlers never
// overlap. A channel that falls behind drops the missed ticks, like
// time.Ticker does.
type Clock struct {
	channels []Channel
	counts   []atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewClock(channels ...Channel) (*Clock, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("ambient: clock needs at least one channel")
	}
	for _, ch := range channels {
		if ch.Interval <= 0 {
			return nil, configErr(ch.Name+".interval", ch.Interval, ErrInvalidInterval)
		}
		if ch.Tick == nil {
			return nil, fmt.Errorf("ambient: channel %q has no tick handler", ch.Name)
		}
	}
	c := &Clock{
		channels: make([]Channel, len(channels)),
		counts:   make([]atomic.Uint64, len(channels)),
	}
	copy(c.channels, channels)
	return c, nil
}

// Start launches the scheduler. The clock runs until Stop is called or ctx
// is canceled.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runningLocked() {
		return ErrClockRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	go c.run(ctx, done)
	return nil
}

// Stop cancels the scheduler and waits for it to exit. Once Stop returns no
// handler is running and none will run again until the next Start. Concurrent
// callers all wait for the same exit, and Start fails with ErrClockRunning
// until it has happened. It must not be called from a handler.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.mu.Lock()
	if c.done == done {
		c.cancel, c.done = nil, nil
	}
	c.mu.Unlock()
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runningLocked()
}

func (c *Clock) runningLocked() bool {
	if c.done == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Ticks returns how many ticks each channel has received, in channel order.
func (c *Clock) Ticks() []uint64 {
	out := make([]uint64, len(c.counts))
	for i := range c.counts {
		out[i] = c.counts[i].Load()
	}
	return out
}

func (c *Clock) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	start := time.Now()
	next := make([]time.Time, len(c.channels))
	for i, ch := range c.channels {
		next[i] = start.Add(ch.Interval)
	}

	timer := time.NewTimer(time.Until(earliest(next)))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-timer.C:
			for i, ch := range c.channels {
				if now.Before(next[i]) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				ch.Tick(now)
				c.counts[i].Add(1)

				next[i] = next[i].Add(ch.Interval)
				if !next[i].After(now) {
					next[i] = now.Add(ch.Interval)
				}
			}
			timer.Reset(time.Until(earliest(next)))
		}
	}
}

func earliest(ts []time.Time) time.Time {
	first := ts[0]
	for _, t := range ts[1:] {
		if t.Before(first) {
			first = t
		}
	}
	return first
}
