package core

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60 Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// FrameClock is the host's repaint signal. Every value received from Frames
// is one display refresh; the main runner dispatches pending animation
// callbacks on it.
type FrameClock interface {
	Frames() <-chan time.Time
	Stop()
}

// TickerFrameClock emits frames at a fixed interval.
type TickerFrameClock struct {
	ticker *time.Ticker
	once   sync.Once
}

// NewTickerFrameClock creates a clock ticking every interval.
// A non-positive interval falls back to DefaultFrameInterval.
func NewTickerFrameClock(interval time.Duration) *TickerFrameClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerFrameClock{ticker: time.NewTicker(interval)}
}

func (c *TickerFrameClock) Frames() <-chan time.Time {
	return c.ticker.C
}

func (c *TickerFrameClock) Stop() {
	c.once.Do(c.ticker.Stop)
}

// ManualFrameClock only emits a frame when Tick is called.
// Hosts that own their own vsync and tests use it to step frames explicitly.
type ManualFrameClock struct {
	ch   chan time.Time
	done chan struct{}
	once sync.Once
}

func NewManualFrameClock() *ManualFrameClock {
	return &ManualFrameClock{
		ch:   make(chan time.Time),
		done: make(chan struct{}),
	}
}

func (c *ManualFrameClock) Frames() <-chan time.Time {
	return c.ch
}

// Tick delivers one frame and blocks until the runner has picked it up.
// It returns false if the clock was stopped first.
func (c *ManualFrameClock) Tick(at time.Time) bool {
	select {
	case c.ch <- at:
		return true
	case <-c.done:
		return false
	}
}

func (c *ManualFrameClock) Stop() {
	c.once.Do(func() { close(c.done) })
}
