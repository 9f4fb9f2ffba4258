package diag

import (
	"sync"
	"time"
)

const (
	DefaultFrameWindow   = 10
	DefaultFrameLogEvery = 10
)

// FrameAverager keeps the most recent frame durations in a ring buffer.
type FrameAverager struct {
	mu    sync.Mutex
	items []time.Duration
	head  int
	count int
	total uint64
}

// NewFrameAverager creates an averager over the last window frames.
func NewFrameAverager(window int) *FrameAverager {
	if window < 1 {
		window = DefaultFrameWindow
	}
	return &FrameAverager{items: make([]time.Duration, window)}
}

// Add records one frame and returns how many frames were recorded so far.
func (a *FrameAverager) Add(d time.Duration) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.items[a.head] = d
	a.head = (a.head + 1) % len(a.items)
	if a.count < len(a.items) {
		a.count++
	}
	a.total++
	return a.total
}

// Average returns the mean over the samples held, which is fewer than the
// window until enough frames have been recorded. ok is false with no samples.
func (a *FrameAverager) Average() (avg time.Duration, samples int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.count == 0 {
		return 0, 0, false
	}
	var sum time.Duration
	for i := range a.count {
		sum += a.items[(a.head-1-i+len(a.items))%len(a.items)]
	}
	return sum / time.Duration(a.count), a.count, true
}

// Total is the number of frames ever recorded.
func (a *FrameAverager) Total() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}
