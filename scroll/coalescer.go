// Package scroll turns scroll input into at most one animation pass per frame
// and moves the background grid of movers.
package scroll

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Swind/go-frame-runner/core"
)

// frameState is the "a frame is already scheduled" flag. It is only touched
// from the main goroutine (scroll event tasks and frame callbacks), so it
// needs no lock.
type frameState struct {
	pending bool
}

// requestFrame sets the flag and reports whether the caller must schedule a frame.
func (s *frameState) requestFrame() bool {
	if s.pending {
		return false
	}
	s.pending = true
	return true
}

// onFrameStart clears the flag as the frame body begins, so events arriving
// during the body schedule the next frame.
func (s *frameState) onFrameStart() {
	s.pending = false
}

// CoalescerStats are cumulative counters, safe to read from any goroutine.
type CoalescerStats struct {
	Events   uint64
	Frames   uint64
	Absorbed uint64
}

// Coalescer collapses a burst of scroll events into one frame callback.
type Coalescer struct {
	state  frameState
	frames core.FrameRequester
	body   core.FrameCallback

	events   atomic.Uint64
	frameRan atomic.Uint64
	absorbed atomic.Uint64
}

// NewCoalescer schedules body on frames at most once per frame.
func NewCoalescer(frames core.FrameRequester, body core.FrameCallback) *Coalescer {
	return &Coalescer{frames: frames, body: body}
}

// OnScrollEvent must be called on the main goroutine for every scroll event.
func (c *Coalescer) OnScrollEvent() {
	c.events.Add(1)
	if !c.state.requestFrame() {
		c.absorbed.Add(1)
		return
	}
	c.frames.RequestAnimationFrame(c.runFrame)
}

func (c *Coalescer) runFrame(ctx context.Context, frameTime time.Time) {
	c.state.onFrameStart()
	c.frameRan.Add(1)
	if c.body != nil {
		c.body(ctx, frameTime)
	}
}

// Pending reports whether a frame is scheduled and has not started yet.
// Main goroutine only.
func (c *Coalescer) Pending() bool {
	return c.state.pending
}

// Stats returns the event counters.
func (c *Coalescer) Stats() CoalescerStats {
	return CoalescerStats{
		Events:   c.events.Load(),
		Frames:   c.frameRan.Load(),
		Absorbed: c.absorbed.Load(),
	}
}
