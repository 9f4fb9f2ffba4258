package core

import (
	"testing"
	"time"
)

// TestManualFrameClock_TickAndStop tests manual frame delivery
// Main test items:
// 1. Tick hands the frame time to the receiver
// 2. Tick after Stop returns false instead of blocking
// 3. Stop is idempotent
func TestManualFrameClock_TickAndStop(t *testing.T) {
	clock := NewManualFrameClock()
	at := time.Unix(100, 0)

	got := make(chan time.Time, 1)
	go func() { got <- <-clock.Frames() }()

	if !clock.Tick(at) {
		t.Fatal("Tick should succeed while running")
	}
	if frame := <-got; !frame.Equal(at) {
		t.Fatalf("frame time = %v, want %v", frame, at)
	}

	clock.Stop()
	clock.Stop()
	if clock.Tick(at) {
		t.Fatal("Tick after Stop should return false")
	}
}

// TestTickerFrameClock_DefaultInterval tests ticking with a fallback interval
func TestTickerFrameClock_DefaultInterval(t *testing.T) {
	clock := NewTickerFrameClock(0)
	defer clock.Stop()

	select {
	case <-clock.Frames():
	case <-time.After(time.Second):
		t.Fatal("ticker clock did not emit a frame")
	}
	clock.Stop()
}
