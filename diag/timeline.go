// Package diag collects the page's timing side-channel: generation and
// resize durations and the rolling average frame time.
package diag

import (
	"fmt"
	"sync"
	"time"
)

// Measure is one named duration between two marks.
type Measure struct {
	Name     string
	Start    time.Time
	Duration time.Duration
}

// Timeline records named marks and the measures taken between them.
type Timeline struct {
	mu       sync.Mutex
	now      func() time.Time
	marks    map[string]time.Time
	measures map[string][]Measure
}

// NewTimeline creates a timeline on the wall clock.
func NewTimeline() *Timeline {
	return NewTimelineWithClock(time.Now)
}

// NewTimelineWithClock creates a timeline reading time from now.
func NewTimelineWithClock(now func() time.Time) *Timeline {
	return &Timeline{
		now:      now,
		marks:    make(map[string]time.Time),
		measures: make(map[string][]Measure),
	}
}

// Mark records the current time under name, replacing any earlier mark.
func (t *Timeline) Mark(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.marks[name] = t.now()
}

// Measure records the duration from startMark to endMark under name.
func (t *Timeline) Measure(name, startMark, endMark string) (Measure, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start, ok := t.marks[startMark]
	if !ok {
		return Measure{}, fmt.Errorf("unknown mark %q", startMark)
	}
	end, ok := t.marks[endMark]
	if !ok {
		return Measure{}, fmt.Errorf("unknown mark %q", endMark)
	}
	m := Measure{Name: name, Start: start, Duration: end.Sub(start)}
	t.measures[name] = append(t.measures[name], m)
	return m, nil
}

// Entries returns every measure taken under name, oldest first.
func (t *Timeline) Entries(name string) []Measure {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Measure, len(t.measures[name]))
	copy(out, t.measures[name])
	return out
}
