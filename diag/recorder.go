package diag

import (
	"time"

	"github.com/Swind/go-frame-runner/core"
)

const (
	markStartGenerating = "mark_start_generating"
	markEndGenerating   = "mark_end_generating"
	markStartResize     = "mark_start_resize"
	markEndResize       = "mark_end_resize"

	// MeasureGeneration and MeasureResize name the timeline entries.
	MeasureGeneration = "measure_pizza_generation"
	MeasureResize     = "measure_pizza_resize"
)

// Metrics receives the timings as they are measured.
type Metrics interface {
	ObserveFrameDuration(d time.Duration)
	ObserveGeneration(d time.Duration, records int)
	ObserveResize(d time.Duration, level int)
}

// NilMetrics discards everything.
type NilMetrics struct{}

func (NilMetrics) ObserveFrameDuration(time.Duration)  {}
func (NilMetrics) ObserveGeneration(time.Duration, int) {}
func (NilMetrics) ObserveResize(time.Duration, int)     {}

// RecorderOptions configures a Recorder. Zero values use the defaults.
type RecorderOptions struct {
	Logger      core.Logger
	Metrics     Metrics
	FrameWindow int
	// LogEvery logs the rolling average once every LogEvery frames.
	LogEvery int
	Timeline *Timeline
}

// Recorder is the diagnostics sink shared by the animator, the materializer
// and the resizer.
type Recorder struct {
	logger   core.Logger
	metrics  Metrics
	frames   *FrameAverager
	logEvery uint64
	timeline *Timeline
}

// NewRecorder creates a recorder.
func NewRecorder(opts RecorderOptions) *Recorder {
	if opts.Logger == nil {
		opts.Logger = core.NewNoOpLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NilMetrics{}
	}
	if opts.LogEvery < 1 {
		opts.LogEvery = DefaultFrameLogEvery
	}
	if opts.Timeline == nil {
		opts.Timeline = NewTimeline()
	}
	return &Recorder{
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		frames:   NewFrameAverager(opts.FrameWindow),
		logEvery: uint64(opts.LogEvery),
		timeline: opts.Timeline,
	}
}

// ObserveFrame records one animation pass.
func (r *Recorder) ObserveFrame(d time.Duration) {
	r.metrics.ObserveFrameDuration(d)
	if r.frames.Add(d)%r.logEvery != 0 {
		return
	}
	avg, samples, _ := r.frames.Average()
	r.logger.Info("average scripting time per frame",
		core.F("average", avg),
		core.F("frames", samples),
	)
}

// FrameAverage returns the rolling average frame time.
func (r *Recorder) FrameAverage() (time.Duration, int, bool) {
	return r.frames.Average()
}

// TimeGeneration measures fn, which materializes records and returns how many.
func (r *Recorder) TimeGeneration(fn func() int) time.Duration {
	r.timeline.Mark(markStartGenerating)
	n := fn()
	r.timeline.Mark(markEndGenerating)

	m, err := r.timeline.Measure(MeasureGeneration, markStartGenerating, markEndGenerating)
	if err != nil {
		r.logger.Warn("generation measure failed", core.F("error", err))
		return 0
	}
	r.metrics.ObserveGeneration(m.Duration, n)
	r.logger.Info("time to generate pizzas on load", core.F("duration", m.Duration), core.F("records", n))
	return m.Duration
}

// TimeResize measures fn, which applies size level.
func (r *Recorder) TimeResize(level int, fn func()) time.Duration {
	r.timeline.Mark(markStartResize)
	fn()
	r.timeline.Mark(markEndResize)

	m, err := r.timeline.Measure(MeasureResize, markStartResize, markEndResize)
	if err != nil {
		r.logger.Warn("resize measure failed", core.F("error", err))
		return 0
	}
	r.metrics.ObserveResize(m.Duration, level)
	r.logger.Info("time to resize pizzas", core.F("duration", m.Duration), core.F("level", level))
	return m.Duration
}

// Timeline exposes the underlying marks and measures.
func (r *Recorder) Timeline() *Timeline {
	return r.timeline
}
