package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Swind/go-frame-runner/core"
	"github.com/Swind/go-frame-runner/diag"
	prom "github.com/prometheus/client_golang/prometheus"
)

// frameBuckets cover 0.1ms to ~26ms, around the 16.6ms frame budget.
var frameBuckets = prom.ExponentialBuckets(0.0001, 2, 9)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
	FrameBuckets    []float64
}

// MetricsExporter adapts core.Metrics and diag.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds *prom.HistogramVec
	taskPanicTotal      *prom.CounterVec
	taskRejectedTotal   *prom.CounterVec
	queueDepth          *prom.GaugeVec
	framesTotal         *prom.CounterVec
	frameDispatch       *prom.HistogramVec

	animationFrameSeconds prom.Histogram
	generationSeconds     prom.Histogram
	generatedRecords      prom.Gauge
	resizeSeconds         *prom.HistogramVec
}

var (
	_ core.Metrics = (*MetricsExporter)(nil)
	_ diag.Metrics = (*MetricsExporter)(nil)
)

// NewMetricsExporter creates and registers the collectors.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "pizzeria"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}
	fBuckets := opts.FrameBuckets
	if len(fBuckets) == 0 {
		fBuckets = frameBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"runner", "priority"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of task panics.",
	}, []string{"runner"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_rejected_total",
		Help:      "Total number of rejected tasks.",
	}, []string{"runner", "reason"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current queue depth.",
	}, []string{"runner"})
	framesVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "frames_total",
		Help:      "Frames that dispatched at least one animation callback.",
	}, []string{"runner"})
	dispatchVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "frame_dispatch_seconds",
		Help:      "Time spent running all animation callbacks of one frame.",
		Buckets:   fBuckets,
	}, []string{"runner"})
	animation := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "animation_frame_seconds",
		Help:      "Duration of one mover update pass.",
		Buckets:   fBuckets,
	})
	generation := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_seconds",
		Help:      "Time to materialize the generated records.",
		Buckets:   buckets,
	})
	records := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "generated_records",
		Help:      "Records materialized by the last generation.",
	})
	resizeVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "resize_seconds",
		Help:      "Time to apply a size level to every record.",
		Buckets:   fBuckets,
	}, []string{"level"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}
	if framesVec, err = registerCollector(reg, framesVec); err != nil {
		return nil, err
	}
	if dispatchVec, err = registerCollector(reg, dispatchVec); err != nil {
		return nil, err
	}
	if animation, err = registerCollector(reg, animation); err != nil {
		return nil, err
	}
	if generation, err = registerCollector(reg, generation); err != nil {
		return nil, err
	}
	if records, err = registerCollector(reg, records); err != nil {
		return nil, err
	}
	if resizeVec, err = registerCollector(reg, resizeVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds:   durationVec,
		taskPanicTotal:        panicVec,
		taskRejectedTotal:     rejectedVec,
		queueDepth:            queueDepthVec,
		framesTotal:           framesVec,
		frameDispatch:         dispatchVec,
		animationFrameSeconds: animation,
		generationSeconds:     generation,
		generatedRecords:      records,
		resizeSeconds:         resizeVec,
	}, nil
}

// RecordTaskDuration records task execution duration.
func (m *MetricsExporter) RecordTaskDuration(runnerName string, priority core.TaskPriority, duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(normalizeLabel(runnerName, "unknown"), priorityLabel(priority)).Observe(duration.Seconds())
}

// RecordTaskPanic records task panic events.
func (m *MetricsExporter) RecordTaskPanic(runnerName string, panicInfo any) {
	if m == nil {
		return
	}
	m.taskPanicTotal.WithLabelValues(normalizeLabel(runnerName, "unknown")).Inc()
}

// RecordQueueDepth records queue depth.
func (m *MetricsExporter) RecordQueueDepth(runnerName string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(normalizeLabel(runnerName, "unknown")).Set(float64(depth))
}

// RecordTaskRejected records task rejection events.
func (m *MetricsExporter) RecordTaskRejected(runnerName string, reason string) {
	if m == nil {
		return
	}
	m.taskRejectedTotal.WithLabelValues(normalizeLabel(runnerName, "unknown"), normalizeLabel(reason, "unknown")).Inc()
}

// RecordFrame records one dispatched frame.
func (m *MetricsExporter) RecordFrame(runnerName string, callbacks int, duration time.Duration) {
	if m == nil {
		return
	}
	runner := normalizeLabel(runnerName, "unknown")
	m.framesTotal.WithLabelValues(runner).Inc()
	m.frameDispatch.WithLabelValues(runner).Observe(duration.Seconds())
}

// ObserveFrameDuration records one mover update pass.
func (m *MetricsExporter) ObserveFrameDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.animationFrameSeconds.Observe(d.Seconds())
}

// ObserveGeneration records how long materialization took.
func (m *MetricsExporter) ObserveGeneration(d time.Duration, records int) {
	if m == nil {
		return
	}
	m.generationSeconds.Observe(d.Seconds())
	m.generatedRecords.Set(float64(records))
}

// ObserveResize records one resize.
func (m *MetricsExporter) ObserveResize(d time.Duration, level int) {
	if m == nil {
		return
	}
	m.resizeSeconds.WithLabelValues(strconv.Itoa(level)).Observe(d.Seconds())
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func priorityLabel(priority core.TaskPriority) string {
	switch priority {
	case core.TaskPriorityUserBlocking:
		return "user_blocking"
	case core.TaskPriorityUserVisible:
		return "user_visible"
	case core.TaskPriorityBestEffort:
		return "best_effort"
	default:
		return "unknown"
	}
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
