package prometheus

import (
	"testing"
	"time"

	"github.com/Swind/go-frame-runner/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExporter_RecordMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("pizzeria", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.RecordTaskDuration("main", core.TaskPriorityUserVisible, 250*time.Millisecond)
	exporter.RecordTaskPanic("main", "panic")
	exporter.RecordQueueDepth("main", 7)
	exporter.RecordTaskRejected("main", "shutdown")
	exporter.RecordFrame("main", 2, 3*time.Millisecond)

	panicTotal := testutil.ToFloat64(exporter.taskPanicTotal.WithLabelValues("main"))
	if panicTotal != 1 {
		t.Fatalf("panic total = %v, want 1", panicTotal)
	}

	queueDepth := testutil.ToFloat64(exporter.queueDepth.WithLabelValues("main"))
	if queueDepth != 7 {
		t.Fatalf("queue depth = %v, want 7", queueDepth)
	}

	rejected := testutil.ToFloat64(exporter.taskRejectedTotal.WithLabelValues("main", "shutdown"))
	if rejected != 1 {
		t.Fatalf("rejected total = %v, want 1", rejected)
	}

	if got := testutil.ToFloat64(exporter.framesTotal.WithLabelValues("main")); got != 1 {
		t.Fatalf("frames total = %v, want 1", got)
	}

	histCount, err := histogramSampleCount(exporter.taskDurationSeconds.WithLabelValues("main", "user_visible"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if histCount != 1 {
		t.Fatalf("duration sample count = %d, want 1", histCount)
	}
}

func TestMetricsExporter_DiagnosticsMethods(t *testing.T) {
	reg := prom.NewRegistry()
	exporter, err := NewMetricsExporter("", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("NewMetricsExporter failed: %v", err)
	}

	exporter.ObserveFrameDuration(2 * time.Millisecond)
	exporter.ObserveFrameDuration(4 * time.Millisecond)
	exporter.ObserveGeneration(40*time.Millisecond, 98)
	exporter.ObserveResize(time.Millisecond, 3)

	frames, err := histogramSampleCount(exporter.animationFrameSeconds)
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if frames != 2 {
		t.Fatalf("animation frame samples = %d, want 2", frames)
	}
	if got := testutil.ToFloat64(exporter.generatedRecords); got != 98 {
		t.Fatalf("generated records = %v, want 98", got)
	}
	resizes, err := histogramSampleCount(exporter.resizeSeconds.WithLabelValues("3"))
	if err != nil {
		t.Fatalf("histogramSampleCount failed: %v", err)
	}
	if resizes != 1 {
		t.Fatalf("resize samples = %d, want 1", resizes)
	}

	n, err := testutil.GatherAndCount(reg, "pizzeria_generation_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("default namespace series = %d, want 1", n)
	}
}

func TestMetricsExporter_NilReceiver(t *testing.T) {
	var exporter *MetricsExporter
	exporter.RecordFrame("main", 1, time.Millisecond)
	exporter.ObserveResize(time.Millisecond, 1)
}

func TestMetricsExporter_AlreadyRegisteredReuse(t *testing.T) {
	reg := prom.NewRegistry()
	first, err := NewMetricsExporter("pizzeria", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("first NewMetricsExporter failed: %v", err)
	}
	second, err := NewMetricsExporter("pizzeria", reg, ExporterOptions{})
	if err != nil {
		t.Fatalf("second NewMetricsExporter failed: %v", err)
	}

	first.RecordTaskPanic("main", nil)
	second.RecordTaskPanic("main", nil)

	got := testutil.ToFloat64(first.taskPanicTotal.WithLabelValues("main"))
	if got != 2 {
		t.Fatalf("shared panic counter = %v, want 2", got)
	}
}

func histogramSampleCount(observer prom.Observer) (uint64, error) {
	collector, ok := observer.(prom.Collector)
	if !ok {
		return 0, nil
	}

	metricCh := make(chan prom.Metric, 1)
	collector.Collect(metricCh)
	close(metricCh)
	for metric := range metricCh {
		msg := &dto.Metric{}
		if err := metric.Write(msg); err != nil {
			return 0, err
		}
		if msg.Histogram != nil {
			return msg.Histogram.GetSampleCount(), nil
		}
	}
	return 0, nil
}
