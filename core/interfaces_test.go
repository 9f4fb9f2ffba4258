package core

import (
	"context"
	"sync"
	"testing"
)

type capturingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *capturingLogger) record(level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, formatLine("", level, msg, fields))
}

func (l *capturingLogger) Debug(msg string, fields ...Field) { l.record("DEBUG", msg, fields) }
func (l *capturingLogger) Info(msg string, fields ...Field)  { l.record("INFO", msg, fields) }
func (l *capturingLogger) Warn(msg string, fields ...Field)  { l.record("WARN", msg, fields) }
func (l *capturingLogger) Error(msg string, fields ...Field) { l.record("ERROR", msg, fields) }

func (l *capturingLogger) lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// TestRunnerConfig_WithDefaults tests default filling
// Main test items:
// 1. A nil config gets every default handler
// 2. A configured logger is handed to the default panic and rejection handlers
// 3. Handlers that were set are kept
func TestRunnerConfig_WithDefaults(t *testing.T) {
	var nilCfg *RunnerConfig
	def := nilCfg.WithDefaults()
	if def.PanicHandler == nil || def.Metrics == nil || def.RejectedTaskHandler == nil || def.Logger == nil {
		t.Fatalf("nil config defaults incomplete: %+v", def)
	}

	logger := &capturingLogger{}
	metrics := &countingMetrics{}
	cfg := (&RunnerConfig{Logger: logger, Metrics: metrics}).WithDefaults()

	if cfg.Metrics != metrics {
		t.Error("explicit Metrics was replaced")
	}
	ph, ok := cfg.PanicHandler.(*DefaultPanicHandler)
	if !ok || ph.Logger != logger {
		t.Errorf("PanicHandler = %#v, want DefaultPanicHandler with configured logger", cfg.PanicHandler)
	}
	rh, ok := cfg.RejectedTaskHandler.(*DefaultRejectedTaskHandler)
	if !ok || rh.Logger != logger {
		t.Errorf("RejectedTaskHandler = %#v, want DefaultRejectedTaskHandler with configured logger", cfg.RejectedTaskHandler)
	}
}

// TestDefaultHandlers_Log tests that default handlers report through the logger
func TestDefaultHandlers_Log(t *testing.T) {
	logger := &capturingLogger{}

	(&DefaultPanicHandler{Logger: logger}).HandlePanic(context.Background(), "main", -1, "boom", nil)
	(&DefaultRejectedTaskHandler{Logger: logger}).HandleRejectedTask("worker", "closed")
	(&DefaultRejectedTaskHandler{}).HandleRejectedTask("worker", "closed")

	lines := logger.lines()
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %v", len(lines), lines)
	}
	if want := "[ERROR] task panicked {runner: main, worker: -1, panic: boom, stack: }"; lines[0] != want {
		t.Errorf("panic line = %q, want %q", lines[0], want)
	}
	if want := "[DEBUG] task rejected {runner: worker, reason: closed}"; lines[1] != want {
		t.Errorf("rejected line = %q, want %q", lines[1], want)
	}
}

// TestNilMetrics_IsMetrics tests that the no-op metrics satisfy the interface
func TestNilMetrics_IsMetrics(t *testing.T) {
	var m Metrics = &NilMetrics{}
	m.RecordTaskDuration("main", TaskPriorityUserBlocking, 0)
	m.RecordTaskPanic("main", "boom")
	m.RecordQueueDepth("main", 3)
	m.RecordTaskRejected("main", "closed")
	m.RecordFrame("main", 1, 0)
}
