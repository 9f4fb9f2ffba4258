package framerunner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Swind/go-frame-runner/core"
	"github.com/Swind/go-frame-runner/diag"
	"github.com/Swind/go-frame-runner/pizza"
	"github.com/Swind/go-frame-runner/render"
	"github.com/Swind/go-frame-runner/scroll"
)

var (
	// ErrNotStarted is returned by App methods called before Start.
	ErrNotStarted = errors.New("app not started")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("app already started")
	// ErrGenerationStarted is returned when the record pipeline has already run.
	ErrGenerationStarted = errors.New("record generation already started")
)

// AppStats is a point-in-time view of the running page.
type AppStats struct {
	Main         core.RunnerStats
	Worker       core.PoolStats
	Scroll       scroll.CoalescerStats
	Movers       int
	Records      int
	FrameAverage time.Duration
}

// App wires the page together: the main runner owns the document, the
// coalescer and the animator; the worker pool generates records.
type App struct {
	cfg    Config
	logger core.Logger

	mu      sync.Mutex
	started bool
	stopped bool

	doc      *render.Document
	main     *core.MainThreadRunner
	worker   *WorkerPool
	recorder *diag.Recorder

	// Owned by the main goroutine once Start returns.
	registry     *scroll.Registry
	animator     *scroll.Animator
	coalescer    *scroll.Coalescer
	materializer *pizza.Materializer
	resizer      *pizza.Resizer
	pipeline     *pizza.Pipeline

	generating atomic.Bool
	records    *core.Future[[]*render.Node]
	resolve    func([]*render.Node, error) bool
	recordN    atomic.Int64
}

// NewApp validates cfg. Nothing runs until Start.
func NewApp(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	records, resolve := core.NewFuture[[]*render.Node]()
	return &App{cfg: cfg, records: records, resolve: resolve}, nil
}

// Start launches the runners, builds the mover grid on the main goroutine
// and kicks off record generation. It returns once the grid is built.
// A missing insertion point fails startup and nothing is built.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAlreadyStarted
	}

	cfg := a.cfg.withDefaults()
	a.logger = cfg.Logger
	a.doc = cfg.Document

	for _, id := range []string{cfg.MoverContainerID, cfg.RecordContainerID, cfg.SizeLabelID} {
		if _, err := a.doc.LookupInsertionPoint(id); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}

	runnerCfg := &core.RunnerConfig{Logger: cfg.Logger}
	recorderOpts := diag.RecorderOptions{
		Logger:      cfg.Logger,
		FrameWindow: cfg.FrameWindow,
		LogEvery:    cfg.FrameLogEvery,
	}
	if cfg.Metrics != nil {
		runnerCfg.Metrics = cfg.Metrics
		recorderOpts.Metrics = cfg.Metrics
	}
	a.recorder = diag.NewRecorder(recorderOpts)

	a.main = core.NewMainThreadRunnerWithConfig(core.MainThreadRunnerConfig{
		Name:      "main",
		QueueSize: cfg.QueueSize,
		Clock:     cfg.Clock,
		Runner:    runnerCfg,
	})
	a.worker = NewWorkerPoolWithConfig("worker", cfg.Workers, runnerCfg)
	a.worker.Start(ctx)

	setup := core.PostTaskForFuture(a.main, func(context.Context) (struct{}, error) {
		return struct{}{}, a.setup(cfg)
	}, core.TraitsUserBlocking(), a.main)
	if _, err := setup.Wait(ctx); err != nil {
		a.worker.Stop()
		a.main.Stop()
		return fmt.Errorf("start: %w", err)
	}

	a.started = true
	a.logger.Info("page started",
		core.F("movers", a.registry.Len()),
		core.F("viewport_height", a.doc.ViewportHeight()),
		core.F("workers", cfg.Workers),
	)
	a.startGeneration(cfg.DesiredRecordCount)
	return nil
}

// setup runs on the main goroutine.
func (a *App) setup(cfg Config) error {
	registry, err := scroll.BuildRegistry(a.doc, cfg.MoverContainerID, cfg.geometry())
	if err != nil {
		return err
	}
	list, err := a.doc.LookupInsertionPoint(cfg.RecordContainerID)
	if err != nil {
		return err
	}
	resizer, err := pizza.NewResizer(a.doc, cfg.SizeLabelID)
	if err != nil {
		return err
	}

	a.registry = registry
	a.resizer = resizer
	a.materializer = pizza.NewMaterializer(list, cfg.ReservedSlots)
	a.animator = scroll.NewAnimator(registry, a.doc, scroll.AnimatorConfig{
		ScrollScale: cfg.ScrollScale,
		Observer:    a.recorder,
		AfterFrame:  a.paint,
	})
	a.coalescer = scroll.NewCoalescer(a.main, a.animator.UpdatePositions)
	a.pipeline = pizza.NewPipeline(a.worker, a.main, pizza.PipelineOptions{
		NewGenerator: cfg.NewGenerator,
		Logger:       cfg.Logger,
	})
	a.paint()
	return nil
}

func (a *App) paint() {
	if a.cfg.Painter != nil {
		a.cfg.Painter.Paint(a.doc)
	}
}

// StartGeneration runs the record pipeline. Start already calls it once, so
// any explicit call after Start reports ErrGenerationStarted.
func (a *App) StartGeneration() error {
	if !a.isStarted() {
		return ErrNotStarted
	}
	return a.startGeneration(a.cfg.DesiredRecordCount)
}

func (a *App) startGeneration(count int) error {
	if !a.generating.CompareAndSwap(false, true) {
		return ErrGenerationStarted
	}
	a.main.PostTaskNamed("generate", func(context.Context) {
		a.pipeline.Start(count).Then(a.deliver)
	})
	return nil
}

// deliver runs on the main goroutine with the worker's batch.
func (a *App) deliver(batch pizza.RecordBatch, err error) {
	if err != nil {
		a.logger.Error("record generation failed", core.F("error", err))
		a.resolve(nil, err)
		return
	}
	var nodes []*render.Node
	a.recorder.TimeGeneration(func() int {
		nodes = a.materializer.Materialize(batch)
		return len(nodes)
	})
	a.recordN.Store(int64(len(nodes)))
	a.paint()
	a.resolve(nodes, nil)
}

// Records resolves with the materialized nodes once the batch is delivered.
func (a *App) Records() *core.Future[[]*render.Node] {
	return a.records
}

// Scroll is an input event setting the scroll offset.
func (a *App) Scroll(offset float64) error {
	return a.postInput("scroll", func() { a.doc.ScrollTo(offset) })
}

// ScrollBy is an input event moving the scroll offset by delta.
func (a *App) ScrollBy(delta float64) error {
	return a.postInput("scroll", func() { a.doc.ScrollBy(delta) })
}

func (a *App) postInput(name string, apply func()) error {
	if !a.isStarted() {
		return ErrNotStarted
	}
	if a.main.IsClosed() {
		return core.ErrRunnerClosed
	}
	a.main.PostTaskNamed(name, func(context.Context) {
		apply()
		a.coalescer.OnScrollEvent()
	})
	return nil
}

// Resize applies a size level (1-3) on the main goroutine. Other levels are
// ignored.
func (a *App) Resize(level int) error {
	if !a.isStarted() {
		return ErrNotStarted
	}
	if a.main.IsClosed() {
		return core.ErrRunnerClosed
	}
	a.main.PostTaskNamed("resize", func(context.Context) {
		if _, _, ok := pizza.SizeFor(level); !ok {
			a.logger.Debug("resize level ignored", core.F("level", level))
			return
		}
		a.recorder.TimeResize(level, func() { a.resizer.Resize(level) })
		a.paint()
	})
	return nil
}

// Do runs fn on the main goroutine with the document and waits for it.
func (a *App) Do(ctx context.Context, fn func(doc *render.Document)) error {
	if !a.isStarted() {
		return ErrNotStarted
	}
	if a.main.IsClosed() {
		return core.ErrRunnerClosed
	}
	done := core.PostTaskForFuture(a.main, func(context.Context) (struct{}, error) {
		fn(a.doc)
		return struct{}{}, nil
	}, core.TraitsUserBlocking(), a.main)
	_, err := done.Wait(ctx)
	return err
}

// WaitIdle waits until every task queued on the main runner has run.
func (a *App) WaitIdle(ctx context.Context) error {
	if !a.isStarted() {
		return ErrNotStarted
	}
	return a.main.WaitIdle(ctx)
}

// Main returns the main runner, or nil before Start.
func (a *App) Main() *core.MainThreadRunner {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.main
}

// Worker returns the worker pool, or nil before Start.
func (a *App) Worker() *WorkerPool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.worker
}

// Coalescer returns the scroll coalescer, or nil before Start.
func (a *App) Coalescer() *scroll.Coalescer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.coalescer
}

// Recorder returns the diagnostics recorder, or nil before Start.
func (a *App) Recorder() *diag.Recorder {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recorder
}

// Stats snapshots the runners and counters.
func (a *App) Stats() AppStats {
	if !a.isStarted() {
		return AppStats{}
	}
	avg, _, _ := a.recorder.FrameAverage()
	return AppStats{
		Main:         a.main.Stats(),
		Worker:       a.worker.Stats(),
		Scroll:       a.coalescer.Stats(),
		Movers:       a.registry.Len(),
		Records:      int(a.recordN.Load()),
		FrameAverage: avg,
	}
}

// Stop tears the page down. Queued worker tasks are dropped.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started || a.stopped {
		return
	}
	a.stopped = true
	a.worker.Stop()
	a.main.Stop()
	a.logger.Info("page stopped")
}

func (a *App) isStarted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}
