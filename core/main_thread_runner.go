package core

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const defaultMainQueueSize = 256

// ErrRunnerClosed is returned by synchronization helpers once the runner is shut down.
var ErrRunnerClosed = errors.New("runner is closed")

// MainThreadRunner binds a dedicated goroutine that plays the role of the
// page's main thread. It executes two kinds of work, never concurrently:
//
//  1. Tasks posted with PostTask (input events, worker replies, startup)
//  2. Animation frame callbacks registered with RequestAnimationFrame, which
//     run on the next tick of the FrameClock
//
// Everything owned by the main thread (the render tree, scroll state) can be
// mutated from these callbacks without locks.
type MainThreadRunner struct {
	workQueue chan queuedTask
	clock     FrameClock

	frameMu        sync.Mutex
	frameCallbacks []FrameCallback

	// Lifecycle control
	ctx    context.Context
	cancel context.CancelFunc

	stopped      chan struct{}
	once         sync.Once
	closed       atomic.Bool
	shutdownChan chan struct{}
	shutdownOnce sync.Once

	config   *RunnerConfig
	frames   atomic.Uint64
	rejected atomic.Int64
	history  executionHistory

	name string
	mu   sync.Mutex
}

type queuedTask struct {
	task   Task
	traits TaskTraits
	name   string
}

// MainThreadRunnerConfig configures a MainThreadRunner.
type MainThreadRunnerConfig struct {
	Name      string
	QueueSize int
	// Clock drives frame dispatch. Defaults to a TickerFrameClock at DefaultFrameInterval.
	Clock  FrameClock
	Runner *RunnerConfig
}

// NewMainThreadRunner creates and starts a runner driven by clock.
func NewMainThreadRunner(clock FrameClock) *MainThreadRunner {
	return NewMainThreadRunnerWithConfig(MainThreadRunnerConfig{Clock: clock})
}

// NewMainThreadRunnerWithConfig creates and starts a runner.
// It immediately spawns the dedicated goroutine.
func NewMainThreadRunnerWithConfig(cfg MainThreadRunnerConfig) *MainThreadRunner {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultMainQueueSize
	}
	if cfg.Clock == nil {
		cfg.Clock = NewTickerFrameClock(DefaultFrameInterval)
	}
	if cfg.Name == "" {
		cfg.Name = "main"
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &MainThreadRunner{
		workQueue:    make(chan queuedTask, cfg.QueueSize),
		clock:        cfg.Clock,
		ctx:          ctx,
		cancel:       cancel,
		stopped:      make(chan struct{}),
		shutdownChan: make(chan struct{}),
		config:       cfg.Runner.WithDefaults(),
		history:      newExecutionHistory(defaultTaskHistoryCapacity),
		name:         cfg.Name,
	}

	go r.runLoop()

	return r
}

// Name returns the name of the task runner
func (r *MainThreadRunner) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// SetName sets the name of the task runner
func (r *MainThreadRunner) SetName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
}

// PostTask submits a task for execution
func (r *MainThreadRunner) PostTask(task Task) {
	r.PostTaskWithTraits(task, DefaultTaskTraits())
}

// PostTaskNamed submits a task with an explicit name for history and metrics.
func (r *MainThreadRunner) PostTaskNamed(name string, task Task) {
	r.post(queuedTask{task: task, traits: DefaultTaskTraits(), name: name})
}

// PostTaskWithTraits submits a task with traits. Traits only label the
// execution for metrics; order is always FIFO.
func (r *MainThreadRunner) PostTaskWithTraits(task Task, traits TaskTraits) {
	r.post(queuedTask{task: task, traits: traits})
}

func (r *MainThreadRunner) post(item queuedTask) {
	// Check if runner is closed to avoid blocking on a dead loop
	if r.closed.Load() {
		r.reject("closed")
		return
	}

	select {
	case <-r.ctx.Done():
		r.reject("closed")
	case r.workQueue <- item:
		r.config.Metrics.RecordQueueDepth(r.Name(), len(r.workQueue))
	}
}

func (r *MainThreadRunner) reject(reason string) {
	r.rejected.Add(1)
	r.config.Metrics.RecordTaskRejected(r.Name(), reason)
	r.config.RejectedTaskHandler.HandleRejectedTask(r.Name(), reason)
}

// PostDelayedTask submits a delayed task
func (r *MainThreadRunner) PostDelayedTask(task Task, delay time.Duration) {
	r.PostDelayedTaskWithTraits(task, delay, DefaultTaskTraits())
}

// PostDelayedTaskWithTraits submits a delayed task with traits.
// time.AfterFunc fires on its own goroutine; the task is injected back into
// the main loop when it does.
func (r *MainThreadRunner) PostDelayedTaskWithTraits(task Task, delay time.Duration, traits TaskTraits) {
	if r.closed.Load() {
		r.reject("closed")
		return
	}
	time.AfterFunc(delay, func() {
		r.PostTaskWithTraits(task, traits)
	})
}

// RequestAnimationFrame registers cb to run once, on the main goroutine, at the
// next frame. Callbacks registered while a frame is being dispatched run on the
// frame after it.
func (r *MainThreadRunner) RequestAnimationFrame(cb FrameCallback) {
	if cb == nil {
		return
	}
	if r.closed.Load() {
		r.reject("closed")
		return
	}
	r.frameMu.Lock()
	r.frameCallbacks = append(r.frameCallbacks, cb)
	r.frameMu.Unlock()
}

// PendingFrameCallbacks returns the number of callbacks waiting for the next frame.
func (r *MainThreadRunner) PendingFrameCallbacks() int {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	return len(r.frameCallbacks)
}

// Shutdown marks the runner as closed and signals shutdown waiters.
// Unlike Stop(), this method does not wait for the loop to exit, so a task
// may call it on its own runner.
func (r *MainThreadRunner) Shutdown() {
	r.shutdownOnce.Do(func() {
		r.closed.Store(true)
		r.cancel()
		close(r.shutdownChan)
	})
}

// IsClosed returns true if the runner has been stopped
func (r *MainThreadRunner) IsClosed() bool {
	return r.closed.Load()
}

// Stop stops the runner, waits for the current task to finish and stops the clock.
func (r *MainThreadRunner) Stop() {
	r.once.Do(func() {
		r.Shutdown()
		<-r.stopped
		r.clock.Stop()
	})
}

// runLoop occupies the dedicated goroutine
func (r *MainThreadRunner) runLoop() {
	defer close(r.stopped)

	runCtx := context.WithValue(r.ctx, taskRunnerKey, r)
	frames := r.clock.Frames()

	for {
		select {
		case item := <-r.workQueue:
			r.runTask(runCtx, item)

		case at, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			r.runFrame(runCtx, at)

		case <-r.ctx.Done():
			return
		}
	}
}

func (r *MainThreadRunner) runTask(ctx context.Context, item queuedTask) {
	name := item.name
	if name == "" {
		name = "task"
	}
	start := time.Now()
	panicked := r.safeRun(ctx, func() { item.task(ctx) })
	d := time.Since(start)

	r.config.Metrics.RecordTaskDuration(r.Name(), item.traits.Priority, d)
	r.history.Add(TaskExecutionRecord{
		Name:       name,
		RunnerName: r.Name(),
		Kind:       "task",
		Priority:   item.traits.Priority,
		StartedAt:  start,
		Duration:   d,
		Panicked:   panicked,
	})
}

func (r *MainThreadRunner) runFrame(ctx context.Context, at time.Time) {
	r.frameMu.Lock()
	callbacks := r.frameCallbacks
	r.frameCallbacks = nil
	r.frameMu.Unlock()

	if len(callbacks) == 0 {
		return
	}

	start := time.Now()
	panicked := false
	for _, cb := range callbacks {
		if r.safeRun(ctx, func() { cb(ctx, at) }) {
			panicked = true
		}
	}
	d := time.Since(start)

	r.frames.Add(1)
	r.config.Metrics.RecordFrame(r.Name(), len(callbacks), d)
	r.history.Add(TaskExecutionRecord{
		Name:       "animation-frame",
		RunnerName: r.Name(),
		Kind:       "frame",
		Priority:   TaskPriorityUserBlocking,
		StartedAt:  start,
		Duration:   d,
		Panicked:   panicked,
	})
}

// safeRun executes fn and reports whether it panicked.
func (r *MainThreadRunner) safeRun(ctx context.Context, fn func()) (panicked bool) {
	defer func() {
		if rec := recover(); rec != nil {
			panicked = true
			r.config.Metrics.RecordTaskPanic(r.Name(), rec)
			r.config.PanicHandler.HandlePanic(ctx, r.Name(), -1, rec, debug.Stack())
		}
	}()
	fn()
	return false
}

// Stats returns current observability data for this runner.
func (r *MainThreadRunner) Stats() RunnerStats {
	stats := RunnerStats{
		Name:     r.Name(),
		Type:     "main",
		Pending:  len(r.workQueue),
		Frames:   r.frames.Load(),
		Rejected: r.rejected.Load(),
		Closed:   r.IsClosed(),
	}
	if last, ok := r.history.Last(); ok {
		stats.LastTaskName = last.Name
		stats.LastTaskAt = last.StartedAt.Add(last.Duration)
	}
	return stats
}

// RecentTasks returns completed executions in newest-first order.
func (r *MainThreadRunner) RecentTasks(limit int) []TaskExecutionRecord {
	return r.history.Recent(limit)
}

// =============================================================================
// Task and Reply Pattern
// =============================================================================

// PostTaskAndReply executes task on this runner, then posts reply to replyRunner.
// If task panics, reply will not be executed.
func (r *MainThreadRunner) PostTaskAndReply(task Task, reply Task, replyRunner TaskRunner) {
	postTaskAndReplyInternal(r, task, DefaultTaskTraits(), reply, DefaultTaskTraits(), replyRunner)
}

// =============================================================================
// Synchronization Methods
// =============================================================================

// WaitIdle blocks until all currently queued tasks have completed execution.
// It posts a barrier task and waits for it to run. Frame callbacks that are
// still waiting for a tick are not waited for.
func (r *MainThreadRunner) WaitIdle(ctx context.Context) error {
	if r.IsClosed() {
		return ErrRunnerClosed
	}

	done := make(chan struct{})
	r.PostTask(func(taskCtx context.Context) {
		close(done)
	})

	select {
	case <-done:
		return nil
	case <-r.stopped:
		return ErrRunnerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitShutdown blocks until Shutdown() is called on this runner.
func (r *MainThreadRunner) WaitShutdown(ctx context.Context) error {
	select {
	case <-r.shutdownChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
