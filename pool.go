package framerunner

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Swind/go-frame-runner/core"
)

// WorkerPool is the background execution context: a set of worker goroutines
// pulling tasks from a FIFO queue. Tasks posted here must not touch anything
// owned by the main runner; results travel back by posting to it.
type WorkerPool struct {
	id      string
	workers int
	config  *core.RunnerConfig

	queueMu sync.Mutex
	queue   []poolTask
	signal  chan struct{}

	active   atomic.Int32
	closed   atomic.Bool
	rejected atomic.Int64

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool
	runningMu sync.RWMutex
}

type poolTask struct {
	task   core.Task
	traits core.TaskTraits
}

var _ core.TaskRunner = (*WorkerPool)(nil)

// NewWorkerPool creates a pool with default handlers. Call Start to launch workers.
func NewWorkerPool(id string, workers int) *WorkerPool {
	return NewWorkerPoolWithConfig(id, workers, nil)
}

// NewWorkerPoolWithConfig creates a pool using the given handlers; nil fields
// fall back to defaults.
func NewWorkerPoolWithConfig(id string, workers int, config *core.RunnerConfig) *WorkerPool {
	if workers < 1 {
		panic("WorkerPool: workers must be at least 1")
	}
	return &WorkerPool{
		id:      id,
		workers: workers,
		config:  config.WithDefaults(),
		signal:  make(chan struct{}, workers),
	}
}

// Start starts all worker goroutines
func (p *WorkerPool) Start(ctx context.Context) {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()

	if p.running || p.closed.Load() {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(i, p.ctx)
	}
	p.config.Logger.Debug("worker pool started", core.F("pool", p.id), core.F("workers", p.workers))
}

// Stop rejects further tasks, cancels the workers and waits for running tasks to return.
// Queued tasks that have not started are dropped.
func (p *WorkerPool) Stop() {
	p.closed.Store(true)

	p.runningMu.Lock()
	if !p.running {
		p.runningMu.Unlock()
		p.clearQueue()
		return
	}
	p.runningMu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.Join()
	p.clearQueue()

	p.runningMu.Lock()
	p.running = false
	p.runningMu.Unlock()
	p.config.Logger.Debug("worker pool stopped", core.F("pool", p.id))
}

func (p *WorkerPool) clearQueue() {
	p.queueMu.Lock()
	p.queue = nil
	p.queueMu.Unlock()
}

// ID returns the ID of the pool
func (p *WorkerPool) ID() string {
	return p.id
}

// IsRunning returns whether the pool is running
func (p *WorkerPool) IsRunning() bool {
	p.runningMu.RLock()
	defer p.runningMu.RUnlock()
	return p.running
}

// PostTask submits a task for background execution.
func (p *WorkerPool) PostTask(task core.Task) {
	p.PostTaskWithTraits(task, core.TraitsBestEffort())
}

// PostTaskWithTraits submits a task with traits.
func (p *WorkerPool) PostTaskWithTraits(task core.Task, traits core.TaskTraits) {
	if p.closed.Load() {
		p.rejected.Add(1)
		p.config.Metrics.RecordTaskRejected(p.id, "closed")
		p.config.RejectedTaskHandler.HandleRejectedTask(p.id, "closed")
		return
	}

	p.queueMu.Lock()
	p.queue = append(p.queue, poolTask{task: task, traits: traits})
	depth := len(p.queue)
	p.queueMu.Unlock()

	p.config.Metrics.RecordQueueDepth(p.id, depth)

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// PostDelayedTask submits a task after delay.
func (p *WorkerPool) PostDelayedTask(task core.Task, delay time.Duration) {
	p.PostDelayedTaskWithTraits(task, delay, core.TraitsBestEffort())
}

// PostDelayedTaskWithTraits submits a task with traits after delay.
func (p *WorkerPool) PostDelayedTaskWithTraits(task core.Task, delay time.Duration, traits core.TaskTraits) {
	time.AfterFunc(delay, func() {
		p.PostTaskWithTraits(task, traits)
	})
}

func (p *WorkerPool) pop() (poolTask, bool) {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()

	if len(p.queue) == 0 {
		return poolTask{}, false
	}
	item := p.queue[0]
	p.queue[0] = poolTask{}
	p.queue = p.queue[1:]
	return item, true
}

// workerLoop is the main loop for each worker
func (p *WorkerPool) workerLoop(id int, ctx context.Context) {
	defer p.wg.Done()

	for {
		item, ok := p.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-p.signal:
				continue
			}
		}

		if ctx.Err() != nil {
			return
		}
		p.run(id, ctx, item)
	}
}

func (p *WorkerPool) run(id int, ctx context.Context, item poolTask) {
	p.active.Add(1)
	start := time.Now()
	defer func() {
		p.active.Add(-1)
		if rec := recover(); rec != nil {
			p.config.Metrics.RecordTaskPanic(p.id, rec)
			p.config.PanicHandler.HandlePanic(ctx, p.id, id, rec, debug.Stack())
			return
		}
		p.config.Metrics.RecordTaskDuration(p.id, item.traits.Priority, time.Since(start))
	}()
	item.task(ctx)
}

// Join waits for all worker goroutines to finish
func (p *WorkerPool) Join() {
	p.wg.Wait()
}

// WorkerCount returns the number of workers
func (p *WorkerPool) WorkerCount() int {
	return p.workers
}

// QueuedTaskCount returns the number of tasks waiting for a worker.
func (p *WorkerPool) QueuedTaskCount() int {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()
	return len(p.queue)
}

// ActiveTaskCount returns the number of tasks currently executing.
func (p *WorkerPool) ActiveTaskCount() int {
	return int(p.active.Load())
}

// Stats returns current observability data for this pool.
func (p *WorkerPool) Stats() core.PoolStats {
	return core.PoolStats{
		ID:      p.id,
		Workers: p.workers,
		Queued:  p.QueuedTaskCount(),
		Active:  p.ActiveTaskCount(),
		Running: p.IsRunning(),
	}
}
