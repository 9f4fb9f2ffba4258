package pizza

import (
	"context"
	"fmt"
	"time"

	"github.com/Swind/go-frame-runner/core"
)

// HandleMessage is the worker side of the pipeline: it decodes a
// GenerateRequest, generates the batch and encodes the completion message.
// Only bytes enter and leave, so nothing is shared with the caller.
func HandleMessage(gen *Generator, data []byte) ([]byte, error) {
	req, err := DecodeRequest(data)
	if err != nil {
		return nil, err
	}
	return EncodeBatch(gen.Generate(req.PizzaNumber))
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	// NewGenerator is called once per request on the worker. Defaults to NewRandomGenerator.
	NewGenerator func() *Generator
	Logger       core.Logger
}

// Pipeline runs generation on a background runner and hands the batch back
// to the main runner.
type Pipeline struct {
	worker core.TaskRunner
	main   core.TaskRunner
	opts   PipelineOptions
}

// NewPipeline creates a pipeline posting work to worker and replies to main.
func NewPipeline(worker, main core.TaskRunner, opts PipelineOptions) *Pipeline {
	if worker == nil || main == nil {
		panic("Pipeline: worker and main runners must not be nil")
	}
	if opts.NewGenerator == nil {
		opts.NewGenerator = NewRandomGenerator
	}
	if opts.Logger == nil {
		opts.Logger = core.NewNoOpLogger()
	}
	return &Pipeline{worker: worker, main: main, opts: opts}
}

// Start posts one generation request and returns immediately. The returned
// Future resolves exactly once, on the main runner, with the whole batch.
// Call it from the main runner so callbacks added with Then also run there.
func (p *Pipeline) Start(count int) *core.Future[RecordBatch] {
	future, resolve := core.NewFuture[RecordBatch]()

	msg, err := EncodeRequest(count)
	if err != nil {
		resolve(nil, err)
		return future
	}

	posted := time.Now()
	reply := core.PostTaskForFuture(p.worker, func(ctx context.Context) ([]byte, error) {
		return HandleMessage(p.opts.NewGenerator(), msg)
	}, core.TraitsBestEffort(), p.main)

	reply.Then(func(data []byte, err error) {
		if err != nil {
			resolve(nil, fmt.Errorf("generate %d records: %w", count, err))
			return
		}
		batch, err := DecodeBatch(data)
		if err == nil && len(batch) != count {
			err = fmt.Errorf("%w: got %d records, want %d", ErrBadMessage, len(batch), count)
		}
		if err != nil {
			resolve(nil, err)
			return
		}
		p.opts.Logger.Debug("record batch delivered",
			core.F("records", len(batch)),
			core.F("bytes", len(data)),
			core.F("elapsed", time.Since(posted)),
		)
		resolve(batch, nil)
	})
	return future
}
