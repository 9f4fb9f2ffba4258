package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrTaskPanicked rejects a Future whose producing task panicked.
var ErrTaskPanicked = errors.New("task panicked")

// TaskWithResult is a task that produces a value on the target runner.
type TaskWithResult[T any] func(ctx context.Context) (T, error)

// ReplyWithResult consumes that value on the reply runner.
type ReplyWithResult[T any] func(ctx context.Context, result T, err error)

// =============================================================================
// PostTaskAndReply Internal Helpers
// =============================================================================

// postTaskAndReplyInternal wraps task and reply so that:
// 1. task executes on targetRunner
// 2. if task completes without panicking, reply is posted to replyRunner
func postTaskAndReplyInternal(
	targetRunner TaskRunner,
	task Task,
	taskTraits TaskTraits,
	reply Task,
	replyTraits TaskTraits,
	replyRunner TaskRunner,
) {
	if replyRunner == nil {
		targetRunner.PostTaskWithTraits(task, taskTraits)
		return
	}

	wrappedTask := func(ctx context.Context) {
		task(ctx)
		// Only reached when task returned normally; a panic unwinds past
		// this point into the runner's recovery.
		replyRunner.PostTaskWithTraits(reply, replyTraits)
	}

	targetRunner.PostTaskWithTraits(wrappedTask, taskTraits)
}

// =============================================================================
// Generic PostTaskAndReply with Result
// =============================================================================

// PostTaskAndReplyWithResult executes a task that returns a result of type T and an error,
// then passes that result to a reply callback on the replyRunner.
//
// The task ALWAYS completes before the reply starts, and the reply sees the
// final values written by the task (the post to replyRunner is the
// synchronization point).
//
// Example:
//
//	PostTaskAndReplyWithResult(
//	    workers,
//	    func(ctx context.Context) (int, error) {
//	        return len("Hello"), nil
//	    },
//	    func(ctx context.Context, length int, err error) {
//	        fmt.Printf("Length: %d\n", length)
//	    },
//	    mainRunner,
//	)
func PostTaskAndReplyWithResult[T any](
	targetRunner TaskRunner,
	task TaskWithResult[T],
	reply ReplyWithResult[T],
	replyRunner TaskRunner,
) {
	PostTaskAndReplyWithResultAndTraits(
		targetRunner,
		task,
		DefaultTaskTraits(),
		reply,
		DefaultTaskTraits(),
		replyRunner,
	)
}

// PostTaskAndReplyWithResultAndTraits is the full-featured version that allows specifying
// different traits for the task and reply separately, e.g. best-effort
// generation with a user-visible reply.
func PostTaskAndReplyWithResultAndTraits[T any](
	targetRunner TaskRunner,
	task TaskWithResult[T],
	taskTraits TaskTraits,
	reply ReplyWithResult[T],
	replyTraits TaskTraits,
	replyRunner TaskRunner,
) {
	var result T
	var err error

	wrappedTask := func(ctx context.Context) {
		result, err = task(ctx)
	}

	wrappedReply := func(ctx context.Context) {
		reply(ctx, result, err)
	}

	postTaskAndReplyInternal(
		targetRunner,
		wrappedTask,
		taskTraits,
		wrappedReply,
		replyTraits,
		replyRunner,
	)
}

// PostTaskForFuture runs task on targetRunner and returns immediately with a
// Future that resolves on replyRunner. A panic in task rejects the Future
// with ErrTaskPanicked (the panic itself is still reported by the target
// runner's PanicHandler).
func PostTaskForFuture[T any](
	targetRunner TaskRunner,
	task TaskWithResult[T],
	taskTraits TaskTraits,
	replyRunner TaskRunner,
) *Future[T] {
	future, resolve := NewFuture[T]()

	wrappedTask := func(ctx context.Context) {
		var (
			result T
			err    error
		)
		defer func() {
			if rec := recover(); rec != nil {
				perr := fmt.Errorf("%w: %v", ErrTaskPanicked, rec)
				replyRunner.PostTask(func(ctx context.Context) {
					var zero T
					resolve(zero, perr)
				})
				panic(rec)
			}
		}()
		result, err = task(ctx)
		replyRunner.PostTaskWithTraits(func(ctx context.Context) {
			resolve(result, err)
		}, TraitsUserVisible())
	}

	targetRunner.PostTaskWithTraits(wrappedTask, taskTraits)
	return future
}
