package core

import (
	"context"
	"time"
)

// Task is a closure posted to a runner. ctx carries the runner executing it.
type Task func(ctx context.Context)

// FrameCallback runs once on the main runner, just before the next repaint.
// frameTime is the timestamp delivered by the FrameClock for that frame.
type FrameCallback func(ctx context.Context, frameTime time.Time)

// TaskPriority orders work for metrics and history. Higher is more urgent.
type TaskPriority int

const (
	// TaskPriorityBestEffort is background work such as record generation.
	TaskPriorityBestEffort TaskPriority = iota

	// TaskPriorityUserVisible is the default.
	TaskPriorityUserVisible

	// TaskPriorityUserBlocking is input handling and frame work: if it is late
	// the page visibly stutters.
	TaskPriorityUserBlocking
)

// TaskTraits describe a posted task.
type TaskTraits struct {
	Priority TaskPriority
	Category string
}

func DefaultTaskTraits() TaskTraits { return TaskTraits{Priority: TaskPriorityUserVisible} }

func TraitsUserBlocking() TaskTraits { return TaskTraits{Priority: TaskPriorityUserBlocking} }

func TraitsBestEffort() TaskTraits { return TaskTraits{Priority: TaskPriorityBestEffort} }

func TraitsUserVisible() TaskTraits { return TaskTraits{Priority: TaskPriorityUserVisible} }

// TaskRunner accepts work. Both the main runner and the worker pool implement it.
type TaskRunner interface {
	PostTask(task Task)
	PostTaskWithTraits(task Task, traits TaskTraits)
	PostDelayedTask(task Task, delay time.Duration)
	PostDelayedTaskWithTraits(task Task, delay time.Duration, traits TaskTraits)
}

// FrameRequester is implemented by runners that own a frame clock.
type FrameRequester interface {
	RequestAnimationFrame(cb FrameCallback)
}

type taskRunnerKeyType struct{}

var taskRunnerKey taskRunnerKeyType

// GetCurrentTaskRunner returns the runner executing the current task, or nil
// outside a runner (worker pool tasks included).
func GetCurrentTaskRunner(ctx context.Context) TaskRunner {
	if v, ok := ctx.Value(taskRunnerKey).(TaskRunner); ok {
		return v
	}
	return nil
}
