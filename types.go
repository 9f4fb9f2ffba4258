package framerunner

import "github.com/Swind/go-frame-runner/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the framerunner package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// FrameCallback runs once on the main runner at the next frame
type FrameCallback = core.FrameCallback

// TaskTraits defines task attributes (priority, category)
type TaskTraits = core.TaskTraits

// TaskPriority defines the priority levels for tasks
type TaskPriority = core.TaskPriority

// TaskRunner is the interface for posting tasks
type TaskRunner = core.TaskRunner

// MainThreadRunner is the page's main thread
type MainThreadRunner = core.MainThreadRunner

// FrameClock drives frame dispatch on the main runner
type FrameClock = core.FrameClock

// Priority constants
const (
	TaskPriorityBestEffort   TaskPriority = core.TaskPriorityBestEffort
	TaskPriorityUserVisible  TaskPriority = core.TaskPriorityUserVisible
	TaskPriorityUserBlocking TaskPriority = core.TaskPriorityUserBlocking
)

// Convenience functions for creating TaskTraits
var (
	DefaultTaskTraits  = core.DefaultTaskTraits
	TraitsUserBlocking = core.TraitsUserBlocking
	TraitsBestEffort   = core.TraitsBestEffort
	TraitsUserVisible  = core.TraitsUserVisible
)

// NewMainThreadRunner creates a main runner driven by clock.
func NewMainThreadRunner(clock FrameClock) *MainThreadRunner {
	return core.NewMainThreadRunner(clock)
}

// TaskWithResult and ReplyWithResult for generic PostTaskAndReply pattern
type TaskWithResult[T any] = core.TaskWithResult[T]
type ReplyWithResult[T any] = core.ReplyWithResult[T]

// GetCurrentTaskRunner retrieves the current TaskRunner from context
var GetCurrentTaskRunner = core.GetCurrentTaskRunner
