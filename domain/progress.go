package domain

import "context"

// TaskProgress tracks progress of a single long-running task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}

// ProgressManager creates progress tasks appropriate for the environment
type ProgressManager interface {
	// StartTask creates a new progress task with a description and total count
	StartTask(description string, total int) TaskProgress

	// IsInteractive returns true if progress output is shown
	IsInteractive() bool

	// Close cleans up all tasks
	Close()
}

// ExecutableTask is a named unit of work for the parallel executor
type ExecutableTask interface {
	// Name identifies the task in error reporting
	Name() string

	// IsEnabled reports whether the task should run
	IsEnabled() bool

	// Execute runs the task
	Execute(ctx context.Context) (interface{}, error)
}

// ParallelExecutor runs units of work with bounded concurrency
type ParallelExecutor interface {
	// Execute runs tasks concurrently, isolating each task's failure;
	// the returned error aggregates all task failures
	Execute(ctx context.Context, tasks []ExecutableTask) error

	// ForEach runs fn for every index 0..n-1 with bounded concurrency.
	// Item errors are isolated and aggregated; callers that need
	// ordered results write into an index-addressed slice from fn.
	ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}
