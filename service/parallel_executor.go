package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/ludo-technologies/spdxscan/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency is used when a configured value is invalid.
// NewParallelExecutor() uses runtime.NumCPU() for optimal CPU
// utilization; this constant is the fallback for bad config input.
const DefaultMaxConcurrency = 4

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tasks failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// Task is one unit of parallel work
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// ParallelExecutorImpl runs independent tasks on a bounded worker pool.
// Tasks share no mutable state; each writes only its own result slot,
// so callers get deterministic output by indexing, not completion order.
type ParallelExecutorImpl struct {
	maxConcurrency int
	progress       domain.ProgressManager
	mu             sync.RWMutex
}

// NewParallelExecutor creates a parallel executor sized to the CPU count
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
	}
}

// NewParallelExecutorWithConcurrency creates a parallel executor with an
// explicit pool size; 0 means one worker per CPU
func NewParallelExecutorWithConcurrency(n int) *ParallelExecutorImpl {
	if n == 0 {
		n = runtime.NumCPU()
	}
	if n < 0 {
		n = DefaultMaxConcurrency
	}
	return &ParallelExecutorImpl{maxConcurrency: n}
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(n int, pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutorWithConcurrency(n)
	executor.progress = pm
	return executor
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// Execute runs tasks in parallel with the configured concurrency.
// Cancellation stops dispatch of new tasks promptly; tasks already
// running finish. Individual task failures are collected rather than
// aborting the batch.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, description string, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	e.mu.RUnlock()

	// Set up progress tracking
	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(description, len(tasks))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	// Collect errors from all tasks
	var errMu sync.Mutex
	var taskErrors []TaskError

	for _, t := range tasks {
		g.Go(func() error {
			// Skip work once the run is cancelled
			select {
			case <-gCtx.Done():
				return nil
			default:
			}

			err := t.Run(gCtx)
			task.Increment(1)

			if err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{
					TaskName: t.Name,
					Err:      err,
				})
				errMu.Unlock()
			}

			// Return nil to continue processing other tasks.
			// Errors are collected separately to report all failures.
			return nil
		})
	}

	// g.Wait() always returns nil here because goroutines return nil to
	// let every task run; failures live in taskErrors.
	_ = g.Wait()

	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}

	return nil
}
