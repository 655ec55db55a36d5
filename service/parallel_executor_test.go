package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/spdxscan/domain"
)

func runTask(fn func(ctx context.Context) error) Task {
	return Task{Name: "task", Run: fn}
}

func TestNewParallelExecutor(t *testing.T) {
	executor := NewParallelExecutor()

	if executor == nil {
		t.Fatal("NewParallelExecutor returned nil")
	}
	if executor.maxConcurrency <= 0 {
		t.Errorf("maxConcurrency should be > 0, got %d", executor.maxConcurrency)
	}
}

func TestNewParallelExecutorWithConcurrency(t *testing.T) {
	executor := NewParallelExecutorWithConcurrency(8)
	if executor.maxConcurrency != 8 {
		t.Errorf("maxConcurrency should be 8, got %d", executor.maxConcurrency)
	}

	// 0 means one worker per CPU
	executor = NewParallelExecutorWithConcurrency(0)
	if executor.maxConcurrency <= 0 {
		t.Errorf("maxConcurrency should default to CPU count, got %d", executor.maxConcurrency)
	}

	// Negative values fall back to the default
	executor = NewParallelExecutorWithConcurrency(-1)
	if executor.maxConcurrency != DefaultMaxConcurrency {
		t.Errorf("maxConcurrency should be %d, got %d", DefaultMaxConcurrency, executor.maxConcurrency)
	}
}

func TestParallelExecutor_EmptyTaskList(t *testing.T) {
	err := NewParallelExecutor().Execute(context.Background(), "test", nil)
	if err != nil {
		t.Errorf("empty task list should return nil, got %v", err)
	}
}

func TestParallelExecutor_AllTasksSucceed(t *testing.T) {
	var executedCount atomic.Int32
	var tasks []Task
	for i := 0; i < 3; i++ {
		tasks = append(tasks, runTask(func(ctx context.Context) error {
			executedCount.Add(1)
			return nil
		}))
	}

	err := NewParallelExecutor().Execute(context.Background(), "test", tasks)

	if err != nil {
		t.Errorf("all tasks succeeded should return nil, got %v", err)
	}
	if executedCount.Load() != 3 {
		t.Errorf("all 3 tasks should have executed, got %d", executedCount.Load())
	}
}

func TestParallelExecutor_PartialFailures(t *testing.T) {
	tasks := []Task{
		{Name: "task1", Run: func(ctx context.Context) error { return errors.New("task1 failed") }},
		{Name: "task2", Run: func(ctx context.Context) error { return nil }},
		{Name: "task3", Run: func(ctx context.Context) error { return errors.New("task3 failed") }},
	}

	err := NewParallelExecutor().Execute(context.Background(), "test", tasks)

	if err == nil {
		t.Fatal("expected error for partial failures")
	}

	var aggErr *AggregatedError
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected AggregatedError, got %T", err)
	}
	if len(aggErr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(aggErr.Errors))
	}

	foundTask1 := false
	foundTask3 := false
	for _, te := range aggErr.Errors {
		if te.TaskName == "task1" {
			foundTask1 = true
		}
		if te.TaskName == "task3" {
			foundTask3 = true
		}
	}
	if !foundTask1 || !foundTask3 {
		t.Error("expected both task1 and task3 errors to be captured")
	}
}

func TestParallelExecutor_ContextCancellationSkipsPendingTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executedCount atomic.Int32
	tasks := []Task{
		runTask(func(ctx context.Context) error {
			executedCount.Add(1)
			return nil
		}),
	}

	if err := NewParallelExecutorWithConcurrency(1).Execute(ctx, "test", tasks); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if executedCount.Load() != 0 {
		t.Error("tasks should not run once the context is cancelled")
	}
}

func TestParallelExecutor_ConcurrencyLimit(t *testing.T) {
	executor := NewParallelExecutorWithConcurrency(2)

	var currentConcurrency atomic.Int32
	var maxSeen atomic.Int32
	var mu sync.Mutex

	updateMax := func(current int32) {
		mu.Lock()
		defer mu.Unlock()
		if current > maxSeen.Load() {
			maxSeen.Store(current)
		}
	}

	var tasks []Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, runTask(func(ctx context.Context) error {
			current := currentConcurrency.Add(1)
			updateMax(current)
			time.Sleep(50 * time.Millisecond)
			currentConcurrency.Add(-1)
			return nil
		}))
	}

	if err := executor.Execute(context.Background(), "test", tasks); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if maxSeen.Load() > 2 {
		t.Errorf("max concurrency should not exceed 2, got %d", maxSeen.Load())
	}
}

func TestParallelExecutor_SetMaxConcurrency(t *testing.T) {
	executor := NewParallelExecutor()

	executor.SetMaxConcurrency(16)

	executor.mu.RLock()
	if executor.maxConcurrency != 16 {
		t.Errorf("maxConcurrency should be 16, got %d", executor.maxConcurrency)
	}
	executor.mu.RUnlock()
}

func TestParallelExecutor_SetMaxConcurrency_InvalidValue(t *testing.T) {
	executor := NewParallelExecutor()
	original := executor.maxConcurrency

	executor.SetMaxConcurrency(0)  // Invalid
	executor.SetMaxConcurrency(-1) // Invalid

	executor.mu.RLock()
	if executor.maxConcurrency != original {
		t.Errorf("maxConcurrency should remain %d for invalid values, got %d", original, executor.maxConcurrency)
	}
	executor.mu.RUnlock()
}

func TestParallelExecutor_ProgressIntegration(t *testing.T) {
	var incrementCount atomic.Int32
	var completed atomic.Bool

	mockPM := &mockProgressManager{
		startTaskFunc: func(description string, total int) domain.TaskProgress {
			return &mockTaskProgress{
				incrementFunc: func(n int) {
					incrementCount.Add(int32(n))
				},
				completeFunc: func() {
					completed.Store(true)
				},
			}
		},
	}

	executor := NewParallelExecutorWithProgress(4, mockPM)

	var tasks []Task
	for i := 0; i < 3; i++ {
		tasks = append(tasks, runTask(func(ctx context.Context) error { return nil }))
	}

	if err := executor.Execute(context.Background(), "test", tasks); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if incrementCount.Load() != 3 {
		t.Errorf("expected 3 increments, got %d", incrementCount.Load())
	}
	if !completed.Load() {
		t.Error("expected Complete() to be called")
	}
}

func TestAggregatedError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []TaskError
		contains string
	}{
		{
			name:     "no errors",
			errors:   []TaskError{},
			contains: "no errors",
		},
		{
			name: "single error",
			errors: []TaskError{
				{TaskName: "task1", Err: errors.New("failed")},
			},
			contains: "[task1] failed",
		},
		{
			name: "multiple errors",
			errors: []TaskError{
				{TaskName: "task1", Err: errors.New("failed1")},
				{TaskName: "task2", Err: errors.New("failed2")},
			},
			contains: "2 tasks failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggErr := &AggregatedError{Errors: tt.errors}
			errStr := aggErr.Error()

			if len(errStr) == 0 {
				t.Error("error string should not be empty")
			}
			if !strings.Contains(errStr, tt.contains) {
				t.Errorf("error string should contain %q, got %q", tt.contains, errStr)
			}
		})
	}
}

func TestAggregatedError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	aggErr := &AggregatedError{
		Errors: []TaskError{
			{TaskName: "task1", Err: originalErr},
		},
	}

	if !errors.Is(aggErr.Unwrap(), originalErr) {
		t.Error("Unwrap should return the first error's underlying error")
	}
}

func TestAggregatedError_Unwrap_Empty(t *testing.T) {
	aggErr := &AggregatedError{Errors: []TaskError{}}

	if aggErr.Unwrap() != nil {
		t.Error("Unwrap on empty errors should return nil")
	}
}

func TestTaskError_Error(t *testing.T) {
	te := TaskError{
		TaskName: "my-task",
		Err:      errors.New("something went wrong"),
	}

	if te.Error() != "[my-task] something went wrong" {
		t.Errorf("unexpected error string: %s", te.Error())
	}
}

func TestTaskError_Unwrap(t *testing.T) {
	originalErr := errors.New("original")
	te := TaskError{
		TaskName: "task",
		Err:      originalErr,
	}

	if !errors.Is(te, originalErr) {
		t.Error("TaskError should unwrap to original error")
	}
}

// Helper types for testing

type mockProgressManager struct {
	startTaskFunc func(description string, total int) domain.TaskProgress
}

func (m *mockProgressManager) StartTask(description string, total int) domain.TaskProgress {
	if m.startTaskFunc != nil {
		return m.startTaskFunc(description, total)
	}
	return &NoOpTaskProgress{}
}

func (m *mockProgressManager) IsInteractive() bool {
	return false
}

func (m *mockProgressManager) Close() {}

type mockTaskProgress struct {
	incrementFunc func(n int)
	describeFunc  func(description string)
	completeFunc  func()
}

func (m *mockTaskProgress) Increment(n int) {
	if m.incrementFunc != nil {
		m.incrementFunc(n)
	}
}

func (m *mockTaskProgress) Describe(description string) {
	if m.describeFunc != nil {
		m.describeFunc(description)
	}
}

func (m *mockTaskProgress) Complete() {
	if m.completeFunc != nil {
		m.completeFunc()
	}
}
