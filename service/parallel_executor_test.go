package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ludo-technologies/tsreview/domain"
	"github.com/ludo-technologies/tsreview/internal/config"
)

// mockTask implements domain.ExecutableTask for testing
type mockTask struct {
	name     string
	enabled  bool
	execFunc func(ctx context.Context) (interface{}, error)
}

func (t *mockTask) Name() string { return t.name }

func (t *mockTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execFunc != nil {
		return t.execFunc(ctx)
	}
	return nil, nil
}

func (t *mockTask) IsEnabled() bool { return t.enabled }

func TestNewParallelExecutor(t *testing.T) {
	executor := NewParallelExecutor()
	if executor == nil {
		t.Fatal("NewParallelExecutor returned nil")
	}
	if executor.maxConcurrency <= 0 {
		t.Errorf("maxConcurrency should be > 0, got %d", executor.maxConcurrency)
	}
	if executor.timeout != DefaultTimeout {
		t.Errorf("timeout should be %v, got %v", DefaultTimeout, executor.timeout)
	}
}

func TestNewParallelExecutorFromConfig(t *testing.T) {
	executor := NewParallelExecutorFromConfig(&config.PerformanceConfig{MaxGoroutines: 7})
	if executor.maxConcurrency != 7 {
		t.Errorf("Expected maxConcurrency 7, got %d", executor.maxConcurrency)
	}

	fallback := NewParallelExecutorFromConfig(&config.PerformanceConfig{MaxGoroutines: 0})
	if fallback.maxConcurrency != DefaultMaxConcurrency {
		t.Errorf("Expected fallback %d, got %d", DefaultMaxConcurrency, fallback.maxConcurrency)
	}
}

func TestExecuteRunsAllEnabledTasks(t *testing.T) {
	executor := NewParallelExecutor()

	var ran int32
	tasks := []domain.ExecutableTask{
		&mockTask{name: "a", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&ran, 1)
			return nil, nil
		}},
		&mockTask{name: "b", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&ran, 1)
			return nil, nil
		}},
		&mockTask{name: "disabled", enabled: false, execFunc: func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&ran, 1)
			return nil, nil
		}},
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if atomic.LoadInt32(&ran) != 2 {
		t.Errorf("Expected 2 tasks to run, got %d", ran)
	}
}

func TestExecuteIsolatesTaskFailures(t *testing.T) {
	executor := NewParallelExecutor()

	var survivorRan int32
	tasks := []domain.ExecutableTask{
		&mockTask{name: "failing", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("task blew up")
		}},
		&mockTask{name: "survivor", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&survivorRan, 1)
			return nil, nil
		}},
	}

	err := executor.Execute(context.Background(), tasks)
	if err == nil {
		t.Fatal("Expected aggregated error")
	}
	if atomic.LoadInt32(&survivorRan) != 1 {
		t.Error("Sibling task should run despite the failure")
	}

	var agg *AggregatedError
	if !errors.As(err, &agg) {
		t.Fatalf("Expected AggregatedError, got %T", err)
	}
	if len(agg.Errors) != 1 || agg.Errors[0].TaskName != "failing" {
		t.Errorf("Unexpected aggregate: %+v", agg.Errors)
	}
	if !strings.Contains(err.Error(), "task blew up") {
		t.Errorf("Aggregate should carry the cause, got %q", err.Error())
	}
}

func TestExecuteRespectsConcurrencyBound(t *testing.T) {
	executor := NewParallelExecutorFromConfig(&config.PerformanceConfig{MaxGoroutines: 2})

	var mu sync.Mutex
	current, peak := 0, 0
	enter := func() {
		mu.Lock()
		current++
		if current > peak {
			peak = current
		}
		mu.Unlock()
	}
	leave := func() {
		mu.Lock()
		current--
		mu.Unlock()
	}

	var tasks []domain.ExecutableTask
	for i := 0; i < 12; i++ {
		tasks = append(tasks, &mockTask{name: "n", enabled: true, execFunc: func(ctx context.Context) (interface{}, error) {
			enter()
			defer leave()
			for j := 0; j < 1000; j++ {
				_ = j
			}
			return nil, nil
		}})
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if peak > 2 {
		t.Errorf("Concurrency bound exceeded: peak %d", peak)
	}
}

func TestForEachPreservesOrderThroughIndexedWrites(t *testing.T) {
	executor := NewParallelExecutorFromConfig(&config.PerformanceConfig{MaxGoroutines: 4})

	n := 50
	results := make([]int, n)
	err := executor.ForEach(context.Background(), n, func(ctx context.Context, i int) error {
		results[i] = i * i
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, v := range results {
		if v != i*i {
			t.Fatalf("Index %d holds %d, expected %d", i, v, i*i)
		}
	}
}

func TestForEachIsolatesItemFailures(t *testing.T) {
	executor := NewParallelExecutor()

	var completed int32
	err := executor.ForEach(context.Background(), 10, func(ctx context.Context, i int) error {
		if i == 3 {
			return errors.New("bad item")
		}
		atomic.AddInt32(&completed, 1)
		return nil
	})

	if err == nil {
		t.Fatal("Expected aggregated error")
	}
	if atomic.LoadInt32(&completed) != 9 {
		t.Errorf("Expected 9 items to complete, got %d", completed)
	}
}

func TestForEachZeroItems(t *testing.T) {
	executor := NewParallelExecutor()
	if err := executor.ForEach(context.Background(), 0, func(ctx context.Context, i int) error {
		t.Error("fn must not be called for zero items")
		return nil
	}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}
