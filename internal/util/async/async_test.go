package async

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunParallel_Success(t *testing.T) {
	t.Parallel()
	var count atomic.Int32

	tasks := make([]Task, 0, 3)
	for _, name := range []string{"bastion-a", "bastion-b", "bastion-c"} {
		tasks = append(tasks, Task{Name: name, Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}})
	}

	if err := RunParallel(context.Background(), tasks); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if count.Load() != 3 {
		t.Errorf("expected 3 tasks to run, got %d", count.Load())
	}
}

func TestRunParallel_EmptyTasks(t *testing.T) {
	t.Parallel()
	if err := RunParallel(context.Background(), nil); err != nil {
		t.Errorf("expected no error for empty tasks, got: %v", err)
	}
}

func TestRunParallel_ErrorWaitsForAll(t *testing.T) {
	t.Parallel()
	expectedErr := errors.New("task failed")
	var finished atomic.Bool

	tasks := []Task{
		{Name: "slow", Func: func(_ context.Context) error {
			time.Sleep(50 * time.Millisecond)
			finished.Store(true)
			return nil
		}},
		{Name: "failing", Func: func(_ context.Context) error {
			return expectedErr
		}},
	}

	err := RunParallel(context.Background(), tasks)
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected wrapped task error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "failing") {
		t.Errorf("expected error to name the task, got: %v", err)
	}
	if !finished.Load() {
		t.Error("RunParallel returned before all tasks finished")
	}
}
