package async

import (
	"context"
	"fmt"
)

// Task is a named unit of work.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel executes all tasks concurrently and waits for every one to finish.
// The error of the first task to fail is returned, prefixed with its name.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(tasks))
	for _, task := range tasks {
		go func() {
			results <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstErr error
	for range len(tasks) {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", res.name, res.err)
		}
	}
	return firstErr
}
