package orchestration

import (
	"context"
	"errors"
	"fmt"
)

// Task is a named container operation.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunAll runs the tasks one after another in order. A failing task does not stop
// the ones after it; failures are wrapped with the task name and joined.
func RunAll(ctx context.Context, tasks []Task) error {
	var errs []error
	for _, task := range tasks {
		if err := task.Func(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", task.Name, err))
		}
	}
	return errors.Join(errs...)
}
