package scan

import "context"

// Task is a capture running in the background. It completes exactly once.
type Task struct {
	done    chan struct{}
	outcome Outcome
}

// Go runs fn on its own goroutine and returns a Task for its Outcome.
func Go(ctx context.Context, fn func(ctx context.Context) Outcome) *Task {
	task := &Task{done: make(chan struct{})}
	go func() {
		defer close(task.done)
		task.outcome = fn(ctx)
	}()
	return task
}

// Done is closed once the outcome is available.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the outcome is ready or ctx ends. ok is false when ctx
// ended first; the capture itself keeps running.
func (t *Task) Wait(ctx context.Context) (outcome Outcome, ok bool) {
	select {
	case <-t.done:
		return t.outcome, true
	case <-ctx.Done():
		return outcome, false
	}
}
