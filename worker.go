package scheduler

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// worker executes exactly one task, then disappears. It shares its
// semaphore with the dispatcher that spawned it, mirroring the teacher's
// worker[R].execute and the original's Consumer.run.
type worker struct {
	sem  *semaphore.Weighted
	out  chan<- Task
	stop bool
}

func newWorker(sem *semaphore.Weighted, out chan<- Task, stop bool) *worker {
	return &worker{sem: sem, out: out, stop: stop}
}

// execute runs t.Process unless the build has already stopped, always
// releasing the semaphore slot and reporting back to out, even on panic.
func (w *worker) execute(_ context.Context, t Task) {
	defer func() {
		if r := recover(); r != nil {
			t.state().Hasrun = ExceptionRun
			t.state().ErrMsg = fmt.Sprintf("task execution panicked: %v", r)
		}
		w.sem.Release(1)
		w.out <- t
	}()

	if !w.stop {
		t.Process()
	}
}
