package scheduler

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// dispatcher is the single long-lived coordinator that moves ready tasks
// to workers, enforcing numjobs as a bound on concurrent execution
// (§4.4). It owns a weighted semaphore rather than the teacher's raw
// counting channel, since golang.org/x/sync/semaphore already gives a
// cancelable Acquire for free.
type dispatcher struct {
	ready   <-chan Task
	out     chan<- Task
	sem     *semaphore.Weighted
	bctx    BuildContext
	stopped func() bool
}

func newDispatcher(ready <-chan Task, out chan<- Task, numjobs int) *dispatcher {
	return &dispatcher{
		ready: ready,
		out:   out,
		sem:   semaphore.NewWeighted(int64(numjobs)),
	}
}

// withHost wires the BuildContext and stop predicate the driver owns;
// kept separate from newDispatcher so New can build the dispatcher
// before the Driver it belongs to exists.
func (disp *dispatcher) withHost(bctx BuildContext, stopped func() bool) *dispatcher {
	disp.bctx = bctx
	disp.stopped = stopped
	return disp
}

// run spawns one worker per ready task, blocking when numjobs workers are
// already active. It exits when it receives the nil sentinel task sent
// by Driver.Start after the producer is exhausted, or when ctx is
// canceled.
func (disp *dispatcher) run(ctx context.Context) {
	for {
		var t Task
		select {
		case <-ctx.Done():
			return
		case t = <-disp.ready:
		}
		if t == nil {
			return
		}

		if err := disp.sem.Acquire(ctx, 1); err != nil {
			// context canceled out from under us; the task never ran,
			// report it back so Driver.count stays consistent.
			disp.out <- t
			return
		}

		stop := disp.stopped != nil && disp.stopped()
		if !stop {
			t.LogDisplay(disp.bctx)
		}

		go newWorker(disp.sem, disp.out, stop).execute(ctx, t)
	}
}
