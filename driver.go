package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
)

// Driver is the Parallel driver of §4.1: it fetches groups of tasks from
// a Producer, classifies them, and drives the scheduling state machine
// until every task reaches a terminal state or the build stops.
//
// Only the goroutine that calls Start ever mutates Driver's scheduling
// fields; the dispatcher and workers communicate back exclusively via
// the out channel. No mutex is required. stop is the one exception: the
// dispatcher goroutine reads it concurrently through the stopped
// callback wired in New, so it is an atomic.Bool rather than a plain
// bool.
type Driver struct {
	producer Producer
	bctx     BuildContext
	cfg      Config
	inst     instruments

	outstanding []Task
	frozen      map[Task]struct{}
	incomplete  []Task

	ready chan Task
	out   chan Task

	revdeps map[Node]map[Node]struct{}

	count     int
	processed int
	deadlock  int
	total     int
	stop      atomic.Bool
	errs      []Task
	dirty     bool

	disp *dispatcher
	life *driverLifecycle
}

// New constructs a Driver with default Config.
func New(producer Producer, bctx BuildContext, opts ...Option) (*Driver, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	capHint := cfg.NumJobs*GAP + cfg.NumJobs + 1
	d := &Driver{
		producer: producer,
		bctx:     bctx,
		cfg:      cfg,
		inst:     newInstruments(cfg.MetricsProvider),
		frozen:   make(map[Task]struct{}),
		ready:    make(chan Task, capHint),
		out:      make(chan Task, capHint),
		revdeps:  make(map[Node]map[Node]struct{}),
		// -1 never equals processed, so the first promotion of
		// incomplete always gets one retry before a deadlock is raised.
		deadlock: -1,
	}
	d.disp = newDispatcher(d.ready, d.out, cfg.NumJobs).withHost(bctx, func() bool { return d.stop.Load() })
	d.life = newDriverLifecycle(
		func() {
			for len(d.errs) > 0 && d.count > 0 {
				d.getOut()
			}
		},
		func() { d.ready <- nil },
	)
	return d, nil
}

// Errors returns the tasks that could not be executed, in completion
// order.
func (d *Driver) Errors() []Task { return d.errs }

// Stopped reports whether the build was halted by a failure.
func (d *Driver) Stopped() bool { return d.stop.Load() }

// Total returns the best-known total task count.
func (d *Driver) Total() int { return d.total }

// Dirty reports whether at least one task has completed since the last
// check was relevant to the caller (the driver itself never clears it;
// hosts that persist state after each dirtying event should track their
// own "last seen" watermark).
func (d *Driver) Dirty() bool { return d.dirty }

// Start runs the scheduling loop until every task from the Producer has
// reached a terminal state, or returns a CycleError or DeadlockError.
func (d *Driver) Start(ctx context.Context) error {
	d.total = d.bctx.Total()

	if d.cfg.NumJobs > 1 {
		go d.disp.run(ctx)
	}

	for !d.stop.Load() {
		if err := d.refillTaskList(); err != nil {
			return err
		}

		tsk := d.getNextTask()
		if tsk == nil {
			if d.count > 0 {
				continue
			}
			break
		}

		if tsk.state().Hasrun.Terminal() {
			// promoted twice because of a dynamic extension
			d.processed++
			continue
		}

		if d.stop.Load() {
			break
		}

		st, err := d.taskStatus(tsk)
		if err != nil {
			continue // taskStatus already recorded the exception
		}

		switch st {
		case RunMe:
			d.count++
			d.processed++
			d.inst.inflight.Add(1)

			if d.cfg.NumJobs == 1 {
				tsk.LogDisplay(d.bctx)
				d.runInline(tsk)
			} else {
				d.ready <- tsk
			}

		case AskLater:
			d.postpone(tsk)

		case SkipMe:
			d.processed++
			d.skip(tsk)
			d.addMoreTasks(tsk)

		case CancelMe:
			if d.cfg.Verbose {
				d.errs = append(d.errs, tsk)
			}
			d.processed++
			d.cancel(tsk)
		}
	}

	d.life.Close()
	return nil
}

// runInline executes t.Process on the driver's own goroutine (§4.1 step
// 5, the numjobs==1 path), mirroring worker.execute's guaranteed-release
// wrapper: even if Process panics, t is still reported back to out so
// count stays reconciled and the failure lands in Errors() instead of
// unwinding Start.
func (d *Driver) runInline(t Task) {
	defer func() {
		if r := recover(); r != nil {
			t.state().Hasrun = ExceptionRun
			t.state().ErrMsg = fmt.Sprintf("task execution panicked: %v", r)
		}
		d.out <- t
	}()
	t.Process()
}

func (d *Driver) getNextTask() Task {
	if len(d.outstanding) == 0 {
		return nil
	}
	t := d.outstanding[0]
	d.outstanding = d.outstanding[1:]
	return t
}

// postpone moves t to incomplete. The head-or-tail coin flip mirrors the
// original's random.randint(0, 1): retrying the same stuck task first on
// every cycle would starve everything behind it.
func (d *Driver) postpone(t Task) {
	if rand.Intn(2) == 0 {
		d.incomplete = append([]Task{t}, d.incomplete...)
	} else {
		d.incomplete = append(d.incomplete, t)
	}
}

// insertWithPrio is the O(1) approximation of a priority queue: front-or-
// back insertion only. A true heap over a deque isn't worth the
// complexity given how quickly priorities go stale as the graph shrinks.
func (d *Driver) insertWithPrio(t Task) {
	if len(d.outstanding) > 0 && t.state().Prio >= d.outstanding[0].state().Prio {
		d.outstanding = append([]Task{t}, d.outstanding...)
	} else {
		d.outstanding = append(d.outstanding, t)
	}
}

// refillTaskList repopulates outstanding, applying backpressure and
// detecting deadlock (§4.3).
func (d *Driver) refillTaskList() error {
	for d.count > d.cfg.NumJobs*GAP {
		d.getOut()
	}

	for len(d.outstanding) == 0 {
		if d.count > 0 {
			d.getOut()
			d.recordQueueDepths()
			continue
		}

		if len(d.incomplete) > 0 {
			if d.deadlock == d.processed {
				badStatus := false
				for _, t := range d.incomplete {
					if len(t.RunAfter()) == 0 {
						badStatus = true
						break
					}
				}
				return newDeadlockError(append([]Task(nil), d.incomplete...), badStatus)
			}

			d.deadlock = d.processed
			d.outstanding = append(d.outstanding, d.incomplete...)
			d.incomplete = nil
			d.recordQueueDepths()
			continue
		}

		group, ok := d.producer.Next()
		if !ok {
			d.recordQueueDepths()
			return nil
		}

		ready, waiting, err := d.prioAndSplit(group)
		if err != nil {
			return err
		}
		d.outstanding = append(d.outstanding, ready...)
		for _, t := range waiting {
			d.frozen[t] = struct{}{}
		}
		d.total = d.bctx.Total()
		d.recordQueueDepths()
		return nil
	}
	return nil
}

func (d *Driver) recordQueueDepths() {
	d.inst.outstanding.Record(float64(len(d.outstanding)))
	d.inst.frozen.Record(float64(len(d.frozen)))
	d.inst.incomplete.Record(float64(len(d.incomplete)))
}

// taskStatus obtains the task's runnable status, converting a runtime
// error (or panic inside RunnableStatus) into the EXCEPTION path (§7.2).
func (d *Driver) taskStatus(t Task) (st Status, handled error) {
	defer func() {
		if r := recover(); r != nil {
			d.processed++
			d.onException(t, panicMessage(r))
			st, handled = Exception, errExceptionHandled
		}
	}()

	got, err := t.RunnableStatus()
	if err != nil {
		d.processed++
		d.onException(t, err.Error())
		return Exception, errExceptionHandled
	}
	return got, nil
}

var errExceptionHandled = newSentinel("runnable_status exception handled")

func (d *Driver) onException(t Task, msg string) {
	t.state().ErrMsg = msg

	if !d.stop.Load() && d.cfg.KeepGoing > 0 {
		d.skip(t)
		if d.cfg.KeepGoing == 1 {
			if d.cfg.Verbose || len(d.errs) == 0 {
				d.errs = append(d.errs, t)
			}
			d.stop.Store(true)
		} else if d.cfg.Verbose {
			d.errs = append(d.errs, t)
		}
		return
	}

	t.state().Hasrun = ExceptionRun
	d.errorHandler(t)
}

// errorHandler applies the keep-going policy (§7) when a task cannot be
// executed: evict its cached signature, possibly latch stop, and record
// it.
func (d *Driver) errorHandler(t Task) {
	if ut, ok := t.(UIDTask); ok {
		d.bctx.ForgetSignature(ut.UID())
	}
	if d.cfg.KeepGoing == 0 {
		d.stop.Store(true)
	}
	d.errs = append(d.errs, t)
	d.inst.failed.Add(1)
}

func panicMessage(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("panic: %v", r)
}
