package scheduler

import "github.com/corvidwork/scheduler/metrics"

// instruments bundles the handful of gauges and counters the scheduling
// loop touches on every iteration, so Driver doesn't reach into a
// metrics.Provider by name on every hot-path call.
type instruments struct {
	inflight    metrics.UpDownCounter
	outstanding metrics.Histogram
	frozen      metrics.Histogram
	incomplete  metrics.Histogram
	completed   metrics.Counter
	failed      metrics.Counter
}

func newInstruments(p metrics.Provider) instruments {
	return instruments{
		inflight: p.UpDownCounter("scheduler_inflight_tasks",
			metrics.WithDescription("tasks currently dispatched to a worker")),
		outstanding: p.Histogram("scheduler_outstanding_queue_depth",
			metrics.WithDescription("length of the ready-to-run queue when last refilled")),
		frozen: p.Histogram("scheduler_frozen_queue_depth",
			metrics.WithDescription("number of tasks waiting on unmet dependencies")),
		incomplete: p.Histogram("scheduler_incomplete_queue_depth",
			metrics.WithDescription("number of tasks postponed by AskLater")),
		completed: p.Counter("scheduler_tasks_completed_total",
			metrics.WithDescription("executed tasks reconciled after reporting back")),
		failed: p.Counter("scheduler_tasks_failed_total",
			metrics.WithDescription("tasks recorded by the error handler")),
	}
}
