// Package scheduler drives a dependency-aware build: it pulls successive
// groups of tasks from a Producer, tracks which tasks are ready, frozen
// (waiting on a predecessor) or incomplete (asked to be retried later),
// and dispatches ready tasks to a bounded pool of workers.
//
// Driver
// The Driver is the single coordinator. Construct one with New, feed it a
// Producer and a BuildContext, and call Start. Start blocks until every
// task the Producer yields has reached a terminal state, or until a
// dependency cycle or deadlock is detected, or until a failure stops the
// build (Config.KeepGoing says which failures do).
//
// Task contract
// Tasks are supplied by the host program and are opaque to the driver: it
// only calls RunAfter, RunnableStatus, Process, Priority, LogDisplay and
// MoreTasks on them, and reads/writes the fields of their embedded State.
// See Task for the full contract.
//
// Defaults
// Unless overridden via Option, a new Driver uses:
//   - NumJobs: 1 (serial execution)
//   - KeepGoing: 0 (stop on first failure)
//   - Verbose: false
//   - MetricsProvider: metrics.NoopProvider{}
//
// Concurrency
// Only the Driver mutates its own scheduling state (outstanding, frozen,
// incomplete, revdeps, count, stop, errors). The dispatcher owns a
// semaphore bounding concurrent workers; workers execute exactly one task
// each and report back over an internal channel. No mutex guards driver
// state because only the driver goroutine touches it; the one exception
// is stop, which the dispatcher also reads, and which is an atomic.Bool.
package scheduler
