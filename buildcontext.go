package scheduler

// BuildContext is the narrow set of bookkeeping hooks the driver needs
// from the host build system. It is deliberately minimal: the driver
// treats it as an external collaborator and performs no I/O of its own.
type BuildContext interface {
	// Total returns the current best estimate of the total task count,
	// used only for progress reporting (Driver.Total mirrors it back).
	Total() int

	// Log returns the sink tasks should write progress lines to from
	// LogDisplay. The driver never writes to it directly.
	Log() LogSink

	// ForgetSignature evicts any cached up-to-date signature for the
	// task identified by uid, so a subsequent run re-scans it. Called
	// by the driver's error handler for a failed task's own uid only
	// (the conservative policy from spec.md's open question — eviction
	// does not cascade to dependents).
	ForgetSignature(uid any)
}

// LogSink is the minimal logging surface a BuildContext exposes. The
// scheduler core itself never calls it; only Task.LogDisplay
// implementations and the host program do.
type LogSink interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// UIDTask is the optional extension of Task for implementations that
// support signature-cache eviction on failure (spec §6, "imp_sigs").
type UIDTask interface {
	Task
	UID() any
}

// NopLogSink discards everything written to it. Useful as a default in
// tests that don't care about log output.
type NopLogSink struct{}

func (NopLogSink) Infof(string, ...any)  {}
func (NopLogSink) Errorf(string, ...any) {}

// simpleBuildContext is a minimal BuildContext suitable for tests and
// small hosts that don't need signature caching.
type simpleBuildContext struct {
	total int
	log   LogSink
}

// NewBuildContext returns a BuildContext reporting total as its task
// count estimate and logging to sink (NopLogSink if nil). ForgetSignature
// is a no-op: callers that need real signature caching should implement
// BuildContext themselves.
func NewBuildContext(total int, sink LogSink) BuildContext {
	if sink == nil {
		sink = NopLogSink{}
	}
	return &simpleBuildContext{total: total, log: sink}
}

func (c *simpleBuildContext) Total() int               { return c.total }
func (c *simpleBuildContext) Log() LogSink              { return c.log }
func (c *simpleBuildContext) ForgetSignature(uid any)   {}
