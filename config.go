package scheduler

import "github.com/corvidwork/scheduler/metrics"

// GAP bounds how far the driver lets dispatched-but-unreconciled work run
// ahead of the producer: the driver blocks on completions once
// count > NumJobs*GAP, rather than letting the ready channel grow without
// bound when the producer outruns the workers.
const GAP = 20

// Config holds Driver configuration.
type Config struct {
	// NumJobs is the maximum number of tasks executing concurrently.
	// NumJobs == 1 bypasses the dispatcher/worker path entirely and runs
	// tasks inline on the driver goroutine.
	// Default: 1.
	NumJobs int

	// KeepGoing controls the stop-on-error policy:
	//   0 - stop on the first failure.
	//   1 - a RunnableStatus error stops the build and is recorded (only
	//       the first one unless Verbose); a failed Process is recorded
	//       without stopping.
	//   >=2 - keep dispatching independent tasks after a failure.
	// Default: 0.
	KeepGoing int

	// Verbose additionally records cancel-victims (tasks canceled
	// because a dependency failed) into Driver.Errors.
	// Default: false.
	Verbose bool

	// MetricsProvider receives scheduling instrumentation (queue depths,
	// in-flight count, dispatch latency). Default: metrics.NoopProvider{}.
	MetricsProvider metrics.Provider
}

// defaultConfig centralizes default values, applied by New before any
// Option.
func defaultConfig() Config {
	return Config{
		NumJobs:         1,
		KeepGoing:       0,
		Verbose:         false,
		MetricsProvider: metrics.NoopProvider{},
	}
}

// validateConfig performs lightweight invariant checks.
func validateConfig(cfg *Config) error {
	if cfg.NumJobs < 1 {
		return ErrInvalidConfig
	}
	if cfg.KeepGoing < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Option configures a Driver. Use New(producer, bctx, opts...).
type Option func(*Config)

// WithNumJobs sets the maximum number of concurrently executing tasks.
func WithNumJobs(n int) Option { return func(c *Config) { c.NumJobs = n } }

// WithKeepGoing sets the stop-on-error policy (0, 1, or >=2).
func WithKeepGoing(n int) Option { return func(c *Config) { c.KeepGoing = n } }

// WithVerbose enables recording cancel-victims into Driver.Errors.
func WithVerbose() Option { return func(c *Config) { c.Verbose = true } }

// WithMetricsProvider sets the metrics.Provider instruments are created
// from. Passing nil is equivalent to metrics.NoopProvider{}.
func WithMetricsProvider(p metrics.Provider) Option {
	return func(c *Config) {
		if p == nil {
			p = metrics.NoopProvider{}
		}
		c.MetricsProvider = p
	}
}
