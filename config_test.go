package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidwork/scheduler/metrics"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, 1, cfg.NumJobs)
	require.Equal(t, 0, cfg.KeepGoing)
	require.False(t, cfg.Verbose)
	require.IsType(t, metrics.NoopProvider{}, cfg.MetricsProvider)
}

func TestValidateConfig_Defaults(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, validateConfig(&cfg))
}

func TestValidateConfig_Rejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero jobs", Config{NumJobs: 0}},
		{"negative jobs", Config{NumJobs: -1}},
		{"negative keep-going", Config{NumJobs: 1, KeepGoing: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, validateConfig(&tc.cfg), ErrInvalidConfig)
		})
	}
}

func TestOptions_ApplyOverDefaults(t *testing.T) {
	cfg := defaultConfig()
	provider := metrics.NoopProvider{}

	for _, opt := range []Option{
		WithNumJobs(4),
		WithKeepGoing(2),
		WithVerbose(),
		WithMetricsProvider(provider),
	} {
		opt(&cfg)
	}

	require.Equal(t, 4, cfg.NumJobs)
	require.Equal(t, 2, cfg.KeepGoing)
	require.True(t, cfg.Verbose)
	require.Equal(t, provider, cfg.MetricsProvider)
}

func TestWithMetricsProvider_NilFallsBackToNoop(t *testing.T) {
	cfg := defaultConfig()
	WithMetricsProvider(nil)(&cfg)
	require.IsType(t, metrics.NoopProvider{}, cfg.MetricsProvider)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(NewSliceProducer(nil), newRecordingBuildContext(0), WithNumJobs(0))
	require.ErrorIs(t, err, ErrInvalidConfig)
}
