package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidwork/scheduler/metrics"
)

func TestNewInstruments_WiresEveryField(t *testing.T) {
	inst := newInstruments(metrics.NoopProvider{})

	require.NotPanics(t, func() {
		inst.inflight.Add(1)
		inst.outstanding.Record(1)
		inst.frozen.Record(1)
		inst.incomplete.Record(1)
		inst.completed.Add(1)
		inst.failed.Add(1)
	})
}

func TestNewInstruments_RecordsOnBasicProvider(t *testing.T) {
	p := metrics.NewBasicProvider()
	inst := newInstruments(p)

	inst.completed.Add(3)
	inst.failed.Add(1)

	require.Equal(t, int64(3), p.Counter("scheduler_tasks_completed_total").(*metrics.BasicCounter).Snapshot())
	require.Equal(t, int64(1), p.Counter("scheduler_tasks_failed_total").(*metrics.BasicCounter).Snapshot())
}
