package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriverLifecycle_RunsOnceInOrder(t *testing.T) {
	var calls []string
	lc := newDriverLifecycle(
		func() { calls = append(calls, "drain") },
		func() { calls = append(calls, "sentinel") },
	)

	lc.Close()
	lc.Close()

	require.Equal(t, []string{"drain", "sentinel"}, calls)
}

func TestDriverLifecycle_NilStepsAreOptional(t *testing.T) {
	lc := newDriverLifecycle(nil, nil)
	require.NotPanics(t, lc.Close)
}
