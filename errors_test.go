package scheduler

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewCycleError_CarriesCycleAndStack(t *testing.T) {
	a := newFakeTask("a")
	b := newFakeTask("b")
	err := newCycleError([]Task{a, b})

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, []Task{a, b}, cycleErr.Cycle())
	require.Contains(t, cycleErr.Error(), "dependency cycle found")

	type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
	var st stackTracer
	require.ErrorAs(t, err, &st)
}

func TestNewDeadlockError_MessageVariesWithBadStatus(t *testing.T) {
	lone := newFakeTask("lone")

	orderErr := newDeadlockError([]Task{lone}, false)
	require.Contains(t, orderErr.Error(), "check the build order")

	statusErr := newDeadlockError([]Task{lone}, true)
	require.Contains(t, statusErr.Error(), "check the methods runnable_status")

	var de *DeadlockError
	require.ErrorAs(t, statusErr, &de)
	require.True(t, de.BadRunnableStatus)
}
