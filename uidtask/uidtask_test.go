package uidtask

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidwork/scheduler"
)

type fakeSink struct{ lines []string }

func (s *fakeSink) Infof(format string, args ...any)  { s.lines = append(s.lines, format) }
func (s *fakeSink) Errorf(format string, args ...any) {}

type fakeCtx struct{ sink *fakeSink }

func (c *fakeCtx) Total() int             { return 0 }
func (c *fakeCtx) Log() scheduler.LogSink { return c.sink }
func (c *fakeCtx) ForgetSignature(any)    {}

func TestTask_UIDIsStableAndUnique(t *testing.T) {
	a := New("a", nil, 0, nil, nil)
	b := New("b", nil, 0, nil, nil)

	require.NotEqual(t, a.UID(), b.UID())
	require.Equal(t, a.UID(), a.UID())
}

func TestTask_DefaultsToRunMeAndSuccess(t *testing.T) {
	task := New("noop", nil, 0, nil, nil)

	st, err := task.RunnableStatus()
	require.NoError(t, err)
	require.Equal(t, scheduler.RunMe, st)

	task.Process()
	require.Equal(t, scheduler.Success, task.Hasrun)
}

func TestTask_ProcessRecordsFailure(t *testing.T) {
	task := New("boom", nil, 0, nil, func() error { return errors.New("kaboom") })

	task.Process()
	require.Equal(t, scheduler.Failure, task.Hasrun)
	require.Equal(t, "kaboom", task.ErrMsg)
}

func TestTask_ExtendAccumulatesMoreTasks(t *testing.T) {
	task := New("root", nil, 0, nil, nil)
	require.Empty(t, task.MoreTasks())

	discovered := New("child", nil, 0, nil, nil)
	task.Extend(discovered)
	require.Equal(t, []scheduler.Task{discovered}, task.MoreTasks())
}

func TestTask_LogDisplayWritesThroughSink(t *testing.T) {
	sink := &fakeSink{}
	task := New("logme", nil, 0, nil, nil)
	task.LogDisplay(&fakeCtx{sink: sink})

	require.Len(t, sink.lines, 1)
}
