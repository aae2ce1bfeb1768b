package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkFinished_UnfreezesDirectDependent(t *testing.T) {
	d := newTestDriver(t)

	a := newFakeTask("a")
	b := newFakeTask("b", a)
	d.addRevDep(a, b)
	d.frozen[b] = struct{}{}

	a.state().Hasrun = Success
	d.markFinished(a)

	_, stillFrozen := d.frozen[b]
	require.False(t, stillFrozen)
	require.Contains(t, d.outstanding, b)
}

func TestMarkFinished_TaskGroupBarrierWaitsForAllPrev(t *testing.T) {
	d := newTestDriver(t)

	a := newFakeTask("a")
	b := newFakeTask("b")
	tg := NewTaskGroup([]Task{a, b}, nil)
	c := newFakeTask("c", tg)

	d.addRevDep(a, tg)
	d.addRevDep(b, tg)
	d.frozen[c] = struct{}{}
	tg.Next = []Task{c}

	a.state().Hasrun = Success
	d.markFinished(a)
	require.Contains(t, d.frozen, c, "c must stay frozen until every Prev of its barrier finishes")

	b.state().Hasrun = Success
	d.markFinished(b)
	require.NotContains(t, d.frozen, c)
	require.Contains(t, d.outstanding, c)
}

func TestRemoveTask(t *testing.T) {
	a := newFakeTask("a")
	b := newFakeTask("b")
	c := newFakeTask("c")

	got := removeTask([]Task{a, b, c}, b)
	require.Equal(t, []Task{a, c}, got)
}

func TestSkipAndCancel_SetHasrunAndPropagate(t *testing.T) {
	d := newTestDriver(t)

	a := newFakeTask("a")
	b := newFakeTask("b", a)
	d.addRevDep(a, b)
	d.frozen[b] = struct{}{}

	d.skip(a)
	require.Equal(t, Skipped, a.Hasrun)
	require.Contains(t, d.outstanding, b)

	c := newFakeTask("c")
	e := newFakeTask("e", c)
	d.addRevDep(c, e)
	d.frozen[e] = struct{}{}
	d.cancel(c)
	require.Equal(t, Canceled, c.Hasrun)
	require.Contains(t, d.outstanding, e)
}
