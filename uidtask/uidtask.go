// Package uidtask is a reference scheduler.Task implementation carrying
// a stable identity, so hosts that need scheduler.UIDTask (signature
// cache eviction on failure) don't have to wire google/uuid themselves.
package uidtask

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/corvidwork/scheduler"
)

// Task is a scheduler.Task wrapping a caller-supplied run function. Its
// identity is a random UUID minted once at construction, stable for the
// task's lifetime regardless of how many times RunnableStatus is
// re-evaluated.
type Task struct {
	*scheduler.State

	id       uuid.UUID
	label    string
	prio     int
	after    []scheduler.Node
	statusFn func() (scheduler.Status, error)
	runFn    func() error
	more     []scheduler.Task
}

// New returns a Task identified by a fresh UUID. statusFn is consulted
// by RunnableStatus; runFn is invoked by Process. A nil statusFn always
// reports scheduler.RunMe.
func New(label string, after []scheduler.Node, prio int, statusFn func() (scheduler.Status, error), runFn func() error) *Task {
	return &Task{
		State:    scheduler.NewState(),
		id:       uuid.New(),
		label:    label,
		prio:     prio,
		after:    after,
		statusFn: statusFn,
		runFn:    runFn,
	}
}

// UID satisfies scheduler.UIDTask.
func (t *Task) UID() any { return t.id }

func (t *Task) RunAfter() []scheduler.Node { return t.after }

func (t *Task) RunnableStatus() (scheduler.Status, error) {
	if t.statusFn == nil {
		return scheduler.RunMe, nil
	}
	return t.statusFn()
}

func (t *Task) Process() {
	if t.runFn == nil {
		t.Hasrun = scheduler.Success
		return
	}
	if err := t.runFn(); err != nil {
		t.Hasrun = scheduler.Failure
		t.ErrMsg = err.Error()
		return
	}
	t.Hasrun = scheduler.Success
}

func (t *Task) Priority() int { return t.prio }

func (t *Task) LogDisplay(ctx scheduler.BuildContext) {
	ctx.Log().Infof("[%s] %s", t.id.String()[:8], t.label)
}

func (t *Task) MoreTasks() []scheduler.Task { return t.more }

// Extend appends dynamically discovered tasks, collected by the driver
// the next time MoreTasks is checked (immediately after Process
// returns). Not safe to call concurrently with Process.
func (t *Task) Extend(more ...scheduler.Task) { t.more = append(t.more, more...) }

func (t *Task) String() string {
	return fmt.Sprintf("uidtask.Task{id: %s, label: %q}", t.id, t.label)
}
