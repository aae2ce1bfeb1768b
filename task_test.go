package scheduler

import (
	"fmt"
	"sync"
)

// fakeTask is the shared test double for every Task contract exercised
// in this package's tests. Its behavior is entirely driven by the
// function fields so each test can shape a graph without a new type.
type fakeTask struct {
	*State

	name  string
	after []Node
	prio  int

	mu         sync.Mutex
	statusFn   func() (Status, error)
	processFn  func()
	moreFn     func() []Task
	logDisplay []string
}

func newFakeTask(name string, after ...Node) *fakeTask {
	return &fakeTask{State: NewState(), name: name, after: after}
}

func (t *fakeTask) withPriority(p int) *fakeTask {
	t.prio = p
	return t
}

func (t *fakeTask) withStatus(fn func() (Status, error)) *fakeTask {
	t.statusFn = fn
	return t
}

func (t *fakeTask) withProcess(fn func()) *fakeTask {
	t.processFn = fn
	return t
}

func (t *fakeTask) withMoreTasks(fn func() []Task) *fakeTask {
	t.moreFn = fn
	return t
}

func (t *fakeTask) RunAfter() []Node { return t.after }

func (t *fakeTask) RunnableStatus() (Status, error) {
	if t.statusFn == nil {
		return RunMe, nil
	}
	return t.statusFn()
}

func (t *fakeTask) Process() {
	if t.processFn != nil {
		t.processFn()
		return
	}
	t.Hasrun = Success
}

func (t *fakeTask) Priority() int { return t.prio }

func (t *fakeTask) LogDisplay(ctx BuildContext) {
	t.mu.Lock()
	t.logDisplay = append(t.logDisplay, t.name)
	t.mu.Unlock()
	ctx.Log().Infof("running %s", t.name)
}

func (t *fakeTask) MoreTasks() []Task {
	if t.moreFn == nil {
		return nil
	}
	return t.moreFn()
}

func (t *fakeTask) String() string { return fmt.Sprintf("fakeTask(%s)", t.name) }

// fakeUIDTask adds UID() to fakeTask for tests of signature eviction.
type fakeUIDTask struct {
	*fakeTask
	uid any
}

func newFakeUIDTask(name string, uid any, after ...Node) *fakeUIDTask {
	return &fakeUIDTask{fakeTask: newFakeTask(name, after...), uid: uid}
}

func (t *fakeUIDTask) UID() any { return t.uid }

// recordingBuildContext is a BuildContext that remembers which uids were
// evicted via ForgetSignature, for assertions.
type recordingBuildContext struct {
	total  int
	sink   LogSink
	mu     sync.Mutex
	forgot []any
}

func newRecordingBuildContext(total int) *recordingBuildContext {
	return &recordingBuildContext{total: total, sink: NopLogSink{}}
}

func (c *recordingBuildContext) Total() int  { return c.total }
func (c *recordingBuildContext) Log() LogSink { return c.sink }

func (c *recordingBuildContext) ForgetSignature(uid any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forgot = append(c.forgot, uid)
}

func (c *recordingBuildContext) Forgotten() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.forgot...)
}
