package scheduler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const namespace = "scheduler"

var (
	// ErrInvalidConfig is returned by New when the assembled Config fails
	// validation.
	ErrInvalidConfig = errors.New(namespace + ": invalid configuration")
)

// CycleError reports a dependency cycle found while computing priorities
// (§4.2). It carries a stack, mirroring Utils.ex_stack() being stashed
// into err_msg by the original implementation's debug_cycles.
type CycleError struct {
	cycle []Task
	err   error
}

func newCycleError(cycle []Task) error {
	var b strings.Builder
	b.WriteString("dependency cycle found in run_after constraints: ")
	for i, t := range cycle {
		if i > 0 {
			b.WriteString(" -> ")
		}
		fmt.Fprintf(&b, "%p", t)
	}
	return &CycleError{cycle: cycle, err: errors.WithStack(errors.New(b.String()))}
}

func (e *CycleError) Error() string { return e.err.Error() }
func (e *CycleError) Unwrap() error { return e.err }

// Cycle returns the cycle found, starting with the last task the search
// entered and ending with the task it re-entered.
func (e *CycleError) Cycle() []Task { return e.cycle }

// DeadlockError reports that incomplete tasks stopped making progress
// across a full refill cycle (§4.3). BadRunnableStatus is true when at
// least one incomplete task has an empty RunAfter yet still claimed
// AskLater — meaning the task itself is misbehaving rather than the
// build order being wrong.
type DeadlockError struct {
	Incomplete        []Task
	BadRunnableStatus bool
	err               error
}

func newDeadlockError(incomplete []Task, badStatus bool) error {
	msg := "check the build order"
	if badStatus {
		msg = "check the methods runnable_status"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "deadlock detected: %s", msg)
	for _, t := range incomplete {
		fmt.Fprintf(&b, "\n\t%p -> %d predecessors", t, len(t.RunAfter()))
	}
	return &DeadlockError{
		Incomplete:        incomplete,
		BadRunnableStatus: badStatus,
		err:               errors.WithStack(errors.New(b.String())),
	}
}

func (e *DeadlockError) Error() string { return e.err.Error() }
func (e *DeadlockError) Unwrap() error { return e.err }

// newSentinel is a small helper for package-level sentinel errors that
// don't need a stack trace (unlike CycleError/DeadlockError, which do).
func newSentinel(msg string) error { return errors.New(namespace + ": " + msg) }
