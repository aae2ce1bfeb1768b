package scheduler

import "sync"

// driverLifecycle encapsulates Driver's shutdown sequence. It is a wiring
// helper: it doesn't own the channels or slices involved, it orchestrates
// draining and sentinel delivery in a fixed order. Narrowed down from a
// longer multi-stage coordinator to the two steps this scheduler actually
// needs once Start's main loop exits.
//
// Close is safe for concurrent calls; the sequence executes exactly once.
type driverLifecycle struct {
	drain        func()
	sendSentinel func()

	once sync.Once
}

func newDriverLifecycle(drain, sendSentinel func()) *driverLifecycle {
	return &driverLifecycle{drain: drain, sendSentinel: sendSentinel}
}

// Close executes the shutdown sequence exactly once:
//  1. drain any results still owed by in-flight workers, so a failure
//     report is complete even though the main loop already stopped
//     pulling new tasks.
//  2. send the termination sentinel that releases the dispatcher
//     goroutine.
func (lc *driverLifecycle) Close() {
	lc.once.Do(func() {
		if lc.drain != nil {
			lc.drain()
		}
		if lc.sendSentinel != nil {
			lc.sendSentinel()
		}
	})
}
