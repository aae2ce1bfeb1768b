package scheduler

// getOut blocks for one worker completion and reconciles it (§4.5). A
// task that set its own Hasrun to Failure during Process, or whose
// Process panicked (ExceptionRun, recovered by runInline/worker.execute),
// is handled here, on the first get_out to observe it — the analogue of
// RunnableStatus raising is handled inline by taskStatus instead, since
// that failure is visible before the task ever reaches a worker.
func (d *Driver) getOut() Task {
	t := <-d.out
	if !d.stop.Load() {
		d.addMoreTasks(t)
	}
	switch t.state().Hasrun {
	case Failure, ExceptionRun:
		d.errorHandler(t)
	}
	d.markFinished(t)

	d.count--
	d.dirty = true
	d.inst.inflight.Add(-1)
	d.inst.completed.Add(1)
	return t
}

// addMoreTasks absorbs tasks a just-completed task dynamically injected
// (dynamic graph extension, §4.5 step 1). The completed task is assumed
// done already, so its own priority does not need recomputing.
func (d *Driver) addMoreTasks(t Task) {
	more := t.MoreTasks()
	if len(more) == 0 {
		return
	}
	ready, waiting, err := d.prioAndSplit(more)
	if err != nil {
		// A cycle among dynamically-injected tasks is still a build
		// error; surface it the same way a static one would be, by
		// recording it against the originating task.
		t.state().ErrMsg = err.Error()
		d.errorHandler(t)
		return
	}
	for _, k := range ready {
		d.insertWithPrio(k)
	}
	for _, k := range waiting {
		d.frozen[k] = struct{}{}
	}
	d.total += len(more)
}

// markFinished propagates a completion to every dependent, unfreezing
// the ones whose predecessors are now all terminal (§4.5 step 2).
func (d *Driver) markFinished(t Task) {
	dependents, ok := d.revdeps[t]
	if !ok {
		return
	}
	for x := range dependents {
		if tg, ok := x.(*TaskGroup); ok {
			tg.Prev = removeTask(tg.Prev, t)
			if len(tg.Prev) == 0 {
				// Tasks in tg.Next still list tg in their own
				// RunAfter(), but nodeDone treats a barrier with no
				// remaining Prev as satisfied, so there's no need to
				// mutate their RunAfter sets just to free a reference.
				for _, k := range tg.Next {
					d.tryUnfreeze(k)
				}
				tg.Next = nil
			}
		} else {
			d.tryUnfreeze(x.(Task))
		}
	}
	delete(d.revdeps, t)
}

// tryUnfreeze moves x out of frozen and into outstanding once every node
// in its RunAfter is done. DAG ancestors are likely frozen, so this is a
// cheap membership check before doing the (usually trivial) full scan.
func (d *Driver) tryUnfreeze(x Task) {
	if _, ok := d.frozen[x]; !ok {
		return
	}
	for _, k := range x.RunAfter() {
		if !nodeDone(k) {
			return
		}
	}
	delete(d.frozen, x)
	d.insertWithPrio(x)
}

func removeTask(s []Task, t Task) []Task {
	for i, x := range s {
		if x == t {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// skip marks a task up-to-date with no execution needed.
func (d *Driver) skip(t Task) {
	t.state().Hasrun = Skipped
	d.markFinished(t)
}

// cancel marks a task as unsatisfiable, typically because a dependency
// failed.
func (d *Driver) cancel(t Task) {
	t.state().Hasrun = Canceled
	d.markFinished(t)
}
