package scheduler

import "github.com/corvidwork/scheduler/pool"

// cycleScratchPool recycles the visited-mark map debugCycles needs for
// its own DFS. prioAndSplit can be invoked once per dynamically-injected
// task group (§4.5), so a build with many MoreTasks producers hitting a
// cycle pays for this map over and over; pooling keeps that off the
// allocator.
var cycleScratchPool = pool.NewDynamic(func() interface{} {
	return make(map[Node]visitMark)
})

func getCycleScratch() map[Node]visitMark {
	m := cycleScratchPool.Get().(map[Node]visitMark)
	for k := range m {
		delete(m, k)
	}
	return m
}

func putCycleScratch(m map[Node]visitMark) {
	cycleScratchPool.Put(m)
}

// prioAndSplit labels every task in a freshly-produced group with a
// priority and partitions it into tasks ready to run now versus tasks
// still waiting on a predecessor (§4.2). It also extends d.revdeps with
// the group's reverse edges, so completions later in the build can
// unfreeze these tasks.
//
// The priority system is an optimization layer, not a correctness
// requirement: a task's priority is its own weight plus the total weight
// of everything transitively depending on it, so tasks on the critical
// path tend to dispatch first.
func (d *Driver) prioAndSplit(tasks []Task) (ready, waiting []Task, err error) {
	for _, x := range tasks {
		x.state().visited = unseen
	}

	// Step 1: reverse edges.
	for _, x := range tasks {
		for _, k := range x.RunAfter() {
			if tg, ok := k.(*TaskGroup); ok {
				if tg.done {
					continue
				}
				tg.done = true
				for _, j := range tg.Prev {
					d.addRevDep(j, tg)
				}
			} else {
				d.addRevDep(k, x)
			}
		}
	}

	// Step 2: priority + cycle detection.
	var visit func(n Node) (int, error)
	visit = func(n Node) (int, error) {
		if tg, ok := n.(*TaskGroup); ok {
			sum := 0
			for _, k := range tg.Next {
				v, err := visit(k)
				if err != nil {
					return 0, err
				}
				sum += v
			}
			return sum, nil
		}
		t := n.(Task)
		st := t.state()
		switch st.visited {
		case done:
			return st.Prio, nil
		case onStack:
			return 0, errCycleSentinel
		default:
			st.visited = onStack
			rev := d.revdeps[n]
			sum := 0
			for k := range rev {
				v, err := visit(k)
				if err != nil {
					return 0, err
				}
				sum += v
			}
			st.Prio = t.Priority() + len(rev) + sum
			st.visited = done
			return st.Prio, nil
		}
	}

	for _, x := range tasks {
		if x.state().visited != unseen {
			continue
		}
		if _, err := visit(x); err != nil {
			return nil, nil, d.debugCycles(tasks)
		}
	}

	// Step 3: split.
	for _, x := range tasks {
		isWaiting := false
		for _, k := range x.RunAfter() {
			if !nodeDone(k) {
				isWaiting = true
				break
			}
		}
		if isWaiting {
			waiting = append(waiting, x)
		} else {
			ready = append(ready, x)
		}
	}

	sortByPrioDesc(ready)
	return ready, waiting, nil
}

func (d *Driver) addRevDep(parent, dependent Node) {
	m := d.revdeps[parent]
	if m == nil {
		m = make(map[Node]struct{})
		d.revdeps[parent] = m
	}
	m[dependent] = struct{}{}
}

// nodeDone reports whether a predecessor node (task or barrier) has
// satisfied its side of a dependency: a task must have a terminal
// Hasrun, a barrier must have no remaining unterminated predecessors.
func nodeDone(n Node) bool {
	if tg, ok := n.(*TaskGroup); ok {
		return len(tg.Prev) == 0
	}
	return n.(Task).state().Hasrun.Terminal()
}

func sortByPrioDesc(tasks []Task) {
	// insertion sort: groups are small and this keeps the dependency
	// on sort.Slice (and its reflection overhead) out of the hot path.
	for i := 1; i < len(tasks); i++ {
		v := tasks[i]
		j := i - 1
		for j >= 0 && tasks[j].state().Prio < v.state().Prio {
			tasks[j+1] = tasks[j]
			j--
		}
		tasks[j+1] = v
	}
}

// errCycleSentinel signals a cycle was found during the priority DFS;
// debugCycles is then invoked to build a human-readable minimal cycle.
var errCycleSentinel = newSentinel("dependency cycle found")

// debugCycles re-walks the reverse-dependency graph with its own
// recursion to find and report a minimal cycle, separate from the
// priority DFS so the priority pass can stay simple.
func (d *Driver) debugCycles(tasks []Task) error {
	tmp := getCycleScratch()
	defer putCycleScratch(tmp)
	for _, x := range tasks {
		tmp[x] = unseen
	}

	var result error
	var visit func(n Node, acc []Task)
	visit = func(n Node, acc []Task) {
		if result != nil {
			return
		}
		if tg, ok := n.(*TaskGroup); ok {
			for _, k := range tg.Next {
				visit(k, acc)
				if result != nil {
					return
				}
			}
			return
		}
		t := n.(Task)
		switch tmp[n] {
		case unseen:
			tmp[n] = onStack
			for k := range d.revdeps[n] {
				visit(k, append([]Task{t}, acc...))
				if result != nil {
					return
				}
			}
			tmp[n] = done
		case onStack:
			var cycle []Task
			for _, candidate := range acc {
				cycle = append(cycle, candidate)
				if candidate == t {
					break
				}
			}
			result = newCycleError(cycle)
		}
	}

	for _, x := range tasks {
		visit(x, nil)
		if result != nil {
			return result
		}
	}
	// Should be unreachable: prioAndSplit only calls debugCycles after
	// the priority DFS already found a cycle.
	return newSentinel("dependency cycle found (unable to isolate minimal cycle)")
}
