package scheduler

// Producer yields successive groups of tasks. Each call to Next returns a
// group that is internally parallelizable — the caller has already
// partitioned the overall build into coarse, totally-ordered phases, and
// every group must complete (or be frozen) before the next one is asked
// for.
//
// A Producer is restartable only in the sense that it is consumed
// linearly by a single Driver.Start call; it is not expected to support
// concurrent consumers.
type Producer interface {
	// Next returns the next group of tasks, or ok==false if the producer
	// is exhausted.
	Next() (group []Task, ok bool)
}

// SliceProducer is a Producer over a fixed, pre-computed sequence of
// groups. Useful for tests and for hosts that compute the whole build
// plan up front.
type SliceProducer struct {
	groups [][]Task
	pos    int
}

// NewSliceProducer returns a Producer that yields each of groups in
// order, then reports exhaustion.
func NewSliceProducer(groups [][]Task) *SliceProducer {
	return &SliceProducer{groups: groups}
}

func (p *SliceProducer) Next() ([]Task, bool) {
	if p.pos >= len(p.groups) {
		return nil, false
	}
	g := p.groups[p.pos]
	p.pos++
	return g, true
}
