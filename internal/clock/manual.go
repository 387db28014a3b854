package clock

import (
	"context"
	"sort"
	"time"
)

// Manual is a virtual clock. Time only moves when Advance is called, and
// due callbacks run on the caller's goroutine in due-time order (ties in
// scheduling order). It is not safe for concurrent use.
type Manual struct {
	now     time.Duration
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	due time.Duration
	seq uint64
	ctx context.Context
	fn  func()
}

// NewManual returns a Manual clock at offset zero.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(ctx context.Context, delay time.Duration, fn func()) {
	if ctx.Err() != nil {
		return
	}
	if delay < 0 {
		delay = 0
	}
	m.seq++
	m.pending = append(m.pending, &manualTimer{
		due: m.now + delay,
		seq: m.seq,
		ctx: ctx,
		fn:  fn,
	})
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of live callbacks still waiting.
func (m *Manual) Pending() int {
	m.prune()
	return len(m.pending)
}

// Advance moves the clock forward by d, running every callback that falls
// due. Callbacks scheduled while advancing run too if they fall inside the
// window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.popDue(target)
		if next == nil {
			break
		}
		if next.due > m.now {
			m.now = next.due
		}
		next.fn()
	}
	m.now = target
}

// Run advances until no callbacks remain or limit elapses, returning the
// virtual time spent.
func (m *Manual) Run(limit time.Duration) time.Duration {
	start := m.now
	deadline := m.now + limit
	for {
		m.prune()
		if len(m.pending) == 0 {
			break
		}
		m.sortPending()
		due := m.pending[0].due
		if due > deadline {
			m.now = deadline
			break
		}
		m.Advance(due - m.now)
	}
	return m.now - start
}

func (m *Manual) popDue(target time.Duration) *manualTimer {
	m.prune()
	if len(m.pending) == 0 {
		return nil
	}
	m.sortPending()
	head := m.pending[0]
	if head.due > target {
		return nil
	}
	m.pending = m.pending[1:]
	return head
}

func (m *Manual) prune() {
	live := m.pending[:0]
	for _, t := range m.pending {
		if t.ctx.Err() == nil {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.pending); i++ {
		m.pending[i] = nil
	}
	m.pending = live
}

func (m *Manual) sortPending() {
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].due == m.pending[j].due {
			return m.pending[i].seq < m.pending[j].seq
		}
		return m.pending[i].due < m.pending[j].due
	})
}
