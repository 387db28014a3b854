package clock

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopNotRunning is returned when posting to a stopped Loop.
var ErrLoopNotRunning = errors.New("loop not running")

// Loop runs posted callbacks one at a time on a single goroutine. It is the
// headless counterpart of the Bubble Tea update loop.
type Loop struct {
	mu      sync.Mutex
	queue   chan func()
	running bool
	done    chan struct{}
}

// NewLoop creates a Loop with the given queue depth.
func NewLoop(depth int) *Loop {
	if depth <= 0 {
		depth = 64
	}
	return &Loop{
		queue: make(chan func(), depth),
		done:  make(chan struct{}),
	}
}

// Run processes callbacks until ctx is cancelled. It blocks.
func (l *Loop) Run(ctx context.Context) {
	l.mu.Lock()
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post queues fn for the loop goroutine. Callbacks posted after the loop
// stopped are dropped.
func (l *Loop) Post(fn func()) {
	_ = l.TryPost(fn)
}

// TryPost is Post with an error when the loop has stopped.
func (l *Loop) TryPost(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopNotRunning
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrLoopNotRunning
	}
}

// Done is closed once Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
