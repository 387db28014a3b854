// Package clock schedules delayed callbacks for single-threaded state machines.
//
// Callbacks are bound to a context. Cancelling the context is the only way
// to revoke a callback; a callback whose context is done never runs.
package clock

import (
	"context"
	"time"
)

// Scheduler runs fn after delay unless ctx is cancelled first.
type Scheduler interface {
	Schedule(ctx context.Context, delay time.Duration, fn func())
}

// Poster hands a callback to the goroutine that owns the state it mutates.
type Poster func(fn func())

// Dispatcher schedules callbacks on the wall clock and delivers them
// through a Poster so they run on the owner's goroutine.
type Dispatcher struct {
	post Poster
}

// NewDispatcher creates a Dispatcher. A nil poster runs callbacks directly
// on the timer goroutine.
func NewDispatcher(post Poster) *Dispatcher {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Dispatcher{post: post}
}

// Schedule implements Scheduler.
func (d *Dispatcher) Schedule(ctx context.Context, delay time.Duration, fn func()) {
	if ctx.Err() != nil {
		return
	}
	if delay < 0 {
		delay = 0
	}

	var stop func() bool
	registered := make(chan struct{})
	timer := time.AfterFunc(delay, func() {
		<-registered
		stop()
		d.post(func() {
			// Checked again on the owner goroutine: cancellation may have
			// happened while the callback was queued.
			if ctx.Err() != nil {
				return
			}
			fn()
		})
	})
	// The ctx registration lives only until the timer fires.
	stop = context.AfterFunc(ctx, func() { timer.Stop() })
	close(registered)
}
