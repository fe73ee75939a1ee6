package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is the production Scheduler. Callbacks are queued and executed by Run.
type Loop struct {
	queue chan func()
	once  sync.Once
	done  chan struct{}
}

func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-l.queue:
			f()
		}
	}
}

func (l *Loop) post(f func()) bool {
	select {
	case <-l.done:
		return false
	case l.queue <- f:
		return true
	}
}

func (l *Loop) Now() time.Time { return time.Now() }

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

// Stop also suppresses a callback that already fired but still waits in the queue.
func (lt *loopTimer) Stop() bool {
	if lt.stopped.Swap(true) {
		return false
	}
	return lt.t.Stop()
}

func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.post(func() {
			if lt.stopped.Swap(true) {
				return
			}
			f()
		})
	})
	return lt
}

func (l *Loop) Go(work func(), done func()) {
	go func() {
		work()
		l.post(done)
	}()
}

// Call runs f on the loop and blocks until it returns or ctx ends.
func (l *Loop) Call(ctx context.Context, f func()) error {
	select {
	case <-l.done:
		return context.Canceled
	default:
	}

	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		f()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	case l.queue <- wrapped:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	case <-finished:
		return nil
	}
}
