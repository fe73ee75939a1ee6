package clock

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing runs until Advance is called.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue timerQueue
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Elapsed returns the virtual time passed since start.
func (m *Manual) Elapsed(start time.Time) time.Duration {
	return m.Now().Sub(start)
}

type manualTimer struct {
	m       *Manual
	when    time.Time
	seq     uint64
	f       func()
	index   int
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	if t.index >= 0 {
		heap.Remove(&t.m.queue, t.index)
	}
	return true
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, when: m.now.Add(d), seq: m.seq, f: f}
	heap.Push(&m.queue, t)
	return t
}

// Go runs work immediately and queues done at the current instant.
func (m *Manual) Go(work func(), done func()) {
	work()
	m.AfterFunc(0, done)
}

func (m *Manual) Call(_ context.Context, f func()) error {
	f()
	return nil
}

// Advance moves virtual time forward by d, firing every callback due in the window
// in (due time, scheduling order). Callbacks scheduled during the window fire too.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if len(m.queue) == 0 || m.queue[0].when.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}
		t := heap.Pop(&m.queue).(*manualTimer)
		t.stopped = true
		m.now = t.when
		m.mu.Unlock()

		t.f()
	}
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

type timerQueue []*manualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
