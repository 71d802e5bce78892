package ringbuf

import (
	"sync"
	"time"
)

// waitQueue is a condition variable that supports deadlines.
//
// Waiters park on the current generation channel. signal closes that channel,
// which wakes every goroutine parked on it, and installs a fresh one. Waking
// more goroutines than necessary is harmless because each waiter re-checks
// its condition under the lock.
//
// All fields are guarded by the mutex passed to wait.
type waitQueue struct {
	ch      chan struct{}
	waiters int
}

func newWaitQueue() *waitQueue {
	return &waitQueue{ch: make(chan struct{})}
}

// wait atomically releases mu and parks until the queue is signaled or the
// deadline passes, then reacquires mu. mu must be held by the caller. A zero
// deadline waits forever. It reports false if the deadline passed without a
// signal.
func (q *waitQueue) wait(mu *sync.Mutex, deadline time.Time) bool {
	var timeout <-chan time.Time
	if !deadline.IsZero() {
		d := time.Until(deadline)
		if d <= 0 {
			return false
		}
		t := time.NewTimer(d)
		defer t.Stop()
		timeout = t.C
	}

	ch := q.ch
	q.waiters++
	mu.Unlock()

	signaled := true
	select {
	case <-ch:
	case <-timeout:
		signaled = false
	}

	mu.Lock()
	q.waiters--
	return signaled
}

// signal wakes all goroutines parked on the queue, not just one as
// sync.Cond.Signal would. Each of them re-checks its condition under the
// lock. It is a no-op when nobody is parked.
func (q *waitQueue) signal() {
	if q.waiters == 0 {
		return
	}
	close(q.ch)
	q.ch = make(chan struct{})
}

// broadcast is signal under the name used for lifecycle transitions.
func (q *waitQueue) broadcast() {
	q.signal()
}
