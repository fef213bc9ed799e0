package clock

import (
	"context"
	"sync"
	"time"
)

// Loop is a real-time Scheduler for native processes. Timers fire on their
// own goroutines but only enqueue; every callback runs on the goroutine that
// called Run. Once Run returns, callbacks are dropped.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop returns a loop with room for backlog queued callbacks.
func NewLoop(backlog int) *Loop {
	if backlog <= 0 {
		backlog = 64
	}
	return &Loop{queue: make(chan func(), backlog), done: make(chan struct{})}
}

type loopTimer struct {
	mu      sync.Mutex
	t       *time.Timer
	stopped bool
	fired   bool
}

func (lt *loopTimer) Stop() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.stopped || lt.fired {
		return false
	}
	lt.stopped = true
	lt.t.Stop()
	return true
}

// claim marks the timer fired unless it was stopped first.
func (lt *loopTimer) claim() bool {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.stopped {
		return false
	}
	lt.fired = true
	return true
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.mu.Lock()
	lt.t = time.AfterFunc(d, func() {
		l.enqueue(func() {
			if lt.claim() {
				fn()
			}
		})
	})
	lt.mu.Unlock()
	return lt
}

// RequestFrame implements Scheduler.
func (l *Loop) RequestFrame(fn func()) Timer {
	return l.AfterFunc(FrameInterval, fn)
}

// Post queues fn to run on the loop goroutine. It reports false, without
// blocking, once Run has returned.
func (l *Loop) Post(fn func()) bool {
	return l.enqueue(fn)
}

func (l *Loop) enqueue(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}
