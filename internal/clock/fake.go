package clock

import (
	"sort"
	"time"
)

// Fake is a deterministic Scheduler for tests. Time only moves when Advance
// is called, and due callbacks run synchronously inside Advance in due-time
// order (ties broken by scheduling order).
type Fake struct {
	now     time.Duration
	seq     uint64
	pending []*fakeTimer
}

type fakeTimer struct {
	f       *Fake
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.f.remove(t)
	return true
}

// NewFake returns a fake clock at time zero.
func NewFake() *Fake {
	return &Fake{}
}

// Now reports the elapsed fake time.
func (f *Fake) Now() time.Duration { return f.now }

// AfterFunc implements Scheduler.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	return f.schedule(f.now+d, fn)
}

// RequestFrame implements Scheduler. Frames fire on FrameInterval
// boundaries, so a request made mid-frame waits for the next boundary.
func (f *Fake) RequestFrame(fn func()) Timer {
	next := (f.now/FrameInterval + 1) * FrameInterval
	return f.schedule(next, fn)
}

// Pending reports how many callbacks are scheduled and not yet run.
func (f *Fake) Pending() int { return len(f.pending) }

// Advance moves time forward by d, running every callback that falls due,
// including callbacks scheduled by other callbacks within the window.
func (f *Fake) Advance(d time.Duration) {
	end := f.now + d
	for {
		t := f.next(end)
		if t == nil {
			break
		}
		f.now = t.due
		t.fired = true
		t.fn()
	}
	f.now = end
}

// Step runs the single next pending callback, moving time to its due time.
// It reports false when nothing is pending.
func (f *Fake) Step() bool {
	if len(f.pending) == 0 {
		return false
	}
	t := f.pending[0]
	f.pending = f.pending[1:]
	if t.due > f.now {
		f.now = t.due
	}
	t.fired = true
	t.fn()
	return true
}

func (f *Fake) schedule(due time.Duration, fn func()) *fakeTimer {
	f.seq++
	t := &fakeTimer{f: f, due: due, seq: f.seq, fn: fn}
	f.pending = append(f.pending, t)
	sort.SliceStable(f.pending, func(i, j int) bool {
		if f.pending[i].due != f.pending[j].due {
			return f.pending[i].due < f.pending[j].due
		}
		return f.pending[i].seq < f.pending[j].seq
	})
	return t
}

func (f *Fake) next(end time.Duration) *fakeTimer {
	if len(f.pending) == 0 || f.pending[0].due > end {
		return nil
	}
	t := f.pending[0]
	f.pending = f.pending[1:]
	return t
}

func (f *Fake) remove(t *fakeTimer) {
	for i, p := range f.pending {
		if p == t {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
}
